package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidInput rejects a catalog or policy before the search starts.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoSolution means the frontier emptied without reaching a complete assignment.
	ErrNoSolution = errors.New("no feasible complete assignment")
	// ErrCanceled means the search stopped on context cancellation or its time limit.
	ErrCanceled = errors.New("search canceled")
	// ErrTruncated means the frontier emptied without a complete assignment
	// after the frontier cap dropped states, so feasibility is unproven.
	ErrTruncated = errors.New("search truncated by frontier cap")
)

// Policy holds the placement restrictions of a search. It is read-only once
// the search starts.
type Policy struct {
	// BiomePins forces an NPC into a village of the given biome.
	BiomePins map[string]string `yaml:"biome_pins" json:"biomePins,omitempty"`
	// Groups lists NPCs that must share one house. Others may still join them.
	Groups [][]string `yaml:"groups" json:"groups,omitempty"`
	// Ceilings caps the happiness of individual NPCs.
	Ceilings map[string]float64 `yaml:"ceilings" json:"ceilings,omitempty"`
	// MaxHappiness caps every NPC. Zero disables it.
	MaxHappiness float64 `yaml:"max_happiness" json:"maxHappiness,omitempty"`

	MinHouseSize     int `yaml:"min_house_size" json:"minHouseSize,omitempty"`
	MaxHouseSize     int `yaml:"max_house_size" json:"maxHouseSize,omitempty"`
	MaxVillageHouses int `yaml:"max_village_houses" json:"maxVillageHouses,omitempty"`

	// Excluded NPCs are left out of the search entirely.
	Excluded []string `yaml:"excluded" json:"excluded,omitempty"`
	// Unrestricted NPCs are placed but no ceiling applies to them.
	Unrestricted []string `yaml:"unrestricted" json:"unrestricted,omitempty"`

	RequireAllBiomes bool `yaml:"require_all_biomes" json:"requireAllBiomes,omitempty"`
	IncludeInert     bool `yaml:"include_inert" json:"includeInert,omitempty"`

	// PylonThreshold requires every finished village to hold an NPC at or
	// below this happiness. Zero disables it.
	PylonThreshold float64 `yaml:"pylon_threshold" json:"pylonThreshold,omitempty"`
	// NonIncreasingHouses never lets a house be larger than the one placed
	// before it. Faster, but some partitions become unreachable.
	NonIncreasingHouses bool `yaml:"non_increasing_houses" json:"nonIncreasingHouses,omitempty"`

	Biomes []string `yaml:"biomes" json:"biomes,omitempty"`
}

// DefaultPolicy returns the classic restriction set: biome-locked vendors,
// the usual co-location pairs and a 0.85 ceiling so every NPC can sell a pylon.
func DefaultPolicy() Policy {
	return Policy{
		BiomePins: map[string]string{
			"Witch Doctor": "Jungle",
			"Truffle":      "Mushroom",
			"Santa Claus":  "Snow",
		},
		Groups: [][]string{
			{"Angler", "Pirate"},
			{"Arms Dealer", "Nurse"},
			{"Steampunker", "Cyborg", "Goblin Tinkerer"},
		},
		Ceilings:         map[string]float64{"Steampunker": 0.8},
		MaxHappiness:     0.85,
		MinHouseSize:     2,
		MaxHouseSize:     3,
		MaxVillageHouses: 1,
	}
}

// withDefaults fills zero-valued knobs.
func (p Policy) withDefaults() Policy {
	if p.MinHouseSize == 0 {
		p.MinHouseSize = 1
	}
	if p.MaxHouseSize == 0 {
		p.MaxHouseSize = 3
	}
	if p.MaxVillageHouses == 0 {
		p.MaxVillageHouses = 1
	}
	if len(p.Biomes) == 0 {
		p.Biomes = DefaultBiomes
	}
	return p
}

// LoadPolicy reads a YAML policy file.
func LoadPolicy(path string) (Policy, error) {
	var p Policy
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("%w: %s: %w", ErrInvalidInput, path, err)
	}
	return p, nil
}

// Validate checks the policy against the catalog and rejects contradictory
// hard constraints.
func (p Policy) Validate(cat *Catalog) error {
	p = p.withDefaults()
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
	}

	if p.MinHouseSize < 1 {
		return bad("min house size %d < 1", p.MinHouseSize)
	}
	if p.MinHouseSize > p.MaxHouseSize {
		return bad("min house size %d > max house size %d", p.MinHouseSize, p.MaxHouseSize)
	}
	if p.MaxVillageHouses < 1 {
		return bad("max village houses %d < 1", p.MaxVillageHouses)
	}
	if p.MaxHappiness < 0 || p.MaxHappiness > maxHappiness {
		return bad("max happiness %.2f outside [0, %.2f] (0 disables)", p.MaxHappiness, maxHappiness)
	}
	if p.PylonThreshold < 0 || p.PylonThreshold > maxHappiness {
		return bad("pylon threshold %.2f outside [0, %.2f] (0 disables)", p.PylonThreshold, maxHappiness)
	}

	seen := make(map[string]bool, len(p.Biomes))
	for _, b := range p.Biomes {
		if b == "" || seen[b] {
			return bad("biome list has an empty or duplicate entry %q", b)
		}
		seen[b] = true
	}

	known := func(what, name string) error {
		if _, ok := cat.Lookup(name); !ok {
			return bad("%s names unknown npc %q", what, name)
		}
		return nil
	}
	for name, biome := range p.BiomePins {
		if err := known("biome pin", name); err != nil {
			return err
		}
		if !seen[biome] {
			return bad("npc %q pinned to unknown biome %q", name, biome)
		}
	}
	for name, c := range p.Ceilings {
		if err := known("ceiling", name); err != nil {
			return err
		}
		if c <= 0 || c > maxHappiness {
			return bad("ceiling %.2f for %q outside (0, %.2f]", c, name, maxHappiness)
		}
	}
	for _, name := range p.Excluded {
		if err := known("exclusion", name); err != nil {
			return err
		}
	}
	for _, name := range p.Unrestricted {
		if err := known("unrestricted list", name); err != nil {
			return err
		}
	}
	for _, g := range p.Groups {
		for _, name := range g {
			if err := known("co-location group", name); err != nil {
				return err
			}
			if slices.Contains(p.Excluded, name) {
				return bad("co-location group member %q is excluded", name)
			}
			if i, _ := cat.Lookup(name); cat.NPCs[i].Inert() && !p.IncludeInert {
				return bad("co-location group member %q is inert and inert npcs are not included", name)
			}
		}
	}

	// Merged groups must fit one house and agree on their pins.
	for _, members := range mergeGroups(cat, p.Groups) {
		if len(members) > p.MaxHouseSize {
			return bad("co-location group of %d npcs exceeds max house size %d", len(members), p.MaxHouseSize)
		}
		pinned := ""
		for _, i := range members {
			b, ok := p.BiomePins[cat.NPCs[i].Name]
			if !ok {
				continue
			}
			if pinned != "" && pinned != b {
				return bad("co-location group pins %q to both %s and %s", cat.NPCs[i].Name, pinned, b)
			}
			pinned = b
		}
	}

	if len(placeable(cat, p)) == 0 {
		return bad("nothing left to place after exclusions")
	}
	return nil
}

// mergeGroups joins overlapping co-location groups with a union-find and
// returns the merged member lists keyed by their root catalog index.
func mergeGroups(cat *Catalog, groups [][]string) map[int][]int {
	uf := make([]int, cat.Len())
	for i := range uf {
		uf[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if uf[x] != x {
			uf[x] = find(uf[x])
		}
		return uf[x]
	}

	inGroup := make([]bool, cat.Len())
	for _, g := range groups {
		first := -1
		for _, name := range g {
			i, ok := cat.Lookup(name)
			if !ok {
				continue
			}
			inGroup[i] = true
			if first < 0 {
				first = i
				continue
			}
			uf[find(i)] = find(first)
		}
	}

	out := make(map[int][]int)
	for i := range uf {
		if inGroup[i] {
			r := find(i)
			out[r] = append(out[r], i)
		}
	}
	return out
}

// placeable returns the catalog indices the search must place, standard
// NPCs first and inert ones last, each in catalog order.
func placeable(cat *Catalog, p Policy) []int {
	var std, inert []int
	for i := range cat.NPCs {
		n := &cat.NPCs[i]
		if slices.Contains(p.Excluded, n.Name) {
			continue
		}
		if n.Inert() {
			if p.IncludeInert {
				inert = append(inert, i)
			}
			continue
		}
		std = append(std, i)
	}
	return append(std, inert...)
}
