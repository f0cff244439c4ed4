package main

import (
	"fmt"
	"strings"
)

type Emotion int

const (
	EmotionNone Emotion = iota
	Loves
	Likes
	Dislikes
	Hates
)

// emotionOrder is the fixed order in which preference factors are applied.
var emotionOrder = [...]Emotion{Loves, Likes, Dislikes, Hates}

// Factor returns the happiness multiplier of the emotion.
func (e Emotion) Factor() float64 {
	switch e {
	case Loves:
		return 0.90
	case Likes:
		return 0.95
	case Dislikes:
		return 1.05
	case Hates:
		return 1.10
	}
	return 1
}

func (e Emotion) bit() uint8 {
	if e == EmotionNone {
		return 0
	}
	return 1 << (e - 1)
}

func (e Emotion) String() string {
	switch e {
	case Loves:
		return "Loves"
	case Likes:
		return "Likes"
	case Dislikes:
		return "Dislikes"
	case Hates:
		return "Hates"
	}
	return "None"
}

func parseEmotion(s string) Emotion {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "loves", "love":
		return Loves
	case "likes", "like":
		return Likes
	case "dislikes", "dislike":
		return Dislikes
	case "hates", "hate":
		return Hates
	}
	return EmotionNone
}

type NPCKind int

const (
	KindStandard NPCKind = iota
	KindInert            // town pets: fixed neutral happiness, no preferences
)

func (k NPCKind) String() string {
	if k == KindInert {
		return "inert"
	}
	return "standard"
}

func parseNPCKind(s string) (NPCKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "npc":
		return KindStandard, true
	case "inert", "pet":
		return KindInert, true
	}
	return KindStandard, false
}

// DefaultBiomes are the pylon biomes considered when a policy does not list its own.
var DefaultBiomes = []string{
	"Forest",
	"Snow",
	"Desert",
	"Underground",
	"Ocean",
	"Jungle",
	"Hallow",
	"Mushroom",
}

type Preference struct {
	Emotion Emotion
	Subject string // biome name or NPC name
}

// parsePreference reads "Likes Forest" style strings.
func parsePreference(s string) (Preference, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return Preference{}, fmt.Errorf("preference %q: want \"<emotion> <subject>\"", s)
	}
	e := parseEmotion(s[:i])
	if e == EmotionNone {
		return Preference{}, fmt.Errorf("preference %q: unknown emotion %q", s, s[:i])
	}
	return Preference{Emotion: e, Subject: strings.TrimSpace(s[i+1:])}, nil
}

type NPC struct {
	Name       string
	Kind       NPCKind
	BiomePrefs []Preference
	NPCPrefs   []Preference
}

func (n *NPC) Inert() bool { return n.Kind == KindInert }

// Catalog is the immutable, ordered set of NPCs a search runs over.
type Catalog struct {
	NPCs  []NPC
	index map[string]int
}

// NewCatalog indexes npcs by name. Names must be unique and non-empty.
func NewCatalog(npcs []NPC) (*Catalog, error) {
	if len(npcs) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrInvalidInput)
	}
	c := &Catalog{NPCs: npcs, index: make(map[string]int, len(npcs))}
	for i := range npcs {
		name := npcs[i].Name
		if name == "" {
			return nil, fmt.Errorf("%w: npc #%d has no name", ErrInvalidInput, i+1)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate npc %q", ErrInvalidInput, name)
		}
		c.index[name] = i
	}
	return c, nil
}

// Lookup returns the catalog index of the named NPC.
func (c *Catalog) Lookup(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

func (c *Catalog) Len() int { return len(c.NPCs) }

// ── Search data ─────────────────────────────────────────────────────

// Village is an ordered list of houses sharing one biome assignment.
// Villages are immutable once built; extending one yields a copy.
type Village struct {
	Houses [][]int // catalog indices; Houses[h][0] is the house anchor

	homes     map[int]int // npc -> house index
	houseOcc  []int       // standard occupants per house
	occupants int         // standard occupants in the whole village
	sealed    bool        // no more houses will be added

	Biomes    []int   // indices into the evaluator's biome list, all tied at the minimum
	Happiness float64 // minimal total over Biomes, +Inf when infeasible everywhere
}

func (v *Village) houseOf(npc int) (int, bool) {
	h, ok := v.homes[npc]
	return h, ok
}

func (v *Village) size() int {
	n := 0
	for _, h := range v.Houses {
		n += len(h)
	}
	return n
}

// State is a node of the search: finalized villages plus the NPCs still to place.
type State struct {
	Villages  []*Village
	Remaining []int
	Cost      float64

	seq uint64 // insertion order, breaks cost ties
}

func (s *State) Terminal() bool { return len(s.Remaining) == 0 }

func (s *State) lastVillage() *Village {
	if len(s.Villages) == 0 {
		return nil
	}
	return s.Villages[len(s.Villages)-1]
}
