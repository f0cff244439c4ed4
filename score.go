package main

import (
	"math"
	"slices"
)

const (
	minHappiness = 0.75
	maxHappiness = 1.5

	crowdingBase   = 1.04 // per occupant beyond three in one house
	solitudeFactor = 0.9  // small house in a small village

	ceilingEps = 1e-9
)

var inf = math.Inf(1)

// round5 rounds to the nearest 0.05.
func round5(v float64) float64 {
	if math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*20) / 20
}

func clampHappiness(v float64) float64 {
	return min(max(v, minHappiness), maxHappiness)
}

// ── Evaluator ───────────────────────────────────────────────────────

// evaluator scores NPCs, villages and states under one policy. Everything it
// holds is precomputed from the catalog and policy and never mutated.
type evaluator struct {
	cat    *Catalog
	pol    Policy
	biomes []string

	inert        []bool
	pin          []int     // biome index, -1 when free
	ceiling      []float64 // 0 when none
	unrestricted []bool
	group        [][]int   // other members of the merged co-location group
	rel          [][]uint8 // rel[i][j]: emotion bits npc i holds for npc j
	biomeRel     [][]uint8 // biomeRel[i][b]: emotion bits npc i holds for biome b
}

func newEvaluator(cat *Catalog, pol Policy) *evaluator {
	pol = pol.withDefaults()
	n := cat.Len()
	ev := &evaluator{
		cat:          cat,
		pol:          pol,
		biomes:       pol.Biomes,
		inert:        make([]bool, n),
		pin:          make([]int, n),
		ceiling:      make([]float64, n),
		unrestricted: make([]bool, n),
		group:        make([][]int, n),
		rel:          make([][]uint8, n),
		biomeRel:     make([][]uint8, n),
	}

	for i := range cat.NPCs {
		npc := &cat.NPCs[i]
		ev.inert[i] = npc.Inert()
		ev.pin[i] = -1
		if b, ok := pol.BiomePins[npc.Name]; ok {
			ev.pin[i] = slices.Index(ev.biomes, b)
		}
		ev.ceiling[i] = pol.Ceilings[npc.Name]
		ev.unrestricted[i] = slices.Contains(pol.Unrestricted, npc.Name)

		ev.rel[i] = make([]uint8, n)
		for _, p := range npc.NPCPrefs {
			if j, ok := cat.Lookup(p.Subject); ok {
				ev.rel[i][j] |= p.Emotion.bit()
			}
		}
		ev.biomeRel[i] = make([]uint8, len(ev.biomes))
		for _, p := range npc.BiomePrefs {
			if b := slices.Index(ev.biomes, p.Subject); b >= 0 {
				ev.biomeRel[i][b] |= p.Emotion.bit()
			}
		}
	}

	for _, members := range mergeGroups(cat, pol.Groups) {
		for _, i := range members {
			for _, j := range members {
				if i != j {
					ev.group[i] = append(ev.group[i], j)
				}
			}
		}
	}
	return ev
}

// happiness evaluates npc inside v under biome b. With enforce set it returns
// +Inf when the placement breaks a restriction.
func (ev *evaluator) happiness(npc int, v *Village, b int, enforce bool) float64 {
	if ev.inert[npc] {
		return 1
	}
	hi, ok := v.houseOf(npc)
	if !ok {
		return inf
	}
	house := v.Houses[hi]

	h := 1.0
	if occ := v.houseOcc[hi]; occ >= 3 {
		h *= math.Pow(crowdingBase, float64(occ-3))
	} else if v.occupants <= 4 {
		h *= solitudeFactor
	}

	for _, e := range emotionOrder {
		bit := e.bit()
		if ev.biomeRel[npc][b]&bit != 0 {
			h *= e.Factor()
		}
		for _, other := range house {
			if other != npc && ev.rel[npc][other]&bit != 0 {
				h *= e.Factor()
			}
		}
	}
	h = round5(clampHappiness(h))

	if !enforce {
		return h
	}
	if !ev.unrestricted[npc] {
		if c := ev.pol.MaxHappiness; c > 0 && h > c+ceilingEps {
			return inf
		}
		if c := ev.ceiling[npc]; c > 0 && h > c+ceilingEps {
			return inf
		}
	}
	if p := ev.pin[npc]; p >= 0 && p != b {
		return inf
	}
	for _, m := range ev.group[npc] {
		if mh, ok := v.houseOf(m); !ok || mh != hi {
			return inf
		}
	}
	return h
}

// villageTotal sums the village under biome b. A sealed village must also
// satisfy the pylon threshold when the policy sets one.
func (ev *evaluator) villageTotal(v *Village, b int) float64 {
	threshold := ev.pol.PylonThreshold
	pylon := threshold <= 0 || !v.sealed
	sum := 0.0
	for _, house := range v.Houses {
		for _, npc := range house {
			if ev.inert[npc] {
				continue
			}
			h := ev.happiness(npc, v, b, true)
			if math.IsInf(h, 1) {
				return inf
			}
			if h <= threshold+ceilingEps {
				pylon = true
			}
			sum += h
		}
	}
	if !pylon {
		return inf
	}
	return round5(sum)
}

// scoreVillage keeps every biome reaching the minimal total.
func (ev *evaluator) scoreVillage(v *Village) {
	v.Happiness = inf
	v.Biomes = nil
	for b := range ev.biomes {
		t := ev.villageTotal(v, b)
		switch {
		case math.IsInf(t, 1):
		case t < v.Happiness:
			v.Happiness = t
			v.Biomes = append(v.Biomes[:0], b)
		case t == v.Happiness:
			v.Biomes = append(v.Biomes, b)
		}
	}
}

// buildVillage returns a new scored village made of base's houses plus house.
// base may be nil.
func (ev *evaluator) buildVillage(base *Village, house []int) *Village {
	v := &Village{homes: make(map[int]int)}
	if base != nil {
		v.Houses = make([][]int, len(base.Houses), len(base.Houses)+1)
		copy(v.Houses, base.Houses)
		v.houseOcc = append(make([]int, 0, len(base.houseOcc)+1), base.houseOcc...)
		v.occupants = base.occupants
		for k, h := range base.homes {
			v.homes[k] = h
		}
	}
	hi := len(v.Houses)
	v.Houses = append(v.Houses, house)
	occ := 0
	for _, npc := range house {
		v.homes[npc] = hi
		if !ev.inert[npc] {
			occ++
		}
	}
	v.houseOcc = append(v.houseOcc, occ)
	v.occupants += occ
	v.sealed = len(v.Houses) >= ev.pol.MaxVillageHouses
	ev.scoreVillage(v)
	return v
}

// seal closes v for further houses and rescores it when sealing can change
// the outcome.
func (ev *evaluator) seal(v *Village) *Village {
	if v.sealed {
		return v
	}
	c := *v
	c.sealed = true
	if ev.pol.PylonThreshold > 0 {
		c.Biomes = nil
		ev.scoreVillage(&c)
	}
	return &c
}

// stateCost is the rounded sum of village totals.
func stateCost(villages []*Village) float64 {
	sum := 0.0
	for _, v := range villages {
		if math.IsInf(v.Happiness, 1) {
			return inf
		}
		sum += v.Happiness
	}
	return round5(sum)
}

// residentHappiness reports npc under every best biome of v without
// enforcing restrictions.
func (ev *evaluator) residentHappiness(npc int, v *Village) []float64 {
	out := make([]float64, len(v.Biomes))
	for k, b := range v.Biomes {
		out[k] = ev.happiness(npc, v, b, false)
	}
	return out
}

// coversBiomes reports whether every candidate biome can be given to a
// distinct village drawn from that village's best biomes.
func (ev *evaluator) coversBiomes(villages []*Village) bool {
	if !ev.pol.RequireAllBiomes {
		return true
	}
	nb := len(ev.biomes)
	if len(villages) < nb {
		return false
	}
	owner := make([]int, len(villages)) // village -> biome
	for i := range owner {
		owner[i] = -1
	}
	var seen []bool
	var assign func(b int) bool
	assign = func(b int) bool {
		for vi, v := range villages {
			if seen[vi] || !slices.Contains(v.Biomes, b) {
				continue
			}
			seen[vi] = true
			if owner[vi] < 0 || assign(owner[vi]) {
				owner[vi] = b
				return true
			}
		}
		return false
	}
	for b := 0; b < nb; b++ {
		seen = make([]bool, len(villages))
		if !assign(b) {
			return false
		}
	}
	return true
}
