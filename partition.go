package main

import "iter"

// Groupings yields every group of seq with a size in [minSize, maxSize] that
// contains seq[0], together with the elements left over. Both slices are
// freshly allocated per yield and keep seq's order. Anchoring every group on
// seq[0] makes each set partition come out exactly once when the remainder
// is fed back in.
func Groupings(seq []int, minSize, maxSize int) iter.Seq2[[]int, []int] {
	return func(yield func([]int, []int) bool) {
		if len(seq) == 0 {
			return
		}
		lo, hi := max(minSize, 1), min(maxSize, len(seq))
		rest := seq[1:]

		for k := lo; k <= hi; k++ {
			// idx picks k-1 positions of rest in lexicographic order.
			idx := make([]int, k-1)
			for i := range idx {
				idx[i] = i
			}
			for {
				group := make([]int, 0, k)
				group = append(group, seq[0])
				remainder := make([]int, 0, len(seq)-k)
				p := 0
				for i, v := range rest {
					if p < len(idx) && idx[p] == i {
						group = append(group, v)
						p++
					} else {
						remainder = append(remainder, v)
					}
				}
				if !yield(group, remainder) {
					return
				}

				i := len(idx) - 1
				for i >= 0 && idx[i] == len(rest)-len(idx)+i {
					i--
				}
				if i < 0 {
					break
				}
				idx[i]++
				for j := i + 1; j < len(idx); j++ {
					idx[j] = idx[j-1] + 1
				}
			}
		}
	}
}

// interchangeable marks inert NPCs nobody refers to: swapping two of them
// between houses never changes any score, so only one ordering is searched.
func interchangeable(cat *Catalog, pol Policy) []bool {
	named := make(map[string]bool)
	for i := range cat.NPCs {
		for _, p := range cat.NPCs[i].NPCPrefs {
			named[p.Subject] = true
		}
	}
	for name := range pol.BiomePins {
		named[name] = true
	}
	for name := range pol.Ceilings {
		named[name] = true
	}
	for _, g := range pol.Groups {
		for _, name := range g {
			named[name] = true
		}
	}
	for _, name := range pol.Unrestricted {
		named[name] = true
	}

	out := make([]bool, cat.Len())
	for i := range cat.NPCs {
		out[i] = cat.NPCs[i].Inert() && !named[cat.NPCs[i].Name]
	}
	return out
}

// canonicalPets reports whether the interchangeable entities in group are
// the lowest-ordered ones still unplaced. remaining must be in search order.
func canonicalPets(swap []bool, group, remaining []int) bool {
	in := func(x int) bool {
		for _, g := range group {
			if g == x {
				return true
			}
		}
		return false
	}
	skipped := false
	for _, npc := range remaining {
		if !swap[npc] {
			continue
		}
		switch {
		case !in(npc):
			skipped = true
		case skipped:
			return false
		}
	}
	return true
}
