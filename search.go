package main

import (
	"container/heap"
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// ── Results ─────────────────────────────────────────────────────────

// Resident is one NPC of a reported house with its happiness under each of
// the village's best biomes.
type Resident struct {
	NPC       string    `json:"npc"`
	Happiness []float64 `json:"happiness"`
}

// VillageResult is a reported village.
type VillageResult struct {
	Biomes    []string     `json:"biomes"`
	Happiness float64      `json:"happiness"`
	Houses    [][]Resident `json:"houses"`
}

// Solution is one complete (or, for Result.Partial, incomplete) assignment.
type Solution struct {
	Happiness float64         `json:"happiness"`
	Villages  []VillageResult `json:"villages"`
	Unplaced  []string        `json:"unplaced,omitempty"`
}

// Stats counts the work the search did.
type Stats struct {
	Pushed       int `json:"pushed"`
	Popped       int `json:"popped"`
	Pruned       int `json:"pruned"`
	Dropped      int `json:"dropped"`
	PeakFrontier int `json:"peakFrontier"`
}

// Result is what a search reports. Solutions holds every tied-optimal
// assignment. Truncated is set when the frontier cap dropped states, in
// which case optimality is no longer guaranteed. Partial is set when the
// search stops without a proven answer: it is the expanded state with the
// fewest NPCs left, the cheapest of those.
type Result struct {
	OptimalHappiness float64       `json:"optimalHappiness"`
	Solutions        []Solution    `json:"solutions"`
	Elapsed          time.Duration `json:"elapsed"`
	Stats            Stats         `json:"stats"`
	Truncated        bool          `json:"truncated,omitempty"`
	Partial          *Solution     `json:"partial,omitempty"`
}

// Progress is reported whenever the popped cost changes.
type Progress struct {
	Elapsed   time.Duration
	Happiness float64
	Frontier  int
	Popped    int
}

// ── Optimizer ───────────────────────────────────────────────────────

// Optimizer runs a uniform-cost search over house/village partitions. Costs
// never decrease along an expansion path, so the first complete state popped
// is optimal; the search keeps popping to collect every tie.
type Optimizer struct {
	cat *Catalog
	pol Policy
	cfg Config
	ev  *evaluator

	order []int  // search position of each catalog index, -1 when not placed
	swap  []bool // interchangeable entities, see canonicalPets

	// OnProgress, when set, is called each time the popped cost changes and
	// every Config.ProgressEvery pops.
	OnProgress func(Progress)

	frontier frontier
	seq      uint64
	stats    Stats
	start    time.Time
}

// NewOptimizer validates the inputs and prepares a search.
func NewOptimizer(cat *Catalog, pol Policy, cfg Config) (*Optimizer, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrInvalidInput)
	}
	if err := pol.Validate(cat); err != nil {
		return nil, err
	}
	pol = pol.withDefaults()
	o := &Optimizer{
		cat:   cat,
		pol:   pol,
		cfg:   cfg,
		ev:    newEvaluator(cat, pol),
		order: make([]int, cat.Len()),
	}
	for i := range o.order {
		o.order[i] = -1
	}
	for pos, npc := range placeable(cat, pol) {
		o.order[npc] = pos
	}
	o.swap = interchangeable(cat, pol)
	return o, nil
}

// Search finds every optimal assignment of cat under pol.
func Search(ctx context.Context, cat *Catalog, pol Policy, cfg Config) (*Result, error) {
	o, err := NewOptimizer(cat, pol, cfg)
	if err != nil {
		return nil, err
	}
	return o.Optimize(ctx)
}

func (o *Optimizer) initialState() *State {
	return &State{Remaining: placeable(o.cat, o.pol)}
}

// push queues s. Infeasible states are counted and discarded.
func (o *Optimizer) push(s *State) {
	if math.IsInf(s.Cost, 1) {
		o.stats.Pruned++
		return
	}
	o.seq++
	s.seq = o.seq
	o.stats.Pushed++
	if d := o.frontier.pushBounded(s, o.cfg.MaxFrontier); d != nil {
		o.stats.Dropped++
	}
	if n := o.frontier.Len(); n > o.stats.PeakFrontier {
		o.stats.PeakFrontier = n
	}
}

func (o *Optimizer) newState(prefix []*Village, v *Village, remaining []int) *State {
	if math.IsInf(v.Happiness, 1) {
		return &State{Cost: inf}
	}
	if len(remaining) == 0 {
		v = o.ev.seal(v)
	}
	villages := make([]*Village, len(prefix)+1)
	copy(villages, prefix)
	villages[len(prefix)] = v
	return &State{Villages: villages, Remaining: remaining, Cost: stateCost(villages)}
}

// successors expands s: every next house either opens a new village or joins
// the last one. Houses inside a village are ordered by their first member and
// villages by theirs, so each village/house partition is reached once.
func (o *Optimizer) successors(s *State) []*State {
	var out []*State
	last := s.lastVillage()

	maxSize := o.pol.MaxHouseSize
	if o.pol.NonIncreasingHouses && last != nil {
		maxSize = min(maxSize, len(last.Houses[len(last.Houses)-1]))
	}

	// Open a new village, sealing the previous one.
	prefix := s.Villages
	if last != nil && !last.sealed {
		sealed := o.ev.seal(last)
		prefix = make([]*Village, len(s.Villages))
		copy(prefix, s.Villages)
		prefix[len(prefix)-1] = sealed
	}
	if stateCost(prefix) < inf {
		for group, rest := range Groupings(s.Remaining, o.pol.MinHouseSize, maxSize) {
			if !canonicalPets(o.swap, group, s.Remaining) {
				continue
			}
			out = append(out, o.newState(prefix, o.ev.buildVillage(nil, group), rest))
		}
	} else {
		o.stats.Pruned++
	}

	// Extend the open village with a house anchored after its last house.
	if last == nil || last.sealed {
		return out
	}
	anchor := o.order[last.Houses[len(last.Houses)-1][0]]
	head := s.Villages[:len(s.Villages)-1]
	for i, npc := range s.Remaining {
		if o.order[npc] < anchor {
			continue
		}
		for group, rest := range Groupings(s.Remaining[i:], o.pol.MinHouseSize, maxSize) {
			if !canonicalPets(o.swap, group, s.Remaining) {
				continue
			}
			remaining := make([]int, 0, i+len(rest))
			remaining = append(remaining, s.Remaining[:i]...)
			remaining = append(remaining, rest...)
			out = append(out, o.newState(head, o.ev.buildVillage(last, group), remaining))
		}
	}
	return out
}

// Optimize runs the search loop until the optimum and all its ties are
// collected, the frontier empties, or ctx is done.
func (o *Optimizer) Optimize(ctx context.Context) (*Result, error) {
	o.start = time.Now()
	o.frontier, o.seq, o.stats = nil, 0, Stats{}
	if o.cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.TimeLimit)
		defer cancel()
	}

	o.logf("[init] npcs=%d placeable=%d biomes=%d houses=[%d,%d] village_houses=%d max_frontier=%s\n",
		o.cat.Len(), len(o.initialState().Remaining), len(o.ev.biomes),
		o.pol.MinHouseSize, o.pol.MaxHouseSize, o.pol.MaxVillageHouses,
		humanize.Comma(int64(o.cfg.MaxFrontier)))

	heap.Init(&o.frontier)
	o.push(o.initialState())

	var (
		found   []*State
		partial *State // expanded state with the fewest NPCs left, cheapest first
	)
	best, lastCost := inf, -1.0
	for o.frontier.Len() > 0 {
		if err := ctx.Err(); err != nil {
			res := o.result(found, best)
			res.Partial = o.partialSolution(partial)
			o.logf("[cancel] popped=%s solutions=%d: %v\n", humanize.Comma(int64(o.stats.Popped)), len(found), err)
			return res, fmt.Errorf("%w: %w", ErrCanceled, err)
		}

		s := heap.Pop(&o.frontier).(*State)
		o.stats.Popped++
		if len(found) > 0 && s.Cost > best {
			break
		}
		if s.Cost != lastCost || (o.cfg.ProgressEvery > 0 && o.stats.Popped%o.cfg.ProgressEvery == 0) {
			lastCost = s.Cost
			o.progress(s.Cost)
		}

		if s.Terminal() {
			if o.ev.coversBiomes(s.Villages) {
				best = s.Cost
				found = append(found, s)
				if o.cfg.Verbose {
					o.logf("[found] happiness=%.2f solutions=%d\n", best, len(found))
				}
			}
			continue
		}
		if partial == nil || len(s.Remaining) < len(partial.Remaining) {
			partial = s
		}
		for _, c := range o.successors(s) {
			o.push(c)
		}
	}

	if len(found) == 0 && o.stats.Dropped > 0 {
		res := o.result(nil, inf)
		res.Partial = o.partialSolution(partial)
		o.logf("[done] no solution after %s states, %s dropped by the frontier cap\n",
			humanize.Comma(int64(o.stats.Popped)), humanize.Comma(int64(o.stats.Dropped)))
		return res, fmt.Errorf("%w: frontier exhausted after %d states with %d dropped", ErrTruncated, o.stats.Popped, o.stats.Dropped)
	}
	if len(found) == 0 {
		o.logf("[done] no solution after %s states\n", humanize.Comma(int64(o.stats.Popped)))
		return nil, fmt.Errorf("%w: frontier exhausted after %d states", ErrNoSolution, o.stats.Popped)
	}
	res := o.result(found, best)
	if o.stats.Dropped > 0 {
		o.logf("[warn] frontier cap dropped %s states, optimality not guaranteed\n", humanize.Comma(int64(o.stats.Dropped)))
	}
	o.logf("[done] happiness=%.2f solutions=%d elapsed=%v\n", best, len(found), res.Elapsed)
	return res, nil
}

func (o *Optimizer) partialSolution(s *State) *Solution {
	if s == nil {
		return nil
	}
	p := o.solution(s)
	return &p
}

func (o *Optimizer) result(found []*State, best float64) *Result {
	res := &Result{
		OptimalHappiness: best,
		Elapsed:          time.Since(o.start),
		Stats:            o.stats,
		Truncated:        o.stats.Dropped > 0,
	}
	if len(found) == 0 {
		res.OptimalHappiness = 0
	}
	for _, s := range found {
		res.Solutions = append(res.Solutions, o.solution(s))
	}
	return res
}

func (o *Optimizer) solution(s *State) Solution {
	sol := Solution{Happiness: s.Cost}
	for _, v := range s.Villages {
		vr := VillageResult{Happiness: v.Happiness}
		for _, b := range v.Biomes {
			vr.Biomes = append(vr.Biomes, o.ev.biomes[b])
		}
		for _, house := range v.Houses {
			residents := make([]Resident, len(house))
			for k, npc := range house {
				residents[k] = Resident{
					NPC:       o.cat.NPCs[npc].Name,
					Happiness: o.ev.residentHappiness(npc, v),
				}
			}
			vr.Houses = append(vr.Houses, residents)
		}
		sol.Villages = append(sol.Villages, vr)
	}
	for _, npc := range s.Remaining {
		sol.Unplaced = append(sol.Unplaced, o.cat.NPCs[npc].Name)
	}
	return sol
}

func (o *Optimizer) progress(cost float64) {
	p := Progress{
		Elapsed:   time.Since(o.start),
		Happiness: cost,
		Frontier:  o.frontier.Len(),
		Popped:    o.stats.Popped,
	}
	if o.OnProgress != nil {
		o.OnProgress(p)
	}
	if o.cfg.Verbose {
		o.logf("[progress] elapsed=%v happiness=%.2f frontier=%s popped=%s\n",
			p.Elapsed.Round(time.Millisecond), p.Happiness,
			humanize.Comma(int64(p.Frontier)), humanize.Comma(int64(p.Popped)))
	}
}

func (o *Optimizer) logf(format string, args ...any) {
	fmt.Fprintf(logw(), format, args...)
}

func logw() *os.File { return os.Stderr }
