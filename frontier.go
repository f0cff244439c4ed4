package main

import "container/heap"

// frontier is a min-heap of open states ordered by cost, then insertion order.
type frontier []*State

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].Cost != f[j].Cost {
		return f[i].Cost < f[j].Cost
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*State)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return s
}

// worst returns the index of the highest-cost state, newest first on ties.
// The maximum of a min-heap always sits among its leaves.
func (f frontier) worst() int {
	n := len(f)
	w := n / 2
	for i := w + 1; i < n; i++ {
		if f.Less(w, i) {
			w = i
		}
	}
	return w
}

// pushBounded pushes s while keeping at most limit states queued. It returns
// the state that had to be dropped, if any; that may be s itself.
func (f *frontier) pushBounded(s *State, limit int) *State {
	if limit <= 0 || f.Len() < limit {
		heap.Push(f, s)
		return nil
	}
	w := f.worst()
	if !((*f)[w].Cost > s.Cost || ((*f)[w].Cost == s.Cost && (*f)[w].seq > s.seq)) {
		return s
	}
	dropped := heap.Remove(f, w).(*State)
	heap.Push(f, s)
	return dropped
}
