package main

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontierOrder(t *testing.T) {
	var f frontier
	for i, c := range []float64{2.0, 1.0, 2.0, 0.5} {
		heap.Push(&f, &State{Cost: c, seq: uint64(i + 1)})
	}
	var got []uint64
	for f.Len() > 0 {
		got = append(got, heap.Pop(&f).(*State).seq)
	}
	assert.Equal(t, []uint64{4, 2, 1, 3}, got, "cost first, then insertion order")
}

func TestFrontierPushBounded(t *testing.T) {
	var f frontier
	require.Nil(t, f.pushBounded(&State{Cost: 1, seq: 1}, 2))
	require.Nil(t, f.pushBounded(&State{Cost: 3, seq: 2}, 2))

	// Worse than everything queued: the newcomer is dropped.
	worse := &State{Cost: 4, seq: 3}
	assert.Same(t, worse, f.pushBounded(worse, 2))

	// Better than the worst: the worst is evicted.
	d := f.pushBounded(&State{Cost: 2, seq: 4}, 2)
	require.NotNil(t, d)
	assert.Equal(t, uint64(2), d.seq)

	// Equal cost: the newer state goes.
	tie := &State{Cost: 2, seq: 5}
	assert.Same(t, tie, f.pushBounded(tie, 2))
	assert.Equal(t, 2, f.Len())

	var unbounded frontier
	for i := range 10 {
		assert.Nil(t, unbounded.pushBounded(&State{Cost: float64(i), seq: uint64(i)}, 0))
	}
	assert.Equal(t, 10, unbounded.Len())
}
