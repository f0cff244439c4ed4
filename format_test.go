package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		OptimalHappiness: 1.75,
		Elapsed:          1234 * time.Microsecond,
		Stats:            Stats{Popped: 12, Pushed: 20},
		Solutions: []Solution{{
			Happiness: 1.75,
			Villages: []VillageResult{{
				Biomes:    []string{"Forest", "Ocean"},
				Happiness: 1.75,
				Houses: [][]Resident{{
					{NPC: "Guide", Happiness: []float64{0.85, 0.85}},
					{NPC: "Merchant", Happiness: []float64{0.85, 0.95}},
				}},
			}},
		}},
	}
}

func TestFormatResult(t *testing.T) {
	out := FormatResult(sampleResult())

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Total happiness: 1.75", lines[0])
	assert.Equal(t, strings.Repeat("-", len(lines[0])), lines[1])
	assert.Contains(t, out, "1 optimal layout(s), 12 states explored in 1ms")
	assert.Contains(t, out, "=== Layout 1 ===")
	assert.Contains(t, out, "Village 1 [Forest, Ocean] -> 1.75")
	assert.Contains(t, out, "  House 1: Guide (0.85); Merchant (0.85/0.95)")
	assert.NotContains(t, out, "warning")
}

func TestFormatResultTruncatedAndPartial(t *testing.T) {
	res := sampleResult()
	res.Truncated = true
	res.Stats.Dropped = 7
	res.Partial = &Solution{Happiness: 0.9, Unplaced: []string{"Nurse", "Painter"}}

	out := FormatResult(res)
	assert.Contains(t, out, "warning: 7 states dropped")
	assert.Contains(t, out, "=== Best partial layout (0.90) ===")
	assert.Contains(t, out, "Unplaced: Nurse, Painter")
}

func TestFormatResultWithoutLayouts(t *testing.T) {
	res := &Result{
		Stats:     Stats{Popped: 3, Dropped: 2},
		Truncated: true,
		Partial:   &Solution{Happiness: 1.8, Unplaced: []string{"C"}},
	}

	out := FormatResult(res)
	assert.True(t, strings.HasPrefix(out, "No complete layout found\n"))
	assert.Contains(t, out, "0 optimal layout(s), 3 states explored")
	assert.Contains(t, out, "warning: 2 states dropped")
	assert.Contains(t, out, "Unplaced: C")
}

func TestFormatHappiness(t *testing.T) {
	assert.Equal(t, "-", formatHappiness(nil))
	assert.Equal(t, "0.90", formatHappiness([]float64{0.9, 0.9, 0.9}))
	assert.Equal(t, "0.80/1.05", formatHappiness([]float64{0.8, 1.05}))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var back Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *sampleResult(), back)
	assert.Contains(t, buf.String(), `"optimalHappiness": 1.75`)
}
