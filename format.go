package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// FormatResult renders a result as the plain-text layout report.
func FormatResult(res *Result) string {
	var b strings.Builder

	header := fmt.Sprintf("Total happiness: %.2f", res.OptimalHappiness)
	if len(res.Solutions) == 0 {
		header = "No complete layout found"
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", len(header)) + "\n")
	fmt.Fprintf(&b, "%d optimal layout(s), %d states explored in %v\n",
		len(res.Solutions), res.Stats.Popped, res.Elapsed.Round(time.Millisecond))
	if res.Truncated {
		fmt.Fprintf(&b, "warning: %d states dropped by the frontier cap, layouts may not be optimal\n", res.Stats.Dropped)
	}

	for si := range res.Solutions {
		fmt.Fprintf(&b, "\n=== Layout %d ===\n", si+1)
		writeSolution(&b, &res.Solutions[si])
	}

	if res.Partial != nil {
		fmt.Fprintf(&b, "\n=== Best partial layout (%.2f) ===\n", res.Partial.Happiness)
		writeSolution(&b, res.Partial)
		if len(res.Partial.Unplaced) > 0 {
			fmt.Fprintf(&b, "Unplaced: %s\n", strings.Join(res.Partial.Unplaced, ", "))
		}
	}
	return b.String()
}

func writeSolution(b *strings.Builder, sol *Solution) {
	for vi := range sol.Villages {
		v := &sol.Villages[vi]
		fmt.Fprintf(b, "Village %d [%s] -> %.2f\n", vi+1, strings.Join(v.Biomes, ", "), v.Happiness)
		for hi, house := range v.Houses {
			parts := make([]string, len(house))
			for k, r := range house {
				parts[k] = fmt.Sprintf("%s (%s)", r.NPC, formatHappiness(r.Happiness))
			}
			fmt.Fprintf(b, "  House %d: %s\n", hi+1, strings.Join(parts, "; "))
		}
	}
}

// formatHappiness collapses per-biome values that are all equal.
func formatHappiness(hs []float64) string {
	if len(hs) == 0 {
		return "-"
	}
	same := true
	for _, h := range hs[1:] {
		if h != hs[0] {
			same = false
			break
		}
	}
	if same {
		return fmt.Sprintf("%.2f", hs[0])
	}
	parts := make([]string, len(hs))
	for i, h := range hs {
		parts[i] = fmt.Sprintf("%.2f", h)
	}
	return strings.Join(parts, "/")
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
