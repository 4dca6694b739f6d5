// Package report renders a finished sweep.Analysis as text, CSV or JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/inference-sim/cachesweep/sweep"
)

// Print writes a human-readable summary of the analysis.
func Print(w io.Writer, a *sweep.Analysis) {
	fmt.Fprintln(w, "=== Per-Benchmark Optimal Configurations ===")
	for _, b := range a.Benchmarks {
		o := b.Optimal
		fmt.Fprintf(w, "%-12s : nsets=%-6d assoc=%-3d il1=%.6f dl1=%.6f total=%.6f (%d runs)\n",
			b.Benchmark, o.NSets, o.Assoc, o.IL1Miss, o.DL1Miss, o.Total(), len(b.Records))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Cross-Benchmark Average ===")
	fmt.Fprintf(w, "%8s %6s %10s %14s %8s\n", "nsets", "assoc", "size", "avg_total_miss", "samples")
	for _, c := range a.Global.Configs {
		fmt.Fprintf(w, "%8d %6d %10d %14.6f %8d\n", c.NSets, c.Assoc, c.Key().SizeIndex(), c.AvgTotalMiss, c.Samples)
	}
	if o := a.Global.Optimal; o != nil {
		fmt.Fprintf(w, "Global optimum       : nsets=%d assoc=%d avg_total_miss=%.6f\n", o.NSets, o.Assoc, o.AvgTotalMiss)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Sets vs Associativity at Equal Size ===")
	fmt.Fprintf(w, "%10s %14s %14s %14s\n", "size", "sets_dominant", "assoc_dominant", "preferred")
	for i, idx := range a.Tradeoff.SizeIndices {
		fmt.Fprintf(w, "%10d %14s %14s %14s\n", idx,
			formatMean(a.Tradeoff.SetsDominant[i]), formatMean(a.Tradeoff.AssocDominant[i]), a.Tradeoff.Preferred[i])
	}

	if len(a.Duplicates) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Duplicate runs (counted more than once): %d\n", len(a.Duplicates))
		for _, id := range a.Duplicates {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
}

func formatMean(m *float64) string {
	if m == nil {
		return "-"
	}
	return strconv.FormatFloat(*m, 'f', 6, 64)
}

// WriteCSV writes the cross-benchmark table, one row per aggregated config.
func WriteCSV(w io.Writer, a *sweep.Analysis) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"nsets", "assoc", "size_index", "dominance", "avg_total_miss", "samples"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range a.Global.Configs {
		row := []string{
			strconv.Itoa(c.NSets),
			strconv.Itoa(c.Assoc),
			strconv.Itoa(c.Key().SizeIndex()),
			sweep.DominanceOf(c.Key()).String(),
			strconv.FormatFloat(c.AvgTotalMiss, 'g', -1, 64),
			strconv.Itoa(c.Samples),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes the whole analysis as indented JSON. Absent means are null.
func WriteJSON(w io.Writer, a *sweep.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	return nil
}
