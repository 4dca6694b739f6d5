package sweep

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// BenchmarkResult is the per-benchmark view of the sweep.
type BenchmarkResult struct {
	Benchmark string         `json:"benchmark"`
	Records   []MetricRecord `json:"records"` // sorted by (assoc, nsets)
	Optimal   MetricRecord   `json:"optimal"` // lowest il1+dl1, first in canonical order on ties
}

// Associativities returns the distinct assoc values of the benchmark, ascending.
func (b BenchmarkResult) Associativities() []int {
	var out []int
	for _, r := range b.Records {
		if len(out) == 0 || out[len(out)-1] != r.Assoc {
			out = append(out, r.Assoc)
		}
	}
	return out
}

// AggregatedConfig is one sweep point averaged across all benchmarks.
type AggregatedConfig struct {
	NSets        int     `json:"nsets"`
	Assoc        int     `json:"assoc"`
	AvgTotalMiss float64 `json:"avg_total_miss"` // mean of il1+dl1 over every contributing record
	Samples      int     `json:"samples"`        // number of contributing records, always >= 1
}

// Key returns the sweep point of the config.
func (c AggregatedConfig) Key() ConfigKey {
	return ConfigKey{NSets: c.NSets, Assoc: c.Assoc}
}

// GlobalResult is the cross-benchmark view of the sweep.
type GlobalResult struct {
	Configs []AggregatedConfig `json:"configs"` // sorted by (assoc, nsets)
	Optimal *AggregatedConfig  `json:"optimal"` // nil when Configs is empty
}

// AggregateByBenchmark partitions records by benchmark in first-seen order,
// sorts each partition by (assoc, nsets) and selects its optimal record.
// The input slice is not modified.
func AggregateByBenchmark(records []MetricRecord) []BenchmarkResult {
	var order []string
	groups := make(map[string][]MetricRecord)
	for _, r := range records {
		if _, seen := groups[r.Benchmark]; !seen {
			order = append(order, r.Benchmark)
		}
		groups[r.Benchmark] = append(groups[r.Benchmark], r)
	}

	results := make([]BenchmarkResult, 0, len(order))
	for _, name := range order {
		recs := groups[name]
		slices.SortStableFunc(recs, func(a, b MetricRecord) int {
			return compareKeys(a.Key(), b.Key())
		})
		best, _, _ := SelectOptimal(recs, MetricRecord.Total)
		results = append(results, BenchmarkResult{
			Benchmark: name,
			Records:   recs,
			Optimal:   best,
		})
	}
	return results
}

// AggregateGlobal groups records by ConfigKey regardless of benchmark and
// averages il1+dl1 per group. Duplicate runs each count toward the mean.
func AggregateGlobal(records []MetricRecord) GlobalResult {
	totals := make(map[ConfigKey][]float64)
	for _, r := range records {
		totals[r.Key()] = append(totals[r.Key()], r.Total())
	}

	configs := make([]AggregatedConfig, 0, len(totals))
	for k, ts := range totals {
		configs = append(configs, AggregatedConfig{
			NSets:        k.NSets,
			Assoc:        k.Assoc,
			AvgTotalMiss: stat.Mean(ts, nil),
			Samples:      len(ts),
		})
	}
	slices.SortFunc(configs, func(a, b AggregatedConfig) int {
		return compareKeys(a.Key(), b.Key())
	})

	res := GlobalResult{Configs: configs}
	if best, _, ok := SelectOptimal(configs, func(c AggregatedConfig) float64 { return c.AvgTotalMiss }); ok {
		res.Optimal = &best
	}
	return res
}

func compareKeys(a, b ConfigKey) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
