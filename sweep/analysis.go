package sweep

// Analysis is the full result of one pipeline run.
type Analysis struct {
	Benchmarks []BenchmarkResult `json:"benchmarks"` // first-seen benchmark order
	Global     GlobalResult      `json:"global"`
	Tradeoff   TradeoffResult    `json:"tradeoff"`
	Duplicates []RunID           `json:"duplicates,omitempty"` // runs observed more than once, in first-seen order
}

// Analyze runs both aggregators over records and classifies the global
// configs by capacity. records is treated as read-only.
func Analyze(records []MetricRecord) *Analysis {
	global := AggregateGlobal(records)
	return &Analysis{
		Benchmarks: AggregateByBenchmark(records),
		Global:     global,
		Tradeoff:   ClassifyTradeoff(global.Configs),
		Duplicates: findDuplicates(records),
	}
}

// findDuplicates lists run IDs contributed by more than one record.
func findDuplicates(records []MetricRecord) []RunID {
	counts := make(map[RunID]int, len(records))
	var dups []RunID
	for _, r := range records {
		counts[r.ID()]++
		if counts[r.ID()] == 2 {
			dups = append(dups, r.ID())
		}
	}
	return dups
}
