// Package sweep analyzes a cache-simulator parameter sweep.
//
// # Reading Guide
//
// The package is a one-shot batch pipeline. Each stage consumes an immutable
// slice produced by the stage before it and returns a new value:
//   - record.go: MetricRecord, ConfigKey and RunID (parsed from file names)
//   - extract.go: line classifier and per-run metric extraction
//   - load.go: corpus loading (directory scan, per-file extraction)
//   - selector.go: deterministic optimal-configuration selection
//   - aggregate.go: per-benchmark and cross-benchmark aggregation
//   - tradeoff.go: sets-vs-associativity comparison at equal capacity
//   - analysis.go: Analyze, which wires the stages together
//
// Rendering lives in sub-packages that consume a finished Analysis:
//   - sweep/report/: text summary, CSV and JSON export
//   - sweep/chart/: PNG/SVG charts via gonum/plot
//
// # Ordering
//
// Every sequence the package returns is ordered deterministically. Records
// of one benchmark and aggregated configurations are sorted ascending by
// (assoc, nsets); benchmarks keep the order in which they were first seen;
// size indices ascend. Re-running the pipeline on the same corpus yields
// bit-identical results.
//
// Duplicate runs (two files mapping to the same benchmark, nsets and assoc)
// are not deduplicated: both observations count toward every mean. Analyze
// reports them in Analysis.Duplicates so callers can fix the corpus.
package sweep
