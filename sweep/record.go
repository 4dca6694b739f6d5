package sweep

import (
	"fmt"
	"regexp"
	"strconv"
)

// runNamePattern matches "{benchmark}_s{nsets}_a{assoc}.txt" anywhere in a file name.
var runNamePattern = regexp.MustCompile(`([a-zA-Z0-9]+)_s(\d+)_a(\d+)\.txt`)

// RunID identifies one simulator run: a benchmark at one cache configuration.
type RunID struct {
	Benchmark string // workload name (alphanumeric)
	NSets     int    // number of cache sets (> 0)
	Assoc     int    // ways per set (> 0)
}

// Key returns the benchmark-independent sweep point of the run.
func (id RunID) Key() ConfigKey {
	return ConfigKey{NSets: id.NSets, Assoc: id.Assoc}
}

func (id RunID) String() string {
	return fmt.Sprintf("%s_s%d_a%d", id.Benchmark, id.NSets, id.Assoc)
}

// ParseRunID extracts the run identifier from a file name.
// The pattern is searched, not anchored: "exp1-gcc_s64_a4.txt" yields benchmark "gcc".
// Returns false when the name does not match or nsets/assoc is not a positive int.
func ParseRunID(name string) (RunID, bool) {
	m := runNamePattern.FindStringSubmatch(name)
	if m == nil {
		return RunID{}, false
	}
	nsets, err := strconv.Atoi(m[2])
	if err != nil || nsets <= 0 {
		return RunID{}, false
	}
	assoc, err := strconv.Atoi(m[3])
	if err != nil || assoc <= 0 {
		return RunID{}, false
	}
	return RunID{Benchmark: m[1], NSets: nsets, Assoc: assoc}, true
}

// ConfigKey identifies a sweep point independent of benchmark.
type ConfigKey struct {
	NSets int
	Assoc int
}

// SizeIndex returns nsets*assoc, the capacity-equivalence class of the key.
func (k ConfigKey) SizeIndex() int {
	return k.NSets * k.Assoc
}

// Less orders keys by (assoc, nsets), the canonical presentation order.
func (k ConfigKey) Less(o ConfigKey) bool {
	if k.Assoc != o.Assoc {
		return k.Assoc < o.Assoc
	}
	return k.NSets < o.NSets
}

// MetricRecord holds the miss rates extracted from one run.
// A record only exists when both miss rates were parsed.
type MetricRecord struct {
	Benchmark string  `json:"benchmark"`
	NSets     int     `json:"nsets"`
	Assoc     int     `json:"assoc"`
	IL1Miss   float64 `json:"il1_miss"` // instruction L1 miss rate
	DL1Miss   float64 `json:"dl1_miss"` // data L1 miss rate
}

// Total returns il1 + dl1, the score used for per-benchmark selection.
func (r MetricRecord) Total() float64 {
	return r.IL1Miss + r.DL1Miss
}

// Key returns the sweep point of the record.
func (r MetricRecord) Key() ConfigKey {
	return ConfigKey{NSets: r.NSets, Assoc: r.Assoc}
}

// ID returns the run identifier the record was extracted for.
func (r MetricRecord) ID() RunID {
	return RunID{Benchmark: r.Benchmark, NSets: r.NSets, Assoc: r.Assoc}
}
