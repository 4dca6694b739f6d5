// Package testutil provides shared test infrastructure for the sweep packages.
// It holds the golden corpus expectations and assertion helpers used across
// sweep/, sweep/report/ and sweep/chart/ tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldensweep.json.
type GoldenDataset struct {
	Corpus     string            `json:"corpus"` // directory relative to testdata/
	Records    int               `json:"records"`
	Incomplete int               `json:"incomplete"`
	Ignored    int               `json:"ignored"`
	Benchmarks []GoldenBenchmark `json:"benchmarks"`
	Global     []GoldenConfig    `json:"global"`
	Optimal    GoldenConfig      `json:"optimal"`
	Tradeoff   GoldenTradeoff    `json:"tradeoff"`
}

// GoldenBenchmark is the expected per-benchmark result.
type GoldenBenchmark struct {
	Name         string `json:"name"`
	Records      int    `json:"records"`
	OptimalNSets int    `json:"optimal_nsets"`
	OptimalAssoc int    `json:"optimal_assoc"`
}

// GoldenConfig is one expected aggregated config.
type GoldenConfig struct {
	NSets        int     `json:"nsets"`
	Assoc        int     `json:"assoc"`
	AvgTotalMiss float64 `json:"avg_total_miss"`
}

// GoldenTradeoff holds the expected comparative series. Null entries are absent means.
type GoldenTradeoff struct {
	SizeIndices   []int      `json:"size_indices"`
	SetsDominant  []*float64 `json:"sets_dominant"`
	AssocDominant []*float64 `json:"assoc_dominant"`
}

// TestdataDir returns the repository testdata directory.
// The path is resolved relative to this source file: sweep/internal/testutil/ → testdata/.
func TestdataDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata")
}

// LoadGoldenDataset loads testdata/goldensweep.json.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()
	path := filepath.Join(TestdataDir(t), "goldensweep.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// GoldenCorpusDir returns the absolute path of the golden corpus directory.
func (g *GoldenDataset) GoldenCorpusDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(TestdataDir(t), g.Corpus)
}

// WriteCorpus writes name → content files into a fresh temp directory and returns it.
func WriteCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

// RunOutput renders minimal simulator output carrying the two miss rates.
func RunOutput(il1, dl1 float64) string {
	b := strconv.FormatFloat(il1, 'g', -1, 64)
	d := strconv.FormatFloat(dl1, 'g', -1, 64)
	return "sim: ** simulation statistics **\n" +
		"sim_num_insn                 1000000 # total number of instructions executed\n" +
		"il1.miss_rate                 " + b + " # miss rate (i.e., misses/ref)\n" +
		"dl1.miss_rate                 " + d + " # miss rate (i.e., misses/ref)\n"
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
