package sweep

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/cachesweep/sweep/internal/testutil"
)

func TestLoadCorpus_MissingDirectory_ReturnsSentinel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "datas")

	corpus, err := LoadCorpus(context.Background(), dir, LoadOptions{})

	assert.Nil(t, corpus)
	assert.ErrorIs(t, err, ErrInputDirMissing)
}

func TestLoadCorpus_PathIsFile_ReturnsError(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{"a_s1_a1.txt": testutil.RunOutput(0.1, 0.1)})

	_, err := LoadCorpus(context.Background(), filepath.Join(dir, "a_s1_a1.txt"), LoadOptions{})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInputDirMissing)
}

func TestLoadCorpus_SkipsIncompleteAndUnmatched(t *testing.T) {
	// GIVEN one complete run, one il1-only run and an unrelated file
	dir := testutil.WriteCorpus(t, map[string]string{
		"gcc_s4_a2.txt": testutil.RunOutput(0.125, 0.25),
		"gcc_s8_a2.txt": "il1.miss_rate 0.5\n",
		"notes.txt":     "nothing here\n",
	})

	// WHEN loaded
	corpus, err := LoadCorpus(context.Background(), dir, LoadOptions{})

	// THEN only the complete run yields a record
	require.NoError(t, err)
	require.Len(t, corpus.Records, 1)
	assert.Equal(t, MetricRecord{Benchmark: "gcc", NSets: 4, Assoc: 2, IL1Miss: 0.125, DL1Miss: 0.25}, corpus.Records[0])
	assert.Equal(t, LoadStats{Matched: 2, Records: 1, Incomplete: 1, Ignored: 1}, corpus.Stats)
}

func TestLoadCorpus_UnreadableFile_SkippedAndCounted(t *testing.T) {
	// GIVEN a matching name that cannot be opened (dangling symlink)
	dir := testutil.WriteCorpus(t, map[string]string{
		"gcc_s4_a2.txt": testutil.RunOutput(0.125, 0.25),
	})
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing-target"), filepath.Join(dir, "gcc_s8_a2.txt")))

	// WHEN loaded
	corpus, err := LoadCorpus(context.Background(), dir, LoadOptions{})

	// THEN the run is skipped and processing continues
	require.NoError(t, err)
	assert.Len(t, corpus.Records, 1)
	assert.Equal(t, 1, corpus.Stats.Failed)
}

func TestLoadCorpus_MalformedValue_SkipsWholeFile(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{
		"gcc_s4_a2.txt": "il1.miss_rate 0.1\ndl1.miss_rate n/a\ndl1.miss_rate 0.2\n",
	})

	corpus, err := LoadCorpus(context.Background(), dir, LoadOptions{})

	require.NoError(t, err)
	assert.Empty(t, corpus.Records)
	assert.Equal(t, 1, corpus.Stats.Failed)
}

func TestLoadCorpus_SubdirectoriesNotTraversed(t *testing.T) {
	dir := testutil.WriteCorpus(t, nil)
	sub := filepath.Join(dir, "gcc_s4_a2.txt")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "gcc_s8_a2.txt"), []byte(testutil.RunOutput(0.1, 0.1)), 0o644))

	corpus, err := LoadCorpus(context.Background(), dir, LoadOptions{})

	require.NoError(t, err)
	assert.Empty(t, corpus.Records)
	assert.Equal(t, LoadStats{}, corpus.Stats)
}

func TestLoadCorpus_CustomMarkers(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{
		"art_s2_a2.txt": "icache.miss_ratio 0.25\ndcache.miss_ratio 0.5\n",
	})

	corpus, err := LoadCorpus(context.Background(), dir, LoadOptions{
		Markers: Markers{Instruction: "icache.miss_ratio", Data: "dcache.miss_ratio"},
	})

	require.NoError(t, err)
	require.Len(t, corpus.Records, 1)
	assert.Equal(t, 0.75, corpus.Records[0].Total())
}

func TestLoadCorpus_WorkersPreserveOrder(t *testing.T) {
	// GIVEN the golden corpus
	golden := testutil.LoadGoldenDataset(t)
	dir := golden.GoldenCorpusDir(t)

	// WHEN loaded sequentially and with a worker pool
	seq, err := LoadCorpus(context.Background(), dir, LoadOptions{Workers: 1})
	require.NoError(t, err)
	par, err := LoadCorpus(context.Background(), dir, LoadOptions{Workers: 8})
	require.NoError(t, err)

	// THEN records and stats are identical
	assert.Equal(t, seq.Records, par.Records)
	assert.Equal(t, seq.Stats, par.Stats)
}

func TestLoadCorpus_CanceledContext(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{
		"gcc_s4_a2.txt": testutil.RunOutput(0.125, 0.25),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadCorpus(ctx, dir, LoadOptions{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadCorpus_InvalidUTF8_SkippedAsFailed(t *testing.T) {
	// GIVEN a run whose output contains bytes that are not UTF-8
	dir := testutil.WriteCorpus(t, map[string]string{
		"gcc_s4_a2.txt": testutil.RunOutput(0.125, 0.25),
		"gcc_s8_a2.txt": "\xff\xfe garbage\n" + testutil.RunOutput(0.1, 0.2),
	})

	// WHEN loaded
	corpus, err := LoadCorpus(context.Background(), dir, LoadOptions{})

	// THEN the file is a read failure and yields no record
	require.NoError(t, err)
	require.Len(t, corpus.Records, 1)
	assert.Equal(t, 4, corpus.Records[0].NSets)
	assert.Equal(t, LoadStats{Matched: 2, Records: 1, Failed: 1}, corpus.Stats)
}

func TestLoadCorpus_EmptyBenchmarks(t *testing.T) {
	// GIVEN gcc with a complete run and mcf with only incomplete or broken runs
	dir := testutil.WriteCorpus(t, map[string]string{
		"gcc_s4_a2.txt": testutil.RunOutput(0.125, 0.25),
		"mcf_s4_a2.txt": "il1.miss_rate 0.1\n",
		"mcf_s8_a2.txt": "dl1.miss_rate oops\n",
	})

	// WHEN loaded
	corpus, err := LoadCorpus(context.Background(), dir, LoadOptions{})

	// THEN both benchmarks are seen but only mcf is empty
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "mcf"}, corpus.Benchmarks)
	assert.Equal(t, []string{"mcf"}, corpus.EmptyBenchmarks())
}
