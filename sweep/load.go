package sweep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrInputDirMissing is returned by LoadCorpus when the input directory does not exist.
var ErrInputDirMissing = errors.New("input directory not found")

// LoadOptions configures LoadCorpus.
type LoadOptions struct {
	Markers Markers // zero value means DefaultMarkers()
	Workers int     // concurrent file reads; values < 1 mean 1
}

// LoadStats counts what happened to each directory entry.
type LoadStats struct {
	Matched    int // file names matching the run naming convention
	Records    int // files that produced a record
	Incomplete int // files missing one or both miss rates
	Failed     int // files that could not be read or parsed
	Ignored    int // entries whose names do not match
}

// Corpus is the set of records extracted from one directory.
type Corpus struct {
	Dir        string
	Records    []MetricRecord // directory (file name) order
	Benchmarks []string       // every benchmark with a matching file name, first-seen order
	Stats      LoadStats
}

// EmptyBenchmarks returns the benchmarks that had matching files but no valid
// record, in first-seen order.
func (c *Corpus) EmptyBenchmarks() []string {
	have := make(map[string]bool, len(c.Benchmarks))
	for _, r := range c.Records {
		have[r.Benchmark] = true
	}
	var empty []string
	for _, b := range c.Benchmarks {
		if !have[b] {
			empty = append(empty, b)
		}
	}
	return empty
}

type fileResult struct {
	rec    MetricRecord
	ok     bool
	failed bool
}

// LoadCorpus extracts one record per matching file in dir. Subdirectories are
// not traversed. Unreadable or malformed files are logged and skipped; only a
// missing or unlistable directory, or ctx cancellation, is returned as an error.
// With Workers > 1 files are parsed concurrently but records are still
// returned in file name order.
func LoadCorpus(ctx context.Context, dir string, opts LoadOptions) (*Corpus, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputDirMissing, dir)
		}
		return nil, fmt.Errorf("stat input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	markers := opts.Markers
	if markers == (Markers{}) {
		markers = DefaultMarkers()
	}
	workers := max(opts.Workers, 1)

	corpus := &Corpus{Dir: dir}
	var (
		ids   []RunID
		paths []string
		seen  = make(map[string]bool)
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := ParseRunID(e.Name())
		if !ok {
			corpus.Stats.Ignored++
			logrus.WithField("file", e.Name()).Trace("file name does not match run pattern")
			continue
		}
		if !seen[id.Benchmark] {
			seen[id.Benchmark] = true
			corpus.Benchmarks = append(corpus.Benchmarks, id.Benchmark)
		}
		ids = append(ids, id)
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	corpus.Stats.Matched = len(ids)

	results := make([]fileResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = extractFile(markers, ids[i], paths[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	for i, res := range results {
		switch {
		case res.failed:
			corpus.Stats.Failed++
		case !res.ok:
			corpus.Stats.Incomplete++
			logrus.WithField("file", filepath.Base(paths[i])).Debug("missing il1 or dl1 miss rate, skipped")
		default:
			corpus.Stats.Records++
			corpus.Records = append(corpus.Records, res.rec)
			logrus.WithFields(logrus.Fields{
				"file":      filepath.Base(paths[i]),
				"benchmark": res.rec.Benchmark,
				"nsets":     res.rec.NSets,
				"assoc":     res.rec.Assoc,
			}).Debug("extracted")
		}
	}
	return corpus, nil
}

// extractFile never returns an error: read failures are diagnostics, so one
// bad file must not cancel the rest of the errgroup.
func extractFile(markers Markers, id RunID, path string) fileResult {
	f, err := os.Open(path)
	if err != nil {
		logrus.WithField("file", filepath.Base(path)).WithError(err).Warn("error reading run output")
		return fileResult{failed: true}
	}
	defer f.Close()

	rec, ok, err := markers.ExtractRecord(id, f)
	if err != nil {
		logrus.WithField("file", filepath.Base(path)).WithError(err).Warn("error reading run output")
		return fileResult{failed: true}
	}
	return fileResult{rec: rec, ok: ok}
}
