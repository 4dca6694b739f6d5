package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cachesweep/sweep"
	"github.com/inference-sim/cachesweep/sweep/chart"
	"github.com/inference-sim/cachesweep/sweep/report"
)

// runAnalyze executes the whole pipeline for cfg and prints the summary to out.
// A corpus without records is reported and returns nil; only a missing
// input directory or an output failure returns an error.
func runAnalyze(ctx context.Context, cfg Config, out io.Writer) error {
	corpus, err := sweep.LoadCorpus(ctx, cfg.DataDir, sweep.LoadOptions{
		Markers: cfg.Markers,
		Workers: cfg.Workers,
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"matched":    corpus.Stats.Matched,
		"records":    corpus.Stats.Records,
		"incomplete": corpus.Stats.Incomplete,
		"failed":     corpus.Stats.Failed,
	}).Info("corpus loaded")
	for _, b := range corpus.EmptyBenchmarks() {
		logrus.WithField("benchmark", b).Info("no valid records, benchmark skipped")
	}

	if len(corpus.Records) == 0 {
		logrus.Infof("No run files matching {benchmark}_s{nsets}_a{assoc}.txt with both miss rates found in %s", cfg.DataDir)
		return nil
	}

	a := sweep.Analyze(corpus.Records)
	for _, id := range a.Duplicates {
		logrus.WithField("run", id.String()).Warn("duplicate run counted more than once in averages")
	}

	report.Print(out, a)

	if cfg.CSVPath != "" {
		if err := writeFile(cfg.CSVPath, func(w io.Writer) error { return report.WriteCSV(w, a) }); err != nil {
			return err
		}
		logrus.Infof("Aggregated table written to %s", cfg.CSVPath)
	}
	if cfg.JSONPath != "" {
		if err := writeFile(cfg.JSONPath, func(w io.Writer) error { return report.WriteJSON(w, a) }); err != nil {
			return err
		}
		logrus.Infof("Analysis written to %s", cfg.JSONPath)
	}

	if !cfg.Charts.Enabled {
		return nil
	}
	r, err := chart.NewRenderer(cfg.OutputDir, cfg.Charts.WidthIn, cfg.Charts.HeightIn, cfg.Charts.Format)
	if err != nil {
		return err
	}
	paths, err := r.RenderAll(a)
	if err != nil {
		return fmt.Errorf("rendering charts: %w", err)
	}
	for _, p := range paths {
		logrus.Infof("Chart saved to %s", p)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
