package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// CLI flags for the analyze command
	configPath  string  // Optional YAML config file
	logLevel    string  // Log verbosity level
	dataDir     string  // Directory holding {benchmark}_s{nsets}_a{assoc}.txt files
	outputDir   string  // Directory charts are written to
	workers     int     // Files parsed concurrently
	noCharts    bool    // Skip chart rendering
	chartFormat string  // png or svg
	chartWidth  float64 // Width of one chart panel in inches
	chartHeight float64 // Height of one chart in inches
	csvPath     string  // Optional CSV export of the aggregated table
	jsonPath    string  // Optional JSON export of the full analysis
	il1Marker   string  // Substring identifying the instruction-cache miss-rate line
	dl1Marker   string  // Substring identifying the data-cache miss-rate line
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cachesweep",
	Short: "Design-space exploration over cache simulator sweeps",
}

// analyzeCmd loads the sweep corpus, aggregates it and renders the results
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find optimal cache configurations in a sweep of simulator outputs",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		logrus.Debugf("Effective configuration: %+v", cfg)

		if err := runAnalyze(context.Background(), cfg, os.Stdout); err != nil {
			logrus.Fatalf("Analysis failed: %v", err)
		}
	},
}

// resolveConfig layers defaults, the optional config file and explicitly set
// flags, in that order. Flags left at their defaults never override the file.
func resolveConfig(cmd *cobra.Command) (Config, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("no-charts") {
		cfg.Charts.Enabled = !noCharts
	}
	if flags.Changed("chart-format") {
		cfg.Charts.Format = chartFormat
	}
	if flags.Changed("chart-width") {
		cfg.Charts.WidthIn = chartWidth
	}
	if flags.Changed("chart-height") {
		cfg.Charts.HeightIn = chartHeight
	}
	if flags.Changed("csv") {
		cfg.CSVPath = csvPath
	}
	if flags.Changed("json") {
		cfg.JSONPath = jsonPath
	}
	if flags.Changed("il1-marker") {
		cfg.Markers.Instruction = il1Marker
	}
	if flags.Changed("dl1-marker") {
		cfg.Markers.Data = dl1Marker
	}
	return cfg, cfg.Validate()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := DefaultConfig()

	analyzeCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
	analyzeCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Input and output locations
	analyzeCmd.Flags().StringVar(&dataDir, "data-dir", defaults.DataDir, "Directory of {benchmark}_s{nsets}_a{assoc}.txt simulator outputs")
	analyzeCmd.Flags().StringVar(&outputDir, "output-dir", defaults.OutputDir, "Directory charts are written to")
	analyzeCmd.Flags().IntVar(&workers, "workers", defaults.Workers, "Number of files parsed concurrently")
	analyzeCmd.Flags().StringVar(&csvPath, "csv", "", "Write the cross-benchmark table as CSV to this path")
	analyzeCmd.Flags().StringVar(&jsonPath, "json", "", "Write the full analysis as JSON to this path")

	// Chart rendering
	analyzeCmd.Flags().BoolVar(&noCharts, "no-charts", false, "Skip chart rendering")
	analyzeCmd.Flags().StringVar(&chartFormat, "chart-format", defaults.Charts.Format, "Chart image format (png, svg)")
	analyzeCmd.Flags().Float64Var(&chartWidth, "chart-width", defaults.Charts.WidthIn, "Chart panel width in inches")
	analyzeCmd.Flags().Float64Var(&chartHeight, "chart-height", defaults.Charts.HeightIn, "Chart height in inches")

	// Simulator output format
	analyzeCmd.Flags().StringVar(&il1Marker, "il1-marker", defaults.Markers.Instruction, "Substring identifying the IL1 miss-rate line")
	analyzeCmd.Flags().StringVar(&dl1Marker, "dl1-marker", defaults.Markers.Data, "Substring identifying the DL1 miss-rate line")

	// Attach `analyze` as a subcommand to `root`
	rootCmd.AddCommand(analyzeCmd)
}
