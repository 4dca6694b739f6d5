package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cachesweep/sweep"
	"github.com/inference-sim/cachesweep/sweep/chart"
)

// ChartConfig controls chart rendering.
type ChartConfig struct {
	Enabled  bool    `yaml:"enabled"`
	WidthIn  float64 `yaml:"width_in"`  // width of one panel in inches
	HeightIn float64 `yaml:"height_in"` // height in inches
	Format   string  `yaml:"format"`    // "png" or "svg"
}

// Config represents the full analysis config file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	DataDir   string        `yaml:"data_dir"`
	OutputDir string        `yaml:"output_dir"`
	Workers   int           `yaml:"workers"`
	Markers   sweep.Markers `yaml:"markers"`
	Charts    ChartConfig   `yaml:"charts"`
	CSVPath   string        `yaml:"csv"`  // optional aggregated table export
	JSONPath  string        `yaml:"json"` // optional full analysis export
}

// DefaultConfig returns the built-in defaults: read ./datas, write charts to ./.
func DefaultConfig() Config {
	return Config{
		DataDir:   "datas",
		OutputDir: ".",
		Workers:   1,
		Markers:   sweep.DefaultMarkers(),
		Charts: ChartConfig{
			Enabled:  true,
			WidthIn:  7,
			HeightIn: 6,
			Format:   "png",
		},
	}
}

// LoadConfig reads a YAML config file over DefaultConfig. Fields absent from
// the file keep their defaults; unknown fields are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks the config for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.Markers.Instruction == "" || c.Markers.Data == "" {
		return errors.New("both instruction and data markers must be set")
	}
	if c.Markers.Instruction == c.Markers.Data {
		return fmt.Errorf("instruction and data markers must differ, both are %q", c.Markers.Instruction)
	}
	if c.Charts.Enabled {
		if !chart.ValidFormats[c.Charts.Format] {
			return fmt.Errorf("unknown chart format %q", c.Charts.Format)
		}
		if c.Charts.WidthIn <= 0 || c.Charts.HeightIn <= 0 {
			return fmt.Errorf("chart size must be positive, got %vx%v", c.Charts.WidthIn, c.Charts.HeightIn)
		}
	}
	return nil
}
