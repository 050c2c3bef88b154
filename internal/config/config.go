// Package config holds the batch configuration and its YAML loader.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"grid-ruler/internal/calib"
	"grid-ruler/internal/grid"
	grimage "grid-ruler/internal/image"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// SaveOptions selects which per-image artifacts are written.
type SaveOptions struct {
	Original  bool `yaml:"original"`
	Grayscale bool `yaml:"grayscale"`
	Binary    bool `yaml:"binary"`
}

// SweepOptions bounds the detection threshold sweep.
type SweepOptions struct {
	ZMax int `yaml:"z_max"`
	ZMin int `yaml:"z_min"`
}

// Config describes one batch run.
type Config struct {
	InputDir     string       `yaml:"input_dir"`
	GridSize     float64      `yaml:"grid_size"`   // real units across NumSquares cells
	NumSquares   int          `yaml:"num_squares"` // cells along each side of the crop
	MinDiameter  float64      `yaml:"min_diameter"`
	MaxDiameter  float64      `yaml:"max_diameter"`
	Unit         string       `yaml:"unit"`
	Format       string       `yaml:"format"`        // input extension filter
	OutputFormat string       `yaml:"output_format"` // empty means Format
	Save         SaveOptions  `yaml:"save"`
	Workers      int          `yaml:"workers"` // 0 means runtime.NumCPU()
	Sweep        SweepOptions `yaml:"sweep"`
}

// Default returns a configuration with every optional field set.
func Default() Config {
	p := grid.DefaultParams()
	return Config{
		GridSize:    1000,
		NumSquares:  p.NumSquares,
		MinDiameter: 4,
		MaxDiameter: 9,
		Unit:        calib.DefaultUnit,
		Format:      string(grimage.FormatTIFF),
		Save:        SaveOptions{Binary: true},
		Sweep:       SweepOptions{ZMax: p.ZMax, ZMin: p.ZMin},
	}
}

// Load reads a YAML file over the defaults. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// Validate checks every field and reports the first problem wrapped in
// ErrInvalidConfig.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return invalid("input_dir is required")
	}
	info, err := os.Stat(c.InputDir)
	if err != nil {
		return invalid("input_dir %s: %v", c.InputDir, err)
	}
	if !info.IsDir() {
		return invalid("input_dir %s is not a directory", c.InputDir)
	}
	if c.GridSize <= 0 {
		return invalid("grid_size must be positive, got %g", c.GridSize)
	}
	if c.NumSquares < 2 {
		return invalid("num_squares must be at least 2, got %d", c.NumSquares)
	}
	if c.MinDiameter <= 0 || c.MaxDiameter <= 0 {
		return invalid("particle diameters must be positive, got %g and %g", c.MinDiameter, c.MaxDiameter)
	}
	if c.MinDiameter > c.MaxDiameter {
		return invalid("min_diameter %g exceeds max_diameter %g", c.MinDiameter, c.MaxDiameter)
	}
	if _, err := grimage.ParseFormat(c.Format); err != nil {
		return invalid("format: %v", err)
	}
	if c.OutputFormat != "" {
		if _, err := grimage.ParseFormat(c.OutputFormat); err != nil {
			return invalid("output_format: %v", err)
		}
	}
	if c.Workers < 0 {
		return invalid("workers must not be negative, got %d", c.Workers)
	}
	if err := c.GridParams().Validate(); err != nil {
		return invalid("sweep: %v", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// InputFormat returns the parsed input format.
func (c Config) InputFormat() grimage.Format {
	f, _ := grimage.ParseFormat(c.Format)
	return f
}

// ArtifactFormat returns the format artifacts are saved in.
func (c Config) ArtifactFormat() grimage.Format {
	if c.OutputFormat == "" {
		return c.InputFormat()
	}
	f, _ := grimage.ParseFormat(c.OutputFormat)
	return f
}

// WorkerCount resolves Workers, mapping 0 to the number of CPUs.
func (c Config) WorkerCount() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// GridParams returns the detector parameters for this run.
func (c Config) GridParams() grid.Params {
	return grid.DefaultParams().
		WithNumSquares(c.NumSquares).
		WithSweep(c.Sweep.ZMax, c.Sweep.ZMin)
}
