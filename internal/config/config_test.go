package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	grimage "grid-ruler/internal/image"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func validConfig(t *testing.T) Config {
	t.Helper()
	cfg := Default()
	cfg.InputDir = t.TempDir()
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.NumSquares)
	assert.Equal(t, "nm", cfg.Unit)
	assert.Equal(t, "tiff", cfg.Format)
	assert.Equal(t, SweepOptions{ZMax: 10, ZMin: 2}, cfg.Sweep)
	assert.True(t, cfg.Save.Binary)
	assert.False(t, cfg.Save.Original)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `input_dir: `+dir+`
grid_size: 500
num_squares: 3
min_diameter: 2.5
max_diameter: 12
format: png
save:
  original: true
  grayscale: true
  binary: false
workers: 2
sweep:
  z_max: 8
  z_min: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.InputDir)
	assert.Equal(t, 500.0, cfg.GridSize)
	assert.Equal(t, 3, cfg.NumSquares)
	assert.Equal(t, 2.5, cfg.MinDiameter)
	assert.Equal(t, 12.0, cfg.MaxDiameter)
	assert.Equal(t, "nm", cfg.Unit, "unset fields keep defaults")
	assert.Equal(t, SaveOptions{Original: true, Grayscale: true}, cfg.Save)
	assert.Equal(t, SweepOptions{ZMax: 8, ZMin: 3}, cfg.Sweep)
	assert.Equal(t, 2, cfg.WorkerCount())
	assert.Equal(t, grimage.FormatPNG, cfg.InputFormat())
	assert.Equal(t, grimage.FormatPNG, cfg.ArtifactFormat())
	require.NoError(t, cfg.Validate())

	p := cfg.GridParams()
	assert.Equal(t, 3, p.NumSquares)
	assert.Equal(t, 8, p.ZMax)
	assert.Equal(t, 3, p.ZMin)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "not found")

	_, err = Load(writeConfig(t, "grid_size: [1, 2"))
	assert.ErrorContains(t, err, "parsing config YAML")
}

func TestValidate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"missing input dir", func(c *Config) { c.InputDir = "" }},
		{"nonexistent input dir", func(c *Config) { c.InputDir = filepath.Join(file, "x") }},
		{"input dir is a file", func(c *Config) { c.InputDir = file }},
		{"zero grid size", func(c *Config) { c.GridSize = 0 }},
		{"one square", func(c *Config) { c.NumSquares = 1 }},
		{"zero min diameter", func(c *Config) { c.MinDiameter = 0 }},
		{"negative max diameter", func(c *Config) { c.MaxDiameter = -1 }},
		{"min above max", func(c *Config) { c.MinDiameter, c.MaxDiameter = 10, 5 }},
		{"unknown format", func(c *Config) { c.Format = "webp" }},
		{"unknown output format", func(c *Config) { c.OutputFormat = "svg" }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"inverted sweep", func(c *Config) { c.Sweep = SweepOptions{ZMax: 2, ZMin: 10} }},
		{"negative sweep floor", func(c *Config) { c.Sweep = SweepOptions{ZMax: 2, ZMin: -1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, validConfig(t).Validate())
}

func TestArtifactFormatOverride(t *testing.T) {
	cfg := validConfig(t)
	cfg.OutputFormat = "bmp"
	assert.Equal(t, grimage.FormatTIFF, cfg.InputFormat())
	assert.Equal(t, grimage.FormatBMP, cfg.ArtifactFormat())
}

func TestWorkerCountDefault(t *testing.T) {
	assert.Equal(t, runtime.NumCPU(), Default().WorkerCount())
}
