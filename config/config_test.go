package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/tabeval/metrics"
	"github.com/tsawler/tabeval/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []float64{0.6, 0.7, 0.8, 0.9}, cfg.Thresholds)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, FormatTable, cfg.Format)

	bg, err := cfg.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, model.White, bg)
}

func TestLoadYAMLAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "tabeval.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prediction_dir: /data/pred
ground_truth_dir: /data/gt
thresholds: [0.5, 0.75]
workers: 4
format: json
`), 0o644))

	t.Setenv("TABEVAL_WORKERS", "8")
	t.Setenv("TABEVAL_METRICS", "iou,purity")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/pred", cfg.PredictionDir)
	assert.Equal(t, "/data/gt", cfg.GroundTruthDir)
	assert.Equal(t, []float64{0.5, 0.75}, cfg.Thresholds)
	assert.Equal(t, 8, cfg.Workers, "environment overrides the file")
	assert.Equal(t, []string{"iou", "purity"}, cfg.Metrics)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "#ffffff", cfg.Background, "defaults survive")
	assert.NoError(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TABEVAL_PREDICTION_FILE=/data/one.json\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TABEVAL_PREDICTION_FILE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/one.json", cfg.PredictionFile)
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("TABEVAL_WORKERS", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestFamilies(t *testing.T) {
	cfg := Default()
	assert.Equal(t, metrics.DefaultFamilies(), cfg.Families())

	cfg.ImageDir = "/data/img"
	assert.Contains(t, cfg.Families(), metrics.FamilyPixel)
	assert.Contains(t, cfg.Families(), metrics.FamilyPixelThreshold)

	cfg.Metrics = []string{"iou"}
	assert.Equal(t, []string{"iou"}, cfg.Families())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.PredictionDir = "/data/pred"
		return cfg
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no input", func(c *Config) { c.PredictionDir = "" }},
		{"both inputs", func(c *Config) { c.PredictionFile = "/data/one.json" }},
		{"threshold above 1", func(c *Config) { c.Thresholds = []float64{1.2} }},
		{"negative threshold", func(c *Config) { c.Thresholds = []float64{-0.1} }},
		{"unknown family", func(c *Config) { c.Metrics = []string{"bleu"} }},
		{"pixel without images", func(c *Config) { c.Metrics = []string{metrics.FamilyPixel} }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"negative checkpoint", func(c *Config) { c.CheckpointEvery = -1 }},
		{"bad background", func(c *Config) { c.Background = "white" }},
		{"bad format", func(c *Config) { c.Format = "xml" }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
