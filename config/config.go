// Package config loads evaluation run settings.
//
// Settings come from, in increasing precedence: built-in defaults, an
// optional YAML file, a .env file in the working directory and the process
// environment (variables prefixed TABEVAL_).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/tabeval/metrics"
	"github.com/tsawler/tabeval/model"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "TABEVAL_"

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatHTML  = "html"
)

// Config holds the settings of an evaluation run, loaded from YAML, the
// environment and command-line flags
type Config struct {
	AppEnv   string `yaml:"app_env" env:"APP_ENV"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	PredictionDir  string `yaml:"prediction_dir" env:"PREDICTION_DIR"`
	PredictionFile string `yaml:"prediction_file" env:"PREDICTION_FILE"`
	GroundTruthDir string `yaml:"ground_truth_dir" env:"GROUND_TRUTH_DIR"`
	ImageDir       string `yaml:"image_dir" env:"IMAGE_DIR"`

	Thresholds []float64 `yaml:"thresholds" env:"THRESHOLDS" envSeparator:","`
	Metrics    []string  `yaml:"metrics" env:"METRICS" envSeparator:","`
	Background string    `yaml:"background" env:"BACKGROUND"`
	FoldCase   bool      `yaml:"fold_case" env:"FOLD_CASE"`

	Workers         int `yaml:"workers" env:"WORKERS"`
	CheckpointEvery int `yaml:"checkpoint_every" env:"CHECKPOINT_EVERY"`

	Format         string `yaml:"format" env:"FORMAT"`
	Output         string `yaml:"output" env:"OUTPUT"`
	PrometheusFile string `yaml:"prometheus_file" env:"PROMETHEUS_FILE"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		AppEnv:     "local",
		LogLevel:   "info",
		Thresholds: append([]float64(nil), metrics.DefaultThresholds...),
		Background: model.White.String(),
		Workers:    1,
		Format:     FormatTable,
	}
}

// Load builds the configuration. path names an optional YAML file; an empty
// path skips it. A missing .env file is ignored.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	_ = godotenv.Load()

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Families returns the metric families to compute. With none configured,
// every family that needs no image is used, plus the pixel families when
// an image directory is set.
func (c *Config) Families() []string {
	if len(c.Metrics) > 0 {
		return append([]string(nil), c.Metrics...)
	}
	families := metrics.DefaultFamilies()
	if c.ImageDir != "" {
		families = append(families, metrics.FamilyPixel, metrics.FamilyPixelThreshold)
	}
	return families
}

// BackgroundColor parses the configured background colour
func (c *Config) BackgroundColor() (model.Color, error) {
	return model.ParseColor(c.Background)
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error

	if c.PredictionDir == "" && c.PredictionFile == "" {
		errs = append(errs, errors.New("a prediction directory or prediction file is required"))
	}
	if c.PredictionDir != "" && c.PredictionFile != "" {
		errs = append(errs, errors.New("prediction directory and prediction file are mutually exclusive"))
	}
	for _, tau := range c.Thresholds {
		if tau < 0 || tau > 1 {
			errs = append(errs, fmt.Errorf("threshold %v outside [0, 1]", tau))
		}
	}
	if err := metrics.ValidateFamilies(c.Metrics); err != nil {
		errs = append(errs, err)
	}
	if metrics.NeedsImage(c.Families()) && c.ImageDir == "" {
		errs = append(errs, errors.New("pixel metrics need an image directory"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.CheckpointEvery < 0 {
		errs = append(errs, fmt.Errorf("checkpoint interval must not be negative, got %d", c.CheckpointEvery))
	}
	if _, err := c.BackgroundColor(); err != nil {
		errs = append(errs, err)
	}
	switch c.Format {
	case FormatTable, FormatJSON, FormatYAML, FormatHTML:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", c.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
