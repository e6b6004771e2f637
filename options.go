package tabeval

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/tsawler/tabeval/metrics"
	"github.com/tsawler/tabeval/model"
	"github.com/tsawler/tabeval/report"
)

// EvalOptions holds configuration for an evaluation run.
type EvalOptions struct {
	// Inputs
	groundTruthDir string
	imageDir       string

	// Metric selection
	thresholds []float64
	families   []string // nil means the defaults, plus pixel families when images are set
	background model.Color
	foldCase   bool

	// Execution
	workers         int
	checkpointEvery int
	onCheckpoint    func(*report.Report)

	// Diagnostics
	logOutput io.Writer // nil discards log output; warnings are still collected
	logLevel  zerolog.Level
}

// defaultOptions returns the default evaluation options.
func defaultOptions() EvalOptions {
	return EvalOptions{
		thresholds: nil, // nil means metrics.DefaultThresholds
		background: model.White,
		workers:    1,
		logLevel:   zerolog.InfoLevel,
	}
}

// clone creates a deep copy of EvalOptions.
func (o EvalOptions) clone() EvalOptions {
	newOpts := o

	// Deep copy slices
	if o.thresholds != nil {
		newOpts.thresholds = append([]float64(nil), o.thresholds...)
	}
	if o.families != nil {
		newOpts.families = append([]string(nil), o.families...)
	}

	return newOpts
}

// resolvedFamilies returns the families to compute.
func (o EvalOptions) resolvedFamilies() []string {
	if o.families != nil {
		return o.families
	}
	families := metrics.DefaultFamilies()
	if o.imageDir != "" {
		families = append(families, metrics.FamilyPixel, metrics.FamilyPixelThreshold)
	}
	return families
}

// evaluatorOptions converts the options to metrics.Evaluator options.
func (o EvalOptions) evaluatorOptions(logger *zerolog.Logger) []metrics.Option {
	opts := []metrics.Option{
		metrics.WithFamilies(o.resolvedFamilies()...),
		metrics.WithBackground(o.background),
		metrics.WithFoldCase(o.foldCase),
		metrics.WithLogger(logger),
	}
	if o.thresholds != nil {
		opts = append(opts, metrics.WithThresholds(o.thresholds...))
	}
	return opts
}
