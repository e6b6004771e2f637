package tabeval

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tsawler/tabeval/config"
	"github.com/tsawler/tabeval/metrics"
	"github.com/tsawler/tabeval/model"
	"github.com/tsawler/tabeval/report"
	"github.com/tsawler/tabeval/runner"
)

// Evaluation provides a fluent interface for configuring and running an
// evaluation. Each configuration method returns a new Evaluation instance,
// making it safe for concurrent use and allowing method chaining.
type Evaluation struct {
	// Source (exactly one is set)
	predictionDir  string
	predictionFile string

	// Configuration
	options EvalOptions

	// Accumulated error (fail-fast)
	err error
}

// FromConfig returns an Evaluation configured from loaded settings.
func FromConfig(cfg *config.Config) *Evaluation {
	e := &Evaluation{
		predictionDir:  cfg.PredictionDir,
		predictionFile: cfg.PredictionFile,
		options:        defaultOptions(),
	}
	if err := cfg.Validate(); err != nil {
		e.err = err
		return e
	}

	e = e.GroundTruth(cfg.GroundTruthDir).
		Images(cfg.ImageDir).
		Thresholds(cfg.Thresholds...).
		Metrics(cfg.Families()...).
		Workers(cfg.Workers).
		BackgroundHex(cfg.Background)
	if cfg.FoldCase {
		e = e.FoldCase()
	}
	if cfg.CheckpointEvery > 0 {
		e = e.CheckpointEvery(cfg.CheckpointEvery, nil)
	}
	return e
}

// clone creates a shallow copy of the Evaluation with a deep copy of options.
func (e *Evaluation) clone() *Evaluation {
	return &Evaluation{
		predictionDir:  e.predictionDir,
		predictionFile: e.predictionFile,
		options:        e.options.clone(),
		err:            e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Evaluation instance)
// ============================================================================

// GroundTruth sets the directory holding one ground-truth document per
// prediction. Without it, the earliest revision of each prediction is used.
//
// Example:
//
//	rep, _, err := tabeval.Open("predictions/").GroundTruth("gt/").Run(ctx)
func (e *Evaluation) GroundTruth(dir string) *Evaluation {
	newEval := e.clone()
	newEval.options.groundTruthDir = dir
	return newEval
}

// Images sets the directory holding the page images. Unless Metrics was
// called, setting it also enables the pixel families.
//
// Example:
//
//	rep, _, err := tabeval.Open("predictions/").GroundTruth("gt/").Images("pages/").Run(ctx)
func (e *Evaluation) Images(dir string) *Evaluation {
	newEval := e.clone()
	newEval.options.imageDir = dir
	return newEval
}

// Thresholds sets the cutoffs of the threshold families. Calls replace
// earlier cutoffs; no cutoffs means metrics.DefaultThresholds.
//
// Example:
//
//	rep, _, err := tabeval.Open("predictions/").Thresholds(0.5, 0.75).Run(ctx)
func (e *Evaluation) Thresholds(thresholds ...float64) *Evaluation {
	newEval := e.clone()
	if len(thresholds) == 0 {
		newEval.options.thresholds = nil
		return newEval
	}
	newEval.options.thresholds = append([]float64(nil), thresholds...)
	return newEval
}

// Metrics restricts the run to the named metric families. Multiple calls
// are cumulative.
//
// Example:
//
//	rep, _, err := tabeval.Open("predictions/").Metrics("iou", "purity").Run(ctx)
func (e *Evaluation) Metrics(families ...string) *Evaluation {
	newEval := e.clone()
	newEval.options.families = append(newEval.options.families, families...)
	return newEval
}

// Workers sets how many files are evaluated at once. One worker, the
// default, processes files in name order.
func (e *Evaluation) Workers(n int) *Evaluation {
	newEval := e.clone()
	newEval.options.workers = n
	return newEval
}

// CheckpointEvery logs intermediate averages every n files and, when fn is
// not nil, hands them to fn.
func (e *Evaluation) CheckpointEvery(n int, fn func(*report.Report)) *Evaluation {
	newEval := e.clone()
	newEval.options.checkpointEvery = n
	newEval.options.onCheckpoint = fn
	return newEval
}

// Background sets the page background colour used by pixel metrics.
func (e *Evaluation) Background(c model.Color) *Evaluation {
	newEval := e.clone()
	newEval.options.background = c
	return newEval
}

// BackgroundHex sets the page background colour from a "#rrggbb" string.
// A malformed colour fails the run.
func (e *Evaluation) BackgroundHex(s string) *Evaluation {
	newEval := e.clone()
	c, err := model.ParseColor(s)
	if err != nil {
		if newEval.err == nil {
			newEval.err = fmt.Errorf("invalid background: %w", err)
		}
		return newEval
	}
	newEval.options.background = c
	return newEval
}

// FoldCase makes text comparison case-insensitive.
func (e *Evaluation) FoldCase() *Evaluation {
	newEval := e.clone()
	newEval.options.foldCase = true
	return newEval
}

// Log writes diagnostics at or above level to w. Warnings are collected
// for Run's result whether or not they are written.
//
// Example:
//
//	rep, _, err := tabeval.Open("predictions/").
//	    Log(zerolog.ConsoleWriter{Out: os.Stderr}, zerolog.DebugLevel).
//	    Run(ctx)
func (e *Evaluation) Log(w io.Writer, level zerolog.Level) *Evaluation {
	newEval := e.clone()
	newEval.options.logOutput = w
	newEval.options.logLevel = level
	return newEval
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Run evaluates every prediction and returns the dataset report, the
// warnings raised along the way, and an error if the run failed. Warnings
// are returned even for a failed run.
//
// Example:
//
//	rep, warnings, err := tabeval.Open("predictions/").GroundTruth("gt/").Run(ctx)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tabeval.FormatWarnings(warnings))
//	}
func (e *Evaluation) Run(ctx context.Context) (*report.Report, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	collector := &warningCollector{}
	logger := e.logger(collector)

	ev, err := metrics.NewEvaluator(e.options.evaluatorOptions(&logger)...)
	if err != nil {
		return nil, nil, err
	}

	rep, err := runner.Run(ctx, runner.Options{
		PredictionDir:   e.predictionDir,
		PredictionFile:  e.predictionFile,
		GroundTruthDir:  e.options.groundTruthDir,
		ImageDir:        e.options.imageDir,
		Evaluator:       ev,
		Workers:         e.options.workers,
		CheckpointEvery: e.options.checkpointEvery,
		OnCheckpoint:    e.options.onCheckpoint,
		Logger:          &logger,
	})
	return rep, collector.Warnings(), err
}

// logger builds the run logger. Output goes to the configured writer at the
// configured level while warnings always reach the collector.
func (e *Evaluation) logger(collector *warningCollector) zerolog.Logger {
	out := e.options.logOutput
	if out == nil {
		out = io.Discard
	}
	w := zerolog.MultiLevelWriter(
		&zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: out},
			Level:  e.options.logLevel,
		},
		collector,
	)
	return zerolog.New(w).
		Level(min(e.options.logLevel, zerolog.WarnLevel)).
		With().
		Timestamp().
		Logger()
}
