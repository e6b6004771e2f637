// Package runner evaluates a directory (or a single file) of predictions
// against ground truth and folds the results into a report.
//
// Files are evaluated by a bounded pool of workers. Each worker folds one
// file into a private [aggregate.Accumulator] and hands it to a single
// writer, which merges it into the run totals, checks that the file's
// revisions line up with the files before it and emits periodic
// checkpoints. One worker processes files strictly in name order.
//
// Without a ground-truth directory the earliest revision of each
// prediction is taken as its ground truth and the later revisions are
// evaluated against it.
package runner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/tabeval/aggregate"
	"github.com/tsawler/tabeval/dataset"
	"github.com/tsawler/tabeval/docjson"
	"github.com/tsawler/tabeval/metrics"
	"github.com/tsawler/tabeval/model"
	"github.com/tsawler/tabeval/report"
)

var (
	// ErrNoInput is returned when neither a prediction directory nor a
	// prediction file is given, or both are
	ErrNoInput = errors.New("runner: exactly one of prediction directory or prediction file is required")

	// ErrNoEarlierRevision is returned in self-reference mode for a
	// prediction with fewer than two revisions
	ErrNoEarlierRevision = errors.New("runner: prediction needs at least two revisions to use the earliest as ground truth")
)

// Options configures a run
type Options struct {
	PredictionDir  string
	PredictionFile string

	// GroundTruthDir holds one ground-truth document per prediction. Empty
	// selects self-reference mode.
	GroundTruthDir string

	// ImageDir holds the page images, required when the evaluator has a
	// pixel family enabled
	ImageDir string

	// Evaluator defaults to metrics.NewEvaluator()
	Evaluator *metrics.Evaluator

	// Workers bounds the number of files evaluated at once; values below 1
	// mean 1
	Workers int

	// CheckpointEvery emits a checkpoint every n files; 0 disables
	CheckpointEvery int

	// OnCheckpoint, when set, receives each checkpoint report
	OnCheckpoint func(*report.Report)

	Logger *zerolog.Logger
}

type fileResult struct {
	path  string
	acc   *aggregate.Accumulator
	views int
}

// Run evaluates every prediction and returns the dataset report. The first
// error stops all workers and is returned wrapped with the prediction file
// name.
func Run(ctx context.Context, opts Options) (*report.Report, error) {
	if (opts.PredictionDir == "") == (opts.PredictionFile == "") {
		return nil, ErrNoInput
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	if opts.Evaluator == nil {
		ev, err := metrics.NewEvaluator()
		if err != nil {
			return nil, err
		}
		opts.Evaluator = ev
	}
	if opts.Evaluator.NeedsImage() && opts.ImageDir == "" {
		return nil, fmt.Errorf("runner: pixel metrics enabled without an image directory")
	}
	workers := max(opts.Workers, 1)

	input := opts.PredictionFile
	files := []string{opts.PredictionFile}
	if opts.PredictionDir != "" {
		input = opts.PredictionDir
		var err error
		files, err = dataset.ListPredictions(opts.PredictionDir, opts.Logger)
		if err != nil {
			return nil, err
		}
	}
	opts.Logger.Info().
		Str("input", input).
		Int("files", len(files)).
		Int("workers", workers).
		Msg("starting evaluation")

	run := aggregate.New()
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan string)
	results := make(chan fileResult)

	g.Go(func() error {
		defer close(jobs)
		for _, f := range files {
			select {
			case jobs <- f:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var pool sync.WaitGroup
	for range workers {
		pool.Add(1)
		g.Go(func() error {
			defer pool.Done()
			for path := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := evaluateFile(path, opts)
				if err != nil {
					return fmt.Errorf("%s: %w", filepath.Base(path), err)
				}
				select {
				case results <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		pool.Wait()
		close(results)
	}()

	g.Go(func() error {
		for res := range results {
			run.Merge(res.acc)
			if err := run.CheckRevisions(res.views); err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(res.path), err)
			}
			if opts.CheckpointEvery > 0 && run.Files()%opts.CheckpointEvery == 0 {
				checkpoint(run, input, opts)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := report.New(run, input, opts.GroundTruthDir, opts.Evaluator.Thresholds())
	opts.Logger.Info().
		Str("run_id", r.RunID).
		Int("files", r.Files).
		Msg("evaluation finished")
	return r, nil
}

func checkpoint(run *aggregate.Accumulator, input string, opts Options) {
	r := report.New(run, input, opts.GroundTruthDir, opts.Evaluator.Thresholds())
	ev := opts.Logger.Info().Int("files", r.Files)
	if iou, ok := r.Averages[metrics.KeyIoU]; ok {
		d := zerolog.Dict()
		for group, v := range iou {
			d.Float64(group, v)
		}
		ev = ev.Dict("iou", d)
	}
	ev.Msg("checkpoint")
	if opts.OnCheckpoint != nil {
		opts.OnCheckpoint(r)
	}
}

// evaluateFile scores every view of one prediction into a fresh accumulator
func evaluateFile(path string, opts Options) (fileResult, error) {
	logger := opts.Logger.With().Str("file", filepath.Base(path)).Logger()

	pred, err := docjson.ReadFile(path)
	if err != nil {
		return fileResult{}, err
	}
	gt, views, err := reference(pred, path, opts, &logger)
	if err != nil {
		return fileResult{}, err
	}

	var img image.Image
	if opts.Evaluator.NeedsImage() {
		imgPath, err := dataset.ImageFor(opts.ImageDir, path, gt.filename)
		if err != nil {
			return fileResult{}, err
		}
		if img, err = dataset.LoadImage(imgPath); err != nil {
			return fileResult{}, err
		}
	}

	ev := opts.Evaluator.WithLogger(&logger)
	acc := aggregate.New()
	for _, view := range views {
		scores, err := ev.Evaluate(gt.revision, view, img)
		if err != nil {
			return fileResult{}, fmt.Errorf("revision %q: %w", view.Name, err)
		}
		if iou, ok := scores[metrics.KeyIoU]; ok {
			logger.Debug().Str("revision", view.Name).Float64("iou", iou).Msg("scored revision")
		}
		acc.FoldScores(view.Name, scores)
	}
	acc.AddFile()
	return fileResult{path: path, acc: acc, views: len(views)}, nil
}

type groundTruth struct {
	filename string
	revision model.Revision
}

// reference returns the ground truth for a prediction and the views to
// score against it
func reference(pred *model.Document, path string, opts Options, logger *zerolog.Logger) (groundTruth, []model.Revision, error) {
	if opts.GroundTruthDir == "" {
		if len(pred.Revisions) < 2 {
			return groundTruth{}, nil, fmt.Errorf("%w: found %d", ErrNoEarlierRevision, len(pred.Revisions))
		}
		logger.Debug().Str("revision", pred.Revisions[0].Name).Msg("using earliest revision as ground truth")
		return groundTruth{filename: pred.Filename, revision: pred.Revisions[0]}, pred.Revisions[1:], nil
	}

	gtPath, err := dataset.GroundTruthFor(path, opts.GroundTruthDir)
	if err != nil {
		return groundTruth{}, nil, err
	}
	logger.Info().Str("ground_truth", gtPath).Msg("found matching ground-truth file")

	gt, err := docjson.ReadFile(gtPath)
	if err != nil {
		return groundTruth{}, nil, err
	}
	return groundTruth{filename: gt.Filename, revision: gt.Current()}, pred.Views(), nil
}
