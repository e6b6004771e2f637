package metrics

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tsawler/tabeval/match"
	"github.com/tsawler/tabeval/model"
)

// ErrNoImage is returned when a pixel family is enabled but no page image
// was supplied
var ErrNoImage = errors.New("metrics: pixel metrics need a page image")

// DefaultThresholds are the cutoffs used when none are configured
var DefaultThresholds = []float64{0.6, 0.7, 0.8, 0.9}

// Scores maps metric keys to their value for one view of a document
type Scores map[string]float64

// Keys returns the metric keys in sorted order
func (s Scores) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Evaluator scores a predicted revision against ground truth. It is safe
// for concurrent use once built.
type Evaluator struct {
	thresholds []float64
	families   map[string]bool
	background model.Color
	text       TextOptions
	logger     *zerolog.Logger
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithThresholds sets the cutoffs for threshold families
func WithThresholds(thresholds ...float64) Option {
	return func(e *Evaluator) {
		e.thresholds = append([]float64(nil), thresholds...)
	}
}

// WithFamilies enables exactly the named metric families
func WithFamilies(names ...string) Option {
	return func(e *Evaluator) {
		e.families = make(map[string]bool, len(names))
		for _, n := range names {
			e.families[n] = true
		}
	}
}

// WithBackground sets the page background colour for pixel metrics
func WithBackground(c model.Color) Option {
	return func(e *Evaluator) { e.background = c }
}

// WithFoldCase makes text comparison case-insensitive
func WithFoldCase(fold bool) Option {
	return func(e *Evaluator) { e.text.FoldCase = fold }
}

// WithLogger sets the logger for diagnostics
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// NewEvaluator creates an evaluator. Without options it computes every
// family that needs no page image at DefaultThresholds.
func NewEvaluator(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		thresholds: DefaultThresholds,
		background: model.White,
	}
	WithFamilies(DefaultFamilies()...)(e)
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		nop := zerolog.Nop()
		e.logger = &nop
	}

	names := make([]string, 0, len(e.families))
	for n := range e.families {
		names = append(names, n)
	}
	if err := ValidateFamilies(names); err != nil {
		return nil, err
	}
	keys := make(map[string]float64, len(e.thresholds))
	for _, tau := range e.thresholds {
		if tau < 0 || tau > 1 {
			return nil, fmt.Errorf("threshold %v outside [0, 1]", tau)
		}
		// metric keys carry two decimals
		key := ThresholdKey("", tau)
		if prev, dup := keys[key]; dup {
			return nil, fmt.Errorf("thresholds %v and %v share the key %q", prev, tau, key)
		}
		keys[key] = tau
	}
	return e, nil
}

// WithLogger returns a copy of e that reports diagnostics to logger
func (e *Evaluator) WithLogger(logger *zerolog.Logger) *Evaluator {
	c := *e
	if logger != nil {
		c.logger = logger
	}
	return &c
}

// Thresholds returns the configured cutoffs
func (e *Evaluator) Thresholds() []float64 {
	return append([]float64(nil), e.thresholds...)
}

// Enabled reports whether a family is computed
func (e *Evaluator) Enabled(family string) bool { return e.families[family] }

// NeedsImage reports whether any enabled family samples the page image
func (e *Evaluator) NeedsImage() bool {
	return e.families[FamilyPixel] || e.families[FamilyPixelThreshold]
}

// Evaluate scores one predicted view against the ground-truth view. img is
// required only when a pixel family is enabled.
func (e *Evaluator) Evaluate(gt, pred model.Revision, img image.Image) (Scores, error) {
	if e.NeedsImage() && img == nil {
		return nil, ErrNoImage
	}
	logger := e.logger.With().Str("revision", pred.Name).Logger()
	scores := make(Scores)

	if e.families[FamilyIoU] {
		scores[KeyIoU] = DatasetIoU(match.Shapes(gt.Regions, &logger), match.Shapes(pred.Regions, &logger))
	}
	if !e.needsTables() {
		return scores, nil
	}

	pairing := match.Tables(gt.Tables(), pred.Tables(), &logger)
	pairs := make([]*TablePair, len(pairing.GT))
	for i, t := range pairing.GT {
		pairs[i] = NewTablePair(t, pairing.Predicted(i), &logger)
	}
	viewed := pairing.Viewed()

	var cellIoU, text, complete, pure, tsr float64
	for _, p := range pairs {
		if !p.Matched() {
			continue
		}
		cellIoU += p.CellIoU()
		text += p.TextSimilarity(e.text)
		complete += Completeness(p.GT, p.Pred)
		pure += Purity(p.GT, p.Pred)
		tsr += p.TSRShare()
	}
	set := func(family, key string, sum float64) {
		if e.families[family] {
			scores[key] = ratio(sum, viewed)
		}
	}
	set(FamilyCellIoU, KeyCellIoU, cellIoU)
	set(FamilyText, KeyTextSimilarity, text)
	set(FamilyCompleteness, KeyCompleteness, complete)
	set(FamilyPurity, KeyPurity, pure)
	set(FamilyTSRShare, KeyTSRShare, tsr)

	leftover := func() CellScores {
		var s CellScores
		for _, i := range pairing.UnmatchedPred {
			s.Add(unmatchedScores(pairing.Pred[i]))
		}
		return s
	}

	if e.families[FamilyIoUThreshold] {
		s := leftover()
		for _, p := range pairs {
			s.Add(p.OverlapScores())
		}
		s.emit(scores, "iou", e.thresholds)
	}
	if e.families[FamilyTextThreshold] {
		s := leftover()
		for _, p := range pairs {
			s.Add(p.TextScores(e.text))
		}
		s.emit(scores, "text", e.thresholds)
	}
	if e.NeedsImage() {
		sampler := PixelSampler{Image: img, Background: e.background, Logger: &logger}
		s := leftover()
		var fpa float64
		cells := 0
		for _, p := range pairs {
			ps := p.PixelScores(sampler)
			for _, v := range ps.GT {
				fpa += v
			}
			cells += len(ps.GT)
			s.Add(ps)
		}
		if e.families[FamilyPixel] {
			scores[KeyFPA] = ratio(fpa, cells)
		}
		if e.families[FamilyPixelThreshold] {
			s.emit(scores, "fpa", e.thresholds)
		}
	}
	return scores, nil
}

func (e *Evaluator) needsTables() bool {
	for f := range e.families {
		if f != FamilyIoU {
			return true
		}
	}
	return false
}
