package metrics

import (
	"github.com/rs/zerolog"

	"github.com/tsawler/tabeval/geom"
	"github.com/tsawler/tabeval/match"
	"github.com/tsawler/tabeval/model"
)

// TablePair is a ground-truth table with its matched prediction (nil when
// unmatched) and the cell correspondences every cell-level metric reads
type TablePair struct {
	GT   *model.Table
	Pred *model.Table

	gtCells   []geom.Shape
	predCells []geom.Shape

	// consuming gt -> pred pairing
	oneToOne []match.Match
	// best pred cell per gt cell, and best gt cell per pred cell
	best    []match.Match
	reverse []match.Match
}

// NewTablePair builds cell shapes and correspondences for gt and pred.
// Either table may be nil.
func NewTablePair(gt, pred *model.Table, logger *zerolog.Logger) *TablePair {
	p := &TablePair{GT: gt, Pred: pred}
	if gt != nil {
		p.gtCells = cellShapes(gt, logger)
	}
	if pred != nil {
		p.predCells = cellShapes(pred, logger)
	}
	p.oneToOne = match.OneToOne(p.gtCells, p.predCells)
	p.best = match.BestOfAvailable(p.gtCells, p.predCells)
	p.reverse = match.BestOfAvailable(p.predCells, p.gtCells)
	return p
}

func cellShapes(t *model.Table, logger *zerolog.Logger) []geom.Shape {
	if logger == nil {
		return match.Shapes(t.Cells, nil)
	}
	l := logger.With().Str("table", t.OID).Logger()
	return match.Shapes(t.Cells, &l)
}

// Matched reports whether the ground-truth table has a prediction
func (p *TablePair) Matched() bool { return p.GT != nil && p.Pred != nil }

// CellIoU returns the dataset IoU over the cells of the pair
func (p *TablePair) CellIoU() float64 {
	if !p.Matched() {
		return 0
	}
	return datasetIoU(p.gtCells, p.predCells, p.oneToOne)
}

// OverlapScores returns IoGT per ground-truth cell and IoU per predicted
// cell against their best counterparts
func (p *TablePair) OverlapScores() CellScores {
	s := CellScores{GT: make([]float64, len(p.gtCells)), Pred: make([]float64, len(p.predCells))}
	for i, m := range p.best {
		if m.Found() && !p.gtCells[i].IsEmpty() {
			s.GT[i] = clamp01(m.Area / p.gtCells[i].Area())
		}
	}
	for i, m := range p.reverse {
		if m.Found() {
			s.Pred[i] = unionRatio(p.predCells[i], p.gtCells[m.Candidate], m.Area)
		}
	}
	return s
}

// unmatchedScores are the scores of a predicted table no ground truth claimed:
// every cell is a prediction with no counterpart
func unmatchedScores(t *model.Table) CellScores {
	return CellScores{Pred: make([]float64, len(t.Cells))}
}
