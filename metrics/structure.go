package metrics

import (
	"github.com/tsawler/tabeval/model"
)

// Completeness returns the share of ground-truth rows and columns whose cell
// count equals that of the prediction's group at the same index. A group
// missing on the prediction side is incomplete.
func Completeness(gt, pred *model.Table) float64 {
	if gt == nil || pred == nil {
		return 0
	}
	sg, sp := gt.Structure(), pred.Structure()
	complete := sameLengths(sg.Rows, sp.Rows) + sameLengths(sg.Columns, sp.Columns)
	return ratio(float64(complete), len(sg.Rows)+len(sg.Columns))
}

func sameLengths(gt, pred [][]*model.Cell) int {
	n := 0
	for i, g := range gt {
		if i < len(pred) && len(pred[i]) == len(g) {
			n++
		}
	}
	return n
}

// Purity compares row and column counts. An over-segmented prediction is
// credited with the ground-truth count; an under-segmented one with its own
// count, or 0 when it collapsed to a single group.
func Purity(gt, pred *model.Table) float64 {
	if gt == nil || pred == nil {
		return 0
	}
	sg, sp := gt.Structure(), pred.Structure()
	credited := credit(len(sg.Columns), len(sp.Columns)) + credit(len(sg.Rows), len(sp.Rows))
	return ratio(float64(credited), len(sg.Columns)+len(sg.Rows))
}

func credit(gt, pred int) int {
	switch {
	case pred >= gt:
		return gt
	case pred > 1:
		return pred
	}
	return 0
}

// TSRShare averages, over ground-truth cells, the share of the four span
// indices that agree with the best overlapping predicted cell. A cell with
// no counterpart scores 0; an empty table scores 0.
func (p *TablePair) TSRShare() float64 {
	if !p.Matched() {
		return 0
	}
	var total float64
	for i, m := range p.best {
		if m.Found() {
			total += spanAgreement(p.GT.Cells[i], p.Pred.Cells[m.Candidate])
		}
	}
	return ratio(total, len(p.gtCells))
}

func spanAgreement(gt, pred *model.Cell) float64 {
	n := 0
	if gt.StartColumn == pred.StartColumn {
		n++
	}
	if gt.EndColumn == pred.EndColumn {
		n++
	}
	if gt.StartRow == pred.StartRow {
		n++
	}
	if gt.EndRow == pred.EndRow {
		n++
	}
	return float64(n) / 4
}
