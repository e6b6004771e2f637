package metrics

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/tabeval/model"
)

// TextOptions controls how cell text is normalized before comparison
type TextOptions struct {
	// FoldCase compares text case-insensitively
	FoldCase bool
}

func (o TextOptions) normalize(s string) []rune {
	s = norm.NFC.String(s)
	if o.FoldCase {
		s = cases.Fold().String(s)
	}
	return []rune(s)
}

// Levenshtein returns the minimum number of single-rune insertions,
// deletions and substitutions turning a into b
func Levenshtein(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// Similarity returns 1 - distance/max(len) for two strings after
// normalization. Two empty strings score 0.
func (o TextOptions) Similarity(a, b string) float64 {
	ra, rb := o.normalize(a), o.normalize(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 0
	}
	return 1 - float64(Levenshtein(ra, rb))/float64(longest)
}

// CellSimilarity compares the text of two cells. A missing text field on
// either side scores 0.
func (o TextOptions) CellSimilarity(gt, pred *model.Cell) float64 {
	a, okA := gt.Text()
	b, okB := pred.Text()
	if !okA || !okB {
		return 0
	}
	return o.Similarity(a, b)
}

// TextSimilarity pairs the cells of p one-to-one and averages the
// similarity of matched cells over every cell considered. Unmatched cells
// on either side score 0.
func (p *TablePair) TextSimilarity(o TextOptions) float64 {
	if !p.Matched() {
		return 0
	}
	var total float64
	matched := 0
	for i, m := range p.oneToOne {
		if !m.Found() {
			continue
		}
		total += o.CellSimilarity(p.GT.Cells[i], p.Pred.Cells[m.Candidate])
		matched++
	}
	return ratio(total, len(p.gtCells)+len(p.predCells)-matched)
}

// TextScores returns the text similarity of every cell against its best
// overlapping counterpart
func (p *TablePair) TextScores(o TextOptions) CellScores {
	s := CellScores{GT: make([]float64, len(p.gtCells)), Pred: make([]float64, len(p.predCells))}
	for i, m := range p.best {
		if m.Found() {
			s.GT[i] = o.CellSimilarity(p.GT.Cells[i], p.Pred.Cells[m.Candidate])
		}
	}
	for i, m := range p.reverse {
		if m.Found() {
			s.Pred[i] = o.CellSimilarity(p.GT.Cells[m.Candidate], p.Pred.Cells[i])
		}
	}
	return s
}
