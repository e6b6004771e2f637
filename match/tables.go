package match

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tsawler/tabeval/geom"
	"github.com/tsawler/tabeval/model"
)

// Shapes builds the shape of every region outline. Invalid outlines are
// repaired with a warning; outlines that cannot be repaired become empty
// shapes (area 0) with a warning. A nil logger disables the diagnostics.
func Shapes[R model.Region](regions []R, logger *zerolog.Logger) []geom.Shape {
	out := make([]geom.Shape, len(regions))
	for i, r := range regions {
		s, err := geom.NewShape(r.Outline())
		switch {
		case errors.Is(err, geom.ErrUnrepairable):
			if logger != nil {
				logger.Warn().Err(err).Str("oid", r.ID()).Stringer("type", r.Type()).Msg("polygon could not be repaired, area treated as 0")
			}
		case s.Repaired:
			if logger != nil {
				logger.Warn().Str("oid", r.ID()).Stringer("type", r.Type()).Int("rings", len(s.Rings())).Msg("repaired invalid polygon")
			}
		}
		out[i] = s
	}
	return out
}

// TablePairing is the one-to-one correspondence between ground-truth and
// predicted tables of a page
type TablePairing struct {
	GT   []*model.Table
	Pred []*model.Table

	// Matches holds one entry per ground-truth table
	Matches []Match

	// UnmatchedPred lists predicted tables no ground-truth table claimed
	UnmatchedPred []int
}

// Tables pairs ground-truth tables with predicted tables by outline
// overlap. Each predicted table is used at most once.
func Tables(gt, pred []*model.Table, logger *zerolog.Logger) TablePairing {
	matches := OneToOne(Shapes(gt, logger), Shapes(pred, logger))
	return TablePairing{
		GT:            gt,
		Pred:          pred,
		Matches:       matches,
		UnmatchedPred: Unclaimed(matches, len(pred)),
	}
}

// Predicted returns the predicted table paired with ground-truth table i,
// or nil
func (p TablePairing) Predicted(i int) *model.Table {
	if i < 0 || i >= len(p.Matches) || !p.Matches[i].Found() {
		return nil
	}
	return p.Pred[p.Matches[i].Candidate]
}

// Viewed returns the number of tables that take part in per-table
// averages: every ground-truth table plus every unclaimed prediction
func (p TablePairing) Viewed() int {
	return len(p.GT) + len(p.UnmatchedPred)
}
