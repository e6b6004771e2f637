package metrics

import (
	"github.com/tsawler/tabeval/geom"
	"github.com/tsawler/tabeval/match"
)

// IoU returns the intersection over union of ground truth a and prediction
// b. When the intersection equals a's area (a lies inside b) the score is 1.
func IoU(a, b geom.Shape) float64 {
	return iouFromArea(a, b, a.IntersectionArea(b))
}

func iouFromArea(a, b geom.Shape, inter float64) float64 {
	if a.IsEmpty() || b.IsEmpty() || inter <= 0 {
		return 0
	}
	if inter == a.Area() {
		return 1
	}
	return unionRatio(a, b, inter)
}

// unionRatio is the plain intersection over union, without the containment
// rule of IoU
func unionRatio(a, b geom.Shape, inter float64) float64 {
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return clamp01(inter / union)
}

// IoGT returns the intersection area divided by the ground-truth area
func IoGT(gt, pred geom.Shape) float64 {
	if gt.IsEmpty() {
		return 0
	}
	return clamp01(gt.IntersectionArea(pred) / gt.Area())
}

// DatasetIoU pairs gt with pred one-to-one and averages the IoU of every
// matched pair over all entities considered: matched pairs, unmatched
// ground truth and unmatched predictions. Unmatched entities score 0.
func DatasetIoU(gt, pred []geom.Shape) float64 {
	return datasetIoU(gt, pred, match.OneToOne(gt, pred))
}

func datasetIoU(gt, pred []geom.Shape, matches []match.Match) float64 {
	var total float64
	matched := 0
	for qi, m := range matches {
		if !m.Found() {
			continue
		}
		total += iouFromArea(gt[qi], pred[m.Candidate], m.Area)
		matched++
	}
	return ratio(total, len(gt)+len(pred)-matched)
}

func ratio(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
