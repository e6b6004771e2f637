package metrics

// Confusion counts true positives, false positives and false negatives at
// one cutoff
type Confusion struct {
	TP int
	FP int
	FN int
}

// Precision returns TP / (TP + FP), or 0 when nothing was predicted
func (c Confusion) Precision() float64 {
	return ratio(float64(c.TP), c.TP+c.FP)
}

// Recall returns TP / (TP + FN), or 0 when there is no ground truth
func (c Confusion) Recall() float64 {
	return ratio(float64(c.TP), c.TP+c.FN)
}

// F1 returns the harmonic mean of precision and recall, or 0 when both are 0
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// CellScores holds one score per ground-truth cell, taken against its best
// predicted cell, and one per predicted cell, taken against its best
// ground-truth cell. Cells without a counterpart score 0.
type CellScores struct {
	GT   []float64
	Pred []float64
}

// Add appends the scores of another table
func (s *CellScores) Add(o CellScores) {
	s.GT = append(s.GT, o.GT...)
	s.Pred = append(s.Pred, o.Pred...)
}

// At classifies the scores at cutoff tau. A ground-truth cell scoring at
// least tau is a true positive, otherwise a false negative; a predicted cell
// scoring below tau is a false positive.
func (s CellScores) At(tau float64) Confusion {
	var c Confusion
	for _, v := range s.GT {
		if v >= tau {
			c.TP++
		} else {
			c.FN++
		}
	}
	for _, v := range s.Pred {
		if v < tau {
			c.FP++
		}
	}
	return c
}

// emit writes precision, recall and F1 for every threshold under prefix
func (s CellScores) emit(out Scores, prefix string, thresholds []float64) {
	for _, tau := range thresholds {
		c := s.At(tau)
		out[ThresholdKey(prefix+"_precision", tau)] = c.Precision()
		out[ThresholdKey(prefix+"_recall", tau)] = c.Recall()
		out[ThresholdKey(prefix+"_f1", tau)] = c.F1()
	}
}
