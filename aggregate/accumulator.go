// Package aggregate folds per-document metric values into dataset averages.
//
// An [Accumulator] keeps, for every metric and group label (a revision name
// or [model.NoRevision]), the sum of the values folded so far along with the
// number of files considered. Accumulators built independently, for example
// one per worker, combine with [Accumulator.Merge]; merging is associative
// and commutative, so the order files finish in never changes a report.
package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tsawler/tabeval/metrics"
)

// ErrRevisionMismatch is returned when a document carries a different
// number of revisions than the ones already folded. It is fatal: a
// mismatched revision set corrupts every average.
var ErrRevisionMismatch = errors.New("aggregate: revision count mismatch")

// Accumulator holds metric sums per group and the number of files folded.
// The zero value is ready to use.
type Accumulator struct {
	sums  map[string]map[string]float64
	files int
}

// New returns an empty accumulator
func New() *Accumulator {
	return &Accumulator{sums: make(map[string]map[string]float64)}
}

// Fold adds value to the sum of metric for group, starting from 0
func (a *Accumulator) Fold(metric, group string, value float64) {
	if a.sums == nil {
		a.sums = make(map[string]map[string]float64)
	}
	g, ok := a.sums[metric]
	if !ok {
		g = make(map[string]float64)
		a.sums[metric] = g
	}
	g[group] += value
}

// FoldScores folds every score of one view under group
func (a *Accumulator) FoldScores(group string, scores metrics.Scores) {
	for k, v := range scores {
		a.Fold(k, group, v)
	}
}

// AddFile counts one more file toward the averages
func (a *Accumulator) AddFile() { a.files++ }

// Files returns the number of files considered
func (a *Accumulator) Files() int { return a.files }

// Sum returns the raw sum for metric and group
func (a *Accumulator) Sum(metric, group string) float64 {
	return a.sums[metric][group]
}

// Merge adds every sum and the file count of o into a
func (a *Accumulator) Merge(o *Accumulator) {
	if o == nil {
		return
	}
	for metric, groups := range o.sums {
		for group, v := range groups {
			a.Fold(metric, group, v)
		}
	}
	a.files += o.files
}

// Groups returns the distinct group labels recorded under metric, sorted
func (a *Accumulator) Groups(metric string) []string {
	groups := make([]string, 0, len(a.sums[metric]))
	for g := range a.sums[metric] {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Metrics returns the metric keys recorded, sorted
func (a *Accumulator) Metrics() []string {
	keys := make([]string, 0, len(a.sums))
	for k := range a.sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CheckRevisions verifies that the number of distinct group labels recorded
// under the IoU metric equals revisions, the count of views just folded.
// Accumulators without an IoU metric are not checked.
func (a *Accumulator) CheckRevisions(revisions int) error {
	groups, ok := a.sums[metrics.KeyIoU]
	if !ok {
		return nil
	}
	if len(groups) != revisions {
		return fmt.Errorf("%w: %d revision labels recorded (%v), document has %d",
			ErrRevisionMismatch, len(groups), a.Groups(metrics.KeyIoU), revisions)
	}
	return nil
}

// Averages maps metric keys to group labels to averaged values
type Averages map[string]map[string]float64

// Report divides every sum by the number of files considered. An
// accumulator with no files yields an empty report.
func (a *Accumulator) Report() Averages {
	out := make(Averages, len(a.sums))
	if a.files == 0 {
		return out
	}
	for metric, groups := range a.sums {
		g := make(map[string]float64, len(groups))
		for group, v := range groups {
			g[group] = v / float64(a.files)
		}
		out[metric] = g
	}
	return out
}
