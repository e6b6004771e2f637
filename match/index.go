package match

import (
	"sort"

	"github.com/tidwall/rtree"

	"github.com/tsawler/tabeval/geom"
	"github.com/tsawler/tabeval/model"
)

// Index is a bounding-box index over candidate shapes. Searches return
// candidate positions in input order so that tie-breaking by earliest
// candidate is preserved.
type Index struct {
	tr rtree.RTreeG[int]
	n  int
}

// NewIndex indexes the bounds of every non-empty candidate
func NewIndex(candidates []geom.Shape) *Index {
	idx := &Index{n: len(candidates)}
	for i, c := range candidates {
		if c.IsEmpty() {
			continue
		}
		b := c.Bounds()
		idx.tr.Insert([2]float64{b.MinX(), b.MinY()}, [2]float64{b.MaxX(), b.MaxY()}, i)
	}
	return idx
}

// Len returns the number of indexed candidates, empty ones included
func (idx *Index) Len() int { return idx.n }

// Search returns the positions of candidates whose bounds touch b, ascending
func (idx *Index) Search(b model.BBox) []int {
	var hits []int
	idx.tr.Search([2]float64{b.MinX(), b.MinY()}, [2]float64{b.MaxX(), b.MaxY()},
		func(_, _ [2]float64, i int) bool {
			hits = append(hits, i)
			return true
		})
	sort.Ints(hits)
	return hits
}
