package geom

import (
	"math"

	"github.com/tsawler/tabeval/model"
)

// relEps is the relative tolerance for snapping an intersection area onto
// the smaller operand's area
const relEps = 1e-9

// Shape is a valid planar region: a set of simple, positively oriented,
// pairwise disjoint rings. The zero Shape is empty.
type Shape struct {
	rings  [][]model.Point
	pieces [][]piece
	area   float64
	bounds model.BBox

	// Repaired is set when the source polygon was invalid and the region
	// was reconstructed from it
	Repaired bool
}

func newShape(rings [][]model.Point, repaired bool) Shape {
	s := Shape{rings: rings, Repaired: repaired}
	s.pieces = make([][]piece, len(rings))
	for i, r := range rings {
		s.pieces[i] = convexPieces(r)
		s.area += math.Abs(signedArea(r))
		if i == 0 {
			s.bounds = ringBounds(r)
		} else {
			s.bounds = s.bounds.Union(ringBounds(r))
		}
	}
	return s
}

// NewShape builds the region described by p, repairing it first when it is
// not a simple polygon. See [Repair].
func NewShape(p model.Polygon) (Shape, error) {
	return Repair(p)
}

// MustShape is like NewShape but returns an empty shape on error
func MustShape(p model.Polygon) Shape {
	s, err := NewShape(p)
	if err != nil {
		return Shape{Repaired: true}
	}
	return s
}

// Area returns the region's area
func (s Shape) Area() float64 { return s.area }

// IsEmpty reports whether the shape covers no area
func (s Shape) IsEmpty() bool { return len(s.rings) == 0 || s.area == 0 }

// Bounds returns the shape's bounding box
func (s Shape) Bounds() model.BBox { return s.bounds }

// Rings returns copies of the shape's rings as polygons
func (s Shape) Rings() []model.Polygon {
	out := make([]model.Polygon, len(s.rings))
	for i, r := range s.rings {
		out[i] = model.Polygon(r).Clone()
	}
	return out
}

// Contains reports whether pt lies inside the shape or on its boundary
func (s Shape) Contains(pt model.Point) bool {
	if s.IsEmpty() || !s.bounds.Contains(pt) {
		return false
	}
	for _, r := range s.rings {
		if containsPoint(r, pt) {
			return true
		}
	}
	return false
}

// IntersectionArea returns the area common to s and o
func (s Shape) IntersectionArea(o Shape) float64 {
	if s.IsEmpty() || o.IsEmpty() || !s.bounds.Intersects(o.bounds) {
		return 0
	}
	var total float64
	for _, ps := range s.pieces {
		for _, po := range o.pieces {
			for _, a := range ps {
				for _, b := range po {
					total += a.sign * b.sign * pieceOverlap(a, b)
				}
			}
		}
	}
	if total <= 0 {
		return 0
	}
	smaller := math.Min(s.area, o.area)
	if math.Abs(total-smaller) <= relEps*math.Max(1, smaller) || total > smaller {
		return smaller
	}
	return total
}

// Intersects reports whether s and o share at least one point, including
// boundary contact
func (s Shape) Intersects(o Shape) bool {
	if s.IsEmpty() || o.IsEmpty() || !s.bounds.Intersects(o.bounds) {
		return false
	}
	for _, a := range s.rings {
		for _, b := range o.rings {
			if ringsTouch(a, b) {
				return true
			}
		}
	}
	return s.IntersectionArea(o) > 0
}

func ringsTouch(a, b []model.Point) bool {
	for i := range a {
		p1, p2 := a[i], a[(i+1)%len(a)]
		for j := range b {
			if segmentsTouch(p1, p2, b[j], b[(j+1)%len(b)]) {
				return true
			}
		}
	}
	return containsPoint(b, a[0]) || containsPoint(a, b[0])
}

// Area returns the area of the region described by p. Invalid polygons are
// repaired first; degenerate or unrepairable ones have area 0.
func Area(p model.Polygon) float64 {
	return MustShape(p).Area()
}

// Intersects reports whether the regions of a and b share any point
func Intersects(a, b Shape) bool {
	return a.Intersects(b)
}

// IntersectionArea returns the area common to a and b
func IntersectionArea(a, b Shape) float64 {
	return a.IntersectionArea(b)
}
