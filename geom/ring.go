package geom

import (
	"math"

	"github.com/tsawler/tabeval/model"
)

// paramEps classifies segment parameters as lying on an endpoint
const paramEps = 1e-12

// normalize drops consecutive duplicate points and a repeated closing point
func normalize(p model.Polygon) []model.Point {
	out := make([]model.Point, 0, len(p))
	for _, pt := range p {
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
			continue
		}
		if n := len(out); n > 0 && out[n-1] == pt {
			continue
		}
		out = append(out, pt)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// removeSpikes drops vertices where the ring doubles back on itself along a
// straight line, and vertices that lie on a straight run
func removeSpikes(r []model.Point) []model.Point {
	out := append([]model.Point(nil), r...)
	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			cur := out[i]
			next := out[(i+1)%len(out)]
			if cross(prev, cur, next) != 0 {
				continue
			}
			out = append(out[:i], out[i+1:]...)
			changed = true
			i--
		}
		out = dedupe(out)
	}
	return out
}

func dedupe(r []model.Point) []model.Point {
	return normalize(model.Polygon(r))
}

// signedArea is the shoelace area; positive for counter-clockwise rings in a
// y-up frame
func signedArea(r []model.Point) float64 {
	if len(r) < 3 {
		return 0
	}
	var s float64
	for i := range r {
		j := (i + 1) % len(r)
		s += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return s / 2
}

// oriented returns r with positive signed area
func oriented(r []model.Point) []model.Point {
	if signedArea(r) >= 0 {
		return r
	}
	out := make([]model.Point, len(r))
	for i, pt := range r {
		out[len(r)-1-i] = pt
	}
	return out
}

// cross is the z-component of (b-a) x (c-a)
func cross(a, b, c model.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func isConvex(r []model.Point) bool {
	if len(r) < 3 {
		return false
	}
	sign := 0
	for i := range r {
		c := cross(r[i], r[(i+1)%len(r)], r[(i+2)%len(r)])
		switch {
		case c > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case c < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

func ringBounds(r []model.Point) model.BBox {
	return model.Polygon(r).BBox()
}

// onSegment reports whether p lies on the closed segment a-b
func onSegment(a, b, p model.Point) bool {
	if cross(a, b, p) != 0 {
		return false
	}
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

func orientation(a, b, c model.Point) int {
	v := cross(a, b, c)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// segmentsTouch reports whether closed segments p1-p2 and q1-q2 share a point
func segmentsTouch(p1, p2, q1, q2 model.Point) bool {
	o1 := orientation(p1, p2, q1)
	o2 := orientation(p1, p2, q2)
	o3 := orientation(q1, q2, p1)
	o4 := orientation(q1, q2, p2)

	if o1 != o2 && o3 != o4 {
		return true
	}
	return (o1 == 0 && onSegment(p1, p2, q1)) ||
		(o2 == 0 && onSegment(p1, p2, q2)) ||
		(o3 == 0 && onSegment(q1, q2, p1)) ||
		(o4 == 0 && onSegment(q1, q2, p2))
}

// containsPoint reports whether pt lies inside or on the boundary of ring r
func containsPoint(r []model.Point, pt model.Point) bool {
	inside := false
	for i := range r {
		a, b := r[i], r[(i+1)%len(r)]
		if onSegment(a, b, pt) {
			return true
		}
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
