package geom

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/tabeval/model"
)

// ErrUnrepairable is returned when an invalid polygon cannot be decomposed
// into any region with positive area
var ErrUnrepairable = errors.New("geom: polygon cannot be repaired")

// IsValid reports whether p is a simple polygon: at least three distinct
// points, no self-intersections and a non-zero area
func IsValid(p model.Polygon) bool {
	return isSimple(normalize(p))
}

func isSimple(r []model.Point) bool {
	n := len(r)
	if n < 3 || signedArea(r) == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		a, b, c := r[i], r[(i+1)%n], r[(i+2)%n]
		// adjacent edges folding back onto each other
		if cross(a, b, c) == 0 && (b.X-a.X)*(c.X-b.X)+(b.Y-a.Y)*(c.Y-b.Y) < 0 {
			return false
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsTouch(r[i], r[(i+1)%n], r[j], r[(j+1)%n]) {
				return false
			}
		}
	}
	return true
}

// split is a point inserted into an edge at parameter t
type split struct {
	t  float64
	pt model.Point
}

// Repair returns the valid region that best approximates p. A simple polygon
// is returned unchanged. A self-intersecting ring is noded at its crossing
// points and rebuilt from the faces of that linework, keeping each face the
// ring encloses an odd number of times. Degenerate input (fewer than three distinct points) yields an
// empty shape and no error.
func Repair(p model.Polygon) (Shape, error) {
	r := normalize(p)
	if len(r) < 3 {
		return Shape{}, nil
	}
	if isSimple(r) {
		return newShape([][]model.Point{oriented(r)}, false), nil
	}

	r = removeSpikes(r)
	if len(r) < 3 {
		return Shape{Repaired: true}, fmt.Errorf("%w: %d points collapse to a line", ErrUnrepairable, len(p))
	}
	if isSimple(r) {
		return newShape([][]model.Point{oriented(r)}, true), nil
	}

	rings := evenOddFaces(noded(r), r)
	if len(rings) == 0 {
		return Shape{Repaired: true}, fmt.Errorf("%w: no loop with positive area", ErrUnrepairable)
	}
	return newShape(rings, true), nil
}

// noded walks r and inserts every point where one edge meets another, so
// that the walk revisits an identical point wherever the ring touches itself
func noded(r []model.Point) []model.Point {
	n := len(r)
	splits := make([][]split, n)
	for i := 0; i < n; i++ {
		p1, p2 := r[i], r[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			q1, q2 := r[j], r[(j+1)%n]
			si, sj := edgeSplits(p1, p2, q1, q2)
			splits[i] = append(splits[i], si...)
			splits[j] = append(splits[j], sj...)
		}
	}

	out := make([]model.Point, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, r[i])
		s := splits[i]
		sort.SliceStable(s, func(a, b int) bool { return s[a].t < s[b].t })
		for _, sp := range s {
			if sp.pt == out[len(out)-1] {
				continue
			}
			out = append(out, sp.pt)
		}
	}
	return out
}

// edgeSplits returns the interior points of p1-p2 and of q1-q2 where the two
// segments meet. Shared points carry identical coordinates in both lists.
func edgeSplits(p1, p2, q1, q2 model.Point) (onP, onQ []split) {
	if !model.NewBBoxFromPoints(p1, p2).Intersects(model.NewBBoxFromPoints(q1, q2)) {
		return nil, nil
	}
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	ex, ey := q2.X-q1.X, q2.Y-q1.Y
	d := dx*ey - dy*ex

	if d == 0 {
		if cross(p1, p2, q1) != 0 {
			return nil, nil
		}
		// collinear overlap: each endpoint inside the other segment splits it
		for _, q := range []model.Point{q1, q2} {
			if t, ok := interiorParam(p1, p2, q); ok {
				onP = append(onP, split{t, q})
			}
		}
		for _, p := range []model.Point{p1, p2} {
			if u, ok := interiorParam(q1, q2, p); ok {
				onQ = append(onQ, split{u, p})
			}
		}
		return onP, onQ
	}

	wx, wy := q1.X-p1.X, q1.Y-p1.Y
	t := (wx*ey - wy*ex) / d
	u := (wx*dy - wy*dx) / d
	if t < -paramEps || t > 1+paramEps || u < -paramEps || u > 1+paramEps {
		return nil, nil
	}
	tInterior := t > paramEps && t < 1-paramEps
	uInterior := u > paramEps && u < 1-paramEps

	switch {
	case tInterior && uInterior:
		x := model.Point{X: p1.X + t*dx, Y: p1.Y + t*dy}
		onP = append(onP, split{t, x})
		onQ = append(onQ, split{u, x})
	case tInterior:
		// a vertex of q lies on p
		onP = append(onP, split{t, endpoint(q1, q2, u)})
	case uInterior:
		onQ = append(onQ, split{u, endpoint(p1, p2, t)})
	}
	return onP, onQ
}

func endpoint(a, b model.Point, t float64) model.Point {
	if t < 0.5 {
		return a
	}
	return b
}

// interiorParam returns the parameter of p along a-b when p lies strictly
// between the endpoints
func interiorParam(a, b, p model.Point) (float64, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := dx*dx + dy*dy
	if l == 0 {
		return 0, false
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l
	return t, t > paramEps && t < 1-paramEps
}

// edgeKey identifies a directed edge between two vertex indices
type edgeKey [2]int

// evenOddFaces traces the bounded faces of the planar graph formed by the
// noded walk and keeps those lying inside r under the even-odd rule. Kept
// faces have disjoint interiors.
func evenOddFaces(walk, r []model.Point) [][]model.Point {
	index := make(map[model.Point]int, len(walk))
	verts := make([]model.Point, 0, len(walk))
	id := func(pt model.Point) int {
		if k, ok := index[pt]; ok {
			return k
		}
		index[pt] = len(verts)
		verts = append(verts, pt)
		return len(verts) - 1
	}

	var adj [][]int
	seen := make(map[edgeKey]bool, len(walk))
	for i := range walk {
		a, b := id(walk[i]), id(walk[(i+1)%len(walk)])
		for len(adj) < len(verts) {
			adj = append(adj, nil)
		}
		if a == b || seen[edgeKey{a, b}] {
			continue
		}
		seen[edgeKey{a, b}], seen[edgeKey{b, a}] = true, true
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}

	// neighbours in counter-clockwise order around each vertex
	for v, ns := range adj {
		angle := func(n int) float64 { return math.Atan2(verts[n].Y-verts[v].Y, verts[n].X-verts[v].X) }
		sort.SliceStable(ns, func(i, j int) bool { return angle(ns[i]) < angle(ns[j]) })
	}
	// next turns as far left as possible, keeping the face on the left
	next := func(from, at int) int {
		ns := adj[at]
		for k, n := range ns {
			if n == from {
				return ns[(k+len(ns)-1)%len(ns)]
			}
		}
		return from
	}

	var faces [][]model.Point
	visited := make(map[edgeKey]bool, 2*len(walk))
	for u, ns := range adj {
		for _, v := range ns {
			var face []model.Point
			for a, b := u, v; !visited[edgeKey{a, b}]; a, b = b, next(a, b) {
				visited[edgeKey{a, b}] = true
				face = append(face, verts[a])
			}
			if signedArea(face) <= 0 {
				// the unbounded face, or a face with no area
				continue
			}
			face = removeSpikes(dedupe(face))
			if !isSimple(face) || !containsPoint(r, interiorPoint(face)) {
				continue
			}
			faces = append(faces, oriented(face))
		}
	}
	return faces
}

// interiorPoint returns a point strictly inside the simple ring r: the
// middle of the widest span on a scanline through the largest gap between
// vertex rows
func interiorPoint(r []model.Point) model.Point {
	ys := make([]float64, len(r))
	for i, pt := range r {
		ys[i] = pt.Y
	}
	sort.Float64s(ys)
	y, gap := ys[0], 0.0
	for i := 1; i < len(ys); i++ {
		if d := ys[i] - ys[i-1]; d > gap {
			y, gap = (ys[i]+ys[i-1])/2, d
		}
	}

	var xs []float64
	for i := range r {
		a, b := r[i], r[(i+1)%len(r)]
		if (a.Y > y) != (b.Y > y) {
			xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
		}
	}
	sort.Float64s(xs)
	best := r[0]
	width := -1.0
	for i := 0; i+1 < len(xs); i += 2 {
		if w := xs[i+1] - xs[i]; w > width {
			best, width = model.Point{X: (xs[i] + xs[i+1]) / 2, Y: y}, w
		}
	}
	return best
}
