package geom

import (
	"math"

	"github.com/tsawler/tabeval/model"
)

// piece is a convex, positively oriented polygon carrying the sign it
// contributes to its ring's area
type piece struct {
	pts    []model.Point
	sign   float64
	bounds model.BBox
}

// convexPieces decomposes a simple, positively oriented ring into signed
// convex pieces whose signed areas sum to the ring's area. Convex rings are
// returned whole; others are fanned into triangles from the first vertex.
func convexPieces(r []model.Point) []piece {
	if isConvex(r) {
		return []piece{{pts: r, sign: 1, bounds: ringBounds(r)}}
	}
	pieces := make([]piece, 0, len(r)-2)
	for i := 1; i+1 < len(r); i++ {
		tri := []model.Point{r[0], r[i], r[i+1]}
		a := signedArea(tri)
		if a == 0 {
			continue
		}
		sign := 1.0
		if a < 0 {
			sign = -1
			tri = oriented(tri)
		}
		pieces = append(pieces, piece{pts: tri, sign: sign, bounds: ringBounds(tri)})
	}
	return pieces
}

// clipConvex clips subject against a convex, positively oriented clip
// polygon (Sutherland-Hodgman). The result is empty when they do not overlap.
func clipConvex(subject, clip []model.Point) []model.Point {
	out := subject
	for i := range clip {
		if len(out) == 0 {
			break
		}
		a, b := clip[i], clip[(i+1)%len(clip)]
		in := out
		out = make([]model.Point, 0, len(in)+2)
		for j := range in {
			cur := in[j]
			prev := in[(j+len(in)-1)%len(in)]
			dc := cross(a, b, cur)
			dp := cross(a, b, prev)
			if dc >= 0 {
				if dp < 0 {
					out = append(out, crossing(prev, cur, dp, dc))
				}
				out = append(out, cur)
			} else if dp > 0 {
				out = append(out, crossing(prev, cur, dp, dc))
			}
		}
	}
	return out
}

// crossing interpolates the point where segment p-q meets the clip line,
// given the signed distances of p and q to it
func crossing(p, q model.Point, dp, dq float64) model.Point {
	t := dp / (dp - dq)
	return model.Point{X: p.X + t*(q.X-p.X), Y: p.Y + t*(q.Y-p.Y)}
}

func pieceOverlap(a, b piece) float64 {
	if !a.bounds.Intersects(b.bounds) {
		return 0
	}
	return math.Abs(signedArea(clipConvex(a.pts, b.pts)))
}
