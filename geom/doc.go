// Package geom provides planar polygon geometry for evaluation: area,
// intersection and repair of self-intersecting rings.
//
// Annotation tools sometimes deliver polygons whose boundary crosses itself.
// Every polygon is turned into a [Shape] before it is measured:
//
//	s, err := geom.NewShape(cell.BoundingBox)
//	if errors.Is(err, geom.ErrUnrepairable) {
//		// treat the cell as having area 0
//	}
//
// # Validity and Repair
//
// [IsValid] accepts simple rings only. [Repair] nodes an invalid ring at
// every point where it touches itself and rebuilds the region from the faces
// of the noded linework under the even-odd rule, so a pentagram keeps its
// five points but not the pentagon they enclose twice. Degenerate rings (fewer than three distinct points) are empty
// shapes, not errors.
//
// # Intersection
//
// Shapes are decomposed into signed convex pieces once at construction;
// [Shape.IntersectionArea] sums the clipped overlap of every piece pair.
// Rectangles and other convex rings are clipped directly, so axis-aligned
// boxes with integer coordinates produce exact areas.
package geom
