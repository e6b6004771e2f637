// Package model provides the annotation data model consumed by the
// evaluation engine.
//
// The types here describe ground-truth and predicted page annotations in the
// shared file format. They are plain data: evaluation reads them and never
// mutates them.
//
// # Documents and Revisions
//
// A [Document] holds the base content of an annotated page plus zero or more
// prediction [Revision] snapshots:
//
//	doc := model.NewDocument("page-001.png")
//	doc.AddRegion(table)
//	doc.AddRevision("model-a", regions)
//
// Revisions are passed explicitly to evaluation; there is no "active
// revision" cursor. [Document.Views] lists the snapshots to score, and
// [Document.Current] is the view ground truth is read through.
//
// # Regions
//
// All document content implements the [Region] interface. The concrete
// types are:
//
//   - [PolygonRegion] - any polygon-shaped annotation
//   - [Table] - tables with cells and row/column spans
//   - [Cell] - a table cell (regions of a table, not of a document)
//
// # Tables
//
// [Table.Structure] clusters cells into row groups and column groups by the
// span indices they cover; [Table.Coordinates] gives the table outline.
//
// # Geometry
//
//   - [Point] - 2D point with distance calculation
//   - [Polygon] - ordered ring of points, possibly invalid as delivered
//   - [BBox] - axis-aligned bounding box
//   - [Color] - RGB colour used for page backgrounds
package model
