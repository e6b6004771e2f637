package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point represents a 2D point in image coordinates
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Polygon is an ordered ring of points. The closing edge from the last point
// back to the first is implicit; a repeated closing point is tolerated.
type Polygon []Point

// NewPolygon builds a polygon from [x, y] pairs
func NewPolygon(coords ...[2]float64) Polygon {
	p := make(Polygon, len(coords))
	for i, c := range coords {
		p[i] = Point{X: c[0], Y: c[1]}
	}
	return p
}

// Rect returns the axis-aligned rectangle polygon spanning (x0,y0)-(x1,y1)
func Rect(x0, y0, x1, y1 float64) Polygon {
	return Polygon{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// BBox returns the axis-aligned bounding box of the polygon
func (p Polygon) BBox() BBox {
	if len(p) == 0 {
		return BBox{}
	}
	minX, minY := p[0].X, p[0].Y
	maxX, maxY := p[0].X, p[0].Y
	for _, pt := range p[1:] {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Clone returns a copy that does not share storage with p
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// BBox represents a bounding box (rectangle)
type BBox struct {
	X      float64 // Left
	Y      float64 // Top in image coordinates (y grows downwards)
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box from two points
func NewBBoxFromPoints(p1, p2 Point) BBox {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	width := math.Abs(p2.X - p1.X)
	height := math.Abs(p2.Y - p1.Y)
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// MinX returns the left edge
func (b BBox) MinX() float64 { return b.X }

// MaxX returns the right edge
func (b BBox) MaxX() float64 { return b.X + b.Width }

// MinY returns the smaller Y edge
func (b BBox) MinY() float64 { return b.Y }

// MaxY returns the larger Y edge
func (b BBox) MaxY() float64 { return b.Y + b.Height }

// Contains checks if a point is inside the bounding box (edges included)
func (b BBox) Contains(p Point) bool {
	return p.X >= b.MinX() && p.X <= b.MaxX() &&
		p.Y >= b.MinY() && p.Y <= b.MaxY()
}

// Intersects checks if two bounding boxes intersect or touch
func (b BBox) Intersects(other BBox) bool {
	return !(b.MaxX() < other.MinX() ||
		b.MinX() > other.MaxX() ||
		b.MaxY() < other.MinY() ||
		b.MinY() > other.MaxY())
}

// Union returns the smallest box containing both boxes
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.MinX(), other.MinX())
	y := math.Min(b.MinY(), other.MinY())
	right := math.Max(b.MaxX(), other.MaxX())
	bottom := math.Max(b.MaxY(), other.MaxY())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Polygon returns the box as a four-point ring
func (b BBox) Polygon() Polygon {
	return Rect(b.MinX(), b.MinY(), b.MaxX(), b.MaxY())
}

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}

// White is the default page background
var White = Color{R: 255, G: 255, B: 255}

// ParseColor parses "#rrggbb", "rrggbb" or "#rgb"
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// String formats the color as #rrggbb
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
