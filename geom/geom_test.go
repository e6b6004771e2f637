package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/tsawler/tabeval/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func shape(t *testing.T, p model.Polygon) Shape {
	t.Helper()
	s, err := NewShape(p)
	if err != nil {
		t.Fatalf("NewShape(%v) error = %v", p, err)
	}
	return s
}

// ============================================================================
// Area Tests
// ============================================================================

func TestArea(t *testing.T) {
	tests := []struct {
		name string
		poly model.Polygon
		want float64
	}{
		{"empty", nil, 0},
		{"two points", model.NewPolygon([2]float64{0, 0}, [2]float64{1, 1}), 0},
		{"collinear", model.NewPolygon([2]float64{0, 0}, [2]float64{1, 1}, [2]float64{2, 2}), 0},
		{"unit square", model.Rect(0, 0, 1, 1), 1},
		{"clockwise square", model.NewPolygon([2]float64{0, 0}, [2]float64{0, 2}, [2]float64{2, 2}, [2]float64{2, 0}), 4},
		{"closed ring", model.NewPolygon([2]float64{0, 0}, [2]float64{4, 0}, [2]float64{4, 3}, [2]float64{0, 0}), 6},
		{"L shape", model.NewPolygon(
			[2]float64{0, 0}, [2]float64{2, 0}, [2]float64{2, 1},
			[2]float64{1, 1}, [2]float64{1, 2}, [2]float64{0, 2}), 3},
		{"bowtie", model.NewPolygon([2]float64{0, 0}, [2]float64{2, 2}, [2]float64{2, 0}, [2]float64{0, 2}), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Area(tt.poly); !almostEqual(got, tt.want) {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Validity Tests
// ============================================================================

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		poly model.Polygon
		want bool
	}{
		{"square", model.Rect(0, 0, 10, 10), true},
		{"triangle", model.NewPolygon([2]float64{0, 0}, [2]float64{4, 0}, [2]float64{2, 3}), true},
		{"bowtie", model.NewPolygon([2]float64{0, 0}, [2]float64{2, 2}, [2]float64{2, 0}, [2]float64{0, 2}), false},
		{"too few points", model.NewPolygon([2]float64{0, 0}, [2]float64{1, 0}), false},
		{"zero area", model.NewPolygon([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{2, 0}), false},
		{"touching itself at a vertex", model.NewPolygon(
			[2]float64{0, 0}, [2]float64{2, 0}, [2]float64{1, 1},
			[2]float64{2, 2}, [2]float64{0, 2}, [2]float64{1, 1}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.poly); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Repair Tests
// ============================================================================

func TestRepairBowtie(t *testing.T) {
	bowtie := model.NewPolygon([2]float64{0, 0}, [2]float64{2, 2}, [2]float64{2, 0}, [2]float64{0, 2})

	s, err := Repair(bowtie)
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	if !s.Repaired {
		t.Error("Repaired flag not set")
	}
	rings := s.Rings()
	if len(rings) != 2 {
		t.Fatalf("rings = %d, want 2", len(rings))
	}
	for i, r := range rings {
		if !IsValid(r) {
			t.Errorf("ring %d is not valid: %v", i, r)
		}
		if a := Area(r); !almostEqual(a, 1) {
			t.Errorf("ring %d area = %v, want 1", i, a)
		}
	}
	if !almostEqual(s.Area(), 2) {
		t.Errorf("Area() = %v, want 2", s.Area())
	}
}

func TestRepairValidIsUnchanged(t *testing.T) {
	sq := model.Rect(0, 0, 3, 3)
	s, err := Repair(sq)
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	if s.Repaired {
		t.Error("valid polygon marked as repaired")
	}
	if len(s.Rings()) != 1 || !almostEqual(s.Area(), 9) {
		t.Errorf("Repair() = %d rings, area %v", len(s.Rings()), s.Area())
	}
}

func TestRepairDegenerate(t *testing.T) {
	s, err := Repair(model.NewPolygon([2]float64{1, 1}, [2]float64{1, 1}))
	if err != nil {
		t.Fatalf("degenerate input should not error, got %v", err)
	}
	if !s.IsEmpty() {
		t.Error("degenerate input should be empty")
	}
}

func TestRepairUnrepairable(t *testing.T) {
	// a ring that only walks back and forth along a line
	line := model.NewPolygon([2]float64{0, 0}, [2]float64{2, 0}, [2]float64{1, 0}, [2]float64{3, 0})
	s, err := Repair(line)
	if !errors.Is(err, ErrUnrepairable) {
		t.Fatalf("Repair() error = %v, want ErrUnrepairable", err)
	}
	if s.Area() != 0 {
		t.Errorf("Area() = %v, want 0", s.Area())
	}
}

func TestRepairVertexTouch(t *testing.T) {
	// two triangles joined at (1,1)
	poly := model.NewPolygon(
		[2]float64{0, 0}, [2]float64{2, 0}, [2]float64{1, 1},
		[2]float64{2, 2}, [2]float64{0, 2}, [2]float64{1, 1})
	s, err := Repair(poly)
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	if len(s.Rings()) != 2 {
		t.Errorf("rings = %d, want 2", len(s.Rings()))
	}
	if !almostEqual(s.Area(), 2) {
		t.Errorf("Area() = %v, want 2", s.Area())
	}
}

func TestRepairPentagram(t *testing.T) {
	// star drawn through every second vertex of a regular pentagon, R=10
	var pts [][2]float64
	for i := range 5 {
		a := math.Pi/2 + 2*math.Pi*float64((2*i)%5)/5
		pts = append(pts, [2]float64{10 * math.Cos(a), 10 * math.Sin(a)})
	}
	s, err := Repair(model.NewPolygon(pts...))
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}

	// the star's footprint is the ten triangles around the centre
	inner := 10 * math.Cos(2*math.Pi/5) / math.Cos(math.Pi/5)
	footprint := 10 * 0.5 * 10 * inner * math.Sin(math.Pi/5)
	pentagon := 0.5 * 5 * inner * inner * math.Sin(2*math.Pi/5)

	if s.Area() > footprint+1e-9 {
		t.Errorf("Area() = %v exceeds the footprint %v", s.Area(), footprint)
	}
	// the centre is enclosed twice and drops out
	if math.Abs(s.Area()-(footprint-pentagon)) > 1e-6 {
		t.Errorf("Area() = %v, want %v", s.Area(), footprint-pentagon)
	}
	if s.Contains(model.Point{}) {
		t.Error("centre should not be inside the repaired star")
	}

	rings := s.Rings()
	if len(rings) != 5 {
		t.Fatalf("rings = %d, want 5", len(rings))
	}
	for i := range rings {
		if !IsValid(rings[i]) {
			t.Errorf("ring %d is not valid: %v", i, rings[i])
		}
		for j := i + 1; j < len(rings); j++ {
			if a := IntersectionArea(MustShape(rings[i]), MustShape(rings[j])); a > 1e-9 {
				t.Errorf("rings %d and %d overlap by %v", i, j, a)
			}
		}
	}
}

// ============================================================================
// Intersection Tests
// ============================================================================

func TestIntersectionArea(t *testing.T) {
	tests := []struct {
		name string
		a, b model.Polygon
		want float64
	}{
		{"identical", model.Rect(0, 0, 10, 10), model.Rect(0, 0, 10, 10), 100},
		{"half overlap", model.Rect(0, 0, 10, 10), model.Rect(5, 0, 15, 10), 50},
		{"contained", model.Rect(0, 0, 10, 10), model.Rect(2, 2, 4, 4), 4},
		{"disjoint", model.Rect(0, 0, 1, 1), model.Rect(5, 5, 6, 6), 0},
		{"edge contact", model.Rect(0, 0, 1, 1), model.Rect(1, 0, 2, 1), 0},
		{"triangle in square", model.Rect(0, 0, 4, 4),
			model.NewPolygon([2]float64{0, 0}, [2]float64{4, 0}, [2]float64{0, 4}), 8},
		{"L shape with square", model.NewPolygon(
			[2]float64{0, 0}, [2]float64{2, 0}, [2]float64{2, 1},
			[2]float64{1, 1}, [2]float64{1, 2}, [2]float64{0, 2}),
			model.Rect(0, 0, 2, 2), 3},
		{"L shape notch only", model.NewPolygon(
			[2]float64{0, 0}, [2]float64{2, 0}, [2]float64{2, 1},
			[2]float64{1, 1}, [2]float64{1, 2}, [2]float64{0, 2}),
			model.Rect(1, 1, 2, 2), 0},
		{"bowtie with square", model.NewPolygon(
			[2]float64{0, 0}, [2]float64{2, 2}, [2]float64{2, 0}, [2]float64{0, 2}),
			model.Rect(0, 0, 2, 2), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := MustShape(tt.a), MustShape(tt.b)
			if got := IntersectionArea(a, b); !almostEqual(got, tt.want) {
				t.Errorf("IntersectionArea(a, b) = %v, want %v", got, tt.want)
			}
			if got := IntersectionArea(b, a); !almostEqual(got, tt.want) {
				t.Errorf("IntersectionArea(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersectionAreaExactContainment(t *testing.T) {
	gt := shape(t, model.Rect(297, 765, 388, 775))
	pred := shape(t, model.Rect(297, 765, 388, 774))

	if gt.Area() != 910 || pred.Area() != 819 {
		t.Fatalf("areas = %v/%v, want 910/819", gt.Area(), pred.Area())
	}
	if got := IntersectionArea(gt, pred); got != 819 {
		t.Errorf("IntersectionArea() = %v, want exactly 819", got)
	}
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b model.Polygon
		want bool
	}{
		{"overlap", model.Rect(0, 0, 2, 2), model.Rect(1, 1, 3, 3), true},
		{"edge contact", model.Rect(0, 0, 1, 1), model.Rect(1, 0, 2, 1), true},
		{"corner contact", model.Rect(0, 0, 1, 1), model.Rect(1, 1, 2, 2), true},
		{"contained", model.Rect(0, 0, 10, 10), model.Rect(4, 4, 5, 5), true},
		{"disjoint", model.Rect(0, 0, 1, 1), model.Rect(3, 3, 4, 4), false},
		{"bbox overlap only", model.NewPolygon([2]float64{0, 0}, [2]float64{4, 0}, [2]float64{0, 4}),
			model.Rect(3, 3, 4, 4), false},
		{"empty", nil, model.Rect(0, 0, 1, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(MustShape(tt.a), MustShape(tt.b)); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Containment Tests
// ============================================================================

func TestShapeContains(t *testing.T) {
	tri := MustShape(model.NewPolygon([2]float64{0, 0}, [2]float64{4, 0}, [2]float64{0, 4}))

	tests := []struct {
		name string
		pt   model.Point
		want bool
	}{
		{"inside", model.Point{X: 1, Y: 1}, true},
		{"vertex", model.Point{X: 0, Y: 0}, true},
		{"on hypotenuse", model.Point{X: 2, Y: 2}, true},
		{"outside in bbox", model.Point{X: 3, Y: 3}, false},
		{"outside bbox", model.Point{X: 5, Y: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tri.Contains(tt.pt); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestShapeBounds(t *testing.T) {
	s := MustShape(model.NewPolygon([2]float64{0, 0}, [2]float64{2, 2}, [2]float64{2, 0}, [2]float64{0, 2}))
	if got := s.Bounds(); got != model.NewBBox(0, 0, 2, 2) {
		t.Errorf("Bounds() = %+v", got)
	}
}
