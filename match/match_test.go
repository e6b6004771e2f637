package match

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tsawler/tabeval/geom"
	"github.com/tsawler/tabeval/model"
)

func shapes(polys ...model.Polygon) []geom.Shape {
	out := make([]geom.Shape, len(polys))
	for i, p := range polys {
		out[i] = geom.MustShape(p)
	}
	return out
}

// ============================================================================
// OneToOne Tests
// ============================================================================

func TestOneToOneConsumesCandidates(t *testing.T) {
	// five queries over the same area, three candidates
	queries := shapes(
		model.Rect(0, 0, 10, 10),
		model.Rect(0, 0, 10, 10),
		model.Rect(0, 0, 10, 10),
		model.Rect(0, 0, 10, 10),
		model.Rect(0, 0, 10, 10),
	)
	candidates := shapes(
		model.Rect(0, 0, 5, 5),
		model.Rect(0, 0, 10, 10),
		model.Rect(5, 5, 10, 10),
	)

	matches := OneToOne(queries, candidates)
	if got := Count(matches); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}

	seen := make(map[int]bool)
	for _, m := range matches {
		if !m.Found() {
			continue
		}
		if seen[m.Candidate] {
			t.Errorf("candidate %d matched twice", m.Candidate)
		}
		seen[m.Candidate] = true
	}

	// largest overlap first; the two equal quarters go in input order
	want := []int{1, 0, 2, Unmatched, Unmatched}
	for i, w := range want {
		if matches[i].Candidate != w {
			t.Errorf("matches[%d] = %d, want %d", i, matches[i].Candidate, w)
		}
	}
	if matches[0].Area != 100 {
		t.Errorf("matches[0].Area = %v, want 100", matches[0].Area)
	}
}

func TestOneToOneTieBreaksByInputOrder(t *testing.T) {
	queries := shapes(model.Rect(0, 0, 10, 10))
	candidates := shapes(
		model.Rect(5, 0, 15, 10),
		model.Rect(-5, 0, 5, 10),
	)
	matches := OneToOne(queries, candidates)
	if matches[0].Candidate != 0 {
		t.Errorf("tie went to candidate %d, want 0", matches[0].Candidate)
	}
}

func TestOneToOneRequiresPositiveArea(t *testing.T) {
	queries := shapes(model.Rect(0, 0, 1, 1))
	candidates := shapes(
		model.Rect(1, 0, 2, 1), // touches only
		model.Rect(5, 5, 6, 6),
	)
	matches := OneToOne(queries, candidates)
	if matches[0].Found() {
		t.Errorf("edge contact matched candidate %d", matches[0].Candidate)
	}
}

func TestOneToOneEmpty(t *testing.T) {
	if got := OneToOne(nil, shapes(model.Rect(0, 0, 1, 1))); len(got) != 0 {
		t.Errorf("OneToOne(nil, ...) = %v", got)
	}
	got := OneToOne(shapes(model.Rect(0, 0, 1, 1)), nil)
	if len(got) != 1 || got[0].Found() {
		t.Errorf("OneToOne(..., nil) = %v", got)
	}
}

// ============================================================================
// BestOfAvailable Tests
// ============================================================================

func TestBestOfAvailableSharesCandidates(t *testing.T) {
	queries := shapes(
		model.Rect(0, 0, 10, 10),
		model.Rect(0, 0, 10, 10),
	)
	candidates := shapes(
		model.Rect(0, 0, 2, 2),
		model.Rect(0, 0, 10, 10),
	)
	matches := BestOfAvailable(queries, candidates)
	for i, m := range matches {
		if m.Candidate != 1 {
			t.Errorf("matches[%d] = %d, want 1", i, m.Candidate)
		}
	}
}

// ============================================================================
// Helper Tests
// ============================================================================

func TestUnclaimed(t *testing.T) {
	matches := []Match{{Candidate: 2}, {Candidate: Unmatched}, {Candidate: 0}}
	got := Unclaimed(matches, 4)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Unclaimed() = %v, want [1 3]", got)
	}
}

func TestIndexSearchOrder(t *testing.T) {
	idx := NewIndex(shapes(
		model.Rect(20, 20, 30, 30),
		model.Rect(0, 0, 10, 10),
		nil,
		model.Rect(5, 5, 25, 25),
	))
	if idx.Len() != 4 {
		t.Errorf("Len() = %d, want 4", idx.Len())
	}
	got := idx.Search(model.NewBBox(0, 0, 30, 30))
	want := []int{0, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("Search() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Search()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// ============================================================================
// Table Pairing Tests
// ============================================================================

func TestTables(t *testing.T) {
	gt := []*model.Table{
		{OID: "g0", Polygon: model.Rect(0, 0, 100, 50)},
		{OID: "g1", Polygon: model.Rect(0, 100, 100, 150)},
	}
	pred := []*model.Table{
		{OID: "p0", Polygon: model.Rect(0, 100, 100, 150)},
		{OID: "p1", Polygon: model.Rect(500, 500, 600, 600)},
	}

	pairing := Tables(gt, pred, nil)
	if pairing.Predicted(0) != nil {
		t.Errorf("g0 matched %s", pairing.Predicted(0).OID)
	}
	if p := pairing.Predicted(1); p == nil || p.OID != "p0" {
		t.Errorf("g1 matched %v, want p0", p)
	}
	if len(pairing.UnmatchedPred) != 1 || pairing.UnmatchedPred[0] != 1 {
		t.Errorf("UnmatchedPred = %v, want [1]", pairing.UnmatchedPred)
	}
	if pairing.Viewed() != 3 {
		t.Errorf("Viewed() = %d, want 3", pairing.Viewed())
	}
}

func TestShapesLogsRepair(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	bowtie := &model.Table{OID: "bad", Polygon: model.NewPolygon(
		[2]float64{0, 0}, [2]float64{2, 2}, [2]float64{2, 0}, [2]float64{0, 2})}
	out := Shapes([]*model.Table{bowtie}, &logger)

	if out[0].Area() != 2 {
		t.Errorf("repaired area = %v, want 2", out[0].Area())
	}
	if !strings.Contains(buf.String(), "repaired invalid polygon") || !strings.Contains(buf.String(), `"oid":"bad"`) {
		t.Errorf("missing repair warning, log = %s", buf.String())
	}
}
