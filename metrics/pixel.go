package metrics

import (
	"image"
	"math"

	"github.com/rs/zerolog"

	"github.com/tsawler/tabeval/geom"
	"github.com/tsawler/tabeval/model"
)

// PixelSampler classifies page pixels as foreground or background
type PixelSampler struct {
	Image      image.Image
	Background model.Color
	Logger     *zerolog.Logger
}

// foreground reports whether the pixel differs from the background colour;
// ok is false when the point is outside the image
func (s PixelSampler) foreground(x, y int) (fg, ok bool) {
	if !image.Pt(x, y).In(s.Image.Bounds()) {
		return false, false
	}
	r, g, b, _ := s.Image.At(x, y).RGBA()
	c := model.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
	return c != s.Background, true
}

// Accuracy returns the share of foreground pixels inside region that also
// lie inside counterpart. Integer grid points are sampled over region's
// bounding box; points on the boundary count as inside. A region with no
// foreground pixels scores 0. Points outside the image are skipped; the
// first one is logged with cellID and the rest are suppressed.
func (s PixelSampler) Accuracy(region, counterpart geom.Shape, cellID string) float64 {
	if region.IsEmpty() {
		return 0
	}
	b := region.Bounds()
	x0, x1 := int(math.Floor(b.MinX())), int(math.Ceil(b.MaxX()))
	y0, y1 := int(math.Floor(b.MinY())), int(math.Ceil(b.MaxY()))

	warned := false
	foreground, shared := 0, 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			pt := model.Point{X: float64(x), Y: float64(y)}
			if !region.Contains(pt) {
				continue
			}
			fg, ok := s.foreground(x, y)
			if !ok {
				if !warned && s.Logger != nil {
					s.Logger.Warn().Str("cell", cellID).Int("x", x).Int("y", y).
						Msg("pixel outside image bounds, further points of this cell are skipped silently")
				}
				warned = true
				continue
			}
			if !fg {
				continue
			}
			foreground++
			if counterpart.Contains(pt) {
				shared++
			}
		}
	}
	return ratio(float64(shared), foreground)
}

// PixelScores returns foreground pixel accuracy for every ground-truth cell
// against its best predicted cell, and for every predicted cell against its
// best ground-truth cell
func (p *TablePair) PixelScores(s PixelSampler) CellScores {
	out := CellScores{GT: make([]float64, len(p.gtCells)), Pred: make([]float64, len(p.predCells))}
	for i, m := range p.best {
		if m.Found() {
			out.GT[i] = s.Accuracy(p.gtCells[i], p.predCells[m.Candidate], p.GT.Cells[i].OID)
		}
	}
	for i, m := range p.reverse {
		if m.Found() {
			out.Pred[i] = s.Accuracy(p.predCells[i], p.gtCells[m.Candidate], p.Pred.Cells[i].OID)
		}
	}
	return out
}
