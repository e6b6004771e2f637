package model

// ElementType represents the type of an annotated region
type ElementType int

const (
	ElementTypeUnknown ElementType = iota
	ElementTypeRegion
	ElementTypeTable
	ElementTypeCell
)

func (et ElementType) String() string {
	switch et {
	case ElementTypeRegion:
		return "Region"
	case ElementTypeTable:
		return "Table"
	case ElementTypeCell:
		return "Cell"
	default:
		return "Unknown"
	}
}

// Region is the interface for all typed document regions
type Region interface {
	Type() ElementType
	ID() string
	Outline() Polygon
}

// PolygonRegion is a plain polygon-shaped region (text block, figure, ...)
type PolygonRegion struct {
	OID     string
	Kind    string // annotation type as delivered, e.g. "text", "figure"
	Polygon Polygon
}

func (r *PolygonRegion) Type() ElementType { return ElementTypeRegion }
func (r *PolygonRegion) ID() string        { return r.OID }
func (r *PolygonRegion) Outline() Polygon  { return r.Polygon }

// Tables filters regions down to tables, preserving order
func Tables(regions []Region) []*Table {
	var tables []*Table
	for _, r := range regions {
		if t, ok := r.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}
