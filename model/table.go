package model

import (
	"fmt"
	"sort"
)

// Table represents an annotated table: an ordered set of cells plus an
// optional outline polygon
type Table struct {
	OID     string
	Polygon Polygon // Outline as annotated; may be empty
	Cells   []*Cell
}

func (t *Table) Type() ElementType { return ElementTypeTable }
func (t *Table) ID() string        { return t.OID }
func (t *Table) Outline() Polygon  { return t.Coordinates() }

// Coordinates returns the table's own bounding polygon. When no outline was
// annotated, the bounding rectangle of all cells is used.
func (t *Table) Coordinates() Polygon {
	if len(t.Polygon) >= 3 {
		return t.Polygon
	}
	if len(t.Cells) == 0 {
		return nil
	}
	var box BBox
	first := true
	for _, c := range t.Cells {
		if len(c.BoundingBox) == 0 {
			continue
		}
		if first {
			box = c.BoundingBox.BBox()
			first = false
			continue
		}
		box = box.Union(c.BoundingBox.BBox())
	}
	if first {
		return nil
	}
	return box.Polygon()
}

// AddCell appends a cell with the given span. Spans are inclusive.
func (t *Table) AddCell(cell *Cell) error {
	if err := cell.validate(); err != nil {
		return fmt.Errorf("table %s: %w", t.OID, err)
	}
	t.Cells = append(t.Cells, cell)
	return nil
}

// RowCount returns the number of distinct row groups
func (t *Table) RowCount() int {
	return len(t.Structure().Rows)
}

// ColCount returns the number of distinct column groups
func (t *Table) ColCount() int {
	return len(t.Structure().Columns)
}

// TableStructure is a table's decomposition into row groups and column
// groups. A cell spanning several rows belongs to each of them.
type TableStructure struct {
	Rows    [][]*Cell
	Columns [][]*Cell
}

// Structure clusters cells by the row and column indices they cover.
// Groups are ordered by index; indices covered by no cell produce no group.
func (t *Table) Structure() TableStructure {
	rows := make(map[int][]*Cell)
	cols := make(map[int][]*Cell)
	for _, c := range t.Cells {
		for r := c.StartRow; r <= c.EndRow; r++ {
			rows[r] = append(rows[r], c)
		}
		for col := c.StartColumn; col <= c.EndColumn; col++ {
			cols[col] = append(cols[col], c)
		}
	}
	return TableStructure{Rows: orderedGroups(rows), Columns: orderedGroups(cols)}
}

func orderedGroups(groups map[int][]*Cell) [][]*Cell {
	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([][]*Cell, len(keys))
	for i, k := range keys {
		out[i] = groups[k]
	}
	return out
}

// Cell represents a table cell. Row and column spans are inclusive indices.
type Cell struct {
	OID         string
	BoundingBox Polygon
	StartRow    int
	EndRow      int
	StartColumn int
	EndColumn   int
	TextContent *TextContent // nil when the annotation carries no text
}

func (c *Cell) Type() ElementType { return ElementTypeCell }
func (c *Cell) ID() string        { return c.OID }
func (c *Cell) Outline() Polygon  { return c.BoundingBox }

// Text returns the cell text and whether a text field was present at all
func (c *Cell) Text() (string, bool) {
	if c == nil || c.TextContent == nil {
		return "", false
	}
	return c.TextContent.Text, true
}

func (c *Cell) validate() error {
	if c.StartRow < 0 || c.StartColumn < 0 {
		return fmt.Errorf("cell %s: negative span index", c.OID)
	}
	if c.EndRow < c.StartRow || c.EndColumn < c.StartColumn {
		return fmt.Errorf("cell %s: span end before start", c.OID)
	}
	return nil
}

// TextContent holds recognised or annotated cell text
type TextContent struct {
	Text string
}

// NewText is a convenience for building a cell's TextContent
func NewText(s string) *TextContent {
	return &TextContent{Text: s}
}
