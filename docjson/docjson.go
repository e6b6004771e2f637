// Package docjson reads annotated pages in the shared JSON file format into
// [model.Document] values.
//
// A document carries its base content and an optional list of named
// revisions, each holding content of the same shape:
//
//	{
//	  "filename": "page-001.png",
//	  "content": [{"oid": "t1", "type": "table", "cells": [...]}],
//	  "revisions": [{"name": "model-a", "content": [...]}]
//	}
package docjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/tabeval/model"
)

// ErrInvalidDocument is returned for JSON that decodes but does not
// describe a valid document
var ErrInvalidDocument = errors.New("docjson: invalid document")

type document struct {
	Filename  string     `json:"filename"`
	Content   []region   `json:"content"`
	Revisions []revision `json:"revisions"`
}

type revision struct {
	Name    string   `json:"name"`
	Content []region `json:"content"`
}

type region struct {
	OID     string      `json:"oid"`
	Type    string      `json:"type"`
	Polygon [][]float64 `json:"polygon"`
	Cells   []cell      `json:"cells"`
}

type cell struct {
	OID              string       `json:"oid"`
	BoundingBox      *boundingBox `json:"bounding_box"`
	StartRowIndex    int          `json:"start_row_index"`
	EndRowIndex      int          `json:"end_row_index"`
	StartColumnIndex int          `json:"start_column_index"`
	EndColumnIndex   int          `json:"end_column_index"`
	TextContent      *textContent `json:"text_content"`
}

type boundingBox struct {
	Polygon [][]float64 `json:"polygon"`
}

type textContent struct {
	Text string `json:"text"`
}

// ReadFile decodes the document stored at path
func ReadFile(path string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode reads one document from r
func Decode(r io.Reader) (*model.Document, error) {
	var raw document
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	doc := model.NewDocument(raw.Filename)
	regions, err := convertRegions(raw.Content)
	if err != nil {
		return nil, err
	}
	for _, reg := range regions {
		doc.AddRegion(reg)
	}

	for i, rev := range raw.Revisions {
		regions, err := convertRegions(rev.Content)
		if err != nil {
			return nil, fmt.Errorf("revision %d (%q): %w", i, rev.Name, err)
		}
		name := rev.Name
		if name == "" {
			name = fmt.Sprintf("revision %d", i)
		}
		doc.AddRevision(name, regions)
	}
	return doc, nil
}

func convertRegions(raw []region) ([]model.Region, error) {
	out := make([]model.Region, 0, len(raw))
	for i, r := range raw {
		poly, err := convertPolygon(r.Polygon)
		if err != nil {
			return nil, fmt.Errorf("%w: region %d (%s): %v", ErrInvalidDocument, i, r.OID, err)
		}
		if r.Type != "table" {
			out = append(out, &model.PolygonRegion{OID: r.OID, Kind: r.Type, Polygon: poly})
			continue
		}

		table := &model.Table{OID: r.OID, Polygon: poly}
		for j, c := range r.Cells {
			mc, err := convertCell(c)
			if err != nil {
				return nil, fmt.Errorf("%w: table %s cell %d: %v", ErrInvalidDocument, r.OID, j, err)
			}
			if err := table.AddCell(mc); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
			}
		}
		out = append(out, table)
	}
	return out, nil
}

func convertCell(c cell) (*model.Cell, error) {
	mc := &model.Cell{
		OID:         c.OID,
		StartRow:    c.StartRowIndex,
		EndRow:      c.EndRowIndex,
		StartColumn: c.StartColumnIndex,
		EndColumn:   c.EndColumnIndex,
	}
	if c.BoundingBox != nil {
		poly, err := convertPolygon(c.BoundingBox.Polygon)
		if err != nil {
			return nil, err
		}
		mc.BoundingBox = poly
	}
	if c.TextContent != nil {
		mc.TextContent = model.NewText(c.TextContent.Text)
	}
	return mc, nil
}

func convertPolygon(raw [][]float64) (model.Polygon, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	poly := make(model.Polygon, len(raw))
	for i, pt := range raw {
		if len(pt) != 2 {
			return nil, fmt.Errorf("point %d has %d coordinates, want 2", i, len(pt))
		}
		poly[i] = model.Point{X: pt[0], Y: pt[1]}
	}
	return poly, nil
}
