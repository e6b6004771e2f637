package docjson

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/tabeval/model"
)

const sample = `{
  "filename": "page-001.png",
  "content": [
    {"oid": "r1", "type": "text", "polygon": [[0, 0], [10, 0], [10, 5], [0, 5]]},
    {"oid": "t1", "type": "table",
     "cells": [
       {"oid": "c1", "bounding_box": {"polygon": [[0, 10], [20, 10], [20, 20], [0, 20]]},
        "start_row_index": 0, "end_row_index": 0, "start_column_index": 0, "end_column_index": 1,
        "text_content": {"text": "Total"}},
       {"oid": "c2", "bounding_box": {"polygon": [[0, 20], [10, 20], [10, 30], [0, 30]]},
        "start_row_index": 1, "end_row_index": 1, "start_column_index": 0, "end_column_index": 0,
        "text_content": null}
     ]}
  ],
  "revisions": [
    {"name": "model-a", "content": []},
    {"name": "model-b", "content": [{"oid": "t2", "type": "table", "polygon": [[0, 0], [1, 0], [1, 1]]}]}
  ]
}`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "page-001.png", doc.Filename)
	require.Len(t, doc.Regions, 2)

	region, ok := doc.Regions[0].(*model.PolygonRegion)
	require.True(t, ok)
	assert.Equal(t, "text", region.Kind)
	assert.Equal(t, model.NewBBox(0, 0, 10, 5), region.Polygon.BBox())

	tables := doc.Base().Tables()
	require.Len(t, tables, 1)
	table := tables[0]
	require.Len(t, table.Cells, 2)
	assert.Nil(t, table.Polygon)
	assert.Equal(t, model.NewBBox(0, 10, 20, 20), table.Coordinates().BBox())

	text, ok := table.Cells[0].Text()
	assert.True(t, ok)
	assert.Equal(t, "Total", text)
	assert.Equal(t, 1, table.Cells[0].EndColumn)

	_, ok = table.Cells[1].Text()
	assert.False(t, ok, "null text_content is a missing text")

	require.Len(t, doc.Revisions, 2)
	assert.Equal(t, "model-a", doc.Revisions[0].Name)
	assert.Equal(t, "model-b", doc.Current().Name)
	assert.Len(t, doc.Current().Tables(), 1)
}

func TestDecodeUnnamedRevision(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"revisions": [{"content": []}]}`))
	require.NoError(t, err)
	assert.Equal(t, "revision 0", doc.Revisions[0].Name)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		invalid bool
	}{
		{"malformed json", `{"content": [`, false},
		{"bad point", `{"content": [{"oid": "r", "type": "text", "polygon": [[1, 2, 3]]}]}`, true},
		{"bad cell point", `{"content": [{"oid": "t", "type": "table",
			"cells": [{"oid": "c", "bounding_box": {"polygon": [[1]]}}]}]}`, true},
		{"negative span", `{"content": [{"oid": "t", "type": "table",
			"cells": [{"oid": "c", "start_row_index": -1}]}]}`, true},
		{"reversed span", `{"content": [{"oid": "t", "type": "table",
			"cells": [{"oid": "c", "start_column_index": 3, "end_column_index": 1}]}]}`, true},
		{"bad revision", `{"revisions": [{"name": "x", "content": [{"polygon": [[0]]}]}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidDocument)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidDocument)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Regions, 2)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
