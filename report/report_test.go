package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/tabeval/aggregate"
)

func sample(t *testing.T) *Report {
	t.Helper()
	acc := aggregate.New()
	acc.Fold("iou", "rev 1", 0.5)
	acc.Fold("iou", "rev 2", 1)
	acc.Fold("purity", "rev 1", 0.25)
	acc.AddFile()
	return New(acc, "predictions", "gt", []float64{0.6, 0.9})
}

func TestNew(t *testing.T) {
	r := sample(t)
	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, 1, r.Files)
	assert.Equal(t, []string{"iou", "purity"}, r.Metrics())
	assert.Equal(t, []string{"rev 1", "rev 2"}, r.Groups())

	v, ok := r.Value("iou", "rev 2")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = r.Value("purity", "rev 2")
	assert.False(t, ok)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(sample(t), &buf, "table"))

	out := buf.String()
	assert.Contains(t, out, "=== Table Recognition Evaluation ===")
	assert.Contains(t, out, "Files considered:")
	assert.Contains(t, out, "0.5000")
	assert.Contains(t, out, "N/A")

	var purity string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "purity") {
			purity = line
		}
	}
	require.NotEmpty(t, purity)
	assert.Equal(t, []string{"purity", "0.2500", "N/A"}, strings.Fields(purity))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(sample(t), &buf, "json"))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 0.5, decoded.Averages["iou"]["rev 1"])
	assert.Equal(t, []float64{0.6, 0.9}, decoded.Thresholds)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(sample(t), &buf, "yaml"))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded["files_considered"])
	assert.Contains(t, buf.String(), "rev 2: 1")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(sample(t), &buf, "html"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<th>rev 1</th>")
	assert.Contains(t, out, `<td class="num">0.2500</td>`)
	assert.Contains(t, out, `<td class="num">N/A</td>`)
}

func TestWriteHTMLEscapes(t *testing.T) {
	acc := aggregate.New()
	acc.Fold("iou", "<script>", 1)
	acc.AddFile()

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(New(acc, "in", "", nil), &buf))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(sample(t), &buf, "csv"))
}

func TestWritePrometheus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabeval.prom")
	r := sample(t)
	require.NoError(t, WritePrometheus(r, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# TYPE tabeval_metric_average gauge")
	assert.Contains(t, out, `tabeval_metric_average{group="rev 1",metric="iou",run_id="`+r.RunID+`"} 0.5`)
	assert.Contains(t, out, `tabeval_files_considered{run_id="`+r.RunID+`"} 1`)
}
