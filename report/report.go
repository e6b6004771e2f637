// Package report renders dataset averages.
//
// A [Report] is the nested mapping metric -> group -> average produced by a
// run, plus the metadata identifying it. Writers render it as an aligned
// text table, JSON, YAML, an HTML page or a Prometheus textfile.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/tabeval/aggregate"
)

// Report is the outcome of an evaluation run: the per-metric averages for
// every group plus the run metadata
type Report struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Input       string             `json:"input" yaml:"input"`
	GroundTruth string             `json:"ground_truth,omitempty" yaml:"ground_truth,omitempty"`
	Files       int                `json:"files_considered" yaml:"files_considered"`
	Thresholds  []float64          `json:"thresholds" yaml:"thresholds"`
	Averages    aggregate.Averages `json:"averages" yaml:"averages"`
}

// New builds a report from an accumulator with a fresh run ID
func New(acc *aggregate.Accumulator, input, groundTruth string, thresholds []float64) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Input:       input,
		GroundTruth: groundTruth,
		Files:       acc.Files(),
		Thresholds:  append([]float64(nil), thresholds...),
		Averages:    acc.Report(),
	}
}

// Metrics returns the metric keys in sorted order
func (r *Report) Metrics() []string {
	keys := make([]string, 0, len(r.Averages))
	for k := range r.Averages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Groups returns every group label used by any metric, sorted
func (r *Report) Groups() []string {
	seen := make(map[string]bool)
	for _, groups := range r.Averages {
		for g := range groups {
			seen[g] = true
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Value returns the average of metric for group and whether it exists
func (r *Report) Value(metric, group string) (float64, bool) {
	v, ok := r.Averages[metric][group]
	return v, ok
}

// Write renders the report in the named format: table, json, yaml or html
func Write(r *Report, w io.Writer, format string) error {
	switch format {
	case "", "table":
		return WriteTable(r, w)
	case "json":
		return WriteJSON(r, w)
	case "yaml":
		return WriteYAML(r, w)
	case "html":
		return WriteHTML(r, w)
	}
	return fmt.Errorf("unknown report format %q", format)
}
