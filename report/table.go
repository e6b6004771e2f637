package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteTable renders one row per metric and one column per group
func WriteTable(r *Report, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Table Recognition Evaluation ===\n\n")
	fmt.Fprintf(tw, "Run:\t%s\n", r.RunID)
	fmt.Fprintf(tw, "Input:\t%s\n", r.Input)
	if r.GroundTruth != "" {
		fmt.Fprintf(tw, "Ground truth:\t%s\n", r.GroundTruth)
	}
	fmt.Fprintf(tw, "Files considered:\t%d\n\n", r.Files)

	groups := r.Groups()
	header := append([]string{"Metric"}, groups...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, m := range r.Metrics() {
		row := []string{m}
		for _, g := range groups {
			row = append(row, fmtValue(r, m, g))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	fmt.Fprintln(tw)

	return tw.Flush()
}

func fmtValue(r *Report, metric, group string) string {
	v, ok := r.Value(metric, group)
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.4f", v)
}
