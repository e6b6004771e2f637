package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gatherer returns a registry holding the report as gauges:
// tabeval_metric_average{metric,group} and tabeval_files_considered
func Gatherer(r *Report) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	averages := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "tabeval_metric_average",
		Help:        "Dataset average of an evaluation metric per revision group",
		ConstLabels: prometheus.Labels{"run_id": r.RunID},
	}, []string{"metric", "group"})

	files := factory.NewGauge(prometheus.GaugeOpts{
		Name:        "tabeval_files_considered",
		Help:        "Number of prediction files folded into the averages",
		ConstLabels: prometheus.Labels{"run_id": r.RunID},
	})

	for metric, groups := range r.Averages {
		for group, v := range groups {
			averages.WithLabelValues(metric, group).Set(v)
		}
	}
	files.Set(float64(r.Files))
	return reg
}

// WritePrometheus writes the report to path in the Prometheus textfile
// format, for node_exporter's textfile collector
func WritePrometheus(r *Report, path string) error {
	if err := prometheus.WriteToTextfile(path, Gatherer(r)); err != nil {
		return fmt.Errorf("write prometheus textfile: %w", err)
	}
	return nil
}
