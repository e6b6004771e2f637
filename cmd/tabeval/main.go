// Command tabeval scores table structure recognition output against ground
// truth and prints the dataset averages.
//
//	tabeval -p predictions/ -g ground-truth/ [-i pages/] [--format json]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/tabeval"
	"github.com/tsawler/tabeval/config"
	"github.com/tsawler/tabeval/metrics"
	"github.com/tsawler/tabeval/report"
)

var flags = struct {
	configPath      string
	predictionFile  string
	predictionDir   string
	groundTruthDir  string
	imageDir        string
	thresholds      []float64
	metrics         []string
	background      string
	foldCase        bool
	workers         int
	checkpointEvery int
	format          string
	output          string
	prometheusFile  string
	logLevel        string
}{}

var rootCmd = &cobra.Command{
	Use:   "tabeval",
	Short: "Evaluate table structure recognition against ground truth",
	Long: `tabeval compares predicted tables with ground-truth annotations and
reports dataset averages of region IoU, cell IoU, text similarity,
completeness, purity, correct TSR share and, with page images, foreground
pixel accuracy. Threshold families add precision, recall and F1 per cutoff.

Without a ground-truth directory the earliest revision of every prediction
is taken as its ground truth.`,
	SilenceUsage: true,
	RunE:         run,
}

var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List the available metric families",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Family\tImage\tDescription")
		for _, name := range metrics.ListFamilies() {
			f, _ := metrics.GetFamily(name)
			image := ""
			if f.NeedsImage {
				image = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, image, f.Description)
		}
		return tw.Flush()
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	f.StringVarP(&flags.predictionFile, "prediction-file", "f", "", "evaluate a single prediction file")
	f.StringVarP(&flags.predictionDir, "prediction-dir", "p", "", "directory of prediction JSON files")
	f.StringVarP(&flags.groundTruthDir, "ground-truth-dir", "g", "",
		"directory of ground-truth files; empty uses the earliest revision of each prediction")
	f.StringVarP(&flags.imageDir, "image-dir", "i", "", "directory of page images, enables pixel metrics")
	f.Float64SliceVarP(&flags.thresholds, "thresholds", "t", nil, "cutoffs for the threshold families (default 0.6,0.7,0.8,0.9)")
	f.StringSliceVarP(&flags.metrics, "metrics", "m", nil, "metric families to compute (see 'tabeval families')")
	f.StringVar(&flags.background, "background", "", "page background colour for pixel metrics (default #ffffff)")
	f.BoolVar(&flags.foldCase, "fold-case", false, "compare cell text case-insensitively")
	f.IntVarP(&flags.workers, "workers", "w", 0, "files evaluated in parallel (default 1)")
	f.IntVar(&flags.checkpointEvery, "checkpoint-every", 0, "log intermediate averages every n files")
	f.StringVar(&flags.format, "format", "", "report format: table, json, yaml or html (default table)")
	f.StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
	f.StringVar(&flags.prometheusFile, "prometheus-file", "", "also write the averages as a Prometheus textfile")
	f.StringVar(&flags.logLevel, "log-level", "", "trace, debug, info, warn or error (default info)")

	rootCmd.AddCommand(familiesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logOut := newLogWriter(cfg.AppEnv)
	logger := zerolog.New(logOut).Level(level).With().Timestamp().Logger()

	rep, warnings, err := tabeval.FromConfig(cfg).Log(logOut, level).Run(cmd.Context())
	if err != nil {
		return err
	}
	if len(warnings) > 0 {
		logger.Warn().Int("count", len(warnings)).Msg("evaluation finished with warnings")
	}

	if err := writeReport(rep, cfg, cmd.OutOrStdout()); err != nil {
		return err
	}
	if cfg.PrometheusFile != "" {
		if err := report.WritePrometheus(rep, cfg.PrometheusFile); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.PrometheusFile).Msg("wrote prometheus textfile")
	}
	return nil
}

// applyFlags overrides loaded settings with the flags given on the command line
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("prediction-file") {
		cfg.PredictionFile = flags.predictionFile
	}
	if changed("prediction-dir") {
		cfg.PredictionDir = flags.predictionDir
	}
	if changed("ground-truth-dir") {
		cfg.GroundTruthDir = flags.groundTruthDir
	}
	if changed("image-dir") {
		cfg.ImageDir = flags.imageDir
	}
	if changed("thresholds") {
		cfg.Thresholds = flags.thresholds
	}
	if changed("metrics") {
		cfg.Metrics = flags.metrics
	}
	if changed("background") {
		cfg.Background = flags.background
	}
	if changed("fold-case") {
		cfg.FoldCase = flags.foldCase
	}
	if changed("workers") {
		cfg.Workers = flags.workers
	}
	if changed("checkpoint-every") {
		cfg.CheckpointEvery = flags.checkpointEvery
	}
	if changed("format") {
		cfg.Format = flags.format
	}
	if changed("output") {
		cfg.Output = flags.output
	}
	if changed("prometheus-file") {
		cfg.PrometheusFile = flags.prometheusFile
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
}

func writeReport(rep *report.Report, cfg *config.Config, stdout io.Writer) error {
	if cfg.Output == "" {
		return report.Write(rep, stdout, cfg.Format)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := report.Write(rep, f, cfg.Format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newLogWriter(appEnv string) io.Writer {
	if appEnv == "local" {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return os.Stderr
}
