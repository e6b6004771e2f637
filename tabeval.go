// Package tabeval provides a fluent API for scoring table structure
// recognition output against ground truth.
//
// Basic usage:
//
//	rep, warnings, err := tabeval.Open("predictions/").
//	    GroundTruth("ground-truth/").
//	    Run(context.Background())
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tabeval.FormatWarnings(warnings))
//	}
//	report.WriteTable(rep, os.Stdout)
//
// With options:
//
//	rep, _, err := tabeval.Open("predictions/").
//	    GroundTruth("ground-truth/").
//	    Images("pages/").
//	    Thresholds(0.5, 0.75, 0.9).
//	    Workers(8).
//	    Run(ctx)
//
// Without GroundTruth, the earliest revision of each prediction serves as
// its ground truth.
//
// For lower-level use cases the metrics, match and runner packages are
// also available.
package tabeval

// Open returns an Evaluation over every prediction file in dir.
//
// Example:
//
//	rep, warnings, err := tabeval.Open("predictions/").GroundTruth("gt/").Run(ctx)
func Open(dir string) *Evaluation {
	return &Evaluation{
		predictionDir: dir,
		options:       defaultOptions(),
	}
}

// OpenFile returns an Evaluation over a single prediction file.
//
// Example:
//
//	rep, warnings, err := tabeval.OpenFile("predictions/page-001.json").GroundTruth("gt/").Run(ctx)
func OpenFile(path string) *Evaluation {
	return &Evaluation{
		predictionFile: path,
		options:        defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustRun is a helper that wraps a call to Run() and panics if the error is
// non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	rep := tabeval.MustRun(tabeval.Open("predictions/").GroundTruth("gt/").Run(ctx))
func MustRun[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
