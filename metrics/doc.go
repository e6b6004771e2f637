// Package metrics scores predicted table annotations against ground truth.
//
// Every metric compares one predicted [model.Revision] with the ground-truth
// view of the same page. Metrics are grouped into families that are enabled
// together:
//
//   - iou, cell_iou - dataset IoU over page regions and over table cells
//   - iou_threshold - cell overlap precision/recall/F1 per cutoff
//   - text, text_threshold - normalized edit similarity of cell text
//   - completeness, purity - row and column structure agreement
//   - tsr_share - share of correct cell span indices
//   - pixel, pixel_threshold - foreground pixel accuracy (needs a page image)
//
// Families are registered globally and can be looked up by name:
//
//	f, ok := metrics.GetFamily("text")
//	keys := f.MetricKeys(metrics.DefaultThresholds)
//
// # Evaluating
//
// An [Evaluator] computes all enabled families for one view:
//
//	ev, err := metrics.NewEvaluator(
//		metrics.WithThresholds(0.5, 0.75),
//		metrics.WithFamilies("iou", "purity"),
//	)
//	scores, err := ev.Evaluate(gt.Current(), pred.Views()[0], nil)
//
// # Fallbacks
//
// Every ratio with an empty denominator is 0. Unmatched entities on either
// side contribute 0 and still count toward the denominator, so a prediction
// with no tables scores 0 on every table metric. Text on a cell without a
// text field, and two empty texts, have similarity 0.
package metrics
