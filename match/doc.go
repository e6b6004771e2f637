// Package match pairs ground-truth entities with predicted entities by
// polygon overlap.
//
// Two strategies are provided:
//
//   - [OneToOne] - greedy bipartite pairing; a candidate is consumed once chosen
//   - [BestOfAvailable] - best candidate per query; candidates may be shared
//
// Both pick the candidate with the strictly greatest positive intersection
// area and break ties by input order. Candidates are prefiltered through an
// R-tree over their bounding boxes ([Index]), which never changes the result.
//
// [Tables] applies [OneToOne] to page tables and records which predicted
// tables were left over.
package match
