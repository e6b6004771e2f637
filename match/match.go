package match

import (
	"github.com/tsawler/tabeval/geom"
)

// Unmatched marks a query with no overlapping candidate
const Unmatched = -1

// Match is the outcome for one query: the chosen candidate position (or
// Unmatched) and the intersection area with it
type Match struct {
	Candidate int
	Area      float64
}

// Found reports whether the query was paired with a candidate
func (m Match) Found() bool { return m.Candidate != Unmatched }

// OneToOne pairs each query, in input order, with the still-available
// candidate of strictly greatest positive intersection area. Ties go to the
// earliest candidate. A chosen candidate is removed from the pool, so no
// candidate is paired twice.
func OneToOne(queries, candidates []geom.Shape) []Match {
	return pair(queries, candidates, true)
}

// BestOfAvailable pairs each query with the candidate of greatest positive
// intersection area without consuming it; several queries may share a
// candidate.
func BestOfAvailable(queries, candidates []geom.Shape) []Match {
	return pair(queries, candidates, false)
}

func pair(queries, candidates []geom.Shape, consume bool) []Match {
	out := make([]Match, len(queries))
	if len(candidates) == 0 {
		for i := range out {
			out[i] = Match{Candidate: Unmatched}
		}
		return out
	}

	idx := NewIndex(candidates)
	taken := make([]bool, len(candidates))
	for qi, q := range queries {
		best := Match{Candidate: Unmatched}
		if !q.IsEmpty() {
			for _, ci := range idx.Search(q.Bounds()) {
				if taken[ci] {
					continue
				}
				if a := q.IntersectionArea(candidates[ci]); a > best.Area {
					best = Match{Candidate: ci, Area: a}
				}
			}
		}
		if consume && best.Found() {
			taken[best.Candidate] = true
		}
		out[qi] = best
	}
	return out
}

// Count returns the number of matched queries
func Count(matches []Match) int {
	n := 0
	for _, m := range matches {
		if m.Found() {
			n++
		}
	}
	return n
}

// Unclaimed returns, ascending, the candidate positions in [0, n) that no
// match refers to
func Unclaimed(matches []Match, n int) []int {
	claimed := make([]bool, n)
	for _, m := range matches {
		if m.Found() && m.Candidate < n {
			claimed[m.Candidate] = true
		}
	}
	var out []int
	for i, c := range claimed {
		if !c {
			out = append(out, i)
		}
	}
	return out
}
