package selection

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/evswap/core/geo"
)

// ScoredCandidate is a candidate with its ranking score. Lower is better.
type ScoredCandidate struct {
	Candidate
	DistanceToMinLocation float64 `json:"distance_to_min_location_m"`
	Score                 float64 `json:"score"`
}

// Score rates a candidate as the ratio of its distance to the route over the
// distance between the branch and its closest path point. A zero denominator
// yields +Inf.
func Score(c Candidate) ScoredCandidate {
	d := geo.Distance(c.BranchLocation, c.MinDistanceLocation)
	s := math.Inf(1)
	if d != 0 {
		s = c.DistanceToRoute / d
	}
	return ScoredCandidate{Candidate: c, DistanceToMinLocation: d, Score: s}
}

// ScoreAll scores every candidate, preserving order.
func ScoreAll(cands []Candidate) []ScoredCandidate {
	out := make([]ScoredCandidate, len(cands))
	for i, c := range cands {
		out[i] = Score(c)
	}
	return out
}

// SelectBest returns the lowest scoring candidate. Ties go to the earliest
// one. The boolean is false when cands is empty.
func SelectBest(cands []Candidate) (ScoredCandidate, bool) {
	if len(cands) == 0 {
		return ScoredCandidate{}, false
	}
	scored := ScoreAll(cands)
	scores := make([]float64, len(scored))
	for i, s := range scored {
		scores[i] = s.Score
	}
	return scored[floats.MinIdx(scores)], true
}
