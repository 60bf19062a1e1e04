// Package voi reduces simulation batches into per-policy statistics and
// ranks policies by value of information against the no-intervention baseline.
package voi

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/separk-1/mdp-intervention/sim"
)

// Summary is the per-policy statistic row.
type Summary struct {
	PolicyID         int
	PolicyKey        string
	InterventionCost float64
	IntervenedStates []string

	SampleCount   int
	AvgTotalCost  float64
	StdDev        float64 // sample standard deviation of total cost (0 when N < 2)
	StdErr        float64 // StdDev / sqrt(N)
	MeanSteps     float64
	FinalStates   map[string]int // final state → number of runs
	TerminalRate  float64        // fraction of runs whose final state is terminal
	TruncatedRuns int            // runs that ended away from a terminal state
}

// Summarize reduces one batch. id is the caller-assigned reporting id.
// An empty batch yields zero statistics.
func Summarize(id int, b *sim.Batch) Summary {
	s := Summary{
		PolicyID:         id,
		PolicyKey:        b.Policy.Key(),
		InterventionCost: b.Policy.TotalInterventionCost(),
		IntervenedStates: b.Policy.IntervenedStates(),
		SampleCount:      len(b.Records),
		FinalStates:      make(map[string]int),
	}
	if len(b.Records) == 0 {
		return s
	}

	costs := make([]float64, len(b.Records))
	steps := 0
	terminated := 0
	for i, r := range b.Records {
		costs[i] = r.TotalCost
		steps += r.Steps
		s.FinalStates[r.FinalState]++
		if r.Terminated {
			terminated++
		}
	}
	n := float64(len(b.Records))
	s.AvgTotalCost = stat.Mean(costs, nil)
	if len(costs) > 1 {
		s.StdDev = stat.StdDev(costs, nil)
		s.StdErr = stat.StdErr(s.StdDev, n)
	}
	s.MeanSteps = float64(steps) / n
	s.TerminalRate = float64(terminated) / n
	s.TruncatedRuns = len(b.Records) - terminated
	return s
}

// SummarizeAll reduces batches in order, assigning ids 0..n-1.
func SummarizeAll(batches []*sim.Batch) []Summary {
	out := make([]Summary, len(batches))
	for i, b := range batches {
		out[i] = Summarize(i, b)
	}
	return out
}

// ConfidenceInterval95 returns the normal-approximation 95% interval of the
// mean total cost.
func (s Summary) ConfidenceInterval95() (lo, hi float64) {
	half := 1.959963984540054 * s.StdErr
	if math.IsNaN(half) {
		half = 0
	}
	return s.AvgTotalCost - half, s.AvgTotalCost + half
}
