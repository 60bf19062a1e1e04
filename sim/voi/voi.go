package voi

import (
	"sort"

	"github.com/separk-1/mdp-intervention/sim"
)

// Row is a Summary with its value of information against the baseline.
type Row struct {
	Summary
	VoI        float64 // baseline avg cost − this policy's avg cost; negative is kept
	VoIPerCost float64 // VoI / intervention cost, or 0 for a free policy
}

// Ordering selects a ranking.
type Ordering int

const (
	// OrderAvgCost ranks by average total cost, lowest first.
	OrderAvgCost Ordering = iota
	// OrderVoIPerCost ranks by VoI per unit of intervention cost, highest first.
	OrderVoIPerCost
)

// Report is the comparative evaluation of a set of policies.
type Report struct {
	Baseline Row
	Rows     []Row // input order, which is enumeration order
}

// FindBaseline returns the index of the unique zero-cost summary.
func FindBaseline(summaries []Summary) (int, error) {
	idx := -1
	var zero []int
	for i, s := range summaries {
		if s.InterventionCost == 0 {
			if idx < 0 {
				idx = i
			}
			zero = append(zero, s.PolicyID)
		}
	}
	switch len(zero) {
	case 0:
		return -1, &sim.MissingBaselineError{}
	case 1:
		return idx, nil
	default:
		return -1, &sim.AmbiguousBaselineError{PolicyIDs: zero}
	}
}

// Evaluate computes VoI and VoI-per-cost for every summary relative to the
// unique zero-intervention-cost policy.
func Evaluate(summaries []Summary) (*Report, error) {
	idx, err := FindBaseline(summaries)
	if err != nil {
		return nil, err
	}
	baseCost := summaries[idx].AvgTotalCost
	r := &Report{Rows: make([]Row, len(summaries))}
	for i, s := range summaries {
		row := Row{Summary: s, VoI: baseCost - s.AvgTotalCost}
		if s.InterventionCost > 0 {
			row.VoIPerCost = row.VoI / s.InterventionCost
		}
		r.Rows[i] = row
	}
	r.Baseline = r.Rows[idx]
	return r, nil
}

// ByAvgCost returns rows ordered by average total cost ascending. Ties keep
// enumeration order.
func (r *Report) ByAvgCost() []Row {
	out := append([]Row(nil), r.Rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgTotalCost < out[j].AvgTotalCost })
	return out
}

// ByVoIPerCost returns rows ordered by VoI per cost descending. Ties keep
// enumeration order.
func (r *Report) ByVoIPerCost() []Row {
	out := append([]Row(nil), r.Rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].VoIPerCost > out[j].VoIPerCost })
	return out
}

// Top returns at most n rows of the chosen ranking.
func (r *Report) Top(n int, order Ordering) []Row {
	var ranked []Row
	switch order {
	case OrderVoIPerCost:
		ranked = r.ByVoIPerCost()
	default:
		ranked = r.ByAvgCost()
	}
	if n < 0 {
		n = 0
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
