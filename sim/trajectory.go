package sim

import (
	"math/rand/v2"

	"github.com/separk-1/mdp-intervention/sim/trace"
)

// Trajectory is the outcome of one stochastic rollout.
type Trajectory struct {
	FinalState string
	TotalCost  float64
	Steps      int  // loop iterations executed, always <= maxSteps
	Terminated bool // final state is terminal
	Truncated  bool // the step cap ran out before the terminal check fired

	// Path is populated only when recording was requested.
	Path []trace.StepRecord
}

// SampleTrajectory draws one rollout of m under sel, starting from the
// initial state. Each step:
//
//  1. picks the action for the current state,
//  2. accrues cost(state, action),
//  3. stops if the state is terminal (so a terminal state's own cost is
//     counted exactly once),
//  4. otherwise samples the next state.
//
// When maxSteps runs out the rollout ends where it stands. That is a valid
// outcome, reported through Truncated. A run can enter a terminal state on
// its last sample; it is then Terminated and Truncated and that state's cost
// is not accrued.
//
// A missing cost or distribution means the model invariant is broken and is
// returned as a *ConfigurationError.
func SampleTrajectory(m *Model, sel ActionSelector, rng *rand.Rand, maxSteps int, record bool) (Trajectory, error) {
	var tr Trajectory
	state := m.InitialState()
	tr.Truncated = true
	for t := 0; t < maxSteps; t++ {
		action := sel.ActionFor(state)
		cost, ok := m.Cost(state, action)
		if !ok {
			return tr, configErrorf("no cost for state %q under action %q", state, action)
		}
		tr.TotalCost += cost
		tr.Steps++
		if record {
			tr.Path = append(tr.Path, trace.StepRecord{Step: t, State: state, Action: action, Cost: cost})
		}
		if m.IsTerminal(state) {
			tr.Truncated = false
			break
		}
		dist, ok := m.Distribution(state, action)
		if !ok {
			return tr, configErrorf("no transition distribution for state %q under action %q", state, action)
		}
		state = SampleNext(dist, rng)
	}
	tr.FinalState = state
	tr.Terminated = m.IsTerminal(state)
	return tr, nil
}

// SampleNext draws a next state with probability proportional to its weight.
// Outcomes are scanned in canonical order; if floating error leaves the draw
// past the cumulative total, the last positive-weight outcome is returned.
func SampleNext(d Distribution, rng *rand.Rand) string {
	u := rng.Float64() * d.Total()
	acc := 0.0
	last := ""
	for _, o := range d {
		if o.Prob <= 0 {
			continue
		}
		acc += o.Prob
		last = o.State
		if u < acc {
			return o.State
		}
	}
	return last
}
