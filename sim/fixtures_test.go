package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// oneStepSpec: S0 moves to terminal S1 with certainty under either action.
// no_intervention costs 0, intervene costs 1.
func oneStepSpec() ModelSpec {
	return ModelSpec{
		States:         []string{"S0", "S1"},
		InitialState:   "S0",
		TerminalStates: []string{"S1"},
		Costs: map[string]map[string]float64{
			"S0": {ActionNoIntervention: 0, ActionIntervene: 1},
		},
		Transitions: map[string]map[string]map[string]float64{
			"S0": {
				ActionNoIntervention: {"S1": 1},
				ActionIntervene:      {"S1": 1},
			},
		},
	}
}

// chainSpec builds k non-terminal states S0..S{k-1} followed by terminal T.
// Each state advances with probability 0.5 and stays otherwise; intervening
// costs costs[i] and jumps straight to T.
func chainSpec(costs []float64) ModelSpec {
	k := len(costs)
	spec := ModelSpec{
		InitialState:   "S0",
		TerminalStates: []string{"T"},
		Costs:          map[string]map[string]float64{},
		Transitions:    map[string]map[string]map[string]float64{},
	}
	for i := 0; i < k; i++ {
		s := fmt.Sprintf("S%d", i)
		next := "T"
		if i+1 < k {
			next = fmt.Sprintf("S%d", i+1)
		}
		spec.States = append(spec.States, s)
		spec.Costs[s] = map[string]float64{ActionNoIntervention: 1, ActionIntervene: costs[i]}
		spec.Transitions[s] = map[string]map[string]float64{
			ActionNoIntervention: {s: 0.5, next: 0.5},
			ActionIntervene:      {"T": 1},
		}
	}
	spec.States = append(spec.States, "T")
	return spec
}

// loopSpec never reaches its terminal state: S0 loops forever at cost 1.
func loopSpec() ModelSpec {
	return ModelSpec{
		States:         []string{"S0", "T"},
		InitialState:   "S0",
		TerminalStates: []string{"T"},
		Costs: map[string]map[string]float64{
			"S0": {ActionNoIntervention: 1, ActionIntervene: 2},
			"T":  {ActionNoIntervention: 0},
		},
		Transitions: map[string]map[string]map[string]float64{
			"S0": {
				ActionNoIntervention: {"S0": 1},
				ActionIntervene:      {"S0": 1},
			},
		},
	}
}

func mustModel(t *testing.T, spec ModelSpec) *Model {
	t.Helper()
	m, err := NewModel(spec)
	require.NoError(t, err)
	return m
}

func mustPolicy(t *testing.T, m *Model, intervene ...string) *Policy {
	t.Helper()
	p, err := NewPolicyBuilder(m).Intervene(intervene...).Build()
	require.NoError(t, err)
	return p
}

func mustEngine(t *testing.T, m *Model, cfg SimConfig) *Engine {
	t.Helper()
	e, err := NewEngine(m, cfg)
	require.NoError(t, err)
	return e
}
