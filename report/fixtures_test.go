package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/separk-1/mdp-intervention/sim"
	"github.com/separk-1/mdp-intervention/sim/voi"
)

// twoStateSpec: from S0, intervening (cost 1) ends in T; not intervening
// drifts to S1 or T. S1 costs 3 per step without intervention.
func twoStateSpec() sim.ModelSpec {
	return sim.ModelSpec{
		States:         []string{"S0", "S1", "T"},
		InitialState:   "S0",
		TerminalStates: []string{"T"},
		Costs: map[string]map[string]float64{
			"S0": {sim.ActionNoIntervention: 0, sim.ActionIntervene: 1},
			"S1": {sim.ActionNoIntervention: 3, sim.ActionIntervene: 0.5},
		},
		Transitions: map[string]map[string]map[string]float64{
			"S0": {
				sim.ActionNoIntervention: {"S1": 0.5, "T": 0.5},
				sim.ActionIntervene:      {"T": 1},
			},
			"S1": {
				sim.ActionNoIntervention: {"S1": 0.5, "T": 0.5},
				sim.ActionIntervene:      {"T": 1},
			},
		},
	}
}

type evaluated struct {
	model   *sim.Model
	cfg     sim.SimConfig
	enum    *sim.Enumeration
	batches []*sim.Batch
	report  *voi.Report
}

func evaluate(t *testing.T, runs int) evaluated {
	t.Helper()
	m, err := sim.NewModel(twoStateSpec())
	require.NoError(t, err)
	e, err := sim.EnumeratePolicies(m, math.Inf(1))
	require.NoError(t, err)
	cfg := sim.NewSimConfig(runs, sim.DefaultMaxSteps, 11, false)
	engine, err := sim.NewEngine(m, cfg)
	require.NoError(t, err)
	batches, err := engine.RunAll(e.Policies)
	require.NoError(t, err)
	r, err := voi.Evaluate(voi.SummarizeAll(batches))
	require.NoError(t, err)
	return evaluated{model: m, cfg: cfg, enum: e, batches: batches, report: r}
}
