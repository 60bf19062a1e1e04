package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyBuilder_DefaultsToNoIntervention(t *testing.T) {
	m := mustModel(t, chainSpec([]float64{1, 2, 3}))

	p, err := NewPolicyBuilder(m).Build()

	require.NoError(t, err)
	assert.Equal(t, 0.0, p.TotalInterventionCost())
	assert.Empty(t, p.IntervenedStates())
	for _, s := range m.States() {
		a, ok := p.Action(s)
		assert.True(t, ok, "state %s must be covered", s)
		assert.Equal(t, ActionNoIntervention, a)
	}
}

func TestPolicyBuilder_Intervene_SumsInterventionCosts(t *testing.T) {
	m := mustModel(t, chainSpec([]float64{0.25, 0.5, 2}))

	p := mustPolicy(t, m, "S2", "S0")

	assert.Equal(t, 2.25, p.TotalInterventionCost())
	assert.Equal(t, []string{"S0", "S2"}, p.IntervenedStates(), "canonical order, not call order")
	a, _ := p.Action("T")
	assert.Equal(t, ActionNoIntervention, a, "terminal state is forced to no_intervention")
}

func TestPolicyBuilder_InvalidAssignments(t *testing.T) {
	m := mustModel(t, chainSpec([]float64{1, 1}))
	tests := []struct {
		name   string
		state  string
		action string
	}{
		{"unknown state", "S9", ActionIntervene},
		{"illegal action", "S0", "evacuate"},
		{"intervene on terminal", "T", ActionIntervene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPolicyBuilder(m).Assign(tt.state, tt.action).Build()

			var polErr *InvalidPolicyError
			require.True(t, errors.As(err, &polErr), "got %v", err)
			assert.Equal(t, tt.state, polErr.State)
			assert.Equal(t, tt.action, polErr.Action)
		})
	}
}

func TestPolicyBuilder_FirstErrorWins(t *testing.T) {
	m := mustModel(t, chainSpec([]float64{1, 1}))

	_, err := NewPolicyBuilder(m).Assign("S9", ActionIntervene).Assign("S0", "evacuate").Build()

	var polErr *InvalidPolicyError
	require.True(t, errors.As(err, &polErr))
	assert.Equal(t, "S9", polErr.State)
}

func TestPolicy_ActionFor_FallsBackForUncoveredStates(t *testing.T) {
	m := mustModel(t, chainSpec([]float64{1}))
	p := mustPolicy(t, m, "S0")

	assert.Equal(t, ActionIntervene, p.ActionFor("S0"))
	assert.Equal(t, ActionNoIntervention, p.ActionFor("auxiliary"))
	_, ok := p.Action("auxiliary")
	assert.False(t, ok)
}

func TestPolicy_Key_IdentifiesAssignment(t *testing.T) {
	m := mustModel(t, chainSpec([]float64{1, 1}))

	a := mustPolicy(t, m, "S1")
	b := mustPolicy(t, m, "S1")
	c := mustPolicy(t, m, "S0")

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, "S0=no_intervention;S1=intervene;T=no_intervention", a.Key())
}

func TestPolicy_Assignments_ReturnsCopy(t *testing.T) {
	m := mustModel(t, chainSpec([]float64{1}))
	p := mustPolicy(t, m)

	got := p.Assignments()
	got["S0"] = ActionIntervene

	assert.Equal(t, ActionNoIntervention, p.ActionFor("S0"), "policy must stay immutable")
}

func TestPolicyFromAssignments(t *testing.T) {
	m := mustModel(t, chainSpec([]float64{0.5, 0.75}))

	p, err := PolicyFromAssignments(m, map[string]string{
		"S0": ActionIntervene,
		"T":  ActionNoIntervention,
	})

	require.NoError(t, err)
	assert.Equal(t, 0.5, p.TotalInterventionCost())
	assert.Equal(t, ActionNoIntervention, p.ActionFor("S1"))

	_, err = PolicyFromAssignments(m, map[string]string{"S7": ActionIntervene, "S8": ActionIntervene})
	var polErr *InvalidPolicyError
	require.True(t, errors.As(err, &polErr))
	assert.Equal(t, "S7", polErr.State, "unknown states are reported in sorted order")
}
