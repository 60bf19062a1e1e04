package sim

import (
	"sort"
	"strings"
)

// ActionSelector chooses the action taken in a state. *Policy implements it;
// tests and callers may supply any other rule.
type ActionSelector interface {
	ActionFor(state string) string
}

// Policy is an immutable assignment of an action to every state of a model.
// Non-terminal states carry the chosen action; terminal states are always
// no_intervention. Policies are identified by their assignment (see Key),
// not by a reporting id.
type Policy struct {
	states  []string // canonical model order
	actions map[string]string
	cost    float64
	key     string
}

func newPolicy(states []string, actions map[string]string, cost float64) *Policy {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = s + "=" + actions[s]
	}
	return &Policy{
		states:  states,
		actions: actions,
		cost:    cost,
		key:     strings.Join(parts, ";"),
	}
}

// Action returns the action assigned to state and whether state is covered.
func (p *Policy) Action(state string) (string, bool) {
	a, ok := p.actions[state]
	return a, ok
}

// ActionFor returns the assigned action, falling back to no_intervention for
// states the policy does not cover.
func (p *Policy) ActionFor(state string) string {
	if a, ok := p.actions[state]; ok {
		return a
	}
	return ActionNoIntervention
}

// TotalInterventionCost is the sum of cost(s, intervene) over intervened states.
func (p *Policy) TotalInterventionCost() float64 { return p.cost }

// Key is a stable identity string derived from the assignment.
func (p *Policy) Key() string { return p.key }

// States returns the covered states in canonical order.
func (p *Policy) States() []string {
	return append([]string(nil), p.states...)
}

// IntervenedStates returns the states assigned intervene, in canonical order.
func (p *Policy) IntervenedStates() []string {
	out := make([]string, 0)
	for _, s := range p.states {
		if p.actions[s] == ActionIntervene {
			out = append(out, s)
		}
	}
	return out
}

// Assignments returns a copy of the state-to-action map.
func (p *Policy) Assignments() map[string]string {
	out := make(map[string]string, len(p.actions))
	for s, a := range p.actions {
		out[s] = a
	}
	return out
}

// PolicyBuilder assembles a single validated Policy for ad hoc runs.
// Every non-terminal state starts at no_intervention.
type PolicyBuilder struct {
	model   *Model
	actions map[string]string
	err     error
}

// NewPolicyBuilder starts a builder over model m.
func NewPolicyBuilder(m *Model) *PolicyBuilder {
	actions := make(map[string]string, len(m.states))
	for _, s := range m.states {
		actions[s] = ActionNoIntervention
	}
	return &PolicyBuilder{model: m, actions: actions}
}

// Intervene assigns intervene to each named state.
func (b *PolicyBuilder) Intervene(states ...string) *PolicyBuilder {
	for _, s := range states {
		b.Assign(s, ActionIntervene)
	}
	return b
}

// Assign sets the action for one state. The first invalid assignment is
// remembered and reported by Build.
func (b *PolicyBuilder) Assign(state, action string) *PolicyBuilder {
	if b.err != nil {
		return b
	}
	switch {
	case !b.model.HasState(state):
		b.err = &InvalidPolicyError{State: state, Action: action, Reason: "state is not part of the model"}
	case b.model.IsTerminal(state) && action != ActionNoIntervention:
		b.err = &InvalidPolicyError{State: state, Action: action, Reason: "terminal states always take no_intervention"}
	case !b.model.HasAction(state, action):
		b.err = &InvalidPolicyError{State: state, Action: action, Reason: "action is not legal in this state"}
	default:
		b.actions[state] = action
	}
	return b
}

// Build returns the policy or the first assignment error.
func (b *PolicyBuilder) Build() (*Policy, error) {
	if b.err != nil {
		return nil, b.err
	}
	actions := make(map[string]string, len(b.actions))
	cost := 0.0
	for _, s := range b.model.states {
		a := b.actions[s]
		actions[s] = a
		if a == ActionIntervene {
			c, _ := b.model.Cost(s, ActionIntervene)
			cost += c
		}
	}
	return newPolicy(b.model.States(), actions, cost), nil
}

// PolicyFromAssignments builds a policy from a state-to-action map such as a
// persisted policy list entry. States absent from the map keep no_intervention.
func PolicyFromAssignments(m *Model, assignments map[string]string) (*Policy, error) {
	b := NewPolicyBuilder(m)
	// Canonical order keeps the reported error deterministic.
	for _, s := range m.states {
		if a, ok := assignments[s]; ok {
			b.Assign(s, a)
		}
	}
	unknown := make([]string, 0)
	for s := range assignments {
		if !m.HasState(s) {
			unknown = append(unknown, s)
		}
	}
	sort.Strings(unknown)
	for _, s := range unknown {
		b.Assign(s, assignments[s])
	}
	return b.Build()
}
