package sim

import (
	"math"
	"sort"
)

// Action names understood by the enumerator. A model may declare other
// actions; they are legal in hand-built policies but never enumerated.
const (
	ActionNoIntervention = "no_intervention"
	ActionIntervene      = "intervene"
)

// ProbabilityTolerance bounds how far a transition distribution may sum from 1.
const ProbabilityTolerance = 1e-9

// ModelSpec is the parsed, unvalidated form of a Markov process definition.
// It mirrors the on-disk layout; NewModel turns it into an immutable Model.
type ModelSpec struct {
	States         []string                                 `yaml:"states" json:"states"`
	InitialState   string                                   `yaml:"initial_state" json:"initial_state"`
	TerminalStates []string                                 `yaml:"terminal_states" json:"terminal_states"`
	Costs          map[string]map[string]float64            `yaml:"costs" json:"costs"`
	Transitions    map[string]map[string]map[string]float64 `yaml:"transitions" json:"transitions"`
}

// Outcome is one branch of a transition distribution.
type Outcome struct {
	State string
	Prob  float64
}

// Distribution is a next-state distribution in canonical state order.
type Distribution []Outcome

// Total returns the sum of the outcome probabilities.
func (d Distribution) Total() float64 {
	total := 0.0
	for _, o := range d {
		total += o.Prob
	}
	return total
}

// Model is a validated discrete-time Markov process with costed actions.
// It is never mutated after NewModel returns, so it can be shared freely.
type Model struct {
	states      []string
	index       map[string]int
	initial     string
	terminal    map[string]bool
	costs       map[string]map[string]float64
	transitions map[string]map[string]Distribution
}

// NewModel validates spec and builds a Model. Every integrity problem is
// reported as a *ConfigurationError.
func NewModel(spec ModelSpec) (*Model, error) {
	if len(spec.States) == 0 {
		return nil, configErrorf("model declares no states")
	}
	m := &Model{
		states:      append([]string(nil), spec.States...),
		index:       make(map[string]int, len(spec.States)),
		initial:     spec.InitialState,
		terminal:    make(map[string]bool, len(spec.TerminalStates)),
		costs:       make(map[string]map[string]float64, len(spec.States)),
		transitions: make(map[string]map[string]Distribution, len(spec.States)),
	}
	for i, s := range spec.States {
		if s == "" {
			return nil, configErrorf("state %d has an empty name", i)
		}
		if _, dup := m.index[s]; dup {
			return nil, configErrorf("state %q declared twice", s)
		}
		m.index[s] = i
	}
	if _, ok := m.index[spec.InitialState]; !ok {
		return nil, configErrorf("initial state %q is not a declared state", spec.InitialState)
	}
	if len(spec.TerminalStates) == 0 {
		return nil, configErrorf("model declares no terminal state")
	}
	for _, s := range spec.TerminalStates {
		if _, ok := m.index[s]; !ok {
			return nil, configErrorf("terminal state %q is not a declared state", s)
		}
		m.terminal[s] = true
	}
	if err := m.loadCosts(spec.Costs); err != nil {
		return nil, err
	}
	if err := m.loadTransitions(spec.Transitions); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) loadCosts(costs map[string]map[string]float64) error {
	for s := range costs {
		if _, ok := m.index[s]; !ok {
			return configErrorf("costs reference unknown state %q", s)
		}
	}
	for _, s := range m.states {
		table := costs[s]
		if _, ok := table[ActionNoIntervention]; !ok && !m.terminal[s] {
			return configErrorf("state %q has no %q cost", s, ActionNoIntervention)
		}
		own := make(map[string]float64, len(table)+1)
		for action, c := range table {
			if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
				return configErrorf("cost(%q, %q) = %v; must be a finite non-negative number", s, action, c)
			}
			own[action] = c
		}
		if _, ok := own[ActionNoIntervention]; !ok {
			// Terminal states implicitly take the free no-intervention action.
			own[ActionNoIntervention] = 0
		}
		m.costs[s] = own
	}
	return nil
}

func (m *Model) loadTransitions(transitions map[string]map[string]map[string]float64) error {
	for s := range transitions {
		if _, ok := m.index[s]; !ok {
			return configErrorf("transitions reference unknown state %q", s)
		}
	}
	for _, s := range m.states {
		if m.terminal[s] {
			// Absorbing: any declared transitions are never sampled.
			continue
		}
		byAction := transitions[s]
		for action := range byAction {
			if _, ok := m.costs[s][action]; !ok {
				return configErrorf("transition for state %q action %q has no matching cost", s, action)
			}
		}
		m.transitions[s] = make(map[string]Distribution, len(m.costs[s]))
		for action := range m.costs[s] {
			raw, ok := byAction[action]
			if !ok || len(raw) == 0 {
				return configErrorf("state %q action %q has no transition distribution", s, action)
			}
			dist, err := m.canonicalDistribution(s, action, raw)
			if err != nil {
				return err
			}
			m.transitions[s][action] = dist
		}
	}
	return nil
}

// canonicalDistribution orders raw by declaration order so sampling is
// reproducible regardless of map iteration order.
func (m *Model) canonicalDistribution(state, action string, raw map[string]float64) (Distribution, error) {
	dist := make(Distribution, 0, len(raw))
	for next, p := range raw {
		if _, ok := m.index[next]; !ok {
			return nil, configErrorf("transition %q/%q references unknown state %q", state, action, next)
		}
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return nil, configErrorf("transition %q/%q -> %q has invalid probability %v", state, action, next, p)
		}
		dist = append(dist, Outcome{State: next, Prob: p})
	}
	sort.Slice(dist, func(i, j int) bool { return m.index[dist[i].State] < m.index[dist[j].State] })
	if total := dist.Total(); math.Abs(total-1) > ProbabilityTolerance {
		return nil, configErrorf("transition %q/%q sums to %.12g, want 1", state, action, total)
	}
	return dist, nil
}

// States returns all states in declaration order.
func (m *Model) States() []string {
	return append([]string(nil), m.states...)
}

// NonTerminalStates returns the non-terminal states in declaration order.
// This order fixes the enumeration order.
func (m *Model) NonTerminalStates() []string {
	out := make([]string, 0, len(m.states))
	for _, s := range m.states {
		if !m.terminal[s] {
			out = append(out, s)
		}
	}
	return out
}

// TerminalStates returns the terminal states in declaration order.
func (m *Model) TerminalStates() []string {
	out := make([]string, 0, len(m.terminal))
	for _, s := range m.states {
		if m.terminal[s] {
			out = append(out, s)
		}
	}
	return out
}

// InitialState returns the state every trajectory starts in.
func (m *Model) InitialState() string { return m.initial }

// HasState reports whether s is a declared state.
func (m *Model) HasState(s string) bool {
	_, ok := m.index[s]
	return ok
}

// IsTerminal reports whether s is absorbing.
func (m *Model) IsTerminal(s string) bool { return m.terminal[s] }

// Cost returns cost(state, action) and whether the pair is legal.
func (m *Model) Cost(state, action string) (float64, bool) {
	c, ok := m.costs[state][action]
	return c, ok
}

// HasAction reports whether action is legal in state.
func (m *Model) HasAction(state, action string) bool {
	_, ok := m.costs[state][action]
	return ok
}

// LegalActions returns the actions allowed in state, sorted by name.
func (m *Model) LegalActions(state string) []string {
	out := make([]string, 0, len(m.costs[state]))
	for a := range m.costs[state] {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Distribution returns the next-state distribution for a non-terminal
// (state, action) pair.
func (m *Model) Distribution(state, action string) (Distribution, bool) {
	d, ok := m.transitions[state][action]
	return d, ok
}

// InterventionCosts returns cost(s, intervene) for every non-terminal state
// that allows intervening.
func (m *Model) InterventionCosts() map[string]float64 {
	out := make(map[string]float64)
	for _, s := range m.NonTerminalStates() {
		if c, ok := m.costs[s][ActionIntervene]; ok {
			out[s] = c
		}
	}
	return out
}

// ValidatePolicy checks that every assignment in p names a declared state and
// an action legal there.
func (m *Model) ValidatePolicy(p *Policy) error {
	for _, s := range p.States() {
		action := p.actions[s]
		if !m.HasState(s) {
			return &InvalidPolicyError{State: s, Action: action, Reason: "state is not part of the model"}
		}
		if !m.HasAction(s, action) {
			return &InvalidPolicyError{State: s, Action: action, Reason: "action is not legal in this state"}
		}
	}
	return nil
}
