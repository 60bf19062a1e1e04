package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// MaxEnumerableStates caps the number of non-terminal states the enumerator
// accepts. The candidate space is 2^k, so this bounds the only operation
// whose cost grows without limit.
const MaxEnumerableStates = 20

// Enumeration is the result of one enumeration pass.
type Enumeration struct {
	Policies   []*Policy // feasible policies in lexicographic action-bit order
	Budget     float64
	Candidates int // 2^k
	Pruned     int // candidates excluded by the budget

	// Warning is set when no candidate fits the budget. It is informational;
	// an empty result under a valid budget is not an error.
	Warning *BudgetOverflowWarning
}

// EnumeratePolicies returns every policy over m's non-terminal states whose
// total intervention cost does not exceed budget.
//
// Ordering: states in declaration order, first state most significant,
// no_intervention before intervene. The all-no-intervention policy is
// therefore always first when it is feasible.
//
// Generation is depth-first with branch-and-bound on the partial cost. Costs
// are non-negative, so pruning a partial assignment that already exceeds the
// budget never drops a feasible policy.
func EnumeratePolicies(m *Model, budget float64) (*Enumeration, error) {
	if math.IsNaN(budget) {
		return nil, configErrorf("budget is NaN")
	}
	states := m.NonTerminalStates()
	k := len(states)
	if k > MaxEnumerableStates {
		return nil, configErrorf("%d non-terminal states exceed the enumeration limit of %d", k, MaxEnumerableStates)
	}
	costs := make([]float64, k)
	for i, s := range states {
		c, ok := m.Cost(s, ActionIntervene)
		if !ok {
			return nil, configErrorf("non-terminal state %q has no %q cost", s, ActionIntervene)
		}
		costs[i] = c
	}

	all := m.States()
	terminals := m.TerminalStates()
	e := &Enumeration{Budget: budget, Candidates: 1 << k}
	intervene := make([]bool, k)

	var walk func(depth int, partial float64)
	walk = func(depth int, partial float64) {
		if partial > budget {
			e.Pruned += 1 << (k - depth)
			return
		}
		if depth == k {
			actions := make(map[string]string, len(all))
			for i, s := range states {
				if intervene[i] {
					actions[s] = ActionIntervene
				} else {
					actions[s] = ActionNoIntervention
				}
			}
			for _, s := range terminals {
				actions[s] = ActionNoIntervention
			}
			e.Policies = append(e.Policies, newPolicy(all, actions, partial))
			return
		}
		intervene[depth] = false
		walk(depth+1, partial)
		intervene[depth] = true
		walk(depth+1, partial+costs[depth])
		intervene[depth] = false
	}
	walk(0, 0)

	if len(e.Policies) == 0 {
		e.Warning = &BudgetOverflowWarning{Budget: budget, Candidates: e.Candidates}
		logrus.Warnf("policy enumeration: %v", e.Warning)
	} else {
		logrus.Debugf("policy enumeration: %d of %d candidates fit budget %g (%d pruned)",
			len(e.Policies), e.Candidates, budget, e.Pruned)
	}
	return e, nil
}
