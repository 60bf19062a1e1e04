package sim

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a malformed model or enumeration input.
// It is fatal: a model that fails validation cannot be simulated.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidPolicyError reports a policy that assigns an action the model does
// not allow for a state, or that names a state the model does not have.
type InvalidPolicyError struct {
	State  string
	Action string
	Reason string
}

func (e *InvalidPolicyError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("invalid policy: state %q: %s", e.State, e.Reason)
	}
	return fmt.Sprintf("invalid policy: state %q action %q: %s", e.State, e.Action, e.Reason)
}

// MissingBaselineError means no evaluated policy has zero intervention cost.
type MissingBaselineError struct{}

func (e *MissingBaselineError) Error() string {
	return "missing baseline: no policy with zero intervention cost"
}

// AmbiguousBaselineError means more than one evaluated policy has zero
// intervention cost, so VoI has no well-defined reference.
type AmbiguousBaselineError struct {
	PolicyIDs []int
}

func (e *AmbiguousBaselineError) Error() string {
	ids := make([]string, len(e.PolicyIDs))
	for i, id := range e.PolicyIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("ambiguous baseline: %d policies have zero intervention cost (ids %s)",
		len(e.PolicyIDs), strings.Join(ids, ", "))
}

// BudgetOverflowWarning is attached to an enumeration that produced no
// feasible policy. It is not returned as an error.
type BudgetOverflowWarning struct {
	Budget     float64
	Candidates int
}

func (w *BudgetOverflowWarning) Error() string {
	return fmt.Sprintf("budget %g admits none of %d candidate policies", w.Budget, w.Candidates)
}
