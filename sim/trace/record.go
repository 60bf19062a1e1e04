// Package trace provides step-level trajectory recording for policy analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// StepRecord captures one step of a rollout.
type StepRecord struct {
	Step   int
	State  string
	Action string
	Cost   float64
}

// RunTrace captures a full rollout.
type RunTrace struct {
	Run        int
	Steps      []StepRecord
	FinalState string
	Terminated bool
}
