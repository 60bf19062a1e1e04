package trace

// TraceSummary aggregates statistics from a TrajectoryTrace.
type TraceSummary struct {
	TotalRuns          int
	TerminatedRuns     int
	MeanLength         float64
	MaxLength          int
	LengthDistribution map[int]int        // steps → count of runs
	StateVisits        map[string]int     // state → steps spent there
	ActionCost         map[string]float64 // action → total cost accrued under it
}

// Summarize computes aggregate statistics from a TrajectoryTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(tt *TrajectoryTrace) *TraceSummary {
	summary := &TraceSummary{
		LengthDistribution: make(map[int]int),
		StateVisits:        make(map[string]int),
		ActionCost:         make(map[string]float64),
	}
	if tt == nil || len(tt.Runs) == 0 {
		return summary
	}

	summary.TotalRuns = len(tt.Runs)
	totalLength := 0
	for _, r := range tt.Runs {
		n := len(r.Steps)
		totalLength += n
		summary.LengthDistribution[n]++
		if n > summary.MaxLength {
			summary.MaxLength = n
		}
		if r.Terminated {
			summary.TerminatedRuns++
		}
		for _, s := range r.Steps {
			summary.StateVisits[s.State]++
			summary.ActionCost[s.Action] += s.Cost
		}
	}
	summary.MeanLength = float64(totalLength) / float64(len(tt.Runs))

	return summary
}
