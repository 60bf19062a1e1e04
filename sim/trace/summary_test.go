package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalRuns != 0 || summary.MaxLength != 0 || summary.MeanLength != 0 {
		t.Errorf("expected zero summary for nil trace, got %+v", summary)
	}
	if summary.LengthDistribution == nil || summary.StateVisits == nil || summary.ActionCost == nil {
		t.Error("expected non-nil maps for nil trace")
	}
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	tt := NewTrajectoryTrace()

	// WHEN summarized
	summary := Summarize(tt)

	// THEN all counts are zero
	if summary.TotalRuns != 0 {
		t.Errorf("expected 0 runs, got %d", summary.TotalRuns)
	}
	if len(summary.LengthDistribution) != 0 {
		t.Error("expected empty length distribution")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN two runs of length 2 and 3
	tt := NewTrajectoryTrace()
	tt.RecordRun(RunTrace{Run: 0, FinalState: "S2", Terminated: true, Steps: []StepRecord{
		{Step: 0, State: "S0", Action: "no_intervention", Cost: 1},
		{Step: 1, State: "S2", Action: "no_intervention", Cost: 0},
	}})
	tt.RecordRun(RunTrace{Run: 1, FinalState: "S1", Terminated: false, Steps: []StepRecord{
		{Step: 0, State: "S0", Action: "intervene", Cost: 2},
		{Step: 1, State: "S1", Action: "no_intervention", Cost: 1},
		{Step: 2, State: "S1", Action: "no_intervention", Cost: 1},
	}})

	// WHEN summarized
	summary := Summarize(tt)

	// THEN counts and lengths match
	if summary.TotalRuns != 2 {
		t.Errorf("expected 2 runs, got %d", summary.TotalRuns)
	}
	if summary.TerminatedRuns != 1 {
		t.Errorf("expected 1 terminated run, got %d", summary.TerminatedRuns)
	}
	if summary.MeanLength != 2.5 {
		t.Errorf("expected mean length 2.5, got %v", summary.MeanLength)
	}
	if summary.MaxLength != 3 {
		t.Errorf("expected max length 3, got %d", summary.MaxLength)
	}
	if summary.LengthDistribution[2] != 1 || summary.LengthDistribution[3] != 1 {
		t.Errorf("unexpected length distribution %v", summary.LengthDistribution)
	}
	if summary.StateVisits["S0"] != 2 || summary.StateVisits["S1"] != 2 || summary.StateVisits["S2"] != 1 {
		t.Errorf("unexpected state visits %v", summary.StateVisits)
	}
	if summary.ActionCost["no_intervention"] != 3 || summary.ActionCost["intervene"] != 2 {
		t.Errorf("unexpected action cost %v", summary.ActionCost)
	}
}
