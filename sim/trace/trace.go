package trace

// TrajectoryTrace collects run traces during one simulation batch.
type TrajectoryTrace struct {
	Runs []RunTrace
}

// NewTrajectoryTrace creates a TrajectoryTrace ready for recording.
func NewTrajectoryTrace() *TrajectoryTrace {
	return &TrajectoryTrace{
		Runs: make([]RunTrace, 0),
	}
}

// RecordRun appends a run trace.
func (tt *TrajectoryTrace) RecordRun(run RunTrace) {
	tt.Runs = append(tt.Runs, run)
}
