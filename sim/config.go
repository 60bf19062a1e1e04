package sim

import "fmt"

// Documented defaults for a short-horizon process. The engine has no
// implicit defaults; callers (the CLI flags) pass these explicitly.
const (
	DefaultNumRuns  = 10000
	DefaultMaxSteps = 10
	DefaultSeed     = 42
)

// SimConfig groups the parameters of one simulation batch. Each batch owns
// its SimConfig, so batches with different settings never share state.
type SimConfig struct {
	NumRuns     int   // independent trajectories per policy (must be > 0)
	MaxSteps    int   // step cap per trajectory (must be > 0)
	Seed        int64 // master seed; see SimulationKey.ForRun
	RecordSteps bool  // keep step-level traces in Batch.Trace
}

// NewSimConfig creates a SimConfig with all fields explicitly specified.
func NewSimConfig(numRuns, maxSteps int, seed int64, recordSteps bool) SimConfig {
	return SimConfig{
		NumRuns:     numRuns,
		MaxSteps:    maxSteps,
		Seed:        seed,
		RecordSteps: recordSteps,
	}
}

// Validate rejects non-positive run or step counts.
func (c SimConfig) Validate() error {
	if c.NumRuns <= 0 {
		return fmt.Errorf("num runs must be positive, got %d", c.NumRuns)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", c.MaxSteps)
	}
	return nil
}
