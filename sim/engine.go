package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/separk-1/mdp-intervention/sim/trace"
)

// RunRecord is the raw outcome of one trajectory.
type RunRecord struct {
	RunIndex   int     `json:"run"`
	FinalState string  `json:"final_state"`
	TotalCost  float64 `json:"total_cost"`
	Steps      int     `json:"steps"`
	Terminated bool    `json:"terminated"`
}

// Batch holds every run of one policy. The engine does no reduction;
// see package voi for statistics.
type Batch struct {
	Policy  *Policy
	Records []RunRecord
	Trace   *trace.TrajectoryTrace // nil unless SimConfig.RecordSteps
}

// Engine runs Monte Carlo batches of a fixed model.
type Engine struct {
	model *Model
	cfg   SimConfig
	key   SimulationKey
}

// NewEngine validates cfg and binds it to m.
func NewEngine(m *Model, cfg SimConfig) (*Engine, error) {
	if m == nil {
		return nil, fmt.Errorf("engine requires a model")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	return &Engine{model: m, cfg: cfg, key: NewSimulationKey(cfg.Seed)}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() SimConfig { return e.cfg }

// Run simulates cfg.NumRuns independent trajectories of p.
//
// Run i draws only from key.ForRun(StreamPolicy(p.Key()), i): re-running the
// same policy with the same seed reproduces every record, and the records do
// not depend on which policies were simulated before.
func (e *Engine) Run(p *Policy) (*Batch, error) {
	if err := e.model.ValidatePolicy(p); err != nil {
		return nil, err
	}
	stream := StreamPolicy(p.Key())
	b := &Batch{Policy: p, Records: make([]RunRecord, e.cfg.NumRuns)}
	if e.cfg.RecordSteps {
		b.Trace = trace.NewTrajectoryTrace()
	}
	for i := 0; i < e.cfg.NumRuns; i++ {
		tr, err := SampleTrajectory(e.model, p, e.key.ForRun(stream, i), e.cfg.MaxSteps, e.cfg.RecordSteps)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		b.Records[i] = RunRecord{
			RunIndex:   i,
			FinalState: tr.FinalState,
			TotalCost:  tr.TotalCost,
			Steps:      tr.Steps,
			Terminated: tr.Terminated,
		}
		if b.Trace != nil {
			b.Trace.RecordRun(trace.RunTrace{
				Run:        i,
				Steps:      tr.Path,
				FinalState: tr.FinalState,
				Terminated: tr.Terminated,
			})
		}
	}
	return b, nil
}

// RunAll simulates each policy in order. The first failure aborts.
func (e *Engine) RunAll(policies []*Policy) ([]*Batch, error) {
	batches := make([]*Batch, 0, len(policies))
	for i, p := range policies {
		b, err := e.Run(p)
		if err != nil {
			return nil, fmt.Errorf("policy %d: %w", i, err)
		}
		logrus.Debugf("simulated policy %d (%s): %d runs", i, p.Key(), len(b.Records))
		batches = append(batches, b)
	}
	return batches, nil
}
