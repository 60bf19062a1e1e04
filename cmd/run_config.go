package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/separk-1/mdp-intervention/sim"
)

// RunConfig is an optional YAML/JSON file of pipeline defaults. Nil fields
// are absent from the file; explicitly set flags override present ones.
type RunConfig struct {
	Model      *string           `yaml:"model"`
	Runs       *int              `yaml:"runs"`
	MaxSteps   *int              `yaml:"max_steps"`
	Seed       *int64            `yaml:"seed"`
	Budget     *float64          `yaml:"budget"`
	ResultsDir *string           `yaml:"results_dir"`
	Policy     map[string]string `yaml:"policy"` // simulate only
}

// LoadRunConfig reads a run config file with strict field checking.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var rc RunConfig
	if err := decodeStrict(data, &rc); err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return &rc, nil
}

// pipelineOptions are the settings shared by enumerate, simulate and evaluate.
type pipelineOptions struct {
	modelPath   string
	configPath  string
	budget      float64
	runs        int
	maxSteps    int
	seed        int64
	resultsDir  string
	recordSteps bool
}

func defaultPipelineOptions() pipelineOptions {
	return pipelineOptions{
		budget:     math.Inf(1),
		runs:       sim.DefaultNumRuns,
		maxSteps:   sim.DefaultMaxSteps,
		seed:       sim.DefaultSeed,
		resultsDir: "results",
	}
}

func (o pipelineOptions) simConfig() sim.SimConfig {
	return sim.NewSimConfig(o.runs, o.maxSteps, o.seed, o.recordSteps)
}

// flagChecker reports whether the user set a flag; *pflag.FlagSet satisfies it.
type flagChecker interface {
	Changed(name string) bool
}

// apply copies file values into o for every flag the user left unset.
func (rc *RunConfig) apply(flags flagChecker, o *pipelineOptions) {
	if rc.Model != nil && !flags.Changed("model") {
		o.modelPath = *rc.Model
	}
	if rc.Runs != nil && !flags.Changed("runs") {
		o.runs = *rc.Runs
	}
	if rc.MaxSteps != nil && !flags.Changed("max-steps") {
		o.maxSteps = *rc.MaxSteps
	}
	if rc.Seed != nil && !flags.Changed("seed") {
		o.seed = *rc.Seed
	}
	if rc.Budget != nil && !flags.Changed("budget") {
		o.budget = *rc.Budget
	}
	if rc.ResultsDir != nil && !flags.Changed("results-dir") {
		o.resultsDir = *rc.ResultsDir
	}
}

// resolveRunConfig loads o.configPath (if any) and merges it into o.
func resolveRunConfig(flags flagChecker, o *pipelineOptions) (*RunConfig, error) {
	if o.configPath == "" {
		return &RunConfig{}, nil
	}
	rc, err := LoadRunConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	rc.apply(flags, o)
	logrus.Infof("run config %s: runs=%d max_steps=%d seed=%d budget=%g",
		o.configPath, o.runs, o.maxSteps, o.seed, o.budget)
	return rc, nil
}

// noFlagsSet is the flagChecker for callers with no command line.
type noFlagsSet struct{}

func (noFlagsSet) Changed(string) bool { return false }
