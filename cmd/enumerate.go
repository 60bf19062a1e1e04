package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/separk-1/mdp-intervention/report"
	"github.com/separk-1/mdp-intervention/sim"
)

var enumerateOpts = defaultPipelineOptions()

var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "List every intervention policy within the budget",
	Long: "Enumerate deterministic intervention policies over the model's non-terminal states, " +
		"keep those whose total intervention cost fits the budget, and write " + report.PolicyListFile + ".",
	Run: func(cmd *cobra.Command, args []string) {
		o := enumerateOpts
		if _, err := resolveRunConfig(cmd.Flags(), &o); err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := runEnumerate(o, os.Stdout); err != nil {
			logrus.Fatalf("Enumeration failed: %v", err)
		}
	},
}

// enumerate loads the model and enumerates its policies under o.budget.
func enumerate(o pipelineOptions) (*sim.Model, *sim.Enumeration, error) {
	if o.modelPath == "" {
		return nil, nil, fmt.Errorf("a model file is required (--model)")
	}
	m, err := LoadModel(o.modelPath)
	if err != nil {
		return nil, nil, err
	}
	e, err := sim.EnumeratePolicies(m, o.budget)
	if err != nil {
		return nil, nil, err
	}
	logrus.Infof("%d of %d policies fit budget %g", len(e.Policies), e.Candidates, o.budget)
	return m, e, nil
}

func runEnumerate(o pipelineOptions, out io.Writer) error {
	_, e, err := enumerate(o)
	if err != nil {
		return err
	}
	w := report.NewWriter(o.resultsDir)
	if err := w.WritePolicyList(e.Policies); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%d feasible policies (of %d, %d pruned) written to %s\n",
		len(e.Policies), e.Candidates, e.Pruned, w.Written[0])
	if e.Warning != nil {
		_, _ = fmt.Fprintf(out, "warning: %v\n", e.Warning)
	}
	return nil
}

// addModelFlags registers the flags every pipeline command shares.
func addModelFlags(cmd *cobra.Command, o *pipelineOptions) {
	cmd.Flags().StringVar(&o.modelPath, "model", "", "Path to the model file (YAML or JSON)")
	cmd.Flags().StringVar(&o.configPath, "config", "", "Optional run config file (YAML or JSON); explicit flags take precedence")
	cmd.Flags().Float64Var(&o.budget, "budget", o.budget, "Maximum total intervention cost of a policy")
	cmd.Flags().StringVar(&o.resultsDir, "results-dir", o.resultsDir, "Directory for result files")
}

// addSimulationFlags registers the Monte Carlo parameters.
func addSimulationFlags(cmd *cobra.Command, o *pipelineOptions) {
	cmd.Flags().IntVar(&o.runs, "runs", o.runs, "Trajectories simulated per policy")
	cmd.Flags().IntVar(&o.maxSteps, "max-steps", o.maxSteps, "Step cap per trajectory")
	cmd.Flags().Int64Var(&o.seed, "seed", o.seed, "Master seed for trajectory sampling")
	cmd.Flags().BoolVar(&o.recordSteps, "record-steps", false, "Keep step-level traces and print their summary")
}

func init() {
	addModelFlags(enumerateCmd, &enumerateOpts)
	rootCmd.AddCommand(enumerateCmd)
}
