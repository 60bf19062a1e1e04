package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/separk-1/mdp-intervention/report"
	"github.com/separk-1/mdp-intervention/sim"
	"github.com/separk-1/mdp-intervention/sim/trace"
	"github.com/separk-1/mdp-intervention/sim/voi"
)

// DefaultRunResultFile is where simulate writes its run records.
const DefaultRunResultFile = "run1_result.json"

type simulateOptions struct {
	pipelineOptions
	intervene  []string
	policyList string
	policyID   int
	output     string
}

var simulateOpts = simulateOptions{pipelineOptions: defaultPipelineOptions(), policyID: -1, output: DefaultRunResultFile}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate one policy and report its cost statistics",
	Long: "Simulate a single policy, chosen by --intervene, by --policy-list with --policy-id, " +
		"or by the policy section of --config. With none of these the no-intervention policy runs.",
	Run: func(cmd *cobra.Command, args []string) {
		o := simulateOpts
		rc, err := resolveRunConfig(cmd.Flags(), &o.pipelineOptions)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := runSimulate(o, rc, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// selectPolicy picks the policy to simulate. Precedence: --intervene,
// --policy-list/--policy-id, then the run config's policy map.
func selectPolicy(m *sim.Model, o simulateOptions, rc *RunConfig) (*sim.Policy, error) {
	switch {
	case len(o.intervene) > 0:
		return sim.NewPolicyBuilder(m).Intervene(o.intervene...).Build()
	case o.policyList != "":
		entries, err := report.ReadPolicyList(o.policyList)
		if err != nil {
			return nil, err
		}
		if o.policyID < 0 || o.policyID >= len(entries) {
			return nil, fmt.Errorf("policy id %d out of range: %s holds %d policies", o.policyID, o.policyList, len(entries))
		}
		return sim.PolicyFromAssignments(m, entries[o.policyID].Policy)
	case rc != nil && len(rc.Policy) > 0:
		return sim.PolicyFromAssignments(m, rc.Policy)
	default:
		return sim.NewPolicyBuilder(m).Build()
	}
}

func runSimulate(o simulateOptions, rc *RunConfig, out io.Writer) error {
	if o.modelPath == "" {
		return fmt.Errorf("a model file is required (--model)")
	}
	m, err := LoadModel(o.modelPath)
	if err != nil {
		return err
	}
	p, err := selectPolicy(m, o, rc)
	if err != nil {
		return err
	}
	engine, err := sim.NewEngine(m, o.simConfig())
	if err != nil {
		return err
	}
	logrus.Infof("simulating %s for %d runs (max %d steps, seed %d)", p.Key(), o.runs, o.maxSteps, o.seed)
	b, err := engine.Run(p)
	if err != nil {
		return err
	}

	w := report.NewWriter(o.resultsDir)
	if err := w.WriteRunRecords(o.output, b.Records); err != nil {
		return err
	}

	s := voi.Summarize(0, b)
	lo, hi := s.ConfidenceInterval95()
	_, _ = fmt.Fprintf(out, "Policy: %s\n", p.Key())
	_, _ = fmt.Fprintf(out, "Intervention cost: %g\n", s.InterventionCost)
	_, _ = fmt.Fprintf(out, "Runs: %d\n", s.SampleCount)
	_, _ = fmt.Fprintf(out, "Average total cost: %.4f (95%% CI %.4f..%.4f, std dev %.4f)\n", s.AvgTotalCost, lo, hi, s.StdDev)
	_, _ = fmt.Fprintf(out, "Mean steps: %.3f, terminal rate: %.3f, truncated runs: %d\n", s.MeanSteps, s.TerminalRate, s.TruncatedRuns)
	_, _ = fmt.Fprintln(out, "Final state distribution:")
	finals := make([]string, 0, len(s.FinalStates))
	for st := range s.FinalStates {
		finals = append(finals, st)
	}
	sort.Strings(finals)
	for _, st := range finals {
		n := s.FinalStates[st]
		_, _ = fmt.Fprintf(out, "  %-12s %6d  (%.3f)\n", st, n, float64(n)/float64(s.SampleCount))
	}
	if b.Trace != nil {
		printTraceSummary(out, trace.Summarize(b.Trace))
	}
	_, _ = fmt.Fprintf(out, "Run records written to %s\n", w.Written[0])
	return nil
}

func printTraceSummary(out io.Writer, ts *trace.TraceSummary) {
	_, _ = fmt.Fprintf(out, "Trace: %d runs, %d terminated, mean length %.3f, max length %d\n",
		ts.TotalRuns, ts.TerminatedRuns, ts.MeanLength, ts.MaxLength)
	states := make([]string, 0, len(ts.StateVisits))
	for st := range ts.StateVisits {
		states = append(states, st)
	}
	sort.Strings(states)
	for _, st := range states {
		_, _ = fmt.Fprintf(out, "  visits %-12s %d\n", st, ts.StateVisits[st])
	}
	actions := make([]string, 0, len(ts.ActionCost))
	for a := range ts.ActionCost {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	for _, a := range actions {
		_, _ = fmt.Fprintf(out, "  cost under %-16s %.4f\n", a, ts.ActionCost[a])
	}
}

func init() {
	addModelFlags(simulateCmd, &simulateOpts.pipelineOptions)
	addSimulationFlags(simulateCmd, &simulateOpts.pipelineOptions)
	simulateCmd.Flags().StringSliceVar(&simulateOpts.intervene, "intervene", nil, "States to intervene in (comma-separated)")
	simulateCmd.Flags().StringVar(&simulateOpts.policyList, "policy-list", "", "Policy list written by enumerate")
	simulateCmd.Flags().IntVar(&simulateOpts.policyID, "policy-id", -1, "Index into --policy-list")
	simulateCmd.Flags().StringVar(&simulateOpts.output, "output", DefaultRunResultFile, "Run record file name inside --results-dir")
	rootCmd.AddCommand(simulateCmd)
}
