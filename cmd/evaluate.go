package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/separk-1/mdp-intervention/report"
	"github.com/separk-1/mdp-intervention/sim"
	"github.com/separk-1/mdp-intervention/sim/voi"
)

type evaluateOptions struct {
	pipelineOptions
	label       string
	saveRuns    bool
	charts      bool
	top         int
	noColor     bool
	storeDriver string
	storeDSN    string
	s3          report.S3Config
}

var evaluateOpts = evaluateOptions{
	pipelineOptions: defaultPipelineOptions(),
	label:           "evaluation",
	saveRuns:        true,
	top:             report.TopVoIRows,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Enumerate, simulate and rank every feasible policy by value of information",
	Run: func(cmd *cobra.Command, args []string) {
		o := evaluateOpts
		if _, err := resolveRunConfig(cmd.Flags(), &o.pipelineOptions); err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := runEvaluate(cmd.Context(), o, os.Stdout); err != nil {
			logrus.Fatalf("Evaluation failed: %v", err)
		}
	},
}

// zeroCostPresent reports whether enumeration produced the baseline policy.
// With a negative budget or an empty result it did not.
func zeroCostPresent(policies []*sim.Policy) bool {
	for _, p := range policies {
		if p.TotalInterventionCost() == 0 {
			return true
		}
	}
	return false
}

func runEvaluate(ctx context.Context, o evaluateOptions, out io.Writer) error {
	m, e, err := enumerate(o.pipelineOptions)
	if err != nil {
		return err
	}
	if e.Warning != nil {
		return fmt.Errorf("nothing to evaluate: %w", e.Warning)
	}
	if !zeroCostPresent(e.Policies) {
		return &sim.MissingBaselineError{}
	}
	engine, err := sim.NewEngine(m, o.simConfig())
	if err != nil {
		return err
	}

	w := report.NewWriter(o.resultsDir)
	if err := w.WritePolicyList(e.Policies); err != nil {
		return err
	}
	logrus.Infof("simulating %d policies x %d runs", len(e.Policies), o.runs)
	batches, err := engine.RunAll(e.Policies)
	if err != nil {
		return err
	}
	if o.saveRuns {
		for i, b := range batches {
			if err := w.WriteBatch(i, b); err != nil {
				return err
			}
		}
	}

	summaries := voi.SummarizeAll(batches)
	if _, err := voi.FindBaseline(summaries); err != nil {
		return err
	}
	r, err := voi.Evaluate(summaries)
	if err != nil {
		return err
	}
	if err := w.WriteMetadata(r.Rows); err != nil {
		return err
	}
	if err := w.WriteSummaries(r); err != nil {
		return err
	}
	if o.charts {
		if err := w.WriteCharts(report.MetadataFromRows(r.Rows)); err != nil {
			return err
		}
	}

	if o.storeDriver != "" {
		if err := saveToStore(ctx, o, r, batches); err != nil {
			return err
		}
	}
	if o.s3.Bucket != "" {
		client, err := report.NewS3Client(ctx, o.s3)
		if err != nil {
			return err
		}
		keys, err := report.UploadFiles(ctx, client, o.s3.Bucket, o.s3.Prefix, w.Written)
		if err != nil {
			return err
		}
		logrus.Infof("uploaded %d files to s3://%s/%s", len(keys), o.s3.Bucket, o.s3.Prefix)
	}

	_, _ = fmt.Fprintf(out, "Baseline: policy %d, average total cost %.4f\n", r.Baseline.PolicyID, r.Baseline.AvgTotalCost)
	if o.top > 0 {
		printTable(out, fmt.Sprintf("Top %d policies by VoI per cost", o.top), r.Top(o.top, voi.OrderVoIPerCost), !o.noColor)
	}
	_, _ = fmt.Fprintf(out, "%d files written to %s\n", len(w.Written), o.resultsDir)
	return nil
}

func saveToStore(ctx context.Context, o evaluateOptions, r *voi.Report, batches []*sim.Batch) error {
	store, err := report.OpenStore(ctx, o.storeDriver, o.storeDSN)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	var runs []*sim.Batch
	if o.saveRuns {
		runs = batches
	}
	id, err := store.SaveEvaluation(ctx, report.Evaluation{Label: o.label, Budget: o.budget, Config: o.simConfig()}, r, runs)
	if err != nil {
		return fmt.Errorf("saving evaluation: %w", err)
	}
	logrus.Infof("stored evaluation %d (%s)", id, o.storeDriver)
	return nil
}

func init() {
	addModelFlags(evaluateCmd, &evaluateOpts.pipelineOptions)
	addSimulationFlags(evaluateCmd, &evaluateOpts.pipelineOptions)
	f := evaluateCmd.Flags()
	f.StringVar(&evaluateOpts.label, "label", evaluateOpts.label, "Label recorded with a stored evaluation")
	f.BoolVar(&evaluateOpts.saveRuns, "save-runs", true, "Write per-policy run records (policy_NN.json and the store's runs table)")
	f.BoolVar(&evaluateOpts.charts, "charts", false, "Also render "+report.ChartsFile)
	f.IntVar(&evaluateOpts.top, "top", evaluateOpts.top, "Policies to print ranked by VoI per cost (0 disables)")
	f.BoolVar(&evaluateOpts.noColor, "no-color", false, "Disable ANSI colors")

	// Results store
	f.StringVar(&evaluateOpts.storeDriver, "store-driver", "", "Also save results to a database: sqlite or pgx")
	f.StringVar(&evaluateOpts.storeDSN, "store-dsn", "", "Database file (sqlite) or connection string (pgx)")

	// Artifact upload
	f.StringVar(&evaluateOpts.s3.Bucket, "s3-bucket", "", "Upload result files to this S3 bucket")
	f.StringVar(&evaluateOpts.s3.Prefix, "s3-prefix", "", "Key prefix for uploaded files")
	f.StringVar(&evaluateOpts.s3.Region, "s3-region", "", "S3 region (default us-east-1)")
	f.StringVar(&evaluateOpts.s3.Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")
	f.BoolVar(&evaluateOpts.s3.PathStyle, "s3-path-style", false, "Use path-style S3 addressing")

	rootCmd.AddCommand(evaluateCmd)
}
