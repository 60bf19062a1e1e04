package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/separk-1/mdp-intervention/report"
)

type plotOptions struct {
	metadata string
	outDir   string
}

var plotOpts = plotOptions{metadata: filepath.Join("results", report.MetadataFile), outDir: "results"}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render VoI charts from a metadata file",
	Long:  "Read " + report.MetadataFile + " and write an HTML page of cost, VoI and intervention-frequency charts.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPlot(plotOpts, os.Stdout); err != nil {
			logrus.Fatalf("Plot failed: %v", err)
		}
	},
}

func runPlot(o plotOptions, out io.Writer) error {
	entries, err := report.ReadMetadata(o.metadata)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%s holds no policies", o.metadata)
	}
	w := report.NewWriter(o.outDir)
	if err := w.WriteCharts(entries); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Charts for %d policies written to %s\n", len(entries), w.Written[0])
	return nil
}

func init() {
	plotCmd.Flags().StringVar(&plotOpts.metadata, "metadata", plotOpts.metadata, "Metadata file written by evaluate")
	plotCmd.Flags().StringVar(&plotOpts.outDir, "out-dir", plotOpts.outDir, "Directory for the chart page")
	rootCmd.AddCommand(plotCmd)
}
