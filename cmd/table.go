package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/separk-1/mdp-intervention/report"
	"github.com/separk-1/mdp-intervention/sim/voi"
)

// printTable lists rows with VoI colored by sign. The zero-cost baseline
// is printed in bold.
func printTable(out io.Writer, title string, rows []voi.Row, colors bool) {
	au := aurora.NewAurora(colors)
	_, _ = fmt.Fprintln(out, au.Bold(title))
	_, _ = fmt.Fprintf(out, "%4s  %6s  %10s  %10s  %10s  %10s  %s\n",
		"rank", "policy", "int. cost", "avg cost", "VoI", "VoI/cost", "intervene")
	for i, r := range rows {
		states := strings.Join(r.IntervenedStates, ",")
		if states == "" {
			states = "-"
		}
		line := fmt.Sprintf("%4d  %6d  %10.4f  %10.4f  ", i+1, r.PolicyID, r.InterventionCost, r.AvgTotalCost)
		voiCells := fmt.Sprintf("%10.4f  %10.4f", r.VoI, r.VoIPerCost)
		var colored aurora.Value
		switch {
		case r.VoI > 0:
			colored = au.Green(voiCells)
		case r.VoI < 0:
			colored = au.Red(voiCells)
		default:
			colored = au.Faint(voiCells)
		}
		if r.InterventionCost == 0 {
			_, _ = fmt.Fprintf(out, "%s%s  %s\n", au.Bold(line), colored, au.Bold(states))
			continue
		}
		_, _ = fmt.Fprintf(out, "%s%s  %s\n", line, colored, states)
	}
}

type topOptions struct {
	metadata string
	n        int
	by       string
	noColor  bool
}

var topOpts = topOptions{metadata: filepath.Join("results", report.MetadataFile), n: report.TopVoIRows, by: "voi_per_cost"}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Print the best policies from a metadata file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTop(topOpts, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func parseOrdering(by string) (voi.Ordering, error) {
	switch by {
	case "voi_per_cost":
		return voi.OrderVoIPerCost, nil
	case "avg_cost":
		return voi.OrderAvgCost, nil
	default:
		return 0, fmt.Errorf("unknown ordering %q; valid: voi_per_cost, avg_cost", by)
	}
}

func runTop(o topOptions, out io.Writer) error {
	order, err := parseOrdering(o.by)
	if err != nil {
		return err
	}
	entries, err := report.ReadMetadata(o.metadata)
	if err != nil {
		return err
	}
	r := &voi.Report{Rows: make([]voi.Row, len(entries))}
	for i, e := range entries {
		r.Rows[i] = e.Row()
	}
	printTable(out, fmt.Sprintf("Top %d policies by %s", o.n, o.by), r.Top(o.n, order), !o.noColor)
	return nil
}

func init() {
	topCmd.Flags().StringVar(&topOpts.metadata, "metadata", topOpts.metadata, "Metadata file written by evaluate")
	topCmd.Flags().IntVar(&topOpts.n, "n", topOpts.n, "Number of policies to print")
	topCmd.Flags().StringVar(&topOpts.by, "by", topOpts.by, "Ranking: voi_per_cost or avg_cost")
	topCmd.Flags().BoolVar(&topOpts.noColor, "no-color", false, "Disable ANSI colors")
	rootCmd.AddCommand(topCmd)
}
