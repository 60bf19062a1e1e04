package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/separk-1/mdp-intervention/sim/voi"
)

// TopVoIRows is how many rows top_voi_per_cost.csv keeps.
const TopVoIRows = 10

var (
	summaryHeader    = []string{"policy_id", "avg_total_cost", "intervention_cost", "intervene_states"}
	summaryVoIHeader = []string{"policy_id", "avg_total_cost", "intervention_cost", "intervene_states",
		"VoI", "VoI_per_cost", "std_err", "terminal_rate"}
)

// WriteSummaries writes summary.csv (enumeration order),
// summary_with_voi.csv (ranked by average cost) and top_voi_per_cost.csv.
func (w *Writer) WriteSummaries(r *voi.Report) error {
	if err := w.writeCSV(SummaryFile, summaryHeader, r.Rows, false); err != nil {
		return err
	}
	if err := w.writeCSV(SummaryVoIFile, summaryVoIHeader, r.ByAvgCost(), true); err != nil {
		return err
	}
	return w.writeCSV(TopVoIPerCostCSV, summaryVoIHeader, r.Top(TopVoIRows, voi.OrderVoIPerCost), true)
}

func (w *Writer) writeCSV(name string, header []string, rows []voi.Row, withVoI bool) (retErr error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("creating results dir: %w", err)
	}
	path := filepath.Join(w.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("closing %s: %w", name, closeErr)
		}
	}()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.PolicyID),
			formatFloat(r.AvgTotalCost),
			formatFloat(r.InterventionCost),
			strings.Join(r.IntervenedStates, "|"),
		}
		if withVoI {
			record = append(record,
				formatFloat(r.VoI),
				formatFloat(r.VoIPerCost),
				formatFloat(r.StdErr),
				formatFloat(r.TerminalRate),
			)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", name, err)
	}
	w.Written = append(w.Written, path)
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
