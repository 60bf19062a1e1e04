// Package report persists enumeration and simulation results: JSON and CSV
// files, a SQL results store, S3 artifact upload, and HTML charts.
// The simulation core never imports it.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/separk-1/mdp-intervention/sim"
	"github.com/separk-1/mdp-intervention/sim/voi"
)

// File names written into a results directory.
const (
	PolicyListFile   = "policy_list.json"
	MetadataFile     = "policy_metadata.json"
	SummaryFile      = "summary.csv"
	SummaryVoIFile   = "summary_with_voi.csv"
	TopVoIPerCostCSV = "top_voi_per_cost.csv"
)

// PolicyListEntry is one feasible policy as persisted after enumeration.
type PolicyListEntry struct {
	Policy                map[string]string `json:"policy"`
	TotalInterventionCost float64           `json:"total_intervention_cost"`
}

// MetadataEntry is the persisted per-policy summary row.
type MetadataEntry struct {
	PolicyID         int            `json:"policy_id"`
	IntervenedStates []string       `json:"intervene_states"`
	AvgTotalCost     float64        `json:"avg_total_cost"`
	InterventionCost float64        `json:"intervention_cost"`
	VoI              float64        `json:"VoI"`
	VoIPerCost       float64        `json:"VoI_per_cost"`
	StdErr           float64        `json:"std_err"`
	TerminalRate     float64        `json:"terminal_rate"`
	FinalStates      map[string]int `json:"final_states,omitempty"`
}

// MetadataFromRows converts evaluated rows to their persisted form.
func MetadataFromRows(rows []voi.Row) []MetadataEntry {
	out := make([]MetadataEntry, len(rows))
	for i, r := range rows {
		out[i] = MetadataEntry{
			PolicyID:         r.PolicyID,
			IntervenedStates: r.IntervenedStates,
			AvgTotalCost:     r.AvgTotalCost,
			InterventionCost: r.InterventionCost,
			VoI:              r.VoI,
			VoIPerCost:       r.VoIPerCost,
			StdErr:           r.StdErr,
			TerminalRate:     r.TerminalRate,
			FinalStates:      r.FinalStates,
		}
	}
	return out
}

// Row rebuilds the analysis view of a persisted entry.
func (e MetadataEntry) Row() voi.Row {
	return voi.Row{
		Summary: voi.Summary{
			PolicyID:         e.PolicyID,
			InterventionCost: e.InterventionCost,
			IntervenedStates: e.IntervenedStates,
			AvgTotalCost:     e.AvgTotalCost,
			StdErr:           e.StdErr,
			TerminalRate:     e.TerminalRate,
			FinalStates:      e.FinalStates,
		},
		VoI:        e.VoI,
		VoIPerCost: e.VoIPerCost,
	}
}

// Writer writes result files into Dir, creating it on first use.
// Written records every path produced, in order.
type Writer struct {
	Dir     string
	Written []string
}

// NewWriter returns a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// WritePolicyList writes the enumerated policies with their costs.
func (w *Writer) WritePolicyList(policies []*sim.Policy) error {
	entries := make([]PolicyListEntry, len(policies))
	for i, p := range policies {
		entries[i] = PolicyListEntry{Policy: p.Assignments(), TotalInterventionCost: p.TotalInterventionCost()}
	}
	return w.writeJSON(PolicyListFile, entries)
}

// BatchFileName is the per-policy run file name for a policy id.
func BatchFileName(id int) string {
	return fmt.Sprintf("policy_%02d.json", id)
}

// WriteBatch writes every run record of one policy.
func (w *Writer) WriteBatch(id int, b *sim.Batch) error {
	return w.writeJSON(BatchFileName(id), b.Records)
}

// WriteRunRecords writes records under an explicit file name.
func (w *Writer) WriteRunRecords(name string, records []sim.RunRecord) error {
	return w.writeJSON(name, records)
}

// WriteMetadata writes the per-policy summary rows.
func (w *Writer) WriteMetadata(rows []voi.Row) error {
	return w.writeJSON(MetadataFile, MetadataFromRows(rows))
}

func (w *Writer) writeJSON(name string, v any) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("creating results dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	w.Written = append(w.Written, path)
	logrus.Debugf("wrote %s", path)
	return nil
}

// ReadPolicyList loads a policy list written by WritePolicyList.
func ReadPolicyList(path string) ([]PolicyListEntry, error) {
	var entries []PolicyListEntry
	if err := readJSON(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadMetadata loads metadata written by WriteMetadata.
func ReadMetadata(path string) ([]MetadataEntry, error) {
	var entries []MetadataEntry
	if err := readJSON(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
