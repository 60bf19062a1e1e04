package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/separk-1/mdp-intervention/report"
	"github.com/separk-1/mdp-intervention/sim/voi"
)

func TestPrintTable_Plain(t *testing.T) {
	rows := []voi.Row{
		{Summary: voi.Summary{PolicyID: 0, IntervenedStates: []string{}, AvgTotalCost: 5}},
		{Summary: voi.Summary{PolicyID: 3, IntervenedStates: []string{"S1", "S4"}, InterventionCost: 1, AvgTotalCost: 3}, VoI: 2, VoIPerCost: 2},
	}

	var out bytes.Buffer
	printTable(&out, "ranking", rows, false)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ranking", lines[0])
	assert.Contains(t, lines[2], "-")
	assert.Contains(t, lines[3], "S1,S4")
	assert.Contains(t, lines[3], "2.0000")
}

func TestPrintTable_Colored(t *testing.T) {
	rows := []voi.Row{{Summary: voi.Summary{PolicyID: 1, InterventionCost: 1}, VoI: -1, VoIPerCost: -1}}
	var out bytes.Buffer
	printTable(&out, "ranking", rows, true)
	assert.Contains(t, out.String(), "\x1b[")
}

func TestRunTop_Orderings(t *testing.T) {
	o := testEvaluateOptions(t)
	o.budget = 1.0
	o.top = 0
	require.NoError(t, runEvaluate(context.Background(), o, &bytes.Buffer{}))
	metadata := filepath.Join(o.resultsDir, report.MetadataFile)

	tests := []struct {
		by      string
		wantErr bool
	}{
		{by: "voi_per_cost"},
		{by: "avg_cost"},
		{by: "median", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.by, func(t *testing.T) {
			var out bytes.Buffer
			err := runTop(topOptions{metadata: metadata, n: 2, by: tc.by, noColor: true}, &out)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			assert.Len(t, lines, 4, "title, header and two rows")
		})
	}
}
