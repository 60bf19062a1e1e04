package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCharts_AllPanels(t *testing.T) {
	ev := evaluate(t, 100)
	entries := MetadataFromRows(ev.report.Rows)

	var buf bytes.Buffer
	require.NoError(t, RenderCharts(&buf, entries))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Intervention cost vs average total cost")
	assert.Contains(t, html, "VoI by intervened state")
	assert.Contains(t, html, "Intervention frequency by state")
	assert.Contains(t, html, "Final states")
}

func TestBuildCharts_NoFinalStatesSkipsPie(t *testing.T) {
	ev := evaluate(t, 10)
	entries := MetadataFromRows(ev.report.Rows)
	for i := range entries {
		entries[i].FinalStates = nil
	}

	page := BuildCharts(entries)

	assert.Len(t, page.Charts, 4)
}

func TestWriter_WriteCharts(t *testing.T) {
	ev := evaluate(t, 10)
	w := NewWriter(t.TempDir())

	require.NoError(t, w.WriteCharts(MetadataFromRows(ev.report.Rows)))

	info, err := os.Stat(filepath.Join(w.Dir, ChartsFile))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestIntervenedStates_SortedUnion(t *testing.T) {
	ev := evaluate(t, 5)
	assert.Equal(t, []string{"S0", "S1"}, intervenedStates(ev.report.Rows))
}
