package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/separk-1/mdp-intervention/sim/voi"
)

// ChartsFile is the HTML page written by WriteCharts.
const ChartsFile = "voi_charts.html"

// BuildCharts lays out the comparison charts for persisted metadata:
// cost tradeoff, Pareto front, VoI by state, intervention frequency, and
// the final-state mix of the cheapest policy on average.
func BuildCharts(entries []MetadataEntry) *components.Page {
	rows := make([]voi.Row, len(entries))
	for i, e := range entries {
		rows[i] = e.Row()
	}
	states := intervenedStates(rows)

	page := components.NewPage()
	page.PageTitle = "Policy value of information"
	page.AddCharts(
		costTradeoff(rows),
		paretoScatter(rows),
		voiHeatMap(rows, states),
		frequencyBar(rows, states),
	)
	if pie := finalStatePie(rows); pie != nil {
		page.AddCharts(pie)
	}
	return page
}

// RenderCharts writes the chart page as HTML.
func RenderCharts(w io.Writer, entries []MetadataEntry) error {
	return BuildCharts(entries).Render(w)
}

// WriteCharts renders the chart page into the writer's directory.
func (w *Writer) WriteCharts(entries []MetadataEntry) (retErr error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("creating results dir: %w", err)
	}
	path := filepath.Join(w.Dir, ChartsFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", ChartsFile, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("closing %s: %w", ChartsFile, closeErr)
		}
	}()
	if err := RenderCharts(f, entries); err != nil {
		return fmt.Errorf("rendering charts: %w", err)
	}
	w.Written = append(w.Written, path)
	return nil
}

func intervenedStates(rows []voi.Row) []string {
	seen := make(map[string]bool)
	var states []string
	for _, r := range rows {
		for _, s := range r.IntervenedStates {
			if !seen[s] {
				seen[s] = true
				states = append(states, s)
			}
		}
	}
	sort.Strings(states)
	return states
}

func costTradeoff(rows []voi.Row) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Intervention cost vs average total cost"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "intervention cost", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "avg total cost", Type: "value"}),
	)
	items := make([]opts.ScatterData, 0, len(rows))
	for _, r := range rows {
		items = append(items, opts.ScatterData{
			Name:       policyLabel(r),
			Value:      []float64{r.InterventionCost, r.AvgTotalCost},
			SymbolSize: 8,
		})
	}
	sc.AddSeries("policies", items)
	return sc
}

func paretoScatter(rows []voi.Row) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "VoI vs intervention cost", Subtitle: "Pareto front highlighted"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "intervention cost", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "VoI", Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	onFront := make(map[int]bool)
	front := voi.ParetoFront(rows)
	for _, r := range front {
		onFront[r.PolicyID] = true
	}
	var all, best []opts.ScatterData
	for _, r := range rows {
		d := opts.ScatterData{Name: policyLabel(r), Value: []float64{r.InterventionCost, r.VoI}, SymbolSize: 8}
		if onFront[r.PolicyID] {
			d.SymbolSize = 14
			best = append(best, d)
			continue
		}
		all = append(all, d)
	}
	sc.AddSeries("dominated", all)
	sc.AddSeries("pareto front", best)
	return sc
}

func voiHeatMap(rows []voi.Row, states []string) *charts.HeatMap {
	matrix := voi.VoIByState(rows, states)
	ids := make([]string, len(rows))
	lo, hi := 0.0, 0.0
	var items []opts.HeatMapData
	for i, r := range rows {
		ids[i] = strconv.Itoa(r.PolicyID)
		for j := range states {
			v := matrix[i][j]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			items = append(items, opts.HeatMapData{Value: [3]interface{}{j, i, v}})
		}
	}
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "VoI by intervened state"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "state", Type: "category", Data: states}),
		charts.WithYAxisOpts(opts.YAxis{Name: "policy", Type: "category", Data: ids}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: []string{"#313695", "#ffffbf", "#a50026"}},
		}),
	)
	hm.SetXAxis(states)
	hm.AddSeries("VoI", items)
	return hm
}

func frequencyBar(rows []voi.Row, states []string) *charts.Bar {
	freq := voi.InterventionFrequency(rows, 0)
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Intervention frequency by state"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	items := make([]opts.BarData, len(states))
	for i, s := range states {
		items[i] = opts.BarData{Value: freq[s]}
	}
	bar.SetXAxis(states).AddSeries("policies", items)
	return bar
}

func finalStatePie(rows []voi.Row) *charts.Pie {
	if len(rows) == 0 {
		return nil
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.AvgTotalCost < best.AvgTotalCost {
			best = r
		}
	}
	if len(best.FinalStates) == 0 {
		return nil
	}
	names := make([]string, 0, len(best.FinalStates))
	for s := range best.FinalStates {
		names = append(names, s)
	}
	sort.Strings(names)
	items := make([]opts.PieData, len(names))
	for i, s := range names {
		items[i] = opts.PieData{Name: s, Value: best.FinalStates[s]}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Final states", Subtitle: "policy " + policyLabel(best)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("final state", items)
	return pie
}

func policyLabel(r voi.Row) string {
	return fmt.Sprintf("#%d %v", r.PolicyID, r.IntervenedStates)
}
