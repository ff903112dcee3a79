// Package chart renders the balance of a schedule as an HTML page of bar
// charts, one per tier.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/sequence"
)

// Render writes the page for s. Averages use visible members, so completed
// characters do not count.
func Render(w io.Writer, s model.Schedule, excl model.ExclusionMap) error {
	page := components.NewPage()
	page.PageTitle = "raidplan"
	for _, raid := range model.AllRaids {
		runs := s[raid]
		if len(runs) == 0 {
			continue
		}
		page.AddCharts(tierChart(raid, runs, excl))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func tierChart(raid model.RaidID, runs []model.Run, excl model.ExclusionMap) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: raid.Label(), Subtitle: fmt.Sprintf("%d runs", len(runs))}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Run"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Combat power"}),
	)
	xAxis := make([]string, len(runs))
	var overall, dps, sup []opts.BarData
	for i, run := range runs {
		xAxis[i] = fmt.Sprintf("Run %d", run.RunIndex)
		st := sequence.Stats(raid, run, excl)
		overall = append(overall, barValue(st.Overall))
		dps = append(dps, barValue(st.DPS))
		sup = append(sup, barValue(st.Support))
	}
	bar.SetXAxis(xAxis).
		AddSeries("Average", overall).
		AddSeries("DPS average", dps).
		AddSeries("Support average", sup)
	return bar
}

// barValue maps a missing average to the echarts empty marker.
func barValue(v *float64) opts.BarData {
	if v == nil {
		return opts.BarData{Value: "-"}
	}
	return opts.BarData{Value: *v}
}
