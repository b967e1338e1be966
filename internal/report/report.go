// Package report renders recorded flights as standalone HTML pages of
// go-echarts charts for post-flight review in a browser.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tonytyler99/uavtrack/internal/flightlog"
	"github.com/tonytyler99/uavtrack/internal/track"
)

const (
	chartWidth  = "1180px"
	chartHeight = "340px"

	// maxChartPoints caps the samples per series; longer flights are
	// downsampled by stride to keep the page responsive.
	maxChartPoints = 4000
)

// WriteFlightReport renders the per-cycle history of one flight as an HTML
// page with a chart for the horizontal centering error, one for the yaw and
// forward/back commands, a search-mode band, and a bar chart of the flight
// metrics when the flight carries any.
func WriteFlightReport(w io.Writer, f flightlog.Flight, records []track.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("flight %s: no cycle records to chart", f.ID)
	}

	stride := 1
	if len(records) > maxChartPoints {
		stride = int(math.Ceil(float64(len(records)) / float64(maxChartPoints)))
	}

	xs := make([]string, 0, len(records)/stride+1)
	errX := make([]opts.LineData, 0, cap(xs))
	yaw := make([]opts.LineData, 0, cap(xs))
	fb := make([]opts.LineData, 0, cap(xs))
	searching := make([]opts.LineData, 0, cap(xs))
	for i := 0; i < len(records); i += stride {
		rec := records[i]
		xs = append(xs, fmt.Sprintf("%.2f", rec.T.Seconds()))
		errX = append(errX, opts.LineData{Value: rec.ErrX})
		yaw = append(yaw, opts.LineData{Value: rec.Command.Yaw})
		fb = append(fb, opts.LineData{Value: rec.Command.ForwardBack})
		mode := 0
		if rec.Mode == track.ModeSearching {
			mode = 1
		}
		searching = append(searching, opts.LineData{Value: mode})
	}

	subtitle := fmt.Sprintf("source=%s started=%s cycles=%d stride=%d duration=%s",
		f.Source,
		f.StartedAt.UTC().Format(time.RFC3339),
		len(records),
		stride,
		f.Duration.Round(time.Millisecond),
	)

	errChart := charts.NewLine()
	errChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Flight " + shortID(f.ID), Theme: "dark", Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Centering error", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "px"}),
	)
	errChart.SetXAxis(xs).AddSeries("err_x", errX)

	cmdChart := charts.NewLine()
	cmdChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Commands", Subtitle: "axis speeds sent to the vehicle, range [-100, 100]"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "speed"}),
	)
	cmdChart.SetXAxis(xs).
		AddSeries("yaw", yaw).
		AddSeries("forward/back", fb)

	modeChart := charts.NewLine()
	modeChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: chartWidth, Height: "220px"}),
		charts.WithTitleOpts(opts.Title{Title: "Search mode", Subtitle: "1 while the sweep state machine held the vehicle"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
	)
	modeChart.SetXAxis(xs).AddSeries("searching", searching)

	page := components.NewPage()
	page.PageTitle = "Flight " + shortID(f.ID)
	page.AddCharts(errChart, cmdChart, modeChart)
	if len(f.Metrics) > 0 {
		page.AddCharts(metricsChart(f.Metrics))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// metricsChart renders the flight summary metrics as labeled bars.
func metricsChart(metrics map[string]float64) *charts.Bar {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]opts.BarData, len(names))
	for i, name := range names {
		values[i] = opts.BarData{Value: metrics[name]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Flight metrics"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("metrics", values,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
