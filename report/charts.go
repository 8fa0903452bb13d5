package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"rocket/model"
)

func lineOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	}
}

func lineData(history []model.TemperatureRecord, f func(model.TemperatureRecord) float64) []opts.LineData {
	items := make([]opts.LineData, len(history))
	for i, r := range history {
		items[i] = opts.LineData{Value: f(r)}
	}
	return items
}

// HTML renders temperature and flight charts of a run. frames may be empty.
func HTML(w io.Writer, material string, history []model.TemperatureRecord, frames []model.FieldFrame) error {
	if len(history) == 0 {
		return fmt.Errorf("html report: %w", ErrEmptyHistory)
	}
	times := make([]string, len(history))
	for i, r := range history {
		times[i] = fmt.Sprintf("%.2f", r.Time)
	}

	temp := charts.NewLine()
	temp.SetGlobalOptions(lineOpts("Fin temperature", material)...)
	temp.SetXAxis(times).
		AddSeries("Max", lineData(history, func(r model.TemperatureRecord) float64 { return r.MaxTemp })).
		AddSeries("Mean", lineData(history, func(r model.TemperatureRecord) float64 { return r.MeanTemp }))
	for i, pt := range history[0].Points {
		i := i
		temp.AddSeries(pt.Name, lineData(history, func(r model.TemperatureRecord) float64 {
			return r.Points[i].Temperature
		}))
	}

	flight := charts.NewLine()
	flight.SetGlobalOptions(lineOpts("Flight", "altitude (m), velocity (m/s), Mach x 100")...)
	flight.SetXAxis(times).
		AddSeries("Altitude", lineData(history, func(r model.TemperatureRecord) float64 { return r.Flight.Altitude })).
		AddSeries("Velocity", lineData(history, func(r model.TemperatureRecord) float64 { return r.Flight.Velocity })).
		AddSeries("Mach x 100", lineData(history, func(r model.TemperatureRecord) float64 { return r.Mach * 100 }))

	page := components.NewPage()
	page.AddCharts(temp, flight)

	if len(frames) > 0 {
		ft := make([]string, len(frames))
		items := make([]opts.LineData, len(frames))
		for i, f := range frames {
			ft[i] = fmt.Sprintf("%.2f", f.Time)
			items[i] = opts.LineData{Value: f.MaxTemp}
		}
		snap := charts.NewLine()
		snap.SetGlobalOptions(lineOpts("Field snapshots", "field maximum of each kept frame")...)
		snap.SetXAxis(ft).AddSeries("Frame max", items)
		page.AddCharts(snap)
	}
	return page.Render(w)
}

// ComparisonHTML renders peak and service temperatures and fin mass per material.
func ComparisonHTML(w io.Writer, results []model.ComparisonResult) error {
	names := make([]string, 0, len(results))
	peak := make([]opts.BarData, 0, len(results))
	limit := make([]opts.BarData, 0, len(results))
	mass := make([]opts.BarData, 0, len(results))
	for _, r := range results {
		if r.Err != "" {
			continue
		}
		names = append(names, r.Material)
		peak = append(peak, opts.BarData{Value: r.MaxTemperature})
		limit = append(limit, opts.BarData{Value: r.MaxServiceTemp})
		mass = append(mass, opts.BarData{Value: r.FinMass})
	}

	temps := charts.NewBar()
	temps.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Material comparison", Subtitle: "peak vs service temperature (K)"}),
		charts.WithLegendOpts(opts.Legend{Right: "10"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	temps.SetXAxis(names).
		AddSeries("Peak", peak).
		AddSeries("Service limit", limit)

	masses := charts.NewBar()
	masses.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Fin set mass", Subtitle: "kg"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	masses.SetXAxis(names).AddSeries("Mass", mass)

	page := components.NewPage()
	page.AddCharts(temps, masses)
	return page.Render(w)
}
