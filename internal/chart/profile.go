// Package chart renders route metrics as standalone HTML charts.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/planbiir/gpxroute/internal/route"
	"github.com/planbiir/gpxroute/internal/units"
)

// DefaultSamples keeps the chart responsive on long tracks.
const DefaultSamples = 100

// Options tweak the rendered page.
type Options struct {
	MaxSamples int
	// AssetsHost overrides where echarts.min.js is loaded from.
	AssetsHost string
}

// NewProfileChart builds a line chart of elevation, speed and heart rate
// against cumulative distance.
func NewProfileChart(r *route.Route, o Options) *charts.Line {
	samples := o.MaxSamples
	if samples <= 0 {
		samples = DefaultSamples
	}
	profile := r.Profile(samples)

	labels := make([]string, 0, len(profile))
	elevation := make([]opts.LineData, 0, len(profile))
	speed := make([]opts.LineData, 0, len(profile))
	heartRate := make([]opts.LineData, 0, len(profile))
	var hasHeartRate bool

	for _, p := range profile {
		labels = append(labels, units.FormatDistance(p.Distance))
		elevation = append(elevation, opts.LineData{Value: p.Elevation})
		speed = append(speed, opts.LineData{Value: p.SpeedKmh})
		heartRate = append(heartRate, opts.LineData{Value: p.HeartRate})
		if p.HeartRate > 0 {
			hasHeartRate = true
		}
	}

	init := opts.Initialization{PageTitle: r.Name, Width: "100%", Height: "480px"}
	if o.AssetsHost != "" {
		init.AssetsHost = o.AssetsHost
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{
			Title: r.Name,
			Subtitle: fmt.Sprintf("%s, %s, +%s / -%s",
				units.FormatDistance(r.TotalDistance),
				units.FormatDuration(r.TotalDuration),
				units.FormatElevation(r.TotalElevationGain),
				units.FormatElevation(r.TotalElevationLoss)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Elevation (m)"}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "Speed / HR"})

	// series options replace each other, so every series states smooth itself
	left := charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)})
	right := charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), YAxisIndex: 1})

	line.SetXAxis(labels).
		AddSeries("Elevation (m)", elevation, left).
		AddSeries("Speed (km/h)", speed, right)
	if hasHeartRate {
		line.AddSeries("Heart rate (bpm)", heartRate, right)
	}

	return line
}

// RenderProfile writes the profile chart as an HTML page.
func RenderProfile(w io.Writer, r *route.Route, o Options) error {
	if r == nil || r.PointCount() == 0 {
		return fmt.Errorf("route has no points to chart")
	}
	if err := NewProfileChart(r, o).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
