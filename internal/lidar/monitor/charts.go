package monitor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/multierr"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
	"github.com/banshee-data/beam.reduce/internal/units"
)

// RenderComparisonHTML writes a page comparing every method of cmp on the
// same input: point counts, beam counts and the vertical-angle
// distribution of each output on the input's histogram bins.
func RenderComparisonHTML(w io.Writer, title string, input []beams.Point, cmp *beams.Comparison, params beams.Params) error {
	if cmp == nil || len(cmp.Methods) == 0 {
		return fmt.Errorf("no comparison to render")
	}

	names := make([]string, len(cmp.Methods))
	pointsBefore := make([]opts.BarData, len(cmp.Methods))
	pointsAfter := make([]opts.BarData, len(cmp.Methods))
	beamsBefore := make([]opts.BarData, len(cmp.Methods))
	beamsAfter := make([]opts.BarData, len(cmp.Methods))
	for i, m := range cmp.Methods {
		e := cmp.Entries[m]
		names[i] = string(m)
		pointsBefore[i] = opts.BarData{Value: e.Metrics.PointsBefore}
		pointsAfter[i] = opts.BarData{Value: e.Metrics.PointsAfter}
		beamsBefore[i] = opts.BarData{Value: e.Metrics.BeamsBefore}
		beamsAfter[i] = opts.BarData{Value: e.Metrics.BeamsAfter}
	}

	pointsBar := charts.NewBar()
	pointsBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Points", Subtitle: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
	)
	pointsBar.SetXAxis(names).
		AddSeries("before", pointsBefore).
		AddSeries("after", pointsAfter,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	beamsBar := charts.NewBar()
	beamsBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Detected beams", Subtitle: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
	)
	beamsBar.SetXAxis(names).
		AddSeries("before", beamsBefore).
		AddSeries("after", beamsAfter,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	dist, err := distributionChart(title, input, cmp, params)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(pointsBar, beamsBar, dist)
	return page.Render(w)
}

func distributionChart(title string, input []beams.Point, cmp *beams.Comparison, params beams.Params) (*charts.Line, error) {
	before, err := beams.VerticalAngles(input)
	if err != nil {
		return nil, err
	}
	h, err := beams.NewHistogram(before, params.HistogramBins)
	if err != nil {
		return nil, err
	}

	x := make([]string, h.Bins())
	for i := range x {
		x[i] = fmt.Sprintf("%.2f", units.Deg(h.Center(i)))
	}
	lineData := func(counts []float64) []opts.LineData {
		out := make([]opts.LineData, len(counts))
		for i, c := range counts {
			out[i] = opts.LineData{Value: c}
		}
		return out
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "520px"}),
		charts.WithTitleOpts(opts.Title{Title: "Vertical angle distribution", Subtitle: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "deg", NameLocation: "middle", NameGap: 25}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(x)

	colors := generateColors(len(cmp.Methods) + 1)
	line.AddSeries("original", lineData(h.Counts),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(colors[0])}))
	for i, m := range cmp.Methods {
		e := cmp.Entries[m]
		if e.Result == nil {
			continue
		}
		after := make([]float64, len(e.Result.Points))
		for j, pt := range e.Result.Points {
			after[j] = beams.VerticalAngle(pt)
		}
		line.AddSeries(string(m), lineData(countInto(h, after)),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(colors[i+1])}))
	}
	return line, nil
}

// SaveComparisonHTML renders the comparison page to path.
func SaveComparisonHTML(path, title string, input []beams.Point, cmp *beams.Comparison, params beams.Params) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return RenderComparisonHTML(f, title, input, cmp, params)
}
