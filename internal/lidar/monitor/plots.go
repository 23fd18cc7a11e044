package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
	"github.com/banshee-data/beam.reduce/internal/units"
)

const (
	plotWidth  = 14 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// histogramXYs returns (bin centre in degrees, count) pairs.
func histogramXYs(h *beams.Histogram, counts []float64) plotter.XYs {
	pts := make(plotter.XYs, len(counts))
	for i, c := range counts {
		pts[i] = plotter.XY{X: units.Deg(h.Center(i)), Y: c}
	}
	return pts
}

// countInto bins angles onto h's bins, clamping out-of-range values.
func countInto(h *beams.Histogram, angles []float64) []float64 {
	counts := make([]float64, h.Bins())
	for _, a := range angles {
		counts[h.Bin(a)]++
	}
	return counts
}

func savePlot(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create plot directory: %w", err)
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

// PlotAngleHistogram renders the vertical-angle histogram of a detection
// with every detected beam marked, and saves it to path (PNG or SVG by
// extension).
func PlotAngleHistogram(det *beams.Detection, title, path string) error {
	if det == nil || det.Histogram == nil {
		return fmt.Errorf("no detection to plot")
	}
	h := det.Histogram

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Vertical angle (°)"
	p.Y.Label.Text = "Points"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(histogramXYs(h, h.Counts))
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("histogram", line)

	if len(det.PeakBins) > 0 {
		peaks := make(plotter.XYs, len(det.PeakBins))
		for i, b := range det.PeakBins {
			peaks[i] = plotter.XY{X: units.Deg(h.Center(b)), Y: h.Counts[b]}
		}
		marks, err := plotter.NewScatter(peaks)
		if err != nil {
			return err
		}
		marks.GlyphStyle.Color = color.RGBA{R: 220, G: 30, B: 30, A: 255}
		marks.GlyphStyle.Radius = vg.Points(3)
		marks.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(marks)
		p.Legend.Add(fmt.Sprintf("%d beams", len(det.PeakBins)), marks)
	}

	p.Legend.Top = true
	return savePlot(p, path)
}

// PlotComparison renders the input and reduced vertical-angle
// distributions on the input's bins and saves the figure to path.
func PlotComparison(original, reduced []beams.Point, params beams.Params, title, path string) error {
	before, err := beams.VerticalAngles(original)
	if err != nil {
		return err
	}
	h, err := beams.NewHistogram(before, params.HistogramBins)
	if err != nil {
		return err
	}

	after := make([]float64, len(reduced))
	for i, pt := range reduced {
		after[i] = beams.VerticalAngle(pt)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Vertical angle (°)"
	p.Y.Label.Text = "Points"
	p.Add(plotter.NewGrid())

	colors := generateColors(2)
	series := []struct {
		name   string
		counts []float64
	}{
		{fmt.Sprintf("original (%d points)", len(original)), h.Counts},
		{fmt.Sprintf("reduced (%d points)", len(reduced)), countInto(h, after)},
	}
	for i, s := range series {
		line, err := plotter.NewLine(histogramXYs(h, s.counts))
		if err != nil {
			return err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	p.Legend.Top = true
	return savePlot(p, path)
}
