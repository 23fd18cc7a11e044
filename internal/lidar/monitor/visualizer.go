package monitor

import (
	"fmt"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
	"github.com/banshee-data/beam.reduce/internal/monitoring"
)

// Visualizer renders diagnostic plots for reductions into Dir.
type Visualizer struct {
	Dir    string
	Params beams.Params
}

// NewVisualizer returns a Visualizer writing into dir.
func NewVisualizer(dir string, params beams.Params) *Visualizer {
	return &Visualizer{Dir: dir, Params: params}
}

// RenderResult writes the beam histogram of the input and the
// before/after distribution for one reduction. The histogram needs the
// proper method's detection; for other methods it is computed here.
func (v *Visualizer) RenderResult(inputPath string, original []beams.Point, res *beams.Result) (PlotFiles, error) {
	files := PlotPaths(v.Dir, inputPath)

	det := res.Detection
	if det == nil {
		angles, err := beams.VerticalAngles(original)
		if err != nil {
			return files, err
		}
		if det, err = beams.DetectBeams(angles, v.Params); err != nil {
			return files, err
		}
	}

	name := stem(inputPath)
	if err := PlotAngleHistogram(det, fmt.Sprintf("%s: vertical angle histogram", name), files.Histogram); err != nil {
		return files, err
	}
	if err := PlotComparison(original, res.Points, v.Params,
		fmt.Sprintf("%s: %s reduction", name, res.Method), files.Comparison); err != nil {
		return files, err
	}
	monitoring.Diagf("plots written: %s, %s", files.Histogram, files.Comparison)
	return files, nil
}

// RenderComparison writes the per-method HTML page for one input.
func (v *Visualizer) RenderComparison(inputPath string, original []beams.Point, cmp *beams.Comparison) (string, error) {
	path := PlotPaths(v.Dir, inputPath).HTML
	if err := SaveComparisonHTML(path, stem(inputPath), original, cmp, v.Params); err != nil {
		return "", err
	}
	monitoring.Diagf("comparison page written: %s", path)
	return path, nil
}
