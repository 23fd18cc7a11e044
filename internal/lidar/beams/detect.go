package beams

import (
	"github.com/banshee-data/beam.reduce/internal/monitoring"
	"github.com/banshee-data/beam.reduce/internal/units"
	"gonum.org/v1/gonum/stat"
)

// Detection is the outcome of beam-boundary detection over a cloud's
// vertical angles.
type Detection struct {
	Histogram *Histogram
	// PeakBins are the histogram bins holding a beam centre, ascending.
	PeakBins []int
	// Centers are the beam centre angles in radians, ascending.
	Centers []float64
	// Degenerate is set when the whole cloud spans less than
	// DegenerateSpreadDeg; Centers then holds the single mean angle.
	Degenerate bool
	// Fallback is set when the sensitive second pass supplied the peaks.
	Fallback bool
}

// Beams returns the detected beam count.
func (d *Detection) Beams() int { return len(d.Centers) }

// DetectBeams builds the vertical-angle histogram and locates one peak per
// physical beam. It does not fail on fewer than two beams; callers decide
// whether that is an error.
func DetectBeams(angles []float64, p Params) (*Detection, error) {
	if len(angles) == 0 {
		return nil, &InvalidInputError{Reason: "no angles to detect beams in"}
	}
	hist, err := NewHistogram(angles, p.HistogramBins)
	if err != nil {
		return nil, err
	}

	lo, hi := AngleRange(angles)
	if units.Deg(hi-lo) <= p.DegenerateSpreadDeg {
		return &Detection{
			Histogram:  hist,
			Centers:    []float64{stat.Mean(angles, nil)},
			Degenerate: true,
		}, nil
	}

	pp := p.peakParams(hist.Width)
	peaks := FindPeaks(hist.Counts, pp)
	det := &Detection{Histogram: hist, PeakBins: peaks}

	if len(peaks) < p.FallbackMinPeaks && p.FallbackHeightFraction > 0 {
		retry := pp
		retry.MinHeightFraction = p.FallbackHeightFraction
		retry.MinSeparationBins = pp.MinSeparationBins / 2
		more := FindPeaks(hist.Counts, retry)
		monitoring.Diagf("beam detection: first pass found %d peaks (< %d), fallback pass found %d",
			len(peaks), p.FallbackMinPeaks, len(more))
		if len(more) > len(peaks) {
			det.PeakBins = more
			det.Fallback = true
		}
	}

	det.Centers = make([]float64, len(det.PeakBins))
	for i, b := range det.PeakBins {
		det.Centers[i] = hist.Center(b)
	}
	if monitoring.TraceEnabled() {
		for i, b := range det.PeakBins {
			monitoring.Tracef("beam %d: bin=%d count=%.0f angle=%.4f°", i, b, hist.Counts[b], units.Deg(det.Centers[i]))
		}
	}
	return det, nil
}

// CountBeams returns the number of beams the proper method detects in
// points. It never fails: fewer than two points count as that many beams
// and a degenerate cloud counts as one.
func CountBeams(points []Point, p Params) int {
	if len(points) < 2 {
		return len(points)
	}
	det, err := DetectBeams(verticalAngles(points), p)
	if err != nil {
		return 0
	}
	return det.Beams()
}
