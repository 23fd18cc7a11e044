package beams

import (
	"github.com/banshee-data/beam.reduce/internal/monitoring"
	"github.com/banshee-data/beam.reduce/internal/units"
)

// ProperResult is the proper method's output together with the beam
// structure it inferred, for metrics and visualisation.
type ProperResult struct {
	Points []Point
	// Detection holds the histogram and beam centres of the input.
	Detection *Detection
	// Assignments maps every input point to its beam index.
	Assignments []int
	// KeptBeams are the retained beam indices, ascending.
	KeptBeams []int
	// BeamSizes counts the input points assigned to each beam.
	BeamSizes []int
	// Warnings carries ErrDegenerateInput for single-angle input.
	Warnings []error
}

// ReduceProper infers the sensor's rings from the vertical-angle histogram
// and keeps whole rings:
//
//  1. histogram the vertical angles over the observed range;
//  2. find one peak per ring (FindPeaks);
//  3. assign every point to the nearest ring centre (AssignNearest);
//  4. keep round(B*ReductionFactor) rings, every other ring from the
//     lowest for the default factor (SelectBeams);
//  5. return the points of the kept rings in input order.
//
// Fewer than two detected rings fail with InsufficientBeamsError. A cloud
// whose whole spread is within DegenerateSpreadDeg is returned unchanged
// with an ErrDegenerateInput warning.
func ReduceProper(points []Point, p Params) (*ProperResult, error) {
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	angles := verticalAngles(points)

	det, err := DetectBeams(angles, p)
	if err != nil {
		return nil, err
	}

	if det.Degenerate {
		monitoring.Opsf("proper: %v (spread <= %.3f°); returning %d points unchanged",
			ErrDegenerateInput, p.DegenerateSpreadDeg, len(points))
		assign := make([]int, len(points))
		return &ProperResult{
			Points:      clonePoints(points),
			Detection:   det,
			Assignments: assign,
			KeptBeams:   []int{0},
			BeamSizes:   []int{len(points)},
			Warnings:    []error{ErrDegenerateInput},
		}, nil
	}

	if det.Beams() < 2 {
		return nil, &InsufficientBeamsError{Detected: det.Beams()}
	}

	assign := AssignNearest(angles, det.Centers)
	kept := SelectBeams(det.Beams(), p.ReductionFactor)
	keep := make([]bool, det.Beams())
	for _, k := range kept {
		keep[k] = true
	}

	out := make([]Point, 0, len(points)*len(kept)/det.Beams()+1)
	for i, pt := range points {
		if keep[assign[i]] {
			out = append(out, pt)
		}
	}

	sizes := BeamSizes(assign, det.Beams())
	if monitoring.TraceEnabled() {
		for b, n := range sizes {
			monitoring.Tracef("proper: beam %d angle=%.4f° points=%d kept=%v", b, units.Deg(det.Centers[b]), n, keep[b])
		}
	}

	monitoring.Diagf("proper: bins=%d beams=%d kept=%d fallback=%v range=[%.2f°, %.2f°] points %d -> %d",
		det.Histogram.Bins(), det.Beams(), len(kept), det.Fallback,
		units.Deg(det.Histogram.Min), units.Deg(det.Histogram.Max), len(points), len(out))

	return &ProperResult{
		Points:      out,
		Detection:   det,
		Assignments: assign,
		KeptBeams:   kept,
		BeamSizes:   sizes,
	}, nil
}
