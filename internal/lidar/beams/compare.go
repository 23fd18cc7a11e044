package beams

import (
	"time"
)

// Metrics summarises one reduction.
type Metrics struct {
	PointsBefore int           `json:"points_before"`
	PointsAfter  int           `json:"points_after"`
	BeamsBefore  int           `json:"beams_before"`
	BeamsAfter   int           `json:"beams_after"`
	Elapsed      time.Duration `json:"elapsed_ns"`
}

// PointRatio returns PointsAfter / PointsBefore.
func (m Metrics) PointRatio() float64 {
	if m.PointsBefore == 0 {
		return 0
	}
	return float64(m.PointsAfter) / float64(m.PointsBefore)
}

// BeamRatio returns BeamsAfter / BeamsBefore.
func (m Metrics) BeamRatio() float64 {
	if m.BeamsBefore == 0 {
		return 0
	}
	return float64(m.BeamsAfter) / float64(m.BeamsBefore)
}

// Measure computes metrics for a finished reduction. beamsBefore < 0 means
// count the input's beams here.
func Measure(input []Point, res *Result, p Params, beamsBefore int, elapsed time.Duration) Metrics {
	if beamsBefore < 0 {
		beamsBefore = CountBeams(input, p)
	}
	return Metrics{
		PointsBefore: len(input),
		PointsAfter:  len(res.Points),
		BeamsBefore:  beamsBefore,
		BeamsAfter:   CountBeams(res.Points, p),
		Elapsed:      elapsed,
	}
}

// MethodComparison is one method's entry in a Comparison.
type MethodComparison struct {
	Result  *Result
	Metrics Metrics
}

// Comparison holds the outputs of every method run on the same input.
type Comparison struct {
	BeamsBefore int
	Methods     []Method
	Entries     map[Method]MethodComparison
}

// Compare runs every method on points with the same parameters. The input
// is not modified. The first method error aborts the comparison.
func Compare(points []Point, p Params) (*Comparison, error) {
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	cmp := &Comparison{
		BeamsBefore: CountBeams(points, p),
		Methods:     Methods(),
		Entries:     make(map[Method]MethodComparison, len(methodOrder)),
	}
	for _, m := range cmp.Methods {
		start := time.Now()
		res, err := Reduce(points, m, p)
		if err != nil {
			return nil, err
		}
		cmp.Entries[m] = MethodComparison{
			Result:  res,
			Metrics: Measure(points, res, p, cmp.BeamsBefore, time.Since(start)),
		}
	}
	return cmp, nil
}
