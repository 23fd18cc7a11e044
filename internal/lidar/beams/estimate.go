package beams

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// defaultEstimateBins is the beam count assumed when Params.NumBins is 0.
const defaultEstimateBins = 64

// BeamEstimate holds the individual beam-count estimates and their median.
type BeamEstimate struct {
	NonEmptyBins int // occupied bins of a 2×bins histogram
	AngleJumps   int // sorted-angle gaps above the 99th percentile gap
	Peaks        int // CountBeams
	Median       int
}

// EstimateBeams combines three coarse beam-count estimates and reports
// their median. It is a cross-check for CountBeams on real scans where the
// peak detector may over- or under-split rings.
func EstimateBeams(points []Point, p Params) BeamEstimate {
	if len(points) < 2 {
		n := len(points)
		return BeamEstimate{NonEmptyBins: n, Peaks: n, Median: n}
	}
	angles := verticalAngles(points)

	bins := p.NumBins
	if bins <= 0 {
		bins = defaultEstimateBins
	}
	var est BeamEstimate
	if hist, err := NewHistogram(angles, 2*bins); err == nil {
		est.NonEmptyBins = hist.NonEmpty()
	}

	sorted := make([]float64, len(angles))
	copy(sorted, angles)
	sort.Float64s(sorted)
	gaps := make([]float64, len(sorted)-1)
	for i := range gaps {
		gaps[i] = sorted[i+1] - sorted[i]
	}
	sortedGaps := make([]float64, len(gaps))
	copy(sortedGaps, gaps)
	sort.Float64s(sortedGaps)
	threshold := stat.Quantile(0.99, stat.Empirical, sortedGaps, nil)
	for _, g := range gaps {
		if g > threshold {
			est.AngleJumps++
		}
	}

	est.Peaks = CountBeams(points, p)

	votes := []int{est.NonEmptyBins, est.AngleJumps, est.Peaks}
	sort.Ints(votes)
	est.Median = votes[1]
	return est
}
