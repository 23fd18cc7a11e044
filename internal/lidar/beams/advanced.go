package beams

import (
	"math"
	"sort"

	"github.com/banshee-data/beam.reduce/internal/monitoring"
	"github.com/banshee-data/beam.reduce/internal/units"
)

// Bounds for the derived advanced-method bin count.
const (
	minDerivedBins = 8
	maxDerivedBins = 128
)

// DeriveNumBins returns the advanced method's bin count for an angle spread
// (radians): round(spread / pitch) clamped to [8, 128].
func DeriveNumBins(spreadRad, pitchDeg float64) int {
	if pitchDeg <= 0 {
		return minDerivedBins
	}
	n := int(math.Round(units.Deg(spreadRad) / pitchDeg))
	if n < minDerivedBins {
		return minDerivedBins
	}
	if n > maxDerivedBins {
		return maxDerivedBins
	}
	return n
}

// ReduceAdvanced partitions the observed vertical-angle range into NumBins
// equal-width bins and thins every bin on its own: a bin of n points keeps
// its ceil(n*ReductionFactor) lowest points in angle order. Points keep
// their input order.
//
// A bin holding one ring keeps part of that ring, so the ring survives; a
// bin straddling two rings keeps mostly the lower one. The point count
// follows ReductionFactor while far fewer rings disappear than with the
// proper method.
func ReduceAdvanced(points []Point, p Params) ([]Point, error) {
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	angles := verticalAngles(points)
	lo, hi := AngleRange(angles)

	bins := p.NumBins
	if bins <= 0 {
		bins = DeriveNumBins(hi-lo, p.NominalBeamPitchDeg)
	}

	width := (hi - lo) / float64(bins)
	members := make([][]int, bins)
	for i, a := range angles {
		b := 0
		if width > 0 {
			b = int((a - lo) / width)
			if b >= bins {
				b = bins - 1
			}
		}
		members[b] = append(members[b], i)
	}

	keep := make([]bool, len(points))
	occupied := 0
	for _, idx := range members {
		if len(idx) == 0 {
			continue
		}
		occupied++
		sort.SliceStable(idx, func(a, b int) bool { return angles[idx[a]] < angles[idx[b]] })
		for _, i := range idx[:binKeepCount(len(idx), p.ReductionFactor)] {
			keep[i] = true
		}
	}

	out := make([]Point, 0, int(float64(len(points))*p.ReductionFactor)+occupied)
	for i, pt := range points {
		if keep[i] {
			out = append(out, pt)
		}
	}
	monitoring.Diagf("advanced: bins=%d occupied=%d points %d -> %d", bins, occupied, len(points), len(out))
	return out, nil
}

// binKeepCount returns ceil(n*factor) clamped to [1, n].
func binKeepCount(n int, factor float64) int {
	k := int(math.Ceil(float64(n)*factor - 1e-9))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}
