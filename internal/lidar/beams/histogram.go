package beams

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is an equal-width histogram of vertical angles over the
// observed range [Min, Max].
type Histogram struct {
	Min, Max float64   // radians
	Width    float64   // bin width in radians
	Counts   []float64 // points per bin
}

// NewHistogram bins angles into the given number of equal-width bins
// spanning the observed range. The maximum angle falls in the last bin.
func NewHistogram(angles []float64, bins int) (*Histogram, error) {
	if bins < 1 {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("histogram needs at least 1 bin, got %d", bins)}
	}
	if len(angles) == 0 {
		return nil, &InvalidInputError{Reason: "histogram needs at least 1 angle"}
	}

	sorted := make([]float64, len(angles))
	copy(sorted, angles)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi <= lo {
		// Single-angle input still gets a well-formed range.
		lo, hi = lo-1e-9, hi+1e-9
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram requires every value strictly below the last divider.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	return &Histogram{
		Min:    lo,
		Max:    hi,
		Width:  (hi - lo) / float64(bins),
		Counts: counts,
	}, nil
}

// Bins returns the number of bins.
func (h *Histogram) Bins() int { return len(h.Counts) }

// Center returns the angle at the centre of bin i.
func (h *Histogram) Center(i int) float64 {
	return h.Min + (float64(i)+0.5)*h.Width
}

// Bin returns the bin holding angle, clamped to the histogram range.
func (h *Histogram) Bin(angle float64) int {
	if h.Width <= 0 {
		return 0
	}
	i := int((angle - h.Min) / h.Width)
	if i < 0 {
		return 0
	}
	if i >= len(h.Counts) {
		return len(h.Counts) - 1
	}
	return i
}

// NonEmpty returns the number of bins with at least one point.
func (h *Histogram) NonEmpty() int {
	n := 0
	for _, c := range h.Counts {
		if c > 0 {
			n++
		}
	}
	return n
}
