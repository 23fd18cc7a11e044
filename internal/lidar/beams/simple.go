package beams

import (
	"math"
	"sort"

	"github.com/banshee-data/beam.reduce/internal/monitoring"
)

// ReduceSimple sorts points ascending by z and keeps every s-th point of the
// sorted order, where s = round(1/ReductionFactor) (2 by default). Ties in z
// keep their input order. The result has ceil(N/s) points in z order.
//
// This halves the point count but not the beam count: every ring keeps
// roughly half its points.
func ReduceSimple(points []Point, p Params) ([]Point, error) {
	if len(points) == 0 {
		return nil, &InvalidInputError{Reason: "need at least 1 point"}
	}
	stride := simpleStride(p.ReductionFactor)

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return points[order[a]].Z < points[order[b]].Z
	})

	kept := StrideIndices(len(order), stride)
	out := make([]Point, len(kept))
	for i, k := range kept {
		out[i] = points[order[k]]
	}
	monitoring.Diagf("simple: stride=%d points %d -> %d", stride, len(points), len(out))
	return out, nil
}

func simpleStride(factor float64) int {
	if factor <= 0 || math.IsNaN(factor) {
		return 2
	}
	s := int(math.Round(1 / factor))
	if s < 1 {
		s = 1
	}
	return s
}
