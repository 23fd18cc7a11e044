package beams

import "math"

// KeepCount returns how many of n items survive at the given factor:
// round(n*factor), at least 1 and at most n.
func KeepCount(n int, factor float64) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Round(float64(n) * factor))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// unitStride returns s when factor is 1/s for an integer s >= 1.
func unitStride(factor float64) (int, bool) {
	if factor <= 0 {
		return 0, false
	}
	inv := 1 / factor
	s := math.Round(inv)
	if s < 1 || math.Abs(inv-s) > 1e-9 {
		return 0, false
	}
	return int(s), true
}

// SelectBeams returns the ascending indices of the beams kept out of n at
// the given factor; exactly KeepCount(n, factor) indices.
//
// When factor is 1/s the selection is every s-th beam starting at beam 0,
// so for 0.5 an odd beam count keeps the extra beam (0, 2, ..., n-1).
// Other factors spread the kept beams evenly across the range.
func SelectBeams(n int, factor float64) []int {
	keep := KeepCount(n, factor)
	if keep == 0 {
		return nil
	}
	if s, ok := unitStride(factor); ok {
		idx := StrideIndices(n, s)
		if len(idx) >= keep {
			return idx[:keep]
		}
	}
	idx := make([]int, keep)
	for i := range idx {
		idx[i] = i * n / keep
	}
	return idx
}

// StrideIndices returns 0, s, 2s, ... below n.
func StrideIndices(n, s int) []int {
	if n <= 0 {
		return nil
	}
	if s < 1 {
		s = 1
	}
	idx := make([]int, 0, (n+s-1)/s)
	for i := 0; i < n; i += s {
		idx = append(idx, i)
	}
	return idx
}
