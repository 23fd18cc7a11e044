package beams

import "sort"

// AssignNearest maps every angle to the index of the nearest centre, a 1-D
// nearest-centroid clustering. centers must be sorted ascending and
// non-empty. An angle exactly midway between two centres goes to the lower
// one.
func AssignNearest(angles, centers []float64) []int {
	out := make([]int, len(angles))
	if len(centers) == 0 {
		return out
	}
	last := len(centers) - 1
	for i, a := range angles {
		j := sort.SearchFloat64s(centers, a) // first centre >= a
		switch {
		case j == 0:
			out[i] = 0
		case j > last:
			out[i] = last
		case centers[j]-a < a-centers[j-1]:
			out[i] = j
		default:
			out[i] = j - 1
		}
	}
	return out
}

// BeamSizes counts how many assignments fall in each of n beams.
func BeamSizes(assignments []int, n int) []int {
	sizes := make([]int, n)
	for _, b := range assignments {
		if b >= 0 && b < n {
			sizes[b]++
		}
	}
	return sizes
}
