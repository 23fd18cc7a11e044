package beams

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// PeakParams controls 1-D peak detection over histogram counts.
type PeakParams struct {
	// MinHeightFraction rejects peaks lower than this fraction of the
	// tallest bin.
	MinHeightFraction float64
	// MinProminenceFraction rejects peaks whose prominence is below this
	// fraction of the tallest bin. 0 disables the check.
	MinProminenceFraction float64
	// MinSeparationBins merges peaks closer than this many bins, keeping
	// the taller one. Values <= 1 disable merging.
	MinSeparationBins int
}

// FindPeaks returns the indices of local maxima in counts, ascending.
//
// A bin (or a flat run of equal bins) is a peak when it is strictly higher
// than both neighbours; positions outside the slice count as zero so beams
// sitting on the first or last bin are found. A flat run reports its middle
// bin. Peaks then pass the height and prominence thresholds and are thinned
// to MinSeparationBins, tallest first, lower index winning ties.
func FindPeaks(counts []float64, p PeakParams) []int {
	n := len(counts)
	if n == 0 {
		return nil
	}
	maxCount := floats.Max(counts)
	if maxCount <= 0 {
		return nil
	}

	at := func(i int) float64 {
		if i < 0 || i >= n {
			return 0
		}
		return counts[i]
	}

	var candidates []int
	for i := 0; i < n; {
		if counts[i] <= 0 {
			i++
			continue
		}
		j := i
		for j+1 < n && counts[j+1] == counts[i] {
			j++
		}
		if counts[i] > at(i-1) && counts[i] > at(j+1) {
			candidates = append(candidates, (i+j)/2)
		}
		i = j + 1
	}

	minHeight := p.MinHeightFraction * maxCount
	minProminence := p.MinProminenceFraction * maxCount
	peaks := candidates[:0]
	for _, c := range candidates {
		if counts[c] < minHeight {
			continue
		}
		if minProminence > 0 && Prominence(counts, c) < minProminence {
			continue
		}
		peaks = append(peaks, c)
	}

	return thinPeaks(counts, peaks, p.MinSeparationBins)
}

// Prominence returns how far peak stands above the higher of the two
// minima separating it from taller bins on each side (or the zero edge).
func Prominence(counts []float64, peak int) float64 {
	h := counts[peak]

	leftMin := h
	for i := peak - 1; i >= -1; i-- {
		if i < 0 {
			leftMin = 0
			break
		}
		if counts[i] > h {
			break
		}
		if counts[i] < leftMin {
			leftMin = counts[i]
		}
	}

	rightMin := h
	for i := peak + 1; i <= len(counts); i++ {
		if i == len(counts) {
			rightMin = 0
			break
		}
		if counts[i] > h {
			break
		}
		if counts[i] < rightMin {
			rightMin = counts[i]
		}
	}

	if leftMin > rightMin {
		return h - leftMin
	}
	return h - rightMin
}

// thinPeaks enforces a minimum index distance between peaks. Taller peaks
// claim their neighbourhood first.
func thinPeaks(counts []float64, peaks []int, distance int) []int {
	out := append([]int(nil), peaks...)
	if distance <= 1 || len(out) < 2 {
		return out
	}

	byHeight := append([]int(nil), out...)
	sort.SliceStable(byHeight, func(a, b int) bool {
		return counts[byHeight[a]] > counts[byHeight[b]]
	})

	removed := make(map[int]bool, len(out))
	for _, p := range byHeight {
		if removed[p] {
			continue
		}
		for _, q := range out {
			if q != p && !removed[q] && abs(q-p) < distance {
				removed[q] = true
			}
		}
	}

	kept := out[:0]
	for _, p := range out {
		if !removed[p] {
			kept = append(kept, p)
		}
	}
	return kept
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
