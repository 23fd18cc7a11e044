package beams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindPeaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		counts []float64
		params PeakParams
		want   []int
	}{
		{
			name:   "empty",
			counts: nil,
			want:   nil,
		},
		{
			name:   "all zero",
			counts: []float64{0, 0, 0},
			want:   nil,
		},
		{
			name:   "single interior peaks",
			counts: []float64{0, 3, 0, 5, 1, 0},
			want:   []int{1, 3},
		},
		{
			name:   "odd plateau reports middle",
			counts: []float64{0, 1, 3, 3, 3, 1, 0},
			want:   []int{3},
		},
		{
			name:   "even plateau reports lower middle",
			counts: []float64{0, 5, 5, 0},
			want:   []int{1},
		},
		{
			name:   "edges count as peaks",
			counts: []float64{5, 1, 0, 1, 4},
			want:   []int{0, 4},
		},
		{
			name:   "shoulder is not a peak",
			counts: []float64{0, 2, 4, 4, 6, 0},
			want:   []int{4},
		},
		{
			name:   "height threshold is inclusive",
			counts: []float64{0, 10, 0, 1, 0, 0.5, 0},
			params: PeakParams{MinHeightFraction: 0.1},
			want:   []int{1, 3},
		},
		{
			name:   "separation keeps taller",
			counts: []float64{0, 5, 0, 4, 0, 0, 0, 3, 0},
			params: PeakParams{MinSeparationBins: 3},
			want:   []int{1, 7},
		},
		{
			name:   "separation tie keeps lower index",
			counts: []float64{0, 4, 0, 4, 0},
			params: PeakParams{MinSeparationBins: 3},
			want:   []int{1},
		},
		{
			name:   "separation of one disables thinning",
			counts: []float64{4, 0, 4},
			params: PeakParams{MinSeparationBins: 1},
			want:   []int{0, 2},
		},
		{
			name:   "prominence rejects ripple",
			counts: []float64{0, 10, 8, 9, 0},
			params: PeakParams{MinProminenceFraction: 0.2},
			want:   []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindPeaks(tt.counts, tt.params))
		})
	}
}

func TestProminence(t *testing.T) {
	t.Parallel()

	counts := []float64{0, 10, 8, 9, 0}
	assert.Equal(t, 10.0, Prominence(counts, 1))
	assert.Equal(t, 1.0, Prominence(counts, 3))

	// Isolated bins stand on the zero edge.
	assert.Equal(t, 4.0, Prominence([]float64{4}, 0))
}
