package beams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistogram(t *testing.T) {
	t.Parallel()

	h, err := NewHistogram([]float64{3, 0, 1, 2, 2.5}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, h.Bins())
	assert.Equal(t, []float64{1, 1, 3}, h.Counts)
	assert.InDelta(t, 1.0, h.Width, 1e-12)
	assert.InDelta(t, 0.5, h.Center(0), 1e-12)
	assert.InDelta(t, 2.5, h.Center(2), 1e-12)

	// The maximum lands in the last bin, values outside clamp.
	assert.Equal(t, 2, h.Bin(3))
	assert.Equal(t, 0, h.Bin(-10))
	assert.Equal(t, 2, h.Bin(10))
	assert.Equal(t, 3, h.NonEmpty())
}

func TestNewHistogramSingleAngle(t *testing.T) {
	t.Parallel()

	h, err := NewHistogram([]float64{0.1, 0.1, 0.1}, 10)
	require.NoError(t, err)
	total := 0.0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 3.0, total)
	assert.Equal(t, 1, h.NonEmpty())
}

func TestNewHistogramErrors(t *testing.T) {
	t.Parallel()

	_, err := NewHistogram([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewHistogram(nil, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewHistogramDoesNotSortInput(t *testing.T) {
	t.Parallel()

	angles := []float64{3, 1, 2}
	_, err := NewHistogram(angles, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, angles)
}
