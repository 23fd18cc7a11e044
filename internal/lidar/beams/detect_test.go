package beams

import (
	"errors"
	"testing"

	"github.com/banshee-data/beam.reduce/internal/testutil"
	"github.com/banshee-data/beam.reduce/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectBeamsFourRings(t *testing.T) {
	t.Parallel()

	elevs := []float64{-15, -5, 5, 15}
	pts := ringPoints(t, elevs, 100)
	det, err := DetectBeams(verticalAngles(pts), DefaultParams())
	require.NoError(t, err)

	require.Equal(t, 4, det.Beams())
	assert.False(t, det.Degenerate)
	assert.False(t, det.Fallback)
	for i, c := range det.Centers {
		// A centre is within one bin of its ring.
		assert.InDelta(t, units.Rad(elevs[i]), c, det.Histogram.Width, "beam %d", i)
	}
}

func TestDetectBeamsKRings(t *testing.T) {
	t.Parallel()

	for k := 2; k <= 12; k++ {
		elevs := make([]float64, k)
		for i := range elevs {
			elevs[i] = -12 + float64(i)*2.3
		}
		pts := ringPoints(t, elevs, 60)
		assert.Equal(t, k, CountBeams(pts, DefaultParams()), "k=%d", k)
	}
}

func TestDetectBeamsSixtyFourRings(t *testing.T) {
	t.Parallel()

	pts := ringPoints(t, testutil.EvenElevations(-15, 15, 64), 100)
	assert.Equal(t, 64, CountBeams(pts, DefaultParams()))
}

func TestDetectBeamsFallbackPass(t *testing.T) {
	t.Parallel()

	// One dense ring and five sparse ones below the first-pass threshold.
	var angles []float64
	for i := 0; i < 1000; i++ {
		angles = append(angles, units.Rad(0))
	}
	for _, e := range []float64{-8, -6, -4, 4, 6} {
		for i := 0; i < 7; i++ {
			angles = append(angles, units.Rad(e))
		}
	}

	det, err := DetectBeams(angles, DefaultParams())
	require.NoError(t, err)
	assert.True(t, det.Fallback)
	assert.Equal(t, 6, det.Beams())

	p := DefaultParams()
	p.FallbackHeightFraction = 0
	det, err = DetectBeams(angles, p)
	require.NoError(t, err)
	assert.False(t, det.Fallback)
	assert.Equal(t, 1, det.Beams())
}

func TestDetectBeamsDegenerate(t *testing.T) {
	t.Parallel()

	pts := clusterPoints(t, []float64{5}, 50, 0.004)
	det, err := DetectBeams(verticalAngles(pts), DefaultParams())
	require.NoError(t, err)
	assert.True(t, det.Degenerate)
	require.Equal(t, 1, det.Beams())
	assert.InDelta(t, units.Rad(5), det.Centers[0], 1e-6)
}

func TestCountBeamsPermutationInvariant(t *testing.T) {
	t.Parallel()

	pts := clusterPoints(t, []float64{-9, -3, 2, 8, 11}, 80, 0.02)
	want := CountBeams(pts, DefaultParams())
	assert.Equal(t, 5, want)
	for seed := int64(1); seed <= 5; seed++ {
		assert.Equal(t, want, CountBeams(shuffled(pts, seed), DefaultParams()), "seed %d", seed)
	}
}

func TestCountBeamsSmallInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, CountBeams(nil, DefaultParams()))
	assert.Equal(t, 1, CountBeams([]Point{{X: 1}}, DefaultParams()))
}

func TestDetectBeamsNoAngles(t *testing.T) {
	t.Parallel()

	_, err := DetectBeams(nil, DefaultParams())
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestEstimateBeams(t *testing.T) {
	t.Parallel()

	pts := ringPoints(t, []float64{-15, -5, 5, 15}, 100)
	est := EstimateBeams(pts, DefaultParams())
	assert.Equal(t, 4, est.Peaks)
	assert.Equal(t, 4, est.NonEmptyBins)
	assert.Equal(t, 3, est.AngleJumps)
	assert.Equal(t, 4, est.Median)

	small := EstimateBeams([]Point{{X: 1}}, DefaultParams())
	assert.Equal(t, 1, small.Median)
}
