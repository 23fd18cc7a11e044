package beams

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	pts := ringPoints(t, []float64{-15, -5, 5, 15}, 100)
	before := clonePoints(pts)

	cmpRes, err := Compare(pts, DefaultParams())
	require.NoError(t, err)

	if diff := cmp.Diff(before, pts); diff != "" {
		t.Fatalf("Compare mutated its input (-want +got):\n%s", diff)
	}

	assert.Equal(t, 4, cmpRes.BeamsBefore)
	assert.Equal(t, Methods(), cmpRes.Methods)
	require.Len(t, cmpRes.Entries, 3)

	simple := cmpRes.Entries[MethodSimple].Metrics
	assert.Equal(t, 400, simple.PointsBefore)
	assert.Equal(t, 200, simple.PointsAfter)
	assert.Equal(t, 4, simple.BeamsAfter)
	assert.InDelta(t, 1.0, simple.BeamRatio(), 1e-12)

	proper := cmpRes.Entries[MethodProper].Metrics
	assert.Equal(t, 200, proper.PointsAfter)
	assert.Equal(t, 2, proper.BeamsAfter)
	assert.InDelta(t, 0.5, proper.PointRatio(), 1e-12)
	assert.InDelta(t, 0.5, proper.BeamRatio(), 1e-12)

	// One ring per bin: advanced halves points but keeps every ring.
	advanced := cmpRes.Entries[MethodAdvanced].Metrics
	assert.Equal(t, 200, advanced.PointsAfter)
	assert.Equal(t, 4, advanced.BeamsAfter)
}

func TestCompareAbortsOnError(t *testing.T) {
	t.Parallel()

	_, err := Compare([]Point{{X: 1}}, DefaultParams())
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Proper fails here while simple would succeed; no partial result.
	pts := ringPoints(t, []float64{0}, 300)
	pts = append(pts, ringPoints(t, []float64{1}, 1)...)
	res, err := Compare(pts, DefaultParams())
	assert.ErrorIs(t, err, ErrInsufficientBeams)
	assert.Nil(t, res)
}

func TestMeasure(t *testing.T) {
	t.Parallel()

	pts := ringPoints(t, []float64{-3, 0, 3, 6}, 25)
	res, err := Reduce(pts, MethodProper, DefaultParams())
	require.NoError(t, err)

	m := Measure(pts, res, DefaultParams(), -1, 5*time.Millisecond)
	assert.Equal(t, 4, m.BeamsBefore)
	assert.Equal(t, 2, m.BeamsAfter)
	assert.Equal(t, 100, m.PointsBefore)
	assert.Equal(t, 50, m.PointsAfter)
	assert.Equal(t, 5*time.Millisecond, m.Elapsed)

	assert.Zero(t, Metrics{}.PointRatio())
	assert.Zero(t, Metrics{}.BeamRatio())
}
