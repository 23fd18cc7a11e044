package beams

import (
	"math/rand"
	"testing"

	"github.com/banshee-data/beam.reduce/internal/monitoring"
	"github.com/banshee-data/beam.reduce/internal/testutil"
	"github.com/stretchr/testify/require"
)

func init() {
	monitoring.Mute()
}

// ringPoints builds a ring cloud with perRing returns at each elevation.
func ringPoints(t *testing.T, elevationsDeg []float64, perRing int) []Point {
	t.Helper()
	pts, err := FromRows(testutil.RingCloud(elevationsDeg, perRing))
	require.NoError(t, err)
	return pts
}

func clusterPoints(t *testing.T, centersDeg []float64, perCluster int, jitterDeg float64) []Point {
	t.Helper()
	pts, err := FromRows(testutil.ClusterCloud(centersDeg, perCluster, jitterDeg))
	require.NoError(t, err)
	return pts
}

func shuffled(points []Point, seed int64) []Point {
	out := clonePoints(points)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// ringOf returns the index of the elevation nearest to p.
func ringOf(p Point, elevationsDeg []float64) int {
	e := VerticalAngle(p) * 180 / 3.141592653589793
	best, bestDiff := 0, 1e18
	for i, el := range elevationsDeg {
		d := e - el
		if d < 0 {
			d = -d
		}
		if d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

// isSubsequence reports whether sub appears in seq in the same order.
func isSubsequence(sub, seq []Point) bool {
	j := 0
	for i := 0; i < len(seq) && j < len(sub); i++ {
		if seq[i] == sub[j] {
			j++
		}
	}
	return j == len(sub)
}
