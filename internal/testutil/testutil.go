// Package testutil provides shared test utilities and synthetic scans.
//
// Generators return 4-wide rows (x, y, z, intensity) so any package can
// build fixtures without importing the reduction core.
package testutil

import (
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// EvenElevations returns n elevations in degrees from lo, spaced (hi-lo)/n
// apart, matching a sensor whose rings are evenly distributed.
func EvenElevations(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*(hi-lo)/float64(n)
	}
	return out
}

// HDL64Elevations returns the ring layout of a 64-beam sensor with two
// blocks, ascending in degrees: 32 lower rings at 0.5° pitch from -24.33°
// to -8.83°, then 32 upper rings at 1/3° pitch from -8.33° to +2°.
func HDL64Elevations() []float64 {
	out := make([]float64, 0, 64)
	for i := 0; i < 32; i++ {
		out = append(out, -24.33+float64(i)*0.5)
	}
	for i := 0; i < 32; i++ {
		out = append(out, 2-float64(31-i)/3)
	}
	return out
}

// RingCloud builds a synthetic spinning-LiDAR scan: pointsPerRing returns
// per elevation, sweeping a full revolution in azimuth with range growing
// from 10 m in 0.5 m steps. Every return of a ring shares the exact
// elevation. Rows are grouped ring by ring, lowest first.
func RingCloud(elevationsDeg []float64, pointsPerRing int) [][]float64 {
	rows := make([][]float64, 0, len(elevationsDeg)*pointsPerRing)
	for _, elev := range elevationsDeg {
		e := elev * math.Pi / 180
		for i := 0; i < pointsPerRing; i++ {
			dist := 10 + float64(i)*0.5
			az := float64(i) * 2 * math.Pi / float64(pointsPerRing)
			rows = append(rows, []float64{
				dist * math.Cos(e) * math.Cos(az),
				dist * math.Cos(e) * math.Sin(az),
				dist * math.Sin(e),
				100,
			})
		}
	}
	return rows
}

// ClusterCloud is RingCloud with each ring's elevation spread evenly over
// ±jitterDeg around its centre, so a ring covers a small angular band.
func ClusterCloud(centersDeg []float64, perCluster int, jitterDeg float64) [][]float64 {
	rows := make([][]float64, 0, len(centersDeg)*perCluster)
	for _, c := range centersDeg {
		for i := 0; i < perCluster; i++ {
			offset := 0.0
			if perCluster > 1 {
				offset = -jitterDeg + 2*jitterDeg*float64(i)/float64(perCluster-1)
			}
			e := (c + offset) * math.Pi / 180
			dist := 10 + float64(i%50)*0.5
			az := float64(i) * 2 * math.Pi / float64(perCluster)
			rows = append(rows, []float64{
				dist * math.Cos(e) * math.Cos(az),
				dist * math.Cos(e) * math.Sin(az),
				dist * math.Sin(e),
				float64(i % 256),
			})
		}
	}
	return rows
}

// ElevationDeg returns the elevation of a generated row in degrees.
func ElevationDeg(row []float64) float64 {
	return math.Atan2(row[2], math.Hypot(row[0], row[1])) * 180 / math.Pi
}
