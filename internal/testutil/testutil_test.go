package testutil

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

// recordingTB captures fatal calls instead of stopping the test.
type recordingTB struct {
	testing.TB
	fatals []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Fatal(args ...interface{}) {
	r.fatals = append(r.fatals, fmt.Sprint(args...))
}

func (r *recordingTB) Fatalf(format string, args ...interface{}) {
	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
}

func TestAssertNoError_FailurePath(t *testing.T) {
	t.Parallel()

	rec := &recordingTB{TB: t}
	AssertNoError(rec, errors.New("boom"))
	if len(rec.fatals) != 1 || rec.fatals[0] != "unexpected error: boom" {
		t.Fatalf("fatals = %q, want one unexpected error", rec.fatals)
	}
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, errors.New("test error"))
}

func TestAssertError_FailurePath(t *testing.T) {
	t.Parallel()

	rec := &recordingTB{TB: t}
	AssertError(rec, nil)
	if len(rec.fatals) != 1 || rec.fatals[0] != "expected error, got nil" {
		t.Fatalf("fatals = %q, want one missing error", rec.fatals)
	}
}

func TestEvenElevations(t *testing.T) {
	got := EvenElevations(-15, 15, 64)
	if len(got) != 64 {
		t.Fatalf("len = %d, want 64", len(got))
	}
	if got[0] != -15 {
		t.Errorf("first = %f, want -15", got[0])
	}
	step := 30.0 / 64
	if math.Abs(got[1]-got[0]-step) > 1e-12 {
		t.Errorf("step = %f, want %f", got[1]-got[0], step)
	}
}

func TestHDL64Elevations(t *testing.T) {
	got := HDL64Elevations()
	if len(got) != 64 {
		t.Fatalf("len = %d, want 64", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("elevations not ascending at %d: %f <= %f", i, got[i], got[i-1])
		}
	}
	if math.Abs(got[0]+24.33) > 1e-9 || math.Abs(got[63]-2) > 1e-9 {
		t.Errorf("range = [%f, %f], want [-24.33, 2]", got[0], got[63])
	}
	if math.Abs(got[1]-got[0]-0.5) > 1e-9 || math.Abs(got[63]-got[62]-1.0/3) > 1e-9 {
		t.Errorf("pitches = %f, %f, want 0.5 and 1/3", got[1]-got[0], got[63]-got[62])
	}
}

func TestRingCloudElevations(t *testing.T) {
	elevs := []float64{-10, 0, 7.5}
	rows := RingCloud(elevs, 20)
	if len(rows) != 60 {
		t.Fatalf("len = %d, want 60", len(rows))
	}
	for i, row := range rows {
		want := elevs[i/20]
		if got := ElevationDeg(row); math.Abs(got-want) > 1e-9 {
			t.Fatalf("row %d elevation = %f, want %f", i, got, want)
		}
		if len(row) != 4 {
			t.Fatalf("row %d width = %d", i, len(row))
		}
	}
}

func TestClusterCloudJitter(t *testing.T) {
	rows := ClusterCloud([]float64{5}, 11, 0.01)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		e := ElevationDeg(row)
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}
	if math.Abs(lo-4.99) > 1e-9 || math.Abs(hi-5.01) > 1e-9 {
		t.Errorf("elevation band = [%f, %f], want [4.99, 5.01]", lo, hi)
	}
}
