package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
	"github.com/banshee-data/beam.reduce/internal/lidar/pointio"
	"github.com/banshee-data/beam.reduce/internal/lidar/storage/sqlite"
	"github.com/banshee-data/beam.reduce/internal/testutil"
)

func writeScan(t *testing.T, path string) {
	t.Helper()
	pts, err := beams.FromRows(testutil.RingCloud([]float64{-15, -5, 5, 15}, 50))
	require.NoError(t, err)
	require.NoError(t, pointio.Save(path, pts))
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseFlagsRequiresPaths(t *testing.T) {
	_, err := parseFlags([]string{"-input", "a.bin"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-input", "a.bin", "-output", "b.bin", "-angle-units", "grad"}, &bytes.Buffer{})
	assert.Error(t, err)

	cfg, err := parseFlags([]string{"-version"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, cfg.Version)
}

func TestReductionConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("method: advanced\nreduction_factor: 0.25\nnum_bins: 12\n"), 0o644))

	cfg, err := parseFlags([]string{"-input", "a", "-output", "b", "-config", path, "-target-ratio", "0.5"}, &bytes.Buffer{})
	require.NoError(t, err)
	rc, err := cfg.reductionConfig()
	require.NoError(t, err)
	assert.Equal(t, "advanced", rc.GetMethod())
	assert.Equal(t, 0.5, rc.GetReductionFactor())
	assert.Equal(t, 12, rc.GetNumBins())
	assert.Equal(t, "advanced", cfg.methodName(rc))

	cfg, err = parseFlags([]string{"-input", "a", "-output", "b", "-config", path, "-method", "simple"}, &bytes.Buffer{})
	require.NoError(t, err)
	rc, err = cfg.reductionConfig()
	require.NoError(t, err)
	assert.Equal(t, "simple", cfg.methodName(rc))

	// Unset flags leave the defaults alone.
	cfg, err = parseFlags([]string{"-input", "a", "-output", "b"}, &bytes.Buffer{})
	require.NoError(t, err)
	rc, err = cfg.reductionConfig()
	require.NoError(t, err)
	assert.Nil(t, rc.Method)
	assert.Equal(t, "proper", rc.GetMethod())
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "beamreduce "))
}

func TestRunSingleFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scan.bin")
	writeScan(t, in)
	out := filepath.Join(dir, "out", "scan.bin")
	db := filepath.Join(dir, "runs.db")

	code, stdout, stderr := runCLI(t, "-input", in, "-output", out, "-db", db)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Original beams: ~4, Reduced beams: ~2")
	assert.Contains(t, stdout, "Run: ")

	pts, err := pointio.Load(out)
	require.NoError(t, err)
	assert.Len(t, pts, 100)

	ledger, err := sqlite.Open(db)
	require.NoError(t, err)
	defer ledger.Close()
	runs, err := ledger.Runs().ListByMethod("proper")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunUnknownMethod(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scan.bin")
	writeScan(t, in)

	code, _, stderr := runCLI(t, "-input", in, "-output", filepath.Join(dir, "o.bin"), "-method", "kmeans")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "valid options are: simple, advanced, proper")
}

func TestRunFailingFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.bin")
	require.NoError(t, os.WriteFile(in, make([]byte, 7), 0o644))

	code, _, stderr := runCLI(t, "-input", in, "-output", filepath.Join(dir, "o.bin"))
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "Error processing")
}

func TestRunCompareAllFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scan.bin")
	writeScan(t, in)

	code, stdout, stderr := runCLI(t, "-input", in, "-output", filepath.Join(dir, "r.bin"), "-compare-all")
	require.Equal(t, exitOK, code, stderr)
	for _, m := range beams.Methods() {
		_, err := os.Stat(filepath.Join(dir, "r_"+string(m)+".bin"))
		assert.NoError(t, err, "method %s", m)
	}
	assert.Equal(t, 3, strings.Count(stdout, "Saved to"))
}

func TestRunDirectory(t *testing.T) {
	in := t.TempDir()
	for _, name := range []string{"000000.bin", "000001.bin", "000002.bin"} {
		writeScan(t, filepath.Join(in, name))
	}
	out := filepath.Join(t.TempDir(), "reduced")

	code, stdout, stderr := runCLI(t, "-input", in, "-output", out, "-max-files", "2", "-method", "simple", "-workers", "1")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Successfully processed 2/2 files (simple)")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// A broken scan makes the batch exit non-zero.
	require.NoError(t, os.WriteFile(filepath.Join(in, "000003.bin"), make([]byte, 5), 0o644))
	code, _, _ = runCLI(t, "-input", in, "-output", out)
	assert.Equal(t, exitError, code)
}

func TestRunPlotDirIsTimestampedPerInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scan.bin")
	writeScan(t, in)
	plots := filepath.Join(dir, "plots")

	code, stdout, stderr := runCLI(t, "-input", in, "-output", filepath.Join(dir, "o.bin"), "-visualize", "-plot-dir", plots)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Estimated beams: ~4 -> ~2")

	stamps, err := os.ReadDir(filepath.Join(plots, "scan"))
	require.NoError(t, err)
	require.Len(t, stamps, 1)
	_, err = os.Stat(filepath.Join(plots, "scan", stamps[0].Name(), "scan_histogram.png"))
	assert.NoError(t, err)
}
