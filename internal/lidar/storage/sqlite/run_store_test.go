package sqlite

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
	"github.com/banshee-data/beam.reduce/internal/monitoring"
)

func init() {
	monitoring.Mute()
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ledger", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := db.MigrateVersion(migrationsFS)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// A second migration pass is a no-op.
	require.NoError(t, db.MigrateUp(migrationsFS))
}

func TestOpenExistingLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Runs().Insert(&Run{InputPath: "a.bin", Method: "proper", ReductionFactor: 0.5}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.Runs().ListRecent(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunStoreInsertAndGet(t *testing.T) {
	store := openTestDB(t).Runs()

	run := &Run{
		InputPath:       "scans/000001.bin",
		OutputPath:      "out/000001.bin",
		Method:          "proper",
		ReductionFactor: 0.5,
		PointsBefore:    1000,
		PointsAfter:     500,
		BeamsBefore:     64,
		BeamsAfter:      32,
		DurationNS:      int64(12 * time.Millisecond),
		Warnings:        []string{"first", "second"},
		ParamsJSON:      json.RawMessage(`{"ReductionFactor":0.5}`),
	}
	require.NoError(t, store.Insert(run))
	assert.NotEmpty(t, run.RunID)
	assert.NotZero(t, run.CreatedAt)

	got, err := store.Get(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run, got)
	assert.Equal(t, 12*time.Millisecond, got.Duration())
}

func TestRunStoreGetMissing(t *testing.T) {
	store := openTestDB(t).Runs()

	_, err := store.Get("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRunStoreListing(t *testing.T) {
	store := openTestDB(t).Runs()

	methods := []string{"simple", "proper", "advanced", "proper"}
	for i, m := range methods {
		require.NoError(t, store.Insert(&Run{
			InputPath:       "scan.bin",
			Method:          m,
			ReductionFactor: 0.5,
			CreatedAt:       int64(1000 + i),
		}))
	}

	recent, err := store.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(1003), recent[0].CreatedAt)
	assert.Equal(t, int64(1002), recent[1].CreatedAt)

	all, err := store.ListRecent(0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	proper, err := store.ListByMethod("proper")
	require.NoError(t, err)
	require.Len(t, proper, 2)
	assert.Equal(t, int64(1003), proper[0].CreatedAt)
	assert.Equal(t, int64(1001), proper[1].CreatedAt)
	assert.Nil(t, proper[0].Warnings)
	assert.Nil(t, proper[0].ParamsJSON)

	none, err := store.ListByMethod("kmeans")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewRun(t *testing.T) {
	res := &beams.Result{
		Method:   beams.MethodProper,
		Warnings: []error{beams.ErrDegenerateInput},
	}
	m := beams.Metrics{PointsBefore: 10, PointsAfter: 10, BeamsBefore: 1, BeamsAfter: 1, Elapsed: time.Second}

	run, err := NewRun("in.bin", "out.bin", res, beams.DefaultParams(), m)
	require.NoError(t, err)
	assert.Equal(t, "proper", run.Method)
	assert.Equal(t, 0.5, run.ReductionFactor)
	assert.Equal(t, int64(time.Second), run.DurationNS)
	assert.Equal(t, []string{beams.ErrDegenerateInput.Error()}, run.Warnings)

	var p beams.Params
	require.NoError(t, json.Unmarshal(run.ParamsJSON, &p))
	assert.Equal(t, beams.DefaultParams(), p)
}
