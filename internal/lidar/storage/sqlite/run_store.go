package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one persisted reduction.
type Run struct {
	RunID           string          `json:"run_id"`
	InputPath       string          `json:"input_path"`
	OutputPath      string          `json:"output_path,omitempty"`
	Method          string          `json:"method"`
	ReductionFactor float64         `json:"reduction_factor"`
	PointsBefore    int             `json:"points_before"`
	PointsAfter     int             `json:"points_after"`
	BeamsBefore     int             `json:"beams_before"`
	BeamsAfter      int             `json:"beams_after"`
	DurationNS      int64           `json:"duration_ns"`
	Warnings        []string        `json:"warnings,omitempty"`
	ParamsJSON      json.RawMessage `json:"params_json,omitempty"`
	CreatedAt       int64           `json:"created_at"`
}

// NewRun builds a Run from a finished reduction.
func NewRun(input, output string, res *beams.Result, p beams.Params, m beams.Metrics) (*Run, error) {
	params, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	run := &Run{
		InputPath:       input,
		OutputPath:      output,
		Method:          string(res.Method),
		ReductionFactor: p.ReductionFactor,
		PointsBefore:    m.PointsBefore,
		PointsAfter:     m.PointsAfter,
		BeamsBefore:     m.BeamsBefore,
		BeamsAfter:      m.BeamsAfter,
		DurationNS:      m.Elapsed.Nanoseconds(),
		ParamsJSON:      params,
	}
	for _, w := range res.Warnings {
		run.Warnings = append(run.Warnings, w.Error())
	}
	return run, nil
}

// Duration returns the recorded reduction time.
func (r *Run) Duration() time.Duration { return time.Duration(r.DurationNS) }

// execer is the write path of *sql.DB.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// RunStore provides persistence for reduction runs.
type RunStore struct {
	db   *sql.DB
	exec execer
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db, exec: db}
}

const runColumns = `run_id, input_path, output_path, method, reduction_factor,
	points_before, points_after, beams_before, beams_after, duration_ns,
	warnings, params_json, created_at`

// Insert persists a run. If RunID is empty, a UUID is generated; if
// CreatedAt is zero, the current time is used.
func (s *RunStore) Insert(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	var paramsStr interface{}
	if len(run.ParamsJSON) > 0 {
		paramsStr = string(run.ParamsJSON)
	}

	return retryOnBusy(func() error {
		_, err := s.exec.Exec(`INSERT INTO reduction_runs (`+runColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.InputPath, run.OutputPath, run.Method, run.ReductionFactor,
			run.PointsBefore, run.PointsAfter, run.BeamsBefore, run.BeamsAfter, run.DurationNS,
			strings.Join(run.Warnings, "\n"), paramsStr, run.CreatedAt,
		)
		return err
	})
}

// Get returns a single run by ID.
func (s *RunStore) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM reduction_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return run, err
}

// ListRecent returns up to limit runs, newest first.
func (s *RunStore) ListRecent(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM reduction_runs
		ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return collectRuns(rows)
}

// ListByMethod returns every run of method, newest first.
func (s *RunStore) ListByMethod(method string) ([]*Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM reduction_runs
		WHERE method = ? ORDER BY created_at DESC`, method)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return collectRuns(rows)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (*Run, error) {
	var r Run
	var warnings string
	var params sql.NullString
	err := sc.Scan(
		&r.RunID, &r.InputPath, &r.OutputPath, &r.Method, &r.ReductionFactor,
		&r.PointsBefore, &r.PointsAfter, &r.BeamsBefore, &r.BeamsAfter, &r.DurationNS,
		&warnings, &params, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if warnings != "" {
		r.Warnings = strings.Split(warnings, "\n")
	}
	if params.Valid {
		r.ParamsJSON = json.RawMessage(params.String)
	}
	return &r, nil
}

func collectRuns(rows *sql.Rows) ([]*Run, error) {
	defer rows.Close()
	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
