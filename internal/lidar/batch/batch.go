// Package batch runs beam reduction over files and directories of scans,
// collecting per-file statistics and optionally rendering plots and
// recording each run in the ledger.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
	"github.com/banshee-data/beam.reduce/internal/lidar/monitor"
	"github.com/banshee-data/beam.reduce/internal/lidar/pointio"
	"github.com/banshee-data/beam.reduce/internal/lidar/storage/sqlite"
	"github.com/banshee-data/beam.reduce/internal/monitoring"
)

// VisualizationDir is the plot subdirectory created under a directory
// batch's output.
const VisualizationDir = "visualizations"

// RunRecorder persists finished runs. *sqlite.RunStore satisfies it.
type RunRecorder interface {
	Insert(run *sqlite.Run) error
}

// Options configures a batch.
type Options struct {
	Method beams.Method
	Params beams.Params

	// MaxFiles limits a directory batch to the first MaxFiles scans in
	// name order. 0 means all.
	MaxFiles int
	// Workers bounds how many files are processed at once. 0 uses GOMAXPROCS.
	Workers int

	// Visualize renders plots for every file; VisualizeFirst only for the
	// first file of a directory batch.
	Visualize      bool
	VisualizeFirst bool
	// PlotDir receives plots. Empty means the output file's directory (or
	// <outDir>/visualizations for a directory batch).
	PlotDir string
	// PlotStamp, when set, files each input's plots under
	// <PlotDir>/<input name>/<timestamp> so repeated runs do not overwrite.
	PlotStamp time.Time

	// Recorder, when set, receives one Run per successful file.
	Recorder RunRecorder
}

func (o Options) plotDir(in, out string) string {
	switch {
	case o.PlotDir == "":
		return filepath.Dir(out)
	case !o.PlotStamp.IsZero():
		return monitor.MakePlotOutputDir(o.PlotDir, in, o.PlotStamp)
	default:
		return o.PlotDir
	}
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// FileStats describes one processed file.
type FileStats struct {
	beams.Metrics

	Input    string
	Output   string
	Method   beams.Method
	Warnings []error
	// AngleMin and AngleMax bound the input's vertical angles, radians.
	AngleMin, AngleMax float64
	// EstimatedBefore and EstimatedAfter cross-check the detected beam
	// counts with the median-of-estimates heuristic.
	EstimatedBefore, EstimatedAfter beams.BeamEstimate
	// Duration covers load, reduction and save.
	Duration time.Duration
	Plots    *monitor.PlotFiles
	RunID    string
}

// FileError records a failed file in a directory batch.
type FileError struct {
	Input string
	Err   error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Input, e.Err) }

// DirectoryStats summarises a directory batch. Files and Failures are in
// input name order.
type DirectoryStats struct {
	Method   beams.Method
	Found    int
	Files    []*FileStats
	Failures []FileError
	// Skipped counts files never started because the context was cancelled.
	Skipped int
	Elapsed time.Duration
}

// Succeeded returns the number of files written.
func (d *DirectoryStats) Succeeded() int { return len(d.Files) }

// AverageDuration returns the mean elapsed time per attempted file.
func (d *DirectoryStats) AverageDuration() time.Duration {
	attempted := len(d.Files) + len(d.Failures)
	if attempted == 0 {
		return 0
	}
	return d.Elapsed / time.Duration(attempted)
}

// ProcessFile loads in, reduces it with opts.Method and writes the result
// to out. Formats follow the file extensions.
func ProcessFile(ctx context.Context, in, out string, opts Options) (*FileStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	points, err := pointio.Load(in)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", in, err)
	}
	angles, err := beams.VerticalAngles(points)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	lo, hi := beams.AngleRange(angles)

	beamsBefore := beams.CountBeams(points, opts.Params)
	reduceStart := time.Now()
	res, err := beams.Reduce(points, opts.Method, opts.Params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	metrics := beams.Measure(points, res, opts.Params, beamsBefore, time.Since(reduceStart))

	if err := pointio.Save(out, res.Points); err != nil {
		return nil, fmt.Errorf("save %s: %w", out, err)
	}

	st := &FileStats{
		Metrics:         metrics,
		Input:           in,
		Output:          out,
		Method:          res.Method,
		Warnings:        res.Warnings,
		AngleMin:        lo,
		AngleMax:        hi,
		EstimatedBefore: beams.EstimateBeams(points, opts.Params),
		EstimatedAfter:  beams.EstimateBeams(res.Points, opts.Params),
	}
	for _, w := range res.Warnings {
		monitoring.Opsf("%s: %v", in, w)
	}

	if opts.Visualize {
		files, err := monitor.NewVisualizer(opts.plotDir(in, out), opts.Params).RenderResult(in, points, res)
		if err != nil {
			// Plots are diagnostic; the reduced file is already written.
			monitoring.Opsf("%s: visualisation failed: %v", in, err)
		} else {
			st.Plots = &files
		}
	}

	st.Duration = time.Since(start)
	if opts.Recorder != nil {
		if err := record(opts.Recorder, st, res, opts.Params); err != nil {
			return nil, fmt.Errorf("record run for %s: %w", in, err)
		}
	}

	monitoring.Diagf("%s -> %s: %s points %d -> %d, beams %d -> %d in %v",
		in, out, res.Method, st.PointsBefore, st.PointsAfter, st.BeamsBefore, st.BeamsAfter, st.Duration)
	return st, nil
}

func record(rec RunRecorder, st *FileStats, res *beams.Result, p beams.Params) error {
	run, err := sqlite.NewRun(st.Input, st.Output, res, p, st.Metrics)
	if err != nil {
		return err
	}
	if err := rec.Insert(run); err != nil {
		return err
	}
	st.RunID = run.RunID
	return nil
}

// ListScans returns the KITTI scans directly inside dir in name order,
// limited to maxFiles when positive.
func ListScans(dir string, maxFiles int) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*"+pointio.ExtBin))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	if maxFiles > 0 && len(files) > maxFiles {
		files = files[:maxFiles]
	}
	return files, nil
}

// ProcessDirectory reduces every scan in inDir into outDir under the same
// file names. Per-file failures are collected in the returned stats and do
// not stop the batch. Cancelling ctx stops scheduling new files; the stats
// so far are returned with ctx's error.
func ProcessDirectory(ctx context.Context, inDir, outDir string, opts Options) (*DirectoryStats, error) {
	start := time.Now()
	files, err := ListScans(inDir, opts.MaxFiles)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	plotDir := opts.PlotDir
	if plotDir == "" && (opts.Visualize || opts.VisualizeFirst) {
		plotDir = filepath.Join(outDir, VisualizationDir)
	}

	monitoring.Opsf("found %d point cloud files to process in %s", len(files), inDir)

	stats := make([]*FileStats, len(files))
	errs := make([]error, len(files))
	started := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, in := range files {
		i, in := i, in
		if gctx.Err() != nil {
			break
		}
		started[i] = true
		fileOpts := opts
		fileOpts.PlotDir = plotDir
		fileOpts.Visualize = opts.Visualize || (i == 0 && opts.VisualizeFirst)
		out := filepath.Join(outDir, filepath.Base(in))
		g.Go(func() error {
			st, err := ProcessFile(gctx, in, out, fileOpts)
			if err != nil {
				monitoring.Opsf("error processing %s: %v", in, err)
				errs[i] = err
				return nil
			}
			stats[i] = st
			return nil
		})
	}
	_ = g.Wait()

	ds := &DirectoryStats{Method: opts.Method, Found: len(files)}
	for i := range files {
		switch {
		case !started[i]:
			ds.Skipped++
		case errs[i] != nil:
			ds.Failures = append(ds.Failures, FileError{Input: files[i], Err: errs[i]})
		default:
			ds.Files = append(ds.Files, stats[i])
		}
	}
	ds.Elapsed = time.Since(start)
	monitoring.Opsf("processed %d/%d files in %v", ds.Succeeded(), ds.Found, ds.Elapsed)
	return ds, ctx.Err()
}

// CompareOutputPath names a method's output for a compare-all run on a
// single file: <base>_<method><ext>.
func CompareOutputPath(out string, m beams.Method) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_" + string(m) + ext
}

// CompareOutputDir names a method's output directory for a compare-all
// run on a directory: <outDir>_<method>.
func CompareOutputDir(outDir string, m beams.Method) string {
	return filepath.Clean(outDir) + "_" + string(m)
}

// CompareFile runs every method on one scan and writes each output to
// CompareOutputPath(out, method). With opts.Visualize it also renders the
// per-method HTML comparison page. Stats are in beams.Methods order.
func CompareFile(ctx context.Context, in, out string, opts Options) ([]*FileStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	points, err := pointio.Load(in)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", in, err)
	}
	angles, err := beams.VerticalAngles(points)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	lo, hi := beams.AngleRange(angles)
	estimated := beams.EstimateBeams(points, opts.Params)

	cmp, err := beams.Compare(points, opts.Params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}

	var stats []*FileStats
	for _, m := range cmp.Methods {
		e := cmp.Entries[m]
		path := CompareOutputPath(out, m)
		if err := pointio.Save(path, e.Result.Points); err != nil {
			return nil, fmt.Errorf("save %s: %w", path, err)
		}
		st := &FileStats{
			Metrics:         e.Metrics,
			Input:           in,
			Output:          path,
			Method:          m,
			Warnings:        e.Result.Warnings,
			AngleMin:        lo,
			AngleMax:        hi,
			EstimatedBefore: estimated,
			EstimatedAfter:  beams.EstimateBeams(e.Result.Points, opts.Params),
			Duration:        time.Since(start),
		}
		if opts.Recorder != nil {
			if err := record(opts.Recorder, st, e.Result, opts.Params); err != nil {
				return nil, fmt.Errorf("record run for %s: %w", in, err)
			}
		}
		stats = append(stats, st)
	}

	if opts.Visualize {
		if _, err := monitor.NewVisualizer(opts.plotDir(in, out), opts.Params).RenderComparison(in, points, cmp); err != nil {
			monitoring.Opsf("%s: comparison page failed: %v", in, err)
		}
	}
	return stats, nil
}

// CompareDirectory runs ProcessDirectory once per method, writing into
// CompareOutputDir(outDir, method).
func CompareDirectory(ctx context.Context, inDir, outDir string, opts Options) (map[beams.Method]*DirectoryStats, error) {
	results := make(map[beams.Method]*DirectoryStats)
	for _, m := range beams.Methods() {
		monitoring.Opsf("=== processing with %s method ===", strings.ToUpper(string(m)))
		mOpts := opts
		mOpts.Method = m
		ds, err := ProcessDirectory(ctx, inDir, CompareOutputDir(outDir, m), mOpts)
		if ds != nil {
			results[m] = ds
		}
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
