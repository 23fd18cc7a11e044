// Command beamreduce halves (or otherwise thins) the vertical beam count of
// LiDAR scans so dense-sensor data can stand in for a sparser sensor.
//
// Usage:
//
//	beamreduce -input scan.bin -output reduced.bin [-method proper] [-target-ratio 0.5]
//	beamreduce -input scans/ -output reduced/ -max-files 10 -visualize-first
//	beamreduce -input scan.bin -output reduced.bin -compare-all -visualize
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/beam.reduce/internal/config"
	"github.com/banshee-data/beam.reduce/internal/lidar/batch"
	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
	"github.com/banshee-data/beam.reduce/internal/lidar/storage/sqlite"
	"github.com/banshee-data/beam.reduce/internal/monitoring"
	"github.com/banshee-data/beam.reduce/internal/units"
	"github.com/banshee-data/beam.reduce/internal/version"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Config holds the parsed command line.
type Config struct {
	Input          string
	Output         string
	Method         string
	TargetRatio    float64
	NumBins        int
	ConfigPath     string
	MaxFiles       int
	Workers        int
	Visualize      bool
	VisualizeFirst bool
	PlotDir        string
	CompareAll     bool
	DBPath         string
	AngleUnits     string
	Verbose        bool
	Trace          bool
	Version        bool

	// set records which flags were given explicitly.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{set: make(map[string]bool)}
	fs := flag.NewFlagSet("beamreduce", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.Input, "input", "", "Input scan (.bin, .ply, .las) or directory of .bin scans")
	fs.StringVar(&cfg.Output, "output", "", "Output file or directory")
	fs.StringVar(&cfg.Method, "method", "", fmt.Sprintf("Reduction method: simple, advanced, proper (default %s)", beams.DefaultMethod))
	fs.Float64Var(&cfg.TargetRatio, "target-ratio", 0.5, "Fraction of beams (points for simple) to keep")
	fs.IntVar(&cfg.NumBins, "num-bins", 0, "Advanced method bin count (0 = derive from angle spread)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Reduction config file (.json, .yaml)")
	fs.IntVar(&cfg.MaxFiles, "max-files", 0, "Maximum number of files to process in a directory (0 = all)")
	fs.IntVar(&cfg.Workers, "workers", 0, "Files processed in parallel (0 = GOMAXPROCS)")
	fs.BoolVar(&cfg.Visualize, "visualize", false, "Generate plots for every file")
	fs.BoolVar(&cfg.VisualizeFirst, "visualize-first", false, "Generate plots only for the first file of a directory")
	fs.StringVar(&cfg.PlotDir, "plot-dir", "", "Directory for plots, one timestamped subdirectory per input (default next to the output)")
	fs.BoolVar(&cfg.CompareAll, "compare-all", false, "Run every method, writing <output>_<method>")
	fs.StringVar(&cfg.DBPath, "db", "", "Record runs in this SQLite ledger")
	fs.StringVar(&cfg.AngleUnits, "angle-units", units.Degrees, "Units for reported angles: "+units.GetValidUnitsString())
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable diagnostic logging")
	fs.BoolVar(&cfg.Trace, "trace", false, "Enable per-beam trace logging")
	fs.BoolVar(&cfg.Version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })

	if cfg.Version {
		return cfg, nil
	}
	if cfg.Input == "" || cfg.Output == "" {
		return nil, errors.New("-input and -output are required")
	}
	if !units.IsValid(cfg.AngleUnits) {
		return nil, fmt.Errorf("invalid -angle-units %q, valid options are: %s", cfg.AngleUnits, units.GetValidUnitsString())
	}
	return cfg, nil
}

// reductionConfig loads the config file (if any) and applies explicit flags
// over it. -method is resolved separately by methodName.
func (c *Config) reductionConfig() (*config.ReductionConfig, error) {
	rc := config.EmptyReductionConfig()
	if c.ConfigPath != "" {
		loaded, err := config.LoadReductionConfig(c.ConfigPath)
		if err != nil {
			return nil, err
		}
		rc = loaded
	}
	if c.set["target-ratio"] {
		rc.ReductionFactor = &c.TargetRatio
	}
	if c.set["num-bins"] {
		rc.NumBins = &c.NumBins
	}
	if c.set["workers"] {
		rc.Workers = &c.Workers
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

// methodName returns -method when given, else the config's method.
func (c *Config) methodName(rc *config.ReductionConfig) string {
	if c.set["method"] {
		return c.Method
	}
	return rc.GetMethod()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "beamreduce: %v\n", err)
		return exitUsage
	}
	if cfg.Version {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}

	logs := monitoring.LogWriters{Ops: stderr}
	if cfg.Verbose || cfg.Trace {
		logs.Diag = stderr
	}
	if cfg.Trace {
		logs.Trace = stderr
	}
	monitoring.SetLogWriters(logs)

	rc, err := cfg.reductionConfig()
	if err != nil {
		fmt.Fprintf(stderr, "beamreduce: config: %v\n", err)
		return exitUsage
	}
	method, err := beams.ParseMethod(cfg.methodName(rc))
	if err != nil {
		fmt.Fprintf(stderr, "beamreduce: %v\n", err)
		return exitUsage
	}
	params := beams.ParamsFromConfig(rc)
	if err := params.Validate(); err != nil {
		fmt.Fprintf(stderr, "beamreduce: %v\n", err)
		return exitUsage
	}

	opts := batch.Options{
		Method:         method,
		Params:         params,
		MaxFiles:       cfg.MaxFiles,
		Workers:        rc.GetWorkers(),
		Visualize:      cfg.Visualize,
		VisualizeFirst: cfg.VisualizeFirst,
		PlotDir:        cfg.PlotDir,
	}
	if cfg.PlotDir != "" {
		opts.PlotStamp = time.Now()
	}

	if cfg.DBPath != "" {
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			fmt.Fprintf(stderr, "beamreduce: open ledger: %v\n", err)
			return exitError
		}
		defer db.Close()
		opts.Recorder = db.Runs()
	}

	info, err := os.Stat(cfg.Input)
	if err != nil {
		fmt.Fprintf(stderr, "beamreduce: %v\n", err)
		return exitError
	}

	if info.IsDir() {
		return runDirectory(ctx, cfg, opts, stdout, stderr)
	}
	return runFile(ctx, cfg, opts, stdout, stderr)
}

func runFile(ctx context.Context, cfg *Config, opts batch.Options, stdout, stderr io.Writer) int {
	// A single file is always the first file.
	opts.Visualize = cfg.Visualize || cfg.VisualizeFirst

	var stats []*batch.FileStats
	if cfg.CompareAll {
		all, err := batch.CompareFile(ctx, cfg.Input, cfg.Output, opts)
		if err != nil {
			fmt.Fprintf(stderr, "Error processing %s: %v\n", cfg.Input, err)
			return exitError
		}
		stats = all
	} else {
		st, err := batch.ProcessFile(ctx, cfg.Input, cfg.Output, opts)
		if err != nil {
			fmt.Fprintf(stderr, "Error processing %s: %v\n", cfg.Input, err)
			return exitError
		}
		stats = []*batch.FileStats{st}
	}
	for _, st := range stats {
		batch.WriteFileReport(stdout, st, cfg.AngleUnits)
	}
	return exitOK
}

func runDirectory(ctx context.Context, cfg *Config, opts batch.Options, stdout, stderr io.Writer) int {
	var results []*batch.DirectoryStats
	var err error
	if cfg.CompareAll {
		var byMethod map[beams.Method]*batch.DirectoryStats
		byMethod, err = batch.CompareDirectory(ctx, cfg.Input, cfg.Output, opts)
		for _, m := range beams.Methods() {
			if ds, ok := byMethod[m]; ok {
				results = append(results, ds)
			}
		}
	} else {
		var ds *batch.DirectoryStats
		ds, err = batch.ProcessDirectory(ctx, cfg.Input, cfg.Output, opts)
		if ds != nil {
			results = append(results, ds)
		}
	}

	code := exitOK
	for _, ds := range results {
		if cfg.Verbose {
			for _, st := range ds.Files {
				batch.WriteFileReport(stdout, st, cfg.AngleUnits)
			}
		}
		batch.WriteDirectoryReport(stdout, ds)
		if len(ds.Failures) > 0 {
			code = exitError
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "beamreduce: %v\n", err)
		return exitError
	}
	return code
}
