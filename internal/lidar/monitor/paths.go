package monitor

import (
	"path/filepath"
	"strings"
	"time"
)

// FormatTimestamp generates a timestamp string for directory naming.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakePlotOutputDir returns a timestamped plot directory for one input:
// <baseDir>/<input basename>/<timestamp>.
func MakePlotOutputDir(baseDir, inputFile string, now time.Time) string {
	return filepath.Join(baseDir, stem(inputFile), FormatTimestamp(now))
}

// PlotFiles names the files rendered for one input scan.
type PlotFiles struct {
	Histogram  string // detected beams on the input
	Comparison string // input vs reduced angle distribution
	HTML       string // per-method comparison page
}

// PlotPaths returns the plot file names for inputFile inside dir.
func PlotPaths(dir, inputFile string) PlotFiles {
	s := stem(inputFile)
	return PlotFiles{
		Histogram:  filepath.Join(dir, s+"_histogram.png"),
		Comparison: filepath.Join(dir, s+"_comparison.png"),
		HTML:       filepath.Join(dir, s+"_methods.html"),
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
