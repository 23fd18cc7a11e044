package batch

import (
	"fmt"
	"io"

	"github.com/banshee-data/beam.reduce/internal/units"
)

// WriteFileReport prints the per-file summary, angles in angleUnits.
func WriteFileReport(w io.Writer, st *FileStats, angleUnits string) {
	fmt.Fprintf(w, "Processed %s (%s)\n", st.Input, st.Method)
	fmt.Fprintf(w, "  Original points: %d, Reduced points: %d\n", st.PointsBefore, st.PointsAfter)
	fmt.Fprintf(w, "  Original beams: ~%d, Reduced beams: ~%d\n", st.BeamsBefore, st.BeamsAfter)
	fmt.Fprintf(w, "  Estimated beams: ~%d -> ~%d (occupied bins %d, angle jumps %d)\n",
		st.EstimatedBefore.Median, st.EstimatedAfter.Median,
		st.EstimatedBefore.NonEmptyBins, st.EstimatedBefore.AngleJumps)
	fmt.Fprintf(w, "  Vertical range: [%.3f, %.3f] %s\n",
		units.ConvertAngle(st.AngleMin, angleUnits), units.ConvertAngle(st.AngleMax, angleUnits), angleUnits)
	fmt.Fprintf(w, "  Point reduction ratio: %.4f\n", st.PointRatio())
	fmt.Fprintf(w, "  Beam reduction ratio: %.4f\n", st.BeamRatio())
	fmt.Fprintf(w, "  Processing time: %.2f seconds\n", st.Duration.Seconds())
	for _, warn := range st.Warnings {
		fmt.Fprintf(w, "  Warning: %v\n", warn)
	}
	if st.Plots != nil {
		fmt.Fprintf(w, "  Plots: %s, %s\n", st.Plots.Histogram, st.Plots.Comparison)
	}
	if st.RunID != "" {
		fmt.Fprintf(w, "  Run: %s\n", st.RunID)
	}
	fmt.Fprintf(w, "  Saved to %s\n", st.Output)
}

// WriteDirectoryReport prints the batch totals and each failure.
func WriteDirectoryReport(w io.Writer, ds *DirectoryStats) {
	fmt.Fprintf(w, "\nSuccessfully processed %d/%d files (%s)\n", ds.Succeeded(), ds.Found, ds.Method)
	for _, f := range ds.Failures {
		fmt.Fprintf(w, "  Failed: %v\n", f)
	}
	if ds.Skipped > 0 {
		fmt.Fprintf(w, "  Skipped after cancellation: %d\n", ds.Skipped)
	}
	fmt.Fprintf(w, "Total processing time: %.2f seconds\n", ds.Elapsed.Seconds())
	if ds.Found > 0 {
		fmt.Fprintf(w, "Average time per file: %.2f seconds\n", ds.AverageDuration().Seconds())
	}
}
