package pointio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
)

// WriteASC writes a CloudCompare-compatible text export.
func WriteASC(w io.Writer, points []beams.Point) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Exported points\n")
	fmt.Fprintf(bw, "# Format: X Y Z Intensity\n")
	for _, p := range points {
		fmt.Fprintf(bw, "%.6f %.6f %.6f %.6f\n", p.X, p.Y, p.Z, p.Intensity)
	}
	return bw.Flush()
}

// SaveASC exports points to path as ASC text.
func SaveASC(path string, points []beams.Point) (err error) {
	if len(points) == 0 {
		return fmt.Errorf("no points to export")
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return WriteASC(f, points)
}
