// Package pointio loads and saves point clouds in the file formats the
// reducer accepts: KITTI velodyne .bin, PLY, LAS and (export only) ASC.
package pointio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
)

// ErrUnsupportedFormat is returned for a file extension with no loader or saver.
var ErrUnsupportedFormat = errors.New("unsupported point cloud format")

// FileFormatError reports a file whose contents do not match its format.
type FileFormatError struct {
	Path   string
	Reason string
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("%s: malformed point file: %s", e.Path, e.Reason)
}

// Extensions accepted by Load and Save.
const (
	ExtBin = ".bin"
	ExtPLY = ".ply"
	ExtLAS = ".las"
	ExtASC = ".asc"
)

// Load reads the point cloud at path, choosing the format by extension.
func Load(path string) ([]beams.Point, error) {
	switch ext(path) {
	case ExtBin:
		return LoadBin(path)
	case ExtPLY:
		return LoadPLY(path)
	case ExtLAS:
		return LoadLAS(path)
	default:
		return nil, fmt.Errorf("load %s: %w", path, ErrUnsupportedFormat)
	}
}

// Save writes points to path, choosing the format by extension. Parent
// directories are created as needed.
func Save(path string, points []beams.Point) error {
	switch ext(path) {
	case ExtBin:
		return SaveBin(path, points)
	case ExtPLY:
		return SavePLY(path, points)
	case ExtLAS:
		return SaveLAS(path, points)
	case ExtASC:
		return SaveASC(path, points)
	default:
		return fmt.Errorf("save %s: %w", path, ErrUnsupportedFormat)
	}
}

// CanLoad reports whether Load understands path's extension.
func CanLoad(path string) bool {
	switch ext(path) {
	case ExtBin, ExtPLY, ExtLAS:
		return true
	}
	return false
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
