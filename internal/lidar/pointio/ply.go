package pointio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/chenzhekl/goply"
	"go.uber.org/multierr"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
)

// defaultPLYIntensity is used for vertices without an intensity property.
const defaultPLYIntensity = 1.0

// LoadPLY reads the vertex element of a PLY file. x, y and z are required;
// intensity is optional.
func LoadPLY(path string) (points []beams.Point, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readPLY(path, bufio.NewReader(f))
}

func readPLY(path string, r io.Reader) (points []beams.Point, err error) {
	// goply panics on malformed headers and bodies.
	defer func() {
		if rec := recover(); rec != nil {
			points = nil
			err = &FileFormatError{Path: path, Reason: fmt.Sprintf("ply: %v", rec)}
		}
	}()

	ply := goply.New(r)
	vertices := ply.Elements("vertex")
	if len(vertices) == 0 {
		return nil, &FileFormatError{Path: path, Reason: "ply has no vertices"}
	}

	points = make([]beams.Point, len(vertices))
	for i, v := range vertices {
		var p beams.Point
		var ok bool
		if p.X, ok = plyFloat(v["x"]); !ok {
			return nil, &FileFormatError{Path: path, Reason: fmt.Sprintf("vertex %d: missing x", i)}
		}
		if p.Y, ok = plyFloat(v["y"]); !ok {
			return nil, &FileFormatError{Path: path, Reason: fmt.Sprintf("vertex %d: missing y", i)}
		}
		if p.Z, ok = plyFloat(v["z"]); !ok {
			return nil, &FileFormatError{Path: path, Reason: fmt.Sprintf("vertex %d: missing z", i)}
		}
		if p.Intensity, ok = plyFloat(v["intensity"]); !ok {
			p.Intensity = defaultPLYIntensity
		}
		points[i] = p
	}
	return points, nil
}

// plyFloat widens any PLY scalar property value.
func plyFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int8:
		return float64(n), true
	case uint8:
		return float64(n), true
	case int16:
		return float64(n), true
	case uint16:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// WritePLY encodes points as an ASCII PLY 1.0 vertex list with float
// x, y, z and intensity properties.
func WritePLY(w io.Writer, points []beams.Point) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ply\nformat ascii 1.0\n")
	fmt.Fprintf(bw, "element vertex %d\n", len(points))
	for _, name := range []string{"x", "y", "z", "intensity"} {
		fmt.Fprintf(bw, "property float %s\n", name)
	}
	fmt.Fprintf(bw, "end_header\n")
	for _, p := range points {
		fmt.Fprintf(bw, "%g %g %g %g\n", float32(p.X), float32(p.Y), float32(p.Z), float32(p.Intensity))
	}
	return bw.Flush()
}

// SavePLY writes points to path as ASCII PLY.
func SavePLY(path string, points []beams.Point) (err error) {
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
	return WritePLY(f, points)
}
