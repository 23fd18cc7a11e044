package beams

import (
	"fmt"
	"math"
)

// FieldsPerPoint is the record width of one point row: x, y, z, intensity.
const FieldsPerPoint = 4

// Point is a single LiDAR return in sensor-centred Cartesian coordinates.
type Point struct {
	X, Y, Z   float64 // metres
	Intensity float64 // reflectance as stored by the source format
}

func (p Point) finite() bool {
	for _, v := range [...]float64{p.X, p.Y, p.Z, p.Intensity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FromRows converts fixed-width numeric records into points. Every row must
// have exactly FieldsPerPoint values.
func FromRows(rows [][]float64) ([]Point, error) {
	points := make([]Point, len(rows))
	for i, row := range rows {
		if len(row) != FieldsPerPoint {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("row %d has %d fields, want %d", i, len(row), FieldsPerPoint)}
		}
		points[i] = Point{X: row[0], Y: row[1], Z: row[2], Intensity: row[3]}
	}
	return points, nil
}

// FromFlat converts a flat float32 buffer laid out as consecutive
// x, y, z, intensity records (the KITTI velodyne layout).
func FromFlat(values []float32) ([]Point, error) {
	if len(values)%FieldsPerPoint != 0 {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("%d values is not a multiple of %d", len(values), FieldsPerPoint)}
	}
	points := make([]Point, len(values)/FieldsPerPoint)
	for i := range points {
		o := i * FieldsPerPoint
		points[i] = Point{
			X:         float64(values[o]),
			Y:         float64(values[o+1]),
			Z:         float64(values[o+2]),
			Intensity: float64(values[o+3]),
		}
	}
	return points, nil
}

// ToFlat converts points into a flat float32 buffer (KITTI layout).
func ToFlat(points []Point) []float32 {
	out := make([]float32, 0, len(points)*FieldsPerPoint)
	for _, p := range points {
		out = append(out, float32(p.X), float32(p.Y), float32(p.Z), float32(p.Intensity))
	}
	return out
}

// clonePoints returns a copy so callers never share backing arrays with the input.
func clonePoints(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	return out
}

// validatePoints enforces the shared input contract: at least two finite points.
func validatePoints(points []Point) error {
	if len(points) < 2 {
		return &InvalidInputError{Reason: fmt.Sprintf("need at least 2 points, got %d", len(points))}
	}
	for i, p := range points {
		if !p.finite() {
			return &InvalidInputError{Reason: fmt.Sprintf("point %d has a non-finite field", i)}
		}
	}
	return nil
}
