package beams

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
)

// HorizontalRange returns the distance from the sensor axis in the xy plane.
func HorizontalRange(p Point) float64 {
	return r3.Vector{X: p.X, Y: p.Y}.Norm()
}

// VerticalAngle returns the elevation of p above the sensor's horizontal
// plane, atan2(z, sqrt(x²+y²)), in radians.
func VerticalAngle(p Point) float64 {
	return math.Atan2(p.Z, HorizontalRange(p))
}

// VerticalAngles computes the vertical angle of every point. It fails with
// an InvalidInputError for fewer than two points or non-finite fields.
func VerticalAngles(points []Point) ([]float64, error) {
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	return verticalAngles(points), nil
}

func verticalAngles(points []Point) []float64 {
	angles := make([]float64, len(points))
	for i, p := range points {
		angles[i] = VerticalAngle(p)
	}
	return angles
}

// AngleRange returns the smallest and largest angle. angles must be non-empty.
func AngleRange(angles []float64) (lo, hi float64) {
	return floats.Min(angles), floats.Max(angles)
}
