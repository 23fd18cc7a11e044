package pointio

import (
	"math"
	"os"

	"github.com/edaniels/lidario"
	"go.uber.org/multierr"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
)

// lasIntensityScale maps a [0, 1] reflectance onto the LAS uint16 range.
const lasIntensityScale = math.MaxUint16

// LoadLAS reads a LAS file. Intensity is normalised to [0, 1].
func LoadLAS(path string) ([]beams.Point, error) {
	lf, err := lidario.NewLasFile(path, "r")
	if err != nil {
		return nil, &FileFormatError{Path: path, Reason: err.Error()}
	}
	defer lf.Close()

	points := make([]beams.Point, 0, lf.Header.NumberPoints)
	for i := 0; i < lf.Header.NumberPoints; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, &FileFormatError{Path: path, Reason: err.Error()}
		}
		d := p.PointData()
		points = append(points, beams.Point{
			X:         d.X,
			Y:         d.Y,
			Z:         d.Z,
			Intensity: float64(d.Intensity) / lasIntensityScale,
		})
	}
	return points, nil
}

// SaveLAS writes points as LAS point format 0.
func SaveLAS(path string, points []beams.Point) (err error) {
	if err := ensureDir(path); err != nil {
		return err
	}
	// Replace any previous output.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	lf, err := lidario.NewLasFile(path, "w")
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, lf.Close())
	}()

	if err = lf.AddHeader(lidario.LasHeader{PointFormatID: 0}); err != nil {
		return err
	}
	for _, p := range points {
		rec := &lidario.PointRecord0{
			X:         p.X,
			Y:         p.Y,
			Z:         p.Z,
			Intensity: lasIntensity(p.Intensity),
			BitField: lidario.PointBitField{
				Value: 1 | 1<<3,
			},
			PointSourceID: 1,
		}
		if err = lf.AddLasPoint(rec); err != nil {
			return err
		}
	}
	return nil
}

func lasIntensity(v float64) uint16 {
	v = math.Max(0, math.Min(1, v))
	return uint16(math.Round(v * lasIntensityScale))
}
