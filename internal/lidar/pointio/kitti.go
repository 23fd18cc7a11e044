package pointio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/banshee-data/beam.reduce/internal/lidar/beams"
)

// kittiRecordSize is one x, y, z, reflectance record of little-endian float32.
const kittiRecordSize = beams.FieldsPerPoint * 4

// LoadBin reads a KITTI velodyne scan: a headerless stream of
// little-endian float32 records (x, y, z, reflectance).
func LoadBin(path string) ([]beams.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size()%kittiRecordSize != 0 {
		return nil, &FileFormatError{
			Path:   path,
			Reason: fmt.Sprintf("size %d is not a multiple of %d bytes", info.Size(), kittiRecordSize),
		}
	}
	return ReadBin(bufio.NewReader(f), int(info.Size()/kittiRecordSize))
}

// ReadBin decodes n KITTI records from r.
func ReadBin(r io.Reader, n int) ([]beams.Point, error) {
	values := make([]float32, n*beams.FieldsPerPoint)
	if err := binary.Read(r, binary.LittleEndian, values); err != nil {
		return nil, fmt.Errorf("read kitti records: %w", err)
	}
	return beams.FromFlat(values)
}

// WriteBin encodes points as KITTI records. Values are narrowed to float32.
func WriteBin(w io.Writer, points []beams.Point) error {
	return binary.Write(w, binary.LittleEndian, beams.ToFlat(points))
}

// SaveBin writes points to path in KITTI layout.
func SaveBin(path string, points []beams.Point) (err error) {
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

	bw := bufio.NewWriter(f)
	if err = WriteBin(bw, points); err != nil {
		return err
	}
	return bw.Flush()
}
