package collection

import (
	"encoding/binary"
	"fmt"

	"github.com/gpshistory/gpshistory/buffer"
	"github.com/gpshistory/gpshistory/codec"
	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/point"
)

// measurementStride is the fixed byte width of a Measurement record.
const measurementStride = 22

// MeasurementCollection is a compact, append-only columnar collection of
// point.Measurement records. It shares the 14-byte Point prefix and adds,
// little-endian:
//
//	offset 14 size 2  accuracy      (u16 small double, nullable)
//	offset 16 size 2  heading       (u16 small double, mod 360, nullable)
//	offset 18 size 2  speed         (u16 small double, nullable)
//	offset 20 size 2  speedAccuracy (u16 small double, nullable)
type MeasurementCollection struct {
	buf *buffer.Buffer
}

// NewMeasurementCollection creates an empty MeasurementCollection.
func NewMeasurementCollection() *MeasurementCollection {
	return &MeasurementCollection{buf: buffer.New(measurementStride)}
}

var _ Collection[point.Measurement] = (*MeasurementCollection)(nil)

// Truncate drops the collection to n records.
func (c *MeasurementCollection) Truncate(n int) error {
	if n < 0 || n > c.Len() {
		return fmt.Errorf("%w: truncate length %d, have %d", errs.ErrOutOfRange, n, c.Len())
	}
	c.buf.Truncate(n)

	return nil
}

func (c *MeasurementCollection) Len() int                  { return c.buf.Len() }
func (c *MeasurementCollection) Cap() int                  { return c.buf.Cap() }
func (c *MeasurementCollection) SetCapacity(n int) error   { return c.buf.SetCapacity(n) }
func (c *MeasurementCollection) Stride() int               { return measurementStride }
func (c *MeasurementCollection) TypeName() string          { return "MeasurementCollection" }
func (c *MeasurementCollection) PushRaw(data []byte) error { return c.buf.PushRaw(data) }
func (c *MeasurementCollection) ExportBytes(start, count int) ([]byte, error) {
	return c.buf.ExportBytes(start, count)
}

// Buf exposes the backing buffer for the persister's chunked read/write path.
func (c *MeasurementCollection) Buf() *buffer.Buffer { return c.buf }

// NewEmpty creates an empty MeasurementCollection.
func (c *MeasurementCollection) NewEmpty() Collection[point.Measurement] {
	return NewMeasurementCollection()
}

// ForEachLatLonE7 iterates raw E7 lat/lon pairs over [start, start+count).
func (c *MeasurementCollection) ForEachLatLonE7(start, count int, f func(i int, latE7, lonE7 uint32) bool) error {
	return forEachLatLonE7(c.buf, start, count, f)
}

func (c *MeasurementCollection) Push(m point.Measurement) error {
	var rec [measurementStride]byte
	encodePointInto(rec[:14], m.Point)
	binary.LittleEndian.PutUint16(rec[14:16], codec.EncodeSmallDouble(m.Accuracy))
	binary.LittleEndian.PutUint16(rec[16:18], codec.EncodeHeading(m.Heading))
	binary.LittleEndian.PutUint16(rec[18:20], codec.EncodeSmallDouble(m.Speed))
	binary.LittleEndian.PutUint16(rec[20:22], codec.EncodeSmallDouble(m.SpeedAccuracy))
	c.buf.Push(rec[:])

	return nil
}

func (c *MeasurementCollection) Get(i int) (point.Measurement, error) {
	if err := checkIndex(i, c.Len()); err != nil {
		return point.Measurement{}, err
	}
	rec := c.buf.Record(i)

	return point.Measurement{
		Point:         decodePointFrom(rec[:14]),
		Accuracy:      codec.DecodeSmallDouble(binary.LittleEndian.Uint16(rec[14:16])),
		Heading:       codec.DecodeHeading(binary.LittleEndian.Uint16(rec[16:18])),
		Speed:         codec.DecodeSmallDouble(binary.LittleEndian.Uint16(rec[18:20])),
		SpeedAccuracy: codec.DecodeSmallDouble(binary.LittleEndian.Uint16(rec[20:22])),
	}, nil
}

// SpanAt decodes only the time field at offset 0.
func (c *MeasurementCollection) SpanAt(i int) (uint32, uint32, error) {
	if err := checkIndex(i, c.Len()); err != nil {
		return 0, 0, err
	}
	rec := c.buf.Record(i)
	t := binary.LittleEndian.Uint32(rec[0:4])

	return t, t, nil
}

// LatLonAt decodes only the latitude/longitude fields at offsets 4 and 8.
func (c *MeasurementCollection) LatLonAt(i int) (float64, float64, error) {
	if err := checkIndex(i, c.Len()); err != nil {
		return 0, 0, err
	}
	rec := c.buf.Record(i)
	lat := codec.DecodeLatitude(binary.LittleEndian.Uint32(rec[4:8]))
	lon := codec.DecodeLongitude(binary.LittleEndian.Uint32(rec[8:12]))

	return lat, lon, nil
}
