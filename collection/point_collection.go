package collection

import (
	"encoding/binary"
	"fmt"

	"github.com/gpshistory/gpshistory/buffer"
	"github.com/gpshistory/gpshistory/codec"
	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/point"
)

// pointStride is the fixed byte width of a Point record.
const pointStride = 14

// PointCollection is a compact, append-only columnar collection of
// point.Point records, stride 14 bytes, little-endian:
//
//	offset 0  size 4  time      (u32)
//	offset 4  size 4  latitude  (u32, E7)
//	offset 8  size 4  longitude (u32, E7)
//	offset 12 size 2  altitude  (i16, 0.5m resolution, nullable)
type PointCollection struct {
	buf *buffer.Buffer
}

// NewPointCollection creates an empty PointCollection.
func NewPointCollection() *PointCollection {
	return &PointCollection{buf: buffer.New(pointStride)}
}

var _ Collection[point.Point] = (*PointCollection)(nil)

// Truncate drops the collection to n records.
func (c *PointCollection) Truncate(n int) error {
	if n < 0 || n > c.Len() {
		return fmt.Errorf("%w: truncate length %d, have %d", errs.ErrOutOfRange, n, c.Len())
	}
	c.buf.Truncate(n)

	return nil
}

func (c *PointCollection) Len() int                  { return c.buf.Len() }
func (c *PointCollection) Cap() int                  { return c.buf.Cap() }
func (c *PointCollection) SetCapacity(n int) error   { return c.buf.SetCapacity(n) }
func (c *PointCollection) Stride() int               { return pointStride }
func (c *PointCollection) TypeName() string          { return "PointCollection" }
func (c *PointCollection) PushRaw(data []byte) error { return c.buf.PushRaw(data) }
func (c *PointCollection) ExportBytes(start, count int) ([]byte, error) {
	return c.buf.ExportBytes(start, count)
}

// Buf exposes the backing buffer for the persister's chunked read/write path.
func (c *PointCollection) Buf() *buffer.Buffer { return c.buf }

// NewEmpty creates an empty PointCollection.
func (c *PointCollection) NewEmpty() Collection[point.Point] { return NewPointCollection() }

// ForEachLatLonE7 iterates raw E7 lat/lon pairs over [start, start+count).
func (c *PointCollection) ForEachLatLonE7(start, count int, f func(i int, latE7, lonE7 uint32) bool) error {
	return forEachLatLonE7(c.buf, start, count, f)
}

func encodePointInto(dst []byte, p point.Point) {
	binary.LittleEndian.PutUint32(dst[0:4], codec.EncodeTime(&p.Time))
	binary.LittleEndian.PutUint32(dst[4:8], codec.EncodeLatitude(p.Latitude))
	binary.LittleEndian.PutUint32(dst[8:12], codec.EncodeLongitude(p.Longitude))
	binary.LittleEndian.PutUint16(dst[12:14], uint16(codec.EncodeAltitude(p.Altitude))) //nolint:gosec
}

func decodePointFrom(src []byte) point.Point {
	timeRaw := binary.LittleEndian.Uint32(src[0:4])

	return point.Point{
		Time:      timeRaw,
		Latitude:  codec.DecodeLatitude(binary.LittleEndian.Uint32(src[4:8])),
		Longitude: codec.DecodeLongitude(binary.LittleEndian.Uint32(src[8:12])),
		Altitude:  codec.DecodeAltitude(int16(binary.LittleEndian.Uint16(src[12:14]))), //nolint:gosec
	}
}

// Push encodes and appends a Point.
func (c *PointCollection) Push(p point.Point) error {
	var rec [pointStride]byte
	encodePointInto(rec[:], p)
	c.buf.Push(rec[:])

	return nil
}

// Get decodes and returns record i.
func (c *PointCollection) Get(i int) (point.Point, error) {
	if err := checkIndex(i, c.Len()); err != nil {
		return point.Point{}, err
	}

	return decodePointFrom(c.buf.Record(i)), nil
}

// SpanAt decodes only the time field at offset 0.
func (c *PointCollection) SpanAt(i int) (uint32, uint32, error) {
	if err := checkIndex(i, c.Len()); err != nil {
		return 0, 0, err
	}
	rec := c.buf.Record(i)
	t := binary.LittleEndian.Uint32(rec[0:4])

	return t, t, nil
}

// LatLonAt decodes only the latitude/longitude fields at offsets 4 and 8.
func (c *PointCollection) LatLonAt(i int) (float64, float64, error) {
	if err := checkIndex(i, c.Len()); err != nil {
		return 0, 0, err
	}
	rec := c.buf.Record(i)
	lat := codec.DecodeLatitude(binary.LittleEndian.Uint32(rec[4:8]))
	lon := codec.DecodeLongitude(binary.LittleEndian.Uint32(rec[8:12]))

	return lat, lon, nil
}
