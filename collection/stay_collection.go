package collection

import (
	"encoding/binary"
	"fmt"

	"github.com/gpshistory/gpshistory/buffer"
	"github.com/gpshistory/gpshistory/codec"
	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/point"
)

// stayStride is the fixed byte width of a Stay record.
const stayStride = 20

// StayCollection is a compact, append-only columnar collection of
// point.Stay records. It shares the 14-byte Point prefix and adds,
// little-endian:
//
//	offset 14 size 2  accuracy         (u16 small double, nullable)
//	offset 16 size 4  endTime-delta    (u32 seconds added to time; NULL sentinel
//	                                     means "unspecified", decodes to time)
type StayCollection struct {
	buf *buffer.Buffer
}

// NewStayCollection creates an empty StayCollection.
func NewStayCollection() *StayCollection {
	return &StayCollection{buf: buffer.New(stayStride)}
}

var _ Collection[point.Stay] = (*StayCollection)(nil)

// Truncate drops the collection to n records.
func (c *StayCollection) Truncate(n int) error {
	if n < 0 || n > c.Len() {
		return fmt.Errorf("%w: truncate length %d, have %d", errs.ErrOutOfRange, n, c.Len())
	}
	c.buf.Truncate(n)

	return nil
}

func (c *StayCollection) Len() int                  { return c.buf.Len() }
func (c *StayCollection) Cap() int                  { return c.buf.Cap() }
func (c *StayCollection) SetCapacity(n int) error   { return c.buf.SetCapacity(n) }
func (c *StayCollection) Stride() int               { return stayStride }
func (c *StayCollection) TypeName() string          { return "StayCollection" }
func (c *StayCollection) PushRaw(data []byte) error { return c.buf.PushRaw(data) }
func (c *StayCollection) ExportBytes(start, count int) ([]byte, error) {
	return c.buf.ExportBytes(start, count)
}

// Buf exposes the backing buffer for the persister's chunked read/write path.
func (c *StayCollection) Buf() *buffer.Buffer { return c.buf }

// NewEmpty creates an empty StayCollection.
func (c *StayCollection) NewEmpty() Collection[point.Stay] { return NewStayCollection() }

// ForEachLatLonE7 iterates raw E7 lat/lon pairs over [start, start+count).
func (c *StayCollection) ForEachLatLonE7(start, count int, f func(i int, latE7, lonE7 uint32) bool) error {
	return forEachLatLonE7(c.buf, start, count, f)
}

func (c *StayCollection) Push(s point.Stay) error {
	var rec [stayStride]byte
	encodePointInto(rec[:14], s.Point)
	binary.LittleEndian.PutUint16(rec[14:16], codec.EncodeSmallDouble(s.Accuracy))

	delta := uint32(s.EndTime - s.Time) //nolint:gosec
	if delta == codec.TimeNull {
		delta-- // never collide with the "unspecified" sentinel
	}
	binary.LittleEndian.PutUint32(rec[16:20], delta)
	c.buf.Push(rec[:])

	return nil
}

func (c *StayCollection) Get(i int) (point.Stay, error) {
	if err := checkIndex(i, c.Len()); err != nil {
		return point.Stay{}, err
	}
	rec := c.buf.Record(i)
	p := decodePointFrom(rec[:14])
	accuracy := codec.DecodeSmallDouble(binary.LittleEndian.Uint16(rec[14:16]))
	deltaRaw := binary.LittleEndian.Uint32(rec[16:20])

	endTime := p.Time
	if deltaRaw != codec.TimeNull {
		endTime = p.Time + deltaRaw
	}

	return point.Stay{Point: p, Accuracy: accuracy, EndTime: endTime}, nil
}

// SpanAt decodes only the time and endTime-delta fields, at offsets 0 and 16.
func (c *StayCollection) SpanAt(i int) (uint32, uint32, error) {
	if err := checkIndex(i, c.Len()); err != nil {
		return 0, 0, err
	}
	rec := c.buf.Record(i)
	start := binary.LittleEndian.Uint32(rec[0:4])
	deltaRaw := binary.LittleEndian.Uint32(rec[16:20])

	end := start
	if deltaRaw != codec.TimeNull {
		end = start + deltaRaw
	}

	return start, end, nil
}

// LatLonAt decodes only the latitude/longitude fields at offsets 4 and 8.
func (c *StayCollection) LatLonAt(i int) (float64, float64, error) {
	if err := checkIndex(i, c.Len()); err != nil {
		return 0, 0, err
	}
	rec := c.buf.Record(i)
	lat := codec.DecodeLatitude(binary.LittleEndian.Uint32(rec[4:8]))
	lon := codec.DecodeLongitude(binary.LittleEndian.Uint32(rec[8:12]))

	return lat, lon, nil
}
