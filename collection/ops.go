package collection

import (
	"encoding/binary"
	"fmt"

	"github.com/gpshistory/gpshistory/buffer"
	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/point"
)

// CompareElementTime compares the time spans of records i and j within c.
func CompareElementTime[R Located](c Collection[R], i, j int) (point.Ordering, error) {
	aStart, aEnd, err := c.SpanAt(i)
	if err != nil {
		return 0, err
	}
	bStart, bEnd, err := c.SpanAt(j)
	if err != nil {
		return 0, err
	}

	return point.CompareSpan(aStart, aEnd, bStart, bEnd), nil
}

// CompareElementToTime compares record i's span against the instant t,
// treated as a zero-duration span.
func CompareElementToTime[R Located](c Collection[R], i int, t uint32) (point.Ordering, error) {
	return CompareElementToSpan(c, i, t, t)
}

// CompareElementToSpan compares record i's span against an arbitrary
// [start, end) span.
func CompareElementToSpan[R Located](c Collection[R], i int, start, end uint32) (point.Ordering, error) {
	aStart, aEnd, err := c.SpanAt(i)
	if err != nil {
		return 0, err
	}

	return point.CompareSpan(aStart, aEnd, start, end), nil
}

// DiffElementToTime returns the signed distance, in seconds, from t to record
// i's span: zero when t falls within the span (Same or Overlapping), the
// positive distance from the span's end when the span is Before t, and the
// negative distance from the span's start when the span is After t. This is
// monotonic in index for a sorted collection, which is what the binary
// search tolerance probe relies on.
func DiffElementToTime[R Located](c Collection[R], i int, t uint32) (int64, error) {
	start, end, err := c.SpanAt(i)
	if err != nil {
		return 0, err
	}

	switch point.CompareSpan(start, end, t, t) {
	case point.Before:
		return int64(t) - int64(end), nil
	case point.After:
		return int64(t) - int64(start), nil
	default: // Same or Overlapping
		return 0, nil
	}
}

// CompareElementToSpanBetween compares record i of collection a against
// record j of collection b. It is the cross-collection counterpart of
// CompareElementTime, used by the sorting wrapper's bulk-append fast path to
// compare its own tail against a foreign source collection.
func CompareElementToSpanBetween[R Located](a Collection[R], i int, b Collection[R], j int) (point.Ordering, error) {
	aStart, aEnd, err := a.SpanAt(i)
	if err != nil {
		return 0, err
	}
	bStart, bEnd, err := b.SpanAt(j)
	if err != nil {
		return 0, err
	}

	return point.CompareSpan(aStart, aEnd, bStart, bEnd), nil
}

// ElementInBoundingBox reports whether record i's lat/lon falls within bb.
func ElementInBoundingBox[R Located](c Collection[R], i int, bb point.BoundingBox) (bool, error) {
	lat, lon, err := c.LatLonAt(i)
	if err != nil {
		return false, err
	}

	return bb.Contains(lat, lon), nil
}

// forEachLatLonE7 walks [start, start+count) of buf, handing f the raw E7
// lat/lon integers at offsets 4 and 8 of each record. All three record
// layouts share those offsets in their common Point prefix, so one
// helper serves every collection. count < 0 means through the end.
func forEachLatLonE7(buf *buffer.Buffer, start, count int, f func(i int, latE7, lonE7 uint32) bool) error {
	n := buf.Len()
	if count < 0 {
		count = n - start
	}
	if start < 0 || count < 0 || start+count > n {
		return fmt.Errorf("%w: range [%d, %d), length %d", errs.ErrOutOfRange, start, start+count, n)
	}

	for i := start; i < start+count; i++ {
		rec := buf.Record(i)
		latE7 := binary.LittleEndian.Uint32(rec[4:8])
		lonE7 := binary.LittleEndian.Uint32(rec[8:12])
		if !f(i, latE7, lonE7) {
			return nil
		}
	}

	return nil
}

// checkIndex is a shared bounds-check helper for SpanAt/LatLonAt implementations.
func checkIndex(i, length int) error {
	if i < 0 || i >= length {
		return fmt.Errorf("%w: index %d, length %d", errs.ErrOutOfRange, i, length)
	}

	return nil
}
