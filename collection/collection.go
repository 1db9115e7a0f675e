// Package collection provides the three fixed-layout compact columnar
// collections (PointCollection, MeasurementCollection, StayCollection), a
// common Collection interface over them, and the index-addressed auxiliary
// operations (span/lat-lon access without full-record decode) that the
// search and query layers use.
package collection

import (
	"github.com/gpshistory/gpshistory/point"
)

// Located is the capability a record type must provide to live in a
// collection: a time span (point.Timed) plus latitude/longitude.
type Located interface {
	point.Timed
	Lat() float64
	Lon() float64
}

// Collection is the common interface implemented by PointCollection,
// MeasurementCollection, and StayCollection. R is the decoded record type.
//
// SpanAt and LatLonAt give index-addressed access to the fields a search or
// query needs without decoding every field of a full record.
type Collection[R Located] interface {
	// Len returns the number of records stored.
	Len() int
	// Cap returns the number of records the collection can hold without
	// reallocating.
	Cap() int
	// SetCapacity pre-reserves capacity; fails if n < Len().
	SetCapacity(n int) error
	// Get decodes and returns record i.
	Get(i int) (R, error)
	// Push encodes and appends r.
	Push(r R) error
	// PushRaw appends pre-encoded raw bytes, a whole multiple of Stride().
	PushRaw(data []byte) error
	// ExportBytes returns a zero-copy view of count encoded records
	// starting at start.
	ExportBytes(start, count int) ([]byte, error)
	// Stride returns the fixed per-record byte width.
	Stride() int
	// TypeName identifies the concrete collection type, used to derive the
	// persister signature.
	TypeName() string
	// SpanAt returns record i's [start, end) time span without decoding the
	// rest of the record.
	SpanAt(i int) (start, end uint32, err error)
	// LatLonAt returns record i's latitude/longitude without decoding the
	// rest of the record.
	LatLonAt(i int) (lat, lon float64, err error)
	// Truncate drops the collection to n records; used by the sorting
	// wrapper to roll back a rejected append.
	Truncate(n int) error
	// NewEmpty creates an empty collection of the same concrete type; used
	// by the sorting wrapper to materialize an arbitrary record sequence
	// before bulk append.
	NewEmpty() Collection[R]
	// ForEachLatLonE7 calls f for every record in [start, start+count) with
	// the raw E7-encoded latitude/longitude, skipping the float decode in
	// hot loops. count < 0 means through the end. Returning false from f
	// stops the iteration early.
	ForEachLatLonE7(start, count int, f func(i int, latE7, lonE7 uint32) bool) error
}
