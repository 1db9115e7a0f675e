// Package gpshistory provides compact columnar storage for GPS point,
// measurement, and stay history: a sorting-disciplined append path, a
// versioned self-describing persistence container, and time/bounding-box
// search and query primitives.
//
// # Core Features
//
//   - Fixed-stride columnar collections for Point, Measurement, and Stay
//     records, with sentinel-NULL-aware codecs for optional fields
//   - A sorting wrapper enforcing a monotonic-time invariant with
//     configurable strictness
//   - A versioned, self-describing binary container format with a
//     process-wide registry of per-collection persisters
//   - Time-tolerant and bounding-box-aware search and query helpers
//   - Streaming JSON ingestion and a stays-merging transducer at the
//     collection boundary
//
// # Basic usage
//
//	points := gpshistory.NewSortedPoints()
//	points.Push(point.Point{Time: 1000, Latitude: 40.7128, Longitude: -74.0060})
//
//	var buf bytes.Buffer
//	gpshistory.WritePoints(context.Background(), &buf, points.Unwrap().(*collection.PointCollection))
//
// For fine-grained control, use the collection, persist, search, query,
// ingest, and merge packages directly.
package gpshistory

import (
	"context"
	"io"

	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/persist"
	"github.com/gpshistory/gpshistory/point"
)

// NewSortedPoints creates an empty, sorting-disciplined PointCollection
// with the default ThrowIfWrong enforcement.
func NewSortedPoints() *collection.Sorted[point.Point] {
	return collection.NewSorted[point.Point](collection.NewPointCollection())
}

// NewSortedMeasurements creates an empty, sorting-disciplined
// MeasurementCollection with the default ThrowIfWrong enforcement.
func NewSortedMeasurements() *collection.Sorted[point.Measurement] {
	return collection.NewSorted[point.Measurement](collection.NewMeasurementCollection())
}

// NewSortedStays creates an empty, sorting-disciplined StayCollection with
// the default ThrowIfWrong enforcement.
func NewSortedStays() *collection.Sorted[point.Stay] {
	return collection.NewSorted[point.Stay](collection.NewStayCollection())
}

// WritePoints serializes src's container header and body to w using the
// process-wide persister registry and the default container signature.
func WritePoints(ctx context.Context, w io.Writer, src *collection.PointCollection) error {
	return persist.Write(ctx, w, persist.DefaultRegistry(), src, "")
}

// ReadPoints deserializes a container from r into dst, which must be empty.
func ReadPoints(ctx context.Context, r io.Reader, dst *collection.PointCollection) error {
	return persist.Read(ctx, r, persist.DefaultRegistry(), dst, "")
}

// WriteMeasurements serializes src's container header and body to w using
// the process-wide persister registry and the default container signature.
func WriteMeasurements(ctx context.Context, w io.Writer, src *collection.MeasurementCollection) error {
	return persist.Write(ctx, w, persist.DefaultRegistry(), src, "")
}

// ReadMeasurements deserializes a container from r into dst, which must be
// empty.
func ReadMeasurements(ctx context.Context, r io.Reader, dst *collection.MeasurementCollection) error {
	return persist.Read(ctx, r, persist.DefaultRegistry(), dst, "")
}

// WriteStays serializes src's container header and body to w using the
// process-wide persister registry and the default container signature.
func WriteStays(ctx context.Context, w io.Writer, src *collection.StayCollection) error {
	return persist.Write(ctx, w, persist.DefaultRegistry(), src, "")
}

// ReadStays deserializes a container from r into dst, which must be empty.
func ReadStays(ctx context.Context, r io.Reader, dst *collection.StayCollection) error {
	return persist.Read(ctx, r, persist.DefaultRegistry(), dst, "")
}
