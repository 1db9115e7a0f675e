// Package point defines the three GPS record variants (Point, Measurement,
// Stay), their validity constraints, and the shared time-comparison and
// bounding-box capability used by the collection, sorting, search, and query
// layers. The three variants are modeled as a tagged family of structs
// (Measurement and Stay embed Point) rather than a class hierarchy, with
// polymorphic time comparison expressed through the Timed interface.
package point

import (
	"fmt"

	"github.com/gpshistory/gpshistory/errs"
)

// Ordering is the outcome of comparing two records' time spans.
type Ordering int

const (
	// Before means the first record's span ends no later than the second's
	// starts (and they don't share a start).
	Before Ordering = iota
	// After is the mirror of Before.
	After
	// Same means both spans have identical start and end.
	Same
	// Overlapping means the spans share time without being identical.
	Overlapping
)

func (o Ordering) String() string {
	switch o {
	case Before:
		return "Before"
	case After:
		return "After"
	case Same:
		return "Same"
	case Overlapping:
		return "Overlapping"
	default:
		return "Unknown"
	}
}

// Timed is the capability every record variant provides for time comparison:
// a half-open [start, end) span. Point and Measurement report a zero-duration
// span (start == end); Stay reports its actual dwell span.
type Timed interface {
	SpanStart() uint32
	SpanEnd() uint32
}

// CompareSpan implements the four-rule span comparator:
//  1. aEnd <= bStart && aStart != bStart -> Before
//  2. bEnd <= aStart && aStart != bStart -> After
//  3. aStart == bStart && aEnd == bEnd -> Same
//  4. otherwise -> Overlapping
//
// For zero-duration spans (Point/Measurement) this reduces to a plain integer
// compare on start time, since start == end for both operands.
func CompareSpan(aStart, aEnd, bStart, bEnd uint32) Ordering {
	switch {
	case aEnd <= bStart && aStart != bStart:
		return Before
	case bEnd <= aStart && aStart != bStart:
		return After
	case aStart == bStart && aEnd == bEnd:
		return Same
	default:
		return Overlapping
	}
}

// Compare compares two Timed values using CompareSpan.
func Compare(a, b Timed) Ordering {
	return CompareSpan(a.SpanStart(), a.SpanEnd(), b.SpanStart(), b.SpanEnd())
}

// BoundingBox is an axis-aligned lat/lon rectangle used by the data
// availability query via collection.ElementInBoundingBox. Geometry beyond simple
// containment (distance, great-circle math) is left to callers.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains reports whether (lat, lon) falls within the box, inclusive.
func (bb BoundingBox) Contains(lat, lon float64) bool {
	return lat >= bb.MinLat && lat <= bb.MaxLat && lon >= bb.MinLon && lon <= bb.MaxLon
}

// Point is the base GPS record: a single observation in time.
type Point struct {
	// Time is seconds since epoch; required.
	Time uint32
	// Latitude is in degrees; out-of-range values are clamped on encode.
	Latitude float64
	// Longitude is in degrees; out-of-range values are clamped on encode.
	Longitude float64
	// Altitude is in meters; nil means unknown.
	Altitude *float64
}

// SpanStart implements Timed.
func (p Point) SpanStart() uint32 { return p.Time }

// SpanEnd implements Timed; Point has zero duration.
func (p Point) SpanEnd() uint32 { return p.Time }

// Lat returns the latitude in degrees.
func (p Point) Lat() float64 { return p.Latitude }

// Lon returns the longitude in degrees.
func (p Point) Lon() float64 { return p.Longitude }

// Measurement extends Point with instantaneous sensor readings. Heading is
// normalized modulo 360 by the codec on encode; all four fields are
// non-negative small floats or nil.
type Measurement struct {
	Point
	Accuracy      *float64
	Heading       *float64
	Speed         *float64
	SpeedAccuracy *float64
}

// Stay extends Point with a dwell duration: the subject remained within some
// caller-defined area from Time through EndTime.
type Stay struct {
	Point
	Accuracy *float64
	EndTime  uint32
}

// SpanEnd overrides Point's zero-duration span with the stay's actual end.
func (s Stay) SpanEnd() uint32 { return s.EndTime }

// NewStay constructs a Stay, defaulting EndTime to p.Time when endTime is
// nil. Returns errs.ErrInvalidValue if endTime is before p.Time.
func NewStay(p Point, accuracy *float64, endTime *uint32) (Stay, error) {
	if endTime == nil {
		return Stay{Point: p, Accuracy: accuracy, EndTime: p.Time}, nil
	}
	if *endTime < p.Time {
		return Stay{}, fmt.Errorf("%w: endTime %d before time %d", errs.ErrInvalidValue, *endTime, p.Time)
	}

	return Stay{Point: p, Accuracy: accuracy, EndTime: *endTime}, nil
}
