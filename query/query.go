// Package query implements the flat, cheaply-transferable read-only
// operations over a collection: collection summary info, range copies,
// time-tolerant point lookup, and interval-bucketed data-availability
// classification.
package query

import (
	"fmt"

	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/point"
	"github.com/gpshistory/gpshistory/search"
)

// CollectionInfo summarizes a collection's extent.
type CollectionInfo struct {
	FirstStartTime *uint32
	LastEndTime    *uint32
	Length         int
}

// Info computes CollectionInfo for c.
func Info[R collection.Located](c collection.Collection[R]) (CollectionInfo, error) {
	n := c.Len()
	if n == 0 {
		return CollectionInfo{Length: 0}, nil
	}

	first, _, err := c.SpanAt(0)
	if err != nil {
		return CollectionInfo{}, err
	}
	_, last, err := c.SpanAt(n - 1)
	if err != nil {
		return CollectionInfo{}, err
	}

	return CollectionInfo{FirstStartTime: &first, LastEndTime: &last, Length: n}, nil
}

// Items copies c[start:start+count) into a newly constructed collection of
// the same concrete type. count < 0 defaults to length-start.
func Items[R collection.Located](c collection.Collection[R], start, count int) (collection.Collection[R], error) {
	if start < 0 || start > c.Len() {
		return nil, fmt.Errorf("%w: start %d, length %d", errs.ErrOutOfRange, start, c.Len())
	}
	if count < 0 {
		count = c.Len() - start
	}
	if start+count > c.Len() {
		return nil, fmt.Errorf("%w: start %d count %d, length %d", errs.ErrOutOfRange, start, count, c.Len())
	}

	raw, err := c.ExportBytes(start, count)
	if err != nil {
		return nil, err
	}

	out := c.NewEmpty()
	if err := out.PushRaw(raw); err != nil {
		return nil, err
	}

	return out, nil
}

// LocationByTime returns the record whose span contains time, or the
// nearest one within toleranceSeconds if no exact match exists and
// toleranceSeconds is non-nil. ok is false when nothing qualifies.
func LocationByTime[R collection.Located](c collection.Collection[R], sorted bool, t uint32, toleranceSeconds *int64) (R, bool, error) {
	var zero R

	idx, ok, err := search.FindByTime[R](c, sorted, t, toleranceSeconds, 0, c.Len())
	if err != nil || !ok {
		return zero, false, err
	}

	rec, err := c.Get(idx)

	return rec, err == nil, err
}

// Availability classifies each of nrIntervals equal-duration sub-intervals
// of [startTime, endTime].
type Availability byte

const (
	NotAvailable Availability = iota
	AvailableOutsideBoundingBox
	AvailableWithinBoundingBox
)

// DataAvailability buckets [startTime, endTime] into nrIntervals equal
// sub-intervals and classifies each one. When sorted, a record near each
// interval is located via binary search on the interval's midpoint with
// tolerance equal to the interval span, and its neighbours are walked
// outward; otherwise every record is linearly scanned per interval.
func DataAvailability[R collection.Located](
	c collection.Collection[R], sorted bool, startTime, endTime uint32, nrIntervals int, box *point.BoundingBox,
) ([]Availability, error) {
	if nrIntervals <= 0 {
		return nil, fmt.Errorf("%w: nrIntervals must be positive, got %d", errs.ErrInvalidValue, nrIntervals)
	}
	if endTime < startTime {
		return nil, fmt.Errorf("%w: endTime %d before startTime %d", errs.ErrInvalidValue, endTime, startTime)
	}

	out := make([]Availability, nrIntervals)
	span := float64(endTime-startTime) / float64(nrIntervals)

	for k := 0; k < nrIntervals; k++ {
		lo := startTime + uint32(float64(k)*span)
		hi := startTime + uint32(float64(k+1)*span)
		if k == nrIntervals-1 {
			hi = endTime
		}

		classified, err := classifyInterval(c, sorted, lo, hi, box)
		if err != nil {
			return nil, err
		}
		out[k] = classified
	}

	return out, nil
}

// classifyInterval decides a record's membership in [lo, hi) with the same
// four-rule span comparator the sorting wrapper uses, so a stay ending
// exactly at lo does not count toward the interval.
func classifyInterval[R collection.Located](c collection.Collection[R], sorted bool, lo, hi uint32, box *point.BoundingBox) (Availability, error) {
	if sorted {
		return classifyIntervalSorted(c, lo, hi, box)
	}

	return classifyIntervalLinear(c, lo, hi, box)
}

func classifyIntervalSorted[R collection.Located](c collection.Collection[R], lo, hi uint32, box *point.BoundingBox) (Availability, error) {
	mid := lo + (hi-lo)/2
	tol := int64(hi - lo)
	idx, ok, err := search.FindByTime[R](c, true, mid, &tol, 0, c.Len())
	if err != nil {
		return NotAvailable, err
	}
	if !ok {
		return NotAvailable, nil
	}

	best := NotAvailable
	for i := idx; i >= 0; i-- {
		ord, err := collection.CompareElementToSpan(c, i, lo, hi)
		if err != nil {
			return NotAvailable, err
		}
		if ord == point.Before {
			break
		}
		if ord == point.After {
			continue
		}
		cls, err := classifyRecord(c, i, box)
		if err != nil {
			return NotAvailable, err
		}
		if cls == AvailableWithinBoundingBox {
			return cls, nil
		}
		if cls > best {
			best = cls
		}
	}
	for i := idx + 1; i < c.Len(); i++ {
		ord, err := collection.CompareElementToSpan(c, i, lo, hi)
		if err != nil {
			return NotAvailable, err
		}
		if ord == point.After {
			break
		}
		if ord == point.Before {
			continue
		}
		cls, err := classifyRecord(c, i, box)
		if err != nil {
			return NotAvailable, err
		}
		if cls == AvailableWithinBoundingBox {
			return cls, nil
		}
		if cls > best {
			best = cls
		}
	}

	return best, nil
}

func classifyIntervalLinear[R collection.Located](c collection.Collection[R], lo, hi uint32, box *point.BoundingBox) (Availability, error) {
	best := NotAvailable
	for i := 0; i < c.Len(); i++ {
		ord, err := collection.CompareElementToSpan(c, i, lo, hi)
		if err != nil {
			return NotAvailable, err
		}
		if ord == point.Before || ord == point.After {
			continue
		}
		cls, err := classifyRecord(c, i, box)
		if err != nil {
			return NotAvailable, err
		}
		if cls == AvailableWithinBoundingBox {
			return cls, nil
		}
		if cls > best {
			best = cls
		}
	}

	return best, nil
}

func classifyRecord[R collection.Located](c collection.Collection[R], i int, box *point.BoundingBox) (Availability, error) {
	if box == nil {
		return AvailableOutsideBoundingBox, nil
	}

	within, err := collection.ElementInBoundingBox(c, i, *box)
	if err != nil {
		return NotAvailable, err
	}
	if within {
		return AvailableWithinBoundingBox, nil
	}

	return AvailableOutsideBoundingBox, nil
}
