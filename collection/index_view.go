package collection

import (
	"fmt"

	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/point"
)

// IndexView is a read-only projection of a base collection: it owns an
// array of indices into a borrowed base and never copies record data. u32
// indices are enough for roughly 65 years of one-record-per-second
// recording.
type IndexView[R Located] struct {
	base      Collection[R]
	sortedSrc SortedSource
	indices   []uint32

	sortedKnown  bool
	sortedByTime bool
}

// SortedSource reports whether an underlying collection is currently known
// to be sorted by time. *Sorted[R] satisfies it; a view constructed over a
// wrapper uses the flag to cheapen its own sortedness check.
type SortedSource interface {
	SortedByTime() bool
}

// NewIndexView wraps base with the given indices. The caller retains
// ownership of indices's backing array only conceptually: IndexView takes
// it over and Sublist slices it without copying.
func NewIndexView[R Located](base Collection[R], indices []uint32) *IndexView[R] {
	return &IndexView[R]{base: base, indices: indices}
}

// NewIndexViewOf wraps the collection inside s, observing s's sortedByTime
// flag so SortedByTime can reduce to a strictly-increasing-indices check
// when the base is sorted.
func NewIndexViewOf[R Located](s *Sorted[R], indices []uint32) *IndexView[R] {
	return &IndexView[R]{base: s.Unwrap(), sortedSrc: s, indices: indices}
}

// Len returns the number of indices in the view.
func (v *IndexView[R]) Len() int { return len(v.indices) }

// ReadOnly reports that a view never accepts writes; the persistence read
// flow uses this to refuse a view as a read target.
func (v *IndexView[R]) ReadOnly() bool { return true }

// Get decodes and returns the base record at view position i.
func (v *IndexView[R]) Get(i int) (R, error) {
	var zero R
	if i < 0 || i >= len(v.indices) {
		return zero, checkIndex(i, len(v.indices))
	}

	return v.base.Get(int(v.indices[i]))
}

// SpanAt returns the [start, end) span of the base record at view position i.
func (v *IndexView[R]) SpanAt(i int) (uint32, uint32, error) {
	if i < 0 || i >= len(v.indices) {
		return 0, 0, checkIndex(i, len(v.indices))
	}

	return v.base.SpanAt(int(v.indices[i]))
}

// LatLonAt returns the latitude/longitude of the base record at view
// position i.
func (v *IndexView[R]) LatLonAt(i int) (float64, float64, error) {
	if i < 0 || i >= len(v.indices) {
		return 0, 0, checkIndex(i, len(v.indices))
	}

	return v.base.LatLonAt(int(v.indices[i]))
}

// Sublist returns a new view sharing base and slicing indices[a:b]; no
// record data is copied.
func (v *IndexView[R]) Sublist(a, b int) (*IndexView[R], error) {
	if a < 0 || b < a || b > len(v.indices) {
		return nil, fmt.Errorf("%w: sublist [%d, %d), length %d", errs.ErrOutOfRange, a, b, len(v.indices))
	}

	return &IndexView[R]{base: v.base, sortedSrc: v.sortedSrc, indices: v.indices[a:b]}, nil
}

// SortedByTime reports whether the view's records, in view order, are
// sorted by time. If the view was built with NewIndexViewOf and the wrapper
// reports sortedByTime, this reduces to checking that indices is strictly
// increasing; otherwise every consecutive pair of records is compared
// directly. The result is cached after the
// first call since the view's indices never change after construction.
func (v *IndexView[R]) SortedByTime() (bool, error) {
	if v.sortedKnown {
		return v.sortedByTime, nil
	}

	sorted, err := v.computeSortedByTime()
	if err != nil {
		return false, err
	}
	v.sortedKnown = true
	v.sortedByTime = sorted

	return sorted, nil
}

func (v *IndexView[R]) computeSortedByTime() (bool, error) {
	if len(v.indices) < 2 {
		return true, nil
	}

	if v.sortedSrc != nil && v.sortedSrc.SortedByTime() {
		for i := 1; i < len(v.indices); i++ {
			if v.indices[i] <= v.indices[i-1] {
				return false, nil
			}
		}

		return true, nil
	}

	for i := 1; i < len(v.indices); i++ {
		aStart, aEnd, err := v.base.SpanAt(int(v.indices[i-1]))
		if err != nil {
			return false, err
		}
		bStart, bEnd, err := v.base.SpanAt(int(v.indices[i]))
		if err != nil {
			return false, err
		}
		if point.CompareSpan(aStart, aEnd, bStart, bEnd) != point.Before {
			return false, nil
		}
	}

	return true, nil
}
