package collection

import (
	"fmt"
	"iter"

	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/point"
)

// Enforcement controls how Sorted.Push and Sorted.PushAll react when an
// append would break the monotonic-time invariant.
type Enforcement int

const (
	// ThrowIfWrong rejects a violating append, rolling back the inner
	// buffer and returning ErrSortingViolation. This is the default.
	ThrowIfWrong Enforcement = iota
	// SkipWrongItems rejects a violating append by rolling it back and
	// returning false, with no error.
	SkipWrongItems
	// NotRequired admits any append; sortedByTime is cleared the first
	// time an out-of-order record is seen and never set again except by
	// CheckContentsSortedByTime.
	NotRequired
)

// Sorted wraps a Collection[R], enforcing a sortedByTime invariant on Push
// and PushAll under a configurable Enforcement policy.
type Sorted[R Located] struct {
	inner        Collection[R]
	enforcement  Enforcement
	sortedByTime bool
}

// NewSorted wraps inner with the default ThrowIfWrong enforcement. inner must
// be empty or already known to be sorted by time; NewSorted does not scan it.
func NewSorted[R Located](inner Collection[R]) *Sorted[R] {
	return &Sorted[R]{inner: inner, enforcement: ThrowIfWrong, sortedByTime: true}
}

// Unwrap returns the wrapped collection.
func (s *Sorted[R]) Unwrap() Collection[R] { return s.inner }

// Enforcement returns the current enforcement policy.
func (s *Sorted[R]) Enforcement() Enforcement { return s.enforcement }

// SetEnforcement changes the enforcement policy. Switching to a stricter
// policy (anything but NotRequired) while the collection is currently
// unsorted is rejected: a ThrowIfWrong/SkipWrongItems wrapper must always be
// able to trust sortedByTime.
func (s *Sorted[R]) SetEnforcement(e Enforcement) error {
	if e != NotRequired && !s.sortedByTime {
		return fmt.Errorf("%w: cannot raise enforcement while unsorted", errs.ErrInvalidValue)
	}
	s.enforcement = e

	return nil
}

// SortedByTime reports whether every consecutive pair of records currently
// satisfies Before under the span comparator.
func (s *Sorted[R]) SortedByTime() bool { return s.sortedByTime }

func (s *Sorted[R]) Len() int                { return s.inner.Len() }
func (s *Sorted[R]) Get(i int) (R, error)    { return s.inner.Get(i) }
func (s *Sorted[R]) Cap() int                { return s.inner.Cap() }
func (s *Sorted[R]) SetCapacity(n int) error { return s.inner.SetCapacity(n) }

// compareLast compares records i-1 and i of the inner collection.
func (s *Sorted[R]) compareLast(i int) (point.Ordering, error) {
	return CompareElementTime(s.inner, i-1, i)
}

// Push appends r, enforcing sortedByTime per the wrapper's policy. It
// reports whether the record was kept: false means SkipWrongItems silently
// dropped it.
func (s *Sorted[R]) Push(r R) (bool, error) {
	if err := s.inner.Push(r); err != nil {
		return false, err
	}

	n := s.inner.Len()
	if n <= 1 {
		return true, nil
	}

	ord, err := s.compareLast(n - 1)
	if err != nil {
		return false, err
	}

	if ord == point.Before {
		return true, nil
	}

	if s.enforcement == NotRequired {
		s.sortedByTime = false

		return true, nil
	}

	if err := s.inner.Truncate(n - 1); err != nil {
		return false, err
	}

	if s.enforcement == ThrowIfWrong {
		return false, fmt.Errorf("%w: append would break sortedByTime", errs.ErrSortingViolation)
	}

	return false, nil
}

// PushAll bulk-appends source[skip:skip+take] (a same-typed collection),
// returning the number of records actually kept.
func (s *Sorted[R]) PushAll(source Collection[R], skip, take int) (int, error) {
	if skip < 0 || take < 0 || skip+take > source.Len() {
		return 0, fmt.Errorf("%w: skip %d take %d, source len %d", errs.ErrOutOfRange, skip, take, source.Len())
	}
	if take == 0 {
		return 0, nil
	}

	if s.enforcement == NotRequired || !s.sortedByTime {
		return s.pushAllRaw(source, skip, take)
	}

	return s.pushAllFast(source, skip, take)
}

// PushAllSeq bulk-appends an arbitrary record sequence. The sequence is
// materialized through a temporary same-typed collection under the same
// enforcement policy, prefixed with the wrapper's current last record as the
// comparison anchor, then appended via PushAll with the anchor skipped. Under
// ThrowIfWrong an out-of-order record fails during materialization, before
// anything reaches the wrapped collection.
func (s *Sorted[R]) PushAllSeq(seq iter.Seq[R]) (int, error) {
	tmp := s.inner.NewEmpty()
	anchor := 0
	if s.inner.Len() > 0 {
		last, err := s.inner.Get(s.inner.Len() - 1)
		if err != nil {
			return 0, err
		}
		if err := tmp.Push(last); err != nil {
			return 0, err
		}
		anchor = 1
	}

	tw := &Sorted[R]{inner: tmp, enforcement: s.enforcement, sortedByTime: true}
	for r := range seq {
		if _, err := tw.Push(r); err != nil {
			return 0, err
		}
	}

	return s.PushAll(tmp, anchor, tmp.Len()-anchor)
}

// pushAllRaw appends every record in [skip, skip+take) unconditionally, then
// rescans the affected tail to recompute sortedByTime.
func (s *Sorted[R]) pushAllRaw(source Collection[R], skip, take int) (int, error) {
	base := s.inner.Len()

	raw, err := source.ExportBytes(skip, take)
	if err != nil {
		return 0, err
	}
	if err := s.inner.PushRaw(raw); err != nil {
		return 0, err
	}

	start := base - 1
	if start < 0 {
		start = 0
	}
	if err := s.rescanFrom(start); err != nil {
		return 0, err
	}

	return take, nil
}

// rescanFrom recomputes sortedByTime by scanning from index start onward,
// short-circuiting at the first Before violation.
func (s *Sorted[R]) rescanFrom(start int) error {
	n := s.inner.Len()
	for i := start + 1; i < n; i++ {
		ord, err := s.compareLast(i)
		if err != nil {
			return err
		}
		if ord != point.Before {
			s.sortedByTime = false

			return nil
		}
	}

	return nil
}

// pushAllFast handles the currently-sorted, strict-enforcement path: it
// requires source[skip:skip+take] to be internally sorted, then appends the
// suffix that extends the wrapper's current sorted tail via a byte-copy
// fast path.
func (s *Sorted[R]) pushAllFast(source Collection[R], skip, take int) (int, error) {
	sourceSorted, err := isRangeSorted(source, skip, take)
	if err != nil {
		return 0, err
	}

	if !sourceSorted {
		if s.enforcement == ThrowIfWrong {
			return 0, fmt.Errorf("%w: source range is not sorted by time", errs.ErrSortingViolation)
		}

		return s.pushAllPerRecord(source, skip, take)
	}

	first := skip
	if s.inner.Len() > 0 {
		last := s.inner.Len() - 1
		for first < skip+take {
			ord, err := CompareElementToSpanBetween(s.inner, last, source, first)
			if err != nil {
				return 0, err
			}
			if ord == point.Before {
				break
			}
			if s.enforcement == ThrowIfWrong {
				return 0, fmt.Errorf("%w: append would break sortedByTime", errs.ErrSortingViolation)
			}
			first++ // SkipWrongItems: drop leading records that don't extend the tail
		}
	}

	kept := skip + take - first
	if kept <= 0 {
		return 0, nil
	}

	raw, err := source.ExportBytes(first, kept)
	if err != nil {
		return 0, err
	}
	if err := s.inner.PushRaw(raw); err != nil {
		return 0, err
	}

	return kept, nil
}

// pushAllPerRecord appends source[skip:skip+take] one record at a time under
// SkipWrongItems, used when the source range itself is not sorted.
func (s *Sorted[R]) pushAllPerRecord(source Collection[R], skip, take int) (int, error) {
	kept := 0
	for i := skip; i < skip+take; i++ {
		r, err := source.Get(i)
		if err != nil {
			return kept, err
		}
		ok, err := s.Push(r)
		if err != nil {
			return kept, err
		}
		if ok {
			kept++
		}
	}

	return kept, nil
}

// isRangeSorted reports whether c[start:start+n] is sorted by time.
func isRangeSorted[R Located](c Collection[R], start, n int) (bool, error) {
	for i := start + 1; i < start+n; i++ {
		ord, err := CompareElementTime(c, i-1, i)
		if err != nil {
			return false, err
		}
		if ord != point.Before {
			return false, nil
		}
	}

	return true, nil
}

// CheckContentsSortedByTime linearly scans [skip, skip+count); if the scan
// covers the whole collection and finds it sorted, sortedByTime is promoted
// to true. Nothing else can set the flag back to true once cleared.
func (s *Sorted[R]) CheckContentsSortedByTime(skip, count int) (bool, error) {
	sorted, err := isRangeSorted(s.inner, skip, count)
	if err != nil {
		return false, err
	}
	if sorted && skip == 0 && count == s.inner.Len() {
		s.sortedByTime = true
	}

	return sorted, nil
}
