// Package search implements linear/binary search dispatch: a comparator
// against an indexed collection, with an optional difference function
// enabling tolerance-based nearest-match fallback.
package search

import (
	"fmt"

	"github.com/gpshistory/gpshistory/errs"
)

// Comparator compares record i of a collection against an implicit target,
// returning a negative, zero, or positive int the way sort.Search expects
// its less-than predicate boundary to behave: negative means record i comes
// before the target, positive means after, zero means a match.
type Comparator func(i int) int

// DiffFunc returns the signed distance from record i to the target, used
// only when an exact match isn't found and a tolerance was supplied.
type DiffFunc func(i int) int64

// Find locates an index in [start, end) using cmp, choosing a linear or
// binary strategy based on sorted. If tolerance is non-nil, diff must be
// non-nil; on no exact match, the index with the smallest |diff| within
// tolerance is returned, ties broken toward the lower index.
func Find(sorted bool, cmp Comparator, diff DiffFunc, tolerance *int64, start, end int) (int, bool, error) {
	if tolerance != nil && diff == nil {
		return 0, false, fmt.Errorf("%w: tolerance requires a diff function", errs.ErrInvalidValue)
	}
	if start < 0 || end < start {
		return 0, false, fmt.Errorf("%w: invalid range [%d, %d)", errs.ErrOutOfRange, start, end)
	}

	if sorted {
		return findBinary(cmp, diff, tolerance, start, end)
	}

	return findLinear(cmp, diff, tolerance, start, end)
}

func findLinear(cmp Comparator, diff DiffFunc, tolerance *int64, start, end int) (int, bool, error) {
	bestIdx := -1
	var bestAbs int64

	for i := start; i < end; i++ {
		c := cmp(i)
		if c == 0 {
			return i, true, nil
		}
		if tolerance == nil {
			continue
		}

		d := diff(i)
		abs := d
		if abs < 0 {
			abs = -abs
		}
		if abs <= *tolerance && (bestIdx == -1 || abs < bestAbs) {
			bestIdx, bestAbs = i, abs
		}
	}

	if bestIdx == -1 {
		return 0, false, nil
	}

	return bestIdx, true, nil
}

func findBinary(cmp Comparator, diff DiffFunc, tolerance *int64, start, end int) (int, bool, error) {
	lo, hi := start, end
	for lo < hi {
		mid := lo + (hi-lo)/2
		c := cmp(mid)
		switch {
		case c == 0:
			return mid, true, nil
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}

	if tolerance == nil {
		return 0, false, nil
	}

	// lo is the insertion point; the nearest match is one of lo-1 or lo.
	bestIdx := -1
	var bestAbs int64
	for _, i := range []int{lo - 1, lo} {
		if i < start || i >= end {
			continue
		}
		d := diff(i)
		abs := d
		if abs < 0 {
			abs = -abs
		}
		if abs <= *tolerance && (bestIdx == -1 || abs < bestAbs || (abs == bestAbs && i < bestIdx)) {
			bestIdx, bestAbs = i, abs
		}
	}

	if bestIdx == -1 {
		return 0, false, nil
	}

	return bestIdx, true, nil
}
