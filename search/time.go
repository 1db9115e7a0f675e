package search

import (
	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/point"
)

// FindByTime locates the record in c[start:end) whose span contains t,
// using a binary search when sorted reports true and a linear scan
// otherwise; this is the time-comparator specialization backing
// LocationByTime. toleranceSeconds, if non-nil, allows a nearest-match
// fallback within that many seconds.
func FindByTime[R collection.Located](c collection.Collection[R], sorted bool, t uint32, toleranceSeconds *int64, start, end int) (int, bool, error) {
	var opErr error

	cmp := func(i int) int {
		ord, err := collection.CompareElementToTime(c, i, t)
		if err != nil {
			opErr = err

			return 0
		}

		switch ord {
		case point.Before:
			return -1
		case point.After:
			return 1
		default: // Same or Overlapping
			return 0
		}
	}

	var diff DiffFunc
	if toleranceSeconds != nil {
		diff = func(i int) int64 {
			d, err := collection.DiffElementToTime(c, i, t)
			if err != nil {
				opErr = err

				return 0
			}

			return d
		}
	}

	idx, ok, err := Find(sorted, cmp, diff, toleranceSeconds, start, end)
	if err != nil {
		return 0, false, err
	}
	if opErr != nil {
		return 0, false, opErr
	}

	return idx, ok, nil
}
