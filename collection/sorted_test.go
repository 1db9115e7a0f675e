package collection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/point"
)

func TestSortedAppendOrder(t *testing.T) {
	s := collection.NewSorted[point.Point](collection.NewPointCollection())

	ok, err := s.Push(point.Point{Time: 100})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Push(point.Point{Time: 200})
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, s.SortedByTime())
	require.Equal(t, 2, s.Len())

	ok, err = s.Push(point.Point{Time: 150})
	require.ErrorIs(t, err, errs.ErrSortingViolation)
	require.False(t, ok)
	require.Equal(t, 2, s.Len())
}

func TestSortedSkipWrongItems(t *testing.T) {
	s := collection.NewSorted[point.Point](collection.NewPointCollection())
	require.NoError(t, s.SetEnforcement(collection.SkipWrongItems))

	ok, err := s.Push(point.Point{Time: 10})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Push(point.Point{Time: 5})
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, s.Len())
}

func TestSortedNotRequiredClearsFlag(t *testing.T) {
	s := collection.NewSorted[point.Point](collection.NewPointCollection())
	require.NoError(t, s.SetEnforcement(collection.NotRequired))

	_, err := s.Push(point.Point{Time: 10})
	require.NoError(t, err)
	_, err = s.Push(point.Point{Time: 5})
	require.NoError(t, err)

	require.False(t, s.SortedByTime())
	require.Equal(t, 2, s.Len())
}

func TestSortedSetEnforcementRejectsWhileUnsorted(t *testing.T) {
	s := collection.NewSorted[point.Point](collection.NewPointCollection())
	require.NoError(t, s.SetEnforcement(collection.NotRequired))
	_, err := s.Push(point.Point{Time: 10})
	require.NoError(t, err)
	_, err = s.Push(point.Point{Time: 5})
	require.NoError(t, err)

	err = s.SetEnforcement(collection.ThrowIfWrong)
	require.ErrorIs(t, err, errs.ErrInvalidValue)
}

func TestSortedPushAllFastPath(t *testing.T) {
	source := collection.NewPointCollection()
	for _, ti := range []uint32{10, 20, 30} {
		require.NoError(t, source.Push(point.Point{Time: ti}))
	}

	s := collection.NewSorted[point.Point](collection.NewPointCollection())
	_, err := s.Push(point.Point{Time: 1})
	require.NoError(t, err)

	kept, err := s.PushAll(source, 0, 3)
	require.NoError(t, err)
	require.Equal(t, 3, kept)
	require.Equal(t, 4, s.Len())
	require.True(t, s.SortedByTime())
}

func TestSortedPushAllUnsortedSourceThrows(t *testing.T) {
	source := collection.NewPointCollection()
	for _, ti := range []uint32{30, 10, 20} {
		require.NoError(t, source.Push(point.Point{Time: ti}))
	}

	s := collection.NewSorted[point.Point](collection.NewPointCollection())
	_, err := s.PushAll(source, 0, 3)
	require.ErrorIs(t, err, errs.ErrSortingViolation)
}

func TestSortedPushAllSeq(t *testing.T) {
	s := collection.NewSorted[point.Point](collection.NewPointCollection())
	_, err := s.Push(point.Point{Time: 5})
	require.NoError(t, err)

	kept, err := s.PushAllSeq(func(yield func(point.Point) bool) {
		for _, ti := range []uint32{10, 20, 30} {
			if !yield(point.Point{Time: ti}) {
				return
			}
		}
	})
	require.NoError(t, err)
	require.Equal(t, 3, kept)
	require.Equal(t, 4, s.Len())
	require.True(t, s.SortedByTime())
}

func TestSortedPushAllSeqThrowsBeforeAppending(t *testing.T) {
	s := collection.NewSorted[point.Point](collection.NewPointCollection())
	_, err := s.Push(point.Point{Time: 50})
	require.NoError(t, err)

	_, err = s.PushAllSeq(func(yield func(point.Point) bool) {
		yield(point.Point{Time: 60})
		yield(point.Point{Time: 40}) // out of order
	})
	require.ErrorIs(t, err, errs.ErrSortingViolation)
	require.Equal(t, 1, s.Len())
}

func TestSortedPushAllSeqSkipWrongItems(t *testing.T) {
	s := collection.NewSorted[point.Point](collection.NewPointCollection())
	require.NoError(t, s.SetEnforcement(collection.SkipWrongItems))
	_, err := s.Push(point.Point{Time: 50})
	require.NoError(t, err)

	kept, err := s.PushAllSeq(func(yield func(point.Point) bool) {
		for _, ti := range []uint32{60, 40, 70} {
			if !yield(point.Point{Time: ti}) {
				return
			}
		}
	})
	require.NoError(t, err)
	require.Equal(t, 2, kept)
	require.Equal(t, 3, s.Len())
	require.True(t, s.SortedByTime())
}

func TestCheckContentsSortedByTimePromotesFlag(t *testing.T) {
	base := collection.NewPointCollection()
	for _, ti := range []uint32{10, 20, 30} {
		require.NoError(t, base.Push(point.Point{Time: ti}))
	}
	s := collection.NewSorted[point.Point](base)
	require.NoError(t, s.SetEnforcement(collection.NotRequired))

	sorted, err := s.CheckContentsSortedByTime(0, s.Len())
	require.NoError(t, err)
	require.True(t, sorted)
	require.True(t, s.SortedByTime())
}
