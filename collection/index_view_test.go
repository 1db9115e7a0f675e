package collection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/point"
)

func buildIndexViewFixture(t *testing.T) *collection.PointCollection {
	t.Helper()
	base := collection.NewPointCollection()
	for ti := uint32(1); ti <= 10; ti++ {
		require.NoError(t, base.Push(point.Point{Time: ti}))
	}

	return base
}

func TestIndexViewSlicing(t *testing.T) {
	base := buildIndexViewFixture(t)
	view := collection.NewIndexView[point.Point](base, []uint32{9, 0, 5, 3})

	require.Equal(t, 4, view.Len())
	first, err := view.Get(0)
	require.NoError(t, err)
	require.Equal(t, uint32(10), first.Time)

	sorted, err := view.SortedByTime()
	require.NoError(t, err)
	require.False(t, sorted)

	sub, err := view.Sublist(1, 3)
	require.NoError(t, err)
	require.Equal(t, 2, sub.Len())
	sortedSub, err := sub.SortedByTime()
	require.NoError(t, err)
	require.True(t, sortedSub)
}

func TestIndexViewOfSortedBaseUsesIndexOrder(t *testing.T) {
	s := collection.NewSorted[point.Point](collection.NewPointCollection())
	for ti := uint32(1); ti <= 10; ti++ {
		ok, err := s.Push(point.Point{Time: ti})
		require.NoError(t, err)
		require.True(t, ok)
	}

	view := collection.NewIndexViewOf(s, []uint32{0, 3, 5})
	sorted, err := view.SortedByTime()
	require.NoError(t, err)
	require.True(t, sorted)

	view = collection.NewIndexViewOf(s, []uint32{5, 3, 0})
	sorted, err = view.SortedByTime()
	require.NoError(t, err)
	require.False(t, sorted)

	sub, err := view.Sublist(1, 3) // indices [3, 0]
	require.NoError(t, err)
	sorted, err = sub.SortedByTime()
	require.NoError(t, err)
	require.False(t, sorted)
}

func TestIndexViewOutOfRange(t *testing.T) {
	base := buildIndexViewFixture(t)
	view := collection.NewIndexView[point.Point](base, []uint32{0, 1})

	_, err := view.Get(5)
	require.Error(t, err)
}
