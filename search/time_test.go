package search_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/point"
	"github.com/gpshistory/gpshistory/search"
)

func TestFindByTimeSortedExact(t *testing.T) {
	c := collection.NewPointCollection()
	for _, ti := range []uint32{10, 20, 30, 40} {
		require.NoError(t, c.Push(point.Point{Time: ti}))
	}

	idx, ok, err := search.FindByTime[point.Point](c, true, 30, nil, 0, c.Len())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, idx)
}

func TestFindByTimeWithTolerance(t *testing.T) {
	c := collection.NewPointCollection()
	for _, ti := range []uint32{10, 20, 30, 40} {
		require.NoError(t, c.Push(point.Point{Time: ti}))
	}

	tol := int64(3)
	idx, ok, err := search.FindByTime[point.Point](c, true, 22, &tol, 0, c.Len())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestFindByTimeUnsortedLinear(t *testing.T) {
	c := collection.NewPointCollection()
	for _, ti := range []uint32{40, 10, 30, 20} {
		require.NoError(t, c.Push(point.Point{Time: ti}))
	}

	idx, ok, err := search.FindByTime[point.Point](c, false, 30, nil, 0, c.Len())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, idx)
}
