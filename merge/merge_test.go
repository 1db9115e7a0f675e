package merge_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/merge"
	"github.com/gpshistory/gpshistory/point"
)

func euclidean(a, b point.Point) float64 {
	dLat := a.Latitude - b.Latitude
	dLon := a.Longitude - b.Longitude

	return math.Sqrt(dLat*dLat + dLon*dLon)
}

func TestStaysMergerCollapsesDenseRun(t *testing.T) {
	dst := collection.NewSorted[point.Stay](collection.NewStayCollection())
	m, err := merge.New(dst, euclidean, merge.WithRadius(0.01), merge.WithMinDwell(5))
	require.NoError(t, err)

	for _, ti := range []uint32{0, 10, 20, 30} {
		_, err := m.Push(point.Point{Time: ti, Latitude: 1.0, Longitude: 1.0})
		require.NoError(t, err)
	}
	// a far point closes the run
	closed, err := m.Push(point.Point{Time: 40, Latitude: 50.0, Longitude: 50.0})
	require.NoError(t, err)
	require.True(t, closed)
	require.Equal(t, 1, dst.Len())

	stay, err := dst.Get(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), stay.Time)
	require.Equal(t, uint32(30), stay.EndTime)
}

func TestStaysMergerDropsRunShorterThanMinDwell(t *testing.T) {
	dst := collection.NewSorted[point.Stay](collection.NewStayCollection())
	m, err := merge.New(dst, euclidean, merge.WithRadius(0.01), merge.WithMinDwell(100))
	require.NoError(t, err)

	_, err = m.Push(point.Point{Time: 0, Latitude: 1, Longitude: 1})
	require.NoError(t, err)
	closed, err := m.Push(point.Point{Time: 50, Latitude: 90, Longitude: 90})
	require.NoError(t, err)
	require.False(t, closed)
	require.Equal(t, 0, dst.Len())
}

func TestStaysMergerFlushClosesTrailingRun(t *testing.T) {
	dst := collection.NewSorted[point.Stay](collection.NewStayCollection())
	m, err := merge.New(dst, euclidean, merge.WithRadius(0.01), merge.WithMinDwell(5))
	require.NoError(t, err)

	for _, ti := range []uint32{0, 10, 20} {
		_, err := m.Push(point.Point{Time: ti, Latitude: 1, Longitude: 1})
		require.NoError(t, err)
	}

	closed, err := m.Flush()
	require.NoError(t, err)
	require.True(t, closed)
	require.Equal(t, 1, dst.Len())
}
