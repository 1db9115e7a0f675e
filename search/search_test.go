package search_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gpshistory/gpshistory/search"
)

func cmpAgainst(values []int, target int) search.Comparator {
	return func(i int) int {
		switch {
		case values[i] < target:
			return -1
		case values[i] > target:
			return 1
		default:
			return 0
		}
	}
}

func diffAgainst(values []int, target int) search.DiffFunc {
	return func(i int) int64 { return int64(values[i] - target) }
}

func TestFindLinearExactMatch(t *testing.T) {
	values := []int{5, 9, 2, 7}
	idx, ok, err := search.Find(false, cmpAgainst(values, 2), nil, nil, 0, len(values))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, idx)
}

func TestFindLinearToleranceNearest(t *testing.T) {
	values := []int{10, 20, 40}
	tol := int64(5)
	idx, ok, err := search.Find(false, cmpAgainst(values, 23), diffAgainst(values, 23), &tol, 0, len(values))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestFindBinaryExactMatch(t *testing.T) {
	values := []int{1, 3, 5, 7, 9, 11}
	idx, ok, err := search.Find(true, cmpAgainst(values, 7), nil, nil, 0, len(values))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, idx)
}

func TestFindBinaryToleranceNearestNeighbor(t *testing.T) {
	values := []int{1, 3, 5, 7, 9, 11}
	tol := int64(1)
	idx, ok, err := search.Find(true, cmpAgainst(values, 6), diffAgainst(values, 6), &tol, 0, len(values))
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, []int{2, 3}, idx) // 5 or 7, both diff 1; lower index wins ties
	require.Equal(t, 2, idx)
}

func TestFindBinaryNoMatchOutsideTolerance(t *testing.T) {
	values := []int{1, 3, 5, 7, 9, 11}
	tol := int64(0)
	_, ok, err := search.Find(true, cmpAgainst(values, 6), diffAgainst(values, 6), &tol, 0, len(values))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFindRejectsToleranceWithoutDiff(t *testing.T) {
	values := []int{1, 2, 3}
	tol := int64(1)
	_, _, err := search.Find(true, cmpAgainst(values, 2), nil, &tol, 0, len(values))
	require.Error(t, err)
}
