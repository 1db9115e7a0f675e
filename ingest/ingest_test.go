package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/ingest"
	"github.com/gpshistory/gpshistory/point"
)

const sampleExport = `[
	{"timestampMs": "1000000", "latitudeE7": 407128000, "longitudeE7": -740060000, "altitude": 10},
	{"timestampMs": "2000000", "latitudeE7": 407129000, "longitudeE7": -740061000},
	{"timestampMs": "3000000", "latitudeE7": 407130000, "longitudeE7": -740062000}
]`

func TestIngesterRunAppendsSorted(t *testing.T) {
	dst := collection.NewSorted[point.Point](collection.NewPointCollection())
	ing, err := ingest.New(dst)
	require.NoError(t, err)

	kept, err := ing.Run(strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Equal(t, 3, kept)
	require.Equal(t, 3, dst.Len())
	require.True(t, dst.SortedByTime())

	first, err := dst.Get(0)
	require.NoError(t, err)
	require.Equal(t, uint32(1000), first.Time)
	require.NotNil(t, first.Altitude)
}

func TestIngesterSkipsMalformedWithCallback(t *testing.T) {
	const withBadRecord = `[
		{"timestampMs": "not-a-number", "latitudeE7": 1, "longitudeE7": 1},
		{"timestampMs": "5000", "latitudeE7": 1, "longitudeE7": 1}
	]`

	var skipped int
	dst := collection.NewSorted[point.Point](collection.NewPointCollection())
	ing, err := ingest.New(dst, ingest.OnError(func(error) bool {
		skipped++

		return true
	}))
	require.NoError(t, err)

	kept, err := ing.Run(strings.NewReader(withBadRecord))
	require.NoError(t, err)
	require.Equal(t, 1, kept)
	require.Equal(t, 1, skipped)
}

func TestIngesterRoundsTimestampToNearestSecond(t *testing.T) {
	const export = `[
		{"timestampMs": "1499", "latitudeE7": 1, "longitudeE7": 1},
		{"timestampMs": "2500", "latitudeE7": 1, "longitudeE7": 1}
	]`

	dst := collection.NewSorted[point.Point](collection.NewPointCollection())
	ing, err := ingest.New(dst)
	require.NoError(t, err)

	kept, err := ing.Run(strings.NewReader(export))
	require.NoError(t, err)
	require.Equal(t, 2, kept)

	first, err := dst.Get(0)
	require.NoError(t, err)
	require.Equal(t, uint32(1), first.Time)
	second, err := dst.Get(1)
	require.NoError(t, err)
	require.Equal(t, uint32(3), second.Time)
}

func TestIngesterRejectsNonArrayInput(t *testing.T) {
	dst := collection.NewSorted[point.Point](collection.NewPointCollection())
	ing, err := ingest.New(dst)
	require.NoError(t, err)

	_, err = ing.Run(strings.NewReader(`{"not": "an array"}`))
	require.ErrorIs(t, err, errs.ErrUnexpectedType)
}

func TestIngesterAbortsOnErrorCallbackFalse(t *testing.T) {
	const withBadRecord = `[{"timestampMs": "nope", "latitudeE7": 1, "longitudeE7": 1}]`

	dst := collection.NewSorted[point.Point](collection.NewPointCollection())
	ing, err := ingest.New(dst, ingest.OnError(func(error) bool { return false }))
	require.NoError(t, err)

	_, err = ing.Run(strings.NewReader(withBadRecord))
	require.Error(t, err)
}
