package persist_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/persist"
	"github.com/gpshistory/gpshistory/point"
)

func TestWriteReadPointCollectionRoundTrip(t *testing.T) {
	src := collection.NewPointCollection()
	for ti := uint32(1); ti <= 5; ti++ {
		require.NoError(t, src.Push(point.Point{Time: ti, Latitude: float64(ti), Longitude: -float64(ti)}))
	}

	var buf bytes.Buffer
	err := persist.Write(context.Background(), &buf, persist.DefaultRegistry(), src, "")
	require.NoError(t, err)

	dst := collection.NewPointCollection()
	err = persist.Read(context.Background(), &buf, persist.DefaultRegistry(), dst, "")
	require.NoError(t, err)

	require.Equal(t, src.Len(), dst.Len())
	for i := 0; i < src.Len(); i++ {
		want, err := src.Get(i)
		require.NoError(t, err)
		got, err := dst.Get(i)
		require.NoError(t, err)
		require.Equal(t, want.Time, got.Time)
		require.InDelta(t, want.Latitude, got.Latitude, 1e-6)
		require.InDelta(t, want.Longitude, got.Longitude, 1e-6)
	}
}

func TestWriteEmptyPointCollectionHeaderBytes(t *testing.T) {
	var buf bytes.Buffer
	src := collection.NewPointCollection()
	require.NoError(t, persist.Write(context.Background(), &buf, persist.DefaultRegistry(), src, ""))

	b := buf.Bytes()
	require.Len(t, b, persist.HeaderSize)
	require.Equal(t, "AnqsGpsHistoryFile--", string(b[0:20]))
	require.Equal(t, []byte{0x01, 0x00}, b[20:22])
	require.Equal(t, "PointCollection     ", string(b[22:42]))
	require.Equal(t, []byte{0x01, 0x00}, b[42:44])
	require.Equal(t, byte(0), b[44])
	for i := 45; i < 100; i++ {
		require.Equal(t, byte(0), b[i], "byte %d", i)
	}
}

func TestAltitudeNullRoundTrip(t *testing.T) {
	src := collection.NewPointCollection()
	require.NoError(t, src.Push(point.Point{Time: 100}))

	var buf bytes.Buffer
	require.NoError(t, persist.Write(context.Background(), &buf, persist.DefaultRegistry(), src, ""))

	dst := collection.NewPointCollection()
	require.NoError(t, persist.Read(context.Background(), bytes.NewReader(buf.Bytes()), persist.DefaultRegistry(), dst, ""))

	got, err := dst.Get(0)
	require.NoError(t, err)
	require.Nil(t, got.Altitude)

	raw, err := dst.ExportBytes(0, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0x7F}, raw[12:14]) // little-endian 32767
}

func TestReadHintPreReservesCapacity(t *testing.T) {
	src := collection.NewPointCollection()
	for ti := uint32(1); ti <= 200; ti++ {
		require.NoError(t, src.Push(point.Point{Time: ti}))
	}

	var buf bytes.Buffer
	require.NoError(t, persist.Write(context.Background(), &buf, persist.DefaultRegistry(), src, ""))

	dst := collection.NewPointCollection()
	require.NoError(t, persist.Read(context.Background(), bytes.NewReader(buf.Bytes()), persist.DefaultRegistry(), dst, ""))
	require.Equal(t, 200, dst.Len())
	require.GreaterOrEqual(t, dst.Cap(), 200)
}

func TestReadRejectsReadOnlyTarget(t *testing.T) {
	base := collection.NewPointCollection()
	require.NoError(t, base.Push(point.Point{Time: 1}))
	view := collection.NewIndexView[point.Point](base, []uint32{0})

	err := persist.Read(context.Background(), bytes.NewReader(nil), persist.DefaultRegistry(), view, "")
	require.ErrorIs(t, err, errs.ErrReadonlyContainer)
}

func TestReadRejectsNewerVersions(t *testing.T) {
	var buf bytes.Buffer
	src := collection.NewPointCollection()
	require.NoError(t, src.Push(point.Point{Time: 1}))
	require.NoError(t, persist.Write(context.Background(), &buf, persist.DefaultRegistry(), src, ""))

	newerContainer := append([]byte(nil), buf.Bytes()...)
	newerContainer[20] = 0x02
	err := persist.Read(context.Background(), bytes.NewReader(newerContainer), persist.DefaultRegistry(), collection.NewPointCollection(), "")
	require.ErrorIs(t, err, errs.ErrNewerVersion)

	newerPersister := append([]byte(nil), buf.Bytes()...)
	newerPersister[42] = 0x02
	err = persist.Read(context.Background(), bytes.NewReader(newerPersister), persist.DefaultRegistry(), collection.NewPointCollection(), "")
	require.ErrorIs(t, err, errs.ErrNewerVersion)
}

func TestReadRejectsOutOfRangeMetadataLength(t *testing.T) {
	var buf bytes.Buffer
	src := collection.NewPointCollection()
	require.NoError(t, src.Push(point.Point{Time: 1}))
	require.NoError(t, persist.Write(context.Background(), &buf, persist.DefaultRegistry(), src, ""))

	corrupted := append([]byte(nil), buf.Bytes()...)
	corrupted[44] = 60

	dst := collection.NewPointCollection()
	err := persist.Read(context.Background(), bytes.NewReader(corrupted), persist.DefaultRegistry(), dst, "")
	require.ErrorIs(t, err, errs.ErrInvalidMetadata)
	require.Equal(t, 0, dst.Len())
}

func TestReadRejectsNonEmptyTarget(t *testing.T) {
	var buf bytes.Buffer
	src := collection.NewPointCollection()
	require.NoError(t, src.Push(point.Point{Time: 1}))
	require.NoError(t, persist.Write(context.Background(), &buf, persist.DefaultRegistry(), src, ""))

	dst := collection.NewPointCollection()
	require.NoError(t, dst.Push(point.Point{Time: 9}))

	err := persist.Read(context.Background(), &buf, persist.DefaultRegistry(), dst, "")
	require.Error(t, err)
}

func TestReadRejectsWrongContainerSignature(t *testing.T) {
	var buf bytes.Buffer
	src := collection.NewPointCollection()
	require.NoError(t, src.Push(point.Point{Time: 1}))
	require.NoError(t, persist.Write(context.Background(), &buf, persist.DefaultRegistry(), src, "CustomSignature-----"))

	dst := collection.NewPointCollection()
	err := persist.Read(context.Background(), &buf, persist.DefaultRegistry(), dst, "")
	require.Error(t, err)
}
