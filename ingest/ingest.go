// Package ingest streams point.Point records out of a Google-Location-History-
// shaped JSON export (a top-level array of location objects) and appends
// them through a sorting-disciplined collection, without materializing the
// whole export in memory.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/internal/options"
	"github.com/gpshistory/gpshistory/point"
)

// Option configures an Ingester.
type Option = options.Option[*Ingester]

// OnError installs a callback invoked for each record that fails to parse;
// it receives the decode or parse error, with context added for decode
// failures. If the callback returns false, Run stops and returns the
// underlying error; returning true skips the record and continues.
func OnError(fn func(err error) (continue_ bool)) Option {
	return options.NoError[*Ingester](func(i *Ingester) { i.onError = fn })
}

// Ingester streams location objects from a JSON array into a
// *collection.Sorted[point.Point].
type Ingester struct {
	dst     *collection.Sorted[point.Point]
	onError func(error) bool
}

// New creates an Ingester appending into dst.
func New(dst *collection.Sorted[point.Point], opts ...Option) (*Ingester, error) {
	i := &Ingester{dst: dst, onError: func(error) bool { return true }}
	if err := options.Apply(i, opts...); err != nil {
		return nil, err
	}

	return i, nil
}

// locationRecord mirrors one element of a Google Location History export.
type locationRecord struct {
	TimestampMs string `json:"timestampMs"`
	LatitudeE7  int64  `json:"latitudeE7"`
	LongitudeE7 int64  `json:"longitudeE7"`
	Altitude    *int64 `json:"altitude"`
}

// Run streams r, decoding a top-level JSON array of location objects one
// element at a time via the Token API, pushing each successfully-parsed
// point through the ingester's sorting wrapper. It returns the number of
// points kept (a point may be dropped by the wrapper's enforcement policy
// without that counting as a parse error) and the first unrecoverable
// error, if any.
func (i *Ingester) Run(r io.Reader) (int, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return 0, fmt.Errorf("ingest: reading opening token: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return 0, fmt.Errorf("%w: expected top-level JSON array, got %v", errs.ErrUnexpectedType, tok)
	}

	kept := 0
	for dec.More() {
		var rec locationRecord
		if err := dec.Decode(&rec); err != nil {
			if !i.onError(fmt.Errorf("ingest: decoding record: %w", err)) {
				return kept, err
			}

			continue
		}

		p, err := rec.toPoint()
		if err != nil {
			if !i.onError(err) {
				return kept, err
			}

			continue
		}

		ok, err := i.dst.Push(p)
		if err != nil {
			return kept, err
		}
		if ok {
			kept++
		}
	}

	return kept, nil
}

func (r locationRecord) toPoint() (point.Point, error) {
	ms, err := strconv.ParseInt(r.TimestampMs, 10, 64)
	if err != nil {
		return point.Point{}, fmt.Errorf("ingest: invalid timestampMs %q: %w", r.TimestampMs, err)
	}
	if ms < 0 {
		return point.Point{}, fmt.Errorf("ingest: negative timestampMs %d", ms)
	}

	p := point.Point{
		Time:      uint32(math.Round(float64(ms) / 1000)), //nolint:gosec
		Latitude:  float64(r.LatitudeE7) / 1e7,
		Longitude: float64(r.LongitudeE7) / 1e7,
	}
	if r.Altitude != nil {
		alt := float64(*r.Altitude)
		p.Altitude = &alt
	}

	return p, nil
}
