package persist

import "github.com/gpshistory/gpshistory/collection"

// compactVersion is the on-disk format version for all three compact
// collection persisters; bumped whenever a record layout changes. Point,
// Measurement, and Stay have each had one layout since inception.
const compactVersion uint16 = 1

func init() {
	must(DefaultRegistry().Register((*collection.PointCollection)(nil), NewCompactPersister("PointCollection", compactVersion)))
	must(DefaultRegistry().Register((*collection.MeasurementCollection)(nil), NewCompactPersister("MeasurementCollection", compactVersion)))
	must(DefaultRegistry().Register((*collection.StayCollection)(nil), NewCompactPersister("StayCollection", compactVersion)))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
