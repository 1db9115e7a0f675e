// Package merge implements a streaming transducer that collapses runs of
// nearby point.Point values into point.Stay records. Isolated points and
// runs shorter than the minimum dwell are not emitted at all.
package merge

import (
	"fmt"

	"github.com/gpshistory/gpshistory/collection"
	"github.com/gpshistory/gpshistory/internal/options"
	"github.com/gpshistory/gpshistory/point"
)

// DistanceFunc computes the distance, in caller-defined units, between two
// points. Distance and unit selection belong to the caller; the merger only
// compares the result against Radius.
type DistanceFunc func(a, b point.Point) float64

// Option configures a StaysMerger.
type Option = options.Option[*StaysMerger]

// WithRadius sets the maximum centroid distance, in the units DistanceFunc
// returns, for a point to join the current run. Default is 0, which merges
// only points at zero distance from the running centroid.
func WithRadius(radius float64) Option {
	return options.NoError[*StaysMerger](func(m *StaysMerger) { m.radius = radius })
}

// WithMinDwell sets the minimum span, in seconds, a run must cover before
// it is emitted as a Stay; shorter runs are dropped without output.
func WithMinDwell(seconds uint32) Option {
	return options.NoError[*StaysMerger](func(m *StaysMerger) { m.minDwell = seconds })
}

// StaysMerger consumes point.Point values in non-decreasing time order and
// emits point.Stay records for runs that stay within radius of a running
// centroid for at least minDwell seconds.
type StaysMerger struct {
	dst      *collection.Sorted[point.Stay]
	distance DistanceFunc
	radius   float64
	minDwell uint32

	run      []point.Point
	centroid point.Point
	hasRun   bool
}

// New creates a StaysMerger appending completed stays into dst.
func New(dst *collection.Sorted[point.Stay], distance DistanceFunc, opts ...Option) (*StaysMerger, error) {
	m := &StaysMerger{dst: dst, distance: distance}
	if err := options.Apply(m, opts...); err != nil {
		return nil, err
	}

	return m, nil
}

// Push feeds the next point in time order. It returns true if a stay was
// just closed and pushed to dst (the caller may inspect dst for it), or an
// error if the underlying push failed.
func (m *StaysMerger) Push(p point.Point) (bool, error) {
	if !m.hasRun {
		m.startRun(p)

		return false, nil
	}

	if m.distance(m.centroid, p) <= m.radius {
		m.extendRun(p)

		return false, nil
	}

	closed, err := m.closeRun()
	if err != nil {
		return false, err
	}
	m.startRun(p)

	return closed, nil
}

// Flush closes any in-progress run, reporting whether a stay was pushed.
func (m *StaysMerger) Flush() (bool, error) {
	if !m.hasRun {
		return false, nil
	}

	return m.closeRun()
}

func (m *StaysMerger) startRun(p point.Point) {
	m.run = append(m.run[:0], p)
	m.centroid = p
	m.hasRun = true
}

func (m *StaysMerger) extendRun(p point.Point) {
	m.run = append(m.run, p)
	m.centroid = centroidOf(m.run)
}

func (m *StaysMerger) closeRun() (bool, error) {
	defer func() { m.hasRun = false }()

	if len(m.run) == 0 {
		return false, nil
	}

	first, last := m.run[0], m.run[len(m.run)-1]
	if last.Time-first.Time < m.minDwell {
		return false, nil // isolated or too-brief run: caller retains raw points elsewhere
	}

	endTime := last.Time
	stay, err := point.NewStay(first, nil, &endTime)
	if err != nil {
		return false, fmt.Errorf("merge: building stay: %w", err)
	}

	ok, err := m.dst.Push(stay)

	return ok, err
}

func centroidOf(run []point.Point) point.Point {
	var sumLat, sumLon float64
	for _, p := range run {
		sumLat += p.Latitude
		sumLon += p.Longitude
	}
	n := float64(len(run))

	return point.Point{
		Time:      run[len(run)-1].Time,
		Latitude:  sumLat / n,
		Longitude: sumLon / n,
	}
}
