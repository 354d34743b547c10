package dataset

import (
	"errors"

	"scrollmap/internal/geom"
)

var (
	// ErrNoRecords is returned when a source yields no usable rows.
	ErrNoRecords = errors.New("dataset: no records")
	// ErrMissingColumn is returned when a required CSV column is absent.
	ErrMissingColumn = errors.New("dataset: missing column")
)

// StationRecord is one bike-share station with its trip total.
type StationRecord struct {
	Name      string
	TripCount int
	Lat       float64
	Lng       float64
}

// DurationBin counts trips per rider type for one duration bucket.
// Bins keep the order they had in the source.
type DurationBin struct {
	Label       string
	MemberCount int
	CasualCount int
}

// HourlyRecord counts trips per rider type for one start hour.
type HourlyRecord struct {
	Hour        int
	MemberCount int
	CasualCount int
}

// Boundary is one polygon of the optional map backdrop: rings of [lng, lat],
// first ring outer, following rings holes.
type Boundary [][][2]float64

// Store holds the loaded collections. It is built once and never mutated.
type Store struct {
	stations   []StationRecord
	durations  []DurationBin
	hourly     []HourlyRecord
	boundaries []Boundary
}

// NewStore copies the given collections into an immutable store.
func NewStore(stations []StationRecord, durations []DurationBin, hourly []HourlyRecord, boundaries []Boundary) *Store {
	return &Store{
		stations:   append([]StationRecord(nil), stations...),
		durations:  append([]DurationBin(nil), durations...),
		hourly:     append([]HourlyRecord(nil), hourly...),
		boundaries: append([]Boundary(nil), boundaries...),
	}
}

// Stations returns a copy of the station records.
func (s *Store) Stations() []StationRecord {
	return append([]StationRecord(nil), s.stations...)
}

// Durations returns a copy of the duration bins in source order.
func (s *Store) Durations() []DurationBin {
	return append([]DurationBin(nil), s.durations...)
}

// Hourly returns a copy of the hourly records in source order.
func (s *Store) Hourly() []HourlyRecord {
	return append([]HourlyRecord(nil), s.hourly...)
}

// Boundaries returns the backdrop polygons, nil when none were loaded.
func (s *Store) Boundaries() []Boundary {
	if len(s.boundaries) == 0 {
		return nil
	}
	return append([]Boundary(nil), s.boundaries...)
}

// HasBoundaries reports whether a map backdrop is available.
func (s *Store) HasBoundaries() bool { return len(s.boundaries) > 0 }

// StationExtent is the lng/lat bounding box of all stations.
func (s *Store) StationExtent() geom.BBox {
	e := geom.NewExtent()
	for _, st := range s.stations {
		e.Add(st.Lng, st.Lat)
	}
	return e.BBox()
}

// BoundaryExtent is the lng/lat bounding box of all backdrop rings.
func (s *Store) BoundaryExtent() geom.BBox {
	e := geom.NewExtent()
	for _, b := range s.boundaries {
		for _, ring := range b {
			for _, p := range ring {
				e.Add(p[0], p[1])
			}
		}
	}
	return e.BBox()
}
