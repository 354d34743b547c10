package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Paths locates the source files. Boundaries is optional.
type Paths struct {
	Stations   string
	Durations  string
	Hourly     string
	Boundaries string
}

// Load reads every source and returns the store. Any failure on a required
// source aborts the load; a missing or broken boundary file only drops the
// backdrop.
func Load(p Paths, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	stations, err := readFile(p.Stations, log, ReadStations)
	if err != nil {
		return nil, err
	}
	durations, err := readFile(p.Durations, log, ReadDurations)
	if err != nil {
		return nil, err
	}
	hourly, err := readFile(p.Hourly, log, ReadHourly)
	if err != nil {
		return nil, err
	}
	var boundaries []Boundary
	if p.Boundaries != "" {
		boundaries, err = loadBoundaries(p.Boundaries)
		if err != nil {
			log.Warn("boundary backdrop unavailable", "path", p.Boundaries, "err", err)
			boundaries = nil
		}
	}
	log.Info("datasets loaded",
		"stations", len(stations),
		"duration_bins", len(durations),
		"hours", len(hourly),
		"boundaries", len(boundaries))
	return NewStore(stations, durations, hourly, boundaries), nil
}

func readFile[T any](path string, log *slog.Logger, read func(io.Reader) ([]T, int, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, skipped, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if skipped > 0 {
		log.Warn("skipped invalid rows", "path", path, "rows", skipped)
	}
	return recs, nil
}

func loadBoundaries(path string) ([]Boundary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBoundaries(f)
}
