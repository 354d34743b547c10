package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// Column aliases, matched case-insensitively against the CSV header.
var (
	stationNameCols = []string{"start_station_name", "station_name", "name"}
	tripCountCols   = []string{"trip_count", "trips", "count"}
	latCols         = []string{"lat", "latitude", "start_lat"}
	lngCols         = []string{"lng", "lon", "long", "longitude", "start_lng"}
	binCols         = []string{"duration_bin", "bin", "duration"}
	memberCols      = []string{"member_count", "member"}
	casualCols      = []string{"casual_count", "casual"}
	hourCols        = []string{"start_hour", "hour"}
)

// table is a parsed CSV with a header lookup.
type table struct {
	header map[string]int
	rows   [][]string
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("empty csv: %w", ErrNoRecords)
	}
	t := &table{header: make(map[string]int, len(recs[0])), rows: recs[1:]}
	for i, h := range recs[0] {
		k := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := t.header[k]; !dup {
			t.header[k] = i
		}
	}
	return t, nil
}

// column returns the index of the first alias present in the header.
func (t *table) column(aliases ...string) (int, error) {
	for _, a := range aliases {
		if i, ok := t.header[a]; ok {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: one of %s", ErrMissingColumn, strings.Join(aliases, "|"))
}

func cell(row []string, i int) (string, bool) {
	if i < 0 || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

func cellCount(row []string, i int) (int, bool) {
	s, ok := cell(row, i)
	if !ok {
		return 0, false
	}
	// counts sometimes arrive as "123.0"
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func cellFloat(row []string, i int) (float64, bool) {
	s, ok := cell(row, i)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ReadStations parses station rows. Rows with unparsable numbers, negative
// counts or invalid coordinates are skipped and counted.
func ReadStations(r io.Reader) (out []StationRecord, skipped int, err error) {
	t, err := readTable(r)
	if err != nil {
		return nil, 0, err
	}
	iName, err := t.column(stationNameCols...)
	if err != nil {
		return nil, 0, err
	}
	iCount, err := t.column(tripCountCols...)
	if err != nil {
		return nil, 0, err
	}
	iLat, err := t.column(latCols...)
	if err != nil {
		return nil, 0, err
	}
	iLng, err := t.column(lngCols...)
	if err != nil {
		return nil, 0, err
	}
	for _, row := range t.rows {
		name, ok1 := cell(row, iName)
		count, ok2 := cellCount(row, iCount)
		lat, ok3 := cellFloat(row, iLat)
		lng, ok4 := cellFloat(row, iLng)
		if !(ok1 && ok2 && ok3 && ok4) {
			skipped++
			continue
		}
		if !s2.LatLngFromDegrees(lat, lng).IsValid() {
			skipped++
			continue
		}
		out = append(out, StationRecord{Name: name, TripCount: count, Lat: lat, Lng: lng})
	}
	if len(out) == 0 {
		return nil, skipped, fmt.Errorf("stations: %w", ErrNoRecords)
	}
	return out, skipped, nil
}

// ReadDurations parses duration-bin rows, preserving source order.
func ReadDurations(r io.Reader) (out []DurationBin, skipped int, err error) {
	t, err := readTable(r)
	if err != nil {
		return nil, 0, err
	}
	iBin, err := t.column(binCols...)
	if err != nil {
		return nil, 0, err
	}
	iMember, err := t.column(memberCols...)
	if err != nil {
		return nil, 0, err
	}
	iCasual, err := t.column(casualCols...)
	if err != nil {
		return nil, 0, err
	}
	for _, row := range t.rows {
		label, ok1 := cell(row, iBin)
		member, ok2 := cellCount(row, iMember)
		casual, ok3 := cellCount(row, iCasual)
		if !(ok1 && ok2 && ok3) || label == "" {
			skipped++
			continue
		}
		out = append(out, DurationBin{Label: label, MemberCount: member, CasualCount: casual})
	}
	if len(out) == 0 {
		return nil, skipped, fmt.Errorf("durations: %w", ErrNoRecords)
	}
	return out, skipped, nil
}

// ReadHourly parses hourly rows. Hours outside 0..23 are skipped.
func ReadHourly(r io.Reader) (out []HourlyRecord, skipped int, err error) {
	t, err := readTable(r)
	if err != nil {
		return nil, 0, err
	}
	iHour, err := t.column(hourCols...)
	if err != nil {
		return nil, 0, err
	}
	iMember, err := t.column(memberCols...)
	if err != nil {
		return nil, 0, err
	}
	iCasual, err := t.column(casualCols...)
	if err != nil {
		return nil, 0, err
	}
	for _, row := range t.rows {
		hour, ok1 := cellCount(row, iHour)
		member, ok2 := cellCount(row, iMember)
		casual, ok3 := cellCount(row, iCasual)
		if !(ok1 && ok2 && ok3) || hour < 0 || hour > 23 {
			skipped++
			continue
		}
		out = append(out, HourlyRecord{Hour: hour, MemberCount: member, CasualCount: casual})
	}
	if len(out) == 0 {
		return nil, skipped, fmt.Errorf("hourly: %w", ErrNoRecords)
	}
	return out, skipped, nil
}
