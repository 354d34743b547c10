package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"

	"scrollmap/internal/scene"
)

// refreshAttrs rebuilds the data table from the records behind the active
// scene.
func (m *Model) refreshAttrs() {
	cols, rows := m.buildAttributes()
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no records for this scene"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 28
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c) + 2
	}
	for _, r := range rows {
		for i, v := range r {
			if i < len(widths) && len(v)+2 > widths[i] {
				widths[i] = len(v) + 2
			}
		}
	}
	for i, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(widths[i], maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(tcols))
		row = append(row, strconv.Itoa(i+1))
		row = append(row, r...)
		// normalise to the column count
		for len(row) < len(tcols) {
			row = append(row, "")
		}
		trows = append(trows, table.Row(row[:len(tcols)]))
	}
	// clear rows first so columns and rows never disagree mid-update
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns (columns, rows) for the active scene's records.
func (m *Model) buildAttributes() ([]string, [][]string) {
	store := m.ctrl.Store()
	switch m.ctrl.Current().Kind {
	case scene.KindGeoDensity, scene.KindExplorer:
		var rows [][]string
		for _, st := range store.Stations() {
			rows = append(rows, []string{
				st.Name,
				humanize.Comma(int64(st.TripCount)),
				fmt.Sprintf("%.5f", st.Lat),
				fmt.Sprintf("%.5f", st.Lng),
			})
		}
		return []string{"station", "trips", "lat", "lng"}, rows
	case scene.KindDurationBars:
		var rows [][]string
		for _, b := range store.Durations() {
			rows = append(rows, []string{b.Label, humanize.Comma(int64(b.MemberCount)), humanize.Comma(int64(b.CasualCount))})
		}
		return []string{"duration", "member", "casual"}, rows
	case scene.KindHourlyLines:
		var rows [][]string
		for _, h := range store.Hourly() {
			rows = append(rows, []string{fmt.Sprintf("%02d:00", h.Hour), humanize.Comma(int64(h.MemberCount)), humanize.Comma(int64(h.CasualCount))})
		}
		return []string{"hour", "member", "casual"}, rows
	}
	return nil, nil
}
