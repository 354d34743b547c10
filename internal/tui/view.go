package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lo := m.layout()
	idx := m.ctrl.CurrentSceneIndex()
	meta := m.ctrl.Current()

	// Header: title, progress dots, navigation state
	nav := m.ctrl.Nav()
	prev, next := navOff.Render("◀ prev"), navOff.Render("next ▶")
	if nav.Prev {
		prev = navOn.Render("◀ prev")
	}
	if nav.Next {
		next = navOn.Render("next ▶")
	}
	title := titleStyle.Render(" scrollmap ")
	right := lipgloss.JoinHorizontal(lipgloss.Center, prev, "  ", m.dots.View(), "  ", next, " ")
	gap := max(0, lo.contentW-lipgloss.Width(title)-lipgloss.Width(right))
	header := title + strings.Repeat(" ", gap) + right

	narr := fitLines(m.narr.render(idx, lo.contentW, meta), narrativeHeight)
	narr = lipgloss.NewStyle().Width(lo.contentW).MaxHeight(narrativeHeight).Render(narr)

	// Map or data table
	var mapView string
	if m.showAttrs {
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(lo.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lo.mapH-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, box)
	} else {
		canvas := m.raster().rasterize(m.tree.Elements())
		mapView = lipgloss.NewStyle().Width(lo.mapW).Height(lo.mapH).Render(strings.Join(canvas.toLines(), "\n"))
	}

	body := mapView
	if m.showSidebar {
		sidebar := lipgloss.NewStyle().Width(sidebarWidth).Height(lo.mapH).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer: status, pointer readout, render time, help
	status := dimStyle.Render(" " + m.status + " ")
	readout := ""
	if m.readout != "" {
		readout = lipgloss.NewStyle().Foreground(baseFg).Render("  " + m.readout + "  ")
	}
	timing := dimStyle.Render(fmt.Sprintf(" %s ", m.last.Elapsed.Round(time.Microsecond)))
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, readout)
	spacer := strings.Repeat(" ", max(0, lo.contentW-lipgloss.Width(left)-lipgloss.Width(timing)))
	statusLine := left + spacer + timing
	footer := lipgloss.JoinVertical(lipgloss.Left, statusLine, m.help.View(keys))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, narr, body, footer)
	return appStyle.Width(lo.contentW).Height(m.height).Render(ui)
}
