package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"scrollmap/internal/annotate"
)

// layout is the screen split shared by View and mouse handling.
type layout struct {
	contentW int
	footerH  int
	mapX     int
	mapY     int
	mapW     int
	mapH     int
}

func (m Model) layout() layout {
	lo := layout{contentW: max(10, m.width), footerH: footerHeight}
	if m.help.ShowAll {
		rows := 0
		for _, g := range keys.FullHelp() {
			rows = max(rows, len(g))
		}
		lo.footerH = 1 + rows
	}
	lo.mapY = headerHeight + narrativeHeight
	lo.mapH = max(4, m.height-lo.mapY-lo.footerH)
	lo.mapW = lo.contentW
	if m.showSidebar {
		lo.mapX = sidebarWidth + 1
		lo.mapW = lo.contentW - sidebarWidth - 1
	}
	lo.mapW = max(10, lo.mapW)
	return lo
}

func (m Model) raster() rasterizer {
	return rasterizer{bounds: m.bounds, w: m.mapW, h: m.mapH}
}

// resize adapts the visual tree to the map area. Text metrics become one cell
// so annotation boxes are sized in cells; the scene is re-activated.
func (m *Model) resize() {
	lo := m.layout()
	m.l.SetSize(sidebarWidth-2, lo.mapH)
	if lo.mapW == m.mapW && lo.mapH == m.mapH {
		return
	}
	m.mapW, m.mapH = lo.mapW, lo.mapH
	cw := m.bounds.Width / float64(lo.mapW)
	m.tree.SetMetrics(annotate.Metrics{
		CharWidth:  cw,
		LineHeight: m.bounds.Height / float64(lo.mapH),
		Padding:    cw,
	})
	m.tree.HitSlop = cw
	m.ctrl.Render()
	m.readout = ""
	m.log.Debug("map resized", "cols", lo.mapW, "rows", lo.mapH)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Next):
		if m.ctrl.IsAtEnd() {
			m.status = "last scene"
			return m, nil
		}
		m.ctrl.GoNext()
		m.afterNav()
	case key.Matches(msg, keys.Prev):
		if m.ctrl.IsAtStart() {
			m.status = "first scene"
			return m, nil
		}
		m.ctrl.GoPrevious()
		m.afterNav()
	case key.Matches(msg, keys.Scenes):
		m.showSidebar = !m.showSidebar
		m.l.Select(m.ctrl.CurrentSceneIndex())
		m.resize()
	case key.Matches(msg, keys.Open) && m.showSidebar:
		m.openSelected()
	case key.Matches(msg, keys.Data):
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	default:
		// unbound keys drive the focused widget
		var cmd tea.Cmd
		switch {
		case m.showAttrs:
			m.tbl, cmd = m.tbl.Update(msg)
		case m.showSidebar:
			m.l, cmd = m.l.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// handleMouse resolves the pointer cell to plot coordinates and forwards
// clicks and moves to the controller.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	lo := m.layout()
	cx, cy := msg.X-lo.mapX, msg.Y-lo.mapY
	if m.showAttrs || cx < 0 || cy < 0 || cx >= lo.mapW || cy >= lo.mapH {
		m.readout = ""
		return
	}
	p := m.raster().plot(cx, cy)
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.ctrl.Click(p)
		m.readout = m.ctrl.Hover(p)
	case msg.Action == tea.MouseActionMotion:
		m.readout = m.ctrl.Hover(p)
	}
}
