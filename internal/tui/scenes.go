package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"

	"scrollmap/internal/scene"
)

type sceneItem struct {
	index int
	meta  scene.Meta
}

func (s sceneItem) Title() string       { return fmt.Sprintf("%d. %s", s.index+1, s.meta.Title) }
func (s sceneItem) Description() string { return string(s.meta.Kind) }
func (s sceneItem) FilterValue() string { return s.meta.Title }

func sceneItems(metas []scene.Meta) []list.Item {
	items := make([]list.Item, len(metas))
	for i, mt := range metas {
		items[i] = sceneItem{index: i, meta: mt}
	}
	return items
}

// openSelected jumps to the scene highlighted in the sidebar.
func (m *Model) openSelected() {
	it, ok := m.l.SelectedItem().(sceneItem)
	if !ok {
		return
	}
	if err := m.ctrl.GoTo(it.index); err != nil {
		m.status = "goto: " + err.Error()
		return
	}
	m.afterNav()
}

// afterNav syncs the widgets that mirror the active scene.
func (m *Model) afterNav() {
	i := m.ctrl.CurrentSceneIndex()
	m.dots.Page = i
	m.l.Select(i)
	m.readout = ""
	m.status = fmt.Sprintf("scene %d/%d  %s", i+1, m.ctrl.Total(), m.ctrl.Current().Kind)
	if m.showAttrs {
		m.refreshAttrs()
	}
}
