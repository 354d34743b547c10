package tui

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	list "github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"scrollmap/internal/annotate"
	"scrollmap/internal/dataset"
	"scrollmap/internal/geom"
	"scrollmap/internal/scene"
	"scrollmap/internal/surface"
)

const (
	sidebarWidth    = 30
	headerHeight    = 1
	narrativeHeight = 4
	footerHeight    = 2
)

// Model is the story viewer. The controller and visual tree are shared by
// every copy of the model; bubbletea drives them from a single goroutine.
type Model struct {
	width  int
	height int

	showSidebar bool
	showAttrs   bool

	status  string
	readout string

	ctrl   *scene.Controller
	tree   *surface.Tree
	bounds geom.Bounds
	last   *scene.Frame

	// last rendered map size
	mapW int
	mapH int

	l     list.Model
	tbl   table.Model
	help  help.Model
	dots  paginator.Model
	narr  *narrative
	log   *slog.Logger
}

// Option configures the viewer.
type Option func(*Model)

// WithLogger sets the viewer's logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// New builds the viewer over a loaded store and renders the first scene.
func New(store *dataset.Store, b geom.Bounds, scenes []scene.Renderer, opts ...Option) (Model, error) {
	m := Model{
		status: "scrollmap ready",
		tree:   surface.NewTree(annotate.DefaultMetrics),
		bounds: b,
		last:   &scene.Frame{},
		help:   help.New(),
		narr:   &narrative{},
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(&m)
	}
	last := m.last
	ctrl, err := scene.New(store, m.tree, b, scenes,
		scene.WithLogger(m.log),
		scene.WithObserver(func(f scene.Frame) { *last = f }))
	if err != nil {
		return Model{}, err
	}
	m.ctrl = ctrl

	d := list.NewDefaultDelegate()
	m.l = list.New(sceneItems(ctrl.Metas()), d, 0, 0)
	m.l.Title = "Scenes"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(false)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)

	m.dots = paginator.New()
	m.dots.Type = paginator.Dots
	m.dots.ActiveDot = navOn.Render("●")
	m.dots.InactiveDot = navOff.Render("○")
	m.dots.SetTotalPages(ctrl.Total())
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// Controller exposes the scene controller.
func (m Model) Controller() *scene.Controller { return m.ctrl }

// narrative caches the markdown rendering of the active scene's text.
type narrative struct {
	index, width int
	out          string
	r            *glamour.TermRenderer
}

func (n *narrative) render(index, width int, meta scene.Meta) string {
	if n.r != nil && n.index == index && n.width == width && n.out != "" {
		return n.out
	}
	if n.r == nil || n.width != width {
		r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(max(20, width-4)))
		if err != nil {
			return meta.Title + "\n" + meta.Description
		}
		n.r = r
	}
	out, err := n.r.Render("## " + meta.Title + "\n\n" + meta.Description)
	if err != nil {
		out = meta.Title + "\n" + meta.Description
	}
	n.index, n.width, n.out = index, width, trimBlankLines(out)
	return n.out
}
