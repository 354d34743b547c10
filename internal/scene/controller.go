package scene

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"scrollmap/internal/dataset"
	"scrollmap/internal/geom"
	"scrollmap/internal/surface"
)

var (
	// ErrSceneOutOfRange is returned for a scene index outside the story.
	ErrSceneOutOfRange = errors.New("scene: index out of range")
	// ErrNoScenes is returned when a controller is built without scenes.
	ErrNoScenes = errors.New("scene: no scenes")
)

// Nav is the enabled state of the navigation controls.
type Nav struct {
	Prev bool
	Next bool
}

// Frame describes a completed render.
type Frame struct {
	Index   int
	Total   int
	Meta    Meta
	Nav     Nav
	Elapsed time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithObserver registers fn to be called after every render.
func WithObserver(fn func(Frame)) Option {
	return func(c *Controller) { c.observer = fn }
}

// Controller owns the active scene index. Every navigation clears the surface
// and rebuilds the new scene from scratch.
type Controller struct {
	store    *dataset.Store
	surface  surface.Surface
	bounds   geom.Bounds
	scenes   []Renderer
	current  int
	nav      Nav
	log      *slog.Logger
	observer func(Frame)
}

// New builds a controller positioned at scene 0 and renders it. The store
// must be fully loaded.
func New(store *dataset.Store, s surface.Surface, b geom.Bounds, scenes []Renderer, opts ...Option) (*Controller, error) {
	if len(scenes) == 0 {
		return nil, ErrNoScenes
	}
	c := &Controller{
		store:   store,
		surface: s,
		bounds:  b,
		scenes:  append([]Renderer(nil), scenes...),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	c.Render()
	return c, nil
}

// GoNext advances one scene; a no-op on the last scene.
func (c *Controller) GoNext() {
	if c.current < len(c.scenes)-1 {
		c.current++
		c.Render()
	}
}

// GoPrevious steps back one scene; a no-op on the first scene.
func (c *Controller) GoPrevious() {
	if c.current > 0 {
		c.current--
		c.Render()
	}
}

// Advance is GoNext.
func (c *Controller) Advance() { c.GoNext() }

// Retreat is GoPrevious.
func (c *Controller) Retreat() { c.GoPrevious() }

// GoTo jumps to scene i. An index outside the story is rejected and leaves
// the current scene untouched.
func (c *Controller) GoTo(i int) error {
	if i < 0 || i >= len(c.scenes) {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrSceneOutOfRange, i, len(c.scenes)-1)
	}
	if i != c.current {
		c.current = i
		c.Render()
	}
	return nil
}

// Render activates the current scene: transient scene state is reset, the
// surface cleared and the scene drawn again.
func (c *Controller) Render() {
	if r, ok := c.scenes[c.current].(Resetter); ok {
		r.Reset()
	}
	c.draw()
}

// draw clears and redraws the current scene without resetting its state.
func (c *Controller) draw() {
	start := time.Now()
	c.surface.Clear()
	c.nav = Nav{Prev: c.current > 0, Next: c.current < len(c.scenes)-1}
	sc := c.scenes[c.current]
	sc.Render(c.store, c.surface, c.bounds)
	f := Frame{
		Index:   c.current,
		Total:   len(c.scenes),
		Meta:    sc.Meta(),
		Nav:     c.nav,
		Elapsed: time.Since(start),
	}
	c.log.Debug("scene rendered", "index", f.Index, "kind", f.Meta.Kind, "elapsed", f.Elapsed)
	if c.observer != nil {
		c.observer(f)
	}
}

// SetBounds changes the canvas and re-activates the current scene.
func (c *Controller) SetBounds(b geom.Bounds) {
	c.bounds = b
	c.Render()
}

// Bounds returns the canvas scenes are drawn for.
func (c *Controller) Bounds() geom.Bounds { return c.bounds }

// Click dispatches a click at p (plot coordinates) to the active scene.
func (c *Controller) Click(p geom.Point) {
	h, ok := c.scenes[c.current].(ClickHandler)
	if !ok {
		return
	}
	t, hit := c.hitTest(p)
	if h.OnClick(t, hit) {
		c.log.Debug("scene click", "index", c.current, "hit", hit, "target", t.Kind, "record", t.Index)
		c.draw()
	}
}

// Hover dispatches a pointer move at p and returns a readout of the element
// under the pointer, empty when there is none.
func (c *Controller) Hover(p geom.Point) string {
	sc := c.scenes[c.current]
	t, hit := c.hitTest(p)
	if h, ok := sc.(HoverHandler); ok && h.OnHover(t, hit) {
		c.draw()
	}
	if d, ok := sc.(Describer); ok && hit {
		return d.Describe(t)
	}
	return ""
}

func (c *Controller) hitTest(p geom.Point) (surface.Target, bool) {
	ht, ok := c.surface.(surface.HitTester)
	if !ok {
		return surface.Target{}, false
	}
	return ht.HitTest(p)
}

// CurrentSceneIndex is the active scene index.
func (c *Controller) CurrentSceneIndex() int { return c.current }

// Total is the number of scenes.
func (c *Controller) Total() int { return len(c.scenes) }

// IsAtStart reports whether the first scene is active.
func (c *Controller) IsAtStart() bool { return c.current == 0 }

// IsAtEnd reports whether the last scene is active.
func (c *Controller) IsAtEnd() bool { return c.current == len(c.scenes)-1 }

// Nav returns the navigation state computed by the last render.
func (c *Controller) Nav() Nav { return c.nav }

// Current returns the active scene's narrative.
func (c *Controller) Current() Meta { return c.scenes[c.current].Meta() }

// Scene returns the renderer at i.
func (c *Controller) Scene(i int) (Renderer, error) {
	if i < 0 || i >= len(c.scenes) {
		return nil, fmt.Errorf("%w: %d", ErrSceneOutOfRange, i)
	}
	return c.scenes[i], nil
}

// Metas lists every scene's narrative in story order.
func (c *Controller) Metas() []Meta {
	out := make([]Meta, len(c.scenes))
	for i, s := range c.scenes {
		out[i] = s.Meta()
	}
	return out
}

// Store returns the dataset the scenes draw from.
func (c *Controller) Store() *dataset.Store { return c.store }
