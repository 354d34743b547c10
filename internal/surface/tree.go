package surface

import (
	"math"

	"scrollmap/internal/annotate"
	"scrollmap/internal/geom"
)

// Kind tags an element of a Tree.
type Kind int

const (
	KindCircle Kind = iota
	KindRect
	KindLine
	KindPath
	KindText
)

// Element is one retained drawing command. Only the field matching Kind is
// set.
type Element struct {
	Kind   Kind
	Circle Circle
	Rect   Rect
	Line   Line
	Path   Path
	Text   Text
}

// Tree records drawing commands in paint order. It is the visual tree of the
// active scene: backends rasterize it and the controller hit-tests it.
type Tree struct {
	elems   []Element
	metrics annotate.Metrics
	// HitSlop widens circle hit areas so small markers stay clickable.
	HitSlop float64
}

// NewTree returns an empty tree whose text metrics are m.
func NewTree(m annotate.Metrics) *Tree {
	return &Tree{metrics: m}
}

func (t *Tree) Clear()                    { t.elems = t.elems[:0] }
func (t *Tree) DrawCircle(c Circle)       { t.elems = append(t.elems, Element{Kind: KindCircle, Circle: c}) }
func (t *Tree) DrawRect(r Rect)           { t.elems = append(t.elems, Element{Kind: KindRect, Rect: r}) }
func (t *Tree) DrawLine(l Line)           { t.elems = append(t.elems, Element{Kind: KindLine, Line: l}) }
func (t *Tree) Metrics() annotate.Metrics { return t.metrics }

func (t *Tree) DrawPath(p Path) {
	p.Points = append([]geom.Point(nil), p.Points...)
	if p.Holes != nil {
		holes := make([][]geom.Point, len(p.Holes))
		for i, h := range p.Holes {
			holes[i] = append([]geom.Point(nil), h...)
		}
		p.Holes = holes
	}
	t.elems = append(t.elems, Element{Kind: KindPath, Path: p})
}

func (t *Tree) DrawText(x Text) { t.elems = append(t.elems, Element{Kind: KindText, Text: x}) }

// SetMetrics changes the text metrics, e.g. after a terminal resize.
func (t *Tree) SetMetrics(m annotate.Metrics) { t.metrics = m }

// Len is the number of retained elements.
func (t *Tree) Len() int { return len(t.elems) }

// Elements returns a copy of the retained elements in paint order.
func (t *Tree) Elements() []Element {
	return append([]Element(nil), t.elems...)
}

// Circles returns the circles in paint order.
func (t *Tree) Circles() []Circle {
	var out []Circle
	for _, e := range t.elems {
		if e.Kind == KindCircle {
			out = append(out, e.Circle)
		}
	}
	return out
}

// Rects returns the rectangles in paint order.
func (t *Tree) Rects() []Rect {
	var out []Rect
	for _, e := range t.elems {
		if e.Kind == KindRect {
			out = append(out, e.Rect)
		}
	}
	return out
}

// Paths returns the paths in paint order.
func (t *Tree) Paths() []Path {
	var out []Path
	for _, e := range t.elems {
		if e.Kind == KindPath {
			out = append(out, e.Path)
		}
	}
	return out
}

// Texts returns the texts in paint order.
func (t *Tree) Texts() []Text {
	var out []Text
	for _, e := range t.elems {
		if e.Kind == KindText {
			out = append(out, e.Text)
		}
	}
	return out
}

// HitTest returns the interactive element under p. Circles are hit within
// their radius plus HitSlop, and the closest centre across every matching
// circle wins, ties going to the topmost. A targeted rect wins only when no
// circle painted above it matched.
func (t *Tree) HitTest(p geom.Point) (Target, bool) {
	best := math.Inf(1)
	var hit *Target
	for i := len(t.elems) - 1; i >= 0; i-- {
		e := t.elems[i]
		switch e.Kind {
		case KindCircle:
			c := e.Circle
			if c.Target == nil {
				continue
			}
			d := math.Hypot(p.X-c.Center.X, p.Y-c.Center.Y)
			if d <= c.R+t.HitSlop && d < best {
				best = d
				hit = c.Target
			}
		case KindRect:
			r := e.Rect
			if r.Target == nil || hit != nil {
				continue
			}
			if r.Box.Contains(p) {
				return *r.Target, true
			}
		}
	}
	if hit == nil {
		return Target{}, false
	}
	return *hit, true
}
