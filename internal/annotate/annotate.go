// Package annotate places click-driven label boxes next to a point.
package annotate

import (
	"unicode/utf8"

	"scrollmap/internal/geom"
)

// Metrics are the text measurements of a render surface. Box sizes are
// estimated from them rather than measured.
type Metrics struct {
	CharWidth  float64
	LineHeight float64
	Padding    float64
}

// DefaultMetrics suit a pixel canvas with a 7x13 font.
var DefaultMetrics = Metrics{CharWidth: 7, LineHeight: 16, Padding: 8}

// Side tells on which side of the point the box ended up.
type Side int

const (
	RightAbove Side = iota
	LeftAbove
	RightBelow
	LeftBelow
)

// Placement is a computed annotation: the label box, its text and the
// connector running from the point to the nearest box edge.
type Placement struct {
	Anchor    geom.Point
	Box       geom.Rect
	Lines     []string
	Connector [2]geom.Point
	Side      Side
}

// Left reports whether the box was flipped to the left of the point.
func (p Placement) Left() bool { return p.Side == LeftAbove || p.Side == LeftBelow }

// Below reports whether the box was flipped below the point.
func (p Placement) Below() bool { return p.Side == RightBelow || p.Side == LeftBelow }

// Placer computes placements. OffsetX and OffsetY are the distances between
// the point and the box edge facing it.
type Placer struct {
	Metrics Metrics
	OffsetX float64
	OffsetY float64
}

// NewPlacer returns a placer with the standard 50/60 offsets.
func NewPlacer(m Metrics) Placer {
	return Placer{Metrics: m, OffsetX: 50, OffsetY: 60}
}

// BoxSize estimates the box for lines of text.
func (pl Placer) BoxSize(lines []string) (w, h float64) {
	longest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}
	w = pl.Metrics.Padding*2 + float64(longest)*pl.Metrics.CharWidth
	h = pl.Metrics.Padding*2 + float64(len(lines))*pl.Metrics.LineHeight
	return w, h
}

// Place positions a box for lines next to p inside a canvas of the given
// size. The box goes up and to the right of the point, flips left when it
// would cross the right edge and flips below when it would cross the top.
// On a canvas too small for the box it still overflows after both flips.
func (pl Placer) Place(p geom.Point, lines []string, canvas geom.Size) Placement {
	w, h := pl.BoxSize(lines)

	x := p.X + pl.OffsetX
	left := false
	if x+w > canvas.W {
		x = p.X - w - pl.OffsetX
		left = true
	}

	bottom := p.Y - pl.OffsetY
	y := bottom - h
	below := false
	if bottom-h < 0 {
		y = p.Y + pl.OffsetY
		below = true
	}

	box := geom.Rect{X: x, Y: y, W: w, H: h}
	edge := box.X
	if left {
		edge = box.Right()
	}
	side := RightAbove
	switch {
	case left && below:
		side = LeftBelow
	case left:
		side = LeftAbove
	case below:
		side = RightBelow
	}
	return Placement{
		Anchor:    p,
		Box:       box,
		Lines:     append([]string(nil), lines...),
		Connector: [2]geom.Point{p, {X: edge, Y: box.Y + h/2}},
		Side:      side,
	}
}

// Slot holds at most one visible annotation.
type Slot struct {
	active *Placement
	key    string
}

// Show replaces any active annotation with pl. Key identifies the subject
// (e.g. the station) so callers can tell which record is annotated.
func (s *Slot) Show(key string, pl Placement) {
	s.active = &pl
	s.key = key
}

// Dismiss removes the active annotation. It reports whether one was visible.
func (s *Slot) Dismiss() bool {
	had := s.active != nil
	s.active = nil
	s.key = ""
	return had
}

// Active returns the visible annotation, if any.
func (s *Slot) Active() (Placement, bool) {
	if s.active == nil {
		return Placement{}, false
	}
	return *s.active, true
}

// Key returns the subject of the visible annotation, empty when none.
func (s *Slot) Key() string { return s.key }
