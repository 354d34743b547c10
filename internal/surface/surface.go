// Package surface is the drawing contract scene renderers depend on.
//
// Coordinates are plot-area coordinates: (0,0) is the top-left corner of the
// area inside the canvas margins. Backends translate by the margin.
package surface

import (
	"scrollmap/internal/annotate"
	"scrollmap/internal/geom"
)

// Style is shared by every drawable element. Colours are "#rrggbb"; an empty
// colour means "not painted".
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
}

// Target identifies the record behind an interactive element. Kind names
// the collection ("station", "hour", "bin") and Index the record in it.
type Target struct {
	Kind  string
	Index int
}

// Anchor is the horizontal alignment of a text element.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Circle is a filled marker.
type Circle struct {
	Center geom.Point
	R      float64
	Style  Style
	// Target is nil for decorative circles.
	Target *Target
}

// Rect is an axis aligned box.
type Rect struct {
	Box    geom.Rect
	Style  Style
	Target *Target
}

// Line is a single segment.
type Line struct {
	From, To geom.Point
	Style    Style
}

// Path is an open polyline, or a closed polygon when Closed is set. Holes
// are interior rings of a closed path; the fill is even-odd over all rings.
type Path struct {
	Points []geom.Point
	Holes  [][]geom.Point
	Closed bool
	Style  Style
}

// Text is a single line of text whose baseline-left (or centre/end, per
// Anchor) sits at At. Rotated text runs bottom to top.
type Text struct {
	At      geom.Point
	Value   string
	Anchor  Anchor
	Rotated bool
	Size    float64
	Style   Style
}

// Surface is a render target scenes draw into. Scenes never read back what
// they drew; each render starts from Clear.
type Surface interface {
	Clear()
	DrawCircle(Circle)
	DrawRect(Rect)
	DrawLine(Line)
	DrawPath(Path)
	DrawText(Text)
	// Metrics describe text on this surface so annotation boxes can be
	// sized for it.
	Metrics() annotate.Metrics
}

// HitTester is implemented by surfaces that retain what was drawn and can
// resolve a pointer position to an interactive element.
type HitTester interface {
	HitTest(p geom.Point) (Target, bool)
}
