package geom

import "github.com/golang/geo/r2"

// Point is a position in canvas space (x right, y down).
type Point struct {
	X float64
	Y float64
}

// Size is the drawable area of a canvas, margins excluded.
type Size struct {
	W float64
	H float64
}

// Contains reports whether p lies inside [0,W]x[0,H].
func (s Size) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= s.W && p.Y <= s.H
}

// Rect is an axis aligned rectangle given by its top-left corner.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Margin is the space reserved around the plot area for axes and titles.
type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// Bounds describes a canvas: the outer size and the margin carved out of it.
type Bounds struct {
	Width  float64
	Height float64
	Margin Margin
}

// Inner is the plot area scenes draw into; origin is at the margin corner.
func (b Bounds) Inner() Size {
	w := b.Width - b.Margin.Left - b.Margin.Right
	h := b.Height - b.Margin.Top - b.Margin.Bottom
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Size{W: w, H: h}
}

// BBox is a lon/lat bounding box.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a positive extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Extent accumulates lon/lat pairs into a bounding box.
type Extent struct {
	r r2.Rect
}

// NewExtent returns an empty extent.
func NewExtent() *Extent {
	return &Extent{r: r2.EmptyRect()}
}

// Add grows the extent to include (x, y).
func (e *Extent) Add(x, y float64) {
	e.r = e.r.AddPoint(r2.Point{X: x, Y: y})
}

// Empty reports whether nothing has been added yet.
func (e *Extent) Empty() bool { return e.r.IsEmpty() }

// BBox returns the accumulated box; zero value when empty.
func (e *Extent) BBox() BBox {
	if e.r.IsEmpty() {
		return BBox{}
	}
	return BBox{MinX: e.r.X.Lo, MinY: e.r.Y.Lo, MaxX: e.r.X.Hi, MaxY: e.r.Y.Hi}
}
