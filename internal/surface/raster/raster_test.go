package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"scrollmap/internal/geom"
	"scrollmap/internal/surface"
)

var bounds = geom.Bounds{
	Width:  200,
	Height: 100,
	Margin: geom.Margin{Top: 10, Right: 10, Bottom: 10, Left: 20},
}

func TestNewRejectsEmptyCanvas(t *testing.T) {
	if _, err := New(geom.Bounds{}); err == nil {
		t.Fatalf("expected error for empty canvas")
	}
}

func TestShapesLandOffsetByMargin(t *testing.T) {
	c, err := New(bounds)
	if err != nil {
		t.Fatal(err)
	}
	c.DrawRect(surface.Rect{
		Box:   geom.Rect{X: 0, Y: 0, W: 10, H: 10},
		Style: surface.Style{Fill: "#ff0000", Opacity: 1},
	})
	c.DrawCircle(surface.Circle{
		Center: geom.Point{X: 100, Y: 40},
		R:      6,
		Style:  surface.Style{Fill: "#0000ff", Opacity: 1},
	})
	img := c.Image()
	if got := img.RGBAAt(25, 15); got.R < 200 || got.G > 50 {
		t.Fatalf("rect pixel %+v", got)
	}
	if got := img.RGBAAt(5, 5); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("margin pixel painted: %+v", got)
	}
	if got := img.RGBAAt(120, 50); got.B < 200 || got.R > 50 {
		t.Fatalf("circle centre pixel %+v", got)
	}

	c.Clear()
	if got := img.RGBAAt(25, 15); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("clear left %+v", got)
	}
}

func TestPathHolesStayUnfilled(t *testing.T) {
	c, err := New(bounds)
	if err != nil {
		t.Fatal(err)
	}
	c.DrawPath(surface.Path{
		Points: []geom.Point{{X: 0, Y: 0}, {X: 80, Y: 0}, {X: 80, Y: 80}, {X: 0, Y: 80}},
		Holes:  [][]geom.Point{{{X: 20, Y: 20}, {X: 60, Y: 20}, {X: 60, Y: 60}, {X: 20, Y: 60}}},
		Closed: true,
		Style:  surface.Style{Fill: "#ff0000", Opacity: 1},
	})
	img := c.Image()
	if got := img.RGBAAt(30, 15); got.R < 200 || got.G > 50 {
		t.Fatalf("ring pixel %+v", got)
	}
	if got := img.RGBAAt(60, 50); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("hole pixel painted: %+v", got)
	}
}

func TestTextIsDrawn(t *testing.T) {
	c, err := New(bounds)
	if err != nil {
		t.Fatal(err)
	}
	for _, rotated := range []bool{false, true} {
		c.Clear()
		c.DrawText(surface.Text{
			At:      geom.Point{X: 80, Y: 40},
			Value:   "Trips",
			Anchor:  surface.AnchorMiddle,
			Rotated: rotated,
			Style:   surface.Style{Fill: "#000000", Opacity: 1},
		})
		if dark(c) == 0 {
			t.Fatalf("rotated=%v: no text pixels", rotated)
		}
	}
}

func TestEncodePNG(t *testing.T) {
	c, err := New(bounds)
	if err != nil {
		t.Fatal(err)
	}
	c.DrawLine(surface.Line{To: geom.Point{X: 50, Y: 50}, Style: surface.Style{Stroke: "#333333", StrokeWidth: 1, Opacity: 1}})
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("png size %v", b)
	}
}

func dark(c *Canvas) int {
	n := 0
	img := c.Image()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).R < 128 {
				n++
			}
		}
	}
	return n
}
