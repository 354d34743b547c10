// Package raster draws scenes into an RGBA image for PNG export.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"scrollmap/internal/annotate"
	"scrollmap/internal/geom"
	"scrollmap/internal/surface"
)

// Canvas is a surface.Surface backed by an image the size of the outer
// canvas. Scene coordinates are offset by the top-left margin.
type Canvas struct {
	img    *image.RGBA
	gc     *drawing.RasterGraphicContext
	bounds geom.Bounds
	face   font.Face
	bg     color.Color
}

// New allocates a white canvas for b.
func New(b geom.Bounds) (*Canvas, error) {
	w, h := int(math.Ceil(b.Width)), int(math.Ceil(b.Height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: empty canvas %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	gc, err := drawing.NewRasterGraphicContext(img)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	c := &Canvas{img: img, gc: gc, bounds: b, face: basicfont.Face7x13, bg: color.White}
	c.Clear()
	return c, nil
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Encode writes the canvas as PNG.
func (c *Canvas) Encode(w io.Writer) error { return png.Encode(w, c.img) }

func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.bg), image.Point{}, draw.Src)
}

func (c *Canvas) Metrics() annotate.Metrics { return annotate.DefaultMetrics }

func (c *Canvas) pt(p geom.Point) (float64, float64) {
	return p.X + c.bounds.Margin.Left, p.Y + c.bounds.Margin.Top
}

// paint fills and strokes the current path according to st.
func (c *Canvas) paint(st surface.Style, closed bool) {
	fill := closed && st.Fill != ""
	stroke := st.Stroke != "" && st.StrokeWidth > 0
	if fill {
		c.gc.SetFillColor(parseColor(st.Fill, st.Opacity))
	}
	if stroke {
		c.gc.SetStrokeColor(parseColor(st.Stroke, st.Opacity))
		c.gc.SetLineWidth(st.StrokeWidth)
	}
	switch {
	case fill && stroke:
		c.gc.FillStroke()
	case fill:
		c.gc.Fill()
	case stroke:
		c.gc.Stroke()
	}
}

func (c *Canvas) DrawCircle(ci surface.Circle) {
	if ci.R <= 0 {
		return
	}
	x, y := c.pt(ci.Center)
	c.gc.BeginPath()
	c.gc.ArcTo(x, y, ci.R, ci.R, 0, 2*math.Pi)
	c.gc.Close()
	c.paint(ci.Style, true)
}

func (c *Canvas) DrawRect(r surface.Rect) {
	if r.Box.W <= 0 || r.Box.H <= 0 {
		return
	}
	x, y := c.pt(geom.Point{X: r.Box.X, Y: r.Box.Y})
	c.gc.BeginPath()
	c.gc.MoveTo(x, y)
	c.gc.LineTo(x+r.Box.W, y)
	c.gc.LineTo(x+r.Box.W, y+r.Box.H)
	c.gc.LineTo(x, y+r.Box.H)
	c.gc.Close()
	c.paint(r.Style, true)
}

func (c *Canvas) DrawLine(l surface.Line) {
	x0, y0 := c.pt(l.From)
	x1, y1 := c.pt(l.To)
	c.gc.BeginPath()
	c.gc.MoveTo(x0, y0)
	c.gc.LineTo(x1, y1)
	c.paint(l.Style, false)
}

func (c *Canvas) DrawPath(p surface.Path) {
	if len(p.Points) < 2 {
		return
	}
	c.gc.BeginPath()
	c.ring(p.Points, p.Closed)
	if p.Closed {
		for _, h := range p.Holes {
			c.ring(h, true)
		}
	}
	c.paint(p.Style, p.Closed)
}

// ring appends one subpath; the context fills even-odd so holes stay open.
func (c *Canvas) ring(pts []geom.Point, closed bool) {
	if len(pts) < 2 {
		return
	}
	for i, q := range pts {
		x, y := c.pt(q)
		if i == 0 {
			c.gc.MoveTo(x, y)
		} else {
			c.gc.LineTo(x, y)
		}
	}
	if closed {
		c.gc.Close()
	}
}

// DrawText draws with the fixed 7x13 face; Size is ignored. Rotated text
// reads bottom to top.
func (c *Canvas) DrawText(t surface.Text) {
	if t.Value == "" {
		return
	}
	col := parseColor(t.Style.Fill, t.Style.Opacity)
	if t.Style.Fill == "" {
		col = parseColor("#000000", 1)
	}
	x, y := c.pt(t.At)
	if t.Rotated {
		c.drawRotated(t.Value, x, y, t.Anchor, col)
		return
	}
	d := &font.Drawer{Dst: c.img, Src: image.NewUniform(col), Face: c.face}
	w := d.MeasureString(t.Value).Ceil()
	x -= anchorShift(t.Anchor, w)
	d.Dot = fixed.Point26_6{X: fixed.I(int(math.Round(x))), Y: fixed.I(int(math.Round(y)))}
	d.DrawString(t.Value)
}

// drawRotated renders the string upright into a scratch image and copies it
// turned 90 degrees counter-clockwise, centred on (x, y) along the vertical.
func (c *Canvas) drawRotated(s string, x, y float64, a surface.Anchor, col color.Color) {
	m := c.face.Metrics()
	probe := &font.Drawer{Face: c.face}
	w := probe.MeasureString(s).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	tmp := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{Dst: tmp, Src: image.NewUniform(col), Face: c.face, Dot: fixed.P(0, m.Ascent.Ceil())}
	d.DrawString(s)

	// after rotation the text runs upwards; the anchor applies along y
	baseY := int(math.Round(y + anchorShift(a, w)))
	left := int(math.Round(x)) - h/2
	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			px := tmp.RGBAAt(sx, sy)
			if px.A == 0 {
				continue
			}
			dx, dy := left+sy, baseY-sx
			if !(image.Point{X: dx, Y: dy}).In(c.img.Bounds()) {
				continue
			}
			c.img.Set(dx, dy, blend(c.img.RGBAAt(dx, dy), px))
		}
	}
}

func anchorShift(a surface.Anchor, w int) float64 {
	switch a {
	case surface.AnchorMiddle:
		return float64(w) / 2
	case surface.AnchorEnd:
		return float64(w)
	}
	return 0
}

func blend(dst, src color.RGBA) color.RGBA {
	a := uint32(src.A)
	mix := func(d, s uint8) uint8 { return uint8((uint32(s)*255 + uint32(d)*(255-a)) / 255) }
	return color.RGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 255}
}

// parseColor reads "#rrggbb" with an opacity in [0,1]. Zero
// opacity is treated as opaque.
func parseColor(hex string, opacity float64) drawing.Color {
	c := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	if opacity > 0 && opacity < 1 {
		c = c.WithAlpha(uint8(math.Round(opacity * 255)))
	}
	return c
}
