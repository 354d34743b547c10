package tui

import (
	"math"
	"sort"
	"strings"

	"scrollmap/internal/geom"
	"scrollmap/internal/surface"
)

// rasterizer maps the virtual scene canvas onto a w x h cell map, 2x4
// micro-pixels per cell.
type rasterizer struct {
	bounds geom.Bounds
	w, h   int
}

// micro maps plot coordinates to micro-pixels.
func (r rasterizer) micro(p geom.Point) (int, int) {
	x := (p.X + r.bounds.Margin.Left) / r.bounds.Width * float64(r.w*2)
	y := (p.Y + r.bounds.Margin.Top) / r.bounds.Height * float64(r.h*4)
	return int(math.Floor(x)), int(math.Floor(y))
}

// cell maps plot coordinates to a map cell.
func (r rasterizer) cell(p geom.Point) (int, int) {
	mx, my := r.micro(p)
	return floorDiv(mx, 2), floorDiv(my, 4)
}

// plot maps the centre of map cell (cx, cy) back to plot coordinates.
func (r rasterizer) plot(cx, cy int) geom.Point {
	return geom.Point{
		X: (float64(cx)+0.5)*r.bounds.Width/float64(r.w) - r.bounds.Margin.Left,
		Y: (float64(cy)+0.5)*r.bounds.Height/float64(r.h) - r.bounds.Margin.Top,
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func fillInk(st surface.Style) cellInk {
	return cellInk{color: st.Fill, faint: st.Opacity > 0 && st.Opacity < 0.8}
}

func strokeInk(st surface.Style) cellInk {
	return cellInk{color: st.Stroke, faint: st.Opacity > 0 && st.Opacity < 0.8}
}

// rasterize draws the elements in paint order.
func (r rasterizer) rasterize(elems []surface.Element) *brailleBuf {
	br := newBrailleBuf(r.w, r.h)
	if r.w <= 0 || r.h <= 0 || r.bounds.Width <= 0 || r.bounds.Height <= 0 {
		return br
	}
	for _, e := range elems {
		switch e.Kind {
		case surface.KindCircle:
			r.circle(br, e.Circle)
		case surface.KindRect:
			r.rect(br, e.Rect)
		case surface.KindLine:
			x0, y0 := r.micro(e.Line.From)
			x1, y1 := r.micro(e.Line.To)
			br.drawLineMicro(x0, y0, x1, y1, strokeInk(e.Line.Style))
		case surface.KindPath:
			r.path(br, e.Path)
		case surface.KindText:
			r.text(br, e.Text)
		}
	}
	return br
}

// circle fills a disc. Radii are scaled per axis and never drop below one
// micro-pixel so small markers stay visible.
func (r rasterizer) circle(br *brailleBuf, c surface.Circle) {
	cx, cy := r.micro(c.Center)
	rx := math.Max(0.5, c.R/r.bounds.Width*float64(r.w*2))
	ry := math.Max(0.5, c.R/r.bounds.Height*float64(r.h*4))
	ink := fillInk(c.Style)
	for dy := -int(ry); dy <= int(ry); dy++ {
		for dx := -int(rx); dx <= int(rx); dx++ {
			nx, ny := float64(dx)/rx, float64(dy)/ry
			if nx*nx+ny*ny <= 1 {
				br.setPixel(cx+dx, cy+dy, ink)
			}
		}
	}
}

// rect fills solid rectangles. Stroked rectangles are panels: the cells
// underneath are erased and only the outline is drawn.
func (r rasterizer) rect(br *brailleBuf, rc surface.Rect) {
	x0, y0 := r.micro(geom.Point{X: rc.Box.X, Y: rc.Box.Y})
	x1, y1 := r.micro(geom.Point{X: rc.Box.Right(), Y: rc.Box.Bottom()})
	if rc.Style.Stroke != "" {
		br.clearCells(floorDiv(x0, 2), floorDiv(y0, 4), floorDiv(x1, 2), floorDiv(y1, 4))
		ink := strokeInk(rc.Style)
		br.drawLineMicro(x0, y0, x1, y0, ink)
		br.drawLineMicro(x1, y0, x1, y1, ink)
		br.drawLineMicro(x1, y1, x0, y1, ink)
		br.drawLineMicro(x0, y1, x0, y0, ink)
		return
	}
	ink := fillInk(rc.Style)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			br.setPixel(x, y, ink)
		}
	}
}

// path strokes a polyline; closed filled paths are scanline filled first,
// even-odd over the outer ring and its holes.
func (r rasterizer) path(br *brailleBuf, p surface.Path) {
	rings := [][][2]int{r.microRing(p.Points)}
	if p.Closed {
		for _, h := range p.Holes {
			if len(h) >= 3 {
				rings = append(rings, r.microRing(h))
			}
		}
	}
	if p.Closed && p.Style.Fill != "" && len(rings[0]) >= 3 {
		r.scanFill(br, rings, fillInk(p.Style))
	}
	ink := strokeInk(p.Style)
	if p.Style.Stroke == "" {
		ink = fillInk(p.Style)
	}
	for _, pts := range rings {
		for i := 1; i < len(pts); i++ {
			br.drawLineMicro(pts[i-1][0], pts[i-1][1], pts[i][0], pts[i][1], ink)
		}
		if p.Closed && len(pts) >= 3 {
			a, b := pts[len(pts)-1], pts[0]
			br.drawLineMicro(a[0], a[1], b[0], b[1], ink)
		}
	}
}

func (r rasterizer) microRing(pts []geom.Point) [][2]int {
	out := make([][2]int, 0, len(pts))
	for _, q := range pts {
		mx, my := r.micro(q)
		out = append(out, [2]int{mx, my})
	}
	return out
}

func (r rasterizer) scanFill(br *brailleBuf, rings [][][2]int, ink cellInk) {
	hMic := r.h * 4
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for _, ring := range rings {
			for i := range ring {
				a := ring[i]
				b := ring[(i+1)%len(ring)]
				if a[1] == b[1] {
					continue
				}
				y0, y1 := a[1], b[1]
				x0, x1 := a[0], b[0]
				if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
					t := float64(yMic-y0) / float64(y1-y0)
					xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= min(xs[i+1], r.w*2-1); xMic++ {
				br.setPixel(xMic, yMic, ink)
			}
		}
	}
}

// text places a label on the cell grid honouring its anchor. Rotated labels
// run upwards.
func (r rasterizer) text(br *brailleBuf, t surface.Text) {
	v := strings.TrimSpace(t.Value)
	if v == "" {
		return
	}
	n := len([]rune(v))
	cx, cy := r.cell(t.At)
	// labels sit on a baseline; lift them into the cell above it
	if !t.Rotated {
		cy = r.cellAbove(t.At)
	}
	shift := 0
	switch t.Anchor {
	case surface.AnchorMiddle:
		shift = n / 2
	case surface.AnchorEnd:
		shift = n
	}
	ink := cellInk{color: t.Style.Fill}
	if t.Rotated {
		br.putText(cx, cy+shift, v, true, ink)
		return
	}
	br.putText(cx-shift, cy, v, false, ink)
}

// cellAbove is the row holding the glyph whose baseline is at p.
func (r rasterizer) cellAbove(p geom.Point) int {
	_, my := r.micro(geom.Point{X: p.X, Y: p.Y - 1})
	return floorDiv(my, 4)
}
