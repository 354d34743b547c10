package scene

import (
	"strings"

	"github.com/dustin/go-humanize"

	"scrollmap/internal/geom"
	"scrollmap/internal/scale"
	"scrollmap/internal/surface"
)

const yTicks = 5

func axisStyle(p Palette) surface.Style {
	return surface.Style{Stroke: p.Axis, StrokeWidth: 1, Opacity: 1}
}

func textStyle(p Palette) surface.Style {
	return surface.Style{Fill: p.Text, Opacity: 1}
}

// formatCount renders axis values compactly: 950, 12.5 k, 1.2 M.
func formatCount(v float64) string {
	if v < 1000 {
		return humanize.Comma(int64(v))
	}
	return strings.TrimSpace(humanize.SIWithDigits(v, 1, ""))
}

// drawLeftAxis draws the y axis line, ticks and labels for a count scale.
func drawLeftAxis(s surface.Surface, y scale.Linear, size geom.Size, p Palette) {
	st := axisStyle(p)
	s.DrawLine(surface.Line{From: geom.Point{X: 0, Y: 0}, To: geom.Point{X: 0, Y: size.H}, Style: st})
	for _, v := range y.Ticks(yTicks) {
		py := y.Apply(v)
		s.DrawLine(surface.Line{From: geom.Point{X: -6, Y: py}, To: geom.Point{X: 0, Y: py}, Style: st})
		s.DrawText(surface.Text{
			At:     geom.Point{X: -9, Y: py + 4},
			Value:  formatCount(v),
			Anchor: surface.AnchorEnd,
			Size:   10,
			Style:  textStyle(p),
		})
	}
}

// drawBottomAxis draws the x axis line at the bottom of the plot and one
// label per tick.
func drawBottomAxis(s surface.Surface, ticks []float64, labels []string, size geom.Size, p Palette) {
	st := axisStyle(p)
	s.DrawLine(surface.Line{From: geom.Point{X: 0, Y: size.H}, To: geom.Point{X: size.W, Y: size.H}, Style: st})
	for i, x := range ticks {
		s.DrawLine(surface.Line{From: geom.Point{X: x, Y: size.H}, To: geom.Point{X: x, Y: size.H + 6}, Style: st})
		if i < len(labels) && labels[i] != "" {
			s.DrawText(surface.Text{
				At:     geom.Point{X: x, Y: size.H + 20},
				Value:  labels[i],
				Anchor: surface.AnchorMiddle,
				Size:   10,
				Style:  textStyle(p),
			})
		}
	}
}

// drawYTitle puts a rotated title left of the y axis, inside the margin.
func drawYTitle(s surface.Surface, title string, b geom.Bounds, p Palette) {
	s.DrawText(surface.Text{
		At:      geom.Point{X: -b.Margin.Left + 20, Y: b.Inner().H / 2},
		Value:   title,
		Anchor:  surface.AnchorMiddle,
		Rotated: true,
		Size:    12,
		Style:   textStyle(p),
	})
}

// drawXTitle puts a title centred below the x axis labels.
func drawXTitle(s surface.Surface, title string, b geom.Bounds, p Palette) {
	size := b.Inner()
	s.DrawText(surface.Text{
		At:     geom.Point{X: size.W / 2, Y: size.H + b.Margin.Bottom - 10},
		Value:  title,
		Anchor: surface.AnchorMiddle,
		Size:   12,
		Style:  textStyle(p),
	})
}

type legendEntry struct {
	label string
	color string
	// line draws a line swatch instead of a square.
	line bool
}

// drawLegend stacks entries in the top-right corner of the plot.
func drawLegend(s surface.Surface, entries []legendEntry, size geom.Size, p Palette) {
	x := size.W - 120
	for i, e := range entries {
		y := 10 + float64(i)*20
		if e.line {
			s.DrawLine(surface.Line{
				From:  geom.Point{X: x, Y: y + 6},
				To:    geom.Point{X: x + 18, Y: y + 6},
				Style: surface.Style{Stroke: e.color, StrokeWidth: 2.5, Opacity: 1},
			})
		} else {
			s.DrawRect(surface.Rect{
				Box:   geom.Rect{X: x, Y: y, W: 12, H: 12},
				Style: surface.Style{Fill: e.color, Opacity: 1},
			})
		}
		s.DrawText(surface.Text{
			At:    geom.Point{X: x + 24, Y: y + 10},
			Value: e.label,
			Size:  11,
			Style: textStyle(p),
		})
	}
}
