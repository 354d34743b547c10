package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cellInk is the colour a cell is printed with. faint marks translucent
// elements.
type cellInk struct {
	color string
	faint bool
}

// brailleBuf is a w x h cell canvas with a 2x4 braille micro-grid per cell
// and a text layer on top.
type brailleBuf struct {
	w, h int // in cells
	m    [][]uint8
	ink  [][]cellInk
	text [][]rune
}

func newBrailleBuf(w, h int) *brailleBuf {
	b := &brailleBuf{w: w, h: h}
	b.m = make([][]uint8, h)
	b.ink = make([][]cellInk, h)
	b.text = make([][]rune, h)
	for i := 0; i < h; i++ {
		b.m[i] = make([]uint8, w)
		b.ink[i] = make([]cellInk, w)
		b.text[i] = make([]rune, w)
	}
	return b
}

// dotBits maps micro offsets (column, row) inside a cell to braille bits.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords and inks its cell.
func (b *brailleBuf) setPixel(mx, my int, ink cellInk) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[mx%2][my%4]
	b.ink[cy][cx] = ink
}

// clearCells erases dots and text in the cell rectangle [x0,x1]x[y0,y1].
func (b *brailleBuf) clearCells(x0, y0, x1, y1 int) {
	for y := max(0, y0); y <= min(b.h-1, y1); y++ {
		for x := max(0, x0); x <= min(b.w-1, x1); x++ {
			b.m[y][x] = 0
			b.text[y][x] = 0
			b.ink[y][x] = cellInk{}
		}
	}
}

// drawLineMicro draws a line on the microgrid using Bresenham.
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, ink cellInk) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// putText writes s starting at cell (cx, cy), horizontally or upwards.
func (b *brailleBuf) putText(cx, cy int, s string, vertical bool, ink cellInk) {
	for i, r := range []rune(s) {
		x, y := cx+i, cy
		if vertical {
			x, y = cx, cy-i
		}
		if x < 0 || y < 0 || x >= b.w || y >= b.h {
			continue
		}
		b.text[y][x] = r
		b.ink[y][x] = ink
	}
}

func (b *brailleBuf) glyph(x, y int) rune {
	if r := b.text[y][x]; r != 0 {
		return r
	}
	if mask := b.m[y][x]; mask != 0 {
		return rune(0x2800 + int(mask))
	}
	return ' '
}

// toLines renders each row, grouping runs of equally inked cells into one
// styled span.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	if b.w == 0 {
		return out
	}
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		var run []rune
		cur := b.ink[y][0]
		flush := func() {
			if len(run) == 0 {
				return
			}
			sb.WriteString(inkStyle(cur).Render(string(run)))
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			g := b.glyph(x, y)
			ink := b.ink[y][x]
			if g == ' ' {
				ink = cellInk{}
			}
			if ink != cur {
				flush()
				cur = ink
			}
			run = append(run, g)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

// plain returns the rows without styling.
func (b *brailleBuf) plain() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := range row {
			row[x] = b.glyph(x, y)
		}
		out[y] = string(row)
	}
	return out
}

func inkStyle(ink cellInk) lipgloss.Style {
	st := lipgloss.NewStyle()
	if ink.color != "" {
		st = st.Foreground(lipgloss.Color(ink.color))
	}
	if ink.faint {
		st = st.Faint(true)
	}
	return st
}
