package scene

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"

	"scrollmap/internal/dataset"
	"scrollmap/internal/geom"
	"scrollmap/internal/scale"
	"scrollmap/internal/surface"
)

const (
	lineWidth         = 2.5
	pointRadius       = 3
	pointHoverRadius  = 5
	hourMember        = "hour-member"
	hourCasual        = "hour-casual"
	lastHour          = 23
	hourTickLabelStep = 3
)

// HourlyLines draws member and casual trips per start hour.
type HourlyLines struct {
	meta    Meta
	opts    Options
	hovered surface.Target
	hasHov  bool
	hours   []dataset.HourlyRecord
}

// NewHourlyLines builds the hourly line scene.
func NewHourlyLines(meta Meta, opts Options) *HourlyLines {
	meta.Kind = KindHourlyLines
	return &HourlyLines{meta: meta, opts: opts}
}

func (h *HourlyLines) Meta() Meta { return h.meta }

func (h *HourlyLines) Reset() { h.hasHov = false }

// Render implements Renderer.
func (h *HourlyLines) Render(store *dataset.Store, s surface.Surface, b geom.Bounds) {
	size := b.Inner()
	p := h.opts.Palette
	hours := store.Hourly()
	sort.SliceStable(hours, func(i, j int) bool { return hours[i].Hour < hours[j].Hour })
	h.hours = hours

	x := scale.NewLinear(0, lastHour, 0, size.W)
	maxCount := scale.MaxOf(hours, func(r dataset.HourlyRecord) float64 {
		return math.Max(float64(r.MemberCount), float64(r.CasualCount))
	})
	y := scale.NewLinear(0, maxCount, size.H, 0)

	var ticks []float64
	var labels []string
	for hr := 0; hr <= lastHour; hr++ {
		ticks = append(ticks, x.Apply(float64(hr)))
		if hr%hourTickLabelStep == 0 {
			labels = append(labels, strconv.Itoa(hr))
		} else {
			labels = append(labels, "")
		}
	}
	drawBottomAxis(s, ticks, labels, size, p)
	drawLeftAxis(s, y, size, p)
	drawXTitle(s, "Hour of the Day", b, p)
	drawYTitle(s, "Number of Trips", b, p)

	series := []struct {
		kind  string
		color string
		value func(dataset.HourlyRecord) int
	}{
		{hourMember, p.Member, func(r dataset.HourlyRecord) int { return r.MemberCount }},
		{hourCasual, p.Casual, func(r dataset.HourlyRecord) int { return r.CasualCount }},
	}
	for _, sr := range series {
		pts := make([]geom.Point, len(hours))
		for i, r := range hours {
			pts[i] = geom.Point{X: x.Apply(float64(r.Hour)), Y: y.Apply(float64(sr.value(r)))}
		}
		s.DrawPath(surface.Path{
			Points: pts,
			Style:  surface.Style{Stroke: sr.color, StrokeWidth: lineWidth, Opacity: 1},
		})
		if !h.opts.Markers {
			continue
		}
		for i, pt := range pts {
			r := float64(pointRadius)
			if h.hasHov && h.hovered.Kind == sr.kind && h.hovered.Index == i {
				r = pointHoverRadius
			}
			s.DrawCircle(surface.Circle{
				Center: pt,
				R:      r,
				Style:  surface.Style{Fill: sr.color, Opacity: 1},
				Target: &surface.Target{Kind: sr.kind, Index: i},
			})
		}
	}
	drawLegend(s, []legendEntry{
		{label: "Member", color: p.Member, line: true},
		{label: "Casual", color: p.Casual, line: true},
	}, size, p)
}

// OnHover grows the marker under the pointer.
func (h *HourlyLines) OnHover(t surface.Target, hit bool) bool {
	hit = hit && (t.Kind == hourMember || t.Kind == hourCasual)
	if hit == h.hasHov && (!hit || t == h.hovered) {
		return false
	}
	h.hasHov = hit
	h.hovered = t
	return true
}

// Describe implements Describer.
func (h *HourlyLines) Describe(t surface.Target) string {
	if t.Index < 0 || t.Index >= len(h.hours) {
		return ""
	}
	r := h.hours[t.Index]
	switch t.Kind {
	case hourMember:
		return fmt.Sprintf("%02d:00  member trips=%s", r.Hour, humanize.Comma(int64(r.MemberCount)))
	case hourCasual:
		return fmt.Sprintf("%02d:00  casual trips=%s", r.Hour, humanize.Comma(int64(r.CasualCount)))
	}
	return ""
}
