package scene

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"scrollmap/internal/dataset"
	"scrollmap/internal/geom"
	"scrollmap/internal/scale"
	"scrollmap/internal/surface"
)

const (
	barPadding = 0.2
	memberBar  = "bin-member"
	casualBar  = "bin-casual"
)

// DurationBars compares member and casual trips per duration bin.
type DurationBars struct {
	meta Meta
	opts Options
	bins []dataset.DurationBin
}

// NewDurationBars builds the grouped bar scene.
func NewDurationBars(meta Meta, opts Options) *DurationBars {
	meta.Kind = KindDurationBars
	return &DurationBars{meta: meta, opts: opts}
}

func (d *DurationBars) Meta() Meta { return d.meta }

// Render implements Renderer.
func (d *DurationBars) Render(store *dataset.Store, s surface.Surface, b geom.Bounds) {
	size := b.Inner()
	p := d.opts.Palette
	bins := store.Durations()
	d.bins = bins

	// a repeated label shares its first row's band, so only the first is drawn
	seen := make(map[string]bool, len(bins))
	var shown []int
	for i, bin := range bins {
		if seen[bin.Label] {
			d.opts.logger().Warn("duplicate duration bin skipped", "label", bin.Label, "row", i)
			continue
		}
		seen[bin.Label] = true
		shown = append(shown, i)
	}
	labels := make([]string, len(shown))
	for j, i := range shown {
		labels[j] = bins[i].Label
	}
	x := scale.NewBand(labels, 0, size.W, barPadding)
	maxCount := scale.MaxOf(shown, func(i int) float64 {
		return math.Max(float64(bins[i].MemberCount), float64(bins[i].CasualCount))
	})
	y := scale.NewLinear(0, maxCount, size.H, 0)

	centers := make([]float64, 0, len(shown))
	for _, l := range x.Categories() {
		pos, _ := x.Position(l)
		centers = append(centers, pos+x.Bandwidth()/2)
	}
	drawBottomAxis(s, centers, x.Categories(), size, p)
	drawLeftAxis(s, y, size, p)
	drawYTitle(s, "Number of Trips", b, p)

	half := x.Bandwidth() / 2
	bar := func(left float64, count int, color, kind string, i int) {
		top := y.Apply(float64(count))
		s.DrawRect(surface.Rect{
			Box:    geom.Rect{X: left, Y: top, W: half, H: size.H - top},
			Style:  surface.Style{Fill: color, Opacity: 1},
			Target: &surface.Target{Kind: kind, Index: i},
		})
	}
	for _, i := range shown {
		bin := bins[i]
		pos, _ := x.Position(bin.Label)
		bar(pos, bin.MemberCount, p.Member, memberBar, i)
		bar(pos+half, bin.CasualCount, p.Casual, casualBar, i)
	}
	drawLegend(s, []legendEntry{{label: "Member", color: p.Member}, {label: "Casual", color: p.Casual}}, size, p)
}

// Describe implements Describer.
func (d *DurationBars) Describe(t surface.Target) string {
	if t.Index < 0 || t.Index >= len(d.bins) {
		return ""
	}
	bin := d.bins[t.Index]
	switch t.Kind {
	case memberBar:
		return fmt.Sprintf("%s  member trips=%s", bin.Label, humanize.Comma(int64(bin.MemberCount)))
	case casualBar:
		return fmt.Sprintf("%s  casual trips=%s", bin.Label, humanize.Comma(int64(bin.CasualCount)))
	}
	return ""
}
