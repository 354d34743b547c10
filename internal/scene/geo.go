package scene

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"scrollmap/internal/dataset"
	"scrollmap/internal/geom"
	"scrollmap/internal/scale"
	"scrollmap/internal/surface"
)

const (
	densityMinRadius = 1
	densityMaxRadius = 15
	densityOpacity   = 0.6
	stationKind      = "station"
)

// geoFrame is the projection chosen for one render.
type geoFrame struct {
	proj     scale.Projection
	backdrop []dataset.Boundary
}

// fitGeo picks the projection for mode. Projected mode without boundaries
// falls back to the linear scatter.
func fitGeo(store *dataset.Store, size geom.Size, mode GeoMode, warned *bool, log *slog.Logger) geoFrame {
	if mode == GeoProjected {
		if store.HasBoundaries() {
			return geoFrame{
				proj:     scale.FitMercator(store.BoundaryExtent(), size),
				backdrop: store.Boundaries(),
			}
		}
		if !*warned {
			log.Warn("no boundary data, drawing plain coordinate scatter")
			*warned = true
		}
	}
	return geoFrame{proj: scale.FitLinear(store.StationExtent(), size)}
}

func drawBackdrop(s surface.Surface, f geoFrame, p Palette) {
	st := surface.Style{Fill: p.BackdropFill, Stroke: p.BackdropStroke, StrokeWidth: 1, Opacity: 1}
	project := func(ring [][2]float64) []geom.Point {
		pts := make([]geom.Point, len(ring))
		for i, c := range ring {
			pts[i] = f.proj.Project(c[0], c[1])
		}
		return pts
	}
	for _, b := range f.backdrop {
		if len(b) == 0 {
			continue
		}
		p := surface.Path{Points: project(b[0]), Closed: true, Style: st}
		for _, hole := range b[1:] {
			p.Holes = append(p.Holes, project(hole))
		}
		s.DrawPath(p)
	}
}

func describeStation(st dataset.StationRecord) string {
	return fmt.Sprintf("%s  trips=%s  lat=%.4f lng=%.4f", st.Name, humanize.Comma(int64(st.TripCount)), st.Lat, st.Lng)
}

// GeoDensity draws one marker per station, area proportional to trip count.
type GeoDensity struct {
	meta    Meta
	opts    Options
	hovered int
	warned  bool
	// stations of the last render, for Describe
	stations []dataset.StationRecord
}

// NewGeoDensity builds the density map scene.
func NewGeoDensity(meta Meta, opts Options) *GeoDensity {
	meta.Kind = KindGeoDensity
	return &GeoDensity{meta: meta, opts: opts, hovered: -1}
}

func (g *GeoDensity) Meta() Meta { return g.meta }

func (g *GeoDensity) Reset() { g.hovered = -1 }

// Render implements Renderer.
func (g *GeoDensity) Render(store *dataset.Store, s surface.Surface, b geom.Bounds) {
	size := b.Inner()
	frame := fitGeo(store, size, g.opts.GeoMode, &g.warned, g.opts.logger())
	drawBackdrop(s, frame, g.opts.Palette)

	stations := store.Stations()
	g.stations = stations
	radius := scale.NewSqrt(
		scale.MaxOf(stations, func(st dataset.StationRecord) float64 { return float64(st.TripCount) }),
		densityMinRadius, densityMaxRadius)
	for i, st := range stations {
		op := densityOpacity
		if i == g.hovered {
			op = 1
		}
		s.DrawCircle(surface.Circle{
			Center: frame.proj.Project(st.Lng, st.Lat),
			R:      radius.Apply(float64(st.TripCount)),
			Style:  surface.Style{Fill: g.opts.Palette.Marker, Opacity: op},
			Target: &surface.Target{Kind: stationKind, Index: i},
		})
	}
}

// OnHover raises the hovered marker to full opacity.
func (g *GeoDensity) OnHover(t surface.Target, hit bool) bool {
	next := -1
	if hit && t.Kind == stationKind {
		next = t.Index
	}
	if next == g.hovered {
		return false
	}
	g.hovered = next
	return true
}

// Describe implements Describer.
func (g *GeoDensity) Describe(t surface.Target) string {
	if t.Kind != stationKind || t.Index < 0 || t.Index >= len(g.stations) {
		return ""
	}
	return describeStation(g.stations[t.Index])
}
