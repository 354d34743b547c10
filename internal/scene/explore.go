package scene

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"scrollmap/internal/annotate"
	"scrollmap/internal/dataset"
	"scrollmap/internal/geom"
	"scrollmap/internal/surface"
)

const (
	exploreRadius = 3
	explorePrompt = "Click a station to see details"
	briefNote     = "Showing top routes would require more data processing."
)

// Explorer is the interactive station map: clicking a station annotates it,
// clicking anywhere else dismisses the annotation.
type Explorer struct {
	meta   Meta
	opts   Options
	slot   annotate.Slot
	warned bool

	// geometry of the last render; clicks resolve against it
	stations []dataset.StationRecord
	points   []geom.Point
	size     geom.Size
	metrics  annotate.Metrics
}

// NewExplorer builds the exploration scene.
func NewExplorer(meta Meta, opts Options) *Explorer {
	meta.Kind = KindExplorer
	if opts.Annotation == "" {
		opts.Annotation = AnnotationDetailed
	}
	return &Explorer{meta: meta, opts: opts}
}

func (e *Explorer) Meta() Meta { return e.meta }

// Reset drops the active annotation.
func (e *Explorer) Reset() { e.slot.Dismiss() }

// Annotation returns the visible annotation, if any.
func (e *Explorer) Annotation() (annotate.Placement, bool) { return e.slot.Active() }

// Render implements Renderer.
func (e *Explorer) Render(store *dataset.Store, s surface.Surface, b geom.Bounds) {
	size := b.Inner()
	p := e.opts.Palette
	frame := fitGeo(store, size, e.opts.GeoMode, &e.warned, e.opts.logger())
	drawBackdrop(s, frame, p)

	stations := store.Stations()
	e.stations = stations
	e.points = e.points[:0]
	e.size = size
	e.metrics = s.Metrics()
	for i, st := range stations {
		pt := frame.proj.Project(st.Lng, st.Lat)
		e.points = append(e.points, pt)
		s.DrawCircle(surface.Circle{
			Center: pt,
			R:      exploreRadius,
			Style:  surface.Style{Fill: p.Explore, Opacity: 1},
			Target: &surface.Target{Kind: stationKind, Index: i},
		})
	}
	s.DrawText(surface.Text{
		At:     geom.Point{X: size.W / 2, Y: 20},
		Value:  explorePrompt,
		Anchor: surface.AnchorMiddle,
		Size:   16,
		Style:  textStyle(p),
	})
	if pl, ok := e.slot.Active(); ok {
		drawAnnotation(s, pl, p)
	}
}

// OnClick annotates the clicked station or dismisses the active annotation.
func (e *Explorer) OnClick(t surface.Target, hit bool) bool {
	if !hit || t.Kind != stationKind || t.Index < 0 || t.Index >= len(e.points) {
		return e.slot.Dismiss()
	}
	st := e.stations[t.Index]
	pl := annotate.NewPlacer(e.metrics).Place(e.points[t.Index], e.noteLines(st), e.size)
	e.slot.Show(st.Name, pl)
	return true
}

// Describe implements Describer.
func (e *Explorer) Describe(t surface.Target) string {
	if t.Kind != stationKind || t.Index < 0 || t.Index >= len(e.stations) {
		return ""
	}
	return describeStation(e.stations[t.Index])
}

func (e *Explorer) noteLines(st dataset.StationRecord) []string {
	if e.opts.Annotation == AnnotationBrief {
		return []string{st.Name, briefNote}
	}
	return []string{
		st.Name,
		"Trips: " + humanize.Comma(int64(st.TripCount)),
		fmt.Sprintf("Lat %.4f, Lng %.4f", st.Lat, st.Lng),
	}
}

func drawAnnotation(s surface.Surface, pl annotate.Placement, p Palette) {
	m := s.Metrics()
	s.DrawLine(surface.Line{
		From:  pl.Connector[0],
		To:    pl.Connector[1],
		Style: surface.Style{Stroke: p.Note, StrokeWidth: 1, Opacity: 1},
	})
	s.DrawRect(surface.Rect{
		Box:   pl.Box,
		Style: surface.Style{Fill: p.NoteFill, Stroke: p.Note, StrokeWidth: 1, Opacity: 0.95},
	})
	for i, line := range pl.Lines {
		s.DrawText(surface.Text{
			At: geom.Point{
				X: pl.Box.X + m.Padding,
				Y: pl.Box.Y + m.Padding + float64(i)*m.LineHeight + m.LineHeight*0.75,
			},
			Value: line,
			Size:  12,
			Style: textStyle(p),
		})
	}
}
