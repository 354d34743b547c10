// Package scene holds the four story scenes and the controller that steps
// through them.
package scene

import (
	"io"
	"log/slog"

	"scrollmap/internal/dataset"
	"scrollmap/internal/geom"
	"scrollmap/internal/surface"
)

// Kind names a scene variant.
type Kind string

const (
	KindGeoDensity   Kind = "geo-density"
	KindDurationBars Kind = "duration-bars"
	KindHourlyLines  Kind = "hourly-lines"
	KindExplorer     Kind = "explorer"
)

// Meta is the narrative attached to a scene.
type Meta struct {
	Title       string
	Description string
	Kind        Kind
}

// Renderer draws one scene from the store onto a surface. Rendering the
// same data at the same bounds always produces the same elements.
type Renderer interface {
	Meta() Meta
	Render(store *dataset.Store, s surface.Surface, b geom.Bounds)
}

// Resetter is implemented by scenes with transient state (hover, active
// annotation). The controller calls Reset whenever the scene is activated.
type Resetter interface {
	Reset()
}

// ClickHandler receives pointer clicks resolved against the visual tree.
// hit is false when the click landed on no interactive element. It reports
// whether the scene needs to be redrawn.
type ClickHandler interface {
	OnClick(t surface.Target, hit bool) bool
}

// HoverHandler receives pointer moves; same contract as ClickHandler.
type HoverHandler interface {
	OnHover(t surface.Target, hit bool) bool
}

// Describer turns a target into a one-line readout for status bars.
type Describer interface {
	Describe(t surface.Target) string
}

// GeoMode selects how station coordinates reach the canvas.
type GeoMode string

const (
	// GeoProjected fits a Mercator projection to the boundary backdrop.
	GeoProjected GeoMode = "projected"
	// GeoScatter maps lng/lat linearly, no backdrop.
	GeoScatter GeoMode = "scatter"
)

// AnnotationStyle selects the text of station annotations.
type AnnotationStyle string

const (
	AnnotationDetailed AnnotationStyle = "detailed"
	AnnotationBrief    AnnotationStyle = "brief"
)

// Palette holds the fixed series and backdrop colours.
type Palette struct {
	Member         string
	Casual         string
	BackdropFill   string
	BackdropStroke string
	Marker         string
	Explore        string
	Axis           string
	Text           string
	Note           string
	NoteFill       string
}

// DefaultPalette is the built-in colour set.
var DefaultPalette = Palette{
	Member:         "#1f77b4",
	Casual:         "#ff7f0e",
	BackdropFill:   "#e9e9e9",
	BackdropStroke: "#aaaaaa",
	Marker:         "#1f77b4",
	Explore:        "#000000",
	Axis:           "#555555",
	Text:           "#222222",
	Note:           "#333333",
	NoteFill:       "#ffffff",
}

// Options configure the scene set.
type Options struct {
	GeoMode    GeoMode
	Annotation AnnotationStyle
	// Markers draws per-hour points on the hourly lines.
	Markers bool
	Palette Palette
	Logger  *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// Standard builds the four-scene story in order. metas supplies titles and
// descriptions; missing entries fall back to the built-in narrative.
func Standard(metas []Meta, opts Options) []Renderer {
	m := func(i int) Meta {
		d := DefaultMetas[i]
		if i < len(metas) {
			if metas[i].Title != "" {
				d.Title = metas[i].Title
			}
			if metas[i].Description != "" {
				d.Description = metas[i].Description
			}
		}
		return d
	}
	return []Renderer{
		NewGeoDensity(m(0), opts),
		NewDurationBars(m(1), opts),
		NewHourlyLines(m(2), opts),
		NewExplorer(m(3), opts),
	}
}

// DefaultMetas is the built-in narrative.
var DefaultMetas = []Meta{
	{
		Title:       "Scene 1: The Network's Pulse",
		Description: "Chicago's Divvy network serves riders across the city, but usage is heavily concentrated in popular areas.",
		Kind:        KindGeoDensity,
	},
	{
		Title:       "Scene 2: The Commute vs. The Cruise",
		Description: "Members primarily take short, direct trips, while casual riders enjoy longer, more leisurely rides.",
		Kind:        KindDurationBars,
	},
	{
		Title:       "Scene 3: Weekday Warriors & Weekend Wanderers",
		Description: "Riding times reveal a classic commuter profile for members (8 AM/5 PM peaks) and a leisure profile for casual users.",
		Kind:        KindHourlyLines,
	},
	{
		Title:       "Scene 4: Explore Rider Routes",
		Description: "Click a station to see its name, trip count and location.",
		Kind:        KindExplorer,
	},
}
