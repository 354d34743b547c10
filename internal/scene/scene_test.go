package scene

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"scrollmap/internal/annotate"
	"scrollmap/internal/dataset"
	"scrollmap/internal/geom"
	"scrollmap/internal/surface"
)

var testBounds = geom.Bounds{
	Width:  900,
	Height: 550,
	Margin: geom.Margin{Top: 40, Right: 30, Bottom: 60, Left: 70},
}

func testStore(boundaries []dataset.Boundary) *dataset.Store {
	return dataset.NewStore(
		[]dataset.StationRecord{
			{Name: "A", TripCount: 10, Lat: 41.80, Lng: -87.60},
			{Name: "B", TripCount: 100, Lat: 41.90, Lng: -87.70},
			{Name: "C", TripCount: 1, Lat: 41.85, Lng: -87.65},
		},
		[]dataset.DurationBin{
			{Label: "<5", MemberCount: 10, CasualCount: 20},
			{Label: "5-10", MemberCount: 40, CasualCount: 5},
		},
		[]dataset.HourlyRecord{
			{Hour: 2, MemberCount: 5, CasualCount: 1},
			{Hour: 0, MemberCount: 3, CasualCount: 2},
			{Hour: 1, MemberCount: 4, CasualCount: 8},
		},
		boundaries,
	)
}

func testBoundary() []dataset.Boundary {
	return []dataset.Boundary{{{
		{-87.75, 41.75}, {-87.55, 41.75}, {-87.55, 41.95}, {-87.75, 41.95}, {-87.75, 41.75},
	}}}
}

func newController(t *testing.T, store *dataset.Store, opts Options) (*Controller, *surface.Tree) {
	t.Helper()
	if opts.Palette == (Palette{}) {
		opts.Palette = DefaultPalette
	}
	tree := surface.NewTree(annotate.DefaultMetrics)
	c, err := New(store, tree, testBounds, Standard(nil, opts))
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c, tree
}

func targeted[T any](items []T, target func(T) *surface.Target) []T {
	var out []T
	for _, it := range items {
		if target(it) != nil {
			out = append(out, it)
		}
	}
	return out
}

func TestNewRequiresScenes(t *testing.T) {
	_, err := New(testStore(nil), surface.NewTree(annotate.DefaultMetrics), testBounds, nil)
	if !errors.Is(err, ErrNoScenes) {
		t.Fatalf("got %v want ErrNoScenes", err)
	}
}

func TestNavigationClamps(t *testing.T) {
	var frames []Frame
	tree := surface.NewTree(annotate.DefaultMetrics)
	c, err := New(testStore(nil), tree, testBounds, Standard(nil, Options{Palette: DefaultPalette}),
		WithObserver(func(f Frame) { frames = append(frames, f) }))
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 || frames[0].Index != 0 {
		t.Fatalf("construction should render scene 0 once, got %+v", frames)
	}
	if !c.IsAtStart() || c.IsAtEnd() {
		t.Fatalf("start flags wrong at %d", c.CurrentSceneIndex())
	}
	if n := c.Nav(); n.Prev || !n.Next {
		t.Fatalf("nav at start: %+v", n)
	}

	c.GoPrevious()
	if c.CurrentSceneIndex() != 0 || len(frames) != 1 {
		t.Fatalf("previous at start moved to %d", c.CurrentSceneIndex())
	}

	for i := 0; i < 10; i++ {
		c.GoNext()
	}
	if c.CurrentSceneIndex() != c.Total()-1 || !c.IsAtEnd() {
		t.Fatalf("expected last scene, got %d", c.CurrentSceneIndex())
	}
	if n := c.Nav(); !n.Prev || n.Next {
		t.Fatalf("nav at end: %+v", n)
	}
	if got := len(frames); got != c.Total() {
		t.Fatalf("got %d renders want %d", got, c.Total())
	}
	if c.Current().Kind != KindExplorer {
		t.Fatalf("last scene kind %q", c.Current().Kind)
	}
}

func TestNavigationSequenceStaysInRange(t *testing.T) {
	c, _ := newController(t, testStore(nil), Options{})
	steps := "nnpNnnnppPpnpnNnpppPpnn"
	for i, s := range steps {
		switch s {
		case 'n':
			c.GoNext()
		case 'N':
			c.Advance()
		case 'p':
			c.GoPrevious()
		case 'P':
			c.Retreat()
		}
		idx := c.CurrentSceneIndex()
		if idx < 0 || idx >= c.Total() {
			t.Fatalf("step %d: index %d out of range", i, idx)
		}
		if c.IsAtStart() != (idx == 0) || c.IsAtEnd() != (idx == c.Total()-1) {
			t.Fatalf("step %d: flags disagree with index %d", i, idx)
		}
		if n := c.Nav(); n.Prev != !c.IsAtStart() || n.Next != !c.IsAtEnd() {
			t.Fatalf("step %d: nav %+v at %d", i, n, idx)
		}
	}
}

func TestGoTo(t *testing.T) {
	c, _ := newController(t, testStore(nil), Options{})
	if err := c.GoTo(2); err != nil {
		t.Fatal(err)
	}
	if c.CurrentSceneIndex() != 2 {
		t.Fatalf("got %d", c.CurrentSceneIndex())
	}
	for _, i := range []int{-1, 4, 100} {
		if err := c.GoTo(i); !errors.Is(err, ErrSceneOutOfRange) {
			t.Fatalf("GoTo(%d) = %v", i, err)
		}
		if c.CurrentSceneIndex() != 2 {
			t.Fatalf("failed GoTo(%d) moved to %d", i, c.CurrentSceneIndex())
		}
	}
}

func TestGeoDensityRadiusFollowsTrips(t *testing.T) {
	_, tree := newController(t, testStore(nil), Options{GeoMode: GeoScatter})
	circles := targeted(tree.Circles(), func(c surface.Circle) *surface.Target { return c.Target })
	if len(circles) != 3 {
		t.Fatalf("got %d station markers want 3", len(circles))
	}
	a, b, c := circles[0].R, circles[1].R, circles[2].R
	if !(b > a && a > c) {
		t.Fatalf("radius order wrong: A=%v B=%v C=%v", a, b, c)
	}
	if b != densityMaxRadius {
		t.Fatalf("largest station radius %v want %v", b, densityMaxRadius)
	}
	for _, ci := range circles {
		if ci.R < densityMinRadius || ci.R > densityMaxRadius {
			t.Fatalf("radius %v outside [%d,%d]", ci.R, densityMinRadius, densityMaxRadius)
		}
		if ci.Style.Opacity != densityOpacity {
			t.Fatalf("opacity %v", ci.Style.Opacity)
		}
	}
	if len(tree.Paths()) != 0 {
		t.Fatalf("scatter mode drew a backdrop")
	}
}

func TestGeoProjectedDrawsBackdrop(t *testing.T) {
	_, tree := newController(t, testStore(testBoundary()), Options{GeoMode: GeoProjected})
	if got := len(tree.Paths()); got != 1 {
		t.Fatalf("got %d backdrop paths want 1", got)
	}
	size := testBounds.Inner()
	for _, c := range tree.Circles() {
		if c.Center.X < 0 || c.Center.X > size.W || c.Center.Y < 0 || c.Center.Y > size.H {
			t.Fatalf("station at %+v outside plot %+v", c.Center, size)
		}
	}
}

func TestGeoBackdropKeepsHoles(t *testing.T) {
	withHole := []dataset.Boundary{{
		{{-87.75, 41.75}, {-87.55, 41.75}, {-87.55, 41.95}, {-87.75, 41.95}, {-87.75, 41.75}},
		{{-87.70, 41.80}, {-87.60, 41.80}, {-87.60, 41.90}, {-87.70, 41.90}, {-87.70, 41.80}},
	}}
	_, tree := newController(t, testStore(withHole), Options{GeoMode: GeoProjected})
	paths := tree.Paths()
	if len(paths) != 1 {
		t.Fatalf("got %d backdrop paths want 1", len(paths))
	}
	if len(paths[0].Holes) != 1 || len(paths[0].Holes[0]) != 5 {
		t.Fatalf("hole not carried on the outer ring: %+v", paths[0].Holes)
	}
}

func TestGeoProjectedFallsBackWithoutBoundaries(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	c, tree := newController(t, testStore(nil), Options{GeoMode: GeoProjected, Logger: log})
	c.Render()
	if len(tree.Paths()) != 0 {
		t.Fatalf("backdrop drawn without boundaries")
	}
	if len(tree.Circles()) != 3 {
		t.Fatalf("got %d circles", len(tree.Circles()))
	}
	if n := strings.Count(buf.String(), "no boundary data"); n != 1 {
		t.Fatalf("fallback warned %d times want 1", n)
	}
}

func TestGeoDensityHover(t *testing.T) {
	c, tree := newController(t, testStore(nil), Options{GeoMode: GeoScatter})
	b := tree.Circles()[1]
	got := c.Hover(b.Center)
	if !strings.Contains(got, "B") || !strings.Contains(got, "100") {
		t.Fatalf("hover readout %q", got)
	}
	if op := tree.Circles()[1].Style.Opacity; op != 1 {
		t.Fatalf("hovered opacity %v want 1", op)
	}
	if got := c.Hover(geom.Point{X: -500, Y: -500}); got != "" {
		t.Fatalf("readout off target: %q", got)
	}
	if op := tree.Circles()[1].Style.Opacity; op != densityOpacity {
		t.Fatalf("opacity after leave %v", op)
	}
}

func TestDurationBarsHeights(t *testing.T) {
	c, tree := newController(t, testStore(nil), Options{})
	c.GoNext()
	bars := targeted(tree.Rects(), func(r surface.Rect) *surface.Target { return r.Target })
	if len(bars) != 4 {
		t.Fatalf("got %d bars want 4", len(bars))
	}
	counts := map[surface.Target]int{
		{Kind: memberBar, Index: 0}: 10,
		{Kind: casualBar, Index: 0}: 20,
		{Kind: memberBar, Index: 1}: 40,
		{Kind: casualBar, Index: 1}: 5,
	}
	size := testBounds.Inner()
	for _, b := range bars {
		n, ok := counts[*b.Target]
		if !ok {
			t.Fatalf("unexpected target %+v", *b.Target)
		}
		want := float64(n) / 40 * size.H
		if math.Abs(b.Box.H-want) > 1e-9 {
			t.Fatalf("%+v height %v want %v", *b.Target, b.Box.H, want)
		}
		if math.Abs(b.Box.Bottom()-size.H) > 1e-9 {
			t.Fatalf("%+v does not sit on the axis", *b.Target)
		}
	}
	if bars[0].Box.X >= bars[2].Box.X {
		t.Fatalf("bins out of source order")
	}
	if got := c.Hover(bars[3].Box.Center()); !strings.Contains(got, "5-10") || !strings.Contains(got, "casual") {
		t.Fatalf("hover readout %q", got)
	}
}

func TestDurationBarsSkipDuplicateLabels(t *testing.T) {
	var buf bytes.Buffer
	store := dataset.NewStore(nil,
		[]dataset.DurationBin{
			{Label: "<5", MemberCount: 10, CasualCount: 20},
			{Label: "5-10", MemberCount: 40, CasualCount: 5},
			{Label: "<5", MemberCount: 900, CasualCount: 900},
		},
		nil, nil)
	c, tree := newController(t, store, Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	c.GoNext()
	bars := targeted(tree.Rects(), func(r surface.Rect) *surface.Target { return r.Target })
	if len(bars) != 4 {
		t.Fatalf("got %d bars want 4", len(bars))
	}
	for _, b := range bars {
		if b.Target.Index == 2 {
			t.Fatalf("duplicate row drawn: %+v", *b.Target)
		}
	}
	// the skipped row does not stretch the count axis
	size := testBounds.Inner()
	if math.Abs(bars[2].Box.H-size.H) > 1e-9 {
		t.Fatalf("tallest bar %v want %v", bars[2].Box.H, size.H)
	}
	if !strings.Contains(buf.String(), "duplicate duration bin skipped") {
		t.Fatalf("duplicate not logged: %s", buf.String())
	}
}

func TestHourlyLinesSortsHours(t *testing.T) {
	c, tree := newController(t, testStore(nil), Options{Markers: true})
	if err := c.GoTo(2); err != nil {
		t.Fatal(err)
	}
	paths := tree.Paths()
	if len(paths) != 2 {
		t.Fatalf("got %d series want 2", len(paths))
	}
	for _, p := range paths {
		if len(p.Points) != 3 {
			t.Fatalf("series has %d points", len(p.Points))
		}
		for i := 1; i < len(p.Points); i++ {
			if p.Points[i].X <= p.Points[i-1].X {
				t.Fatalf("points not in hour order: %+v", p.Points)
			}
		}
		if p.Style.StrokeWidth != lineWidth {
			t.Fatalf("stroke width %v", p.Style.StrokeWidth)
		}
	}
	markers := targeted(tree.Circles(), func(c surface.Circle) *surface.Target { return c.Target })
	if len(markers) != 6 {
		t.Fatalf("got %d markers want 6", len(markers))
	}
	c.Hover(markers[0].Center)
	grown := targeted(tree.Circles(), func(c surface.Circle) *surface.Target { return c.Target })
	if grown[0].R != pointHoverRadius || grown[1].R != pointRadius {
		t.Fatalf("hover radii %v %v", grown[0].R, grown[1].R)
	}
}

func TestHourlyLinesWithoutMarkers(t *testing.T) {
	c, tree := newController(t, testStore(nil), Options{})
	_ = c.GoTo(2)
	if n := len(tree.Circles()); n != 0 {
		t.Fatalf("got %d markers with markers disabled", n)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	for _, mode := range []GeoMode{GeoScatter, GeoProjected} {
		c, tree := newController(t, testStore(testBoundary()), Options{GeoMode: mode, Markers: true})
		for i := 0; i < c.Total(); i++ {
			if err := c.GoTo(i); err != nil {
				t.Fatal(err)
			}
			first := tree.Elements()
			c.Render()
			if !reflect.DeepEqual(first, tree.Elements()) {
				t.Fatalf("%s scene %d: second render differs", mode, i)
			}
		}
	}
}

func TestRenderEmptyStore(t *testing.T) {
	c, tree := newController(t, dataset.NewStore(nil, nil, nil, nil), Options{GeoMode: GeoProjected})
	for i := 0; i < c.Total(); i++ {
		_ = c.GoTo(i)
		if len(tree.Circles()) != 0 {
			t.Fatalf("scene %d drew markers for an empty store", i)
		}
	}
}

func TestExplorerAnnotation(t *testing.T) {
	c, tree := newController(t, testStore(nil), Options{GeoMode: GeoScatter})
	_ = c.GoTo(3)
	ex, _ := c.Scene(3)
	explorer := ex.(*Explorer)

	if !strings.Contains(texts(tree), explorePrompt) {
		t.Fatalf("prompt missing")
	}
	station := tree.Circles()[0]
	c.Click(station.Center)
	pl, ok := explorer.Annotation()
	if !ok {
		t.Fatalf("click on station did not annotate")
	}
	if pl.Lines[0] != "A" || pl.Anchor != station.Center {
		t.Fatalf("annotation %+v", pl)
	}
	if !strings.Contains(texts(tree), "Trips: 10") {
		t.Fatalf("annotation text not drawn: %q", texts(tree))
	}
	boxes := 0
	for _, r := range tree.Rects() {
		if r.Target == nil && r.Box == pl.Box {
			boxes++
		}
	}
	if boxes != 1 {
		t.Fatalf("got %d annotation boxes", boxes)
	}

	// a second station replaces the first
	c.Click(tree.Circles()[1].Center)
	if pl, _ := explorer.Annotation(); pl.Lines[0] != "B" {
		t.Fatalf("second click annotated %q", pl.Lines[0])
	}
	if strings.Contains(texts(tree), "Lat 41.8000") {
		t.Fatalf("first annotation still drawn")
	}

	c.Click(geom.Point{X: -400, Y: -400})
	if _, ok := explorer.Annotation(); ok {
		t.Fatalf("click on empty space kept the annotation")
	}

	c.Click(tree.Circles()[2].Center)
	c.GoPrevious()
	c.GoNext()
	if _, ok := explorer.Annotation(); ok {
		t.Fatalf("annotation survived navigation")
	}
	if strings.Contains(texts(tree), "Trips:") {
		t.Fatalf("annotation drawn after navigation")
	}
}

func TestExplorerBriefAnnotation(t *testing.T) {
	c, tree := newController(t, testStore(nil), Options{GeoMode: GeoScatter, Annotation: AnnotationBrief})
	_ = c.GoTo(3)
	c.Click(tree.Circles()[1].Center)
	if !strings.Contains(texts(tree), briefNote) {
		t.Fatalf("brief note missing: %q", texts(tree))
	}
}

func TestStandardMetas(t *testing.T) {
	scenes := Standard([]Meta{{Title: "Custom"}}, Options{})
	if scenes[0].Meta().Title != "Custom" {
		t.Fatalf("title override ignored")
	}
	if scenes[0].Meta().Description != DefaultMetas[0].Description {
		t.Fatalf("description should fall back")
	}
	want := []Kind{KindGeoDensity, KindDurationBars, KindHourlyLines, KindExplorer}
	for i, s := range scenes {
		if s.Meta().Kind != want[i] {
			t.Fatalf("scene %d kind %q", i, s.Meta().Kind)
		}
	}
}

func texts(tree *surface.Tree) string {
	var sb strings.Builder
	for _, x := range tree.Texts() {
		sb.WriteString(x.Value)
		sb.WriteByte('\n')
	}
	return sb.String()
}
