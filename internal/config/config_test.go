package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"scrollmap/internal/scene"
)

func noEnv(string) string { return "" }

func TestDefaults(t *testing.T) {
	c, err := LoadEnv("", noEnv)
	if err != nil {
		t.Fatal(err)
	}
	in := c.Bounds().Inner()
	if in.W != 800 || in.H != 450 {
		t.Fatalf("inner size %+v want 800x450", in)
	}
	if len(c.Scenes) != 4 {
		t.Fatalf("got %d scenes", len(c.Scenes))
	}
	if c.Metas()[1].Title != scene.DefaultMetas[1].Title {
		t.Fatalf("scene 2 title %q", c.Metas()[1].Title)
	}
	opts := c.SceneOptions()
	if opts.GeoMode != scene.GeoProjected || opts.Annotation != scene.AnnotationDetailed {
		t.Fatalf("options %+v", opts)
	}
	if opts.Palette != scene.DefaultPalette {
		t.Fatalf("palette %+v", opts.Palette)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.yaml")
	body := `
canvas:
  width: 1200
geo_mode: scatter
colors:
  member: "#000000"
data:
  dir: /srv/rides
  boundaries: ""
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadEnv(path, noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if c.Canvas.Width != 1200 || c.Canvas.Height != 550 {
		t.Fatalf("canvas %vx%v", c.Canvas.Width, c.Canvas.Height)
	}
	if c.GeoMode != "scatter" {
		t.Fatalf("geo mode %q", c.GeoMode)
	}
	p := c.SceneOptions().Palette
	if p.Member != "#000000" || p.Casual != scene.DefaultPalette.Casual {
		t.Fatalf("palette %+v", p)
	}
	paths := c.Paths()
	if paths.Stations != filepath.Join("/srv/rides", "station_trip_counts.csv") {
		t.Fatalf("stations path %q", paths.Stations)
	}
	if paths.Boundaries != "" {
		t.Fatalf("boundaries should be disabled, got %q", paths.Boundaries)
	}
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvDataDir: "/tmp/d",
		EnvGeoMode: "scatter",
		EnvLogFile: "/tmp/scrollmap.log",
	}
	c, err := LoadEnv("", func(k string) string { return env[k] })
	if err != nil {
		t.Fatal(err)
	}
	if c.Data.Dir != "/tmp/d" || c.GeoMode != "scatter" || c.LogFile != "/tmp/scrollmap.log" {
		t.Fatalf("env not applied: %+v", c)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero width", "canvas: {width: 0}"},
		{"margins eat canvas", "canvas: {width: 90, margin: {left: 70, right: 30}}"},
		{"bad geo mode", "geo_mode: globe"},
		{"bad annotation", "annotation: verbose"},
		{"missing source", "data: {hourly: \"\"}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "story.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadEnv(path, noEnv); !errors.Is(err, ErrInvalid) {
				t.Fatalf("got %v want ErrInvalid", err)
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := LoadEnv(filepath.Join(t.TempDir(), "nope.yaml"), noEnv); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v", err)
	}
}
