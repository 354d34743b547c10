// Package config loads the story file: canvas, data sources, scene narrative
// and colours.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"scrollmap/internal/dataset"
	"scrollmap/internal/geom"
	"scrollmap/internal/scene"
)

//go:embed story.yaml
var defaultStory []byte

// ErrInvalid is returned for a story file with unusable values.
var ErrInvalid = errors.New("config: invalid")

// Environment overrides.
const (
	EnvDataDir = "SCROLLMAP_DATA_DIR"
	EnvGeoMode = "SCROLLMAP_GEO_MODE"
	EnvLogFile = "SCROLLMAP_LOG_FILE"
)

// Config is the parsed story file.
type Config struct {
	Canvas struct {
		Width  float64     `yaml:"width"`
		Height float64     `yaml:"height"`
		Margin geom.Margin `yaml:"margin"`
	} `yaml:"canvas"`
	Data struct {
		Dir        string `yaml:"dir"`
		Stations   string `yaml:"stations"`
		Durations  string `yaml:"durations"`
		Hourly     string `yaml:"hourly"`
		Boundaries string `yaml:"boundaries"`
	} `yaml:"data"`
	GeoMode    string      `yaml:"geo_mode"`
	Annotation string      `yaml:"annotation"`
	Markers    bool        `yaml:"markers"`
	Colors     Colors      `yaml:"colors"`
	Scenes     []SceneText `yaml:"scenes"`
	LogFile    string      `yaml:"log_file"`
}

// Colors are hex colours, "#rrggbb".
type Colors struct {
	Member         string `yaml:"member"`
	Casual         string `yaml:"casual"`
	BackdropFill   string `yaml:"backdrop_fill"`
	BackdropStroke string `yaml:"backdrop_stroke"`
	Marker         string `yaml:"marker"`
	Explore        string `yaml:"explore"`
	Axis           string `yaml:"axis"`
	Text           string `yaml:"text"`
	Note           string `yaml:"note"`
	NoteFill       string `yaml:"note_fill"`
}

// SceneText is the narrative of one scene.
type SceneText struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Default returns the built-in story.
func Default() (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(defaultStory, &c); err != nil {
		return nil, fmt.Errorf("parse built-in story: %w", err)
	}
	return &c, nil
}

// Load reads the story at path over the built-in defaults, then applies the
// environment. An empty path loads the defaults only.
func Load(path string) (*Config, error) {
	return LoadEnv(path, os.Getenv)
}

// LoadEnv is Load with an explicit environment lookup.
func LoadEnv(path string, getenv func(string) string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read story file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse story file %s: %w", path, err)
		}
	}
	if v := getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
	if v := getenv(EnvGeoMode); v != "" {
		c.GeoMode = v
	}
	if v := getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values scenes depend on.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas %vx%v", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	}
	if in := c.Bounds().Inner(); in.W <= 0 || in.H <= 0 {
		return fmt.Errorf("%w: margins leave no plot area", ErrInvalid)
	}
	switch scene.GeoMode(c.GeoMode) {
	case scene.GeoProjected, scene.GeoScatter:
	default:
		return fmt.Errorf("%w: geo_mode %q", ErrInvalid, c.GeoMode)
	}
	switch scene.AnnotationStyle(c.Annotation) {
	case scene.AnnotationDetailed, scene.AnnotationBrief:
	default:
		return fmt.Errorf("%w: annotation %q", ErrInvalid, c.Annotation)
	}
	if c.Data.Stations == "" || c.Data.Durations == "" || c.Data.Hourly == "" {
		return fmt.Errorf("%w: stations, durations and hourly sources are required", ErrInvalid)
	}
	return nil
}

// Bounds is the virtual canvas every scene is laid out on.
func (c *Config) Bounds() geom.Bounds {
	return geom.Bounds{Width: c.Canvas.Width, Height: c.Canvas.Height, Margin: c.Canvas.Margin}
}

// Paths resolves the data sources against the data directory. An empty
// boundaries entry disables the map backdrop.
func (c *Config) Paths() dataset.Paths {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.Data.Dir, p)
	}
	return dataset.Paths{
		Stations:   resolve(c.Data.Stations),
		Durations:  resolve(c.Data.Durations),
		Hourly:     resolve(c.Data.Hourly),
		Boundaries: resolve(c.Data.Boundaries),
	}
}

// Metas returns the scene narrative in story order.
func (c *Config) Metas() []scene.Meta {
	out := make([]scene.Meta, len(c.Scenes))
	for i, s := range c.Scenes {
		out[i] = scene.Meta{Title: s.Title, Description: s.Description}
	}
	return out
}

// SceneOptions builds the renderer options.
func (c *Config) SceneOptions() scene.Options {
	p := scene.DefaultPalette
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Member, c.Colors.Member)
	set(&p.Casual, c.Colors.Casual)
	set(&p.BackdropFill, c.Colors.BackdropFill)
	set(&p.BackdropStroke, c.Colors.BackdropStroke)
	set(&p.Marker, c.Colors.Marker)
	set(&p.Explore, c.Colors.Explore)
	set(&p.Axis, c.Colors.Axis)
	set(&p.Text, c.Colors.Text)
	set(&p.Note, c.Colors.Note)
	set(&p.NoteFill, c.Colors.NoteFill)
	return scene.Options{
		GeoMode:    scene.GeoMode(c.GeoMode),
		Annotation: scene.AnnotationStyle(c.Annotation),
		Markers:    c.Markers,
		Palette:    p,
	}
}
