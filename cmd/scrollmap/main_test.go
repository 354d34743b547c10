package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"scrollmap/internal/dataset"
	"scrollmap/internal/scene"
)

func TestLoadStoryFlagsOverride(t *testing.T) {
	cfg, err := loadStory(rootFlags{dataDir: "/srv/rides", geoMode: "scatter"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.Dir != "/srv/rides" || cfg.GeoMode != "scatter" {
		t.Fatalf("flags not applied: dir=%q mode=%q", cfg.Data.Dir, cfg.GeoMode)
	}
	if _, err := loadStory(rootFlags{geoMode: "globe"}); err == nil {
		t.Fatalf("expected invalid geo mode to fail")
	}
}

func TestExportWritesEveryScene(t *testing.T) {
	cfg, err := loadStory(rootFlags{})
	if err != nil {
		t.Fatal(err)
	}
	store := dataset.NewStore(
		[]dataset.StationRecord{
			{Name: "A", TripCount: 10, Lat: 41.80, Lng: -87.60},
			{Name: "B", TripCount: 100, Lat: 41.90, Lng: -87.70},
		},
		[]dataset.DurationBin{{Label: "0-5 min", MemberCount: 10, CasualCount: 4}},
		[]dataset.HourlyRecord{{Hour: 7, MemberCount: 5, CasualCount: 2}, {Hour: 8, MemberCount: 9, CasualCount: 3}},
		nil,
	)
	opts := cfg.SceneOptions()
	opts.GeoMode = scene.GeoScatter
	dir := t.TempDir()
	files, err := exportScenes(store, scene.Standard(cfg.Metas(), opts), cfg.Bounds(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 4 {
		t.Fatalf("wrote %d files want 4", len(files))
	}
	if filepath.Base(files[1]) != "scene-2-duration-bars.png" {
		t.Fatalf("unexpected name %s", files[1])
	}
	for _, p := range files {
		fh, err := os.Open(p)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(fh)
		fh.Close()
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if b := img.Bounds(); b.Dx() != 900 || b.Dy() != 550 {
			t.Fatalf("%s: size %v", p, b)
		}
	}
}
