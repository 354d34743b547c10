package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scrollmap/internal/dataset"
	"scrollmap/internal/geom"
	"scrollmap/internal/scene"
	"scrollmap/internal/surface/raster"
)

func newExportCmd(f *rootFlags) *cobra.Command {
	var (
		out    string
		width  float64
		height float64
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every scene to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStory(*f)
			if err != nil {
				return err
			}
			logger, closeLog, err := openLogger(cfg.LogFile, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			b := cfg.Bounds()
			if width > 0 {
				b.Width = width
			}
			if height > 0 {
				b.Height = height
			}
			store, scenes, err := loadScenes(cfg, logger)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			files, err := exportScenes(store, scenes, b, out)
			if err != nil {
				return err
			}
			for _, p := range files {
				logger.Info("scene exported", "path", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "out", "output directory")
	cmd.Flags().Float64Var(&width, "width", 0, "canvas width in pixels (story value when 0)")
	cmd.Flags().Float64Var(&height, "height", 0, "canvas height in pixels (story value when 0)")
	return cmd
}

// exportScenes steps a controller over a raster canvas and writes one PNG
// per scene, returning the written paths.
func exportScenes(store *dataset.Store, scenes []scene.Renderer, b geom.Bounds, dir string) ([]string, error) {
	canvas, err := raster.New(b)
	if err != nil {
		return nil, err
	}
	ctrl, err := scene.New(store, canvas, b, scenes)
	if err != nil {
		return nil, err
	}
	var files []string
	for i := 0; i < ctrl.Total(); i++ {
		if err := ctrl.GoTo(i); err != nil {
			return files, err
		}
		p := filepath.Join(dir, fmt.Sprintf("scene-%d-%s.png", i+1, ctrl.Current().Kind))
		if err := writePNG(p, canvas); err != nil {
			return files, err
		}
		files = append(files, p)
	}
	return files, nil
}

func writePNG(path string, c *raster.Canvas) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(fh); err != nil {
		fh.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return fh.Close()
}
