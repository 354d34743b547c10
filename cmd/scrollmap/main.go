package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"scrollmap/internal/config"
	"scrollmap/internal/dataset"
	"scrollmap/internal/scene"
	"scrollmap/internal/tui"
)

type rootFlags struct {
	config  string
	dataDir string
	geoMode string
	logFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:   "scrollmap",
		Short: "Step through the bike-share story in the terminal",
		Long: `scrollmap renders a four-scene story about bike-share usage:
station density on a map, trip durations, riding hours and an explorable
station map. Use the arrow keys to move between scenes and the mouse to
inspect stations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(f)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "story file (YAML); built-in story when empty")
	pf.StringVar(&f.dataDir, "data", "", "directory holding the CSV and boundary files")
	pf.StringVar(&f.geoMode, "geo-mode", "", "projected or scatter")
	pf.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	cmd.AddCommand(newExportCmd(&f))
	return cmd
}

// loadStory reads the story file and applies flag overrides.
func loadStory(f rootFlags) (*config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	if f.dataDir != "" {
		cfg.Data.Dir = f.dataDir
	}
	if f.geoMode != "" {
		cfg.GeoMode = f.geoMode
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
	return cfg, cfg.Validate()
}

// openLogger logs to the configured file, or to fallback when none is set.
func openLogger(path string, fallback io.Writer) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(fallback, nil)), func() {}, nil
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	h := slog.NewTextHandler(fh, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), func() { fh.Close() }, nil
}

func loadScenes(cfg *config.Config, logger *slog.Logger) (*dataset.Store, []scene.Renderer, error) {
	store, err := dataset.Load(cfg.Paths(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("load data: %w", err)
	}
	opts := cfg.SceneOptions()
	opts.Logger = logger
	return store, scene.Standard(cfg.Metas(), opts), nil
}

func runTUI(f rootFlags) error {
	cfg, err := loadStory(f)
	if err != nil {
		return err
	}
	// the alternate screen owns stdout; without a log file logs are dropped
	logger, closeLog, err := openLogger(cfg.LogFile, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	store, scenes, err := loadScenes(cfg, logger)
	if err != nil {
		return err
	}
	m, err := tui.New(store, cfg.Bounds(), scenes, tui.WithLogger(logger))
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
