// Command arborview draws the unit hierarchies of a world and animates them.
//
// Units and spin speeds come from the [[spawn]] entries of the config file
// (arbor.toml, or the path in ARBOR_CONFIG). An optional Lua script drives
// further units through its update(dt) hook.
//
// Controls: arrows or WASD pan, wheel zooms, click recenters, Home returns to
// the origin, Space pauses the simulation.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/arbor/config"
	"github.com/phanxgames/arbor/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(config.Path("arbor.toml"))
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	s, err := newScene(cfg, log)
	if err != nil {
		return err
	}
	defer s.close()

	ebiten.SetWindowTitle(cfg.Viewer.Title)
	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetTPS(cfg.Viewer.TPS)

	log.Info("viewer starting",
		zap.Int("width", cfg.Viewer.Width),
		zap.Int("height", cfg.Viewer.Height),
		zap.Int("tps", cfg.Viewer.TPS),
	)
	return ebiten.RunGame(newGame(cfg.Viewer, s))
}

// loadConfig reads path, falling back to the defaults when it does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}
