package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/arbor/config"
)

const panSpeed = 400.0 // pixels per second

var background = color.RGBA{R: 24, G: 26, B: 32, A: 255}

// game implements ebiten.Game on top of a scene.
type game struct {
	cfg    config.ViewerConfig
	scene  *scene
	cam    *camera
	batch  lineBatch
	paused bool
}

func newGame(cfg config.ViewerConfig, s *scene) *game {
	return &game{
		cfg:   cfg,
		scene: s,
		cam:   newCamera(cfg.Width, cfg.Height, cfg.Scale),
	}
}

func (g *game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	g.handleInput(dt)
	g.cam.update(dt)
	if !g.paused {
		g.scene.update(dt)
	}
	return nil
}

func (g *game) handleInput(dt float32) {
	step := panSpeed * float64(dt)
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		g.cam.Pan(-step, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		g.cam.Pan(step, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		g.cam.Pan(0, -step)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		g.cam.Pan(0, step)
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		if wy > 0 {
			g.cam.ZoomBy(1.1)
		} else {
			g.cam.ZoomBy(1 / 1.1)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.cam.ScrollTo(0, 0, 0.5, ease.OutCubic)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		wx, wy := g.cam.ScreenToWorld(float64(mx), float64(my))
		g.cam.ScrollTo(wx, wy, 0.4, ease.OutQuad)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	g.batch.reset()
	w := g.scene.world
	for _, id := range w.Units() {
		drawGraph(&g.batch, g.cam, w.Unit(id).SceneGraph())
	}
	g.batch.flush(screen)

	stats := w.SceneGraphs().LastStats()
	msg := fmt.Sprintf("TPS %.0f  FPS %.0f\nunits %d  nodes %d  recomputed %d\nentities %d  pose events %d\nzoom %.1f",
		ebiten.ActualTPS(), ebiten.ActualFPS(),
		stats.Graphs, stats.Nodes, stats.Recomputed,
		g.scene.store.Len(), g.scene.poseEvents,
		g.cam.Zoom,
	)
	if g.paused {
		msg += "\n[paused]"
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
