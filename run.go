package matprop

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int

	// ShowFPS prints FPS, TPS and the live cache size in the top-left corner.
	ShowFPS bool

	// Update is called once per tick before Scene.Update. A non-nil error
	// stops the game loop and is returned from Run.
	Update func() error
}

// Run opens a window and drives scene with ebiten's game loop: cfg.Update,
// then Scene.Update, then Scene.Draw. It blocks until the window closes or
// cfg.Update returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if scene == nil {
		panic("matprop: Run requires a scene")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 640, 480
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&gameShell{scene: scene, cfg: cfg})
}

// gameShell adapts a Scene to ebiten.Game.
type gameShell struct {
	scene *Scene
	cfg   RunConfig

	fpsText string
	fpsAge  float64
}

func (g *gameShell) Update() error {
	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}
	g.scene.Update()

	if g.cfg.ShowFPS {
		g.fpsAge += 1.0 / float64(ebiten.TPS())
		if g.fpsAge >= 0.5 || g.fpsText == "" {
			g.fpsAge = 0
			g.fpsText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nMaterials: %d",
				ebiten.ActualFPS(), ebiten.ActualTPS(), g.scene.Cache().Len())
		}
	}
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, g.fpsText)
	}
}

func (g *gameShell) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
