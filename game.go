package main

import (
	"fmt"
	"image/color"
	"log"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs/component"
	"github.com/milk9111/bombbreaker/ecs/system"
	"github.com/milk9111/bombbreaker/game"
	"github.com/milk9111/bombbreaker/prefabs"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// Pixels of drag per unit of launch power.
	dragScale = 10
)

var variantKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
	ebiten.Key5, ebiten.Key6, ebiten.Key7,
}

type Game struct {
	frames int
	debug  bool
	seed   uint64

	levelName string
	session   *game.Session
	colors    map[component.BlockType]color.Color

	watcher   *prefabs.Watcher
	clipboard bool

	dragging bool
	message  string
}

func NewGame(levelName string, debug bool, seed uint64) *Game {
	if levelName == "" {
		levelName = "tutorial"
	}
	g := &Game{
		debug:     debug,
		seed:      seed,
		levelName: levelName,
	}

	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable", "err", err)
	} else {
		g.clipboard = true
	}

	if err := g.load(); err != nil {
		log.Fatalf("failed to load level %s: %v", levelName, err)
	}

	if debug {
		w, err := prefabs.NewWatcher()
		if err != nil {
			slog.Warn("prefab hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}
	return g
}

// load rebuilds the session from the current prefab files.
func (g *Game) load() error {
	opts, err := game.LoadOptions(g.seed)
	if err != nil {
		return err
	}
	blocks, err := prefabs.LoadBlocksSpec("blocks.yaml")
	if err != nil {
		return err
	}

	s, err := game.LoadSession(g.levelName, opts)
	if err != nil {
		return err
	}
	g.session = s
	g.colors = blocks.Colors()
	g.dragging = false
	return nil
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyResult()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.session.Reload(); err != nil {
			g.message = err.Error()
		}
	}
	for i, key := range variantKeys {
		if i >= len(component.Variants()) || !inpututil.IsKeyJustPressed(key) {
			continue
		}
		if err := g.session.Select(component.Variants()[i]); err != nil {
			g.message = err.Error()
		}
	}

	g.updateAim()
	g.session.Step()
	return nil
}

func (g *Game) updateAim() {
	if g.session.Done() {
		g.dragging = false
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
	}
	if !g.dragging || !inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		return
	}
	g.dragging = false

	// Pull back like a slingshot: the bomb flies away from the cursor.
	pull := g.session.Level().Launcher.Sub(cursor())
	if err := g.session.LaunchActiveProjectile(pull, pull.Length()/dragScale); err != nil {
		g.message = err.Error()
		return
	}
	g.message = ""
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			slog.Info("prefab changed", "path", change.Path, "kind", change.Kind.String())
			if err := g.load(); err != nil {
				g.message = fmt.Sprintf("reload %s: %v", change.Path, err)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				slog.Warn("prefab watcher", "err", err)
			}
			return
		default:
			return
		}
	}
}

func (g *Game) restart() {
	if err := g.load(); err != nil {
		g.message = err.Error()
	}
}

func (g *Game) copyResult() {
	if !g.clipboard {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.session.Result().String()))
	g.message = "result copied"
}

func (g *Game) Draw(screen *ebiten.Image) {
	var space *cp.Space
	if g.debug {
		space = g.session.Space()
	}
	system.DrawWorld(screen, g.session.World(), space, g.colors)
	system.DrawHUD(screen, g.session.World())

	if g.dragging {
		launcher := g.session.Level().Launcher
		system.DrawAim(screen, launcher, launcher.Add(launcher.Sub(cursor())))
	}

	status := fmt.Sprintf("%s  FPS: %.2f", g.session.Level().Name, ebiten.ActualFPS())
	if g.session.Done() {
		status += "\n" + g.session.Result().String() + "\nF5 restart, C copy result"
	}
	if g.message != "" {
		status += "\n" + g.message
	}
	ebitenutil.DebugPrintAt(screen, status, 10, baseHeight-60)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func cursor() cp.Vector {
	x, y := ebiten.CursorPosition()
	return cp.Vector{X: float64(x), Y: float64(y)}
}
