package main

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/collider"
	"github.com/milk9111/physics2d/debugdraw"
	"github.com/milk9111/physics2d/physics"
	"github.com/milk9111/physics2d/scenario"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	rayLength = 100
)

type Game struct {
	frames   int
	paused   bool
	stepOnce bool
	ui       *ebitenui.UI

	scenarioName string
	settingsPath string
	scene        *scenario.Scene
	drawer       debugdraw.Drawer

	settingsWatcher *physics.SettingsWatcher
	scenarioWatcher *scenario.Watcher

	ray    collider.Ray
	hasRay bool
	hit    collider.RaycastHit
	hitOK  bool
}

func NewGame(scenarioName, settingsPath string, debug bool, zoom float64) (*Game, error) {
	g := &Game{
		scenarioName: scenarioName,
		settingsPath: settingsPath,
		drawer: debugdraw.Drawer{
			Camera:      debugdraw.NewCamera(baseWidth, baseHeight, zoom),
			ShowBounds:  debug,
			ShowTree:    debug,
			ShowNormals: debug,
		},
	}
	if err := g.load(); err != nil {
		return nil, err
	}
	g.ui = NewPauseUI(g)
	return g, nil
}

func (g *Game) load() error {
	scene, err := scenario.BuildNamed(g.scenarioName)
	if err != nil {
		return err
	}
	if g.settingsPath != "" {
		s, err := physics.LoadSettings(g.settingsPath)
		if err != nil {
			return err
		}
		if err := scene.World.ApplySettings(s); err != nil {
			return err
		}
	}
	g.scene = scene
	g.hasRay = false
	ebiten.SetTPS(int(math.Round(1 / scene.World.Settings().TimeStep)))
	log.Printf("Sandbox: loaded scenario %s with %d bodies", scene.Name, scene.World.Len())
	return nil
}

// Watch starts hot reload of the scenario directory and the settings file.
func (g *Game) Watch() error {
	w, err := scenario.NewWatcher(scenario.Dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", scenario.Dir, err)
	}
	g.scenarioWatcher = w
	if g.settingsPath != "" {
		sw, err := physics.WatchSettings(g.settingsPath, nil)
		if err != nil {
			return err
		}
		g.settingsWatcher = sw
	}
	return nil
}

func (g *Game) Close() {
	if g.scenarioWatcher != nil {
		_ = g.scenarioWatcher.Close()
	}
	if g.settingsWatcher != nil {
		_ = g.settingsWatcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatchers()
	g.handleInput()

	if g.paused {
		if g.ui != nil {
			g.ui.Update()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			g.stepOnce = true
		}
		if !g.stepOnce {
			return nil
		}
		g.stepOnce = false
	}
	if err := g.scene.Step(); err != nil {
		log.Printf("Sandbox: %v", err)
	}
	if g.hasRay {
		g.hit, g.hitOK = g.scene.World.TryRaycast(g.ray, collider.LayerAll)
	}
	return nil
}

func (g *Game) pollWatchers() {
	if g.settingsWatcher != nil {
		select {
		case s, ok := <-g.settingsWatcher.Updates:
			if ok {
				if err := g.scene.World.ApplySettings(s); err != nil {
					log.Printf("Sandbox: apply settings: %v", err)
				}
			}
		case err, ok := <-g.settingsWatcher.Errors:
			if ok {
				log.Printf("Sandbox: settings watcher: %v", err)
			}
		default:
		}
	}

	if g.scenarioWatcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.scenarioWatcher.Events:
			if !ok {
				return
			}
			if !g.affectsScene(name) {
				continue
			}
			if err := g.load(); err != nil {
				log.Printf("Sandbox: reload %s: %v", name, err)
			}
		case err, ok := <-g.scenarioWatcher.Errors:
			if ok {
				log.Printf("Sandbox: scenario watcher: %v", err)
			}
			return
		default:
			return
		}
	}
}

// affectsScene reports whether a changed file is the running scenario or any
// script.
func (g *Game) affectsScene(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".tengo") {
		return true
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) == g.scenarioBase()
}

func (g *Game) resume() {
	g.paused = false
}

func (g *Game) requestStep() {
	g.stepOnce = true
}

func (g *Game) reload() {
	if err := g.load(); err != nil {
		log.Printf("Sandbox: reload: %v", err)
	}
}

// switchScenario loads name in place of the running scenario. The previous
// scenario stays loaded when name fails to build.
func (g *Game) switchScenario(name string) {
	prev := g.scenarioName
	g.scenarioName = name
	if err := g.load(); err != nil {
		log.Printf("Sandbox: switch to %s: %v", name, err)
		g.scenarioName = prev
		return
	}
	if g.ui != nil {
		g.ui = NewPauseUI(g)
	}
}

func (g *Game) scenarioBase() string {
	return strings.TrimSuffix(g.scenarioName, filepath.Ext(g.scenarioName))
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		on := !g.drawer.ShowTree
		g.drawer.ShowBounds, g.drawer.ShowTree, g.drawer.ShowNormals = on, on, on
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		start := g.drawer.Camera.ToWorld(float64(x), float64(y))
		g.ray = collider.NewRay(start, cp.Vector{X: 0, Y: -1}, rayLength)
		g.hasRay = true
		g.hit, g.hitOK = g.scene.World.TryRaycast(g.ray, collider.LayerAll)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawer.DrawWorld(screen, g.scene.World)
	if g.hasRay {
		g.drawer.DrawRay(screen, g.ray, g.hit, g.hitOK)
	}

	status := fmt.Sprintf("%s  FPS %.1f", g.scene.Name, ebiten.ActualFPS())
	if g.paused {
		status += "  [paused, N to step]"
	}
	if g.hasRay && g.hitOK {
		name := "?"
		if b, ok := g.hit.Collider.Body().(*physics.Body); ok {
			name = b.String()
		}
		status += fmt.Sprintf("\nray hit %s at (%.2f, %.2f) d=%.2f", name, g.hit.ContactPoint.X, g.hit.ContactPoint.Y, g.hit.Distance)
	}
	g.drawer.DrawStats(screen, g.scene.World, status)

	if g.paused && g.ui != nil {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
