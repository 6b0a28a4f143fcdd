package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	scenarioName := flag.String("scenario", "bounce", "scenario name in scenario/ (basename, .yaml optional)")
	settingsPath := flag.String("settings", "", "physics settings YAML applied over the scenario's settings")
	watch := flag.Bool("watch", false, "reload scenarios and settings when they change on disk")
	debug := flag.Bool("debug", false, "draw bounding areas, quadtree nodes and edge normals")
	zoom := flag.Float64("zoom", 24, "pixels per world unit")
	flag.Parse()

	game, err := NewGame(*scenarioName, *settingsPath, *debug, *zoom)
	if err != nil {
		log.Fatal(err)
	}
	if *watch {
		if err := game.Watch(); err != nil {
			log.Fatal(err)
		}
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("physics2d sandbox")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
