// Command physd runs a scenario headless. With -steps it simulates a fixed
// number of ticks and prints a summary; otherwise it steps in real time and
// streams snapshots to websocket clients on /ws.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milk9111/physics2d/physics"
	"github.com/milk9111/physics2d/scenario"
	"github.com/milk9111/physics2d/telemetry"
)

func main() {
	scenarioName := flag.String("scenario", "pile", "scenario name in scenario/ (basename, .yaml optional)")
	settingsPath := flag.String("settings", "", "physics settings YAML applied over the scenario's settings")
	addr := flag.String("addr", ":8080", "listen address for the telemetry websocket")
	steps := flag.Int("steps", 0, "run this many steps, print a summary and exit")
	every := flag.Int("every", 1, "publish a snapshot every N steps")
	flag.Parse()

	scene, err := load(*scenarioName, *settingsPath)
	if err != nil {
		log.Fatalf("physd: %v", err)
	}

	if *steps > 0 {
		if err := runBounded(scene, *steps, os.Stdout); err != nil {
			log.Fatalf("physd: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, scene, *addr, *every); err != nil {
		log.Fatalf("physd: %v", err)
	}
}

func load(name, settingsPath string) (*scenario.Scene, error) {
	scene, err := scenario.BuildNamed(name)
	if err != nil {
		return nil, err
	}
	if settingsPath == "" {
		return scene, nil
	}
	s, err := physics.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	if err := scene.World.ApplySettings(s); err != nil {
		return nil, err
	}
	return scene, nil
}

func runBounded(scene *scenario.Scene, steps int, out io.Writer) error {
	contacts := 0
	for i := 0; i < steps; i++ {
		if err := scene.Step(); err != nil {
			return err
		}
		for _, b := range scene.World.Bodies() {
			contacts += len(b.Collisions())
		}
	}

	fmt.Fprintf(out, "scenario %s: %d steps, %d contacts\n", scene.Name, scene.World.Tick(), contacts/2)
	for _, name := range scene.Names() {
		b := scene.Body(name)
		p, v := b.Position(), b.Velocity()
		fmt.Fprintf(out, "  %-12s pos (%8.3f, %8.3f)  vel (%8.3f, %8.3f)\n", name, p.X, p.Y, v.X, v.Y)
	}
	return nil
}

func serve(ctx context.Context, scene *scenario.Scene, addr string, every int) error {
	if every < 1 {
		every = 1
	}
	hub := telemetry.NewHub(nil)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("physd: serving %s on %s", scene.Name, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	dt := time.Duration(scene.World.Settings().TimeStep * float64(time.Second))
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			return err
		case <-ticker.C:
			if err := scene.Step(); err != nil {
				log.Printf("physd: %v", err)
			}
			if scene.World.Tick()%uint64(every) != 0 {
				continue
			}
			if err := hub.Publish(telemetry.Capture(scene.Name, scene.World)); err != nil {
				log.Printf("physd: %v", err)
			}
		}
	}
}
