package main

import (
	"io"
	"log"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestSwitchScenarioKeepsPreviousOnFailure(t *testing.T) {
	g := &Game{scenarioName: "bounce"}
	if err := g.load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	bounce := g.scene

	g.switchScenario("no_such_scenario")
	if g.scenarioName != "bounce" || g.scene != bounce {
		t.Fatalf("failed switch should keep bounce, got %q", g.scenarioName)
	}

	g.switchScenario("landing")
	if g.scenarioName != "landing" || g.scene.Name != "landing" {
		t.Fatalf("scene = %q, want landing", g.scene.Name)
	}
	if g.scenarioBase() != "landing" {
		t.Fatalf("scenarioBase = %q", g.scenarioBase())
	}
}

func TestPauseMenuActions(t *testing.T) {
	g := &Game{scenarioName: "landing.yaml", paused: true}
	if err := g.load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if g.scenarioBase() != "landing" {
		t.Fatalf("scenarioBase = %q", g.scenarioBase())
	}

	g.requestStep()
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if g.stepOnce {
		t.Fatalf("step request should be consumed by Update")
	}
	if tick := g.scene.World.Tick(); tick != 1 {
		t.Fatalf("tick = %d after one requested step, want 1", tick)
	}

	g.resume()
	if g.paused {
		t.Fatalf("resume should clear paused")
	}
}
