package scenario

import (
	"fmt"
	"log"
	"math"

	"github.com/milk9111/physics2d/physics"
)

// Scene is a built scenario: a world plus its bodies by name.
type Scene struct {
	Name       string
	World      *physics.World
	Controller *Controller

	bodies      map[string]*physics.Body
	order       []string
	accumulator float64
}

// Build creates a world from spec. Unnamed bodies get their index as name.
func Build(spec Spec) (*Scene, error) {
	settings, err := spec.PhysicsSettings()
	if err != nil {
		return nil, err
	}
	world, err := physics.NewWorld(settings)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", spec.Name, err)
	}

	scene := &Scene{
		Name:   spec.Name,
		World:  world,
		bodies: make(map[string]*physics.Body, len(spec.Bodies)),
	}
	for i, bs := range spec.Bodies {
		if bs.Name == "" {
			bs.Name = fmt.Sprintf("body%d", i)
		}
		if _, exists := scene.bodies[bs.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, bs.Name)
		}
		body, err := bs.build()
		if err != nil {
			return nil, fmt.Errorf("scenario: %s body %q: %w", spec.Name, bs.Name, err)
		}
		world.Add(body)
		scene.bodies[bs.Name] = body
		scene.order = append(scene.order, bs.Name)
	}

	if spec.Script != "" {
		ctrl, err := LoadController(spec.Script, world.Logger())
		if err != nil {
			return nil, fmt.Errorf("scenario: %s script: %w", spec.Name, err)
		}
		scene.Controller = ctrl
	}
	return scene, nil
}

// BuildNamed loads and builds an embedded or on-disk scenario.
func BuildNamed(name string) (*Scene, error) {
	spec, err := LoadScenario(name)
	if err != nil {
		return nil, err
	}
	return Build(spec)
}

// SetLogger routes world and controller logging to l.
func (s *Scene) SetLogger(l *log.Logger) {
	s.World.SetLogger(l)
	if s.Controller != nil {
		s.Controller.logger = s.World.Logger()
	}
}

func (s *Scene) Body(name string) *physics.Body {
	return s.bodies[name]
}

// Names returns body names in declaration order.
func (s *Scene) Names() []string {
	return s.order
}

// Step runs the controller, if any, then one world step. A script error
// skips the controller for this tick but the world still steps.
func (s *Scene) Step() error {
	var err error
	if s.Controller != nil {
		err = s.Controller.Update(s.World.Tick(), s.World.Settings().TimeStep, s.bodies)
	}
	s.World.Step()
	return err
}

// Advance mirrors World.Advance but runs the controller before every step.
// It returns the steps taken and the first script error.
func (s *Scene) Advance(elapsed float64) (int, error) {
	if elapsed <= 0 {
		return 0, nil
	}
	settings := s.World.Settings()
	dt := settings.TimeStep
	s.accumulator += elapsed

	var firstErr error
	steps := 0
	for s.accumulator >= dt && steps < settings.MaxStepsPerUpdate {
		if err := s.Step(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.accumulator -= dt
		steps++
	}
	if s.accumulator >= dt {
		s.World.Logger().Printf("Scene: %s overran %d steps", s.Name, steps)
		s.accumulator = math.Mod(s.accumulator, dt)
	}
	return steps, firstErr
}
