// Package scenario loads YAML descriptions of physics worlds and builds them,
// optionally with a tengo script steering bodies every tick.
package scenario

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/collider"
	"github.com/milk9111/physics2d/physics"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownKind     = errors.New("scenario: unknown body kind")
	ErrUnknownShape    = errors.New("scenario: unknown collider shape")
	ErrInvalidCollider = errors.New("scenario: invalid collider")
	ErrInvalidMass     = errors.New("scenario: dynamic body mass must be positive")
	ErrDuplicateName   = errors.New("scenario: duplicate body name")
)

type Spec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Settings is decoded over physics.DefaultSettings when present.
	Settings yaml.Node  `yaml:"settings"`
	Bodies   []BodySpec `yaml:"bodies"`
	Script   string     `yaml:"script"`
}

type BodySpec struct {
	Name        string                  `yaml:"name"`
	Kind        string                  `yaml:"kind"`
	Position    cp.Vector               `yaml:"position"`
	Rotation    float64                 `yaml:"rotation"`
	Scale       *cp.Vector              `yaml:"scale"`
	Mass        float64                 `yaml:"mass"`
	Kinematic   *bool                   `yaml:"kinematic"`
	Trigger     bool                    `yaml:"trigger"`
	Disabled    bool                    `yaml:"disabled"`
	UpdateOrder int                     `yaml:"update_order"`
	Velocity    cp.Vector               `yaml:"velocity"`
	Material    physics.PhysicsMaterial `yaml:"material"`
	Colliders   []ColliderSpec          `yaml:"colliders"`
}

type ColliderSpec struct {
	Shape       string           `yaml:"shape"`
	Offset      cp.Vector        `yaml:"offset"`
	Radius      float64          `yaml:"radius"`
	RadiusScale string           `yaml:"radius_scale"`
	Width       float64          `yaml:"width"`
	Height      float64          `yaml:"height"`
	Vertices    []cp.Vector      `yaml:"vertices"`
	Start       cp.Vector        `yaml:"start"`
	End         cp.Vector        `yaml:"end"`
	Deltas      []cp.Vector      `yaml:"deltas"`
	Layers      *collider.Layers `yaml:"layers"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("scenario: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("scenario: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadScenario(name string) (Spec, error) {
	return LoadSpec[Spec](name)
}

func ParseSpec(data []byte) (Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Spec{}, fmt.Errorf("scenario: unmarshal: %w", err)
	}
	return spec, nil
}

// PhysicsSettings returns the world settings the scenario asks for.
func (s Spec) PhysicsSettings() (physics.Settings, error) {
	settings := physics.DefaultSettings()
	if s.Settings.Kind == 0 {
		return settings, nil
	}
	if err := s.Settings.Decode(&settings); err != nil {
		return physics.Settings{}, fmt.Errorf("scenario: %s settings: %w", s.Name, err)
	}
	if err := settings.Validate(); err != nil {
		return physics.Settings{}, fmt.Errorf("scenario: %s settings: %w", s.Name, err)
	}
	return settings, nil
}

func (b BodySpec) build() (*physics.Body, error) {
	colliders := make([]*collider.Collider, 0, len(b.Colliders))
	for i, cs := range b.Colliders {
		c, err := cs.build()
		if err != nil {
			return nil, fmt.Errorf("collider %d: %w", i, err)
		}
		colliders = append(colliders, c)
	}

	var body *physics.Body
	switch b.Kind {
	case "", "static":
		body = physics.NewStaticBody(colliders...)
	case "dynamic":
		if b.Mass <= 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMass, b.Mass)
		}
		body = physics.NewDynamicBody(b.Mass, colliders...)
		if b.Kinematic != nil {
			body.SetKinematic(*b.Kinematic)
		}
		body.SetVelocity(b.Velocity)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, b.Kind)
	}

	t := collider.IdentityTransform
	t.Position = b.Position
	t.Rotation = b.Rotation
	if b.Scale != nil {
		t.Scale = *b.Scale
	}
	body.SetTransform(t)
	body.SetName(b.Name)
	body.SetMaterial(b.Material)
	body.SetTrigger(b.Trigger)
	body.SetUpdateOrder(b.UpdateOrder)
	body.SetEnabled(!b.Disabled)
	return body, nil
}

func (cs ColliderSpec) build() (*collider.Collider, error) {
	var c *collider.Collider
	switch cs.Shape {
	case "empty":
		c = collider.NewEmpty()
	case "circle":
		if cs.Radius < 0 {
			return nil, fmt.Errorf("%w: negative radius %v", ErrInvalidCollider, cs.Radius)
		}
		scale, err := parseRadiusScale(cs.RadiusScale)
		if err != nil {
			return nil, err
		}
		c = collider.NewCircle(cs.Radius, scale)
	case "rectangle":
		if cs.Width <= 0 || cs.Height <= 0 {
			return nil, fmt.Errorf("%w: rectangle %vx%v", ErrInvalidCollider, cs.Width, cs.Height)
		}
		c = collider.NewRectangle(cs.Width, cs.Height)
	case "polygon":
		if len(cs.Vertices) < 3 {
			return nil, fmt.Errorf("%w: polygon needs 3 vertices, got %d", ErrInvalidCollider, len(cs.Vertices))
		}
		c = collider.NewPolygon(cs.Vertices...)
	case "line":
		c = collider.NewLineSegment(cs.Start, cs.End)
	case "strip":
		if len(cs.Deltas) == 0 {
			return nil, fmt.Errorf("%w: strip needs deltas", ErrInvalidCollider)
		}
		c = collider.NewLineStrip(cs.Start, cs.Deltas...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, cs.Shape)
	}

	c.SetOffset(cs.Offset)
	if cs.Layers != nil {
		c.Layers = *cs.Layers
	}
	return c, nil
}

func parseRadiusScale(s string) (collider.RadiusScale, error) {
	switch s {
	case "", "none":
		return collider.RadiusScaleNone, nil
	case "x":
		return collider.RadiusScaleX, nil
	case "y":
		return collider.RadiusScaleY, nil
	case "average":
		return collider.RadiusScaleAverage, nil
	}
	return 0, fmt.Errorf("%w: radius_scale %q", ErrInvalidCollider, s)
}
