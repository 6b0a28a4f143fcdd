package physics

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrNegativeBounce   = errors.New("physics: material bounce must not be negative")
	ErrNegativeFriction = errors.New("physics: material friction must not be negative")
)

// PhysicsMaterial describes how a body's surface responds to contact.
type PhysicsMaterial struct {
	Bounce   float64 `yaml:"bounce"`
	Friction float64 `yaml:"friction"`
}

// DefaultMaterial neither bounces nor slows anything down.
var DefaultMaterial = PhysicsMaterial{}

func NewPhysicsMaterial(bounce, friction float64) (PhysicsMaterial, error) {
	m := PhysicsMaterial{Bounce: bounce, Friction: friction}
	if err := m.Validate(); err != nil {
		return PhysicsMaterial{}, err
	}
	return m, nil
}

func (m PhysicsMaterial) Validate() error {
	if m.Bounce < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeBounce, m.Bounce)
	}
	if m.Friction < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeFriction, m.Friction)
	}
	return nil
}

// UnmarshalYAML rejects negative coefficients at decode time.
func (m *PhysicsMaterial) UnmarshalYAML(value *yaml.Node) error {
	type plain PhysicsMaterial
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	if err := PhysicsMaterial(p).Validate(); err != nil {
		return err
	}
	*m = PhysicsMaterial(p)
	return nil
}

// combine averages both materials.
func combine(a, b PhysicsMaterial) (bounce, friction float64) {
	return (a.Bounce + b.Bounce) / 2, (a.Friction + b.Friction) / 2
}
