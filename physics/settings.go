package physics

import (
	"errors"
	"fmt"
	"os"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/collider"
	"github.com/milk9111/physics2d/quadtree"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidTimeStep  = errors.New("physics: time step must be positive")
	ErrInvalidMaxSteps  = errors.New("physics: max steps per update must be at least 1")
	ErrInvalidTreeBound = errors.New("physics: quadtree bounds must have positive width and height")
	ErrInvalidTreeLimit = errors.New("physics: quadtree limits must not be negative")
)

// Settings configures a World. The resolver thresholds are tuning values,
// nominally between 0 and 1, and are not range checked.
type Settings struct {
	Gravity           cp.Vector `yaml:"gravity"`
	TimeStep          float64   `yaml:"time_step"`
	MaxStepsPerUpdate int       `yaml:"max_steps_per_update"`

	// Groundedness is how far a surface tangent may tilt from perpendicular
	// to gravity and still count as ground.
	Groundedness float64 `yaml:"groundedness"`
	// Stickiness is how far velocity may deviate from the surface tangent
	// and still slide along it instead of bouncing.
	Stickiness                   float64 `yaml:"stickiness"`
	MinimumPostBounceMagnitude   float64 `yaml:"minimum_post_bounce_magnitude"`
	MinimumPostFrictionMagnitude float64 `yaml:"minimum_post_friction_magnitude"`

	EnabledLayers collider.Layers `yaml:"enabled_layers"`
	Quadtree      TreeSettings    `yaml:"quadtree"`
	CollisionMap  []LayerRule     `yaml:"collision_map"`
}

type TreeSettings struct {
	Min        cp.Vector `yaml:"min"`
	Max        cp.Vector `yaml:"max"`
	MaxObjects int       `yaml:"max_objects"`
	MaxLevels  int       `yaml:"max_levels"`
}

func (t TreeSettings) Bounds() collider.BoundingArea {
	return collider.NewBoundingArea(t.Min, t.Max)
}

// LayerRule disables collisions between Layer and each entry of Disable.
type LayerRule struct {
	Layer   collider.Layers   `yaml:"layer"`
	Disable []collider.Layers `yaml:"disable"`
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:                      cp.Vector{X: 0, Y: -9.8},
		TimeStep:                     1.0 / 60.0,
		MaxStepsPerUpdate:            5,
		Groundedness:                 0.1,
		Stickiness:                   0.05,
		MinimumPostBounceMagnitude:   0.5,
		MinimumPostFrictionMagnitude: 0.1,
		EnabledLayers:                collider.LayerAll,
		Quadtree: TreeSettings{
			Min:        cp.Vector{X: -512, Y: -512},
			Max:        cp.Vector{X: 512, Y: 512},
			MaxObjects: quadtree.DefaultMaxObjects,
			MaxLevels:  quadtree.DefaultMaxLevels,
		},
	}
}

func (s Settings) Validate() error {
	if s.TimeStep <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTimeStep, s.TimeStep)
	}
	if s.MaxStepsPerUpdate < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSteps, s.MaxStepsPerUpdate)
	}
	if s.Quadtree.Max.X <= s.Quadtree.Min.X || s.Quadtree.Max.Y <= s.Quadtree.Min.Y {
		return fmt.Errorf("%w: %v to %v", ErrInvalidTreeBound, s.Quadtree.Min, s.Quadtree.Max)
	}
	if s.Quadtree.MaxObjects < 0 || s.Quadtree.MaxLevels < 0 {
		return fmt.Errorf("%w: %d/%d", ErrInvalidTreeLimit, s.Quadtree.MaxObjects, s.Quadtree.MaxLevels)
	}
	return nil
}

// ParseSettings decodes YAML over DefaultSettings, so omitted keys keep their
// defaults.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("physics: unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("physics: load settings %s: %w", path, err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return Settings{}, fmt.Errorf("physics: settings %s: %w", path, err)
	}
	return s, nil
}

func (s Settings) buildCollisionMap() *CollisionMap {
	m := NewCollisionMap()
	for _, rule := range s.CollisionMap {
		for _, other := range rule.Disable {
			m.ToggleCollisions(rule.Layer, other, false)
		}
	}
	return m
}
