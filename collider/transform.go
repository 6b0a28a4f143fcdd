package collider

import "github.com/jakecoffman/cp"

// Transform places local collider geometry in the world.
type Transform struct {
	Position cp.Vector
	Scale    cp.Vector
	Rotation float64
}

// IdentityTransform has unit scale and no rotation.
var IdentityTransform = Transform{Scale: cp.Vector{X: 1, Y: 1}}

// Apply maps a local point to world space: scale, then rotate, then translate.
func (t Transform) Apply(local cp.Vector) cp.Vector {
	scaled := cp.Vector{X: local.X * t.Scale.X, Y: local.Y * t.Scale.Y}
	if t.Rotation != 0 {
		scaled = scaled.Rotate(cp.ForAngle(t.Rotation))
	}
	return scaled.Add(t.Position)
}

// Mirrors reports whether the transform flips winding order.
func (t Transform) Mirrors() bool {
	return t.Scale.X*t.Scale.Y < 0
}

// Transformable is implemented by whatever owns a collider. The collider only
// reads the world transform; it never owns the body.
type Transformable interface {
	WorldTransform() Transform
}

// Layers is a bitmask used for collision filtering.
type Layers uint32

const (
	LayerNone    Layers = 0
	LayerDefault Layers = 1 << 0
	LayerAll     Layers = ^Layers(0)
)

// Has reports whether any bit of other is set in l.
func (l Layers) Has(other Layers) bool {
	return l&other != 0
}
