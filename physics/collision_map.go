package physics

import (
	"math/bits"

	"github.com/milk9111/physics2d/collider"
)

// CollisionMap decides which layer pairs may collide. Layers that were never
// configured collide with everything.
type CollisionMap struct {
	masks map[collider.Layers]collider.Layers
}

func NewCollisionMap() *CollisionMap {
	return &CollisionMap{masks: make(map[collider.Layers]collider.Layers)}
}

// Mask returns the layers a single-bit layer collides with.
func (m *CollisionMap) Mask(layer collider.Layers) collider.Layers {
	if mask, ok := m.masks[layer]; ok {
		return mask
	}
	return collider.LayerAll
}

// ToggleCollisions enables or disables collisions between every bit of a and
// every bit of b, in both directions.
func (m *CollisionMap) ToggleCollisions(a, b collider.Layers, enabled bool) {
	m.toggle(a, b, enabled)
	m.toggle(b, a, enabled)
}

func (m *CollisionMap) toggle(layers, others collider.Layers, enabled bool) {
	eachBit(layers, func(bit collider.Layers) {
		mask := m.Mask(bit)
		if enabled {
			mask |= others
		} else {
			mask &^= others
		}
		m.masks[bit] = mask
	})
}

// CanCollide reports whether any layer of a is allowed to hit any layer of b.
func (m *CollisionMap) CanCollide(a, b collider.Layers) bool {
	var mask collider.Layers
	eachBit(a, func(bit collider.Layers) {
		mask |= m.Mask(bit)
	})
	return mask.Has(b)
}

// Reset forgets every toggle.
func (m *CollisionMap) Reset() {
	clear(m.masks)
}

func eachBit(layers collider.Layers, fn func(bit collider.Layers)) {
	for l := uint32(layers); l != 0; l &= l - 1 {
		fn(collider.Layers(1) << bits.TrailingZeros32(l))
	}
}
