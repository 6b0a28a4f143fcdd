package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/collider"
)

// Body owns colliders and, when dynamic, the velocity the step driver
// integrates. Static bodies never move on their own and are never pushed.
type Body struct {
	id       BodyID
	name     string
	world    *World
	sequence uint64

	dynamic   bool
	transform collider.Transform
	colliders []*collider.Collider

	material    PhysicsMaterial
	trigger     bool
	enabled     bool
	updateOrder int

	velocity  cp.Vector
	mass      float64
	kinematic bool

	collisions []collider.CollisionEvent
}

// NewStaticBody returns an enabled static body at the origin.
func NewStaticBody(colliders ...*collider.Collider) *Body {
	b := &Body{
		transform: collider.IdentityTransform,
		material:  DefaultMaterial,
		enabled:   true,
	}
	for _, c := range colliders {
		b.AddCollider(c)
	}
	return b
}

// NewDynamicBody returns an enabled, kinematic dynamic body. Mass must be
// positive.
func NewDynamicBody(mass float64, colliders ...*collider.Collider) *Body {
	b := NewStaticBody(colliders...)
	b.dynamic = true
	b.kinematic = true
	b.SetMass(mass)
	return b
}

func (b *Body) ID() BodyID {
	return b.id
}

func (b *Body) Name() string {
	return b.name
}

func (b *Body) SetName(name string) {
	b.name = name
}

func (b *Body) String() string {
	if b.name != "" {
		return fmt.Sprintf("%s#%d", b.name, b.id)
	}
	return fmt.Sprintf("body#%d", b.id)
}

func (b *Body) IsDynamic() bool {
	return b.dynamic
}

func (b *Body) IsStatic() bool {
	return !b.dynamic
}

// WorldTransform implements collider.Transformable.
func (b *Body) WorldTransform() collider.Transform {
	return b.transform
}

func (b *Body) Position() cp.Vector {
	return b.transform.Position
}

func (b *Body) SetPosition(p cp.Vector) {
	b.transform.Position = p
	b.invalidate()
}

// Translate moves the body by delta.
func (b *Body) Translate(delta cp.Vector) {
	b.SetPosition(b.transform.Position.Add(delta))
}

func (b *Body) Rotation() float64 {
	return b.transform.Rotation
}

func (b *Body) SetRotation(radians float64) {
	b.transform.Rotation = radians
	b.invalidate()
}

func (b *Body) Scale() cp.Vector {
	return b.transform.Scale
}

func (b *Body) SetScale(scale cp.Vector) {
	b.transform.Scale = scale
	b.invalidate()
}

func (b *Body) SetTransform(t collider.Transform) {
	b.transform = t
	b.invalidate()
}

func (b *Body) invalidate() {
	for _, c := range b.colliders {
		c.Invalidate()
	}
	b.markTreeDirty()
}

// ColliderChanged is called by attached colliders when their local shape
// changes.
func (b *Body) ColliderChanged(*collider.Collider) {
	b.markTreeDirty()
}

func (b *Body) markTreeDirty() {
	if b.world != nil {
		b.world.treeDirty = true
	}
}

// AddCollider attaches c to the body. A collider can only belong to one body.
func (b *Body) AddCollider(c *collider.Collider) {
	c.Attach(b)
	b.colliders = append(b.colliders, c)
	b.invalidate()
}

// RemoveCollider detaches c. It reports whether c belonged to the body.
func (b *Body) RemoveCollider(c *collider.Collider) bool {
	for i, existing := range b.colliders {
		if existing != c {
			continue
		}
		c.Detach()
		b.colliders = append(b.colliders[:i], b.colliders[i+1:]...)
		b.invalidate()
		return true
	}
	return false
}

// GetColliders returns the body's colliders. The slice must not be modified.
func (b *Body) GetColliders() []*collider.Collider {
	return b.colliders
}

func (b *Body) HasCollider() bool {
	return len(b.colliders) > 0
}

// BoundingArea combines the bounding areas of every collider.
func (b *Body) BoundingArea() collider.BoundingArea {
	areas := make([]collider.BoundingArea, 0, len(b.colliders))
	for _, c := range b.colliders {
		areas = append(areas, c.BoundingArea())
	}
	return collider.Combine(areas...)
}

func (b *Body) Material() PhysicsMaterial {
	return b.material
}

func (b *Body) SetMaterial(m PhysicsMaterial) {
	b.material = m
}

// IsTrigger reports whether the body only receives notifications.
func (b *Body) IsTrigger() bool {
	return b.trigger
}

func (b *Body) SetTrigger(trigger bool) {
	b.trigger = trigger
}

func (b *Body) Enabled() bool {
	return b.enabled
}

func (b *Body) SetEnabled(enabled bool) {
	if b.enabled == enabled {
		return
	}
	b.enabled = enabled
	if b.world != nil {
		b.world.view.invalidate()
		b.world.treeDirty = true
	}
}

func (b *Body) UpdateOrder() int {
	return b.updateOrder
}

func (b *Body) SetUpdateOrder(order int) {
	if b.updateOrder == order {
		return
	}
	b.updateOrder = order
	if b.world != nil {
		b.world.view.invalidate()
	}
}

func (b *Body) Velocity() cp.Vector {
	return b.velocity
}

// SetVelocity has no effect on static bodies.
func (b *Body) SetVelocity(v cp.Vector) {
	if !b.dynamic {
		return
	}
	b.velocity = v
}

func (b *Body) Mass() float64 {
	return b.mass
}

func (b *Body) SetMass(mass float64) {
	if mass <= 0 {
		panic(fmt.Sprintf("physics: dynamic body mass must be positive, got %v", mass))
	}
	b.mass = mass
}

// IsKinematic reports whether the simulation drives the body's velocity.
// Non-kinematic dynamic bodies are still pushed out of overlaps but keep
// whatever velocity their owner gives them.
func (b *Body) IsKinematic() bool {
	return b.dynamic && b.kinematic
}

func (b *Body) SetKinematic(kinematic bool) {
	b.kinematic = kinematic
}

// Collisions returns the events delivered to this body during the last step.
// The list is reset at the start of every step.
func (b *Body) Collisions() []collider.CollisionEvent {
	return b.collisions
}
