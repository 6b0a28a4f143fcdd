// Package physics drives bodies through fixed time steps: it rebuilds the
// broad phase, integrates dynamic bodies, detects collisions with SAT and
// resolves them.
package physics

import (
	"log"
	"math"
	"sort"

	"github.com/milk9111/physics2d/collider"
	"github.com/milk9111/physics2d/common"
	"github.com/milk9111/physics2d/quadtree"
)

type pairKey struct {
	low, high BodyID
}

func makePairKey(a, b BodyID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

// World owns registered bodies and the per-step state. It is not safe for
// concurrent use; everything runs on the caller's goroutine.
type World struct {
	settings     Settings
	gravity      Gravity
	collisionMap *CollisionMap
	resolver     resolver
	logger       *log.Logger

	bodies   registry
	view     view
	nextID   BodyID
	sequence uint64

	tree       *quadtree.QuadTree[*collider.Collider]
	treeDirty  bool
	treeLayers []indexedLayers
	handled    map[pairKey]struct{}
	candidates []*collider.Collider

	stepping    bool
	accumulator float64
	tick        uint64
}

func NewWorld(settings Settings) (*World, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		logger:  log.Default(),
		handled: make(map[pairKey]struct{}),
	}
	w.apply(settings)
	return w, nil
}

func (w *World) apply(s Settings) {
	treeChanged := w.tree == nil || s.Quadtree != w.settings.Quadtree
	w.settings = s
	w.gravity.SetValue(s.Gravity)
	w.collisionMap = s.buildCollisionMap()
	w.resolver = newResolver(s, w.gravity)
	if treeChanged {
		w.tree = quadtree.New[*collider.Collider](s.Quadtree.Bounds(), s.Quadtree.MaxObjects, s.Quadtree.MaxLevels)
		w.treeDirty = true
	}
}

// ApplySettings replaces the world configuration between steps. The collision
// map is rebuilt from the settings, dropping runtime toggles.
func (w *World) ApplySettings(s Settings) error {
	if w.stepping {
		panic("physics: ApplySettings called during Step")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	w.apply(s)
	w.logger.Printf("PhysicsWorld: applied settings gravity=%v dt=%.4f layers=%#x", s.Gravity, s.TimeStep, uint32(s.EnabledLayers))
	return nil
}

func (w *World) Settings() Settings {
	return w.settings
}

func (w *World) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	w.logger = l
}

func (w *World) Logger() *log.Logger {
	return w.logger
}

func (w *World) Gravity() Gravity {
	return w.gravity
}

func (w *World) SetGravity(g Gravity) {
	w.gravity = g
	w.settings.Gravity = g.Value()
	w.resolver = newResolver(w.settings, w.gravity)
}

func (w *World) CollisionMap() *CollisionMap {
	return w.collisionMap
}

// Tree exposes the broad phase for debug drawing.
func (w *World) Tree() *quadtree.QuadTree[*collider.Collider] {
	return w.tree
}

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 {
	return w.tick
}

// Add registers b and returns its ID. Adding a body twice returns the
// existing ID.
func (w *World) Add(b *Body) BodyID {
	if b.world == w {
		w.logger.Printf("PhysicsWorld: Add %s already registered", b)
		return b.id
	}
	if b.world != nil {
		panic("physics: body already belongs to another world")
	}
	w.nextID++
	w.sequence++
	b.id = w.nextID
	b.sequence = w.sequence
	b.world = w
	w.bodies.Set(b.id, b)
	w.view.invalidate()
	w.treeDirty = true
	return b.id
}

// Remove unregisters b. It reports whether b was registered.
func (w *World) Remove(b *Body) bool {
	if b == nil || b.world != w {
		return false
	}
	w.bodies.Remove(b.id)
	clear(b.collisions)
	b.collisions = b.collisions[:0]
	b.world = nil
	b.id = 0
	w.view.invalidate()
	w.treeDirty = true
	return true
}

// Body returns the registered body for id, or nil.
func (w *World) Body(id BodyID) *Body {
	return w.bodies.Get(id)
}

// Bodies returns enabled bodies in step order. The slice is owned by the
// world and must not be modified.
func (w *World) Bodies() []*Body {
	return w.view.get(&w.bodies)
}

// Len returns the number of registered bodies, enabled or not.
func (w *World) Len() int {
	return w.bodies.Len()
}

type indexedLayers struct {
	collider *collider.Collider
	layers   collider.Layers
}

func (w *World) layerEnabled(c *collider.Collider) bool {
	return c.Kind() != collider.KindEmpty && c.Layers.Has(w.settings.EnabledLayers)
}

func (w *World) rebuildTree(bodies []*Body) {
	w.tree.Clear()
	w.treeLayers = w.treeLayers[:0]
	for _, b := range bodies {
		for _, c := range b.colliders {
			w.treeLayers = append(w.treeLayers, indexedLayers{c, c.Layers})
			if w.layerEnabled(c) {
				w.tree.Insert(c)
			}
		}
	}
	w.treeDirty = false
}

// ensureTree brings the tree up to date for casts made between steps. Layers
// is a plain field, so layer edits are found by comparing against the values
// seen at the last rebuild.
func (w *World) ensureTree() {
	if w.treeDirty || w.layersChanged() {
		w.rebuildTree(w.Bodies())
	}
}

func (w *World) layersChanged() bool {
	for _, l := range w.treeLayers {
		if l.collider.Layers != l.layers {
			return true
		}
	}
	return false
}

// Step advances the simulation by one fixed time step.
func (w *World) Step() {
	if w.stepping {
		panic("physics: Step called while a step is running")
	}
	w.stepping = true
	defer func() { w.stepping = false }()

	for _, b := range w.bodies.Bodies() {
		clear(b.collisions)
		b.collisions = b.collisions[:0]
	}
	clear(w.handled)

	bodies := w.Bodies()
	w.rebuildTree(bodies)

	dt := w.settings.TimeStep
	for _, b := range bodies {
		if !b.dynamic {
			continue
		}
		b.Translate(b.velocity.Mult(dt))
		if b.kinematic {
			b.velocity = b.velocity.Add(w.gravity.Value().Mult(dt))
		}
	}

	for _, b := range bodies {
		w.detect(b)
	}
	w.tick++
}

func (w *World) detect(b *Body) {
	for _, c := range b.colliders {
		if !w.layerEnabled(c) {
			continue
		}
		w.candidates = w.tree.AppendPotentialCollisions(w.candidates[:0], c.BoundingArea())
		for _, other := range w.candidates {
			ob, ok := other.Body().(*Body)
			if !ok || ob == b {
				continue
			}
			key := makePairKey(b.id, ob.id)
			if _, done := w.handled[key]; done {
				continue
			}
			if !w.collisionMap.CanCollide(c.Layers, other.Layers) {
				continue
			}
			event, hit := collider.CollidesWith(c, other)
			if !hit {
				continue
			}
			w.handled[key] = struct{}{}
			b.collisions = append(b.collisions, event)
			ob.collisions = append(ob.collisions, event.Reverse())
			if !b.trigger && !ob.trigger {
				w.resolver.resolve(b, ob, event)
			}
		}
	}
	clear(w.candidates)
}

// Advance runs as many fixed steps as elapsed seconds allow, carrying the
// remainder to the next call. It returns the number of steps taken. Time
// beyond MaxStepsPerUpdate steps is dropped.
func (w *World) Advance(elapsed float64) int {
	if elapsed <= 0 {
		return 0
	}
	dt := w.settings.TimeStep
	w.accumulator += elapsed

	steps := 0
	for w.accumulator >= dt && steps < w.settings.MaxStepsPerUpdate {
		w.Step()
		w.accumulator -= dt
		steps++
	}
	if w.accumulator >= dt {
		w.logger.Printf("PhysicsWorld: Advance overran %d steps, dropping %.4fs", steps, w.accumulator-math.Mod(w.accumulator, dt))
		w.accumulator = math.Mod(w.accumulator, dt)
	}
	return steps
}

// RaycastAll returns every hit on colliders in layers, nearest first.
func (w *World) RaycastAll(ray collider.Ray, layers collider.Layers) []collider.RaycastHit {
	if ray.IsDegenerate() {
		return nil
	}
	w.ensureTree()

	var hits []collider.RaycastHit
	for _, c := range w.tree.Query(ray.BoundingArea()) {
		if !c.Layers.Has(layers) {
			continue
		}
		if hit, ok := c.TryHit(ray); ok {
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// TryRaycast returns the hit nearest to the ray start.
func (w *World) TryRaycast(ray collider.Ray, layers collider.Layers) (collider.RaycastHit, bool) {
	if ray.IsDegenerate() {
		return collider.RaycastHit{}, false
	}
	w.ensureTree()

	var best collider.RaycastHit
	found := false
	for _, c := range w.tree.Query(ray.BoundingArea()) {
		if !c.Layers.Has(layers) {
			continue
		}
		hit, ok := c.TryHit(ray)
		if !ok || (found && hit.Distance >= best.Distance) {
			continue
		}
		best, found = hit, true
	}
	return best, found
}

// BoundingAreaCastAll returns colliders in layers that overlap area. Areas
// with width and height are tested exactly with SAT; degenerate areas fall
// back to bounding area overlap.
func (w *World) BoundingAreaCastAll(area collider.BoundingArea, layers collider.Layers) []*collider.Collider {
	w.ensureTree()

	var shape *collider.Collider
	if common.HasValue(area.Width()) && common.HasValue(area.Height()) {
		shape = collider.NewRectangle(area.Width(), area.Height())
		shape.SetOffset(area.Center())
		shape.Layers = collider.LayerAll
	}

	var out []*collider.Collider
	for _, c := range w.tree.Query(area) {
		if !c.Layers.Has(layers) {
			continue
		}
		if shape != nil {
			if _, ok := collider.CollidesWith(shape, c); !ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
