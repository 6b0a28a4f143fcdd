package physics

import (
	"io"
	"log"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/collider"
)

func newTestWorld(t *testing.T, gravity cp.Vector) *World {
	t.Helper()
	s := DefaultSettings()
	s.Gravity = gravity
	w, err := NewWorld(s)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	w.SetLogger(log.New(io.Discard, "", 0))
	return w
}

func staticAt(x, y float64, colliders ...*collider.Collider) *Body {
	b := NewStaticBody(colliders...)
	b.SetPosition(cp.Vector{X: x, Y: y})
	return b
}

func dynamicAt(x, y float64, colliders ...*collider.Collider) *Body {
	b := NewDynamicBody(1, colliders...)
	b.SetPosition(cp.Vector{X: x, Y: y})
	return b
}

func near(a, b cp.Vector) bool {
	return a.Near(b, 1e-6)
}

func TestLandingOnGroundStopsFalling(t *testing.T) {
	w := newTestWorld(t, cp.Vector{X: 0, Y: -10})
	ground := staticAt(0, 0, collider.NewLineSegment(cp.Vector{X: -5, Y: 0}, cp.Vector{X: 5, Y: 0}))
	ball := dynamicAt(0, 0.45, collider.NewCircle(0.5, collider.RadiusScaleNone))
	ball.SetVelocity(cp.Vector{X: 0, Y: -5})
	w.Add(ground)
	w.Add(ball)

	w.Step()

	if len(ball.Collisions()) != 1 || len(ground.Collisions()) != 1 {
		t.Fatalf("collisions = %d/%d, want 1/1", len(ball.Collisions()), len(ground.Collisions()))
	}
	if v := ball.Velocity(); !near(v, cp.Vector{}) {
		t.Fatalf("velocity = %v, want the gravity component removed", v)
	}
	if y := ball.Position().Y; math.Abs(y-0.5) > 1e-6 {
		t.Fatalf("ball should rest on the ground, y = %v", y)
	}
	if !near(ground.Position(), cp.Vector{}) {
		t.Fatalf("static body moved to %v", ground.Position())
	}
}

func TestBounceScalesSpeedByAverageBounce(t *testing.T) {
	cases := []struct {
		name         string
		ball, ground float64
	}{
		{"elastic", 1, 1},
		{"mixed", 0.8, 0.6},
		{"soft", 0.5, 0.3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t, cp.Vector{})
			ground := staticAt(0, -0.5, collider.NewRectangle(10, 1))
			ground.SetMaterial(PhysicsMaterial{Bounce: c.ground})
			ball := dynamicAt(0, 0.45, collider.NewCircle(0.5, collider.RadiusScaleNone))
			ball.SetMaterial(PhysicsMaterial{Bounce: c.ball})
			ball.SetVelocity(cp.Vector{X: 3, Y: -4})
			w.Add(ground)
			w.Add(ball)

			w.Step()

			want := 5 * (c.ball + c.ground) / 2
			v := ball.Velocity()
			if math.Abs(v.Length()-want) > 1e-6 {
				t.Fatalf("speed = %v, want %v", v.Length(), want)
			}
			if v.Y <= 0 || v.X <= 0 {
				t.Fatalf("velocity %v should reflect off the ground", v)
			}
		})
	}
}

func TestTriggerAndStaticPairsOnlyNotify(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	wallA := staticAt(0, 0, collider.NewRectangle(2, 2))
	wallB := staticAt(1, 0, collider.NewRectangle(2, 2))
	sensor := dynamicAt(5, 0, collider.NewRectangle(2, 2))
	sensor.SetTrigger(true)
	block := staticAt(5.5, 0, collider.NewRectangle(2, 2))
	for _, b := range []*Body{wallA, wallB, sensor, block} {
		w.Add(b)
	}

	w.Step()

	for _, b := range []*Body{wallA, wallB, sensor, block} {
		if len(b.Collisions()) != 1 {
			t.Fatalf("%s collisions = %d, want 1", b, len(b.Collisions()))
		}
	}
	if !near(sensor.Position(), cp.Vector{X: 5, Y: 0}) {
		t.Fatalf("trigger should not be pushed, at %v", sensor.Position())
	}
	if !near(wallB.Position(), cp.Vector{X: 1, Y: 0}) {
		t.Fatalf("static body should not be pushed, at %v", wallB.Position())
	}
}

func TestEventsAreMirroredForSecondBody(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	a := staticAt(0, 0, collider.NewCircle(1, collider.RadiusScaleNone))
	b := staticAt(1.5, 0, collider.NewCircle(1, collider.RadiusScaleNone))
	w.Add(a)
	w.Add(b)

	w.Step()

	ea, eb := a.Collisions()[0], b.Collisions()[0]
	if ea.First != a.GetColliders()[0] || eb.First != b.GetColliders()[0] {
		t.Fatalf("each body should receive the event from its own point of view")
	}
	if !near(ea.Normal, eb.Normal.Neg()) || !near(ea.MinimumTranslationVector, eb.MinimumTranslationVector.Neg()) {
		t.Fatalf("second event should be mirrored: %v vs %v", ea.Normal, eb.Normal)
	}
}

func TestPairIsHandledOncePerStep(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	left := collider.NewCircle(1, collider.RadiusScaleNone)
	left.SetOffset(cp.Vector{X: -0.5, Y: 0})
	right := collider.NewCircle(1, collider.RadiusScaleNone)
	right.SetOffset(cp.Vector{X: 0.5, Y: 0})
	double := staticAt(0, 0, left, right)
	other := staticAt(0, 1, collider.NewRectangle(1, 1))
	w.Add(double)
	w.Add(other)

	for step := 0; step < 3; step++ {
		w.Step()
		if len(double.Collisions()) != 1 || len(other.Collisions()) != 1 {
			t.Fatalf("step %d: collisions = %d/%d, want 1/1", step, len(double.Collisions()), len(other.Collisions()))
		}
	}
}

func TestBodiesViewOrder(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	a := NewStaticBody()
	a.SetUpdateOrder(2)
	b := NewStaticBody()
	b.SetUpdateOrder(0)
	c := NewStaticBody()
	c.SetUpdateOrder(2)
	d := NewStaticBody()
	d.SetUpdateOrder(1)
	for _, body := range []*Body{a, b, c, d} {
		w.Add(body)
	}

	assertOrder := func(want ...*Body) {
		t.Helper()
		got := w.Bodies()
		if len(got) != len(want) {
			t.Fatalf("got %d bodies, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("position %d = %s, want %s", i, got[i], want[i])
			}
		}
	}

	assertOrder(b, d, a, c)
	d.SetEnabled(false)
	assertOrder(b, a, c)
	a.SetUpdateOrder(-1)
	assertOrder(a, b, c)
	w.Remove(b)
	assertOrder(a, c)
	if w.Len() != 3 {
		t.Fatalf("Len = %d, want 3", w.Len())
	}
}

func TestSkippedBodiesAndLayers(t *testing.T) {
	const (
		player = collider.Layers(1 << 1)
		ghost  = collider.Layers(1 << 2)
	)

	cases := []struct {
		name  string
		setup func(w *World, a, b *Body)
	}{
		{"disabled_body", func(w *World, a, b *Body) { b.SetEnabled(false) }},
		{"disabled_layer", func(w *World, a, b *Body) {
			s := w.Settings()
			s.EnabledLayers = collider.LayerAll &^ ghost
			if err := w.ApplySettings(s); err != nil {
				t.Fatalf("ApplySettings: %v", err)
			}
		}},
		{"collision_map", func(w *World, a, b *Body) { w.CollisionMap().ToggleCollisions(player, ghost, false) }},
		{"no_collider", func(w *World, a, b *Body) { b.RemoveCollider(b.GetColliders()[0]) }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t, cp.Vector{})
			pc := collider.NewRectangle(2, 2)
			pc.Layers = player
			gc := collider.NewRectangle(2, 2)
			gc.Layers = ghost
			a := dynamicAt(0, 0, pc)
			b := dynamicAt(0.5, 0, gc)
			w.Add(a)
			w.Add(b)

			c.setup(w, a, b)
			w.Step()

			if len(a.Collisions()) != 0 || len(b.Collisions()) != 0 {
				t.Fatalf("collisions = %d/%d, want none", len(a.Collisions()), len(b.Collisions()))
			}
		})
	}
}

func TestDynamicPairSplitsCorrectionByMass(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	light := dynamicAt(0, 0, collider.NewRectangle(2, 2))
	heavy := dynamicAt(1.5, 0, collider.NewRectangle(2, 2))
	heavy.SetMass(3)
	w.Add(light)
	w.Add(heavy)

	w.Step()

	// overlap is 0.5; the light body takes three quarters of it
	if !near(light.Position(), cp.Vector{X: -0.375, Y: 0}) {
		t.Fatalf("light body at %v, want (-0.375,0)", light.Position())
	}
	if !near(heavy.Position(), cp.Vector{X: 1.625, Y: 0}) {
		t.Fatalf("heavy body at %v, want (1.625,0)", heavy.Position())
	}
}

func TestKinematicBodyResolvedRegardlessOfOrder(t *testing.T) {
	cases := []struct {
		name                string
		ballOrder, boxOrder int
	}{
		{"ball_first", 0, 1},
		{"ball_second", 2, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t, cp.Vector{})
			box := dynamicAt(0, 0, collider.NewRectangle(4, 1))
			box.SetKinematic(false)
			box.SetUpdateOrder(c.boxOrder)
			ball := dynamicAt(0, 0.9, collider.NewCircle(0.5, collider.RadiusScaleNone))
			ball.SetVelocity(cp.Vector{X: 0, Y: -1})
			ball.SetUpdateOrder(c.ballOrder)
			w.Add(box)
			w.Add(ball)

			w.Step()

			if !near(ball.Position(), cp.Vector{X: 0, Y: 1}) || !near(ball.Velocity(), cp.Vector{}) {
				t.Fatalf("ball pos %v vel %v, want (0,1) at rest", ball.Position(), ball.Velocity())
			}
			if !near(box.Position(), cp.Vector{}) {
				t.Fatalf("box moved to %v", box.Position())
			}
		})
	}
}

func TestNonKinematicPairSeparatesRegardlessOfOrder(t *testing.T) {
	for _, swap := range []bool{false, true} {
		w := newTestWorld(t, cp.Vector{})
		light := dynamicAt(0, 0, collider.NewRectangle(2, 2))
		heavy := dynamicAt(1.5, 0, collider.NewRectangle(2, 2))
		light.SetKinematic(false)
		heavy.SetKinematic(false)
		heavy.SetMass(3)
		if swap {
			light.SetUpdateOrder(1)
		}
		w.Add(light)
		w.Add(heavy)

		w.Step()

		if !near(light.Position(), cp.Vector{X: -0.375, Y: 0}) || !near(heavy.Position(), cp.Vector{X: 1.625, Y: 0}) {
			t.Fatalf("swap=%v: positions %v / %v", swap, light.Position(), heavy.Position())
		}
	}
}

func TestHeadOnDynamicPairBouncesApart(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	a := dynamicAt(0, 0, collider.NewCircle(1, collider.RadiusScaleNone))
	b := dynamicAt(1.8, 0, collider.NewCircle(1, collider.RadiusScaleNone))
	a.SetMaterial(PhysicsMaterial{Bounce: 1})
	b.SetMaterial(PhysicsMaterial{Bounce: 1})
	a.SetVelocity(cp.Vector{X: 5, Y: 0})
	b.SetVelocity(cp.Vector{X: -5, Y: 0})
	w.Add(a)
	w.Add(b)

	w.Step()

	if !near(a.Velocity(), cp.Vector{X: -5, Y: 0}) || !near(b.Velocity(), cp.Vector{X: 5, Y: 0}) {
		t.Fatalf("velocities = %v / %v, want the pair to swap directions", a.Velocity(), b.Velocity())
	}
}

func TestRaycasts(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	near1 := staticAt(2, 0, collider.NewRectangle(1, 1))
	mid := staticAt(5, 0, collider.NewRectangle(1, 1))
	far := staticAt(8, 0, collider.NewRectangle(1, 1))
	off := staticAt(5, 5, collider.NewRectangle(1, 1))
	for _, b := range []*Body{far, mid, near1, off} {
		w.Add(b)
	}

	ray := collider.NewRay(cp.Vector{}, cp.Vector{X: 1, Y: 0}, 10)
	hits := w.RaycastAll(ray, collider.LayerAll)
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}
	for i, want := range []float64{1.5, 4.5, 7.5} {
		if math.Abs(hits[i].Distance-want) > 1e-6 {
			t.Fatalf("hit %d distance = %v, want %v", i, hits[i].Distance, want)
		}
	}

	hit, ok := w.TryRaycast(ray, collider.LayerAll)
	if !ok || hit.Collider != near1.GetColliders()[0] {
		t.Fatalf("TryRaycast should return the nearest body")
	}
	if _, ok := w.TryRaycast(ray, collider.LayerNone); ok {
		t.Fatalf("no layers should mean no hits")
	}

	// bodies moved after the last step are still found
	near1.SetPosition(cp.Vector{X: 2, Y: 3})
	hit, ok = w.TryRaycast(ray, collider.LayerAll)
	if !ok || hit.Collider != mid.GetColliders()[0] {
		t.Fatalf("TryRaycast should skip the moved body")
	}
}

func TestCastsSeeColliderEditsBetweenSteps(t *testing.T) {
	s := DefaultSettings()
	s.Gravity = cp.Vector{}
	s.Quadtree = TreeSettings{Min: cp.Vector{X: -8, Y: -8}, Max: cp.Vector{X: 8, Y: 8}, MaxObjects: 1, MaxLevels: 4}
	w, err := NewWorld(s)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	w.SetLogger(log.New(io.Discard, "", 0))

	grown := collider.NewCircle(1, collider.RadiusScaleNone)
	hidden := collider.NewCircle(1, collider.RadiusScaleNone)
	hidden.Layers = collider.LayerNone
	w.Add(staticAt(-4, 4, grown))
	w.Add(staticAt(4, -4, hidden))
	w.Step()

	grown.SetRadius(6)
	down := collider.NewRay(cp.Vector{X: 1, Y: 10}, cp.Vector{X: 0, Y: -1}, 5)
	hit, ok := w.TryRaycast(down, collider.LayerAll)
	if !ok || hit.Collider != grown {
		t.Fatalf("ray should hit the grown circle")
	}
	if want := (cp.Vector{X: 1, Y: 4 + math.Sqrt(11)}); !hit.ContactPoint.Near(want, 1e-4) {
		t.Fatalf("contact = %v, want %v", hit.ContactPoint, want)
	}

	hidden.Layers = collider.LayerDefault
	area := collider.NewBoundingArea(cp.Vector{X: 3.5, Y: -4.5}, cp.Vector{X: 4.5, Y: -3.5})
	if got := w.BoundingAreaCastAll(area, collider.LayerAll); len(got) != 1 || got[0] != hidden {
		t.Fatalf("collider enabled through Layers should be found, got %d", len(got))
	}
}

func TestBroadPhaseSeesPositionsFromBeforeIntegration(t *testing.T) {
	s := DefaultSettings()
	s.Gravity = cp.Vector{}
	s.Quadtree = TreeSettings{Min: cp.Vector{X: -8, Y: -8}, Max: cp.Vector{X: 8, Y: 8}, MaxObjects: 1, MaxLevels: 4}
	w, err := NewWorld(s)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	w.SetLogger(log.New(io.Discard, "", 0))

	wall := staticAt(0.55, 4, collider.NewRectangle(1, 1))
	w.Add(wall)
	w.Add(staticAt(4, -4, collider.NewRectangle(1, 1)))
	// 0.1 units per step: slow, but the first step carries it out of its quadrant
	ball := dynamicAt(-0.41, 4, collider.NewCircle(0.4, collider.RadiusScaleNone))
	ball.SetVelocity(cp.Vector{X: 6, Y: 0})
	w.Add(ball)

	w.Step()
	if n := len(ball.Collisions()); n != 0 {
		t.Fatalf("first step: %d collisions, want the pair found one tick late", n)
	}
	w.Step()
	if n := len(ball.Collisions()); n != 1 || len(wall.Collisions()) != 1 {
		t.Fatalf("second step: %d/%d collisions, want 1/1", n, len(wall.Collisions()))
	}
}

func TestBoundingAreaCastAll(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	box := staticAt(5, 0, collider.NewRectangle(1, 1))
	wedge := staticAt(2.6, -1.9, collider.NewPolygon(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 2, Y: 0}, cp.Vector{X: 0, Y: 2}))
	away := staticAt(20, 0, collider.NewRectangle(1, 1))
	for _, b := range []*Body{box, wedge, away} {
		w.Add(b)
	}

	area := collider.NewBoundingArea(cp.Vector{X: 4, Y: -1}, cp.Vector{X: 6, Y: 1})
	if !wedge.BoundingArea().Overlaps(area) {
		t.Fatalf("test setup: wedge bounding area should overlap")
	}
	got := w.BoundingAreaCastAll(area, collider.LayerAll)
	if len(got) != 1 || got[0] != box.GetColliders()[0] {
		t.Fatalf("BoundingAreaCastAll returned %d colliders, want only the box", len(got))
	}
}

func TestAdvanceUsesFixedSteps(t *testing.T) {
	s := DefaultSettings()
	s.TimeStep = 0.1
	s.MaxStepsPerUpdate = 3
	w, err := NewWorld(s)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	w.SetLogger(log.New(io.Discard, "", 0))

	cases := []struct {
		elapsed   float64
		wantSteps int
		wantTick  uint64
	}{
		{0.25, 2, 2},
		{0.06, 1, 3},
		{0, 0, 3},
		{1.0, 3, 6},
		{0.05, 0, 6},
	}
	for _, c := range cases {
		if got := w.Advance(c.elapsed); got != c.wantSteps {
			t.Fatalf("Advance(%v) = %d steps, want %d", c.elapsed, got, c.wantSteps)
		}
		if w.Tick() != c.wantTick {
			t.Fatalf("tick = %d, want %d", w.Tick(), c.wantTick)
		}
	}
}

func TestGravityIntegration(t *testing.T) {
	w := newTestWorld(t, cp.Vector{X: 0, Y: -10})
	falling := dynamicAt(0, 10, collider.NewCircle(0.5, collider.RadiusScaleNone))
	pushed := dynamicAt(20, 10, collider.NewCircle(0.5, collider.RadiusScaleNone))
	pushed.SetKinematic(false)
	pushed.SetVelocity(cp.Vector{X: 1, Y: 0})
	w.Add(falling)
	w.Add(pushed)

	w.Step()

	dt := w.Settings().TimeStep
	if !near(falling.Velocity(), cp.Vector{X: 0, Y: -10 * dt}) {
		t.Fatalf("kinematic velocity = %v, want gravity applied", falling.Velocity())
	}
	if !near(pushed.Velocity(), cp.Vector{X: 1, Y: 0}) {
		t.Fatalf("non-kinematic velocity = %v, want unchanged", pushed.Velocity())
	}
	if !near(pushed.Position(), cp.Vector{X: 20 + dt, Y: 10}) {
		t.Fatalf("non-kinematic position = %v", pushed.Position())
	}
}

func TestReentrantStepPanics(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	w.stepping = true
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	w.Step()
}

func TestAddRegistersOnce(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	b := NewStaticBody()
	id := w.Add(b)
	if again := w.Add(b); again != id {
		t.Fatalf("second Add returned %d, want %d", again, id)
	}
	if w.Body(id) != b {
		t.Fatalf("Body(%d) should return the body", id)
	}

	other := newTestWorld(t, cp.Vector{})
	defer func() {
		if recover() == nil {
			t.Fatalf("adding to a second world should panic")
		}
	}()
	other.Add(b)
}
