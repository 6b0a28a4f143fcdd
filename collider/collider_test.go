package collider

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

type stubBody struct {
	transform Transform
}

func (b *stubBody) WorldTransform() Transform {
	return b.transform
}

func placed(c *Collider, x, y float64) *Collider {
	c.Attach(&stubBody{transform: Transform{Position: cp.Vector{X: x, Y: y}, Scale: cp.Vector{X: 1, Y: 1}}})
	return c
}

func near(a, b cp.Vector) bool {
	return a.Near(b, 1e-6)
}

func TestRectangleContainsPoint(t *testing.T) {
	rect := NewRectangle(2, 2)
	cases := []struct {
		name  string
		point cp.Vector
		want  bool
	}{
		{"center", cp.Vector{X: 0, Y: 0}, true},
		{"inside", cp.Vector{X: 0.5, Y: -0.9}, true},
		{"corner", cp.Vector{X: 1, Y: 1}, false},
		{"edge", cp.Vector{X: 1, Y: 0}, false},
		{"outside", cp.Vector{X: 3, Y: 0}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := rect.Contains(c.point); got != c.want {
				t.Fatalf("Contains(%v) = %v, want %v", c.point, got, c.want)
			}
		})
	}
}

func TestPolygonWindingIsClockwise(t *testing.T) {
	ccw := NewPolygon(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 2, Y: 0}, cp.Vector{X: 1, Y: 2})
	if signedArea(ccw.Vertices()) > 0 {
		t.Fatalf("polygon vertices should be stored clockwise, got %v", ccw.Vertices())
	}

	center := ccw.Center()
	points := ccw.WorldPoints()
	for i, n := range ccw.Normals() {
		if n.Dot(points[i].Sub(center)) <= 0 {
			t.Fatalf("normal %d (%v) should point away from the center", i, n)
		}
	}
}

func TestMirroredTransformKeepsOutwardNormals(t *testing.T) {
	rect := NewRectangle(2, 2)
	rect.Attach(&stubBody{transform: Transform{Scale: cp.Vector{X: -1, Y: 1}}})

	if !rect.Contains(cp.Vector{}) {
		t.Fatalf("mirrored rectangle should still contain its center")
	}
	center := rect.Center()
	points := rect.WorldPoints()
	for i, n := range rect.Normals() {
		if n.Dot(points[i].Sub(center)) <= 0 {
			t.Fatalf("normal %d (%v) should point outward after mirroring", i, n)
		}
	}
}

func TestCircleRadiusScale(t *testing.T) {
	cases := []struct {
		name  string
		scale RadiusScale
		want  float64
	}{
		{"none", RadiusScaleNone, 1},
		{"x", RadiusScaleX, 2},
		{"y", RadiusScaleY, 4},
		{"average", RadiusScaleAverage, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			circle := NewCircle(1, c.scale)
			circle.Attach(&stubBody{transform: Transform{Scale: cp.Vector{X: -2, Y: 4}}})
			if got := circle.WorldRadius(); math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("WorldRadius = %v, want %v", got, c.want)
			}
		})
	}
}

func TestGeometryRefreshesAfterInvalidate(t *testing.T) {
	body := &stubBody{transform: IdentityTransform}
	circle := NewCircle(1, RadiusScaleNone)
	circle.Attach(body)

	if c := circle.Center(); !near(c, cp.Vector{}) {
		t.Fatalf("center = %v, want origin", c)
	}

	body.transform.Position = cp.Vector{X: 5, Y: 1}
	if c := circle.Center(); !near(c, cp.Vector{}) {
		t.Fatalf("cached center should not change before Invalidate, got %v", c)
	}
	circle.Invalidate()
	if c := circle.Center(); !near(c, cp.Vector{X: 5, Y: 1}) {
		t.Fatalf("center = %v, want (5,1)", c)
	}
	if a := circle.BoundingArea(); a != area(4, 0, 6, 2) {
		t.Fatalf("bounding area = %v", a)
	}
}

type observedBody struct {
	stubBody
	changed []*Collider
}

func (b *observedBody) ColliderChanged(c *Collider) {
	b.changed = append(b.changed, c)
}

func TestShapeEditsNotifyObserver(t *testing.T) {
	cases := []struct {
		name string
		c    *Collider
		edit func(c *Collider)
	}{
		{"radius", NewCircle(1, RadiusScaleNone), func(c *Collider) { c.SetRadius(2) }},
		{"size", NewRectangle(1, 1), func(c *Collider) { c.SetSize(2, 3) }},
		{"offset", NewRectangle(1, 1), func(c *Collider) { c.SetOffset(cp.Vector{X: 1, Y: 0}) }},
		{"deltas", NewLineStrip(cp.Vector{}, cp.Vector{X: 1, Y: 0}), func(c *Collider) { c.SetDeltas(cp.Vector{}, cp.Vector{X: 0, Y: 2}) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := &observedBody{stubBody: stubBody{transform: IdentityTransform}}
			tc.c.Attach(body)
			body.changed = nil

			tc.edit(tc.c)
			if len(body.changed) == 0 || body.changed[0] != tc.c {
				t.Fatalf("owner was not told about the edit")
			}
		})
	}
}

func TestLineStripFromDeltas(t *testing.T) {
	strip := NewLineStrip(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 1, Y: 0}, cp.Vector{X: 0, Y: 1})
	want := []cp.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	got := strip.WorldPoints()
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if !near(got[i], want[i]) {
			t.Fatalf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
	if len(strip.Normals()) != 2 {
		t.Fatalf("strip should have one normal per segment, got %d", len(strip.Normals()))
	}

	strip.SetDeltas(cp.Vector{X: 1, Y: 1}, cp.Vector{X: 2, Y: 2})
	if got := strip.WorldPoints(); len(got) != 2 || !near(got[1], cp.Vector{X: 3, Y: 3}) {
		t.Fatalf("SetDeltas should rebuild the chain, got %v", got)
	}
}

func TestLinesContainNothing(t *testing.T) {
	line := NewLineSegment(cp.Vector{X: -1, Y: 0}, cp.Vector{X: 1, Y: 0})
	if line.Contains(cp.Vector{}) {
		t.Fatalf("a line should not contain a point on it")
	}
	if line.ContainsCollider(NewCircle(0.1, RadiusScaleNone)) {
		t.Fatalf("a line should not contain a collider")
	}
}

func TestPolygonConstructorPanicsOnTooFewVertices(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewPolygon(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 1, Y: 0})
}

func TestAttachTwicePanics(t *testing.T) {
	c := NewCircle(1, RadiusScaleNone)
	c.Attach(&stubBody{})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	c.Attach(&stubBody{})
}

func TestEmptyColliderHasNoGeometry(t *testing.T) {
	empty := placed(NewEmpty(), 3, 3)
	if !empty.BoundingArea().IsEmpty() {
		t.Fatalf("empty collider should have an empty bounding area")
	}
	if _, ok := empty.TryHit(NewRay(cp.Vector{}, cp.Vector{X: 1, Y: 1}, 10)); ok {
		t.Fatalf("empty collider should never be hit")
	}
	if _, ok := CollidesWith(empty, NewCircle(10, RadiusScaleNone)); ok {
		t.Fatalf("empty collider should never collide")
	}
}
