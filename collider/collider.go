package collider

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/common"
)

// Kind identifies the shape a Collider holds. The set is closed; every
// geometric query switches on it.
type Kind int

const (
	KindEmpty Kind = iota
	KindCircle
	KindPolygon
	KindRectangle
	KindLineSegment
	KindLineStrip
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindRectangle:
		return "rectangle"
	case KindLineSegment:
		return "line"
	case KindLineStrip:
		return "strip"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// RadiusScale selects which component of the body scale a circle radius
// follows.
type RadiusScale int

const (
	RadiusScaleNone RadiusScale = iota
	RadiusScaleX
	RadiusScaleY
	RadiusScaleAverage
)

// Collider is the geometry attached to a single body. World-space geometry is
// cached and rebuilt lazily after Invalidate.
type Collider struct {
	Layers Layers

	kind   Kind
	offset cp.Vector
	body   Transformable

	radius      float64
	radiusScale RadiusScale

	// vertices holds local polygon or line points; polygons are clockwise.
	vertices   []cp.Vector
	stripStart cp.Vector
	deltas     []cp.Vector

	dirty       bool
	worldPoints []cp.Vector
	normals     []cp.Vector
	worldRadius float64
	center      cp.Vector
	area        BoundingArea
}

func newCollider(kind Kind) *Collider {
	return &Collider{kind: kind, Layers: LayerDefault, dirty: true}
}

// NewEmpty returns a collider with no geometry. It never collides or gets hit.
func NewEmpty() *Collider {
	return newCollider(KindEmpty)
}

// NewCircle returns a circle centered on the collider offset.
func NewCircle(radius float64, scale RadiusScale) *Collider {
	if radius < 0 {
		panic(fmt.Sprintf("collider: negative circle radius %v", radius))
	}
	c := newCollider(KindCircle)
	c.radius = radius
	c.radiusScale = scale
	return c
}

// NewPolygon returns a convex polygon. Vertices may be given in either winding.
func NewPolygon(vertices ...cp.Vector) *Collider {
	c := newCollider(KindPolygon)
	c.SetVertices(vertices...)
	return c
}

// NewRectangle returns a width x height box centered on the collider offset.
func NewRectangle(width, height float64) *Collider {
	c := newCollider(KindRectangle)
	c.SetSize(width, height)
	return c
}

// NewLineSegment returns a segment between two local points.
func NewLineSegment(start, end cp.Vector) *Collider {
	c := newCollider(KindLineSegment)
	c.vertices = []cp.Vector{start, end}
	return c
}

// NewLineStrip returns a chain of segments starting at start, each delta
// relative to the previous point.
func NewLineStrip(start cp.Vector, deltas ...cp.Vector) *Collider {
	c := newCollider(KindLineStrip)
	c.SetDeltas(start, deltas...)
	return c
}

func (c *Collider) Kind() Kind {
	return c.kind
}

func (c *Collider) Offset() cp.Vector {
	return c.offset
}

func (c *Collider) SetOffset(offset cp.Vector) {
	c.offset = offset
	c.Invalidate()
}

// Body returns the owner, or nil when detached.
func (c *Collider) Body() Transformable {
	return c.body
}

// Attach binds the collider to its owning body. A collider belongs to exactly
// one body.
func (c *Collider) Attach(body Transformable) {
	if c.body != nil && c.body != body {
		panic("collider: already attached to another body")
	}
	c.body = body
	c.Invalidate()
}

func (c *Collider) Detach() {
	c.body = nil
	c.Invalidate()
}

// ShapeObserver is an optional interface for owners that index collider
// geometry and need to hear about shape changes.
type ShapeObserver interface {
	ColliderChanged(c *Collider)
}

// Invalidate marks cached world geometry stale and tells an observing owner.
func (c *Collider) Invalidate() {
	c.dirty = true
	if o, ok := c.body.(ShapeObserver); ok {
		o.ColliderChanged(c)
	}
}

// Radius returns the unscaled circle radius.
func (c *Collider) Radius() float64 {
	return c.radius
}

func (c *Collider) SetRadius(radius float64) {
	if radius < 0 {
		panic(fmt.Sprintf("collider: negative circle radius %v", radius))
	}
	c.radius = radius
	c.Invalidate()
}

func (c *Collider) RadiusScale() RadiusScale {
	return c.radiusScale
}

func (c *Collider) SetRadiusScale(scale RadiusScale) {
	c.radiusScale = scale
	c.Invalidate()
}

// SetVertices resets a polygon. Vertices are stored clockwise regardless of
// the order given.
func (c *Collider) SetVertices(vertices ...cp.Vector) {
	if len(vertices) < 3 {
		panic(fmt.Sprintf("collider: polygon needs at least 3 vertices, got %d", len(vertices)))
	}
	c.vertices = append(c.vertices[:0], vertices...)
	if signedArea(c.vertices) > 0 {
		reverse(c.vertices)
	}
	c.Invalidate()
}

// SetSize resets a rectangle.
func (c *Collider) SetSize(width, height float64) {
	hw, hh := width/2, height/2
	c.SetVertices(
		cp.Vector{X: -hw, Y: hh},
		cp.Vector{X: hw, Y: hh},
		cp.Vector{X: hw, Y: -hh},
		cp.Vector{X: -hw, Y: -hh},
	)
}

// SetEndpoints resets a line segment.
func (c *Collider) SetEndpoints(start, end cp.Vector) {
	c.vertices = append(c.vertices[:0], start, end)
	c.Invalidate()
}

// SetDeltas rebuilds a line strip's absolute vertex chain.
func (c *Collider) SetDeltas(start cp.Vector, deltas ...cp.Vector) {
	if len(deltas) == 0 {
		panic("collider: line strip needs at least one delta")
	}
	c.stripStart = start
	c.deltas = append(c.deltas[:0], deltas...)
	c.vertices = append(c.vertices[:0], start)
	current := start
	for _, d := range c.deltas {
		current = current.Add(d)
		c.vertices = append(c.vertices, current)
	}
	c.Invalidate()
}

// Deltas returns the strip start and a copy of its relative deltas.
func (c *Collider) Deltas() (cp.Vector, []cp.Vector) {
	return c.stripStart, append([]cp.Vector(nil), c.deltas...)
}

// Vertices returns a copy of the local points.
func (c *Collider) Vertices() []cp.Vector {
	return append([]cp.Vector(nil), c.vertices...)
}

// WorldPoints returns the cached world-space points. The slice is owned by the
// collider and must not be modified.
func (c *Collider) WorldPoints() []cp.Vector {
	c.refresh()
	return c.worldPoints
}

// Normals returns the cached world-space unit edge normals.
func (c *Collider) Normals() []cp.Vector {
	c.refresh()
	return c.normals
}

// WorldRadius returns the scaled circle radius.
func (c *Collider) WorldRadius() float64 {
	c.refresh()
	return c.worldRadius
}

func (c *Collider) Center() cp.Vector {
	c.refresh()
	return c.center
}

func (c *Collider) BoundingArea() BoundingArea {
	c.refresh()
	return c.area
}

func (c *Collider) hasPoints() bool {
	switch c.kind {
	case KindPolygon, KindRectangle, KindLineSegment, KindLineStrip:
		return true
	}
	return false
}

func (c *Collider) isClosed() bool {
	return c.kind == KindPolygon || c.kind == KindRectangle
}

func (c *Collider) transform() Transform {
	if c.body == nil {
		return IdentityTransform
	}
	return c.body.WorldTransform()
}

func (c *Collider) refresh() {
	if !c.dirty {
		return
	}
	c.dirty = false

	t := c.transform()
	switch {
	case c.kind == KindCircle:
		c.center = t.Apply(c.offset)
		c.worldRadius = c.radius * c.scaleFactor(t.Scale)
		c.worldPoints = c.worldPoints[:0]
		c.normals = c.normals[:0]
		extent := cp.Vector{X: c.worldRadius, Y: c.worldRadius}
		c.area = BoundingArea{Minimum: c.center.Sub(extent), Maximum: c.center.Add(extent)}
	case c.hasPoints():
		c.worldPoints = c.worldPoints[:0]
		for _, v := range c.vertices {
			c.worldPoints = append(c.worldPoints, t.Apply(v.Add(c.offset)))
		}
		if c.isClosed() && t.Mirrors() {
			reverse(c.worldPoints)
		}
		c.normals = edgeNormals(c.normals[:0], c.worldPoints, c.isClosed())
		c.center = centroid(c.worldPoints)
		c.worldRadius = 0
		c.area = CreateFromPoints(c.worldPoints...)
	default:
		c.worldPoints = c.worldPoints[:0]
		c.normals = c.normals[:0]
		c.center = t.Apply(c.offset)
		c.worldRadius = 0
		c.area = EmptyArea
	}
}

func (c *Collider) scaleFactor(scale cp.Vector) float64 {
	sx, sy := abs(scale.X), abs(scale.Y)
	switch c.radiusScale {
	case RadiusScaleX:
		return sx
	case RadiusScaleY:
		return sy
	case RadiusScaleAverage:
		return (sx + sy) / 2
	default:
		return 1
	}
}

// edgeNormals appends the outward unit normal of every non-degenerate edge.
// For clockwise Y-up points the outward normal is the edge's left
// perpendicular.
func edgeNormals(dst []cp.Vector, points []cp.Vector, closed bool) []cp.Vector {
	count := len(points) - 1
	if closed {
		count = len(points)
	}
	for i := 0; i < count; i++ {
		edge := points[(i+1)%len(points)].Sub(points[i])
		if !common.HasValue(edge.Length()) {
			continue
		}
		dst = append(dst, edge.Perp().Normalize())
	}
	return dst
}

func centroid(points []cp.Vector) cp.Vector {
	if len(points) == 0 {
		return cp.Vector{}
	}
	var sum cp.Vector
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mult(1 / float64(len(points)))
}

// signedArea is positive for counter-clockwise points in Y-up space.
func signedArea(points []cp.Vector) float64 {
	area := 0.0
	for i := range points {
		j := (i + 1) % len(points)
		area += points[i].Cross(points[j])
	}
	return area / 2
}

func reverse(points []cp.Vector) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
