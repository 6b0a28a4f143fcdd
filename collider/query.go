package collider

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/common"
)

var defaultAxis = cp.Vector{X: 0, Y: 1}

// Contains reports whether point lies strictly inside the collider. Points on
// the boundary are rejected. Lines and empty colliders contain nothing.
func (c *Collider) Contains(point cp.Vector) bool {
	c.refresh()
	switch {
	case c.kind == KindCircle:
		return point.Distance(c.center) < c.worldRadius-common.FloatTolerance
	case c.isClosed():
		return polygonContains(c.worldPoints, point)
	default:
		return false
	}
}

func polygonContains(points []cp.Vector, point cp.Vector) bool {
	sign := 0
	for i := range points {
		edge := points[(i+1)%len(points)].Sub(points[i])
		cross := edge.Cross(point.Sub(points[i]))
		if math.Abs(cross) <= common.FloatTolerance {
			return false
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return sign != 0
}

// ContainsCollider reports whether other lies entirely inside c.
func (c *Collider) ContainsCollider(other *Collider) bool {
	if other == nil || other.kind == KindEmpty {
		return false
	}
	c.refresh()
	other.refresh()

	switch {
	case c.kind == KindCircle:
		if other.kind == KindCircle {
			return c.center.Distance(other.center)+other.worldRadius < c.worldRadius
		}
		return c.containsAll(other.worldPoints)
	case c.isClosed():
		if other.kind == KindCircle {
			if !c.Contains(other.center) {
				return false
			}
			for i := range c.worldPoints {
				a := c.worldPoints[i]
				b := c.worldPoints[(i+1)%len(c.worldPoints)]
				if closestPointOnSegment(other.center, a, b).Distance(other.center) < other.worldRadius {
					return false
				}
			}
			return true
		}
		return c.containsAll(other.worldPoints)
	default:
		return false
	}
}

func (c *Collider) containsAll(points []cp.Vector) bool {
	if len(points) == 0 {
		return false
	}
	for _, p := range points {
		if !c.Contains(p) {
			return false
		}
	}
	return true
}

// AxesForSAT returns the candidate separating axes c contributes when tested
// against other.
func (c *Collider) AxesForSAT(other *Collider) []cp.Vector {
	if other == nil || other.kind == KindEmpty {
		return nil
	}
	c.refresh()
	other.refresh()

	switch {
	case c.kind == KindCircle:
		if other.kind == KindCircle {
			return []cp.Vector{axisToward(c.center, other.center)}
		}
		return []cp.Vector{axisToward(c.center, nearestPoint(c.center, other.worldPoints))}
	case c.kind == KindRectangle:
		// opposite edges share an axis
		if len(c.normals) > 2 {
			return append([]cp.Vector(nil), c.normals[:2]...)
		}
		return append([]cp.Vector(nil), c.normals...)
	case c.hasPoints():
		return append([]cp.Vector(nil), c.normals...)
	default:
		return nil
	}
}

func axisToward(from, to cp.Vector) cp.Vector {
	delta := to.Sub(from)
	if !common.HasValue(delta.Length()) {
		return defaultAxis
	}
	return delta.Normalize()
}

func nearestPoint(target cp.Vector, points []cp.Vector) cp.Vector {
	if len(points) == 0 {
		return target
	}
	best := points[0]
	bestDist := target.DistanceSq(best)
	for _, p := range points[1:] {
		if d := target.DistanceSq(p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// Projection projects the world geometry onto a unit axis.
func (c *Collider) Projection(axis cp.Vector) Projection {
	c.refresh()
	if c.kind == KindCircle {
		d := axis.Dot(c.center)
		return Projection{Axis: axis, Minimum: d - c.worldRadius, Maximum: d + c.worldRadius}
	}
	return ProjectPoints(axis, c.worldPoints)
}

// TryHit intersects ray with the collider and returns the nearest hit.
func (c *Collider) TryHit(ray Ray) (RaycastHit, bool) {
	if ray.IsDegenerate() {
		return RaycastHit{}, false
	}
	c.refresh()
	switch {
	case c.kind == KindCircle:
		return c.hitCircle(ray)
	case c.hasPoints():
		return c.hitEdges(ray)
	default:
		return RaycastHit{}, false
	}
}

func (c *Collider) hitCircle(ray Ray) (RaycastHit, bool) {
	r := c.worldRadius
	if r <= common.FloatTolerance {
		return RaycastHit{}, false
	}
	f := ray.Start.Sub(c.center)
	b := 2 * f.Dot(ray.Direction)
	k := f.Dot(f) - r*r
	disc := b*b - 4*k

	var t float64
	switch {
	case math.Abs(disc) <= common.FloatTolerance:
		t = -b / 2
	case disc < 0:
		return RaycastHit{}, false
	default:
		root := math.Sqrt(disc)
		t1 := (-b - root) / 2
		t2 := (-b + root) / 2
		switch {
		case t1 >= 0 && t1 <= ray.Distance:
			t = t1
		case t2 >= 0 && t2 <= ray.Distance:
			t = t2
		default:
			return RaycastHit{}, false
		}
	}
	if t < 0 || t > ray.Distance {
		return RaycastHit{}, false
	}

	point := ray.Start.Add(ray.Direction.Mult(t))
	return RaycastHit{
		Collider:     c,
		ContactPoint: point,
		Normal:       axisToward(c.center, point),
		Distance:     t,
	}, true
}

func (c *Collider) hitEdges(ray Ray) (RaycastHit, bool) {
	points := c.worldPoints
	closed := c.isClosed()
	count := len(points) - 1
	if closed {
		count = len(points)
	}

	end := ray.End()
	var best RaycastHit
	found := false
	for i := 0; i < count; i++ {
		a := points[i]
		b := points[(i+1)%len(points)]
		point, ok := IntersectLines(ray.Start, end, a, b)
		if !ok {
			continue
		}
		dist := ray.Start.Distance(point)
		if found && dist >= best.Distance {
			continue
		}
		normal := b.Sub(a).Perp().Normalize()
		if !closed && normal.Dot(ray.Direction) > 0 {
			normal = normal.Neg()
		}
		best = RaycastHit{Collider: c, ContactPoint: point, Normal: normal, Distance: dist}
		found = true
	}
	return best, found
}
