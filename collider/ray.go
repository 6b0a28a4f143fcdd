package collider

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/common"
)

// Ray is a bounded segment starting at Start and running Distance units along
// the unit vector Direction. Infinite rays are not supported.
type Ray struct {
	Start     cp.Vector
	Direction cp.Vector
	Distance  float64
}

// NewRay normalizes direction. A zero direction or a non-positive distance
// produces a degenerate ray that never hits anything.
func NewRay(start, direction cp.Vector, distance float64) Ray {
	if !common.HasValue(direction.Length()) || distance <= common.FloatTolerance {
		return Ray{Start: start}
	}
	return Ray{Start: start, Direction: direction.Normalize(), Distance: distance}
}

// NewRayBetween builds a ray from start to end.
func NewRayBetween(start, end cp.Vector) Ray {
	delta := end.Sub(start)
	return NewRay(start, delta, delta.Length())
}

func (r Ray) IsDegenerate() bool {
	return r.Distance <= common.FloatTolerance || !common.HasValue(r.Direction.Length())
}

func (r Ray) End() cp.Vector {
	return r.Start.Add(r.Direction.Mult(r.Distance))
}

func (r Ray) BoundingArea() BoundingArea {
	return NewBoundingArea(r.Start, r.End())
}

// RaycastHit describes where a ray met a collider.
type RaycastHit struct {
	Collider     *Collider
	ContactPoint cp.Vector
	Normal       cp.Vector
	Distance     float64
}

// IntersectLines intersects segments a1-a2 and b1-b2 using the two-line
// determinant form. Parallel or collinear segments never intersect; the
// parallel test is relative to the segment lengths so short segments still
// cross. The intersection must fall inside both segments' bounding areas.
func IntersectLines(a1, a2, b1, b2 cp.Vector) (cp.Vector, bool) {
	aA := a2.Y - a1.Y
	aB := a1.X - a2.X
	aC := aA*a1.X + aB*a1.Y

	bA := b2.Y - b1.Y
	bB := b1.X - b2.X
	bC := bA*b1.X + bB*b1.Y

	det := aA*bB - bA*aB
	if math.Abs(det) <= common.FloatTolerance*a2.Sub(a1).Length()*b2.Sub(b1).Length() {
		return cp.Vector{}, false
	}

	point := cp.Vector{
		X: (bB*aC - aB*bC) / det,
		Y: (aA*bC - bA*aC) / det,
	}
	if !NewBoundingArea(a1, a2).Contains(point) || !NewBoundingArea(b1, b2).Contains(point) {
		return cp.Vector{}, false
	}
	return point, true
}

func closestPointOnSegment(point, a, b cp.Vector) cp.Vector {
	ab := b.Sub(a)
	lengthSq := ab.LengthSq()
	if lengthSq <= common.FloatTolerance*common.FloatTolerance {
		return a
	}
	t := common.Clamp(point.Sub(a).Dot(ab)/lengthSq, 0, 1)
	return a.Add(ab.Mult(t))
}
