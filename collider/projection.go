package collider

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/common"
)

// Projection is the interval a shape covers when projected onto an axis.
type Projection struct {
	Axis    cp.Vector
	Minimum float64
	Maximum float64
}

// ProjectPoints projects every point onto axis.
func ProjectPoints(axis cp.Vector, points []cp.Vector) Projection {
	if len(points) == 0 {
		return Projection{Axis: axis}
	}
	minimum := axis.Dot(points[0])
	maximum := minimum
	for _, p := range points[1:] {
		d := axis.Dot(p)
		minimum = math.Min(minimum, d)
		maximum = math.Max(maximum, d)
	}
	return Projection{Axis: axis, Minimum: minimum, Maximum: maximum}
}

// Overlap is the length of the shared interval. It is negative when the
// projections are separated.
func (p Projection) Overlap(other Projection) float64 {
	return math.Min(p.Maximum, other.Maximum) - math.Max(p.Minimum, other.Minimum)
}

// Overlaps reports whether the projections share more than FloatTolerance.
// Exactly touching shapes do not collide.
func (p Projection) Overlaps(other Projection) bool {
	return p.Overlap(other) > common.FloatTolerance
}

// Contains reports whether other lies within p, boundaries included.
func (p Projection) Contains(other Projection) bool {
	return common.IsLessThanOrEqual(p.Minimum, other.Minimum) && common.IsGreaterThanOrEqual(p.Maximum, other.Maximum)
}
