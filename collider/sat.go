package collider

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/common"
)

// CollisionEvent describes an overlap between two colliders from the point of
// view of First. Moving First by MinimumTranslationVector separates the pair.
type CollisionEvent struct {
	First                    *Collider
	Second                   *Collider
	Normal                   cp.Vector
	MinimumTranslationVector cp.Vector
	FirstContainsSecond      bool
	SecondContainsFirst      bool
}

// Reverse returns the same contact seen from Second.
func (e CollisionEvent) Reverse() CollisionEvent {
	return CollisionEvent{
		First:                    e.Second,
		Second:                   e.First,
		Normal:                   e.Normal.Neg(),
		MinimumTranslationVector: e.MinimumTranslationVector.Neg(),
		FirstContainsSecond:      e.SecondContainsFirst,
		SecondContainsFirst:      e.FirstContainsSecond,
	}
}

// CollidesWith runs the separating axis test between a and b. Touching
// shapes, empty colliders and degenerate geometry never collide.
func CollidesWith(a, b *Collider) (CollisionEvent, bool) {
	if a == nil || b == nil || a.kind == KindEmpty || b.kind == KindEmpty {
		return CollisionEvent{}, false
	}
	if !a.BoundingArea().Overlaps(b.BoundingArea()) {
		return CollisionEvent{}, false
	}

	axes := append(a.AxesForSAT(b), b.AxesForSAT(a)...)
	if len(axes) == 0 {
		return CollisionEvent{}, false
	}

	minOverlap := math.Inf(1)
	var minAxis cp.Vector
	for _, axis := range axes {
		pa := a.Projection(axis)
		pb := b.Projection(axis)
		overlap := pa.Overlap(pb)
		// a contained interval is pushed out through its nearer boundary; this
		// is also what gives a line, whose interval on its own normal has no
		// width, a non-zero overlap
		if pa.Contains(pb) || pb.Contains(pa) {
			overlap += math.Min(math.Abs(pa.Minimum-pb.Minimum), math.Abs(pa.Maximum-pb.Maximum))
		}
		if overlap <= common.FloatTolerance {
			return CollisionEvent{}, false
		}
		if overlap < minOverlap {
			minOverlap = overlap
			minAxis = axis
		}
	}

	mtv := minAxis.Mult(minOverlap)
	if a.Center().Sub(b.Center()).Dot(mtv) < 0 {
		mtv = mtv.Neg()
	}

	return CollisionEvent{
		First:                    a,
		Second:                   b,
		Normal:                   mtv.Normalize(),
		MinimumTranslationVector: mtv,
		FirstContainsSecond:      a.ContainsCollider(b),
		SecondContainsFirst:      b.ContainsCollider(a),
	}, true
}
