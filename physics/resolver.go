package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/collider"
	"github.com/milk9111/physics2d/common"
)

// resolver turns collision events into position and velocity changes.
type resolver struct {
	groundedness float64
	stickiness   float64
	minBounce    float64
	minFriction  float64
	timeStep     float64
	gravity      Gravity
}

func newResolver(s Settings, g Gravity) resolver {
	return resolver{
		groundedness: s.Groundedness,
		stickiness:   s.Stickiness,
		minBounce:    s.MinimumPostBounceMagnitude,
		minFriction:  s.MinimumPostFrictionMagnitude,
		timeStep:     s.TimeStep,
		gravity:      g,
	}
}

// resolve handles one event between first and second. The event's MTV moves
// first out of second. A kinematic body takes the whole correction against
// anything that is not kinematic; bodies without a kinematic side are only
// separated.
func (r resolver) resolve(first, second *Body, e collider.CollisionEvent) {
	switch {
	case first.IsKinematic() && second.IsKinematic():
		r.resolvePair(first, second, e)
	case first.IsKinematic():
		r.resolveBody(first, second, e)
	case second.IsKinematic():
		r.resolveBody(second, first, e.Reverse())
	case first.IsDynamic() && second.IsDynamic():
		separate(first, second, e)
	case first.IsDynamic():
		first.Translate(e.MinimumTranslationVector)
	case second.IsDynamic():
		second.Translate(e.MinimumTranslationVector.Neg())
	}
}

func (r resolver) resolveBody(body, other *Body, e collider.CollisionEvent) {
	body.Translate(e.MinimumTranslationVector)
	bounce, friction := combine(body.material, other.material)
	body.velocity = r.respond(body.velocity, e.Normal, bounce, friction)
}

// separate splits the MTV by mass without touching velocities.
func separate(a, b *Body, e collider.CollisionEvent) {
	total := a.mass + b.mass
	a.Translate(e.MinimumTranslationVector.Mult(b.mass / total))
	b.Translate(e.MinimumTranslationVector.Neg().Mult(a.mass / total))
}

// respond picks the sticky, grounded or bounce regime for velocity v hitting
// a surface with normal n.
func (r resolver) respond(v, n cp.Vector, bounce, friction float64) cp.Vector {
	speed := v.Length()
	if !common.HasValue(speed) {
		return v
	}
	tangent := n.Perp()
	alignment := v.Mult(1 / speed).Dot(tangent)

	if math.Abs(alignment) > 1-r.stickiness {
		if alignment < 0 {
			tangent = tangent.Neg()
		}
		return tangent.Mult(r.applyFriction(speed, friction))
	}

	if v.Dot(n) >= 0 {
		return v
	}

	bounced := reflect(v, n).Mult(bounce)
	if r.isGrounded(bounced, tangent) {
		g := r.gravity.Direction()
		rest := v.Sub(g.Mult(v.Dot(g)))
		restSpeed := rest.Length()
		if !common.HasValue(restSpeed) {
			return cp.Vector{}
		}
		return rest.Mult(r.applyFriction(restSpeed, friction) / restSpeed)
	}
	return bounced
}

func (r resolver) isGrounded(bounced, tangent cp.Vector) bool {
	if r.gravity.IsZero() {
		return false
	}
	g := r.gravity.Direction()
	return math.Abs(bounced.Dot(g)) < r.minBounce && math.Abs(tangent.Dot(g)) < r.groundedness
}

// applyFriction slows speed by the friction for one step and snaps small
// results to zero.
func (r resolver) applyFriction(speed, friction float64) float64 {
	speed -= friction * r.timeStep
	if speed < r.minFriction {
		return 0
	}
	return speed
}

// resolvePair splits the correction between two simulated bodies. The
// lighter body moves further, and each body's reflected velocity is blended
// with the pair's average speed by momentum share.
func (r resolver) resolvePair(a, b *Body, e collider.CollisionEvent) {
	separate(a, b, e)

	bounce, _ := combine(a.material, b.material)
	speedA, speedB := a.velocity.Length(), b.velocity.Length()
	momentum := a.mass*speedA + b.mass*speedB
	shareA := 0.5
	if common.HasValue(momentum) {
		shareA = a.mass * speedA / momentum
	}
	shareB := 1 - shareA
	average := (speedA + speedB) / 2 * bounce

	nA := e.Normal
	nB := nA.Neg()
	a.velocity = reflect(a.velocity, nA).Mult(bounce * shareA).Add(nA.Mult(average * shareB))
	b.velocity = reflect(b.velocity, nB).Mult(bounce * shareB).Add(nB.Mult(average * shareA))
}

func reflect(v, n cp.Vector) cp.Vector {
	return v.Sub(n.Mult(2 * v.Dot(n)))
}
