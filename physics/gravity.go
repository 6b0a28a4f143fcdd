package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/common"
)

// Gravity caches the normalized direction and its perpendicular.
type Gravity struct {
	value         cp.Vector
	direction     cp.Vector
	perpendicular cp.Vector
}

func NewGravity(value cp.Vector) Gravity {
	var g Gravity
	g.SetValue(value)
	return g
}

func (g *Gravity) SetValue(value cp.Vector) {
	g.value = value
	if !common.HasValue(value.Length()) {
		g.direction = cp.Vector{}
		g.perpendicular = cp.Vector{}
		return
	}
	g.direction = value.Normalize()
	g.perpendicular = g.direction.Perp()
}

func (g Gravity) Value() cp.Vector {
	return g.value
}

func (g Gravity) Direction() cp.Vector {
	return g.direction
}

func (g Gravity) Perpendicular() cp.Vector {
	return g.perpendicular
}

func (g Gravity) IsZero() bool {
	return g.direction == cp.Vector{}
}
