package collider

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/common"
)

// BoundingArea is an axis-aligned box. The zero value is the canonical empty
// area.
type BoundingArea struct {
	Minimum cp.Vector
	Maximum cp.Vector
}

// EmptyArea is returned wherever there is no geometry to bound.
var EmptyArea = BoundingArea{}

// NewBoundingArea builds an area from two corners in any order.
func NewBoundingArea(a, b cp.Vector) BoundingArea {
	return BoundingArea{
		Minimum: cp.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Maximum: cp.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// CreateFromPoints returns the smallest area containing every point.
func CreateFromPoints(points ...cp.Vector) BoundingArea {
	if len(points) == 0 {
		return EmptyArea
	}
	minimum := points[0]
	maximum := points[0]
	for _, p := range points[1:] {
		minimum.X = math.Min(minimum.X, p.X)
		minimum.Y = math.Min(minimum.Y, p.Y)
		maximum.X = math.Max(maximum.X, p.X)
		maximum.Y = math.Max(maximum.Y, p.Y)
	}
	return BoundingArea{Minimum: minimum, Maximum: maximum}
}

// Combine returns the smallest area containing every non-empty input.
func Combine(areas ...BoundingArea) BoundingArea {
	result := EmptyArea
	found := false
	for _, a := range areas {
		if a.IsEmpty() {
			continue
		}
		if !found {
			result = a
			found = true
			continue
		}
		result = BoundingArea{
			Minimum: cp.Vector{X: math.Min(result.Minimum.X, a.Minimum.X), Y: math.Min(result.Minimum.Y, a.Minimum.Y)},
			Maximum: cp.Vector{X: math.Max(result.Maximum.X, a.Maximum.X), Y: math.Max(result.Maximum.Y, a.Maximum.Y)},
		}
	}
	return result
}

func (a BoundingArea) IsEmpty() bool {
	return a.Minimum == cp.Vector{} && a.Maximum == cp.Vector{}
}

func (a BoundingArea) Width() float64 {
	return a.Maximum.X - a.Minimum.X
}

func (a BoundingArea) Height() float64 {
	return a.Maximum.Y - a.Minimum.Y
}

func (a BoundingArea) Center() cp.Vector {
	return a.Minimum.Add(a.Maximum).Mult(0.5)
}

// Contains reports whether point lies inside or on the boundary.
func (a BoundingArea) Contains(point cp.Vector) bool {
	return common.IsGreaterThanOrEqual(point.X, a.Minimum.X) &&
		common.IsLessThanOrEqual(point.X, a.Maximum.X) &&
		common.IsGreaterThanOrEqual(point.Y, a.Minimum.Y) &&
		common.IsLessThanOrEqual(point.Y, a.Maximum.Y)
}

// ContainsArea reports whether other lies entirely inside a, boundaries
// included.
func (a BoundingArea) ContainsArea(other BoundingArea) bool {
	return a.Contains(other.Minimum) && a.Contains(other.Maximum)
}

// Overlaps reports whether the two areas share any point, boundaries
// included. It is symmetric.
func (a BoundingArea) Overlaps(other BoundingArea) bool {
	return common.IsLessThanOrEqual(a.Minimum.X, other.Maximum.X) &&
		common.IsLessThanOrEqual(other.Minimum.X, a.Maximum.X) &&
		common.IsLessThanOrEqual(a.Minimum.Y, other.Maximum.Y) &&
		common.IsLessThanOrEqual(other.Minimum.Y, a.Maximum.Y)
}

// Quadrant returns one quarter of the area: 0 top-left, 1 top-right,
// 2 bottom-left, 3 bottom-right (Y-up).
func (a BoundingArea) Quadrant(index int) BoundingArea {
	center := a.Center()
	switch index {
	case 0:
		return BoundingArea{Minimum: cp.Vector{X: a.Minimum.X, Y: center.Y}, Maximum: cp.Vector{X: center.X, Y: a.Maximum.Y}}
	case 1:
		return BoundingArea{Minimum: center, Maximum: a.Maximum}
	case 2:
		return BoundingArea{Minimum: a.Minimum, Maximum: center}
	default:
		return BoundingArea{Minimum: cp.Vector{X: center.X, Y: a.Minimum.Y}, Maximum: cp.Vector{X: a.Maximum.X, Y: center.Y}}
	}
}

// FitsWithin reports whether a lies inside other using exact comparisons, so
// items placed in sibling quadtree nodes never overlap each other.
func (a BoundingArea) FitsWithin(other BoundingArea) bool {
	return a.Minimum.X >= other.Minimum.X && a.Maximum.X <= other.Maximum.X &&
		a.Minimum.Y >= other.Minimum.Y && a.Maximum.Y <= other.Maximum.Y
}

// Translate returns the area moved by offset.
func (a BoundingArea) Translate(offset cp.Vector) BoundingArea {
	return BoundingArea{Minimum: a.Minimum.Add(offset), Maximum: a.Maximum.Add(offset)}
}
