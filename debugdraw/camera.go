package debugdraw

import "github.com/jakecoffman/cp"

// Camera maps Y-up world coordinates onto a Y-down screen.
type Camera struct {
	Center cp.Vector
	Zoom   float64
	Width  int
	Height int
}

func NewCamera(width, height int, zoom float64) Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return Camera{Zoom: zoom, Width: width, Height: height}
}

func (c Camera) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

func (c Camera) ToScreen(v cp.Vector) (float64, float64) {
	z := c.zoom()
	x := (v.X-c.Center.X)*z + float64(c.Width)/2
	y := float64(c.Height)/2 - (v.Y-c.Center.Y)*z
	return x, y
}

func (c Camera) ToWorld(x, y float64) cp.Vector {
	z := c.zoom()
	return cp.Vector{
		X: (x-float64(c.Width)/2)/z + c.Center.X,
		Y: (float64(c.Height)/2-y)/z + c.Center.Y,
	}
}
