// Package debugdraw renders collider geometry, the broad phase and ray hits
// with ebiten for the sandbox.
package debugdraw

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/collider"
	"github.com/milk9111/physics2d/physics"
	"golang.org/x/image/colornames"
)

const (
	circleSegments = 24
	normalLength   = 0.5
	hitMarkSize    = 0.2
)

var (
	staticColor   = colornames.Seagreen
	dynamicColor  = colornames.Dodgerblue
	triggerColor  = colornames.Gold
	contactColor  = colornames.Crimson
	boundsColor   = colornames.Dimgray
	treeColor     = colornames.Darkslategray
	rayColor      = colornames.Orange
	normalColor   = colornames.Violet
	disabledColor = colornames.Gray
)

type Drawer struct {
	Camera      Camera
	ShowBounds  bool
	ShowTree    bool
	ShowNormals bool
}

// DrawWorld draws every registered, enabled body. Bodies that collided in the
// last step are highlighted.
func (d *Drawer) DrawWorld(screen *ebiten.Image, w *physics.World) {
	if screen == nil || w == nil {
		return
	}
	if d.ShowTree && w.Tree() != nil {
		w.Tree().Walk(func(bounds collider.BoundingArea, depth int, items []*collider.Collider) {
			d.drawArea(screen, bounds, treeColor)
		})
	}
	for _, b := range w.Bodies() {
		clr := bodyColor(b)
		for _, c := range b.GetColliders() {
			d.drawCollider(screen, c, clr)
			if d.ShowBounds {
				d.drawArea(screen, c.BoundingArea(), boundsColor)
			}
		}
	}
}

// DrawRay draws ray and, when ok, the hit point and normal.
func (d *Drawer) DrawRay(screen *ebiten.Image, ray collider.Ray, hit collider.RaycastHit, ok bool) {
	end := ray.End()
	if ok {
		end = hit.ContactPoint
	}
	d.line(screen, ray.Start, end, rayColor)
	if !ok {
		return
	}
	d.cross(screen, hit.ContactPoint, contactColor)
	d.line(screen, hit.ContactPoint, hit.ContactPoint.Add(hit.Normal.Mult(normalLength)), normalColor)
}

// DrawStats prints a one-line summary at the top-left corner.
func (d *Drawer) DrawStats(screen *ebiten.Image, w *physics.World, extra string) {
	contacts := 0
	for _, b := range w.Bodies() {
		contacts += len(b.Collisions())
	}
	text := fmt.Sprintf("tick %d  bodies %d  contacts %d", w.Tick(), w.Len(), contacts/2)
	if extra != "" {
		text += "\n" + extra
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

func bodyColor(b *physics.Body) color.Color {
	switch {
	case !b.Enabled():
		return disabledColor
	case len(b.Collisions()) > 0:
		return contactColor
	case b.IsTrigger():
		return triggerColor
	case b.IsDynamic():
		return dynamicColor
	default:
		return staticColor
	}
}

func (d *Drawer) drawCollider(screen *ebiten.Image, c *collider.Collider, clr color.Color) {
	switch c.Kind() {
	case collider.KindCircle:
		d.circle(screen, c.Center(), c.WorldRadius(), clr)
	case collider.KindPolygon, collider.KindRectangle:
		d.polyline(screen, c.WorldPoints(), true, clr)
	case collider.KindLineSegment, collider.KindLineStrip:
		d.polyline(screen, c.WorldPoints(), false, clr)
	case collider.KindEmpty:
		d.cross(screen, c.Center(), clr)
	}
	if d.ShowNormals {
		d.drawNormals(screen, c)
	}
}

func (d *Drawer) drawNormals(screen *ebiten.Image, c *collider.Collider) {
	points := c.WorldPoints()
	normals := c.Normals()
	if len(points) < 2 {
		return
	}
	edges := len(points) - 1
	if c.Kind() == collider.KindPolygon || c.Kind() == collider.KindRectangle {
		edges = len(points)
	}
	// degenerate edges have no normal, so only pair up when the counts agree
	if edges != len(normals) {
		return
	}
	for i, n := range normals {
		a, b := points[i], points[(i+1)%len(points)]
		mid := a.Lerp(b, 0.5)
		d.line(screen, mid, mid.Add(n.Mult(normalLength)), normalColor)
	}
}

func (d *Drawer) drawArea(screen *ebiten.Image, area collider.BoundingArea, clr color.Color) {
	if area.IsEmpty() {
		return
	}
	x1, y1 := d.Camera.ToScreen(cp.Vector{X: area.Minimum.X, Y: area.Maximum.Y})
	x2, y2 := d.Camera.ToScreen(cp.Vector{X: area.Maximum.X, Y: area.Minimum.Y})
	vector.StrokeRect(screen, float32(x1), float32(y1), float32(x2-x1), float32(y2-y1), 1, clr, false)
}

func (d *Drawer) circle(screen *ebiten.Image, center cp.Vector, radius float64, clr color.Color) {
	if radius <= 0 {
		d.cross(screen, center, clr)
		return
	}
	points := make([]cp.Vector, 0, circleSegments)
	for i := 0; i < circleSegments; i++ {
		t := 2 * math.Pi * float64(i) / circleSegments
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.polyline(screen, points, true, clr)
}

func (d *Drawer) polyline(screen *ebiten.Image, points []cp.Vector, closed bool, clr color.Color) {
	for i := 0; i+1 < len(points); i++ {
		d.line(screen, points[i], points[i+1], clr)
	}
	if closed && len(points) > 2 {
		d.line(screen, points[len(points)-1], points[0], clr)
	}
}

func (d *Drawer) cross(screen *ebiten.Image, p cp.Vector, clr color.Color) {
	h := hitMarkSize
	d.line(screen, cp.Vector{X: p.X - h, Y: p.Y}, cp.Vector{X: p.X + h, Y: p.Y}, clr)
	d.line(screen, cp.Vector{X: p.X, Y: p.Y - h}, cp.Vector{X: p.X, Y: p.Y + h}, clr)
}

func (d *Drawer) line(screen *ebiten.Image, a, b cp.Vector, clr color.Color) {
	x1, y1 := d.Camera.ToScreen(a)
	x2, y2 := d.Camera.ToScreen(b)
	vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, clr, true)
}
