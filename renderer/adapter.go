package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/camera"
	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/game"
	"github.com/pthm-cable/galaxy/systems"
)

// Adapter draws snapshots. Implementations must be used on the window thread.
type Adapter interface {
	Draw(s *game.Snapshot)
	Resize(width, height int)
}

// New returns the adapter for view ("2d" or "3d").
func New(view string, cfg *config.Config) Adapter {
	proj := camera.NewProjector(float64(cfg.Screen.Width), float64(cfg.Screen.Height), cfg.Camera.FocalLength)
	if view == "3d" {
		return &Perspective3D{proj: proj, world: cfg.World, rings: systems.NewSlotLayout(cfg.Collectible).Radii()}
	}
	return &Canvas2D{proj: proj, world: cfg.World}
}

// Canvas2D draws the flat top-down view.
type Canvas2D struct {
	proj  *camera.Projector
	world config.WorldConfig
}

// Resize updates the viewport.
func (c *Canvas2D) Resize(width, height int) {
	c.proj.Resize(float64(width), float64(height))
}

// Draw renders one frame. The caller owns BeginDrawing/EndDrawing.
func (c *Canvas2D) Draw(s *game.Snapshot) {
	rl.ClearBackground(Background)
	v := s.Camera

	// Galaxy core
	cx, cy := c.proj.WorldToScreen(v, r3.Vec{})
	for i := 3; i >= 1; i-- {
		rl.DrawCircle(int32(cx), int32(cy), float32(60*float64(i)*v.Zoom), CoreGlow)
	}

	// World bounds
	hw, hh := c.world.Width/2, c.world.Height/2
	corners := [4]r3.Vec{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	for i := range corners {
		ax, ay := c.proj.WorldToScreen(v, corners[i])
		bx, by := c.proj.WorldToScreen(v, corners[(i+1)%4])
		rl.DrawLineEx(rl.Vector2{X: float32(ax), Y: float32(ay)}, rl.Vector2{X: float32(bx), Y: float32(by)}, 2, BoundsColor)
	}

	drawItems(BuildDrawList(s, c.proj, false))
}

// Perspective3D draws the pseudo-3D view from the rig's eye position.
type Perspective3D struct {
	proj  *camera.Projector
	world config.WorldConfig
	rings []float64 // Orbit radii of the collectible slots
}

// Resize updates the viewport.
func (p *Perspective3D) Resize(width, height int) {
	p.proj.Resize(float64(width), float64(height))
}

// Draw renders one frame. The caller owns BeginDrawing/EndDrawing.
func (p *Perspective3D) Draw(s *game.Snapshot) {
	rl.ClearBackground(Background)
	v := s.Camera

	// Orbit rings on the galactic plane
	for _, radius := range p.rings {
		p.drawRing(v, radius)
	}
	if core := p.proj.Project(v, r3.Vec{}); core.Visible {
		rl.DrawCircle(int32(core.X), int32(core.Y), float32(80*core.Scale), CoreGlow)
	}

	drawItems(BuildDrawList(s, p.proj, true))
}

func (p *Perspective3D) drawRing(v camera.View, radius float64) {
	const segments = 48
	var prev camera.Projected
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		cur := p.proj.Project(v, r3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)})
		if i > 0 && prev.Visible && cur.Visible {
			rl.DrawLine(int32(prev.X), int32(prev.Y), int32(cur.X), int32(cur.Y), BoundsColor)
		}
		prev = cur
	}
}

// drawItems draws a sorted draw list.
func drawItems(items []Item) {
	for i := range items {
		it := &items[i]
		switch it.Shape {
		case ShapeDot:
			rl.DrawCircleV(rl.Vector2{X: it.X, Y: it.Y}, it.Radius, it.Color)
		case ShapeBody:
			rl.DrawCircleV(rl.Vector2{X: it.X, Y: it.Y}, it.Radius, it.Color)
			rl.DrawCircleLines(int32(it.X), int32(it.Y), it.Radius*1.2, fade(it.Color, 0.4))
		case ShapeRing:
			rl.DrawRing(rl.Vector2{X: it.X, Y: it.Y}, it.Radius*0.8, it.Radius, 0, 360, 24, it.Color)
		case ShapeHazard:
			rl.DrawPoly(rl.Vector2{X: it.X, Y: it.Y}, 4, it.Radius, 45, it.Color)
		case ShapeShip:
			drawShip(it)
		}
	}
}

// drawShip draws a triangle pointing along the item's heading.
func drawShip(it *Item) {
	sin, cos := math.Sincos(float64(it.Heading))
	r := float64(it.Radius)
	pt := func(dx, dy float64) rl.Vector2 {
		return rl.Vector2{
			X: it.X + float32(dx*cos-dy*sin),
			Y: it.Y + float32(dx*sin+dy*cos),
		}
	}
	nose := pt(r*1.4, 0)
	left := pt(-r, -r*0.8)
	right := pt(-r, r*0.8)
	// raylib wants counter-clockwise vertices
	rl.DrawTriangle(nose, left, right, it.Color)
	rl.DrawTriangleLines(nose, left, right, it.Color)
}
