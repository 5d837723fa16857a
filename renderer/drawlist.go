// Package renderer draws game snapshots with raylib. The engine never calls
// into it; main hands each frame's snapshot to an Adapter.
package renderer

import (
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/camera"
	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/game"
)

// Shape selects how an Item is drawn.
type Shape uint8

const (
	ShapeDot Shape = iota
	ShapeBody
	ShapeRing
	ShapeHazard
	ShapeShip
)

// Item is one projected, ready-to-draw primitive.
type Item struct {
	Shape   Shape
	X, Y    float32
	Radius  float32
	Heading float32 // Screen-space angle, ships only
	Color   rl.Color
	Depth   float64 // View depth; larger is farther
	Layer   int     // Tie-break for equal depth, lower first
}

// Draw layers, back to front.
const (
	layerParticle = iota
	layerTrail
	layerBody
	layerHazard
	layerOrnament
	layerEffect
	layerShip
)

// projectFunc maps a world point and radius to screen space.
// ok is false when the point should be culled.
type projectFunc func(w r3.Vec, radius float64) (x, y, r, depth float64, ok bool)

// flatProjection projects with zoom and rotation, ignoring depth.
func flatProjection(p *camera.Projector, v camera.View) projectFunc {
	return func(w r3.Vec, radius float64) (float64, float64, float64, float64, bool) {
		if !p.IsVisible(v, w, radius) {
			return 0, 0, 0, 0, false
		}
		x, y := p.WorldToScreen(v, w)
		return x, y, radius * v.Zoom, 0, true
	}
}

// perspectiveProjection projects through a pinhole camera at the view position.
func perspectiveProjection(p *camera.Projector, v camera.View) projectFunc {
	return func(w r3.Vec, radius float64) (float64, float64, float64, float64, bool) {
		pr := p.Project(v, w)
		if !pr.Visible {
			return 0, 0, 0, 0, false
		}
		r := radius * pr.Scale
		if pr.X < -r || pr.X > p.ViewportW+r || pr.Y < -r || pr.Y > p.ViewportH+r {
			return 0, 0, 0, 0, false
		}
		return pr.X, pr.Y, r, pr.Depth, true
	}
}

// BuildDrawList projects every visible object in s and orders the result
// back to front. With perspective false all depths are zero and only layers
// decide the order.
func BuildDrawList(s *game.Snapshot, p *camera.Projector, perspective bool) []Item {
	v := s.Camera
	project := flatProjection(p, v)
	if perspective {
		project = perspectiveProjection(p, v)
	}

	items := make([]Item, 0, len(s.Particles)+len(s.Player.Trail)+len(s.Collectibles)+len(s.Hazards)+len(s.Effects)+len(s.Player.Ornaments)+1)
	add := func(shape Shape, layer int, w r3.Vec, radius float64, c rl.Color) {
		x, y, r, depth, ok := project(w, radius)
		if !ok {
			return
		}
		if r < 0.5 {
			r = 0.5
		}
		items = append(items, Item{Shape: shape, X: float32(x), Y: float32(y), Radius: float32(r), Color: c, Depth: depth, Layer: layer})
	}

	for _, pt := range s.Particles {
		add(ShapeDot, layerParticle, pt.Pos, pt.Size/2, fade(EffectColor(pt.Kind), pt.Life))
	}
	n := len(s.Player.Trail)
	for i, pt := range s.Player.Trail {
		life := float64(i+1) / float64(n)
		add(ShapeDot, layerTrail, pt, s.Player.Size*0.15*(0.5+life), fade(TrailColor, life*0.6))
	}
	for _, c := range s.Collectibles {
		add(ShapeBody, layerBody, c.Pos, c.Size/2, BodyColor(c.Hits, c.RequiredHits))
	}
	for _, h := range s.Hazards {
		add(ShapeHazard, layerHazard, h.Pos, h.Size/2, HazardColor)
	}
	for _, o := range s.Player.Ornaments {
		add(ShapeBody, layerOrnament, o.Pos, o.Size/4, OrnamentColor)
	}
	for _, e := range s.Effects {
		add(ShapeRing, layerEffect, e.Pos, e.Scale*(2-e.Life)/2, fade(EffectColor(e.Kind), e.Life))
	}

	shipColor := ShipColor
	if s.SafeTime > 0 && (s.Tick/6)%2 == 0 {
		shipColor = ShieldColor
	}
	before := len(items)
	add(ShapeShip, layerShip, s.Player.Pos, s.Player.Size/2, shipColor)
	if len(items) > before {
		items[before].Heading = screenHeading(s.Player.Heading, v, perspective)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Depth != items[j].Depth {
			return items[i].Depth > items[j].Depth
		}
		return items[i].Layer < items[j].Layer
	})
	return items
}

// screenHeading converts a world yaw to a screen angle. Screen Y grows down.
func screenHeading(heading float64, v camera.View, perspective bool) float32 {
	if perspective {
		return float32(-heading)
	}
	return float32(-(heading - v.Rotation))
}

// fade scales a color's alpha by life in [0,1].
func fade(c rl.Color, life float64) rl.Color {
	life = math.Max(0, math.Min(1, life))
	c.A = uint8(float64(c.A) * life)
	return c
}

// Palette
var (
	Background    = rl.Color{R: 6, G: 8, B: 20, A: 255}
	CoreGlow      = rl.Color{R: 90, G: 70, B: 160, A: 60}
	ShipColor     = rl.Color{R: 230, G: 240, B: 255, A: 255}
	ShieldColor   = rl.Color{R: 120, G: 220, B: 255, A: 255}
	TrailColor    = rl.Color{R: 140, G: 180, B: 255, A: 255}
	HazardColor   = rl.Color{R: 255, G: 80, B: 70, A: 255}
	OrnamentColor = rl.Color{R: 255, G: 215, B: 120, A: 255}
	BoundsColor   = rl.Color{R: 60, G: 70, B: 110, A: 255}
)

// BodyColor shifts from cool to warm as a collectible takes hits.
func BodyColor(hits, required int) rl.Color {
	t := 0.0
	if required > 0 {
		t = float64(hits) / float64(required)
	}
	return rl.Color{
		R: uint8(120 + 135*t),
		G: uint8(200 - 40*t),
		B: uint8(255 - 175*t),
		A: 255,
	}
}

// EffectColor returns the base color for an effect or particle kind.
func EffectColor(k components.EffectKind) rl.Color {
	switch k {
	case components.EffectHit:
		return rl.Color{R: 180, G: 220, B: 255, A: 255}
	case components.EffectCollect:
		return rl.Color{R: 255, G: 220, B: 120, A: 255}
	case components.EffectExplosion:
		return rl.Color{R: 255, G: 120, B: 60, A: 255}
	case components.EffectBomb:
		return rl.Color{R: 255, G: 255, B: 255, A: 255}
	default:
		return rl.Color{R: 150, G: 150, B: 200, A: 255}
	}
}
