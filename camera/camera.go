// Package camera provides the cinematic camera rig and the projections
// renderers use to map world positions to the screen.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// nearPlane is the minimum view depth a point needs to be drawn in perspective.
const nearPlane = 1.0

// Projector maps world coordinates to screen pixels for a View.
// World Y points up on screen in both projections.
type Projector struct {
	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Perspective focal length in pixels at zoom 1
	FocalLength float64
}

// Projected is a point after perspective projection.
type Projected struct {
	X, Y    float64
	Scale   float64 // Pixels per world unit at this depth
	Depth   float64 // Distance along the view axis
	Visible bool
}

// NewProjector creates a projector for the given viewport.
func NewProjector(viewportW, viewportH, focalLength float64) *Projector {
	return &Projector{ViewportW: viewportW, ViewportH: viewportH, FocalLength: focalLength}
}

// Resize updates viewport dimensions.
func (p *Projector) Resize(viewportW, viewportH float64) {
	p.ViewportW = viewportW
	p.ViewportH = viewportH
}

// WorldToScreen converts a world point to screen coordinates in the flat
// projection: centered on the view target, rotated and zoomed. Depth is ignored.
func (p *Projector) WorldToScreen(v View, w r3.Vec) (sx, sy float64) {
	dx := w.X - v.Target.X
	dy := w.Y - v.Target.Y
	sin, cos := math.Sincos(-v.Rotation)
	rx := dx*cos - dy*sin
	ry := dx*sin + dy*cos
	return p.ViewportW/2 + rx*v.Zoom, p.ViewportH/2 - ry*v.Zoom
}

// ScreenToWorld inverts WorldToScreen. The returned point has zero depth.
func (p *Projector) ScreenToWorld(v View, sx, sy float64) r3.Vec {
	rx := (sx - p.ViewportW/2) / v.Zoom
	ry := -(sy - p.ViewportH/2) / v.Zoom
	sin, cos := math.Sincos(v.Rotation)
	dx := rx*cos - ry*sin
	dy := rx*sin + ry*cos
	return r3.Vec{X: v.Target.X + dx, Y: v.Target.Y + dy}
}

// IsVisible returns true if a circle at w with given radius could be visible
// in the flat projection (conservative check for culling).
func (p *Projector) IsVisible(v View, w r3.Vec, radius float64) bool {
	sx, sy := p.WorldToScreen(v, w)
	r := radius * v.Zoom
	return sx >= -r && sx <= p.ViewportW+r && sy >= -r && sy <= p.ViewportH+r
}

// VisibleWorldRadius returns the radius of a world-space circle around the
// view target that covers the flat viewport at any rotation.
func (p *Projector) VisibleWorldRadius(v View) float64 {
	return math.Hypot(p.ViewportW, p.ViewportH) / (2 * v.Zoom)
}

// Basis returns the camera's right, up and forward unit vectors.
func Basis(v View) (right, up, forward r3.Vec) {
	forward = r3.Sub(v.Target, v.Position)
	if r3.Norm2(forward) == 0 {
		forward = r3.Vec{Z: -1}
	}
	forward = r3.Unit(forward)

	right = r3.Cross(forward, Up)
	if r3.Norm2(right) < 1e-12 {
		// Looking straight down: orient by the view rotation
		right = r3.Vec{X: math.Cos(v.Rotation), Y: math.Sin(v.Rotation)}
	}
	right = r3.Unit(right)
	up = r3.Cross(right, forward)
	return right, up, forward
}

// Project converts a world point using a pinhole camera at the view position.
func (p *Projector) Project(v View, w r3.Vec) Projected {
	right, up, forward := Basis(v)
	rel := r3.Sub(w, v.Position)
	depth := r3.Dot(rel, forward)
	if depth < nearPlane {
		return Projected{Depth: depth}
	}
	scale := p.FocalLength * v.Zoom / depth
	return Projected{
		X:       p.ViewportW/2 + r3.Dot(rel, right)*scale,
		Y:       p.ViewportH/2 - r3.Dot(rel, up)*scale,
		Scale:   scale,
		Depth:   depth,
		Visible: true,
	}
}
