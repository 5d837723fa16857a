package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func flatView() View {
	return View{Target: r3.Vec{X: 100, Y: 50}, Zoom: 1}
}

func TestWorldToScreenCentered(t *testing.T) {
	p := NewProjector(1280, 720, 800)

	// View target should map to screen center
	sx, sy := p.WorldToScreen(flatView(), r3.Vec{X: 100, Y: 50})
	if math.Abs(sx-640) > 0.01 || math.Abs(sy-360) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestWorldToScreenYUp(t *testing.T) {
	p := NewProjector(1280, 720, 800)
	_, sy := p.WorldToScreen(flatView(), r3.Vec{X: 100, Y: 60})
	if sy >= 360 {
		t.Errorf("point above target drawn at y=%f, want above center", sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	p := NewProjector(1280, 720, 800)

	views := []View{
		flatView(),
		{Target: r3.Vec{X: -300, Y: 20}, Zoom: 2.5, Rotation: 0.7},
		{Target: r3.Vec{}, Zoom: 0.5, Rotation: -2},
	}
	testCases := []struct{ sx, sy float64 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, v := range views {
		for _, tc := range testCases {
			w := p.ScreenToWorld(v, tc.sx, tc.sy)
			sx, sy := p.WorldToScreen(v, w)
			if math.Abs(sx-tc.sx) > 0.01 || math.Abs(sy-tc.sy) > 0.01 {
				t.Errorf("roundtrip failed: (%f,%f) -> %v -> (%f,%f)", tc.sx, tc.sy, w, sx, sy)
			}
		}
	}
}

func TestZoomScalesDistance(t *testing.T) {
	p := NewProjector(1280, 720, 800)
	v := flatView()
	v.Zoom = 2
	sx, _ := p.WorldToScreen(v, r3.Vec{X: 110, Y: 50})
	if math.Abs(sx-660) > 0.01 {
		t.Errorf("sx = %f, want 660", sx)
	}
}

func TestIsVisible(t *testing.T) {
	p := NewProjector(1280, 720, 800)
	v := flatView()
	if !p.IsVisible(v, r3.Vec{X: 100, Y: 50}, 1) {
		t.Error("target should be visible")
	}
	if p.IsVisible(v, r3.Vec{X: 5000, Y: 50}, 10) {
		t.Error("far point should be culled")
	}
	// Just outside the edge but within radius
	if !p.IsVisible(v, r3.Vec{X: 100 + 645, Y: 50}, 10) {
		t.Error("point overlapping edge should be visible")
	}
}

func TestProjectTopDown(t *testing.T) {
	p := NewProjector(1280, 720, 800)
	v := View{Position: r3.Vec{Z: 800}, Target: r3.Vec{}, Zoom: 1}

	center := p.Project(v, r3.Vec{})
	if !center.Visible || math.Abs(center.X-640) > 1e-6 || math.Abs(center.Y-360) > 1e-6 {
		t.Errorf("target projected to %+v, want screen center", center)
	}
	if math.Abs(center.Scale-1) > 1e-9 {
		t.Errorf("scale at focal distance = %f, want 1", center.Scale)
	}

	right := p.Project(v, r3.Vec{X: 100})
	if right.X <= 640 {
		t.Errorf("+X projected left of center: %f", right.X)
	}
	upPt := p.Project(v, r3.Vec{Y: 100})
	if upPt.Y >= 360 {
		t.Errorf("+Y projected below center: %f", upPt.Y)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	p := NewProjector(1280, 720, 800)
	v := View{Position: r3.Vec{X: -100}, Target: r3.Vec{}, Zoom: 1}
	if p.Project(v, r3.Vec{X: -200}).Visible {
		t.Error("point behind the eye reported visible")
	}
}

func TestProjectNearerIsLarger(t *testing.T) {
	p := NewProjector(1280, 720, 800)
	v := View{Position: r3.Vec{X: -500, Z: 100}, Target: r3.Vec{}, Zoom: 1}
	near := p.Project(v, r3.Vec{X: -200})
	far := p.Project(v, r3.Vec{X: 400})
	if !near.Visible || !far.Visible {
		t.Fatalf("points not visible: %+v %+v", near, far)
	}
	if near.Scale <= far.Scale || near.Depth >= far.Depth {
		t.Errorf("near scale %f depth %f, far scale %f depth %f", near.Scale, near.Depth, far.Scale, far.Depth)
	}
}

func TestBasisOrthonormal(t *testing.T) {
	views := []View{
		{Position: r3.Vec{X: -300, Z: 120}, Target: r3.Vec{}},
		{Position: r3.Vec{Z: 700}, Target: r3.Vec{}, Rotation: 1.2},
		{Position: r3.Vec{X: 10, Y: 20, Z: 30}, Target: r3.Vec{X: 10, Y: 20, Z: 30}},
	}
	for _, v := range views {
		r, u, f := Basis(v)
		for _, d := range []float64{r3.Dot(r, u), r3.Dot(r, f), r3.Dot(u, f)} {
			if math.Abs(d) > 1e-9 {
				t.Errorf("basis not orthogonal for %+v: dot=%g", v, d)
			}
		}
		for _, n := range []float64{r3.Norm(r), r3.Norm(u), r3.Norm(f)} {
			if math.Abs(n-1) > 1e-9 {
				t.Errorf("basis vector not unit: %g", n)
			}
		}
	}
}
