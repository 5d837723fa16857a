package renderer

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/camera"
	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/game"
)

func testSnapshot(view camera.View) *game.Snapshot {
	return &game.Snapshot{
		Tick:   1,
		State:  game.StateRunning,
		Camera: view,
		Player: game.PlayerView{
			Pos:   r3.Vec{},
			Size:  20,
			Fuel:  100,
			Trail: []r3.Vec{{X: -4}, {X: -2}},
		},
		Collectibles: []game.CollectibleView{
			{ID: 1, Pos: r3.Vec{X: 250}, Size: 24, RequiredHits: 2},
			{ID: 2, Pos: r3.Vec{X: 100000}, Size: 24, RequiredHits: 2}, // off screen
		},
		Hazards: []game.HazardView{{ID: 3, Pos: r3.Vec{Y: 120}, Size: 16}},
		Effects: []game.EffectView{{ID: 4, Kind: components.EffectHit, Pos: r3.Vec{X: 250}, Scale: 24, Life: 0.5}},
	}
}

func TestBuildDrawList_Flat(t *testing.T) {
	proj := camera.NewProjector(1280, 800, 800)
	view := camera.View{Zoom: 1}
	items := BuildDrawList(testSnapshot(view), proj, false)

	// 2 trail dots, 1 body, 1 hazard, 1 effect, 1 ship; the far body is culled.
	if len(items) != 6 {
		t.Fatalf("items = %d, want 6", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Layer < items[i-1].Layer {
			t.Fatalf("layers out of order at %d: %d after %d", i, items[i].Layer, items[i-1].Layer)
		}
	}

	ship := items[len(items)-1]
	if ship.Shape != ShapeShip {
		t.Fatalf("last item shape = %d, want ship", ship.Shape)
	}
	if ship.X != 640 || ship.Y != 400 {
		t.Errorf("ship at (%v,%v), want screen center", ship.X, ship.Y)
	}
}

func TestBuildDrawList_PerspectiveSortsByDepth(t *testing.T) {
	proj := camera.NewProjector(1280, 800, 800)
	// Eye behind and above the ship, looking forward along +X.
	view := camera.View{Position: r3.Vec{X: -300, Z: 150}, Target: r3.Vec{}, Zoom: 1}
	items := BuildDrawList(testSnapshot(view), proj, true)

	if len(items) == 0 {
		t.Fatal("nothing visible")
	}
	for i := 1; i < len(items); i++ {
		if items[i].Depth > items[i-1].Depth {
			t.Fatalf("depth not descending at %d: %v after %v", i, items[i].Depth, items[i-1].Depth)
		}
	}

	// Body at X=250 is farther than the ship at the origin.
	var bodyDepth, shipDepth float64
	for _, it := range items {
		switch it.Shape {
		case ShapeBody:
			bodyDepth = it.Depth
		case ShapeShip:
			shipDepth = it.Depth
		}
	}
	if bodyDepth <= shipDepth {
		t.Errorf("body depth %v should exceed ship depth %v", bodyDepth, shipDepth)
	}
}

func TestBuildDrawList_CullsBehindCamera(t *testing.T) {
	proj := camera.NewProjector(1280, 800, 800)
	view := camera.View{Position: r3.Vec{X: 500, Z: 10}, Target: r3.Vec{X: 1000}, Zoom: 1}
	items := BuildDrawList(testSnapshot(view), proj, true)
	for _, it := range items {
		if it.Shape == ShapeShip {
			t.Error("ship behind the eye was not culled")
		}
	}
}

func TestBodyColorWarmsWithHits(t *testing.T) {
	cold := BodyColor(0, 3)
	hot := BodyColor(3, 3)
	if hot.R <= cold.R || hot.B >= cold.B {
		t.Errorf("cold %v hot %v", cold, hot)
	}
}

func TestPerspectiveRingsFollowLayout(t *testing.T) {
	cfg := config.Default()
	cfg.Collectible.Rings = 2
	cfg.Collectible.FirstRingRadius = 180
	cfg.Collectible.RingSpacing = 90
	cfg.Recompute()

	p, ok := New("3d", cfg).(*Perspective3D)
	if !ok {
		t.Fatal("3d view did not build a Perspective3D")
	}
	if len(p.rings) != 2 || p.rings[0] != 180 || p.rings[1] != 270 {
		t.Errorf("rings = %v, want [180 270]", p.rings)
	}
	if _, ok := New("2d", cfg).(*Canvas2D); !ok {
		t.Error("2d view did not build a Canvas2D")
	}
}
