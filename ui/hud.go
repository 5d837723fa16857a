package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/galaxy/game"
)

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	maxFuel  float32
}

// NewHUD creates a new HUD renderer.
func NewHUD(maxFuel float64) *HUD {
	return &HUD{renderer: NewRenderer(), maxFuel: float32(maxFuel)}
}

// Draw renders the HUD for snapshot s.
func (h *HUD) Draw(s *game.Snapshot, fps int32) {
	r := h.renderer
	x, y := int32(12), int32(12)
	width := int32(260)

	r.DrawPanel(x-6, y-6, width+12, r.Theme.LineHeight*6+16)

	y = r.DrawLabelValue(x, y, "Score", fmt.Sprintf("%d", s.Score))
	y = r.DrawLabelValue(x, y, "Level", fmt.Sprintf("%d", s.Level))
	y = r.DrawLabelValue(x, y, "Bodies", fmt.Sprintf("%d / %d", s.Collected, s.Required))
	y = r.DrawLevelBar(x, y, "Fuel", float32(s.Player.Fuel), h.maxFuel, width)

	bomb := "ready"
	if s.BombCooldown > 0 {
		bomb = fmt.Sprintf("%.1fs", float32(s.BombCooldown)/60)
	}
	y = r.DrawLabelValue(x, y, "Bomb", bomb)
	if s.SafeTime > 0 {
		rl.DrawText(fmt.Sprintf("SHIELD %.1fs", float32(s.SafeTime)/60), x, y, r.Theme.FontSize, rl.SkyBlue)
	}

	status := fmt.Sprintf("%s | %s | FPS %d", s.State, s.Camera.Shot, fps)
	if s.Cinematic {
		status += " | cinematic"
	}
	rl.DrawText(status, int32(rl.GetScreenWidth())-rl.MeasureText(status, 14)-12, 12, 14, rl.Gray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("WASD/Arrows: thrust | Space: bomb | P: pause | C: cinematic | R: restart", 12, screenHeight-24, 14, rl.Gray)
}
