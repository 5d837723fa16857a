package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/galaxy/game"
)

// Overlay draws the modal panel for non-running states and reports which
// button, if any, was pressed this frame.
type Overlay struct {
	renderer *Renderer
}

// NewOverlay creates a new overlay.
func NewOverlay() *Overlay {
	return &Overlay{renderer: NewRenderer()}
}

type overlayButton struct {
	label  string
	action Action
}

// Draw renders the overlay for s and returns the chosen action.
func (o *Overlay) Draw(s *game.Snapshot) Action {
	var title, detail string
	var buttons []overlayButton

	switch s.State {
	case game.StateIdle:
		title = "GALAXY"
		detail = "Collect the orbiting bodies. Avoid the hazards."
		buttons = []overlayButton{{"Start", ActionStart}}
	case game.StatePaused:
		title = "PAUSED"
		buttons = []overlayButton{{"Resume", ActionResume}, {"Restart level", ActionRestart}}
	case game.StateLevelComplete:
		title = fmt.Sprintf("LEVEL %d COMPLETE", s.Level)
		detail = fmt.Sprintf("Score %d | Fuel %.0f", s.Score, s.Player.Fuel)
		buttons = []overlayButton{{"Next level", ActionAdvance}, {"Replay level", ActionRestart}}
	case game.StateGameOver:
		title = "GAME OVER"
		detail = fmt.Sprintf("Score %d | Level %d | %s", s.Score, s.Level, causeText(s.Cause))
		buttons = []overlayButton{{"Retry level", ActionRestart}}
	default:
		return ActionNone
	}

	r := o.renderer
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	w, h := int32(420), int32(110+44*len(buttons))
	x, y := (sw-w)/2, (sh-h)/2

	rl.DrawRectangle(0, 0, sw, sh, rl.Color{R: 0, G: 0, B: 0, A: 120})
	r.DrawPanel(x, y, w, h)
	r.DrawCentered(title, sw/2, y+20, 28, rl.RayWhite)
	if detail != "" {
		r.DrawCentered(detail, sw/2, y+58, r.Theme.FontSize, r.Theme.LabelColor)
	}

	chosen := ActionNone
	by := float32(y + 90)
	for _, b := range buttons {
		bounds := rl.Rectangle{X: float32(x + 80), Y: by, Width: float32(w - 160), Height: 34}
		if gui.Button(bounds, b.label) {
			chosen = b.action
		}
		by += 44
	}
	return chosen
}

func causeText(cause string) string {
	switch cause {
	case game.CauseCollision:
		return "destroyed by a hazard"
	case game.CauseFuelExhausted:
		return "out of fuel"
	default:
		return cause
	}
}
