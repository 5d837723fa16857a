package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ReadInput polls the keyboard for this frame.
func ReadInput() Input {
	in := Input{
		Thrust: ThrustFromKeys(
			rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
			rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
			rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
			rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
		),
	}

	keys := []struct {
		key    int32
		action Action
	}{
		{rl.KeySpace, ActionBomb},
		{rl.KeyP, ActionTogglePause},
		{rl.KeyC, ActionToggleCinematic},
		{rl.KeyEnter, ActionConfirm},
		{rl.KeyR, ActionRestart},
	}
	for _, k := range keys {
		if rl.IsKeyPressed(k.key) {
			in.Actions = append(in.Actions, k.action)
		}
	}
	return in
}
