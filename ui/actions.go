package ui

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/game"
)

// Action is a discrete user intent from a key press or button.
type Action uint8

const (
	ActionNone Action = iota
	ActionStart
	ActionBomb
	ActionPause
	ActionResume
	ActionTogglePause
	ActionToggleCinematic
	ActionRestart
	ActionAdvance
	ActionConfirm // Enter: start, resume or advance, whichever applies
)

// Input is one frame of user input.
type Input struct {
	Thrust  r3.Vec
	Actions []Action
}

// Commander is the command surface of the engine.
type Commander interface {
	SetThrust(v r3.Vec) bool
	Start() bool
	ActivateBomb() bool
	Pause() bool
	Resume() bool
	RestartLevel() bool
	AdvanceLevel() bool
	SetCinematic(on bool) bool
	Cinematic() bool
	State() game.State
}

// ThrustFromKeys converts directional keys to a thrust intent of length at
// most 1. World Y points up.
func ThrustFromKeys(up, down, left, right bool) r3.Vec {
	var v r3.Vec
	if up {
		v.Y++
	}
	if down {
		v.Y--
	}
	if left {
		v.X--
	}
	if right {
		v.X++
	}
	if n := r3.Norm(v); n > 0 {
		v = r3.Scale(1/n, v)
	}
	return v
}

// Apply forwards in to c. Returns the number of accepted actions.
func Apply(c Commander, in Input) int {
	c.SetThrust(in.Thrust)
	n := 0
	for _, a := range in.Actions {
		if Dispatch(c, a) {
			n++
		}
	}
	return n
}

// Dispatch performs a single action. Returns whether the engine accepted it.
func Dispatch(c Commander, a Action) bool {
	switch a {
	case ActionStart:
		return c.Start()
	case ActionBomb:
		return c.ActivateBomb()
	case ActionPause:
		return c.Pause()
	case ActionResume:
		return c.Resume()
	case ActionTogglePause:
		if c.State() == game.StatePaused {
			return c.Resume()
		}
		return c.Pause()
	case ActionToggleCinematic:
		return c.SetCinematic(!c.Cinematic())
	case ActionRestart:
		return c.RestartLevel()
	case ActionAdvance:
		return c.AdvanceLevel()
	case ActionConfirm:
		switch c.State() {
		case game.StateIdle:
			return c.Start()
		case game.StatePaused:
			return c.Resume()
		case game.StateLevelComplete:
			return c.AdvanceLevel()
		}
	}
	return false
}

