package game

import (
	"fmt"

	"github.com/pthm-cable/galaxy/config"
)

// State is the top-level game state.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateLevelComplete
	StateGameOver
)

var stateNames = [...]string{
	StateIdle:          "idle",
	StateRunning:       "running",
	StatePaused:        "paused",
	StateLevelComplete: "level_complete",
	StateGameOver:      "game_over",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if int(s) >= len(stateNames) {
		return nil, fmt.Errorf("unknown state %d", uint8(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	StateIdle:          {StateRunning},
	StateRunning:       {StatePaused, StateLevelComplete, StateGameOver, StateRunning},
	StatePaused:        {StateRunning},
	StateLevelComplete: {StateRunning},
	StateGameOver:      {StateRunning},
}

// CanTransition reports whether from → to is a legal edge.
// Running → Running is the restart edge.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Progression is the per-run bookkeeping the state machine drives.
type Progression struct {
	State           State  `json:"state"`
	Level           int    `json:"level"`
	Score           int    `json:"score"`
	LevelStartScore int    `json:"level_start_score"`
	Coins           int    `json:"coins"`
	LevelStartCoins int    `json:"level_start_coins"`
	Collected       int    `json:"collected"`
	Required        int    `json:"required"`
	BombCooldown    int    `json:"bomb_cooldown"`
	SafeTime        int    `json:"safe_time"`
	Cause           string `json:"cause,omitempty"`
}

// RequiredFor returns the number of collections needed to finish level.
func RequiredFor(pc config.ProgressionConfig, level int) int {
	if level < 1 {
		level = 1
	}
	return pc.BaseRequired + pc.RequiredPerLevel*(level-1)
}

// newProgression returns the Idle state at level 1.
func newProgression(pc config.ProgressionConfig) Progression {
	return Progression{
		State:    StateIdle,
		Level:    1,
		Required: RequiredFor(pc, 1),
	}
}

// tickCountdowns decrements the bomb cooldown and safe time, floored at zero.
func (p *Progression) tickCountdowns() {
	if p.BombCooldown > 0 {
		p.BombCooldown--
	}
	if p.SafeTime > 0 {
		p.SafeTime--
	}
}

// beginLevel resets the per-level counters for level.
func (p *Progression) beginLevel(pc config.ProgressionConfig, level int) {
	p.Level = level
	p.Collected = 0
	p.Required = RequiredFor(pc, level)
	p.BombCooldown = 0
	p.SafeTime = 0
	p.Cause = ""
}

// LevelDone reports whether enough bodies have been collected.
func (p *Progression) LevelDone() bool {
	return p.Collected >= p.Required
}

// Safe reports whether hazard contact is currently harmless.
func (p *Progression) Safe() bool {
	return p.SafeTime > 0
}
