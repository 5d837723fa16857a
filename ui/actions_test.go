package ui

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/game"
)

type fakeCommander struct {
	state     game.State
	cinematic bool
	thrust    r3.Vec
	calls     []string
}

func (f *fakeCommander) SetThrust(v r3.Vec) bool { f.thrust = v; return true }
func (f *fakeCommander) Start() bool             { return f.move("start", game.StateIdle, game.StateRunning) }
func (f *fakeCommander) ActivateBomb() bool {
	f.calls = append(f.calls, "bomb")
	return f.state == game.StateRunning
}
func (f *fakeCommander) Pause() bool  { return f.move("pause", game.StateRunning, game.StatePaused) }
func (f *fakeCommander) Resume() bool { return f.move("resume", game.StatePaused, game.StateRunning) }
func (f *fakeCommander) RestartLevel() bool {
	f.calls = append(f.calls, "restart")
	f.state = game.StateRunning
	return true
}
func (f *fakeCommander) AdvanceLevel() bool {
	return f.move("advance", game.StateLevelComplete, game.StateRunning)
}
func (f *fakeCommander) SetCinematic(on bool) bool { f.cinematic = on; return true }
func (f *fakeCommander) Cinematic() bool           { return f.cinematic }
func (f *fakeCommander) State() game.State         { return f.state }

func (f *fakeCommander) move(name string, from, to game.State) bool {
	f.calls = append(f.calls, name)
	if f.state != from {
		return false
	}
	f.state = to
	return true
}

func TestThrustFromKeys(t *testing.T) {
	tests := []struct {
		name                  string
		up, down, left, right bool
		want                  r3.Vec
	}{
		{"none", false, false, false, false, r3.Vec{}},
		{"up", true, false, false, false, r3.Vec{Y: 1}},
		{"left", false, false, true, false, r3.Vec{X: -1}},
		{"opposed", true, true, false, false, r3.Vec{}},
		{"diagonal", true, false, false, true, r3.Vec{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ThrustFromKeys(tt.up, tt.down, tt.left, tt.right)
			if r3.Norm(r3.Sub(got, tt.want)) > 1e-12 {
				t.Errorf("ThrustFromKeys = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDispatchTogglePause(t *testing.T) {
	f := &fakeCommander{state: game.StateRunning}
	if !Dispatch(f, ActionTogglePause) || f.state != game.StatePaused {
		t.Fatalf("toggle from running: state = %v", f.state)
	}
	if !Dispatch(f, ActionTogglePause) || f.state != game.StateRunning {
		t.Fatalf("toggle from paused: state = %v", f.state)
	}
}

func TestDispatchConfirm(t *testing.T) {
	tests := []struct {
		from game.State
		want string
		ok   bool
	}{
		{game.StateIdle, "start", true},
		{game.StatePaused, "resume", true},
		{game.StateLevelComplete, "advance", true},
		{game.StateRunning, "", false},
		{game.StateGameOver, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			f := &fakeCommander{state: tt.from}
			if got := Dispatch(f, ActionConfirm); got != tt.ok {
				t.Fatalf("Dispatch(confirm) = %v, want %v", got, tt.ok)
			}
			if tt.want == "" {
				if len(f.calls) != 0 {
					t.Errorf("unexpected calls %v", f.calls)
				}
				return
			}
			if len(f.calls) != 1 || f.calls[0] != tt.want {
				t.Errorf("calls = %v, want [%s]", f.calls, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	f := &fakeCommander{state: game.StatePaused}
	in := Input{
		Thrust:  r3.Vec{X: 1},
		Actions: []Action{ActionBomb, ActionToggleCinematic, ActionResume},
	}
	if n := Apply(f, in); n != 2 {
		t.Errorf("accepted = %d, want 2", n)
	}
	if f.thrust != (r3.Vec{X: 1}) {
		t.Errorf("thrust = %v", f.thrust)
	}
	if !f.cinematic {
		t.Error("cinematic not toggled")
	}
	if f.state != game.StateRunning {
		t.Errorf("state = %v, want running", f.state)
	}
}

func TestCauseText(t *testing.T) {
	if got := causeText(game.CauseFuelExhausted); got != "out of fuel" {
		t.Errorf("causeText = %q", got)
	}
	if got := causeText("other"); got != "other" {
		t.Errorf("causeText passthrough = %q", got)
	}
}
