package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Autopilot is a simple scripted pilot used for headless runs and tuning.
// It steers toward the nearest collectible, away from close hazards, and
// bombs when too many hazards crowd the ship.
type Autopilot struct {
	AvoidRadius float64 // Hazards inside this distance push the ship away
	AvoidWeight float64
	BombCrowd   int // Hazards inside AvoidRadius that trigger a bomb
}

// NewAutopilot returns a pilot tuned for the default config.
func NewAutopilot() *Autopilot {
	return &Autopilot{
		AvoidRadius: 160,
		AvoidWeight: 2.5,
		BombCrowd:   3,
	}
}

// Decide returns the thrust intent and whether to bomb for snapshot s.
func (a *Autopilot) Decide(s *Snapshot) (thrust r3.Vec, bomb bool) {
	if s == nil || s.State != StateRunning {
		return r3.Vec{}, false
	}
	pos := s.Player.Pos

	// Seek the nearest collectible.
	best := math.Inf(1)
	var seek r3.Vec
	for _, c := range s.Collectibles {
		d := r3.Sub(c.Pos, pos)
		if n := r3.Norm2(d); n < best {
			best = n
			seek = d
		}
	}
	if best < math.Inf(1) && r3.Norm(seek) > 0 {
		thrust = r3.Unit(seek)
	}

	// Flee hazards, weighted by proximity.
	crowd := 0
	for _, h := range s.Hazards {
		away := r3.Sub(pos, h.Pos)
		d := r3.Norm(away)
		if d >= a.AvoidRadius || d == 0 {
			continue
		}
		crowd++
		w := a.AvoidWeight * (1 - d/a.AvoidRadius)
		thrust = r3.Add(thrust, r3.Scale(w/d, away))
	}

	if n := r3.Norm(thrust); n > 1 {
		thrust = r3.Scale(1/n, thrust)
	}
	bomb = crowd >= a.BombCrowd && s.BombCooldown == 0
	return thrust, bomb
}

// HeadlessResult summarises an autopilot run.
type HeadlessResult struct {
	Ticks           int64
	GameOvers       int
	LevelsCompleted int
	BestScore       int
	MaxLevel        int
	MeanSurvival    float64 // Mean Running ticks per life
}

// RunHeadless drives g with pilot for maxTicks Running ticks. Finished levels
// advance and finished runs restart, so the game never stalls.
func RunHeadless(g *Game, pilot *Autopilot, maxTicks int64) HeadlessResult {
	var res HeadlessResult
	var lifeStart int64
	var lives []int64

	g.Subscribe(func(e Event) {
		if e.Type != EventRunResult {
			return
		}
		if e.Result.Score > res.BestScore {
			res.BestScore = e.Result.Score
		}
		if e.Result.Level > res.MaxLevel {
			res.MaxLevel = e.Result.Level
		}
		switch e.Result.Cause {
		case CauseLevelComplete:
			res.LevelsCompleted++
		default:
			res.GameOvers++
			lives = append(lives, e.Tick-lifeStart)
		}
	})

	for g.Tick() < maxTicks {
		switch g.State() {
		case StateIdle:
			g.Start()
		case StatePaused:
			g.Resume()
		case StateLevelComplete:
			g.AdvanceLevel()
		case StateGameOver:
			lifeStart = g.Tick()
			g.RestartLevel()
		}

		thrust, bomb := pilot.Decide(g.Snapshot())
		g.SetThrust(thrust)
		if bomb {
			g.ActivateBomb()
		}
		g.Step()
	}

	res.Ticks = g.Tick()
	if len(lives) == 0 {
		lives = append(lives, g.Tick()-lifeStart)
	}
	var sum int64
	for _, l := range lives {
		sum += l
	}
	res.MeanSurvival = float64(sum) / float64(len(lives))
	if res.MaxLevel < g.Progression().Level {
		res.MaxLevel = g.Progression().Level
	}
	return res
}
