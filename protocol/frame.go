package protocol

import (
	"math"

	"github.com/pthm-cable/galaxy/game"
)

// StateFrame is the per-broadcast view of a room. Positions are rounded to
// one decimal to keep frames small.
type StateFrame struct {
	Tick      int64   `msgpack:"t"`
	State     string  `msgpack:"st"`
	Level     int     `msgpack:"lv"`
	Score     int     `msgpack:"sc"`
	Coins     int     `msgpack:"co"`
	Collected int     `msgpack:"cd"`
	Required  int     `msgpack:"rq"`
	Bomb      int     `msgpack:"bc"`
	Safe      int     `msgpack:"sf"`
	Cause     string  `msgpack:"ca,omitempty"`
	Cinematic bool    `msgpack:"cin,omitempty"`
	Player    Ship    `msgpack:"p"`
	Camera    CamView `msgpack:"cam"`

	Bodies    []Body   `msgpack:"b"`
	Hazards   []Hazard `msgpack:"h"`
	Effects   []Effect `msgpack:"e"`
	Particles []Point  `msgpack:"pt,omitempty"`
}

type Ship struct {
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Z       float64 `msgpack:"z"`
	Heading float64 `msgpack:"a"`
	Size    float64 `msgpack:"s"`
	Fuel    float64 `msgpack:"f"`
	Trail   []Point `msgpack:"tr,omitempty"`
	Orn     int     `msgpack:"o"`
}

type Body struct {
	ID   uint32  `msgpack:"id"`
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
	Z    float64 `msgpack:"z"`
	Size float64 `msgpack:"s"`
	Hits int     `msgpack:"hi"`
	Req  int     `msgpack:"rq"`
}

type Hazard struct {
	ID   uint32  `msgpack:"id"`
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
	Z    float64 `msgpack:"z"`
	Size float64 `msgpack:"s"`
}

type Effect struct {
	ID    uint32  `msgpack:"id"`
	Kind  uint8   `msgpack:"k"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	Z     float64 `msgpack:"z"`
	Scale float64 `msgpack:"sc"`
	Life  float64 `msgpack:"l"`
}

type Point struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	Z float64 `msgpack:"z"`
}

type CamView struct {
	Eye    Point   `msgpack:"eye"`
	Target Point   `msgpack:"tg"`
	Zoom   float64 `msgpack:"zm"`
	Rot    float64 `msgpack:"rot"`
	Shot   string  `msgpack:"shot"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FrameFromSnapshot converts an engine snapshot into a state frame.
func FrameFromSnapshot(s *game.Snapshot) *StateFrame {
	f := &StateFrame{
		Tick:      s.Tick,
		State:     s.State.String(),
		Level:     s.Level,
		Score:     s.Score,
		Coins:     s.Coins,
		Collected: s.Collected,
		Required:  s.Required,
		Bomb:      s.BombCooldown,
		Safe:      s.SafeTime,
		Cause:     s.Cause,
		Cinematic: s.Cinematic,
		Player: Ship{
			X:       round1(s.Player.Pos.X),
			Y:       round1(s.Player.Pos.Y),
			Z:       round1(s.Player.Pos.Z),
			Heading: math.Round(s.Player.Heading*1000) / 1000,
			Size:    round1(s.Player.Size),
			Fuel:    round1(s.Player.Fuel),
			Orn:     len(s.Player.Ornaments),
		},
		Camera: CamView{
			Eye:    Point{X: round1(s.Camera.Position.X), Y: round1(s.Camera.Position.Y), Z: round1(s.Camera.Position.Z)},
			Target: Point{X: round1(s.Camera.Target.X), Y: round1(s.Camera.Target.Y), Z: round1(s.Camera.Target.Z)},
			Zoom:   s.Camera.Zoom,
			Rot:    s.Camera.Rotation,
			Shot:   s.Camera.Shot.String(),
		},
		Bodies:  make([]Body, 0, len(s.Collectibles)),
		Hazards: make([]Hazard, 0, len(s.Hazards)),
		Effects: make([]Effect, 0, len(s.Effects)),
	}
	for _, p := range s.Player.Trail {
		f.Player.Trail = append(f.Player.Trail, Point{X: round1(p.X), Y: round1(p.Y), Z: round1(p.Z)})
	}
	for _, c := range s.Collectibles {
		f.Bodies = append(f.Bodies, Body{
			ID: c.ID, X: round1(c.Pos.X), Y: round1(c.Pos.Y), Z: round1(c.Pos.Z),
			Size: round1(c.Size), Hits: c.Hits, Req: c.RequiredHits,
		})
	}
	for _, h := range s.Hazards {
		f.Hazards = append(f.Hazards, Hazard{
			ID: h.ID, X: round1(h.Pos.X), Y: round1(h.Pos.Y), Z: round1(h.Pos.Z), Size: round1(h.Size),
		})
	}
	for _, e := range s.Effects {
		f.Effects = append(f.Effects, Effect{
			ID: e.ID, Kind: uint8(e.Kind), X: round1(e.Pos.X), Y: round1(e.Pos.Y), Z: round1(e.Pos.Z),
			Scale: round1(e.Scale), Life: math.Round(e.Life*100) / 100,
		})
	}
	for _, p := range s.Particles {
		f.Particles = append(f.Particles, Point{X: round1(p.Pos.X), Y: round1(p.Pos.Y), Z: round1(p.Pos.Z)})
	}
	return f
}

// EventFromGame converts an engine event for the wire.
func EventFromGame(e game.Event) Event {
	out := Event{Type: e.Type.String(), Tick: e.Tick}
	switch e.Type {
	case game.EventEntityCreated, game.EventEntityDestroyed:
		out.Kind = e.Kind.String()
		out.ID = e.ID
		out.Reason = e.Reason
	case game.EventScoreChanged:
		out.Delta = e.Delta
		out.Score = e.Score
	case game.EventStatsChanged:
		out.Fuel = round1(e.Fuel)
		out.Bomb = e.BombCooldown
		out.Safe = e.SafeTime
	case game.EventStateChanged:
		out.From = e.From.String()
		out.To = e.To.String()
	case game.EventSound:
		out.Cue = e.Cue
	case game.EventRunResult:
		if e.Result != nil {
			out.Result = &Result{
				Score: e.Result.Score,
				Level: e.Result.Level,
				Fuel:  e.Result.Fuel,
				Coins: e.Result.Coins,
				Cause: e.Result.Cause,
			}
		}
	}
	return out
}
