// Package server hosts a galaxy game over websockets. A Room owns one Game
// and runs it on its own goroutine; all access goes through the room's inbox.
package server

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/game"
	"github.com/pthm-cable/galaxy/protocol"
)

// Room runs a single shared game. The earliest connected client pilots the
// ship; everyone else spectates.
type Room struct {
	Inbox chan any

	cfg            config.ServerConfig
	game           *game.Game
	tickHz         int
	broadcastEvery int

	clients map[string]Conn
	order   []string // Join order; order[0] is the pilot
	nextID  int
	frames  int64
	pending []game.Event

	advanceTimer *time.Timer
	advanceGen   uint64

	quit     chan struct{}
	stopOnce sync.Once
}

// NewRoom builds a room around a new game.
func NewRoom(opts game.Options) *Room {
	sc := opts.Config.Server
	tickHz := sc.TickHz
	if tickHz <= 0 {
		tickHz = opts.Config.Screen.TargetFPS
	}
	broadcastEvery := sc.BroadcastEvery
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}

	r := &Room{
		Inbox:          make(chan any, 256),
		cfg:            sc,
		game:           game.New(opts),
		tickHz:         tickHz,
		broadcastEvery: broadcastEvery,
		clients:        make(map[string]Conn),
		nextID:         1,
		quit:           make(chan struct{}),
	}
	r.game.Subscribe(r.onEvent)
	return r
}

// Post delivers msg to the room. Returns false once the room has stopped.
func (r *Room) Post(msg any) bool {
	select {
	case r.Inbox <- msg:
		return true
	case <-r.quit:
		return false
	}
}

// Stop ends Run. Safe to call more than once.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Run processes the inbox and steps the game until Stop is called.
func (r *Room) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickHz))
	defer ticker.Stop()
	defer r.shutdown()

	slog.Info("room started", "tick_hz", r.tickHz, "seed", r.game.Seed())

	for {
		select {
		case <-r.quit:
			return
		case msg := <-r.Inbox:
			r.handle(msg)
			r.flushEvents()
		case <-ticker.C:
			r.game.Step()
			r.flushEvents()
			r.frames++
			if r.frames%int64(r.broadcastEvery) == 0 {
				r.broadcastFrame()
			}
		}
	}
}

func (r *Room) shutdown() {
	r.cancelAdvance()
	for _, id := range r.order {
		_ = r.clients[id].Close()
	}
	r.clients = map[string]Conn{}
	r.order = nil
	r.game.Unload()
	slog.Info("room stopped")
}

func (r *Room) handle(msg any) {
	switch m := msg.(type) {
	case Join:
		r.handleJoin(m)
	case Input:
		if !r.isPilot(m.ClientID) {
			return
		}
		r.game.SetThrust(thrustFromInput(m.Input))
	case Command:
		r.handleCommand(m)
	case Leave:
		r.removeClient(m.ClientID)
	case advanceLevel:
		if m.gen != r.advanceGen {
			return
		}
		r.advanceTimer = nil
		r.game.AdvanceLevel()
	}
}

func (r *Room) handleJoin(j Join) {
	id := fmt.Sprintf("c%d", r.nextID)
	r.nextID++
	r.clients[id] = j.Conn
	r.order = append(r.order, id)
	pilot := r.isPilot(id)

	slog.Info("client joined", "id", id, "name", j.Name, "pilot", pilot, "clients", len(r.order))

	if j.Reply != nil {
		j.Reply <- JoinResult{ClientID: id, Pilot: pilot}
	}
	welcome, err := protocol.Encode(protocol.MsgWelcome, protocol.Welcome{
		ClientID: id,
		TickHz:   r.tickHz,
		Seed:     r.game.Seed(),
		Is3D:     r.game.Config().Derived.Is3D,
	})
	if err == nil {
		_ = j.Conn.SendText(welcome)
	}
	if b, err := protocol.EncodeFrame(protocol.FrameFromSnapshot(r.game.Snapshot())); err == nil {
		_ = j.Conn.SendBinary(b)
	}
}

func (r *Room) handleCommand(c Command) {
	conn, ok := r.clients[c.ClientID]
	if !ok {
		return
	}
	if !r.isPilot(c.ClientID) {
		r.sendError(conn, "only the pilot may issue commands")
		return
	}

	var accepted bool
	switch c.Command.Name {
	case protocol.CmdStart:
		accepted = r.game.Start()
	case protocol.CmdPause:
		accepted = r.game.Pause()
	case protocol.CmdResume:
		accepted = r.game.Resume()
	case protocol.CmdBomb:
		accepted = r.game.ActivateBomb()
	case protocol.CmdRestart:
		accepted = r.game.RestartLevel()
	case protocol.CmdAdvance:
		accepted = r.game.AdvanceLevel()
	case protocol.CmdCinematic:
		accepted = r.game.SetCinematic(c.Command.On)
	default:
		r.sendError(conn, fmt.Sprintf("unknown command %q", c.Command.Name))
		return
	}
	if !accepted {
		r.sendError(conn, fmt.Sprintf("command %q rejected in state %s", c.Command.Name, r.game.State()))
	}
}

func (r *Room) isPilot(id string) bool {
	return len(r.order) > 0 && r.order[0] == id
}

func (r *Room) removeClient(id string) {
	c, ok := r.clients[id]
	if !ok {
		return
	}
	wasPilot := r.isPilot(id)
	_ = c.Close()
	delete(r.clients, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if wasPilot {
		// The ship drifts rather than keep the old pilot's thrust.
		r.game.SetThrust(r3.Vec{})
	}
	slog.Info("client left", "id", id, "clients", len(r.order))
}

// onEvent runs synchronously inside game commands and steps, which only
// happen on the room goroutine.
func (r *Room) onEvent(e game.Event) {
	if e.Type == game.EventStateChanged {
		if e.To == game.StateLevelComplete {
			r.scheduleAdvance()
		} else {
			r.cancelAdvance()
		}
	}
	if e.Type == game.EventStatsChanged {
		return
	}
	r.pending = append(r.pending, e)
}

func (r *Room) scheduleAdvance() {
	r.cancelAdvance()
	if r.cfg.LevelAdvanceDelay <= 0 {
		return
	}
	r.advanceGen++
	gen := r.advanceGen
	delay := time.Duration(r.cfg.LevelAdvanceDelay * float64(time.Second))
	r.advanceTimer = time.AfterFunc(delay, func() {
		r.Post(advanceLevel{gen: gen})
	})
}

func (r *Room) cancelAdvance() {
	if r.advanceTimer == nil {
		return
	}
	r.advanceTimer.Stop()
	r.advanceTimer = nil
	r.advanceGen++
}

func (r *Room) flushEvents() {
	if len(r.pending) == 0 {
		return
	}
	for _, e := range r.pending {
		b, err := protocol.Encode(protocol.MsgEvent, protocol.EventFromGame(e))
		if err != nil {
			slog.Warn("failed to encode event", "type", e.Type.String(), "error", err)
			continue
		}
		r.broadcast(b, false)
	}
	r.pending = r.pending[:0]
}

func (r *Room) broadcastFrame() {
	if len(r.clients) == 0 {
		return
	}
	b, err := protocol.EncodeFrame(protocol.FrameFromSnapshot(r.game.Snapshot()))
	if err != nil {
		slog.Error("failed to encode frame", "error", err)
		return
	}
	r.broadcast(b, true)
}

func (r *Room) broadcast(b []byte, binary bool) {
	var failed []string
	for _, id := range r.order {
		c := r.clients[id]
		var err error
		if binary {
			err = c.SendBinary(b)
		} else {
			err = c.SendText(b)
		}
		if err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		slog.Warn("dropping client", "id", id)
		r.removeClient(id)
	}
}

func (r *Room) sendError(c Conn, msg string) {
	if b, err := protocol.Encode(protocol.MsgError, protocol.Error{Msg: msg}); err == nil {
		_ = c.SendText(b)
	}
}

func clamp1(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

func thrustFromInput(in protocol.Input) r3.Vec {
	return r3.Vec{X: clamp1(in.Ax), Y: clamp1(in.Ay), Z: clamp1(in.Az)}
}
