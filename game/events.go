package game

import (
	"github.com/pthm-cable/galaxy/components"
)

// EventType identifies what an Event reports.
type EventType uint8

const (
	EventEntityCreated EventType = iota
	EventEntityDestroyed
	EventScoreChanged
	EventStatsChanged
	EventStateChanged
	EventSound
	EventRunResult
)

var eventNames = [...]string{
	EventEntityCreated:   "entity_created",
	EventEntityDestroyed: "entity_destroyed",
	EventScoreChanged:    "score_changed",
	EventStatsChanged:    "stats_changed",
	EventStateChanged:    "state_changed",
	EventSound:           "sound",
	EventRunResult:       "run_result",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Run outcomes carried by RunResult.Cause.
const (
	CauseLevelComplete = "level_complete"
	CauseCollision     = "collision"
	CauseFuelExhausted = "fuel_exhausted"
)

// RunResult is published when a level completes or the run ends.
type RunResult struct {
	Score int
	Level int
	Fuel  float64
	Coins int
	Cause string
	Tick  int64
}

// Event is a notification published on the Bus. Only the fields relevant to
// Type are set.
type Event struct {
	Type EventType
	Tick int64

	// Entity events
	Kind   components.Kind
	ID     uint32
	Reason string

	// ScoreChanged
	Delta int
	Score int

	// StatsChanged
	Fuel         float64
	BombCooldown int
	SafeTime     int

	// StateChanged
	From, To State

	// Sound
	Cue string

	// RunResult
	Result *RunResult
}

// Bus fans events out to subscribers synchronously, in subscription order.
type Bus struct {
	handlers []func(Event)
	queue    []Event
}

// Subscribe registers fn to receive every published event.
func (b *Bus) Subscribe(fn func(Event)) {
	b.handlers = append(b.handlers, fn)
}

func (b *Bus) publish(e Event) {
	b.queue = append(b.queue, e)
}

// flush delivers queued events. Handlers may publish further events;
// those are delivered in the same flush.
func (b *Bus) flush() {
	for i := 0; i < len(b.queue); i++ {
		e := b.queue[i]
		for _, h := range b.handlers {
			h(e)
		}
	}
	b.queue = b.queue[:0]
}
