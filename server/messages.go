package server

import "github.com/pthm-cable/galaxy/protocol"

// Conn is the room's view of a connected client.
type Conn interface {
	SendText([]byte) error
	SendBinary([]byte) error
	Close() error
}

// Join is issued once after the client's hello is parsed.
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	ClientID string
	Pilot    bool
}

// Input carries the latest thrust intent of a client.
type Input struct {
	ClientID string
	Input    protocol.Input
}

// Command carries a discrete command from a client.
type Command struct {
	ClientID string
	Command  protocol.Command
}

// Leave is issued on disconnect.
type Leave struct {
	ClientID string
}

// advanceLevel is posted by the level advance timer. Stale generations are
// ignored.
type advanceLevel struct {
	gen uint64
}
