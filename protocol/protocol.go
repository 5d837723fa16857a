// Package protocol defines the websocket messages exchanged between a
// galaxy room and its clients. Control messages are JSON envelopes; state
// frames are msgpack-encoded binary messages.
package protocol

import (
	"encoding/json"
)

// Envelope types.
const (
	MsgHello   = "hello"
	MsgWelcome = "welcome"
	MsgInput   = "input"
	MsgCommand = "command"
	MsgEvent   = "event"
	MsgError   = "error"
)

// Command names carried by Command.Name.
const (
	CmdStart     = "start"
	CmdPause     = "pause"
	CmdResume    = "resume"
	CmdBomb      = "bomb"
	CmdRestart   = "restart"
	CmdAdvance   = "advance"
	CmdCinematic = "cinematic"
)

// Version is the protocol version a client must announce in Hello.
const Version = 1

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// Hello is the first message a client sends.
type Hello struct {
	V    int    `json:"v"`
	Name string `json:"name,omitempty"`
}

// Welcome answers Hello.
type Welcome struct {
	ClientID string `json:"clientId"`
	TickHz   int    `json:"tickHz"`
	Seed     uint64 `json:"seed"`
	Is3D     bool   `json:"is3d"`
}

// Input is the latest thrust intent. Components are clamped to -1..1.
type Input struct {
	Ax float64 `json:"ax"`
	Ay float64 `json:"ay"`
	Az float64 `json:"az,omitempty"`
}

// Command requests a discrete engine command.
type Command struct {
	Name string `json:"name"`
	On   bool   `json:"on,omitempty"` // cinematic only
}

// Event mirrors an engine event for clients.
type Event struct {
	Type   string  `json:"type"`
	Tick   int64   `json:"tick"`
	Kind   string  `json:"kind,omitempty"`
	ID     uint32  `json:"id,omitempty"`
	Reason string  `json:"reason,omitempty"`
	Delta  int     `json:"delta,omitempty"`
	Score  int     `json:"score,omitempty"`
	Fuel   float64 `json:"fuel,omitempty"`
	Bomb   int     `json:"bomb,omitempty"`
	Safe   int     `json:"safe,omitempty"`
	From   string  `json:"from,omitempty"`
	To     string  `json:"to,omitempty"`
	Cue    string  `json:"cue,omitempty"`
	Result *Result `json:"result,omitempty"`
}

// Result is a finished level or run.
type Result struct {
	Score int     `json:"score"`
	Level int     `json:"level"`
	Fuel  float64 `json:"fuel"`
	Coins int     `json:"coins"`
	Cause string  `json:"cause"`
}

// Error reports a rejected message.
type Error struct {
	Msg string `json:"msg"`
}
