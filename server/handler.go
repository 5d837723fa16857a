package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/protocol"
)

const (
	writeWait = 10 * time.Second
	helloWait = 10 * time.Second
)

var (
	errClientClosed = errors.New("client closed")
	errSlowClient   = errors.New("client send buffer full")
)

// Handler upgrades HTTP requests to websockets and attaches them to a room.
type Handler struct {
	room     *Room
	cfg      config.ServerConfig
	upgrader websocket.Upgrader
}

// NewHandler returns a handler serving room.
func NewHandler(room *Room, cfg config.ServerConfig) *Handler {
	return &Handler{
		room: room,
		cfg:  cfg,
		upgrader: websocket.Upgrader{
			// Browser clients are served from other origins during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", req.RemoteAddr, "error", err)
		return
	}

	pongWait := time.Duration(h.cfg.PongWait * float64(time.Second))
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	if h.cfg.ReadLimit > 0 {
		conn.SetReadLimit(h.cfg.ReadLimit)
	}

	hello, err := readHello(conn)
	if err != nil {
		slog.Warn("bad hello", "remote", req.RemoteAddr, "error", err)
		_ = conn.Close()
		return
	}

	c := newClient(conn, h.cfg.SendBuffer)
	go c.writePump(pongWait * 9 / 10)

	reply := make(chan JoinResult, 1)
	if !h.room.Post(Join{Conn: c, Name: hello.Name, Reply: reply}) {
		_ = c.Close()
		return
	}
	var id string
	select {
	case res := <-reply:
		id = res.ClientID
	case <-h.room.quit:
		_ = c.Close()
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.readLoop(conn, id)
	h.room.Post(Leave{ClientID: id})
}

func readHello(conn *websocket.Conn) (protocol.Hello, error) {
	_ = conn.SetReadDeadline(time.Now().Add(helloWait))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return protocol.Hello{}, err
	}
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		return protocol.Hello{}, err
	}
	if env.T != protocol.MsgHello {
		return protocol.Hello{}, errors.New("first message must be hello")
	}
	hello, err := protocol.DecodePayload[protocol.Hello](env)
	if err != nil {
		return protocol.Hello{}, err
	}
	if hello.V != protocol.Version {
		return protocol.Hello{}, errors.New("unsupported protocol version")
	}
	return hello, nil
}

func (h *Handler) readLoop(conn *websocket.Conn, id string) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("read failed", "id", id, "error", err)
			}
			return
		}
		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			slog.Debug("dropping malformed message", "id", id, "error", err)
			continue
		}

		var post any
		switch env.T {
		case protocol.MsgInput:
			in, err := protocol.DecodePayload[protocol.Input](env)
			if err != nil {
				continue
			}
			post = Input{ClientID: id, Input: in}
		case protocol.MsgCommand:
			cmd, err := protocol.DecodePayload[protocol.Command](env)
			if err != nil {
				continue
			}
			post = Command{ClientID: id, Command: cmd}
		default:
			continue
		}
		if !h.room.Post(post) {
			return
		}
	}
}

type outbound struct {
	binary bool
	data   []byte
}

// client is a websocket connection with a buffered writer goroutine.
type client struct {
	conn      *websocket.Conn
	send      chan outbound
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, buffer int) *client {
	if buffer <= 0 {
		buffer = 64
	}
	return &client{
		conn: conn,
		send: make(chan outbound, buffer),
		done: make(chan struct{}),
	}
}

func (c *client) SendText(b []byte) error   { return c.enqueue(outbound{data: b}) }
func (c *client) SendBinary(b []byte) error { return c.enqueue(outbound{binary: true, data: b}) }

func (c *client) enqueue(m outbound) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}
	select {
	case c.send <- m:
		return nil
	default:
		return errSlowClient
	}
}

func (c *client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *client) writePump(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case m := <-c.send:
			typ := websocket.TextMessage
			if m.binary {
				typ = websocket.BinaryMessage
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(typ, m.data); err != nil {
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		}
	}
}
