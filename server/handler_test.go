package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/galaxy/protocol"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHandlerHelloWelcomeFrame(t *testing.T) {
	cfg := testConfig(t)
	r := startRoom(t, cfg)
	srv := httptest.NewServer(NewHandler(r, cfg.Server))
	t.Cleanup(srv.Close)

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http"))
	hello, err := protocol.Encode(protocol.MsgHello, protocol.Hello{V: protocol.Version, Name: "ada"})
	if err != nil {
		t.Fatalf("encode hello: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	typ, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if typ != websocket.TextMessage {
		t.Fatalf("first message type = %d, want text", typ)
	}
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil || env.T != protocol.MsgWelcome {
		t.Fatalf("first message = %s (%v)", msg, err)
	}

	typ, msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if typ != websocket.BinaryMessage {
		t.Fatalf("second message type = %d, want binary", typ)
	}
	if _, err := protocol.DecodeFrame(msg); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
}

func TestHandlerRejectsBadHello(t *testing.T) {
	cfg := testConfig(t)
	r := startRoom(t, cfg)
	srv := httptest.NewServer(NewHandler(r, cfg.Server))
	t.Cleanup(srv.Close)

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http"))
	bad, _ := protocol.Encode(protocol.MsgHello, protocol.Hello{V: protocol.Version + 1})
	if err := conn.WriteMessage(websocket.TextMessage, bad); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to be closed after bad hello")
	}
}
