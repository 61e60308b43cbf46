package collab

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
	"github.com/dragdom/dragdom/internal/logging"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logging.Discard())
	go hub.Run(ctx)

	srv := httptest.NewServer(ServeWS(hub, nil))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, url string) *wsClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })

	c := &wsClient{t: t, conn: conn}
	if msg := c.read(); msg.Type != TypeWelcome {
		t.Fatalf("first message = %q, want welcome", msg.Type)
	}
	return c
}

func (c *wsClient) send(msgType, sessionID string, payload any) {
	c.t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		c.t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, c.conn, Message{Type: msgType, SessionID: sessionID, Payload: raw}); err != nil {
		c.t.Fatalf("write %s: %v", msgType, err)
	}
}

func (c *wsClient) read() Message {
	c.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var msg Message
	if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
		c.t.Fatalf("read: %v", err)
	}
	return msg
}

func (c *wsClient) expect(types ...string) []Message {
	c.t.Helper()
	msgs := make([]Message, len(types))
	for i, want := range types {
		msgs[i] = c.read()
		if msgs[i].Type != want {
			c.t.Fatalf("message %d = %q (%s), want %q", i, msgs[i].Type, msgs[i].Payload, want)
		}
	}
	return msgs
}

func boardFrame(translation geometry.Point) drag.Frame {
	board := engine.Shape{Center: geometry.Pt(100, 50), Width: 200, Height: 100}
	return drag.Frame{
		Element:     engine.Shape{Center: geometry.Pt(100, 50).Add(translation), Width: 50, Height: 50},
		Boundary:    &board,
		Translation: translation,
	}
}

func openSession(c *wsClient) string {
	c.t.Helper()
	c.send(TypeOpen, "", OpenPayload{
		ElementID: "card",
		Options:   &drag.Options{Enabled: true, ConstrainByBounds: true},
	})
	opened := c.expect(TypeOpened)[0]

	var p OpenedPayload
	if err := json.Unmarshal(opened.Payload, &p); err != nil {
		c.t.Fatal(err)
	}
	if !strings.HasPrefix(p.SessionID, "drag_") || p.SessionID != opened.SessionID {
		c.t.Fatalf("session id = %q", p.SessionID)
	}
	if p.ElementID != "card" || !p.Options.ConstrainByBounds {
		c.t.Fatalf("opened = %+v", p)
	}
	return p.SessionID
}

func TestHubDragRoundTrip(t *testing.T) {
	hub, url := startHub(t)
	owner := dial(t, url)
	id := openSession(owner)

	owner.send(TypePickUp, id, InputPayload{
		Frame:   boardFrame(geometry.Point{}),
		Pointer: drag.Pointer{Position: geometry.Pt(110, 60), Target: "card"},
	})
	msgs := owner.expect(TypeEffect, TypeStarted)

	var effect drag.Effect
	if err := json.Unmarshal(msgs[0].Payload, &effect); err != nil {
		t.Fatal(err)
	}
	if effect.Kind != drag.EffectElevate || effect.ZIndex != drag.MaxZIndex {
		t.Errorf("pickup effect = %+v", effect)
	}

	owner.send(TypeMove, id, InputPayload{
		Frame:   boardFrame(geometry.Point{}),
		Pointer: drag.Pointer{Position: geometry.Pt(220, 60)},
	})
	msgs = owner.expect(TypeEffect, TypeEdge, TypeMoved)

	var edge drag.Event
	if err := json.Unmarshal(msgs[1].Payload, &edge); err != nil {
		t.Fatal(err)
	}
	if edge.Bounds == nil || !edge.Bounds.Right || edge.Bounds.Left {
		t.Errorf("edge = %+v", edge.Bounds)
	}

	var moved drag.Event
	if err := json.Unmarshal(msgs[2].Payload, &moved); err != nil {
		t.Fatal(err)
	}
	if moved.Translation != geometry.Pt(75, 0) || moved.Target != "card" {
		t.Errorf("moved = %+v", moved)
	}
	if msgs[2].Seq <= msgs[1].Seq {
		t.Errorf("sequence should increase: %d then %d", msgs[1].Seq, msgs[2].Seq)
	}

	owner.send(TypePutBack, id, InputPayload{Frame: boardFrame(geometry.Pt(75, 0))})
	owner.expect(TypeEffect, TypeEdge, TypeStopped)

	if hub.SessionCount() != 1 {
		t.Errorf("sessions = %d", hub.SessionCount())
	}
}

func TestHubObserverReplayAndOwnerLeave(t *testing.T) {
	hub, url := startHub(t)
	owner := dial(t, url)
	id := openSession(owner)

	owner.send(TypePickUp, id, InputPayload{
		Frame:   boardFrame(geometry.Point{}),
		Pointer: drag.Pointer{Position: geometry.Pt(110, 60)},
	})
	owner.expect(TypeEffect, TypeStarted)

	observer := dial(t, url)
	observer.send(TypeOpen, id, OpenPayload{})
	observer.expect(TypeOpened, TypeStarted)

	// Observers watch but cannot drive.
	observer.send(TypeMove, id, InputPayload{Pointer: drag.Pointer{Position: geometry.Pt(0, 0)}})
	if msg := observer.expect(TypeError)[0]; msg.SessionID != id {
		t.Errorf("error session = %q", msg.SessionID)
	}

	owner.send(TypeMove, id, InputPayload{
		Frame:   boardFrame(geometry.Point{}),
		Pointer: drag.Pointer{Position: geometry.Pt(120, 60)},
	})
	owner.expect(TypeEffect, TypeEdge, TypeMoved)
	observer.expect(TypeEdge, TypeMoved)

	owner.conn.Close(websocket.StatusNormalClosure, "")

	msg := observer.expect(TypeClosed)[0]
	var closed ClosedPayload
	if err := json.Unmarshal(msg.Payload, &closed); err != nil {
		t.Fatal(err)
	}
	if closed.Reason != "owner left" {
		t.Errorf("reason = %q", closed.Reason)
	}
	if hub.SessionCount() != 0 {
		t.Errorf("sessions = %d after owner left", hub.SessionCount())
	}
}

func TestHubRejectsBadInput(t *testing.T) {
	tests := []struct {
		name      string
		msgType   string
		sessionID string
		payload   any
	}{
		{"open without element", TypeOpen, "", OpenPayload{}},
		{"join unknown session", TypeOpen, "drag_01h455vb4pex5vsknk084sn02q", OpenPayload{}},
		{"malformed session id", TypeMove, "nope", InputPayload{}},
		{"unknown session", TypeReset, "drag_01h455vb4pex5vsknk084sn02q", nil},
		{"unknown type", "drag.spin", "", nil},
	}

	_, url := startHub(t)
	c := dial(t, url)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.t = t
			c.send(tt.msgType, tt.sessionID, tt.payload)
			c.expect(TypeError)
		})
	}
}

func TestHubClose(t *testing.T) {
	hub, url := startHub(t)
	owner := dial(t, url)
	id := openSession(owner)

	owner.send(TypeClose, id, nil)
	owner.expect(TypeClosed)
	if hub.SessionCount() != 0 {
		t.Errorf("sessions = %d after close", hub.SessionCount())
	}
}
