package collab

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	writeTimeout  = 10 * time.Second
	keepAlive     = 30 * time.Second
	maxFrameBytes = 64 << 10
	outboxSize    = 256
)

// Client is one websocket connection. Subject is the authenticated user and
// ClientID names this particular connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	logger *slog.Logger

	Subject  string
	ClientID string

	mu     sync.Mutex
	outbox chan *Message
	done   bool
}

func NewClient(hub *Hub, conn *websocket.Conn, subject, clientID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		logger:   hub.logger.With("client", clientID, "subject", subject),
		Subject:  subject,
		ClientID: clientID,
		outbox:   make(chan *Message, outboxSize),
	}
}

// ReadPump feeds the client's frames to the hub one at a time until the
// connection drops, so a session never sees two inputs from one client at
// once.
func (c *Client) ReadPump(ctx context.Context) {
	defer c.hub.Unregister(c)
	defer c.conn.Close(websocket.StatusNormalClosure, "")

	c.conn.SetReadLimit(maxFrameBytes)
	for {
		_, frame, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if !errors.Is(err, context.Canceled) {
					c.logger.Debug("connection read failed", "error", err)
				}
			}
			return
		}

		msg := new(Message)
		if err := json.Unmarshal(frame, msg); err != nil {
			c.logger.Warn("undecodable frame", "error", err)
			c.SendError("", "invalid message")
			continue
		}
		msg.Subject, msg.ClientID = c.Subject, c.ClientID
		c.hub.handleMessage(c, msg)
	}
}

// WritePump drains the outbox and keeps the connection alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ping := time.NewTicker(keepAlive)
	defer ping.Stop()
	defer c.conn.Close(websocket.StatusNormalClosure, "")

	for {
		var err error
		select {
		case msg, ok := <-c.outbox:
			if !ok {
				return
			}
			err = c.write(ctx, msg)
		case <-ping.C:
			err = c.ping(ctx)
		case <-ctx.Done():
			return
		}
		if err != nil {
			c.logger.Debug("connection write failed", "error", err)
			return
		}
	}
}

func (c *Client) write(ctx context.Context, msg *Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c.conn, msg)
}

func (c *Client) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Ping(ctx)
}

// Send queues msg. A client that is gone or too slow to keep up loses it.
func (c *Client) Send(msg *Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	select {
	case c.outbox <- msg:
	default:
		c.logger.Warn("outbox full, message dropped", "type", msg.Type)
	}
}

func (c *Client) SendError(sessionID, text string) {
	payload, _ := json.Marshal(ErrorPayload{Message: text})
	c.Send(&Message{Type: TypeError, SessionID: sessionID, Payload: payload})
}

// close ends the write pump. Later calls do nothing.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	c.done = true
	close(c.outbox)
}
