package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/typeid"
)

type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session // sessionID -> session
	clients  map[string]*Client  // clientID -> client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions:   make(map[string]*Session),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations until ctx is done or Stop is called.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.Stop()
			return
		case <-h.done:
			return
		}
	}
}

// Stop closes every session and disconnects every client.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		sessions := h.sessions
		clients := h.clients
		h.sessions = make(map[string]*Session)
		h.clients = make(map[string]*Client)
		h.mu.Unlock()

		for _, s := range sessions {
			s.close("server shutting down")
		}
		for _, c := range clients {
			c.close()
		}
		h.logger.Info("hub stopped", "sessions", len(sessions), "clients", len(clients))
	})
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SessionCount is the number of open sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ClientID] = client
	h.mu.Unlock()

	payload, _ := json.Marshal(WelcomePayload{ClientID: client.ClientID, Subject: client.Subject})
	client.Send(&Message{Type: TypeWelcome, ClientID: client.ClientID, Payload: payload})

	h.logger.Info("client joined", "client", client.ClientID, "subject", client.Subject)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ClientID)

	var orphaned []*Session
	for id, s := range h.sessions {
		if s.leave(client.ClientID) {
			orphaned = append(orphaned, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	client.close()
	for _, s := range orphaned {
		s.close("owner left")
		h.logger.Info("session closed", "session", s.ID, "reason", "owner left")
	}

	h.logger.Info("client left", "client", client.ClientID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeOpen:
		h.handleOpen(sender, msg)
	case TypeClose:
		h.handleClose(sender, msg)
	case TypePickUp, TypeMove, TypeLeave, TypePutBack, TypeReset, TypeOptions:
		h.handleInput(sender, msg)
	default:
		h.logger.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.SendError(msg.SessionID, "unknown message type "+msg.Type)
	}
}

func (h *Hub) handleOpen(sender *Client, msg *Message) {
	if msg.SessionID != "" {
		h.mu.RLock()
		s, ok := h.sessions[msg.SessionID]
		h.mu.RUnlock()
		if !ok {
			sender.SendError(msg.SessionID, "session not found")
			return
		}
		s.join(sender)
		return
	}

	var open OpenPayload
	if err := json.Unmarshal(msg.Payload, &open); err != nil || open.ElementID == "" {
		sender.SendError("", "drag.open needs an elementId")
		return
	}

	opts := drag.DefaultOptions()
	if open.Options != nil {
		opts = *open.Options
	}

	id := typeid.NewSessionID()
	s := newSession(h, id, open.ElementID, sender, opts)

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	s.mu.Lock()
	payload, _ := json.Marshal(s.openedLocked())
	s.mu.Unlock()
	sender.Send(&Message{Type: TypeOpened, SessionID: id, Payload: payload})

	h.logger.Info("session opened", "session", id, "element", open.ElementID, "client", sender.ClientID)
}

func (h *Hub) handleClose(sender *Client, msg *Message) {
	h.mu.Lock()
	s, ok := h.sessions[msg.SessionID]
	if ok && s.Owner == sender.ClientID {
		delete(h.sessions, msg.SessionID)
	}
	h.mu.Unlock()

	switch {
	case !ok:
		sender.SendError(msg.SessionID, "session not found")
	case s.Owner != sender.ClientID:
		// Observers simply stop watching.
		s.leave(sender.ClientID)
	default:
		s.close("closed by owner")
		h.logger.Info("session closed", "session", s.ID, "reason", "closed by owner")
	}
}

func (h *Hub) handleInput(sender *Client, msg *Message) {
	if err := typeid.Validate(msg.SessionID, typeid.PrefixSession); err != nil {
		sender.SendError(msg.SessionID, "invalid session id")
		return
	}

	h.mu.RLock()
	s, ok := h.sessions[msg.SessionID]
	h.mu.RUnlock()
	if !ok {
		sender.SendError(msg.SessionID, "session not found")
		return
	}

	if err := s.apply(sender, msg); err != nil {
		h.logger.Warn("drag input rejected", "session", s.ID, "type", msg.Type, "error", err)
		sender.SendError(s.ID, err.Error())
	}
}
