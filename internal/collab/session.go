package collab

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dragdom/dragdom/internal/drag"
)

// historyLimit bounds how many messages a session keeps for late joiners.
const historyLimit = 64

// Session is one drag.Draggable shared over the wire. The owner drives it;
// every client in the session observes its events.
type Session struct {
	ID        string
	ElementID string
	Owner     string

	mu        sync.Mutex
	draggable *drag.Draggable
	clients   map[string]*Client
	serverSeq int64
	history   []*Message

	// sender is the client whose input is being applied. Effects go to it
	// only, since it is the one that has to restyle the element.
	sender *Client
}

func newSession(h *Hub, id, elementID string, owner *Client, opts drag.Options) *Session {
	s := &Session{
		ID:        id,
		ElementID: elementID,
		Owner:     owner.ClientID,
		clients:   map[string]*Client{owner.ClientID: owner},
	}
	s.draggable = drag.NewDraggable(elementID, opts, drag.ListenerFuncs{
		Effect: s.emitEffect,
		Event:  s.emitEvent,
	}, h.logger.With("session", id))
	return s
}

// apply runs one input message against the draggable. Caller must not hold
// s.mu.
func (s *Session) apply(sender *Client, msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sender.ClientID != s.Owner {
		return fmt.Errorf("only the owner can drive session %s", s.ID)
	}

	s.sender = sender
	defer func() { s.sender = nil }()

	switch msg.Type {
	case TypePickUp, TypeMove, TypeLeave, TypePutBack:
		var in InputPayload
		if err := json.Unmarshal(msg.Payload, &in); err != nil {
			return fmt.Errorf("invalid %s payload: %w", msg.Type, err)
		}
		switch msg.Type {
		case TypePickUp:
			s.draggable.PickUp(in.Frame, in.Pointer)
		case TypeMove:
			s.draggable.Move(in.Frame, in.Pointer)
		case TypeLeave:
			s.draggable.Leave(in.Frame)
		case TypePutBack:
			s.draggable.PutBack(in.Frame)
		}

	case TypeReset:
		s.draggable.Reset()

	case TypeOptions:
		var opts drag.Options
		if err := json.Unmarshal(msg.Payload, &opts); err != nil {
			return fmt.Errorf("invalid options payload: %w", err)
		}
		s.draggable.SetOptions(opts)
		s.broadcastLocked(TypeOpened, s.openedLocked())

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (s *Session) emitEffect(e drag.Effect) {
	if s.sender == nil {
		return
	}
	payload, _ := json.Marshal(e)
	s.serverSeq++
	s.sender.Send(&Message{Type: TypeEffect, SessionID: s.ID, Seq: s.serverSeq, Payload: payload})
}

func (s *Session) emitEvent(e drag.Event) {
	s.broadcastLocked(eventTypes[e.Kind], e)
}

// broadcastLocked sends to every client in the session and records the
// message. Caller must hold s.mu.
func (s *Session) broadcastLocked(msgType string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.serverSeq++
	msg := &Message{Type: msgType, SessionID: s.ID, Seq: s.serverSeq, Payload: payload}

	s.history = append(s.history, msg)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}

	for _, c := range s.clients {
		c.Send(msg)
	}
}

func (s *Session) openedLocked() OpenedPayload {
	return OpenedPayload{
		SessionID: s.ID,
		ElementID: s.ElementID,
		Owner:     s.Owner,
		Options:   s.draggable.Options(),
	}
}

// join adds an observer and replays recent history to it.
func (s *Session) join(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[c.ClientID] = c
	payload, _ := json.Marshal(s.openedLocked())
	c.Send(&Message{Type: TypeOpened, SessionID: s.ID, Seq: s.serverSeq, Payload: payload})
	for _, m := range s.history {
		c.Send(m)
	}
}

// leave removes a client and reports whether the session lost its owner.
func (s *Session) leave(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
	return clientID == s.Owner
}

// close tells the remaining observers the session is gone.
func (s *Session) close(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, _ := json.Marshal(ClosedPayload{Reason: reason})
	s.serverSeq++
	msg := &Message{Type: TypeClosed, SessionID: s.ID, Seq: s.serverSeq, Payload: payload}
	for _, c := range s.clients {
		c.Send(msg)
	}
	s.clients = map[string]*Client{}
}

func (s *Session) isMoving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draggable.IsMoving()
}
