package collab

import (
	"encoding/json"

	"github.com/dragdom/dragdom/internal/drag"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Subject   string          `json:"subject,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	TypeError = "error"

	// Connection
	TypeWelcome = "welcome"

	// Client to server
	TypeOpen    = "drag.open"
	TypePickUp  = "drag.pickup"
	TypeMove    = "drag.move"
	TypeLeave   = "drag.leave"
	TypePutBack = "drag.putback"
	TypeReset   = "drag.reset"
	TypeOptions = "drag.options"
	TypeClose   = "drag.close"

	// Server to client
	TypeOpened  = "drag.opened"
	TypeStarted = "drag.started"
	TypeMoved   = "drag.moved"
	TypeEdge    = "drag.edge"
	TypeStopped = "drag.stopped"
	TypeEffect  = "drag.effect"
	TypeClosed  = "drag.closed"
)

// eventTypes maps session events to their wire type.
var eventTypes = map[drag.EventKind]string{
	drag.EventStarted: TypeStarted,
	drag.EventMoved:   TypeMoved,
	drag.EventEdge:    TypeEdge,
	drag.EventStopped: TypeStopped,
}

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	Subject  string `json:"subject"`
}

// OpenPayload starts a new session, or joins an existing one as an observer
// when the message carries a session id.
type OpenPayload struct {
	ElementID string        `json:"elementId"`
	Options   *drag.Options `json:"options,omitempty"`
}

type OpenedPayload struct {
	SessionID string       `json:"sessionId"`
	ElementID string       `json:"elementId"`
	Owner     string       `json:"owner"`
	Options   drag.Options `json:"options"`
}

// InputPayload carries the geometry the host measured plus the pointer, for
// pickup and move. Leave and putback ignore the pointer.
type InputPayload struct {
	Frame   drag.Frame   `json:"frame"`
	Pointer drag.Pointer `json:"pointer"`
}

type ClosedPayload struct {
	Reason string `json:"reason"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
