// Package bridge is the browser-facing API of dragdom. Every call takes and
// returns JSON strings so cmd/wasm only has to move strings across
// syscall/js.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
)

var (
	ErrUnknownDraggable = errors.New("unknown draggable")
	ErrDuplicate        = errors.New("draggable already exists")
)

// Notification is what a Sink receives for every effect and event.
type Notification struct {
	Type   string       `json:"type"` // "effect" or "event"
	ID     string       `json:"id"`
	Effect *drag.Effect `json:"effect,omitempty"`
	Event  *drag.Event  `json:"event,omitempty"`
}

// Sink receives notifications as JSON.
type Sink func(string)

// Bridge owns the draggables a page has created. Like the browser's main
// thread it is single threaded; it is not safe for concurrent use.
type Bridge struct {
	draggables map[string]*drag.Draggable
	logger     *slog.Logger
}

func New(logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{draggables: make(map[string]*drag.Draggable), logger: logger}
}

// --- Stateless queries ---

type checkRequest struct {
	Candidate geometry.Point `json:"candidate"`
	Element   engine.Shape   `json:"element"`
	Boundary  *engine.Shape  `json:"boundary"`
	Start     geometry.Point `json:"start"`
	Constrain bool           `json:"constrain"`
}

// CheckBounds evaluates a bounds request. The result is "null" when the
// request has no boundary.
func (b *Bridge) CheckBounds(reqJSON string) (string, error) {
	var req checkRequest
	if err := json.Unmarshal([]byte(reqJSON), &req); err != nil {
		return "", fmt.Errorf("decode bounds request: %w", err)
	}
	return encode(engine.CheckBounds(req.Candidate, engine.Request{
		Element:   req.Element,
		Boundary:  req.Boundary,
		Start:     req.Start,
		Constrain: req.Constrain,
	}))
}

// ProjectCorner returns one handle ("tl", "mr", ...) of a shape as a point.
func (b *Bridge) ProjectCorner(shapeJSON, handle string) (string, error) {
	var s engine.Shape
	if err := json.Unmarshal([]byte(shapeJSON), &s); err != nil {
		return "", fmt.Errorf("decode shape: %w", err)
	}
	h, err := geometry.ParseHandle(handle)
	if err != nil {
		return "", err
	}
	return encode(s.Handle(h))
}

// ParseMatrix reads a computed transform into its rotation and translation.
func (b *Bridge) ParseMatrix(css string) (string, error) {
	m, err := geometry.ParseCSSMatrix(css)
	if err != nil {
		return "", err
	}
	return encode(map[string]any{
		"rotation":    m.RotationDegrees(),
		"translation": m.Translation(),
	})
}

// --- Draggables ---

// CreateDraggable registers a draggable under id. optsJSON may be empty for
// the defaults. sink may be nil.
func (b *Bridge) CreateDraggable(id, optsJSON string, sink Sink) error {
	if _, ok := b.draggables[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, id)
	}
	opts, err := decodeOptions(optsJSON)
	if err != nil {
		return err
	}

	var listener drag.Listener = drag.ListenerFuncs{}
	if sink != nil {
		listener = drag.ListenerFuncs{
			Effect: func(e drag.Effect) { b.notify(sink, Notification{Type: "effect", ID: id, Effect: &e}) },
			Event:  func(e drag.Event) { b.notify(sink, Notification{Type: "event", ID: id, Event: &e}) },
		}
	}
	b.draggables[id] = drag.NewDraggable(id, opts, listener, b.logger)
	return nil
}

func (b *Bridge) notify(sink Sink, n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		b.logger.Error("encode notification", "error", err)
		return
	}
	sink(string(data))
}

// PickUp, Move, Leave and PutBack return the transition's outcome as JSON.
func (b *Bridge) PickUp(id, frameJSON, pointerJSON string) (string, error) {
	d, f, p, err := b.input(id, frameJSON, pointerJSON)
	if err != nil {
		return "", err
	}
	return encode(d.PickUp(f, p))
}

func (b *Bridge) Move(id, frameJSON, pointerJSON string) (string, error) {
	d, f, p, err := b.input(id, frameJSON, pointerJSON)
	if err != nil {
		return "", err
	}
	return encode(d.Move(f, p))
}

func (b *Bridge) Leave(id, frameJSON string) (string, error) {
	d, f, _, err := b.input(id, frameJSON, "")
	if err != nil {
		return "", err
	}
	return encode(d.Leave(f))
}

func (b *Bridge) PutBack(id, frameJSON string) (string, error) {
	d, f, _, err := b.input(id, frameJSON, "")
	if err != nil {
		return "", err
	}
	return encode(d.PutBack(f))
}

func (b *Bridge) Reset(id string) (string, error) {
	d, err := b.lookup(id)
	if err != nil {
		return "", err
	}
	return encode(d.Reset())
}

func (b *Bridge) SetOptions(id, optsJSON string) error {
	d, err := b.lookup(id)
	if err != nil {
		return err
	}
	opts, err := decodeOptions(optsJSON)
	if err != nil {
		return err
	}
	d.SetOptions(opts)
	return nil
}

// Session returns the draggable's session state as JSON.
func (b *Bridge) Session(id string) (string, error) {
	d, err := b.lookup(id)
	if err != nil {
		return "", err
	}
	return encode(d.Session())
}

// Dispose forgets the draggable. Disposing an unknown id is a no-op.
func (b *Bridge) Dispose(id string) {
	delete(b.draggables, id)
}

func (b *Bridge) lookup(id string) (*drag.Draggable, error) {
	d, ok := b.draggables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDraggable, id)
	}
	return d, nil
}

func (b *Bridge) input(id, frameJSON, pointerJSON string) (*drag.Draggable, drag.Frame, drag.Pointer, error) {
	var (
		f drag.Frame
		p drag.Pointer
	)
	d, err := b.lookup(id)
	if err != nil {
		return nil, f, p, err
	}
	if err := json.Unmarshal([]byte(frameJSON), &f); err != nil {
		return nil, f, p, fmt.Errorf("decode frame: %w", err)
	}
	if pointerJSON != "" {
		if err := json.Unmarshal([]byte(pointerJSON), &p); err != nil {
			return nil, f, p, fmt.Errorf("decode pointer: %w", err)
		}
	}
	return d, f, p, nil
}

func decodeOptions(optsJSON string) (drag.Options, error) {
	opts := drag.DefaultOptions()
	if optsJSON == "" {
		return opts, nil
	}
	if err := json.Unmarshal([]byte(optsJSON), &opts); err != nil {
		return opts, fmt.Errorf("decode options: %w", err)
	}
	return opts, nil
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
