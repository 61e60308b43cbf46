package drag

import (
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
)

// MaxZIndex is the z-index suggested to the host while an element is held.
const MaxZIndex = 16777271

// EventKind identifies a notification raised by a transition.
type EventKind string

const (
	EventStarted EventKind = "started"
	EventMoved   EventKind = "moved"
	EventEdge    EventKind = "edge"
	EventStopped EventKind = "stopped"
)

// Event is a notification for whoever observes the drag.
type Event struct {
	Kind EventKind `json:"kind"`

	// Target is the id of the dragged element. Pure transitions leave it
	// empty; Draggable fills it in.
	Target string `json:"target,omitempty"`

	// Translation is set on started, moved and stopped.
	Translation geometry.Point `json:"translation"`

	// Bounds is set on edge events only.
	Bounds *engine.BoundsCheckResult `json:"bounds,omitempty"`
}

// EffectKind identifies a directive the host must carry out on the element.
type EffectKind string

const (
	// EffectElevate raises the element above its siblings (ZIndex).
	EffectElevate EffectKind = "elevate"
	// EffectTranslate replaces the translation part of the element's
	// transform, keeping its rotation.
	EffectTranslate EffectKind = "translate"
	// EffectRestore puts back the z-index and position styling saved when
	// the element was elevated.
	EffectRestore EffectKind = "restore"
	// EffectClearTransform removes any transform from the element.
	EffectClearTransform EffectKind = "clearTransform"
)

// Effect is a directive to the host.
type Effect struct {
	Kind        EffectKind     `json:"kind"`
	ZIndex      int            `json:"zIndex,omitempty"`
	Translation geometry.Point `json:"translation"`
}

// Outcome lists what a transition asks of the host, in order.
type Outcome struct {
	Effects []Effect `json:"effects"`
	Events  []Event  `json:"events"`
}

// IsZero reports whether the transition was ignored.
func (o Outcome) IsZero() bool {
	return len(o.Effects) == 0 && len(o.Events) == 0
}

func (o *Outcome) effect(e Effect) {
	o.Effects = append(o.Effects, e)
}

func (o *Outcome) event(e Event) {
	o.Events = append(o.Events, e)
}
