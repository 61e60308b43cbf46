// Package drag models a single drag interaction as an explicit session value.
// Transitions are pure: they take the current session and the geometry the
// host measured, and return the next session plus the effects and events the
// host should act on.
package drag

import (
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
)

// ButtonSecondary is the pointer button that never picks an element up.
const ButtonSecondary = 2

// Options is the configuration surface of a draggable element.
type Options struct {
	Enabled           bool `json:"enabled" yaml:"enabled"`
	ConstrainByBounds bool `json:"constrainByBounds" yaml:"constrainByBounds"`

	// RequireMouseOver puts the element back as soon as the pointer leaves it.
	RequireMouseOver bool `json:"requireMouseOver" yaml:"requireMouseOver"`

	// RequireMouseOverBounds freezes movement while the pointer is outside
	// the boundary. Only honored when constraining with a boundary.
	RequireMouseOverBounds bool `json:"requireMouseOverBounds" yaml:"requireMouseOverBounds"`

	// Handle, when set, is the only target id that can start a drag.
	Handle string `json:"handle,omitempty" yaml:"handle,omitempty"`
}

// DefaultOptions returns options with dragging enabled and nothing else.
func DefaultOptions() Options {
	return Options{Enabled: true}
}

// Frame is the geometry the host measured for the current input.
type Frame struct {
	// Element is the dragged element as currently displayed, translation
	// included. Its Rotation is the total rotation, parents included.
	Element engine.Shape `json:"element" yaml:"element"`

	// Boundary is nil when no boundary is configured.
	Boundary *engine.Shape `json:"boundary,omitempty" yaml:"boundary,omitempty"`

	// ParentRotation is the summed rotation of the element's ancestors.
	ParentRotation float64 `json:"parentRotation" yaml:"parentRotation"`

	// Translation is the translation currently applied to the element.
	Translation geometry.Point `json:"translation" yaml:"translation"`
}

// pivot is the point parent rotation is normalized around.
func (f Frame) pivot() geometry.Point {
	if f.Boundary != nil {
		return f.Boundary.Center
	}
	return geometry.Point{}
}

// Pointer is a press or move of the pointer in screen space.
type Pointer struct {
	Position geometry.Point `json:"position" yaml:"position"`
	Target   string         `json:"target,omitempty" yaml:"target,omitempty"`
	Button   int            `json:"button,omitempty" yaml:"button,omitempty"`
}

// Session is the reference frame of one drag. The zero value is idle.
type Session struct {
	StartCenter      geometry.Point `json:"startCenter"`
	PickupOffset     geometry.Point `json:"pickupOffset"`
	ComputedRotation float64        `json:"computedRotation"`
	Moving           bool           `json:"moving"`
}

// PickUp starts a drag. A press while already moving only re-elevates the
// element.
func PickUp(s Session, opts Options, f Frame, p Pointer) (Session, Outcome) {
	var out Outcome

	if !opts.Enabled || p.Button == ButtonSecondary {
		return s, out
	}
	if opts.Handle != "" && p.Target != opts.Handle {
		return s, out
	}

	out.effect(Effect{Kind: EffectElevate, ZIndex: MaxZIndex})

	if s.Moving {
		return s, out
	}

	pivot := f.pivot()
	rotation := f.ParentRotation

	// Undo the applied translation in the parent's unrotated space to find
	// where the element sat before any dragging.
	start := geometry.RotatePoint(f.Element.Center, pivot, -rotation)
	start = start.Sub(f.Translation)
	start = geometry.RotatePoint(start, pivot, rotation)

	s.StartCenter = start
	s.PickupOffset = p.Position.Sub(start)
	s.ComputedRotation = rotation
	s.Moving = true

	out.event(Event{Kind: EventStarted, Translation: f.Translation})
	return s, out
}

// Move follows the pointer while a drag is in progress.
func Move(s Session, opts Options, f Frame, p Pointer) (Session, Outcome) {
	var out Outcome

	if !s.Moving || !opts.Enabled || !AllowMovement(opts, f, p.Position) {
		return s, out
	}

	candidate := p.Position.Sub(s.PickupOffset)
	translation := geometry.RotatePoint(candidate.Sub(s.StartCenter), geometry.Point{}, -s.ComputedRotation)

	var check *engine.BoundsCheckResult
	if opts.ConstrainByBounds {
		check = engine.CheckBounds(candidate, engine.Request{
			Element:   f.Element,
			Boundary:  f.Boundary,
			Start:     s.StartCenter,
			Constrain: true,
		})
		// check.Translation lives in the boundary's space. The host applies
		// translations in the parent's space, so rebuild it from the center.
		if check != nil && check.IsConstrained {
			translation = geometry.RotatePoint(check.ConstrainedCenter.Sub(s.StartCenter), geometry.Point{}, -s.ComputedRotation)
		}
	}

	out.effect(Effect{Kind: EffectTranslate, Translation: translation})
	if check != nil {
		out.event(Event{Kind: EventEdge, Bounds: check})
	}
	out.event(Event{Kind: EventMoved, Translation: translation})
	return s, out
}

// Leave handles the pointer leaving the element.
func Leave(s Session, opts Options, f Frame) (Session, Outcome) {
	if !opts.RequireMouseOver {
		return s, Outcome{}
	}
	return PutBack(s, opts, f)
}

// PutBack ends a drag. The restore effect is issued even when nothing was
// moving, since a press may have elevated the element.
func PutBack(s Session, opts Options, f Frame) (Session, Outcome) {
	var out Outcome
	out.effect(Effect{Kind: EffectRestore})

	if s.Moving {
		if f.Boundary != nil {
			check := engine.CheckBounds(f.Element.Center, engine.Request{
				Element:   f.Element,
				Boundary:  f.Boundary,
				Start:     s.StartCenter,
				Constrain: opts.ConstrainByBounds,
			})
			if check != nil {
				out.event(Event{Kind: EventEdge, Bounds: check})
			}
		}
		out.event(Event{Kind: EventStopped, Translation: f.Translation})

		s.PickupOffset = geometry.Point{}
		s.Moving = false
	}

	s.ComputedRotation = 0
	return s, out
}

// Reset returns to idle from any state and asks the host to drop the
// element's transform. Options are untouched.
func Reset(Session) (Session, Outcome) {
	var out Outcome
	out.effect(Effect{Kind: EffectClearTransform})
	return Session{}, out
}

// AllowMovement reports whether the pointer position may move the element.
// It only restricts anything when constraining to a configured boundary with
// RequireMouseOverBounds set.
func AllowMovement(opts Options, f Frame, pointer geometry.Point) bool {
	if f.Boundary == nil || !opts.ConstrainByBounds || !opts.RequireMouseOverBounds {
		return true
	}
	return engine.PointInsideBoundary(pointer, *f.Boundary)
}
