package drag

import "log/slog"

// Listener receives what a Draggable's transitions produce. Effects are
// delivered before events for the same transition.
type Listener interface {
	ApplyEffect(Effect)
	HandleEvent(Event)
}

// ListenerFuncs adapts plain functions to a Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Effect func(Effect)
	Event  func(Event)
}

func (l ListenerFuncs) ApplyEffect(e Effect) {
	if l.Effect != nil {
		l.Effect(e)
	}
}

func (l ListenerFuncs) HandleEvent(e Event) {
	if l.Event != nil {
		l.Event(e)
	}
}

// Draggable owns the session of one element and reports what happens to it.
// It is not safe for concurrent use; input for an element must arrive on a
// single stream.
type Draggable struct {
	id       string
	opts     Options
	session  Session
	listener Listener
	logger   *slog.Logger
}

// NewDraggable creates an idle Draggable. A nil listener discards output and
// a nil logger falls back to slog.Default().
func NewDraggable(id string, opts Options, listener Listener, logger *slog.Logger) *Draggable {
	if listener == nil {
		listener = ListenerFuncs{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Draggable{
		id:       id,
		opts:     opts,
		listener: listener,
		logger:   logger.With("element", id),
	}
}

// --- Input ---

// PickUp handles a press on the element or one of its children.
func (d *Draggable) PickUp(f Frame, p Pointer) Outcome {
	next, out := PickUp(d.session, d.opts, f, p)
	if next.Moving && !d.session.Moving {
		d.logger.Debug("drag started", "start", next.StartCenter, "offset", next.PickupOffset)
	}
	return d.commit(next, out)
}

// Move handles pointer movement anywhere on the page.
func (d *Draggable) Move(f Frame, p Pointer) Outcome {
	next, out := Move(d.session, d.opts, f, p)
	return d.commit(next, out)
}

// Leave handles the pointer leaving the element.
func (d *Draggable) Leave(f Frame) Outcome {
	next, out := Leave(d.session, d.opts, f)
	return d.commit(next, out)
}

// PutBack handles a release.
func (d *Draggable) PutBack(f Frame) Outcome {
	wasMoving := d.session.Moving
	next, out := PutBack(d.session, d.opts, f)
	if wasMoving {
		d.logger.Debug("drag stopped", "translation", f.Translation)
	}
	return d.commit(next, out)
}

// Reset forces the element back to idle and clears its transform.
func (d *Draggable) Reset() Outcome {
	next, out := Reset(d.session)
	d.logger.Debug("drag reset")
	return d.commit(next, out)
}

// --- Configuration ---

// SetEnabled turns dragging on or off without touching the session.
func (d *Draggable) SetEnabled(enabled bool) {
	d.opts.Enabled = enabled
}

// SetOptions replaces the options wholesale.
func (d *Draggable) SetOptions(opts Options) {
	d.opts = opts
}

func (d *Draggable) Options() Options {
	return d.opts
}

// --- Queries ---

func (d *Draggable) ID() string {
	return d.id
}

func (d *Draggable) Session() Session {
	return d.session
}

func (d *Draggable) IsMoving() bool {
	return d.session.Moving
}

func (d *Draggable) commit(next Session, out Outcome) Outcome {
	d.session = next

	for i := range out.Events {
		out.Events[i].Target = d.id
	}
	for _, e := range out.Effects {
		d.listener.ApplyEffect(e)
	}
	for _, e := range out.Events {
		if e.Kind == EventEdge && e.Bounds != nil && e.Bounds.HasCollision() {
			d.logger.Debug("edge collision",
				"top", e.Bounds.Top, "right", e.Bounds.Right,
				"bottom", e.Bounds.Bottom, "left", e.Bounds.Left,
				"constrained", e.Bounds.IsConstrained)
		}
		d.listener.HandleEvent(e)
	}
	return out
}
