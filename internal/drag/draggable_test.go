package drag

import (
	"testing"

	"github.com/dragdom/dragdom/internal/geometry"
)

type recorder struct {
	effects []Effect
	events  []Event
}

func (r *recorder) ApplyEffect(e Effect) { r.effects = append(r.effects, e) }
func (r *recorder) HandleEvent(e Event)  { r.events = append(r.events, e) }

func TestDraggableLifecycle(t *testing.T) {
	rec := &recorder{}
	d := NewDraggable("card-1", constrained(), rec, nil)
	f := boxFrame(geometry.Pt(100, 50), geometry.Point{})

	d.PickUp(f, Pointer{Position: geometry.Pt(110, 60)})
	if !d.IsMoving() {
		t.Fatal("expected a drag in progress")
	}

	out := d.Move(f, Pointer{Position: geometry.Pt(220, 60)})
	translation := out.Effects[0].Translation
	d.PutBack(boxFrame(geometry.Pt(100, 50).Add(translation), translation))

	if d.IsMoving() {
		t.Fatal("expected the drag to be over")
	}

	want := []EventKind{EventStarted, EventEdge, EventMoved, EventEdge, EventStopped}
	got := make([]EventKind, len(rec.events))
	for i, e := range rec.events {
		got[i] = e.Kind
		if e.Target != "card-1" {
			t.Errorf("event %d target = %q", i, e.Target)
		}
	}
	if !sameKinds(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}

	wantEffects := []EffectKind{EffectElevate, EffectTranslate, EffectRestore}
	if len(rec.effects) != len(wantEffects) {
		t.Fatalf("effects = %+v", rec.effects)
	}
	for i, k := range wantEffects {
		if rec.effects[i].Kind != k {
			t.Errorf("effect %d = %s, want %s", i, rec.effects[i].Kind, k)
		}
	}
	if stopped := rec.events[len(rec.events)-1]; stopped.Translation != geometry.Pt(75, 0) {
		t.Errorf("stopped translation = %v", stopped.Translation)
	}
}

func TestDraggableSetEnabled(t *testing.T) {
	var started int
	d := NewDraggable("card", DefaultOptions(), ListenerFuncs{Event: func(e Event) {
		if e.Kind == EventStarted {
			started++
		}
	}}, nil)
	f := boxFrame(geometry.Pt(100, 50), geometry.Point{})

	d.SetEnabled(false)
	d.PickUp(f, Pointer{Position: geometry.Pt(100, 50)})
	if d.IsMoving() || started != 0 {
		t.Fatal("a disabled element must not be picked up")
	}

	d.SetEnabled(true)
	d.PickUp(f, Pointer{Position: geometry.Pt(100, 50)})
	if !d.IsMoving() || started != 1 {
		t.Fatal("expected the drag to start once enabled")
	}

	d.Reset()
	if d.IsMoving() || d.Session() != (Session{}) {
		t.Errorf("reset left %+v", d.Session())
	}
	if !d.Options().Enabled {
		t.Errorf("reset must not disable the element")
	}
}

func TestListenerFuncsNil(t *testing.T) {
	d := NewDraggable("x", DefaultOptions(), nil, nil)
	d.PickUp(boxFrame(geometry.Pt(0, 0), geometry.Point{}), Pointer{})
	d.Reset()
	if d.ID() != "x" {
		t.Errorf("id = %q", d.ID())
	}
}
