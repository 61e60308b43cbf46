package playground

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
	"github.com/dragdom/dragdom/internal/logging"
)

func TestCellMapping(t *testing.T) {
	p := CellCenter(3, 4)
	if p != geometry.Pt(3.5, 9) {
		t.Fatalf("center = %v", p)
	}
	if col, row := CellAt(p); col != 3 || row != 4 {
		t.Errorf("cell = %d,%d", col, row)
	}
}

func TestRasterize(t *testing.T) {
	board := engine.Shape{Center: geometry.Pt(10, 10), Width: 10, Height: 10}
	f := drag.Frame{
		Element:  engine.Shape{Center: geometry.Pt(15, 10), Width: 4, Height: 4},
		Boundary: &board,
	}
	g := Rasterize(20, 10, f)

	tests := []struct {
		name     string
		col, row int
		want     Cell
	}{
		{"far corner", 0, 0, CellEmpty},
		{"left outline", 5, 5, CellBoundary},
		{"boundary interior", 8, 5, CellEmpty},
		{"element inside", 14, 5, CellElement},
		{"element overflow", 16, 5, CellOverflow},
		{"off grid", 25, 25, CellEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.At(tt.col, tt.row); got != tt.want {
				t.Errorf("cell %d,%d = %v, want %v", tt.col, tt.row, got, tt.want)
			}
		})
	}
}

func TestRasterizeWithoutBoundary(t *testing.T) {
	f := drag.Frame{Element: engine.Shape{Center: geometry.Pt(5, 5), Width: 4, Height: 4}}
	g := Rasterize(10, 5, f)
	if g.At(5, 2) != CellElement {
		t.Errorf("element cell = %v", g.At(5, 2))
	}
}

func TestMouseTracker(t *testing.T) {
	var m MouseTracker
	steps := []struct {
		buttons tcell.ButtonMask
		want    InputKind
		button  int
	}{
		{tcell.ButtonNone, InputNone, 0},
		{tcell.Button2, InputPickUp, drag.ButtonSecondary},
		{tcell.ButtonNone, InputNone, 0},
		{tcell.Button1, InputPickUp, 0},
		{tcell.Button1, InputMove, 0},
		{tcell.WheelUp, InputNone, 0},
		{tcell.Button1, InputMove, 0},
		{tcell.ButtonNone, InputPutBack, 0},
		{tcell.ButtonNone, InputNone, 0},
	}

	for i, st := range steps {
		in := m.Map(tcell.NewEventMouse(2, 3, st.buttons, tcell.ModNone))
		if in.Kind != st.want || in.Button != st.button {
			t.Errorf("step %d: got %+v, want kind %v button %d", i, in, st.want, st.button)
		}
		if in.Position != CellCenter(2, 3) {
			t.Errorf("step %d: position %v", i, in.Position)
		}
	}
}

func TestMapKey(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		ch   rune
		want Command
	}{
		{tcell.KeyRune, 'q', CommandQuit},
		{tcell.KeyEscape, 0, CommandQuit},
		{tcell.KeyCtrlC, 0, CommandQuit},
		{tcell.KeyRune, 'c', CommandToggleConstrain},
		{tcell.KeyRune, 'r', CommandReset},
		{tcell.KeyRune, '[', CommandRotateLeft},
		{tcell.KeyRune, ']', CommandRotateRight},
		{tcell.KeyRune, 'x', CommandNone},
		{tcell.KeyEnter, 0, CommandNone},
	}
	for _, tt := range tests {
		if got := MapKey(tcell.NewEventKey(tt.key, tt.ch, tcell.ModNone)); got != tt.want {
			t.Errorf("key %v %q = %v, want %v", tt.key, tt.ch, got, tt.want)
		}
	}
}

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	app, err := New(screen, drag.Options{Enabled: true, ConstrainByBounds: true}, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	return app, screen
}

func mouse(col, row int, buttons tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(col, row, buttons, tcell.ModNone)
}

func key(ch rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, ch, tcell.ModNone)
}

func handle(t *testing.T, app *App, events ...tcell.Event) {
	t.Helper()
	for _, ev := range events {
		if _, err := app.Handle(ev); err != nil {
			t.Fatal(err)
		}
	}
}

func content(screen tcell.SimulationScreen, col, row int) rune {
	r, _, _, _ := screen.GetContent(col, row)
	return r
}

// The 80x24 screen gives a board spanning x 16..64 around (40, 23) and a
// 10x8 card at the same center.
func TestAppConstrainedDrag(t *testing.T) {
	app, screen := newTestApp(t)

	handle(t, app, mouse(40, 11, tcell.Button1), mouse(79, 11, tcell.Button1))
	if got := app.Translation(); !got.ApproxEqual(geometry.Pt(19, 0), 1e-9) {
		t.Fatalf("translation = %v, want (19, 0)", got)
	}
	if !strings.Contains(app.Status(), "edges: right") {
		t.Errorf("status = %q", app.Status())
	}

	app.Draw()
	if r := content(screen, 58, 11); r != '█' {
		t.Errorf("card cell = %q", r)
	}
	if r := content(screen, 16, 11); r != '·' {
		t.Errorf("outline cell = %q", r)
	}
	if r := content(screen, 0, 23); r != ' ' {
		t.Errorf("status line starts with %q", r)
	}

	handle(t, app, mouse(79, 11, tcell.ButtonNone))
	if app.draggable.IsMoving() {
		t.Error("release should end the drag")
	}
}

func TestAppUnconstrainedDrag(t *testing.T) {
	app, screen := newTestApp(t)

	handle(t, app, key('c'))
	if !strings.Contains(app.Status(), "constrain: off") {
		t.Fatalf("status = %q", app.Status())
	}

	handle(t, app, mouse(40, 11, tcell.Button1), mouse(79, 11, tcell.Button1))
	if got := app.Translation(); !got.ApproxEqual(geometry.Pt(39, 0), 1e-9) {
		t.Fatalf("translation = %v, want (39, 0)", got)
	}

	app.Draw()
	if r := content(screen, 76, 11); r != '▓' {
		t.Errorf("overflow cell = %q", r)
	}
}

func TestAppIgnoresPressesOffTheCard(t *testing.T) {
	app, _ := newTestApp(t)

	handle(t, app, mouse(2, 2, tcell.Button1), mouse(40, 11, tcell.Button2))
	if app.draggable.IsMoving() {
		t.Error("press off the card or with the secondary button started a drag")
	}
}

func TestAppCommands(t *testing.T) {
	app, _ := newTestApp(t)

	handle(t, app, key(']'), key(']'))
	if !strings.Contains(app.Status(), "rotation: 30°") {
		t.Errorf("status = %q", app.Status())
	}

	handle(t, app, mouse(40, 11, tcell.Button1), key('['))
	if !strings.Contains(app.Status(), "rotation: 30°") {
		t.Errorf("rotation changed mid-drag: %q", app.Status())
	}

	handle(t, app, mouse(45, 11, tcell.Button1), key('r'))
	if got := app.Translation(); got != (geometry.Point{}) {
		t.Errorf("translation after reset = %v", got)
	}
	if app.draggable.IsMoving() {
		t.Error("reset should end the drag")
	}

	for _, ev := range []tcell.Event{key('q'), tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)} {
		quit, err := app.Handle(ev)
		if err != nil || !quit {
			t.Errorf("quit = %v, err = %v", quit, err)
		}
	}
}

func TestNewRejectsTinyScreens(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(5, 3)

	if _, err := New(screen, drag.DefaultOptions(), nil); err == nil {
		t.Error("expected an error for a 5x3 screen")
	}
}
