// Package playground is a terminal app for trying the drag engine by hand:
// a boundary and a draggable card drawn with tcell, driven by the mouse.
package playground

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
	"github.com/dragdom/dragdom/internal/scene"
)

const (
	boundaryID = "board"
	elementID  = "card"

	rotationStep = 15.0
)

var (
	styleBoundary = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	styleElement  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleOverflow = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

type App struct {
	screen    tcell.Screen
	scene     *scene.Scene
	draggable *drag.Draggable
	mouse     MouseTracker
	logger    *slog.Logger

	// last is the most recent bounds result, shown in the status line.
	last *engine.BoundsCheckResult
	err  error
}

// New lays out a boundary filling most of the screen with a card at its
// center. The screen must already be initialized.
func New(screen tcell.Screen, opts drag.Options, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cols, rows := screen.Size()
	if cols < 10 || rows < 6 {
		return nil, fmt.Errorf("terminal too small: %dx%d", cols, rows)
	}
	center := geometry.Pt(float64(cols)/2, float64(rows-1)*cellHeight/2)

	s, err := scene.New(
		scene.Node{
			ID:     boundaryID,
			Center: center,
			Width:  float64(cols) * 0.6,
			Height: float64(rows-1) * cellHeight * 0.6,
		},
		scene.Node{
			ID:     elementID,
			Parent: boundaryID,
			Center: center,
			Width:  10,
			Height: 8,
		},
	)
	if err != nil {
		return nil, err
	}

	a := &App{screen: screen, scene: s, logger: logger}
	a.draggable = drag.NewDraggable(elementID, opts, drag.ListenerFuncs{
		Effect: func(e drag.Effect) {
			if err := a.scene.Apply(elementID, e); err != nil {
				a.err = err
			}
		},
		Event: func(e drag.Event) {
			if e.Kind == drag.EventEdge {
				a.last = e.Bounds
			}
		},
	}, logger)
	return a, nil
}

// Run draws and handles events until the user quits or ctx is done. The
// caller owns the screen and finalizes it.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	a.screen.HideCursor()
	a.Draw()

	stop := context.AfterFunc(ctx, func() {
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}

		quit, err := a.Handle(ev)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		a.Draw()
	}
}

// Handle applies one terminal event. It reports whether the app should quit.
func (a *App) Handle(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventMouse:
		if err := a.handleMouse(a.mouse.Map(ev)); err != nil {
			return false, err
		}
	case *tcell.EventKey:
		return a.handleCommand(MapKey(ev))
	}
	return false, nil
}

func (a *App) frame() (drag.Frame, error) {
	return a.scene.Frame(elementID, boundaryID)
}

func (a *App) handleMouse(in Input) error {
	if in.Kind == InputNone {
		return nil
	}
	f, err := a.frame()
	if err != nil {
		return err
	}

	p := drag.Pointer{Position: in.Position, Target: elementID, Button: in.Button}
	switch in.Kind {
	case InputPickUp:
		// Only presses on the card pick it up.
		if !engine.PointInsideBoundary(in.Position, f.Element) {
			return nil
		}
		a.draggable.PickUp(f, p)
	case InputMove:
		a.draggable.Move(f, p)
	case InputPutBack:
		a.draggable.PutBack(f)
	}
	return a.takeErr()
}

func (a *App) handleCommand(cmd Command) (bool, error) {
	switch cmd {
	case CommandQuit:
		return true, nil
	case CommandToggleConstrain:
		opts := a.draggable.Options()
		opts.ConstrainByBounds = !opts.ConstrainByBounds
		a.draggable.SetOptions(opts)
	case CommandReset:
		a.draggable.Reset()
		a.last = nil
	case CommandRotateLeft, CommandRotateRight:
		if a.draggable.IsMoving() {
			return false, nil
		}
		step := rotationStep
		if cmd == CommandRotateLeft {
			step = -step
		}
		n, err := a.scene.Node(boundaryID)
		if err != nil {
			return false, err
		}
		if err := a.scene.SetRotation(boundaryID, n.Rotation+step); err != nil {
			return false, err
		}
	}
	return false, a.takeErr()
}

func (a *App) takeErr() error {
	err := a.err
	a.err = nil
	return err
}

// Draw renders the scene and the status line.
func (a *App) Draw() {
	a.screen.Clear()
	cols, rows := a.screen.Size()

	f, err := a.frame()
	if err != nil {
		a.logger.Error("resolve frame", "error", err)
		return
	}

	grid := Rasterize(cols, rows-1, f)
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			switch grid.At(col, row) {
			case CellBoundary:
				a.screen.SetContent(col, row, '·', nil, styleBoundary)
			case CellElement:
				a.screen.SetContent(col, row, '█', nil, styleElement)
			case CellOverflow:
				a.screen.SetContent(col, row, '▓', nil, styleOverflow)
			}
		}
	}

	status := []rune(a.Status())
	for col := 0; col < cols; col++ {
		r := ' '
		if col < len(status) {
			r = status[col]
		}
		a.screen.SetContent(col, rows-1, r, nil, styleStatus)
	}
	a.screen.Show()
}

// Status is the text of the bottom line.
func (a *App) Status() string {
	constrain := "off"
	if a.draggable.Options().ConstrainByBounds {
		constrain = "on"
	}
	board, _ := a.scene.Node(boundaryID)
	card, _ := a.scene.Node(elementID)

	return fmt.Sprintf(" edges: %s | constrain: %s | rotation: %g° | offset: %.1f,%.1f | c constrain  r reset  [ ] rotate  q quit",
		edgeList(a.last), constrain, board.Rotation, card.Translation.X, card.Translation.Y)
}

func edgeList(r *engine.BoundsCheckResult) string {
	if r == nil || !r.HasCollision() {
		return "none"
	}
	var edges []string
	if r.Top {
		edges = append(edges, "top")
	}
	if r.Right {
		edges = append(edges, "right")
	}
	if r.Bottom {
		edges = append(edges, "bottom")
	}
	if r.Left {
		edges = append(edges, "left")
	}
	return strings.Join(edges, ",")
}

// Translation is the card's current offset, for tests and the CLI summary.
func (a *App) Translation() geometry.Point {
	n, _ := a.scene.Node(elementID)
	return n.Translation
}
