package playground

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/geometry"
)

type InputKind int

const (
	InputNone InputKind = iota
	InputPickUp
	InputMove
	InputPutBack
)

// Input is a mouse event translated into drag terms.
type Input struct {
	Kind     InputKind
	Position geometry.Point
	Button   int
}

// MouseTracker turns tcell's button state reports into press, drag and
// release transitions.
type MouseTracker struct {
	down bool
}

func (m *MouseTracker) Map(ev *tcell.EventMouse) Input {
	col, row := ev.Position()
	in := Input{Position: CellCenter(col, row)}
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.Button1 != 0 && !m.down:
		m.down = true
		in.Kind = InputPickUp
	case buttons&tcell.Button1 != 0:
		in.Kind = InputMove
	case buttons&tcell.Button2 != 0 && !m.down:
		// Delivered so the draggable can refuse it.
		in.Kind = InputPickUp
		in.Button = drag.ButtonSecondary
	case m.down && buttons == tcell.ButtonNone:
		m.down = false
		in.Kind = InputPutBack
	}
	return in
}

type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandToggleConstrain
	CommandReset
	CommandRotateLeft
	CommandRotateRight
)

func MapKey(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CommandQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return CommandQuit
		case 'c':
			return CommandToggleConstrain
		case 'r':
			return CommandReset
		case '[':
			return CommandRotateLeft
		case ']':
			return CommandRotateRight
		}
	}
	return CommandNone
}
