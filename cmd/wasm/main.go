//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/dragdom/dragdom/internal/bridge"
	"github.com/dragdom/dragdom/internal/geometry"
	"github.com/dragdom/dragdom/internal/logging"
)

var b *bridge.Bridge

func main() {
	b = bridge.New(logging.Discard())

	// Create the engine API object
	dragdomEngine := js.Global().Get("Object").New()

	// --- Queries ---
	dragdomEngine.Set("checkBounds", js.FuncOf(checkBounds))
	dragdomEngine.Set("projectCorner", js.FuncOf(projectCorner))
	dragdomEngine.Set("rotatePoint", js.FuncOf(rotatePoint))
	dragdomEngine.Set("isInside", js.FuncOf(isInside))
	dragdomEngine.Set("parseMatrix", js.FuncOf(parseMatrix))

	// --- Draggables ---
	dragdomEngine.Set("createDraggable", js.FuncOf(createDraggable))
	dragdomEngine.Set("pickUp", js.FuncOf(pickUp))
	dragdomEngine.Set("move", js.FuncOf(move))
	dragdomEngine.Set("leave", js.FuncOf(leave))
	dragdomEngine.Set("putBack", js.FuncOf(putBack))
	dragdomEngine.Set("reset", js.FuncOf(reset))
	dragdomEngine.Set("setOptions", js.FuncOf(setOptions))
	dragdomEngine.Set("getSession", js.FuncOf(getSession))
	dragdomEngine.Set("disposeDraggable", js.FuncOf(disposeDraggable))

	// Register on global scope
	js.Global().Set("dragdomEngine", dragdomEngine)

	// Signal that WASM is ready
	js.Global().Set("dragdomWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorValue(msg string) js.Value {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

// result wraps a (json, error) pair for JavaScript: the JSON string on
// success, {error} otherwise.
func result(out string, err error) interface{} {
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(out)
}

func okOrError(err error) interface{} {
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func stringArg(args []js.Value, i int) string {
	if i >= len(args) || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

// --- Query Handlers ---

func checkBounds(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("missing request JSON")
	}
	return result(b.CheckBounds(args[0].String()))
}

func projectCorner(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorValue("usage: projectCorner(shapeJSON, handle)")
	}
	return result(b.ProjectCorner(args[0].String(), args[1].String()))
}

func rotatePoint(this js.Value, args []js.Value) interface{} {
	if len(args) < 5 {
		return errorValue("usage: rotatePoint(x, y, pivotX, pivotY, degrees)")
	}
	p := geometry.RotatePoint(
		geometry.Pt(args[0].Float(), args[1].Float()),
		geometry.Pt(args[2].Float(), args[3].Float()),
		args[4].Float(),
	)
	return js.ValueOf(map[string]interface{}{"x": p.X, "y": p.Y})
}

func isInside(this js.Value, args []js.Value) interface{} {
	if len(args) < 6 {
		return errorValue("usage: isInside(x, y, rectX, rectY, width, height)")
	}
	p := geometry.Pt(args[0].Float(), args[1].Float())
	r := geometry.Rect{X: args[2].Float(), Y: args[3].Float(), Width: args[4].Float(), Height: args[5].Float()}
	return js.ValueOf(geometry.IsInside(p, r))
}

func parseMatrix(this js.Value, args []js.Value) interface{} {
	return result(b.ParseMatrix(stringArg(args, 0)))
}

// --- Draggable Handlers ---

// createDraggable(id, optionsJSON, callback). The callback receives each
// effect and event as a JSON string.
func createDraggable(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("missing draggable id")
	}

	var sink bridge.Sink
	if len(args) > 2 && args[2].Type() == js.TypeFunction {
		callback := args[2]
		sink = func(msg string) { callback.Invoke(msg) }
	}
	return okOrError(b.CreateDraggable(args[0].String(), stringArg(args, 1), sink))
}

func pickUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorValue("usage: pickUp(id, frameJSON, pointerJSON)")
	}
	return result(b.PickUp(args[0].String(), args[1].String(), args[2].String()))
}

func move(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorValue("usage: move(id, frameJSON, pointerJSON)")
	}
	return result(b.Move(args[0].String(), args[1].String(), args[2].String()))
}

func leave(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorValue("usage: leave(id, frameJSON)")
	}
	return result(b.Leave(args[0].String(), args[1].String()))
}

func putBack(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorValue("usage: putBack(id, frameJSON)")
	}
	return result(b.PutBack(args[0].String(), args[1].String()))
}

func reset(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("missing draggable id")
	}
	return result(b.Reset(args[0].String()))
}

func setOptions(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorValue("usage: setOptions(id, optionsJSON)")
	}
	return okOrError(b.SetOptions(args[0].String(), args[1].String()))
}

func getSession(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("missing draggable id")
	}
	return result(b.Session(args[0].String()))
}

func disposeDraggable(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	b.Dispose(args[0].String())
	return nil
}
