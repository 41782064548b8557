//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/craftpage/craftpage/backend-go/internal/canvas"
)

var eng *canvas.Engine

func main() {
	eng = canvas.NewEngine()

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("updateDocument", js.FuncOf(updateDocument))
	api.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("pointerLeave", js.FuncOf(pointerLeave))
	api.Set("beginResize", js.FuncOf(beginResize))
	api.Set("wheel", js.FuncOf(wheel))
	api.Set("setSelection", js.FuncOf(setSelection))

	// --- Queries (frontend ← backend) ---
	api.Set("getOverlay", js.FuncOf(getOverlay))
	api.Set("getViewport", js.FuncOf(getViewport))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("getNodeRect", js.FuncOf(getNodeRect))
	api.Set("getResizeDirection", js.FuncOf(getResizeDirection))

	js.Global().Set("craftpageEngine", api)
	js.Global().Set("craftpageWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	if err := eng.LoadDocument(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func updateDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	if err := eng.UpdateDocument(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	projectID := "proj_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		projectID = args[0].String()
	}

	eng.LoadSampleDocument(projectID)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// pointerDown(x, y, button, targetId)
func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return nil
	}
	x := args[0].Float()
	y := args[1].Float()
	button := canvas.Button(args[2].Int())
	targetID := args[3].String()
	eng.PointerDown(x, y, button, targetID)
	return nil
}

// pointerMove(x, y, shift)
func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	shift := len(args) > 2 && args[2].Truthy()
	eng.PointerMove(args[0].Float(), args[1].Float(), shift)
	return nil
}

// pointerUp(x, y, button)
func pointerUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	button := canvas.ButtonLeft
	if len(args) > 2 {
		button = canvas.Button(args[2].Int())
	}
	eng.PointerUp(args[0].Float(), args[1].Float(), button)
	return nil
}

func pointerLeave(this js.Value, args []js.Value) interface{} {
	eng.PointerLeave()
	return nil
}

// beginResize(handle, x, y)
func beginResize(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(false)
	}
	handle, ok := canvas.ParseHandle(args[0].String())
	if !ok {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.BeginResize(handle, args[1].Float(), args[2].Float()))
}

// wheel(x, y, deltaX, deltaY, ctrl)
func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return nil
	}
	ctrl := len(args) > 4 && args[4].Truthy()
	eng.Wheel(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float(), ctrl)
	return nil
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	if arr.Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

// --- Query Handlers ---

func getOverlay(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.OverlayJSON())
}

func getViewport(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.ViewportJSON())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.SelectionJSON())
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.DocumentJSON())
}

func getNodeRect(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("{}")
	}
	return js.ValueOf(eng.NodeRectJSON(args[0].String()))
}

func getResizeDirection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.ResizeDirection())
}
