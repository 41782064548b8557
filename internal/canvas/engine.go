package canvas

import (
	"encoding/json"

	"github.com/craftpage/craftpage/backend-go/internal/document"
)

// Button identifies which pointer button started an interaction.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// DefaultSnapThreshold is the max distance, in canvas pixels, at which an
// edge or spacing candidate snaps.
const DefaultSnapThreshold = 8.0

// Engine is the canvas editing engine owning the document store, the
// viewport, and the gesture controllers. It processes pointer and wheel
// events from the frontend and exposes query results over a JSON-string
// boundary.
//
// Gestures are mutually exclusive: starting a pan cancels an in-progress
// drag and discards its preview, and no gesture can start
// while another runs. Everything happens synchronously inside the event
// handlers, on a single goroutine.
type Engine struct {
	store   *document.Store
	geo     *StoreGeometry
	vp      *Viewport
	overlay *Overlay

	drag      *DragController
	resize    *ResizeController
	selection *SelectionBox
	drop      *DropResolver

	selected []string

	panning            bool
	panButton          Button
	lastPanX, lastPanY float64

	snapThreshold float64
}

// NewEngine creates an engine with an empty document.
func NewEngine() *Engine {
	e := &Engine{
		vp:            NewViewport(),
		overlay:       NewOverlay(),
		snapThreshold: DefaultSnapThreshold,
	}
	e.setDocument(document.NewEmptyDocument("proj_local", "Untitled", "page_1", "node_page_root"))
	return e
}

func (e *Engine) setDocument(doc *document.PageDocument) {
	e.store = document.NewStore(doc)
	e.geo = NewStoreGeometry(e.store)
	e.drag = NewDragController(e.store, e.geo, e.overlay)
	e.resize = NewResizeController(e.store, e.geo, e.overlay)
	e.selection = NewSelectionBox(e.store, e.geo)
	e.drop = NewDropResolver(e.store, e.geo)
	e.selected = nil
	e.panning = false
	e.overlay.Reset()
}

// --- Commands (frontend → engine) ---

// LoadDocument replaces the document from JSON, resetting all state.
func (e *Engine) LoadDocument(jsonData string) error {
	var doc document.PageDocument
	if err := json.Unmarshal([]byte(jsonData), &doc); err != nil {
		return err
	}
	e.setDocument(&doc)
	return nil
}

// UpdateDocument reloads the document while preserving viewport and
// selection (used when a remote collaborator's change arrives).
func (e *Engine) UpdateDocument(jsonData string) error {
	var doc document.PageDocument
	if err := json.Unmarshal([]byte(jsonData), &doc); err != nil {
		return err
	}
	selected := e.selected
	e.setDocument(&doc)
	kept := selected[:0]
	for _, id := range selected {
		if e.store.Exists(id) {
			kept = append(kept, id)
		}
	}
	e.selected = kept
	return nil
}

// LoadSampleDocument loads the built-in playground page.
func (e *Engine) LoadSampleDocument(projectID string) {
	e.setDocument(document.NewSampleDocument(projectID))
}

// PointerDown routes a pointer-down in container-relative screen
// coordinates. targetID is the node under the pointer, or "" for empty
// canvas. Middle and right buttons start a pan and cancel anything else.
func (e *Engine) PointerDown(screenX, screenY float64, button Button, targetID string) {
	if button != ButtonLeft {
		e.cancelGestures()
		e.panning = true
		e.panButton = button
		e.lastPanX, e.lastPanY = screenX, screenY
		return
	}

	if e.panning || e.drag.Active() || e.resize.Active() || e.selection.Active() {
		return
	}

	cx, cy := e.vp.ToCanvas(screenX, screenY)

	if targetID == "" || targetID == e.store.RootID() {
		e.selection.Begin(screenX, screenY)
		return
	}

	if e.store.IsLocked(targetID) {
		return
	}

	ids := e.selected
	if !contains(ids, targetID) {
		ids = []string{targetID}
		e.selected = ids
	}
	e.drag.Begin(ids, cx, cy, e.buildGrid(ids), e.snapThreshold)
}

// BeginResize starts a resize of the current selection from a handle.
// Handles live on the selection chrome, not on nodes, so the frontend
// invokes this directly rather than going through PointerDown.
func (e *Engine) BeginResize(handle Handle, screenX, screenY float64) bool {
	if e.panning || e.drag.Active() || e.resize.Active() || e.selection.Active() {
		return false
	}
	cx, cy := e.vp.ToCanvas(screenX, screenY)
	return e.resize.Begin(e.selected, handle, cx, cy, e.buildGrid(e.selected), e.snapThreshold)
}

// PointerMove advances whichever gesture is active.
func (e *Engine) PointerMove(screenX, screenY float64, shift bool) {
	switch {
	case e.panning:
		e.vp.Pan(screenX-e.lastPanX, screenY-e.lastPanY)
		e.lastPanX, e.lastPanY = screenX, screenY

	case e.drag.Active():
		cx, cy := e.vp.ToCanvas(screenX, screenY)
		e.drag.Move(cx, cy)
		e.resolveDrop(cx, cy)

	case e.resize.Active():
		cx, cy := e.vp.ToCanvas(screenX, screenY)
		e.resize.Move(cx, cy, shift)

	case e.selection.Active():
		e.selection.Move(screenX, screenY, e.vp)
	}
}

// PointerUp finishes the active gesture: drags commit their preview (and
// any pending reparent), resizes flush, selections commit or deselect.
// Only the button that started the gesture can end it.
func (e *Engine) PointerUp(screenX, screenY float64, button Button) {
	switch {
	case e.panning:
		if button == e.panButton {
			e.panning = false
		}

	case e.drag.Active():
		if button != ButtonLeft {
			return
		}
		drop := e.overlay.DropInfo
		primary := ""
		if len(e.selected) > 0 {
			primary = e.selected[0]
		}
		e.drag.End()
		if drop != nil && primary != "" {
			parent, ok := e.store.GetParent(primary)
			// Same-parent inside drops are a no-op; everything else,
			// including before/after reorders among the node's own
			// siblings, commits.
			if !ok || parent != drop.TargetID || drop.Position != DropInside {
				e.store.Reparent(primary, drop.TargetID, drop.Index)
			}
		}

	case e.resize.Active():
		if button != ButtonLeft {
			return
		}
		e.resize.End()

	case e.selection.Active():
		if button != ButtonLeft {
			return
		}
		ids, click := e.selection.End()
		if click {
			e.selected = nil
		} else {
			e.selected = ids
		}
	}
}

// PointerLeave cancels any gesture without committing; leaving the
// tracked area ends a gesture implicitly.
func (e *Engine) PointerLeave() {
	e.cancelGestures()
	e.panning = false
}

// Wheel handles zoom (with ctrl/cmd) and scroll-pan.
func (e *Engine) Wheel(screenX, screenY, deltaX, deltaY float64, ctrl bool) {
	if ctrl {
		e.vp.WheelZoom(screenX, screenY, deltaY)
		return
	}
	e.vp.Pan(-deltaX, -deltaY)
}

// SetSelection replaces the selection.
func (e *Engine) SetSelection(ids []string) {
	e.selected = ids
}

func (e *Engine) cancelGestures() {
	e.drag.Cancel()
	e.resize.Cancel()
	e.selection.Cancel()
}

// resolveDrop updates the drop indicator for the primary dragged node.
// Absolutely positioned nodes don't reparent by flow insertion, so they
// skip resolution.
func (e *Engine) resolveDrop(canvasX, canvasY float64) {
	if len(e.selected) == 0 {
		return
	}
	primary := e.selected[0]
	if e.store.IsAbsolute(primary) {
		return
	}
	info, indicator, ok := e.drop.Resolve(canvasX, canvasY, primary)
	if !ok {
		e.overlay.DropInfo = nil
		e.overlay.LineIndicator = LineIndicator{}
		return
	}
	e.overlay.DropInfo = &info
	e.overlay.LineIndicator = indicator
}

// buildGrid snapshots every visible node except the moving ones and
// their descendants. Built once per gesture, queried per frame.
func (e *Engine) buildGrid(moving []string) *SnapGrid {
	excluded := make(map[string]bool, len(moving))
	for _, id := range moving {
		excluded[id] = true
		for _, desc := range e.store.Descendants(id) {
			excluded[desc] = true
		}
	}

	var candidates []SnapCandidate
	for _, id := range e.store.NodeIDs() {
		if excluded[id] || e.store.IsHidden(id) || id == e.store.RootID() {
			continue
		}
		rect, ok := e.geo.CanvasRect(id)
		if !ok {
			continue
		}
		candidates = append(candidates, SnapCandidate{ID: id, Rect: rect})
	}
	return BuildSnapGrid(candidates)
}

// --- Queries (frontend ← engine) ---

// OverlayJSON returns the transient gesture overlay state.
func (e *Engine) OverlayJSON() string {
	data, _ := json.Marshal(e.overlay)
	return string(data)
}

// ViewportJSON returns the pan/zoom state.
func (e *Engine) ViewportJSON() string {
	data, _ := json.Marshal(e.vp)
	return string(data)
}

// SelectionJSON returns the committed selection ids.
func (e *Engine) SelectionJSON() string {
	data, _ := json.Marshal(e.selected)
	return string(data)
}

// DocumentJSON returns the full document (for sync/debugging).
func (e *Engine) DocumentJSON() string {
	data, _ := json.Marshal(e.store.Document())
	return string(data)
}

// NodeRectJSON returns the canvas-space rect of one node, or {} if the
// node is unknown.
func (e *Engine) NodeRectJSON(id string) string {
	rect, ok := e.geo.CanvasRect(id)
	if !ok {
		return "{}"
	}
	data, _ := json.Marshal(rect)
	return string(data)
}

// Viewport exposes the viewport for in-process callers (tests, server).
func (e *Engine) Viewport() *Viewport { return e.vp }

// Store exposes the document store for in-process callers.
func (e *Engine) Store() *document.Store { return e.store }

// Overlay exposes the transient overlay state.
func (e *Engine) Overlay() *Overlay { return e.overlay }

// Selection returns the committed selection ids.
func (e *Engine) Selection() []string { return e.selected }

// TempSelection returns the live rubber-band selection while the box
// gesture runs.
func (e *Engine) TempSelection(screenX, screenY float64) []string {
	if !e.selection.Active() {
		return nil
	}
	return e.selection.Move(screenX, screenY, e.vp)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ParseHandle maps the frontend's handle names onto Handle values.
func ParseHandle(name string) (Handle, bool) {
	switch name {
	case "top":
		return HandleTop, true
	case "bottom":
		return HandleBottom, true
	case "left":
		return HandleLeft, true
	case "right":
		return HandleRight, true
	case "topLeft":
		return HandleTopLeft, true
	case "topRight":
		return HandleTopRight, true
	case "bottomLeft":
		return HandleBottomLeft, true
	case "bottomRight":
		return HandleBottomRight, true
	}
	return 0, false
}

// HandleName is the inverse of ParseHandle, for exposing the live resize
// direction to the frontend (it mutates on zero-crossing flips).
func HandleName(h Handle) string {
	switch h {
	case HandleTop:
		return "top"
	case HandleBottom:
		return "bottom"
	case HandleLeft:
		return "left"
	case HandleRight:
		return "right"
	case HandleTopLeft:
		return "topLeft"
	case HandleTopRight:
		return "topRight"
	case HandleBottomLeft:
		return "bottomLeft"
	default:
		return "bottomRight"
	}
}

// ResizeDirection returns the externally visible resize direction name,
// or "" when no resize is active.
func (e *Engine) ResizeDirection() string {
	if !e.resize.Active() {
		return ""
	}
	return HandleName(e.resize.Direction())
}
