package canvas

import (
	"math"

	"github.com/craftpage/craftpage/backend-go/internal/document"
)

// Movement below this many screen pixels between down and up is a click,
// not a box selection.
const clickThreshold = 5.0

// SelectionBox is the rubber-band multi-select gesture: a screen-space
// rectangle anchored at pointer-down, converted to canvas space each
// frame and intersection-tested against every selectable node.
type SelectionBox struct {
	store *document.Store
	geo   RectProvider

	active         bool
	anchorX        float64 // screen space
	anchorY        float64
	currentX       float64
	currentY       float64
	temp           []string
}

// NewSelectionBox wires the gesture to the store and geometry provider.
func NewSelectionBox(store *document.Store, geo RectProvider) *SelectionBox {
	return &SelectionBox{store: store, geo: geo}
}

// Active reports whether a box selection is in progress.
func (s *SelectionBox) Active() bool { return s.active }

// Begin anchors the box at a pointer-down on empty canvas.
func (s *SelectionBox) Begin(screenX, screenY float64) {
	s.active = true
	s.anchorX, s.anchorY = screenX, screenY
	s.currentX, s.currentY = screenX, screenY
	s.temp = nil
}

// Move updates the box and recomputes the tentative selection for live
// highlight feedback. The root frame never selects itself; locked and
// hidden nodes are skipped. Intersection is exclusive: a node touching
// the box only along a shared edge is not selected.
func (s *SelectionBox) Move(screenX, screenY float64, vp *Viewport) []string {
	if !s.active {
		return nil
	}
	s.currentX, s.currentY = screenX, screenY

	box := s.canvasBox(vp)
	s.temp = s.temp[:0]
	root := s.store.RootID()
	for _, id := range s.store.NodeIDs() {
		if id == root || s.store.IsLocked(id) || s.store.IsHidden(id) {
			continue
		}
		rect, ok := s.geo.CanvasRect(id)
		if !ok {
			continue
		}
		if box.Intersects(rect) {
			s.temp = append(s.temp, id)
		}
	}
	return s.temp
}

// End finishes the gesture. click is true when total movement stayed
// under the click threshold, in which case the caller deselects instead
// of committing; otherwise ids is the final selection.
func (s *SelectionBox) End() (ids []string, click bool) {
	if !s.active {
		return nil, false
	}
	s.active = false

	moved := math.Hypot(s.currentX-s.anchorX, s.currentY-s.anchorY)
	if moved < clickThreshold {
		s.temp = nil
		return nil, true
	}
	ids = s.temp
	s.temp = nil
	return ids, false
}

// Cancel drops the gesture without committing anything.
func (s *SelectionBox) Cancel() {
	s.active = false
	s.temp = nil
}

// Box returns the current selection rectangle in canvas space, for the
// overlay to render.
func (s *SelectionBox) Box(vp *Viewport) Rect {
	return s.canvasBox(vp)
}

func (s *SelectionBox) canvasBox(vp *Viewport) Rect {
	x0, y0 := vp.ToCanvas(s.anchorX, s.anchorY)
	x1, y1 := vp.ToCanvas(s.currentX, s.currentY)
	return Rect{
		Left:   min(x0, x1),
		Top:    min(y0, y1),
		Right:  max(x0, x1),
		Bottom: max(y0, y1),
	}
}
