package canvas

import (
	"github.com/craftpage/craftpage/backend-go/internal/document"
)

// draggedNode is the per-node state captured at pointer-down.
type draggedNode struct {
	id string

	// Grab offset in the node's unrotated local frame. Storing it local
	// keeps the grab point visually fixed under the cursor even if the
	// node's rotation changes mid-gesture: the forward rotation at the
	// current angle recovers the right canvas offset every frame.
	offsetX, offsetY float64

	startCanvasX, startCanvasY float64 // unrotated top-left at begin
	parentOriginX, parentOriginY float64
	width, height              float64
}

// DragController owns the move gesture: idle → dragging → idle. Positions
// are previewed through the overlay every frame and committed to the
// store exactly once, on End. Cancel discards the preview entirely.
type DragController struct {
	store   *document.Store
	geo     Geometry
	overlay *Overlay

	active    bool
	nodes     []draggedNode
	grid      *SnapGrid
	threshold float64

	// Last previewed parent-local positions, flushed on End.
	pending map[string][2]float64
}

// NewDragController wires a drag controller to its collaborators.
func NewDragController(store *document.Store, geo Geometry, overlay *Overlay) *DragController {
	return &DragController{store: store, geo: geo, overlay: overlay}
}

// Active reports whether a drag gesture is in progress.
func (d *DragController) Active() bool { return d.active }

// Begin starts a drag of the given nodes at the pointer's canvas
// position. Locked nodes are silently excluded; if nothing draggable
// remains, the gesture does not start. The snap grid is built once here,
// from the supplied stationary candidates, and only queried afterwards.
func (d *DragController) Begin(ids []string, canvasX, canvasY float64, grid *SnapGrid, threshold float64) bool {
	if d.active {
		return false
	}

	d.nodes = d.nodes[:0]
	for _, id := range ids {
		if d.store.IsLocked(id) || !d.store.Exists(id) {
			continue
		}
		px, py := d.geo.ParentOrigin(id)
		left, top := d.geo.LocalPosition(id)
		w, h := d.geo.SizePx(id)
		rotation := d.geo.Rotation(id)

		cx, cy := px+left, py+top
		ox, oy := InverseRotate(canvasX-cx, canvasY-cy, rotation)

		d.nodes = append(d.nodes, draggedNode{
			id:            id,
			offsetX:       ox,
			offsetY:       oy,
			startCanvasX:  cx,
			startCanvasY:  cy,
			parentOriginX: px,
			parentOriginY: py,
			width:         w,
			height:        h,
		})
	}

	if len(d.nodes) == 0 {
		return false
	}

	d.active = true
	d.grid = grid
	d.threshold = threshold
	d.pending = make(map[string][2]float64, len(d.nodes))
	return true
}

// Move advances the gesture to the pointer's canvas position: the primary
// node's tentative rect is snapped against the grid, and every dragged
// node is previewed at the resulting common delta so relative layout is
// preserved. Nothing is written to the store.
func (d *DragController) Move(canvasX, canvasY float64) {
	if !d.active {
		return
	}

	primary := &d.nodes[0]

	// Forward-rotate the stored local offset at the node's current
	// rotation; the rotation may have changed since Begin.
	rotation := d.geo.Rotation(primary.id)
	offX, offY := Rotate(primary.offsetX, primary.offsetY, rotation)
	newX := canvasX - offX
	newY := canvasY - offY

	tentative := RectFromSize(newX, newY, primary.width, primary.height)
	points := []SnapPoint{
		{tentative.Left, SnapLeft},
		{tentative.Right, SnapRight},
		{tentative.CenterX(), SnapCenterX},
		{tentative.Top, SnapTop},
		{tentative.Bottom, SnapBottom},
		{tentative.CenterY(), SnapCenterY},
	}

	if d.grid != nil {
		res := d.grid.FindNearestSnaps(points, tentative, d.threshold, primary.id)
		if res.Vertical != nil {
			newX += res.Vertical.Position - pointValue(points, res.Vertical.Kind)
		} else if res.HorizontalSpacing != nil {
			newX += res.HorizontalSpacing.Offset
		}
		if res.Horizontal != nil {
			newY += res.Horizontal.Position - pointValue(points, res.Horizontal.Kind)
		} else if res.VerticalSpacing != nil {
			newY += res.VerticalSpacing.Offset
		}
		d.overlay.SetGuides(res.Guides)
	}

	dx := newX - primary.startCanvasX
	dy := newY - primary.startCanvasY

	for i := range d.nodes {
		n := &d.nodes[i]
		cx := n.startCanvasX + dx
		cy := n.startCanvasY + dy
		d.pending[n.id] = [2]float64{cx - n.parentOriginX, cy - n.parentOriginY}
		d.overlay.DragPositions[n.id] = Point{X: cx, Y: cy}
	}
}

// End commits the last previewed positions to the store, one update per
// node, and clears the gesture. Committing twice is harmless: the writes
// are absolute values, not deltas.
func (d *DragController) End() {
	if !d.active {
		return
	}
	for _, n := range d.nodes {
		pos, ok := d.pending[n.id]
		if !ok {
			continue
		}
		d.store.UpdateStyle(n.id, map[string]string{
			"left": FormatPx(clampFinite(pos[0])),
			"top":  FormatPx(clampFinite(pos[1])),
		})
	}
	d.clear()
}

// Cancel abandons the gesture without committing the preview. Panning or
// leaving the canvas mid-drag routes here.
func (d *DragController) Cancel() {
	if !d.active {
		return
	}
	d.clear()
}

func (d *DragController) clear() {
	d.active = false
	d.nodes = d.nodes[:0]
	d.grid = nil
	d.pending = nil
	d.overlay.Reset()
}

// pointValue fetches the candidate point of the given kind.
func pointValue(points []SnapPoint, kind PointKind) float64 {
	for _, p := range points {
		if p.Kind == kind {
			return p.Value
		}
	}
	return 0
}
