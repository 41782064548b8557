package canvas

import (
	"math"

	"github.com/craftpage/craftpage/backend-go/internal/document"
)

// DropPosition says where a dragged node would be inserted relative to
// the resolved target.
type DropPosition string

const (
	DropBefore DropPosition = "before"
	DropAfter  DropPosition = "after"
	DropInside DropPosition = "inside"
)

// DropInfo is the resolver's answer, consumed by the commit step on drop.
type DropInfo struct {
	TargetID  string       `json:"targetId"`
	Position  DropPosition `json:"position"`
	Index     int          `json:"index"`
	SiblingID string       `json:"siblingId,omitempty"`
}

// A sibling boundary closer than this to the pointer produces a
// before/after insertion; anything farther falls through to "inside".
const edgeThreshold = 10.0

// DropResolver determines, on every pointer-move of a canvas drag, which
// frame the pointer is over and where among its children the dragged node
// would land. It also produces the line-indicator rect for the overlay.
type DropResolver struct {
	store *document.Store
	geo   Geometry
}

// NewDropResolver wires a resolver to the store and geometry provider.
func NewDropResolver(store *document.Store, geo Geometry) *DropResolver {
	return &DropResolver{store: store, geo: geo}
}

// Resolve hit-tests the deepest frame under the pointer, excluding the
// dragged node and its descendants, and computes the insertion point
// among that frame's flow children. ok is false when no frame is hit, in
// which case the caller clears all indicators.
func (r *DropResolver) Resolve(canvasX, canvasY float64, draggedID string) (DropInfo, LineIndicator, bool) {
	frameID, frameRect, ok := r.hitFrame(canvasX, canvasY, draggedID)
	if !ok {
		return DropInfo{}, LineIndicator{}, false
	}

	// Flow children only: absolutely positioned children don't take part
	// in insertion order, and the dragged node must not offer itself as
	// its own sibling.
	type sibling struct {
		id   string
		rect Rect
	}
	var siblings []sibling
	for _, childID := range r.store.GetChildren(frameID) {
		if childID == draggedID || r.store.IsAbsolute(childID) || r.store.IsHidden(childID) {
			continue
		}
		rect, ok := r.geo.CanvasRect(childID)
		if !ok {
			continue
		}
		siblings = append(siblings, sibling{id: childID, rect: rect})
	}

	// Nearest sibling boundary to the pointer wins; past the threshold
	// the drop appends inside the frame.
	bestDist := math.Inf(1)
	bestIdx := -1
	bestAfter := false
	var bestEdge float64
	for i, sib := range siblings {
		if d := math.Abs(canvasY - sib.rect.Top); d < bestDist {
			bestDist, bestIdx, bestAfter, bestEdge = d, i, false, sib.rect.Top
		}
		if d := math.Abs(canvasY - sib.rect.Bottom); d < bestDist {
			bestDist, bestIdx, bestAfter, bestEdge = d, i, true, sib.rect.Bottom
		}
	}

	if bestIdx >= 0 && bestDist <= edgeThreshold {
		sib := siblings[bestIdx]
		info := DropInfo{TargetID: frameID, SiblingID: sib.id}
		if bestAfter {
			info.Position = DropAfter
			info.Index = r.childIndex(frameID, sib.id, draggedID) + 1
		} else {
			info.Position = DropBefore
			info.Index = r.childIndex(frameID, sib.id, draggedID)
		}
		indicator := LineIndicator{
			Show:   true,
			X:      frameRect.Left,
			Y:      bestEdge,
			Width:  frameRect.Width(),
			Height: 2,
		}
		return info, indicator, true
	}

	info := DropInfo{
		TargetID: frameID,
		Position: DropInside,
		Index:    len(r.store.GetChildren(frameID)),
	}
	return info, LineIndicator{}, true
}

// hitFrame finds the deepest frame containing the point that is neither
// the dragged node nor inside its subtree.
func (r *DropResolver) hitFrame(x, y float64, draggedID string) (string, Rect, bool) {
	excluded := map[string]bool{draggedID: true}
	for _, id := range r.store.Descendants(draggedID) {
		excluded[id] = true
	}

	var bestID string
	var bestRect Rect
	bestDepth := -1

	for _, id := range r.store.NodeIDs() {
		if excluded[id] || r.store.NodeType(id) != document.NodeTypeFrame || r.store.IsHidden(id) {
			continue
		}
		rect, ok := r.geo.CanvasRect(id)
		if !ok || !rect.Contains(x, y) {
			continue
		}
		if depth := r.depth(id); depth > bestDepth {
			bestDepth = depth
			bestID = id
			bestRect = rect
		}
	}

	return bestID, bestRect, bestDepth >= 0
}

func (r *DropResolver) depth(id string) int {
	d := 0
	cur := id
	for {
		parent, ok := r.store.GetParent(cur)
		if !ok {
			return d
		}
		d++
		cur = parent
	}
}

// childIndex is the position childID will occupy once draggedID has been
// removed from the parent; Reparent removes before inserting, so indices
// must not count the dragged node.
func (r *DropResolver) childIndex(parentID, childID, draggedID string) int {
	idx := 0
	for _, id := range r.store.GetChildren(parentID) {
		if id == draggedID {
			continue
		}
		if id == childID {
			return idx
		}
		idx++
	}
	return idx
}
