package canvas

import (
	"github.com/craftpage/craftpage/backend-go/internal/document"
)

// RectProvider yields canvas-space bounding rectangles for nodes. The
// gesture controllers and snap grid depend on this interface rather than
// live layout queries, so the whole interaction engine runs headless; a
// browser frontend can substitute a provider backed by real layout when
// flow-positioned children need measured rects.
type RectProvider interface {
	// CanvasRect returns the node's axis-aligned bounding box in canvas
	// space, or ok=false when the node is unknown (removed mid-gesture).
	CanvasRect(id string) (Rect, bool)
}

// Geometry is the full provider surface the gesture controllers consume:
// bounding rects plus the unrotated local measurements they are derived
// from. StoreGeometry is the default implementation.
type Geometry interface {
	RectProvider
	// LocalPosition is the node's parent-local unrotated position in px.
	LocalPosition(id string) (float64, float64)
	// SizePx is the node's unrotated dimensions in px.
	SizePx(id string) (float64, float64)
	// ParentOrigin is the canvas-space origin of the parent content box.
	ParentOrigin(id string) (float64, float64)
	// ParentSize is the parent content-box dimensions in px.
	ParentSize(id string) (float64, float64)
	// Rotation is the node's own rotation in degrees.
	Rotation(id string) float64
}

// StoreGeometry computes canvas rects from the document store alone by
// composing each ancestor's translation and rotation into an affine
// matrix, then taking the bounding box of the node's transformed frame.
type StoreGeometry struct {
	store *document.Store
}

// NewStoreGeometry returns a provider reading from the given store.
func NewStoreGeometry(store *document.Store) *StoreGeometry {
	return &StoreGeometry{store: store}
}

// CanvasRect implements RectProvider.
func (g *StoreGeometry) CanvasRect(id string) (Rect, bool) {
	if !g.store.Exists(id) {
		return Rect{}, false
	}
	w, h := g.sizePx(id)
	m := g.worldMatrix(id)
	return m.TransformRect(RectFromSize(0, 0, w, h)), true
}

// LocalPosition returns the node's parent-local unrotated position in
// pixels, resolving percent values against the parent content box.
func (g *StoreGeometry) LocalPosition(id string) (float64, float64) {
	pw, ph := g.parentSize(id)
	left := ParseValue(g.store.StyleValue(id, "left")).Px(pw)
	top := ParseValue(g.store.StyleValue(id, "top")).Px(ph)
	return left, top
}

// SizePx returns the node's unrotated dimensions in pixels.
func (g *StoreGeometry) SizePx(id string) (float64, float64) {
	return g.sizePx(id)
}

// ParentOrigin returns the canvas-space origin of the node's parent
// content box. Nodes without a parent are positioned directly in canvas
// space, so the origin is (0, 0).
func (g *StoreGeometry) ParentOrigin(id string) (float64, float64) {
	parent, ok := g.store.GetParent(id)
	if !ok {
		return 0, 0
	}
	m := g.worldMatrix(parent)
	return m.TransformPoint(0, 0)
}

// ParentSize returns the parent content-box dimensions in pixels, falling
// back to the page size for root-level nodes.
func (g *StoreGeometry) ParentSize(id string) (float64, float64) {
	return g.parentSize(id)
}

// Rotation returns the node's own rotation in degrees.
func (g *StoreGeometry) Rotation(id string) float64 {
	return ParseAngle(g.store.StyleValue(id, "rotate"))
}

// worldMatrix maps the node's local frame to canvas space: the parent's
// world matrix, then the node's translation, then its rotation about its
// own center.
func (g *StoreGeometry) worldMatrix(id string) Matrix2D {
	m := Identity()
	if parent, ok := g.store.GetParent(id); ok {
		m = g.worldMatrix(parent)
	}

	left, top := g.LocalPosition(id)
	m = m.Multiply(Translate(left, top))

	if deg := g.Rotation(id); deg != 0 {
		w, h := g.sizePx(id)
		m = m.Multiply(RotateAbout(w/2, h/2, deg))
	}
	return m
}

func (g *StoreGeometry) sizePx(id string) (float64, float64) {
	pw, ph := g.parentSize(id)
	w := ParseValue(g.store.StyleValue(id, "width")).Px(pw)
	h := ParseValue(g.store.StyleValue(id, "height")).Px(ph)
	return w, h
}

func (g *StoreGeometry) parentSize(id string) (float64, float64) {
	parent, ok := g.store.GetParent(id)
	if !ok {
		return g.store.PageSize()
	}
	return g.sizePx(parent)
}
