package canvas

import (
	"math"

	"github.com/craftpage/craftpage/backend-go/internal/document"
)

// Handle identifies which of the eight resize handles a gesture grabbed.
type Handle int

const (
	HandleTop Handle = iota
	HandleBottom
	HandleLeft
	HandleRight
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

// signs decomposes a handle into per-axis directions: -1 for left/top
// edges, +1 for right/bottom, 0 for an inactive axis.
func (h Handle) signs() (x, y int) {
	switch h {
	case HandleTop:
		return 0, -1
	case HandleBottom:
		return 0, 1
	case HandleLeft:
		return -1, 0
	case HandleRight:
		return 1, 0
	case HandleTopLeft:
		return -1, -1
	case HandleTopRight:
		return 1, -1
	case HandleBottomLeft:
		return -1, 1
	default:
		return 1, 1
	}
}

func handleFromSigns(x, y int) Handle {
	switch {
	case x == 0 && y < 0:
		return HandleTop
	case x == 0:
		return HandleBottom
	case y == 0 && x < 0:
		return HandleLeft
	case y == 0:
		return HandleRight
	case x < 0 && y < 0:
		return HandleTopLeft
	case x > 0 && y < 0:
		return HandleTopRight
	case x < 0:
		return HandleBottomLeft
	default:
		return HandleBottomRight
	}
}

// IsCorner reports whether both axes are active.
func (h Handle) IsCorner() bool {
	x, y := h.signs()
	return x != 0 && y != 0
}

const (
	// Shift on a single-edge drag rounds the delta to this increment.
	resizeIncrement = 100.0
	// Below this movement on the active axis, guide and snap work is
	// skipped for the frame to avoid spurious guides on a still pointer.
	minResizeMove = 1.0
)

// resizeSession is one node's snapshot at gesture start. Nothing here is
// re-read from the geometry provider mid-gesture; feeding the provider's
// output back into the next frame's input would oscillate.
type resizeSession struct {
	id string

	startWidth, startHeight float64
	startLeft, startTop     float64
	xSign, ySign            int

	// Gesture-start pointer in canvas space, re-baselined per node when a
	// dimension crosses zero and the handle flips.
	startPointerX, startPointerY float64

	parentOriginX, parentOriginY float64
	parentWidth, parentHeight    float64
	absolute                     bool
	percentWidth, percentHeight  bool
	ratio                        float64 // width/height at gesture start
}

// ResizeController owns the resize gesture for one or more selected
// nodes. Style patches are applied to the store every frame (the
// surrounding recording session makes the whole gesture one undo step);
// transient guides and the dimension readout go through the overlay.
type ResizeController struct {
	store   *document.Store
	geo     Geometry
	overlay *Overlay

	active    bool
	handle    Handle
	sessions  []resizeSession
	maxWidth  float64
	maxHeight float64
	grid      *SnapGrid
	threshold float64
}

// NewResizeController wires a resize controller to its collaborators.
func NewResizeController(store *document.Store, geo Geometry, overlay *Overlay) *ResizeController {
	return &ResizeController{store: store, geo: geo, overlay: overlay}
}

// Active reports whether a resize gesture is in progress.
func (r *ResizeController) Active() bool { return r.active }

// Direction returns the externally visible resize direction. It mutates
// mid-gesture when a dimension crosses zero and the handle flips.
func (r *ResizeController) Direction() Handle { return r.handle }

// Begin snapshots every unlocked node in the selection and starts the
// gesture. Returns false if nothing resizable remains.
func (r *ResizeController) Begin(ids []string, handle Handle, canvasX, canvasY float64, grid *SnapGrid, threshold float64) bool {
	if r.active {
		return false
	}

	xSign, ySign := handle.signs()
	r.sessions = r.sessions[:0]
	r.maxWidth, r.maxHeight = 0, 0

	for _, id := range ids {
		if r.store.IsLocked(id) || !r.store.Exists(id) {
			continue
		}
		w, h := r.geo.SizePx(id)
		left, top := r.geo.LocalPosition(id)
		px, py := r.geo.ParentOrigin(id)
		pw, ph := r.geo.ParentSize(id)

		style, _ := r.store.GetStyle(id)
		ratio := 1.0
		if h != 0 {
			ratio = w / h
		}

		r.sessions = append(r.sessions, resizeSession{
			id:            id,
			startWidth:    w,
			startHeight:   h,
			startLeft:     left,
			startTop:      top,
			xSign:         xSign,
			ySign:         ySign,
			startPointerX: canvasX,
			startPointerY: canvasY,
			parentOriginX: px,
			parentOriginY: py,
			parentWidth:   pw,
			parentHeight:  ph,
			absolute:      r.store.IsAbsolute(id) || !r.hasParent(id),
			percentWidth:  ParseValue(style["width"]).IsPercent(),
			percentHeight: ParseValue(style["height"]).IsPercent(),
			ratio:         ratio,
		})

		r.maxWidth = max(r.maxWidth, w)
		r.maxHeight = max(r.maxHeight, h)
	}

	if len(r.sessions) == 0 {
		return false
	}

	r.active = true
	r.handle = handle
	r.grid = grid
	r.threshold = threshold
	return true
}

// Move advances the gesture one frame. shift locks the aspect ratio on
// corner handles and rounds single-edge deltas to the fixed increment.
func (r *ResizeController) Move(canvasX, canvasY float64, shift bool) {
	if !r.active {
		return
	}

	var guides []SnapLine

	for i := range r.sessions {
		s := &r.sessions[i]

		dx := canvasX - s.startPointerX
		dy := canvasY - s.startPointerY

		singleEdge := !r.handle.IsCorner()
		if shift && singleEdge {
			dx = math.Round(dx/resizeIncrement) * resizeIncrement
			dy = math.Round(dy/resizeIncrement) * resizeIncrement
		}
		if s.xSign == 0 {
			dx = 0
		}
		if s.ySign == 0 {
			dy = 0
		}

		// Skip guide/snap work while the pointer is effectively still on
		// the active axes.
		moved := 0.0
		if s.xSign != 0 {
			moved = math.Abs(dx)
		}
		if s.ySign != 0 {
			moved = max(moved, math.Abs(dy))
		}
		withGuides := moved >= minResizeMove

		// Group resize: scale each node's delta by its share of the
		// largest initial size so differently sized nodes keep their
		// proportions instead of receiving identical absolute deltas.
		if r.maxWidth > 0 {
			dx *= s.startWidth / r.maxWidth
		}
		if r.maxHeight > 0 {
			dy *= s.startHeight / r.maxHeight
		}

		width, height := s.startWidth, s.startHeight
		left, top := s.startLeft, s.startTop

		if s.xSign > 0 {
			width = s.startWidth + dx
		} else if s.xSign < 0 {
			width = s.startWidth - dx
			left = s.startLeft + dx
		}
		if s.ySign > 0 {
			height = s.startHeight + dy
		} else if s.ySign < 0 {
			height = s.startHeight - dy
			top = s.startTop + dy
		}

		// Corner + shift: the width drives, height re-derives from the
		// gesture-start ratio, and a top anchor re-anchors accordingly.
		if shift && r.handle.IsCorner() && s.ratio != 0 {
			height = width / s.ratio
			if s.ySign < 0 {
				top = s.startTop + (s.startHeight - height)
			}
		}

		// Zero-crossing: flip the handle, mirror the rect using the
		// flipped handle's anchor rule on the start geometry, then
		// re-baseline this node so movement continues smoothly.
		flipped := false
		if width < 0 {
			width = -width
			if s.xSign > 0 {
				left = s.startLeft + s.startWidth - width
			} else {
				left = s.startLeft
			}
			s.xSign = -s.xSign
			flipped = true
		}
		if height < 0 {
			height = -height
			if s.ySign > 0 {
				top = s.startTop + s.startHeight - height
			} else {
				top = s.startTop
			}
			s.ySign = -s.ySign
			flipped = true
		}
		if flipped {
			s.startPointerX = canvasX
			s.startPointerY = canvasY
			s.startWidth = width
			s.startHeight = height
			s.startLeft = left
			s.startTop = top
			if i == 0 {
				r.handle = handleFromSigns(s.xSign, s.ySign)
			}
		}

		// Snap correction applies to absolutely positioned nodes only:
		// flow children cannot move their edges independently anyway.
		if withGuides && r.grid != nil && s.absolute {
			left, top, width, height = r.snapEdges(s, left, top, width, height, &guides)
		}

		patch := r.stylePatch(s, left, top, width, height)
		r.store.UpdateStyle(s.id, patch)

		if i == 0 {
			r.overlay.StyleHelper = StyleHelper{
				Show:   true,
				Kind:   "size",
				X:      canvasX,
				Y:      canvasY,
				Value:  FormatPx(math.Round(width)) + " × " + FormatPx(math.Round(height)),
				Width:  width,
				Height: height,
			}
		}
	}

	r.overlay.SetGuides(guides)
}

// snapEdges pulls the actively dragged edges onto nearby alignment lines,
// compensating the dimension so the opposite edge stays anchored.
func (r *ResizeController) snapEdges(s *resizeSession, left, top, width, height float64, guides *[]SnapLine) (float64, float64, float64, float64) {
	rect := RectFromSize(s.parentOriginX+left, s.parentOriginY+top, width, height)

	var points []SnapPoint
	if s.xSign > 0 {
		points = append(points, SnapPoint{rect.Right, SnapRight})
	} else if s.xSign < 0 {
		points = append(points, SnapPoint{rect.Left, SnapLeft})
	}
	if s.ySign > 0 {
		points = append(points, SnapPoint{rect.Bottom, SnapBottom})
	} else if s.ySign < 0 {
		points = append(points, SnapPoint{rect.Top, SnapTop})
	}
	if len(points) == 0 {
		return left, top, width, height
	}

	res := r.grid.FindNearestSnaps(points, rect, r.threshold, s.id)
	*guides = append(*guides, res.Guides...)

	if res.Vertical != nil {
		switch res.Vertical.Kind {
		case SnapRight:
			width = res.Vertical.Position - s.parentOriginX - left
		case SnapLeft:
			delta := res.Vertical.Position - (s.parentOriginX + left)
			left += delta
			width -= delta
		}
	}
	if res.Horizontal != nil {
		switch res.Horizontal.Kind {
		case SnapBottom:
			height = res.Horizontal.Position - s.parentOriginY - top
		case SnapTop:
			delta := res.Horizontal.Position - (s.parentOriginY + top)
			top += delta
			height -= delta
		}
	}

	return left, top, width, height
}

// stylePatch renders only the keys the active handle implicates, in the
// unit family the node originally used.
func (r *ResizeController) stylePatch(s *resizeSession, left, top, width, height float64) map[string]string {
	patch := make(map[string]string, 4)

	if s.xSign != 0 {
		if s.percentWidth && s.parentWidth > 0 {
			patch["width"] = FormatPercent(clampFinite(width / s.parentWidth * 100))
		} else {
			patch["width"] = FormatPx(clampFinite(width))
		}
		if left != s.startLeft || s.xSign < 0 {
			patch["left"] = FormatPx(clampFinite(left))
		}
	}
	if s.ySign != 0 {
		if s.percentHeight && s.parentHeight > 0 {
			patch["height"] = FormatPercent(clampFinite(height / s.parentHeight * 100))
		} else {
			patch["height"] = FormatPx(clampFinite(height))
		}
		if top != s.startTop || s.ySign < 0 {
			patch["top"] = FormatPx(clampFinite(top))
		}
	}

	return patch
}

// End flushes the gesture: per-frame patches are already in the store, so
// this only clears transient state.
func (r *ResizeController) End() {
	if !r.active {
		return
	}
	r.clear()
}

// Cancel behaves like End; the last applied frame stands. The recording
// session around the gesture owns reverting if the user undoes.
func (r *ResizeController) Cancel() {
	if !r.active {
		return
	}
	r.clear()
}

func (r *ResizeController) clear() {
	r.active = false
	r.sessions = r.sessions[:0]
	r.grid = nil
	r.overlay.Reset()
}

func (r *ResizeController) hasParent(id string) bool {
	_, ok := r.store.GetParent(id)
	return ok
}
