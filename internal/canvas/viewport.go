package canvas

// Viewport holds the pan/zoom state of one canvas view. Node geometry is
// expressed in canvas space; pointer events arrive in screen space relative
// to the canvas container. The two are related by
//
//	screen = canvas*Scale + translation
//
// so every interactive operation converts through the same pair of
// functions and stays reversible.
type Viewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

const (
	minScale = 0.1
	maxScale = 8.0
)

// NewViewport returns a viewport at the origin with no zoom.
func NewViewport() *Viewport {
	return &Viewport{Scale: 1}
}

// ToCanvas converts a container-relative screen position to canvas space.
func (v *Viewport) ToCanvas(screenX, screenY float64) (float64, float64) {
	return (screenX - v.X) / v.Scale, (screenY - v.Y) / v.Scale
}

// ToScreen converts a canvas-space position to container-relative screen space.
func (v *Viewport) ToScreen(canvasX, canvasY float64) (float64, float64) {
	return canvasX*v.Scale + v.X, canvasY*v.Scale + v.Y
}

// Pan shifts the translation by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.X += dx
	v.Y += dy
}

// ZoomAt rescales the viewport by factor, keeping the canvas point under
// the given screen position stationary. The scale is clamped, and the
// translation compensated with the effective factor so the pivot holds
// even when clamping kicks in.
func (v *Viewport) ZoomAt(screenX, screenY, factor float64) {
	next := v.Scale * factor
	if next < minScale {
		next = minScale
	}
	if next > maxScale {
		next = maxScale
	}
	effective := next / v.Scale
	v.X = screenX + (v.X-screenX)*effective
	v.Y = screenY + (v.Y-screenY)*effective
	v.Scale = next
}

// WheelZoom applies one wheel tick at the given screen position. Negative
// deltas (scrolling up) zoom in by 1.1, positive deltas zoom out by 0.9.
func (v *Viewport) WheelZoom(screenX, screenY, deltaY float64) {
	if deltaY < 0 {
		v.ZoomAt(screenX, screenY, 1.1)
	} else if deltaY > 0 {
		v.ZoomAt(screenX, screenY, 0.9)
	}
}
