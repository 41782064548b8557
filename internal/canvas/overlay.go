package canvas

// Overlay is the transient visual state a render layer subscribes to
// during gestures: snap guides, the drop line indicator, the floating
// size/gap readout, and per-frame preview positions of dragged nodes.
//
// It is owned by the Engine and passed explicitly into the controllers
// that write it; nothing here is committed state. Clearing the overlay at
// any point costs at most one frame without a guide.
type Overlay struct {
	Guides        []SnapLine          `json:"snapGuides"`
	LineIndicator LineIndicator       `json:"lineIndicator"`
	StyleHelper   StyleHelper         `json:"styleHelper"`
	DragPositions map[string]Point    `json:"dragPositions"`
	DropInfo      *DropInfo           `json:"dropInfo"`
}

// LineIndicator is the thin insertion line shown while dragging over a
// frame's children.
type LineIndicator struct {
	Show   bool    `json:"show"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StyleHelper is the floating readout near the pointer showing the
// current dimensions (or gap/rotation) of the primary gesture node.
type StyleHelper struct {
	Show     bool    `json:"show"`
	Kind     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Value    string  `json:"value"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{DragPositions: make(map[string]Point)}
}

// Reset clears every transient indicator. Called when a gesture ends or
// is cancelled.
func (o *Overlay) Reset() {
	o.Guides = nil
	o.LineIndicator = LineIndicator{}
	o.StyleHelper = StyleHelper{}
	o.DragPositions = make(map[string]Point)
	o.DropInfo = nil
}

// SetGuides replaces the visible snap guides for this frame.
func (o *Overlay) SetGuides(guides []SnapLine) {
	o.Guides = guides
}
