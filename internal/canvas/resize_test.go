package canvas

import (
	"testing"

	"github.com/craftpage/craftpage/backend-go/internal/document"
)

func newResizeFixture(t *testing.T, nodes ...document.Node) (*document.Store, *ResizeController) {
	t.Helper()
	store := testDoc(t, nodes...)
	geo := NewStoreGeometry(store)
	overlay := NewOverlay()
	return store, NewResizeController(store, geo, overlay)
}

func TestResizeRightEdge(t *testing.T) {
	store, resize := newResizeFixture(t, absFrame("a", 0, 0, 100, 50))

	if !resize.Begin([]string{"a"}, HandleRight, 100, 25, nil, DefaultSnapThreshold) {
		t.Fatal("Begin refused")
	}
	resize.Move(140, 25, false)
	resize.End()

	if got := store.StyleValue("a", "width"); got != "140px" {
		t.Errorf("width = %q, want 140px", got)
	}
	// The inactive axis must remain untouched.
	if got := store.StyleValue("a", "height"); got != "50px" {
		t.Errorf("height = %q, want 50px", got)
	}
	if got := store.StyleValue("a", "top"); got != "0px" {
		t.Errorf("top = %q, want 0px", got)
	}
}

func TestResizeLeftEdgeMovesOrigin(t *testing.T) {
	store, resize := newResizeFixture(t, absFrame("a", 100, 0, 100, 50))

	resize.Begin([]string{"a"}, HandleLeft, 100, 25, nil, DefaultSnapThreshold)
	resize.Move(80, 25, false) // dx = -20, pulling the left edge out
	resize.End()

	if got := store.StyleValue("a", "width"); got != "120px" {
		t.Errorf("width = %q, want 120px", got)
	}
	if got := store.StyleValue("a", "left"); got != "80px" {
		t.Errorf("left = %q, want 80px", got)
	}
}

func TestResizeZeroCrossingFlipsHandle(t *testing.T) {
	// Dragging the right edge 60px left of a 50px-wide node crosses
	// zero: the rect mirrors about its left edge and the handle flips.
	store, resize := newResizeFixture(t, absFrame("a", 0, 0, 50, 50))

	resize.Begin([]string{"a"}, HandleRight, 50, 25, nil, DefaultSnapThreshold)
	resize.Move(-10, 25, false) // dx = -60
	resize.End()

	if got := store.StyleValue("a", "width"); got != "10px" {
		t.Errorf("width = %q, want 10px", got)
	}
	if got := store.StyleValue("a", "left"); got != "40px" {
		t.Errorf("left = %q, want 40px", got)
	}
}

func TestResizeDirectionFlipsMidGesture(t *testing.T) {
	_, resize := newResizeFixture(t, absFrame("a", 0, 0, 50, 50))

	resize.Begin([]string{"a"}, HandleRight, 50, 25, nil, DefaultSnapThreshold)
	if resize.Direction() != HandleRight {
		t.Fatalf("Direction = %v before crossing", resize.Direction())
	}

	resize.Move(-10, 25, false)
	if resize.Direction() != HandleLeft {
		t.Errorf("Direction = %v after crossing, want HandleLeft", resize.Direction())
	}
}

func TestResizeGroupScalesProportionally(t *testing.T) {
	// The 100px node drives; the 50px node receives half the delta so
	// both keep their relative proportion.
	store, resize := newResizeFixture(t,
		absFrame("big", 0, 0, 100, 50),
		absFrame("small", 0, 100, 50, 50),
	)

	resize.Begin([]string{"big", "small"}, HandleRight, 100, 25, nil, DefaultSnapThreshold)
	resize.Move(140, 25, false) // dx = +40
	resize.End()

	if got := store.StyleValue("big", "width"); got != "140px" {
		t.Errorf("big width = %q, want 140px", got)
	}
	if got := store.StyleValue("small", "width"); got != "70px" {
		t.Errorf("small width = %q, want 70px", got)
	}
}

func TestResizeShiftRoundsSingleEdgeToIncrement(t *testing.T) {
	store, resize := newResizeFixture(t, absFrame("a", 0, 0, 100, 50))

	resize.Begin([]string{"a"}, HandleRight, 100, 25, nil, DefaultSnapThreshold)
	resize.Move(230, 25, true) // dx = +130 rounds to +100
	resize.End()

	if got := store.StyleValue("a", "width"); got != "200px" {
		t.Errorf("width = %q, want 200px", got)
	}
}

func TestResizeShiftLocksAspectOnCorner(t *testing.T) {
	store, resize := newResizeFixture(t, absFrame("a", 0, 0, 200, 100))

	resize.Begin([]string{"a"}, HandleBottomRight, 200, 100, nil, DefaultSnapThreshold)
	resize.Move(250, 100, true) // width 250, ratio 2 forces height 125
	resize.End()

	if got := store.StyleValue("a", "width"); got != "250px" {
		t.Errorf("width = %q, want 250px", got)
	}
	if got := store.StyleValue("a", "height"); got != "125px" {
		t.Errorf("height = %q, want 125px", got)
	}
}

func TestResizePercentWidthStaysPercent(t *testing.T) {
	node := absFrame("a", 0, 0, 0, 50)
	node.Style["width"] = "50%" // parent is the 1280px-wide root
	store, resize := newResizeFixture(t, node)

	resize.Begin([]string{"a"}, HandleRight, 640, 25, nil, DefaultSnapThreshold)
	resize.Move(704, 25, false) // +64px on a 640px width
	resize.End()

	if got := store.StyleValue("a", "width"); got != "55%" {
		t.Errorf("width = %q, want 55%%", got)
	}
}

func TestResizeSnapsActiveEdge(t *testing.T) {
	store, resize := newResizeFixture(t,
		absFrame("a", 0, 0, 100, 50),
		absFrame("anchor", 104, 200, 50, 50),
	)
	geo := NewStoreGeometry(store)
	anchorRect, _ := geo.CanvasRect("anchor")
	grid := BuildSnapGrid([]SnapCandidate{{ID: "anchor", Rect: anchorRect}})

	resize.Begin([]string{"a"}, HandleRight, 100, 25, grid, DefaultSnapThreshold)
	resize.Move(101, 25, false) // right edge at 101, anchor's left line at 104
	resize.End()

	if got := store.StyleValue("a", "width"); got != "104px" {
		t.Errorf("width = %q, want snapped 104px", got)
	}
}

func TestResizeSkipsLockedNodes(t *testing.T) {
	locked := absFrame("locked", 0, 0, 100, 50)
	locked.Locked = true
	store, resize := newResizeFixture(t, locked, absFrame("free", 0, 100, 100, 50))

	if !resize.Begin([]string{"locked", "free"}, HandleRight, 100, 25, nil, DefaultSnapThreshold) {
		t.Fatal("Begin refused although one node is resizable")
	}
	resize.Move(150, 25, false)
	resize.End()

	if got := store.StyleValue("locked", "width"); got != "100px" {
		t.Errorf("locked width = %q, want 100px", got)
	}
	if got := store.StyleValue("free", "width"); got != "150px" {
		t.Errorf("free width = %q, want 150px", got)
	}
}
