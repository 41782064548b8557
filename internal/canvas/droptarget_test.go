package canvas

import (
	"testing"

	"github.com/craftpage/craftpage/backend-go/internal/document"
)

func flowText(id string, left, top, width, height float64) document.Node {
	return document.Node{
		ID:   id,
		Type: document.NodeTypeText,
		Style: map[string]string{
			"left":   FormatPx(left),
			"top":    FormatPx(top),
			"width":  FormatPx(width),
			"height": FormatPx(height),
		},
	}
}

func newDropFixture(t *testing.T, nodes ...document.Node) (*document.Store, *DropResolver) {
	t.Helper()
	store := testDoc(t, nodes...)
	return store, NewDropResolver(store, NewStoreGeometry(store))
}

func TestDropBeforeSibling(t *testing.T) {
	_, drop := newDropFixture(t,
		flowText("c1", 0, 0, 200, 100),
		flowText("c2", 0, 150, 200, 100),
		flowText("dragged", 0, 600, 50, 50),
	)

	info, indicator, ok := drop.Resolve(100, 3, "dragged")
	if !ok {
		t.Fatal("expected a drop target")
	}
	if info.Position != DropBefore || info.SiblingID != "c1" || info.Index != 0 {
		t.Errorf("got %+v, want before c1 at index 0", info)
	}
	if !indicator.Show || indicator.Y != 0 || indicator.Height != 2 {
		t.Errorf("indicator = %+v, want a 2px line at y=0", indicator)
	}
}

func TestDropAfterSibling(t *testing.T) {
	_, drop := newDropFixture(t,
		flowText("c1", 0, 0, 200, 100),
		flowText("c2", 0, 150, 200, 100),
		flowText("dragged", 0, 600, 50, 50),
	)

	info, _, ok := drop.Resolve(100, 95, "dragged")
	if !ok {
		t.Fatal("expected a drop target")
	}
	if info.Position != DropAfter || info.SiblingID != "c1" || info.Index != 1 {
		t.Errorf("got %+v, want after c1 at index 1", info)
	}
}

func TestDropInsideWhenFarFromBoundaries(t *testing.T) {
	store, drop := newDropFixture(t,
		flowText("c1", 0, 0, 200, 100),
		flowText("c2", 0, 150, 200, 100),
		flowText("dragged", 0, 600, 50, 50),
	)

	info, indicator, ok := drop.Resolve(100, 50, "dragged")
	if !ok {
		t.Fatal("expected a drop target")
	}
	if info.Position != DropInside || info.TargetID != "root" {
		t.Errorf("got %+v, want inside root", info)
	}
	if info.Index != len(store.GetChildren("root")) {
		t.Errorf("Index = %d, want append at %d", info.Index, len(store.GetChildren("root")))
	}
	if indicator.Show {
		t.Error("inside drops must not show the line indicator")
	}
}

func TestDropTargetsDeepestFrame(t *testing.T) {
	inner := document.Node{
		ID:   "inner",
		Type: document.NodeTypeFrame,
		Style: map[string]string{
			"left":   "100px",
			"top":    "100px",
			"width":  "400px",
			"height": "300px",
		},
	}
	_, drop := newDropFixture(t, inner, flowText("dragged", 0, 600, 50, 50))

	info, _, ok := drop.Resolve(200, 200, "dragged")
	if !ok {
		t.Fatal("expected a drop target")
	}
	if info.TargetID != "inner" {
		t.Errorf("TargetID = %q, want the nested frame", info.TargetID)
	}
}

func TestDropNeverTargetsDraggedSubtree(t *testing.T) {
	frame := document.Node{
		ID:   "movingFrame",
		Type: document.NodeTypeFrame,
		Style: map[string]string{
			"left":   "0px",
			"top":    "0px",
			"width":  "400px",
			"height": "300px",
		},
	}
	_, drop := newDropFixture(t, frame)

	info, _, ok := drop.Resolve(200, 150, "movingFrame")
	if !ok {
		t.Fatal("root should still accept the drop")
	}
	if info.TargetID != "root" {
		t.Errorf("TargetID = %q, want root (dragged frame excluded)", info.TargetID)
	}
}

func TestDropReorderAmongOwnSiblings(t *testing.T) {
	// The dragged node is itself a flow child of the target frame; the
	// resolved index must be valid for the child list after the dragged
	// node's removal.
	_, drop := newDropFixture(t,
		flowText("a", 0, 0, 200, 100),
		flowText("dragged", 0, 150, 200, 100),
		flowText("b", 0, 300, 200, 100),
	)

	info, _, ok := drop.Resolve(100, 297, "dragged")
	if !ok {
		t.Fatal("expected a drop target")
	}
	if info.Position != DropBefore || info.SiblingID != "b" || info.Index != 1 {
		t.Errorf("got %+v, want before b at index 1", info)
	}

	info, _, ok = drop.Resolve(100, 103, "dragged")
	if !ok {
		t.Fatal("expected a drop target")
	}
	if info.Position != DropAfter || info.SiblingID != "a" || info.Index != 1 {
		t.Errorf("got %+v, want after a at index 1", info)
	}
}

func TestDropIgnoresAbsoluteSiblings(t *testing.T) {
	_, drop := newDropFixture(t,
		absFrame("absolute", 0, 0, 200, 100),
		flowText("dragged", 0, 600, 50, 50),
	)

	// Pointer near the absolute node's bottom edge: absolute children
	// are not flow siblings, so the drop resolves to inside.
	info, _, ok := drop.Resolve(100, 98, "dragged")
	if !ok {
		t.Fatal("expected a drop target")
	}
	if info.Position != DropInside {
		t.Errorf("Position = %v, want inside", info.Position)
	}
}
