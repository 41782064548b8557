package document

import (
	"reflect"
	"testing"
)

func sampleStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(NewSampleDocument("proj_test"))
}

func TestStoreRoot(t *testing.T) {
	s := sampleStore(t)
	if got := s.RootID(); got != "node_root" {
		t.Errorf("RootID = %q", got)
	}
	w, h := s.PageSize()
	if w != 1280 || h != 720 {
		t.Errorf("PageSize = %v x %v, want 1280 x 720", w, h)
	}
}

func TestUpdateStyleMerges(t *testing.T) {
	s := sampleStore(t)
	s.UpdateStyle("node_card_a", map[string]string{"left": "250px", "opacity": "0.5"})

	if got := s.StyleValue("node_card_a", "left"); got != "250px" {
		t.Errorf("left = %q", got)
	}
	if got := s.StyleValue("node_card_a", "opacity"); got != "0.5" {
		t.Errorf("opacity = %q", got)
	}
	// Untouched keys survive the merge.
	if got := s.StyleValue("node_card_a", "width"); got != "200px" {
		t.Errorf("width = %q", got)
	}
}

func TestUpdateStyleUnknownNodeIgnored(t *testing.T) {
	s := sampleStore(t)
	s.UpdateStyle("node_gone", map[string]string{"left": "1px"})
	if s.Exists("node_gone") {
		t.Error("UpdateStyle must not create nodes")
	}
}

func TestStyleValueMissing(t *testing.T) {
	s := sampleStore(t)
	if got := s.StyleValue("node_card_a", "zIndex"); got != "" {
		t.Errorf("missing key = %q, want empty", got)
	}
	if got := s.StyleValue("node_gone", "left"); got != "" {
		t.Errorf("missing node = %q, want empty", got)
	}
}

func TestReparentMovesSubtree(t *testing.T) {
	s := sampleStore(t)
	s.Reparent("node_headline", "node_card_a", 0)

	if got := s.GetChildren("node_hero"); !reflect.DeepEqual(got, []string{"node_hero_image"}) {
		t.Errorf("old parent children = %v", got)
	}
	if got := s.GetChildren("node_card_a"); !reflect.DeepEqual(got, []string{"node_headline"}) {
		t.Errorf("new parent children = %v", got)
	}
	if parent, ok := s.GetParent("node_headline"); !ok || parent != "node_card_a" {
		t.Errorf("parent = %q, %v", parent, ok)
	}
}

func TestReparentWithinSameParent(t *testing.T) {
	s := sampleStore(t)

	// Move the last root child to the front. The node must appear exactly
	// once afterwards.
	s.Reparent("node_card_b", "node_root", 0)

	want := []string{"node_card_b", "node_hero", "node_card_a"}
	if got := s.GetChildren("node_root"); !reflect.DeepEqual(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestReparentRefusesOwnSubtree(t *testing.T) {
	s := sampleStore(t)

	// Moving a node under itself or one of its descendants would create
	// a parent cycle; both must be no-ops.
	s.Reparent("node_hero", "node_hero", 0)
	s.Reparent("node_hero", "node_headline", 0)

	if parent, _ := s.GetParent("node_hero"); parent != "node_root" {
		t.Errorf("hero parent = %q, want node_root", parent)
	}
	if got := s.GetChildren("node_headline"); len(got) != 0 {
		t.Errorf("headline children = %v, want none", got)
	}
	want := []string{"node_hero", "node_card_a", "node_card_b"}
	if got := s.GetChildren("node_root"); !reflect.DeepEqual(got, want) {
		t.Errorf("root children = %v, want %v", got, want)
	}
}

func TestReparentIndexOutOfRangeAppends(t *testing.T) {
	s := sampleStore(t)
	s.Reparent("node_hero", "node_root", 99)

	want := []string{"node_card_a", "node_card_b", "node_hero"}
	if got := s.GetChildren("node_root"); !reflect.DeepEqual(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestReparentUnknownTargetsNoop(t *testing.T) {
	s := sampleStore(t)
	before := append([]string(nil), s.GetChildren("node_root")...)

	s.Reparent("node_gone", "node_root", 0)
	s.Reparent("node_card_a", "node_gone", 0)

	if got := s.GetChildren("node_root"); !reflect.DeepEqual(got, before) {
		t.Errorf("children changed: %v", got)
	}
	if parent, _ := s.GetParent("node_card_a"); parent != "node_root" {
		t.Errorf("parent = %q", parent)
	}
}

func TestDescendantsDepthFirst(t *testing.T) {
	s := sampleStore(t)
	want := []string{"node_hero", "node_headline", "node_hero_image", "node_card_a", "node_card_b"}
	if got := s.Descendants("node_root"); !reflect.DeepEqual(got, want) {
		t.Errorf("Descendants = %v, want %v", got, want)
	}
	if got := s.Descendants("node_headline"); len(got) != 0 {
		t.Errorf("leaf Descendants = %v", got)
	}
}

func TestNodeIDsDeterministic(t *testing.T) {
	s := sampleStore(t)
	first := s.NodeIDs()
	for i := 0; i < 10; i++ {
		if got := s.NodeIDs(); !reflect.DeepEqual(got, first) {
			t.Fatalf("order changed on pass %d: %v", i, got)
		}
	}
	if first[0] != "node_root" {
		t.Errorf("first id = %q, want root", first[0])
	}
}

func TestFlagAccessors(t *testing.T) {
	s := sampleStore(t)
	doc := s.Document()

	n := doc.Nodes["node_card_a"]
	n.Locked = true
	n.Hidden = true
	doc.Nodes["node_card_a"] = n

	if !s.IsLocked("node_card_a") || !s.IsHidden("node_card_a") {
		t.Error("flags not visible through store")
	}
	if !s.IsAbsolute("node_card_b") {
		t.Error("card_b should be absolute")
	}
	if s.IsAbsolute("node_headline") {
		t.Error("headline should be flow positioned")
	}
	if s.IsLocked("node_gone") || s.IsHidden("node_gone") {
		t.Error("unknown ids report no flags")
	}
}

func TestSetActivePage(t *testing.T) {
	doc := NewEmptyDocument("proj_p", "P", "page_a", "root_a")
	doc.Pages["page_b"] = Page{ID: "page_b", Name: "Page 2", Width: 800, Height: 600, Root: "root_b"}
	doc.Nodes["root_b"] = Node{ID: "root_b", Type: NodeTypeFrame, Style: map[string]string{}}

	s := NewStore(doc)
	s.SetActivePage("page_b")
	if got := s.RootID(); got != "root_b" {
		t.Errorf("RootID = %q after page switch", got)
	}

	s.SetActivePage("page_missing")
	if got := s.RootID(); got != "root_b" {
		t.Errorf("RootID = %q, unknown page must not switch", got)
	}
}
