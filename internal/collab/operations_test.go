package collab

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/craftpage/craftpage/backend-go/internal/document"
)

func newState(t *testing.T) *DocumentState {
	t.Helper()
	return NewDocumentState(document.NewSampleDocument("proj_test"))
}

func boolptr(b bool) *bool { return &b }
func intptr(i int) *int    { return &i }

func TestApplyStyleMergesAndDeletes(t *testing.T) {
	ds := newState(t)

	seq, err := ds.ApplyOperation(Operation{
		Type:   "node.style",
		NodeID: "node_card_a",
		Style:  map[string]string{"left": "300px", "rotate": ""},
	})
	if err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}

	node := ds.doc.Nodes["node_card_a"]
	if node.Style["left"] != "300px" {
		t.Errorf("left = %q", node.Style["left"])
	}
	if _, ok := node.Style["rotate"]; ok {
		t.Error("empty value must delete the key")
	}
	if node.Style["width"] != "200px" {
		t.Errorf("width = %q, untouched keys must survive", node.Style["width"])
	}
}

func TestApplyStyleUnknownNodeNacks(t *testing.T) {
	ds := newState(t)

	_, err := ds.ApplyOperation(Operation{Type: "node.style", NodeID: "node_gone"})
	if err == nil {
		t.Fatal("want error for unknown node")
	}
	if ds.Dirty() {
		t.Error("failed op must not mark state dirty")
	}
	if _, seq, _ := ds.Snapshot(); seq != 0 {
		t.Errorf("seq = %d after failed op, want 0", seq)
	}
}

func TestApplyCreateInsertsAtIndex(t *testing.T) {
	ds := newState(t)

	nodeJSON, _ := json.Marshal(document.Node{
		ID:     "node_new",
		Type:   document.NodeTypeText,
		Style:  map[string]string{"left": "10px"},
		Parent: nil,
	})
	_, err := ds.ApplyOperation(Operation{
		Type:     "node.create",
		Node:     nodeJSON,
		ParentID: "node_root",
		Index:    intptr(1),
	})
	if err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}

	want := []string{"node_hero", "node_new", "node_card_a", "node_card_b"}
	if got := ds.doc.Nodes["node_root"].Children; !reflect.DeepEqual(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
	if _, ok := ds.doc.Nodes["node_new"]; !ok {
		t.Error("created node missing from registry")
	}
}

func TestApplyCreateRejectsMissingID(t *testing.T) {
	ds := newState(t)
	if _, err := ds.ApplyOperation(Operation{
		Type: "node.create",
		Node: json.RawMessage(`{"type":"text"}`),
	}); err == nil {
		t.Fatal("want error for node without id")
	}
}

func TestApplyDeleteRemovesSubtree(t *testing.T) {
	ds := newState(t)

	if _, err := ds.ApplyOperation(Operation{Type: "node.delete", NodeID: "node_hero"}); err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}

	for _, id := range []string{"node_hero", "node_headline", "node_hero_image"} {
		if _, ok := ds.doc.Nodes[id]; ok {
			t.Errorf("%s still in registry", id)
		}
	}
	want := []string{"node_card_a", "node_card_b"}
	if got := ds.doc.Nodes["node_root"].Children; !reflect.DeepEqual(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestApplyReparentAcrossFrames(t *testing.T) {
	ds := newState(t)

	_, err := ds.ApplyOperation(Operation{
		Type:        "node.reparent",
		NodeID:      "node_headline",
		NewParentID: "node_card_a",
		NewIndex:    0,
	})
	if err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}

	if got := ds.doc.Nodes["node_hero"].Children; !reflect.DeepEqual(got, []string{"node_hero_image"}) {
		t.Errorf("old parent children = %v", got)
	}
	if got := ds.doc.Nodes["node_card_a"].Children; !reflect.DeepEqual(got, []string{"node_headline"}) {
		t.Errorf("new parent children = %v", got)
	}
	if parent := ds.doc.Nodes["node_headline"].Parent; parent == nil || *parent != "node_card_a" {
		t.Error("parent pointer not updated")
	}
}

func TestApplyReparentWithinSameParent(t *testing.T) {
	ds := newState(t)

	_, err := ds.ApplyOperation(Operation{
		Type:        "node.reparent",
		NodeID:      "node_card_b",
		NewParentID: "node_root",
		NewIndex:    0,
	})
	if err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}

	want := []string{"node_card_b", "node_hero", "node_card_a"}
	if got := ds.doc.Nodes["node_root"].Children; !reflect.DeepEqual(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestApplyReparentRejectsOwnSubtree(t *testing.T) {
	ds := newState(t)

	tests := []struct {
		name        string
		newParentID string
	}{
		{name: "under itself", newParentID: "node_hero"},
		{name: "under its own child", newParentID: "node_headline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ds.ApplyOperation(Operation{
				Type:        "node.reparent",
				NodeID:      "node_hero",
				NewParentID: tt.newParentID,
				NewIndex:    0,
			})
			if err == nil {
				t.Fatal("want error: reparent into own subtree must be rejected")
			}
		})
	}

	// The document must be untouched: every parent chain still reaches
	// the root without revisiting a node.
	if ds.Dirty() {
		t.Error("rejected ops must not mark state dirty")
	}
	if parent := ds.doc.Nodes["node_headline"].Parent; parent == nil || *parent != "node_hero" {
		t.Error("headline parent changed")
	}
	for id := range ds.doc.Nodes {
		seen := map[string]bool{}
		cur := id
		for {
			if seen[cur] {
				t.Fatalf("cycle in parent chain through %q", cur)
			}
			seen[cur] = true
			node := ds.doc.Nodes[cur]
			if node.Parent == nil {
				break
			}
			cur = *node.Parent
		}
	}
}

func TestApplyHiddenAndLocked(t *testing.T) {
	ds := newState(t)

	if _, err := ds.ApplyOperation(Operation{Type: "node.hidden", NodeID: "node_card_a", Hidden: boolptr(true)}); err != nil {
		t.Fatalf("node.hidden: %v", err)
	}
	if _, err := ds.ApplyOperation(Operation{Type: "node.locked", NodeID: "node_card_a", Locked: boolptr(true)}); err != nil {
		t.Fatalf("node.locked: %v", err)
	}

	node := ds.doc.Nodes["node_card_a"]
	if !node.Hidden || !node.Locked {
		t.Errorf("hidden=%v locked=%v, want both true", node.Hidden, node.Locked)
	}
}

func TestApplyPageUpdate(t *testing.T) {
	ds := newState(t)

	_, err := ds.ApplyOperation(Operation{
		Type:    "page.update",
		PageID:  "page_sample",
		Changes: json.RawMessage(`{"name":"Landing","width":1440,"background":"#111111"}`),
	})
	if err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}

	page := ds.doc.Pages["page_sample"]
	if page.Name != "Landing" || page.Width != 1440 || page.Background != "#111111" {
		t.Errorf("page = %+v", page)
	}
	if page.Height != 720 {
		t.Errorf("height = %d, unset fields must not change", page.Height)
	}
}

func TestApplyProjectRename(t *testing.T) {
	ds := newState(t)
	if _, err := ds.ApplyOperation(Operation{Type: "project.rename", Name: "Relaunch"}); err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}
	if got := ds.doc.Project.Name; got != "Relaunch" {
		t.Errorf("name = %q", got)
	}
}

func TestApplyUnknownTypeRejected(t *testing.T) {
	ds := newState(t)
	if _, err := ds.ApplyOperation(Operation{Type: "node.explode"}); err == nil {
		t.Fatal("want error for unknown type")
	}
}

func TestServerSeqAndDirtyLifecycle(t *testing.T) {
	ds := newState(t)
	if ds.Dirty() {
		t.Fatal("fresh state must be clean")
	}

	ops := []Operation{
		{Type: "project.rename", Name: "A"},
		{Type: "project.rename", Name: "B"},
		{Type: "node.hidden", NodeID: "node_card_a", Hidden: boolptr(true)},
	}
	for i, op := range ops {
		seq, err := ds.ApplyOperation(op)
		if err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		if want := int64(i + 1); seq != want {
			t.Errorf("op %d seq = %d, want %d", i, seq, want)
		}
	}

	if !ds.Dirty() {
		t.Error("state must be dirty after ops")
	}
	ds.ClearDirty()
	if ds.Dirty() {
		t.Error("ClearDirty did not stick")
	}

	data, seq, err := ds.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if seq != 3 {
		t.Errorf("snapshot seq = %d, want 3", seq)
	}

	var doc document.PageDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("snapshot not valid JSON: %v", err)
	}
	if doc.Project.Name != "B" {
		t.Errorf("snapshot name = %q", doc.Project.Name)
	}
}
