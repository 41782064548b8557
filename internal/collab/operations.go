package collab

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/craftpage/craftpage/backend-go/internal/document"
)

// DocumentState holds the authoritative document for a room. Operations
// apply under the lock in arrival order; serverSeq is the total order
// clients rebase against.
type DocumentState struct {
	mu        sync.RWMutex
	doc       *document.PageDocument
	serverSeq int64
	opLog     []Operation
	dirty     bool
}

func NewDocumentState(doc *document.PageDocument) *DocumentState {
	return &DocumentState{
		doc:   doc,
		opLog: make([]Operation, 0),
	}
}

// Snapshot returns the current document serialized to JSON along with the
// sequence number it reflects.
func (ds *DocumentState) Snapshot() (json.RawMessage, int64, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	data, err := json.Marshal(ds.doc)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal document: %w", err)
	}
	return data, ds.serverSeq, nil
}

// Dirty reports whether an operation has been applied since the last
// ClearDirty.
func (ds *DocumentState) Dirty() bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.dirty
}

func (ds *DocumentState) ClearDirty() {
	ds.mu.Lock()
	ds.dirty = false
	ds.mu.Unlock()
}

// ApplyOperation applies op to the document and returns the server
// sequence it was assigned.
func (ds *DocumentState) ApplyOperation(op Operation) (int64, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.applyOperationLocked(op); err != nil {
		return 0, err
	}

	ds.serverSeq++
	ds.opLog = append(ds.opLog, op)
	ds.dirty = true

	return ds.serverSeq, nil
}

func (ds *DocumentState) applyOperationLocked(op Operation) error {
	switch op.Type {
	case "node.style":
		return ds.applyStyle(op)
	case "node.create":
		return ds.applyCreate(op)
	case "node.delete":
		return ds.applyDelete(op)
	case "node.reparent":
		return ds.applyReparent(op)
	case "node.hidden":
		return ds.applyHidden(op)
	case "node.locked":
		return ds.applyLockFlag(op)
	case "page.update":
		return ds.applyPageUpdate(op)
	case "project.rename":
		ds.doc.Project.Name = op.Name
		return nil
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

func (ds *DocumentState) applyStyle(op Operation) error {
	node, ok := ds.doc.Nodes[op.NodeID]
	if !ok {
		return fmt.Errorf("node not found: %s", op.NodeID)
	}

	if node.Style == nil {
		node.Style = make(map[string]string, len(op.Style))
	}
	for key, value := range op.Style {
		if value == "" {
			delete(node.Style, key)
			continue
		}
		node.Style[key] = value
	}

	ds.doc.Nodes[op.NodeID] = node
	return nil
}

func (ds *DocumentState) applyCreate(op Operation) error {
	var node document.Node
	if err := json.Unmarshal(op.Node, &node); err != nil {
		return fmt.Errorf("invalid node: %w", err)
	}
	if node.ID == "" {
		return fmt.Errorf("node missing id")
	}

	ds.doc.Nodes[node.ID] = node

	if op.ParentID != "" {
		parent, ok := ds.doc.Nodes[op.ParentID]
		if !ok {
			return fmt.Errorf("parent not found: %s", op.ParentID)
		}
		if op.Index != nil && *op.Index >= 0 && *op.Index <= len(parent.Children) {
			children := make([]string, 0, len(parent.Children)+1)
			children = append(children, parent.Children[:*op.Index]...)
			children = append(children, node.ID)
			children = append(children, parent.Children[*op.Index:]...)
			parent.Children = children
		} else {
			parent.Children = append(parent.Children, node.ID)
		}
		ds.doc.Nodes[op.ParentID] = parent
	}

	return nil
}

func (ds *DocumentState) applyDelete(op Operation) error {
	node, ok := ds.doc.Nodes[op.NodeID]
	if !ok {
		return fmt.Errorf("node not found: %s", op.NodeID)
	}

	if node.Parent != nil {
		if parent, ok := ds.doc.Nodes[*node.Parent]; ok {
			parent.Children = removeChild(parent.Children, op.NodeID)
			ds.doc.Nodes[*node.Parent] = parent
		}
	}

	// Delete the whole subtree so no orphans linger in the registry.
	ds.deleteSubtree(op.NodeID)
	return nil
}

func (ds *DocumentState) deleteSubtree(id string) {
	node, ok := ds.doc.Nodes[id]
	if !ok {
		return
	}
	for _, childID := range node.Children {
		ds.deleteSubtree(childID)
	}
	delete(ds.doc.Nodes, id)
}

func (ds *DocumentState) applyReparent(op Operation) error {
	node, ok := ds.doc.Nodes[op.NodeID]
	if !ok {
		return fmt.Errorf("node not found: %s", op.NodeID)
	}

	newParent, ok := ds.doc.Nodes[op.NewParentID]
	if !ok {
		return fmt.Errorf("new parent not found: %s", op.NewParentID)
	}

	// A node must never end up inside its own subtree: the cycle would
	// make every tree walk diverge.
	if op.NewParentID == op.NodeID || ds.inSubtree(op.NodeID, op.NewParentID) {
		return fmt.Errorf("cannot reparent %s into its own subtree", op.NodeID)
	}

	if node.Parent != nil {
		if oldParent, ok := ds.doc.Nodes[*node.Parent]; ok {
			oldParent.Children = removeChild(oldParent.Children, op.NodeID)
			ds.doc.Nodes[*node.Parent] = oldParent
			// Re-read in case a node is moved within its own parent.
			newParent = ds.doc.Nodes[op.NewParentID]
		}
	}

	if op.NewIndex >= 0 && op.NewIndex <= len(newParent.Children) {
		children := make([]string, 0, len(newParent.Children)+1)
		children = append(children, newParent.Children[:op.NewIndex]...)
		children = append(children, op.NodeID)
		children = append(children, newParent.Children[op.NewIndex:]...)
		newParent.Children = children
	} else {
		newParent.Children = append(newParent.Children, op.NodeID)
	}
	ds.doc.Nodes[op.NewParentID] = newParent

	parentID := op.NewParentID
	node.Parent = &parentID
	ds.doc.Nodes[op.NodeID] = node

	return nil
}

// inSubtree reports whether candidate sits in the subtree rooted at
// rootID, by walking candidate's parent chain.
func (ds *DocumentState) inSubtree(rootID, candidate string) bool {
	cur := candidate
	for {
		node, ok := ds.doc.Nodes[cur]
		if !ok || node.Parent == nil {
			return false
		}
		if *node.Parent == rootID {
			return true
		}
		cur = *node.Parent
	}
}

func (ds *DocumentState) applyHidden(op Operation) error {
	node, ok := ds.doc.Nodes[op.NodeID]
	if !ok {
		return fmt.Errorf("node not found: %s", op.NodeID)
	}
	if op.Hidden != nil {
		node.Hidden = *op.Hidden
	}
	ds.doc.Nodes[op.NodeID] = node
	return nil
}

func (ds *DocumentState) applyLockFlag(op Operation) error {
	node, ok := ds.doc.Nodes[op.NodeID]
	if !ok {
		return fmt.Errorf("node not found: %s", op.NodeID)
	}
	if op.Locked != nil {
		node.Locked = *op.Locked
	}
	ds.doc.Nodes[op.NodeID] = node
	return nil
}

func (ds *DocumentState) applyPageUpdate(op Operation) error {
	page, ok := ds.doc.Pages[op.PageID]
	if !ok {
		return fmt.Errorf("page not found: %s", op.PageID)
	}

	var changes map[string]interface{}
	if err := json.Unmarshal(op.Changes, &changes); err != nil {
		return fmt.Errorf("invalid page changes: %w", err)
	}

	if v, ok := changes["name"].(string); ok {
		page.Name = v
	}
	if v, ok := changes["width"].(float64); ok {
		page.Width = int(v)
	}
	if v, ok := changes["height"].(float64); ok {
		page.Height = int(v)
	}
	if v, ok := changes["background"].(string); ok {
		page.Background = v
	}

	ds.doc.Pages[op.PageID] = page
	return nil
}

func removeChild(children []string, id string) []string {
	out := make([]string, 0, len(children))
	for _, childID := range children {
		if childID != id {
			out = append(out, childID)
		}
	}
	return out
}

func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
