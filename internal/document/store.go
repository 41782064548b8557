package document

// Store is the in-memory node registry the editing core works against.
// It is the single mutation surface for node styles during gestures; the
// geometry and snap engines only ever read through it.
//
// A Store is confined to one goroutine (one editing session), matching
// the event-driven model of the canvas: no locking, but style commits
// happen exactly once per gesture.
type Store struct {
	doc        *PageDocument
	activePage string
}

// NewStore wraps a document, editing its root page.
func NewStore(doc *PageDocument) *Store {
	return &Store{doc: doc, activePage: doc.Project.RootPage}
}

// Document returns the underlying document.
func (s *Store) Document() *PageDocument { return s.doc }

// SetActivePage switches the page the store exposes.
func (s *Store) SetActivePage(pageID string) {
	if _, ok := s.doc.Pages[pageID]; ok {
		s.activePage = pageID
	}
}

// RootID returns the id of the active page's root frame.
func (s *Store) RootID() string {
	page, ok := s.doc.Pages[s.activePage]
	if !ok {
		return ""
	}
	return page.Root
}

// PageSize returns the active page's dimensions in pixels.
func (s *Store) PageSize() (float64, float64) {
	page, ok := s.doc.Pages[s.activePage]
	if !ok {
		return 0, 0
	}
	return float64(page.Width), float64(page.Height)
}

// GetStyle returns a node's style bag. The returned map is the live bag;
// callers must not mutate it directly, only through UpdateStyle.
func (s *Store) GetStyle(id string) (map[string]string, bool) {
	node, ok := s.doc.Nodes[id]
	if !ok {
		return nil, false
	}
	return node.Style, true
}

// StyleValue returns one style key, or "" when the node or key is absent.
func (s *Store) StyleValue(id, key string) string {
	node, ok := s.doc.Nodes[id]
	if !ok {
		return ""
	}
	return node.Style[key]
}

// UpdateStyle merges a patch into a node's style bag. Unknown ids are
// ignored so a node removed mid-gesture cannot fault the commit of the
// remaining nodes.
func (s *Store) UpdateStyle(id string, patch map[string]string) {
	node, ok := s.doc.Nodes[id]
	if !ok {
		return
	}
	if node.Style == nil {
		node.Style = make(map[string]string, len(patch))
	}
	for k, v := range patch {
		node.Style[k] = v
	}
	s.doc.Nodes[id] = node
}

// GetParent returns the node's parent id, or ok=false for roots and
// unknown ids.
func (s *Store) GetParent(id string) (string, bool) {
	node, ok := s.doc.Nodes[id]
	if !ok || node.Parent == nil {
		return "", false
	}
	return *node.Parent, true
}

// GetChildren returns the node's ordered child ids.
func (s *Store) GetChildren(id string) []string {
	node, ok := s.doc.Nodes[id]
	if !ok {
		return nil
	}
	return node.Children
}

// NodeType returns the node's type, or "" for unknown ids.
func (s *Store) NodeType(id string) NodeType {
	node, ok := s.doc.Nodes[id]
	if !ok {
		return ""
	}
	return node.Type
}

// IsLocked reports whether a node refuses drag/resize.
func (s *Store) IsLocked(id string) bool {
	node, ok := s.doc.Nodes[id]
	return ok && node.Locked
}

// IsHidden reports whether a node is hidden from the canvas.
func (s *Store) IsHidden(id string) bool {
	node, ok := s.doc.Nodes[id]
	return ok && node.Hidden
}

// IsAbsolute reports whether a node is absolutely positioned inside its
// parent frame rather than participating in the frame's flow layout.
func (s *Store) IsAbsolute(id string) bool {
	node, ok := s.doc.Nodes[id]
	return ok && node.AbsoluteInFrame
}

// Exists reports whether the node id is registered.
func (s *Store) Exists(id string) bool {
	_, ok := s.doc.Nodes[id]
	return ok
}

// Descendants returns all ids in the subtree rooted at id, excluding id
// itself, in depth-first order.
func (s *Store) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(cur string) {
		for _, child := range s.GetChildren(cur) {
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	return out
}

// NodeIDs returns every node on the active page in depth-first order
// starting at the root frame. The order is deterministic, which the snap
// grid relies on for tie-breaking.
func (s *Store) NodeIDs() []string {
	root := s.RootID()
	if root == "" {
		return nil
	}
	return append([]string{root}, s.Descendants(root)...)
}

// Reparent moves a node under a new parent at the given child index.
// Index values outside the valid range append.
func (s *Store) Reparent(id, newParentID string, index int) {
	node, ok := s.doc.Nodes[id]
	if !ok {
		return
	}
	if _, ok := s.doc.Nodes[newParentID]; !ok {
		return
	}

	// Refuse moves into the node's own subtree: the resulting cycle
	// would make every tree walk diverge.
	cur := newParentID
	for cur != "" {
		if cur == id {
			return
		}
		parent, ok := s.GetParent(cur)
		if !ok {
			break
		}
		cur = parent
	}

	if node.Parent != nil {
		if old, ok := s.doc.Nodes[*node.Parent]; ok {
			kept := make([]string, 0, len(old.Children))
			for _, child := range old.Children {
				if child != id {
					kept = append(kept, child)
				}
			}
			old.Children = kept
			s.doc.Nodes[*node.Parent] = old
		}
	}

	// Re-read after removal: old and new parent may be the same node.
	newParent := s.doc.Nodes[newParentID]

	if index < 0 || index > len(newParent.Children) {
		index = len(newParent.Children)
	}
	children := make([]string, 0, len(newParent.Children)+1)
	children = append(children, newParent.Children[:index]...)
	children = append(children, id)
	children = append(children, newParent.Children[index:]...)
	newParent.Children = children
	s.doc.Nodes[newParentID] = newParent

	node.Parent = &newParentID
	s.doc.Nodes[id] = node
}
