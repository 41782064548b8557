package document

import "encoding/json"

// PageDocument is the full persisted state of one builder project: page
// metadata plus a flat registry of nodes keyed by id. The node tree is
// encoded through Parent/Children references so subtree moves are cheap.
type PageDocument struct {
	Project Project          `json:"project"`
	Pages   map[string]Page  `json:"pages"`
	Nodes   map[string]Node  `json:"nodes"`
	Assets  map[string]Asset `json:"assets"`
}

type Project struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Version   int      `json:"version"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
	Pages     []string `json:"pages"`
	RootPage  string   `json:"rootPage"`
}

type Page struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
	Root       string `json:"root"`
}

type NodeType string

const (
	NodeTypeFrame NodeType = "frame"
	NodeTypeText  NodeType = "text"
	NodeTypeImage NodeType = "image"
	NodeTypeVideo NodeType = "video"
)

// Node is one element on a page. Style is a CSS-like bag of string values
// ("left", "top", "width", "height", "rotate", "gap", ...): geometry keys
// hold parent-local, unrotated pixel values unless they carry a unit
// suffix, in which case resolution against the parent content box happens
// at read/write time.
type Node struct {
	ID              string            `json:"id"`
	Type            NodeType          `json:"type"`
	Parent          *string           `json:"parent"`
	Children        []string          `json:"children"`
	Style           map[string]string `json:"style"`
	AbsoluteInFrame bool              `json:"absoluteInFrame"`
	Locked          bool              `json:"locked"`
	Hidden          bool              `json:"hidden"`
	Data            json.RawMessage   `json:"data"`
}

type Asset struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Name string          `json:"name"`
	URL  string          `json:"url"`
	Meta json.RawMessage `json:"meta"`
}

// NewEmptyDocument creates a document with a single empty page whose root
// frame fills the page.
func NewEmptyDocument(projectID, projectName, pageID, rootID string) *PageDocument {
	return &PageDocument{
		Project: Project{
			ID:       projectID,
			Name:     projectName,
			Version:  1,
			Pages:    []string{pageID},
			RootPage: pageID,
		},
		Pages: map[string]Page{
			pageID: {
				ID:         pageID,
				Name:       "Page 1",
				Width:      1280,
				Height:     720,
				Background: "#ffffff",
				Root:       rootID,
			},
		},
		Nodes: map[string]Node{
			rootID: {
				ID:       rootID,
				Type:     NodeTypeFrame,
				Parent:   nil,
				Children: []string{},
				Style: map[string]string{
					"left":   "0px",
					"top":    "0px",
					"width":  "1280px",
					"height": "720px",
				},
			},
		},
		Assets: map[string]Asset{},
	}
}
