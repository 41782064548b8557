package document

import "encoding/json"

// NewSampleDocument builds the playground document: a hero frame with a
// headline and an image card, plus two absolutely positioned frames for
// exercising drag snapping.
func NewSampleDocument(projectID string) *PageDocument {
	doc := NewEmptyDocument(projectID, "Sample Page", "page_sample", "node_root")

	root := doc.Nodes["node_root"]

	hero := Node{
		ID:     "node_hero",
		Type:   NodeTypeFrame,
		Parent: strptr("node_root"),
		Style: map[string]string{
			"left":    "0px",
			"top":     "0px",
			"width":   "100%",
			"height":  "320px",
			"display": "flex",
			"gap":     "24px",
		},
	}

	headline := Node{
		ID:     "node_headline",
		Type:   NodeTypeText,
		Parent: strptr("node_hero"),
		Style: map[string]string{
			"left":     "48px",
			"top":      "96px",
			"width":    "420px",
			"height":   "64px",
			"fontSize": "48px",
		},
		Data: json.RawMessage(`{"text":"Build pages visually"}`),
	}

	heroImage := Node{
		ID:     "node_hero_image",
		Type:   NodeTypeImage,
		Parent: strptr("node_hero"),
		Style: map[string]string{
			"left":   "520px",
			"top":    "40px",
			"width":  "240px",
			"height": "240px",
		},
		Data: json.RawMessage(`{"assetId":"","alt":"hero"}`),
	}

	cardA := Node{
		ID:              "node_card_a",
		Type:            NodeTypeFrame,
		Parent:          strptr("node_root"),
		AbsoluteInFrame: true,
		Style: map[string]string{
			"left":   "100px",
			"top":    "400px",
			"width":  "200px",
			"height": "120px",
			"rotate": "0deg",
		},
	}

	cardB := Node{
		ID:              "node_card_b",
		Type:            NodeTypeFrame,
		Parent:          strptr("node_root"),
		AbsoluteInFrame: true,
		Style: map[string]string{
			"left":   "360px",
			"top":    "400px",
			"width":  "200px",
			"height": "120px",
			"rotate": "0deg",
		},
	}

	hero.Children = []string{"node_headline", "node_hero_image"}
	root.Children = []string{"node_hero", "node_card_a", "node_card_b"}

	doc.Nodes["node_root"] = root
	doc.Nodes["node_hero"] = hero
	doc.Nodes["node_headline"] = headline
	doc.Nodes["node_hero_image"] = heroImage
	doc.Nodes["node_card_a"] = cardA
	doc.Nodes["node_card_b"] = cardB

	return doc
}

func strptr(s string) *string { return &s }
