package export

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/craftpage/craftpage/backend-go/internal/document"
)

// styleKeyToCSS maps node style keys to CSS properties. Keys absent from
// the map pass through unchanged (left, top, width, height, gap, display
// are already valid CSS).
var styleKeyToCSS = map[string]string{
	"fontSize":   "font-size",
	"fontWeight": "font-weight",
	"fontFamily": "font-family",
	"textAlign":  "text-align",
	"background": "background",
	"rotate":     "rotate",
}

// positioning keys handled structurally rather than copied verbatim
var positionKeys = map[string]bool{
	"left": true,
	"top":  true,
}

type textData struct {
	Text string `json:"text"`
}

type imageData struct {
	AssetID string `json:"assetId"`
	Src     string `json:"src"`
	Alt     string `json:"alt"`
}

type videoData struct {
	AssetID string `json:"assetId"`
	Src     string `json:"src"`
}

// RenderPage renders one page of a document as a standalone HTML string.
// Flow children keep their document order; absolutely positioned nodes
// keep their stored left/top offsets.
func RenderPage(doc *document.PageDocument, pageID string) (string, error) {
	page, ok := doc.Pages[pageID]
	if !ok {
		return "", fmt.Errorf("page %s not found", pageID)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(doc.Project.Name))
	b.WriteString("<style>\n")
	b.WriteString("* { margin: 0; padding: 0; box-sizing: border-box; }\n")
	fmt.Fprintf(&b, "body { background: %s; }\n", safeCSSValue(page.Background))
	fmt.Fprintf(&b, ".page { position: relative; width: %dpx; min-height: %dpx; margin: 0 auto; overflow: hidden; }\n",
		page.Width, page.Height)
	b.WriteString("</style>\n</head>\n<body>\n")
	fmt.Fprintf(&b, "<div class=\"page\">\n")

	if root, ok := doc.Nodes[page.Root]; ok {
		for _, childID := range root.Children {
			renderNode(&b, doc, childID, 1)
		}
	}

	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String(), nil
}

func renderNode(b *strings.Builder, doc *document.PageDocument, id string, depth int) {
	node, ok := doc.Nodes[id]
	if !ok || node.Hidden {
		return
	}

	indent := strings.Repeat("  ", depth)
	style := inlineStyle(node)

	switch node.Type {
	case document.NodeTypeText:
		var data textData
		json.Unmarshal(node.Data, &data)
		fmt.Fprintf(b, "%s<p style=\"%s\">%s</p>\n", indent, style, html.EscapeString(data.Text))

	case document.NodeTypeImage:
		var data imageData
		json.Unmarshal(node.Data, &data)
		src := assetURL(doc, data.AssetID, data.Src)
		fmt.Fprintf(b, "%s<img style=\"%s\" src=\"%s\" alt=\"%s\">\n",
			indent, style, html.EscapeString(src), html.EscapeString(data.Alt))

	case document.NodeTypeVideo:
		var data videoData
		json.Unmarshal(node.Data, &data)
		src := assetURL(doc, data.AssetID, data.Src)
		fmt.Fprintf(b, "%s<video style=\"%s\" src=\"%s\" controls></video>\n",
			indent, style, html.EscapeString(src))

	default:
		fmt.Fprintf(b, "%s<div style=\"%s\">\n", indent, style)
		for _, childID := range node.Children {
			renderNode(b, doc, childID, depth+1)
		}
		fmt.Fprintf(b, "%s</div>\n", indent)
	}
}

// inlineStyle flattens a node's style bag into a deterministic inline
// style attribute.
func inlineStyle(node document.Node) string {
	props := make(map[string]string, len(node.Style)+2)

	if node.AbsoluteInFrame {
		props["position"] = "absolute"
		props["left"] = safeCSSValue(node.Style["left"])
		props["top"] = safeCSSValue(node.Style["top"])
	} else {
		props["position"] = "relative"
	}

	for key, value := range node.Style {
		if positionKeys[key] && !node.AbsoluteInFrame {
			continue
		}
		if positionKeys[key] {
			continue // already set above
		}
		cssKey, ok := styleKeyToCSS[key]
		if !ok {
			cssKey = key
		}
		props[cssKey] = safeCSSValue(value)
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+props[k])
	}
	return html.EscapeString(strings.Join(parts, "; "))
}

func assetURL(doc *document.PageDocument, assetID, fallback string) string {
	if assetID != "" {
		if a, ok := doc.Assets[assetID]; ok && a.URL != "" {
			return a.URL
		}
	}
	return fallback
}

// safeCSSValue strips characters that could break out of a declaration.
func safeCSSValue(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>':
			return -1
		}
		return r
	}, v)
}
