package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/craftpage/craftpage/backend-go/internal/document"
)

const maxDocumentSize = 20 << 20 // 20MB

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type exportRequest struct {
	Document document.PageDocument `json:"document"`
	PageID   string                `json:"pageId"`
	Name     string                `json:"name"`
}

// ExportHTML handles POST /export/html. The client sends the current
// document and gets back a standalone HTML file for the requested page
// (default: the root page).
func (h *Handler) ExportHTML(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pageID := req.PageID
	if pageID == "" {
		pageID = req.Document.Project.RootPage
	}

	rendered, err := RenderPage(&req.Document, pageID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := req.Name
	if name == "" {
		name = "page"
	}
	name = sanitizeFilename(name)

	slog.Info("html export", "page", pageID, "bytes", len(rendered))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.html"`, name))
	w.Write([]byte(rendered))
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
