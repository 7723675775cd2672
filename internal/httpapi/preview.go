// internal/httpapi/preview.go
//
// Block preview for the page builder: a raw block document in, rendered
// HTML fragments out.  Nothing is read from or written to storage, so
// the editor can preview unsaved drafts.
package httpapi

import (
	"io"
	"net/http"

	"github.com/yanizio/storefront/internal/blocks"
	"github.com/yanizio/storefront/internal/fault"
)

const previewBodyLimit = 1 << 20

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(http.MaxBytesReader(w, r.Body, previewBodyLimit))
	if err != nil {
		s.respondError(w, r, fault.Validation("read preview body: %v", err))
		return
	}

	list, err := blocks.DecodeList(doc)
	if err != nil {
		s.respondError(w, r, fault.Validation("invalid block document: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(blocks.Render(list)))
}
