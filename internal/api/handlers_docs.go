package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dgallion1/gedgest/internal/store"
	"github.com/go-chi/chi/v5"
)

type ctxKey int

const entryKey ctxKey = iota

// loadDocument resolves {docID} into the request context.
func (s *Server) loadDocument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		docID := chi.URLParam(r, "docID")
		entry, err := s.orchestrator.Documents().Get(docID)
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), entryKey, entry)))
	})
}

func entryFrom(r *http.Request) *store.Entry {
	return r.Context().Value(entryKey).(*store.Entry)
}

// handleListDocuments lists the stored documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": s.orchestrator.Documents().List()})
}

// handleGetDocument returns document metadata and the header summary.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	entry := entryFrom(r)
	resp := map[string]any{"document": entry.Meta()}
	if head, ok := entry.Doc.Header(); ok {
		resp["header"] = elementJSON(head, 2)
	}
	if skipped := entry.Doc.Skipped(); len(skipped) > 0 {
		lines := make([]map[string]any, 0, len(skipped))
		for _, e := range skipped {
			lines = append(lines, map[string]any{"line": e.Line, "reason": e.Reason, "raw": e.Raw})
		}
		resp["skipped"] = lines
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteDocument removes a document from the store.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	entry := entryFrom(r)
	deleted := s.orchestrator.Documents().Delete(entry.ID)
	writeJSON(w, http.StatusOK, map[string]any{"doc_id": entry.ID, "deleted": deleted})
}
