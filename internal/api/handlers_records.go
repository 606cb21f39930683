package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/gedgest/internal/gedcom"
	"github.com/dgallion1/gedgest/internal/record"
	"github.com/dgallion1/gedgest/internal/report"
	"github.com/go-chi/chi/v5"
)

const (
	defaultRecordDepth = 16
	defaultPageSize    = 100
	maxPageSize        = 1000
)

// elementNode is the JSON form of a record subtree.
type elementNode struct {
	Line     int            `json:"line"`
	Level    int            `json:"level"`
	Pointer  string         `json:"pointer,omitempty"`
	Tag      string         `json:"tag"`
	Value    string         `json:"value,omitempty"`
	XRef     string         `json:"xref,omitempty"`
	Children []*elementNode `json:"children,omitempty"`
	// Truncated is set when children exist below the depth limit.
	Truncated bool `json:"truncated,omitempty"`
}

func elementJSON(e gedcom.Element, depth int) *elementNode {
	n := &elementNode{
		Line:    e.Line(),
		Level:   e.Level(),
		Pointer: e.Pointer(),
		Tag:     e.Tag(),
		Value:   e.MultiLineValue(),
		XRef:    e.XRef(),
	}
	if depth <= 0 {
		n.Truncated = e.HasChildren()
		return n
	}
	for c := range e.Children() {
		n.Children = append(n.Children, elementJSON(c, depth-1))
	}
	return n
}

// resolve looks up {xref} in the request's document, writing a 404 when it
// is not defined.
func resolve(w http.ResponseWriter, r *http.Request) (gedcom.Element, bool) {
	doc := entryFrom(r).Doc
	e, err := doc.Resolve(chi.URLParam(r, "xref"))
	if errors.Is(err, gedcom.ErrUnresolvedReference) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return gedcom.Element{}, false
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return gedcom.Element{}, false
	}
	return e, true
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	e, ok := resolve(w, r)
	if !ok {
		return
	}
	depth := defaultRecordDepth
	if v := r.URL.Query().Get("depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "depth must be a non-negative integer", http.StatusBadRequest)
			return
		}
		depth = n
	}
	writeJSON(w, http.StatusOK, elementJSON(e, depth))
}

func (s *Server) handleListIndividuals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	crit, err := record.ParseCriteria(q.Get("criteria"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	offset, limit, err := page(q.Get("offset"), q.Get("limit"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	matches := crit.Filter(record.Individuals(entryFrom(r).Doc))
	total := len(matches)
	start := min(offset, total)
	matches = matches[start : start+min(limit, total-start)]
	if matches == nil {
		matches = []*record.Individual{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":       total,
		"offset":      offset,
		"limit":       limit,
		"individuals": matches,
	})
}

func page(offsetStr, limitStr string) (offset, limit int, err error) {
	limit = defaultPageSize
	if offsetStr != "" {
		if offset, err = strconv.Atoi(offsetStr); err != nil || offset < 0 {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
	}
	if limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil || limit <= 0 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
	}
	return offset, min(limit, maxPageSize), nil
}

func (s *Server) handleIndividual(w http.ResponseWriter, r *http.Request) {
	e, ok := resolve(w, r)
	if !ok {
		return
	}
	ind, err := record.NewIndividual(e)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if r.URL.Query().Get("format") == "html" {
		s.writeReport(w, report.IndividualMarkdown(entryFrom(r).Doc, ind))
		return
	}
	writeJSON(w, http.StatusOK, ind)
}

func (s *Server) handleFamily(w http.ResponseWriter, r *http.Request) {
	e, ok := resolve(w, r)
	if !ok {
		return
	}
	fam, err := record.NewFamily(e)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if r.URL.Query().Get("format") == "html" {
		s.writeReport(w, report.FamilyMarkdown(entryFrom(r).Doc, fam))
		return
	}
	writeJSON(w, http.StatusOK, fam)
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	e, ok := resolve(w, r)
	if !ok {
		return
	}
	src, err := record.NewSource(e)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, src)
}

func (s *Server) handleRepository(w http.ResponseWriter, r *http.Request) {
	e, ok := resolve(w, r)
	if !ok {
		return
	}
	repo, err := record.NewRepository(e)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, repo)
}

func (s *Server) writeReport(w http.ResponseWriter, md string) {
	html, err := report.RenderHTML(md)
	if err != nil {
		s.log.Error("render report", "error", err)
		jsonError(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
