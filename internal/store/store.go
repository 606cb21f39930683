// Package store keeps parsed documents in memory, keyed by document id and
// content hash, with TTL eviction.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/gedgest/internal/charset"
	"github.com/dgallion1/gedgest/internal/gedcom"
)

// ErrNotFound is returned for unknown or expired document ids.
var ErrNotFound = errors.New("document not found")

// Entry is a stored document and its metadata.
type Entry struct {
	ID          string
	Filename    string
	ContentHash string
	Charset     charset.Charset
	Doc         *gedcom.Document
	CreatedAt   time.Time

	accessedAt time.Time
}

// Meta is the JSON-safe summary of an entry.
type Meta struct {
	ID          string    `json:"doc_id"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	Charset     string    `json:"charset"`
	Approximate bool      `json:"charset_approximate,omitempty"`
	Elements    int       `json:"elements"`
	Records     int       `json:"records"`
	Pointers    int       `json:"pointers"`
	Skipped     int       `json:"skipped_lines"`
	CreatedAt   time.Time `json:"created_at"`
}

// Meta summarises e.
func (e *Entry) Meta() Meta {
	m := Meta{
		ID:          e.ID,
		Filename:    e.Filename,
		ContentHash: e.ContentHash,
		Charset:     e.Charset.Name,
		Approximate: e.Charset.Approximate,
		CreatedAt:   e.CreatedAt,
	}
	if e.Doc != nil {
		m.Elements = e.Doc.Len()
		m.Records = e.Doc.RootCount()
		m.Pointers = e.Doc.PointerCount()
		m.Skipped = len(e.Doc.Skipped())
	}
	return m
}

// DocumentStore is a thread-safe in-memory document registry. Entries expire
// ttl after their last access.
type DocumentStore struct {
	mu     sync.Mutex
	docs   map[string]*Entry
	byHash map[string]string
	ttl    time.Duration
	now    func() time.Time
}

func New(ttl time.Duration) *DocumentStore {
	return &DocumentStore{
		docs:   make(map[string]*Entry),
		byHash: make(map[string]string),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Put stores e, replacing any entry with the same id.
func (s *DocumentStore) Put(e *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.accessedAt = now
	if old, ok := s.docs[e.ID]; ok && old.ContentHash != e.ContentHash {
		delete(s.byHash, old.ContentHash)
	}
	s.docs[e.ID] = e
	if e.ContentHash != "" {
		s.byHash[e.ContentHash] = e.ID
	}
}

// Get returns the entry for id and refreshes its TTL.
func (s *DocumentStore) Get(id string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.docs[id]
	if !ok || s.expiredLocked(e) {
		return nil, ErrNotFound
	}
	e.accessedAt = s.now()
	return e, nil
}

// FindByHash returns the id of a live document with the given content hash.
func (s *DocumentStore) FindByHash(hash string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byHash[hash]
	if !ok {
		return "", false
	}
	if e := s.docs[id]; e == nil || s.expiredLocked(e) {
		return "", false
	}
	return id, true
}

// List returns metadata for every live entry, oldest first.
func (s *DocumentStore) List() []Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Meta, 0, len(s.docs))
	for _, e := range s.docs {
		if !s.expiredLocked(e) {
			out = append(out, e.Meta())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes id. It reports whether an entry existed.
func (s *DocumentStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.docs[id]
	if !ok {
		return false
	}
	s.removeLocked(e)
	return true
}

// Cleanup removes expired entries and returns how many were dropped.
func (s *DocumentStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.docs {
		if s.expiredLocked(e) {
			s.removeLocked(e)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, expired or not.
func (s *DocumentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *DocumentStore) expiredLocked(e *Entry) bool {
	return s.ttl > 0 && s.now().Sub(e.accessedAt) > s.ttl
}

func (s *DocumentStore) removeLocked(e *Entry) {
	delete(s.docs, e.ID)
	if s.byHash[e.ContentHash] == e.ID {
		delete(s.byHash, e.ContentHash)
	}
}
