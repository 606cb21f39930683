package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/gedgest/internal/charset"
	"github.com/dgallion1/gedgest/internal/gedcom"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newStore(ttl time.Duration) (*DocumentStore, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := New(ttl)
	s.now = c.now
	return s, c
}

func TestDocumentStore_PutGet(t *testing.T) {
	s, _ := newStore(time.Hour)
	doc, err := gedcom.Parse(strings.NewReader("0 HEAD\n0 @I1@ INDI\n1 NAME A /B/\n0 TRLR\n"), gedcom.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Put(&Entry{ID: "d1", Filename: "a.ged", ContentHash: "h1", Charset: charset.Default, Doc: doc})

	e, err := s.Get("d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := e.Meta()
	if m.Records != 3 || m.Elements != 4 || m.Pointers != 1 {
		t.Errorf("unexpected meta %+v", m)
	}
	if m.Charset != charset.Default.Name {
		t.Errorf("expected charset %q, got %q", charset.Default.Name, m.Charset)
	}
}

func TestDocumentStore_GetMissing(t *testing.T) {
	s, _ := newStore(time.Hour)
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentStore_FindByHash(t *testing.T) {
	s, _ := newStore(time.Hour)
	s.Put(&Entry{ID: "d1", ContentHash: "h1"})

	if id, ok := s.FindByHash("h1"); !ok || id != "d1" {
		t.Errorf("expected d1, got %q %v", id, ok)
	}
	if _, ok := s.FindByHash("h2"); ok {
		t.Error("expected no match for h2")
	}

	// Replacing the content moves the hash index.
	s.Put(&Entry{ID: "d1", ContentHash: "h2"})
	if _, ok := s.FindByHash("h1"); ok {
		t.Error("expected stale hash to be dropped")
	}

	s.Delete("d1")
	if _, ok := s.FindByHash("h2"); ok {
		t.Error("expected hash to be dropped on delete")
	}
}

func TestDocumentStore_TTL(t *testing.T) {
	s, c := newStore(time.Hour)
	s.Put(&Entry{ID: "old", ContentHash: "h-old"})
	c.advance(50 * time.Minute)
	s.Put(&Entry{ID: "new", ContentHash: "h-new"})

	// Access refreshes the TTL.
	c.advance(20 * time.Minute)
	if _, err := s.Get("new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Get("old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected old entry to be expired, got %v", err)
	}
	if _, ok := s.FindByHash("h-old"); ok {
		t.Error("expected expired entry to be invisible by hash")
	}

	if n := s.Cleanup(); n != 1 {
		t.Errorf("expected 1 removed, got %d", n)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 remaining, got %d", s.Len())
	}
}

func TestDocumentStore_ListOrder(t *testing.T) {
	s, c := newStore(0)
	s.Put(&Entry{ID: "b"})
	c.advance(time.Second)
	s.Put(&Entry{ID: "a"})

	list := s.List()
	if len(list) != 2 || list[0].ID != "b" || list[1].ID != "a" {
		t.Errorf("expected [b a], got %+v", list)
	}
}

func TestDocumentStore_Delete(t *testing.T) {
	s, _ := newStore(time.Hour)
	s.Put(&Entry{ID: "d1"})
	if !s.Delete("d1") {
		t.Error("expected delete to report existing entry")
	}
	if s.Delete("d1") {
		t.Error("expected second delete to report missing entry")
	}
}
