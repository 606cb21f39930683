package gedcom

import (
	"iter"
	"strings"
)

const none int32 = -1

// node is one arena slot. Links are arena indexes; parent is a back-reference
// only and never owns anything.
type node struct {
	tag       string
	pointer   string
	xref      string
	value     string
	level     int
	line      int
	continued int // number of CONT/CONC lines folded into value

	parent      int32
	firstChild  int32
	lastChild   int32
	nextSibling int32
}

// Document is a fully built GEDCOM forest plus its cross-reference index.
// It is immutable once returned by a Builder and safe for concurrent readers.
type Document struct {
	nodes   []node
	roots   []int32
	index   xrefIndex
	skipped []*MalformedLineError
}

// Len returns the number of elements in the document.
func (d *Document) Len() int { return len(d.nodes) }

// RootCount returns the number of level-0 records.
func (d *Document) RootCount() int { return len(d.roots) }

// PointerCount returns the number of defined cross-reference ids.
func (d *Document) PointerCount() int { return len(d.index) }

// Skipped returns the malformed lines dropped in lenient mode.
func (d *Document) Skipped() []*MalformedLineError { return d.skipped }

// Roots yields the level-0 records in document order.
func (d *Document) Roots() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for _, id := range d.roots {
			if !yield(Element{doc: d, id: id}) {
				return
			}
		}
	}
}

// RecordsByTag yields the level-0 records with the given tag.
func (d *Document) RecordsByTag(tag string) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for _, id := range d.roots {
			if d.nodes[id].tag == tag && !yield(Element{doc: d, id: id}) {
				return
			}
		}
	}
}

// Header returns the HEAD record, if present.
func (d *Document) Header() (Element, bool) {
	for e := range d.RecordsByTag(TagHeader) {
		return e, true
	}
	return Element{}, false
}

// Resolve returns the element defining pointer. Both "@I1@" and "I1" are
// accepted.
func (d *Document) Resolve(pointer string) (Element, error) {
	key := normalizePointer(pointer)
	if id, ok := d.index[key]; ok {
		return Element{doc: d, id: id}, nil
	}
	return Element{}, &UnresolvedReferenceError{Pointer: key}
}

// Element is a read-only handle to one node of a Document. The zero Element
// refers to nothing.
type Element struct {
	doc *Document
	id  int32
}

func (e Element) n() *node { return &e.doc.nodes[e.id] }

// IsZero reports whether e refers to no element.
func (e Element) IsZero() bool { return e.doc == nil }

// Document returns the document owning e.
func (e Element) Document() *Document { return e.doc }

func (e Element) Tag() string { return e.n().tag }

// Pointer returns the cross-reference id this element defines, or "".
func (e Element) Pointer() string { return e.n().pointer }

// XRef returns the pointer this element's value refers to, or "".
func (e Element) XRef() string { return e.n().xref }

func (e Element) Level() int { return e.n().level }

// Line returns the source line number the element was opened on.
func (e Element) Line() int { return e.n().line }

// Value returns the continuation-merged value as a single trimmed line, with
// CONT line breaks folded to spaces. Use it for scalar fields.
func (e Element) Value() string {
	v := e.n().value
	if e.n().continued > 0 {
		v = strings.ReplaceAll(v, "\n", " ")
	}
	return strings.TrimSpace(v)
}

// MultiLineValue returns the continuation-merged value verbatim, with CONT
// line breaks preserved.
func (e Element) MultiLineValue() string { return e.n().value }

// Parent returns the enclosing element. Roots have no parent.
func (e Element) Parent() (Element, bool) {
	p := e.n().parent
	if p == none {
		return Element{}, false
	}
	return Element{doc: e.doc, id: p}, true
}

// Children yields the direct children in document order. Each call starts
// over from the first child.
func (e Element) Children() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for id := e.n().firstChild; id != none; id = e.doc.nodes[id].nextSibling {
			if !yield(Element{doc: e.doc, id: id}) {
				return
			}
		}
	}
}

// ChildrenByTag yields the direct children with the given tag.
func (e Element) ChildrenByTag(tag string) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for c := range e.Children() {
			if c.Tag() == tag && !yield(c) {
				return
			}
		}
	}
}

// FirstChild returns the first direct child with the given tag.
func (e Element) FirstChild(tag string) (Element, bool) {
	for c := range e.ChildrenByTag(tag) {
		return c, true
	}
	return Element{}, false
}

// ChildValue returns Value of the first child with the given tag, or "".
func (e Element) ChildValue(tag string) string {
	if c, ok := e.FirstChild(tag); ok {
		return c.Value()
	}
	return ""
}

// HasChildren reports whether e has at least one child.
func (e Element) HasChildren() bool { return e.n().firstChild != none }

// Descendants yields every element below e in document order. Nodes are
// stored in document order, so a subtree is the contiguous run of deeper
// nodes that follows its root.
func (e Element) Descendants() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		level := e.n().level
		for id := e.id + 1; int(id) < len(e.doc.nodes) && e.doc.nodes[id].level > level; id++ {
			if !yield(Element{doc: e.doc, id: id}) {
				return
			}
		}
	}
}

// Resolve follows the pointer held in e's value.
func (e Element) Resolve() (Element, error) {
	if e.n().xref == "" {
		return Element{}, &UnresolvedReferenceError{Pointer: e.n().value}
	}
	return e.doc.Resolve(e.n().xref)
}
