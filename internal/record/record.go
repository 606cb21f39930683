// Package record projects GEDCOM record trees into typed records. It only
// uses the read-only traversal API of package gedcom.
package record

import (
	"fmt"

	"github.com/dgallion1/gedgest/internal/gedcom"
)

// field applies one child element to a record under construction. Each
// record type keeps a tag-indexed table of these instead of a chain of tag
// comparisons.
type field[T any] func(rec *T, e gedcom.Element)

func apply[T any](rec *T, parent gedcom.Element, table map[string]field[T]) {
	for child := range parent.Children() {
		if f, ok := table[child.Tag()]; ok {
			f(rec, child)
		}
	}
}

// WrongTagError is returned when a record constructor gets the wrong kind of
// element.
type WrongTagError struct {
	Want string
	Got  string
	Line int
}

func (e *WrongTagError) Error() string {
	return fmt.Sprintf("line %d: expected %s record, got %s", e.Line, e.Want, e.Got)
}

func checkTag(e gedcom.Element, want string) error {
	if e.IsZero() {
		return &WrongTagError{Want: want}
	}
	if e.Tag() != want {
		return &WrongTagError{Want: want, Got: e.Tag(), Line: e.Line()}
	}
	return nil
}

// pointerOf returns the referenced pointer for e, falling back to the raw
// value for exporters that omit the delimiters.
func pointerOf(e gedcom.Element) string {
	if x := e.XRef(); x != "" {
		return x
	}
	return e.Value()
}

// Reference is a user reference number (REFN).
type Reference struct {
	Number string `json:"number"`
	Type   string `json:"type,omitempty"`
}

func parseReference(e gedcom.Element) Reference {
	return Reference{Number: e.Value(), Type: e.ChildValue(gedcom.TagType)}
}

// ChangeDate is the CHAN structure.
type ChangeDate struct {
	Date  string `json:"date,omitempty"`
	Time  string `json:"time,omitempty"`
	Notes []Note `json:"notes,omitempty"`
}

func parseChangeDate(e gedcom.Element) ChangeDate {
	var c ChangeDate
	if d, ok := e.FirstChild(gedcom.TagDate); ok {
		c.Date = d.Value()
		c.Time = d.ChildValue(gedcom.TagTime)
	}
	for n := range e.ChildrenByTag(gedcom.TagNote) {
		c.Notes = append(c.Notes, parseNote(n))
	}
	return c
}

// Citation is a SOUR citation inside another record.
type Citation struct {
	Pointer string `json:"pointer,omitempty"`
	Text    string `json:"text,omitempty"`
	Page    string `json:"page,omitempty"`
	Event   string `json:"event,omitempty"`
	Date    string `json:"date,omitempty"`
	Quality string `json:"quality,omitempty"`
	Notes   []Note `json:"notes,omitempty"`
}

// citationFields is filled in init: citations hold notes, and notes hold
// citations.
var citationFields map[string]field[Citation]

func init() {
	citationFields = map[string]field[Citation]{
		gedcom.TagPage:    func(c *Citation, e gedcom.Element) { c.Page = e.Value() },
		gedcom.TagQuality: func(c *Citation, e gedcom.Element) { c.Quality = e.Value() },
		gedcom.TagEvent:   func(c *Citation, e gedcom.Element) { c.Event = e.Value() },
		gedcom.TagNote:    func(c *Citation, e gedcom.Element) { c.Notes = append(c.Notes, parseNote(e)) },
		gedcom.TagText:    func(c *Citation, e gedcom.Element) { c.Text = e.MultiLineValue() },
		gedcom.TagData: func(c *Citation, e gedcom.Element) {
			c.Date = e.ChildValue(gedcom.TagDate)
			if t, ok := e.FirstChild(gedcom.TagText); ok {
				c.Text = t.MultiLineValue()
			}
		},
	}
}

func parseCitation(e gedcom.Element) Citation {
	var c Citation
	if x := e.XRef(); x != "" {
		c.Pointer = x
	} else {
		c.Text = e.MultiLineValue()
	}
	apply(&c, e, citationFields)
	return c
}

// Event is an individual or family event or attribute. LDS ordinances are
// events too; Temple, Status and StatusDate only apply to them.
type Event struct {
	Tag        string     `json:"tag"`
	Type       string     `json:"type,omitempty"`
	Value      string     `json:"value,omitempty"`
	Date       string     `json:"date,omitempty"`
	Place      string     `json:"place,omitempty"`
	Age        string     `json:"age,omitempty"`
	Cause      string     `json:"cause,omitempty"`
	Agency     string     `json:"agency,omitempty"`
	Family     string     `json:"family,omitempty"`
	Temple     string     `json:"temple,omitempty"`
	Status     string     `json:"status,omitempty"`
	StatusDate string     `json:"status_date,omitempty"`
	Address    *Address   `json:"address,omitempty"`
	Citations  []Citation `json:"citations,omitempty"`
	Notes      []Note     `json:"notes,omitempty"`
}

var eventFields = map[string]field[Event]{
	gedcom.TagType:    func(ev *Event, e gedcom.Element) { ev.Type = e.Value() },
	gedcom.TagDate:    func(ev *Event, e gedcom.Element) { ev.Date = e.Value() },
	gedcom.TagPlace:   func(ev *Event, e gedcom.Element) { ev.Place = e.Value() },
	gedcom.TagAge:     func(ev *Event, e gedcom.Element) { ev.Age = e.Value() },
	gedcom.TagCause:   func(ev *Event, e gedcom.Element) { ev.Cause = e.Value() },
	gedcom.TagAgency:  func(ev *Event, e gedcom.Element) { ev.Agency = e.Value() },
	gedcom.TagSource:  func(ev *Event, e gedcom.Element) { ev.Citations = append(ev.Citations, parseCitation(e)) },
	gedcom.TagNote:    func(ev *Event, e gedcom.Element) { ev.Notes = append(ev.Notes, parseNote(e)) },
	gedcom.TagAddress: func(ev *Event, e gedcom.Element) { a := parseAddress(e); ev.Address = &a },

	gedcom.TagFamilyChild: func(ev *Event, e gedcom.Element) { ev.Family = pointerOf(e) },
	gedcom.TagTemple:      func(ev *Event, e gedcom.Element) { ev.Temple = e.Value() },
	gedcom.TagOrdinanceStatus: func(ev *Event, e gedcom.Element) {
		ev.Status = e.Value()
		ev.StatusDate = e.ChildValue(gedcom.TagDate)
	},
}

func parseEvent(e gedcom.Element) Event {
	ev := Event{Tag: e.Tag(), Value: e.Value()}
	apply(&ev, e, eventFields)
	return ev
}

// Address is the ADDR structure.
type Address struct {
	Full       string `json:"full,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	Line3      string `json:"line3,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

var addressFields = map[string]field[Address]{
	gedcom.TagAddress1:   func(a *Address, e gedcom.Element) { a.Line1 = e.Value() },
	gedcom.TagAddress2:   func(a *Address, e gedcom.Element) { a.Line2 = e.Value() },
	gedcom.TagAddress3:   func(a *Address, e gedcom.Element) { a.Line3 = e.Value() },
	gedcom.TagCity:       func(a *Address, e gedcom.Element) { a.City = e.Value() },
	gedcom.TagState:      func(a *Address, e gedcom.Element) { a.State = e.Value() },
	gedcom.TagPostalCode: func(a *Address, e gedcom.Element) { a.PostalCode = e.Value() },
	gedcom.TagCountry:    func(a *Address, e gedcom.Element) { a.Country = e.Value() },
}

func parseAddress(e gedcom.Element) Address {
	a := Address{Full: e.MultiLineValue()}
	apply(&a, e, addressFields)
	return a
}
