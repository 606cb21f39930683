package record

import (
	"strconv"
	"strings"

	"github.com/dgallion1/gedgest/internal/gedcom"
)

// Name is a PERSONAL_NAME_STRUCTURE.
type Name struct {
	Full      string     `json:"full"`
	Given     string     `json:"given,omitempty"`
	Surname   string     `json:"surname,omitempty"`
	Prefix    string     `json:"prefix,omitempty"`
	Suffix    string     `json:"suffix,omitempty"`
	Nickname  string     `json:"nickname,omitempty"`
	Type      string     `json:"type,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
	Notes     []Note     `json:"notes,omitempty"`
}

var nameFields = map[string]field[Name]{
	gedcom.TagGivenName: func(n *Name, e gedcom.Element) { n.Given = e.Value() },
	gedcom.TagSurname:   func(n *Name, e gedcom.Element) { n.Surname = e.Value() },
	gedcom.TagPrefix:    func(n *Name, e gedcom.Element) { n.Prefix = e.Value() },
	gedcom.TagSuffix:    func(n *Name, e gedcom.Element) { n.Suffix = e.Value() },
	gedcom.TagNickname:  func(n *Name, e gedcom.Element) { n.Nickname = e.Value() },
	gedcom.TagType:      func(n *Name, e gedcom.Element) { n.Type = e.Value() },
	gedcom.TagSource:    func(n *Name, e gedcom.Element) { n.Citations = append(n.Citations, parseCitation(e)) },
	gedcom.TagNote:      func(n *Name, e gedcom.Element) { n.Notes = append(n.Notes, parseNote(e)) },
}

// parseName reads the "Given /Surname/ Suffix" value and lets GIVN/SURN
// children override the parts.
func parseName(e gedcom.Element) Name {
	n := Name{Full: e.Value()}
	if parts := strings.Split(n.Full, "/"); n.Full != "" {
		n.Given = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			n.Surname = strings.TrimSpace(parts[1])
		}
	}
	apply(&n, e, nameFields)
	return n
}

// FamilyLink is a FAMC or FAMS link from an individual to a family.
type FamilyLink struct {
	Pointer  string `json:"pointer"`
	Pedigree string `json:"pedigree,omitempty"`
	Notes    []Note `json:"notes,omitempty"`
}

func parseFamilyLink(e gedcom.Element) FamilyLink {
	l := FamilyLink{Pointer: pointerOf(e), Pedigree: e.ChildValue(gedcom.TagPedigree)}
	for n := range e.ChildrenByTag(gedcom.TagNote) {
		l.Notes = append(l.Notes, parseNote(n))
	}
	return l
}

// Associate is an ASSO link to a related individual.
type Associate struct {
	Pointer   string     `json:"pointer"`
	Relation  string     `json:"relation,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
	Notes     []Note     `json:"notes,omitempty"`
}

var associateFields = map[string]field[Associate]{
	gedcom.TagRelation: func(a *Associate, e gedcom.Element) { a.Relation = e.Value() },
	gedcom.TagSource:   func(a *Associate, e gedcom.Element) { a.Citations = append(a.Citations, parseCitation(e)) },
	gedcom.TagNote:     func(a *Associate, e gedcom.Element) { a.Notes = append(a.Notes, parseNote(e)) },
}

func parseAssociate(e gedcom.Element) Associate {
	a := Associate{Pointer: pointerOf(e)}
	apply(&a, e, associateFields)
	return a
}

// Individual is an INDIVIDUAL_RECORD.
type Individual struct {
	Pointer             string       `json:"pointer"`
	Restriction         string       `json:"restriction,omitempty"`
	Names               []Name       `json:"names"`
	Sex                 string       `json:"sex"`
	Events              []Event      `json:"events,omitempty"`
	Attributes          []Event      `json:"attributes,omitempty"`
	ChildToFamily       []FamilyLink `json:"child_to_family,omitempty"`
	SpouseToFamily      []FamilyLink `json:"spouse_to_family,omitempty"`
	Submitters          []string     `json:"submitters,omitempty"`
	Associates          []Associate  `json:"associates,omitempty"`
	Aliases             []string     `json:"aliases,omitempty"`
	AncestorsInterest   []string     `json:"ancestors_interest,omitempty"`
	DescendantsInterest []string     `json:"descendants_interest,omitempty"`
	PermanentFileNumber string       `json:"permanent_file_number,omitempty"`
	AncestralFileNumber string       `json:"ancestral_file_number,omitempty"`
	References          []Reference  `json:"references,omitempty"`
	RecordID            string       `json:"record_id,omitempty"`
	Change              *ChangeDate  `json:"change_date,omitempty"`
	Notes               []Note       `json:"notes,omitempty"`
	Citations           []Citation   `json:"citations,omitempty"`
	Media               []string     `json:"media,omitempty"`
	Private             bool         `json:"private,omitempty"`
}

var individualEventTags = []string{
	gedcom.TagBirth, gedcom.TagChristen, gedcom.TagBaptism, gedcom.TagDeath,
	gedcom.TagBurial, gedcom.TagCremation, gedcom.TagCensus, gedcom.TagEmigration,
	gedcom.TagImmigrate, gedcom.TagNatural, gedcom.TagProbate, gedcom.TagWill,
	gedcom.TagGraduation, gedcom.TagRetirement, gedcom.TagEvent,
	gedcom.TagLDSBaptism, gedcom.TagLDSConfirmation, gedcom.TagLDSEndowment,
	gedcom.TagLDSChildSealing,
}

var individualAttributeTags = []string{
	gedcom.TagOccupation, gedcom.TagEducation, gedcom.TagReligion,
	gedcom.TagResidence, gedcom.TagTitle,
}

var individualFields = map[string]field[Individual]{
	gedcom.TagRestriction: func(i *Individual, e gedcom.Element) { i.Restriction = e.Value() },
	gedcom.TagSex:         func(i *Individual, e gedcom.Element) { i.Sex = e.Value() },
	gedcom.TagRecordID:    func(i *Individual, e gedcom.Element) { i.RecordID = e.Value() },
	gedcom.TagName:        func(i *Individual, e gedcom.Element) { i.Names = append(i.Names, parseName(e)) },
	gedcom.TagFamilyChild: func(i *Individual, e gedcom.Element) {
		i.ChildToFamily = append(i.ChildToFamily, parseFamilyLink(e))
	},
	gedcom.TagFamilySpouse: func(i *Individual, e gedcom.Element) {
		i.SpouseToFamily = append(i.SpouseToFamily, parseFamilyLink(e))
	},
	gedcom.TagSubmitter: func(i *Individual, e gedcom.Element) { i.Submitters = append(i.Submitters, pointerOf(e)) },
	gedcom.TagAlias:     func(i *Individual, e gedcom.Element) { i.Aliases = append(i.Aliases, pointerOf(e)) },
	gedcom.TagReference: func(i *Individual, e gedcom.Element) { i.References = append(i.References, parseReference(e)) },
	gedcom.TagChange:    func(i *Individual, e gedcom.Element) { c := parseChangeDate(e); i.Change = &c },
	gedcom.TagNote:      func(i *Individual, e gedcom.Element) { i.Notes = append(i.Notes, parseNote(e)) },
	gedcom.TagSource:    func(i *Individual, e gedcom.Element) { i.Citations = append(i.Citations, parseCitation(e)) },
	gedcom.TagObject:    func(i *Individual, e gedcom.Element) { i.Media = append(i.Media, pointerOf(e)) },
	gedcom.TagPrivate:   func(i *Individual, e gedcom.Element) { i.Private = e.Value() == "Y" },
	gedcom.TagAssociate: func(i *Individual, e gedcom.Element) { i.Associates = append(i.Associates, parseAssociate(e)) },
	gedcom.TagAncestorInterest: func(i *Individual, e gedcom.Element) {
		i.AncestorsInterest = append(i.AncestorsInterest, pointerOf(e))
	},
	gedcom.TagDescendantInterest: func(i *Individual, e gedcom.Element) {
		i.DescendantsInterest = append(i.DescendantsInterest, pointerOf(e))
	},
	gedcom.TagPermanentFile: func(i *Individual, e gedcom.Element) { i.PermanentFileNumber = e.Value() },
	gedcom.TagAncestralFile: func(i *Individual, e gedcom.Element) { i.AncestralFileNumber = e.Value() },
}

func init() {
	for _, tag := range individualEventTags {
		individualFields[tag] = func(i *Individual, e gedcom.Element) { i.Events = append(i.Events, parseEvent(e)) }
	}
	for _, tag := range individualAttributeTags {
		individualFields[tag] = func(i *Individual, e gedcom.Element) { i.Attributes = append(i.Attributes, parseEvent(e)) }
	}
}

// NewIndividual extracts an INDI record.
func NewIndividual(e gedcom.Element) (*Individual, error) {
	if err := checkTag(e, gedcom.TagIndividual); err != nil {
		return nil, err
	}
	ind := &Individual{Pointer: e.Pointer(), Sex: "U", Names: []Name{}}
	apply(ind, e, individualFields)
	return ind, nil
}

// Individuals extracts every INDI record of doc in document order.
func Individuals(doc *gedcom.Document) []*Individual {
	var out []*Individual
	for e := range doc.RecordsByTag(gedcom.TagIndividual) {
		ind, _ := NewIndividual(e)
		out = append(out, ind)
	}
	return out
}

// Name returns the given name and surname of the first NAME.
func (i *Individual) Name() (given, surname string) {
	if len(i.Names) == 0 {
		return "", ""
	}
	return i.Names[0].Given, i.Names[0].Surname
}

// FirstEvent returns the first event with the given tag.
func (i *Individual) FirstEvent(tag string) (Event, bool) {
	for _, ev := range i.Events {
		if ev.Tag == tag {
			return ev, true
		}
	}
	return Event{}, false
}

// Occupation returns the first OCCU value.
func (i *Individual) Occupation() string {
	for _, a := range i.Attributes {
		if a.Tag == gedcom.TagOccupation {
			return a.Value
		}
	}
	return ""
}

// IsChild reports whether the individual is linked to a family as a child.
func (i *Individual) IsChild() bool { return len(i.ChildToFamily) > 0 }

// IsDeceased reports whether a DEAT event is present.
func (i *Individual) IsDeceased() bool {
	_, ok := i.FirstEvent(gedcom.TagDeath)
	return ok
}

// BirthYear returns the year of the first birth date, or -1.
func (i *Individual) BirthYear() int { return i.eventYear(gedcom.TagBirth) }

// DeathYear returns the year of the first death date, or -1.
func (i *Individual) DeathYear() int { return i.eventYear(gedcom.TagDeath) }

func (i *Individual) eventYear(tag string) int {
	ev, ok := i.FirstEvent(tag)
	if !ok {
		return -1
	}
	return Year(ev.Date)
}

// Year returns the trailing year of a GEDCOM date value such as
// "ABT 12 JAN 1900", or -1 when it has none.
func Year(date string) int {
	fields := strings.Fields(date)
	if len(fields) == 0 {
		return -1
	}
	y, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return -1
	}
	return y
}
