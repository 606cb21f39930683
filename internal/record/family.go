package record

import "github.com/dgallion1/gedgest/internal/gedcom"

// ChildLink is a CHIL entry of a family.
type ChildLink struct {
	Pointer              string `json:"pointer"`
	RelationshipToFather string `json:"relationship_to_father,omitempty"`
	RelationshipToMother string `json:"relationship_to_mother,omitempty"`
}

// Family is a FAM_RECORD.
type Family struct {
	Pointer          string      `json:"pointer"`
	Restriction      string      `json:"restriction,omitempty"`
	Events           []Event     `json:"events,omitempty"`
	Husband          string      `json:"husband,omitempty"`
	Wife             string      `json:"wife,omitempty"`
	Children         []ChildLink `json:"children,omitempty"`
	NumberOfChildren string      `json:"number_of_children,omitempty"`
	Submitters       []string    `json:"submitters,omitempty"`
	References       []Reference `json:"references,omitempty"`
	RecordID         string      `json:"record_id,omitempty"`
	Change           *ChangeDate `json:"change_date,omitempty"`
	Notes            []Note      `json:"notes,omitempty"`
	Citations        []Citation  `json:"citations,omitempty"`
	Media            []string    `json:"media,omitempty"`
}

var familyEventTags = []string{
	gedcom.TagMarriage, gedcom.TagDivorce, gedcom.TagEngagement, gedcom.TagAnnulment,
	gedcom.TagMarriageBann, gedcom.TagCensus, gedcom.TagResidence, gedcom.TagEvent,
	gedcom.TagLDSSpouseSealing,
}

var childFields = map[string]field[ChildLink]{
	gedcom.TagFatherRelation: func(c *ChildLink, e gedcom.Element) { c.RelationshipToFather = e.Value() },
	gedcom.TagMotherRelation: func(c *ChildLink, e gedcom.Element) { c.RelationshipToMother = e.Value() },
}

var familyFields = map[string]field[Family]{
	gedcom.TagHusband:     func(f *Family, e gedcom.Element) { f.Husband = pointerOf(e) },
	gedcom.TagWife:        func(f *Family, e gedcom.Element) { f.Wife = pointerOf(e) },
	gedcom.TagChildCount:  func(f *Family, e gedcom.Element) { f.NumberOfChildren = e.Value() },
	gedcom.TagRestriction: func(f *Family, e gedcom.Element) { f.Restriction = e.Value() },
	gedcom.TagRecordID:    func(f *Family, e gedcom.Element) { f.RecordID = e.Value() },
	gedcom.TagChild: func(f *Family, e gedcom.Element) {
		c := ChildLink{Pointer: pointerOf(e)}
		apply(&c, e, childFields)
		f.Children = append(f.Children, c)
	},
	gedcom.TagNote:      func(f *Family, e gedcom.Element) { f.Notes = append(f.Notes, parseNote(e)) },
	gedcom.TagSource:    func(f *Family, e gedcom.Element) { f.Citations = append(f.Citations, parseCitation(e)) },
	gedcom.TagObject:    func(f *Family, e gedcom.Element) { f.Media = append(f.Media, pointerOf(e)) },
	gedcom.TagReference: func(f *Family, e gedcom.Element) { f.References = append(f.References, parseReference(e)) },
	gedcom.TagChange:    func(f *Family, e gedcom.Element) { c := parseChangeDate(e); f.Change = &c },
	gedcom.TagSubmitter: func(f *Family, e gedcom.Element) { f.Submitters = append(f.Submitters, pointerOf(e)) },
}

func init() {
	for _, tag := range familyEventTags {
		familyFields[tag] = func(f *Family, e gedcom.Element) { f.Events = append(f.Events, parseEvent(e)) }
	}
}

// NewFamily extracts a FAM record.
func NewFamily(e gedcom.Element) (*Family, error) {
	if err := checkTag(e, gedcom.TagFamily); err != nil {
		return nil, err
	}
	fam := &Family{Pointer: e.Pointer()}
	apply(fam, e, familyFields)
	return fam, nil
}
