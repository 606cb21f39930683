package record

import "github.com/dgallion1/gedgest/internal/gedcom"

// SourceData is the DATA structure of a source record.
type SourceData struct {
	Events string `json:"events,omitempty"`
	Date   string `json:"date,omitempty"`
	Place  string `json:"place,omitempty"`
	Agency string `json:"agency,omitempty"`
	Notes  []Note `json:"notes,omitempty"`
}

// RepositoryCitation links a source to the repository holding it.
type RepositoryCitation struct {
	Pointer     string   `json:"pointer,omitempty"`
	CallNumbers []string `json:"call_numbers,omitempty"`
	Notes       []Note   `json:"notes,omitempty"`
}

// Source is a SOURCE_RECORD.
type Source struct {
	Pointer      string              `json:"pointer"`
	Author       string              `json:"author,omitempty"`
	Title        string              `json:"title,omitempty"`
	Abbreviation string              `json:"abbreviation,omitempty"`
	Publication  string              `json:"publication,omitempty"`
	Text         string              `json:"text,omitempty"`
	Data         SourceData          `json:"data"`
	Repository   *RepositoryCitation `json:"repository,omitempty"`
	References   []Reference         `json:"references,omitempty"`
	RecordID     string              `json:"record_id,omitempty"`
	APID         string              `json:"apid,omitempty"`
	Change       *ChangeDate         `json:"change_date,omitempty"`
	Notes        []Note              `json:"notes,omitempty"`
	Media        []string            `json:"media,omitempty"`
}

var sourceDataFields = map[string]field[SourceData]{
	gedcom.TagEvent: func(d *SourceData, e gedcom.Element) {
		d.Events = e.Value()
		d.Date = e.ChildValue(gedcom.TagDate)
		d.Place = e.ChildValue(gedcom.TagPlace)
	},
	gedcom.TagAgency: func(d *SourceData, e gedcom.Element) { d.Agency = e.Value() },
	gedcom.TagNote:   func(d *SourceData, e gedcom.Element) { d.Notes = append(d.Notes, parseNote(e)) },
}

var repositoryCitationFields = map[string]field[RepositoryCitation]{
	gedcom.TagCallNumber: func(r *RepositoryCitation, e gedcom.Element) {
		r.CallNumbers = append(r.CallNumbers, e.Value())
	},
	gedcom.TagNote: func(r *RepositoryCitation, e gedcom.Element) { r.Notes = append(r.Notes, parseNote(e)) },
}

var sourceFields = map[string]field[Source]{
	// Long text fields keep their line breaks.
	gedcom.TagAuthor:      func(s *Source, e gedcom.Element) { s.Author = e.MultiLineValue() },
	gedcom.TagTitle:       func(s *Source, e gedcom.Element) { s.Title = e.MultiLineValue() },
	gedcom.TagPublication: func(s *Source, e gedcom.Element) { s.Publication = e.MultiLineValue() },
	gedcom.TagText:        func(s *Source, e gedcom.Element) { s.Text = e.MultiLineValue() },

	gedcom.TagAbbreviation: func(s *Source, e gedcom.Element) { s.Abbreviation = e.Value() },
	gedcom.TagRecordID:     func(s *Source, e gedcom.Element) { s.RecordID = e.Value() },
	gedcom.TagAncestryPID:  func(s *Source, e gedcom.Element) { s.APID = e.Value() },
	gedcom.TagData:         func(s *Source, e gedcom.Element) { apply(&s.Data, e, sourceDataFields) },
	gedcom.TagRepository: func(s *Source, e gedcom.Element) {
		r := RepositoryCitation{Pointer: e.XRef()}
		apply(&r, e, repositoryCitationFields)
		s.Repository = &r
	},
	gedcom.TagNote:      func(s *Source, e gedcom.Element) { s.Notes = append(s.Notes, parseNote(e)) },
	gedcom.TagObject:    func(s *Source, e gedcom.Element) { s.Media = append(s.Media, pointerOf(e)) },
	gedcom.TagReference: func(s *Source, e gedcom.Element) { s.References = append(s.References, parseReference(e)) },
	gedcom.TagChange:    func(s *Source, e gedcom.Element) { c := parseChangeDate(e); s.Change = &c },
}

// NewSource extracts a SOUR record.
func NewSource(e gedcom.Element) (*Source, error) {
	if err := checkTag(e, gedcom.TagSource); err != nil {
		return nil, err
	}
	src := &Source{Pointer: e.Pointer()}
	apply(src, e, sourceFields)
	return src, nil
}
