package record

import "github.com/dgallion1/gedgest/internal/gedcom"

// Repository is a REPOSITORY_RECORD.
type Repository struct {
	Pointer    string      `json:"pointer"`
	Name       string      `json:"name,omitempty"`
	Address    *Address    `json:"address,omitempty"`
	Phones     []string    `json:"phones,omitempty"`
	Emails     []string    `json:"emails,omitempty"`
	Websites   []string    `json:"websites,omitempty"`
	References []Reference `json:"references,omitempty"`
	RecordID   string      `json:"record_id,omitempty"`
	Change     *ChangeDate `json:"change_date,omitempty"`
	Notes      []Note      `json:"notes,omitempty"`
}

var repositoryFields = map[string]field[Repository]{
	gedcom.TagName:      func(r *Repository, e gedcom.Element) { r.Name = e.Value() },
	gedcom.TagAddress:   func(r *Repository, e gedcom.Element) { a := parseAddress(e); r.Address = &a },
	gedcom.TagPhone:     func(r *Repository, e gedcom.Element) { r.Phones = append(r.Phones, e.Value()) },
	gedcom.TagEmail:     func(r *Repository, e gedcom.Element) { r.Emails = append(r.Emails, e.Value()) },
	gedcom.TagWWW:       func(r *Repository, e gedcom.Element) { r.Websites = append(r.Websites, e.Value()) },
	gedcom.TagNote:      func(r *Repository, e gedcom.Element) { r.Notes = append(r.Notes, parseNote(e)) },
	gedcom.TagReference: func(r *Repository, e gedcom.Element) { r.References = append(r.References, parseReference(e)) },
	gedcom.TagRecordID:  func(r *Repository, e gedcom.Element) { r.RecordID = e.Value() },
	gedcom.TagChange:    func(r *Repository, e gedcom.Element) { c := parseChangeDate(e); r.Change = &c },
}

// NewRepository extracts a REPO record.
func NewRepository(e gedcom.Element) (*Repository, error) {
	if err := checkTag(e, gedcom.TagRepository); err != nil {
		return nil, err
	}
	repo := &Repository{Pointer: e.Pointer()}
	apply(repo, e, repositoryFields)
	return repo, nil
}
