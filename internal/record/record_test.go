package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/gedgest/internal/gedcom"
)

const tree = `0 HEAD
1 CHAR UTF-8
0 @I1@ INDI
1 NAME John /Smith/ Jr.
2 GIVN Johnathan
2 NICK Jack
1 SEX M
1 BIRT
2 DATE ABT 12 JAN 1850
2 PLAC Springfield, Illinois
2 SOUR @S1@
3 PAGE p. 12
3 QUAY 3
1 DEAT
2 DATE 1911
2 CAUS Pneumonia
1 OCCU Blacksmith
1 FAMS @F1@
1 FAMC @F0@
2 PEDI birth
1 NOTE @N1@
1 NOTE Inline note
2 CONC  continued
1 RIN 42
1 CHAN
2 DATE 1 MAR 2020
3 TIME 10:15:00
0 @I2@ INDI
1 NAME Mary /Jones/
1 SEX F
1 BIRT
2 DATE 1855
1 FAMS @F1@
0 @I3@ INDI
1 NAME Sam /Smith/
1 BIRT
2 DATE 1880
1 FAMC @F1@
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
2 _FREL Natural
2 _MREL Adopted
1 NCHI 1
1 MARR
2 DATE 1875
2 PLAC Chicago
0 @S1@ SOUR
1 AUTH Census Bureau
1 TITL 1880 United States
2 CONT Federal Census
1 ABBR Census 1880
1 DATA
2 EVEN BIRT, DEAT
3 DATE FROM 1880 TO 1880
3 PLAC Illinois
2 AGNC NARA
1 REPO @R1@
2 CALN T9-0188
1 _APID 1,6742::0
0 @R1@ REPO
1 NAME National Archives
1 ADDR 700 Pennsylvania Ave
2 CONT Washington
2 CITY Washington
2 STAE DC
1 PHON 555-0100
1 WWW https://archives.example
0 @N1@ NOTE <p>Served in the <b>militia</b>.</p><p>Moved west.</p>
0 TRLR
`

func parse(t *testing.T, src string) *gedcom.Document {
	t.Helper()
	doc, err := gedcom.Parse(strings.NewReader(src), gedcom.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func individual(t *testing.T, doc *gedcom.Document, ptr string) *Individual {
	t.Helper()
	e, err := doc.Resolve(ptr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ind, err := NewIndividual(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ind
}

func TestNewIndividual(t *testing.T) {
	doc := parse(t, tree)
	ind := individual(t, doc, "I1")

	if ind.Pointer != "@I1@" {
		t.Errorf("expected pointer @I1@, got %q", ind.Pointer)
	}
	given, surname := ind.Name()
	if given != "Johnathan" || surname != "Smith" {
		t.Errorf("expected Johnathan Smith, got %q %q", given, surname)
	}
	if ind.Names[0].Nickname != "Jack" {
		t.Errorf("expected nickname Jack, got %q", ind.Names[0].Nickname)
	}
	if ind.Sex != "M" {
		t.Errorf("expected sex M, got %q", ind.Sex)
	}
	if got := ind.BirthYear(); got != 1850 {
		t.Errorf("expected birth year 1850, got %d", got)
	}
	if got := ind.DeathYear(); got != 1911 {
		t.Errorf("expected death year 1911, got %d", got)
	}
	if !ind.IsDeceased() {
		t.Error("expected deceased")
	}
	if got := ind.Occupation(); got != "Blacksmith" {
		t.Errorf("expected Blacksmith, got %q", got)
	}
	if ind.RecordID != "42" {
		t.Errorf("expected RIN 42, got %q", ind.RecordID)
	}
	if ind.Change == nil || ind.Change.Date != "1 MAR 2020" || ind.Change.Time != "10:15:00" {
		t.Errorf("unexpected change date %+v", ind.Change)
	}
}

func TestNewIndividual_EventDetails(t *testing.T) {
	ind := individual(t, parse(t, tree), "I1")

	birth, ok := ind.FirstEvent(gedcom.TagBirth)
	if !ok {
		t.Fatal("expected BIRT event")
	}
	if birth.Place != "Springfield, Illinois" {
		t.Errorf("expected place, got %q", birth.Place)
	}
	if len(birth.Citations) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(birth.Citations))
	}
	c := birth.Citations[0]
	if c.Pointer != "@S1@" || c.Page != "p. 12" || c.Quality != "3" {
		t.Errorf("unexpected citation %+v", c)
	}

	death, _ := ind.FirstEvent(gedcom.TagDeath)
	if death.Cause != "Pneumonia" {
		t.Errorf("expected cause Pneumonia, got %q", death.Cause)
	}
}

func TestNewIndividual_FamilyLinks(t *testing.T) {
	ind := individual(t, parse(t, tree), "I1")

	if len(ind.SpouseToFamily) != 1 || ind.SpouseToFamily[0].Pointer != "@F1@" {
		t.Errorf("unexpected FAMS %+v", ind.SpouseToFamily)
	}
	if len(ind.ChildToFamily) != 1 || ind.ChildToFamily[0].Pedigree != "birth" {
		t.Errorf("unexpected FAMC %+v", ind.ChildToFamily)
	}
}

func TestNewIndividual_Notes(t *testing.T) {
	ind := individual(t, parse(t, tree), "I1")

	if len(ind.Notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(ind.Notes))
	}
	ref := ind.Notes[0]
	if ref.Pointer != "@N1@" {
		t.Errorf("expected pointer @N1@, got %q", ref.Pointer)
	}
	if want := "Served in the militia.\nMoved west."; ref.Text != want {
		t.Errorf("expected %q, got %q", want, ref.Text)
	}
	if want := "Inline note continued"; ind.Notes[1].Text != want {
		t.Errorf("expected %q, got %q", want, ind.Notes[1].Text)
	}
}

func TestNewIndividual_DanglingNote(t *testing.T) {
	doc := parse(t, "0 @I1@ INDI\n1 NOTE @N9@\n")
	ind := individual(t, doc, "I1")
	if len(ind.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(ind.Notes))
	}
	if ind.Notes[0].Pointer != "@N9@" || ind.Notes[0].Text != "" {
		t.Errorf("unexpected note %+v", ind.Notes[0])
	}
}

func TestNewIndividual_Defaults(t *testing.T) {
	ind := individual(t, parse(t, "0 @I1@ INDI\n"), "I1")
	if ind.Sex != "U" {
		t.Errorf("expected sex U, got %q", ind.Sex)
	}
	if ind.BirthYear() != -1 || ind.DeathYear() != -1 {
		t.Errorf("expected unknown years, got %d and %d", ind.BirthYear(), ind.DeathYear())
	}
	if given, surname := ind.Name(); given != "" || surname != "" {
		t.Errorf("expected empty name, got %q %q", given, surname)
	}
	if ind.IsDeceased() {
		t.Error("expected living")
	}
}

func TestNewIndividual_WrongTag(t *testing.T) {
	doc := parse(t, tree)
	fam, _ := doc.Resolve("F1")

	_, err := NewIndividual(fam)
	var wt *WrongTagError
	if !errors.As(err, &wt) {
		t.Fatalf("expected WrongTagError, got %v", err)
	}
	if wt.Got != gedcom.TagFamily {
		t.Errorf("expected FAM, got %q", wt.Got)
	}

	if _, err := NewIndividual(gedcom.Element{}); err == nil {
		t.Error("expected error for zero element")
	}
}

func TestIndividuals(t *testing.T) {
	all := Individuals(parse(t, tree))
	var got []string
	for _, ind := range all {
		got = append(got, ind.Pointer)
	}
	if want := "@I1@,@I2@,@I3@"; strings.Join(got, ",") != want {
		t.Errorf("expected %s, got %v", want, got)
	}
}

func TestNewFamily(t *testing.T) {
	doc := parse(t, tree)
	e, _ := doc.Resolve("@F1@")
	fam, err := NewFamily(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fam.Husband != "@I1@" || fam.Wife != "@I2@" {
		t.Errorf("unexpected spouses %q %q", fam.Husband, fam.Wife)
	}
	if len(fam.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(fam.Children))
	}
	child := fam.Children[0]
	if child.Pointer != "@I3@" || child.RelationshipToFather != "Natural" || child.RelationshipToMother != "Adopted" {
		t.Errorf("unexpected child %+v", child)
	}
	if fam.NumberOfChildren != "1" {
		t.Errorf("expected NCHI 1, got %q", fam.NumberOfChildren)
	}
	if len(fam.Events) != 1 || fam.Events[0].Tag != gedcom.TagMarriage || fam.Events[0].Place != "Chicago" {
		t.Errorf("unexpected events %+v", fam.Events)
	}
}

func TestNewSource(t *testing.T) {
	doc := parse(t, tree)
	e, _ := doc.Resolve("S1")
	src, err := NewSource(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "1880 United States\nFederal Census"; src.Title != want {
		t.Errorf("expected %q, got %q", want, src.Title)
	}
	if src.Author != "Census Bureau" || src.Abbreviation != "Census 1880" {
		t.Errorf("unexpected author/abbr %q %q", src.Author, src.Abbreviation)
	}
	if src.Data.Events != "BIRT, DEAT" || src.Data.Place != "Illinois" || src.Data.Agency != "NARA" {
		t.Errorf("unexpected data %+v", src.Data)
	}
	if src.Repository == nil || src.Repository.Pointer != "@R1@" {
		t.Fatalf("unexpected repository %+v", src.Repository)
	}
	if len(src.Repository.CallNumbers) != 1 || src.Repository.CallNumbers[0] != "T9-0188" {
		t.Errorf("unexpected call numbers %v", src.Repository.CallNumbers)
	}
	if src.APID != "1,6742::0" {
		t.Errorf("expected APID, got %q", src.APID)
	}
}

func TestNewRepository(t *testing.T) {
	doc := parse(t, tree)
	e, _ := doc.Resolve("R1")
	repo, err := NewRepository(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.Name != "National Archives" {
		t.Errorf("expected name, got %q", repo.Name)
	}
	if repo.Address == nil {
		t.Fatal("expected address")
	}
	if want := "700 Pennsylvania Ave\nWashington"; repo.Address.Full != want {
		t.Errorf("expected %q, got %q", want, repo.Address.Full)
	}
	if repo.Address.State != "DC" {
		t.Errorf("expected DC, got %q", repo.Address.State)
	}
	if len(repo.Phones) != 1 || len(repo.Websites) != 1 {
		t.Errorf("unexpected contacts %v %v", repo.Phones, repo.Websites)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"no markup here", "no markup here"},
		{"a < b", "a < b"},
		{"line<br>next", "line\nnext"},
		{"<div>one</div><div>two</div>", "one\ntwo"},
		{"<ul><li>a</li><li>b</li></ul>", "a\nb"},
		{"<i>x</i> &amp; y", "x & y"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"1900", 1900},
		{"12 JAN 1900", 1900},
		{"ABT 1850", 1850},
		{"BET 1800 AND 1810", 1810},
		{"", -1},
		{"JAN", -1},
	}
	for _, tt := range tests {
		if got := Year(tt.date); got != tt.want {
			t.Errorf("Year(%q): expected %d, got %d", tt.date, tt.want, got)
		}
	}
}

const ordinances = `0 @I1@ INDI
1 NAME Ann /Lee/
1 BIRT
2 DATE 1820
1 FAMC @F2@
1 ASSO @I2@
2 RELA Godfather
2 NOTE Named at the christening
1 ANCI @U1@
1 DESI @U2@
1 RFN 1234
1 AFN 9ABC-DE
1 BAPL
2 DATE 3 MAR 1850
2 TEMP SLAKE
2 STAT COMPLETED
3 DATE 4 MAR 1850
1 SLGC
2 FAMC @F2@
2 TEMP LOGAN
0 @I2@ INDI
1 NAME Tom /Reed/
0 @F1@ FAM
1 HUSB @I2@
1 SLGS
2 DATE 1860
2 TEMP SLAKE
2 STAT BIC
`

func TestNewIndividual_AssociatesAndFileNumbers(t *testing.T) {
	ind := individual(t, parse(t, ordinances), "I1")

	if len(ind.Associates) != 1 {
		t.Fatalf("expected 1 associate, got %d", len(ind.Associates))
	}
	asso := ind.Associates[0]
	if asso.Pointer != "@I2@" || asso.Relation != "Godfather" {
		t.Errorf("unexpected associate %+v", asso)
	}
	if len(asso.Notes) != 1 || asso.Notes[0].Text != "Named at the christening" {
		t.Errorf("unexpected associate notes %+v", asso.Notes)
	}

	tests := []struct {
		name, got, want string
	}{
		{"ancestors interest", strings.Join(ind.AncestorsInterest, ","), "@U1@"},
		{"descendants interest", strings.Join(ind.DescendantsInterest, ","), "@U2@"},
		{"permanent file number", ind.PermanentFileNumber, "1234"},
		{"ancestral file number", ind.AncestralFileNumber, "9ABC-DE"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, tt.got)
		}
	}
}

func TestNewIndividual_LDSOrdinances(t *testing.T) {
	ind := individual(t, parse(t, ordinances), "I1")

	var tagList []string
	for _, ev := range ind.Events {
		tagList = append(tagList, ev.Tag)
	}
	if got := strings.Join(tagList, ","); got != "BIRT,BAPL,SLGC" {
		t.Fatalf("expected events BIRT,BAPL,SLGC, got %s", got)
	}

	bapl := ind.Events[1]
	if bapl.Temple != "SLAKE" || bapl.Status != "COMPLETED" || bapl.StatusDate != "4 MAR 1850" {
		t.Errorf("unexpected BAPL %+v", bapl)
	}
	if bapl.Date != "3 MAR 1850" {
		t.Errorf("expected date %q, got %q", "3 MAR 1850", bapl.Date)
	}
	if slgc := ind.Events[2]; slgc.Family != "@F2@" || slgc.Temple != "LOGAN" {
		t.Errorf("unexpected SLGC %+v", slgc)
	}
	if ind.BirthYear() != 1820 {
		t.Errorf("expected birth year 1820, got %d", ind.BirthYear())
	}
}

func TestNewFamily_SpouseSealing(t *testing.T) {
	doc := parse(t, ordinances)
	e, err := doc.Resolve("F1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fam, err := NewFamily(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fam.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fam.Events))
	}
	slgs := fam.Events[0]
	if slgs.Tag != gedcom.TagLDSSpouseSealing || slgs.Date != "1860" || slgs.Temple != "SLAKE" || slgs.Status != "BIC" {
		t.Errorf("unexpected SLGS %+v", slgs)
	}
}

func TestIndividual_IsChild(t *testing.T) {
	doc := parse(t, ordinances)
	if !individual(t, doc, "I1").IsChild() {
		t.Error("expected @I1@ to be a child")
	}
	if individual(t, doc, "I2").IsChild() {
		t.Error("expected @I2@ not to be a child")
	}
}
