// Package report renders individuals and families as Markdown summaries and
// converts them to HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/gedgest/internal/gedcom"
	"github.com/dgallion1/gedgest/internal/record"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// RenderHTML converts Markdown to an HTML fragment.
func RenderHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// IndividualMarkdown summarises ind: names, events, parents, spouses and
// children, and notes. Linked records are looked up in doc; dangling links
// are shown by pointer.
func IndividualMarkdown(doc *gedcom.Document, ind *record.Individual) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(displayName(ind)))
	fmt.Fprintf(&b, "- **Pointer:** `%s`\n", ind.Pointer)
	fmt.Fprintf(&b, "- **Sex:** %s\n", ind.Sex)
	if occ := ind.Occupation(); occ != "" {
		fmt.Fprintf(&b, "- **Occupation:** %s\n", escape(occ))
	}
	for _, n := range ind.Names[min(1, len(ind.Names)):] {
		fmt.Fprintf(&b, "- **Also known as:** %s\n", escape(nameString(n)))
	}
	b.WriteByte('\n')

	writeEvents(&b, append(append([]record.Event{}, ind.Events...), ind.Attributes...))

	if len(ind.ChildToFamily) > 0 {
		b.WriteString("## Parents\n\n")
		for _, link := range ind.ChildToFamily {
			fam := lookupFamily(doc, link.Pointer)
			if fam == nil {
				fmt.Fprintf(&b, "- `%s` (missing)\n", link.Pointer)
				continue
			}
			fmt.Fprintf(&b, "- %s and %s", personLink(doc, fam.Husband), personLink(doc, fam.Wife))
			if link.Pedigree != "" {
				fmt.Fprintf(&b, " (%s)", escape(link.Pedigree))
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	if len(ind.SpouseToFamily) > 0 {
		b.WriteString("## Families\n\n")
		for _, link := range ind.SpouseToFamily {
			fam := lookupFamily(doc, link.Pointer)
			if fam == nil {
				fmt.Fprintf(&b, "- `%s` (missing)\n", link.Pointer)
				continue
			}
			spouse := fam.Wife
			if spouse == ind.Pointer {
				spouse = fam.Husband
			}
			fmt.Fprintf(&b, "- Spouse: %s\n", personLink(doc, spouse))
			for _, c := range fam.Children {
				fmt.Fprintf(&b, "  - Child: %s\n", personLink(doc, c.Pointer))
			}
		}
		b.WriteByte('\n')
	}

	writeNotes(&b, ind.Notes)
	return b.String()
}

// FamilyMarkdown summarises fam.
func FamilyMarkdown(doc *gedcom.Document, fam *record.Family) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Family %s\n\n", fam.Pointer)
	fmt.Fprintf(&b, "- **Husband:** %s\n", personLink(doc, fam.Husband))
	fmt.Fprintf(&b, "- **Wife:** %s\n", personLink(doc, fam.Wife))
	if fam.NumberOfChildren != "" {
		fmt.Fprintf(&b, "- **Number of children:** %s\n", fam.NumberOfChildren)
	}
	b.WriteByte('\n')

	writeEvents(&b, fam.Events)

	if len(fam.Children) > 0 {
		b.WriteString("## Children\n\n")
		for _, c := range fam.Children {
			fmt.Fprintf(&b, "- %s", personLink(doc, c.Pointer))
			if rel := relationship(c); rel != "" {
				fmt.Fprintf(&b, " (%s)", escape(rel))
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	writeNotes(&b, fam.Notes)
	return b.String()
}

func writeEvents(b *strings.Builder, events []record.Event) {
	if len(events) == 0 {
		return
	}
	b.WriteString("## Events\n\n| Event | Date | Place | Details |\n|---|---|---|---|\n")
	for _, ev := range events {
		label := eventLabels[ev.Tag]
		if label == "" {
			label = ev.Tag
		}
		if ev.Type != "" {
			label += ": " + ev.Type
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", cell(label), cell(ev.Date), cell(ev.Place), cell(ev.Value))
	}
	b.WriteByte('\n')
}

func writeNotes(b *strings.Builder, notes []record.Note) {
	var texts []string
	for _, n := range notes {
		if n.Text != "" {
			texts = append(texts, n.Text)
		}
	}
	if len(texts) == 0 {
		return
	}
	b.WriteString("## Notes\n\n")
	for _, t := range texts {
		b.WriteString(escape(t))
		b.WriteString("\n\n")
	}
}

var eventLabels = map[string]string{
	gedcom.TagBirth:      "Birth",
	gedcom.TagChristen:   "Christening",
	gedcom.TagBaptism:    "Baptism",
	gedcom.TagDeath:      "Death",
	gedcom.TagBurial:     "Burial",
	gedcom.TagCremation:  "Cremation",
	gedcom.TagCensus:     "Census",
	gedcom.TagResidence:  "Residence",
	gedcom.TagEmigration: "Emigration",
	gedcom.TagImmigrate:  "Immigration",
	gedcom.TagNatural:    "Naturalization",
	gedcom.TagProbate:    "Probate",
	gedcom.TagWill:       "Will",
	gedcom.TagGraduation: "Graduation",
	gedcom.TagRetirement: "Retirement",
	gedcom.TagEvent:      "Event",
	gedcom.TagOccupation: "Occupation",
	gedcom.TagEducation:  "Education",
	gedcom.TagReligion:   "Religion",
	gedcom.TagTitle:      "Title",
	gedcom.TagMarriage:   "Marriage",
	gedcom.TagDivorce:    "Divorce",
	gedcom.TagEngagement: "Engagement",
	gedcom.TagAnnulment:  "Annulment",

	gedcom.TagLDSBaptism:       "LDS baptism",
	gedcom.TagLDSConfirmation:  "LDS confirmation",
	gedcom.TagLDSEndowment:     "LDS endowment",
	gedcom.TagLDSChildSealing:  "LDS sealing to parents",
	gedcom.TagLDSSpouseSealing: "LDS sealing to spouse",
}

func relationship(c record.ChildLink) string {
	switch {
	case c.RelationshipToFather != "" && c.RelationshipToMother != "":
		return "father: " + c.RelationshipToFather + ", mother: " + c.RelationshipToMother
	case c.RelationshipToFather != "":
		return "father: " + c.RelationshipToFather
	case c.RelationshipToMother != "":
		return "mother: " + c.RelationshipToMother
	}
	return ""
}

func lookupFamily(doc *gedcom.Document, ptr string) *record.Family {
	e, err := doc.Resolve(ptr)
	if err != nil {
		return nil
	}
	fam, err := record.NewFamily(e)
	if err != nil {
		return nil
	}
	return fam
}

func personLink(doc *gedcom.Document, ptr string) string {
	if ptr == "" {
		return "unknown"
	}
	e, err := doc.Resolve(ptr)
	if err != nil {
		return fmt.Sprintf("`%s` (missing)", ptr)
	}
	ind, err := record.NewIndividual(e)
	if err != nil {
		return fmt.Sprintf("`%s`", ptr)
	}
	return fmt.Sprintf("%s `%s`", escape(displayName(ind)), ptr)
}

func displayName(ind *record.Individual) string {
	if len(ind.Names) == 0 {
		return "Unknown " + ind.Pointer
	}
	name := nameString(ind.Names[0])
	if by, dy := ind.BirthYear(), ind.DeathYear(); by >= 0 || dy >= 0 {
		name += " (" + year(by) + "-" + year(dy) + ")"
	}
	return name
}

func nameString(n record.Name) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.Given, n.Surname, n.Suffix} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.ReplaceAll(n.Full, "/", "")
	}
	return strings.Join(parts, " ")
}

func year(y int) string {
	if y < 0 {
		return "?"
	}
	return fmt.Sprint(y)
}

var escaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func escape(s string) string { return escaper.Replace(s) }

func cell(s string) string {
	s = strings.ReplaceAll(escape(s), "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
