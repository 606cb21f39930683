package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/gedgest/internal/gedcom"
	"github.com/dgallion1/gedgest/internal/record"
	"github.com/dgallion1/gedgest/internal/report"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Parse a file and report its structure",
		Long: `Parse FILE and print a summary. Exits non-zero when the file has a
structural error, or a malformed line without --lenient.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, cs, err := opts.load(cmd, args[0])
			if err != nil {
				return describeError(err)
			}
			out := cmd.OutOrStdout()

			counts := map[string]int{}
			for e := range doc.Roots() {
				counts[e.Tag()]++
			}

			charsetLine := cs.Name
			if cs.Approximate {
				charsetLine += " " + warnStyle.Render("(approximate)")
			}
			content := fmt.Sprintf("%s %s\n%s %s\n%s %d  %s %d  %s %d\n%s %d  %s %d  %s %d",
				dimStyle.Render("File:"), args[0],
				dimStyle.Render("Charset:"), charsetLine,
				dimStyle.Render("Elements:"), doc.Len(),
				dimStyle.Render("Records:"), doc.RootCount(),
				dimStyle.Render("Pointers:"), doc.PointerCount(),
				dimStyle.Render("Individuals:"), counts[gedcom.TagIndividual],
				dimStyle.Render("Families:"), counts[gedcom.TagFamily],
				dimStyle.Render("Sources:"), counts[gedcom.TagSource],
			)
			fmt.Fprintln(out, boxStyle.Render(content))

			skipped := doc.Skipped()
			if len(skipped) == 0 {
				fmt.Fprintln(out, successStyle.Render("✓ ok"))
				return nil
			}
			fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("! %d malformed line(s) skipped", len(skipped))))
			for _, s := range skipped {
				fmt.Fprintf(out, "  %s %s\n", dimStyle.Render(fmt.Sprintf("line %d:", s.Line)), s.Reason)
			}
			return nil
		},
	}
}

func newTreeCmd(opts *globalOptions) *cobra.Command {
	var depth int
	var xref string

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the record tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := opts.load(cmd, args[0])
			if err != nil {
				return describeError(err)
			}
			out := cmd.OutOrStdout()
			if xref != "" {
				e, err := doc.Resolve(xref)
				if err != nil {
					return err
				}
				printTree(out, e, depth)
				return nil
			}
			for e := range doc.Roots() {
				printTree(out, e, depth)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", -1, "Maximum depth below each record (-1 = unlimited)")
	cmd.Flags().StringVarP(&xref, "xref", "x", "", "Print only the record with this pointer")
	return cmd
}

// printTree writes e and its subtree in GEDCOM-like indented form.
func printTree(w io.Writer, e gedcom.Element, depth int) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", e.Level()))
	fmt.Fprintf(&b, "%d ", e.Level())
	if p := e.Pointer(); p != "" {
		b.WriteString(pointerStyle.Render(p) + " ")
	}
	b.WriteString(tagStyle.Render(e.Tag()))
	if x := e.XRef(); x != "" {
		b.WriteString(" " + pointerStyle.Render(x))
	} else if v := e.Value(); v != "" {
		b.WriteString(" " + v)
	}
	fmt.Fprintln(w, b.String())

	if depth == 0 {
		if e.HasChildren() {
			fmt.Fprintln(w, strings.Repeat("  ", e.Level()+1)+dimStyle.Render("…"))
		}
		return
	}
	for c := range e.Children() {
		printTree(w, c, depth-1)
	}
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show FILE XREF",
		Short: "Show one record",
		Long: `Show the record with pointer XREF. Individuals and families are rendered
as a Markdown summary; other records as JSON.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := opts.load(cmd, args[0])
			if err != nil {
				return describeError(err)
			}
			e, err := doc.Resolve(args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var v any
			var md string
			switch e.Tag() {
			case gedcom.TagIndividual:
				ind, _ := record.NewIndividual(e)
				v, md = ind, report.IndividualMarkdown(doc, ind)
			case gedcom.TagFamily:
				fam, _ := record.NewFamily(e)
				v, md = fam, report.FamilyMarkdown(doc, fam)
			case gedcom.TagSource:
				v, _ = record.NewSource(e)
			case gedcom.TagRepository:
				v, _ = record.NewRepository(e)
			default:
				printTree(out, e, -1)
				return nil
			}

			if asJSON || md == "" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}
			_, err = io.WriteString(out, md)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the record as JSON")
	return cmd
}

func newFindCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find FILE CRITERIA",
		Short: "Find individuals",
		Long: `Find individuals matching CRITERIA, a list of key=value terms separated
by ':' or ','. Keys: surname, name (or given_name), sex, birth, death,
birth_range, death_range, living.

Example: gedtree find tree.ged "surname=^smith$:birth_range=1800-1850"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			crit, err := record.ParseCriteria(args[1])
			if err != nil {
				return err
			}
			doc, _, err := opts.load(cmd, args[0])
			if err != nil {
				return describeError(err)
			}
			out := cmd.OutOrStdout()

			matches := crit.Filter(record.Individuals(doc))
			for _, ind := range matches {
				given, surname := ind.Name()
				fmt.Fprintf(out, "%s  %s %s  %s\n",
					pointerStyle.Render(ind.Pointer),
					given, titleStyle.Render(surname),
					dimStyle.Render(lifespan(ind)),
				)
			}
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d match(es)", len(matches))))
			return nil
		},
	}
}

func lifespan(ind *record.Individual) string {
	y := func(n int) string {
		if n < 0 {
			return "?"
		}
		return fmt.Sprint(n)
	}
	return "(" + y(ind.BirthYear()) + "-" + y(ind.DeathYear()) + ")"
}

// describeError adds a hint for the parse errors users can act on.
func describeError(err error) error {
	switch {
	case errors.Is(err, gedcom.ErrMalformedLine):
		return fmt.Errorf("%w (rerun with --lenient to skip malformed lines)", err)
	case errors.Is(err, gedcom.ErrLevelSequence), errors.Is(err, gedcom.ErrDuplicatePointer):
		return fmt.Errorf("%w (structural error, cannot be skipped)", err)
	}
	return err
}
