package record

import (
	"io"
	"strings"

	"github.com/dgallion1/gedgest/internal/gedcom"
	"golang.org/x/net/html"
)

// Note is an inline note or a reference to a NOTE record. Referenced notes
// are resolved; a dangling reference keeps its Pointer and an empty Text.
type Note struct {
	Pointer   string     `json:"pointer,omitempty"`
	Text      string     `json:"text"`
	Citations []Citation `json:"citations,omitempty"`
}

func parseNote(e gedcom.Element) Note {
	var n Note
	src := e
	if x := e.XRef(); x != "" {
		n.Pointer = x
		target, err := e.Resolve()
		if err != nil {
			return n
		}
		src = target
	}
	n.Text = PlainText(src.MultiLineValue())
	for c := range src.ChildrenByTag(gedcom.TagSource) {
		n.Citations = append(n.Citations, parseCitation(c))
	}
	return n
}

// PlainText strips the HTML markup some exporters embed in note text. Text
// without markup is returned unchanged.
func PlainText(s string) string {
	if !strings.Contains(s, "<") || !strings.Contains(s, ">") {
		return s
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return strings.TrimSpace(sb.String())
			}
			return s
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				sb.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "p", "div", "li":
				sb.WriteByte('\n')
			}
		}
	}
}
