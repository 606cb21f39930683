// Package charset detects the character set of a GEDCOM stream and converts
// it to UTF-8 before line decoding.
package charset

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// peekSize bounds how much of the header is inspected.
const peekSize = 8192

// Charset describes how a document's bytes are decoded.
type Charset struct {
	Name     string
	Encoding encoding.Encoding
	// Approximate is set when no exact decoder exists for the declared
	// character set (ANSEL, unknown names) and a close substitute is used.
	Approximate bool
	// FromBOM is set when the byte order mark decided the encoding.
	FromBOM bool
}

// Default is used when the header declares no character set.
var Default = Charset{Name: "ASCII", Encoding: unicode.UTF8}

var (
	utf8Charset    = Charset{Name: "UTF-8", Encoding: unicode.UTF8}
	utf16LECharset = Charset{Name: "UNICODE", Encoding: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)}
	utf16BECharset = Charset{Name: "UNICODE", Encoding: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)}
)

var byName = map[string]Charset{
	"UTF-8":        utf8Charset,
	"UTF8":         utf8Charset,
	"UNICODE":      utf16LECharset,
	"UTF-16":       utf16LECharset,
	"ASCII":        Default,
	"ANSI":         {Name: "ANSI", Encoding: charmap.Windows1252},
	"IBM WINDOWS":  {Name: "ANSI", Encoding: charmap.Windows1252},
	"WINDOWS-1252": {Name: "ANSI", Encoding: charmap.Windows1252},
	"CP1252":       {Name: "ANSI", Encoding: charmap.Windows1252},
	"IBMPC":        {Name: "IBMPC", Encoding: charmap.CodePage437},
	"IBM DOS":      {Name: "IBMPC", Encoding: charmap.CodePage437},
	"CP437":        {Name: "IBMPC", Encoding: charmap.CodePage437},
	"MACINTOSH":    {Name: "MACINTOSH", Encoding: charmap.Macintosh},
	"ISO-8859-1":   {Name: "ISO-8859-1", Encoding: charmap.ISO8859_1},
	"LATIN1":       {Name: "ISO-8859-1", Encoding: charmap.ISO8859_1},
	// No ANSEL decoder is available; its ASCII half is exact and Latin-1
	// keeps the remaining bytes visible.
	"ANSEL": {Name: "ANSEL", Encoding: charmap.ISO8859_1, Approximate: true},
}

// Lookup returns the Charset for a HEAD.CHAR value. Names are matched case
// insensitively.
func Lookup(name string) (Charset, bool) {
	cs, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return cs, ok
}

// Detect inspects the start of br without consuming it. A byte order mark
// wins; otherwise the CHAR line of the HEAD record is used.
func Detect(br *bufio.Reader) (Charset, error) {
	head, err := br.Peek(peekSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return Charset{}, err
	}

	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		cs := utf8Charset
		cs.FromBOM = true
		return cs, nil
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		cs := utf16LECharset
		cs.FromBOM = true
		return cs, nil
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		cs := utf16BECharset
		cs.FromBOM = true
		return cs, nil
	case len(head) >= 2 && head[0] == '0' && head[1] == 0:
		return utf16LECharset, nil
	case len(head) >= 2 && head[0] == 0 && head[1] == '0':
		return utf16BECharset, nil
	}

	name, ok := declaredName(head)
	if !ok {
		return Default, nil
	}
	if cs, ok := Lookup(name); ok {
		return cs, nil
	}
	return Charset{Name: strings.ToUpper(name), Encoding: unicode.UTF8, Approximate: true}, nil
}

// declaredName finds "1 CHAR <name>" inside the leading HEAD record.
func declaredName(head []byte) (string, bool) {
	inHeader := false
	for _, raw := range bytes.FieldsFunc(head, func(r rune) bool { return r == '\n' || r == '\r' }) {
		fields := strings.Fields(string(raw))
		if len(fields) < 2 {
			continue
		}
		if fields[0] == "0" {
			if inHeader {
				return "", false
			}
			inHeader = fields[1] == "HEAD"
			continue
		}
		if inHeader && fields[0] == "1" && fields[1] == "CHAR" && len(fields) > 2 {
			return strings.Join(fields[2:], " "), true
		}
	}
	return "", false
}

// NewReader detects the character set of r and returns a reader producing
// UTF-8 text.
func NewReader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, peekSize)
	cs, err := Detect(br)
	if err != nil {
		return nil, Charset{}, err
	}
	return transform.NewReader(br, cs.Encoding.NewDecoder()), cs, nil
}
