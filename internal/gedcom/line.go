// Package gedcom decodes GEDCOM lines and rebuilds them into a record tree
// with an O(1) cross-reference index.
package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Line is one decoded GEDCOM line. Lines are produced and discarded one at a
// time; the builder copies what it needs into the document arena.
type Line struct {
	Number  int    // 1-based physical line number
	Level   int    // nesting depth, 0 for record openers
	Pointer string // defining cross-reference id, e.g. "@I1@"
	Tag     string
	Value   string // raw value after the delimiter space
	XRef    string // set when the first value token is a pointer reference
	Raw     string
}

// Decoder reads GEDCOM lines from a stream. It is forward-only and cannot be
// rewound.
type Decoder struct {
	r       *bufio.Reader
	buf     []byte
	lineNum int
	maxLen  int
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxLineLength rejects lines longer than n bytes. Zero disables the check
// and lines of any length are read.
func WithMaxLineLength(n int) DecoderOption {
	return func(d *Decoder) { d.maxLen = n }
}

// NewDecoder returns a Decoder reading UTF-8 text from r.
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	d := &Decoder{r: bufio.NewReaderSize(r, 64*1024)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next returns the next non-blank line. It returns io.EOF once the input is
// exhausted. A *MalformedLineError leaves the decoder usable: the following
// call continues with the next line.
func (d *Decoder) Next() (Line, error) {
	for {
		b, err := d.readLine()
		if err == io.EOF {
			return Line{}, io.EOF
		}
		if err != nil {
			return Line{}, fmt.Errorf("read line %d: %w", d.lineNum+1, err)
		}
		d.lineNum++
		raw := string(b)
		if d.lineNum == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if d.maxLen > 0 && len(raw) > d.maxLen {
			return Line{}, &MalformedLineError{
				Line:   d.lineNum,
				Raw:    raw,
				Level:  leadingLevel(raw),
				Reason: fmt.Sprintf("line length %d exceeds %d", len(raw), d.maxLen),
			}
		}
		return parseLine(d.lineNum, raw)
	}
}

// readLine returns the next physical line without its terminator. CR, LF,
// CRLF and LFCR each end one line. The returned slice is reused by the next
// call.
func (d *Decoder) readLine() ([]byte, error) {
	d.buf = d.buf[:0]
	for {
		c, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(d.buf) > 0 {
				return d.buf, nil
			}
			return nil, err
		}
		if c != '\r' && c != '\n' {
			d.buf = append(d.buf, c)
			continue
		}
		if next, err := d.r.Peek(1); err == nil && next[0] != c && (next[0] == '\r' || next[0] == '\n') {
			d.r.ReadByte()
		}
		return d.buf, nil
	}
}

// leadingLevel returns the level number at the start of raw, or -1 if there
// is none.
func leadingLevel(raw string) int {
	rest := strings.TrimLeft(raw, " \t")
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 || (i < len(rest) && !isDelim(rest[i])) {
		return -1
	}
	level, err := strconv.Atoi(rest[:i])
	if err != nil {
		return -1
	}
	return level
}

func parseLine(num int, raw string) (Line, error) {
	level := -1
	fail := func(reason string) (Line, error) {
		return Line{}, &MalformedLineError{Line: num, Raw: raw, Level: level, Reason: reason}
	}

	rest := strings.TrimLeft(raw, " \t")
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 {
		return fail("missing level number")
	}
	n, err := strconv.Atoi(rest[:i])
	if err != nil {
		return fail("invalid level number")
	}
	rest = rest[i:]
	if rest != "" && !isDelim(rest[0]) {
		return fail("invalid level number")
	}
	level = n
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return fail("missing tag")
	}

	line := Line{Number: num, Level: level, Raw: raw}

	if rest[0] == '@' {
		tok, after := cutToken(rest)
		if !IsPointer(tok) {
			return fail("invalid pointer " + tok)
		}
		line.Pointer = tok
		rest = strings.TrimLeft(after, " \t")
		if rest == "" {
			return fail("missing tag")
		}
	}

	tag, after := cutToken(rest)
	if !isTag(tag) {
		return fail("invalid tag " + tag)
	}
	line.Tag = tag
	if after != "" {
		// Exactly one delimiter separates the tag from the value; anything
		// beyond it belongs to the value.
		line.Value = after[1:]
	}
	if tok, _ := cutToken(line.Value); IsPointer(tok) {
		line.XRef = tok
	}
	return line, nil
}

// cutToken splits s at the first space or tab. The delimiter stays at the
// start of the remainder.
func cutToken(s string) (tok, rest string) {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// IsPointer reports whether s has cross-reference syntax, e.g. "@I1@".
// Escape sequences such as "@#DJULIAN@" are not pointers.
func IsPointer(s string) bool {
	if len(s) < 3 || s[0] != '@' || s[len(s)-1] != '@' {
		return false
	}
	if s[1] == '#' {
		return false
	}
	return !strings.ContainsRune(s[1:len(s)-1], '@')
}

func isTag(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}

func isDelim(c byte) bool { return c == ' ' || c == '\t' }
