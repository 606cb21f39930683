package gedcom

import "strings"

// xrefIndex maps a pointer, delimiters included, to its defining node.
type xrefIndex map[string]int32

// define records pointer for id. If the pointer is already taken it returns
// the existing node and false.
func (x xrefIndex) define(pointer string, id int32) (int32, bool) {
	if prev, ok := x[pointer]; ok {
		return prev, false
	}
	x[pointer] = id
	return id, true
}

// normalizePointer accepts "I1" or "@I1@" and returns the delimited form.
func normalizePointer(p string) string {
	p = strings.TrimSpace(p)
	if IsPointer(p) {
		return p
	}
	return "@" + strings.Trim(p, "@") + "@"
}
