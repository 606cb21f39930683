package gedcom

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	ErrMalformedLine       = errors.New("malformed line")
	ErrLevelSequence       = errors.New("invalid level sequence")
	ErrDuplicatePointer    = errors.New("duplicate pointer")
	ErrUnresolvedReference = errors.New("unresolved reference")
)

// MalformedLineError reports a line that could not be decoded.
type MalformedLineError struct {
	Line int
	Raw  string
	// Level is the line's level number, or -1 if it could not be read.
	Level  int
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: malformed line: %s (%q)", e.Line, e.Reason, truncate(e.Raw, 80))
}

func (e *MalformedLineError) Is(target error) bool { return target == ErrMalformedLine }

// LevelSequenceError reports a line whose level has no open parent.
type LevelSequenceError struct {
	Line  int
	Raw   string
	Level int
	// Deepest is the level of the deepest open node, or -1 if none is open.
	Deepest int
}

func (e *LevelSequenceError) Error() string {
	if e.Deepest < 0 {
		return fmt.Sprintf("line %d: level %d has no open parent record (%q)", e.Line, e.Level, truncate(e.Raw, 80))
	}
	return fmt.Sprintf("line %d: level %d follows level %d (%q)", e.Line, e.Level, e.Deepest, truncate(e.Raw, 80))
}

func (e *LevelSequenceError) Is(target error) bool { return target == ErrLevelSequence }

// DuplicatePointerError reports a second definition of a cross-reference id.
type DuplicatePointerError struct {
	Line      int
	Raw       string
	Pointer   string
	FirstLine int
}

func (e *DuplicatePointerError) Error() string {
	return fmt.Sprintf("line %d: pointer %s already defined on line %d", e.Line, e.Pointer, e.FirstLine)
}

func (e *DuplicatePointerError) Is(target error) bool { return target == ErrDuplicatePointer }

// UnresolvedReferenceError is returned by Resolve for an undefined pointer.
type UnresolvedReferenceError struct {
	Pointer string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %s", e.Pointer)
}

func (e *UnresolvedReferenceError) Is(target error) bool { return target == ErrUnresolvedReference }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
