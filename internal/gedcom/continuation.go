package gedcom

import "strings"

// continuation classifies CONT and CONC lines.
type continuation int

const (
	notContinuation continuation = iota
	continueNewline              // CONT: newline, then the value
	continueAppend               // CONC: value appended directly
)

func continuationOf(tag string) continuation {
	switch tag {
	case TagContinued:
		return continueNewline
	case TagConcatenation:
		return continueAppend
	}
	return notContinuation
}

// IsContinuation reports whether tag continues its parent's value.
func IsContinuation(tag string) bool {
	return continuationOf(tag) != notContinuation
}

// valueRun accumulates the value of the node currently receiving
// continuation lines, so a long run is not recopied line by line.
type valueRun struct {
	owner int32
	buf   strings.Builder
}

// flush stores the accumulated value in its owner and closes the run.
func (r *valueRun) flush(nodes []node) {
	if r.owner == none {
		return
	}
	nodes[r.owner].value = r.buf.String()
	r.owner = none
	r.buf.Reset()
}

// mergeInto folds a continuation line into node id. Owners that already
// have a structural child no longer accept continuations.
func (c continuation) mergeInto(run *valueRun, nodes []node, id int32, line Line) error {
	owner := &nodes[id]
	if line.Pointer != "" {
		return &MalformedLineError{Line: line.Number, Raw: line.Raw, Level: line.Level, Reason: "continuation line defines a pointer"}
	}
	if owner.firstChild >= 0 {
		return &MalformedLineError{
			Line:   line.Number,
			Raw:    line.Raw,
			Level:  line.Level,
			Reason: "continuation of " + owner.tag + " after its substructures",
		}
	}
	if run.owner != id {
		run.flush(nodes)
		run.owner = id
		run.buf.WriteString(owner.value)
	}
	if c == continueNewline {
		run.buf.WriteByte('\n')
	}
	run.buf.WriteString(line.Value)
	owner.continued++
	return nil
}
