package gedcom

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Options controls a build.
type Options struct {
	// Lenient skips malformed lines instead of aborting. Structural errors
	// (level jumps, duplicate pointers) are always fatal.
	Lenient bool
	// MaxLineLength rejects longer lines. Zero means unlimited.
	MaxLineLength int
	// Logger receives warnings for skipped lines. Nil discards them.
	Logger *slog.Logger
}

// Builder reconstructs a Document from decoded lines using a stack of open
// nodes indexed by level: stack[i] is the open node at level i.
type Builder struct {
	doc      *Document
	stack    []int32
	run      valueRun
	opts     Options
	log      *slog.Logger
	finished bool

	// cut is set after a skipped line. Lines nested deeper than cut.level
	// belong to the skipped line and are rejected until the level returns.
	cut *cutPoint
}

type cutPoint struct {
	line  int
	level int
}

// NewBuilder returns a Builder for one document. Builders are not safe for
// concurrent use and must not be shared between documents.
func NewBuilder(opts Options) *Builder {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		doc:  &Document{index: make(xrefIndex)},
		run:  valueRun{owner: none},
		opts: opts,
		log:  log,
	}
}

var errBuilderFinished = errors.New("gedcom: builder already finished")

// Add places one line in the tree.
func (b *Builder) Add(line Line) error {
	if b.finished {
		return errBuilderFinished
	}

	if b.cut != nil {
		if line.Level > b.cut.level {
			return &MalformedLineError{
				Line:   line.Number,
				Raw:    line.Raw,
				Level:  line.Level,
				Reason: fmt.Sprintf("substructure of skipped line %d", b.cut.line),
			}
		}
		b.cut = nil
	}

	if c := continuationOf(line.Tag); c != notContinuation {
		if line.Level == 0 {
			return b.levelError(line)
		}
		if !b.unwind(line.Level - 1) {
			return b.levelError(line)
		}
		return c.mergeInto(&b.run, b.doc.nodes, b.stack[len(b.stack)-1], line)
	}
	b.run.flush(b.doc.nodes)

	parent := none
	if line.Level > 0 {
		if !b.unwind(line.Level - 1) {
			return b.levelError(line)
		}
		parent = b.stack[len(b.stack)-1]
	} else {
		b.stack = b.stack[:0]
	}

	id := int32(len(b.doc.nodes))
	if line.Pointer != "" {
		if prev, ok := b.doc.index.define(line.Pointer, id); !ok {
			return &DuplicatePointerError{
				Line:      line.Number,
				Raw:       line.Raw,
				Pointer:   line.Pointer,
				FirstLine: b.doc.nodes[prev].line,
			}
		}
	}

	b.doc.nodes = append(b.doc.nodes, node{
		tag:         line.Tag,
		pointer:     line.Pointer,
		xref:        line.XRef,
		value:       line.Value,
		level:       line.Level,
		line:        line.Number,
		parent:      parent,
		firstChild:  none,
		lastChild:   none,
		nextSibling: none,
	})
	if parent == none {
		b.doc.roots = append(b.doc.roots, id)
	} else {
		p := &b.doc.nodes[parent]
		if p.lastChild == none {
			p.firstChild = id
		} else {
			b.doc.nodes[p.lastChild].nextSibling = id
		}
		p.lastChild = id
	}
	b.stack = append(b.stack, id)
	return nil
}

// Skip records a malformed line dropped in lenient mode. The lines nested
// under it are dropped as well, each reported by Add as malformed, so they
// cannot attach to an earlier sibling. A line whose level could not be read
// drops everything up to the next record.
func (b *Builder) Skip(err *MalformedLineError) {
	b.log.Warn("skipping malformed line", "line", err.Line, "reason", err.Reason)
	b.doc.skipped = append(b.doc.skipped, err)

	level := max(err.Level, 0)
	if b.cut == nil || level <= b.cut.level {
		b.cut = &cutPoint{line: err.Line, level: level}
	}
}

// Finish closes the build and returns the document. Nodes still open at end
// of input are simply complete; no terminator record is required.
func (b *Builder) Finish() *Document {
	b.run.flush(b.doc.nodes)
	b.finished = true
	b.stack = nil
	return b.doc
}

// unwind pops the stack so that its top is the open node at level. It
// reports false when no node at that level is open.
func (b *Builder) unwind(level int) bool {
	if level >= len(b.stack) {
		return false
	}
	b.stack = b.stack[:level+1]
	return true
}

func (b *Builder) levelError(line Line) error {
	return &LevelSequenceError{
		Line:    line.Number,
		Raw:     line.Raw,
		Level:   line.Level,
		Deepest: len(b.stack) - 1,
	}
}

// Parse decodes and builds a document from UTF-8 GEDCOM text in one pass.
// On error no document is returned.
func Parse(r io.Reader, opts Options) (*Document, error) {
	dec := NewDecoder(r, WithMaxLineLength(opts.MaxLineLength))
	b := NewBuilder(opts)
	for {
		line, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err == nil {
			err = b.Add(line)
		}
		if err != nil {
			var malformed *MalformedLineError
			if opts.Lenient && errors.As(err, &malformed) {
				b.Skip(malformed)
				continue
			}
			return nil, err
		}
	}
	return b.Finish(), nil
}
