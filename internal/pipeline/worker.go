package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/gedgest/internal/charset"
	"github.com/dgallion1/gedgest/internal/gedcom"
	"github.com/dgallion1/gedgest/internal/record"
	"github.com/dgallion1/gedgest/internal/store"
)

// Worker processes a single upload job.
type Worker struct {
	docs  *store.DocumentStore
	stats *ParseStats
	log   *slog.Logger

	maxLineLength int
}

func NewWorker(docs *store.DocumentStore, stats *ParseStats, log *slog.Logger, maxLineLength int) *Worker {
	return &Worker{
		docs:          docs,
		stats:         stats,
		log:           log,
		maxLineLength: maxLineLength,
	}
}

// Process decodes, builds and stores one GEDCOM upload.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	defer job.releaseFileData()

	data := job.FileData()

	// Phase 1: dedup and charset detection.
	job.SetStatus(StatusDecoding, "decoding")
	hash := ContentHashHex(data)
	job.SetContentHash(hash)
	if existing, ok := w.docs.FindByHash(hash); ok {
		if w.reusable(existing, job.Lenient) {
			log.Info("duplicate document, skipping", "existing_doc_id", existing)
			job.SetDocID(existing)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
		log.Info("duplicate was built leniently, rebuilding strictly", "existing_doc_id", existing)
	}

	r, cs, err := charset.NewReader(bytes.NewReader(data))
	if err != nil {
		w.fail(log, job, "decoding", fmt.Errorf("charset: %w", err))
		return
	}
	job.SetCharset(cs.Name)
	if cs.Approximate {
		job.AddError(fmt.Sprintf("charset %s decoded approximately", cs.Name))
		log.Warn("approximate charset", "charset", cs.Name)
	}

	if err := ctx.Err(); err != nil {
		w.fail(log, job, "decoding", err)
		return
	}

	// Phase 2: build the tree.
	job.SetStatus(StatusBuilding, "building")
	start := time.Now()
	doc, err := gedcom.Parse(r, gedcom.Options{
		Lenient:       job.Lenient,
		MaxLineLength: w.maxLineLength,
		Logger:        log,
	})
	if err != nil {
		w.stats.RecordFailure()
		w.fail(log, job, "building", err)
		return
	}
	elapsed := time.Since(start)
	w.stats.Record(elapsed, doc.Len())
	job.SetTreeCounts(doc.Len(), doc.RootCount(), doc.PointerCount(), len(doc.Skipped()))
	for _, s := range doc.Skipped() {
		job.AddError(s.Error())
	}
	log.Info("tree built",
		"elements", doc.Len(),
		"records", doc.RootCount(),
		"skipped", len(doc.Skipped()),
		"duration_ms", elapsed.Milliseconds(),
	)

	if err := ctx.Err(); err != nil {
		w.fail(log, job, "building", err)
		return
	}

	// Phase 3: extract records to validate the family graph.
	job.SetStatus(StatusExtracting, "extracting")
	individuals := record.Individuals(doc)
	families := 0
	for e := range doc.RecordsByTag(gedcom.TagFamily) {
		fam, err := record.NewFamily(e)
		if err != nil {
			continue
		}
		families++
		for _, ptr := range familyMembers(fam) {
			if _, err := doc.Resolve(ptr); err != nil {
				job.AddError(fmt.Sprintf("family %s: %s", fam.Pointer, err))
			}
		}
	}
	job.AddRecords(len(individuals), families)

	// Phase 4: store.
	docID := NewID()
	w.docs.Put(&store.Entry{
		ID:          docID,
		Filename:    job.Filename,
		ContentHash: hash,
		Charset:     cs,
		Doc:         doc,
	})
	job.SetDocID(docID)
	job.SetStatus(StatusCompleted, "done")
	log.Info("document stored", "doc_id", docID, "individuals", len(individuals), "families", families)
}

// reusable reports whether the stored document id can stand in for a new
// build of the same bytes. A document that skipped malformed lines only
// stands in for another lenient build.
func (w *Worker) reusable(id string, lenient bool) bool {
	entry, err := w.docs.Get(id)
	if err != nil {
		return false
	}
	return lenient || (entry.Doc != nil && len(entry.Doc.Skipped()) == 0)
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase string, err error) {
	log.Error("job failed", "phase", phase, "error", err)
	job.AddError(describe(err))
	job.SetStatus(StatusFailed, phase)
}

// describe formats parse errors with the fields clients key on.
func describe(err error) string {
	var lvl *gedcom.LevelSequenceError
	var dup *gedcom.DuplicatePointerError
	var bad *gedcom.MalformedLineError
	switch {
	case errors.As(err, &lvl):
		return fmt.Sprintf("level sequence: %s", lvl)
	case errors.As(err, &dup):
		return fmt.Sprintf("duplicate pointer: %s", dup)
	case errors.As(err, &bad):
		return fmt.Sprintf("malformed line: %s", bad)
	}
	return err.Error()
}

func familyMembers(f *record.Family) []string {
	var out []string
	for _, p := range []string{f.Husband, f.Wife} {
		if p != "" {
			out = append(out, p)
		}
	}
	for _, c := range f.Children {
		out = append(out, c.Pointer)
	}
	return out
}
