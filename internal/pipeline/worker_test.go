package pipeline

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/gedgest/internal/config"
	"github.com/dgallion1/gedgest/internal/store"
)

const sampleGEDCOM = `0 HEAD
1 CHAR UTF-8
0 @I1@ INDI
1 NAME John /Smith/
1 FAMS @F1@
0 @I2@ INDI
1 NAME Mary /Jones/
1 FAMS @F1@
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I9@
0 TRLR
`

func newTestWorker() (*Worker, *store.DocumentStore) {
	docs := store.New(time.Hour)
	return NewWorker(docs, NewParseStats(time.Hour), slog.New(slog.DiscardHandler), 0), docs
}

func newTestJob(data string, lenient bool) *Job {
	job := &Job{ID: NewID(), Filename: "tree.ged", Status: StatusQueued, Lenient: lenient}
	job.SetFileData([]byte(data))
	return job
}

func TestWorker_Process(t *testing.T) {
	w, docs := newTestWorker()
	job := newTestJob(sampleGEDCOM, false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.Individuals != 2 || snap.Progress.Families != 1 {
		t.Errorf("unexpected record counts %+v", snap.Progress)
	}
	if snap.Progress.Records != 5 || snap.Progress.Pointers != 3 {
		t.Errorf("unexpected tree counts %+v", snap.Progress)
	}
	if snap.Progress.Charset != "UTF-8" {
		t.Errorf("expected UTF-8, got %q", snap.Progress.Charset)
	}
	if !slices.ContainsFunc(snap.Progress.Errors, func(s string) bool { return strings.Contains(s, "@I9@") }) {
		t.Errorf("expected dangling child warning, got %v", snap.Progress.Errors)
	}

	entry, err := docs.Get(snap.DocID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := entry.Doc.Resolve("I1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}
	if w.stats.Snapshot().Count != 1 {
		t.Error("expected one parse sample")
	}
}

func TestWorker_Duplicate(t *testing.T) {
	w, _ := newTestWorker()
	first := newTestJob(sampleGEDCOM, false)
	w.Process(context.Background(), first)

	second := newTestJob(sampleGEDCOM, false)
	w.Process(context.Background(), second)

	snap := second.Snapshot()
	if snap.Status != StatusDupSkipped {
		t.Fatalf("expected duplicate_skipped, got %q", snap.Status)
	}
	if snap.DocID != first.Snapshot().DocID {
		t.Errorf("expected existing doc id %q, got %q", first.Snapshot().DocID, snap.DocID)
	}
}

func TestWorker_DuplicateRespectsParseMode(t *testing.T) {
	src := "0 HEAD\nnot a line\n0 @I1@ INDI\n0 TRLR\n"

	w, _ := newTestWorker()
	first := newTestJob(src, true)
	w.Process(context.Background(), first)
	if s := first.Snapshot(); s.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q", s.Status)
	}

	strict := newTestJob(src, false)
	w.Process(context.Background(), strict)
	s := strict.Snapshot()
	if s.Status != StatusFailed || s.DocID != "" {
		t.Errorf("expected strict rebuild to fail without a document, got %q/%q", s.Status, s.DocID)
	}

	again := newTestJob(src, true)
	w.Process(context.Background(), again)
	if s := again.Snapshot(); s.Status != StatusDupSkipped || s.DocID != first.Snapshot().DocID {
		t.Errorf("expected lenient duplicate of %q, got %q/%q", first.Snapshot().DocID, s.Status, s.DocID)
	}
}

func TestWorker_CleanDocumentServesLenientDuplicate(t *testing.T) {
	w, _ := newTestWorker()
	first := newTestJob(sampleGEDCOM, false)
	w.Process(context.Background(), first)

	second := newTestJob(sampleGEDCOM, true)
	w.Process(context.Background(), second)
	if s := second.Snapshot(); s.Status != StatusDupSkipped || s.DocID != first.Snapshot().DocID {
		t.Errorf("expected duplicate of %q, got %q/%q", first.Snapshot().DocID, s.Status, s.DocID)
	}
}

func TestWorker_StructuralError(t *testing.T) {
	w, docs := newTestWorker()
	job := newTestJob("0 HEAD\n2 CHAR UTF-8\n", true)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "building" {
		t.Fatalf("expected failed in building, got %q/%q", snap.Status, snap.Phase)
	}
	if len(snap.Progress.Errors) == 0 || !strings.HasPrefix(snap.Progress.Errors[0], "level sequence") {
		t.Errorf("expected level sequence error, got %v", snap.Progress.Errors)
	}
	if docs.Len() != 0 {
		t.Error("expected nothing stored")
	}
	if w.stats.Snapshot().Failures != 1 {
		t.Error("expected one recorded failure")
	}
}

func TestWorker_Lenient(t *testing.T) {
	src := "0 HEAD\nnot a line\n0 @I1@ INDI\n0 TRLR\n"

	w, _ := newTestWorker()
	strict := newTestJob(src, false)
	w.Process(context.Background(), strict)
	if s := strict.Snapshot(); s.Status != StatusFailed {
		t.Errorf("expected strict parse to fail, got %q", s.Status)
	}

	lenient := newTestJob(src, true)
	w.Process(context.Background(), lenient)
	s := lenient.Snapshot()
	if s.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q", s.Status)
	}
	if s.Progress.SkippedLines != 1 {
		t.Errorf("expected 1 skipped line, got %d", s.Progress.SkippedLines)
	}
}

func TestWorker_CancelledContext(t *testing.T) {
	w, docs := newTestWorker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := newTestJob(sampleGEDCOM, false)
	w.Process(ctx, job)
	if s := job.Snapshot(); s.Status != StatusFailed {
		t.Errorf("expected failed, got %q", s.Status)
	}
	if docs.Len() != 0 {
		t.Error("expected nothing stored")
	}
}

func TestOrchestrator_SubmitAndComplete(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour, StatsWindow: time.Hour}
	o := NewOrchestrator(cfg, store.New(time.Hour), slog.New(slog.DiscardHandler))
	o.Start(context.Background())
	defer o.Stop()

	job := o.NewJob("tree.ged", []byte(sampleGEDCOM), false)
	if err := o.Submit(job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s := o.GetJob(job.ID).Snapshot(); s.Status == StatusCompleted {
			if _, err := o.Documents().Get(s.DocID); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job did not complete, last status %q", o.GetJob(job.ID).Snapshot().Status)
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	// Not started: nothing drains the queue.
	o := NewOrchestrator(cfg, store.New(time.Hour), slog.New(slog.DiscardHandler))

	if err := o.Submit(o.NewJob("a.ged", []byte(sampleGEDCOM), false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job := o.NewJob("b.ged", []byte(sampleGEDCOM), false)
	if err := o.Submit(job); err == nil {
		t.Fatal("expected queue full error")
	}
	if s := job.Snapshot(); s.Status != StatusFailed || s.Phase != "queue_full" {
		t.Errorf("expected failed/queue_full, got %q/%q", s.Status, s.Phase)
	}
}

func TestOrchestrator_NewJobLenientDefault(t *testing.T) {
	o := NewOrchestrator(config.Config{MaxQueueSize: 1, LenientParse: true}, store.New(time.Hour), slog.New(slog.DiscardHandler))
	if job := o.NewJob("a.ged", nil, false); !job.Lenient {
		t.Error("expected configured lenient default to apply")
	}
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	prev := ""
	for range 1000 {
		id := NewID()
		if len(id) != 26 {
			t.Fatalf("expected 26 chars, got %d", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		if id < prev {
			t.Fatalf("expected ids to sort by creation, %s < %s", id, prev)
		}
		seen[id] = true
		prev = id
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		hi, lo uint64
		want   string
	}{
		{"zero", 0, 0, "00000000000000000000000000"},
		{"one", 0, 1, "00000000000000000000000001"},
		{"low word carry", 0, 1 << 5, "00000000000000000000000010"},
		{"max", ^uint64(0), ^uint64(0), "7ZZZZZZZZZZZZZZZZZZZZZZZZZ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encode(tt.hi, tt.lo); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIDSource_SameMillisecond(t *testing.T) {
	var s idSource
	a := s.next(1000)
	b := s.next(1000)
	c := s.next(999)
	if !(a < b && b < c) {
		t.Errorf("expected monotonic ids, got %s %s %s", a, b, c)
	}
	if a[:10] != c[:10] {
		t.Errorf("expected clock regression to reuse the timestamp, got %s and %s", a, c)
	}
}
