package pipeline

import (
	"testing"
	"time"
)

func TestParseStatsSnapshotPercentiles(t *testing.T) {
	stats := NewParseStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, 300)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.Elements != 1500 {
		t.Fatalf("expected 1500 elements, got %d", snap.Elements)
	}
	if snap.ElementsPerSecond != 1000 {
		t.Fatalf("expected 1000 elements/s, got %f", snap.ElementsPerSecond)
	}
}

func TestParseStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewParseStats(10 * time.Millisecond)
	stats.Record(100*time.Millisecond, 1)
	stats.RecordFailure()
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 || snap.Failures != 0 {
		t.Fatalf("expected empty window after prune, got count=%d failures=%d", snap.Count, snap.Failures)
	}

	stats.Record(200*time.Millisecond, 1)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestParseStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Record(-10*time.Millisecond, -5)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 || snap.Elements != 0 {
		t.Fatalf("expected clamped sample, got min=%d max=%d elements=%d", snap.MinMs, snap.MaxMs, snap.Elements)
	}
	if snap.ElementsPerSecond != 0 {
		t.Fatalf("expected zero rate, got %f", snap.ElementsPerSecond)
	}
}

func TestParseStatsCountsFailures(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.RecordFailure()
	stats.RecordFailure()
	if snap := stats.Snapshot(); snap.Failures != 2 || snap.Count != 0 {
		t.Fatalf("expected 2 failures and no samples, got %+v", snap)
	}
}
