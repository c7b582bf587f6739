package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "ledger.json"), nil)
}

func TestRecordAndLookup(t *testing.T) {
	l := newTestLedger(t)

	if l.IsRecorded("a.tgz", "abc123") {
		t.Fatal("empty ledger should not report entries")
	}

	l.Record("a.tgz", "abc123")
	if !l.IsRecorded("a.tgz", "abc123") {
		t.Fatal("recorded pair not found")
	}
	if l.IsRecorded("a.tgz", "otherhash") {
		t.Error("different hash for the same path must be a distinct key")
	}
	if l.IsRecorded("b.tgz", "abc123") {
		t.Error("different path with the same hash must be a distinct key")
	}
}

func TestRecordIsIdempotentPerKey(t *testing.T) {
	l := newTestLedger(t)

	l.Record("a.tgz", "abc123")
	first := l.List()[0].RecordedAt

	time.Sleep(5 * time.Millisecond)
	l.Record("a.tgz", "abc123")

	if l.Count() != 1 {
		t.Fatalf("Count = %d after re-record, want 1", l.Count())
	}
	second := l.List()[0].RecordedAt
	if !second.After(first) {
		t.Errorf("re-record should refresh timestamp: first %v, second %v", first, second)
	}
}

func TestSameHashNewContentTracksSeparately(t *testing.T) {
	l := newTestLedger(t)

	l.Record("a.tgz", "hash-v1")
	l.Record("a.tgz", "hash-v2")

	if l.Count() != 2 {
		t.Fatalf("Count = %d, want 2 distinct entries", l.Count())
	}
	if !l.IsRecorded("a.tgz", "hash-v1") || !l.IsRecorded("a.tgz", "hash-v2") {
		t.Error("both content versions should remain recorded")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	first := New(path, nil)
	first.Record("a.tgz", "abc123")
	first.Record("sub.tgz", "def456")
	if err := first.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); err == nil {
		t.Error("temp artifact left behind after successful save")
	}

	// Fresh process: identical dedup decisions after reload.
	second := New(path, nil)
	if err := second.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if second.Count() != 2 {
		t.Fatalf("Count = %d after reload, want 2", second.Count())
	}
	if !second.IsRecorded("a.tgz", "abc123") || !second.IsRecorded("sub.tgz", "def456") {
		t.Error("reloaded ledger lost entries")
	}
	if second.IsRecorded("a.tgz", "def456") {
		t.Error("reloaded ledger invented a pairing")
	}
}

func TestLoadMissingStoreStartsEmpty(t *testing.T) {
	l := newTestLedger(t)
	if err := l.Load(); err != nil {
		t.Fatalf("Load of missing store should succeed: %v", err)
	}
	if l.Count() != 0 {
		t.Errorf("Count = %d, want 0", l.Count())
	}
}

func TestLoadCorruptStoreReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt store: %v", err)
	}

	l := New(path, nil)
	if err := l.Load(); err == nil {
		t.Fatal("expected error for corrupt store")
	}
	// Caller proceeds with an empty ledger; the type must still work.
	l.Record("a.tgz", "abc123")
	if !l.IsRecorded("a.tgz", "abc123") {
		t.Error("ledger unusable after failed load")
	}
}

func TestInterruptedSaveLeavesPriorStoreValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	l := New(path, nil)
	l.Record("a.tgz", "abc123")
	if err := l.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Simulate a crash after the temp file was written but before the
	// rename: a stray partial temp artifact next to a valid store.
	if err := os.WriteFile(path+".tmp", []byte("partial write"), 0o644); err != nil {
		t.Fatalf("write stray temp: %v", err)
	}

	reloaded := New(path, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load after simulated crash failed: %v", err)
	}
	if !reloaded.IsRecorded("a.tgz", "abc123") {
		t.Error("prior store contents lost")
	}

	// The next save replaces both the stray temp and the store.
	reloaded.Record("b.tgz", "def456")
	if err := reloaded.Save(); err != nil {
		t.Fatalf("Save after simulated crash failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); err == nil {
		t.Error("temp artifact left behind after recovery save")
	}
}

func TestListNewestFirst(t *testing.T) {
	l := newTestLedger(t)
	l.Record("old.tgz", "h1")
	time.Sleep(5 * time.Millisecond)
	l.Record("new.tgz", "h2")

	entries := l.List()
	if len(entries) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(entries))
	}
	if entries[0].Path != "new.tgz" {
		t.Errorf("List()[0].Path = %q, want newest entry first", entries[0].Path)
	}
}
