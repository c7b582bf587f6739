package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"pkgstash/internal/logging"
)

// Entry is one durable backup record. Path is relative to the monitored
// root so the ledger survives destination moves.
type Entry struct {
	Path       string    `json:"path"`
	Hash       string    `json:"hash"`
	RecordedAt time.Time `json:"recorded_at"`
}

type entryKey struct {
	path string
	hash string
}

// Ledger provides thread-safe access to the backup record table.
type Ledger struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
	table  map[entryKey]Entry
}

// New creates a ledger persisted at path. The store file is created on
// the first Save; a missing file is a fresh start, not an error.
func New(path string, logger *slog.Logger) *Ledger {
	logger = logging.NewComponentLogger(logger, "ledger")
	return &Ledger{
		path:   path,
		logger: logger,
		table:  make(map[entryKey]Entry),
	}
}

// Path returns the on-disk location backing the ledger.
func (l *Ledger) Path() string {
	return l.path
}

// Load populates the in-memory table from the durable store. A missing
// store file yields an empty table and no error. Any other failure is
// returned; by contract callers log it and continue with an empty
// ledger rather than aborting.
func (l *Ledger) Load() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("ledger store not found, starting empty",
				logging.String("path", l.path))
			return nil
		}
		return fmt.Errorf("read ledger %s: %w", l.path, err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse ledger %s: %w", l.path, err)
	}

	table := make(map[entryKey]Entry, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Path) == "" || strings.TrimSpace(entry.Hash) == "" {
			continue
		}
		table[entryKey{path: entry.Path, hash: entry.Hash}] = entry
	}

	l.mu.Lock()
	l.table = table
	l.mu.Unlock()

	l.logger.Debug("loaded ledger",
		logging.Int("entry_count", len(table)),
		logging.String("path", l.path))
	return nil
}

// Save writes the entire table to durable storage using a
// write-to-temp-then-rename protocol. The temp artifact is removed on
// every failure path. On failure the in-memory table is untouched and a
// later Save can retry.
func (l *Ledger) Save() error {
	entries := l.List()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Path != entries[j].Path {
			return entries[i].Path < entries[j].Path
		}
		return entries[i].Hash < entries[j].Hash
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	tmpPath := l.path + ".tmp"
	if err := writeAndSync(tmpPath, data); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write ledger temp file: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace ledger store: %w", err)
	}

	l.logger.Debug("saved ledger",
		logging.Int("entry_count", len(entries)),
		logging.String("path", l.path))
	return nil
}

func writeAndSync(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// IsRecorded reports whether the exact (relative path, hash) pair has
// been backed up. Pure in-memory lookup, no I/O.
func (l *Ledger) IsRecorded(relPath, hash string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, found := l.table[entryKey{path: relPath, hash: hash}]
	return found
}

// Record inserts or overwrites the entry for (relPath, hash) with the
// current time. A re-record refreshes the timestamp only; a new hash for
// the same path is a distinct entry. Record does not flush to disk.
func (l *Ledger) Record(relPath, hash string) {
	entry := Entry{Path: relPath, Hash: hash, RecordedAt: time.Now().UTC()}
	l.mu.Lock()
	l.table[entryKey{path: relPath, hash: hash}] = entry
	l.mu.Unlock()
}

// List returns all entries sorted by RecordedAt descending (newest first).
func (l *Ledger) List() []Entry {
	l.mu.RLock()
	entries := make([]Entry, 0, len(l.table))
	for _, entry := range l.table {
		entries = append(entries, entry)
	}
	l.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})
	return entries
}

// Count returns the number of entries in the table.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.table)
}
