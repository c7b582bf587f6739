package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pkgstash/internal/config"
	"pkgstash/internal/contenthash"
	"pkgstash/internal/fileutil"
	"pkgstash/internal/ledger"
	"pkgstash/internal/logging"
)

// Monitor drives the scan-track-copy cycle for one watched directory.
type Monitor struct {
	logger *slog.Logger
	store  *ledger.Ledger

	monitorDir string
	destDir    string
	exts       map[string]struct{}
	interval   time.Duration

	tracker *Tracker
	dirty   bool

	mu      sync.Mutex
	running bool
	tracked int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a monitor from validated configuration. The destination
// directory is created here, parents included; failure is fatal because
// nothing can proceed without a valid destination.
func New(cfg *config.Config, store *ledger.Ledger, logger *slog.Logger) (*Monitor, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("monitor requires config and ledger")
	}

	destDir := cfg.DestDir()
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination directory %q: %w", destDir, err)
	}

	exts := make(map[string]struct{}, len(cfg.Monitor.FileExtensions))
	for _, ext := range cfg.Monitor.FileExtensions {
		exts[ext] = struct{}{}
	}

	interval := time.Duration(cfg.Monitor.CheckInterval) * time.Second
	threshold := time.Duration(cfg.Monitor.StableThreshold) * time.Second

	return &Monitor{
		logger:     logging.NewComponentLogger(logger, "monitor"),
		store:      store,
		monitorDir: cfg.Paths.MonitorDir,
		destDir:    destDir,
		exts:       exts,
		interval:   interval,
		tracker:    NewTracker(interval, threshold),
	}, nil
}

// Start launches the poll loop. The loop stops when ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return errors.New("monitor unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return errors.New("monitor already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.ctx = runCtx
	m.cancel = cancel
	m.running = true

	m.logger.Info("monitoring started",
		logging.String("dir", m.monitorDir),
		logging.String("dest", m.destDir),
		logging.Duration("interval", m.interval),
	)

	m.wg.Add(1)
	go m.loop()
	return nil
}

// Stop cancels the loop and blocks until the current cycle finishes and
// pending ledger entries have been flushed.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// TrackedCount returns the number of files currently in stability tracking.
func (m *Monitor) TrackedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracked
}

func (m *Monitor) loop() {
	defer m.wg.Done()
	defer m.flushLedger()

	m.scanCycle()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.scanCycle()
		}
	}
}

// scanCycle runs one full pass: list candidates, transition tracked
// files, admit new ones, and copy everything that became eligible.
func (m *Monitor) scanCycle() {
	candidates := scanCandidates(m.monitorDir, m.exts, m.logger)

	// Existing-file transitions over the previous tracked set. Files
	// that become eligible here are handed to the copy path and must
	// not be re-admitted until the next cycle.
	handled := make(map[string]struct{})
	for _, path := range m.tracker.Paths() {
		handled[path] = struct{}{}

		if _, present := candidates[path]; !present {
			m.logger.Warn("tracked file disappeared; removing from tracking",
				logging.String("path", path),
				logging.String(logging.FieldEventType, "tracked_file_gone"),
			)
			m.tracker.Drop(path)
			continue
		}

		size, ok := fileSize(path, m.logger)
		if !ok {
			m.logger.Warn("could not read size of tracked file; removing from tracking",
				logging.String("path", path),
				logging.String(logging.FieldEventType, "tracked_file_unreadable"),
			)
			m.tracker.Drop(path)
			continue
		}

		switch m.tracker.Observe(path, size) {
		case TransitionReset:
			m.logger.Debug("file size changed, stability count reset",
				logging.String("path", path),
				logging.Uint64("size", size),
			)
		case TransitionStable:
			m.logger.Debug("file size stable",
				logging.String("path", path),
				logging.Uint64("size", size),
				logging.Int("stable_checks", int(m.tracker.StableCount(path))),
			)
		case TransitionEligible:
			m.copyStableFile(path)
		}
	}

	// New-file admission for candidates not seen before this cycle.
	for path := range candidates {
		if _, seen := handled[path]; seen {
			continue
		}
		if m.tracker.Tracked(path) {
			continue
		}
		size, ok := fileSize(path, m.logger)
		if !ok {
			m.logger.Debug("new candidate has unreadable size, retrying next cycle",
				logging.String("path", path))
			continue
		}
		m.tracker.Observe(path, size)
		m.logger.Info("tracking new file",
			logging.String("path", path),
			logging.Uint64("size", size),
			logging.String(logging.FieldEventType, "file_admitted"),
		)
	}

	m.mu.Lock()
	m.tracked = m.tracker.Len()
	m.mu.Unlock()

	if m.dirty {
		m.flushLedger()
	}
}

// copyStableFile runs the copy protocol for an eligible file: hash,
// ledger check, physical copy, ledger record. The file is already out
// of tracking; any failure here means no ledger mutation and no retry
// this run.
func (m *Monitor) copyStableFile(path string) {
	hash, err := contenthash.Hash(path)
	if err != nil {
		m.logger.Warn("could not hash stable file; skipping copy",
			logging.Error(err),
			logging.String("path", path),
			logging.String(logging.FieldEventType, "hash_failed"),
			logging.String(logging.FieldErrorHint, "file will be re-tracked next cycle if it still exists"),
		)
		return
	}

	relPath, err := filepath.Rel(m.monitorDir, path)
	if err != nil {
		relPath = filepath.Base(path)
	}

	if m.store.IsRecorded(relPath, hash) {
		m.logger.Info("content already backed up, skipping copy",
			logging.String("path", relPath),
			logging.String("hash", hash),
			logging.String(logging.FieldEventType, "dedup_hit"),
		)
		return
	}

	// Flat layout: same base name regardless of source subpath. Two
	// sources with the same basename overwrite each other here; the
	// ledger still keys on the relative path.
	destPath := filepath.Join(m.destDir, filepath.Base(path))
	if err := fileutil.CopyFilePreserve(path, destPath); err != nil {
		m.logger.Error("copy failed",
			logging.Error(err),
			logging.String("path", path),
			logging.String("dest", destPath),
			logging.String(logging.FieldEventType, "copy_failed"),
			logging.String(logging.FieldErrorHint, "check destination space and permissions"),
		)
		return
	}

	m.store.Record(relPath, hash)
	m.dirty = true
	m.logger.Info("copied stable file",
		logging.String("path", path),
		logging.String("dest", destPath),
		logging.String("hash", hash),
		logging.String(logging.FieldEventType, "file_copied"),
	)
}

// flushLedger persists entries recorded since the last save. Failure is
// non-fatal: entries stay in memory for the next attempt.
func (m *Monitor) flushLedger() {
	if !m.dirty {
		return
	}
	if err := m.store.Save(); err != nil {
		m.logger.Error("ledger save failed; entries retained in memory",
			logging.Error(err),
			logging.String(logging.FieldEventType, "ledger_save_failed"),
			logging.String(logging.FieldErrorHint, "check ledger path permissions and disk space"),
		)
		return
	}
	m.dirty = false
}
