// Package daemon coordinates the monitor lifecycle and enforces
// single-instance execution through a lock file.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"pkgstash/internal/config"
	"pkgstash/internal/ledger"
	"pkgstash/internal/logging"
	"pkgstash/internal/monitor"
)

// Daemon owns the monitor and the backup ledger for one process.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *ledger.Ledger
	monitor *monitor.Monitor

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	MonitorDir    string
	DestDir       string
	TrackedFiles  int
	LedgerEntries int
	LedgerPath    string
	LockFilePath  string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *ledger.Ledger, logger *slog.Logger, mon *monitor.Monitor) (*Daemon, error) {
	if cfg == nil || store == nil || mon == nil {
		return nil, errors.New("daemon requires config, ledger, and monitor")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		monitor:  mon,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the monitor loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another pkgstash daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.monitor.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		return fmt.Errorf("start monitor: %w", err)
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("pkgstash daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts the monitor, flushes the ledger, and releases the lock.
// Ledger save is ordered after the last copy attempt and before the
// process can exit.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.monitor.Stop()

	if err := d.store.Save(); err != nil {
		d.logger.Error("final ledger save failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "ledger_save_failed"),
			logging.String(logging.FieldErrorHint, "entries recorded this run may be re-copied next start"),
		)
	}

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("pkgstash daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Status returns a point-in-time snapshot of daemon state.
func (d *Daemon) Status() Status {
	return Status{
		Running:       d.running.Load(),
		MonitorDir:    d.cfg.Paths.MonitorDir,
		DestDir:       d.cfg.DestDir(),
		TrackedFiles:  d.monitor.TrackedCount(),
		LedgerEntries: d.store.Count(),
		LedgerPath:    d.store.Path(),
		LockFilePath:  d.lockPath,
	}
}
