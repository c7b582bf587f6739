// Package daemonrun wires the daemon process runtime: signal handling,
// logging, preflight, pid file, and ordered shutdown.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"

	"pkgstash/internal/config"
	"pkgstash/internal/daemon"
	"pkgstash/internal/ledger"
	"pkgstash/internal/logging"
	"pkgstash/internal/monitor"
	"pkgstash/internal/preflight"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
	JSONLogs bool
}

// Run starts the pkgstash daemon runtime loop. It blocks until the
// context is cancelled or a termination signal arrives, and returns
// only after the ledger has been flushed.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	format := cfg.Logging.Format
	if opts.JSONLogs {
		format = "json"
	}
	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           format,
		OutputPaths:      []string{"stdout", cfg.LogFilePath()},
		ErrorOutputPaths: []string{"stderr", cfg.LogFilePath()},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	runID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldRunID, runID))
	logger.Info("pkgstash starting",
		logging.String("monitor_dir", cfg.Paths.MonitorDir),
		logging.String("dest_dir", cfg.DestDir()),
		logging.Any("extensions", cfg.Monitor.FileExtensions),
		logging.Int("check_interval_seconds", cfg.Monitor.CheckInterval),
		logging.Int("stable_threshold_seconds", cfg.Monitor.StableThreshold),
	)

	results := preflight.Run(cfg)
	for _, result := range results {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
		)
	}
	if preflight.RequiredFailed(results) {
		return fmt.Errorf("preflight failed; fix the reported directories and retry")
	}

	store := ledger.New(cfg.Paths.LedgerPath, logger)
	if err := store.Load(); err != nil {
		// Non-fatal: proceed with an empty ledger and risk re-copies.
		logger.Warn("ledger load failed, starting with empty ledger",
			logging.Error(err),
			logging.String(logging.FieldEventType, "ledger_load_failed"),
			logging.String(logging.FieldErrorHint, "already-backed-up files may be copied again"),
		)
	}

	mon, err := monitor.New(cfg, store, logger)
	if err != nil {
		logger.Error("monitor initialization failed", logging.Error(err))
		return err
	}

	d, err := daemon.New(cfg, store, logger, mon)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	<-signalCtx.Done()
	logger.Info("shutdown signal received", logging.String(logging.FieldEventType, "shutdown_requested"))
	d.Stop()
	logger.Info("shutdown complete")
	return nil
}

func writePIDFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}
