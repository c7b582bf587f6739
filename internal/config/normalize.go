package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMonitor()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.MonitorDir, err = expandPath(c.Paths.MonitorDir); err != nil {
		return fmt.Errorf("paths.monitor_dir: %w", err)
	}
	if c.Paths.DestBaseDir, err = expandPath(c.Paths.DestBaseDir); err != nil {
		return fmt.Errorf("paths.dest_base_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	c.Paths.DestSubdirName = strings.TrimSpace(c.Paths.DestSubdirName)
	return nil
}

func (c *Config) normalizeMonitor() {
	c.Monitor.FileExtensions = expandExtensions(c.Monitor.FileExtensions)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
