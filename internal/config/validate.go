package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMonitor(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.MonitorDir) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/pkgstash/config.toml"
		}
		return fmt.Errorf("paths.monitor_dir is required. Edit %s (create with 'pkgstash config init')", defaultPath)
	}
	if strings.TrimSpace(c.Paths.DestBaseDir) == "" {
		return errors.New("paths.dest_base_dir must be set")
	}
	if c.Paths.DestSubdirName == "" {
		return errors.New("paths.dest_subdir_name must be set")
	}
	if strings.ContainsRune(c.Paths.DestSubdirName, '/') {
		return errors.New("paths.dest_subdir_name must be a single directory name")
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		return errors.New("paths.ledger_path must be set")
	}
	return nil
}

func (c *Config) validateMonitor() error {
	if len(c.Monitor.FileExtensions) == 0 {
		return errors.New("monitor.file_extensions must list at least one extension")
	}
	for _, ext := range c.Monitor.FileExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("monitor.file_extensions entry %q must begin with '.' (or name a preset)", ext)
		}
		if len(ext) == 1 {
			return errors.New("monitor.file_extensions entry \".\" is not a valid suffix")
		}
	}
	if c.Monitor.CheckInterval <= 0 {
		return errors.New("monitor.check_interval must be positive (seconds)")
	}
	if c.Monitor.StableThreshold < 0 {
		return errors.New("monitor.stable_threshold must be non-negative (seconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
