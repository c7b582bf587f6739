package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMinimalConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[paths]
monitor_dir = "`+dir+`"
`)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Paths.MonitorDir != dir {
		t.Errorf("MonitorDir = %q, want %q", cfg.Paths.MonitorDir, dir)
	}
	if cfg.Monitor.CheckInterval != defaultCheckInterval {
		t.Errorf("CheckInterval = %d, want default %d", cfg.Monitor.CheckInterval, defaultCheckInterval)
	}
	if got := cfg.DestDir(); !strings.HasSuffix(got, filepath.Join("backups", "packages")) {
		t.Errorf("DestDir = %q, want backups/packages suffix", got)
	}
}

func TestLoadRequiresMonitorDir(t *testing.T) {
	path := writeConfig(t, `
[monitor]
check_interval = 60
`)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for missing monitor_dir")
	}
}

func TestExtensionPresetExpansion(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[paths]
monitor_dir = "`+dir+`"

[monitor]
file_extensions = ["slackware-packages", ".ISO", ".tgz"]
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{".tgz", ".tbz", ".tlz", ".txz", ".iso"}
	if len(cfg.Monitor.FileExtensions) != len(want) {
		t.Fatalf("FileExtensions = %v, want %v", cfg.Monitor.FileExtensions, want)
	}
	for i, ext := range want {
		if cfg.Monitor.FileExtensions[i] != ext {
			t.Errorf("FileExtensions[%d] = %q, want %q", i, cfg.Monitor.FileExtensions[i], ext)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() Config {
		cfg := Default()
		cfg.Paths.MonitorDir = "/tmp"
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty extensions", func(c *Config) { c.Monitor.FileExtensions = nil }},
		{"extension without dot", func(c *Config) { c.Monitor.FileExtensions = []string{"tgz"} }},
		{"bare dot extension", func(c *Config) { c.Monitor.FileExtensions = []string{"."} }},
		{"zero interval", func(c *Config) { c.Monitor.CheckInterval = 0 }},
		{"negative interval", func(c *Config) { c.Monitor.CheckInterval = -5 }},
		{"negative threshold", func(c *Config) { c.Monitor.StableThreshold = -1 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "yaml" }},
		{"nested subdir name", func(c *Config) { c.Paths.DestSubdirName = "a/b" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestZeroStableThresholdIsValid(t *testing.T) {
	cfg := Default()
	cfg.Paths.MonitorDir = "/tmp"
	cfg.Monitor.StableThreshold = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero threshold should validate: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.MonitorDir = base
	cfg.Paths.DestBaseDir = filepath.Join(base, "dest")
	cfg.Paths.DestSubdirName = "packages"
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LedgerPath = filepath.Join(base, "state", "ledger.json")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.DestDir(), cfg.Paths.LogDir, filepath.Join(base, "state")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %q missing after EnsureDirectories", dir)
		}
	}
}

func TestSampleConfigMentionsRequiredKey(t *testing.T) {
	if !strings.Contains(SampleConfig(), "monitor_dir") {
		t.Error("sample config should document monitor_dir")
	}
}
