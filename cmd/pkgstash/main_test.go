package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	watch := filepath.Join(base, "watch")
	if err := os.MkdirAll(watch, 0o755); err != nil {
		t.Fatalf("create watch dir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(base, "logs"), 0o755); err != nil {
		t.Fatalf("create log dir: %v", err)
	}
	body := `
[paths]
monitor_dir = "` + watch + `"
dest_base_dir = "` + filepath.Join(base, "dest") + `"
dest_subdir_name = "packages"
log_dir = "` + filepath.Join(base, "logs") + `"
ledger_path = "` + filepath.Join(base, "ledger.json") + `"

[monitor]
check_interval = 1
stable_threshold = 0
`
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandListsSubcommands(t *testing.T) {
	cmd := newRootCommand()
	want := []string{"run", "status", "ledger", "config"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestConfigPathCommand(t *testing.T) {
	out, err := runCLI(t, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if !strings.Contains(out, "config.toml") {
		t.Errorf("config path output = %q, want config.toml location", out)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("output %q should mention target path", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if !strings.Contains(string(data), "monitor_dir") {
		t.Error("sample config missing monitor_dir key")
	}

	// Without --overwrite a second init must refuse.
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Error("second init without --overwrite should fail")
	}
}

func TestConfigShowCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, cfgPath) {
		t.Errorf("output should name the resolved file: %q", out)
	}
	if !strings.Contains(out, "monitor_dir") {
		t.Errorf("output should include the encoded config: %q", out)
	}
}

func TestStatusCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "--config", cfgPath, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "stopped") {
		t.Errorf("status output should report daemon stopped: %q", out)
	}
	if !strings.Contains(out, "Monitored directory") {
		t.Errorf("status output missing summary table: %q", out)
	}
}

func TestLedgerListEmpty(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "--config", cfgPath, "ledger", "list")
	if err != nil {
		t.Fatalf("ledger list failed: %v", err)
	}
	if !strings.Contains(out, "Ledger is empty") {
		t.Errorf("expected empty-ledger message, got %q", out)
	}
}

func TestLedgerPathCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "--config", cfgPath, "ledger", "path")
	if err != nil {
		t.Fatalf("ledger path failed: %v", err)
	}
	if !strings.Contains(out, "ledger.json") {
		t.Errorf("ledger path output = %q, want ledger.json location", out)
	}
}

func TestShortHash(t *testing.T) {
	if got := shortHash("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortHash = %q, want first 12 chars", got)
	}
	if got := shortHash("abc"); got != "abc" {
		t.Errorf("shortHash of short input = %q, want unchanged", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Path", "Hash"}, [][]string{{"a.tgz", "abc"}})
	if !strings.Contains(out, "a.tgz") || !strings.Contains(out, "Hash") {
		t.Errorf("table output missing content: %q", out)
	}
}
