package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.input); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)

	logger := slog.New(newConsoleHandler(&buf, levelVar))
	logger = NewComponentLogger(logger, "monitor")
	logger.Info("copied stable file", String("path", "/tmp/a.tgz"), Int("size", 100))

	out := buf.String()
	if !strings.Contains(out, "INFO [monitor] copied stable file") {
		t.Errorf("missing header line in output: %q", out)
	}
	if !strings.Contains(out, "- path: /tmp/a.tgz") {
		t.Errorf("missing path attr in output: %q", out)
	}
	if !strings.Contains(out, "- size: 100") {
		t.Errorf("missing size attr in output: %q", out)
	}
}

func TestConsoleHandlerSuppressesBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)

	logger := slog.New(newConsoleHandler(&buf, levelVar))
	logger.Info("not shown")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "not shown") {
		t.Errorf("info record should be suppressed: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestConsoleHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)

	logger := slog.New(newConsoleHandler(&buf, levelVar)).WithGroup("copy")
	logger.Info("done", String("dest", "/backups/a.tgz"))

	if !strings.Contains(buf.String(), "- copy.dest: /backups/a.tgz") {
		t.Errorf("group prefix missing: %q", buf.String())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
