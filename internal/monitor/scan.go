package monitor

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pkgstash/internal/logging"
)

// scanCandidates lists regular files under dir whose name suffix matches
// the extension set. Listing and per-entry failures are logged and
// treated as "temporarily unavailable": the cycle continues with
// whatever could be read.
func scanCandidates(dir string, exts map[string]struct{}, logger *slog.Logger) map[string]struct{} {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("listing monitored directory failed; will retry next cycle",
			logging.Error(err),
			logging.String("dir", dir),
			logging.String(logging.FieldEventType, "scan_list_failed"),
			logging.String(logging.FieldErrorHint, "check that the monitored directory exists and is readable"),
		)
		return map[string]struct{}{}
	}

	candidates := make(map[string]struct{})
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := exts[ext]; !ok {
			continue
		}
		candidates[filepath.Join(dir, name)] = struct{}{}
	}
	return candidates
}

// fileSize stats path and returns its size. The boolean is false when
// the size cannot be read for any reason; the distinction between
// missing and unreadable does not matter to the tracker.
func fileSize(path string, logger *slog.Logger) (uint64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("stat failed for candidate file",
				logging.Error(err),
				logging.String("path", path),
				logging.String(logging.FieldEventType, "scan_stat_failed"),
			)
		}
		return 0, false
	}
	if info.Size() < 0 {
		return 0, false
	}
	return uint64(info.Size()), true
}
