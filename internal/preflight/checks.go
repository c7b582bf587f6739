// Package preflight verifies the environment before the daemon starts
// its poll loop, so misconfiguration fails fast instead of surfacing as
// per-cycle errors.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"pkgstash/internal/config"
)

// lowSpaceBytes is the destination free-space level below which the
// free-space check fails. Copies can still proceed; the orchestrator
// logs per-file failures when the disk actually fills.
const lowSpaceBytes = 256 << 20

// Result is the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Required bool
	Detail   string
}

// CheckMonitorDir verifies that the monitored directory exists and can
// be listed. Required: the poll loop is useless without it.
func CheckMonitorDir(path string) Result {
	const name = "Monitored directory"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Required: true, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Required: true, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Required: true, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Required: true, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Required: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckDestDir verifies that the destination directory is writable.
// Required; callers create the directory before running preflight.
func CheckDestDir(path string) Result {
	const name = "Destination directory"
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Required: true, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Required: true, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Required: true, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Required: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace reports the free space on the destination filesystem.
// Advisory: a low-space result does not block startup.
func CheckFreeSpace(path string) Result {
	const name = "Destination free space"
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	available := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s free on %s", formatBytes(available), path)
	if available < lowSpaceBytes {
		return Result{Name: name, Detail: detail + " (low)"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// Run executes all checks for the given configuration.
func Run(cfg *config.Config) []Result {
	return []Result{
		CheckMonitorDir(cfg.Paths.MonitorDir),
		CheckDestDir(cfg.DestDir()),
		CheckFreeSpace(cfg.DestDir()),
	}
}

// RequiredFailed reports whether any required check did not pass.
func RequiredFailed(results []Result) bool {
	for _, result := range results {
		if result.Required && !result.Passed {
			return true
		}
	}
	return false
}

func formatBytes(n uint64) string {
	const (
		kib = 1 << 10
		mib = 1 << 20
		gib = 1 << 30
		tib = 1 << 40
	)
	switch {
	case n >= tib:
		return fmt.Sprintf("%.1f TiB", float64(n)/tib)
	case n >= gib:
		return fmt.Sprintf("%.1f GiB", float64(n)/gib)
	case n >= mib:
		return fmt.Sprintf("%.1f MiB", float64(n)/mib)
	case n >= kib:
		return fmt.Sprintf("%.1f KiB", float64(n)/kib)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
