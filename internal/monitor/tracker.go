package monitor

import (
	"sort"
	"time"
)

// Transition is the outcome of observing one file during one scan cycle.
type Transition int

const (
	// TransitionAdmitted means the file entered tracking this cycle.
	TransitionAdmitted Transition = iota
	// TransitionReset means the size changed and the stable count restarted.
	TransitionReset
	// TransitionStable means the size held but the threshold is not yet met.
	TransitionStable
	// TransitionEligible means the file crossed the stability threshold and
	// was removed from tracking; the caller owns the copy attempt.
	TransitionEligible
)

func (t Transition) String() string {
	switch t {
	case TransitionAdmitted:
		return "admitted"
	case TransitionReset:
		return "reset"
	case TransitionStable:
		return "stable"
	case TransitionEligible:
		return "eligible"
	default:
		return "unknown"
	}
}

type trackedFile struct {
	lastSize    uint64
	stableCount uint32
}

// Tracker owns the per-file tracking table. It is not safe for
// concurrent use; the Monitor drives it from a single goroutine.
type Tracker struct {
	interval  time.Duration
	threshold time.Duration
	files     map[string]*trackedFile
}

// NewTracker creates a tracker for the given poll interval and stability
// threshold. A zero threshold still requires one confirming cycle: a
// file is never eligible on first sight.
func NewTracker(interval, threshold time.Duration) *Tracker {
	return &Tracker{
		interval:  interval,
		threshold: threshold,
		files:     make(map[string]*trackedFile),
	}
}

// Observe applies one scan-cycle transition for path at the given size.
// On TransitionEligible the file has already been removed from tracking;
// it is re-admitted as a new candidate if it is still present next cycle.
func (t *Tracker) Observe(path string, size uint64) Transition {
	file, tracked := t.files[path]
	if !tracked {
		t.files[path] = &trackedFile{lastSize: size}
		return TransitionAdmitted
	}

	if size != file.lastSize {
		file.lastSize = size
		file.stableCount = 0
		return TransitionReset
	}

	file.stableCount++
	if time.Duration(file.stableCount)*t.interval >= t.threshold {
		delete(t.files, path)
		return TransitionEligible
	}
	return TransitionStable
}

// Drop removes path from tracking: the file disappeared or its size
// became unreadable. No copy happens for dropped files.
func (t *Tracker) Drop(path string) {
	delete(t.files, path)
}

// Tracked reports whether path is currently in the tracking table.
func (t *Tracker) Tracked(path string) bool {
	_, ok := t.files[path]
	return ok
}

// StableCount returns the consecutive no-change count for path, zero if
// the path is not tracked.
func (t *Tracker) StableCount(path string) uint32 {
	if file, ok := t.files[path]; ok {
		return file.stableCount
	}
	return 0
}

// Paths returns the tracked paths in deterministic order.
func (t *Tracker) Paths() []string {
	paths := make([]string, 0, len(t.files))
	for path := range t.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of tracked files.
func (t *Tracker) Len() int {
	return len(t.files)
}
