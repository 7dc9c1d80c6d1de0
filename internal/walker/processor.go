// Package walker handles directory traversal and ignore-rule pruning
package walker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bethropolis/dir-finder/internal/ignore"
)

// walkStats are updated from every traversal goroutine
type walkStats struct {
	totalFiles  atomic.Int64
	totalDirs   atomic.Int64
	reported    atomic.Int64
	skippedDirs atomic.Int64
	current     atomic.Pointer[string]
}

func (s *walkStats) snapshot() ProgressStats {
	var current string
	if p := s.current.Load(); p != nil {
		current = *p
	}
	return ProgressStats{
		TotalFiles:  s.totalFiles.Load(),
		TotalDirs:   s.totalDirs.Load(),
		Reported:    s.reported.Load(),
		SkippedDirs: s.skippedDirs.Load(),
		CurrentPath: current,
	}
}

// entryProcessor decides what happens to one discovered entry and hands the
// survivors to the caller. Calls into the EntryFunc never overlap.
type entryProcessor struct {
	matcher *ignore.IgnoreMatcher
	options WalkOptions
	tracker *SkippedTracker
	stats   *walkStats
	onEntry EntryFunc

	mu sync.Mutex
}

// admit reports whether path should be emitted (and descended, for a
// directory). Ignored and unsupported entries are tracked.
func (p *entryProcessor) admit(path string, typ fs.FileMode) bool {
	isDir := typ.IsDir()
	if isDir {
		p.stats.totalDirs.Add(1)
	} else {
		p.stats.totalFiles.Add(1)
	}

	if !isDir && !typ.IsRegular() {
		p.options.Logger.Debug("Walker: Skipping %q: not a regular file (%s)", path, typ.Type())
		p.tracker.Track(path, ReasonSkippedNotRegular, false)
		return false
	}

	if p.matcher.ShouldIgnore(path, isDir) {
		p.options.Logger.Debug("Walker: Ignored %q by matcher rules", path)
		p.tracker.Track(path, ReasonIgnoredRule, isDir)
		if isDir {
			p.stats.skippedDirs.Add(1)
		}
		return false
	}
	return true
}

// emit delivers one entry to the caller
func (p *entryProcessor) emit(path string, isDir bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.reported.Add(1)
	p.stats.current.Store(&path)
	p.onEntry(path, isDir)
}

// dirError records a directory whose listing failed; the walk goes on
func (p *entryProcessor) dirError(path string, err error) {
	reason := ReasonSkippedWalkError
	if errors.Is(err, fs.ErrPermission) {
		reason = ReasonSkippedPermError
	}
	p.options.Logger.Error("Walker Error: cannot read directory %q: %v", path, err)
	p.tracker.Track(path, reason, true)
	p.stats.skippedDirs.Add(1)
}

// joinPath appends name to dir without cleaning, keeping a leading "./"
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(os.PathSeparator) + name
}

// rebase turns a path reported by the parallel walker back into the
// root-joined form the sequential walker produces.
func rebase(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	if rel == "." {
		return root, true
	}
	return joinPath(root, rel), true
}
