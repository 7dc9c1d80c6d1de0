// Package walker handles directory traversal and ignore-rule pruning
package walker

import (
	"context"
	"io/fs"
	"os"
	"time"

	"github.com/bethropolis/dir-finder/internal/ignore"
	"github.com/charlievieth/fastwalk"
)

// Walk traverses the directory tree starting from rootDir, calling onEntry
// for every file and directory the matcher does not ignore. A directory is
// checked before it is descended; once ignored, nothing beneath it is seen.
//
// A nil or empty matcher is replaced by one built from the default ignore
// file under rootDir. Directories that cannot be listed are logged and
// skipped; the only error Walk returns is the context's.
func Walk(rootDir string, matcher *ignore.IgnoreMatcher, onEntry EntryFunc, opts ...Option) ([]SkippedItem, error) {
	startTime := time.Now()

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	tracker := NewSkippedTracker(100)
	stats := &walkStats{}
	proc := &entryProcessor{
		matcher: ignore.ForRoot(matcher, rootDir, options.Logger),
		options: options,
		tracker: tracker,
		stats:   stats,
		onEntry: onEntry,
	}

	stopProgress := func() {}
	if options.ProgressFn != nil {
		progressCtx, progressCancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		stopProgress = func() {
			progressCancel()
			<-done
		}

		go func() {
			defer close(done)
			ticker := time.NewTicker(300 * time.Millisecond)
			defer ticker.Stop()

			for {
				select {
				case <-progressCtx.Done():
					return
				case <-ticker.C:
					options.ProgressFn(stats.snapshot())
				}
			}
		}()
	}

	options.Logger.Debug("walker.Walk started. Root: %s, Concurrent: %v, Workers: %d",
		rootDir, options.Concurrent, options.MaxWorkers)

	var walkErr error
	if options.Concurrent {
		walkErr = walkParallel(rootDir, proc)
	} else {
		walkErr = walkSequential(rootDir, proc)
	}

	stopProgress()
	options.Logger.Debug("Walker: %d entries reported in %s", stats.reported.Load(), time.Since(startTime))
	if options.ProgressFn != nil {
		options.ProgressFn(stats.snapshot())
	}

	return tracker.Items(), walkErr
}

// walkSequential is a depth-first recursion: each subtree is finished
// before the next sibling is looked at.
func walkSequential(dir string, p *entryProcessor) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// whatever was listed before the failure is still walked
		p.dirError(dir, err)
	}

	for _, entry := range entries {
		if err := p.options.Context.Err(); err != nil {
			return err
		}

		path := joinPath(dir, entry.Name())
		if !p.admit(path, entry.Type()) {
			continue
		}

		isDir := entry.IsDir()
		p.emit(path, isDir)
		if isDir {
			if err := walkSequential(path, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// walkParallel walks with fastwalk. Symlinks are not followed.
func walkParallel(rootDir string, p *entryProcessor) error {
	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: p.options.MaxWorkers,
	}

	err := fastwalk.Walk(conf, rootDir, func(walked string, d fs.DirEntry, err error) error {
		if ctxErr := p.options.Context.Err(); ctxErr != nil {
			return ctxErr
		}

		path, ok := rebase(rootDir, walked)
		if !ok {
			p.options.Logger.Error("Walker Error: Path calculation failed for %q", walked)
			p.tracker.Track(walked, ReasonSkippedPathError, d != nil && d.IsDir())
			return nil
		}

		if err != nil {
			p.dirError(path, err)
			if d != nil && d.IsDir() && path != rootDir {
				return fs.SkipDir
			}
			return nil
		}

		if path == rootDir {
			return nil
		}

		if !p.admit(path, d.Type()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		p.emit(path, d.IsDir())
		return nil
	})
	if err == nil {
		return nil
	}
	if ctxErr := p.options.Context.Err(); ctxErr != nil {
		return ctxErr
	}
	// the callback only fails on cancellation, so this is the root itself
	p.dirError(rootDir, err)
	return nil
}
