// Package walker handles directory traversal and ignore-rule pruning
package walker

import (
	"context"

	"github.com/bethropolis/dir-finder/internal/utils"
)

// WalkOptions configures the behavior of the Walk function
type WalkOptions struct {
	Logger     utils.Logger
	Concurrent bool
	MaxWorkers int
	Context    context.Context
	ProgressFn ProgressCallback
}

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(stats ProgressStats)

// ProgressStats holds statistics about the walk progress
type ProgressStats struct {
	TotalFiles  int64 // Files seen
	TotalDirs   int64 // Directories seen
	Reported    int64 // Entries handed to the EntryFunc
	SkippedDirs int64 // Directories ignored or unreadable
	CurrentPath string
}

// defaultOptions returns the default walk options
func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:     &utils.NoopLogger{},
		Concurrent: false,
		MaxWorkers: 10,
		Context:    context.Background(),
		ProgressFn: nil,
	}
}

// Option is a functional option for configuring WalkOptions
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(opts *WalkOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithConcurrency switches to the parallel traversal. Ignored subtrees are
// still pruned, but siblings are no longer visited depth-first.
func WithConcurrency(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.Concurrent = enabled
	}
}

// WithMaxWorkers sets the number of traversal goroutines in concurrent mode
func WithMaxWorkers(workers int) Option {
	return func(opts *WalkOptions) {
		if workers > 0 {
			opts.MaxWorkers = workers
		}
	}
}

// WithContext sets the context for cancellation
func WithContext(ctx context.Context) Option {
	return func(opts *WalkOptions) {
		if ctx != nil {
			opts.Context = ctx
		}
	}
}

// WithProgress adds a progress callback function
func WithProgress(fn ProgressCallback) Option {
	return func(o *WalkOptions) {
		o.ProgressFn = fn
	}
}
