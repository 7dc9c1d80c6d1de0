// Package setup provides initialization and configuration functions
package setup

import (
	"context"
	"fmt"
	"io"

	"github.com/bethropolis/dir-finder/internal/ignore"
	"github.com/bethropolis/dir-finder/internal/utils"
	"github.com/bethropolis/dir-finder/internal/walker"
)

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// WalkerConfig holds all parameters needed to configure a directory walker
type WalkerConfig struct {
	RootDir         string
	Concurrent      bool
	MaxWorkers      int
	IgnoreHidden    bool
	IgnoreGit       bool
	IgnoreFile      string
	IgnoreRules     []string
	Exclude         []string
	StrictGitignore bool
	ShowProgress    bool
	ProgressOut     io.Writer
	Context         context.Context
	Logger          utils.Logger
}

// ConfigureWalker sets up an ignore matcher and walker options based on the config
func ConfigureWalker(cfg WalkerConfig, infoLog InfoLogger) (
	*ignore.IgnoreMatcher,
	[]walker.Option,
	error,
) {
	log := utils.OrNoop(cfg.Logger)
	if infoLog == nil {
		infoLog = func(string, ...interface{}) {}
	}

	if cfg.IgnoreHidden {
		infoLog("Ignoring hidden files/directories (starting with '.').")
	}
	if len(cfg.IgnoreRules) > 0 {
		infoLog("Using extra ignore rules: %v", cfg.IgnoreRules)
	}
	if len(cfg.Exclude) > 0 {
		infoLog("Excluding globs: %v", cfg.Exclude)
	}
	if cfg.StrictGitignore {
		infoLog("Using strict gitignore semantics for %s.", cfg.IgnoreFile)
	}

	ignoreOptions := []ignore.Option{
		ignore.WithLogger(log),
		ignore.WithHiddenIgnore(cfg.IgnoreHidden),
		ignore.WithGitIgnore(cfg.IgnoreGit),
		ignore.WithStrictGitignore(cfg.StrictGitignore),
	}
	if cfg.IgnoreFile != "" {
		ignoreOptions = append(ignoreOptions, ignore.WithIgnoreFile(cfg.IgnoreFile))
	}
	if len(cfg.IgnoreRules) > 0 {
		ignoreOptions = append(ignoreOptions, ignore.WithRules(cfg.IgnoreRules))
	}
	if len(cfg.Exclude) > 0 {
		ignoreOptions = append(ignoreOptions, ignore.WithExcludeGlobs(cfg.Exclude))
	}

	matcher, err := ignore.New(cfg.RootDir, ignoreOptions...)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing ignore rules: %w", err)
	}

	walkOptions := []walker.Option{
		walker.WithLogger(log),
		walker.WithConcurrency(cfg.Concurrent),
		walker.WithMaxWorkers(cfg.MaxWorkers),
	}

	if cfg.ShowProgress && cfg.ProgressOut != nil {
		log.Debug("Progress display enabled")
		walkOptions = append(walkOptions, walker.WithProgress(ProgressPrinter(cfg.ProgressOut)))
	}

	if cfg.Context != nil {
		walkOptions = append(walkOptions, walker.WithContext(cfg.Context))
	}

	return matcher, walkOptions, nil
}

// ProgressPrinter returns a callback that rewrites a single status line on out
func ProgressPrinter(out io.Writer) walker.ProgressCallback {
	return func(stats walker.ProgressStats) {
		path := stats.CurrentPath
		if len(path) > 40 {
			path = "..." + path[len(path)-37:]
		}

		if path != "" {
			fmt.Fprintf(out, "\rScanning: %-40s | Files: %d | Dirs: %d | Matched: %d",
				path, stats.TotalFiles, stats.TotalDirs, stats.Reported)
			return
		}
		fmt.Fprintf(out, "\rScanning... | Files: %d | Dirs: %d | Matched: %d",
			stats.TotalFiles, stats.TotalDirs, stats.Reported)
	}
}
