package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bethropolis/dir-finder/internal/config"
	"github.com/bethropolis/dir-finder/internal/ignore"
	"github.com/bethropolis/dir-finder/internal/logger"
	"github.com/bethropolis/dir-finder/internal/pattern"
	"github.com/bethropolis/dir-finder/internal/printer"
	"github.com/bethropolis/dir-finder/internal/query"
	"github.com/bethropolis/dir-finder/internal/setup"
	"github.com/bethropolis/dir-finder/internal/snapshot"
	"github.com/bethropolis/dir-finder/internal/summary"
	"github.com/bethropolis/dir-finder/internal/walker"
	"github.com/fatih/color"
)

// App encapsulates the main application functionality
type App struct {
	cfg *config.Config
	log *logger.Logger

	Input     io.Reader
	Output    io.Writer
	ErrOutput io.Writer
}

// New creates a new App instance reading stdin and writing stdout/stderr
func New(cfg *config.Config) *App {
	color.NoColor = !cfg.UseColors

	a := &App{cfg: cfg}
	return a.WithStreams(os.Stdin, os.Stdout, os.Stderr)
}

// WithStreams replaces the standard streams and rebuilds the logger on errOut
func (a *App) WithStreams(in io.Reader, out, errOut io.Writer) *App {
	a.Input = in
	a.Output = out
	a.ErrOutput = errOut

	a.log = logger.New(errOut, a.cfg.Verbose, a.cfg.UseColors)
	switch {
	case a.cfg.LogLevel != "":
		a.log.SetLevel(a.cfg.LogLevel)
	case a.cfg.Quiet:
		a.log.WithLevel(logger.LevelWarn)
	}
	return a
}

// Run executes one invocation: a straight search when a pattern was given,
// otherwise a snapshot build followed by the interactive prompt.
func (a *App) Run(ctx context.Context) error {
	for _, w := range a.cfg.Warnings {
		a.log.Warn("%s", w)
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.log.Debug("Directory: %s", a.cfg.RootDir)
	a.log.Debug("Mode: interactive=%v, max lines=%d", a.cfg.Interactive, a.cfg.MaxOutputLines)
	a.log.Debug("Concurrent mode: %v (workers: %d)", a.cfg.Concurrent, a.cfg.MaxWorkers)
	a.log.Debug("Ignore settings: hidden=%v, git=%v, file=%s, strict=%v",
		a.cfg.IgnoreHidden, a.cfg.IgnoreGit, a.cfg.IgnoreFile, a.cfg.StrictGitignore)

	matcher, walkOptions, err := setup.ConfigureWalker(setup.WalkerConfig{
		RootDir:         a.cfg.RootDir,
		Concurrent:      a.cfg.Concurrent,
		MaxWorkers:      a.cfg.MaxWorkers,
		IgnoreHidden:    a.cfg.IgnoreHidden,
		IgnoreGit:       a.cfg.IgnoreGit,
		IgnoreFile:      a.cfg.IgnoreFile,
		IgnoreRules:     a.cfg.IgnoreRules,
		Exclude:         a.cfg.Exclude,
		StrictGitignore: a.cfg.StrictGitignore,
		ShowProgress:    a.cfg.ShowProgress && !a.cfg.Quiet,
		ProgressOut:     a.ErrOutput,
		Context:         ctx,
		Logger:          a.log,
	}, a.log.Info)
	if err != nil {
		return err
	}

	p := printer.New().
		WithOutput(a.Output).
		WithColors(a.cfg.UseColors && !a.cfg.JSONOutput).
		WithJSON(a.cfg.JSONOutput)

	if a.cfg.Interactive {
		return a.runInteractive(ctx, matcher, p, walkOptions)
	}
	return a.runStraight(matcher, p, walkOptions)
}

func (a *App) runStraight(matcher *ignore.IgnoreMatcher, p *printer.Printer, walkOptions []walker.Option) error {
	start := time.Now()

	// A bad pattern aborts before any traversal.
	m, err := pattern.FromString(a.cfg.Pattern)
	if err != nil {
		return err
	}
	a.log.Debug("Pattern: %s", m)

	skipped, err := query.Straight(a.cfg.RootDir, matcher, m, p.PrintPath, walkOptions...)
	a.endProgress()
	if err != nil {
		return fmt.Errorf("search interrupted: %w", err)
	}

	summary.DisplayResults(a.log, p.GetCount(), time.Since(start), a.cfg.Quiet)
	a.showSkipped(skipped)
	return nil
}

func (a *App) runInteractive(ctx context.Context, matcher *ignore.IgnoreMatcher, p *printer.Printer, walkOptions []walker.Option) error {
	storeOptions := []snapshot.StoreOption{snapshot.WithLogger(a.log)}
	if a.cfg.SnapshotPath != "" {
		storeOptions = append(storeOptions, snapshot.WithPath(a.cfg.SnapshotPath))
	}
	store, err := snapshot.New(storeOptions...)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.log.Warn("Could not remove snapshot %s: %v", store.Path(), err)
		}
	}()

	start := time.Now()
	written, skipped, err := query.BuildSnapshot(store, a.cfg.RootDir, matcher, a.log, walkOptions...)
	a.endProgress()
	if err != nil {
		return err
	}
	summary.DisplaySnapshot(a.log, store.Path(), written, time.Since(start), a.cfg.Quiet)
	a.showSkipped(skipped)

	var scannerOptions []snapshot.ScannerOption
	if a.cfg.ChunkSize > 0 {
		scannerOptions = append(scannerOptions, snapshot.WithChunkSize(a.cfg.ChunkSize))
	}
	session := query.NewSession(store.Scanner(scannerOptions...), a.cfg.MaxOutputLines, p, a.log)

	// The prompt blocks on input, so an interrupt is observed here instead.
	done := make(chan error, 1)
	go func() { done <- session.Loop(ctx, a.Input) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		fmt.Fprintln(a.Output)
		return ctx.Err()
	}
}

func (a *App) endProgress() {
	if a.cfg.ShowProgress && !a.cfg.Quiet {
		fmt.Fprintln(a.ErrOutput)
	}
}

func (a *App) showSkipped(skipped []walker.SkippedItem) {
	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, skipped, a.ErrOutput, a.cfg.Quiet)
	}
}
