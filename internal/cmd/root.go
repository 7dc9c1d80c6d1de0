package cmd

import (
	"github.com/bethropolis/dir-finder/internal/app"
	"github.com/bethropolis/dir-finder/internal/config"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for dir-finder
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir-finder [pattern words...]",
		Short: "Find paths under a directory by regular expression",
		Long: `dir-finder walks a directory tree, honouring .gitignore rules, and prints
every path that matches a regular expression.

With a pattern it searches once and exits. Without one it records the
walk into a temporary snapshot and opens a prompt where each line is a new
pattern answered from the snapshot; q, quit or exit leaves the prompt.`,
		Example: `  dir-finder '\.go$'
  dir-finder --path=./src --line=20
  dir-finder main go --exclude 'vendor/**'`,
		Args:    cobra.ArbitraryArgs,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}
			a := app.New(cfg).WithStreams(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return a.Run(cmd.Context())
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()

	flags.StringP("path", "p", defaults.RootDir, "Root directory to search")
	flags.StringP("line", "l", "10", "Maximum matches printed per interactive query (negative for unlimited)")
	flags.BoolP("interactive", "i", false, "Build a snapshot and prompt for patterns even when one was given")
	flags.String("config", defaults.ConfigFile, "YAML configuration file")

	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.BoolP("quiet", "q", false, "Suppress informational messages")
	flags.String("log-level", "", "Log level: debug, info, warn, error or none")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("json", false, "Print straight-mode matches as JSON lines")
	flags.Bool("show-skipped", false, "List ignored and unreadable entries after the walk")
	flags.Bool("progress", false, "Show walk progress on stderr")

	flags.Bool("hidden", false, "Ignore entries whose name starts with a dot")
	flags.Bool("git", defaults.IgnoreGit, "Ignore .git directories")
	flags.String("ignore-file", defaults.IgnoreFile, "Ignore file read from the root directory")
	flags.StringArray("ignore", nil, "Extra ignore rule as a regular expression (repeatable)")
	flags.StringArray("exclude", nil, "Doublestar glob of root-relative paths to skip (repeatable)")
	flags.Bool("strict-gitignore", false, "Apply full gitignore semantics, including negation")

	flags.BoolP("concurrent", "c", false, "Walk directories in parallel")
	flags.Int("workers", defaults.MaxWorkers, "Number of walker goroutines in concurrent mode")
	flags.Int("chunk-size", 0, "Snapshot read chunk size in bytes (0 for the default)")
	flags.String("snapshot", "", "Fixed snapshot path instead of a unique temporary file")

	return cmd
}

// buildConfig layers defaults, the optional config file, flags that were
// set explicitly and the positional pattern words.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	if err := cfg.LoadFile(configPath, flags.Changed("config")); err != nil {
		return nil, err
	}

	overrideString(cmd, "path", &cfg.RootDir)
	overrideString(cmd, "log-level", &cfg.LogLevel)
	overrideString(cmd, "ignore-file", &cfg.IgnoreFile)
	overrideString(cmd, "snapshot", &cfg.SnapshotPath)

	overrideBool(cmd, "interactive", &cfg.Interactive)
	overrideBool(cmd, "verbose", &cfg.Verbose)
	overrideBool(cmd, "quiet", &cfg.Quiet)
	overrideBool(cmd, "no-color", &cfg.NoColor)
	overrideBool(cmd, "json", &cfg.JSONOutput)
	overrideBool(cmd, "show-skipped", &cfg.ShowSkipped)
	overrideBool(cmd, "progress", &cfg.ShowProgress)
	overrideBool(cmd, "hidden", &cfg.IgnoreHidden)
	overrideBool(cmd, "git", &cfg.IgnoreGit)
	overrideBool(cmd, "strict-gitignore", &cfg.StrictGitignore)
	overrideBool(cmd, "concurrent", &cfg.Concurrent)

	overrideInt(cmd, "workers", &cfg.MaxWorkers)
	overrideInt(cmd, "chunk-size", &cfg.ChunkSize)

	if flags.Changed("ignore") {
		rules, _ := flags.GetStringArray("ignore")
		cfg.IgnoreRules = append(cfg.IgnoreRules, rules...)
	}
	if flags.Changed("exclude") {
		globs, _ := flags.GetStringArray("exclude")
		cfg.Exclude = append(cfg.Exclude, globs...)
	}

	if flags.Changed("line") {
		raw, _ := flags.GetString("line")
		n, err := config.ParseLineCap(raw, config.DefaultMaxOutputLines)
		if err != nil {
			cfg.Warnings = append(cfg.Warnings, err.Error())
		}
		cfg.MaxOutputLines = n
	}

	cfg.Pattern = config.JoinPattern(args)
	cfg.Version = Version
	cfg.Resolve()
	return cfg, nil
}

func overrideString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetBool(name)
	}
}

func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}
