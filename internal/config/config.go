// Package config holds the resolved run configuration
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// ErrConfig marks an invalid option or unreadable configuration file
var ErrConfig = errors.New("config")

const (
	// DefaultMaxOutputLines caps interactive results when nothing else is set
	DefaultMaxOutputLines = 10
	// DefaultConfigFile is read from the working directory when present
	DefaultConfigFile = ".dir-finder.yaml"
)

// Config holds all application configuration settings
type Config struct {
	// Search settings
	Pattern        string `yaml:"-"`
	RootDir        string `yaml:"path"`
	MaxOutputLines int    `yaml:"line"`
	Interactive    bool   `yaml:"interactive"`

	// Logging settings
	Verbose     bool   `yaml:"verbose"`
	Quiet       bool   `yaml:"quiet"`
	LogLevel    string `yaml:"log_level"`
	NoColor     bool   `yaml:"no_color"`
	UseColors   bool   `yaml:"-"`
	ShowSkipped bool   `yaml:"show_skipped"`

	// Processing settings
	Concurrent   bool   `yaml:"concurrent"`
	MaxWorkers   int    `yaml:"workers"`
	ShowProgress bool   `yaml:"progress"`
	ChunkSize    int    `yaml:"chunk_size"`
	SnapshotPath string `yaml:"snapshot"`

	// Filtering settings
	IgnoreHidden    bool     `yaml:"hidden"`
	IgnoreGit       bool     `yaml:"git"`
	IgnoreFile      string   `yaml:"ignore_file"`
	IgnoreRules     []string `yaml:"ignore_rules"`
	Exclude         []string `yaml:"exclude"`
	StrictGitignore bool     `yaml:"strict_gitignore"`

	// Output format
	JSONOutput bool `yaml:"json"`

	ConfigFile string   `yaml:"-"`
	Version    string   `yaml:"-"`
	Warnings   []string `yaml:"-"`
}

// Default returns the configuration used before flags and files are applied
func Default() *Config {
	return &Config{
		RootDir:        ".",
		MaxOutputLines: DefaultMaxOutputLines,
		MaxWorkers:     runtime.NumCPU(),
		IgnoreGit:      true,
		IgnoreFile:     ".gitignore",
		ConfigFile:     DefaultConfigFile,
		Version:        "1.0.0",
	}
}

// LoadFile overlays the YAML file at path onto c. A missing file is only an
// error when required is set.
func (c *Config) LoadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: reading %s: %w", ErrConfig, path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrConfig, path, err)
	}
	return nil
}

// ParseLineCap parses a --line value. On failure it returns def together
// with the error so the caller can warn and carry on.
func ParseLineCap(s string, def int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def, fmt.Errorf("%w: --line %q is not a number, using %d", ErrConfig, s, def)
	}
	return n, nil
}

// JoinPattern joins positional words into the search pattern
func JoinPattern(words []string) string {
	return strings.TrimSpace(strings.Join(words, " "))
}

// Resolve fills the derived fields: interactive mode when no pattern was
// given, and whether colors are used.
func (c *Config) Resolve() {
	c.Pattern = strings.TrimSpace(c.Pattern)
	if c.Pattern == "" {
		c.Interactive = true
	}
	c.UseColors = !c.NoColor && isatty.IsTerminal(os.Stdout.Fd())
	if c.RootDir == "" {
		c.RootDir = "."
	}
}

// Validate checks that the root is an existing directory
func (c *Config) Validate() error {
	info, err := os.Stat(c.RootDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: root directory '%s' not found", ErrConfig, c.RootDir)
		}
		return fmt.Errorf("%w: could not access root directory '%s': %w", ErrConfig, c.RootDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: '%s' is not a directory", ErrConfig, c.RootDir)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("%w: chunk size must not be negative", ErrConfig)
	}
	return nil
}
