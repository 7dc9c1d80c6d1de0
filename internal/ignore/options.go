package ignore

import "github.com/bethropolis/dir-finder/internal/utils"

// Option functions for configuration
type Option func(*IgnoreMatcher)

// WithHiddenIgnore ignores every entry whose name starts with a dot
func WithHiddenIgnore(ignore bool) Option {
	return func(m *IgnoreMatcher) {
		m.ignoreHidden = ignore
	}
}

// WithGitIgnore toggles the implicit version-control metadata rule
func WithGitIgnore(ignore bool) Option {
	return func(m *IgnoreMatcher) {
		m.ignoreGit = ignore
	}
}

// WithIgnoreFile overrides the ignore file name looked up under the root
func WithIgnoreFile(name string) Option {
	return func(m *IgnoreMatcher) {
		if name != "" {
			m.ignoreFile = name
		}
	}
}

// WithRules adds literal patterns, used as-is without glob translation
func WithRules(patterns []string) Option {
	return func(m *IgnoreMatcher) {
		m.literalRules = append(m.literalRules, patterns...)
	}
}

// WithExcludeGlobs adds doublestar globs matched against the root-relative path
func WithExcludeGlobs(globs []string) Option {
	return func(m *IgnoreMatcher) {
		m.excludeGlobs = append(m.excludeGlobs, globs...)
	}
}

// WithStrictGitignore swaps the translated rules for full gitignore semantics
func WithStrictGitignore(strict bool) Option {
	return func(m *IgnoreMatcher) {
		m.strict = strict
	}
}

func WithLogger(logger utils.Logger) Option {
	return func(m *IgnoreMatcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithDisabled(disabled bool) Option {
	return func(m *IgnoreMatcher) {
		m.disabled = disabled
	}
}
