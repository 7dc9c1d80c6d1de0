// Package ignore provides file/directory pattern matching for exclusion
//
// Rules come from an ignore file under the walk root (glob lines translated to
// regular expressions), literal patterns, doublestar exclude globs and an
// implicit rule for version-control metadata. A path is ignored as soon as any
// rule matches. It uses the functional options pattern for configuration.
package ignore

import "github.com/bethropolis/dir-finder/internal/utils"

// NewFromConfig creates an IgnoreMatcher from a Config struct
func NewFromConfig(cfg Config) (*IgnoreMatcher, error) {
	options := []Option{
		WithHiddenIgnore(cfg.IgnoreHidden),
		WithGitIgnore(cfg.IgnoreGit),
		WithIgnoreFile(cfg.IgnoreFile),
		WithStrictGitignore(cfg.Strict),
		WithDisabled(cfg.Disabled),
	}

	if len(cfg.Rules) > 0 {
		options = append(options, WithRules(cfg.Rules))
	}
	if len(cfg.ExcludeGlobs) > 0 {
		options = append(options, WithExcludeGlobs(cfg.ExcludeGlobs))
	}
	if cfg.Logger != nil {
		options = append(options, WithLogger(cfg.Logger))
	}

	return New(cfg.RootDir, options...)
}

// CreateDisabledMatcher returns a matcher that ignores nothing
func CreateDisabledMatcher() *IgnoreMatcher {
	matcher, _ := New(".", WithDisabled(true))
	return matcher
}

// Empty reports whether no rule source is active. The implicit .git and
// hidden-file rules do not count.
func (m *IgnoreMatcher) Empty() bool {
	if m == nil {
		return true
	}
	return m.rules.Empty() && len(m.excludeGlobs) == 0 && m.repoIgnore == nil
}

// Disabled reports whether the matcher was explicitly switched off.
func (m *IgnoreMatcher) Disabled() bool { return m != nil && m.disabled }

// Root returns the root the matcher resolves relative paths against.
func (m *IgnoreMatcher) Root() string {
	if m == nil {
		return ""
	}
	return m.rootDir
}

// ForRoot returns the matcher to use for a walk rooted at root. A nil or
// empty matcher is replaced by one loaded from the default ignore file under
// root, keeping the given flags; if that cannot be built, the result
// ignores only what the built-in rules cover.
func ForRoot(m *IgnoreMatcher, root string, logger utils.Logger) *IgnoreMatcher {
	logger = utils.OrNoop(logger)
	if m.Disabled() {
		return m
	}
	if m != nil && !m.Empty() && m.rootDir == root {
		return m
	}

	opts := []Option{WithLogger(logger)}
	if m != nil {
		opts = append(opts,
			WithHiddenIgnore(m.ignoreHidden),
			WithGitIgnore(m.ignoreGit),
			WithIgnoreFile(m.ignoreFile),
			WithStrictGitignore(m.strict),
			WithRules(m.literalRules),
			WithExcludeGlobs(m.excludeGlobs),
		)
	}

	resolved, err := New(root, opts...)
	if err != nil {
		logger.Warn("ignore: falling back to built-in rules for %s: %v", root, err)
		if m != nil {
			return m
		}
		resolved, _ = New(".", WithLogger(logger))
	}
	return resolved
}

// IsIgnored is a convenience function to check if a path should be ignored
func IsIgnored(matcher *IgnoreMatcher, path string, isDir bool) bool {
	if matcher == nil {
		return false
	}
	return matcher.ShouldIgnore(path, isDir)
}
