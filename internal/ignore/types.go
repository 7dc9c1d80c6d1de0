// Package ignore provides file/directory pattern matching for exclusion
package ignore

import (
	"github.com/bethropolis/dir-finder/internal/pattern"
	"github.com/bethropolis/dir-finder/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
)

// DefaultIgnoreFile is looked up relative to the walk root
const DefaultIgnoreFile = ".gitignore"

// IgnoreMatcher determines whether a file or directory should be ignored
type IgnoreMatcher struct {
	// Rules translated from the ignore file plus literal rules
	rules *pattern.Matcher

	// Strict gitignore engine, only set when strict mode is on
	repoIgnore gitignore.GitIgnore

	// Configuration flags
	rootDir      string
	absRootDir   string
	ignoreFile   string
	ignoreHidden bool
	ignoreGit    bool
	strict       bool
	literalRules []string
	excludeGlobs []string
	logger       utils.Logger
	disabled     bool

	// true once an ignore file was found and read
	fileLoaded bool
}

// Config holds configuration options for the ignore matcher
type Config struct {
	RootDir      string
	IgnoreFile   string
	IgnoreHidden bool
	IgnoreGit    bool
	Strict       bool
	Rules        []string
	ExcludeGlobs []string
	Logger       utils.Logger
	Disabled     bool
}
