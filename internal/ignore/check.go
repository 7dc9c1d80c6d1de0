package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ShouldIgnore checks if a file or directory should be ignored. path is the
// walker's full path, built from the same root string the matcher was
// created with.
func (m *IgnoreMatcher) ShouldIgnore(path string, isDir bool) bool {
	if m == nil || m.disabled {
		return false
	}

	relativePath := m.relative(path)
	if relativePath == "" || relativePath == "." {
		return false // Never ignore the root itself
	}

	if m.ignoreHidden && strings.HasPrefix(filepath.Base(relativePath), ".") {
		m.logger.Debug("ignore.ShouldIgnore: Ignored %q (hidden rule)", path)
		return true
	}

	if m.ignoreGit && isPathInGitDir(relativePath, isDir) {
		m.logger.Debug("ignore.ShouldIgnore: Ignored %q (.git rule)", path)
		return true
	}

	unixPath := filepath.ToSlash(relativePath)

	// rules see "/<relative path>"; the root's own components never take part
	anchored := "/" + unixPath
	if m.rules.Match(anchored) || (isDir && m.rules.Match(anchored+"/")) {
		m.logger.Debug("ignore.ShouldIgnore: Ignored %q by rule set", path)
		return true
	}

	for _, glob := range m.excludeGlobs {
		if ok, err := doublestar.Match(glob, unixPath); err == nil && ok {
			m.logger.Debug("ignore.ShouldIgnore: Ignored %q by exclude glob %q", path, glob)
			return true
		}
	}

	if m.repoIgnore != nil {
		match := m.repoIgnore.Relative(unixPath, isDir)
		if match != nil && match.Ignore() {
			m.logger.Debug("ignore.ShouldIgnore: Ignored %q by gitignore %s", path, match)
			return true
		}
	}

	return false
}

// relative returns path relative to the matcher's root, or path unchanged
// when the two cannot be related.
func (m *IgnoreMatcher) relative(path string) string {
	rel, err := filepath.Rel(m.rootDir, path)
	if err != nil {
		if abs, absErr := filepath.Abs(path); absErr == nil {
			if rel, err = filepath.Rel(m.absRootDir, abs); err == nil {
				return rel
			}
		}
		return path
	}
	return rel
}

// isPathInGitDir checks if a path is inside a .git directory
func isPathInGitDir(relativePath string, isDir bool) bool {
	parts := strings.Split(filepath.ToSlash(relativePath), "/")
	for i, part := range parts {
		if part == ".git" {
			// .git as a directory component, not a plain file named .git
			if isDir || i < len(parts)-1 {
				return true
			}
		}
	}
	return false
}
