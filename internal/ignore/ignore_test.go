package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIgnore(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultIgnoreFile), []byte(content), 0644))
}

func TestTranslateGlob(t *testing.T) {
	tests := []struct {
		glob string
		want string
	}{
		{"target", "target"},
		{"*.log", `[^/]*\.log`},
		{"build/**/out", "build/.*/out"},
		{"file?.txt", `file.\.txt`},
		{".git", `\.git`},
		{"a+b(c)", `a\+b\(c\)`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TranslateGlob(tt.glob), tt.glob)
	}
}

func TestShouldIgnore_GitignoreRules(t *testing.T) {
	root := t.TempDir()
	writeIgnore(t, root, "# comment\ntarget\nlocal_data\n*.log\n\n")

	m, err := New(root)
	require.NoError(t, err)
	assert.False(t, m.Empty())

	tests := []struct {
		name  string
		path  string
		isDir bool
		want  bool
	}{
		{"dir rule anywhere", filepath.Join(root, "haha", "target"), true, true},
		{"nested data", filepath.Join(root, "123", "local_data", "1234"), false, true},
		{"star suffix", filepath.Join(root, "logs", "run.log"), false, true},
		{"plain file", filepath.Join(root, "123", "1234"), false, false},
		{"root itself", root, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ShouldIgnore(tt.path, tt.isDir))
		})
	}
}

func TestShouldIgnore_ImplicitGitRule(t *testing.T) {
	m, err := New(".")
	require.NoError(t, err)
	assert.True(t, m.Empty(), "no ignore file in the package directory")

	assert.True(t, m.ShouldIgnore("./a/.git", true))
	assert.True(t, m.ShouldIgnore("./a/.git/HEAD", false))
	assert.False(t, m.ShouldIgnore("./a/.gitignore", false))
	assert.False(t, m.ShouldIgnore("./a/b/x.txt", false))

	off, err := New(".", WithGitIgnore(false))
	require.NoError(t, err)
	assert.False(t, off.ShouldIgnore("./a/.git", true))
}

func TestShouldIgnore_DirectoryTrailingSlashRule(t *testing.T) {
	root := t.TempDir()
	writeIgnore(t, root, "node_modules/\n")

	m, err := New(root)
	require.NoError(t, err)
	assert.True(t, m.ShouldIgnore(filepath.Join(root, "node_modules"), true))
	assert.False(t, m.ShouldIgnore(filepath.Join(root, "node_modules"), false))
}

func TestShouldIgnore_BadLinesDropped(t *testing.T) {
	root := t.TempDir()
	writeIgnore(t, root, "[z-a]\nkeep\n")

	m, err := New(root)
	require.NoError(t, err)
	assert.Equal(t, 1, m.rules.Len())
	assert.True(t, m.ShouldIgnore(filepath.Join(root, "keep"), false))
}

func TestShouldIgnore_LiteralRulesAndExcludeGlobs(t *testing.T) {
	m, err := New(".",
		WithRules([]string{`\.tmp$`, "(broken"}),
		WithExcludeGlobs([]string{"vendor/**", "[", "**/*.min.js"}),
	)
	require.NoError(t, err)

	assert.True(t, m.ShouldIgnore("./a/b.tmp", false))
	assert.True(t, m.ShouldIgnore("./vendor/lib/x.go", false))
	assert.True(t, m.ShouldIgnore("./web/app.min.js", false))
	assert.False(t, m.ShouldIgnore("./web/app.js", false))
	assert.Len(t, m.excludeGlobs, 2)
}

func TestShouldIgnore_Hidden(t *testing.T) {
	m, err := New(".", WithHiddenIgnore(true))
	require.NoError(t, err)
	assert.True(t, m.ShouldIgnore("./.env", false))
	assert.False(t, m.ShouldIgnore("./env", false))
}

func TestShouldIgnore_Strict(t *testing.T) {
	root := t.TempDir()
	writeIgnore(t, root, "*.log\n!keep.log\n")

	m, err := New(root, WithStrictGitignore(true))
	require.NoError(t, err)
	assert.False(t, m.Empty())

	assert.True(t, m.ShouldIgnore(filepath.Join(root, "debug.log"), false))
	assert.False(t, m.ShouldIgnore(filepath.Join(root, "keep.log"), false))
	assert.False(t, m.ShouldIgnore(filepath.Join(root, "main.go"), false))
}

func TestDisabledMatcher(t *testing.T) {
	m := CreateDisabledMatcher()
	assert.True(t, m.Disabled())
	assert.False(t, m.ShouldIgnore("./a/.git", true))
	assert.Same(t, m, ForRoot(m, "/elsewhere", nil))
}

func TestForRoot_LoadsDefaultIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeIgnore(t, root, "secret\n")

	resolved := ForRoot(nil, root, nil)
	require.NotNil(t, resolved)
	assert.True(t, resolved.ShouldIgnore(filepath.Join(root, "secret"), false))

	again := ForRoot(resolved, root, nil)
	assert.Same(t, resolved, again)

	empty, err := New(t.TempDir(), WithHiddenIgnore(true))
	require.NoError(t, err)
	swapped := ForRoot(empty, root, nil)
	assert.True(t, swapped.ShouldIgnore(filepath.Join(root, "secret"), false))
	assert.True(t, swapped.ShouldIgnore(filepath.Join(root, ".hidden"), false), "flags carried over")
}

func TestIsIgnored_NilMatcher(t *testing.T) {
	assert.False(t, IsIgnored(nil, "./x", false))
}

func TestNewFromConfig(t *testing.T) {
	m, err := NewFromConfig(Config{
		RootDir:   ".",
		IgnoreGit: true,
		Rules:     []string{"generated"},
	})
	require.NoError(t, err)
	assert.True(t, m.ShouldIgnore("./pkg/generated/a.go", false))
	assert.True(t, m.ShouldIgnore("./.git", true))
}
