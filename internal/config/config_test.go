package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, ".", c.RootDir)
	assert.Equal(t, 10, c.MaxOutputLines)
	assert.True(t, c.IgnoreGit)
	assert.False(t, c.Interactive)
}

func TestParseLineCap(t *testing.T) {
	n, err := ParseLineCap("11", 10)
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	n, err = ParseLineCap("-1", 10)
	require.NoError(t, err)
	assert.Equal(t, -1, n)

	n, err = ParseLineCap("eleven", 10)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, 10, n)
}

func TestJoinPatternAndResolve(t *testing.T) {
	c := Default()
	c.Pattern = JoinPattern([]string{"'some", "pattern", ".*"})
	c.Resolve()
	assert.Equal(t, "'some pattern .*", c.Pattern)
	assert.False(t, c.Interactive)

	empty := Default()
	empty.Pattern = JoinPattern(nil)
	empty.Resolve()
	assert.True(t, empty.Interactive)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
path: ./src
line: -1
exclude:
  - "vendor/**"
strict_gitignore: true
`), 0644))

	c := Default()
	require.NoError(t, c.LoadFile(path, true))
	assert.Equal(t, "./src", c.RootDir)
	assert.Equal(t, -1, c.MaxOutputLines)
	assert.Equal(t, []string{"vendor/**"}, c.Exclude)
	assert.True(t, c.StrictGitignore)
	assert.True(t, c.IgnoreGit, "untouched keys keep their defaults")
}

func TestLoadFile_MissingAndBroken(t *testing.T) {
	dir := t.TempDir()
	c := Default()
	assert.NoError(t, c.LoadFile(filepath.Join(dir, "absent.yaml"), false))
	assert.ErrorIs(t, c.LoadFile(filepath.Join(dir, "absent.yaml"), true), ErrConfig)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("line: [\n"), 0644))
	assert.ErrorIs(t, c.LoadFile(broken, false), ErrConfig)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	c := Default()
	c.RootDir = dir
	assert.NoError(t, c.Validate())

	c.RootDir = file
	assert.ErrorIs(t, c.Validate(), ErrConfig)

	c.RootDir = filepath.Join(dir, "missing")
	assert.ErrorIs(t, c.Validate(), ErrConfig)
}
