package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/dir-finder/internal/pattern"
	"github.com/bethropolis/dir-finder/internal/utils"
	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// New creates and initializes an IgnoreMatcher for rootDir
func New(rootDir string, opts ...Option) (*IgnoreMatcher, error) {
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to get absolute path for rootDir '%s': %w", rootDir, err)
	}

	matcher := &IgnoreMatcher{
		rootDir:    rootDir,
		absRootDir: absRootDir,
		ignoreFile: DefaultIgnoreFile,
		ignoreGit:  true,
		rules:      &pattern.Matcher{},
		logger:     utils.NoopLogger{},
	}

	for _, opt := range opts {
		opt(matcher)
	}

	if err := matcher.init(); err != nil {
		return nil, err
	}

	return matcher, nil
}

// init loads the ignore file and compiles every rule source
func (m *IgnoreMatcher) init() error {
	m.logger.Debug("ignore.New: Initializing for root: %s", m.rootDir)

	if m.disabled {
		m.logger.Debug("ignore.New: Matcher is disabled, skipping rule loading")
		return nil
	}

	if m.strict {
		if err := m.initStrict(); err != nil {
			return err
		}
	} else {
		m.loadIgnoreFile()
	}

	for _, rule := range m.literalRules {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		if err := m.rules.Add(rule); err != nil {
			m.logger.Warn("ignore.New: Dropping rule %q: %v", rule, err)
		}
	}

	valid := m.excludeGlobs[:0]
	for _, glob := range m.excludeGlobs {
		glob = strings.TrimSpace(glob)
		if glob == "" {
			continue
		}
		if !doublestar.ValidatePattern(glob) {
			m.logger.Warn("ignore.New: Dropping invalid exclude glob %q", glob)
			continue
		}
		valid = append(valid, glob)
	}
	m.excludeGlobs = valid

	m.logger.Debug("ignore.New: %d rules, %d exclude globs, strict=%v", m.rules.Len(), len(m.excludeGlobs), m.strict)
	return nil
}

// loadIgnoreFile translates <root>/<ignoreFile> line by line. A missing file
// leaves the rule set empty.
func (m *IgnoreMatcher) loadIgnoreFile() {
	path := filepath.Join(m.rootDir, m.ignoreFile)
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("ignore.New: Cannot read %s: %v", path, err)
		}
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := m.rules.Add(TranslateGlob(line)); err != nil {
			m.logger.Debug("ignore.New: Dropping line %q: %v", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		m.logger.Warn("ignore.New: Error reading %s: %v", path, err)
	}
	m.fileLoaded = true
}

// initStrict loads every ignore file in the tree with full gitignore semantics
func (m *IgnoreMatcher) initStrict() error {
	repoMatcher, repoErr := gitignore.NewRepositoryWithFile(m.absRootDir, m.ignoreFile)
	if repoErr != nil {
		m.logger.Warn("ignore.New: Error loading repository ignores from '%s': %v", m.absRootDir, repoErr)
		if repoMatcher != nil {
			return fmt.Errorf("ignore: failed to load repository ignores: %w", repoErr)
		}
		repoMatcher = gitignore.New(strings.NewReader(""), m.absRootDir, nil)
	}
	m.repoIgnore = repoMatcher
	m.fileLoaded = true
	return nil
}

// TranslateGlob turns one ignore-file line into a regular expression:
// `**` spans separators, `*` does not, `?` is any single character and
// regexp metacharacters are escaped.
func TranslateGlob(line string) string {
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '*' && i+1 < len(line) && line[i+1] == '*':
			b.WriteString(".*")
			i++
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteByte('.')
		case strings.IndexByte(".+()|{}^$", c) >= 0:
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
