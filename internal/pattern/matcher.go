// Package pattern wraps a set of compiled regular expressions answering
// "does any of them match anywhere in this string".
package pattern

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	// ErrInvalidPattern is returned when a pattern cannot be compiled
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrFileUnreadable is returned when a pattern file cannot be opened or read
	ErrFileUnreadable = errors.New("pattern file unreadable")
)

// Matcher holds zero or more compiled patterns. The zero value is an empty
// matcher which matches nothing.
type Matcher struct {
	patterns []*regexp.Regexp
}

// FromString compiles a single pattern.
func FromString(p string) (*Matcher, error) {
	m := &Matcher{}
	if err := m.Add(p); err != nil {
		return nil, err
	}
	return m, nil
}

// FromFile loads one pattern per line. Lines that fail to compile are skipped.
func FromFile(path string) (*Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
	}
	return FromLines(lines), nil
}

// FromLines compiles every non-empty line, dropping the ones that don't compile.
func FromLines(lines []string) *Matcher {
	m := &Matcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		_ = m.Add(line)
	}
	return m
}

// Add compiles p and appends it to the set.
func (m *Matcher) Add(p string) error {
	re, err := regexp.Compile(p)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidPattern, p, err)
	}
	m.patterns = append(m.patterns, re)
	return nil
}

// Match reports whether any pattern matches anywhere within s.
func (m *Matcher) Match(s string) bool {
	if m == nil {
		return false
	}
	for _, re := range m.patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Empty reports whether the matcher holds no patterns.
func (m *Matcher) Empty() bool { return m.Len() == 0 }

// String joins the source patterns, for logging.
func (m *Matcher) String() string {
	if m == nil {
		return ""
	}
	src := make([]string, len(m.patterns))
	for i, re := range m.patterns {
		src[i] = re.String()
	}
	return strings.Join(src, " | ")
}
