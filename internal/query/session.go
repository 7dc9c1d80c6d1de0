package query

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/bethropolis/dir-finder/internal/pattern"
	"github.com/bethropolis/dir-finder/internal/printer"
	"github.com/bethropolis/dir-finder/internal/snapshot"
	"github.com/bethropolis/dir-finder/internal/utils"
)

// Session is the interactive loop over one populated snapshot.
type Session struct {
	scanner  *snapshot.Scanner
	maxLines int
	printer  *printer.Printer
	logger   utils.Logger
}

// NewSession binds a session to a scanner over a finished snapshot
func NewSession(sc *snapshot.Scanner, maxLines int, p *printer.Printer, logger utils.Logger) *Session {
	return &Session{
		scanner:  sc,
		maxLines: maxLines,
		printer:  p,
		logger:   utils.OrNoop(logger),
	}
}

// Query compiles expr and runs it against the snapshot, printing every
// match and the closing summary.
func (s *Session) Query(expr string) (Result, error) {
	m, err := pattern.FromString(expr)
	if err != nil {
		return Result{}, err
	}

	res, err := Run(s.scanner, m, s.maxLines, s.printer.PrintMatch)
	if err != nil {
		return res, err
	}
	s.printer.PrintSummary(res.Found, res.LimitReached)
	return res, nil
}

// Loop prompts for patterns on in until a quit word, end of input or ctx
// is done. A bad pattern or a failed scan ends that query only.
func (s *Session) Loop(ctx context.Context, in io.Reader) error {
	lines := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printer.Prompt()
		if !lines.Scan() {
			return lines.Err()
		}

		expr := strings.TrimSpace(lines.Text())
		if isQuit(expr) {
			return nil
		}
		if expr == "" {
			continue
		}

		if _, err := s.Query(expr); err != nil {
			s.logger.Error("query %q: %v", expr, err)
		}
	}
}

func isQuit(s string) bool {
	switch s {
	case "q", "quit", "exit":
		return true
	}
	return false
}
