// Package printer handles result output formatting
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

// Printer writes results to the configured output destination
type Printer struct {
	output     io.Writer
	count      atomic.Int64
	useColors  bool
	jsonOutput bool
	mu         sync.Mutex
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output:    os.Stdout,
		useColors: true,
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithJSON switches path output to one JSON object per line
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// Output returns the destination writer
func (p *Printer) Output() io.Writer { return p.output }

// JSONEntry is one path in JSON output
type JSONEntry struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}

// PrintPath reports one straight-mode match
func (p *Printer) PrintPath(path string, isDir bool) {
	p.count.Add(1)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.jsonOutput {
		data, err := json.Marshal(JSONEntry{Path: path, IsDir: isDir})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
			return
		}
		fmt.Fprintf(p.output, "%s\n", data)
		return
	}

	if p.useColors && isDir {
		fmt.Fprintf(p.output, "%s\n", color.New(color.FgCyan, color.Bold).Sprint(path))
		return
	}
	fmt.Fprintf(p.output, "%s\n", path)
}

// PrintMatch reports the n-th match of an interactive query
func (p *Printer) PrintMatch(n int, line string) {
	p.count.Add(1)

	p.mu.Lock()
	defer p.mu.Unlock()

	num := fmt.Sprintf("%d)", n)
	if p.useColors {
		num = color.YellowString(num)
	}
	fmt.Fprintf(p.output, "%s %s\n", num, line)
}

// PrintSummary closes an interactive query. Zero matches read differently
// from any positive count.
func (p *Printer) PrintSummary(found int, limitReached bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case found == 0:
		fmt.Fprintln(p.output, "no matches")
	case limitReached:
		fmt.Fprintf(p.output, "found %d (limit reached)\n", found)
	default:
		fmt.Fprintf(p.output, "found %d\n", found)
	}
}

// Prompt writes the interactive prompt without a newline
func (p *Printer) Prompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.output, "> ")
}

// GetCount returns the number of results printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}
