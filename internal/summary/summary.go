// Package summary handles display of search results and walk statistics
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bethropolis/dir-finder/internal/walker"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// DisplayResults reports the outcome of a straight search
func DisplayResults(
	logger Logger,
	matchCount int64,
	duration time.Duration,
	quiet bool,
) {
	if quiet {
		return
	}
	logger.Info("Found %d matching entries.", matchCount)
	logger.Info("Search complete in %v.", duration.Round(time.Millisecond))
}

// DisplaySnapshot reports a finished snapshot build before the prompt opens
func DisplaySnapshot(
	logger Logger,
	path string,
	entries int,
	duration time.Duration,
	quiet bool,
) {
	if quiet {
		return
	}
	logger.Info("snapshot: %s (%d entries)", path, entries)
	logger.Info("took %d ms", duration.Milliseconds())
}

// DisplaySkippedItems formats and prints information about skipped items
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	infoLog("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) == 0 {
		infoLog("No items were skipped.")
		infoLog("--- End Skipped Items ---")
		return
	}

	sort.Slice(skippedItems, func(i, j int) bool {
		return skippedItems[i].Path < skippedItems[j].Path
	})
	for _, item := range skippedItems {
		kind := "FILE"
		if item.IsDir {
			kind = "DIR " // padded for alignment
		}
		fmt.Fprintf(output, "Skipped %s: %-.*s [%s]\n", kind, 50, item.Path, item.Reason)
	}
	infoLog("--- End Skipped Items ---")
}
