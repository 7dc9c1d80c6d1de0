// Package query runs searches: a straight walk-and-match pass, or a
// snapshot built once and queried repeatedly.
package query

import (
	"fmt"

	"github.com/bethropolis/dir-finder/internal/ignore"
	"github.com/bethropolis/dir-finder/internal/snapshot"
	"github.com/bethropolis/dir-finder/internal/utils"
	"github.com/bethropolis/dir-finder/internal/walker"
)

// Unlimited is the max-lines value that disables the result cap
const Unlimited = -1

// Straight walks root once and calls onMatch for every entry whose path m
// matches. There is no result cap.
func Straight(
	root string,
	im *ignore.IgnoreMatcher,
	m snapshot.Matcher,
	onMatch walker.EntryFunc,
	opts ...walker.Option,
) ([]walker.SkippedItem, error) {
	return walker.Walk(root, im, func(path string, isDir bool) {
		if m.Match(path) {
			onMatch(path, isDir)
		}
	}, opts...)
}

// BuildSnapshot walks root once and appends every reported entry to store.
// A failed append is logged and the walk continues.
func BuildSnapshot(
	store *snapshot.Store,
	root string,
	im *ignore.IgnoreMatcher,
	logger utils.Logger,
	opts ...walker.Option,
) (int, []walker.SkippedItem, error) {
	logger = utils.OrNoop(logger)

	written := 0
	skipped, err := walker.Walk(root, im, func(path string, _ bool) {
		if err := store.Append(path); err != nil {
			logger.Error("cannot write %q to snapshot: %v", path, err)
			return
		}
		written++
	}, opts...)
	if err != nil {
		return written, skipped, fmt.Errorf("query: snapshot walk of %s: %w", root, err)
	}
	return written, skipped, nil
}

// Result summarises one query
type Result struct {
	Found        int
	LimitReached bool
}

// Run answers one query from the start of the snapshot. It stops at end of
// data, on the first scanner error, or once maxLines matches were reported;
// a negative maxLines means no cap. onMatch receives the 1-based match
// number.
func Run(sc *snapshot.Scanner, m snapshot.Matcher, maxLines int, onMatch func(n int, line string)) (Result, error) {
	sc.Refresh()

	var res Result
	if maxLines == 0 {
		res.LimitReached = true
		return res, nil
	}

	for !res.LimitReached {
		st, err := sc.Scan(m, func(line string) {
			if res.LimitReached {
				return
			}
			res.Found++
			onMatch(res.Found, line)
			if maxLines >= 0 && res.Found >= maxLines {
				res.LimitReached = true
			}
		})
		if err != nil {
			return res, err
		}
		if st == snapshot.EndOfData {
			break
		}
	}
	return res, nil
}
