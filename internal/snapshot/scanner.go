package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// DefaultChunkSize is how much of the snapshot one Scan call reads
const DefaultChunkSize = 128 * 1024

var (
	// ErrSeek is returned when the read handle cannot be positioned
	ErrSeek = errors.New("snapshot: seek failed")
	// ErrRead is returned when reading a chunk fails
	ErrRead = errors.New("snapshot: read failed")
	// ErrDecode is returned when a complete record is not valid UTF-8
	ErrDecode = errors.New("snapshot: record is not valid text")
)

// Status is the outcome of one Scan call
type Status int

const (
	// Read means a chunk was consumed and more data may remain
	Read Status = iota
	// EndOfData means nothing was left to read; the cursor did not move
	EndOfData
	// Failed accompanies a non-nil error
	Failed
)

func (s Status) String() string {
	switch s {
	case Read:
		return "read"
	case EndOfData:
		return "end of data"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Matcher is what the scanner applies to each record
type Matcher interface {
	Match(s string) bool
}

// Scanner reads a snapshot chunk by chunk from a cursor it owns. A record cut
// by the end of a chunk is not matched; the cursor is moved back to its first
// byte so the next call reads it whole.
type Scanner struct {
	r         io.ReadSeeker
	cursor    int64
	chunkSize int
	buf       []byte
}

// ScannerOption configures a Scanner
type ScannerOption func(*Scanner)

// WithChunkSize sets the read size; values below 1 keep the default
func WithChunkSize(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// NewScanner returns a scanner over r with its cursor at 0
func NewScanner(r io.ReadSeeker, opts ...ScannerOption) *Scanner {
	s := &Scanner{r: r, chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh moves the cursor back to the start, beginning a new query
func (s *Scanner) Refresh() { s.cursor = 0 }

// Cursor returns the current byte offset
func (s *Scanner) Cursor() int64 { return s.cursor }

// Scan reads the next chunk and calls onMatch, in order, for every complete
// record m matches.
func (s *Scanner) Scan(m Matcher, onMatch func(line string)) (Status, error) {
	size := s.chunkSize
	for {
		if _, err := s.r.Seek(s.cursor, io.SeekStart); err != nil {
			return Failed, fmt.Errorf("%w at offset %d: %w", ErrSeek, s.cursor, err)
		}

		chunk, exhausted, err := s.readChunk(size)
		if err != nil {
			return Failed, fmt.Errorf("%w at offset %d: %w", ErrRead, s.cursor, err)
		}
		if len(chunk) == 0 {
			return EndOfData, nil
		}

		complete := chunk
		if !exhausted {
			last := bytes.LastIndexByte(chunk, '\n')
			if last < 0 {
				// one record longer than the buffer: read again with more room
				size *= 2
				continue
			}
			complete = chunk[:last+1]
		}

		if !utf8.Valid(complete) {
			return Failed, fmt.Errorf("%w in chunk at offset %d", ErrDecode, s.cursor)
		}

		consumed := len(complete)
		for rest := complete; len(rest) > 0; {
			record := rest
			if i := bytes.IndexByte(rest, '\n'); i >= 0 {
				record, rest = rest[:i], rest[i+1:]
			} else {
				rest = nil
			}
			if len(record) == 0 {
				continue
			}
			if line := string(record); m.Match(line) {
				onMatch(line)
			}
		}

		// a trailing fragment is left for the next call
		s.cursor += int64(consumed)
		return Read, nil
	}
}

// readChunk fills up to size bytes. exhausted is true when the data ran out
// before the buffer was full.
func (s *Scanner) readChunk(size int) ([]byte, bool, error) {
	if cap(s.buf) < size {
		s.buf = make([]byte, size)
	}
	buf := s.buf[:size]

	n, err := io.ReadFull(s.r, buf)
	switch {
	case err == nil:
		return buf[:n], false, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return buf[:n], true, nil
	default:
		return nil, false, err
	}
}
