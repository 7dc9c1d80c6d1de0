// Package snapshot holds the on-disk record of one directory walk and the
// incremental scanner that answers pattern queries against it.
//
// A Store is written once (one path per line) and then read many times by a
// Scanner with its own cursor. The write and read sides are separate file
// handles; the scanner only ever sees bytes that were written before it
// reads, and a query is expected to start after the walk has finished.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bethropolis/dir-finder/internal/utils"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

var (
	// ErrCreate is returned when the snapshot file cannot be created or opened
	ErrCreate = errors.New("snapshot: cannot create")
	// ErrSnapshotBusy is returned when another process holds the snapshot's lock
	ErrSnapshotBusy = errors.New("snapshot: in use by another process")
	// ErrWrite is returned when appending to the snapshot fails
	ErrWrite = errors.New("snapshot: write failed")
	// ErrClosed is returned when writing to a closed store
	ErrClosed = errors.New("snapshot: store closed")
)

const filePrefix = "dir-finder-"

// Store is an append-only file of paths with an independent read handle.
type Store struct {
	path   string
	lock   *flock.Flock
	logger utils.Logger

	mu     sync.Mutex // guards write, size and closed
	write  *os.File
	size   int64
	closed bool

	read *os.File
}

// StoreOption configures a Store
type StoreOption func(*storeConfig)

type storeConfig struct {
	dir    string
	path   string
	logger utils.Logger
}

// WithDir places the uniquely named snapshot file in dir instead of os.TempDir()
func WithDir(dir string) StoreOption {
	return func(c *storeConfig) {
		c.dir = dir
	}
}

// WithPath uses a fixed snapshot path. The lock file guards it against a
// second process using the same path.
func WithPath(path string) StoreOption {
	return func(c *storeConfig) {
		c.path = path
	}
}

// WithLogger sets the logger used for best-effort cleanup failures
func WithLogger(logger utils.Logger) StoreOption {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// New creates the snapshot file, locks it and opens both handles.
func New(opts ...StoreOption) (*Store, error) {
	cfg := storeConfig{dir: os.TempDir()}
	for _, opt := range opts {
		opt(&cfg)
	}

	path := cfg.path
	if path == "" {
		path = filepath.Join(cfg.dir, filePrefix+uuid.NewString()+".snapshot")
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %w", ErrCreate, lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotBusy, path)
	}

	s := &Store{
		path:   path,
		lock:   lock,
		logger: utils.OrNoop(cfg.logger),
	}

	s.write, err = os.Create(path)
	if err != nil {
		s.release()
		return nil, fmt.Errorf("%w: write handle %s: %w", ErrCreate, path, err)
	}

	s.read, err = os.Open(path)
	if err != nil {
		s.write.Close()
		s.release()
		return nil, fmt.Errorf("%w: read handle %s: %w", ErrCreate, path, err)
	}

	return s, nil
}

// Path returns the snapshot file location
func (s *Store) Path() string { return s.path }

// Append writes one record, path followed by a newline.
func (s *Store) Append(path string) error {
	buf := make([]byte, 0, len(path)+1)
	buf = append(buf, path...)
	buf = append(buf, '\n')
	_, err := s.Write(buf)
	return err
}

// Write appends raw bytes. Every write goes through the same lock, so
// records from concurrent callers never interleave.
func (s *Store) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	n, err := s.write.Write(p)
	s.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return n, nil
}

// Size reports how many bytes have been written so far
func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Scanner binds a new Scanner to the store's read handle.
func (s *Store) Scanner(opts ...ScannerOption) *Scanner {
	return NewScanner(s.read, opts...)
}

// Close closes both handles and removes the snapshot and its lock file.
// Removal is best effort; failures are only logged.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	werr := s.write.Close()
	s.mu.Unlock()

	rerr := s.read.Close()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("snapshot: could not remove %s: %v", s.path, err)
	}
	s.release()

	return errors.Join(werr, rerr)
}

func (s *Store) release() {
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("snapshot: could not unlock %s: %v", s.lock.Path(), err)
	}
	if err := os.Remove(s.lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("snapshot: could not remove %s: %v", s.lock.Path(), err)
	}
}
