package snapshot

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bethropolis/dir-finder/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPattern(t *testing.T, p string) *pattern.Matcher {
	t.Helper()
	m, err := pattern.FromString(p)
	require.NoError(t, err)
	return m
}

// drain runs Scan until end of data or an error, collecting matches.
func drain(t *testing.T, sc *Scanner, m Matcher) ([]string, error) {
	t.Helper()
	var out []string
	for i := 0; ; i++ {
		require.Less(t, i, 100000, "scanner made no progress")
		st, err := sc.Scan(m, func(line string) { out = append(out, line) })
		if err != nil {
			assert.Equal(t, Failed, st)
			return out, err
		}
		if st == EndOfData {
			return out, nil
		}
	}
}

func TestScanner_SplitWritesReportBananaOnce(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Write([]byte("apple\nban"))
	require.NoError(t, err)
	_, err = store.Write([]byte("ana\ncherry"))
	require.NoError(t, err)

	for _, size := range []int{DefaultChunkSize, 9, 4, 1} {
		sc := store.Scanner(WithChunkSize(size))
		got, err := drain(t, sc, mustPattern(t, "an"))
		require.NoError(t, err)
		assert.Equal(t, []string{"banana"}, got, "chunk size %d", size)
	}
}

func TestScanner_EveryChunkSizeYieldsSameMatches(t *testing.T) {
	lines := []string{
		"./src/main.go",
		"./src/internal/walker/walker.go",
		"./docs/readme.md",
		"./src/internal/snapshot/scanner_test.go",
		"./a",
		"./ünïcødé/ファイル.go",
	}
	content := strings.Join(lines, "\n") + "\n"
	m := mustPattern(t, `\.go$`)

	var want []string
	for _, l := range lines {
		if m.Match(l) {
			want = append(want, l)
		}
	}

	for size := 1; size <= len(content)+1; size++ {
		sc := NewScanner(strings.NewReader(content), WithChunkSize(size))
		got, err := drain(t, sc, m)
		require.NoError(t, err, "chunk size %d", size)
		assert.Equal(t, want, got, "chunk size %d", size)
		assert.Equal(t, int64(len(content)), sc.Cursor())
	}
}

func TestScanner_IncompleteFragmentRewindsCursor(t *testing.T) {
	sc := NewScanner(strings.NewReader("apple\nbanana\ncherry"), WithChunkSize(9))
	m := mustPattern(t, ".")

	var got []string
	st, err := sc.Scan(m, func(l string) { got = append(got, l) })
	require.NoError(t, err)
	assert.Equal(t, Read, st)
	assert.Equal(t, []string{"apple"}, got)
	assert.Equal(t, int64(len("apple\n")), sc.Cursor(), "\"ban\" is read again next time")
}

func TestScanner_RefreshIsIdempotent(t *testing.T) {
	content := "x/one\nx/two\ny/three\nx/four\n"
	sc := NewScanner(strings.NewReader(content), WithChunkSize(7))
	m := mustPattern(t, "^x/")

	first, err := drain(t, sc, m)
	require.NoError(t, err)

	st, err := sc.Scan(m, func(string) { t.Fatal("nothing left to report") })
	require.NoError(t, err)
	assert.Equal(t, EndOfData, st)

	sc.Refresh()
	assert.Zero(t, sc.Cursor())
	second, err := drain(t, sc, m)
	require.NoError(t, err)

	assert.Equal(t, []string{"x/one", "x/two", "x/four"}, first)
	assert.Equal(t, first, second)
}

func TestScanner_EmptySnapshot(t *testing.T) {
	sc := NewScanner(bytes.NewReader(nil))
	st, err := sc.Scan(mustPattern(t, ""), func(string) { t.Fatal("no records") })
	require.NoError(t, err)
	assert.Equal(t, EndOfData, st)
	assert.Zero(t, sc.Cursor())
}

func TestScanner_BlankRecordsAreNotReported(t *testing.T) {
	sc := NewScanner(strings.NewReader("a\n\nb\n"))
	got, err := drain(t, sc, mustPattern(t, ".*"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestScanner_LongRecordGrowsBuffer(t *testing.T) {
	long := strings.Repeat("d/", 100) + "target"
	sc := NewScanner(strings.NewReader("short\n"+long+"\nend\n"), WithChunkSize(8))
	got, err := drain(t, sc, mustPattern(t, "target$"))
	require.NoError(t, err)
	assert.Equal(t, []string{long}, got)
}

func TestScanner_DecodeError(t *testing.T) {
	sc := NewScanner(bytes.NewReader([]byte("ok\n\xff\xfe\n")))
	st, err := sc.Scan(mustPattern(t, "ok"), func(string) { t.Fatal("chunk must be rejected before matching") })
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Zero(t, sc.Cursor())
}

func TestScanner_MultibyteSplitAtBoundaryIsNotAnError(t *testing.T) {
	content := "héllo\nwörld\n"
	// 2 bytes in, the chunk ends in the middle of 'é'
	sc := NewScanner(strings.NewReader(content), WithChunkSize(2))
	got, err := drain(t, sc, mustPattern(t, "l"))
	require.NoError(t, err)
	assert.Equal(t, []string{"héllo", "wörld"}, got)
}

type failingReader struct {
	seekErr error
	readErr error
}

func (f failingReader) Read([]byte) (int, error) { return 0, f.readErr }

func (f failingReader) Seek(int64, int) (int64, error) {
	if f.seekErr != nil {
		return 0, f.seekErr
	}
	return 0, nil
}

func TestScanner_SeekAndReadFailures(t *testing.T) {
	boom := errors.New("boom")

	st, err := NewScanner(failingReader{seekErr: boom}).Scan(mustPattern(t, "x"), func(string) {})
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, ErrSeek)
	assert.ErrorIs(t, err, boom)

	st, err = NewScanner(failingReader{readErr: boom}).Scan(mustPattern(t, "x"), func(string) {})
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, ErrRead)
	assert.NotErrorIs(t, err, ErrSeek)
}

func TestScanner_EOFFromReaderIsEndOfData(t *testing.T) {
	st, err := NewScanner(failingReader{readErr: io.EOF}).Scan(mustPattern(t, "x"), func(string) {})
	require.NoError(t, err)
	assert.Equal(t, EndOfData, st)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "read", Read.String())
	assert.Equal(t, "end of data", EndOfData.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
