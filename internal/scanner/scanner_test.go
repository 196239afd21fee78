package scanner

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IvanShishkin/logwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func lineNumbers(lines []models.ErrorLine) []int {
	out := make([]int, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.LineNumber)
	}
	return out
}

func TestScanFile_MatchesAnyCase(t *testing.T) {
	content := strings.Join([]string{
		"service started",
		"ERROR: disk full",
		"retrying",
		"connection Error from 10.0.0.1",
		"terror is a substring match too",
		"all good",
		"error",
	}, "\n") + "\n"
	path := writeLog(t, "app.log", content)

	s := New(DefaultLimits(), zap.NewNop())
	result, err := s.ScanFile(path)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 4, 5, 7}, lineNumbers(result.Lines))
	assert.Equal(t, "ERROR: disk full", result.Lines[0].Content)
	assert.Equal(t, "error", result.Lines[3].Content)
	assert.False(t, result.Large)
}

func TestScanFile_TimestampIsModTime(t *testing.T) {
	path := writeLog(t, "app.log", "error one\nerror two\n")
	mtime := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	result, err := New(DefaultLimits(), nil).ScanFile(path)
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)

	for _, line := range result.Lines {
		require.NotNil(t, line.Timestamp)
		assert.True(t, line.Timestamp.Equal(mtime), "timestamp %v, want %v", line.Timestamp, mtime)
	}
}

func TestScanFile_LineEndings(t *testing.T) {
	path := writeLog(t, "win.log", "ok\r\nError: crlf\r\nlast error without newline")

	result, err := New(DefaultLimits(), nil).ScanFile(path)
	require.NoError(t, err)

	require.Len(t, result.Lines, 2)
	assert.Equal(t, models.ErrorLine{LineNumber: 2, Content: "Error: crlf", Timestamp: result.Lines[0].Timestamp}, result.Lines[0])
	assert.Equal(t, 3, result.Lines[1].LineNumber)
	assert.Equal(t, "last error without newline", result.Lines[1].Content)
}

func TestScanFile_CleanAndEmpty(t *testing.T) {
	s := New(DefaultLimits(), nil)

	result, err := s.ScanFile(writeLog(t, "clean.log", "nothing\nto see\n"))
	require.NoError(t, err)
	assert.Empty(t, result.Lines)

	result, err = s.ScanFile(writeLog(t, "empty.log", ""))
	require.NoError(t, err)
	assert.Empty(t, result.Lines)
}

func TestScanFile_InvalidUTF8LineSkipped(t *testing.T) {
	content := "error ok\n" + "error \xff\xfe broken\n" + "another error\n"
	path := writeLog(t, "mixed.log", content)

	result, err := New(DefaultLimits(), nil).ScanFile(path)
	require.NoError(t, err)

	// The undecodable line keeps its position in the numbering
	assert.Equal(t, []int{1, 3}, lineNumbers(result.Lines))
}

func TestScanFile_LongLineBeyondBuffer(t *testing.T) {
	long := strings.Repeat("x", 64*1024) + " error at the end"
	path := writeLog(t, "long.log", "first\n"+long+"\n")

	s := New(Limits{BufferSize: 4096}, nil)
	result, err := s.ScanFile(path)
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	assert.Equal(t, 2, result.Lines[0].LineNumber)
	assert.Equal(t, long, result.Lines[0].Content)
}

func TestScanFile_Idempotent(t *testing.T) {
	path := writeLog(t, "app.log", "a\nerror b\nc\nERROR d\n")
	s := New(DefaultLimits(), nil)

	first, err := s.ScanFile(path)
	require.NoError(t, err)
	second, err := s.ScanFile(path)
	require.NoError(t, err)

	assert.Equal(t, first.Lines, second.Lines)
}

func TestScanFile_NotFound(t *testing.T) {
	_, err := New(DefaultLimits(), nil).ScanFile(filepath.Join(t.TempDir(), "missing.log"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound), "error = %v", err)
}

func TestScanFile_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	path := writeLog(t, "secret.log", "error\n")
	require.NoError(t, os.Chmod(path, 0))

	_, err := New(DefaultLimits(), nil).ScanFile(path)
	assert.True(t, errors.Is(err, models.ErrPermissionDenied), "error = %v", err)
}

func TestScanFile_SizeCeiling(t *testing.T) {
	path := writeLog(t, "big.log", "error 1\nerror 2\nerror 3\n")

	s := New(Limits{MaxFileSize: 10, LargeFileSize: 5}, nil)
	result, err := s.ScanFile(path)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrFileSize), "error = %v", err)
	assert.Nil(t, result)
}

func TestScanFile_SizeCeilingSparseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.log")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(DefaultMaxFileSize+1))
	require.NoError(t, f.Close())

	_, err = New(DefaultLimits(), nil).ScanFile(path)
	assert.True(t, errors.Is(err, models.ErrFileSize), "error = %v", err)
	assert.Contains(t, err.Error(), "1.0 GiB")
}

func TestScanFile_LargeFileFlagged(t *testing.T) {
	path := writeLog(t, "large.log", "0123456789\nerror\n")

	s := New(Limits{LargeFileSize: 8}, nil)
	result, err := s.ScanFile(path)

	require.NoError(t, err)
	assert.True(t, result.Large)
	assert.Len(t, result.Lines, 1)
}

// steppingClock advances by step on every call after the first `free` calls
func steppingClock(free int, step time.Duration) Clock {
	var mu sync.Mutex
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls <= free {
			return base
		}
		return base.Add(time.Duration(calls-free) * step)
	}
}

func TestScanFile_TimeoutDiscardsMatches(t *testing.T) {
	path := writeLog(t, "slow.log", "error 1\nerror 2\nerror 3\nerror 4\n")

	s := New(Limits{Timeout: time.Second}, nil)
	// start + three line checks at the base time, then jump past the budget
	s.SetClock(steppingClock(4, 2*time.Second))

	result, err := s.ScanFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTimeout), "error = %v", err)
	require.NotNil(t, result)
	assert.Empty(t, result.Lines)
	assert.Contains(t, err.Error(), "timed out after 1s")
}

func TestScanFile_SubSecondTimeoutMessage(t *testing.T) {
	path := writeLog(t, "slow.log", "error 1\nerror 2\n")

	s := New(Limits{Timeout: 500 * time.Millisecond}, nil)
	s.SetClock(steppingClock(1, time.Second))

	_, err := s.ScanFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTimeout), "error = %v", err)
	assert.Contains(t, err.Error(), "timed out after 500ms")
}

func TestScanFile_WithinBudget(t *testing.T) {
	path := writeLog(t, "fast.log", "error 1\nerror 2\n")

	s := New(Limits{Timeout: time.Minute}, nil)
	s.SetClock(steppingClock(1, time.Second))

	result, err := s.ScanFile(path)
	require.NoError(t, err)
	assert.Len(t, result.Lines, 2)
}

type failingReader struct {
	data  io.Reader
	fails int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.fails > 0 {
		r.fails--
		return 0, errors.New("transient read failure")
	}
	return r.data.Read(p)
}

func TestScanLines_ReadErrorsAreWarnings(t *testing.T) {
	s := New(DefaultLimits(), nil)

	var warnings []string
	s.SetWarningCallback(func(path string, err error) {
		warnings = append(warnings, err.Error())
	})

	r := &failingReader{data: strings.NewReader("error a\nok\nerror b\n"), fails: 2}
	lines, err := s.scanLines("stream.log", r, time.Now())

	require.NoError(t, err)
	assert.Len(t, warnings, 2)
	assert.Equal(t, []int{1, 3}, lineNumbers(lines))
}

// chunkReader returns each chunk from one Read call; a chunk with err set
// returns no data and that error
type chunkReader struct {
	chunks []readChunk
}

type readChunk struct {
	data string
	err  error
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	c := r.chunks[0]
	r.chunks = r.chunks[1:]
	if c.err != nil {
		return 0, c.err
	}
	return copy(p, c.data), nil
}

func TestScanLines_ReadErrorMidLineKeepsPartialLine(t *testing.T) {
	s := New(DefaultLimits(), nil)

	var warnings int
	s.SetWarningCallback(func(path string, err error) { warnings++ })

	r := &chunkReader{chunks: []readChunk{
		{data: "ok\nERROR: disk "},
		{err: errors.New("transient read failure")},
		{data: "full\nlast\n"},
	}}
	lines, err := s.scanLines("stream.log", r, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 1, warnings)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].LineNumber)
	assert.Equal(t, "ERROR: disk full", lines[0].Content)
}

func TestScanLines_ReadErrorAfterMatchInPartialLine(t *testing.T) {
	s := New(DefaultLimits(), nil)

	r := &chunkReader{chunks: []readChunk{
		{data: "an error was"},
		{err: errors.New("transient read failure")},
	}}
	lines, err := s.scanLines("stream.log", r, time.Now())

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "an error was", lines[0].Content)
}

func TestScanLines_PersistentReadErrorFails(t *testing.T) {
	s := New(DefaultLimits(), nil)
	r := &failingReader{data: strings.NewReader("error\n"), fails: 1000}

	_, err := s.scanLines("stream.log", r, time.Now())
	assert.True(t, errors.Is(err, models.ErrFileProcessing), "error = %v", err)
}

func TestLimits_WithDefaults(t *testing.T) {
	l := New(Limits{Timeout: 5 * time.Second}, nil).Limits()

	assert.Equal(t, 5*time.Second, l.Timeout)
	assert.Equal(t, int64(DefaultMaxFileSize), l.MaxFileSize)
	assert.Equal(t, int64(DefaultLargeFileSize), l.LargeFileSize)
	assert.Equal(t, DefaultBufferSize, l.BufferSize)
}
