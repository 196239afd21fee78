// Package scanner reads a single file line by line and extracts lines that
// mention an error, within a size ceiling and a wall-clock budget.
package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/IvanShishkin/logwatch/internal/filesystem"
	"github.com/IvanShishkin/logwatch/pkg/models"
	"go.uber.org/zap"
)

// Default limits
const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxFileSize   = 1024 * 1024 * 1024 // 1 GiB
	DefaultLargeFileSize = 100_000_000
	DefaultBufferSize    = 128 * 1024
)

// maxConsecutiveReadErrors bounds retries on a reader that keeps failing
const maxConsecutiveReadErrors = 10

const errorSignal = "error"

// Limits bounds the work done for a single file
type Limits struct {
	Timeout       time.Duration
	MaxFileSize   int64
	LargeFileSize int64
	BufferSize    int
}

// DefaultLimits returns the standard limits
func DefaultLimits() Limits {
	return Limits{
		Timeout:       DefaultTimeout,
		MaxFileSize:   DefaultMaxFileSize,
		LargeFileSize: DefaultLargeFileSize,
		BufferSize:    DefaultBufferSize,
	}
}

// withDefaults fills zero fields
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.Timeout <= 0 {
		l.Timeout = d.Timeout
	}
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = d.MaxFileSize
	}
	if l.LargeFileSize <= 0 {
		l.LargeFileSize = d.LargeFileSize
	}
	if l.BufferSize <= 0 {
		l.BufferSize = d.BufferSize
	}
	return l
}

// Clock returns the current time
type Clock func() time.Time

// WarningCallback receives non-fatal per-line failures. It may be called
// from several goroutines at once.
type WarningCallback func(path string, err error)

// LineScanner scans files for error lines
type LineScanner struct {
	limits    Limits
	logger    *zap.Logger
	now       Clock
	onWarning WarningCallback
}

// New creates a line scanner. Zero limit fields take the defaults.
func New(limits Limits, logger *zap.Logger) *LineScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LineScanner{
		limits: limits.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// Limits returns the effective limits
func (s *LineScanner) Limits() Limits {
	return s.limits
}

// SetClock replaces the time source used for the timeout check
func (s *LineScanner) SetClock(c Clock) {
	if c == nil {
		c = time.Now
	}
	s.now = c
}

// SetWarningCallback sets the warning sink for per-line read errors
func (s *LineScanner) SetWarningCallback(cb WarningCallback) {
	s.onWarning = cb
}

// ScanFile returns the lines of path containing "error" in any case.
// On failure the returned FileScan, when non-nil, carries the size
// information gathered before the failure and no lines.
func (s *LineScanner) ScanFile(path string) (*models.FileScan, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, models.NewError(models.KindNotFound, path, "file does not exist", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, models.NewError(models.KindFileProcessing, path, "failed to read file metadata", err)
	}

	size := info.Size()
	if size > s.limits.MaxFileSize {
		return nil, models.NewError(models.KindFileSize, path,
			fmt.Sprintf("exceeds maximum size limit of %s", filesystem.FormatSize(s.limits.MaxFileSize)), nil)
	}

	result := &models.FileScan{
		Path:    path,
		Size:    size,
		ModTime: info.ModTime(),
		Large:   size > s.limits.LargeFileSize,
	}
	if result.Large {
		s.logger.Warn("Large file detected, processing may take time",
			zap.String("path", path),
			zap.String("size", filesystem.FormatSize(size)))
	}

	lines, err := s.scanLines(path, f, result.ModTime)
	if err != nil {
		return result, err
	}
	result.Lines = lines

	return result, nil
}

// scanLines iterates over r and collects matches. The timeout is evaluated
// before each line; a single slow read is not interrupted.
func (s *LineScanner) scanLines(path string, r io.Reader, modTime time.Time) ([]models.ErrorLine, error) {
	reader := bufio.NewReaderSize(r, s.limits.BufferSize)
	start := s.now()
	stamp := modTime

	var (
		matches    []models.ErrorLine
		lineNumber int
		readErrors int
		partial    string // bytes of the current line read before a failure
	)

	for {
		if s.now().Sub(start) > s.limits.Timeout {
			return nil, models.NewError(models.KindTimeout, path,
				fmt.Sprintf("processing timed out after %s", s.limits.Timeout), nil)
		}

		chunk, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			partial += chunk
			readErrors++
			s.warn(path, models.NewError(models.KindFileProcessing, path,
				fmt.Sprintf("line %d", lineNumber+1), err))
			if readErrors >= maxConsecutiveReadErrors {
				return nil, models.NewError(models.KindFileProcessing, path, "too many read errors", err)
			}
			continue
		}
		readErrors = 0

		line := partial + chunk
		partial = ""
		if len(line) == 0 && err == io.EOF {
			break
		}

		lineNumber++
		line = trimLineEnding(line)

		if utf8.ValidString(line) && strings.Contains(strings.ToLower(line), errorSignal) {
			matches = append(matches, models.ErrorLine{
				LineNumber: lineNumber,
				Content:    line,
				Timestamp:  &stamp,
			})
		}

		if err == io.EOF {
			break
		}
	}

	return matches, nil
}

func (s *LineScanner) warn(path string, err error) {
	s.logger.Warn("Line read failed", zap.String("path", path), zap.Error(err))
	if s.onWarning != nil {
		s.onWarning(path, err)
	}
}

// openError maps an open failure to the error taxonomy
func openError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return models.NewError(models.KindNotFound, path, "file does not exist", err)
	case errors.Is(err, fs.ErrPermission):
		return models.NewError(models.KindPermissionDenied, path, "access denied", err)
	case errors.Is(err, syscall.EILSEQ):
		return models.NewError(models.KindEncoding, path, "invalid file encoding", err)
	default:
		return models.NewError(models.KindFileProcessing, path, "", err)
	}
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
