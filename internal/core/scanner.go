package core

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IvanShishkin/logwatch/internal/filesystem"
	"github.com/IvanShishkin/logwatch/internal/scanner"
	"github.com/IvanShishkin/logwatch/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressCallback is called once per completed file with the number of
// files finished so far. It is invoked from worker goroutines.
type ProgressCallback func(current, total int, path string)

// WarningCallback receives non-fatal failures (path + cause)
type WarningCallback func(path string, err error)

// FileScanner scans one file. *scanner.LineScanner implements it.
type FileScanner interface {
	ScanFile(path string) (*models.FileScan, error)
}

// Options configures the scan engine
type Options struct {
	Workers    int
	Limits     scanner.Limits
	Extensions []string // extra text extensions for the classifier
	Privileged bool     // caller runs with elevated privileges
}

// Scanner is the main scan engine: discovery, parallel scanning and aggregation
type Scanner struct {
	options          Options
	logger           *zap.Logger
	walker           *filesystem.Walker
	files            FileScanner
	progressCallback ProgressCallback
	warningCallback  WarningCallback
	mu               sync.Mutex
}

// NewScanner creates a new scanner instance
func NewScanner(opts Options, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	s := &Scanner{
		options: opts,
		logger:  logger,
		walker:  filesystem.NewWalker(filesystem.NewClassifier(opts.Extensions), logger),
	}

	lines := scanner.New(opts.Limits, logger)
	lines.SetWarningCallback(s.reportWarning)
	s.files = lines

	s.walker.SetWarningCallback(s.reportWarning)
	return s
}

// SetFileScanner replaces the per-file scanner
func (s *Scanner) SetFileScanner(fs FileScanner) {
	s.files = fs
}

// Privileged reports whether the caller declared elevated privileges.
// Unprivileged scans of system directories are expected to hit
// permission warnings.
func (s *Scanner) Privileged() bool {
	return s.options.Privileged
}

// Walker returns the directory walker used by Discover
func (s *Scanner) Walker() *filesystem.Walker {
	return s.walker
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// SetWarningCallback sets the warning sink. Calls are serialized.
func (s *Scanner) SetWarningCallback(cb WarningCallback) {
	s.warningCallback = cb
}

// reportWarning forwards a warning to the callback if set
func (s *Scanner) reportWarning(path string, err error) {
	if s.warningCallback == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warningCallback(path, err)
}

// Discover returns the text files under root, sorted by path
func (s *Scanner) Discover(root string) ([]string, error) {
	s.logger.Info("Collecting files",
		zap.String("root", root),
		zap.Bool("privileged", s.options.Privileged))

	files, err := s.walker.Discover(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	s.logger.Info("Collected candidate files", zap.Int("count", len(files)))
	return files, nil
}

// Run scans files in parallel and folds the outcomes, in the order of
// files, into a report keyed by path relative to root. It fails only when
// no file could be processed.
func (s *Scanner) Run(root string, files []string) (*models.ScanReport, error) {
	report := models.NewScanReport(uuid.NewString(), root)
	report.StartTime = time.Now()
	report.Stats.TotalFiles = len(files)

	s.logger.Info("Starting scan",
		zap.String("scan_id", report.ScanID),
		zap.String("root", root),
		zap.Int("files", len(files)),
		zap.Int("workers", s.options.Workers))

	outcomes := s.scanAll(files)
	s.fold(report, outcomes)

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	if report.Stats.ProcessedFiles == 0 {
		return nil, models.ErrNoFilesProcessed
	}

	s.logger.Info("Scan completed",
		zap.Duration("duration", report.Duration),
		zap.Int("processed", report.Stats.ProcessedFiles),
		zap.Int("skipped", report.Stats.SkippedFiles),
		zap.Int("errors_found", report.Stats.TotalErrors))

	return report, nil
}

// scanAll fans files out to the worker pool. Each outcome is stored at the
// index of its file so ordering does not depend on completion order.
func (s *Scanner) scanAll(files []string) []models.FileOutcome {
	outcomes := make([]models.FileOutcome, len(files))
	if len(files) == 0 {
		return outcomes
	}

	workers := s.options.Workers
	if workers > len(files) {
		workers = len(files)
	}

	indexChan := make(chan int, workers*2)
	var completed atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go s.worker(&wg, files, indexChan, outcomes, &completed)
	}

	for i := range files {
		indexChan <- i
	}
	close(indexChan)
	wg.Wait()

	return outcomes
}

// worker processes file indexes from the channel
func (s *Scanner) worker(wg *sync.WaitGroup, files []string, indexChan <-chan int, outcomes []models.FileOutcome, completed *atomic.Int64) {
	defer wg.Done()

	for i := range indexChan {
		path := files[i]
		result, err := s.files.ScanFile(path)
		outcomes[i] = models.NewOutcome(path, result, err)

		done := completed.Add(1)
		if s.progressCallback != nil {
			s.progressCallback(int(done), len(files), path)
		}
	}
}

// fold aggregates outcomes into the report in input order
func (s *Scanner) fold(report *models.ScanReport, outcomes []models.FileOutcome) {
	for _, out := range outcomes {
		if out.Large {
			report.Stats.LargeFiles++
		}

		switch out.Kind {
		case models.OutcomeFailed:
			report.Stats.SkippedFiles++
			report.Stats.FailedFiles = append(report.Stats.FailedFiles, out.Path)
			s.logger.Debug("File skipped", zap.String("path", out.Path), zap.Error(out.Err))
			s.reportWarning(out.Path, out.Err)
		case models.OutcomeMatched:
			report.Stats.ProcessedFiles++
			report.AddFile(out.Path, RelativePath(report.Root, out.Path), out.Lines)
		default:
			report.Stats.ProcessedFiles++
		}
	}
}

// RelativePath returns path relative to root, or path itself when it is
// not below root
func RelativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
