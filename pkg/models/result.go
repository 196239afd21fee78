package models

import "time"

// ScanReport contains the complete scan results
type ScanReport struct {
	// Summary
	ScanID    string        `json:"scan_id" yaml:"scan_id"`
	Root      string        `json:"root" yaml:"root"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	// Files with at least one error line, in scan order
	Files []*FileReport `json:"files" yaml:"files"`

	// Statistics
	Stats *ScanStatistics `json:"statistics" yaml:"statistics"`

	// Report path
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`

	index map[string]int
}

// FileReport groups the error lines found in one file
type FileReport struct {
	Path    string      `json:"path" yaml:"path"`
	RelPath string      `json:"rel_path" yaml:"rel_path"`
	Errors  []ErrorLine `json:"errors" yaml:"errors"`
}

// ScanStatistics contains scan counters
type ScanStatistics struct {
	TotalFiles     int `json:"total_files" yaml:"total_files"`
	ProcessedFiles int `json:"processed_files" yaml:"processed_files"`
	SkippedFiles   int `json:"skipped_files" yaml:"skipped_files"`
	TotalErrors    int `json:"total_errors" yaml:"total_errors"`
	LargeFiles     int `json:"large_files" yaml:"large_files"`

	// Paths of files that failed, in scan order
	FailedFiles []string `json:"failed_files,omitempty" yaml:"failed_files,omitempty"`
}

// NewScanReport creates an empty report for root
func NewScanReport(id, root string) *ScanReport {
	return &ScanReport{
		ScanID: id,
		Root:   root,
		Files:  make([]*FileReport, 0),
		Stats:  &ScanStatistics{},
		index:  make(map[string]int),
	}
}

// AddFile appends the error lines of a file to the report.
// Empty line sets are ignored.
func (r *ScanReport) AddFile(path, relPath string, lines []ErrorLine) {
	if len(lines) == 0 {
		return
	}
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if r.Stats == nil {
		r.Stats = &ScanStatistics{}
	}

	r.index[relPath] = len(r.Files)
	r.Files = append(r.Files, &FileReport{
		Path:    path,
		RelPath: relPath,
		Errors:  lines,
	})
	r.Stats.TotalErrors += len(lines)
}

// Lookup returns the error lines recorded for a relative path
func (r *ScanReport) Lookup(relPath string) ([]ErrorLine, bool) {
	if r.index == nil {
		for _, f := range r.Files {
			if f.RelPath == relPath {
				return f.Errors, true
			}
		}
		return nil, false
	}
	i, ok := r.index[relPath]
	if !ok {
		return nil, false
	}
	return r.Files[i].Errors, true
}

// HasErrors reports whether any error lines were found
func (r *ScanReport) HasErrors() bool {
	return r.Stats != nil && r.Stats.TotalErrors > 0
}
