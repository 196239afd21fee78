package models

import (
	"time"
)

// FileScan is the result of scanning a single file
type FileScan struct {
	Path    string      // Full file path
	Size    int64       // File size in bytes
	ModTime time.Time   // Modification time captured before reading
	Large   bool        // Size exceeded the large file threshold
	Lines   []ErrorLine // Matching lines in file order
}

// ErrorLine is a line whose lowercase form contains "error"
type ErrorLine struct {
	LineNumber int        `json:"line_number" yaml:"line_number"`
	Content    string     `json:"content" yaml:"content"`
	Timestamp  *time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// FormatTimestamp renders the timestamp in local time
func (l ErrorLine) FormatTimestamp() string {
	if l.Timestamp == nil {
		return "Unknown time"
	}
	return l.Timestamp.Local().Format("2006-01-02 15:04:05")
}
