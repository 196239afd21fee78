package filesystem

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SampleSize is the number of leading bytes inspected by content sniffing
const SampleSize = 512

const (
	maxNullRatio     = 0.01
	maxNonASCIIRatio = 0.30
)

// DefaultTextExtensions lists extensions that are always treated as text
var DefaultTextExtensions = []string{
	"log", "txt", "text", "err", "out", "output", "debug",
	"conf", "config", "cfg", "ini", "properties",
	"yml", "yaml", "json", "xml", "env",
	"md", "rst", "info",
}

var defaultClassifier = NewClassifier(nil)

// Classifier decides whether a path is a text file worth scanning
type Classifier struct {
	extensions map[string]bool
}

// NewClassifier creates a classifier with the default extensions plus extra.
// Extra extensions may be given with or without a leading dot.
func NewClassifier(extra []string) *Classifier {
	exts := make(map[string]bool, len(DefaultTextExtensions)+len(extra))
	for _, ext := range DefaultTextExtensions {
		exts[ext] = true
	}
	for _, ext := range extra {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts[ext] = true
		}
	}
	return &Classifier{extensions: exts}
}

// IsTextFile classifies path with the default extension list
func IsTextFile(path string) bool {
	return defaultClassifier.IsText(path)
}

// HasTextExtension reports whether the extension alone marks path as text
func (c *Classifier) HasTextExtension(path string) bool {
	ext := strings.ToLower(GetExtension(path))
	return ext != "" && c.extensions[ext]
}

// IsText returns true for known text extensions without reading the file,
// otherwise sniffs the first SampleSize bytes. Unreadable and empty files
// are not text.
func (c *Classifier) IsText(path string) bool {
	if c.HasTextExtension(path) {
		return true
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, SampleSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false
	}

	return LooksLikeText(buf[:n])
}

// LooksLikeText applies the null-byte and non-ASCII ratio heuristics to a sample
func LooksLikeText(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}

	var nulls, nonASCII int
	for _, b := range sample {
		if b == 0 {
			nulls++
		} else if b > 127 {
			nonASCII++
		}
	}

	size := float64(len(sample))
	return float64(nulls)/size < maxNullRatio &&
		float64(nonASCII)/size < maxNonASCIIRatio
}

// GetExtension returns the file extension without dot
func GetExtension(path string) string {
	ext := filepath.Ext(path)
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}
