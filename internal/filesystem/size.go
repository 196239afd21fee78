package filesystem

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseSize parses a size string to bytes. A bare K, M, G or T suffix
// ("650K", "1.5G") is binary; any other unit goes through humanize, so
// "10MB" is 10,000,000 and "1GiB" is 1,073,741,824. A plain number is bytes.
func ParseSize(sizeStr string) (int64, error) {
	s := strings.TrimSpace(sizeStr)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	// Single-letter suffixes are binary
	switch s[len(s)-1] {
	case 'K', 'k', 'M', 'm', 'G', 'g', 'T', 't':
		s += "iB"
	}

	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", sizeStr, err)
	}
	if size > math.MaxInt64 {
		return 0, fmt.Errorf("size %q is too large", sizeStr)
	}

	return int64(size), nil
}

// FormatSize renders a byte count with binary units ("1.0 GiB")
func FormatSize(size int64) string {
	if size < 0 {
		return fmt.Sprintf("%d B", size)
	}
	return humanize.IBytes(uint64(size))
}
