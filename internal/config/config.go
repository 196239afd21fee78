package config

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/IvanShishkin/logwatch/internal/filesystem"
	"github.com/IvanShishkin/logwatch/internal/scanner"
	"github.com/spf13/viper"
)

// DefaultPath is the scan root offered when none is given
const DefaultPath = "/var/log"

// ReportFormats lists the accepted report_format values ("" prints to console)
var ReportFormats = []string{"text", "txt", "json", "md", "markdown", "yaml", "yml"}

// Config represents the logwatch configuration
type Config struct {
	// Scan settings
	Path       string        `mapstructure:"path"`        // directory to scan
	Workers    int           `mapstructure:"workers"`     // number of worker goroutines
	Timeout    time.Duration `mapstructure:"timeout"`     // per-file time budget
	MaxSize    string        `mapstructure:"max_size"`    // files above this size are skipped
	LargeSize  string        `mapstructure:"large_size"`  // files above this size are flagged as large
	BufferSize string        `mapstructure:"buffer_size"` // read buffer per file
	Extensions []string      `mapstructure:"extensions"`  // extra text file extensions

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // text, json, md, yaml; empty for console
	OutputFile   string `mapstructure:"output_file"`   // output file path

	// Interaction
	AssumeYes bool `mapstructure:"assume_yes"` // skip the confirmation prompt
	NoColor   bool `mapstructure:"no_color"`   // disable colored output
}

// LoadConfig loads configuration from defaults, an optional config file and
// environment variables (LOGWATCH_*)
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("path", DefaultPath)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("timeout", "30s")
	v.SetDefault("max_size", "1G")
	v.SetDefault("large_size", "100000000")
	v.SetDefault("buffer_size", "128K")
	v.SetDefault("extensions", []string{})
	v.SetDefault("report_format", "")
	v.SetDefault("output_file", "")
	v.SetDefault("assume_yes", false)
	v.SetDefault("no_color", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	// Read environment variables
	v.SetEnvPrefix("LOGWATCH")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

// Validate checks limits and formats
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive (got: %d)", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive (got: %s)", c.Timeout)
	}

	maxSize, err := filesystem.ParseSize(c.MaxSize)
	if err != nil {
		return fmt.Errorf("invalid max_size: %w", err)
	}
	if maxSize <= 0 {
		return fmt.Errorf("max_size must be positive (got: %s)", c.MaxSize)
	}
	largeSize, err := filesystem.ParseSize(c.LargeSize)
	if err != nil {
		return fmt.Errorf("invalid large_size: %w", err)
	}
	if largeSize <= 0 {
		return fmt.Errorf("large_size must be positive (got: %s)", c.LargeSize)
	}
	if largeSize > maxSize {
		return fmt.Errorf("large_size (%s) must not exceed max_size (%s)", c.LargeSize, c.MaxSize)
	}
	bufferSize, err := filesystem.ParseSize(c.BufferSize)
	if err != nil {
		return fmt.Errorf("invalid buffer_size: %w", err)
	}
	if bufferSize <= 0 || bufferSize > math.MaxInt32 {
		return fmt.Errorf("buffer_size out of range (got: %s)", c.BufferSize)
	}

	if c.ReportFormat != "" && !IsReportFormat(c.ReportFormat) {
		return fmt.Errorf("report_format must be one of: %s (got: %s)", strings.Join(ReportFormats, ", "), c.ReportFormat)
	}

	return nil
}

// MaxSizeBytes returns max_size in bytes, or 0 if it does not parse.
// Call Validate first to get the parse error.
func (c *Config) MaxSizeBytes() int64 {
	return sizeOrZero(c.MaxSize)
}

// LargeSizeBytes returns large_size in bytes, or 0 if it does not parse
func (c *Config) LargeSizeBytes() int64 {
	return sizeOrZero(c.LargeSize)
}

// BufferSizeBytes returns buffer_size in bytes, or 0 if it does not parse
func (c *Config) BufferSizeBytes() int {
	return int(sizeOrZero(c.BufferSize))
}

func sizeOrZero(s string) int64 {
	size, err := filesystem.ParseSize(s)
	if err != nil {
		return 0
	}
	return size
}

// ScanLimits converts the size and time settings into scanner limits
func (c *Config) ScanLimits() scanner.Limits {
	return scanner.Limits{
		Timeout:       c.Timeout,
		MaxFileSize:   c.MaxSizeBytes(),
		LargeFileSize: c.LargeSizeBytes(),
		BufferSize:    c.BufferSizeBytes(),
	}
}

// IsReportFormat checks if format is a supported report format
func IsReportFormat(format string) bool {
	for _, f := range ReportFormats {
		if f == format {
			return true
		}
	}
	return false
}
