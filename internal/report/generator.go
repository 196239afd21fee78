package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/logwatch/internal/config"
	"github.com/IvanShishkin/logwatch/pkg/models"
	"go.uber.org/zap"
)

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		// Milliseconds
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		// Seconds
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		// Minutes and seconds
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	// Hours, minutes and seconds
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// Generator generates scan reports in various formats
type Generator struct {
	config *config.Config
	logger *zap.Logger
	out    io.Writer
	now    func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("report generator requires a config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		config: cfg,
		logger: logger,
		out:    os.Stdout,
		now:    time.Now,
	}, nil
}

// SetOutput redirects console output
func (g *Generator) SetOutput(w io.Writer) {
	g.out = w
}

// Generate prints the report to the console, or writes it to a file when a
// report format is configured. It returns the absolute path of the written
// file, or "" for console output.
func (g *Generator) Generate(report *models.ScanReport) (string, error) {
	format := normalizeFormat(g.config.ReportFormat)
	outputFile := g.config.OutputFile

	// If no format specified, print to console
	if format == "" {
		g.printConsole(report)
		return "", nil
	}

	// Generate default filename if not specified
	if outputFile == "" {
		name, err := defaultFileName(format, g.now())
		if err != nil {
			return "", err
		}
		outputFile = name
	}

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile))

	var err error
	switch format {
	case "json":
		err = g.generateJSON(report, outputFile)
	case "text":
		err = g.generateText(report, outputFile)
	case "md":
		err = g.generateMarkdown(report, outputFile)
	case "yaml":
		err = g.generateYAML(report, outputFile)
	default:
		err = fmt.Errorf("unknown report format: %s", format)
	}

	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	// Get absolute path
	absPath, err := filepath.Abs(outputFile)
	if err != nil {
		absPath = outputFile
	}
	report.ReportPath = absPath
	return absPath, nil
}

// normalizeFormat folds format aliases
func normalizeFormat(format string) string {
	switch format {
	case "txt", "text":
		return "text"
	case "md", "markdown":
		return "md"
	case "yaml", "yml":
		return "yaml"
	default:
		return format
	}
}

// defaultFileName returns LOGWATCH-REPORT-<timestamp>.<ext>
func defaultFileName(format string, now time.Time) (string, error) {
	timestamp := now.Format("20060102-150405")
	var ext string
	switch format {
	case "json":
		ext = "json"
	case "text":
		ext = "txt"
	case "md":
		ext = "md"
	case "yaml":
		ext = "yaml"
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}
	return fmt.Sprintf("LOGWATCH-REPORT-%s.%s", timestamp, ext), nil
}

// errorWord pluralizes "error"
func errorWord(n int) string {
	if n == 1 {
		return "error"
	}
	return "errors"
}
