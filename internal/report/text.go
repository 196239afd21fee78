package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/IvanShishkin/logwatch/pkg/models"
)

// generateText generates a text report
func (g *Generator) generateText(report *models.ScanReport, outputFile string) error {
	var sb strings.Builder
	stats := report.Stats

	// Header
	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("  LOGWATCH ERROR REPORT\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")

	// Summary
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Scan ID:          %s\n", report.ScanID))
	sb.WriteString(fmt.Sprintf("Scan Path:        %s\n", report.Root))
	sb.WriteString(fmt.Sprintf("Start Time:       %s\n", report.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("End Time:         %s\n", report.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(report.Duration)))
	sb.WriteString(fmt.Sprintf("Total Files:      %d\n", stats.TotalFiles))
	sb.WriteString(fmt.Sprintf("Processed Files:  %d\n", stats.ProcessedFiles))
	sb.WriteString(fmt.Sprintf("Skipped Files:    %d\n", stats.SkippedFiles))
	sb.WriteString(fmt.Sprintf("Large Files:      %d\n", stats.LargeFiles))
	sb.WriteString(fmt.Sprintf("ERRORS FOUND:     %d\n", stats.TotalErrors))
	sb.WriteString("\n")

	if report.HasErrors() {
		sb.WriteString("ERRORS BY FILE\n")
		sb.WriteString(strings.Repeat("=", 79) + "\n\n")

		for _, file := range report.Files {
			sb.WriteString(fmt.Sprintf("%s (%d %s)\n", file.RelPath, len(file.Errors), errorWord(len(file.Errors))))
			sb.WriteString(strings.Repeat("-", 79) + "\n")
			for _, entry := range file.Errors {
				sb.WriteString(fmt.Sprintf("  Line %d - [%s] %s\n", entry.LineNumber, entry.FormatTimestamp(), entry.Content))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No errors found in processed files.\n\n")
	}

	if len(stats.FailedFiles) > 0 {
		sb.WriteString("SKIPPED FILES\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, path := range stats.FailedFiles {
			sb.WriteString(fmt.Sprintf("  %s\n", path))
		}
		sb.WriteString("\n")
	}

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}
