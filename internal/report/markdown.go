package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/IvanShishkin/logwatch/pkg/models"
)

// generateMarkdown generates a Markdown report
func (g *Generator) generateMarkdown(report *models.ScanReport, outputFile string) error {
	var sb strings.Builder
	stats := report.Stats

	// Header
	sb.WriteString("# Logwatch Error Report\n\n")

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Scan ID | `%s` |\n", report.ScanID))
	sb.WriteString(fmt.Sprintf("| Scan Path | `%s` |\n", report.Root))
	sb.WriteString(fmt.Sprintf("| Start Time | %s |\n", report.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| Duration | %s |\n", FormatDuration(report.Duration)))
	sb.WriteString(fmt.Sprintf("| Total Files | %d |\n", stats.TotalFiles))
	sb.WriteString(fmt.Sprintf("| Processed Files | %d |\n", stats.ProcessedFiles))
	sb.WriteString(fmt.Sprintf("| Skipped Files | %d |\n", stats.SkippedFiles))
	sb.WriteString(fmt.Sprintf("| Large Files | %d |\n", stats.LargeFiles))
	sb.WriteString(fmt.Sprintf("| **Errors Found** | **%d** |\n", stats.TotalErrors))
	sb.WriteString("\n")

	if !report.HasErrors() {
		sb.WriteString("> ✅ **No errors found in processed files**\n\n")
		return os.WriteFile(outputFile, []byte(sb.String()), 0644)
	}

	sb.WriteString("## Errors by File\n\n")
	for _, file := range report.Files {
		sb.WriteString(fmt.Sprintf("### `%s` (%d %s)\n\n", file.RelPath, len(file.Errors), errorWord(len(file.Errors))))
		sb.WriteString("| Line | Time | Content |\n")
		sb.WriteString("|------|------|---------|\n")
		for _, entry := range file.Errors {
			sb.WriteString(fmt.Sprintf("| %d | %s | `%s` |\n", entry.LineNumber, entry.FormatTimestamp(), escapeMarkdownCell(entry.Content)))
		}
		sb.WriteString("\n")
	}

	if len(stats.FailedFiles) > 0 {
		sb.WriteString("## Skipped Files\n\n")
		for _, path := range stats.FailedFiles {
			sb.WriteString(fmt.Sprintf("- `%s`\n", path))
		}
		sb.WriteString("\n")
	}

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}

// escapeMarkdownCell keeps content inside a single table cell
func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "`", "'")
}
