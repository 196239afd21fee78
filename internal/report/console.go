package report

import (
	"fmt"
	"strings"

	"github.com/IvanShishkin/logwatch/pkg/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	accent  = lipgloss.Color("#06B6D4") // cyan
	success = lipgloss.Color("#22C55E") // green
	warning = lipgloss.Color("#F59E0B") // amber
	dim     = lipgloss.Color("#6B7280") // muted gray
)

type consoleStyles struct {
	title   lipgloss.Style
	box     lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	clean   lipgloss.Style
	heading lipgloss.Style
}

func newConsoleStyles(noColor bool) consoleStyles {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)

	if noColor {
		plain := lipgloss.NewStyle()
		return consoleStyles{
			title:   plain,
			box:     box,
			label:   plain,
			value:   plain,
			clean:   plain,
			heading: plain,
		}
	}

	return consoleStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		box:     box.BorderForeground(dim),
		label:   lipgloss.NewStyle().Foreground(dim),
		value:   lipgloss.NewStyle().Bold(true).Foreground(warning),
		clean:   lipgloss.NewStyle().Bold(true).Foreground(success),
		heading: lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
}

// printConsole prints the error listing and the summary box
func (g *Generator) printConsole(report *models.ScanReport) {
	styles := newConsoleStyles(g.config.NoColor)
	out := g.out

	lineColor := color.New(color.FgYellow)
	timeColor := color.New(color.FgBlue)
	textColor := color.New(color.FgRed)
	branch := color.New(color.FgCyan)
	if g.config.NoColor {
		for _, c := range []*color.Color{lineColor, timeColor, textColor, branch} {
			c.DisableColor()
		}
	}

	fmt.Fprintln(out)
	if !report.HasErrors() {
		fmt.Fprintln(out, styles.clean.Render("✓ No errors found in processed files."))
	} else {
		fmt.Fprintln(out, styles.heading.Render("Errors Found:"))
		fmt.Fprintln(out, styles.heading.Render(strings.Repeat("=", 14)))

		for _, file := range report.Files {
			fmt.Fprintf(out, "\n%s (%d %s)\n",
				styles.title.Render(file.RelPath), len(file.Errors), errorWord(len(file.Errors)))

			for _, entry := range file.Errors {
				fmt.Fprintf(out, "  %s %s - [%s] %s\n",
					branch.Sprint("└─"),
					lineColor.Sprintf("Line %d", entry.LineNumber),
					timeColor.Sprint(entry.FormatTimestamp()),
					textColor.Sprint(entry.Content))
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, g.renderSummary(report, styles))
	fmt.Fprintln(out)
}

// renderSummary renders the scan statistics as a bordered box
func (g *Generator) renderSummary(report *models.ScanReport, styles consoleStyles) string {
	stats := report.Stats
	if stats == nil {
		stats = &models.ScanStatistics{}
	}

	rows := []struct {
		label string
		value string
	}{
		{"Scan time", FormatDuration(report.Duration)},
		{"Total files scanned", fmt.Sprintf("%d", stats.ProcessedFiles)},
		{"Total errors found", fmt.Sprintf("%d", stats.TotalErrors)},
		{"Files skipped", fmt.Sprintf("%d", stats.SkippedFiles)},
		{"Large files encountered", fmt.Sprintf("%d", stats.LargeFiles)},
	}

	lines := []string{styles.heading.Render("Scan Statistics")}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s",
			styles.label.Render(fmt.Sprintf("%-24s", row.label+":")),
			styles.value.Render(row.value)))
	}

	return styles.box.Render(strings.Join(lines, "\n"))
}
