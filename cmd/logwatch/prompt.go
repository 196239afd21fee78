package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/IvanShishkin/logwatch/internal/config"
	"github.com/IvanShishkin/logwatch/pkg/models"
	"github.com/fatih/color"
)

// maxAttempts bounds every interactive question
const maxAttempts = 3

// prompter asks questions on out and reads answers from in. Validation
// messages go to errOut.
type prompter struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func newPrompter(in io.Reader, out, errOut io.Writer) *prompter {
	return &prompter{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
}

// readLine returns the trimmed next line. A final line without newline is
// accepted; io.EOF is returned only when nothing was read.
func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// chooseDirectory offers the default log directory or a custom one
func (p *prompter) chooseDirectory() (string, error) {
	accent := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(p.out)
	accent.Fprintln(p.out, "Select scan location:")
	fmt.Fprintf(p.out, "  %s Default location (%s) %s\n", accent.Sprint("1."), config.DefaultPath, color.CyanString("(default)"))
	fmt.Fprintf(p.out, "  %s Custom directory\n", accent.Sprint("2."))

	for attempt := 0; attempt < maxAttempts; attempt++ {
		fmt.Fprint(p.out, "\nChoose an option (1/2, default: 1): ")
		choice, err := p.readLine()
		if err != nil {
			p.warnf("Failed to read input: %v", err)
			continue
		}

		switch choice {
		case "", "1":
			return config.DefaultPath, nil
		case "2":
			fmt.Fprint(p.out, "\nEnter directory path: ")
			path, err := p.readLine()
			if err != nil {
				p.warnf("Failed to read input: %v", err)
				continue
			}
			if err := checkDirectory(path); err != nil {
				if errors.Is(err, models.ErrNotFound) {
					p.failf("Directory does not exist")
				} else {
					p.failf("Path is not a directory")
				}
				continue
			}
			return path, nil
		default:
			p.warnf("Please enter 1 or 2")
		}
	}

	return "", models.NewError(models.KindInvalidInput, "", "maximum attempts exceeded while selecting directory", nil)
}

// confirm asks a [Y/n] question. An empty answer means yes.
func (p *prompter) confirm(question string) (bool, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		fmt.Fprintf(p.out, "\n%s (%s/%s, default: y) ", question, color.New(color.FgGreen, color.Bold).Sprint("Y"), color.New(color.FgRed, color.Bold).Sprint("n"))
		answer, err := p.readLine()
		if err != nil {
			p.warnf("Failed to read input: %v", err)
			continue
		}

		switch strings.ToLower(answer) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			p.warnf("Please enter 'y' or 'n'")
		}
	}

	return false, models.NewError(models.KindInvalidInput, "", "maximum input attempts exceeded", nil)
}

func (p *prompter) warnf(format string, args ...interface{}) {
	fmt.Fprintf(p.errOut, "%s %s\n", color.YellowString("⚠"), fmt.Sprintf(format, args...))
}

func (p *prompter) failf(format string, args ...interface{}) {
	fmt.Fprintf(p.errOut, "%s %s\n", color.RedString("✗"), fmt.Sprintf(format, args...))
}

// checkDirectory verifies that path exists and is a directory
func checkDirectory(path string) error {
	if path == "" {
		return models.NewError(models.KindInvalidInput, "", "empty directory path", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewError(models.KindNotFound, path, "directory does not exist", err)
		}
		return models.NewError(models.KindIO, path, "", err)
	}
	if !info.IsDir() {
		return models.NewError(models.KindInvalidInput, path, "path is not a directory", nil)
	}
	return nil
}
