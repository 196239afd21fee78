package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/IvanShishkin/logwatch/internal/core"
	"github.com/fatih/color"
)

// printHeader prints the startup banner
func printHeader(w io.Writer, now time.Time) {
	title := color.New(color.FgGreen, color.Bold)
	label := color.New(color.FgCyan)

	fmt.Fprintln(w)
	title.Fprintln(w, "Logwatch - Log Monitor")
	color.New(color.FgGreen).Fprintln(w, strings.Repeat("=", 22))
	fmt.Fprintf(w, "%s %s\n", label.Sprint("Version:"), version)
	fmt.Fprintf(w, "%s %s\n", label.Sprint("Time:"), now.Format("2006-01-02 15:04:05"))
}

// printPrivilegeWarning tells unprivileged users that some paths may be unreadable
func printPrivilegeWarning(w io.Writer) {
	fmt.Fprintf(w, "\n%s This tool is not running with root privileges.\n", color.New(color.FgYellow, color.Bold).Sprint("Warning:"))
	fmt.Fprintf(w, "%s Some directories may not be accessible. Run with sudo for full access.\n\n", strings.Repeat(" ", 8))
}

// printCandidates prints the numbered file list relative to root
func printCandidates(w io.Writer, root string, files []string) {
	fmt.Fprintln(w)
	color.New(color.FgCyan, color.Bold).Fprintln(w, "Files to be scanned:")
	for i, file := range files {
		fmt.Fprintf(w, "  %s %s %s\n",
			color.CyanString("└─"),
			color.BlueString("[%02d]", i+1),
			core.RelativePath(root, file))
	}
}

// warningPrinter writes non-fatal warnings as they occur. It is safe for
// concurrent use.
type warningPrinter struct {
	mu  sync.Mutex
	w   io.Writer
	n   int
	pre func()
}

func newWarningPrinter(w io.Writer) *warningPrinter {
	return &warningPrinter{w: w}
}

// beforeEach registers a hook run before every warning, e.g. to clear a
// progress bar line
func (p *warningPrinter) beforeEach(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pre = fn
}

func (p *warningPrinter) warn(path string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pre != nil {
		p.pre()
	}
	p.n++
	msg := err.Error()
	if path != "" && !strings.Contains(msg, path) {
		msg = path + ": " + msg
	}
	fmt.Fprintf(p.w, "%s %s\n", color.YellowString("⚠"), msg)
}

// count returns the number of warnings printed
func (p *warningPrinter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}
