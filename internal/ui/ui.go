// Package ui provides the terminal output sink used by Grove commands
// and tasks. All user-visible output goes through a Printer so that
// progress lines, summaries and error reports stay consistently styled
// and never interleave.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
)

// maxProgressWidth bounds single-line progress updates so that an erase +
// rewrite never wraps onto a second terminal row.
const maxProgressWidth = 100

var (
	greenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	redStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	boldStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// Green renders s in green. Lipgloss downgrades the styling automatically
// when the output profile does not support color.
func Green(s string) string { return greenStyle.Render(s) }

// Red renders s in red.
func Red(s string) string { return redStyle.Render(s) }

// Bold renders s in bold.
func Bold(s string) string { return boldStyle.Render(s) }

// Dim renders s faint.
func Dim(s string) string { return dimStyle.Render(s) }

// Truncate shortens s to maxWidth visual columns, appending "..." when
// truncated. ANSI escape sequences are preserved and do not count toward
// the width.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// Printer writes informational messages to stdout and errors to stderr.
// Progress animation (carriage returns and line erasing) is only used
// when stdout is a terminal.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	animate bool
}

// New creates a Printer bound to os.Stdout and os.Stderr.
func New() *Printer {
	return &Printer{
		out:     os.Stdout,
		errOut:  os.Stderr,
		animate: isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// NewWithWriters creates a Printer with explicit writers. Tests use this
// to capture output; animate controls carriage-return progress updates.
func NewWithWriters(out, errOut io.Writer, animate bool) *Printer {
	return &Printer{out: out, errOut: errOut, animate: animate}
}

// Info prints a plain message line.
func (p *Printer) Info(args ...string) {
	fmt.Fprintln(p.out, strings.Join(args, " "))
}

// Info2 prints a second-level message line.
func (p *Printer) Info2(args ...string) {
	fmt.Fprintln(p.out, Green("=>"), strings.Join(args, " "))
}

// Info3 prints a third-level, indented message line.
func (p *Printer) Info3(args ...string) {
	fmt.Fprintln(p.out, Green("  *"), strings.Join(args, " "))
}

// InfoCount prints a newline-terminated counted message, e.g. "(2/5) msg".
// The displayed index is one-based.
func (p *Printer) InfoCount(index, count int, args ...string) {
	fmt.Fprintf(p.out, "%s %s\n", counter(index, count), strings.Join(args, " "))
}

// Progress rewrites the current terminal line with a counted message,
// leaving the cursor at the start of the line so the next update can
// overwrite it. Without a terminal it degrades to a plain line.
func (p *Printer) Progress(index, count int, msg string) {
	line := fmt.Sprintf("%s %s", counter(index, count), msg)
	if !p.animate {
		fmt.Fprintln(p.out, line)
		return
	}
	p.EraseLine()
	fmt.Fprintf(p.out, "%s\r", Truncate(line, maxProgressWidth))
}

// EraseLine clears the current terminal line. No-op without a terminal.
func (p *Printer) EraseLine() {
	if !p.animate {
		return
	}
	fmt.Fprint(p.out, "\r\x1b[2K")
}

// NewLine terminates the current progress line.
func (p *Printer) NewLine() {
	fmt.Fprintln(p.out)
}

// Error prints an error headline to the error stream.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.errOut, Red("Error:"), msg)
}

// ErrorItem prints a single red-bulleted item failure to the error stream,
// formatted as "* <item> : <message>".
func (p *Printer) ErrorItem(item string, err error) {
	fmt.Fprintln(p.errOut, Red("*"), item, ":", err.Error())
}

func counter(index, count int) string {
	return fmt.Sprintf("(%d/%d)", index+1, count)
}
