// Package diagnostics renders errcode.List diagnostics for a terminal,
// colorized the way the teacher's REPL colors its own output.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/vela-lang/vela/internal/errcode"
)

var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

// Print renders every error in errs to out, one per line, in source order.
func Print(out io.Writer, errs errcode.List) {
	for _, e := range errs {
		PrintOne(out, e)
	}
}

// PrintOne renders a single diagnostic: its span, kind, and message, plus
// any Info entries as a dim trailer.
func PrintOne(out io.Writer, e *errcode.Error) {
	fmt.Fprintf(out, "%s %s: %s\n", red(e.Span.String()), yellow(string(e.Kind)), e.Message)
	for k, v := range e.Info {
		fmt.Fprintf(out, "  %s %s = %v\n", dim("note:"), cyan(k), v)
	}
}

// Summary prints a one-line count, colored green for a clean pass and red
// otherwise.
func Summary(out io.Writer, errs errcode.List) {
	if len(errs) == 0 {
		fmt.Fprintln(out, green("no errors"))
		return
	}
	fmt.Fprintln(out, red(fmt.Sprintf("%d error(s)", len(errs))))
}
