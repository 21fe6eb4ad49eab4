// Package report renders a diagnostics bag as the one-line-per-problem
// text a terminal or CI log expects.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/Componolit/RecordFlux/internal/diag"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorReset  = "\x1b[0m"
)

// Write renders every diagnostic in b to w, one line each, colour-coded
// by severity when w is a terminal.
func Write(w io.Writer, b *diag.Bag) {
	colorize := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, d := range b.Diagnostics() {
		var line string
		if loc := d.Location.String(); loc != "" {
			line = fmt.Sprintf("%s: %s: %s: %s", loc, d.Subsystem, d.Severity, d.Message)
		} else {
			line = fmt.Sprintf("%s: %s: %s", d.Subsystem, d.Severity, d.Message)
		}
		if colorize {
			line = colorFor(d.Severity) + line + colorReset
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, Summary(b))
}

func colorFor(s diag.Severity) string {
	switch s {
	case diag.Error:
		return colorRed
	case diag.Warning:
		return colorYellow
	default:
		return colorBlue
	}
}

// Summary produces a "3 errors, 1 warning" style closing line.
func Summary(b *diag.Bag) string {
	var errs, warns, infos int
	for _, d := range b.Diagnostics() {
		switch d.Severity {
		case diag.Error:
			errs++
		case diag.Warning:
			warns++
		default:
			infos++
		}
	}
	if errs == 0 && warns == 0 && infos == 0 {
		return "no diagnostics"
	}
	parts := []string{}
	if errs > 0 {
		parts = append(parts, humanize.Comma(int64(errs))+" "+plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, humanize.Comma(int64(warns))+" "+plural(warns, "warning"))
	}
	if infos > 0 {
		parts = append(parts, humanize.Comma(int64(infos))+" "+plural(infos, "note"))
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
