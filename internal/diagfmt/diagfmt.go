// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     diagfmt
// Description: Human-readable rendering of compile errors and run diagnostics
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package diagfmt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/msto63/dashscript/foundation/utils/stringx"
	"github.com/msto63/dashscript/internal/dsl/compiler"
	"github.com/msto63/dashscript/internal/dsl/executor"
)

// ColorMode selects when output is colorized
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseColorMode accepts auto, on/always and off/never
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "on", "always":
		return ColorOn, nil
	case "off", "never":
		return ColorOff, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, on or off)", s)
}

// UseColor resolves mode for f. Auto colors terminals unless NO_COLOR is set.
func UseColor(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorOn:
		return true
	case ColorOff:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// PrettyOpts configures a Printer
type PrettyOpts struct {
	Color bool
	// Path labels compile errors; empty prints "script"
	Path string
	// Width truncates echoed source lines; 0 means no limit
	Width int
}

// Printer writes diagnostics to w
type Printer struct {
	w    io.Writer
	opts PrettyOpts

	errColor  *color.Color
	okColor   *color.Color
	codeColor *color.Color
	dimColor  *color.Color
}

// New creates a printer
func New(w io.Writer, opts PrettyOpts) *Printer {
	p := &Printer{
		w:         w,
		opts:      opts,
		errColor:  color.New(color.FgRed, color.Bold),
		okColor:   color.New(color.FgGreen),
		codeColor: color.New(color.FgYellow),
		dimColor:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.errColor, p.okColor, p.codeColor, p.dimColor} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// CompileErrors prints one block per error:
//
//	script:2: error DSL_UNKNOWN_COMMAND: unknown command 'nope'
//	   2 | nope()
//
// script is the compiled source, used to echo the failing line.
func (p *Printer) CompileErrors(script string, errs []compiler.CompileError) {
	lines := stringx.SplitLines(script)
	path := stringx.FirstNonBlank(p.opts.Path, "script")
	for _, e := range errs {
		fmt.Fprintf(p.w, "%s:%d: %s %s: %s\n",
			path, e.Line, p.errColor.Sprint("error"), p.codeColor.Sprint(string(e.Code)), e.Message)
		if e.Line >= 1 && e.Line <= len(lines) {
			src := strings.TrimRight(lines[e.Line-1], " \t\r")
			if p.opts.Width > 0 {
				src = stringx.Truncate(src, p.opts.Width, "...")
			}
			fmt.Fprintf(p.w, "%s %s\n", p.dimColor.Sprintf("%4d |", e.Line), src)
		}
	}
	if n := len(errs); n > 0 {
		fmt.Fprintf(p.w, "%s\n", p.errColor.Sprintf("%d error%s; nothing was applied", n, plural(n)))
	}
}

// Diagnostics prints one line per command outcome followed by a summary
func (p *Printer) Diagnostics(diags []executor.Diagnostic) {
	failed := 0
	for _, d := range diags {
		mark := p.okColor.Sprint("ok  ")
		if !d.OK {
			mark = p.errColor.Sprint("FAIL")
			failed++
		}
		where := p.dimColor.Sprintf("line %d", d.Line)
		if d.Command != "" {
			where += " " + p.codeColor.Sprint(d.Command)
		}
		fmt.Fprintf(p.w, "%s %s: %s\n", mark, where, d.Message)
	}
	summary := fmt.Sprintf("%d command%s, %d failed", len(diags), plural(len(diags)), failed)
	if failed > 0 {
		fmt.Fprintln(p.w, p.errColor.Sprint(summary))
		return
	}
	fmt.Fprintln(p.w, p.okColor.Sprint(summary))
}

// Error prints a single error line
func (p *Printer) Error(err error) {
	fmt.Fprintf(p.w, "%s %s\n", p.errColor.Sprint("error:"), err)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
