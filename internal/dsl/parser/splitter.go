// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     parser
// Description: Script to statement splitting with line stamps
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

// Package parser turns command scripts into statements, calls and decoded
// argument objects. Nothing here knows about command kinds.
package parser

import (
	"strings"
)

// Statement is one command text cut from a script
type Statement struct {
	Text string
	// Line is the 1-based line of the first non-blank character
	Line int
	// Offset is the byte offset of that character in the script
	Offset int
}

// Split cuts script into statements on top-level semicolons. Line comments
// introduced by // outside strings are dropped. Split never fails:
// unbalanced input ends up in one trailing statement.
func Split(script string) []Statement {
	var (
		out    []Statement
		buf    strings.Builder
		n      = nesting{singleQuotes: true}
		line   = 1
		first  = -1
		fLine  = 0
		inLine = false // inside a // comment
	)

	flush := func() {
		text := strings.TrimSpace(buf.String())
		if text != "" {
			out = append(out, Statement{Text: text, Line: fLine, Offset: first})
		}
		buf.Reset()
		first = -1
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		if c == '\n' {
			line++
			inLine = false
			n.step(c)
			buf.WriteByte(c)
			continue
		}
		if inLine {
			continue
		}
		if !n.inString() && c == '/' && i+1 < len(script) && script[i+1] == '/' {
			inLine = true
			continue
		}

		top := n.step(c)
		if top && c == ';' {
			flush()
			continue
		}
		if first < 0 && !isBlank(c) {
			first = i
			fLine = line
		}
		buf.WriteByte(c)
	}
	flush()
	return out
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v'
}
