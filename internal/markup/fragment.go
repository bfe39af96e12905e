// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     markup
// Description: Multi-line fragments rendered at an indentation level
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package markup

import "strings"

// IndentUnit is the indentation added for each nesting level
const IndentUnit = "  "

// Fragment is a piece of markup held as lines, relative to column zero
type Fragment []string

// Lines builds a fragment from the given lines
func Lines(lines ...string) Fragment {
	return Fragment(lines)
}

// Nest returns f indented by one level
func (f Fragment) Nest() Fragment {
	out := make(Fragment, len(f))
	for i, l := range f {
		if l == "" {
			out[i] = l
			continue
		}
		out[i] = IndentUnit + l
	}
	return out
}

// Wrap places the fragment between an open and a close line
func (f Fragment) Wrap(open, close string) Fragment {
	out := make(Fragment, 0, len(f)+2)
	out = append(out, open)
	out = append(out, f.Nest()...)
	return append(out, close)
}

// Render joins the lines so that the first line continues wherever it is
// inserted and the following lines start at indent.
func (f Fragment) Render(indent string) string {
	var b strings.Builder
	for i, l := range f {
		if i > 0 {
			b.WriteByte('\n')
			if l != "" {
				b.WriteString(indent)
			}
		}
		b.WriteString(l)
	}
	return b.String()
}
