// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     parser
// Description: Nesting-aware scanning shared by the splitter and decoder
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package parser

// nesting tracks string state and bracket depth while scanning. Depths
// never drop below zero, so stray closers are harmless.
//
// With singleQuotes set, a ' opens a string only where a value starts:
// at the beginning of the input or after a ':' or '(' (blanks allowed in
// between). Elsewhere it is an apostrophe inside a bare word.
type nesting struct {
	singleQuotes bool

	quote   byte
	escaped bool
	brace   int
	bracket int
	paren   int
	prev    byte // last non-blank byte outside strings
}

// step feeds one byte and reports whether it sits at top level, outside
// any string or bracket.
func (n *nesting) step(c byte) bool {
	if n.quote != 0 {
		switch {
		case n.escaped:
			n.escaped = false
		case c == '\\':
			n.escaped = true
		case c == n.quote:
			n.quote = 0
			n.prev = c
		}
		return false
	}
	top := n.scan(c)
	if !isBlank(c) {
		n.prev = c
	}
	return top
}

func (n *nesting) scan(c byte) bool {
	switch c {
	case '"':
		n.quote = c
		return false
	case '\'':
		if n.singleQuotes && n.valueStart() {
			n.quote = c
			return false
		}
	case '{':
		n.brace++
		return false
	case '}':
		n.brace = dec(n.brace)
		return false
	case '[':
		n.bracket++
		return false
	case ']':
		n.bracket = dec(n.bracket)
		return false
	case '(':
		n.paren++
		return false
	case ')':
		n.paren = dec(n.paren)
		return false
	}
	return n.top()
}

func (n *nesting) valueStart() bool {
	return n.prev == 0 || n.prev == ':' || n.prev == '('
}

func (n *nesting) top() bool {
	return n.quote == 0 && n.brace == 0 && n.bracket == 0 && n.paren == 0
}

func (n *nesting) inString() bool {
	return n.quote != 0
}

func dec(v int) int {
	if v > 0 {
		return v - 1
	}
	return 0
}

// indexTopLevel returns the index of the first sep at top level, or -1
func indexTopLevel(s string, sep byte) int {
	n := nesting{singleQuotes: true}
	for i := 0; i < len(s); i++ {
		if n.step(s[i]) && s[i] == sep {
			return i
		}
	}
	return -1
}

// splitTopLevel splits s on every top-level sep
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	n := nesting{singleQuotes: true}
	start := 0
	for i := 0; i < len(s); i++ {
		if n.step(s[i]) && s[i] == sep {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
