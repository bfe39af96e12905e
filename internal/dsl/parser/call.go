// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     parser
// Description: name(args) call splitting
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package parser

import (
	"strings"

	"github.com/msto63/dashscript/foundation/utils/stringx"
)

// Call is a statement split into its command name and raw argument text
type Call struct {
	Name string
	Args string
}

// ParseCall splits "name(args)". The closing parenthesis is matched with
// nesting and strings taken into account; only whitespace may follow it.
func ParseCall(stmt string) (Call, error) {
	s := strings.TrimSpace(stmt)
	end := 0
	for end < len(s) && isIdentChar(s[end], end == 0) {
		end++
	}
	if end == 0 {
		return Call{}, syntaxError("missing command name in %q", truncate(s))
	}
	name := s[:end]

	rest := strings.TrimLeft(s[end:], " \t\r\n")
	if rest == "" || rest[0] != '(' {
		return Call{Name: name}, syntaxError("expected '(' after %s", name)
	}

	n := nesting{singleQuotes: true}
	n.step('(')
	for i := 1; i < len(rest); i++ {
		n.step(rest[i])
		if !n.top() {
			continue
		}
		args := strings.TrimSpace(rest[1:i])
		if trailing := strings.TrimSpace(rest[i+1:]); trailing != "" {
			return Call{Name: name, Args: args}, syntaxError("unexpected text after ')' in %s: %q", name, truncate(trailing))
		}
		return Call{Name: name, Args: args}, nil
	}
	return Call{Name: name}, syntaxError("missing ')' in %s", name)
}

func isIdentChar(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

func truncate(s string) string {
	return stringx.Truncate(s, 40, "...")
}
