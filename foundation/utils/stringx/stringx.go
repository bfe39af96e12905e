// File: stringx.go
// Title: String Utilities
// Description: Small string helpers shared by the command compiler, the
//              markup mutator and the CLI.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.2.0: Trimmed helper set, added CollapseNewlines and Indent

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank reports whether s is empty or only whitespace
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// FirstNonBlank returns the first argument that is not blank
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if !IsBlank(v) {
			return v
		}
	}
	return ""
}

// FromBlankDefault returns s, or def when s is blank
func FromBlankDefault(s, def string) string {
	if IsBlank(s) {
		return def
	}
	return s
}

// Truncate shortens s to maxLen runes, appending ellipsis when cut
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	keep := maxLen - utf8.RuneCountInString(ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + ellipsis
}

// SplitLines splits on \n, dropping a trailing \r from each line
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// CollapseNewlines replaces every run of more than max consecutive newlines
// with exactly max newlines.
func CollapseNewlines(s string, max int) string {
	if max < 1 || !strings.Contains(s, strings.Repeat("\n", max+1)) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	run := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			run++
			if run > max {
				continue
			}
		} else {
			run = 0
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// LeadingIndent returns the run of spaces and tabs that precedes offset on
// its line, provided nothing else sits between the line start and offset.
func LeadingIndent(s string, offset int) string {
	i := offset
	for i > 0 && (s[i-1] == ' ' || s[i-1] == '\t') {
		i--
	}
	if i == 0 || s[i-1] == '\n' {
		return s[i:offset]
	}
	return ""
}
