// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     markup
// Description: Attribute and text escaping
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package markup

import "strings"

var (
	attrEscaper       = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;")
	singleAttrEscaper = strings.NewReplacer("&", "&amp;", "'", "&#39;", "<", "&lt;")
	textEscaper       = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	unescaper         = strings.NewReplacer(
		"&quot;", `"`, "&#39;", "'", "&#x27;", "'", "&apos;", "'",
		"&lt;", "<", "&gt;", ">", "&amp;", "&",
	)
)

// Escape encodes a value for a double-quoted attribute
func Escape(s string) string {
	return attrEscaper.Replace(s)
}

// EscapeQuoted encodes a value for an attribute quoted with q
func EscapeQuoted(s string, q byte) string {
	if q == '\'' {
		return singleAttrEscaper.Replace(s)
	}
	return attrEscaper.Replace(s)
}

// EscapeText encodes element text content
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// Unescape reverses the entities produced by the escapers
func Unescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return unescaper.Replace(s)
}
