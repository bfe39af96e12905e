// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Namespaced token merge for class-like attributes
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package mutator

import (
	"strings"

	"github.com/msto63/dashscript/internal/markup"
)

// tokenPrefix returns the namespace of a token: everything before its last
// colon. "kpi:unit:R$" lives in "kpi:unit", "bg:red" in "bg".
func tokenPrefix(tok string) string {
	if i := strings.LastIndexByte(tok, ':'); i > 0 {
		return tok[:i]
	}
	return ""
}

// MergeTokenString merges incoming tokens into existing. A prefixed token
// replaces the first token sharing its prefix and drops later ones; a plain
// token is added when missing. Order of existing tokens is kept.
func MergeTokenString(existing, incoming string) string {
	out := strings.Fields(existing)
	for _, tok := range strings.Fields(incoming) {
		prefix := tokenPrefix(tok)
		if prefix == "" {
			if !containsToken(out, tok) {
				out = append(out, tok)
			}
			continue
		}
		replaced := false
		kept := out[:0]
		for _, cur := range out {
			if tokenPrefix(cur) != prefix {
				kept = append(kept, cur)
				continue
			}
			if !replaced {
				kept = append(kept, tok)
				replaced = true
			}
		}
		out = kept
		if !replaced {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}

// ReplaceToken swaps old for repl in a token list, appending repl when old
// is absent.
func ReplaceToken(existing, old, repl string) string {
	toks := strings.Fields(existing)
	for i, t := range toks {
		if t == old {
			toks[i] = repl
			return strings.Join(dedupeTokens(toks), " ")
		}
	}
	if !containsToken(toks, repl) {
		toks = append(toks, repl)
	}
	return strings.Join(toks, " ")
}

// MergeTokens merges tokens into attr on every node matching (tag, id)
func MergeTokens(src, tag, id, attr, tokens string) (Result, error) {
	doc := markup.Parse(src)
	nodes := doc.Find(tag, id)
	if len(nodes) == 0 {
		return notFound(src), nil
	}
	var edits []markup.Edit
	for _, n := range nodes {
		edits = append(edits, tokenEdits(src, n, attr, tokens)...)
	}
	return commit(src, Updated, len(nodes), edits)
}

func tokenEdits(src string, n *markup.Node, attr, tokens string) []markup.Edit {
	ed := newTagEditor(src, n)
	current, _ := ed.value(attr)
	ed.set(attr, MergeTokenString(current, tokens))
	return noopFree(src, ed.edits)
}

func containsToken(toks []string, tok string) bool {
	for _, t := range toks {
		if t == tok {
			return true
		}
	}
	return false
}

func dedupeTokens(toks []string) []string {
	seen := make(map[string]bool, len(toks))
	out := toks[:0]
	for _, t := range toks {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
