// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Inline CSS declaration merge
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package mutator

import (
	"sort"
	"strings"

	"github.com/msto63/dashscript/internal/markup"
)

// Decl is one CSS declaration. An empty Value removes the property on merge.
type Decl struct {
	Prop  string
	Value string
}

// ParseDecls splits an inline style into declarations. Semicolons inside
// parentheses or quotes do not end a declaration.
func ParseDecls(style string) []Decl {
	var out []Decl
	depth := 0
	var quote byte
	start := 0
	flush := func(end int) {
		part := strings.TrimSpace(style[start:end])
		if part == "" {
			return
		}
		i := strings.IndexByte(part, ':')
		if i <= 0 {
			return
		}
		out = append(out, Decl{
			Prop:  strings.TrimSpace(part[:i]),
			Value: strings.TrimSpace(part[i+1:]),
		})
	}
	for i := 0; i < len(style); i++ {
		c := style[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ';' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(style))
	return out
}

// FormatDecls renders declarations the way the templates write them:
// "prop:value;" joined by single spaces.
func FormatDecls(decls []Decl) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Prop+":"+d.Value+";")
	}
	return strings.Join(parts, " ")
}

// MergeDecls overlays patch on base by property name. Existing properties
// keep their position, new ones are appended, empty values remove.
func MergeDecls(base, patch []Decl) []Decl {
	out := append([]Decl(nil), base...)
	for _, p := range patch {
		idx := -1
		for i, d := range out {
			if strings.EqualFold(d.Prop, p.Prop) {
				idx = i
				break
			}
		}
		switch {
		case idx >= 0 && p.Value == "":
			out = append(out[:idx], out[idx+1:]...)
		case idx >= 0:
			out[idx].Value = p.Value
		case p.Value != "":
			out = append(out, p)
		}
	}
	return out
}

// DeclsFromMap orders a style map by key so output is deterministic
func DeclsFromMap(m map[string]string) []Decl {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Decl, 0, len(keys))
	for _, k := range keys {
		out = append(out, Decl{Prop: k, Value: m[k]})
	}
	return out
}

// MergeInlineStyle merges decls into the style attribute of every node
// matching (tag, id).
func MergeInlineStyle(src, tag, id string, decls []Decl) (Result, error) {
	doc := markup.Parse(src)
	nodes := doc.Find(tag, id)
	if len(nodes) == 0 {
		return notFound(src), nil
	}
	var edits []markup.Edit
	for _, n := range nodes {
		edits = append(edits, styleEdits(src, n, decls)...)
	}
	return commit(src, Updated, len(nodes), edits)
}

func styleEdits(src string, n *markup.Node, decls []Decl) []markup.Edit {
	if len(decls) == 0 {
		return nil
	}
	ed := newTagEditor(src, n)
	current, _ := ed.value("style")
	merged := MergeDecls(ParseDecls(current), decls)
	if len(merged) == 0 {
		ed.remove("style")
	} else {
		ed.set("style", FormatDecls(merged))
	}
	return noopFree(src, ed.edits)
}
