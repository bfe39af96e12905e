// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Attribute set/remove on open tags
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package mutator

import (
	"strings"

	"github.com/msto63/dashscript/internal/markup"
)

// AttrChange sets or removes one attribute
type AttrChange struct {
	Name   string
	Value  string
	Remove bool
}

// Set returns a change that writes name="value"
func Set(name, value string) AttrChange {
	return AttrChange{Name: name, Value: value}
}

// Unset returns a change that drops name
func Unset(name string) AttrChange {
	return AttrChange{Name: name, Remove: true}
}

// tagEditor collects non-overlapping edits to one node's open tag. Touching
// the same attribute twice keeps only the latest change.
type tagEditor struct {
	src     string
	node    *markup.Node
	edits   []markup.Edit
	touched map[string]int
}

func newTagEditor(src string, n *markup.Node) *tagEditor {
	return &tagEditor{src: src, node: n, touched: map[string]int{}}
}

func (e *tagEditor) put(name string, edit markup.Edit) {
	key := strings.ToLower(name)
	if idx, ok := e.touched[key]; ok {
		e.edits[idx] = edit
		return
	}
	e.touched[key] = len(e.edits)
	e.edits = append(e.edits, edit)
}

func (e *tagEditor) apply(c AttrChange) {
	if c.Remove {
		e.remove(c.Name)
		return
	}
	e.set(c.Name, c.Value)
}

func (e *tagEditor) set(name, value string) {
	a, ok := e.node.Attr(name)
	if !ok {
		e.put(name, markup.Insert(e.node.AttrEnd, " "+name+`="`+markup.Escape(value)+`"`))
		return
	}
	if a.Quote != 0 {
		e.put(name, markup.Replace(a.ValueStart, a.ValueEnd, markup.EscapeQuoted(value, a.Quote)))
		return
	}
	// Bare and valueless attributes get quoted
	e.put(name, markup.Replace(a.Start, a.End, a.Name+`="`+markup.Escape(value)+`"`))
}

func (e *tagEditor) remove(name string) {
	a, ok := e.node.Attr(name)
	if !ok {
		return
	}
	start := a.Start
	for start > 0 && isSpace(e.src[start-1]) {
		start--
	}
	e.put(name, markup.Delete(start, a.End))
}

// value reads the attribute as parsed, ignoring pending changes
func (e *tagEditor) value(name string) (string, bool) {
	a, ok := e.node.Attr(name)
	if !ok {
		return "", false
	}
	return a.Value(), true
}

// SetAttribute writes name="value" on every node matching (tag, id). Only
// the value bytes of an existing attribute change.
func SetAttribute(src, tag, id, name, value string) (Result, error) {
	return SetAttributes(src, tag, id, Set(name, value))
}

// RemoveAttribute drops name, with its leading whitespace, from every match
func RemoveAttribute(src, tag, id, name string) (Result, error) {
	return SetAttributes(src, tag, id, Unset(name))
}

// SetAttributes applies changes to every node matching (tag, id)
func SetAttributes(src, tag, id string, changes ...AttrChange) (Result, error) {
	doc := markup.Parse(src)
	nodes := doc.Find(tag, id)
	if len(nodes) == 0 {
		return notFound(src), nil
	}
	var edits []markup.Edit
	for _, n := range nodes {
		edits = append(edits, attrEdits(src, n, changes)...)
	}
	return commit(src, Updated, len(nodes), edits)
}

// SetDashboardAttrs applies changes to the root dashboard tag, closed or not
func SetDashboardAttrs(src string, changes ...AttrChange) (Result, error) {
	doc := markup.Parse(src)
	root := doc.Root()
	if root == nil {
		root = doc.UnclosedRoot()
	}
	if root == nil {
		return notFound(src), nil
	}
	return commit(src, Updated, 1, attrEdits(src, root, changes))
}

// DateRangeChanges maps a dashboard date range onto root attributes. A
// custom range carries its bounds; a named range drops them.
func DateRangeChanges(typ, start, end string) []AttrChange {
	if typ == "custom" {
		out := []AttrChange{Set("date-type", "custom")}
		if start != "" {
			out = append(out, Set("date-start", start))
		}
		if end != "" {
			out = append(out, Set("date-end", end))
		}
		return out
	}
	return []AttrChange{Set("date-type", typ), Unset("date-start"), Unset("date-end")}
}

func attrEdits(src string, n *markup.Node, changes []AttrChange) []markup.Edit {
	ed := newTagEditor(src, n)
	for _, c := range changes {
		ed.apply(c)
	}
	return noopFree(src, ed.edits)
}

// noopFree drops edits that would rewrite a span with identical bytes
func noopFree(src string, edits []markup.Edit) []markup.Edit {
	out := edits[:0:0]
	for _, e := range edits {
		if e.Start != e.End && src[e.Start:e.End] == e.Text {
			continue
		}
		out = append(out, e)
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
