// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     markup
// Description: Lookup helpers over a parsed document
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package markup

import (
	"strings"

	"github.com/msto63/dashscript/foundation/utils/stringx"
)

// Find returns every node with the given tag whose id equals id. An empty id
// matches all nodes of the tag.
func (d *Document) Find(tag, id string) []*Node {
	tag = strings.ToLower(tag)
	var out []*Node
	for _, n := range d.Nodes {
		if n.Tag != tag {
			continue
		}
		if id != "" && n.ID() != id {
			continue
		}
		out = append(out, n)
	}
	return out
}

// First returns the first match of Find, or nil
func (d *Document) First(tag, id string) *Node {
	if m := d.Find(tag, id); len(m) > 0 {
		return m[0]
	}
	return nil
}

// FindAny returns the first node with the id among the tags, tried in order
func (d *Document) FindAny(id string, tags ...string) *Node {
	for _, t := range tags {
		if n := d.First(t, id); n != nil {
			return n
		}
	}
	return nil
}

// Root returns the well-formed dashboard node, or nil
func (d *Document) Root() *Node {
	return d.First("dashboard", "")
}

// UnclosedRoot returns a dashboard open tag that never got its close tag
func (d *Document) UnclosedRoot() *Node {
	for _, n := range d.Unclosed {
		if n.Tag == "dashboard" {
			return n
		}
	}
	return nil
}

// Top returns the synthetic node holding the top-level elements
func (d *Document) Top() *Node {
	return d.root
}

// Outer returns the full text of n
func (d *Document) Outer(n *Node) string {
	return d.Source[n.Start:n.End]
}

// Inner returns the text between n's open and close tags
func (d *Document) Inner(n *Node) string {
	return d.Source[n.InnerStart:n.InnerEnd]
}

// Indent returns the leading whitespace of the line n starts on, or "" when
// other text precedes the node on that line.
func (d *Document) Indent(n *Node) string {
	return stringx.LeadingIndent(d.Source, n.Start)
}

// LineIndent returns the leading whitespace of the line holding n, even when
// other text precedes the node.
func (d *Document) LineIndent(n *Node) string {
	ls := strings.LastIndexByte(d.Source[:n.Start], '\n') + 1
	e := ls
	for e < n.Start && (d.Source[e] == ' ' || d.Source[e] == '\t') {
		e++
	}
	return d.Source[ls:e]
}
