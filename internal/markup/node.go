// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     markup
// Description: Node model for dashboard documents with byte-accurate spans
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package markup

import "strings"

// Attr is one attribute of an open tag. Offsets index the document source.
type Attr struct {
	Name string
	Raw  string // value as written, still escaped
	// Quote is '"', '\'' or 0 for bare and valueless attributes
	Quote byte

	Start      int // first byte of the name
	End        int // one past the closing quote or value
	ValueStart int // -1 when the attribute has no value
	ValueEnd   int
}

// Value returns the unescaped attribute value
func (a Attr) Value() string {
	return Unescape(a.Raw)
}

// Node is a known-tag element. Offsets index the document source.
type Node struct {
	Tag  string // lower-case tag name
	Name string // tag name as written

	Attrs       []Attr
	SelfClosing bool

	Start      int // '<' of the open tag
	AttrEnd    int // one past the last attribute, or past the tag name
	OpenEnd    int // one past '>' of the open tag
	InnerStart int
	InnerEnd   int
	End        int // one past '>' of the close tag, or OpenEnd when self-closing

	Parent   *Node
	Children []*Node
}

// Attr looks up an attribute by name, case-insensitively
func (n *Node) Attr(name string) (Attr, bool) {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attr{}, false
}

// AttrValue returns the unescaped value of an attribute, or ""
func (n *Node) AttrValue(name string) string {
	a, ok := n.Attr(name)
	if !ok {
		return ""
	}
	return a.Value()
}

// ID returns the value of the id attribute
func (n *Node) ID() string {
	return n.AttrValue("id")
}

// Child returns the first direct child with the given tag
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Descendant returns the first node below n with the given tag, depth-first
func (n *Node) Descendant(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
		if d := c.Descendant(tag); d != nil {
			return d
		}
	}
	return nil
}

// Contains reports whether other lies inside n's span
func (n *Node) Contains(other *Node) bool {
	return other.Start >= n.Start && other.End <= n.End
}

func (n *Node) walk(fn func(*Node)) {
	for _, c := range n.Children {
		fn(c)
		c.walk(fn)
	}
}

// DefaultTags is the set of tags the engine addresses
var DefaultTags = []string{
	"dashboard", "header", "group", "section", "kpi", "chart",
	"article", "query", "datasource", "styling", "style", "config",
}

// rawTextTags hold content that is never scanned for tags
var rawTextTags = map[string]bool{
	"style":  true,
	"config": true,
	"query":  true,
}
