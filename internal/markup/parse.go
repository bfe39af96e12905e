// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     markup
// Description: Single-pass scanner that builds the known-tag node tree
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package markup

import (
	"strings"
)

// Document is a parsed view over a source text. It never owns a modified
// copy of the text: edits go through Apply and the result is parsed again.
type Document struct {
	Source string
	// Nodes lists every well-formed known-tag node in document order
	Nodes []*Node
	// Unclosed lists open tags that never got a close tag
	Unclosed []*Node

	root *Node
}

// Option configures Parse
type Option func(*parseConfig)

type parseConfig struct {
	tags map[string]bool
}

// WithTags replaces the set of recognised tags
func WithTags(tags ...string) Option {
	return func(c *parseConfig) {
		c.tags = make(map[string]bool, len(tags))
		for _, t := range tags {
			c.tags[strings.ToLower(t)] = true
		}
	}
}

// Parse scans src once and returns the node tree of recognised tags.
// Unknown tags, comments and text stay opaque. Parse never fails: malformed
// regions simply produce no nodes.
func Parse(src string, opts ...Option) *Document {
	cfg := parseConfig{}
	WithTags(DefaultTags...)(&cfg)
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &scanner{src: src, cfg: cfg}
	p.run()

	doc := &Document{Source: src, Unclosed: p.unclosed, root: p.root}
	p.root.walk(func(n *Node) { doc.Nodes = append(doc.Nodes, n) })
	return doc
}

// ParseRange parses src[start:end] and reports offsets relative to src
func ParseRange(src string, start, end int, opts ...Option) *Document {
	sub := Parse(src[start:end], opts...)
	shift := func(n *Node) {
		n.Start += start
		n.AttrEnd += start
		n.OpenEnd += start
		n.InnerStart += start
		n.InnerEnd += start
		n.End += start
		for i := range n.Attrs {
			n.Attrs[i].Start += start
			n.Attrs[i].End += start
			if n.Attrs[i].ValueStart >= 0 {
				n.Attrs[i].ValueStart += start
				n.Attrs[i].ValueEnd += start
			}
		}
	}
	for _, n := range sub.Nodes {
		shift(n)
	}
	for _, n := range sub.Unclosed {
		shift(n)
	}
	sub.Source = src
	return sub
}

type scanner struct {
	src      string
	cfg      parseConfig
	root     *Node
	stack    []*Node
	unclosed []*Node
}

func (p *scanner) top() *Node {
	return p.stack[len(p.stack)-1]
}

func (p *scanner) run() {
	p.root = &Node{End: len(p.src), InnerEnd: len(p.src)}
	p.stack = []*Node{p.root}

	src := p.src
	i := 0
	for i < len(src) {
		j := strings.IndexByte(src[i:], '<')
		if j < 0 {
			break
		}
		i += j

		switch {
		case strings.HasPrefix(src[i:], "<!--"):
			end := strings.Index(src[i+4:], "-->")
			if end < 0 {
				i = len(src)
				continue
			}
			i += 4 + end + 3
		case strings.HasPrefix(src[i:], "</"):
			i = p.closeTag(i)
		case i+1 < len(src) && isNameStart(src[i+1]):
			i = p.openTag(i)
		default:
			i++
		}
	}

	// Anything still open never saw its close tag
	for len(p.stack) > 1 {
		p.discard(p.top())
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *scanner) openTag(start int) int {
	src := p.src
	nameEnd := start + 1
	for nameEnd < len(src) && isNameChar(src[nameEnd]) {
		nameEnd++
	}
	name := src[start+1 : nameEnd]

	attrs, attrEnd, openEnd, selfClosing, ok := scanAttrs(src, nameEnd)
	if !ok {
		return start + 1
	}

	tag := strings.ToLower(name)
	if !p.cfg.tags[tag] {
		return openEnd
	}

	n := &Node{
		Tag:         tag,
		Name:        name,
		Attrs:       attrs,
		SelfClosing: selfClosing,
		Start:       start,
		AttrEnd:     attrEnd,
		OpenEnd:     openEnd,
		InnerStart:  openEnd,
		InnerEnd:    openEnd,
		End:         openEnd,
	}
	parent := p.top()
	n.Parent = parent
	parent.Children = append(parent.Children, n)

	if selfClosing {
		return openEnd
	}

	if rawTextTags[tag] {
		closeStart, closeEnd, found := findClose(src, openEnd, tag)
		if !found {
			p.discard(n)
			return openEnd
		}
		n.InnerEnd = closeStart
		n.End = closeEnd
		return closeEnd
	}

	p.stack = append(p.stack, n)
	return openEnd
}

func (p *scanner) closeTag(start int) int {
	src := p.src
	nameEnd := start + 2
	for nameEnd < len(src) && isNameChar(src[nameEnd]) {
		nameEnd++
	}
	gt := strings.IndexByte(src[nameEnd:], '>')
	if gt < 0 {
		return len(src)
	}
	end := nameEnd + gt + 1
	tag := strings.ToLower(src[start+2 : nameEnd])
	if !p.cfg.tags[tag] {
		return end
	}

	// Match the nearest open node with this tag; everything above it was
	// never closed.
	for k := len(p.stack) - 1; k > 0; k-- {
		if p.stack[k].Tag != tag {
			continue
		}
		for len(p.stack)-1 > k {
			p.discard(p.top())
			p.stack = p.stack[:len(p.stack)-1]
		}
		n := p.stack[k]
		n.InnerEnd = start
		n.End = end
		p.stack = p.stack[:k]
		return end
	}
	return end
}

// discard removes an unclosed node from the tree and hands its children to
// its parent in place.
func (p *scanner) discard(n *Node) {
	parent := n.Parent
	for idx, c := range parent.Children {
		if c != n {
			continue
		}
		kids := make([]*Node, 0, len(parent.Children)-1+len(n.Children))
		kids = append(kids, parent.Children[:idx]...)
		for _, k := range n.Children {
			k.Parent = parent
			kids = append(kids, k)
		}
		kids = append(kids, parent.Children[idx+1:]...)
		parent.Children = kids
		break
	}
	n.Children = nil
	n.InnerEnd = n.OpenEnd
	n.End = n.OpenEnd
	p.unclosed = append(p.unclosed, n)
}

// scanAttrs reads attributes starting right after the tag name. It returns
// ok=false when the tag never closes.
func scanAttrs(src string, i int) (attrs []Attr, attrEnd, openEnd int, selfClosing, ok bool) {
	attrEnd = i
	for i < len(src) {
		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i >= len(src) {
			return nil, 0, 0, false, false
		}
		switch {
		case src[i] == '>':
			return attrs, attrEnd, i + 1, false, true
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '>':
			return attrs, attrEnd, i + 2, true, true
		case src[i] == '/':
			i++
			continue
		}

		a := Attr{Start: i, ValueStart: -1, ValueEnd: -1}
		for i < len(src) && !isSpace(src[i]) && src[i] != '=' && src[i] != '>' && !(src[i] == '/' && i+1 < len(src) && src[i+1] == '>') {
			i++
		}
		a.Name = src[a.Start:i]
		a.End = i

		k := i
		for k < len(src) && isSpace(src[k]) {
			k++
		}
		if k < len(src) && src[k] == '=' {
			k++
			for k < len(src) && isSpace(src[k]) {
				k++
			}
			if k >= len(src) {
				return nil, 0, 0, false, false
			}
			if q := src[k]; q == '"' || q == '\'' {
				closeQ := strings.IndexByte(src[k+1:], q)
				if closeQ < 0 {
					return nil, 0, 0, false, false
				}
				a.Quote = q
				a.ValueStart = k + 1
				a.ValueEnd = k + 1 + closeQ
				a.End = a.ValueEnd + 1
			} else {
				v := k
				for v < len(src) && !isSpace(src[v]) && src[v] != '>' {
					v++
				}
				a.ValueStart = k
				a.ValueEnd = v
				a.End = v
			}
			a.Raw = src[a.ValueStart:a.ValueEnd]
			i = a.End
		}

		if a.Name != "" {
			attrs = append(attrs, a)
		}
		attrEnd = a.End
	}
	return nil, 0, 0, false, false
}

// findClose locates </tag> case-insensitively for raw-text elements
func findClose(src string, from int, tag string) (start, end int, ok bool) {
	lower := strings.ToLower(src[from:])
	needle := "</" + tag
	off := 0
	for {
		idx := strings.Index(lower[off:], needle)
		if idx < 0 {
			return 0, 0, false
		}
		pos := off + idx + len(needle)
		if pos < len(lower) && isNameChar(lower[pos]) {
			off = pos
			continue
		}
		gt := strings.IndexByte(lower[pos:], '>')
		if gt < 0 {
			return 0, 0, false
		}
		return from + off + idx, from + pos + gt + 1, true
	}
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-' || c == '_' || c == ':'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
