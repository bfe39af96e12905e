// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Node removal and duplicate repair
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package mutator

import (
	"github.com/msto63/dashscript/foundation/utils/stringx"
	"github.com/msto63/dashscript/internal/markup"
)

// maxBlankRun is the longest newline run left at a removal seam
const maxBlankRun = 2

// RemoveNode removes every (tag, id) node until none is left. A node alone
// on its line takes its indentation and one line break with it.
func RemoveNode(src, tag, id string) (Result, error) {
	return removeWhile(src, func(doc *markup.Document) *markup.Node {
		return doc.First(tag, id)
	})
}

// RemoveNodes runs RemoveNode for each tag in order and sums the counts
func RemoveNodes(src, id string, tags ...string) (Result, error) {
	total := Result{Text: src, Outcome: NotFound}
	for _, tag := range tags {
		res, err := RemoveNode(total.Text, tag, id)
		if err != nil {
			return total, err
		}
		if res.Outcome == Removed {
			total.Text = res.Text
			total.Outcome = Removed
			total.Count += res.Count
		}
	}
	return total, nil
}

// DedupeNode keeps the first (tag, id) node and removes later copies
func DedupeNode(src, tag, id string) (Result, error) {
	res, err := removeWhile(src, func(doc *markup.Document) *markup.Node {
		if m := doc.Find(tag, id); len(m) > 1 {
			return m[1]
		}
		return nil
	})
	if res.Outcome == NotFound {
		res.Outcome = Unchanged
	}
	return res, err
}

func removeWhile(src string, next func(*markup.Document) *markup.Node) (Result, error) {
	out := src
	removed := 0
	for {
		doc := markup.Parse(out)
		n := next(doc)
		if n == nil {
			break
		}
		start, end := removalSpan(doc, n)
		text, err := markup.Apply(out, markup.Delete(start, end))
		if err != nil {
			return Result{Text: out, Outcome: Removed, Count: removed}, err
		}
		out = collapseSeam(text, start)
		removed++
	}
	if removed == 0 {
		return notFound(src), nil
	}
	return Result{Text: out, Outcome: Removed, Count: removed}, nil
}

func removalSpan(doc *markup.Document, n *markup.Node) (int, int) {
	src := doc.Source
	lineStart := n.Start - len(doc.Indent(n))
	if lineStart > 0 && src[lineStart-1] != '\n' {
		return n.Start, n.End
	}

	end := n.End
	for end < len(src) && (src[end] == ' ' || src[end] == '\t' || src[end] == '\r') {
		end++
	}
	switch {
	case end < len(src) && src[end] == '\n':
		return lineStart, end + 1
	case end == len(src):
		// Last line: take the line break in front instead
		start := lineStart
		if start > 0 && src[start-1] == '\n' {
			start--
			if start > 0 && src[start-1] == '\r' {
				start--
			}
		}
		return start, end
	}
	return n.Start, n.End
}

// collapseSeam shortens the newline run around pos to maxBlankRun
func collapseSeam(s string, pos int) string {
	l, r := pos, pos
	for l > 0 && s[l-1] == '\n' {
		l--
	}
	for r < len(s) && s[r] == '\n' {
		r++
	}
	return s[:l] + stringx.CollapseNewlines(s[l:r], maxBlankRun) + s[r:]
}
