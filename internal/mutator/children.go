// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Edits addressed through a node's children
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package mutator

import (
	"strings"

	"github.com/msto63/dashscript/internal/markup"
)

// SetChildAttributes edits the first childTag below every (tag, id) node.
// With create set, a missing child is added as a self-closing tag carrying
// the changes; otherwise a missing child makes the outcome NotFound.
func SetChildAttributes(src, tag, id, childTag string, create bool, changes ...AttrChange) (Result, error) {
	doc := markup.Parse(src)
	nodes := doc.Find(tag, id)
	if len(nodes) == 0 {
		return notFound(src), nil
	}

	var edits []markup.Edit
	created := false
	for _, n := range nodes {
		child := n.Descendant(childTag)
		if child != nil {
			edits = append(edits, attrEdits(src, child, changes)...)
			continue
		}
		if !create {
			continue
		}
		var b strings.Builder
		b.WriteString("<" + childTag)
		for _, c := range changes {
			if !c.Remove {
				b.WriteString(attr(c.Name, c.Value))
			}
		}
		b.WriteString(" />")
		edits = append(edits, insertLast(doc, n, markup.Lines(b.String())))
		created = true
	}
	if len(edits) == 0 && !create {
		if anyDescendant(nodes, childTag) {
			return unchanged(src), nil
		}
		return notFound(src), nil
	}
	outcome := Updated
	if created {
		outcome = Created
	}
	return commit(src, outcome, len(nodes), edits)
}

// MergeChildTokens merges tokens into attr of the first childTag below every
// (tag, id) node, creating the child when absent.
func MergeChildTokens(src, tag, id, childTag, attr, tokens string) (Result, error) {
	doc := markup.Parse(src)
	nodes := doc.Find(tag, id)
	if len(nodes) == 0 {
		return notFound(src), nil
	}
	var edits []markup.Edit
	for _, n := range nodes {
		if child := n.Child(childTag); child != nil {
			edits = append(edits, tokenEdits(src, child, attr, tokens)...)
			continue
		}
		line := "<" + childTag + optAttr(attr, MergeTokenString("", tokens)) + " />"
		edits = append(edits, insertLast(doc, n, markup.Lines(line)))
	}
	return commit(src, Updated, len(nodes), edits)
}

// RewriteAttr replaces attr on every (tag, id) node with fn(current)
func RewriteAttr(src, tag, id, attr string, fn func(string) string) (Result, error) {
	doc := markup.Parse(src)
	nodes := doc.Find(tag, id)
	if len(nodes) == 0 {
		return notFound(src), nil
	}
	var edits []markup.Edit
	for _, n := range nodes {
		ed := newTagEditor(src, n)
		current, _ := ed.value(attr)
		ed.set(attr, fn(current))
		edits = append(edits, noopFree(src, ed.edits)...)
	}
	return commit(src, Updated, len(nodes), edits)
}

// SetArticleTitle rewrites the title paragraph of every matching article,
// adding one as the first child when missing.
func SetArticleTitle(src, id, title string) (Result, error) {
	return editArticles(src, id, func(doc *markup.Document, art *markup.Node, sub *markup.Document) markup.Edit {
		if p := articleTitle(sub); p != nil {
			return replaceText(doc.Source, p, title)
		}
		line := "<p" + attr("style", cardTitleCSS) + ">" + markup.EscapeText(title) + "</p>"
		return insertFirst(doc, art, markup.Lines(line))
	})
}

// SetArticleValue rewrites the .kpi-value text of every matching article,
// adding the element after the title when missing.
func SetArticleValue(src, id, value string) (Result, error) {
	return editArticles(src, id, func(doc *markup.Document, art *markup.Node, sub *markup.Document) markup.Edit {
		for _, d := range sub.Find("div", "") {
			if hasToken(d.AttrValue("class"), "kpi-value") {
				return replaceText(doc.Source, d, value)
			}
		}
		line := "<div" + attr("class", "kpi-value") + attr("style", kpiValueCSS) + ">" + markup.EscapeText(value) + "</div>"
		if p := articleTitle(sub); p != nil {
			return insertAfter(doc, p, markup.Lines(line))
		}
		return insertLast(doc, art, markup.Lines(line))
	})
}

func editArticles(src, id string, fn func(*markup.Document, *markup.Node, *markup.Document) markup.Edit) (Result, error) {
	doc := markup.Parse(src)
	arts := doc.Find("article", id)
	if len(arts) == 0 {
		return notFound(src), nil
	}
	var edits []markup.Edit
	for _, art := range arts {
		var sub *markup.Document
		if art.SelfClosing {
			sub = markup.Parse("")
		} else {
			sub = markup.ParseRange(src, art.InnerStart, art.InnerEnd, markup.WithTags("p", "div"))
		}
		edits = append(edits, fn(doc, art, sub))
	}
	return commit(src, Updated, len(arts), noopFree(src, edits))
}

// articleTitle prefers a .kpi-title paragraph, then the first top-level one
func articleTitle(sub *markup.Document) *markup.Node {
	ps := sub.Find("p", "")
	for _, p := range ps {
		if hasToken(p.AttrValue("class"), "kpi-title") {
			return p
		}
	}
	for _, n := range sub.Top().Children {
		if n.Tag == "p" {
			return n
		}
	}
	if len(ps) > 0 {
		return ps[0]
	}
	return nil
}

func hasToken(list, tok string) bool {
	return containsToken(strings.Fields(list), tok)
}

func anyDescendant(nodes []*markup.Node, tag string) bool {
	for _, n := range nodes {
		if n.Descendant(tag) != nil {
			return true
		}
	}
	return false
}
