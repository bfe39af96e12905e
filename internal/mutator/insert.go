// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Node creation and child insertion
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package mutator

import (
	"strings"

	"github.com/msto63/dashscript/foundation/utils/stringx"
	"github.com/msto63/dashscript/internal/markup"
)

// EnsureNode inserts frag unless a (tag, id) node already exists. The node
// goes before </dashboard>, else right after an unclosed <dashboard> open
// tag, else at the end of the document.
func EnsureNode(src, tag, id string, frag markup.Fragment) (Result, error) {
	doc := markup.Parse(src)
	if doc.First(tag, id) != nil {
		return unchanged(src), nil
	}
	return commit(src, Created, 1, []markup.Edit{placeTopLevel(doc, frag)})
}

// InsertChild appends frag as the last child of the first (tag, id) node.
// A self-closing container is expanded into an open/close pair.
func InsertChild(src, tag, id string, frag markup.Fragment) (Result, error) {
	doc := markup.Parse(src)
	n := doc.First(tag, id)
	if n == nil {
		return notFound(src), nil
	}
	return commit(src, Created, 1, []markup.Edit{insertLast(doc, n, frag)})
}

func placeTopLevel(doc *markup.Document, frag markup.Fragment) markup.Edit {
	if root := doc.Root(); root != nil {
		return insertLast(doc, root, frag)
	}
	if root := doc.UnclosedRoot(); root != nil {
		child := doc.LineIndent(root) + markup.IndentUnit
		return markup.Insert(root.OpenEnd, "\n"+child+frag.Render(child))
	}
	if doc.Source == "" {
		return markup.Insert(0, frag.Render(""))
	}
	return markup.Insert(len(doc.Source), "\n"+frag.Render(""))
}

// insertLast places frag right before n's close tag on its own line
func insertLast(doc *markup.Document, n *markup.Node, frag markup.Fragment) markup.Edit {
	base := doc.LineIndent(n)
	child := base + markup.IndentUnit
	text := frag.Render(child)
	if n.SelfClosing {
		return markup.Replace(n.AttrEnd, n.OpenEnd, ">\n"+child+text+"\n"+base+"</"+n.Name+">")
	}
	inner := doc.Inner(n)
	if nl := strings.LastIndexByte(inner, '\n'); nl >= 0 && stringx.IsBlank(inner[nl:]) {
		return markup.Insert(n.InnerStart+nl, "\n"+child+text)
	}
	return markup.Insert(n.InnerEnd, "\n"+child+text+"\n"+base)
}

// insertFirst places frag right after n's open tag on its own line
func insertFirst(doc *markup.Document, n *markup.Node, frag markup.Fragment) markup.Edit {
	if n.SelfClosing || !strings.Contains(doc.Inner(n), "\n") {
		return insertLast(doc, n, frag)
	}
	child := doc.LineIndent(n) + markup.IndentUnit
	return markup.Insert(n.OpenEnd, "\n"+child+frag.Render(child))
}

// insertAfter places frag on its own line after sibling
func insertAfter(doc *markup.Document, sibling *markup.Node, frag markup.Fragment) markup.Edit {
	indent := doc.LineIndent(sibling)
	return markup.Insert(sibling.End, "\n"+indent+frag.Render(indent))
}
