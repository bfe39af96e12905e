// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Singleton dashboard header upsert
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

var headerTextTags = []string{"p", "h1", "div"}

// HeaderPatch holds the header fields to change. Nil leaves a field alone.
type HeaderPatch struct {
	Title    *string
	Subtitle *string
	Style    []Decl
}

// UpsertHeader updates the existing <header> in place, or synthesises one
// right after the dashboard open tag. A <style> block that directly follows
// the open tag stays in front of the new header.
func UpsertHeader(src string, p HeaderPatch) (Result, error) {
	doc := markup.Parse(src)
	if header := doc.First("header", ""); header != nil {
		return commit(src, Updated, 1, headerEdits(doc, header, p))
	}

	spec := HeaderSpec{Style: p.Style}
	if p.Title != nil {
		spec.Title = *p.Title
	}
	if p.Subtitle != nil {
		spec.Subtitle = *p.Subtitle
	}
	frag := HeaderMarkup(spec)

	root, closed := doc.Root(), true
	if root == nil {
		root, closed = doc.UnclosedRoot(), false
	}
	if root == nil {
		return commit(src, Created, 1, []markup.Edit{markup.Insert(0, frag.Render("")+"\n")})
	}
	if root.SelfClosing {
		return commit(src, Created, 1, []markup.Edit{insertLast(doc, root, frag)})
	}

	base := doc.LineIndent(root)
	child := base + markup.IndentUnit
	pos := root.OpenEnd
	if style := leadingStyle(doc, root); style != nil {
		pos = style.End
	}
	text := "\n" + child + frag.Render(child)
	if closed && !strings.Contains(src[pos:root.InnerEnd], "\n") {
		// the close tag shares the line; move it below the header
		text += "\n" + base
	}
	return commit(src, Created, 1, []markup.Edit{markup.Insert(pos, text)})
}

// leadingStyle returns a <style> child separated from the root open tag by
// whitespace only.
func leadingStyle(doc *markup.Document, root *markup.Node) *markup.Node {
	for _, c := range root.Children {
		if c.Tag != "style" {
			return nil
		}
		if stringx.IsBlank(doc.Source[root.OpenEnd:c.Start]) {
			return c
		}
		return nil
	}
	return nil
}

func headerEdits(doc *markup.Document, header *markup.Node, p HeaderPatch) []markup.Edit {
	src := doc.Source
	edits := styleEdits(src, header, p.Style)

	var title, subtitle *markup.Node
	if !header.SelfClosing {
		sub := markup.ParseRange(src, header.InnerStart, header.InnerEnd, markup.WithTags(headerTextTags...))
		var texts []*markup.Node
		for _, n := range sub.Top().Children {
			if n.Tag == "p" || n.Tag == "h1" {
				texts = append(texts, n)
			}
		}
		if len(texts) > 0 {
			title = texts[0]
		}
		if len(texts) > 1 {
			subtitle = texts[1]
		}
	}

	switch {
	case p.Title != nil && title != nil:
		edits = append(edits, replaceText(src, title, *p.Title))
	case p.Title != nil:
		edits = append(edits, insertFirst(doc, header, markup.Lines(titleLine(*p.Title))))
	}

	switch {
	case p.Subtitle != nil && subtitle != nil:
		edits = append(edits, replaceText(src, subtitle, *p.Subtitle))
	case p.Subtitle != nil && title != nil:
		edits = append(edits, insertAfter(doc, title, markup.Lines(subtitleLine(*p.Subtitle))))
	case p.Subtitle != nil && p.Title == nil:
		edits = append(edits, insertLast(doc, header, markup.Lines(subtitleLine(*p.Subtitle))))
	case p.Subtitle != nil:
		// New title and subtitle share one insertion so their order holds
		edits[len(edits)-1] = insertFirst(doc, header, markup.Lines(titleLine(*p.Title), subtitleLine(*p.Subtitle)))
	}
	return noopFree(src, edits)
}

func replaceText(src string, n *markup.Node, text string) markup.Edit {
	if n.SelfClosing {
		return markup.Replace(n.AttrEnd, n.OpenEnd, ">"+markup.EscapeText(text)+"</"+n.Name+">")
	}
	return markup.Replace(n.InnerStart, n.InnerEnd, markup.EscapeText(text))
}
