// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Embedded JSON block merge (<style>, <config>)
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package mutator

import (
	"bytes"
	"encoding/json"
	"strings"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/markup"
)

// BlockFormat selects how a merged block is serialised
type BlockFormat int

const (
	// Compact writes the object on one line
	Compact BlockFormat = iota
	// Indented writes one key per line, aligned with the block tag
	Indented
)

// MergeJSONBlock shallow-merges patch into the <block> child of the first
// (tag, id) node. Unparsable existing content counts as {}. A missing block
// is inserted as the node's first child.
func MergeJSONBlock(src, tag, id, block string, patch map[string]any, format BlockFormat) (Result, error) {
	doc := markup.Parse(src)
	n := doc.First(tag, id)
	if n == nil {
		return notFound(src), nil
	}
	block = strings.ToLower(block)

	if child := n.Child(block); child != nil {
		merged := decodeObject(doc.Inner(child))
		for k, v := range patch {
			merged[k] = v
		}
		text, err := encodeObject(merged, format, doc.LineIndent(child))
		if err != nil {
			return unchanged(src), err
		}
		if child.SelfClosing {
			return commit(src, Updated, 1, []markup.Edit{
				markup.Replace(child.AttrEnd, child.OpenEnd, ">"+text+"</"+child.Name+">"),
			})
		}
		return commit(src, Updated, 1, []markup.Edit{markup.Replace(child.InnerStart, child.InnerEnd, text)})
	}

	merged := make(map[string]any, len(patch))
	for k, v := range patch {
		merged[k] = v
	}
	text, err := encodeObject(merged, format, doc.LineIndent(n)+markup.IndentUnit)
	if err != nil {
		return unchanged(src), err
	}
	frag := markup.Lines("<" + block + ">" + text + "</" + block + ">")
	return commit(src, Created, 1, []markup.Edit{insertFirst(doc, n, frag)})
}

// decodeObject parses a JSON object, keeping numbers as json.Number. Any
// failure or a non-object yields an empty map.
func decodeObject(text string) map[string]any {
	out := map[string]any{}
	text = strings.TrimSpace(text)
	if text == "" {
		return out
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v map[string]any
	if err := dec.Decode(&v); err != nil || v == nil {
		return out
	}
	return v
}

func encodeObject(m map[string]any, format BlockFormat, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if format == Indented {
		enc.SetIndent(indent, markup.IndentUnit)
	}
	if err := enc.Encode(m); err != nil {
		return "", mdwerror.Wrap(err, "encode json block").
			WithCode(mdwerror.CodeInvariant).
			WithOperation("mutator.MergeJSONBlock")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
