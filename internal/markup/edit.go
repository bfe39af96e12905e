// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     markup
// Description: Span edits applied to a source text
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package markup

import (
	"sort"
	"strings"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
)

// Edit replaces src[Start:End] with Text. Start == End inserts.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Insert returns an insertion edit at pos
func Insert(pos int, text string) Edit {
	return Edit{Start: pos, End: pos, Text: text}
}

// Replace returns an edit that swaps src[start:end] for text
func Replace(start, end int, text string) Edit {
	return Edit{Start: start, End: end, Text: text}
}

// Delete returns an edit that drops src[start:end]
func Delete(start, end int) Edit {
	return Edit{Start: start, End: end}
}

// Apply performs the edits on src. Bytes outside the edited spans are kept
// as they are. Insertions at the same position keep their given order.
// Overlapping edits are a programming error and come back as
// MUTATION_INVARIANT.
func Apply(src string, edits ...Edit) (string, error) {
	if len(edits) == 0 {
		return src, nil
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var b strings.Builder
	b.Grow(len(src))
	pos := 0
	for _, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return "", mdwerror.Newf("edit span [%d,%d) out of range for %d bytes", e.Start, e.End, len(src)).
				WithCode(mdwerror.CodeInvariant).
				WithOperation("markup.Apply")
		}
		if e.Start < pos {
			return "", mdwerror.Newf("edit span [%d,%d) overlaps previous edit ending at %d", e.Start, e.End, pos).
				WithCode(mdwerror.CodeInvariant).
				WithOperation("markup.Apply")
		}
		b.WriteString(src[pos:e.Start])
		b.WriteString(e.Text)
		pos = e.End
	}
	b.WriteString(src[pos:])
	return b.String(), nil
}
