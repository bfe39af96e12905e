// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Pure structural edits over dashboard markup
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

// Package mutator implements the appliers the command runner composes.
// Every applier takes the document text and returns a Result holding the
// next text. A missing target is reported through the NotFound outcome; the
// error return is reserved for invariant violations raised by markup.Apply.
package mutator

import (
	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/markup"
)

// Outcome tells what an applier did
type Outcome int

const (
	Unchanged Outcome = iota
	Created
	Updated
	Removed
	NotFound
)

var outcomeNames = [...]string{"unchanged", "created", "updated", "removed", "not_found"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Result is the output of an applier
type Result struct {
	Text    string
	Outcome Outcome
	// Count is the number of nodes created, updated or removed
	Count int
}

// Found reports whether the applier located its target
func (r Result) Found() bool {
	return r.Outcome != NotFound
}

// Changed reports whether Text differs from the input
func (r Result) Changed() bool {
	return r.Outcome == Created || r.Outcome == Updated || r.Outcome == Removed
}

// ErrInvariant matches, through errors.Is, every error an applier returns
var ErrInvariant = mdwerror.New("mutation invariant violated").WithCode(mdwerror.CodeInvariant)

func unchanged(src string) Result {
	return Result{Text: src, Outcome: Unchanged}
}

func notFound(src string) Result {
	return Result{Text: src, Outcome: NotFound}
}

// commit applies edits and labels the result. No edits means Unchanged.
func commit(src string, outcome Outcome, count int, edits []markup.Edit) (Result, error) {
	if len(edits) == 0 {
		return unchanged(src), nil
	}
	out, err := markup.Apply(src, edits...)
	if err != nil {
		return unchanged(src), err
	}
	if out == src {
		return unchanged(src), nil
	}
	return Result{Text: out, Outcome: outcome, Count: count}, nil
}
