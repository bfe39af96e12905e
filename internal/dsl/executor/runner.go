// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     executor
// Description: Applies compiled commands to a markup document
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

// Package executor folds compiled commands over a document. Every command
// runs against a working copy that is committed only when the command
// succeeds, and yields exactly one diagnostic.
package executor

import (
	"errors"
	"fmt"
	"strings"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/dsl/command"
	"github.com/msto63/dashscript/internal/mutator"
)

// Default group ids used when a widget names no group and none was added
const (
	DefaultKPIGroup   = "kpis"
	DefaultChartGroup = "charts"
)

// Diagnostic reports the outcome of one command
type Diagnostic struct {
	OK      bool   `json:"ok" yaml:"ok" msgpack:"ok"`
	Message string `json:"message" yaml:"message" msgpack:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
	Command string `json:"command,omitempty" yaml:"command,omitempty" msgpack:"command,omitempty"`
}

// Result is the document after a run plus one diagnostic per command
type Result struct {
	NextCode    string       `json:"nextCode" yaml:"nextCode" msgpack:"nextCode"`
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics" msgpack:"diagnostics"`
}

// OK reports whether every command succeeded
func (r Result) OK() bool {
	for _, d := range r.Diagnostics {
		if !d.OK {
			return false
		}
	}
	return true
}

// Failed counts the failing diagnostics
func (r Result) Failed() int {
	n := 0
	for _, d := range r.Diagnostics {
		if !d.OK {
			n++
		}
	}
	return n
}

// Runner applies commands. It holds no state between runs.
type Runner struct{}

// New returns a Runner
func New() *Runner {
	return &Runner{}
}

// Run applies cmds in order to doc. An invariant violation in an applier
// stops the run; the result up to that command is returned with the error.
func (r *Runner) Run(doc string, cmds []command.Command) (Result, error) {
	st := &state{code: doc}
	res := Result{NextCode: doc}
	markupDoc := IsMarkup(doc)

	for _, cmd := range cmds {
		if !markupDoc {
			res.Diagnostics = append(res.Diagnostics, diag(cmd, false, "cannot apply %s: document is not markup", cmd.Kind))
			continue
		}
		o, err := st.apply(cmd)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, diag(cmd, false, "invariant violated: %v", err))
			res.NextCode = st.code
			if !errors.Is(err, mutator.ErrInvariant) {
				err = mdwerror.Wrap(err, "apply command").WithCode(mdwerror.CodeInvariant)
			}
			return res, mdwerror.Wrap(err, "run aborted").
				WithOperation("executor.Run").
				WithDetail("line", cmd.Line).
				WithDetail("command", cmd.Kind.String())
		}
		if o.ok {
			st.code = o.text
		}
		res.Diagnostics = append(res.Diagnostics, Diagnostic{OK: o.ok, Message: o.msg, Line: cmd.Line, Command: cmd.Kind.String()})
	}
	res.NextCode = st.code
	return res, nil
}

// Run applies cmds with a fresh Runner
func Run(doc string, cmds []command.Command) (Result, error) {
	return New().Run(doc, cmds)
}

// IsMarkup reports whether doc can be edited: blank, or starting with '<'
func IsMarkup(doc string) bool {
	t := strings.TrimSpace(doc)
	return t == "" || t[0] == '<'
}

func diag(cmd command.Command, ok bool, format string, args ...any) Diagnostic {
	return Diagnostic{OK: ok, Message: fmt.Sprintf(format, args...), Line: cmd.Line, Command: cmd.Kind.String()}
}

// state is carried across the commands of one run
type state struct {
	code         string
	currentGroup string
}

// outcome is the uncommitted result of one command
type outcome struct {
	ok   bool
	msg  string
	text string
}

func (st *state) apply(cmd command.Command) (outcome, error) {
	if cmd.Args == nil {
		return fail("%s has no bound arguments", cmd.Kind), nil
	}
	w := &work{text: st.code}
	var o outcome
	switch a := cmd.Args.(type) {
	case *command.AddGroupArgs:
		o = st.addGroup(w, a)
	case *command.AddKPIArgs:
		o = st.addKPI(w, a.Group, kpiSpec(a.ID, a.Title, a.Unit, a.WidthFr, a.Height, a.Data, a.Style))
	case *command.AddChartArgs:
		o = st.addChart(w, a.Group, chartSpec(a.ID, a.Title, a.Type, a.WidthFr, a.Height, a.Data, a.Style))
	case *command.AddWidgetArgs:
		o = st.addWidget(w, a)
	case *command.AddSectionArgs:
		o = addSection(w, a.SectionSpec, false)
	case *command.CreateSectionArgs:
		o = addSection(w, a.SectionSpec, true)
	case *command.RemoveSectionArgs:
		o = removeNodes(w, "section", a.ID, "section", "section")
	case *command.UpdateArticleArgs:
		o = updateArticle(w, a)
	case *command.UpdateHeaderArgs:
		o = updateHeader(w, a)
	case *command.UpdateSectionArgs:
		o = updateSection(w, a)
	case *command.CreateArticleArgs:
		o = createArticle(w, a)
	case *command.SetDashboardArgs:
		o = setDashboard(w, a)
	case *command.DeleteWidgetArgs:
		o = removeNodes(w, "widget", a.ID, "article", "kpi", "chart")
	case *command.DeleteGroupArgs:
		o = removeNodes(w, "group", a.ID, "group")
	case *command.UpdateWidgetArgs:
		o = updateWidget(w, a)
	case *command.UpdateGroupArgs:
		o = updateGroup(w, a)
	default:
		return fail("unsupported command %s", cmd.Kind), nil
	}
	if w.err != nil {
		return outcome{}, w.err
	}
	o.text = w.text
	return o, nil
}

func fail(format string, args ...any) outcome {
	return outcome{ok: false, msg: fmt.Sprintf(format, args...)}
}

func done(format string, args ...any) outcome {
	return outcome{ok: true, msg: fmt.Sprintf(format, args...)}
}

// work threads a working copy through a chain of appliers. After the first
// error every further step is skipped.
type work struct {
	text string
	err  error
}

func (w *work) do(fn func(string) (mutator.Result, error)) mutator.Result {
	if w.err != nil {
		return mutator.Result{Text: w.text, Outcome: mutator.Unchanged}
	}
	res, err := fn(w.text)
	if err != nil {
		w.err = err
		return mutator.Result{Text: w.text, Outcome: mutator.Unchanged}
	}
	w.text = res.Text
	return res
}
