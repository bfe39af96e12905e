// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     compiler
// Description: Script compilation into validated, typed commands
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

// Package compiler turns a script into a Program. Each statement is split
// into name(args), resolved through the registry, decoded, validated
// against the kind's schema, bound to its typed Args and checked for
// semantic errors. A script with any error must not be run.
package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"fortio.org/safecast"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/dsl/command"
	"github.com/msto63/dashscript/internal/dsl/parser"
	"github.com/msto63/dashscript/internal/dsl/registry"
)

// CompileError describes one statement that failed to compile
type CompileError struct {
	Line    int           `json:"line" yaml:"line" msgpack:"line"`
	Command string        `json:"command" yaml:"command" msgpack:"command"`
	Code    mdwerror.Code `json:"code" yaml:"code" msgpack:"code"`
	Message string        `json:"message" yaml:"message" msgpack:"message"`
}

func (e CompileError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Command, e.Message)
}

// Program is the compiled form of a script. Commands holds every
// statement that compiled, even when Errors is non-empty.
type Program struct {
	Commands []command.Command `json:"commands" yaml:"commands" msgpack:"commands"`
	Errors   []CompileError    `json:"errors,omitempty" yaml:"errors,omitempty" msgpack:"errors,omitempty"`
}

// OK reports whether the program may be run
func (p Program) OK() bool {
	return len(p.Errors) == 0
}

// Err summarizes the compile errors, or returns nil
func (p Program) Err() error {
	if p.OK() {
		return nil
	}
	first := p.Errors[0]
	return mdwerror.Newf("%d compile error(s); first: %s", len(p.Errors), first.Error()).
		WithCode(first.Code).
		WithOperation("compiler.Compile").
		WithDetail("errors", p.Errors)
}

// Compiler compiles scripts against a registry
type Compiler struct {
	reg *registry.Registry
}

// New returns a compiler backed by reg
func New(reg *registry.Registry) *Compiler {
	return &Compiler{reg: reg}
}

var defaultCompiler = sync.OnceValue(func() *Compiler {
	return New(registry.MustNew())
})

// Compile compiles script with a lazily built shared registry
func Compile(script string) Program {
	return defaultCompiler().Compile(script)
}

// Compile compiles every statement of script
func (c *Compiler) Compile(script string) Program {
	var prog Program
	for _, st := range parser.Split(script) {
		cmd, cerr := c.compileStatement(st)
		if cerr != nil {
			prog.Errors = append(prog.Errors, *cerr)
			continue
		}
		prog.Commands = append(prog.Commands, cmd)
	}
	return prog
}

func (c *Compiler) compileStatement(st parser.Statement) (command.Command, *CompileError) {
	fail := func(name string, err error) (command.Command, *CompileError) {
		return command.Command{}, &CompileError{
			Line:    st.Line,
			Command: name,
			Code:    mdwerror.GetCode(err),
			Message: err.Error(),
		}
	}

	call, err := parser.ParseCall(st.Text)
	if err != nil {
		return fail(call.Name, err)
	}

	kind, ok := c.reg.Lookup(call.Name)
	if !ok {
		msg := fmt.Sprintf("unknown command '%s'", call.Name)
		if s := c.reg.Suggest(call.Name); s != "" {
			msg += fmt.Sprintf("; did you mean '%s'?", s)
		}
		return fail(call.Name, mdwerror.New(msg).WithCode(mdwerror.CodeUnknownCommand))
	}
	name := kind.String()

	var values map[string]any
	if id, ok := parser.Shorthand(call.Args); ok && kind.AcceptsShorthand() {
		values = map[string]any{"id": id}
	} else {
		values, err = parser.DecodeArgs(call.Args)
		if err != nil {
			return fail(name, err)
		}
		stringifyID(values)
	}

	if err := c.reg.Validate(kind, values); err != nil {
		return fail(name, err)
	}
	if err := checkIntRanges(values); err != nil {
		return fail(name, err)
	}
	args, err := bind(kind, values)
	if err != nil {
		return fail(name, err)
	}
	if err := check(args); err != nil {
		return fail(name, err)
	}

	return command.Command{
		Kind:   kind,
		Line:   st.Line,
		Raw:    st.Text,
		Values: values,
		Args:   args,
	}, nil
}

// stringifyID turns a numeric id into its literal text, so id: 123 binds
// the same way as the shorthand form (123).
func stringifyID(values map[string]any) {
	if n, ok := values["id"].(json.Number); ok {
		values["id"] = n.String()
	}
}

// bind decodes the validated object into the kind's typed struct
func bind(kind command.Kind, values map[string]any) (command.Args, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, mdwerror.Wrap(err, "encode arguments").WithCode(mdwerror.CodeInvalidValue)
	}
	args := command.NewArgs(kind)
	if args == nil {
		return nil, mdwerror.Newf("no argument type for %s", kind).WithCode(mdwerror.CodeUnknownCommand)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(args); err != nil {
		return nil, mdwerror.Wrap(err, "invalid arguments").WithCode(mdwerror.CodeInvalidValue)
	}
	return args, nil
}

// intFields are the keys bound to int fields, at any depth
var intFields = map[string]bool{
	"height": true,
	"colsD":  true,
	"gapX":   true,
	"gapY":   true,
	"limit":  true,
}

// checkIntRanges rejects integer arguments that do not fit a 32-bit int
func checkIntRanges(values map[string]any) error {
	for k, v := range values {
		switch x := v.(type) {
		case json.Number:
			if !intFields[k] {
				continue
			}
			i, err := x.Int64()
			if err != nil {
				return mdwerror.Newf("%s: expected an integer, got %s", k, x).WithCode(mdwerror.CodeInvalidValue)
			}
			if _, err := safecast.Conv[int32](i); err != nil {
				return mdwerror.Newf("%s: %s is out of range", k, x).WithCode(mdwerror.CodeInvalidValue)
			}
		case map[string]any:
			if err := checkIntRanges(x); err != nil {
				return err
			}
		}
	}
	return nil
}

func blank(p *string) bool {
	return p == nil || strings.TrimSpace(*p) == ""
}
