// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     dashscript
// Description: Public entry points for compiling and running scripts
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

// Package dashscript is the public face of the dashboard command engine.
//
// A script is compiled with ParseCommands and, when it has no errors, run
// against a document with RunCommands:
//
//	prog := dashscript.ParseCommands(`addGroup({"id":"vendas"}); addKPI(id: k1)`)
//	if len(prog.Errors) == 0 {
//		res, err := dashscript.RunCommands(doc, prog.Commands)
//		...
//	}
//
// Engine bundles both steps with optional logging.
package dashscript

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	mdwlog "github.com/msto63/dashscript/foundation/core/log"
	"github.com/msto63/dashscript/internal/dsl/command"
	"github.com/msto63/dashscript/internal/dsl/compiler"
	"github.com/msto63/dashscript/internal/dsl/executor"
	"github.com/msto63/dashscript/internal/dsl/registry"
	"github.com/msto63/dashscript/pkg/core/cache"
)

type (
	// Program is a compiled script
	Program = compiler.Program
	// CompileError describes a statement that failed to compile
	CompileError = compiler.CompileError
	// Command is one compiled command
	Command = command.Command
	// Result is the document after a run with its diagnostics
	Result = executor.Result
	// Diagnostic reports the outcome of one command
	Diagnostic = executor.Diagnostic
)

// ParseCommands compiles script. Callers must not run the commands when
// Errors is non-empty.
func ParseCommands(script string) Program {
	return compiler.Compile(script)
}

// RunCommands applies cmds to doc
func RunCommands(doc string, cmds []Command) (Result, error) {
	return executor.Run(doc, cmds)
}

// IsDsl reports whether doc is markup, i.e. starts with '<'
func IsDsl(doc string) bool {
	return strings.HasPrefix(strings.TrimSpace(doc), "<")
}

// Options configures an Engine
type Options struct {
	// Logger receives debug summaries of each compile and run. Nil discards.
	Logger *mdwlog.Logger
	// CacheSize keeps that many compiled programs keyed by script text.
	// Zero disables the cache.
	CacheSize int
}

// Engine compiles and runs scripts with its own registry
type Engine struct {
	compiler *compiler.Compiler
	runner   *executor.Runner
	programs *cache.Cache[Program]
	log      *mdwlog.Logger
}

// New builds an Engine
func New(opts Options) (*Engine, error) {
	reg, err := registry.New()
	if err != nil {
		return nil, mdwerror.Wrap(err, "build command registry").WithOperation("dashscript.New")
	}
	log := opts.Logger
	if log == nil {
		log = mdwlog.Discard()
	}
	e := &Engine{
		compiler: compiler.New(reg),
		runner:   executor.New(),
		log:      log.WithName("dashscript"),
	}
	if opts.CacheSize > 0 {
		e.programs = cache.New[Program](cache.Config{MaxItems: opts.CacheSize})
	}
	return e, nil
}

// Parse compiles script. Programs served from the cache are shared and
// must not be modified.
func (e *Engine) Parse(script string) Program {
	if e.programs == nil {
		return e.compile(script)
	}
	sum := sha256.Sum256([]byte(script))
	prog, _ := e.programs.GetOrSet(hex.EncodeToString(sum[:]), func() (Program, error) {
		return e.compile(script), nil
	})
	return prog
}

// CacheStats reports compile cache hits and misses
func (e *Engine) CacheStats() (hits, misses int64) {
	if e.programs == nil {
		return 0, 0
	}
	hits, misses, _ = e.programs.Stats()
	return hits, misses
}

func (e *Engine) compile(script string) Program {
	timer := e.log.StartTimer("compile")
	prog := e.compiler.Compile(script)
	timer.WithField("commands", len(prog.Commands)).WithField("errors", len(prog.Errors)).Stop()
	return prog
}

// Run applies cmds to doc
func (e *Engine) Run(doc string, cmds []Command) (Result, error) {
	timer := e.log.StartTimer("run")
	res, err := e.runner.Run(doc, cmds)
	timer.WithField("commands", len(cmds)).WithField("failed", res.Failed()).Stop()
	if err != nil {
		e.log.ErrorWithErr("run aborted", err)
	}
	return res, err
}

// Apply compiles script and runs it against doc. A script with compile
// errors is not run: the document comes back unchanged with the program's
// error.
func (e *Engine) Apply(doc, script string) (Result, Program, error) {
	prog := e.Parse(script)
	if !prog.OK() {
		return Result{NextCode: doc}, prog, prog.Err()
	}
	res, err := e.Run(doc, prog.Commands)
	return res, prog, err
}
