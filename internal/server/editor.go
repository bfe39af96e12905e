// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     server
// Description: Editor service shared by the websocket and gRPC endpoints
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package server

import (
	"context"
	"sync"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/docstore"
	"github.com/msto63/dashscript/pkg/core/logging"
	"github.com/msto63/dashscript/pkg/dashscript"
)

// ApplyRequest asks the editor to run a script. With DocID set the script
// runs against the stored head and the result is saved as a new revision.
// Without DocID it runs against Code and nothing is stored.
type ApplyRequest struct {
	DocID  string `json:"docId,omitempty"`
	Parent int    `json:"parent,omitempty"`
	Code   string `json:"code,omitempty"`
	Script string `json:"script"`
}

// ApplyResponse is the outcome of an apply
type ApplyResponse struct {
	DocID       string                    `json:"docId,omitempty"`
	Revision    int                       `json:"revision,omitempty"`
	NextCode    string                    `json:"nextCode"`
	Diagnostics []dashscript.Diagnostic   `json:"diagnostics"`
	Errors      []dashscript.CompileError `json:"errors,omitempty"`
}

// OK reports whether the script compiled and every command succeeded
func (r *ApplyResponse) OK() bool {
	if len(r.Errors) > 0 {
		return false
	}
	for _, d := range r.Diagnostics {
		if !d.OK {
			return false
		}
	}
	return true
}

// EditorConfig configures an Editor
type EditorConfig struct {
	// MaxScriptBytes rejects longer scripts. Zero disables the check.
	MaxScriptBytes int64
	// HistoryLimit bounds History results. Zero returns everything.
	HistoryLimit int
}

// Editor compiles and runs scripts, serializing runs per document
type Editor struct {
	engine *dashscript.Engine
	store  docstore.Store
	locks  *keyedMutex
	cfg    EditorConfig
	log    *logging.Logger
}

// NewEditor creates an editor. store may be nil, in which case only
// stateless applies are served.
func NewEditor(engine *dashscript.Engine, store docstore.Store, cfg EditorConfig, log *logging.Logger) *Editor {
	if log == nil {
		log = logging.New("editor")
	}
	return &Editor{
		engine: engine,
		store:  store,
		locks:  newKeyedMutex(),
		cfg:    cfg,
		log:    log,
	}
}

// Apply runs req. Compile errors come back in the response, not as an error.
func (e *Editor) Apply(ctx context.Context, req ApplyRequest) (*ApplyResponse, error) {
	if e.cfg.MaxScriptBytes > 0 && int64(len(req.Script)) > e.cfg.MaxScriptBytes {
		return nil, mdwerror.Newf("script exceeds %d bytes", e.cfg.MaxScriptBytes).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("editor.Apply").
			WithDetail("size", len(req.Script))
	}
	if req.DocID == "" {
		return e.run(req.Code, req.Script)
	}

	store, err := e.requireStore("editor.Apply")
	if err != nil {
		return nil, err
	}

	unlock := e.locks.Lock(req.DocID)
	defer unlock()

	doc, err := store.Get(ctx, req.DocID)
	if err != nil {
		return nil, err
	}
	if req.Parent != 0 && req.Parent != doc.Head {
		return nil, mdwerror.Newf("document %s moved: head is %d", doc.ID, doc.Head).
			WithCode(mdwerror.CodeConflict).
			WithOperation("editor.Apply").
			WithDetail("head", doc.Head).
			WithDetail("parent", req.Parent)
	}

	resp, err := e.run(doc.Code, req.Script)
	if err != nil {
		return nil, err
	}
	resp.DocID = doc.ID
	resp.Revision = doc.Head
	if len(resp.Errors) > 0 || resp.NextCode == doc.Code {
		return resp, nil
	}

	rev := &docstore.Revision{
		DocID:       doc.ID,
		Parent:      doc.Head,
		Code:        resp.NextCode,
		Script:      req.Script,
		Diagnostics: resp.Diagnostics,
	}
	if err := store.Save(ctx, rev); err != nil {
		return nil, err
	}
	resp.Revision = rev.Number
	e.log.Info("revision saved", "doc", doc.ID, "revision", rev.Number, "commands", len(resp.Diagnostics))
	return resp, nil
}

func (e *Editor) run(code, script string) (*ApplyResponse, error) {
	res, prog, err := e.engine.Apply(code, script)
	if len(prog.Errors) > 0 {
		return &ApplyResponse{NextCode: code, Diagnostics: []dashscript.Diagnostic{}, Errors: prog.Errors}, nil
	}
	if err != nil {
		return nil, err
	}
	diags := res.Diagnostics
	if diags == nil {
		diags = []dashscript.Diagnostic{}
	}
	return &ApplyResponse{NextCode: res.NextCode, Diagnostics: diags}, nil
}

// Create stores a new document
func (e *Editor) Create(ctx context.Context, title, code string) (*docstore.Document, error) {
	store, err := e.requireStore("editor.Create")
	if err != nil {
		return nil, err
	}
	return store.Create(ctx, title, code)
}

// Get returns a stored document
func (e *Editor) Get(ctx context.Context, id string) (*docstore.Document, error) {
	store, err := e.requireStore("editor.Get")
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, id)
}

// Undo moves a document back one revision
func (e *Editor) Undo(ctx context.Context, id string) (*docstore.Document, error) {
	store, err := e.requireStore("editor.Undo")
	if err != nil {
		return nil, err
	}
	unlock := e.locks.Lock(id)
	defer unlock()
	return store.Undo(ctx, id)
}

// History lists revisions of a document, newest first
func (e *Editor) History(ctx context.Context, id string) ([]docstore.Revision, error) {
	store, err := e.requireStore("editor.History")
	if err != nil {
		return nil, err
	}
	return store.History(ctx, id, e.cfg.HistoryLimit)
}

func (e *Editor) requireStore(op string) (docstore.Store, error) {
	if e.store == nil {
		return nil, mdwerror.New("no document store configured").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(op)
	}
	return e.store, nil
}

// keyedMutex hands out one mutex per key and forgets it once unused
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock locks key and returns its unlock function
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	ent, ok := k.locks[key]
	if !ok {
		ent = &keyedEntry{}
		k.locks[key] = ent
	}
	ent.refs++
	k.mu.Unlock()

	ent.mu.Lock()
	return func() {
		ent.mu.Unlock()
		k.mu.Lock()
		ent.refs--
		if ent.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
