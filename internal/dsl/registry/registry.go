// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     registry
// Description: Command names, aliases, argument schemas and suggestions
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

// Package registry resolves script command names to kinds and validates
// decoded arguments against one JSON Schema per kind. A Registry is
// immutable after New returns and safe for concurrent use.
package registry

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/santhosh-tekuri/jsonschema/v5"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/dsl/command"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "file:///dashscript/schemas/"

// aliases maps accepted misspellings to their command
var aliases = map[string]command.Kind{
	"deleteGroupt": command.KindDeleteGroup,
	"removeWidget": command.KindDeleteWidget,
}

// Registry holds the compiled schemas
type Registry struct {
	exact   map[string]command.Kind
	folded  map[string]command.Kind
	schemas map[command.Kind]*jsonschema.Schema
	names   []string
}

// New compiles the embedded schemas
func New() (*Registry, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.LoadURL = func(url string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("schema %s is not embedded", url)
	}

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, mdwerror.Wrap(err, "read embedded schemas").WithCode(mdwerror.CodeInternal)
	}
	for _, e := range entries {
		data, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, mdwerror.Wrap(err, "read schema").WithCode(mdwerror.CodeInternal).WithDetail("file", e.Name())
		}
		if err := c.AddResource(schemaBase+e.Name(), bytes.NewReader(data)); err != nil {
			return nil, mdwerror.Wrap(err, "add schema").WithCode(mdwerror.CodeInternal).WithDetail("file", e.Name())
		}
	}

	r := &Registry{
		exact:   make(map[string]command.Kind),
		folded:  make(map[string]command.Kind),
		schemas: make(map[command.Kind]*jsonschema.Schema),
	}
	for _, k := range command.Kinds() {
		name := k.String()
		s, err := c.Compile(schemaBase + name + ".json")
		if err != nil {
			return nil, mdwerror.Wrap(err, "compile schema").WithCode(mdwerror.CodeInternal).WithDetail("command", name)
		}
		r.exact[name] = k
		r.folded[strings.ToLower(name)] = k
		r.schemas[k] = s
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// MustNew is New for callers that treat a broken embed as fatal
func MustNew() *Registry {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves a name exactly, then case-insensitively, then by alias
func (r *Registry) Lookup(name string) (command.Kind, bool) {
	if k, ok := r.exact[name]; ok {
		return k, true
	}
	if k, ok := r.folded[strings.ToLower(name)]; ok {
		return k, true
	}
	if k, ok := aliases[name]; ok {
		return k, true
	}
	return command.KindUnknown, false
}

// Names returns the canonical command names, sorted
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Suggest returns the closest command name, or "" when nothing is close
func (r *Registry) Suggest(name string) string {
	if name == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, r.names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	// not a subsequence of any name; fall back to edit distance
	best, bestDist := "", 4
	lower := strings.ToLower(name)
	for _, n := range r.names {
		if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(n)); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

// Validate checks decoded arguments against the kind's schema. Violations
// are reported as CodeRequiredField or CodeInvalidValue errors.
func (r *Registry) Validate(k command.Kind, args map[string]any) error {
	s, ok := r.schemas[k]
	if !ok {
		return mdwerror.Newf("no schema for %s", k).WithCode(mdwerror.CodeUnknownCommand)
	}
	if args == nil {
		args = map[string]any{}
	}
	err := s.Validate(args)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return mdwerror.Wrap(err, "validate arguments").WithCode(mdwerror.CodeInvalidValue)
	}
	return violation(ve)
}

func violation(ve *jsonschema.ValidationError) error {
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	code := mdwerror.CodeInvalidValue
	if strings.HasSuffix(leaf.KeywordLocation, "/required") {
		code = mdwerror.CodeRequiredField
	}
	msg := leaf.Message
	if path := strings.TrimPrefix(leaf.InstanceLocation, "/"); path != "" {
		msg = strings.ReplaceAll(path, "/", ".") + ": " + msg
	}
	return mdwerror.New(msg).WithCode(code).WithDetail("keyword", leaf.KeywordLocation)
}
