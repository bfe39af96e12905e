// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     parser
// Description: Argument decoding in JSON and inline key: value form
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package parser

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
)

var numberRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// DecodeArgs decodes an argument text into an object. Text starting with
// "{" is JSON; anything else is the inline form "a: 1; b.c: x". Numbers
// stay json.Number in both modes.
func DecodeArgs(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return map[string]any{}, nil
	}
	if text[0] == '{' {
		v, err := decodeJSON(text)
		if err != nil {
			return nil, err
		}
		obj, ok := v.(map[string]any)
		if !ok || obj == nil {
			return nil, syntaxError("arguments must be a JSON object")
		}
		return obj, nil
	}
	return decodeInline(text)
}

// Shorthand recognises the bare id form "kpi_1" or "\"kpi_1\"": text that
// does not start with "{" and has no top-level ':'.
func Shorthand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" || text[0] == '{' || indexTopLevel(text, ':') >= 0 {
		return "", false
	}
	v, err := decodeValue(text)
	if err != nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, x != ""
	case json.Number:
		return x.String(), true
	}
	return "", false
}

func decodeInline(text string) (map[string]any, error) {
	out := map[string]any{}
	for _, item := range splitTopLevel(text, ';') {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		colon := indexTopLevel(item, ':')
		if colon < 0 {
			return nil, syntaxError("expected 'key: value' but got %q", item)
		}
		key := strings.TrimSpace(item[:colon])
		if key == "" {
			return nil, syntaxError("empty key in %q", item)
		}
		value, err := decodeValue(strings.TrimSpace(item[colon+1:]))
		if err != nil {
			return nil, err
		}
		if err := assignPath(out, key, value); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeValue classifies an inline value: JSON literal, quoted string,
// number, boolean, null, then bare word.
func decodeValue(v string) (any, error) {
	switch {
	case v == "":
		return "", nil
	case v[0] == '{' || v[0] == '[':
		return decodeJSON(v)
	case len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"':
		if s, err := strconv.Unquote(v); err == nil {
			return s, nil
		}
		var s string
		if err := json.Unmarshal([]byte(v), &s); err == nil {
			return s, nil
		}
		return v[1 : len(v)-1], nil
	case len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'':
		return unescapeSingle(v[1 : len(v)-1]), nil
	case numberRe.MatchString(v):
		return json.Number(v), nil
	case v == "true":
		return true, nil
	case v == "false":
		return false, nil
	case v == "null":
		return nil, nil
	}
	return v, nil
}

// assignPath stores value under a dotted key, creating or reusing nested
// objects along the way.
func assignPath(obj map[string]any, key string, value any) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return syntaxError("empty segment in key %q", key)
		}
	}
	cur := obj
	for _, p := range parts[:len(parts)-1] {
		p = strings.TrimSpace(p)
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[p] = next
		}
		cur = next
	}
	last := strings.TrimSpace(parts[len(parts)-1])
	if incoming, ok := value.(map[string]any); ok {
		if existing, ok := cur[last].(map[string]any); ok {
			for k, v := range incoming {
				existing[k] = v
			}
			return nil
		}
	}
	cur[last] = value
	return nil
}

func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, syntaxError("invalid JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, syntaxError("unexpected data after JSON value")
	}
	return v, nil
}

func unescapeSingle(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func syntaxError(format string, args ...any) *mdwerror.Error {
	return mdwerror.Newf(format, args...).WithCode(mdwerror.CodeSyntax)
}
