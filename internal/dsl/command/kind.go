// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     command
// Description: Command kinds and the compiled command value
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

// Package command defines the closed set of dashboard commands. A Command
// pairs a Kind with its typed arguments; the runner dispatches on the
// concrete Args type.
package command

import (
	"fmt"
)

// Kind identifies a command
type Kind int

const (
	KindUnknown Kind = iota
	KindAddGroup
	KindAddKPI
	KindAddChart
	KindAddWidget
	KindAddSection
	KindRemoveSection
	KindUpdateArticle
	KindUpdateHeader
	KindUpdateSection
	KindCreateSection
	KindCreateArticle
	KindSetDashboard
	KindDeleteWidget
	KindDeleteGroup
	KindUpdateWidget
	KindUpdateGroup
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindAddGroup:      "addGroup",
	KindAddKPI:        "addKPI",
	KindAddChart:      "addChart",
	KindAddWidget:     "addWidget",
	KindAddSection:    "addSection",
	KindRemoveSection: "removeSection",
	KindUpdateArticle: "updateArticle",
	KindUpdateHeader:  "updateHeader",
	KindUpdateSection: "updateSection",
	KindCreateSection: "createSection",
	KindCreateArticle: "createArticle",
	KindSetDashboard:  "setDashboard",
	KindDeleteWidget:  "deleteWidget",
	KindDeleteGroup:   "deleteGroup",
	KindUpdateWidget:  "updateWidget",
	KindUpdateGroup:   "updateGroup",
}

// String returns the script name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText encodes the kind by its script name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a script name
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown command kind %q", text)
	}
	*k = parsed
	return nil
}

// ParseKind resolves an exact script name
func ParseKind(name string) (Kind, bool) {
	for k := KindAddGroup; k <= KindUpdateGroup; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindUnknown, false
}

// Kinds lists every known kind in declaration order
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := KindAddGroup; k <= KindUpdateGroup; k++ {
		out = append(out, k)
	}
	return out
}

// IsUpdate reports whether the kind needs at least one field besides id
func (k Kind) IsUpdate() bool {
	switch k {
	case KindUpdateArticle, KindUpdateHeader, KindUpdateSection, KindUpdateWidget, KindUpdateGroup, KindSetDashboard:
		return true
	}
	return false
}

// AcceptsShorthand reports whether the kind takes a bare id argument
func (k Kind) AcceptsShorthand() bool {
	switch k {
	case KindDeleteWidget, KindDeleteGroup, KindRemoveSection:
		return true
	}
	return false
}

// Command is one compiled, validated statement
type Command struct {
	Kind Kind `json:"kind" yaml:"kind" msgpack:"kind"`
	// Line is the 1-based script line the statement starts on
	Line int    `json:"line" yaml:"line" msgpack:"line"`
	Raw  string `json:"raw" yaml:"raw" msgpack:"raw"`
	// Values is the decoded argument object the Args were bound from
	Values map[string]any `json:"args" yaml:"args" msgpack:"args"`
	Args   Args           `json:"-" yaml:"-" msgpack:"-"`
}

// Has reports whether the argument object carried key
func (c Command) Has(key string) bool {
	_, ok := c.Values[key]
	return ok
}

// ID returns the id argument when the kind has one
func (c Command) ID() string {
	if v, ok := c.Values["id"].(string); ok {
		return v
	}
	return ""
}
