// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     command
// Description: Lenient scalar that accepts a string, number or boolean
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package command

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is a scalar argument written into markup as text. Scripts may pass
// it quoted or as a bare number: gap: 16 and gap: "16px" both decode.
type Text string

// UnmarshalJSON accepts strings, numbers and booleans
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case json.Number:
		*t = Text(x.String())
	case bool:
		*t = Text(fmt.Sprint(x))
	default:
		return fmt.Errorf("expected string or number, got %s", data)
	}
	return nil
}

// String returns the text
func (t Text) String() string {
	return string(t)
}

// IsNumeric reports whether the text is a plain number, as in gap: 16
func (t Text) IsNumeric() bool {
	var n json.Number = json.Number(t)
	_, err := n.Float64()
	return t != "" && err == nil
}
