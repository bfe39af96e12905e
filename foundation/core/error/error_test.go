// File: error_test.go
// Title: Core Error Tests
// Description: Tests for the structured Error type
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.2.0: Initial tests

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("something broke")

	if err.Error() != "something broke" {
		t.Errorf("Expected message 'something broke', got %q", err.Error())
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Expected code %s, got %s", CodeUnknown, err.Code())
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Expected severity medium, got %s", err.Severity())
	}
	if err.Timestamp().IsZero() {
		t.Error("Expected timestamp to be set")
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code     Code
		severity Severity
	}{
		{CodeSyntax, SeverityLow},
		{CodeUnknownCommand, SeverityLow},
		{CodeStorage, SeverityHigh},
		{CodeInvariant, SeverityCritical},
		{CodeNotFound, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.severity {
				t.Errorf("Expected severity %s, got %s", tt.severity, err.Severity())
			}
		})
	}

	err := New("x").WithCode(CodeSyntax).WithSeverity(SeverityHigh)
	if err.Severity() != SeverityHigh {
		t.Errorf("Expected explicit severity to win, got %s", err.Severity())
	}
}

func TestWrapInheritsCode(t *testing.T) {
	inner := New("row missing").WithCode(CodeNotFound).WithDetail("id", "doc-1").WithOperation("store.Get")
	outer := Wrap(inner, "load document")

	if outer.Code() != CodeNotFound {
		t.Errorf("Expected wrapped code %s, got %s", CodeNotFound, outer.Code())
	}
	if outer.Operation() != "store.Get" {
		t.Errorf("Expected operation to be inherited, got %q", outer.Operation())
	}
	if outer.Details()["id"] != "doc-1" {
		t.Errorf("Expected detail id=doc-1, got %v", outer.Details()["id"])
	}
	if outer.Error() != "load document: row missing" {
		t.Errorf("Unexpected message %q", outer.Error())
	}
	if !errors.Is(outer, inner) {
		t.Error("Expected errors.Is to find the inner error")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "nothing") != nil {
		t.Error("Expected Wrap(nil) to return nil")
	}
}

func TestWrapStandardError(t *testing.T) {
	base := fmt.Errorf("disk full")
	err := Wrap(base, "save revision")

	if err.Code() != CodeUnknown {
		t.Errorf("Expected unknown code, got %s", err.Code())
	}
	if !errors.Is(err, base) {
		t.Error("Expected errors.Is to match the standard cause")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("apply: %w", New("gone").WithCode(CodeNotFound))
	target := New("").WithCode(CodeNotFound)

	if !errors.Is(err, target) {
		t.Error("Expected errors.Is to match on code")
	}
	if errors.Is(err, New("").WithCode(CodeStorage)) {
		t.Error("Expected different code not to match")
	}
	if errors.Is(err, New("")) {
		t.Error("Expected CodeUnknown target never to match")
	}
}

func TestGetCodeThroughChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", New("bad").WithCode(CodeConfig))
	if GetCode(err) != CodeConfig {
		t.Errorf("Expected %s, got %s", CodeConfig, GetCode(err))
	}
	if !HasCode(err, CodeConfig) {
		t.Error("Expected HasCode to be true")
	}
	if GetCode(fmt.Errorf("plain")) != CodeUnknown {
		t.Error("Expected CodeUnknown for plain errors")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(fmt.Errorf("locked"), "save").WithCode(CodeConflict).WithDetail("doc", "d1")

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Unexpected marshal error: %v", jerr)
	}

	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("Unexpected unmarshal error: %v", jerr)
	}
	if decoded["code"] != string(CodeConflict) {
		t.Errorf("Expected code CONFLICT, got %v", decoded["code"])
	}
	if decoded["cause"] != "locked" {
		t.Errorf("Expected cause 'locked', got %v", decoded["cause"])
	}
}

func TestStringIncludesDetails(t *testing.T) {
	s := New("bad").WithCode(CodeInvalidValue).WithDetail("b", 2).WithDetail("a", 1).String()
	if !strings.Contains(s, "Details: {a=1, b=2}") {
		t.Errorf("Expected sorted details in %q", s)
	}
}

func TestCodeHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeNotFound:       404,
		CodeSyntax:         400,
		CodeUnknownCommand: 400,
		CodeConflict:       409,
		CodeInvariant:      500,
	}
	for code, want := range tests {
		if got := code.HTTPStatus(); got != want {
			t.Errorf("%s: expected %d, got %d", code, want, got)
		}
	}
}
