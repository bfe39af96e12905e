// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes and severities used by the dashscript
//              engine, its store and its servers.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.2.0: Command language and storage codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Command language
	CodeSyntax         Code = "DSL_SYNTAX"
	CodeUnknownCommand Code = "DSL_UNKNOWN_COMMAND"
	CodeRequiredField  Code = "DSL_REQUIRED_FIELD"
	CodeInvalidValue   Code = "DSL_INVALID_VALUE"
	CodeEmptyUpdate    Code = "DSL_EMPTY_UPDATE"

	// Document mutation
	CodeInvariant Code = "MUTATION_INVARIANT"

	// Infrastructure
	CodeConfig   Code = "CONFIG_ERROR"
	CodeStorage  Code = "STORAGE_ERROR"
	CodeConflict Code = "CONFLICT"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeSyntax, CodeUnknownCommand, CodeRequiredField, CodeInvalidValue, CodeEmptyUpdate:
		return "compile"
	case CodeInvariant:
		return "mutation"
	case CodeConfig:
		return "configuration"
	case CodeStorage, CodeConflict:
		return "storage"
	default:
		return "generic"
	}
}

// HTTPStatus returns the HTTP status code that matches the error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return 404
	case CodeInvalidInput, CodeSyntax, CodeUnknownCommand, CodeRequiredField, CodeInvalidValue, CodeEmptyUpdate:
		return 400
	case CodeConflict:
		return 409
	case CodeTimeout:
		return 408
	default:
		return 500
	}
}

// DefaultSeverity returns the severity attached to the code by WithCode
func (c Code) DefaultSeverity() Severity {
	switch c {
	case CodeInvariant, CodeInternal:
		return SeverityCritical
	case CodeStorage, CodeConfig:
		return SeverityHigh
	case CodeSyntax, CodeUnknownCommand, CodeRequiredField, CodeInvalidValue, CodeEmptyUpdate, CodeInvalidInput:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow covers invalid user input
	SeverityLow Severity = iota
	// SeverityMedium covers failures with a workaround
	SeverityMedium
	// SeverityHigh covers storage and configuration failures
	SeverityHigh
	// SeverityCritical covers broken internal invariants
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
