package main

import (
	"fmt"
	"strings"
)

// DiagKind classifies a user-facing diagnostic. Every kind is
// recoverable: analysis keeps going and synthesizes the error type
// upward. Bugs in the analyzer itself are not diagnostics; they are
// returned as ordinary Go errors and abort the run.
type DiagKind int

const (
	DiagSyntax DiagKind = iota
	DiagDeclaration
	DiagType
	DiagControlFlow
)

func (k DiagKind) String() string {
	switch k {
	case DiagSyntax:
		return "syntax error"
	case DiagDeclaration:
		return "declaration error"
	case DiagType:
		return "type error"
	case DiagControlFlow:
		return "control-flow error"
	default:
		return "error"
	}
}

// Diagnostic is a single finding tied to a source line.
type Diagnostic struct {
	Kind    DiagKind
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}

// ErrorCollection accumulates diagnostics in source order.
type ErrorCollection struct {
	errors []Diagnostic
}

// Add records a diagnostic.
func (ec *ErrorCollection) Add(kind DiagKind, line int, format string, args ...interface{}) {
	ec.errors = append(ec.errors, Diagnostic{
		Kind:    kind,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any diagnostic was recorded.
func (ec *ErrorCollection) HasErrors() bool {
	return len(ec.errors) > 0
}

// Count returns the number of recorded diagnostics.
func (ec *ErrorCollection) Count() int {
	return len(ec.errors)
}

// Diagnostics returns the recorded diagnostics in order.
func (ec *ErrorCollection) Diagnostics() []Diagnostic {
	return ec.errors
}

// String formats all diagnostics, one per line.
func (ec *ErrorCollection) String() string {
	var sb strings.Builder
	for i, d := range ec.errors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}
