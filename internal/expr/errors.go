package expr

import (
	"fmt"
	"strings"
)

// SyntaxError reports malformed expression text at parse time.
type SyntaxError struct {
	Pos     Position
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", e.Pos, e.Message)
}

// NewSyntaxErrorf creates a SyntaxError with a formatted message.
func NewSyntaxErrorf(pos Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// ErrorList collects syntax errors encountered during lexing and parsing.
type ErrorList struct {
	errors []*SyntaxError
}

// NewErrorList creates an empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *SyntaxError) {
	el.errors = append(el.errors, err)
}

// AddErrorf creates and adds an error with a formatted message.
func (el *ErrorList) AddErrorf(pos Position, format string, args ...any) {
	el.errors = append(el.errors, NewSyntaxErrorf(pos, format, args...))
}

// Len returns the number of errors.
func (el *ErrorList) Len() int {
	return len(el.errors)
}

// HasErrors returns true if there are any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.errors) > 0
}

// Errors returns a copy of the error slice.
func (el *ErrorList) Errors() []*SyntaxError {
	result := make([]*SyntaxError, len(el.errors))
	copy(result, el.errors)
	return result
}

// Error implements the error interface, returning all errors joined by newlines.
func (el *ErrorList) Error() string {
	if len(el.errors) == 0 {
		return ""
	}
	if len(el.errors) == 1 {
		return el.errors[0].Error()
	}
	var sb strings.Builder
	for i, err := range el.errors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Err returns nil if there are no errors, otherwise the ErrorList as an error.
func (el *ErrorList) Err() error {
	if len(el.errors) == 0 {
		return nil
	}
	return el
}

// UnresolvedSymbolError reports a symbol or object name with no binding
// reachable through the scope chain.
type UnresolvedSymbolError struct {
	Symbol string
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("unresolved symbol %q", e.Symbol)
}

// CyclicDependencyError reports resolution that recursed back through a
// symbol it was already resolving.
type CyclicDependencyError struct {
	Symbol string
}

func (e *CyclicDependencyError) Error() string {
	if e.Symbol == "" {
		return "cyclic dependency during expression resolution"
	}
	return fmt.Sprintf("cyclic dependency while resolving %q", e.Symbol)
}

// DivisionByZeroError reports a division whose denominator resolved to zero.
// Division by zero is a resolution failure, never a silent infinity.
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string {
	return "division by zero"
}

// UnsupportedReverseSolveError reports a reverse solve that is not linear in
// exactly one occurrence of the unknown.
type UnsupportedReverseSolveError struct {
	Symbol string
	Reason string
}

func (e *UnsupportedReverseSolveError) Error() string {
	return fmt.Sprintf("cannot solve for %q: %s", e.Symbol, e.Reason)
}
