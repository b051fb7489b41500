// Package errcode defines the stable public error vocabulary the analysis
// engine emits. Errors are accumulated, never thrown: every function that
// can fail either returns a value plus a recorded Error, or appends directly
// to a shared Context (see internal/driver).
package errcode

import (
	"fmt"

	"github.com/vela-lang/vela/internal/ast"
)

// Kind is the stable, public error variant tag. Values are part of the
// engine's API surface and must not be renumbered.
type Kind string

const (
	DuplicateClassName   Kind = "DuplicateClassName"
	DuplicateClassItem   Kind = "DuplicateClassItem"
	DuplicateMemberItem  Kind = "DuplicateMemberItem"
	DuplicateGenName     Kind = "DuplicateGenName"
	NoSuchClass          Kind = "NoSuchClass"
	NoSuchClassItem      Kind = "NoSuchClassItem"
	MissingClassItem     Kind = "MissingClassItem"
	MissingLangItem      Kind = "MissingLangItem"
	Unsupported          Kind = "Unsupported"
	CannotCoerce         Kind = "CannotCoerce"
	CannotInfer          Kind = "CannotInfer"
	Recursive            Kind = "Recursive"
	RecursiveAlias       Kind = "RecursiveAlias"
	NoSuchItem           Kind = "NoSuchItem"
	InvalidUnaryOp       Kind = "InvalidUnaryOp"
	InvalidBinaryOp      Kind = "InvalidBinaryOp"
	TypeDoesNotFulfil    Kind = "TypeDoesNotFulfil"
	PatternNotSupported  Kind = "PatternNotSupported"
	AmbiguousClassItem   Kind = "AmbiguousClassItem"
	NonNumeric           Kind = "NonNumeric"
	CoherenceViolation   Kind = "CoherenceViolation"
)

// Error is one diagnostic produced by the engine.
type Error struct {
	Kind    Kind
	Span    ast.Span
	Message string

	// Info carries variant-specific structured detail (e.g. the two types
	// that failed to flow, or the list of candidate classes for an
	// ambiguous item). Callers that only need the message can ignore it.
	Info map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Span, e.Kind, e.Message)
}

// New builds an Error with no extra info.
func New(kind Kind, span ast.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}

// WithInfo attaches structured detail to an Error and returns it, for
// convenient chaining at the call site.
func (e *Error) WithInfo(key string, val any) *Error {
	if e.Info == nil {
		e.Info = make(map[string]any)
	}
	e.Info[key] = val
	return e
}

// List is an accumulated, ordered batch of errors.
type List []*Error

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%d errors (first: %s)", len(l), l[0].Error())
	}
}

// HasKind reports whether any error in the list has the given kind.
func (l List) HasKind(k Kind) bool {
	for _, e := range l {
		if e.Kind == k {
			return true
		}
	}
	return false
}
