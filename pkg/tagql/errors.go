package tagql

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Parse, Compile, ParseAndCompile and
// ParseTagList is an *Error whose Kind is one of these values, so callers can
// test with errors.Is.
var (
	ErrEmptyQuery          = errors.New("empty query")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnexpectedEOF       = errors.New("unexpected end of input")
	ErrUnterminatedGroup   = errors.New("unterminated group")
	ErrTrailingInput       = errors.New("trailing input")
	ErrRegexCompile        = errors.New("invalid regular expression")
	ErrInvalidOperator     = errors.New("invalid operator")
)

// NoPos is the position of errors that are not tied to an input offset.
const NoPos = -1

// Error describes a parse or compile failure.
//
// Syntax errors carry the byte offset of the offending input in Pos.
// Compile errors carry the offending Pattern (and Op for ErrInvalidOperator)
// and have Pos set to NoPos.
type Error struct {
	Kind    error
	Pos     int
	Pattern string
	Op      CompareOp
	// Err is the underlying cause, if any (e.g. a *syntax.Error from regexp).
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrRegexCompile:
		return fmt.Sprintf("%v %q: %v", e.Kind, e.Pattern, e.Err)
	case ErrInvalidOperator:
		return fmt.Sprintf("%v %s: %q is not an integer", e.Kind, e.Op, e.Pattern)
	}
	msg := e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Pos == NoPos {
		return msg
	}
	return fmt.Sprintf("offset %d: %s", e.Pos, msg)
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func syntaxError(kind error, pos int) *Error {
	return &Error{Kind: kind, Pos: pos}
}

func syntaxErrorf(kind error, pos int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Err: fmt.Errorf(format, args...)}
}
