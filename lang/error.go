package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput    = NewError("failed to read input")
	ErrLex          = NewError("lex error")
	ErrIntegerRange = NewError("integer literal out of range")

	ErrUnexpectedToken  = NewError("unexpected token")
	ErrUnexpectedEnd    = NewError("unexpected end of input")
	ErrTrailingInput    = NewError("unexpected trailing input")
	ErrMaxDepthExceeded = NewError("maximum nesting depth exceeded")

	ErrIllegalOperator        = NewError("illegal operator")
	ErrTypeMismatch           = NewError("type mismatch")
	ErrExpectedValue          = NewError("expected a value")
	ErrUnexpectedContinuation = NewError("unexpected continuation `...`")
	ErrDomain                 = NewError("domain error")

	ErrVerifyMismatch = NewError("verification mismatch")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	err   error       // Wrapped error (for errors.Unwrap)
	pos   *Position   // Source location, if known
	msg   string      // Sentinel message
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg> at <line>:<col>: <err>", omitting any
// part that is not set.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos != nil {
		sb.WriteString(" at ")
		sb.WriteString(e.pos.String())
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return t.msg == e.msg && t.err == nil
}

// Position returns the source location of the error, if one was recorded.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.String("position", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}

// WithPosition returns a copy of the error located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   &pos,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   e.pos,
		attrs: newAttrs,
	}
}
