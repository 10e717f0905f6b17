// Package jsonerr defines the error taxonomy shared by the reader, materializer and writer.
package jsonerr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument reports a rejected request: missing descriptor, bad configuration, unsupported value.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedInput reports JSON that violates the grammar.
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnexpectedEndOfInput reports a source exhausted inside a value; it also matches ErrMalformedInput.
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	// ErrTypeMismatch reports well-formed JSON that cannot be represented by the target descriptor.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Error is a positioned error of one of the sentinel kinds.
type Error struct {
	Kind   error
	Offset int64
	Path   string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	sb := strings.Builder{}
	sb.WriteString(e.Kind.Error())
	if e.Offset >= 0 {
		sb.WriteString(" at offset ")
		sb.WriteString(strconv.FormatInt(e.Offset, 10))
	}
	if e.Path != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Path)
		sb.WriteString(")")
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Is matches the error kind; end of input is also malformed input.
func (e *Error) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	return e.Kind == ErrUnexpectedEndOfInput && target == ErrMalformedInput
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind error, offset int64, format string, args []interface{}) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Offset: offset, Msg: msg}
}

// Malformed creates a malformed input error at offset.
func Malformed(offset int64, format string, args ...interface{}) *Error {
	return newError(ErrMalformedInput, offset, format, args)
}

// EndOfInput creates an unexpected end of input error at offset.
func EndOfInput(offset int64, format string, args ...interface{}) *Error {
	return newError(ErrUnexpectedEndOfInput, offset, format, args)
}

// Mismatch creates a type mismatch error at offset.
func Mismatch(offset int64, format string, args ...interface{}) *Error {
	return newError(ErrTypeMismatch, offset, format, args)
}

// InvalidArgument creates an invalid argument error; it carries no offset.
func InvalidArgument(format string, args ...interface{}) *Error {
	return newError(ErrInvalidArgument, -1, format, args)
}

// Wrap classifies cause under kind, keeping it reachable through errors.Is/As.
func Wrap(kind error, offset int64, cause error, format string, args ...interface{}) *Error {
	ret := newError(kind, offset, format, args)
	ret.Err = errors.WithStack(cause)
	return ret
}

// Rebase shifts a buffer-relative offset to an absolute stream offset.
func Rebase(err error, base int64) error {
	if base == 0 {
		return err
	}
	var e *Error
	if errors.As(err, &e) && e.Offset >= 0 {
		e.Offset += base
	}
	return err
}

// WithPath attaches path to err when it has none yet.
func WithPath(err error, path string) error {
	if path == "" {
		return err
	}
	var e *Error
	if errors.As(err, &e) && e.Path == "" {
		e.Path = path
	}
	return err
}

// KindOf returns the sentinel classifying err, or nil for foreign errors.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, kind := range []error{ErrInvalidArgument, ErrUnexpectedEndOfInput, ErrMalformedInput, ErrTypeMismatch} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
