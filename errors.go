package jsonstream

import "github.com/viant/jsonstream/jsonerr"

var (
	ErrInvalidArgument      = jsonerr.ErrInvalidArgument
	ErrMalformedInput       = jsonerr.ErrMalformedInput
	ErrUnexpectedEndOfInput = jsonerr.ErrUnexpectedEndOfInput
	ErrTypeMismatch         = jsonerr.ErrTypeMismatch
)

// Error carries the kind, byte offset and JSON path of a failure.
type Error = jsonerr.Error
