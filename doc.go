// Package jsonstream converts between JSON text and Go values described by
// descriptors.
//
// A descriptor (see package descriptor) captures the JSON shape of a Go type
// once and is shared by every call. Deserialize reads a complete document,
// DeserializeStream reads from an io.Reader through a growing buffer and
// produces the same value however the input is fragmented, and Serialize
// writes a value back. A Dynamic descriptor materializes untyped JSON as a
// document.Element.
//
//	d := descriptor.MustOf[Order]()
//	value, err := jsonstream.Deserialize(data, d)
//	order := value.(Order)
//
// Errors match one of ErrInvalidArgument, ErrMalformedInput,
// ErrUnexpectedEndOfInput or ErrTypeMismatch with errors.Is, and carry the
// byte offset and JSON path of the failure.
package jsonstream
