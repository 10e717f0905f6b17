// Package unmarshal materializes typed values from JSON tokens guided by descriptors.
package unmarshal

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"unsafe"

	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/token"
	"github.com/viant/tagly/format/text"
	"github.com/viant/xunsafe"
)

type UnknownFieldPolicy int

const (
	IgnoreUnknown UnknownFieldPolicy = iota
	ErrorOnUnknown
)

type NumberPolicy int

const (
	ExactNumbers NumberPolicy = iota
	NumbersFromString
)

type DuplicateKeyPolicy int

const (
	LastWins DuplicateKeyPolicy = iota
	ErrorOnDuplicate
)

type RequiredPolicy int

const (
	ZeroMissing RequiredPolicy = iota
	ErrorOnMissing
)

// DefaultBufferSize is the initial stream buffer size.
const DefaultBufferSize = 16 * 1024

// Options configures an Engine.
type Options struct {
	Token              token.Options
	IncludeFields      bool
	CaseInsensitive    bool
	CaseFormat         text.CaseFormat
	TimeLayout         string
	UnknownFieldPolicy UnknownFieldPolicy
	NumberPolicy       NumberPolicy
	DuplicateKeyPolicy DuplicateKeyPolicy
	RequiredPolicy     RequiredPolicy
	BufferSize         int
	Logger             *slog.Logger
}

type decodeFn func(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer, tok token.Token) error

// Engine decodes JSON into memory laid out as a descriptor's type. It is immutable and safe for concurrent use.
type Engine struct {
	Options
	table descriptor.Table[decodeFn]
}

// New creates an engine.
func New(options Options) *Engine {
	if options.BufferSize <= 0 {
		options.BufferSize = DefaultBufferSize
	}
	return &Engine{
		Options: options,
		table: descriptor.Table[decodeFn]{
			Primitive:  decodePrimitive,
			Aggregate:  decodeAggregate,
			Collection: decodeCollection,
			Dynamic:    decodeDynamic,
			Custom:     decodeCustom,
		},
	}
}

// Unmarshal decodes a complete document into ptr, which must point to a value of d.Type().
func (e *Engine) Unmarshal(data []byte, d *descriptor.Descriptor, ptr unsafe.Pointer) error {
	return e.Decode(NewSource(data, e.Token), d, ptr)
}

// UnmarshalStream decodes a document read from r into ptr.
func (e *Engine) UnmarshalStream(ctx context.Context, r io.Reader, d *descriptor.Descriptor, ptr unsafe.Pointer) error {
	src, err := NewStreamSource(ctx, r, e.BufferSize, e.Token, e.Logger)
	if err != nil {
		return err
	}
	return e.Decode(src, d, ptr)
}

// Decode reads exactly one top-level value from src into ptr.
func (e *Engine) Decode(src *Source, d *descriptor.Descriptor, ptr unsafe.Pointer) error {
	if d == nil {
		return jsonerr.InvalidArgument("descriptor was nil")
	}
	s := &session{Engine: e, src: src}
	tok, err := s.next()
	if err != nil {
		return err
	}
	if err = s.decode(d, ptr, tok); err != nil {
		return err
	}
	if tok, err = s.next(); err != nil {
		return err
	}
	if tok.Kind != token.End {
		return jsonerr.Malformed(src.Offset(), "unexpected %s after top-level value", tok.Kind)
	}
	return nil
}

func (s *session) decode(d *descriptor.Descriptor, ptr unsafe.Pointer, tok token.Token) error {
	if tok.Kind == token.Null && d.Kind() != descriptor.Dynamic {
		reflect.NewAt(d.Type(), ptr).Elem().SetZero()
		return nil
	}
	if d.Kind() == descriptor.Nullable {
		return s.decode(d.Elem(), xunsafe.SafeDerefPointer(ptr, d.Type()), tok)
	}
	return s.table.Resolve(d)(s, d, ptr, tok)
}
