// Package marshal writes JSON from typed values guided by descriptors.
package marshal

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/token"
	"github.com/viant/tagly/format/text"
)

type NilSlicePolicy int

const (
	NilSliceAsNull NilSlicePolicy = iota
	NilSliceAsEmptyArray
)

// Options configures an Engine.
type Options struct {
	IncludeFields  bool
	OmitEmpty      bool
	NilSlicePolicy NilSlicePolicy
	CaseFormat     text.CaseFormat
	TimeLayout     string
	Indent         string
	MaxDepth       int
}

type encodeFn func(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer) error

// Engine writes values as JSON. It is immutable and safe for concurrent use.
type Engine struct {
	Options
	table descriptor.Table[encodeFn]
}

type session struct {
	*Engine
	buf   []byte
	depth int
}

var sessionPool = sync.Pool{New: func() interface{} { return &session{buf: make([]byte, 0, 256)} }}

func acquireSession(e *Engine) *session {
	s := sessionPool.Get().(*session)
	s.Engine = e
	s.buf = s.buf[:0]
	s.depth = 0
	return s
}

func releaseSession(s *session) {
	const maxPooledCap = 64 << 10
	if cap(s.buf) > maxPooledCap {
		s.buf = make([]byte, 0, 256)
	}
	s.Engine = nil
	sessionPool.Put(s)
}

// New creates an engine.
func New(options Options) *Engine {
	if options.MaxDepth <= 0 {
		options.MaxDepth = token.DefaultMaxDepth
	}
	return &Engine{
		Options: options,
		table: descriptor.Table[encodeFn]{
			Primitive:  encodePrimitive,
			Aggregate:  encodeAggregate,
			Collection: encodeCollection,
			Dynamic:    encodeDynamic,
			Custom:     encodeCustom,
		},
	}
}

// Marshal writes value, which must be of d.Type() or a pointer to it.
func (e *Engine) Marshal(value interface{}, d *descriptor.Descriptor) ([]byte, error) {
	return e.MarshalTo(nil, value, d)
}

// MarshalTo appends the JSON text of value to dst; on failure dst is returned unchanged.
func (e *Engine) MarshalTo(dst []byte, value interface{}, d *descriptor.Descriptor) ([]byte, error) {
	s := acquireSession(e)
	defer releaseSession(s)
	if err := s.marshal(value, d); err != nil {
		return dst, err
	}
	if e.Indent != "" {
		return token.Indent(dst, s.buf, e.Indent)
	}
	return append(dst, s.buf...), nil
}

func (s *session) marshal(value interface{}, d *descriptor.Descriptor) error {
	if d == nil {
		return jsonerr.InvalidArgument("descriptor was nil")
	}
	if value == nil {
		s.buf = append(s.buf, "null"...)
		return nil
	}
	target, ptr, err := resolve(d, reflect.ValueOf(value))
	if err != nil {
		return err
	}
	if ptr == nil {
		s.buf = append(s.buf, "null"...)
		return nil
	}
	return s.encode(target, ptr)
}

// resolve returns the descriptor and address to write rv with; a nil address stands for null.
func resolve(d *descriptor.Descriptor, rv reflect.Value) (*descriptor.Descriptor, unsafe.Pointer, error) {
	for {
		t := rv.Type()
		switch {
		case t == d.Type():
			holder := reflect.New(t)
			holder.Elem().Set(rv)
			return d, holder.UnsafePointer(), nil
		case t.Kind() == reflect.Ptr && t.Elem() == d.Type():
			if rv.IsNil() {
				return d, nil, nil
			}
			return d, rv.UnsafePointer(), nil
		case d.Kind() == descriptor.Nullable:
			d = d.Elem()
		case d.Kind() == descriptor.Dynamic:
			runtime, err := descriptor.For(t)
			if err != nil {
				return nil, nil, err
			}
			d = runtime
		default:
			return nil, nil, jsonerr.Mismatch(-1, "%s cannot be written as %s", t, d.Type())
		}
	}
}

func (s *session) encode(d *descriptor.Descriptor, ptr unsafe.Pointer) error {
	if d.Kind() == descriptor.Nullable {
		elem := *(*unsafe.Pointer)(ptr)
		if elem == nil {
			s.buf = append(s.buf, "null"...)
			return nil
		}
		return s.encode(d.Elem(), elem)
	}
	return s.table.Resolve(d)(s, d, ptr)
}

func (s *session) enter(d *descriptor.Descriptor) error {
	if s.depth++; s.depth > s.MaxDepth {
		return jsonerr.InvalidArgument("exceeded max depth %d writing %s, value may be cyclic", s.MaxDepth, d.Type())
	}
	return nil
}

func (s *session) leave() { s.depth-- }
