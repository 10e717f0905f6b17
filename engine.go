package jsonstream

import (
	"context"
	"io"
	"reflect"

	"github.com/pkg/errors"
	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/marshal"
	"github.com/viant/jsonstream/token"
	"github.com/viant/jsonstream/unmarshal"
)

// Engine holds resolved options; it is immutable and safe for concurrent use.
type Engine struct {
	options     Options
	unmarshaler *unmarshal.Engine
	marshaler   *marshal.Engine
}

// NewEngine resolves and validates opts.
func NewEngine(opts ...Option) (*Engine, error) {
	options, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return newEngine(options), nil
}

func newEngine(options Options) *Engine {
	return &Engine{
		options: options,
		unmarshaler: unmarshal.New(unmarshal.Options{
			Token: token.Options{
				AllowComments:       options.AllowComments,
				AllowTrailingCommas: options.AllowTrailingCommas,
				MaxDepth:            options.MaxDepth,
			},
			IncludeFields:      options.IncludeFields,
			CaseInsensitive:    options.CaseInsensitive,
			CaseFormat:         options.CaseFormat,
			TimeLayout:         options.TimeLayout,
			UnknownFieldPolicy: options.UnknownFieldPolicy,
			NumberPolicy:       options.NumberPolicy,
			DuplicateKeyPolicy: options.DuplicateKeyPolicy,
			RequiredPolicy:     options.RequiredPolicy,
			BufferSize:         options.DefaultBufferSize,
			Logger:             options.Logger,
		}),
		marshaler: marshal.New(marshal.Options{
			IncludeFields:  options.IncludeFields,
			OmitEmpty:      options.OmitEmpty,
			NilSlicePolicy: options.NilSlicePolicy,
			CaseFormat:     options.CaseFormat,
			TimeLayout:     options.TimeLayout,
			Indent:         options.Indent,
			MaxDepth:       options.MaxDepth,
		}),
	}
}

// Options returns the resolved options.
func (e *Engine) Options() Options { return e.options }

// Deserialize reads one value of d's type from data. A Dynamic descriptor
// yields a document.Element, or nil for JSON null.
func (e *Engine) Deserialize(data []byte, d *descriptor.Descriptor) (interface{}, error) {
	if d == nil {
		return nil, jsonerr.InvalidArgument("descriptor was nil")
	}
	holder, ptr := d.New()
	if err := e.unmarshaler.Unmarshal(data, d, ptr); err != nil {
		return nil, err
	}
	return holder.Elem().Interface(), nil
}

// DeserializeStream reads one value of d's type from r, blocking only while the buffer is refilled.
func (e *Engine) DeserializeStream(ctx context.Context, r io.Reader, d *descriptor.Descriptor) (interface{}, error) {
	if d == nil {
		return nil, jsonerr.InvalidArgument("descriptor was nil")
	}
	if r == nil {
		return nil, jsonerr.InvalidArgument("reader was nil")
	}
	holder, ptr := d.New()
	if err := e.unmarshaler.UnmarshalStream(ctx, r, d, ptr); err != nil {
		return nil, err
	}
	return holder.Elem().Interface(), nil
}

// DeserializeAsync runs DeserializeStream in its own goroutine.
func (e *Engine) DeserializeAsync(ctx context.Context, r io.Reader, d *descriptor.Descriptor) *Pending {
	pending := newPending()
	go func() {
		value, err := e.DeserializeStream(ctx, r, d)
		pending.resolve(value, err)
	}()
	return pending
}

// Serialize writes value, which must be of d's type or a pointer to it.
func (e *Engine) Serialize(value interface{}, d *descriptor.Descriptor) ([]byte, error) {
	return e.marshaler.Marshal(value, d)
}

// SerializeTo writes value to w.
func (e *Engine) SerializeTo(w io.Writer, value interface{}, d *descriptor.Descriptor) error {
	data, err := e.marshaler.Marshal(value, d)
	if err != nil {
		return err
	}
	if _, err = w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}

// Marshal writes value using the descriptor of its dynamic type.
func (e *Engine) Marshal(value interface{}) ([]byte, error) {
	return e.marshaler.Marshal(value, descriptor.Any())
}

// Unmarshal reads data into dest, a non-nil pointer; dest is only written on success.
func (e *Engine) Unmarshal(data []byte, dest interface{}) error {
	target, d, err := destination(dest)
	if err != nil {
		return err
	}
	holder, ptr := d.New()
	if err = e.unmarshaler.Unmarshal(data, d, ptr); err != nil {
		return err
	}
	target.Set(holder.Elem())
	return nil
}

// UnmarshalStream reads r into dest, a non-nil pointer; dest is only written on success.
func (e *Engine) UnmarshalStream(ctx context.Context, r io.Reader, dest interface{}) error {
	target, d, err := destination(dest)
	if err != nil {
		return err
	}
	if r == nil {
		return jsonerr.InvalidArgument("reader was nil")
	}
	holder, ptr := d.New()
	if err = e.unmarshaler.UnmarshalStream(ctx, r, d, ptr); err != nil {
		return err
	}
	target.Set(holder.Elem())
	return nil
}

func destination(dest interface{}) (reflect.Value, *descriptor.Descriptor, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, nil, jsonerr.InvalidArgument("destination must be a non-nil pointer, was %T", dest)
	}
	d, err := descriptor.For(rv.Type().Elem())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return rv.Elem(), d, nil
}
