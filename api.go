package jsonstream

import (
	"context"
	"io"

	"github.com/viant/jsonstream/descriptor"
)

var defaultEngine = newEngine(mustResolve())

func mustResolve() Options {
	options, err := resolveOptions(nil)
	if err != nil {
		panic(err)
	}
	return options
}

func engineFor(opts []Option) (*Engine, error) {
	if len(opts) == 0 {
		return defaultEngine, nil
	}
	return NewEngine(opts...)
}

// Deserialize reads one value of d's type from data.
func Deserialize(data []byte, d *descriptor.Descriptor, opts ...Option) (interface{}, error) {
	engine, err := engineFor(opts)
	if err != nil {
		return nil, err
	}
	return engine.Deserialize(data, d)
}

// DeserializeStream reads one value of d's type from r.
func DeserializeStream(ctx context.Context, r io.Reader, d *descriptor.Descriptor, opts ...Option) (interface{}, error) {
	engine, err := engineFor(opts)
	if err != nil {
		return nil, err
	}
	return engine.DeserializeStream(ctx, r, d)
}

// DeserializeAsync reads one value of d's type from r in its own goroutine.
func DeserializeAsync(ctx context.Context, r io.Reader, d *descriptor.Descriptor, opts ...Option) *Pending {
	engine, err := engineFor(opts)
	if err != nil {
		pending := newPending()
		pending.resolve(nil, err)
		return pending
	}
	return engine.DeserializeAsync(ctx, r, d)
}

// Serialize writes value as d's type.
func Serialize(value interface{}, d *descriptor.Descriptor, opts ...Option) ([]byte, error) {
	engine, err := engineFor(opts)
	if err != nil {
		return nil, err
	}
	return engine.Serialize(value, d)
}

// SerializeTo writes value as d's type to w.
func SerializeTo(w io.Writer, value interface{}, d *descriptor.Descriptor, opts ...Option) error {
	engine, err := engineFor(opts)
	if err != nil {
		return err
	}
	return engine.SerializeTo(w, value, d)
}

// Marshal writes value using the descriptor of its dynamic type.
func Marshal(value interface{}, opts ...Option) ([]byte, error) {
	engine, err := engineFor(opts)
	if err != nil {
		return nil, err
	}
	return engine.Marshal(value)
}

// Unmarshal reads data into dest, a non-nil pointer.
func Unmarshal(data []byte, dest interface{}, opts ...Option) error {
	engine, err := engineFor(opts)
	if err != nil {
		return err
	}
	return engine.Unmarshal(data, dest)
}

// UnmarshalStream reads r into dest, a non-nil pointer.
func UnmarshalStream(ctx context.Context, r io.Reader, dest interface{}, opts ...Option) error {
	engine, err := engineFor(opts)
	if err != nil {
		return err
	}
	return engine.UnmarshalStream(ctx, r, dest)
}

// Decode reads data as T.
func Decode[T any](data []byte, opts ...Option) (T, error) {
	var ret T
	err := Unmarshal(data, &ret, opts...)
	return ret, err
}

// DecodeStream reads r as T.
func DecodeStream[T any](ctx context.Context, r io.Reader, opts ...Option) (T, error) {
	var ret T
	err := UnmarshalStream(ctx, r, &ret, opts...)
	return ret, err
}
