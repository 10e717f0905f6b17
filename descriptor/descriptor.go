// Package descriptor describes the JSON shape of Go types.
//
// A Descriptor is built once per reflect.Type, cached process wide and never
// mutated afterwards, so it can be shared by concurrent calls.
package descriptor

import (
	"reflect"
	"unsafe"
)

// Kind is the closed set of descriptor variants.
type Kind uint8

const (
	Primitive Kind = iota + 1
	Nullable
	Aggregate
	Collection
	Dictionary
	Dynamic
	Custom
)

var kindNames = map[Kind]string{
	Primitive:  "primitive",
	Nullable:   "nullable",
	Aggregate:  "aggregate",
	Collection: "collection",
	Dictionary: "dictionary",
	Dynamic:    "dynamic",
	Custom:     "custom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Codec flags the user-defined converters a Custom type implements.
type Codec uint8

const (
	JSONMarshaler Codec = 1 << iota
	JSONUnmarshaler
	TextMarshaler
	TextUnmarshaler
	ObjectMarshaler
	ObjectUnmarshaler
)

// Has reports whether all flags in c are set.
func (c Codec) Has(flag Codec) bool { return c&flag == flag }

// Marshals reports whether c writes values itself.
func (c Codec) Marshals() bool { return c&(JSONMarshaler|TextMarshaler|ObjectMarshaler) != 0 }

// Unmarshals reports whether c reads values itself.
func (c Codec) Unmarshals() bool { return c&(JSONUnmarshaler|TextUnmarshaler|ObjectUnmarshaler) != 0 }

// Descriptor is the immutable JSON shape of a Go type.
type Descriptor struct {
	kind      Kind
	rType     reflect.Type
	primitive reflect.Kind
	elem      *Descriptor
	length    int
	fields    []*Field
	names     *Names
	codec     Codec
	fallback  *Descriptor
	presence  *Presence
	isTime    bool
}

// Kind returns the descriptor variant.
func (d *Descriptor) Kind() Kind { return d.kind }

// Type returns the described Go type.
func (d *Descriptor) Type() reflect.Type { return d.rType }

// Primitive returns the reflect kind of a Primitive descriptor.
func (d *Descriptor) Primitive() reflect.Kind { return d.primitive }

// Elem returns the element of a Nullable, Collection or Dictionary descriptor.
func (d *Descriptor) Elem() *Descriptor { return d.elem }

// Len returns the fixed length of an array collection, or -1 for slices.
func (d *Descriptor) Len() int { return d.length }

// Fields returns the precomputed field table of an Aggregate.
func (d *Descriptor) Fields() []*Field { return d.fields }

// Codec returns the converters implemented by a Custom type.
func (d *Descriptor) Codec() Codec { return d.codec }

// Fallback returns the structural descriptor used for the direction a Custom type does not handle.
func (d *Descriptor) Fallback() *Descriptor { return d.fallback }

// Presence returns the presence marker of an Aggregate, or nil.
func (d *Descriptor) Presence() *Presence { return d.presence }

// IsTime reports whether the descriptor (or its nullable element) is time.Time.
func (d *Descriptor) IsTime() bool {
	if d.kind == Nullable {
		return d.elem.IsTime()
	}
	return d.isTime
}

// Base strips Nullable wrappers.
func (d *Descriptor) Base() *Descriptor {
	for d.kind == Nullable {
		d = d.elem
	}
	return d
}

// Accepts reports whether a value of type t can be written with d.
func (d *Descriptor) Accepts(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if d.kind == Dynamic || t == d.rType {
		return true
	}
	if t.Kind() == reflect.Ptr && t.Elem() == d.rType {
		return true
	}
	return d.kind == Nullable && d.elem.Accepts(t)
}

// New allocates a zero value of the described type and returns a pointer to it.
func (d *Descriptor) New() (reflect.Value, unsafe.Pointer) {
	v := reflect.New(d.rType)
	return v, v.UnsafePointer()
}

func (d *Descriptor) String() string {
	return d.kind.String() + "(" + d.rType.String() + ")"
}
