package descriptor

import (
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

// Field is one entry of an Aggregate field table.
type Field struct {
	// Name is the JSON name resolved from tags, or the Go name.
	Name   string
	GoName string
	Index  int
	// Property marks a field explicitly named by a json or format tag;
	// other exported fields are data members, included only on request.
	Property   bool
	OmitEmpty  bool
	Required   bool
	TimeLayout string
	Descriptor *Descriptor

	depth int
	chain []*xunsafe.Field
}

// Included reports whether the field takes part in (de)serialization.
func (f *Field) Included(includeFields bool) bool { return f.Property || includeFields }

// Pointer returns the field address within the struct at structPtr,
// allocating nil embedded struct pointers on the way.
func (f *Field) Pointer(structPtr unsafe.Pointer) unsafe.Pointer {
	current := structPtr
	last := len(f.chain) - 1
	for i, xField := range f.chain {
		ptr := xField.Pointer(current)
		if i == last {
			return ptr
		}
		if xField.Type.Kind() != reflect.Ptr {
			current = ptr
			continue
		}
		next := (*unsafe.Pointer)(ptr)
		if *next == nil {
			*next = reflect.New(xField.Type.Elem()).UnsafePointer()
		}
		current = *next
	}
	return current
}

// ValuePointer returns the field address, or nil when an embedded struct pointer on the way is nil.
func (f *Field) ValuePointer(structPtr unsafe.Pointer) unsafe.Pointer {
	current := structPtr
	last := len(f.chain) - 1
	for i, xField := range f.chain {
		ptr := xField.Pointer(current)
		if i == last {
			return ptr
		}
		if xField.Type.Kind() != reflect.Ptr {
			current = ptr
			continue
		}
		if current = *(*unsafe.Pointer)(ptr); current == nil {
			return nil
		}
	}
	return current
}
