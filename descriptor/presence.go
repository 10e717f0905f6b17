package descriptor

import (
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

// Presence records which fields of an aggregate were read, in a sibling
// struct of booleans named after the fields.
type Presence struct {
	holder     *xunsafe.Field
	holderType reflect.Type
	flags      []*xunsafe.Field
}

func newPresence(sf reflect.StructField) *Presence {
	holderType := sf.Type
	if holderType.Kind() == reflect.Ptr {
		holderType = holderType.Elem()
	}
	if holderType.Kind() != reflect.Struct {
		return nil
	}
	return &Presence{holder: xunsafe.NewField(sf), holderType: sf.Type}
}

func (p *Presence) bind(fields []*Field) {
	flagsType := p.holderType
	if flagsType.Kind() == reflect.Ptr {
		flagsType = flagsType.Elem()
	}
	p.flags = make([]*xunsafe.Field, len(fields))
	for _, field := range fields {
		if flag, ok := flagsType.FieldByName(field.GoName); ok && flag.Type.Kind() == reflect.Bool && len(flag.Index) == 1 {
			p.flags[field.Index] = xunsafe.NewField(flag)
		}
	}
}

// Mark flags field as present, allocating a nil holder.
func (p *Presence) Mark(structPtr unsafe.Pointer, field *Field) {
	flag := p.flags[field.Index]
	if flag == nil {
		return
	}
	flag.SetBool(p.holderPointer(structPtr), true)
}

func (p *Presence) holderPointer(structPtr unsafe.Pointer) unsafe.Pointer {
	if p.holderType.Kind() != reflect.Ptr {
		return p.holder.Pointer(structPtr)
	}
	if holderPtr := p.holder.ValuePointer(structPtr); holderPtr != nil {
		return holderPtr
	}
	p.holder.SetValue(structPtr, reflect.New(p.holderType.Elem()).Interface())
	return p.holder.ValuePointer(structPtr)
}
