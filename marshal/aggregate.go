package marshal

import (
	"reflect"
	"sort"
	"unsafe"

	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/xunsafe"
)

func encodeAggregate(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer) error {
	if d.Kind() == descriptor.Dictionary {
		return encodeDictionary(s, d, ptr)
	}
	if err := s.enter(d); err != nil {
		return err
	}
	defer s.leave()
	names := d.Names(s.CaseFormat)
	s.buf = append(s.buf, '{')
	count := 0
	for _, field := range d.Fields() {
		if !field.Included(s.IncludeFields) || names.Shadowed(field) {
			continue
		}
		fieldPtr := field.ValuePointer(ptr)
		if fieldPtr == nil {
			continue
		}
		if (field.OmitEmpty || s.OmitEmpty) && isEmptyValue(reflect.NewAt(field.Descriptor.Type(), fieldPtr).Elem()) {
			continue
		}
		if count > 0 {
			s.buf = append(s.buf, ',')
		}
		count++
		s.buf = appendString(s.buf, names.Output(field))
		s.buf = append(s.buf, ':')
		if err := s.encodeField(field, fieldPtr); err != nil {
			return err
		}
	}
	s.buf = append(s.buf, '}')
	return nil
}

func (s *session) encodeField(field *descriptor.Field, ptr unsafe.Pointer) error {
	d := field.Descriptor
	if field.TimeLayout == "" || !d.IsTime() {
		return s.encode(d, ptr)
	}
	for d.Kind() == descriptor.Nullable {
		if ptr = *(*unsafe.Pointer)(ptr); ptr == nil {
			s.buf = append(s.buf, "null"...)
			return nil
		}
		d = d.Elem()
	}
	s.buf = appendString(s.buf, xunsafe.AsTimePtr(ptr).Format(field.TimeLayout))
	return nil
}

func encodeDictionary(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer) error {
	value := reflect.NewAt(d.Type(), ptr).Elem()
	if value.IsNil() {
		s.buf = append(s.buf, "null"...)
		return nil
	}
	if err := s.enter(d); err != nil {
		return err
	}
	defer s.leave()
	keys := value.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	elem := d.Elem()
	holder := reflect.New(elem.Type())
	s.buf = append(s.buf, '{')
	for i, key := range keys {
		if i > 0 {
			s.buf = append(s.buf, ',')
		}
		s.buf = appendString(s.buf, key.String())
		s.buf = append(s.buf, ':')
		holder.Elem().Set(value.MapIndex(key))
		if err := s.encode(elem, holder.UnsafePointer()); err != nil {
			return err
		}
	}
	s.buf = append(s.buf, '}')
	return nil
}
