package marshal

import (
	"reflect"
	"unsafe"

	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/document"
)

var elementType = reflect.TypeOf(document.Element{})

// encodeDynamic writes elements verbatim and other values by their runtime type.
func encodeDynamic(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer) error {
	if d.Type() == elementType {
		element := *(*document.Element)(ptr)
		if !element.Exists() {
			s.buf = append(s.buf, "null"...)
			return nil
		}
		s.buf = append(s.buf, element.Raw()...)
		return nil
	}
	value := reflect.NewAt(d.Type(), ptr).Elem()
	if value.IsNil() {
		s.buf = append(s.buf, "null"...)
		return nil
	}
	runtime, target, err := resolve(descriptor.Any(), value.Elem())
	if err != nil {
		return err
	}
	if target == nil {
		s.buf = append(s.buf, "null"...)
		return nil
	}
	return s.encode(runtime, target)
}
