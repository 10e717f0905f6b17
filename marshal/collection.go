package marshal

import (
	"reflect"
	"unsafe"

	"github.com/viant/jsonstream/descriptor"
)

func encodeCollection(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer) error {
	value := reflect.NewAt(d.Type(), ptr).Elem()
	if d.Len() < 0 && value.IsNil() {
		if s.NilSlicePolicy == NilSliceAsEmptyArray {
			s.buf = append(s.buf, '[', ']')
		} else {
			s.buf = append(s.buf, "null"...)
		}
		return nil
	}
	if err := s.enter(d); err != nil {
		return err
	}
	defer s.leave()
	elem := d.Elem()
	s.buf = append(s.buf, '[')
	for i := 0; i < value.Len(); i++ {
		if i > 0 {
			s.buf = append(s.buf, ',')
		}
		if err := s.encode(elem, value.Index(i).Addr().UnsafePointer()); err != nil {
			return err
		}
	}
	s.buf = append(s.buf, ']')
	return nil
}
