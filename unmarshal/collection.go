package unmarshal

import (
	"reflect"
	"unsafe"

	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/token"
)

func decodeCollection(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer, tok token.Token) error {
	if tok.Kind != token.ArrayStart {
		return s.mismatch("expected array for %s, found %s", d.Type(), tok.Kind)
	}
	target := reflect.NewAt(d.Type(), ptr).Elem()
	if d.Len() >= 0 {
		return decodeArray(s, d, target)
	}
	elem := d.Elem()
	zero := reflect.Zero(elem.Type())
	items := reflect.MakeSlice(d.Type(), 0, 4)
	for i := 0; ; i++ {
		item, err := s.next()
		if err != nil {
			return err
		}
		if item.Kind == token.ArrayEnd {
			break
		}
		items = reflect.Append(items, zero)
		s.path.pushIndex(i)
		if err = s.decode(elem, items.Index(i).Addr().UnsafePointer(), item); err != nil {
			return err
		}
		s.path.pop()
	}
	target.Set(items)
	return nil
}

// decodeArray fills a fixed size array; surplus items are skipped.
func decodeArray(s *session, d *descriptor.Descriptor, target reflect.Value) error {
	elem := d.Elem()
	for i := 0; ; i++ {
		item, err := s.next()
		if err != nil {
			return err
		}
		if item.Kind == token.ArrayEnd {
			return nil
		}
		if i >= d.Len() {
			if err = s.skip(item); err != nil {
				return err
			}
			continue
		}
		s.path.pushIndex(i)
		if err = s.decode(elem, target.Index(i).Addr().UnsafePointer(), item); err != nil {
			return err
		}
		s.path.pop()
	}
}
