package unmarshal

import (
	"reflect"
	"unsafe"

	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/document"
	"github.com/viant/jsonstream/token"
)

var elementType = reflect.TypeOf(document.Element{})

// decodeDynamic captures the value as a document element.
func decodeDynamic(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer, tok token.Token) error {
	target := reflect.NewAt(d.Type(), ptr).Elem()
	if tok.Kind == token.Null && d.Type().Kind() == reflect.Interface {
		target.SetZero()
		return nil
	}
	builder := document.NewBuilder(64)
	for !builder.Add(tok) {
		var err error
		if tok, err = s.next(); err != nil {
			return err
		}
	}
	root := builder.Document().Root()
	if d.Type() == elementType {
		*(*document.Element)(ptr) = root
		return nil
	}
	if !elementType.Implements(d.Type()) {
		return s.mismatch("%s cannot hold a dynamic element", d.Type())
	}
	target.Set(reflect.ValueOf(root))
	return nil
}
