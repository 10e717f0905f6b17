package marshal

import (
	"encoding"
	"encoding/json"
	"reflect"
	"unsafe"

	"github.com/francoispqt/gojay"
	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/token"
	"github.com/viant/xunsafe"
)

// encodeCustom asks the type's own converter for its JSON, falling back to its structure.
func encodeCustom(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer) error {
	if d.IsTime() && s.TimeLayout != "" {
		s.buf = appendString(s.buf, xunsafe.AsTimePtr(ptr).Format(s.TimeLayout))
		return nil
	}
	codec := d.Codec()
	value := reflect.NewAt(d.Type(), ptr).Interface()
	switch {
	case codec.Has(descriptor.JSONMarshaler):
		raw, err := value.(json.Marshaler).MarshalJSON()
		if err != nil {
			return jsonerr.Wrap(jsonerr.ErrInvalidArgument, -1, err, "%s failed to write", d.Type())
		}
		return s.appendRaw(d, raw)
	case codec.Has(descriptor.ObjectMarshaler):
		raw, err := gojay.MarshalJSONObject(value.(gojay.MarshalerJSONObject))
		if err != nil {
			return jsonerr.Wrap(jsonerr.ErrInvalidArgument, -1, err, "%s failed to write", d.Type())
		}
		return s.appendRaw(d, raw)
	case codec.Has(descriptor.TextMarshaler):
		text, err := value.(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return jsonerr.Wrap(jsonerr.ErrInvalidArgument, -1, err, "%s failed to write", d.Type())
		}
		s.buf = appendString(s.buf, string(text))
		return nil
	}
	if d.Fallback() == nil {
		return jsonerr.InvalidArgument("%s cannot be serialized", d.Type())
	}
	return s.encode(d.Fallback(), ptr)
}

// appendRaw validates converter output and appends it compacted.
func (s *session) appendRaw(d *descriptor.Descriptor, raw []byte) error {
	out, err := token.Compact(s.buf, raw)
	if err != nil {
		return jsonerr.Wrap(jsonerr.ErrInvalidArgument, -1, err, "%s produced invalid JSON", d.Type())
	}
	s.buf = out
	return nil
}
