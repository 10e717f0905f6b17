package unmarshal

import (
	"encoding"
	"encoding/json"
	"reflect"
	"unsafe"

	"github.com/francoispqt/gojay"
	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/token"
)

// decodeCustom hands the value to the type's own converter, falling back to its structure.
func decodeCustom(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer, tok token.Token) error {
	if d.IsTime() && s.TimeLayout != "" {
		return s.decodeTime(ptr, s.TimeLayout, tok)
	}
	codec := d.Codec()
	switch {
	case codec.Has(descriptor.JSONUnmarshaler):
		raw, err := s.capture(tok)
		if err != nil {
			return err
		}
		target := reflect.NewAt(d.Type(), ptr).Interface().(json.Unmarshaler)
		if err = target.UnmarshalJSON(raw); err != nil {
			return s.wrap(err, "%s rejected value", d.Type())
		}
	case codec.Has(descriptor.ObjectUnmarshaler):
		if tok.Kind != token.ObjectStart {
			return s.mismatch("expected object for %s, found %s", d.Type(), tok.Kind)
		}
		raw, err := s.capture(tok)
		if err != nil {
			return err
		}
		target := reflect.NewAt(d.Type(), ptr).Interface().(gojay.UnmarshalerJSONObject)
		if err = gojay.UnmarshalJSONObject(raw, target); err != nil {
			return s.wrap(err, "%s rejected value", d.Type())
		}
	case codec.Has(descriptor.TextUnmarshaler):
		if tok.Kind != token.String {
			return s.mismatch("expected string for %s, found %s", d.Type(), tok.Kind)
		}
		text, err := token.Unquote(tok.Value, tok.Escaped)
		if err != nil {
			return s.wrap(err, "invalid string")
		}
		target := reflect.NewAt(d.Type(), ptr).Interface().(encoding.TextUnmarshaler)
		if err = target.UnmarshalText([]byte(text)); err != nil {
			return s.wrap(err, "%s rejected value", d.Type())
		}
	default:
		if d.Fallback() == nil {
			return s.mismatch("%s cannot be deserialized", d.Type())
		}
		return s.decode(d.Fallback(), ptr, tok)
	}
	return nil
}
