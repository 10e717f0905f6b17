package unmarshal

import (
	"reflect"
	"time"
	"unsafe"

	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/token"
	"github.com/viant/xunsafe"
)

func decodeAggregate(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer, tok token.Token) error {
	if d.Kind() == descriptor.Dictionary {
		return decodeDictionary(s, d, ptr, tok)
	}
	if tok.Kind != token.ObjectStart {
		return s.mismatch("expected object for %s, found %s", d.Type(), tok.Kind)
	}
	names := d.Names(s.CaseFormat)
	presence := d.Presence()
	var seen []bool
	if s.DuplicateKeyPolicy == ErrorOnDuplicate || s.RequiredPolicy == ErrorOnMissing {
		seen = make([]bool, len(d.Fields()))
	}
	for {
		key, err := s.next()
		if err != nil {
			return err
		}
		if key.Kind == token.ObjectEnd {
			break
		}
		field, err := s.lookup(names, key)
		if err != nil {
			return err
		}
		if field == nil {
			if s.UnknownFieldPolicy == ErrorOnUnknown {
				name, _ := token.Unquote(key.Value, key.Escaped)
				return s.mismatch("unknown field %q for %s", name, d.Type())
			}
			value, err := s.next()
			if err != nil {
				return err
			}
			if err = s.skip(value); err != nil {
				return err
			}
			continue
		}
		if seen != nil {
			if seen[field.Index] && s.DuplicateKeyPolicy == ErrorOnDuplicate {
				return s.mismatch("duplicate field %q", names.Output(field))
			}
			seen[field.Index] = true
		}
		s.path.pushField(names.Output(field))
		value, err := s.next()
		if err == nil {
			err = s.decodeField(field, ptr, value)
		}
		if err != nil {
			return err
		}
		s.path.pop()
		if presence != nil {
			presence.Mark(ptr, field)
		}
	}
	if s.RequiredPolicy == ErrorOnMissing {
		for _, field := range d.Fields() {
			if field.Required && field.Included(s.IncludeFields) && !names.Shadowed(field) && !seen[field.Index] {
				return s.mismatch("missing required field %q for %s", names.Output(field), d.Type())
			}
		}
	}
	return nil
}

// lookup resolves a property name token; it returns nil for unknown or excluded fields.
func (s *session) lookup(names *descriptor.Names, key token.Token) (*descriptor.Field, error) {
	var name string
	if key.Escaped {
		unquoted, err := token.Unquote(key.Value, true)
		if err != nil {
			return nil, s.wrap(err, "invalid property name")
		}
		name = unquoted
	} else {
		name = unsafe.String(unsafe.SliceData(key.Value), len(key.Value))
	}
	field, ok := names.Lookup(name, s.CaseInsensitive)
	if !ok || !field.Included(s.IncludeFields) {
		return nil, nil
	}
	return field, nil
}

func (s *session) decodeField(field *descriptor.Field, structPtr unsafe.Pointer, tok token.Token) error {
	ptr := field.Pointer(structPtr)
	d := field.Descriptor
	if field.TimeLayout == "" || !d.IsTime() || tok.Kind == token.Null {
		return s.decode(d, ptr, tok)
	}
	for d.Kind() == descriptor.Nullable {
		ptr = xunsafe.SafeDerefPointer(ptr, d.Type())
		d = d.Elem()
	}
	return s.decodeTime(ptr, field.TimeLayout, tok)
}

func (s *session) decodeTime(ptr unsafe.Pointer, layout string, tok token.Token) error {
	if tok.Kind != token.String {
		return s.mismatch("expected time string, found %s", tok.Kind)
	}
	text, err := token.Unquote(tok.Value, tok.Escaped)
	if err != nil {
		return s.wrap(err, "invalid string")
	}
	ts, err := time.Parse(layout, text)
	if err != nil {
		return s.wrap(err, "invalid time %q", text)
	}
	*xunsafe.AsTimePtr(ptr) = ts
	return nil
}

func decodeDictionary(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer, tok token.Token) error {
	if tok.Kind != token.ObjectStart {
		return s.mismatch("expected object for %s, found %s", d.Type(), tok.Kind)
	}
	target := reflect.NewAt(d.Type(), ptr).Elem()
	if target.IsNil() {
		target.Set(reflect.MakeMap(d.Type()))
	}
	elem := d.Elem()
	keyType := d.Type().Key()
	var seen map[string]bool
	if s.DuplicateKeyPolicy == ErrorOnDuplicate {
		seen = map[string]bool{}
	}
	for {
		key, err := s.next()
		if err != nil {
			return err
		}
		if key.Kind == token.ObjectEnd {
			return nil
		}
		name, err := token.Unquote(key.Value, key.Escaped)
		if err != nil {
			return s.wrap(err, "invalid property name")
		}
		if seen != nil {
			if seen[name] {
				return s.mismatch("duplicate key %q", name)
			}
			seen[name] = true
		}
		s.path.pushField(name)
		value, err := s.next()
		item := reflect.New(elem.Type())
		if err == nil {
			err = s.decode(elem, item.UnsafePointer(), value)
		}
		if err != nil {
			return err
		}
		s.path.pop()
		target.SetMapIndex(reflect.ValueOf(name).Convert(keyType), item.Elem())
	}
}
