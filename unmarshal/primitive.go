package unmarshal

import (
	"reflect"
	"strconv"
	"unsafe"

	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/token"
	"github.com/viant/xunsafe"
)

func decodePrimitive(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer, tok token.Token) error {
	kind := d.Primitive()
	switch kind {
	case reflect.String:
		if tok.Kind != token.String {
			return s.mismatch("expected string for %s, found %s", d.Type(), tok.Kind)
		}
		v, err := token.Unquote(tok.Value, tok.Escaped)
		if err != nil {
			return s.wrap(err, "invalid string")
		}
		*xunsafe.AsStringPtr(ptr) = v
		return nil
	case reflect.Bool:
		switch tok.Kind {
		case token.True:
			*xunsafe.AsBoolPtr(ptr) = true
		case token.False:
			*xunsafe.AsBoolPtr(ptr) = false
		default:
			return s.mismatch("expected boolean for %s, found %s", d.Type(), tok.Kind)
		}
		return nil
	}

	literal, err := s.numberLiteral(d, tok)
	if err != nil {
		return err
	}
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(literal, 10, bitSize(kind))
		if err != nil {
			return s.mismatch("cannot represent %s as %s", string(tok.Value), d.Type())
		}
		switch kind {
		case reflect.Int:
			*xunsafe.AsIntPtr(ptr) = int(v)
		case reflect.Int8:
			*xunsafe.AsInt8Ptr(ptr) = int8(v)
		case reflect.Int16:
			*xunsafe.AsInt16Ptr(ptr) = int16(v)
		case reflect.Int32:
			*xunsafe.AsInt32Ptr(ptr) = int32(v)
		default:
			*xunsafe.AsInt64Ptr(ptr) = v
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(literal, 10, bitSize(kind))
		if err != nil {
			return s.mismatch("cannot represent %s as %s", string(tok.Value), d.Type())
		}
		switch kind {
		case reflect.Uint:
			*xunsafe.AsUintPtr(ptr) = uint(v)
		case reflect.Uint8:
			*xunsafe.AsUint8Ptr(ptr) = uint8(v)
		case reflect.Uint16:
			*xunsafe.AsUint16Ptr(ptr) = uint16(v)
		case reflect.Uint32:
			*xunsafe.AsUint32Ptr(ptr) = uint32(v)
		default:
			*xunsafe.AsUint64Ptr(ptr) = v
		}
	case reflect.Float32:
		v, err := strconv.ParseFloat(literal, 32)
		if err != nil {
			return s.mismatch("cannot represent %s as %s", string(tok.Value), d.Type())
		}
		*xunsafe.AsFloat32Ptr(ptr) = float32(v)
	case reflect.Float64:
		v, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return s.mismatch("cannot represent %s as %s", string(tok.Value), d.Type())
		}
		*xunsafe.AsFloat64Ptr(ptr) = v
	default:
		return s.mismatch("unsupported primitive %s", d.Type())
	}
	return nil
}

// numberLiteral returns the token text to parse; it aliases the read buffer.
func (s *session) numberLiteral(d *descriptor.Descriptor, tok token.Token) (string, error) {
	switch {
	case tok.Kind == token.Number:
	case tok.Kind == token.String && s.NumberPolicy == NumbersFromString && !tok.Escaped:
		if !token.IsNumber(tok.Value) {
			return "", s.mismatch("cannot represent %q as %s", string(tok.Value), d.Type())
		}
	default:
		return "", s.mismatch("expected number for %s, found %s", d.Type(), tok.Kind)
	}
	return unsafe.String(unsafe.SliceData(tok.Value), len(tok.Value)), nil
}

func bitSize(kind reflect.Kind) int {
	switch kind {
	case reflect.Int8, reflect.Uint8:
		return 8
	case reflect.Int16, reflect.Uint16:
		return 16
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 32
	case reflect.Int, reflect.Uint:
		return strconv.IntSize
	}
	return 64
}
