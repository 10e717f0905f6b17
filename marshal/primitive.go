package marshal

import (
	"math"
	"reflect"
	"strconv"
	"unicode/utf8"
	"unsafe"

	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/xunsafe"
)

func encodePrimitive(s *session, d *descriptor.Descriptor, ptr unsafe.Pointer) error {
	var err error
	s.buf, err = appendPrimitive(s.buf, ptr, d.Primitive())
	return err
}

func appendPrimitive(dst []byte, ptr unsafe.Pointer, kind reflect.Kind) ([]byte, error) {
	switch kind {
	case reflect.String:
		return appendString(dst, xunsafe.AsString(ptr)), nil
	case reflect.Bool:
		if xunsafe.AsBool(ptr) {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case reflect.Int:
		return strconv.AppendInt(dst, int64(xunsafe.AsInt(ptr)), 10), nil
	case reflect.Int8:
		return strconv.AppendInt(dst, int64(xunsafe.AsInt8(ptr)), 10), nil
	case reflect.Int16:
		return strconv.AppendInt(dst, int64(xunsafe.AsInt16(ptr)), 10), nil
	case reflect.Int32:
		return strconv.AppendInt(dst, int64(xunsafe.AsInt32(ptr)), 10), nil
	case reflect.Int64:
		return strconv.AppendInt(dst, xunsafe.AsInt64(ptr), 10), nil
	case reflect.Uint:
		return strconv.AppendUint(dst, uint64(xunsafe.AsUint(ptr)), 10), nil
	case reflect.Uint8:
		return strconv.AppendUint(dst, uint64(xunsafe.AsUint8(ptr)), 10), nil
	case reflect.Uint16:
		return strconv.AppendUint(dst, uint64(xunsafe.AsUint16(ptr)), 10), nil
	case reflect.Uint32:
		return strconv.AppendUint(dst, uint64(xunsafe.AsUint32(ptr)), 10), nil
	case reflect.Uint64:
		return strconv.AppendUint(dst, xunsafe.AsUint64(ptr), 10), nil
	case reflect.Float32:
		return appendFloat(dst, float64(xunsafe.AsFloat32(ptr)), 32)
	case reflect.Float64:
		return appendFloat(dst, xunsafe.AsFloat64(ptr), 64)
	}
	return dst, jsonerr.InvalidArgument("unsupported primitive kind %s", kind)
}

// appendFloat writes the shortest representation, switching to exponent
// form outside [1e-6, 1e21).
func appendFloat(dst []byte, f float64, bits int) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return dst, jsonerr.InvalidArgument("unsupported float value %v", f)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	dst = strconv.AppendFloat(dst, f, format, -1, bits)
	if format == 'e' {
		// e-09 to e-9
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst, nil
}

const hexDigits = "0123456789abcdef"

// appendString writes s as a JSON string; invalid UTF-8 becomes U+FFFD.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			dst = append(dst, s[start:i]...)
			switch c {
			case '"', '\\':
				dst = append(dst, '\\', c)
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			default:
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, s[start:i]...)
			dst = append(dst, `\ufffd`...)
			i += size
			start = i
			continue
		}
		i += size
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	case reflect.Struct:
		return v.IsZero()
	}
	return false
}
