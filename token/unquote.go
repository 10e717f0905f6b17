package token

import (
	"unicode/utf16"
	"unicode/utf8"
	"unsafe"

	"github.com/viant/jsonstream/jsonerr"
)

// Unquote decodes string token contents into a new string.
func Unquote(raw []byte, escaped bool) (string, error) {
	if !escaped {
		return string(raw), nil
	}
	out, err := AppendUnquote(make([]byte, 0, len(raw)), raw)
	if err != nil {
		return "", err
	}
	return unsafe.String(unsafe.SliceData(out), len(out)), nil
}

// AppendUnquote appends decoded string token contents to dst.
// Lone surrogates decode to U+FFFD.
func AppendUnquote(dst []byte, raw []byte) ([]byte, error) {
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			dst = append(dst, c)
			continue
		}
		i++
		if i >= len(raw) {
			return dst, jsonerr.Malformed(-1, "invalid escape sequence")
		}
		switch raw[i] {
		case '"', '\\', '/':
			dst = append(dst, raw[i])
		case 'b':
			dst = append(dst, '\b')
		case 'f':
			dst = append(dst, '\f')
		case 'n':
			dst = append(dst, '\n')
		case 'r':
			dst = append(dst, '\r')
		case 't':
			dst = append(dst, '\t')
		case 'u':
			r, ok := parseHex4(raw, i+1)
			if !ok {
				return dst, jsonerr.Malformed(-1, "invalid unicode escape")
			}
			i += 4
			if utf16.IsSurrogate(r) {
				if r2, ok := parseHex4(raw, i+3); ok && raw[i+1] == '\\' && raw[i+2] == 'u' {
					if decoded := utf16.DecodeRune(r, r2); decoded != utf8.RuneError {
						dst = utf8.AppendRune(dst, decoded)
						i += 6
						continue
					}
				}
				r = utf8.RuneError
			}
			dst = utf8.AppendRune(dst, r)
		default:
			return dst, jsonerr.Malformed(-1, "invalid escape character %s", quoteChar(raw[i]))
		}
	}
	return dst, nil
}

func parseHex4(b []byte, at int) (rune, bool) {
	if at < 0 || at+4 > len(b) {
		return 0, false
	}
	var v rune
	for _, c := range b[at : at+4] {
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = rune(c - '0')
		case c >= 'a' && c <= 'f':
			d = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, false
		}
		v = (v << 4) | d
	}
	return v, true
}
