package token

import "github.com/viant/jsonstream/jsonerr"

// Indent validates data as a single JSON value and appends it to dst with
// one line per element, each level prefixed by indent.
func Indent(dst []byte, data []byte, indent string) ([]byte, error) {
	reader := NewReader(Options{})
	depth := 0
	first, afterKey := false, false
	newline := func() {
		dst = append(dst, '\n')
		for i := 0; i < depth; i++ {
			dst = append(dst, indent...)
		}
	}
	pos := 0
	for {
		tok, n, err := reader.Read(data[pos:], true)
		if err != nil {
			return dst, jsonerr.Rebase(err, int64(pos))
		}
		pos += n
		switch tok.Kind {
		case End:
			return dst, nil
		case ObjectEnd, ArrayEnd:
			depth--
			if !first {
				newline()
			}
			first, afterKey = false, false
			if tok.Kind == ObjectEnd {
				dst = append(dst, '}')
			} else {
				dst = append(dst, ']')
			}
			continue
		}
		if depth > 0 && !afterKey {
			if !first {
				dst = append(dst, ',')
			}
			newline()
		}
		first, afterKey = false, false
		switch tok.Kind {
		case ObjectStart:
			dst = append(dst, '{')
			depth++
			first = true
		case ArrayStart:
			dst = append(dst, '[')
			depth++
			first = true
		case PropertyName:
			dst = append(dst, '"')
			dst = append(dst, tok.Value...)
			dst = append(dst, '"', ':', ' ')
			afterKey = true
		case String:
			dst = append(dst, '"')
			dst = append(dst, tok.Value...)
			dst = append(dst, '"')
		default:
			dst = append(dst, tok.Value...)
		}
	}
}
