package token

import "github.com/viant/jsonstream/jsonerr"

// Compactor re-emits a token sequence as compact JSON.
type Compactor struct {
	first    bool
	afterKey bool
	depth    int
}

// Depth returns the nesting of containers opened and not yet closed.
func (c *Compactor) Depth() int { return c.depth }

// Append appends the compact form of tok to dst.
func (c *Compactor) Append(dst []byte, tok Token) []byte {
	switch tok.Kind {
	case ObjectEnd:
		c.depth--
		c.first, c.afterKey = false, false
		return append(dst, '}')
	case ArrayEnd:
		c.depth--
		c.first, c.afterKey = false, false
		return append(dst, ']')
	case None, End:
		return dst
	}
	if c.depth > 0 && !c.first && !c.afterKey {
		dst = append(dst, ',')
	}
	c.first, c.afterKey = false, false
	switch tok.Kind {
	case ObjectStart:
		c.depth++
		c.first = true
		return append(dst, '{')
	case ArrayStart:
		c.depth++
		c.first = true
		return append(dst, '[')
	case PropertyName:
		dst = append(dst, '"')
		dst = append(dst, tok.Value...)
		c.afterKey = true
		return append(dst, '"', ':')
	case String:
		dst = append(dst, '"')
		dst = append(dst, tok.Value...)
		return append(dst, '"')
	}
	return append(dst, tok.Value...)
}

// Compact validates data as a single JSON value and appends its compact form to dst.
func Compact(dst []byte, data []byte) ([]byte, error) {
	reader := NewReader(Options{})
	compactor := Compactor{}
	pos := 0
	for {
		tok, n, err := reader.Read(data[pos:], true)
		if err != nil {
			return dst, jsonerr.Rebase(err, int64(pos))
		}
		pos += n
		if tok.Kind == End {
			return dst, nil
		}
		dst = compactor.Append(dst, tok)
	}
}
