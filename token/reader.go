package token

import (
	"unicode/utf8"

	"github.com/viant/jsonstream/jsonerr"
)

type expect uint8

const (
	expValue       expect = iota // top-level value
	expMemberValue               // value after ':'
	expArrayFirst                // value or ']'
	expArrayValue                // value after ','
	expArrayNext                 // ',' or ']'
	expObjectFirst               // property name or '}'
	expObjectKey                 // property name after ','
	expObjectNext                // ',' or '}'
	expColon                     // ':'
	expDone                      // only whitespace may follow
	expEnded                     // End was returned
)

type scan uint8

const (
	scanOK scan = iota
	scanIncomplete
	scanError
)

// Reader tracks nesting and what may legally come next.
type Reader struct {
	options Options
	stack   []byte
	expect  expect
}

// NewReader creates a reader.
func NewReader(options Options) *Reader {
	if options.MaxDepth <= 0 {
		options.MaxDepth = DefaultMaxDepth
	}
	return &Reader{options: options, stack: make([]byte, 0, 8)}
}

// Reset prepares the reader for a new document.
func (r *Reader) Reset() {
	r.stack = r.stack[:0]
	r.expect = expValue
}

// Depth returns the current container nesting.
func (r *Reader) Depth() int { return len(r.stack) }

// Done reports whether the top-level value has been fully read.
func (r *Reader) Done() bool { return r.expect == expDone || r.expect == expEnded }

// Read returns the next token from data and the number of bytes consumed.
//
// When data holds no complete token, Read returns a token of Kind None; the
// consumed count then covers only whitespace, comments and separators that
// were fully processed. final states that no more data will follow, in which
// case an incomplete token is reported as ErrUnexpectedEndOfInput.
func (r *Reader) Read(data []byte, final bool) (Token, int, error) {
	pos := 0
	for {
		next, status, err := r.skipSpace(data, pos, final)
		if err != nil {
			return Token{}, pos, err
		}
		if status == scanIncomplete {
			return Token{}, pos, nil
		}
		pos = next
		if pos >= len(data) {
			if !final {
				return Token{}, pos, nil
			}
			switch r.expect {
			case expDone, expEnded:
				r.expect = expEnded
				return Token{Kind: End, Offset: pos}, pos, nil
			case expValue:
				return Token{}, pos, jsonerr.EndOfInput(int64(pos), "no value")
			}
			return Token{}, pos, jsonerr.EndOfInput(int64(pos), "unclosed %s", r.container())
		}
		c := data[pos]
		switch r.expect {
		case expDone, expEnded:
			return Token{}, pos, jsonerr.Malformed(int64(pos), "unexpected %s after top-level value", quoteChar(c))
		case expColon:
			if c != ':' {
				return Token{}, pos, jsonerr.Malformed(int64(pos), "expected ':' after property name, found %s", quoteChar(c))
			}
			pos++
			r.expect = expMemberValue
			continue
		case expArrayNext:
			switch c {
			case ',':
				pos++
				r.expect = expArrayValue
				continue
			case ']':
				return r.closeContainer(ArrayEnd, pos)
			}
			return Token{}, pos, jsonerr.Malformed(int64(pos), "expected ',' or ']', found %s", quoteChar(c))
		case expObjectNext:
			switch c {
			case ',':
				pos++
				r.expect = expObjectKey
				continue
			case '}':
				return r.closeContainer(ObjectEnd, pos)
			}
			return Token{}, pos, jsonerr.Malformed(int64(pos), "expected ',' or '}', found %s", quoteChar(c))
		case expObjectFirst, expObjectKey:
			if c == '}' {
				if r.expect == expObjectKey && !r.options.AllowTrailingCommas {
					return Token{}, pos, jsonerr.Malformed(int64(pos), "trailing comma in object")
				}
				return r.closeContainer(ObjectEnd, pos)
			}
			if c != '"' {
				return Token{}, pos, jsonerr.Malformed(int64(pos), "expected property name, found %s", quoteChar(c))
			}
			tok, n, err := r.readString(data, pos, final, PropertyName)
			if err != nil || tok.Kind == None {
				return tok, n, err
			}
			r.expect = expColon
			return tok, n, nil
		case expArrayFirst, expArrayValue:
			if c == ']' {
				if r.expect == expArrayValue && !r.options.AllowTrailingCommas {
					return Token{}, pos, jsonerr.Malformed(int64(pos), "trailing comma in array")
				}
				return r.closeContainer(ArrayEnd, pos)
			}
		}
		return r.readValue(data, pos, final)
	}
}

func (r *Reader) container() string {
	if len(r.stack) > 0 && r.stack[len(r.stack)-1] == '[' {
		return "array"
	}
	if len(r.stack) > 0 {
		return "object"
	}
	return "value"
}

func (r *Reader) closeContainer(kind Kind, pos int) (Token, int, error) {
	r.stack = r.stack[:len(r.stack)-1]
	r.afterValue()
	return Token{Kind: kind, Offset: pos}, pos + 1, nil
}

func (r *Reader) openContainer(kind Kind, open byte, pos int) (Token, int, error) {
	if len(r.stack) >= r.options.MaxDepth {
		return Token{}, pos, jsonerr.Malformed(int64(pos), "exceeded max depth %d", r.options.MaxDepth)
	}
	r.stack = append(r.stack, open)
	if open == '{' {
		r.expect = expObjectFirst
	} else {
		r.expect = expArrayFirst
	}
	return Token{Kind: kind, Offset: pos}, pos + 1, nil
}

func (r *Reader) afterValue() {
	if len(r.stack) == 0 {
		r.expect = expDone
		return
	}
	if r.stack[len(r.stack)-1] == '{' {
		r.expect = expObjectNext
		return
	}
	r.expect = expArrayNext
}

func (r *Reader) readValue(data []byte, pos int, final bool) (Token, int, error) {
	c := data[pos]
	switch c {
	case '{':
		return r.openContainer(ObjectStart, '{', pos)
	case '[':
		return r.openContainer(ArrayStart, '[', pos)
	case '"':
		tok, n, err := r.readString(data, pos, final, String)
		if err == nil && tok.Kind != None {
			r.afterValue()
		}
		return tok, n, err
	case 't':
		return r.readLiteral(data, pos, final, "true", True)
	case 'f':
		return r.readLiteral(data, pos, final, "false", False)
	case 'n':
		return r.readLiteral(data, pos, final, "null", Null)
	}
	if c == '-' || (c >= '0' && c <= '9') {
		end, status, err := scanNumber(data, pos, final)
		switch {
		case err != nil:
			return Token{}, pos, err
		case status == scanIncomplete:
			return Token{}, pos, nil
		}
		if end < len(data) && !r.isDelimiter(data[end]) {
			return Token{}, pos, jsonerr.Malformed(int64(end), "invalid character %s in number", quoteChar(data[end]))
		}
		r.afterValue()
		return Token{Kind: Number, Value: data[pos:end], Offset: pos}, end, nil
	}
	return Token{}, pos, jsonerr.Malformed(int64(pos), "unexpected %s", quoteChar(c))
}

func (r *Reader) readString(data []byte, pos int, final bool, kind Kind) (Token, int, error) {
	end, escaped, status, err := scanString(data, pos)
	if err != nil {
		return Token{}, pos, err
	}
	if status == scanIncomplete {
		if final {
			return Token{}, pos, jsonerr.EndOfInput(int64(len(data)), "unterminated string")
		}
		return Token{}, pos, nil
	}
	return Token{Kind: kind, Value: data[pos+1 : end], Escaped: escaped, Offset: pos}, end + 1, nil
}

func (r *Reader) readLiteral(data []byte, pos int, final bool, literal string, kind Kind) (Token, int, error) {
	available := len(data) - pos
	for i := 0; i < len(literal) && i < available; i++ {
		if data[pos+i] != literal[i] {
			return Token{}, pos, jsonerr.Malformed(int64(pos), "invalid literal, expected %s", literal)
		}
	}
	if available < len(literal) {
		if final {
			return Token{}, pos, jsonerr.EndOfInput(int64(len(data)), "truncated literal %s", literal)
		}
		return Token{}, pos, nil
	}
	end := pos + len(literal)
	if end < len(data) && !r.isDelimiter(data[end]) {
		return Token{}, pos, jsonerr.Malformed(int64(end), "invalid character %s after %s", quoteChar(data[end]), literal)
	}
	r.afterValue()
	return Token{Kind: kind, Value: data[pos:end], Offset: pos}, end, nil
}

func (r *Reader) isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ',', ']', '}':
		return true
	case '/':
		return r.options.AllowComments
	}
	return false
}

// skipSpace skips whitespace and, when allowed, comments. An incomplete
// comment leaves the position at the comment start.
func (r *Reader) skipSpace(data []byte, pos int, final bool) (int, scan, error) {
	for pos < len(data) {
		switch data[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
			continue
		case '/':
			if !r.options.AllowComments {
				return pos, scanError, jsonerr.Malformed(int64(pos), "comments are not allowed")
			}
			end, status, err := scanComment(data, pos, final)
			if err != nil || status == scanIncomplete {
				return pos, status, err
			}
			pos = end
			continue
		}
		return pos, scanOK, nil
	}
	return pos, scanOK, nil
}

func scanComment(data []byte, pos int, final bool) (int, scan, error) {
	if pos+1 >= len(data) {
		if final {
			return pos, scanError, jsonerr.EndOfInput(int64(len(data)), "truncated comment")
		}
		return pos, scanIncomplete, nil
	}
	switch data[pos+1] {
	case '/':
		for i := pos + 2; i < len(data); i++ {
			if data[i] == '\n' {
				return i + 1, scanOK, nil
			}
		}
		if final {
			return len(data), scanOK, nil
		}
		return pos, scanIncomplete, nil
	case '*':
		for i := pos + 2; i+1 < len(data); i++ {
			if data[i] == '*' && data[i+1] == '/' {
				return i + 2, scanOK, nil
			}
		}
		if final {
			return pos, scanError, jsonerr.EndOfInput(int64(len(data)), "unterminated comment")
		}
		return pos, scanIncomplete, nil
	}
	return pos, scanError, jsonerr.Malformed(int64(pos), "invalid comment")
}

// scanString validates the string starting at data[pos] == '"' and returns the closing quote position.
func scanString(data []byte, pos int) (int, bool, scan, error) {
	escaped := false
	i := pos + 1
	for i < len(data) {
		c := data[i]
		switch {
		case c == '"':
			return i, escaped, scanOK, nil
		case c == '\\':
			escaped = true
			if i+1 >= len(data) {
				return i, escaped, scanIncomplete, nil
			}
			switch data[i+1] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i += 2
			case 'u':
				for j := i + 2; j < i+6; j++ {
					if j >= len(data) {
						return i, escaped, scanIncomplete, nil
					}
					if !isHex(data[j]) {
						return i, escaped, scanError, jsonerr.Malformed(int64(j), "invalid unicode escape")
					}
				}
				i += 6
			default:
				return i, escaped, scanError, jsonerr.Malformed(int64(i+1), "invalid escape character %s", quoteChar(data[i+1]))
			}
		case c < 0x20:
			return i, escaped, scanError, jsonerr.Malformed(int64(i), "invalid control character in string")
		case c < utf8.RuneSelf:
			i++
		default:
			r, size := utf8.DecodeRune(data[i:])
			if r == utf8.RuneError && size == 1 {
				if !utf8.FullRune(data[i:]) {
					return i, escaped, scanIncomplete, nil
				}
				return i, escaped, scanError, jsonerr.Malformed(int64(i), "invalid UTF-8 in string")
			}
			i += size
		}
	}
	return i, escaped, scanIncomplete, nil
}

// scanNumber matches -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)? starting at pos.
func scanNumber(data []byte, pos int, final bool) (int, scan, error) {
	i := pos
	incomplete := func() (int, scan, error) {
		if final {
			return pos, scanError, jsonerr.EndOfInput(int64(len(data)), "truncated number")
		}
		return pos, scanIncomplete, nil
	}
	if data[i] == '-' {
		i++
		if i >= len(data) {
			return incomplete()
		}
	}
	switch {
	case data[i] == '0':
		i++
	case data[i] >= '1' && data[i] <= '9':
		for i < len(data) && isDigit(data[i]) {
			i++
		}
	default:
		return pos, scanError, jsonerr.Malformed(int64(i), "invalid number")
	}
	if i >= len(data) {
		if final {
			return i, scanOK, nil
		}
		return pos, scanIncomplete, nil
	}
	if data[i] == '.' {
		i++
		if i >= len(data) {
			return incomplete()
		}
		if !isDigit(data[i]) {
			return pos, scanError, jsonerr.Malformed(int64(i), "invalid number, expected digit after '.'")
		}
		for i < len(data) && isDigit(data[i]) {
			i++
		}
		if i >= len(data) {
			if final {
				return i, scanOK, nil
			}
			return pos, scanIncomplete, nil
		}
	}
	if data[i] == 'e' || data[i] == 'E' {
		i++
		if i >= len(data) {
			return incomplete()
		}
		if data[i] == '+' || data[i] == '-' {
			i++
			if i >= len(data) {
				return incomplete()
			}
		}
		if !isDigit(data[i]) {
			return pos, scanError, jsonerr.Malformed(int64(i), "invalid number, expected exponent digit")
		}
		for i < len(data) && isDigit(data[i]) {
			i++
		}
		if i >= len(data) && !final {
			return pos, scanIncomplete, nil
		}
	}
	return i, scanOK, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func quoteChar(c byte) string {
	if c < 0x20 || c >= 0x7f {
		const hex = "0123456789abcdef"
		return "byte 0x" + string([]byte{hex[c>>4], hex[c&0xf]})
	}
	return "'" + string(c) + "'"
}

// IsNumber reports whether text is exactly one JSON number literal.
func IsNumber(text []byte) bool {
	if len(text) == 0 {
		return false
	}
	end, status, err := scanNumber(text, 0, true)
	return err == nil && status == scanOK && end == len(text)
}
