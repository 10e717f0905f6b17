package unmarshal

import (
	"strconv"
	"strings"

	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/token"
)

type segment struct {
	field   string
	index   int
	isIndex bool
}

type pathStack struct {
	segments []segment
}

func (p *pathStack) pushField(name string) {
	p.segments = append(p.segments, segment{field: name})
}

func (p *pathStack) pushIndex(index int) {
	p.segments = append(p.segments, segment{index: index, isIndex: true})
}

func (p *pathStack) pop() {
	if len(p.segments) > 0 {
		p.segments = p.segments[:len(p.segments)-1]
	}
}

func (p *pathStack) String() string {
	sb := strings.Builder{}
	sb.WriteByte('$')
	for _, seg := range p.segments {
		if seg.isIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.index))
			sb.WriteByte(']')
			continue
		}
		sb.WriteByte('.')
		sb.WriteString(seg.field)
	}
	return sb.String()
}

// session is the per-call decoding state.
type session struct {
	*Engine
	src  *Source
	path pathStack
}

func (s *session) next() (token.Token, error) {
	tok, err := s.src.Next()
	if err != nil {
		return tok, jsonerr.WithPath(err, s.path.String())
	}
	return tok, nil
}

func (s *session) mismatch(format string, args ...interface{}) error {
	err := jsonerr.Mismatch(s.src.Offset(), format, args...)
	err.Path = s.path.String()
	return err
}

func (s *session) wrap(cause error, format string, args ...interface{}) error {
	err := jsonerr.Wrap(jsonerr.ErrTypeMismatch, s.src.Offset(), cause, format, args...)
	err.Path = s.path.String()
	return err
}

// skip consumes the rest of the value started by tok.
func (s *session) skip(tok token.Token) error {
	if tok.Kind != token.ObjectStart && tok.Kind != token.ArrayStart {
		return nil
	}
	for depth := 1; depth > 0; {
		next, err := s.next()
		if err != nil {
			return err
		}
		switch next.Kind {
		case token.ObjectStart, token.ArrayStart:
			depth++
		case token.ObjectEnd, token.ArrayEnd:
			depth--
		}
	}
	return nil
}

// capture returns the compact JSON text of the value started by tok.
func (s *session) capture(tok token.Token) ([]byte, error) {
	compactor := token.Compactor{}
	raw := compactor.Append(make([]byte, 0, 64), tok)
	for compactor.Depth() > 0 {
		next, err := s.next()
		if err != nil {
			return nil, err
		}
		raw = compactor.Append(raw, next)
	}
	return raw, nil
}
