package unmarshal

import (
	"context"
	"io"
	"log/slog"

	"github.com/viant/jsonstream/buffer"
	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/token"
)

// Phase is the state of a Source.
type Phase uint8

const (
	Parsing Phase = iota
	AwaitingFill
	Done
	Failed
)

var phaseNames = [...]string{Parsing: "parsing", AwaitingFill: "awaiting-fill", Done: "done", Failed: "failed"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Source produces tokens for one deserialization call, refilling its buffer
// from the underlying reader whenever the buffered bytes hold no complete token.
type Source struct {
	ctx    context.Context
	reader io.Reader
	buffer *buffer.Buffer
	tokens *token.Reader
	phase  Phase
	offset int64
	logger *slog.Logger
}

// NewSource reads tokens from a complete in-memory document.
func NewSource(data []byte, options token.Options) *Source {
	return &Source{ctx: context.Background(), buffer: buffer.FromBytes(data), tokens: token.NewReader(options)}
}

// NewStreamSource reads tokens from r using a buffer of the initial size.
func NewStreamSource(ctx context.Context, r io.Reader, size int, options token.Options, logger *slog.Logger) (*Source, error) {
	buf, err := buffer.New(size, logger)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Source{ctx: ctx, reader: r, buffer: buf, tokens: token.NewReader(options), phase: AwaitingFill, logger: logger}, nil
}

// Phase returns the current phase.
func (s *Source) Phase() Phase { return s.phase }

// Offset returns the absolute offset of the last token returned.
func (s *Source) Offset() int64 { return s.offset }

// Consumed returns the number of source bytes consumed so far.
func (s *Source) Consumed() int64 { return s.buffer.Offset() }

// Depth returns the current container nesting.
func (s *Source) Depth() int { return s.tokens.Depth() }

// Next returns the next token. Its Value stays valid until the following call.
func (s *Source) Next() (token.Token, error) {
	for {
		if s.phase == AwaitingFill {
			if err := s.fill(); err != nil {
				return token.Token{}, s.fail(err)
			}
		}
		data := s.buffer.Bytes()
		tok, n, err := s.tokens.Read(data, s.buffer.Final())
		if err != nil {
			return token.Token{}, s.fail(jsonerr.Rebase(err, s.buffer.Offset()))
		}
		if tok.Kind != token.None {
			s.offset = s.buffer.Offset() + int64(tok.Offset)
			s.buffer.Advance(n)
			if tok.Kind == token.End {
				s.phase = Done
			}
			return tok, nil
		}
		s.buffer.Advance(n)
		if s.reader == nil {
			return token.Token{}, s.fail(jsonerr.EndOfInput(s.buffer.Offset(), "incomplete input"))
		}
		s.phase = AwaitingFill
	}
}

func (s *Source) fill() error {
	if err := s.buffer.Fill(s.ctx, s.reader); err != nil {
		return err
	}
	s.phase = Parsing
	return nil
}

func (s *Source) fail(err error) error {
	s.phase = Failed
	if s.logger != nil {
		s.logger.Debug("deserialization failed", slog.Int64("offset", s.buffer.Offset()), slog.String("error", err.Error()))
	}
	return err
}
