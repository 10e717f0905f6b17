// Package buffer manages the growable read buffer used by streaming deserialization.
package buffer

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/viant/jsonstream/jsonerr"
)

// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
const maxEmptyReads = 100

// Buffer holds unconsumed input between data[start:end].
type Buffer struct {
	data     []byte
	start    int
	end      int
	consumed int64
	final    bool
	logger   *slog.Logger
}

// New creates an empty buffer with the supplied capacity.
func New(size int, logger *slog.Logger) (*Buffer, error) {
	if size <= 0 {
		return nil, jsonerr.InvalidArgument("buffer size must be positive, got %d", size)
	}
	return &Buffer{data: make([]byte, size), logger: logger}, nil
}

// FromBytes wraps data as a final buffer; data is not copied.
func FromBytes(data []byte) *Buffer {
	return &Buffer{data: data, end: len(data), final: true}
}

// Bytes returns the unconsumed data.
func (b *Buffer) Bytes() []byte { return b.data[b.start:b.end] }

// Advance marks n bytes as consumed.
func (b *Buffer) Advance(n int) {
	b.start += n
	b.consumed += int64(n)
}

// Offset returns the absolute source offset of Bytes()[0].
func (b *Buffer) Offset() int64 { return b.consumed }

// Final reports whether the source has been exhausted.
func (b *Buffer) Final() bool { return b.final }

// Cap returns the current buffer capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Fill moves the unconsumed tail to the front, doubles the capacity when the
// tail occupies all of it, and reads from r into the free space. It returns
// once some bytes arrived or the source reported io.EOF.
func (b *Buffer) Fill(ctx context.Context, r io.Reader) error {
	if b.final {
		return nil
	}
	if b.start > 0 {
		n := copy(b.data, b.data[b.start:b.end])
		b.start, b.end = 0, n
	}
	if b.end == len(b.data) {
		b.grow()
	}
	for empty := 0; ; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(b.data[b.end:])
		b.end += n
		if errors.Is(err, io.EOF) {
			b.final = true
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to read source")
		}
		if n > 0 {
			return nil
		}
		if empty++; empty >= maxEmptyReads {
			return errors.Wrap(io.ErrNoProgress, "source made no progress")
		}
	}
}

func (b *Buffer) grow() {
	size := 2 * len(b.data)
	if size == 0 {
		size = 1
	}
	grown := make([]byte, size)
	copy(grown, b.data[b.start:b.end])
	b.end -= b.start
	b.start = 0
	if b.logger != nil {
		b.logger.Debug("grew read buffer", slog.Int("from", len(b.data)), slog.Int("to", size), slog.Int64("offset", b.consumed))
	}
	b.data = grown
}
