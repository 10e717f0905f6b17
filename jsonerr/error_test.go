package jsonerr

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Is(t *testing.T) {
	var testCases = []struct {
		description string
		err         error
		matches     []error
		misses      []error
	}{
		{
			description: "malformed",
			err:         Malformed(3, "unexpected character %q", 'x'),
			matches:     []error{ErrMalformedInput},
			misses:      []error{ErrUnexpectedEndOfInput, ErrTypeMismatch, ErrInvalidArgument},
		},
		{
			description: "end of input is malformed too",
			err:         EndOfInput(10, "unterminated string"),
			matches:     []error{ErrUnexpectedEndOfInput, ErrMalformedInput},
			misses:      []error{ErrTypeMismatch},
		},
		{
			description: "mismatch",
			err:         Mismatch(0, "expected string"),
			matches:     []error{ErrTypeMismatch},
			misses:      []error{ErrMalformedInput},
		},
		{
			description: "wrapped by caller",
			err:         fmt.Errorf("decode: %w", InvalidArgument("descriptor was nil")),
			matches:     []error{ErrInvalidArgument},
			misses:      []error{ErrTypeMismatch},
		},
	}

	for _, testCase := range testCases {
		for _, kind := range testCase.matches {
			assert.True(t, errors.Is(testCase.err, kind), testCase.description)
		}
		for _, kind := range testCase.misses {
			assert.False(t, errors.Is(testCase.err, kind), testCase.description)
		}
	}
}

func TestError_Message(t *testing.T) {
	err := Mismatch(12, "expected string, found number")
	_ = WithPath(err, "$.items[2].name")
	assert.Equal(t, "type mismatch at offset 12 ($.items[2].name): expected string, found number", err.Error())

	arg := InvalidArgument("descriptor was nil")
	assert.Equal(t, "invalid argument: descriptor was nil", arg.Error())
}

func TestRebaseAndPath(t *testing.T) {
	err := Malformed(4, "bad")
	require.Same(t, err, Rebase(err, 100))
	assert.EqualValues(t, 104, err.Offset)

	_ = WithPath(err, "$.a")
	_ = WithPath(err, "$")
	assert.Equal(t, "$.a", err.Path)

	arg := InvalidArgument("x")
	_ = Rebase(arg, 100)
	assert.EqualValues(t, -1, arg.Offset)
}

func TestWrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ErrTypeMismatch, 7, cause, "custom converter failed")
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "boom")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrUnexpectedEndOfInput, KindOf(EndOfInput(0, "x")))
	assert.Equal(t, ErrTypeMismatch, KindOf(errors.Wrap(ErrTypeMismatch, "ctx")))
	assert.Nil(t, KindOf(errors.New("other")))
}
