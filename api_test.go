package jsonstream

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/document"
	"github.com/viant/tagly/format"
	"github.com/viant/tagly/format/text"
)

type Audit struct {
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	Tags     []string          `json:"tags"`
	Stock    map[string]uint32 `json:"stock"`
	Discount *float32          `json:"discount"`
	Related  []*Product        `json:"related,omitempty"`
	Extra    document.Element  `json:"extra"`
	Audit
}

func sampleProduct() Product {
	discount := float32(0.25)
	return Product{
		ID:       42,
		Name:     "Desk \"oak\"\n",
		Price:    199.99,
		Tags:     []string{"office", "wood"},
		Stock:    map[string]uint32{"berlin": 3, "austin": 0},
		Discount: &discount,
		Related:  []*Product{{ID: 7, Name: "Chair", Tags: []string{}}},
		Audit:    Audit{CreatedBy: "ops", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
}

func TestRoundTrip(t *testing.T) {
	d := descriptor.MustOf[Product]()
	expect := sampleProduct()
	data, err := Serialize(expect, d)
	require.NoError(t, err)

	value, err := Deserialize(data, d)
	require.NoError(t, err)
	actual, ok := value.(Product)
	require.True(t, ok)
	assert.Equal(t, `null`, actual.Extra.String())
	assert.True(t, actual.Related[0].Extra.IsNull())
	actual.Extra = document.Element{}
	actual.Related[0].Extra = document.Element{}
	assert.Equal(t, expect, actual)

	indented, err := Serialize(expect, d, WithIndent("  "))
	require.NoError(t, err)
	value, err = Deserialize(indented, d)
	require.NoError(t, err)
	assert.Equal(t, expect.Stock, value.(Product).Stock)
}

func TestDeserializeStream_ChunkingInvariance(t *testing.T) {
	d := descriptor.MustOf[Product]()
	data, err := Serialize(sampleProduct(), d)
	require.NoError(t, err)
	expect, err := Deserialize(data, d)
	require.NoError(t, err)

	readers := map[string]func() io.Reader{
		"one byte": func() io.Reader { return iotest.OneByteReader(bytes.NewReader(data)) },
		"half":     func() io.Reader { return iotest.HalfReader(bytes.NewReader(data)) },
		"data err": func() io.Reader { return iotest.DataErrReader(bytes.NewReader(data)) },
		"whole":    func() io.Reader { return bytes.NewReader(data) },
	}
	for name, reader := range readers {
		for _, size := range []int{5, DefaultBufferSize} {
			actual, err := DeserializeStream(context.Background(), reader(), d, WithBufferSize(size))
			require.NoError(t, err, "%s/%d", name, size)
			assert.Equal(t, expect, actual, "%s/%d", name, size)
		}
	}
}

func TestDeserialize_NilDescriptor(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte(`{}`)} {
		_, err := Deserialize(data, nil)
		assert.True(t, errors.Is(err, ErrInvalidArgument), string(data))
	}
	_, err := DeserializeStream(context.Background(), strings.NewReader(""), nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = Serialize(nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestSerialize_Null(t *testing.T) {
	for _, d := range []*descriptor.Descriptor{descriptor.MustOf[Product](), descriptor.MustOf[int](), descriptor.Any()} {
		data, err := Serialize(nil, d)
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	}
}

func TestSerialize_TypeMismatch(t *testing.T) {
	_, err := Serialize(1, descriptor.MustOf[string]())
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestDeserialize_Dynamic(t *testing.T) {
	value, err := Deserialize([]byte("42"), descriptor.Any())
	require.NoError(t, err)
	element, ok := value.(document.Element)
	require.True(t, ok)
	assert.Equal(t, document.Number, element.Kind())
	number, err := element.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(42), number)

	value, err = DeserializeStream(context.Background(), strings.NewReader("42"), descriptor.Any(), WithBufferSize(5))
	require.NoError(t, err)
	number, err = value.(document.Element).Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(42), number)

	value, err = Deserialize([]byte(" null "), descriptor.Any())
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestDeserialize_Errors(t *testing.T) {
	d := descriptor.MustOf[Product]()
	var testCases = []struct {
		description string
		input       string
		kind        error
		offset      int64
	}{
		{description: "empty", input: "", kind: ErrUnexpectedEndOfInput, offset: 0},
		{description: "truncated", input: `{"id":1`, kind: ErrUnexpectedEndOfInput, offset: 7},
		{description: "bad literal", input: `{"id":tru}`, kind: ErrMalformedInput, offset: 6},
		{description: "wrong type", input: `{"id":"1"}`, kind: ErrTypeMismatch, offset: 6},
		{description: "two values", input: `{} {}`, kind: ErrMalformedInput, offset: 3},
	}
	for _, testCase := range testCases {
		_, err := Deserialize([]byte(testCase.input), d)
		require.Error(t, err, testCase.description)
		assert.True(t, errors.Is(err, testCase.kind), "%v: %v", testCase.description, err)
		var e *Error
		require.True(t, errors.As(err, &e), testCase.description)
		assert.Equal(t, testCase.offset, e.Offset, testCase.description)
	}
	_, err := Deserialize([]byte(`{"id":`), d)
	assert.True(t, errors.Is(err, ErrMalformedInput), "end of input is also malformed input")
}

func TestDeserializeStream_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DeserializeStream(ctx, strings.NewReader("[1]"), descriptor.MustOf[[]int]())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeserializeAsync(t *testing.T) {
	reader, writer := io.Pipe()
	pending := DeserializeAsync(context.Background(), reader, descriptor.MustOf[[]int](), WithBufferSize(5))
	go func() {
		for _, chunk := range []string{"[1,", " 22", ",333", "]"} {
			_, _ = writer.Write([]byte(chunk))
		}
		_ = writer.Close()
	}()
	value, err := pending.Wait()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 22, 333}, value)
	select {
	case <-pending.Done():
	default:
		t.Fatal("done was not closed")
	}

	_, err = DeserializeAsync(context.Background(), strings.NewReader("1"), descriptor.MustOf[int](), WithBufferSize(0)).Wait()
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestOptions(t *testing.T) {
	_, err := NewEngine(WithBufferSize(-1))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = NewEngine(WithMaxDepth(-1))
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	engine, err := NewEngine(WithMode(ModeLenient), WithComments(false))
	require.NoError(t, err)
	options := engine.Options()
	assert.True(t, options.AllowTrailingCommas)
	assert.False(t, options.AllowComments)
	assert.True(t, options.CaseInsensitive)
	assert.Equal(t, NumbersFromString, options.NumberPolicy)
	assert.NotNil(t, options.Logger)

	engine, err = NewEngine(WithFormatTag(&format.Tag{DateFormat: "yyyy-MM-dd", CaseFormat: "lowerUnderscore"}))
	require.NoError(t, err)
	assert.Equal(t, "2006-01-02", engine.Options().TimeLayout)
	assert.Equal(t, text.CaseFormat("lowerUnderscore"), engine.Options().CaseFormat)

	engine, err = NewEngine(WithFormatTag(&format.Tag{CaseFormat: "lowerUnderscore"}), WithCaseFormat(text.CaseFormatUpperCamel))
	require.NoError(t, err)
	assert.Equal(t, text.CaseFormatUpperCamel, engine.Options().CaseFormat)
}

func TestLenientMode(t *testing.T) {
	type config struct {
		Port int    `json:"port"`
		Host string `json:"host"`
	}
	input := "{\n // service\n \"PORT\": \"8080\",\n \"host\": \"local\",\n}"
	_, err := Decode[config]([]byte(input))
	assert.True(t, errors.Is(err, ErrMalformedInput))

	actual, err := Decode[config]([]byte(input), WithMode(ModeLenient))
	require.NoError(t, err)
	assert.Equal(t, config{Port: 8080, Host: "local"}, actual)

	type reading struct {
		Value float64 `json:"value"`
		Count int     `json:"count"`
	}
	for _, input := range []string{`{"value":"NaN"}`, `{"value":"Inf"}`, `{"value":"0x1p4"}`, `{"value":"1_0.5"}`, `{"count":"+5"}`} {
		_, err = Decode[reading]([]byte(input), WithMode(ModeLenient))
		assert.True(t, errors.Is(err, ErrTypeMismatch), "%s: %v", input, err)
	}
	lenient, err := Decode[reading]([]byte(`{"value":"-1.5e2","count":"7"}`), WithMode(ModeLenient))
	require.NoError(t, err)
	data, err := Serialize(lenient, descriptor.MustOf[reading]())
	require.NoError(t, err)
	assert.Equal(t, `{"value":-150,"count":7}`, string(data))
}

func TestUnmarshal(t *testing.T) {
	type point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	target := point{X: 9, Y: 9}
	err := Unmarshal([]byte(`{"x":1,"y":"bad"}`), &target)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	assert.Equal(t, point{X: 9, Y: 9}, target, "destination is only written on success")

	require.NoError(t, Unmarshal([]byte(`{"x":1,"y":2}`), &target))
	assert.Equal(t, point{X: 1, Y: 2}, target)

	assert.True(t, errors.Is(Unmarshal([]byte(`{}`), target), ErrInvalidArgument))
	assert.True(t, errors.Is(Unmarshal([]byte(`{}`), (*point)(nil)), ErrInvalidArgument))

	var streamed []point
	require.NoError(t, UnmarshalStream(context.Background(), strings.NewReader(`[{"x":3}]`), &streamed))
	assert.Equal(t, []point{{X: 3}}, streamed)

	decoded, err := DecodeStream[map[string]point](context.Background(), strings.NewReader(`{"a":{"y":4}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]point{"a": {Y: 4}}, decoded)
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(map[string]interface{}{"b": []int{1}, "a": nil})
	require.NoError(t, err)
	assert.Equal(t, `{"a":null,"b":[1]}`, string(data))

	buffer := &bytes.Buffer{}
	require.NoError(t, SerializeTo(buffer, []string{"x"}, descriptor.MustOf[[]string](), WithNilSlicePolicy(NilSliceAsEmptyArray)))
	assert.Equal(t, `["x"]`, buffer.String())
}

func TestWithLogger(t *testing.T) {
	output := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := DeserializeStream(context.Background(), strings.NewReader(`["abcdefgh"]`), descriptor.MustOf[[]string](), WithBufferSize(2), WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, output.String(), "grew read buffer")

	output.Reset()
	_, err = DeserializeStream(context.Background(), strings.NewReader(`[1,`), descriptor.MustOf[[]int](), WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, output.String(), "deserialization failed")
}

func TestDeserialize_InvalidUTF8(t *testing.T) {
	for _, input := range []string{"{\"k\xff\":\"a\"}", "{\"k\":\"a\xfeb\"}", "\"\xc0\xaf\""} {
		_, err := Deserialize([]byte(input), descriptor.Any())
		assert.True(t, errors.Is(err, ErrMalformedInput), "%q: %v", input, err)
		_, err = DeserializeStream(context.Background(), strings.NewReader(input), descriptor.Any(), WithBufferSize(5))
		assert.True(t, errors.Is(err, ErrMalformedInput), "%q: %v", input, err)
	}
	_, err := Decode[string]([]byte("\"a\xfeb\""))
	assert.True(t, errors.Is(err, ErrMalformedInput), err)

	expect := "€ ✓ 😀 café"
	data, err := Serialize(expect, descriptor.MustOf[string]())
	require.NoError(t, err)
	actual, err := DeserializeStream(context.Background(), iotest.OneByteReader(bytes.NewReader(data)), descriptor.MustOf[string](), WithBufferSize(5))
	require.NoError(t, err)
	assert.Equal(t, expect, actual)
}
