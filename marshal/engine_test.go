package marshal

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/andreyvit/diff"
	"github.com/francoispqt/gojay"
	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jsonstream/descriptor"
	"github.com/viant/jsonstream/document"
	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/token"
	"github.com/viant/tagly/format/text"
)

type Meta struct {
	Owner string `json:"owner"`
}

type item struct {
	SKU   string  `json:"sku"`
	Qty   int16   `json:"qty"`
	Price float32 `json:"price"`
}

type invoice struct {
	ID       uint64            `json:"id"`
	Customer string            `json:"customer"`
	Items    []item            `json:"items"`
	Notes    []string          `json:"notes"`
	Labels   map[string]string `json:"labels"`
	Total    float64           `json:"total"`
	Paid     bool              `json:"paid"`
	Discount *float64          `json:"discount"`
	Comment  string            `json:"comment,omitempty"`
	Issued   time.Time         `json:"issued"`
	Matrix   [2][2]int8        `json:"matrix"`
	*Meta
}

type color int

func (c color) MarshalText() ([]byte, error) {
	if c < 0 {
		return nil, errors.New("negative color")
	}
	return []byte([]string{"red", "green", "blue"}[c]), nil
}

type point struct{ X, Y int }

func (p *point) MarshalJSONObject(enc *gojay.Encoder) {
	enc.IntKey("x", p.X)
	enc.IntKey("y", p.Y)
}

func (p *point) IsNil() bool { return p == nil }

type raw string

func (r raw) MarshalJSON() ([]byte, error) { return []byte(r), nil }

type shape struct {
	Color  color  `json:"color"`
	Origin point  `json:"origin"`
	Extra  raw    `json:"extra"`
	Label  string `json:"label"`
}

type cyclic struct {
	Next *cyclic `json:"next"`
}

func sampleInvoice() *invoice {
	discount := 0.125
	return &invoice{
		ID:       18446744073709551615,
		Customer: "Zoë \"Z\" \\ tab\tend\n",
		Items:    []item{{SKU: "a-1", Qty: -3, Price: 1.1}, {SKU: "b/2", Qty: 7, Price: 1e-7}},
		Labels:   map[string]string{"z": "last", "a": "first", "m": ""},
		Total:    1e21,
		Paid:     true,
		Discount: &discount,
		Issued:   time.Date(2024, 5, 6, 7, 8, 9, 10, time.UTC),
		Matrix:   [2][2]int8{{1, -2}, {127, -128}},
		Meta:     &Meta{Owner: "ops"},
	}
}

func assertJSON(t *testing.T, expect, actual string, description string) {
	t.Helper()
	if expect != actual {
		t.Errorf("%s: output mismatch\n%s", description, diff.LineDiff(expect, actual))
	}
}

func TestEngine_MatchesReferenceEncoder(t *testing.T) {
	var testCases = []struct {
		description string
		value       interface{}
		d           *descriptor.Descriptor
	}{
		{description: "invoice", value: sampleInvoice(), d: descriptor.MustOf[invoice]()},
		{description: "empty invoice", value: invoice{}, d: descriptor.MustOf[invoice]()},
		{description: "map of slices", value: map[string][]int{"b": {1}, "a": nil}, d: descriptor.MustOf[map[string][]int]()},
		{description: "floats", value: []float64{0, -0.5, 3, 1e-6, 1e-7, 123456789, 1e20, 1e21, math.MaxFloat64}, d: descriptor.MustOf[[]float64]()},
		{description: "float32", value: []float32{0.1, 1e-7, 16777216}, d: descriptor.MustOf[[]float32]()},
		{description: "invalid utf8", value: "a\xffb\xc3", d: descriptor.MustOf[string]()},
		{description: "controls", value: "\x00\x1f\r", d: descriptor.MustOf[string]()},
		{description: "any", value: []interface{}{1, "x", nil, true, map[string]interface{}{"k": 2.5}}, d: descriptor.Any()},
	}
	engine := New(Options{IncludeFields: true})
	for _, testCase := range testCases {
		expect, err := gojson.Marshal(testCase.value)
		require.NoError(t, err, testCase.description)
		actual, err := engine.Marshal(testCase.value, testCase.d)
		require.NoError(t, err, testCase.description)
		assertJSON(t, string(expect), string(actual), testCase.description)
	}
}

func TestEngine_Marshal(t *testing.T) {
	type account struct {
		ID        int    `json:"id"`
		FirstName string `json:"firstName,omitempty"`
		Nickname  string
		LastLogin time.Time `json:"lastLogin" format:"dateFormat=yyyy-MM-dd"`
		Password  string    `json:"-"`
		Tags      []string  `json:"tags"`
	}
	value := account{ID: 1, Nickname: "nick", LastLogin: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC), Password: "x"}
	d := descriptor.MustOf[account]()

	var testCases = []struct {
		description string
		options     Options
		value       interface{}
		expect      string
	}{
		{description: "properties only", value: value, expect: `{"id":1,"lastLogin":"2024-02-03","tags":null}`},
		{description: "pointer value", value: &value, expect: `{"id":1,"lastLogin":"2024-02-03","tags":null}`},
		{description: "include fields", options: Options{IncludeFields: true}, value: value, expect: `{"id":1,"Nickname":"nick","lastLogin":"2024-02-03","tags":null}`},
		{description: "case format", options: Options{IncludeFields: true, CaseFormat: text.CaseFormatLowerUnderscore}, value: value, expect: `{"id":1,"nickname":"nick","lastLogin":"2024-02-03","tags":null}`},
		{description: "nil slice as empty", options: Options{NilSlicePolicy: NilSliceAsEmptyArray}, value: value, expect: `{"id":1,"lastLogin":"2024-02-03","tags":[]}`},
		{description: "omit empty", options: Options{OmitEmpty: true}, value: account{ID: 2}, expect: `{"id":2}`},
		{description: "nil pointer", value: (*account)(nil), expect: `null`},
		{description: "nil value", value: nil, expect: `null`},
		{description: "indent", options: Options{Indent: "  "}, value: account{ID: 3, Tags: []string{"a"}}, expect: "{\n  \"id\": 3,\n  \"lastLogin\": \"0001-01-01\",\n  \"tags\": [\n    \"a\"\n  ]\n}"},
	}
	for _, testCase := range testCases {
		actual, err := New(testCase.options).Marshal(testCase.value, d)
		require.NoError(t, err, testCase.description)
		assertJSON(t, testCase.expect, string(actual), testCase.description)
	}
}

func TestEngine_Custom(t *testing.T) {
	d := descriptor.MustOf[shape]()
	actual, err := New(Options{}).Marshal(shape{Color: 2, Origin: point{X: 1, Y: -1}, Extra: ` { "a" : [ 1 ] } `, Label: "l"}, d)
	require.NoError(t, err)
	assertJSON(t, `{"color":"blue","origin":{"x":1,"y":-1},"extra":{"a":[1]},"label":"l"}`, string(actual), "custom")

	_, err = New(Options{}).Marshal(shape{Color: -1, Extra: "1"}, d)
	assert.True(t, errors.Is(err, jsonerr.ErrInvalidArgument), err)

	_, err = New(Options{}).Marshal(shape{Extra: "{"}, d)
	assert.True(t, errors.Is(err, jsonerr.ErrInvalidArgument), err)

	actual, err = New(Options{TimeLayout: "2006/01/02"}).Marshal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), descriptor.MustOf[time.Time]())
	require.NoError(t, err)
	assert.Equal(t, `"2024/01/02"`, string(actual))
}

func TestEngine_Dynamic(t *testing.T) {
	element, err := document.Parse([]byte(` {"b": [1, 2], "a": "x"} `), token.Options{})
	require.NoError(t, err)
	actual, err := New(Options{}).Marshal(element, descriptor.Any())
	require.NoError(t, err)
	assert.Equal(t, `{"b":[1,2],"a":"x"}`, string(actual))

	actual, err = New(Options{}).Marshal(map[string]interface{}{"e": element, "n": (*int)(nil)}, descriptor.Any())
	require.NoError(t, err)
	assert.Equal(t, `{"e":{"b":[1,2],"a":"x"},"n":null}`, string(actual))

	actual, err = New(Options{}).Marshal(document.Element{}, descriptor.MustOf[document.Element]())
	require.NoError(t, err)
	assert.Equal(t, `null`, string(actual))
}

func TestEngine_Errors(t *testing.T) {
	var testCases = []struct {
		description string
		value       interface{}
		d           *descriptor.Descriptor
		kind        error
	}{
		{description: "nil descriptor", value: 1, d: nil, kind: jsonerr.ErrInvalidArgument},
		{description: "nil descriptor and value", value: nil, d: nil, kind: jsonerr.ErrInvalidArgument},
		{description: "int for string", value: 1, d: descriptor.MustOf[string](), kind: jsonerr.ErrTypeMismatch},
		{description: "struct for slice", value: item{}, d: descriptor.MustOf[[]item](), kind: jsonerr.ErrTypeMismatch},
		{description: "nan", value: math.NaN(), d: descriptor.MustOf[float64](), kind: jsonerr.ErrInvalidArgument},
		{description: "inf in any", value: []interface{}{math.Inf(1)}, d: descriptor.Any(), kind: jsonerr.ErrInvalidArgument},
		{description: "unsupported in any", value: []interface{}{make(chan int)}, d: descriptor.Any(), kind: jsonerr.ErrInvalidArgument},
	}
	for _, testCase := range testCases {
		_, err := New(Options{}).Marshal(testCase.value, testCase.d)
		require.Error(t, err, testCase.description)
		assert.True(t, errors.Is(err, testCase.kind), "%v: %v", testCase.description, err)
	}

	loop := &cyclic{}
	loop.Next = loop
	_, err := New(Options{}).Marshal(loop, descriptor.MustOf[cyclic]())
	assert.True(t, errors.Is(err, jsonerr.ErrInvalidArgument))
	assert.True(t, strings.Contains(err.Error(), "max depth"))
}

func TestEngine_MarshalTo(t *testing.T) {
	dst := []byte("prefix:")
	actual, err := New(Options{}).MarshalTo(dst, []int{1, 2}, descriptor.MustOf[[]int]())
	require.NoError(t, err)
	assert.Equal(t, "prefix:[1,2]", string(actual))

	actual, err = New(Options{}).MarshalTo(dst, "text", descriptor.MustOf[[]int]())
	assert.True(t, errors.Is(err, jsonerr.ErrTypeMismatch), err)
	assert.Equal(t, "prefix:", string(actual))

	actual, err = New(Options{}).MarshalTo(dst, math.Inf(1), descriptor.MustOf[float64]())
	assert.True(t, errors.Is(err, jsonerr.ErrInvalidArgument), err)
	assert.Equal(t, "prefix:", string(actual))
}
