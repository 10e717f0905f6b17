package document

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/token"
)

func TestParse_Scalar(t *testing.T) {
	root, err := Parse([]byte(` 42 `), token.Options{})
	require.NoError(t, err)
	assert.Equal(t, Number, root.Kind())
	v, err := root.Int32()
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)
	assert.Equal(t, "42", root.String())

	_, err = root.Text()
	assert.True(t, errors.Is(err, jsonerr.ErrTypeMismatch))
}

func TestParse_Object(t *testing.T) {
	root, err := Parse([]byte(`{ "name" : "café", "tags" : [ "a", 2, true, null, {"x": [] } ], "n": 1, "n": 2 }`), token.Options{})
	require.NoError(t, err)
	require.Equal(t, Object, root.Kind())
	assert.Equal(t, 4, root.Len())
	assert.Equal(t, []string{"name", "tags", "n", "n"}, root.Keys())
	assert.Equal(t, `{"name":"café","tags":["a",2,true,null,{"x":[]}],"n":1,"n":2}`, root.String())

	name, ok := root.Get("name")
	require.True(t, ok)
	text, err := name.Text()
	require.NoError(t, err)
	assert.Equal(t, "café", text)
	assert.Equal(t, `"café"`, string(name.Raw()))

	n, ok := root.Get("n")
	require.True(t, ok)
	v, err := n.Int64()
	require.NoError(t, err)
	assert.EqualValues(t, 2, v, "last duplicate wins")

	tags, ok := root.Get("tags")
	require.True(t, ok)
	assert.Equal(t, 5, tags.Len())
	assert.Equal(t, Number, tags.Index(1).Kind())
	assert.True(t, tags.Index(3).IsNull())
	assert.Equal(t, `{"x":[]}`, tags.Index(4).String())
	assert.False(t, tags.Index(5).Exists())
	x, ok := tags.Index(4).Get("x")
	require.True(t, ok)
	assert.Equal(t, Array, x.Kind())
	assert.Equal(t, 0, x.Len())

	_, ok = root.Get("missing")
	assert.False(t, ok)
}

func TestElement_Interface(t *testing.T) {
	root, err := Parse([]byte(`{"a":[1,"b",false],"c":null}`), token.Options{})
	require.NoError(t, err)
	v, err := root.Interface()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": []interface{}{float64(1), "b", false}, "c": nil}, v)
}

func TestElement_Numbers(t *testing.T) {
	root, err := Parse([]byte(`[3000000000, 1.5, -1]`), token.Options{})
	require.NoError(t, err)

	_, err = root.Index(0).Int32()
	assert.True(t, errors.Is(err, jsonerr.ErrTypeMismatch), "overflow")
	v, err := root.Index(0).Int64()
	require.NoError(t, err)
	assert.EqualValues(t, 3000000000, v)

	_, err = root.Index(1).Int64()
	assert.True(t, errors.Is(err, jsonerr.ErrTypeMismatch), "fraction")
	f, err := root.Index(1).Float64()
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	_, err = root.Index(2).Uint64()
	assert.True(t, errors.Is(err, jsonerr.ErrTypeMismatch))
}

func TestElement_Undefined(t *testing.T) {
	var e Element
	assert.Equal(t, Undefined, e.Kind())
	assert.Equal(t, 0, e.Len())
	data, err := e.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{"a":[1,2}`), token.Options{})
	assert.True(t, errors.Is(err, jsonerr.ErrMalformedInput))
	_, err = Parse([]byte(`[1,2`), token.Options{})
	assert.True(t, errors.Is(err, jsonerr.ErrUnexpectedEndOfInput))
}

func TestBuilder_Incremental(t *testing.T) {
	builder := NewBuilder(0)
	assert.False(t, builder.Add(token.Token{Kind: token.ArrayStart}))
	assert.False(t, builder.Add(token.Token{Kind: token.String, Value: []byte("x")}))
	assert.True(t, builder.Add(token.Token{Kind: token.ArrayEnd}))
	assert.True(t, builder.Complete())
	assert.Equal(t, `["x"]`, string(builder.Document().Bytes()))
}
