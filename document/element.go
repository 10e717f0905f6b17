package document

import (
	"strconv"
	"unsafe"

	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/token"
)

// Element is a read-only view of one value in a Document.
// The zero Element is Undefined.
type Element struct {
	doc *Document
	idx int
}

func (e Element) row() *row { return &e.doc.rows[e.idx] }

// Kind returns the element kind.
func (e Element) Kind() Kind {
	if e.doc == nil {
		return Undefined
	}
	return e.row().kind
}

// Exists reports whether the element refers to a value.
func (e Element) Exists() bool { return e.doc != nil }

// IsNull reports whether the element is JSON null.
func (e Element) IsNull() bool { return e.Kind() == Null }

// Len returns the number of array elements or object members.
func (e Element) Len() int {
	switch e.Kind() {
	case Object, Array:
		return e.row().count
	}
	return 0
}

// Index returns the i-th array element, or an undefined element.
func (e Element) Index(i int) Element {
	if e.Kind() != Array || i < 0 || i >= e.row().count {
		return Element{}
	}
	child := e.idx + 1
	for ; i > 0; i-- {
		child += e.doc.rows[child].span
	}
	return Element{doc: e.doc, idx: child}
}

// Elements returns all array elements.
func (e Element) Elements() []Element {
	if e.Kind() != Array {
		return nil
	}
	ret := make([]Element, 0, e.row().count)
	child := e.idx + 1
	for i := 0; i < e.row().count; i++ {
		ret = append(ret, Element{doc: e.doc, idx: child})
		child += e.doc.rows[child].span
	}
	return ret
}

// Get returns the value of the named member; for duplicate names the last one wins.
func (e Element) Get(name string) (Element, bool) {
	var found Element
	e.each(func(key int, value Element) bool {
		if e.keyEquals(key, name) {
			found = value
		}
		return true
	})
	return found, found.Exists()
}

// Range calls fn for every object member in document order until fn returns false.
func (e Element) Range(fn func(name string, value Element) bool) {
	e.each(func(key int, value Element) bool {
		return fn(e.doc.text(key), value)
	})
}

// Keys returns member names in document order.
func (e Element) Keys() []string {
	var ret []string
	e.each(func(key int, _ Element) bool {
		ret = append(ret, e.doc.text(key))
		return true
	})
	return ret
}

func (e Element) each(fn func(key int, value Element) bool) {
	if e.Kind() != Object {
		return
	}
	key := e.idx + 1
	for i := 0; i < e.row().count; i++ {
		value := key + 1
		if !fn(key, Element{doc: e.doc, idx: value}) {
			return
		}
		key = value + e.doc.rows[value].span
	}
}

func (e Element) keyEquals(key int, name string) bool {
	r := &e.doc.rows[key]
	raw := e.doc.data[r.start:r.end]
	if !r.escaped {
		return string(raw) == name
	}
	return e.doc.text(key) == name
}

func (d *Document) text(idx int) string {
	r := &d.rows[idx]
	raw := d.data[r.start:r.end]
	s, err := token.Unquote(raw, r.escaped)
	if err != nil {
		return string(raw)
	}
	return s
}

// Text returns the unescaped value of a string element.
func (e Element) Text() (string, error) {
	if e.Kind() != String {
		return "", e.mismatch("string")
	}
	r := e.row()
	return token.Unquote(e.doc.data[r.start:r.end], r.escaped)
}

// Bool returns the value of a true or false element.
func (e Element) Bool() (bool, error) {
	switch e.Kind() {
	case True:
		return true, nil
	case False:
		return false, nil
	}
	return false, e.mismatch("boolean")
}

// Int32 converts a number element to int32.
func (e Element) Int32() (int32, error) {
	v, err := e.parseInt(32)
	return int32(v), err
}

// Int64 converts a number element to int64.
func (e Element) Int64() (int64, error) { return e.parseInt(64) }

// Uint64 converts a number element to uint64.
func (e Element) Uint64() (uint64, error) {
	literal, err := e.number()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(literal, 10, 64)
	if err != nil {
		return 0, jsonerr.Wrap(jsonerr.ErrTypeMismatch, -1, err, "number %s does not fit uint64", literal)
	}
	return v, nil
}

// Float64 converts a number element to float64.
func (e Element) Float64() (float64, error) {
	literal, err := e.number()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, jsonerr.Wrap(jsonerr.ErrTypeMismatch, -1, err, "number %s does not fit float64", literal)
	}
	return v, nil
}

func (e Element) parseInt(bitSize int) (int64, error) {
	literal, err := e.number()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(literal, 10, bitSize)
	if err != nil {
		return 0, jsonerr.Wrap(jsonerr.ErrTypeMismatch, -1, err, "number %s does not fit int%d", literal, bitSize)
	}
	return v, nil
}

func (e Element) number() (string, error) {
	if e.Kind() != Number {
		return "", e.mismatch("number")
	}
	r := e.row()
	raw := e.doc.data[r.start:r.end]
	return unsafe.String(unsafe.SliceData(raw), len(raw)), nil
}

func (e Element) mismatch(expected string) error {
	return jsonerr.Mismatch(-1, "expected %s element, found %s", expected, e.Kind())
}

// Raw returns the compact JSON text of the element; it aliases document memory.
func (e Element) Raw() []byte {
	if e.doc == nil {
		return nil
	}
	r := e.row()
	if r.kind == String {
		return e.doc.data[r.start-1 : r.end+1]
	}
	return e.doc.data[r.start:r.end]
}

// String returns the compact JSON text of the element.
func (e Element) String() string {
	if e.doc == nil {
		return "undefined"
	}
	return string(e.Raw())
}

// MarshalJSON writes the element verbatim.
func (e Element) MarshalJSON() ([]byte, error) {
	if e.doc == nil {
		return []byte("null"), nil
	}
	return append([]byte(nil), e.Raw()...), nil
}

// Interface converts the element into map[string]interface{}, []interface{},
// string, float64, bool or nil.
func (e Element) Interface() (interface{}, error) {
	switch e.Kind() {
	case Object:
		ret := make(map[string]interface{}, e.Len())
		var err error
		e.Range(func(name string, value Element) bool {
			var v interface{}
			if v, err = value.Interface(); err != nil {
				return false
			}
			ret[name] = v
			return true
		})
		return ret, err
	case Array:
		ret := make([]interface{}, 0, e.Len())
		for _, item := range e.Elements() {
			v, err := item.Interface()
			if err != nil {
				return nil, err
			}
			ret = append(ret, v)
		}
		return ret, nil
	case String:
		return e.Text()
	case Number:
		return e.Float64()
	case True, False:
		return e.Bool()
	}
	return nil, nil
}
