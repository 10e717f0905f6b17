// Package document provides a read-only, lazily decoded JSON document.
//
// A Document owns a compact copy of its JSON text and a flat index of rows,
// one per value or property name. Elements address rows; strings are only
// unescaped and numbers only converted when asked for.
package document

import (
	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/token"
)

// Kind identifies the JSON kind of an element.
type Kind uint8

const (
	Undefined Kind = iota
	Object
	Array
	String
	Number
	True
	False
	Null
)

var kindNames = [...]string{
	Undefined: "undefined",
	Object:    "object",
	Array:     "array",
	String:    "string",
	Number:    "number",
	True:      "true",
	False:     "false",
	Null:      "null",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// row indexes one value. For strings start:end covers the contents without
// quotes, for containers it covers the brackets. Object members are laid out
// as a key row followed by the value subtree.
type row struct {
	kind    Kind
	key     bool
	escaped bool
	start   int
	end     int
	span    int
	count   int
}

// Document is an immutable parsed JSON value.
type Document struct {
	data []byte
	rows []row
}

// Root returns the top-level element.
func (d *Document) Root() Element {
	if d == nil || len(d.rows) == 0 {
		return Element{}
	}
	return Element{doc: d, idx: 0}
}

// Bytes returns the compact JSON text of the document.
func (d *Document) Bytes() []byte { return d.data }

// Parse builds a document from a complete JSON text.
func Parse(data []byte, options token.Options) (Element, error) {
	reader := token.NewReader(options)
	builder := NewBuilder(len(data))
	pos := 0
	for {
		tok, n, err := reader.Read(data[pos:], true)
		if err != nil {
			return Element{}, jsonerr.Rebase(err, int64(pos))
		}
		pos += n
		if tok.Kind == token.End {
			return builder.Document().Root(), nil
		}
		builder.Add(tok)
	}
}

// Builder assembles a Document from a valid token sequence.
type Builder struct {
	doc       *Document
	compactor token.Compactor
	open      []int
	complete  bool
}

// NewBuilder creates a builder; sizeHint pre-sizes the text buffer.
func NewBuilder(sizeHint int) *Builder {
	if sizeHint < 16 {
		sizeHint = 16
	}
	return &Builder{doc: &Document{data: make([]byte, 0, sizeHint), rows: make([]row, 0, 8)}}
}

// Complete reports whether a whole top-level value has been added.
func (b *Builder) Complete() bool { return b.complete }

// Document returns the assembled document.
func (b *Builder) Document() *Document { return b.doc }

// Add appends a token; it returns true once the top-level value is complete.
func (b *Builder) Add(tok token.Token) bool {
	doc := b.doc
	doc.data = b.compactor.Append(doc.data, tok)
	switch tok.Kind {
	case token.ObjectEnd, token.ArrayEnd:
		idx := b.open[len(b.open)-1]
		b.open = b.open[:len(b.open)-1]
		doc.rows[idx].end = len(doc.data)
		doc.rows[idx].span = len(doc.rows) - idx
		b.complete = len(b.open) == 0
		return b.complete
	case token.None, token.End:
		return b.complete
	}

	r := row{span: 1}
	switch tok.Kind {
	case token.ObjectStart:
		r.kind = Object
		r.start = len(doc.data) - 1
	case token.ArrayStart:
		r.kind = Array
		r.start = len(doc.data) - 1
	case token.PropertyName:
		r.kind, r.key = String, true
		r.end = len(doc.data) - 2
		r.start = r.end - len(tok.Value)
	case token.String:
		r.kind = String
		r.end = len(doc.data) - 1
		r.start = r.end - len(tok.Value)
	default:
		r.kind = literalKind(tok.Kind)
		r.start, r.end = len(doc.data)-len(tok.Value), len(doc.data)
	}
	r.escaped = tok.Escaped
	if len(b.open) > 0 {
		parent := &doc.rows[b.open[len(b.open)-1]]
		if parent.kind == Array || r.key {
			parent.count++
		}
	}
	doc.rows = append(doc.rows, r)
	if r.kind == Object || r.kind == Array {
		b.open = append(b.open, len(doc.rows)-1)
		return false
	}
	if !r.key && len(b.open) == 0 {
		b.complete = true
	}
	return b.complete
}

func literalKind(kind token.Kind) Kind {
	switch kind {
	case token.Number:
		return Number
	case token.True:
		return True
	case token.False:
		return False
	}
	return Null
}
