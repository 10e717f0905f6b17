// Package token implements a resumable JSON token reader.
//
// A Reader scans whatever bytes are currently buffered and either returns the
// next complete token or reports that more input is needed. Its committed
// state only changes for fully consumed bytes, so the caller may refill the
// buffer and call Read again with the unconsumed tail plus new data.
package token

// Kind identifies a token.
type Kind uint8

const (
	// None means no complete token is available in the supplied bytes.
	None Kind = iota
	ObjectStart
	ObjectEnd
	ArrayStart
	ArrayEnd
	PropertyName
	String
	Number
	True
	False
	Null
	// End marks the end of the document; only whitespace (or comments) followed the top-level value.
	End
)

var kindNames = [...]string{
	None:         "none",
	ObjectStart:  "'{'",
	ObjectEnd:    "'}'",
	ArrayStart:   "'['",
	ArrayEnd:     "']'",
	PropertyName: "property name",
	String:       "string",
	Number:       "number",
	True:         "true",
	False:        "false",
	Null:         "null",
	End:          "end of input",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsValue reports whether the token starts a JSON value.
func (k Kind) IsValue() bool {
	switch k {
	case ObjectStart, ArrayStart, String, Number, True, False, Null:
		return true
	}
	return false
}

// Token is a lexical unit of JSON.
//
// Value is a view into the bytes passed to Read: string contents without
// quotes (escapes intact) or the number literal. It is valid until the
// underlying buffer is refilled.
type Token struct {
	Kind    Kind
	Value   []byte
	Escaped bool
	Offset  int
}

// Options controls reader leniency.
type Options struct {
	AllowComments       bool
	AllowTrailingCommas bool
	MaxDepth            int
}

// DefaultMaxDepth limits container nesting when Options.MaxDepth is not set.
const DefaultMaxDepth = 64
