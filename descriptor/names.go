package descriptor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/viant/jsonstream/internal/lru"
	"github.com/viant/tagly/format/text"
)

// Names maps JSON property names to fields under one naming policy.
type Names struct {
	output []string
	shadow []bool
	byName map[string]*Field
	byFold map[uint64][]foldField
}

type foldField struct {
	key   string
	field *Field
}

type namesKey struct {
	descriptor *Descriptor
	caseFormat text.CaseFormat
}

var namesCache = lru.New[namesKey, *Names](1024)

// Names returns the name table of an Aggregate. Fields without an explicit
// name are renamed with caseFormat; their Go name stays accepted on input.
func (d *Descriptor) Names(caseFormat text.CaseFormat) *Names {
	if caseFormat == text.CaseFormatUndefined || d.names == nil {
		return d.names
	}
	return namesCache.GetOrSet(namesKey{descriptor: d, caseFormat: caseFormat}, func() *Names {
		return newNames(d.fields, caseFormat)
	})
}

func newNames(fields []*Field, caseFormat text.CaseFormat) *Names {
	ret := &Names{
		output: make([]string, len(fields)),
		shadow: make([]bool, len(fields)),
		byName: make(map[string]*Field, len(fields)),
		byFold: make(map[uint64][]foldField, len(fields)),
	}
	for _, field := range fields {
		name := field.Name
		if !field.Property && caseFormat != text.CaseFormatUndefined {
			name = FormatName(field.GoName, caseFormat)
		}
		ret.output[field.Index] = name
	}
	// shallower fields claim a name first
	ordered := make([]*Field, len(fields))
	copy(ordered, fields)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].depth < ordered[j-1].depth; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	for _, field := range ordered {
		name := ret.output[field.Index]
		if _, taken := ret.byName[name]; taken {
			ret.shadow[field.Index] = true
			continue
		}
		ret.add(name, field)
	}
	for _, field := range ordered {
		if alias := field.Name; !ret.shadow[field.Index] && alias != ret.output[field.Index] {
			if _, taken := ret.byName[alias]; !taken {
				ret.add(alias, field)
			}
		}
	}
	return ret
}

func (n *Names) add(name string, field *Field) {
	n.byName[name] = field
	h := foldedHash(name)
	n.byFold[h] = append(n.byFold[h], foldField{key: name, field: field})
}

// Output returns the JSON name written for field.
func (n *Names) Output(field *Field) string { return n.output[field.Index] }

// Shadowed reports whether a shallower field with the same name hides field.
func (n *Names) Shadowed(field *Field) bool { return n.shadow[field.Index] }

// Lookup finds the field for a property name, optionally ignoring case.
func (n *Names) Lookup(name string, caseInsensitive bool) (*Field, bool) {
	if field, ok := n.byName[name]; ok {
		return field, true
	}
	if !caseInsensitive {
		return nil, false
	}
	for _, candidate := range n.byFold[foldedHash(name)] {
		if strings.EqualFold(candidate.key, name) {
			return candidate.field, true
		}
	}
	return nil, false
}

// foldedHash hashes s so that names equal under strings.EqualFold collide.
func foldedHash(s string) uint64 {
	const (
		offset64 = 1469598103934665603
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for _, r := range s {
		h ^= uint64(foldRune(r))
		h *= prime64
	}
	return h
}

// foldRune returns the smallest rune of r's case folding orbit.
func foldRune(r rune) rune {
	if r < utf8.RuneSelf {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		return r
	}
	folded := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < folded {
			folded = f
		}
	}
	return folded
}

// FormatName converts a Go identifier to caseFormat.
func FormatName(name string, caseFormat text.CaseFormat) string {
	if caseFormat == text.CaseFormatUndefined {
		return name
	}
	if name == "ID" {
		switch caseFormat {
		case text.CaseFormatLower, text.CaseFormatLowerCamel, text.CaseFormatLowerUnderscore:
			return "id"
		}
	}
	source := text.DetectCaseFormat(name)
	if !source.IsDefined() {
		source = text.CaseFormatUpperCamel
	}
	return source.Format(name, caseFormat)
}
