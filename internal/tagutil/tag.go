// Package tagutil resolves JSON field naming from `json`, `format` and `internal` struct tags.
package tagutil

import (
	"reflect"
	"strings"
	"sync"

	"github.com/viant/tagly/format"
	ftime "github.com/viant/tagly/format/time"
)

// JSONTag is the parsed `json` tag.
type JSONTag struct {
	Name      string
	Explicit  bool
	Transient bool
	OmitEmpty bool
	Required  bool
}

// ParseJSONTag parses a raw `json` tag value.
func ParseJSONTag(defaultName string, raw string) JSONTag {
	if raw == "" {
		return JSONTag{Name: defaultName}
	}
	parts := strings.Split(raw, ",")
	tag := JSONTag{Name: parts[0], Explicit: true, Transient: parts[0] == "-" && len(parts) == 1}
	if tag.Name == "" {
		tag.Name = defaultName
	}
	for _, option := range parts[1:] {
		switch option {
		case "omitempty":
			tag.OmitEmpty = true
		case "required":
			tag.Required = true
		}
	}
	return tag
}

// FormatTag captures the `format` tag attributes relevant to JSON naming and time values.
type FormatTag struct {
	Name          string
	HasNameOrCase bool
	OmitEmpty     bool
	Ignore        bool
	Inline        bool
	TimeLayout    string
}

type cachedFormatTag struct {
	name       string
	caseFormat string
	omitEmpty  bool
	ignore     bool
	inline     bool
	timeLayout string
	dateFormat string
}

var formatTagCache sync.Map // map[reflect.StructTag]cachedFormatTag

// ParseFormatTag resolves the `format` tag; baseName is used when only a case format is given.
func ParseFormatTag(tag reflect.StructTag, baseName string) FormatTag {
	cached := loadFormatTag(tag)
	ret := FormatTag{
		OmitEmpty:  cached.omitEmpty,
		Ignore:     cached.ignore,
		Inline:     cached.inline,
		TimeLayout: cached.timeLayout,
	}
	if ret.TimeLayout == "" && cached.dateFormat != "" {
		ret.TimeLayout = ftime.DateFormatToTimeLayout(cached.dateFormat)
	}
	if cached.name != "" || cached.caseFormat != "" {
		ft := &format.Tag{Name: cached.name, CaseFormat: cached.caseFormat}
		if ft.Name == "" {
			ft.Name = baseName
		}
		ret.Name = ft.CaseFormatName("")
		ret.HasNameOrCase = ret.Name != ""
	}
	return ret
}

// Field is the resolved tag view of a struct field.
type Field struct {
	Name       string
	Explicit   bool
	OmitEmpty  bool
	Required   bool
	Ignore     bool
	Inline     bool
	TimeLayout string
}

// Resolve applies tag precedence for sf:
// json names win over format name/case, any of json:"-", internal:"true" or
// format ignore excludes the field, and anonymous structs or jsonx:"inline"
// or format inline flatten it.
func Resolve(sf reflect.StructField) Field {
	jTag := ParseJSONTag(sf.Name, sf.Tag.Get("json"))
	fTag := ParseFormatTag(sf.Tag, jTag.Name)
	ret := Field{
		Name:       jTag.Name,
		Explicit:   jTag.Explicit,
		OmitEmpty:  jTag.OmitEmpty || fTag.OmitEmpty,
		Required:   jTag.Required,
		Ignore:     jTag.Transient || sf.Tag.Get("internal") == "true" || fTag.Ignore,
		Inline:     fTag.Inline || sf.Tag.Get("jsonx") == "inline",
		TimeLayout: fTag.TimeLayout,
	}
	if sf.Anonymous && !jTag.Explicit {
		ret.Inline = true
	}
	if !jTag.Explicit && fTag.HasNameOrCase {
		ret.Name = fTag.Name
		ret.Explicit = true
	}
	return ret
}

func loadFormatTag(tag reflect.StructTag) cachedFormatTag {
	if v, ok := formatTagCache.Load(tag); ok {
		return v.(cachedFormatTag)
	}
	cached := cachedFormatTag{}
	if parsed, err := format.Parse(tag); err == nil && parsed != nil {
		cached = cachedFormatTag{
			name:       parsed.Name,
			caseFormat: parsed.CaseFormat,
			omitEmpty:  parsed.Omitempty,
			ignore:     parsed.Ignore,
			inline:     parsed.Inline,
			timeLayout: parsed.TimeLayout,
			dateFormat: parsed.DateFormat,
		}
	}
	formatTagCache.Store(tag, cached)
	return cached
}

const (
	// SetMarkerTag flags the struct field holding per-field presence booleans.
	SetMarkerTag      = "setMarker"
	presenceMarkerTag = "presenceMarker"
	legacyMarkerTag   = "presenceIndex"
	legacyTagFragment = "presence=true"
)

// IsPresenceMarker reports whether sf holds presence flags for its siblings.
func IsPresenceMarker(sf reflect.StructField) bool {
	if sf.Tag.Get(SetMarkerTag) == "true" {
		return true
	}
	if _, ok := sf.Tag.Lookup(presenceMarkerTag); ok {
		return true
	}
	if _, ok := sf.Tag.Lookup(legacyMarkerTag); ok {
		return true
	}
	return strings.Contains(string(sf.Tag), legacyTagFragment)
}
