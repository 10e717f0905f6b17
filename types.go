package jsonstream

import (
	"log/slog"

	"github.com/viant/jsonstream/marshal"
	"github.com/viant/jsonstream/unmarshal"
	"github.com/viant/tagly/format"
	"github.com/viant/tagly/format/text"
)

// Mode selects a preset of reader leniencies.
type Mode int

const (
	ModeStrict Mode = iota
	ModeLenient
)

// UnknownFieldPolicy controls unknown property handling.
type UnknownFieldPolicy = unmarshal.UnknownFieldPolicy

const (
	IgnoreUnknown  = unmarshal.IgnoreUnknown
	ErrorOnUnknown = unmarshal.ErrorOnUnknown
)

// NumberPolicy controls whether quoted numbers are accepted.
type NumberPolicy = unmarshal.NumberPolicy

const (
	ExactNumbers      = unmarshal.ExactNumbers
	NumbersFromString = unmarshal.NumbersFromString
)

// DuplicateKeyPolicy controls repeated property handling.
type DuplicateKeyPolicy = unmarshal.DuplicateKeyPolicy

const (
	LastWins         = unmarshal.LastWins
	ErrorOnDuplicate = unmarshal.ErrorOnDuplicate
)

// RequiredPolicy controls fields tagged required but absent from input.
type RequiredPolicy = unmarshal.RequiredPolicy

const (
	ZeroMissing    = unmarshal.ZeroMissing
	ErrorOnMissing = unmarshal.ErrorOnMissing
)

// NilSlicePolicy controls output for nil slices.
type NilSlicePolicy = marshal.NilSlicePolicy

const (
	NilSliceAsNull       = marshal.NilSliceAsNull
	NilSliceAsEmptyArray = marshal.NilSliceAsEmptyArray
)

// DefaultBufferSize is the initial stream buffer size.
const DefaultBufferSize = unmarshal.DefaultBufferSize

// Option mutates runtime options.
type Option interface{ apply(*Options) }

// Options defines runtime behavior.
type Options struct {
	Mode              Mode
	IncludeFields     bool
	DefaultBufferSize int
	MaxDepth          int

	AllowTrailingCommas bool
	AllowComments       bool
	CaseInsensitive     bool
	NumberPolicy        NumberPolicy
	UnknownFieldPolicy  UnknownFieldPolicy
	DuplicateKeyPolicy  DuplicateKeyPolicy
	RequiredPolicy      RequiredPolicy

	Indent         string
	OmitEmpty      bool
	NilSlicePolicy NilSlicePolicy
	CaseFormat     text.CaseFormat
	FormatTag      *format.Tag
	TimeLayout     string
	Logger         *slog.Logger

	setTrailingCommas  bool
	setComments        bool
	setCaseInsensitive bool
	setNumberPolicy    bool
	setCaseFormat      bool
}
