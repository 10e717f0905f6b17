package jsonstream

import (
	"log/slog"

	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/jsonstream/token"
	"github.com/viant/tagly/format"
	"github.com/viant/tagly/format/text"
	ftime "github.com/viant/tagly/format/time"
)

type optionFn func(*Options)

func (o optionFn) apply(opts *Options) { o(opts) }

// WithMode selects strict (default) or lenient reading.
func WithMode(mode Mode) Option {
	return optionFn(func(o *Options) { o.Mode = mode })
}

// WithIncludeFields includes exported fields without an explicit json or format name.
func WithIncludeFields(enabled bool) Option {
	return optionFn(func(o *Options) { o.IncludeFields = enabled })
}

// WithBufferSize sets the initial stream buffer size; it must be positive.
func WithBufferSize(size int) Option {
	return optionFn(func(o *Options) { o.DefaultBufferSize = size })
}

// WithMaxDepth limits container nesting for reading and writing.
func WithMaxDepth(depth int) Option {
	return optionFn(func(o *Options) { o.MaxDepth = depth })
}

func WithTrailingCommas(enabled bool) Option {
	return optionFn(func(o *Options) {
		o.AllowTrailingCommas = enabled
		o.setTrailingCommas = true
	})
}

func WithComments(enabled bool) Option {
	return optionFn(func(o *Options) {
		o.AllowComments = enabled
		o.setComments = true
	})
}

func WithCaseInsensitive(enabled bool) Option {
	return optionFn(func(o *Options) {
		o.CaseInsensitive = enabled
		o.setCaseInsensitive = true
	})
}

func WithNumberPolicy(policy NumberPolicy) Option {
	return optionFn(func(o *Options) {
		o.NumberPolicy = policy
		o.setNumberPolicy = true
	})
}

func WithUnknownFieldPolicy(policy UnknownFieldPolicy) Option {
	return optionFn(func(o *Options) { o.UnknownFieldPolicy = policy })
}

func WithDuplicateKeyPolicy(policy DuplicateKeyPolicy) Option {
	return optionFn(func(o *Options) { o.DuplicateKeyPolicy = policy })
}

func WithRequiredPolicy(policy RequiredPolicy) Option {
	return optionFn(func(o *Options) { o.RequiredPolicy = policy })
}

// WithIndent writes one element per line, nested levels prefixed by indent.
func WithIndent(indent string) Option {
	return optionFn(func(o *Options) { o.Indent = indent })
}

func WithOmitEmpty(enabled bool) Option {
	return optionFn(func(o *Options) { o.OmitEmpty = enabled })
}

func WithNilSlicePolicy(policy NilSlicePolicy) Option {
	return optionFn(func(o *Options) { o.NilSlicePolicy = policy })
}

func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return optionFn(func(o *Options) {
		o.CaseFormat = caseFormat
		o.setCaseFormat = true
	})
}

// WithFormatTag applies a format tag's time layout and case format.
func WithFormatTag(tag *format.Tag) Option {
	return optionFn(func(o *Options) { o.FormatTag = tag })
}

// WithTimeLayout formats and parses time.Time values with layout.
func WithTimeLayout(layout string) Option {
	return optionFn(func(o *Options) { o.TimeLayout = layout })
}

func WithLogger(logger *slog.Logger) Option {
	return optionFn(func(o *Options) { o.Logger = logger })
}

func defaultOptions() Options {
	return Options{
		Mode:               ModeStrict,
		DefaultBufferSize:  DefaultBufferSize,
		MaxDepth:           token.DefaultMaxDepth,
		NumberPolicy:       ExactNumbers,
		UnknownFieldPolicy: IgnoreUnknown,
		DuplicateKeyPolicy: LastWins,
		RequiredPolicy:     ZeroMissing,
		NilSlicePolicy:     NilSliceAsNull,
		CaseFormat:         text.CaseFormatUndefined,
	}
}

func resolveOptions(opts []Option) (Options, error) {
	result := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&result)
	}
	if result.DefaultBufferSize <= 0 {
		return result, jsonerr.InvalidArgument("buffer size must be positive, was %d", result.DefaultBufferSize)
	}
	if result.MaxDepth < 0 {
		return result, jsonerr.InvalidArgument("max depth must not be negative, was %d", result.MaxDepth)
	}
	if result.MaxDepth == 0 {
		result.MaxDepth = token.DefaultMaxDepth
	}
	if tag := result.FormatTag; tag != nil {
		if tag.TimeLayout != "" {
			result.TimeLayout = tag.TimeLayout
		} else if tag.DateFormat != "" {
			result.TimeLayout = ftime.DateFormatToTimeLayout(tag.DateFormat)
		}
		if !result.setCaseFormat {
			if cf := text.CaseFormat(tag.CaseFormat); cf != "" && cf != "-" {
				result.CaseFormat = cf
			}
		}
	}
	if result.Mode == ModeLenient {
		if !result.setTrailingCommas {
			result.AllowTrailingCommas = true
		}
		if !result.setComments {
			result.AllowComments = true
		}
		if !result.setCaseInsensitive {
			result.CaseInsensitive = true
		}
		if !result.setNumberPolicy {
			result.NumberPolicy = NumbersFromString
		}
	}
	if result.Logger == nil {
		result.Logger = slog.New(slog.DiscardHandler)
	}
	return result, nil
}
