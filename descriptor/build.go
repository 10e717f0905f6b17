package descriptor

import (
	"encoding"
	"encoding/json"
	"reflect"
	"time"

	"github.com/francoispqt/gojay"
	"github.com/viant/jsonstream/document"
	"github.com/viant/jsonstream/internal/lru"
	"github.com/viant/jsonstream/internal/tagutil"
	"github.com/viant/jsonstream/jsonerr"
	"github.com/viant/tagly/format/text"
	"github.com/viant/xunsafe"
)

var (
	timeType              = reflect.TypeOf(time.Time{})
	elementType           = reflect.TypeOf(document.Element{})
	anyType               = reflect.TypeOf((*interface{})(nil)).Elem()
	jsonMarshalerType     = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	jsonUnmarshalerType   = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textMarshalerType     = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType   = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	objectMarshalerType   = reflect.TypeOf((*gojay.MarshalerJSONObject)(nil)).Elem()
	objectUnmarshalerType = reflect.TypeOf((*gojay.UnmarshalerJSONObject)(nil)).Elem()
)

var cache = lru.New[reflect.Type, *Descriptor](2048)

// For returns the descriptor of t.
func For(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, jsonerr.InvalidArgument("type was nil")
	}
	if d, ok := cache.Get(t); ok {
		return d, nil
	}
	b := &builder{seen: map[reflect.Type]*Descriptor{}}
	d, err := b.build(t)
	if err != nil {
		return nil, err
	}
	for rType, built := range b.seen {
		cache.Set(rType, built)
	}
	return d, nil
}

// MustFor is like For but panics on unsupported types.
func MustFor(t reflect.Type) *Descriptor {
	d, err := For(t)
	if err != nil {
		panic(err)
	}
	return d
}

// Of returns the descriptor of T.
func Of[T any]() (*Descriptor, error) {
	return For(reflect.TypeOf((*T)(nil)).Elem())
}

// MustOf is like Of but panics on unsupported types.
func MustOf[T any]() *Descriptor {
	return MustFor(reflect.TypeOf((*T)(nil)).Elem())
}

// Any returns the Dynamic descriptor of interface{}.
func Any() *Descriptor { return MustFor(anyType) }

type builder struct {
	seen map[reflect.Type]*Descriptor
}

func (b *builder) build(t reflect.Type) (*Descriptor, error) {
	if d, ok := b.seen[t]; ok {
		return d, nil
	}
	if d, ok := cache.Get(t); ok {
		return d, nil
	}
	d := &Descriptor{rType: t, length: -1}
	b.seen[t] = d
	var err error
	switch {
	case t == elementType || t.Kind() == reflect.Interface:
		d.kind = Dynamic
	case t.Kind() == reflect.Ptr:
		d.kind = Nullable
		d.elem, err = b.build(t.Elem())
	default:
		if codec := codecOf(t); codec != 0 {
			d.kind = Custom
			d.codec = codec
			d.isTime = t == timeType
			d.fallback = &Descriptor{rType: t, length: -1}
			if err = b.structural(d.fallback, t); err != nil && codec.Marshals() && codec.Unmarshals() {
				d.fallback, err = nil, nil
			}
		} else {
			err = b.structural(d, t)
		}
	}
	if err != nil {
		delete(b.seen, t)
		return nil, err
	}
	return d, nil
}

func codecOf(t reflect.Type) Codec {
	pt := reflect.PointerTo(t)
	var ret Codec
	for flag, iface := range map[Codec]reflect.Type{
		JSONMarshaler:     jsonMarshalerType,
		JSONUnmarshaler:   jsonUnmarshalerType,
		TextMarshaler:     textMarshalerType,
		TextUnmarshaler:   textUnmarshalerType,
		ObjectMarshaler:   objectMarshalerType,
		ObjectUnmarshaler: objectUnmarshalerType,
	} {
		if pt.Implements(iface) {
			ret |= flag
		}
	}
	return ret
}

func (b *builder) structural(d *Descriptor, t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		d.kind = Primitive
		d.primitive = t.Kind()
		return nil
	case reflect.Slice, reflect.Array:
		d.kind = Collection
		if t.Kind() == reflect.Array {
			d.length = t.Len()
		}
		var err error
		d.elem, err = b.build(t.Elem())
		return err
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return jsonerr.InvalidArgument("unsupported map key type %s in %s", t.Key(), t)
		}
		d.kind = Dictionary
		var err error
		d.elem, err = b.build(t.Elem())
		return err
	case reflect.Struct:
		d.kind = Aggregate
		if err := b.collect(d, t, nil, 0, map[reflect.Type]bool{t: true}); err != nil {
			return err
		}
		d.names = newNames(d.fields, text.CaseFormatUndefined)
		if d.presence != nil {
			d.presence.bind(d.fields)
		}
		return nil
	}
	return jsonerr.InvalidArgument("unsupported type %s", t)
}

func (b *builder) collect(d *Descriptor, t reflect.Type, parent []*xunsafe.Field, depth int, inlining map[reflect.Type]bool) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if depth == 0 && tagutil.IsPresenceMarker(sf) {
			if presence := newPresence(sf); presence != nil {
				d.presence = presence
				continue
			}
		}
		tag := tagutil.Resolve(sf)
		if tag.Ignore {
			continue
		}
		chain := append(append(make([]*xunsafe.Field, 0, len(parent)+1), parent...), xunsafe.NewField(sf))
		if tag.Inline {
			inlineType := sf.Type
			if inlineType.Kind() == reflect.Ptr {
				inlineType = inlineType.Elem()
			}
			if inlineType.Kind() == reflect.Struct && codecOf(inlineType) == 0 && !inlining[inlineType] {
				inlining[inlineType] = true
				err := b.collect(d, inlineType, chain, depth+1, inlining)
				delete(inlining, inlineType)
				if err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		fieldDescriptor, err := b.build(sf.Type)
		if err != nil {
			return err
		}
		d.fields = append(d.fields, &Field{
			Name:       tag.Name,
			GoName:     sf.Name,
			Index:      len(d.fields),
			Property:   tag.Explicit,
			OmitEmpty:  tag.OmitEmpty,
			Required:   tag.Required,
			TimeLayout: tag.TimeLayout,
			Descriptor: fieldDescriptor,
			depth:      depth,
			chain:      chain,
		})
	}
	return nil
}
