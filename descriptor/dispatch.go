package descriptor

// Strategy selects the handler family for a descriptor.
type Strategy uint8

const (
	StrategyPrimitive Strategy = iota
	StrategyAggregate
	StrategyCollection
	StrategyDynamic
	StrategyCustom
)

// Strategy maps the descriptor variant to a handler family. Nullable
// descriptors resolve to the strategy of their element; Dictionary shares the
// aggregate strategy.
func (d *Descriptor) Strategy() Strategy {
	switch d.Base().kind {
	case Aggregate, Dictionary:
		return StrategyAggregate
	case Collection:
		return StrategyCollection
	case Dynamic:
		return StrategyDynamic
	case Custom:
		return StrategyCustom
	}
	return StrategyPrimitive
}

// Table holds one handler per strategy. Readers and writers instantiate it
// with their own handler signature.
type Table[H any] struct {
	Primitive  H
	Aggregate  H
	Collection H
	Dynamic    H
	Custom     H
}

// Resolve returns the handler for d.
func (t *Table[H]) Resolve(d *Descriptor) H {
	switch d.Strategy() {
	case StrategyAggregate:
		return t.Aggregate
	case StrategyCollection:
		return t.Collection
	case StrategyDynamic:
		return t.Dynamic
	case StrategyCustom:
		return t.Custom
	}
	return t.Primitive
}
