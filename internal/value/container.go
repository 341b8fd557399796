package value

import "time"

//-----------------------------------------------------------------------------
// Reference-typed containers — every type below has identity and
// participates in cycle/sharing detection.
//-----------------------------------------------------------------------------

// DateValue wraps a point in time, emitted as new Date("...").
type DateValue struct {
	Time time.Time
}

func (*DateValue) Kind() Kind     { return KindDate }
func (*DateValue) referenceable() {}

// RegExpValue wraps a regular expression's source and flags.
type RegExpValue struct {
	Source string
	Flags  string
}

func (*RegExpValue) Kind() Kind     { return KindRegExp }
func (*RegExpValue) referenceable() {}

// ArrayValue is an ordered, possibly sparse list. A nil entry denotes
// a hole at that index, reproduced on emission as an empty slot
// ([1,,3]; a trailing hole adds a trailing comma) rather than an
// undefined element.
type ArrayValue struct {
	Elements []Value
}

func (*ArrayValue) Kind() Kind     { return KindArray }
func (*ArrayValue) referenceable() {}

// ObjectValue is an insertion-ordered string-keyed record. Go's native
// map does not preserve insertion order, so fields are stored as a
// parallel slice the way davidkellis-able's StructInstanceValue keeps
// a Positional slice alongside its Fields map.
type ObjectValue struct {
	Keys   []string
	Values []Value
	// NullProto marks an Object.create(null) instance, emitted as the
	// NullConstructor tag rather than a plain object literal.
	NullProto bool
}

func (o *ObjectValue) Kind() Kind {
	if o.NullProto {
		return KindNullConstructor
	}
	return KindObject
}

func (*ObjectValue) referenceable() {}

// NewObject builds an ObjectValue from ordered key/value pairs.
func NewObject(nullProto bool, keys []string, values []Value) *ObjectValue {
	return &ObjectValue{Keys: keys, Values: values, NullProto: nullProto}
}

// SetValue is an ordered, insertion-order set of values.
type SetValue struct {
	Elements []Value
}

func (*SetValue) Kind() Kind     { return KindSet }
func (*SetValue) referenceable() {}

// MapValue is a sequence of key/value pairs; keys may themselves be
// reference-typed (including cyclic on the map itself).
type MapValue struct {
	Keys   []Value
	Values []Value
}

func (*MapValue) Kind() Kind     { return KindMap }
func (*MapValue) referenceable() {}

// ErrorValue models an Error (or subclass) instance.
type ErrorValue struct {
	Constructor string // e.g. "Error", "TypeError", "RangeError"
	Message     string
	Stack       string // only emitted when ErrorPrototypeStack is enabled
	// Extra carries additional own-enumerable fields, insertion ordered.
	ExtraKeys   []string
	ExtraValues []Value
}

func (*ErrorValue) Kind() Kind     { return KindError }
func (*ErrorValue) referenceable() {}

// AggregateErrorValue models an AggregateError, which additionally
// carries its constituent errors.
type AggregateErrorValue struct {
	ErrorValue
	Errors []Value
}

func (*AggregateErrorValue) Kind() Kind { return KindAggregateError }

// TypedArrayValue models one of the fixed-width integer/float typed
// array constructors (Int8Array, Float64Array, ...).
type TypedArrayValue struct {
	Constructor string
	Elements    []float64
	ByteOffset  int
	HasOffset   bool
}

func (*TypedArrayValue) Kind() Kind     { return KindTypedArray }
func (*TypedArrayValue) referenceable() {}

// BigIntTypedArrayValue models BigInt64Array / BigUint64Array.
type BigIntTypedArrayValue struct {
	Constructor string
	Elements    []int64
	ByteOffset  int
	HasOffset   bool
}

func (*BigIntTypedArrayValue) Kind() Kind     { return KindBigIntTypedArray }
func (*BigIntTypedArrayValue) referenceable() {}

// ArrayBufferValue models a raw byte buffer.
type ArrayBufferValue struct {
	Bytes []byte
}

func (*ArrayBufferValue) Kind() Kind     { return KindArrayBuffer }
func (*ArrayBufferValue) referenceable() {}

// DataViewValue models a view over an ArrayBuffer.
type DataViewValue struct {
	Buffer     *ArrayBufferValue
	ByteOffset int
	ByteLength int
	HasLength  bool
}

func (*DataViewValue) Kind() Kind     { return KindDataView }
func (*DataViewValue) referenceable() {}

// IterableValue models a one-shot or re-iterable sequence that is
// materialized eagerly by the parser but emitted as an object
// exposing an iterator method. Per the eager/deferred ordering rule,
// values of this kind are drained only after eager siblings.
type IterableValue struct {
	Elements []Value
}

func (*IterableValue) Kind() Kind     { return KindIterable }
func (*IterableValue) referenceable() {}

// SymbolValue models a symbol that was pre-registered; an
// unregistered symbol cannot be represented and fails with
// UnsupportedType.
type SymbolValue struct {
	Description string
}

func (*SymbolValue) Kind() Kind     { return KindSymbol }
func (*SymbolValue) referenceable() {}

// WellKnownSymbolValue models one of the language's built-in well
// known symbols (Symbol.iterator, Symbol.asyncIterator, ...), which
// never needs pre-registration.
type WellKnownSymbolValue struct {
	Name string // e.g. "iterator", "asyncIterator"
}

func (*WellKnownSymbolValue) Kind() Kind     { return KindWellKnownSymbol }
func (*WellKnownSymbolValue) referenceable() {}

// OpaqueRefValue models a raw function, unregistered-at-parse-time
// symbol, or other host value that can only be represented by first
// registering it in the identity registry (internal/reference). The
// parser never constructs one of these on its own; it is how a
// caller-supplied graph marks "this is an opaque host value I've
// already registered."
type OpaqueRefValue struct {
	RegisteredKey string
}

func (*OpaqueRefValue) Kind() Kind     { return KindOpaqueRef }
func (*OpaqueRefValue) referenceable() {}
