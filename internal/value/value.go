// Package value defines the Go-side stand-ins for the dynamic-runtime
// values the original system walks: objects, arrays, maps, sets,
// errors, typed buffers and the web-platform capability types. There
// is no single host value type in Go the way there is in a dynamic
// language, so callers build a value.Value tree explicitly instead of
// handing the parser an arbitrary interface{} to walk via reflection.
//
// The shape (a Kind() marker interface over concrete structs, dense
// Kind enum with a String method) is ported from
// davidkellis-able/interpreter10-go's pkg/runtime.Value.
package value

import "math/big"

// Kind identifies the concrete category of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindUndefined
	KindBool
	KindNumber
	KindNegativeZero
	KindNaN
	KindPositiveInfinity
	KindNegativeInfinity
	KindString
	KindBigInt
	KindDate
	KindRegExp
	KindArray
	KindObject
	KindNullConstructor
	KindSet
	KindMap
	KindError
	KindAggregateError
	KindTypedArray
	KindBigIntTypedArray
	KindArrayBuffer
	KindDataView
	KindBlob
	KindFile
	KindURL
	KindURLSearchParams
	KindHeaders
	KindFormData
	KindIterable
	KindPromise
	KindSymbol
	KindWellKnownSymbol
	KindOpaqueRef
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindNegativeZero:
		return "negative-zero"
	case KindNaN:
		return "nan"
	case KindPositiveInfinity:
		return "positive-infinity"
	case KindNegativeInfinity:
		return "negative-infinity"
	case KindString:
		return "string"
	case KindBigInt:
		return "bigint"
	case KindDate:
		return "date"
	case KindRegExp:
		return "regexp"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindNullConstructor:
		return "null-constructor"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindError:
		return "error"
	case KindAggregateError:
		return "aggregate-error"
	case KindTypedArray:
		return "typed-array"
	case KindBigIntTypedArray:
		return "bigint-typed-array"
	case KindArrayBuffer:
		return "array-buffer"
	case KindDataView:
		return "data-view"
	case KindBlob:
		return "blob"
	case KindFile:
		return "file"
	case KindURL:
		return "url"
	case KindURLSearchParams:
		return "url-search-params"
	case KindHeaders:
		return "headers"
	case KindFormData:
		return "form-data"
	case KindIterable:
		return "iterable"
	case KindPromise:
		return "promise"
	case KindSymbol:
		return "symbol"
	case KindWellKnownSymbol:
		return "well-known-symbol"
	case KindOpaqueRef:
		return "opaque-ref"
	default:
		return "unknown"
	}
}

// Value is the shared behaviour for every walkable value.
type Value interface {
	Kind() Kind
}

// Referenceable is implemented by every Value that carries a stable
// identity across one parse — every reference-typed container and
// host capability type. Primitives do not implement it.
type Referenceable interface {
	Value
	// referenceable is unexported so only this package's types can
	// opt into identity tracking.
	referenceable()
}

//-----------------------------------------------------------------------------
// Primitive singletons and scalars
//-----------------------------------------------------------------------------

type nullValue struct{}

func (nullValue) Kind() Kind { return KindNull }

// Null is the canonical null singleton.
var Null Value = nullValue{}

type undefinedValue struct{}

func (undefinedValue) Kind() Kind { return KindUndefined }

// Undefined is the canonical undefined singleton.
var Undefined Value = undefinedValue{}

type negativeZeroValue struct{}

func (negativeZeroValue) Kind() Kind { return KindNegativeZero }

// NegativeZero is the canonical -0 singleton, distinct from Number(0).
var NegativeZero Value = negativeZeroValue{}

type nanValue struct{}

func (nanValue) Kind() Kind { return KindNaN }

// NaN is the canonical NaN singleton.
var NaN Value = nanValue{}

type positiveInfinityValue struct{}

func (positiveInfinityValue) Kind() Kind { return KindPositiveInfinity }

// PositiveInfinity is the canonical +Infinity singleton.
var PositiveInfinity Value = positiveInfinityValue{}

type negativeInfinityValue struct{}

func (negativeInfinityValue) Kind() Kind { return KindNegativeInfinity }

// NegativeInfinity is the canonical -Infinity singleton.
var NegativeInfinity Value = negativeInfinityValue{}

// Bool wraps a plain boolean. Primitives carry no identity.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Number wraps a finite float64 other than -0 (-0 uses NegativeZero).
type Number float64

func (Number) Kind() Kind { return KindNumber }

// Str wraps a plain string primitive.
type Str string

func (Str) Kind() Kind { return KindString }

// BigIntValue wraps an arbitrary-precision integer, gated by the
// BigInt feature. Ported from davidkellis-able's IntegerValue, which
// backs its integers with *big.Int for the same reason: JS BigInt has
// no fixed-width equivalent in Go either. Like Number and Str, a
// BigIntValue carries no identity — it serializes under the
// Primitive tag's literal-payload slot, the same as plain numbers.
type BigIntValue struct {
	Val *big.Int
}

func (*BigIntValue) Kind() Kind { return KindBigInt }

// NewBigInt copies src so callers can't mutate a serialized graph's
// backing integer out from under it.
func NewBigInt(src *big.Int) *BigIntValue {
	return &BigIntValue{Val: new(big.Int).Set(src)}
}
