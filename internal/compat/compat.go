// Package compat holds the feature gate: a bitset describing which
// optional target-syntax and target-runtime features the host
// evaluator that will run the emitted expression supports.
//
// This mirrors the role esbuild's own internal/compat package plays
// for its JS/CSS feature tables, but the bits here describe runtime
// capabilities (Map, Set, BigInt, ...) rather than syntax transforms.
package compat

import "strings"

// Feature is a single optional capability of the target host.
type Feature uint32

const (
	AggregateError Feature = 1 << iota
	ArrayPrototypeValues
	ArrowFunction
	BigInt
	ErrorPrototypeStack
	Map
	MethodShorthand
	ObjectAssign
	Promise
	Set
	Symbol
	TypedArray
	BigIntTypedArray
	WebAPI
)

var allFeatures = []Feature{
	AggregateError,
	ArrayPrototypeValues,
	ArrowFunction,
	BigInt,
	ErrorPrototypeStack,
	Map,
	MethodShorthand,
	ObjectAssign,
	Promise,
	Set,
	Symbol,
	TypedArray,
	BigIntTypedArray,
	WebAPI,
}

var featureNames = map[Feature]string{
	AggregateError:        "AggregateError",
	ArrayPrototypeValues:  "ArrayPrototypeValues",
	ArrowFunction:         "ArrowFunction",
	BigInt:                "BigInt",
	ErrorPrototypeStack:   "ErrorPrototypeStack",
	Map:                   "Map",
	MethodShorthand:       "MethodShorthand",
	ObjectAssign:          "ObjectAssign",
	Promise:               "Promise",
	Set:                   "Set",
	Symbol:                "Symbol",
	TypedArray:            "TypedArray",
	BigIntTypedArray:      "BigIntTypedArray",
	WebAPI:                "WebAPI",
}

func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Mask is a combination of zero or more Features.
type Mask uint32

// Latest is the default gate: every feature the target is assumed to
// support. Parsers and emitters start from Latest and subtract
// features via Without.
const Latest Mask = Mask(AggregateError | ArrayPrototypeValues | ArrowFunction |
	BigInt | ErrorPrototypeStack | Map | MethodShorthand | ObjectAssign |
	Promise | Set | Symbol | TypedArray | BigIntTypedArray | WebAPI)

// Has reports whether every feature in want is present in m.
func (m Mask) Has(want Feature) bool {
	return Mask(want)&m == Mask(want)
}

// HasAll reports whether every feature in want is present in m.
func (m Mask) HasAll(want Mask) bool {
	return want&m == want
}

// With returns a new mask with the given features added.
func (m Mask) With(features ...Feature) Mask {
	for _, f := range features {
		m |= Mask(f)
	}
	return m
}

// Without returns a new mask with the given features removed.
func (m Mask) Without(features ...Feature) Mask {
	for _, f := range features {
		m &^= Mask(f)
	}
	return m
}

// Combine ORs two masks together.
func Combine(a, b Mask) Mask {
	return a | b
}

// Missing returns the subset of want that is absent from m, in a
// deterministic order, for use in FeatureMissing diagnostics.
func (m Mask) Missing(want Mask) []Feature {
	var missing []Feature
	for _, f := range allFeatures {
		if Mask(f)&want != 0 && !m.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func (m Mask) String() string {
	var names []string
	for _, f := range allFeatures {
		if m.Has(f) {
			names = append(names, f.String())
		}
	}
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, "|")
}
