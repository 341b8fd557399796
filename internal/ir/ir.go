// Package ir defines the intermediate representation from §3/§4.D: a
// discriminated variant with a single integer tag and a fixed-arity
// frame of optional slots, shared verbatim by the JSON envelope
// (internal/envelope), so a node's Go shape and its wire shape are
// the same struct.
//
// The tag-constant-block-with-Stringer shape is ported from esbuild's
// internal/js_ast (its OpCode/PropertyKind int enums); the
// single-flat-struct-with-optional-slots shape (rather than esbuild's
// one-struct-per-variant E interface) is required here because the
// envelope needs exactly these field names on the wire, matching
// other_examples/wdamron-skylark__codec.go's tagged int-opcode +
// ref-table codec more closely than esbuild's AST.
package ir

// Tag is the discriminant of a Node.
type Tag int

const (
	TagPrimitive Tag = iota
	TagString
	TagDate
	TagRegExp
	TagArray
	TagObject
	TagNullConstructor
	TagSet
	TagMap
	TagError
	TagAggregateError
	TagTypedArray
	TagBigIntTypedArray
	TagArrayBuffer
	TagDataView
	TagBlob
	TagFile
	TagURL
	TagURLSearchParams
	TagHeaders
	TagFormData
	TagIterable
	TagPromise
	TagReference
	TagIndexedValue
	TagWellKnownSymbol
)

var tagNames = [...]string{
	"Primitive", "String", "Date", "RegExp", "Array", "Object",
	"NullConstructor", "Set", "Map", "Error", "AggregateError",
	"TypedArray", "BigIntTypedArray", "ArrayBuffer", "DataView",
	"Blob", "File", "URL", "URLSearchParams", "Headers", "FormData",
	"Iterable", "Promise", "Reference", "IndexedValue", "WellKnownSymbol",
}

func (t Tag) String() string {
	if int(t) >= 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "Unknown"
}

// PrimitiveKind distinguishes the canonical singleton Primitive nodes
// from the two literal-payload Primitive nodes (plain number, BigInt).
// It is only meaningful on nodes tagged TagPrimitive.
type PrimitiveKind int

const (
	PrimTrue PrimitiveKind = iota
	PrimFalse
	PrimNull
	PrimUndefined
	PrimNaN
	PrimPositiveInfinity
	PrimNegativeInfinity
	PrimNegativeZero
	PrimNumber  // literal payload in S, base-10 text
	PrimBigInt  // literal payload in S, base-10 text
)

// KV is one entry of a Node's keyed child record (the "d" slot): used
// by Object, NullConstructor-extra-fields, Error-options, and the
// iterable-options record. Map bodies use parallel Keys/Values node
// slices instead, since map keys may themselves be arbitrary nodes.
type KV struct {
	Key   string
	Value *Node
}

// Node is the flat, tagged IR node from §3. Every field is optional;
// which ones are populated is determined entirely by Tag. Field names
// are one-letter slots matching their wire tags directly, so
// internal/envelope needs no renaming layer between the in-memory and
// wire shapes.
type Node struct {
	T Tag `json:"t"`

	// I: identity id, for every reference-typed variant.
	I *int `json:"i,omitempty"`

	// S: literal payload string — numbers/bigints as text, regex
	// source, a URL href, and the string body of a String node. A
	// String node's body is stored raw, not escaped; escaping happens
	// only when the emitter quotes it.
	S string `json:"s,omitempty"`

	// L: element count, set by the parsers on every Array, Set, Map,
	// Iterable and TypedArray node (byte count for ArrayBuffer). A
	// DataView stores its byte offset here instead.
	L *int `json:"l,omitempty"`

	// C: constructor name (Error/AggregateError/TypedArray) or MIME type (Blob/File).
	C string `json:"c,omitempty"`

	// M: message (Error) or filename (File).
	M string `json:"m,omitempty"`

	// D: keyed child record — Object fields, Error extra fields,
	// iterable materialization options.
	D []KV `json:"d,omitempty"`

	// A: ordered child nodes — Array elements (nil entry = hole), Set
	// elements, Iterable elements, RegExp has none.
	A []*Node `json:"a,omitempty"`

	// F: single child node — Promise's resolved value, DataView's
	// underlying buffer. Blob/File bytes are not stored here; see
	// BlobBytes.
	F *Node `json:"f,omitempty"`

	// B: auxiliary numeric — File's last-modified unix timestamp.
	B *int64 `json:"b,omitempty"`

	// MapKeys/MapValues: Map's body, parallel arrays that must agree
	// in length. Kept as distinct JSON fields ("mk"/"mv") rather than
	// overloading "a" or "d" since a map key is itself a full Node, not
	// a string.
	MapKeys   []*Node `json:"mk,omitempty"`
	MapValues []*Node `json:"mv,omitempty"`

	// PrimKind disambiguates TagPrimitive nodes.
	PrimKind PrimitiveKind `json:"pk,omitempty"`

	// RefKey: the pre-registered lookup key, for TagReference nodes.
	RefKey string `json:"rk,omitempty"`

	// BlobBytes: for TagBlob/TagFile, the byte payload, stored directly
	// as bytes rather than wrapped in a byte-array Node. F is left
	// unset on Blob/File nodes and the emitter does not read it there.
	BlobBytes []byte `json:"bb,omitempty"`
}

// Ref returns the node's identity id, or -1 if it has none.
func (n *Node) Ref() int {
	if n == nil || n.I == nil {
		return -1
	}
	return *n.I
}

// WithID sets n's identity to id in place and returns n, used by
// parsers when promoting a freshly built node to carry identity.
func WithID(n *Node, id int) *Node {
	n.I = &id
	return n
}

// IntPtr is a small helper so callers don't need to spell out
// `p := id; &p` at every call site that sets L/B.
func IntPtr(v int) *int { return &v }

// Int64Ptr is IntPtr for the B slot's int64 type.
func Int64Ptr(v int64) *int64 { return &v }
