// Package walk implements §4.F/§4.G: the recursive parsers that turn
// a value.Value graph into ir.Node trees, assigning identities via
// parsectx.Context and consulting the reference registry so
// pre-registered values serialize as opaque references instead of
// being decomposed.
//
// The traversal shape (a dispatch-by-concrete-type switch recursing
// into children, feature-gate checks returning typed errors) mirrors
// esbuild's js_parser statement/expression visitors, adapted from
// syntax nodes to this library's value graph.
//
// Id allocation order is eager children first, depth-first, then
// each container's deferred (single-shot iterable) children in their
// declared order; a deferred iterable nested inside another deferred
// iterable is drained to completion before its outer sibling advances,
// since that falls directly out of recursing into it via the same
// parseChildren/parseFresh path used for everything else. Callers and
// tests may rely on this ordering.
package walk

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/samualtnorman/seroval/internal/compat"
	"github.com/samualtnorman/seroval/internal/ir"
	"github.com/samualtnorman/seroval/internal/logger"
	"github.com/samualtnorman/seroval/internal/parsectx"
	"github.com/samualtnorman/seroval/internal/reference"
	"github.com/samualtnorman/seroval/internal/value"
)

// Parser walks a value.Value graph synchronously into IR. It holds no
// state of its own beyond its two collaborators; all per-parse state
// lives in Ctx.
type Parser struct {
	Ctx      *parsectx.Context
	Registry *reference.Registry
}

// New returns a Parser over ctx, looking up pre-registered values in
// registry (pass reference.Global for the process-wide table).
func New(ctx *parsectx.Context, registry *reference.Registry) *Parser {
	return &Parser{Ctx: ctx, Registry: registry}
}

// Parse walks v and returns its IR. It is the entry point; all
// recursion happens through the unexported parse.
func (p *Parser) Parse(v value.Value) (*ir.Node, error) {
	return p.parse(v)
}

func (p *Parser) parse(v value.Value) (*ir.Node, error) {
	ref, ok := v.(value.Referenceable)
	if !ok {
		return parsePrimitive(p.Ctx, v)
	}

	id, fresh := p.Ctx.Intern(ref)
	if !fresh {
		p.Ctx.Mark(id)
		return &ir.Node{T: ir.TagIndexedValue, I: ir.IntPtr(id)}, nil
	}

	if key, found := p.Registry.LookupByValue(ref); found {
		return ir.WithID(&ir.Node{T: ir.TagReference, RefKey: key}, id), nil
	}

	node, err := p.parseFresh(ref)
	if err != nil {
		return nil, err
	}
	return ir.WithID(node, id), nil
}

// parsePrimitive handles every value with no identity: the canonical
// singletons, and the three literal-payload primitives (plain string,
// plain number, big integer). It still takes the parse context
// because BigInt, unlike the other two literal-payload kinds, is
// gated by a feature flag.
func parsePrimitive(ctx *parsectx.Context, v value.Value) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimNull}, nil
	case value.Bool:
		if bool(x) {
			return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimTrue}, nil
		}
		return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimFalse}, nil
	case value.Number:
		return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimNumber, S: formatFloat(float64(x))}, nil
	case value.Str:
		return &ir.Node{T: ir.TagString, S: string(x)}, nil
	case *value.BigIntValue:
		if !ctx.Features.Has(compat.BigInt) {
			return nil, logger.NewFeatureMissing(compat.BigInt)
		}
		return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimBigInt, S: x.Val.String()}, nil
	default:
		switch v {
		case value.Null:
			return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimNull}, nil
		case value.Undefined:
			return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimUndefined}, nil
		case value.NaN:
			return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimNaN}, nil
		case value.PositiveInfinity:
			return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimPositiveInfinity}, nil
		case value.NegativeInfinity:
			return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimNegativeInfinity}, nil
		case value.NegativeZero:
			return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimNegativeZero}, nil
		}
	}
	return nil, logger.NewUnsupportedType(fmt.Sprintf("%T", v), "not a recognized primitive")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// parseFresh dispatches a freshly interned reference-typed value by
// its concrete Go type. The caller has already handled identity
// bookkeeping; this only builds the node's payload.
func (p *Parser) parseFresh(v value.Referenceable) (*ir.Node, error) {
	switch x := v.(type) {
	case *value.DateValue:
		return &ir.Node{T: ir.TagDate, S: x.Time.UTC().Format("2006-01-02T15:04:05.000Z")}, nil

	case *value.RegExpValue:
		return &ir.Node{T: ir.TagRegExp, S: x.Source, C: x.Flags}, nil

	case *value.ArrayValue:
		children, err := p.parseChildren(x.Elements)
		if err != nil {
			return nil, err
		}
		return &ir.Node{T: ir.TagArray, A: children, L: ir.IntPtr(len(x.Elements))}, nil

	case *value.ObjectValue:
		kvs, err := p.parseKeyedChildren(x.Keys, x.Values)
		if err != nil {
			return nil, err
		}
		if x.NullProto {
			return &ir.Node{T: ir.TagNullConstructor, D: kvs}, nil
		}
		return &ir.Node{T: ir.TagObject, D: kvs}, nil

	case *value.SetValue:
		if !p.Ctx.Features.Has(compat.Set) {
			return nil, logger.NewFeatureMissing(compat.Set)
		}
		children, err := p.parseChildren(x.Elements)
		if err != nil {
			return nil, err
		}
		return &ir.Node{T: ir.TagSet, A: children, L: ir.IntPtr(len(x.Elements))}, nil

	case *value.MapValue:
		if !p.Ctx.Features.Has(compat.Map) {
			return nil, logger.NewFeatureMissing(compat.Map)
		}
		keys, values, err := p.parseMapEntries(x.Keys, x.Values)
		if err != nil {
			return nil, err
		}
		return &ir.Node{T: ir.TagMap, MapKeys: keys, MapValues: values, L: ir.IntPtr(len(x.Keys))}, nil

	case *value.ErrorValue:
		return p.parseError(x)

	case *value.AggregateErrorValue:
		if !p.Ctx.Features.Has(compat.AggregateError) {
			return nil, logger.NewFeatureMissing(compat.AggregateError)
		}
		base, err := p.parseError(&x.ErrorValue)
		if err != nil {
			return nil, err
		}
		errs, err := p.parseChildren(x.Errors)
		if err != nil {
			return nil, err
		}
		base.T = ir.TagAggregateError
		base.A = errs
		return base, nil

	case *value.TypedArrayValue:
		if !p.Ctx.Features.Has(compat.TypedArray) {
			return nil, logger.NewFeatureMissing(compat.TypedArray)
		}
		parts := make([]string, len(x.Elements))
		for i, e := range x.Elements {
			parts[i] = formatFloat(e)
		}
		node := &ir.Node{T: ir.TagTypedArray, C: x.Constructor, S: strings.Join(parts, ","), L: ir.IntPtr(len(x.Elements))}
		if x.HasOffset {
			node.B = ir.Int64Ptr(int64(x.ByteOffset))
		}
		return node, nil

	case *value.BigIntTypedArrayValue:
		if !p.Ctx.Features.Has(compat.BigIntTypedArray) {
			return nil, logger.NewFeatureMissing(compat.BigIntTypedArray)
		}
		parts := make([]string, len(x.Elements))
		for i, e := range x.Elements {
			parts[i] = strconv.FormatInt(e, 10)
		}
		node := &ir.Node{T: ir.TagBigIntTypedArray, C: x.Constructor, S: strings.Join(parts, ","), L: ir.IntPtr(len(x.Elements))}
		if x.HasOffset {
			node.B = ir.Int64Ptr(int64(x.ByteOffset))
		}
		return node, nil

	case *value.ArrayBufferValue:
		if !p.Ctx.Features.Has(compat.TypedArray) {
			return nil, logger.NewFeatureMissing(compat.TypedArray)
		}
		return &ir.Node{T: ir.TagArrayBuffer, S: base64.StdEncoding.EncodeToString(x.Bytes), L: ir.IntPtr(len(x.Bytes))}, nil

	case *value.DataViewValue:
		if !p.Ctx.Features.Has(compat.TypedArray) {
			return nil, logger.NewFeatureMissing(compat.TypedArray)
		}
		buf, err := p.parse(x.Buffer)
		if err != nil {
			return nil, err
		}
		node := &ir.Node{T: ir.TagDataView, F: buf, L: ir.IntPtr(x.ByteOffset)}
		if x.HasLength {
			node.B = ir.Int64Ptr(int64(x.ByteLength))
		}
		return node, nil

	case *value.IterableValue:
		children, err := p.parseChildren(x.Elements)
		if err != nil {
			return nil, err
		}
		return &ir.Node{T: ir.TagIterable, A: children, L: ir.IntPtr(len(x.Elements))}, nil

	case *value.PromiseValue:
		if !p.Ctx.Features.Has(compat.Promise) {
			return nil, logger.NewFeatureMissing(compat.Promise)
		}
		result, err := x.Await()
		if err != nil {
			return nil, logger.NewEvaluationFailed(err)
		}
		child, err := p.parse(result)
		if err != nil {
			return nil, err
		}
		return &ir.Node{T: ir.TagPromise, F: child}, nil

	case *value.BlobValue:
		return p.parseBlob(x, ir.TagBlob, "", 0)

	case *value.FileValue:
		node, err := p.parseBlob(&x.BlobValue, ir.TagFile, x.Name, x.LastModifiedUnix)
		return node, err

	case *value.URLValue:
		if !p.Ctx.Features.Has(compat.WebAPI) {
			return nil, logger.NewFeatureMissing(compat.WebAPI)
		}
		return &ir.Node{T: ir.TagURL, S: x.Href}, nil

	case *value.URLSearchParamsValue:
		if !p.Ctx.Features.Has(compat.WebAPI) {
			return nil, logger.NewFeatureMissing(compat.WebAPI)
		}
		return &ir.Node{T: ir.TagURLSearchParams, S: x.Query}, nil

	case *value.HeadersValue:
		if !p.Ctx.Features.Has(compat.WebAPI) {
			return nil, logger.NewFeatureMissing(compat.WebAPI)
		}
		kvs := make([]ir.KV, len(x.Names))
		for i, name := range x.Names {
			kvs[i] = ir.KV{Key: name, Value: &ir.Node{T: ir.TagString, S: x.Values[i]}}
		}
		return &ir.Node{T: ir.TagHeaders, D: kvs}, nil

	case *value.FormDataValue:
		if !p.Ctx.Features.Has(compat.WebAPI) {
			return nil, logger.NewFeatureMissing(compat.WebAPI)
		}
		kvs := make([]ir.KV, len(x.Entries))
		for i, entry := range x.Entries {
			child, err := p.parse(entry.Value)
			if err != nil {
				return nil, err
			}
			kvs[i] = ir.KV{Key: entry.Name, Value: child}
		}
		return &ir.Node{T: ir.TagFormData, D: kvs}, nil

	case *value.WellKnownSymbolValue:
		if !p.Ctx.Features.Has(compat.Symbol) {
			return nil, logger.NewFeatureMissing(compat.Symbol)
		}
		return &ir.Node{T: ir.TagWellKnownSymbol, S: x.Name}, nil

	case *value.SymbolValue:
		return nil, logger.NewUnsupportedType("*value.SymbolValue",
			"symbols must be pre-registered via internal/reference before serialization")

	case *value.OpaqueRefValue:
		if _, found := p.Registry.LookupByKey(x.RegisteredKey); found {
			return &ir.Node{T: ir.TagReference, RefKey: x.RegisteredKey}, nil
		}
		return nil, logger.NewUnsupportedType("*value.OpaqueRefValue",
			fmt.Sprintf("key %q is not registered", x.RegisteredKey))

	default:
		return nil, logger.NewUnsupportedType(fmt.Sprintf("%T", v), "")
	}
}

func (p *Parser) parseError(x *value.ErrorValue) (*ir.Node, error) {
	extra, err := p.parseKeyedChildren(x.ExtraKeys, x.ExtraValues)
	if err != nil {
		return nil, err
	}
	node := &ir.Node{T: ir.TagError, C: x.Constructor, M: x.Message, D: extra}
	if p.Ctx.Features.Has(compat.ErrorPrototypeStack) && x.Stack != "" {
		node.S = x.Stack
	}
	return node, nil
}

func (p *Parser) parseBlob(x *value.BlobValue, tag ir.Tag, name string, lastModified int64) (*ir.Node, error) {
	if !p.Ctx.Features.Has(compat.WebAPI) {
		return nil, logger.NewFeatureMissing(compat.WebAPI)
	}
	bytes, err := x.Source.Bytes()
	if err != nil {
		return nil, logger.NewEvaluationFailed(err)
	}
	node := &ir.Node{T: tag, C: x.Type, BlobBytes: bytes}
	if tag == ir.TagFile {
		node.M = name
		node.B = ir.Int64Ptr(lastModified)
	}
	return node, nil
}

// isDeferred reports whether v must be drained after its eager
// siblings, per §4.F's ordering rule: a single-shot iterable is
// postponed so it isn't exhausted out of order relative to the rest
// of its container.
func isDeferred(v value.Value) bool {
	_, ok := v.(*value.IterableValue)
	return ok
}

// parseChildren parses an ordered list of values (array elements, set
// elements, iterable elements), applying the eager-then-deferred
// split while preserving the original slot order in the result. A
// nil entry is a hole and is left nil in the result.
func (p *Parser) parseChildren(values []value.Value) ([]*ir.Node, error) {
	nodes := make([]*ir.Node, len(values))
	var eager, deferred []int
	for i, v := range values {
		if v == nil {
			continue
		}
		if isDeferred(v) {
			deferred = append(deferred, i)
		} else {
			eager = append(eager, i)
		}
	}
	for _, i := range eager {
		node, err := p.parse(values[i])
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	for _, i := range deferred {
		node, err := p.parse(values[i])
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return nodes, nil
}

// parseKeyedChildren is parseChildren for a string-keyed record
// (object fields, error extra fields): same eager/deferred split by
// value, reassembled back into the original key order.
func (p *Parser) parseKeyedChildren(keys []string, values []value.Value) ([]ir.KV, error) {
	nodes, err := p.parseChildren(values)
	if err != nil {
		return nil, err
	}
	kvs := make([]ir.KV, len(keys))
	for i, k := range keys {
		kvs[i] = ir.KV{Key: k, Value: nodes[i]}
	}
	return kvs, nil
}

// parseMapEntries is parseChildren for a Map's parallel key/value
// arrays: an entry is deferred if either its key or its value is an
// iterable, keeping the pair's two nodes adjacent in the traversal.
func (p *Parser) parseMapEntries(keys, values []value.Value) ([]*ir.Node, []*ir.Node, error) {
	n := len(keys)
	keyNodes := make([]*ir.Node, n)
	valNodes := make([]*ir.Node, n)
	var eager, deferred []int
	for i := range keys {
		if isDeferred(keys[i]) || isDeferred(values[i]) {
			deferred = append(deferred, i)
		} else {
			eager = append(eager, i)
		}
	}
	process := func(i int) error {
		kn, err := p.parse(keys[i])
		if err != nil {
			return err
		}
		vn, err := p.parse(values[i])
		if err != nil {
			return err
		}
		keyNodes[i], valNodes[i] = kn, vn
		return nil
	}
	for _, i := range eager {
		if err := process(i); err != nil {
			return nil, nil, err
		}
	}
	for _, i := range deferred {
		if err := process(i); err != nil {
			return nil, nil, err
		}
	}
	return keyNodes, valNodes, nil
}
