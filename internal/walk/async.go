package walk

import (
	"context"
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

// AsyncParser is §4.G: identical traversal to Parser, except every
// recursion point is a potential suspension point — a Promise node
// anywhere in the graph, not just at the top level, is awaited
// through a context.Context instead of blocking unconditionally, so
// a caller-supplied deadline or cancellation can interrupt a stuck
// await instead of hanging the calling goroutine forever.
type AsyncParser struct {
	Ctx      *parsectx.Context
	Registry *reference.Registry
}

// NewAsync returns an AsyncParser over ctx.
func NewAsync(ctx *parsectx.Context, registry *reference.Registry) *AsyncParser {
	return &AsyncParser{Ctx: ctx, Registry: registry}
}

// Parse walks v, awaiting every Promise node against goCtx.
func (p *AsyncParser) Parse(goCtx context.Context, v value.Value) (*ir.Node, error) {
	return p.parse(goCtx, v)
}

func (p *AsyncParser) parse(goCtx context.Context, v value.Value) (*ir.Node, error) {
	if err := goCtx.Err(); err != nil {
		return nil, logger.NewAwaitCanceled(err)
	}

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

	node, err := p.parseFresh(goCtx, ref)
	if err != nil {
		return nil, err
	}
	return ir.WithID(node, id), nil
}

// parseFresh mirrors (*Parser).parseFresh, threading goCtx through
// every recursive call so a Promise nested anywhere in the graph
// (not only at the top level) suspends against it.
func (p *AsyncParser) parseFresh(goCtx context.Context, v value.Referenceable) (*ir.Node, error) {
	switch x := v.(type) {
	case *value.DateValue:
		return &ir.Node{T: ir.TagDate, S: x.Time.UTC().Format("2006-01-02T15:04:05.000Z")}, nil

	case *value.RegExpValue:
		return &ir.Node{T: ir.TagRegExp, S: x.Source, C: x.Flags}, nil

	case *value.ArrayValue:
		children, err := p.parseChildren(goCtx, x.Elements)
		if err != nil {
			return nil, err
		}
		return &ir.Node{T: ir.TagArray, A: children, L: ir.IntPtr(len(x.Elements))}, nil

	case *value.ObjectValue:
		kvs, err := p.parseKeyedChildren(goCtx, x.Keys, x.Values)
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
		children, err := p.parseChildren(goCtx, x.Elements)
		if err != nil {
			return nil, err
		}
		return &ir.Node{T: ir.TagSet, A: children, L: ir.IntPtr(len(x.Elements))}, nil

	case *value.MapValue:
		if !p.Ctx.Features.Has(compat.Map) {
			return nil, logger.NewFeatureMissing(compat.Map)
		}
		keys, values, err := p.parseMapEntries(goCtx, x.Keys, x.Values)
		if err != nil {
			return nil, err
		}
		return &ir.Node{T: ir.TagMap, MapKeys: keys, MapValues: values, L: ir.IntPtr(len(x.Keys))}, nil

	case *value.ErrorValue:
		return p.parseError(goCtx, x)

	case *value.AggregateErrorValue:
		if !p.Ctx.Features.Has(compat.AggregateError) {
			return nil, logger.NewFeatureMissing(compat.AggregateError)
		}
		base, err := p.parseError(goCtx, &x.ErrorValue)
		if err != nil {
			return nil, err
		}
		errs, err := p.parseChildren(goCtx, x.Errors)
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
		buf, err := p.parse(goCtx, x.Buffer)
		if err != nil {
			return nil, err
		}
		node := &ir.Node{T: ir.TagDataView, F: buf, L: ir.IntPtr(x.ByteOffset)}
		if x.HasLength {
			node.B = ir.Int64Ptr(int64(x.ByteLength))
		}
		return node, nil

	case *value.IterableValue:
		children, err := p.parseChildren(goCtx, x.Elements)
		if err != nil {
			return nil, err
		}
		return &ir.Node{T: ir.TagIterable, A: children, L: ir.IntPtr(len(x.Elements))}, nil

	case *value.PromiseValue:
		if !p.Ctx.Features.Has(compat.Promise) {
			return nil, logger.NewFeatureMissing(compat.Promise)
		}
		result, err := x.AwaitContext(goCtx)
		if err != nil {
			if goCtx.Err() != nil {
				return nil, logger.NewAwaitCanceled(err)
			}
			return nil, logger.NewEvaluationFailed(err)
		}
		child, err := p.parse(goCtx, result)
		if err != nil {
			return nil, err
		}
		return &ir.Node{T: ir.TagPromise, F: child}, nil

	case *value.BlobValue:
		return p.parseBlob(goCtx, x, ir.TagBlob, "", 0)

	case *value.FileValue:
		return p.parseBlob(goCtx, &x.BlobValue, ir.TagFile, x.Name, x.LastModifiedUnix)

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
			child, err := p.parse(goCtx, entry.Value)
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

func (p *AsyncParser) parseError(goCtx context.Context, x *value.ErrorValue) (*ir.Node, error) {
	extra, err := p.parseKeyedChildren(goCtx, x.ExtraKeys, x.ExtraValues)
	if err != nil {
		return nil, err
	}
	node := &ir.Node{T: ir.TagError, C: x.Constructor, M: x.Message, D: extra}
	if p.Ctx.Features.Has(compat.ErrorPrototypeStack) && x.Stack != "" {
		node.S = x.Stack
	}
	return node, nil
}

func (p *AsyncParser) parseBlob(goCtx context.Context, x *value.BlobValue, tag ir.Tag, name string, lastModified int64) (*ir.Node, error) {
	if !p.Ctx.Features.Has(compat.WebAPI) {
		return nil, logger.NewFeatureMissing(compat.WebAPI)
	}
	var bytes []byte
	var err error
	if async, ok := x.Source.(value.AsyncByteSource); ok {
		bytes, err = async.BytesAsync(contextAwaiter{goCtx})
	} else {
		bytes, err = x.Source.Bytes()
	}
	if err != nil {
		if goCtx.Err() != nil {
			return nil, logger.NewAwaitCanceled(err)
		}
		return nil, logger.NewEvaluationFailed(err)
	}
	node := &ir.Node{T: tag, C: x.Type, BlobBytes: bytes}
	if tag == ir.TagFile {
		node.M = name
		node.B = ir.Int64Ptr(lastModified)
	}
	return node, nil
}

// contextAwaiter adapts a context.Context to value.Awaiter so a
// capability implementation of AsyncByteSource can suspend on the
// same cancellation signal as the parser's promise awaits, without
// that package importing internal/walk.
type contextAwaiter struct {
	ctx context.Context
}

func (a contextAwaiter) Await() (any, error) {
	<-a.ctx.Done()
	return nil, a.ctx.Err()
}

func (p *AsyncParser) parseChildren(goCtx context.Context, values []value.Value) ([]*ir.Node, error) {
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
		node, err := p.parse(goCtx, values[i])
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	for _, i := range deferred {
		node, err := p.parse(goCtx, values[i])
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return nodes, nil
}

func (p *AsyncParser) parseKeyedChildren(goCtx context.Context, keys []string, values []value.Value) ([]ir.KV, error) {
	nodes, err := p.parseChildren(goCtx, values)
	if err != nil {
		return nil, err
	}
	kvs := make([]ir.KV, len(keys))
	for i, k := range keys {
		kvs[i] = ir.KV{Key: k, Value: nodes[i]}
	}
	return kvs, nil
}

func (p *AsyncParser) parseMapEntries(goCtx context.Context, keys, values []value.Value) ([]*ir.Node, []*ir.Node, error) {
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
		kn, err := p.parse(goCtx, keys[i])
		if err != nil {
			return err
		}
		vn, err := p.parse(goCtx, values[i])
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
