// Package emit implements §4.H: the IR-to-expression emitter. It
// owns the variable allocator, the ancestor stack used to detect
// cyclic back-references, and the deferred-assignment list used to
// patch them in after the fact.
//
// The traversal shape — a dispatch-by-tag switch building up a single
// expression string, with a side-channel list of statements spliced
// in afterward — mirrors esbuild's internal/js_printer, which builds
// its output into a byte buffer while tracking printer-local state
// (indent level, import records) the same way this emitter tracks
// ancestors and deferred patches. The variable-naming scheme is
// esbuild's internal/js_ast.NameMinifier (see minifier.go).
package emit

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/samualtnorman/seroval/internal/compat"
	"github.com/samualtnorman/seroval/internal/ir"
	"github.com/samualtnorman/seroval/internal/logger"
	"github.com/samualtnorman/seroval/internal/parsectx"
	"github.com/samualtnorman/seroval/internal/strescape"
)

// pathAnchor names the expression that will, once the finalized body
// has finished running, evaluate to a particular in-progress node: a
// variable name plus an accessor path descended from it. Every
// deferred patch's target is expressed relative to the nearest
// enclosing marked ancestor's anchor, not a dedicated variable of its
// own — the Finalization fallback below guarantees a root variable
// always exists whenever any patch does, so an anchor chain never
// bottoms out without a name to hang off of.
type pathAnchor struct {
	varName string
	path    string
}

func (a pathAnchor) extend(accessor string) pathAnchor {
	return pathAnchor{varName: a.varName, path: a.path + accessor}
}

func (a pathAnchor) String() string {
	return a.varName + a.path
}

// Emitter holds the mutable state of one IR-to-expression pass.
type Emitter struct {
	Ctx *parsectx.Context

	minifier  nameMinifier
	nextIndex int
	varNames  map[int]string
	varList   []string
	rootVar   string
	ancestors map[int]bool
	deferred  []deferredEntry
}

// New returns an Emitter that consults ctx's feature gate and marked
// set.
func New(ctx *parsectx.Context) *Emitter {
	return &Emitter{
		Ctx:       ctx,
		minifier:  defaultNameMinifier,
		varNames:  make(map[int]string),
		ancestors: make(map[int]bool),
	}
}

// Emit walks root and returns its expression text, the list of
// variable names that must be bound in the finalized function header
// (in allocation order), and any error. Call Finalize on the result
// to produce the complete self-evaluating expression.
func (e *Emitter) Emit(root *ir.Node) (string, []string, error) {
	e.rootVar = e.minifier.numberToMinifiedName(e.nextIndex)
	e.nextIndex++
	rootID := root.Ref()
	if rootID >= 0 {
		e.varNames[rootID] = e.rootVar
	}

	body, err := e.emitNode(root, pathAnchor{varName: e.rootVar})
	if err != nil {
		return "", nil, err
	}

	merged := renderDeferred(e.deferred)

	rootBound := rootID >= 0 && e.Ctx.IsMarked(rootID)
	finalBody := body
	if !rootBound && merged != "" {
		finalBody = e.rootVar + "=" + body
		rootBound = true
	}

	varList := e.varList
	if rootBound {
		varList = append([]string{e.rootVar}, varList...)
	}

	if merged == "" {
		return finalBody, varList, nil
	}
	return finalBody + "," + merged + "," + e.rootVar, varList, nil
}

// Finalize applies §4.H's finalization rule to the result of Emit.
func Finalize(body string, varList []string, features compat.Mask) string {
	if len(varList) == 0 {
		if strings.HasPrefix(body, "{") {
			return "(" + body + ")"
		}
		return body
	}
	params := strings.Join(varList, ",")
	if features.Has(compat.ArrowFunction) {
		return "((" + params + ")=>(" + body + "))()"
	}
	return "(function(" + params + "){return " + body + "})()"
}

func (e *Emitter) nameFor(id int) string {
	if name, ok := e.varNames[id]; ok {
		return name
	}
	name := e.minifier.numberToMinifiedName(e.nextIndex)
	e.nextIndex++
	e.varNames[id] = name
	e.varList = append(e.varList, name)
	return name
}

// cyclicRef reports whether child is a back-reference whose
// introducing node is still under construction (an ancestor), and if
// so returns the variable name already allocated for it.
func (e *Emitter) cyclicRef(child *ir.Node) (bool, string) {
	if child == nil || child.T != ir.TagIndexedValue {
		return false, ""
	}
	id := child.Ref()
	if !e.ancestors[id] {
		return false, ""
	}
	return true, e.varNames[id]
}

func (e *Emitter) pushProperty(anchor pathAnchor, accessor, value string) {
	e.deferred = append(e.deferred, deferredEntry{kind: deferredProperty, target: anchor.String(), accessor: accessor, value: value})
}

func (e *Emitter) pushMapSet(anchor pathAnchor, keyExpr, valueExpr string) {
	e.deferred = append(e.deferred, deferredEntry{kind: deferredMapSet, target: anchor.String(), keyExpr: keyExpr, value: valueExpr})
}

func (e *Emitter) pushSetAdd(anchor pathAnchor, valueExpr string) {
	e.deferred = append(e.deferred, deferredEntry{kind: deferredSetAdd, target: anchor.String(), value: valueExpr})
}

func (e *Emitter) pushCall(anchor pathAnchor, method, args string) {
	e.deferred = append(e.deferred, deferredEntry{kind: deferredCall, target: anchor.String(), method: method, args: args})
}

// emitNode renders n, applying the binding rule: a marked id's
// emission is wrapped as "vN=<expr>".
func (e *Emitter) emitNode(n *ir.Node, anchor pathAnchor) (string, error) {
	if n == nil {
		return "", logger.NewAssertionFailed("emit: nil node")
	}
	if n.T == ir.TagIndexedValue {
		name, ok := e.varNames[n.Ref()]
		if !ok {
			return "", logger.NewAssertionFailed(fmt.Sprintf("emit: no variable allocated for id %d", n.Ref()))
		}
		return name, nil
	}

	id := n.Ref()
	childAnchor := anchor
	marked := id >= 0 && e.Ctx.IsMarked(id)
	var varName string
	if marked {
		varName = e.nameFor(id)
		childAnchor = pathAnchor{varName: varName}
	}

	if id >= 0 {
		e.ancestors[id] = true
		defer delete(e.ancestors, id)
	}

	body, err := e.emitBody(n, childAnchor)
	if err != nil {
		return "", err
	}

	if marked {
		return varName + "=" + body, nil
	}
	return body, nil
}

func (e *Emitter) emitBody(n *ir.Node, anchor pathAnchor) (string, error) {
	switch n.T {
	case ir.TagPrimitive:
		return emitPrimitive(n)
	case ir.TagString:
		return strescape.Quote(n.S), nil
	case ir.TagDate:
		return "new Date(" + strescape.Quote(n.S) + ")", nil
	case ir.TagRegExp:
		return "new RegExp(" + strescape.Quote(n.S) + "," + strescape.Quote(n.C) + ")", nil
	case ir.TagArray:
		return e.emitArray(n, anchor)
	case ir.TagObject:
		return e.emitObject(n, anchor)
	case ir.TagNullConstructor:
		return e.decorateFields("Object.create(null)", n.D, anchor)
	case ir.TagSet:
		return e.emitSet(n, anchor)
	case ir.TagMap:
		return e.emitMap(n, anchor)
	case ir.TagError:
		return e.emitError(n, anchor, "new "+n.C+"("+strescape.Quote(n.M)+")")
	case ir.TagAggregateError:
		errsText, err := e.emitArray(&ir.Node{A: n.A}, anchor.extend(".errors"))
		if err != nil {
			return "", err
		}
		ctor := n.C
		if ctor == "" {
			ctor = "AggregateError"
		}
		return e.emitError(n, anchor, "new "+ctor+"("+errsText+","+strescape.Quote(n.M)+")")
	case ir.TagTypedArray, ir.TagBigIntTypedArray:
		return e.emitTypedArray(n), nil
	case ir.TagArrayBuffer:
		return e.emitArrayBuffer(n)
	case ir.TagDataView:
		return e.emitDataView(n, anchor)
	case ir.TagBlob:
		return e.emitBlob(n), nil
	case ir.TagFile:
		return e.emitFile(n), nil
	case ir.TagURL:
		return "new URL(" + strescape.Quote(n.S) + ")", nil
	case ir.TagURLSearchParams:
		return "new URLSearchParams(" + strescape.Quote(n.S) + ")", nil
	case ir.TagHeaders:
		return e.emitHeaders(n)
	case ir.TagFormData:
		return e.emitFormData(n, anchor)
	case ir.TagIterable:
		return e.emitIterable(n, anchor)
	case ir.TagPromise:
		return e.emitPromise(n, anchor)
	case ir.TagWellKnownSymbol:
		return "Symbol." + n.S, nil
	case ir.TagReference:
		return "$seroval.get(" + strescape.Quote(n.RefKey) + ")", nil
	default:
		return "", logger.NewAssertionFailed(fmt.Sprintf("emit: unhandled tag %s", n.T))
	}
}

func emitPrimitive(n *ir.Node) (string, error) {
	switch n.PrimKind {
	case ir.PrimTrue:
		return "true", nil
	case ir.PrimFalse:
		return "false", nil
	case ir.PrimNull:
		return "null", nil
	case ir.PrimUndefined:
		return "void 0", nil
	case ir.PrimNaN:
		return "NaN", nil
	case ir.PrimPositiveInfinity:
		return "Infinity", nil
	case ir.PrimNegativeInfinity:
		return "-Infinity", nil
	case ir.PrimNegativeZero:
		return "-0", nil
	case ir.PrimNumber:
		return n.S, nil
	case ir.PrimBigInt:
		return n.S + "n", nil
	default:
		return "", logger.NewAssertionFailed(fmt.Sprintf("emit: unhandled primitive kind %d", n.PrimKind))
	}
}

func renderKey(key string) string {
	if canEmitBareKey(key) {
		return key
	}
	return strescape.Quote(key)
}

func accessorForKey(key string) string {
	if isBareNumericKey(key) {
		return "[" + key + "]"
	}
	if isIdentifier(key) {
		return "." + key
	}
	return "[" + strescape.Quote(key) + "]"
}

func (e *Emitter) emitArray(n *ir.Node, anchor pathAnchor) (string, error) {
	count := len(n.A)
	slots := make([]string, count)
	for i, child := range n.A {
		accessor := fmt.Sprintf("[%d]", i)
		switch {
		case child == nil:
			slots[i] = ""
		case func() bool { c, _ := e.cyclicRef(child); return c }():
			_, varName := e.cyclicRef(child)
			e.pushProperty(anchor, accessor, varName)
			slots[i] = ""
		default:
			text, err := e.emitNode(child, anchor.extend(accessor))
			if err != nil {
				return "", err
			}
			slots[i] = text
		}
	}
	body := strings.Join(slots, ",")
	if count > 0 && slots[count-1] == "" {
		body += ","
	}
	return "[" + body + "]", nil
}

func (e *Emitter) emitObject(n *ir.Node, anchor pathAnchor) (string, error) {
	var parts []string
	for _, kv := range n.D {
		accessor := accessorForKey(kv.Key)
		if cyclic, varName := e.cyclicRef(kv.Value); cyclic {
			e.pushProperty(anchor, accessor, varName)
			continue
		}
		text, err := e.emitNode(kv.Value, anchor.extend(accessor))
		if err != nil {
			return "", err
		}
		parts = append(parts, renderKey(kv.Key)+":"+text)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// decorateFields adds a keyed record to base, the way a
// NullConstructor's extra fields or an Error's extra fields are
// added: inline via Object.assign when that feature is on, else one
// deferred property assignment per field.
func (e *Emitter) decorateFields(base string, fields []ir.KV, anchor pathAnchor) (string, error) {
	if len(fields) == 0 {
		return base, nil
	}
	if !e.Ctx.Features.Has(compat.ObjectAssign) {
		for _, kv := range fields {
			accessor := accessorForKey(kv.Key)
			if cyclic, varName := e.cyclicRef(kv.Value); cyclic {
				e.pushProperty(anchor, accessor, varName)
				continue
			}
			text, err := e.emitNode(kv.Value, anchor.extend(accessor))
			if err != nil {
				return "", err
			}
			e.pushProperty(anchor, accessor, text)
		}
		return base, nil
	}

	var inline []string
	for _, kv := range fields {
		accessor := accessorForKey(kv.Key)
		if cyclic, varName := e.cyclicRef(kv.Value); cyclic {
			e.pushProperty(anchor, accessor, varName)
			continue
		}
		text, err := e.emitNode(kv.Value, anchor.extend(accessor))
		if err != nil {
			return "", err
		}
		inline = append(inline, renderKey(kv.Key)+":"+text)
	}
	if len(inline) == 0 {
		return base, nil
	}
	return "Object.assign(" + base + ",{" + strings.Join(inline, ",") + "})", nil
}

func (e *Emitter) emitError(n *ir.Node, anchor pathAnchor, base string) (string, error) {
	fields := n.D
	if n.S != "" {
		fields = append(append([]ir.KV{}, fields...), ir.KV{Key: "stack", Value: &ir.Node{T: ir.TagString, S: n.S}})
	}
	return e.decorateFields(base, fields, anchor)
}

func (e *Emitter) emitSet(n *ir.Node, anchor pathAnchor) (string, error) {
	var inline []string
	for i, child := range n.A {
		if child == nil {
			continue
		}
		if cyclic, varName := e.cyclicRef(child); cyclic {
			e.pushSetAdd(anchor, varName)
			continue
		}
		text, err := e.emitNode(child, anchor.extend(fmt.Sprintf("[%d]", i)))
		if err != nil {
			return "", err
		}
		inline = append(inline, text)
	}
	return "new Set([" + strings.Join(inline, ",") + "])", nil
}

func (e *Emitter) emitMap(n *ir.Node, anchor pathAnchor) (string, error) {
	var inline []string
	for i := range n.MapKeys {
		kChild, vChild := n.MapKeys[i], n.MapValues[i]
		kCyclic, kVar := e.cyclicRef(kChild)
		vCyclic, vVar := e.cyclicRef(vChild)

		if kCyclic || vCyclic {
			keyExpr, valExpr := kVar, vVar
			var err error
			if !kCyclic {
				keyExpr, err = e.emitNode(kChild, anchor.extend(fmt.Sprintf("[%d][0]", i)))
				if err != nil {
					return "", err
				}
			}
			if !vCyclic {
				valExpr, err = e.emitNode(vChild, anchor.extend(fmt.Sprintf("[%d][1]", i)))
				if err != nil {
					return "", err
				}
			}
			e.pushMapSet(anchor, keyExpr, valExpr)
			continue
		}

		kText, err := e.emitNode(kChild, anchor.extend(fmt.Sprintf("[%d][0]", i)))
		if err != nil {
			return "", err
		}
		vText, err := e.emitNode(vChild, anchor.extend(fmt.Sprintf("[%d][1]", i)))
		if err != nil {
			return "", err
		}
		inline = append(inline, "["+kText+","+vText+"]")
	}
	return "new Map([" + strings.Join(inline, ",") + "])", nil
}

func (e *Emitter) emitTypedArray(n *ir.Node) string {
	expr := "new " + n.C + "([" + n.S + "])"
	if n.B != nil {
		expr = "new " + n.C + "([" + n.S + "]," + strconv.FormatInt(*n.B, 10) + ")"
	}
	return expr
}

func (e *Emitter) emitArrayBuffer(n *ir.Node) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(n.S)
	if err != nil {
		return "", logger.NewAssertionFailed("emit: malformed array buffer payload: " + err.Error())
	}
	return "new Uint8Array([" + byteListLiteral(raw) + "]).buffer", nil
}

func (e *Emitter) emitDataView(n *ir.Node, anchor pathAnchor) (string, error) {
	bufText, err := e.emitNode(n.F, anchor.extend(".buffer"))
	if err != nil {
		return "", err
	}
	offset := 0
	if n.L != nil {
		offset = *n.L
	}
	if n.B != nil {
		return fmt.Sprintf("new DataView(%s,%d,%d)", bufText, offset, *n.B), nil
	}
	return fmt.Sprintf("new DataView(%s,%d)", bufText, offset), nil
}

func (e *Emitter) emitBlob(n *ir.Node) string {
	bytesExpr := "new Uint8Array([" + byteListLiteral(n.BlobBytes) + "])"
	opts := ""
	if n.C != "" {
		opts = ",{type:" + strescape.Quote(n.C) + "}"
	}
	return "new Blob([" + bytesExpr + "]" + opts + ")"
}

func (e *Emitter) emitFile(n *ir.Node) string {
	bytesExpr := "new Uint8Array([" + byteListLiteral(n.BlobBytes) + "])"
	var lastMod int64
	if n.B != nil {
		lastMod = *n.B
	}
	return "new File([" + bytesExpr + "]," + strescape.Quote(n.M) + ",{type:" + strescape.Quote(n.C) + ",lastModified:" + strconv.FormatInt(lastMod, 10) + "})"
}

func (e *Emitter) emitHeaders(n *ir.Node) (string, error) {
	var parts []string
	for _, kv := range n.D {
		text, err := e.emitNode(kv.Value, pathAnchor{})
		if err != nil {
			return "", err
		}
		parts = append(parts, renderKey(kv.Key)+":"+text)
	}
	return "new Headers({" + strings.Join(parts, ",") + "})", nil
}

// emitFormData always defers: FormData has no literal-constructor
// syntax, so every entry becomes a .append() call queued after the
// empty FormData is constructed, regardless of whether it is cyclic.
func (e *Emitter) emitFormData(n *ir.Node, anchor pathAnchor) (string, error) {
	for i, kv := range n.D {
		text, err := e.emitNode(kv.Value, anchor.extend(fmt.Sprintf(".__entry%d", i)))
		if err != nil {
			return "", err
		}
		e.pushCall(anchor, "append", strescape.Quote(kv.Key)+","+text)
	}
	return "new FormData()", nil
}

func (e *Emitter) emitIterable(n *ir.Node, anchor pathAnchor) (string, error) {
	arrText, err := e.emitArray(&ir.Node{A: n.A}, anchor)
	if err != nil {
		return "", err
	}
	body := arrText + "[Symbol.iterator]()"
	switch {
	case e.Ctx.Features.Has(compat.ArrowFunction):
		return "{[Symbol.iterator]:()=>" + body + "}", nil
	case e.Ctx.Features.Has(compat.MethodShorthand):
		return "{[Symbol.iterator](){return " + body + "}}", nil
	default:
		return "{[Symbol.iterator]:function(){return " + body + "}}", nil
	}
}

func (e *Emitter) emitPromise(n *ir.Node, anchor pathAnchor) (string, error) {
	if cyclic, varName := e.cyclicRef(n.F); cyclic {
		if e.Ctx.Features.Has(compat.ArrowFunction) {
			return "Promise.resolve().then(()=>" + varName + ")", nil
		}
		return "Promise.resolve().then(function(){return " + varName + "})", nil
	}
	text, err := e.emitNode(n.F, anchor.extend(".__resolved"))
	if err != nil {
		return "", err
	}
	return "Promise.resolve(" + text + ")", nil
}

func byteListLiteral(bytes []byte) string {
	parts := make([]string, len(bytes))
	for i, b := range bytes {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ",")
}
