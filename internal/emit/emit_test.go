package emit

import (
	"strings"
	"testing"

	"github.com/samualtnorman/seroval/internal/compat"
	"github.com/samualtnorman/seroval/internal/ir"
	"github.com/samualtnorman/seroval/internal/parsectx"
)

func strNode(id int, s string) *ir.Node {
	return ir.WithID(&ir.Node{T: ir.TagString, S: s}, id)
}

func num(s string) *ir.Node {
	return &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimNumber, S: s}
}

func emitRoot(ctx *parsectx.Context, root *ir.Node) (string, []string, error) {
	return New(ctx).Emit(root)
}

func TestEmitPrimitivesAndLiterals(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	cases := []struct {
		node *ir.Node
		want string
	}{
		{&ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimTrue}, "true"},
		{&ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimUndefined}, "void 0"},
		{&ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimNaN}, "NaN"},
		{&ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimNegativeZero}, "-0"},
		{num("42"), "42"},
		{&ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimBigInt, S: "9"}, "9n"},
		{&ir.Node{T: ir.TagString, S: "hi"}, `"hi"`},
	}
	for _, c := range cases {
		body, vars, err := emitRoot(ctx, c.node)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(vars) != 0 {
			t.Fatalf("expected no vars, got %v", vars)
		}
		if body != c.want {
			t.Fatalf("got %q want %q", body, c.want)
		}
	}
}

func TestEmitArrayWithTrailingHole(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	root := &ir.Node{T: ir.TagArray, A: []*ir.Node{num("1"), nil}}
	body, _, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "[1,,]" {
		t.Fatalf("got %q", body)
	}
}

func TestEmitObjectKeyForms(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	root := &ir.Node{T: ir.TagObject, D: []ir.KV{
		{Key: "foo", Value: num("1")},
		{Key: "0", Value: num("2")},
		{Key: "01", Value: num("3")},
		{Key: "a-b", Value: num("4")},
	}}
	body, _, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{foo:1,0:2,"01":3,"a-b":4}`
	if body != want {
		t.Fatalf("got %q want %q", body, want)
	}
}

func TestEmitSharedReferenceUsesVariable(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	shared := strNode(1, "shared")
	backref := &ir.Node{T: ir.TagIndexedValue, I: ir.IntPtr(1)}
	root := &ir.Node{T: ir.TagArray, A: []*ir.Node{shared, backref}}
	ctx.Mark(1)

	body, vars, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vars) == 0 {
		t.Fatalf("expected at least one variable name, got none")
	}
	if !strings.Contains(body, `="shared"`) {
		t.Fatalf("expected shared node to be bound inline, got %q", body)
	}
}

func TestEmitSelfCycleProducesDeferredPatchAndRootFallback(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	self := &ir.Node{T: ir.TagObject}
	ir.WithID(self, 0)
	child := &ir.Node{T: ir.TagIndexedValue, I: ir.IntPtr(0)}
	self.D = []ir.KV{{Key: "self", Value: child}}

	body, vars, err := emitRoot(ctx, self)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vars) == 0 {
		t.Fatalf("expected a root variable to be reserved")
	}
	if !strings.Contains(body, "=") {
		t.Fatalf("expected a deferred assignment fallback, got %q", body)
	}
	if !strings.Contains(body, ".self=") {
		t.Fatalf("expected a deferred .self= patch, got %q", body)
	}
}

func TestEmitSetAddChainsOnSameTarget(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	root := &ir.Node{T: ir.TagSet}
	ir.WithID(root, 0)
	cyc := &ir.Node{T: ir.TagIndexedValue, I: ir.IntPtr(0)}
	root.A = []*ir.Node{num("1"), cyc, cyc}

	body, _, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, ".add(a).add(a)") {
		t.Fatalf("expected a deferred .add() chain, got %q", body)
	}
}

func TestEmitMapDeferredEntryOnCyclicValue(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	root := &ir.Node{T: ir.TagMap}
	ir.WithID(root, 0)
	cyc := &ir.Node{T: ir.TagIndexedValue, I: ir.IntPtr(0)}
	root.MapKeys = []*ir.Node{{T: ir.TagString, S: "k"}}
	root.MapValues = []*ir.Node{cyc}

	body, _, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, ".set(") {
		t.Fatalf("expected a deferred .set() patch, got %q", body)
	}
}

func TestEmitAggregateErrorPatchesErrorsPropertyOnCyclicMember(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	root := &ir.Node{T: ir.TagAggregateError, C: "AggregateError", M: "boom"}
	ir.WithID(root, 0)
	cyc := &ir.Node{T: ir.TagIndexedValue, I: ir.IntPtr(0)}
	root.A = []*ir.Node{cyc}

	body, _, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, ".errors[0]=") {
		t.Fatalf("expected a deferred .errors[0]= patch against the instance, got %q", body)
	}
}

func TestEmitTypedArrayAndArrayBuffer(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	root := &ir.Node{T: ir.TagTypedArray, C: "Int8Array", S: "1,2,3"}
	body, _, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "new Int8Array([1,2,3])" {
		t.Fatalf("got %q", body)
	}

	buf := &ir.Node{T: ir.TagArrayBuffer, S: "AQID"}
	bufBody, _, err := emitRoot(ctx, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bufBody != "new Uint8Array([1,2,3]).buffer" {
		t.Fatalf("got %q", bufBody)
	}
}

func TestEmitPromiseResolvedInline(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	root := &ir.Node{T: ir.TagPromise, F: &ir.Node{T: ir.TagString, S: "done"}}
	body, _, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != `Promise.resolve("done")` {
		t.Fatalf("got %q", body)
	}
}

func TestEmitIterableUnderDifferentFeatureMasks(t *testing.T) {
	root := &ir.Node{T: ir.TagIterable, A: []*ir.Node{num("1")}}

	ctx := parsectx.New(compat.Latest)
	withArrow, _, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(withArrow, "=>") {
		t.Fatalf("expected an arrow form, got %q", withArrow)
	}

	ctx2 := parsectx.New(compat.Latest.Without(compat.ArrowFunction, compat.MethodShorthand))
	withoutArrow, _, err := emitRoot(ctx2, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(withoutArrow, "=>") {
		t.Fatalf("did not expect an arrow form, got %q", withoutArrow)
	}
	if !strings.Contains(withoutArrow, "function(") {
		t.Fatalf("expected a function expression fallback, got %q", withoutArrow)
	}
}

func TestEmitReferenceLookup(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	root := &ir.Node{T: ir.TagReference, RefKey: "my.key"}
	body, _, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != `$seroval.get("my.key")` {
		t.Fatalf("got %q", body)
	}
}

func TestFinalizeWrapsWithArrowOrFunction(t *testing.T) {
	withArrow := Finalize("a=1,a", []string{"a"}, compat.Latest)
	if withArrow != "((a)=>(a=1,a))()" {
		t.Fatalf("got %q", withArrow)
	}

	withoutArrow := Finalize("a=1,a", []string{"a"}, compat.Latest.Without(compat.ArrowFunction))
	if withoutArrow != "(function(a){return a=1,a})()" {
		t.Fatalf("got %q", withoutArrow)
	}

	noVars := Finalize("1", nil, compat.Latest)
	if noVars != "1" {
		t.Fatalf("got %q", noVars)
	}
}

func TestEmitFormDataAlwaysDefers(t *testing.T) {
	ctx := parsectx.New(compat.Latest)
	root := &ir.Node{T: ir.TagFormData, D: []ir.KV{{Key: "name", Value: &ir.Node{T: ir.TagString, S: "bob"}}}}
	body, _, err := emitRoot(ctx, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, ".append(") {
		t.Fatalf("expected a deferred .append() call, got %q", body)
	}
}
