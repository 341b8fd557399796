package value

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"
)

func TestSingletonKinds(t *testing.T) {
	cases := []struct {
		v    Value
		want Kind
	}{
		{Null, KindNull},
		{Undefined, KindUndefined},
		{NegativeZero, KindNegativeZero},
		{NaN, KindNaN},
		{PositiveInfinity, KindPositiveInfinity},
		{NegativeInfinity, KindNegativeInfinity},
	}
	for _, c := range cases {
		if got := c.v.Kind(); got != c.want {
			t.Errorf("got %v, want %v", got, c.want)
		}
	}
}

func TestBigIntCopiesBacking(t *testing.T) {
	src := big.NewInt(42)
	bi := NewBigInt(src)
	src.SetInt64(7)
	if bi.Val.Int64() != 42 {
		t.Fatalf("expected NewBigInt to copy, got %d", bi.Val.Int64())
	}
}

func TestObjectKindReflectsNullProto(t *testing.T) {
	plain := NewObject(false, []string{"a"}, []Value{Number(1)})
	if plain.Kind() != KindObject {
		t.Fatalf("got %v", plain.Kind())
	}
	nullProto := NewObject(true, nil, nil)
	if nullProto.Kind() != KindNullConstructor {
		t.Fatalf("got %v", nullProto.Kind())
	}
}

func TestArrayHolesAreNilElements(t *testing.T) {
	arr := &ArrayValue{Elements: []Value{Number(1), nil, Number(3)}}
	if arr.Elements[1] != nil {
		t.Fatalf("expected hole at index 1")
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("expected length 3, got %d", len(arr.Elements))
	}
}

func TestReferenceableContainersImplementInterface(t *testing.T) {
	var rs []Referenceable
	rs = append(rs, &ArrayValue{}, NewObject(false, nil, nil), &SetValue{}, &MapValue{},
		&ErrorValue{}, &DateValue{}, &RegExpValue{}, &TypedArrayValue{}, &ArrayBufferValue{},
		&SymbolValue{}, &WellKnownSymbolValue{}, &OpaqueRefValue{}, NewPromise())
	for _, r := range rs {
		if r.Kind() == KindNull {
			t.Fatalf("unexpected null kind in referenceable list")
		}
	}
}

func TestPromiseAwaitBlocksUntilResolve(t *testing.T) {
	p := NewPromise()
	done := make(chan Value, 1)
	go func() {
		v, err := p.Await()
		if err != nil {
			t.Error(err)
		}
		done <- v
	}()
	time.Sleep(5 * time.Millisecond)
	p.Resolve(Str("hello"))
	select {
	case v := <-done:
		if v != Str("hello") {
			t.Fatalf("got %v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Await to return")
	}
}

func TestPromiseRejectPropagatesError(t *testing.T) {
	p := NewPromise()
	wantErr := errors.New("boom")
	p.Reject(wantErr)
	_, err := p.Await()
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v", err)
	}
}

func TestPromiseAwaitContextCanceled(t *testing.T) {
	p := NewPromise()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.AwaitContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestPromiseSecondResolveIsNoOp(t *testing.T) {
	p := NewPromise()
	p.Resolve(Str("first"))
	p.Resolve(Str("second"))
	v, _ := p.Await()
	if v != Str("first") {
		t.Fatalf("got %v", v)
	}
}
