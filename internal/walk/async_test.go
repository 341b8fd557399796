package walk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samualtnorman/seroval/internal/compat"
	"github.com/samualtnorman/seroval/internal/ir"
	"github.com/samualtnorman/seroval/internal/logger"
	"github.com/samualtnorman/seroval/internal/parsectx"
	"github.com/samualtnorman/seroval/internal/reference"
	"github.com/samualtnorman/seroval/internal/value"
)

func newAsyncParser(features compat.Mask) (*AsyncParser, *parsectx.Context) {
	ctx := parsectx.New(features)
	return NewAsync(ctx, reference.New()), ctx
}

func TestAsyncParseAwaitsPromiseResolvedLater(t *testing.T) {
	p, _ := newAsyncParser(compat.Latest)
	promise := value.NewPromise()
	go func() {
		time.Sleep(5 * time.Millisecond)
		promise.Resolve(value.Number(7))
	}()

	node, err := p.Parse(context.Background(), promise)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.T != ir.TagPromise || node.F.S != "7" {
		t.Fatalf("got %+v", node)
	}
}

func TestAsyncParseCanceledContextSurfacesAwaitCanceled(t *testing.T) {
	p, _ := newAsyncParser(compat.Latest)
	promise := value.NewPromise() // never settles

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := p.Parse(ctx, promise)
	if err == nil {
		t.Fatalf("expected an error from a canceled await")
	}
	var canceled *logger.AwaitCanceledError
	if !errors.As(err, &canceled) {
		t.Fatalf("expected an AwaitCanceled error, got %v", err)
	}
}

func TestAsyncParseNestedPromiseInsideArray(t *testing.T) {
	p, _ := newAsyncParser(compat.Latest)
	inner := value.NewResolvedPromise(value.Str("inner"))
	arr := &value.ArrayValue{Elements: []value.Value{inner}}

	node, err := p.Parse(context.Background(), arr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.A[0].T != ir.TagPromise || node.A[0].F.S != "inner" {
		t.Fatalf("got %+v", node.A[0])
	}
}

func TestAsyncParsePreCanceledContextFailsImmediately(t *testing.T) {
	p, _ := newAsyncParser(compat.Latest)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Parse(ctx, &value.ArrayValue{})
	if err == nil {
		t.Fatalf("expected an immediate error for an already-canceled context")
	}
}
