package parsectx

import (
	"testing"

	"github.com/samualtnorman/seroval/internal/compat"
	"github.com/samualtnorman/seroval/internal/value"
)

func TestInternAssignsStableIncreasingIDs(t *testing.T) {
	ctx := New(compat.Latest)
	a := &value.ArrayValue{}
	b := &value.ArrayValue{}

	id0, fresh0 := ctx.Intern(a)
	id1, fresh1 := ctx.Intern(b)
	id0Again, fresh0Again := ctx.Intern(a)

	if !fresh0 || !fresh1 {
		t.Fatalf("expected first encounters to be fresh")
	}
	if fresh0Again {
		t.Fatalf("expected second encounter of a to not be fresh")
	}
	if id0 != 0 || id1 != 1 || id0Again != 0 {
		t.Fatalf("got ids %d %d %d", id0, id1, id0Again)
	}
}

func TestMarkAndMarkedIDsSorted(t *testing.T) {
	ctx := New(compat.Latest)
	ctx.Mark(3)
	ctx.Mark(1)
	ctx.Mark(2)
	got := ctx.MarkedIDs()
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestValueForIDRoundTrips(t *testing.T) {
	ctx := New(compat.Latest)
	a := &value.ArrayValue{}
	id, _ := ctx.Intern(a)
	got, ok := ctx.ValueForID(id)
	if !ok || got != value.Value(a) {
		t.Fatalf("expected to recover the interned value")
	}
	if _, ok := ctx.ValueForID(99); ok {
		t.Fatalf("expected out-of-range id to miss")
	}
}
