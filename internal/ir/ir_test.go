package ir

import "testing"

func TestEqualIdenticalTreesAreEqual(t *testing.T) {
	a := &Node{T: TagArray, I: IntPtr(0), A: []*Node{
		{T: TagPrimitive, PrimKind: PrimNumber, S: "1"},
		nil,
		{T: TagPrimitive, PrimKind: PrimNumber, S: "3"},
	}}
	b := &Node{T: TagArray, I: IntPtr(0), A: []*Node{
		{T: TagPrimitive, PrimKind: PrimNumber, S: "1"},
		nil,
		{T: TagPrimitive, PrimKind: PrimNumber, S: "3"},
	}}
	if !Equal(a, b) {
		t.Fatalf("expected equal trees to compare equal")
	}
}

func TestEqualDetectsHoleMismatch(t *testing.T) {
	a := &Node{T: TagArray, A: []*Node{{T: TagPrimitive, S: "1"}, nil}}
	b := &Node{T: TagArray, A: []*Node{{T: TagPrimitive, S: "1"}, {T: TagPrimitive, S: "2"}}}
	if Equal(a, b) {
		t.Fatalf("expected mismatched hole to break equality")
	}
}

func TestEqualDetectsKeyMismatch(t *testing.T) {
	a := &Node{T: TagObject, D: []KV{{Key: "x", Value: &Node{T: TagPrimitive, S: "1"}}}}
	b := &Node{T: TagObject, D: []KV{{Key: "y", Value: &Node{T: TagPrimitive, S: "1"}}}}
	if Equal(a, b) {
		t.Fatalf("expected mismatched key to break equality")
	}
}

func TestWalkVisitsEveryDescendantOnce(t *testing.T) {
	leaf1 := &Node{T: TagPrimitive, S: "1"}
	leaf2 := &Node{T: TagPrimitive, S: "2"}
	root := &Node{T: TagArray, A: []*Node{leaf1, nil, leaf2}}

	var visited []*Node
	Walk(root, func(n *Node) { visited = append(visited, n) })

	if len(visited) != 3 {
		t.Fatalf("got %d visited nodes, want 3", len(visited))
	}
}

func TestTagStringKnownAndUnknown(t *testing.T) {
	if TagMap.String() != "Map" {
		t.Fatalf("got %q", TagMap.String())
	}
	if Tag(999).String() != "Unknown" {
		t.Fatalf("got %q", Tag(999).String())
	}
}
