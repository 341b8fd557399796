package envelope

import (
	"strings"
	"testing"

	"github.com/samualtnorman/seroval/internal/compat"
	"github.com/samualtnorman/seroval/internal/ir"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tree := &ir.Node{T: ir.TagObject, D: []ir.KV{
		{Key: "a", Value: &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimNumber, S: "1"}},
	}}
	ir.WithID(tree, 0)
	original := &Envelope{
		Tree:      tree,
		RootID:    0,
		RootHasID: true,
		Features:  compat.Latest,
		MarkedIDs: []int{0},
	}

	text, err := Encode(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := Decode(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ir.Equal(original.Tree, decoded.Tree) {
		t.Fatalf("tree did not round-trip: %+v vs %+v", original.Tree, decoded.Tree)
	}
	if decoded.RootID != 0 || !decoded.RootHasID || decoded.Features != compat.Latest {
		t.Fatalf("scalar fields did not round-trip: %+v", decoded)
	}
	if len(decoded.MarkedIDs) != 1 || decoded.MarkedIDs[0] != 0 {
		t.Fatalf("marked ids did not round-trip: %v", decoded.MarkedIDs)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode("{not json"); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}

func TestDecodeRejectsMissingTree(t *testing.T) {
	if _, err := Decode(`{"r":0,"i":true}`); err == nil {
		t.Fatalf("expected an error for a missing tree")
	}
}

func TestDecodeRejectsMismatchedMapArrays(t *testing.T) {
	text := `{"t":{"t":8,"mk":[{"t":0,"pk":2}],"mv":[]},"r":0,"i":false}`
	if _, err := Decode(text); err == nil {
		t.Fatalf("expected an error for mismatched map key/value arrays")
	}
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	text := `{"t":{"t":999},"r":0,"i":false}`
	if _, err := Decode(text); err == nil {
		t.Fatalf("expected an error for an unknown tag")
	}
}

func TestEncodeOmitsZeroSlots(t *testing.T) {
	tree := &ir.Node{T: ir.TagPrimitive, PrimKind: ir.PrimTrue}
	text, err := Encode(&Envelope{Tree: tree})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(text, `"s"`) || strings.Contains(text, `"a"`) {
		t.Fatalf("expected empty optional slots to be omitted, got %q", text)
	}
}
