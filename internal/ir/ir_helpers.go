package ir

// Equal reports whether a and b describe the same tree, the way
// esbuild's ValuesLookTheSame (internal/js_ast_helpers.go) does a
// deep structural comparison over its own tagged variant. Used by
// internal/envelope's round-trip tests: re-decoding an encoded
// envelope must reproduce an IR structurally equal to the original.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.T != b.T || a.PrimKind != b.PrimKind || a.S != b.S ||
		a.C != b.C || a.M != b.M || a.RefKey != b.RefKey {
		return false
	}
	if !intPtrEqual(a.I, b.I) || !intPtrEqual(a.L, b.L) || !int64PtrEqual(a.B, b.B) {
		return false
	}
	if !bytesEqual(a.BlobBytes, b.BlobBytes) {
		return false
	}
	if len(a.D) != len(b.D) {
		return false
	}
	for i := range a.D {
		if a.D[i].Key != b.D[i].Key || !Equal(a.D[i].Value, b.D[i].Value) {
			return false
		}
	}
	if len(a.A) != len(b.A) {
		return false
	}
	for i := range a.A {
		if !Equal(a.A[i], b.A[i]) {
			return false
		}
	}
	if !Equal(a.F, b.F) {
		return false
	}
	if len(a.MapKeys) != len(b.MapKeys) || len(a.MapValues) != len(b.MapValues) {
		return false
	}
	for i := range a.MapKeys {
		if !Equal(a.MapKeys[i], b.MapKeys[i]) {
			return false
		}
	}
	for i := range a.MapValues {
		if !Equal(a.MapValues[i], b.MapValues[i]) {
			return false
		}
	}
	return true
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Walk calls visit on n and every descendant, depth-first, in the
// same order the emitter traverses: A elements, then D values, then
// F, then MapKeys/MapValues pairwise. A nil child (an array hole) is
// skipped. internal/emit does its own traversal and does not call
// Walk; it is for tests that need to visit every node of a tree.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.A {
		Walk(child, visit)
	}
	for _, kv := range n.D {
		Walk(kv.Value, visit)
	}
	Walk(n.F, visit)
	for i := range n.MapKeys {
		Walk(n.MapKeys[i], visit)
		Walk(n.MapValues[i], visit)
	}
}
