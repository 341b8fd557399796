package emit

import "strings"

// deferredKind distinguishes the three patch shapes from §4.H, plus
// the FormData append call.
type deferredKind int

const (
	deferredProperty deferredKind = iota // target<accessor>=value, chains on equal value
	deferredMapSet                       // target.set(key,value), chains on equal target
	deferredSetAdd                       // target.add(value), chains on equal target
	deferredCall                         // target.method(args), never chains (FormData.append)
)

// deferredEntry is one patch queued while emitting a node whose child
// is a cyclic back-reference to an ancestor still under construction,
// or (for FormData) one entry that has no literal-constructor form at
// all and must always be appended after the fact.
type deferredEntry struct {
	kind     deferredKind
	target   string
	accessor string // deferredProperty: ".key" or "[0]"
	keyExpr  string // deferredMapSet: the key expression
	method   string // deferredCall: method name
	args     string // deferredCall: rendered argument list
	value    string // deferredProperty/deferredMapSet/deferredSetAdd: the value expression
}

// renderDeferred flattens the queued entries into the comma-expression
// fragment spliced into the finalized body, applying the three
// adjacency-merge rules from §4.H: consecutive property entries with
// the same value chain as `a=b=value`; consecutive map entries on the
// same target chain as `.set(k,v).set(...)`; consecutive set entries
// on the same target chain as `.add(v).add(...)`. Any other adjacency
// flushes the buffered run.
func renderDeferred(entries []deferredEntry) string {
	var parts []string
	i := 0
	for i < len(entries) {
		e := entries[i]
		switch e.kind {
		case deferredProperty:
			chain := e.target + e.accessor + "="
			j := i + 1
			for j < len(entries) && entries[j].kind == deferredProperty && entries[j].value == e.value {
				chain += entries[j].target + entries[j].accessor + "="
				j++
			}
			chain += e.value
			parts = append(parts, chain)
			i = j

		case deferredMapSet:
			chain := e.target + ".set(" + e.keyExpr + "," + e.value + ")"
			j := i + 1
			for j < len(entries) && entries[j].kind == deferredMapSet && entries[j].target == e.target {
				chain += ".set(" + entries[j].keyExpr + "," + entries[j].value + ")"
				j++
			}
			parts = append(parts, chain)
			i = j

		case deferredSetAdd:
			chain := e.target + ".add(" + e.value + ")"
			j := i + 1
			for j < len(entries) && entries[j].kind == deferredSetAdd && entries[j].target == e.target {
				chain += ".add(" + entries[j].value + ")"
				j++
			}
			parts = append(parts, chain)
			i = j

		case deferredCall:
			parts = append(parts, e.target+"."+e.method+"("+e.args+")")
			i++

		default:
			i++
		}
	}
	return strings.Join(parts, ",")
}
