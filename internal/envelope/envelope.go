// Package envelope implements §4.I: the JSON-transportable form of a
// parsed graph. internal/ir's Node already carries the wire-shape
// json tags, so this package is a thin struct wrapping one Node plus
// the bookkeeping the emitter needs to resume from it — no
// translation layer between the in-memory and wire shapes, the same
// way other_examples/wdamron-skylark's codec.go reuses its VM's own
// opcode ints as its wire opcodes rather than defining a parallel set.
//
// encoding/json is used rather than a third-party codec: see
// DESIGN.md for why no pack dependency fits a document this small and
// this infrequently on the hot path.
package envelope

import (
	"encoding/json"

	"github.com/samualtnorman/seroval/internal/compat"
	"github.com/samualtnorman/seroval/internal/ir"
	"github.com/samualtnorman/seroval/internal/logger"
)

// Envelope is the §4.I document: the parsed tree plus enough of the
// parse context (root id, whether the root itself carries an id,
// the feature gate it was parsed under, and the marked-id set) for
// the emitter to be run again later, possibly after a trip through
// JSON, without re-parsing.
type Envelope struct {
	Tree      *ir.Node `json:"t"`
	RootID    int      `json:"r"`
	RootHasID bool     `json:"i"`
	Features  compat.Mask `json:"f"`
	MarkedIDs []int    `json:"m,omitempty"`
}

// Encode renders e as its JSON document.
func Encode(e *Envelope) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", logger.NewAssertionFailed("envelope: marshal failed: " + err.Error())
	}
	return string(b), nil
}

// Decode parses a JSON document into an Envelope, validating the
// invariants §3 requires of a well-formed IR tree arriving from an
// untrusted source (the document might not have been produced by
// this package's own Encode).
func Decode(text string) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal([]byte(text), &e); err != nil {
		return nil, logger.NewInvalidEnvelope("envelope: malformed JSON: " + err.Error())
	}
	if e.Tree == nil {
		return nil, logger.NewInvalidEnvelope("envelope: missing tree")
	}
	if err := validate(e.Tree); err != nil {
		return nil, err
	}
	return &e, nil
}

// validate walks tree checking the handful of IR invariants that a
// hostile or corrupted JSON document could otherwise violate: Map's
// parallel key/value arrays must agree in length, and every node's
// tag must be one this package's emitter actually dispatches on.
func validate(n *ir.Node) error {
	if n == nil {
		return nil
	}
	if int(n.T) < 0 || int(n.T) > int(ir.TagWellKnownSymbol) {
		return logger.NewInvalidEnvelope("envelope: unknown tag")
	}
	if n.T == ir.TagMap && len(n.MapKeys) != len(n.MapValues) {
		return logger.NewInvalidEnvelope("envelope: map key/value arrays have unequal length")
	}
	for _, child := range n.A {
		if err := validate(child); err != nil {
			return err
		}
	}
	for _, kv := range n.D {
		if err := validate(kv.Value); err != nil {
			return err
		}
	}
	if err := validate(n.F); err != nil {
		return err
	}
	for _, k := range n.MapKeys {
		if err := validate(k); err != nil {
			return err
		}
	}
	for _, v := range n.MapValues {
		if err := validate(v); err != nil {
			return err
		}
	}
	return nil
}
