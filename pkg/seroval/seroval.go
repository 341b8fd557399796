// Package seroval is the public entry point (§6): turning an in-memory
// value.Value graph into an executable JavaScript expression string
// (or an intermediate JSON envelope), and the reverse trip through a
// caller-supplied Evaluator.
//
// The functional-options-over-a-config-struct shape mirrors esbuild's
// own public API (config.Options plus a handful of "With..." option
// constructors in pkg/api), adapted here to this library's much
// smaller configuration surface.
package seroval

import (
	"context"

	"github.com/samualtnorman/seroval/internal/compat"
	"github.com/samualtnorman/seroval/internal/emit"
	"github.com/samualtnorman/seroval/internal/envelope"
	"github.com/samualtnorman/seroval/internal/ir"
	"github.com/samualtnorman/seroval/internal/logger"
	"github.com/samualtnorman/seroval/internal/parsectx"
	"github.com/samualtnorman/seroval/internal/presets"
	"github.com/samualtnorman/seroval/internal/reference"
	"github.com/samualtnorman/seroval/internal/value"
	"github.com/samualtnorman/seroval/internal/walk"
)

// Evaluator runs a generated JavaScript expression against whatever
// host JS engine the caller has embedded (goja, v8go, a subprocess
// shelling out to node, ...) and returns the resulting value.Value
// graph. This library has no engine of its own — every example repo
// in the retrieval pack that embeds a script language brings its own
// VM, so the choice of which one is left to the caller, not wired in
// here.
type Evaluator interface {
	Evaluate(code string) (value.Value, error)
}

// config is the options struct functional options mutate.
type config struct {
	features  compat.Mask
	registry  *reference.Registry
	presetErr error
}

// Option configures a Serialize/ToJSON call.
type Option func(*config)

// WithDisabledFeatures removes the given features from the default
// ("latest") gate.
func WithDisabledFeatures(mask compat.Mask) Option {
	return func(c *config) {
		c.features &^= mask
	}
}

// WithPreset loads a named feature preset (Domain Stack §2.2) and
// replaces the gate with it outright.
func WithPreset(name string) Option {
	return func(c *config) {
		mask, err := presets.Lookup(name)
		if err != nil {
			// A bad preset name is a caller programming error. The option
			// leaves the gate unchanged and records the error, and
			// buildConfig returns it, so the Serialize/ToJSON call fails
			// before any parsing starts.
			c.presetErr = err
			return
		}
		c.features = mask
	}
}

// WithRegistry overrides the process-wide identity registry (§4.B)
// with a caller-supplied one, mainly for test isolation.
func WithRegistry(r *reference.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

func buildConfig(opts []Option) (*config, error) {
	c := &config{features: compat.Latest, registry: reference.Global}
	for _, opt := range opts {
		opt(c)
	}
	if c.presetErr != nil {
		return nil, c.presetErr
	}
	return c, nil
}

// Register binds key to v in the process-wide identity registry, so
// the parser emits v as a $seroval.get(key) lookup instead of
// decomposing it. Evaluating that lookup needs a $seroval global on
// the host (the "Global host contract" of SPEC_FULL.md §6).
func Register(key string, v value.Value) error {
	return reference.Global.Register(key, v)
}

// LookupByValue returns the key v was registered under, if any.
func LookupByValue(v value.Value) (string, bool) {
	return reference.Global.LookupByValue(v)
}

// LookupByKey returns the value bound to key, if any.
func LookupByKey(key string) (value.Value, bool) {
	return reference.Global.LookupByKey(key)
}

// Serialize parses v and emits a self-evaluating JavaScript
// expression string that reconstructs an isomorphic graph.
func Serialize(v value.Value, opts ...Option) (string, error) {
	c, err := buildConfig(opts)
	if err != nil {
		return "", err
	}
	ctx := parsectx.New(c.features)
	node, err := walk.New(ctx, c.registry).Parse(v)
	if err != nil {
		return "", err
	}
	return renderExpression(ctx, node)
}

// SerializeAsync is Serialize using the asynchronous parser, awaiting
// any promise or async byte source reachable from v. ctx's
// cancellation propagates as an AwaitCanceled error (§5).
func SerializeAsync(goCtx context.Context, v value.Value, opts ...Option) (string, error) {
	c, err := buildConfig(opts)
	if err != nil {
		return "", err
	}
	pctx := parsectx.New(c.features)
	node, err := walk.NewAsync(pctx, c.registry).Parse(goCtx, v)
	if err != nil {
		return "", err
	}
	return renderExpression(pctx, node)
}

// ToJSON parses v and renders the §4.I JSON envelope instead of a
// JavaScript expression, for callers that want to transport the
// parsed graph and emit it elsewhere later.
func ToJSON(v value.Value, opts ...Option) (string, error) {
	c, err := buildConfig(opts)
	if err != nil {
		return "", err
	}
	ctx := parsectx.New(c.features)
	node, err := walk.New(ctx, c.registry).Parse(v)
	if err != nil {
		return "", err
	}
	return renderEnvelope(ctx, node)
}

// ToJSONAsync is ToJSON using the asynchronous parser.
func ToJSONAsync(goCtx context.Context, v value.Value, opts ...Option) (string, error) {
	c, err := buildConfig(opts)
	if err != nil {
		return "", err
	}
	pctx := parsectx.New(c.features)
	node, err := walk.NewAsync(pctx, c.registry).Parse(goCtx, v)
	if err != nil {
		return "", err
	}
	return renderEnvelope(pctx, node)
}

// Deserialize evaluates code via ev and returns the resulting graph.
// Failures from ev are wrapped as an EvaluationFailed error (§7) so
// callers can tell a host evaluator failure apart from a library
// error via errors.As.
func Deserialize(code string, ev Evaluator) (value.Value, error) {
	v, err := ev.Evaluate(code)
	if err != nil {
		return nil, logger.NewEvaluationFailed(err)
	}
	return v, nil
}

// CompileJSON turns a §4.I JSON envelope back into a JavaScript
// expression, without evaluating it.
func CompileJSON(jsonEnvelope string) (string, error) {
	env, err := envelope.Decode(jsonEnvelope)
	if err != nil {
		return "", err
	}
	ctx := parsectx.New(env.Features)
	for _, id := range env.MarkedIDs {
		ctx.Mark(id)
	}
	body, varList, err := emit.New(ctx).Emit(env.Tree)
	if err != nil {
		return "", err
	}
	return emit.Finalize(body, varList, env.Features), nil
}

// FromJSON compiles jsonEnvelope and evaluates the result via ev.
func FromJSON(jsonEnvelope string, ev Evaluator) (value.Value, error) {
	code, err := CompileJSON(jsonEnvelope)
	if err != nil {
		return nil, err
	}
	return Deserialize(code, ev)
}

func renderExpression(ctx *parsectx.Context, node *ir.Node) (string, error) {
	body, varList, err := emit.New(ctx).Emit(node)
	if err != nil {
		return "", err
	}
	return emit.Finalize(body, varList, ctx.Features), nil
}

func renderEnvelope(ctx *parsectx.Context, node *ir.Node) (string, error) {
	rootID := node.Ref()
	env := &envelope.Envelope{
		Tree:      node,
		RootID:    rootID,
		RootHasID: rootID >= 0,
		Features:  ctx.Features,
		MarkedIDs: ctx.MarkedIDs(),
	}
	return envelope.Encode(env)
}
