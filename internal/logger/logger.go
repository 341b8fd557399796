// Package logger defines the diagnostic kinds this library can raise
// and a small Msg/Kind shape for rendering them, mirroring the
// Msg/Kind split in esbuild's internal/logger package (adapted here
// from esbuild's source-location diagnostics to this library's
// value-graph diagnostics, which have no line/column to report).
package logger

import "fmt"

// Kind identifies which of the error categories in the error-handling
// design a Msg belongs to.
type Kind uint8

const (
	// UnsupportedType: an input value is not representable.
	UnsupportedType Kind = iota
	// FeatureMissing: value requires a feature the gate has disabled.
	FeatureMissing
	// AssertionFailed: an internal invariant was violated.
	AssertionFailed
	// EvaluationFailed: the host evaluator's failure, propagated verbatim.
	EvaluationFailed
	// InvalidEnvelope: a JSON envelope failed to decode into well-formed IR.
	InvalidEnvelope
	// AwaitCanceled: a context passed to the async parser was canceled.
	AwaitCanceled
)

func (k Kind) String() string {
	switch k {
	case UnsupportedType:
		return "unsupported-type"
	case FeatureMissing:
		return "feature-missing"
	case AssertionFailed:
		return "assertion-failed"
	case EvaluationFailed:
		return "evaluation-failed"
	case InvalidEnvelope:
		return "invalid-envelope"
	case AwaitCanceled:
		return "await-canceled"
	default:
		return "unknown"
	}
}

// Msg is the structured diagnostic payload carried by every error this
// library returns. It is deliberately not itself an error (the
// concrete *Error types below wrap it) so callers that want the raw
// fields can pull them out with errors.As without string-matching.
type Msg struct {
	Kind Kind
	Text string
}

func (m Msg) String() string {
	return fmt.Sprintf("%s: %s", m.Kind, m.Text)
}

// Error is the common shape every diagnostic returned by this module
// satisfies, so call sites can write `var e logger.Error; errors.As(err, &e)`
// to recover the Kind without caring which concrete type produced it.
type Error interface {
	error
	Msg() Msg
}

type baseError struct {
	msg Msg
}

func (e *baseError) Error() string { return e.msg.String() }
func (e *baseError) Msg() Msg      { return e.msg }

// UnsupportedTypeError reports an input value with no IR representation.
type UnsupportedTypeError struct {
	baseError
	GoType string
}

func NewUnsupportedType(goType, detail string) *UnsupportedTypeError {
	text := fmt.Sprintf("cannot serialize value of type %s", goType)
	if detail != "" {
		text += ": " + detail
	}
	return &UnsupportedTypeError{baseError{Msg{UnsupportedType, text}}, goType}
}

// FeatureMissingError reports that the feature gate lacks a flag a
// value required.
type FeatureMissingError struct {
	baseError
	Feature fmt.Stringer
}

func NewFeatureMissing(feature fmt.Stringer) *FeatureMissingError {
	text := fmt.Sprintf("value requires feature %s, which is disabled", feature)
	return &FeatureMissingError{baseError{Msg{FeatureMissing, text}}, feature}
}

// AssertionFailedError marks an internal invariant violation: a bug,
// never expected in valid use.
type AssertionFailedError struct {
	baseError
}

func NewAssertionFailed(text string) *AssertionFailedError {
	return &AssertionFailedError{baseError{Msg{AssertionFailed, text}}}
}

// EvaluationFailedError wraps the host evaluator's own failure verbatim.
type EvaluationFailedError struct {
	baseError
	Cause error
}

func NewEvaluationFailed(cause error) *EvaluationFailedError {
	text := "host evaluator failed"
	if cause != nil {
		text += ": " + cause.Error()
	}
	return &EvaluationFailedError{baseError{Msg{EvaluationFailed, text}}, cause}
}

func (e *EvaluationFailedError) Unwrap() error { return e.Cause }

// InvalidEnvelopeError reports a malformed JSON envelope.
type InvalidEnvelopeError struct {
	baseError
}

func NewInvalidEnvelope(text string) *InvalidEnvelopeError {
	return &InvalidEnvelopeError{baseError{Msg{InvalidEnvelope, text}}}
}

// AwaitCanceledError reports that a context passed to the async parser
// was canceled while a promise or blob read was outstanding.
type AwaitCanceledError struct {
	baseError
	Cause error
}

func NewAwaitCanceled(cause error) *AwaitCanceledError {
	text := "await canceled"
	if cause != nil {
		text += ": " + cause.Error()
	}
	return &AwaitCanceledError{baseError{Msg{AwaitCanceled, text}}, cause}
}

func (e *AwaitCanceledError) Unwrap() error { return e.Cause }
