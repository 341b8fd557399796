package logger

import (
	"errors"
	"fmt"
	"testing"
)

func TestUnsupportedTypeErrorMessage(t *testing.T) {
	err := NewUnsupportedType("func()", "functions must be pre-registered")
	if got := err.Error(); got != "unsupported-type: cannot serialize value of type func(): functions must be pre-registered" {
		t.Fatalf("got %q", got)
	}
	var asErr Error
	if !errors.As(err, &asErr) {
		t.Fatalf("expected errors.As to recover logger.Error")
	}
	if asErr.Msg().Kind != UnsupportedType {
		t.Fatalf("got kind %v", asErr.Msg().Kind)
	}
}

type stubFeature string

func (s stubFeature) String() string { return string(s) }

func TestFeatureMissingErrorMessage(t *testing.T) {
	err := NewFeatureMissing(stubFeature("Map"))
	if got := err.Error(); got != "feature-missing: value requires feature Map, which is disabled" {
		t.Fatalf("got %q", got)
	}
}

func TestEvaluationFailedUnwraps(t *testing.T) {
	cause := fmt.Errorf("ReferenceError: x is not defined")
	err := NewEvaluationFailed(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
}

func TestAwaitCanceledUnwraps(t *testing.T) {
	cause := errors.New("context canceled")
	err := NewAwaitCanceled(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
}
