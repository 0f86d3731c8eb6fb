package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestMemoryError_Error(t *testing.T) {
	err := New(CodeInvalidInput, "confidence out of range")
	want := "[INVALID_INPUT] confidence out of range"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	wrapped := Wrap(CodeStoreUnavailable, "durable write failed", errors.New("disk full"))
	if wrapped.Error() != "[STORE_UNAVAILABLE] durable write failed: disk full" {
		t.Errorf("unexpected message: %q", wrapped.Error())
	}
}

func TestMemoryError_Unwrap(t *testing.T) {
	inner := errors.New("no such table")
	err := Wrap(CodeStoreUnavailable, "query failed", inner)

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestMemoryError_IsByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeEmbedderUnavailable, "onnx runtime missing"))

	if !errors.Is(err, New(CodeEmbedderUnavailable, "")) {
		t.Error("expected code match via errors.Is")
	}
	if errors.Is(err, New(CodeNotFound, "")) {
		t.Error("did not expect a match for a different code")
	}
}

func TestAsCode(t *testing.T) {
	if got := AsCode(New(CodeConfigInvalid, "bad capacity")); got != CodeConfigInvalid {
		t.Errorf("expected %q, got %q", CodeConfigInvalid, got)
	}
	if got := AsCode(errors.New("plain")); got != "" {
		t.Errorf("expected empty code for plain error, got %q", got)
	}
}

func TestSuggestion(t *testing.T) {
	err := New(CodeEmbedderUnavailable, "model missing").
		WithSuggestion("set semantic.model_path in mnemo.yaml")
	if Suggestion(err) != "set semantic.model_path in mnemo.yaml" {
		t.Errorf("unexpected suggestion: %q", Suggestion(err))
	}
}
