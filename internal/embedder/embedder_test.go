package embedder

import (
	"context"
	"errors"
	"testing"

	merrors "github.com/mnemo-ai/mnemo/internal/errors"
)

func TestNew_MockModel(t *testing.T) {
	e, err := New(Config{Model: "mock"})
	if err != nil {
		t.Fatal(err)
	}
	if e.Dimensions() != 384 {
		t.Errorf("expected default 384 dimensions, got %d", e.Dimensions())
	}
}

func TestNew_MissingRuntimeDegrades(t *testing.T) {
	_, err := New(Config{Model: "all-MiniLM-L6-v2"})
	if err == nil {
		t.Skip("onnx runtime available in this build")
	}
	if merrors.AsCode(err) != merrors.CodeEmbedderUnavailable {
		t.Errorf("expected EMBEDDER_UNAVAILABLE, got %v", err)
	}
	if !errors.Is(err, ErrRuntimeUnavailable) {
		t.Errorf("expected ErrRuntimeUnavailable, got %v", err)
	}
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	e, err := New(Config{Model: "mock", Dimensions: 64})
	if err != nil {
		t.Fatal(err)
	}

	a, err := e.Embed(context.Background(), "I live in Moscow")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(context.Background(), "I live in Moscow")
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 dims, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical vectors for identical text (index %d)", i)
		}
	}

	c, _ := e.Embed(context.Background(), "different text")
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different vectors for different text")
	}
}

func TestCached_PassthroughAndReuse(t *testing.T) {
	inner, err := New(Config{Model: "mock"})
	if err != nil {
		t.Fatal(err)
	}
	cached, err := NewCached(inner, 128)
	if err != nil {
		t.Fatal(err)
	}
	defer cached.Close()

	if cached.Dimensions() != inner.Dimensions() {
		t.Errorf("expected dimensions passthrough")
	}

	first, err := cached.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatal(err)
	}
	// Hit or miss, the result must equal the inner embedder's output.
	for i := 0; i < 3; i++ {
		again, err := cached.Embed(context.Background(), "hello world")
		if err != nil {
			t.Fatal(err)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("cached embedding diverged at index %d", j)
			}
		}
	}
}
