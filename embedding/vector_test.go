package embedding

import (
	"context"
	"math"
	"testing"
)

func TestDotProduct(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}

	got := DotProduct(a, b)
	if got != 32 {
		t.Errorf("expected 32, got %v", got)
	}
}

func TestDotProductLengthMismatch(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{1, 2}

	if got := DotProduct(a, b); got != 0 {
		t.Errorf("expected 0 for mismatched lengths, got %v", got)
	}
}

func TestNormalizeUnitLength(t *testing.T) {
	v := Normalize([]float32{3, 4})

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("expected unit length, got squared norm %v", sum)
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("expected [0.6 0.8], got %v", v)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	v := Normalize([]float32{0, 0, 0})

	for i, x := range v {
		if x != 0 {
			t.Errorf("expected zero at %d, got %v", i, x)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := []float32{3, 4}
	_ = Normalize(in)

	if in[0] != 3 || in[1] != 4 {
		t.Errorf("input mutated: %v", in)
	}
}

func TestEmptyTextRejected(t *testing.T) {
	e, err := NewOpenAIEmbedder("test-key")
	if err != nil {
		t.Fatalf("NewOpenAIEmbedder failed: %v", err)
	}

	_, err = e.Embed(context.Background(), "   ")
	if err != ErrEmptyText {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestMissingAPIKeyRejected(t *testing.T) {
	_, err := NewOpenAIEmbedder("")
	if err != ErrNoAPIKey {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}
