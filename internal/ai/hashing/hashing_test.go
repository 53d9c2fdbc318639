package hashing

import (
	"context"
	"math"
	"testing"
)

func TestEmbedDeterministicAndNormalized(t *testing.T) {
	e := New(64)

	a, err := e.Embed(context.Background(), "Senior Go engineer, Kubernetes and PostgreSQL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.Embed(context.Background(), "Senior Go engineer, Kubernetes and PostgreSQL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a) != 64 {
		t.Fatalf("expected 64 dimensions, got %d", len(a))
	}

	norm := 0.0
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected deterministic output at %d", i)
		}
		norm += float64(a[i]) * float64(a[i])
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Fatalf("expected unit vector, got norm %v", norm)
	}
}

func TestEmbedRejectsTextWithoutTokens(t *testing.T) {
	if _, err := New(0).Embed(context.Background(), " the, and ... "); err == nil {
		t.Fatalf("expected error for text without tokens")
	}
}

func TestModelName(t *testing.T) {
	if got := New(0).Model(); got != "hashing-256" {
		t.Fatalf("unexpected model name %q", got)
	}
}
