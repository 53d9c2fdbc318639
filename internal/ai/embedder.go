package ai

import (
	"context"
	"fmt"
)

// Embedder turns text into a fixed-length vector. Implementations must be
// deterministic for a given model and safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// EmbeddingError reports a failed call to the embedding provider.
type EmbeddingError struct {
	Model string
	Err   error
}

func (e *EmbeddingError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("embedding failed: %v", e.Err)
	}
	return fmt.Sprintf("embedding with %s failed: %v", e.Model, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// Embed calls the embedder and wraps any failure into an *EmbeddingError.
func Embed(ctx context.Context, e Embedder, text string) ([]float32, error) {
	if e == nil {
		return nil, &EmbeddingError{Err: fmt.Errorf("embedder is not configured")}
	}

	vec, err := e.Embed(ctx, text)
	if err != nil {
		return nil, &EmbeddingError{Model: e.Model(), Err: err}
	}
	if len(vec) == 0 {
		return nil, &EmbeddingError{Model: e.Model(), Err: fmt.Errorf("empty vector returned")}
	}

	return vec, nil
}
