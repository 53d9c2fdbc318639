package filtering

import (
	"context"
	"fmt"

	"github.com/spigell/hh-matcher/internal/talent"
)

const (
	ExcludeOwnerName = "exclude_owner"
	HasEmbeddingName = "has_embedding"
	DimensionName    = "dimension"
)

type excludeOwnerFilter[T talent.Record] struct {
	owner   string
	enabled bool
	reason  string
}

// NewExcludeOwner drops the records of owner. An empty owner disables the step.
func NewExcludeOwner[T talent.Record](owner string) Filter[T] {
	f := &excludeOwnerFilter[T]{owner: owner, enabled: true}
	if owner == "" {
		f.Disable("no owner to exclude")
	}
	return f
}

func (f *excludeOwnerFilter[T]) Name() string { return ExcludeOwnerName }

func (f *excludeOwnerFilter[T]) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *excludeOwnerFilter[T]) IsEnabled() bool { return f.enabled }

func (f *excludeOwnerFilter[T]) Validate() error { return nil }

func (f *excludeOwnerFilter[T]) Apply(_ context.Context, records []T) ([]T, Step, error) {
	out, step := keep(records, func(r T) bool { return r.Owner() != f.owner })
	return out, step, nil
}

type hasEmbeddingFilter[T talent.Record] struct{}

// NewHasEmbedding drops records stored without an embedding.
func NewHasEmbedding[T talent.Record]() Filter[T] {
	return &hasEmbeddingFilter[T]{}
}

func (f *hasEmbeddingFilter[T]) Name() string { return HasEmbeddingName }

func (f *hasEmbeddingFilter[T]) Disable(string) {}

func (f *hasEmbeddingFilter[T]) IsEnabled() bool { return true }

func (f *hasEmbeddingFilter[T]) Validate() error { return nil }

func (f *hasEmbeddingFilter[T]) Apply(_ context.Context, records []T) ([]T, Step, error) {
	out, step := keep(records, func(r T) bool { return len(r.Vector()) > 0 })
	return out, step, nil
}

type dimensionFilter[T talent.Record] struct {
	dim int
}

// NewDimension drops records whose embedding length differs from dim.
func NewDimension[T talent.Record](dim int) Filter[T] {
	return &dimensionFilter[T]{dim: dim}
}

func (f *dimensionFilter[T]) Name() string { return DimensionName }

func (f *dimensionFilter[T]) Disable(string) {}

func (f *dimensionFilter[T]) IsEnabled() bool { return true }

func (f *dimensionFilter[T]) Validate() error {
	if f.dim <= 0 {
		return fmt.Errorf("dimension must be positive, got %d", f.dim)
	}
	return nil
}

func (f *dimensionFilter[T]) Apply(_ context.Context, records []T) ([]T, Step, error) {
	out, step := keep(records, func(r T) bool { return len(r.Vector()) == f.dim })
	return out, step, nil
}
