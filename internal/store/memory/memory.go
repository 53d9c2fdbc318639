package memory

import (
	"context"
	"sync"

	"github.com/spigell/hh-matcher/internal/store"
	"github.com/spigell/hh-matcher/internal/talent"
)

var _ store.Collection[talent.Profile] = (*Collection[talent.Profile])(nil)

// Collection keeps records in a slice guarded by a mutex.
type Collection[T talent.Record] struct {
	mu      sync.RWMutex
	records []T
}

func New[T talent.Record]() *Collection[T] {
	return &Collection[T]{}
}

func (c *Collection[T]) Append(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.Validate(record); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
	return nil
}

func (c *Collection[T]) ReplaceByOwner(ctx context.Context, owner string, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if owner == "" {
		return store.ErrEmptyOwner
	}
	if err := store.Validate(record); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.records[:0:0]
	for _, r := range c.records {
		if r.Owner() != owner {
			kept = append(kept, r)
		}
	}
	c.records = append(kept, record)
	return nil
}

// ListAll returns a copy, so callers own a stable snapshot.
func (c *Collection[T]) ListAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.records))
	copy(out, c.records)
	return out, nil
}

func (c *Collection[T]) ListByOwner(ctx context.Context, owner string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []T
	for _, r := range c.records {
		if r.Owner() == owner {
			out = append(out, r)
		}
	}
	return out, nil
}
