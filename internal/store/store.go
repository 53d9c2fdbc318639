// Package store defines the collection contract the matching and aggregation
// code reads from. Backends live in the sub-packages.
package store

import (
	"context"
	"errors"

	"github.com/spigell/hh-matcher/internal/talent"
)

var (
	ErrEmptyOwner = errors.New("owner id is required")
	ErrEmptyID    = errors.New("record id is required")
)

// Collection is an ordered, appendable set of records of one entity type.
// ListAll and ListByOwner return records in insertion order.
type Collection[T talent.Record] interface {
	Append(ctx context.Context, record T) error
	// ReplaceByOwner removes every record of owner and appends record at the end.
	ReplaceByOwner(ctx context.Context, owner string, record T) error
	ListAll(ctx context.Context) ([]T, error)
	ListByOwner(ctx context.Context, owner string) ([]T, error)
}

// Validate checks the fields every backend relies on.
func Validate[T talent.Record](record T) error {
	if record.RecordID() == "" {
		return ErrEmptyID
	}
	if record.Owner() == "" {
		return ErrEmptyOwner
	}
	return nil
}
