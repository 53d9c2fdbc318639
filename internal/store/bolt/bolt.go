// Package bolt persists collections in a single bbolt file, one bucket per collection.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/spigell/hh-matcher/internal/store"
	"github.com/spigell/hh-matcher/internal/talent"
)

var _ store.Collection[talent.Posting] = (*Collection[talent.Posting])(nil)

// Open opens (or creates) the database file.
func Open(path string) (*bbolt.DB, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	return db, nil
}

// Collection stores JSON-encoded records under big-endian sequence keys,
// so cursor order equals insertion order.
type Collection[T talent.Record] struct {
	db     *bbolt.DB
	bucket []byte
}

func NewCollection[T talent.Record](db *bbolt.DB, name string) (*Collection[T], error) {
	bucket := []byte(name)
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", name, err)
	}

	return &Collection[T]{db: db, bucket: bucket}, nil
}

func (c *Collection[T]) Append(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.Validate(record); err != nil {
		return err
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		return put(tx.Bucket(c.bucket), record)
	})
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

	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(c.bucket)

		// Keys are collected first: deleting under an active cursor can skip entries.
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			existing, err := decode[T](v)
			if err != nil {
				return err
			}
			if existing.Owner() == owner {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		return put(b, record)
	})
}

func (c *Collection[T]) ListAll(ctx context.Context) ([]T, error) {
	return c.list(ctx, func(T) bool { return true })
}

func (c *Collection[T]) ListByOwner(ctx context.Context, owner string) ([]T, error) {
	return c.list(ctx, func(r T) bool { return r.Owner() == owner })
}

func (c *Collection[T]) list(ctx context.Context, keep func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []T
	err := c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(c.bucket).ForEach(func(_, v []byte) error {
			record, err := decode[T](v)
			if err != nil {
				return err
			}
			if keep(record) {
				out = append(out, record)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.bucket, err)
	}

	return out, nil
}

func put[T talent.Record](b *bbolt.Bucket, record T) error {
	seq, err := b.NextSequence()
	if err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", record.RecordID(), err)
	}

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return b.Put(key, data)
}

func decode[T talent.Record](data []byte) (T, error) {
	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("decode record: %w", err)
	}
	return record, nil
}
