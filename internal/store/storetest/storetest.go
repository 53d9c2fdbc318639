// Package storetest holds behaviour checks shared by every collection backend.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/hh-matcher/internal/store"
	"github.com/spigell/hh-matcher/internal/talent"
)

// Factory returns an empty collection for one subtest.
type Factory func(t *testing.T) store.Collection[talent.Profile]

func profile(id, owner string) talent.Profile {
	return talent.Profile{
		ID:        id,
		OwnerID:   owner,
		Name:      "Name " + id,
		Skills:    []string{"Go"},
		RawText:   "text " + id,
		Embedding: []float32{1, 0, 0.5},
	}
}

func ids(records []talent.Profile) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

// Run exercises the Collection contract against the backend built by newCollection.
func Run(t *testing.T, newCollection Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		c := newCollection(t)

		all, err := c.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		mine, err := c.ListByOwner(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, mine)
	})

	t.Run("append keeps insertion order", func(t *testing.T) {
		c := newCollection(t)

		require.NoError(t, c.Append(ctx, profile("p1", "alice")))
		require.NoError(t, c.Append(ctx, profile("p2", "bob")))
		require.NoError(t, c.Append(ctx, profile("p3", "alice")))

		all, err := c.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2", "p3"}, ids(all))

		mine, err := c.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p3"}, ids(mine))
	})

	t.Run("records round trip", func(t *testing.T) {
		c := newCollection(t)
		want := profile("p1", "alice")
		want.Education = "BSc"

		require.NoError(t, c.Append(ctx, want))

		all, err := c.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, want, all[0])
	})

	t.Run("replace by owner moves record to the end", func(t *testing.T) {
		c := newCollection(t)

		require.NoError(t, c.Append(ctx, profile("p1", "alice")))
		require.NoError(t, c.Append(ctx, profile("p2", "bob")))
		require.NoError(t, c.Append(ctx, profile("p3", "alice")))
		require.NoError(t, c.ReplaceByOwner(ctx, "alice", profile("p4", "alice")))

		all, err := c.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"p2", "p4"}, ids(all))

		mine, err := c.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"p4"}, ids(mine))
	})

	t.Run("replace by owner on empty collection appends", func(t *testing.T) {
		c := newCollection(t)

		require.NoError(t, c.ReplaceByOwner(ctx, "carol", profile("p1", "carol")))

		all, err := c.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, ids(all))
	})

	t.Run("validation", func(t *testing.T) {
		c := newCollection(t)

		assert.ErrorIs(t, c.Append(ctx, profile("", "alice")), store.ErrEmptyID)
		assert.ErrorIs(t, c.Append(ctx, profile("p1", "")), store.ErrEmptyOwner)
		assert.ErrorIs(t, c.ReplaceByOwner(ctx, "", profile("p1", "alice")), store.ErrEmptyOwner)

		all, err := c.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
