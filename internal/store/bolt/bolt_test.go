package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/hh-matcher/internal/store"
	"github.com/spigell/hh-matcher/internal/store/storetest"
	"github.com/spigell/hh-matcher/internal/talent"
)

func TestCollection(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Collection[talent.Profile] {
		db, err := Open(filepath.Join(t.TempDir(), "store.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		c, err := NewCollection[talent.Profile](db, "profiles")
		require.NoError(t, err)
		return c
	})
}

func TestCollectionsShareFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := Open(path)
	require.NoError(t, err)

	profiles, err := NewCollection[talent.Profile](db, "profiles")
	require.NoError(t, err)
	postings, err := NewCollection[talent.Posting](db, "postings")
	require.NoError(t, err)

	require.NoError(t, profiles.Append(ctx, talent.Profile{ID: "p1", OwnerID: "alice", Embedding: []float32{1}}))
	require.NoError(t, postings.Append(ctx, talent.Posting{ID: "j1", OwnerID: "acme", Title: "SRE"}))
	require.NoError(t, postings.Append(ctx, talent.Posting{ID: "j2", OwnerID: "acme", Title: "DBA"}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	postings, err = NewCollection[talent.Posting](db, "postings")
	require.NoError(t, err)

	all, err := postings.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "SRE", all[0].Title)
	assert.Equal(t, "DBA", all[1].Title)
}
