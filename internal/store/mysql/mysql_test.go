package mysql

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/hh-matcher/internal/store"
	"github.com/spigell/hh-matcher/internal/store/storetest"
	"github.com/spigell/hh-matcher/internal/talent"
)

const dsnEnv = "HH_MATCHER_TEST_MYSQL_DSN"

func TestCollection(t *testing.T) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s is not set", dsnEnv)
	}

	ctx := context.Background()
	db, err := Open(ctx, dsn, PoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	n := 0
	storetest.Run(t, func(t *testing.T) store.Collection[talent.Profile] {
		n++
		table := fmt.Sprintf("profiles_test_%d_%d", time.Now().UnixNano(), n)
		t.Cleanup(func() { db.Exec("DROP TABLE IF EXISTS " + table) })

		c, err := NewCollection[talent.Profile](ctx, db, table)
		require.NoError(t, err)
		return c
	})
}

func TestNewCollectionRejectsTableName(t *testing.T) {
	_, err := NewCollection[talent.Profile](context.Background(), nil, "profiles; DROP TABLE x")
	assert.Error(t, err)
}

func TestOpenRejectsMalformedDSN(t *testing.T) {
	_, err := Open(context.Background(), "not a dsn", PoolConfig{})
	assert.Error(t, err)
}
