package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

// TestPostgresStore needs a running database; set POSTGRES_DSN to run it.
// Each run uses a clean schema, so point it at a throwaway database.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}

	runEventStoreSuite(t, func(t *testing.T) interfaces.EventStore {
		ctx := context.Background()
		store, err := NewPostgresStore(ctx, dsn, testLogger())
		require.NoError(t, err)

		_, err = store.pool.Exec(ctx, `TRUNCATE events; UPDATE registry_state SET value = 0 WHERE key = 'next_id'`)
		require.NoError(t, err)
		return store
	})
}
