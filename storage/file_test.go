package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

func TestFileStore(t *testing.T) {
	runEventStoreSuite(t, func(t *testing.T) interfaces.EventStore {
		store, err := NewFileStore(t.TempDir(), testLogger())
		require.NoError(t, err)
		return store
	})
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFileStore(dir, testLogger())
	require.NoError(t, err)

	ev := sampleEvent("Meetup", 10)
	id, err := store.Insert(ctx, ev)
	require.NoError(t, err)
	ev.RegistrationCount = 2
	require.NoError(t, store.Update(ctx, ev))
	require.NoError(t, store.Close())

	reopened, err := NewFileStore(dir, testLogger())
	require.NoError(t, err)
	defer reopened.Close()

	// counter recovered, record intact, ids not reused
	next, err := reopened.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)

	got, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.RegistrationCount)
	assert.Equal(t, ev.Owner, got.Owner)

	second, err := reopened.Insert(ctx, sampleEvent("Another", 5))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), second)
}
