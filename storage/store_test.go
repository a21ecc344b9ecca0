package storage

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent(name string, deposit int64) *interfaces.Event {
	return &interfaces.Event{
		MaxCapacity: 50,
		Deposit:     big.NewInt(deposit),
		Owner:       common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		Name:        interfaces.EventName(name),
	}
}

// runEventStoreSuite exercises the EventStore contract shared by all
// backends: sequential id assignment, lookups, updates, and the counter.
func runEventStoreSuite(t *testing.T, newStore func(t *testing.T) interfaces.EventStore) {
	ctx := context.Background()

	t.Run("FreshStoreStartsAtZero", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		next, err := store.NextID(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), next)

		_, err = store.Get(ctx, 0)
		require.ErrorIs(t, err, interfaces.ErrEventNotFound)
	})

	t.Run("InsertAssignsSequentialIDs", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		for i := 0; i < 3; i++ {
			ev := sampleEvent("Event", 10)
			id, err := store.Insert(ctx, ev)
			require.NoError(t, err)
			assert.Equal(t, uint64(i), id)
			assert.Equal(t, uint64(i), ev.ID)
		}

		next, err := store.NextID(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), next)
	})

	t.Run("GetRoundTripsRecord", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		ev := sampleEvent("Meetup", 10)
		id, err := store.Insert(ctx, ev)
		require.NoError(t, err)

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, ev.ID, got.ID)
		assert.Equal(t, ev.MaxCapacity, got.MaxCapacity)
		assert.Zero(t, ev.Deposit.Cmp(got.Deposit))
		assert.Equal(t, ev.Owner, got.Owner)
		assert.Equal(t, ev.Name, got.Name)
		assert.Equal(t, uint64(0), got.RegistrationCount)
	})

	t.Run("UpdatePersistsCount", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		ev := sampleEvent("Meetup", 10)
		id, err := store.Insert(ctx, ev)
		require.NoError(t, err)

		ev.RegistrationCount = 4
		require.NoError(t, store.Update(ctx, ev))

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), got.RegistrationCount)
	})

	t.Run("UpdateUnknownIDFails", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		ev := sampleEvent("Meetup", 10)
		ev.ID = 42
		require.ErrorIs(t, store.Update(ctx, ev), interfaces.ErrEventNotFound)
	})

	t.Run("GetReturnsIndependentCopy", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		id, err := store.Insert(ctx, sampleEvent("Meetup", 10))
		require.NoError(t, err)

		first, err := store.Get(ctx, id)
		require.NoError(t, err)
		first.RegistrationCount = 99
		first.Deposit.SetInt64(0)

		second, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), second.RegistrationCount)
		assert.Equal(t, int64(10), second.Deposit.Int64())
	})
}
