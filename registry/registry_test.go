package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openrsvp/rsvp-registry/interfaces"
	"github.com/openrsvp/rsvp-registry/ledger"
	"github.com/openrsvp/rsvp-registry/storage"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	carol = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T) (*RSVPRegistry, *storage.MemoryStore, *ledger.MemoryLedger) {
	t.Helper()
	store := storage.NewMemoryStore()
	bank := ledger.NewMemoryLedger()
	return New(store, bank, testLogger()), store, bank
}

func callFrom(caller interfaces.Identity) interfaces.CallContext {
	return interfaces.CallContext{Caller: caller}
}

func payingCall(caller interfaces.Identity, amount int64) interfaces.CallContext {
	return interfaces.CallContext{
		Caller: caller,
		Payment: interfaces.Payment{
			Amount: big.NewInt(amount),
			Asset:  interfaces.NativeAsset,
		},
	}
}

func mustCreate(t *testing.T, reg *RSVPRegistry, owner interfaces.Identity, maxCapacity uint64, deposit int64, name string) *interfaces.Event {
	t.Helper()
	ev, err := reg.CreateEvent(context.Background(), callFrom(owner), maxCapacity, big.NewInt(deposit), interfaces.EventName(name))
	require.NoError(t, err)
	return ev
}

func TestCreateEventReturnsFullRecord(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	ev, err := reg.CreateEvent(context.Background(), callFrom(alice), 50, big.NewInt(10), "Meetup")
	require.NoError(t, err)

	assert.Equal(t, uint64(0), ev.ID)
	assert.Equal(t, uint64(50), ev.MaxCapacity)
	assert.Equal(t, int64(10), ev.Deposit.Int64())
	assert.Equal(t, alice, ev.Owner)
	assert.Equal(t, interfaces.EventName("Meetup"), ev.Name)
	assert.Equal(t, uint64(0), ev.RegistrationCount)
}

func TestCreateEventAssignsSequentialIDs(t *testing.T) {
	reg, store, _ := newTestRegistry(t)

	for i := 0; i < 5; i++ {
		ev := mustCreate(t, reg, alice, 10, 1, "Event")
		assert.Equal(t, uint64(i), ev.ID)
	}

	next, err := store.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), next)
}

func TestCreateEventTwoSequentialCreates(t *testing.T) {
	reg, store, _ := newTestRegistry(t)

	first := mustCreate(t, reg, alice, 10, 1, "First")
	second := mustCreate(t, reg, bob, 20, 2, "Second")

	assert.Equal(t, uint64(0), first.ID)
	assert.Equal(t, uint64(1), second.ID)

	next, err := store.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next)
}

func TestCreateEventRejectsOversizedName(t *testing.T) {
	reg, store, _ := newTestRegistry(t)

	longName := interfaces.EventName("this event name is far too long to fit the field")
	_, err := reg.CreateEvent(context.Background(), callFrom(alice), 10, big.NewInt(1), longName)
	require.ErrorIs(t, err, interfaces.ErrNameTooLong)

	// a rejected create must not burn an id
	next, err := store.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next)
}

func TestCreateEventNilDepositMeansFree(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	ev, err := reg.CreateEvent(context.Background(), callFrom(alice), 10, nil, "Free event")
	require.NoError(t, err)
	assert.Equal(t, int64(0), ev.Deposit.Int64())

	// registering with a zero payment in the base asset succeeds
	updated, err := reg.Register(context.Background(), payingCall(bob, 0), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), updated.RegistrationCount)
}

func TestRegisterSuccess(t *testing.T) {
	reg, _, bank := newTestRegistry(t)
	bank.Credit(bob, interfaces.NativeAsset, big.NewInt(10))

	ev := mustCreate(t, reg, alice, 50, 10, "Meetup")

	updated, err := reg.Register(context.Background(), payingCall(bob, 10), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), updated.ID)
	assert.Equal(t, uint64(1), updated.RegistrationCount)

	ownerBalance, err := bank.BalanceOf(context.Background(), alice, interfaces.NativeAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(10), ownerBalance.Int64())
}

func TestRegisterForwardsFullAttachedAmount(t *testing.T) {
	reg, _, bank := newTestRegistry(t)
	bank.Credit(bob, interfaces.NativeAsset, big.NewInt(100))

	ev := mustCreate(t, reg, alice, 50, 10, "Meetup")

	// the whole overpayment goes to the owner, not just the deposit
	_, err := reg.Register(context.Background(), payingCall(bob, 25), ev.ID)
	require.NoError(t, err)

	ownerBalance, err := bank.BalanceOf(context.Background(), alice, interfaces.NativeAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(25), ownerBalance.Int64())

	bobBalance, err := bank.BalanceOf(context.Background(), bob, interfaces.NativeAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(75), bobBalance.Int64())
}

func TestRegisterInsufficientPayment(t *testing.T) {
	reg, _, bank := newTestRegistry(t)
	bank.Credit(bob, interfaces.NativeAsset, big.NewInt(100))

	ev := mustCreate(t, reg, alice, 50, 10, "Meetup")

	_, err := reg.Register(context.Background(), payingCall(bob, 10), ev.ID)
	require.NoError(t, err)

	_, err = reg.Register(context.Background(), payingCall(carol, 5), ev.ID)
	require.ErrorIs(t, err, interfaces.ErrInsufficientPayment)

	// count stays at 1 and no funds moved
	current, err := reg.RegistrationCount(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), current.RegistrationCount)

	ownerBalance, err := bank.BalanceOf(context.Background(), alice, interfaces.NativeAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(10), ownerBalance.Int64())
}

func TestRegisterWrongAsset(t *testing.T) {
	reg, _, bank := newTestRegistry(t)
	bank.Credit(bob, "DOGE", big.NewInt(100))

	ev := mustCreate(t, reg, alice, 50, 10, "Meetup")

	call := interfaces.CallContext{
		Caller: bob,
		Payment: interfaces.Payment{
			Amount: big.NewInt(50),
			Asset:  "DOGE",
		},
	}
	_, err := reg.Register(context.Background(), call, ev.ID)
	require.ErrorIs(t, err, interfaces.ErrWrongAsset)

	current, err := reg.RegistrationCount(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), current.RegistrationCount)
}

func TestRegisterUnknownEvent(t *testing.T) {
	reg, _, bank := newTestRegistry(t)
	bank.Credit(bob, interfaces.NativeAsset, big.NewInt(100))

	mustCreate(t, reg, alice, 50, 10, "Meetup")

	_, err := reg.Register(context.Background(), payingCall(bob, 10), 99)
	require.ErrorIs(t, err, interfaces.ErrInvalidEventID)
}

func TestRegisterTransferFailureLeavesStateUnchanged(t *testing.T) {
	store := storage.NewMemoryStore()
	mockLedger := new(ledger.MockLedger)
	reg := New(store, mockLedger, testLogger())

	ev := mustCreate(t, reg, alice, 50, 10, "Meetup")

	mockLedger.On("Transfer", mock.Anything, bob, alice, mock.Anything, interfaces.NativeAsset).
		Return(errors.New("recipient rejected"))

	_, err := reg.Register(context.Background(), payingCall(bob, 10), ev.ID)
	require.ErrorIs(t, err, interfaces.ErrTransferFailed)

	stored, err := store.Get(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stored.RegistrationCount)

	mockLedger.AssertExpectations(t)
}

func TestRegisterCountMonotonic(t *testing.T) {
	reg, _, bank := newTestRegistry(t)
	bank.Credit(bob, interfaces.NativeAsset, big.NewInt(1000))

	ev := mustCreate(t, reg, alice, 3, 10, "Meetup")

	// max_capacity is informational: the count may exceed it
	for i := 1; i <= 5; i++ {
		updated, err := reg.Register(context.Background(), payingCall(bob, 10), ev.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), updated.RegistrationCount)
	}
}

func TestRegistrationCountIdempotentRead(t *testing.T) {
	reg, _, bank := newTestRegistry(t)
	bank.Credit(bob, interfaces.NativeAsset, big.NewInt(10))

	ev := mustCreate(t, reg, alice, 50, 10, "Meetup")
	_, err := reg.Register(context.Background(), payingCall(bob, 10), ev.ID)
	require.NoError(t, err)

	first, err := reg.RegistrationCount(context.Background(), ev.ID)
	require.NoError(t, err)
	second, err := reg.RegistrationCount(context.Background(), ev.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRegistrationCountUnknownEvent(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	_, err := reg.RegistrationCount(context.Background(), 0)
	require.ErrorIs(t, err, interfaces.ErrInvalidEventID)
}

func TestConcurrentRegistrationsAreNotLost(t *testing.T) {
	reg, _, bank := newTestRegistry(t)

	const registrants = 32
	ev := mustCreate(t, reg, alice, 100, 1, "Popular event")

	var wg sync.WaitGroup
	for i := 0; i < registrants; i++ {
		registrant := common.BigToAddress(big.NewInt(int64(i + 1)))
		bank.Credit(registrant, interfaces.NativeAsset, big.NewInt(1))

		wg.Add(1)
		go func(who interfaces.Identity) {
			defer wg.Done()
			_, err := reg.Register(context.Background(), payingCall(who, 1), ev.ID)
			assert.NoError(t, err)
		}(registrant)
	}
	wg.Wait()

	final, err := reg.RegistrationCount(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(registrants), final.RegistrationCount)

	ownerBalance, err := bank.BalanceOf(context.Background(), alice, interfaces.NativeAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(registrants), ownerBalance.Int64())
}
