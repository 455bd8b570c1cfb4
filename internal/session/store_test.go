package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateStartsInWelcome(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	ctx := context.Background()

	s, existed, err := store.GetOrCreate(ctx, "15551234567")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, StateWelcome, s.State)
	assert.Equal(t, "15551234567", s.Phone)
	assert.NotEmpty(t, s.SessionID)
	assert.False(t, s.LastActivity.IsZero())

	again, existed, err := store.GetOrCreate(ctx, "15551234567")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, s.SessionID, again.SessionID)
}

func TestSaveGetDelete(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	ctx := context.Background()

	s := New("15551234567")
	s.State = StateBudget
	require.NoError(t, store.Save(ctx, s.Phone, s))

	got, err := store.Get(ctx, s.Phone)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StateBudget, got.State)

	require.NoError(t, store.Delete(ctx, s.Phone))
	got, err = store.Get(ctx, s.Phone)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "nobody"))
}

func TestAllSnapshotsEverySession(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	ctx := context.Background()

	for _, phone := range []string{"111", "222", "333"} {
		_, _, err := store.GetOrCreate(ctx, phone)
		require.NoError(t, err)
	}

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Contains(t, all, "222")
}

func TestNewStoreRejectsBadConfig(t *testing.T) {
	_, err := NewStore(StoreTypeRedis)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewStore(StoreType("etcd"))
	assert.ErrorIs(t, err, ErrInvalidStoreType)
}

func TestStateValid(t *testing.T) {
	for _, state := range []State{StateWelcome, StateLanguage, StateShoeType,
		StateBudget, StateSize, StateSelectProduct, StatePurchase, StateOrderConfirm} {
		assert.True(t, state.Valid(), "state %s", state)
	}
	assert.False(t, State("LEGACY").Valid())
	assert.False(t, State("").Valid())
}

func TestChosenProduct(t *testing.T) {
	s := New("15551234567")
	assert.Nil(t, s.ChosenProduct())

	s.Candidates = testCandidates()
	s.ChosenID = 2
	require.NotNil(t, s.ChosenProduct())
	assert.Equal(t, "Air Runner Pro", s.ChosenProduct().Name)

	s.ChosenID = 99
	assert.Nil(t, s.ChosenProduct())
}

func TestStoreHandsOutPrivateCopies(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	ctx := context.Background()

	s, _, err := store.GetOrCreate(ctx, "15551234567")
	require.NoError(t, err)

	// Mutations are invisible until Save publishes them
	s.State = StateBudget
	s.CustomerDetails = map[string]string{"name": "Ali"}

	got, err := store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Equal(t, StateWelcome, got.State)
	assert.Empty(t, got.CustomerDetails)

	require.NoError(t, store.Save(ctx, "15551234567", s))

	got, err = store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Equal(t, StateBudget, got.State)

	// Saved state is detached from the caller's copy too
	s.State = StateSize
	s.CustomerDetails["name"] = "Omar"

	got, err = store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Equal(t, StateBudget, got.State)
	assert.Equal(t, "Ali", got.CustomerDetails["name"])

	// All returns detached snapshots as well
	all, err := store.All(ctx)
	require.NoError(t, err)
	all["15551234567"].State = StateOrderConfirm

	got, err = store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Equal(t, StateBudget, got.State)
}
