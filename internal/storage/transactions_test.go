package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
	"github.com/hsznzas/Rqeeb-sub000/internal/service"
)

func TestInsertAndGetTransaction(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("txn-1", time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC), "244.20")
	require.NoError(t, store.InsertTransaction(ctx, txn))

	got, err := store.GetTransaction(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.Scope)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("244.20")))
	assert.Equal(t, model.DirectionOut, got.Direction)
	assert.Equal(t, "Panda Hypermarket", got.Merchant)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetTransactionNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetTransaction(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertTransactionValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("txn-1", time.Now(), "10")
	txn.Amount = decimal.Zero
	assert.ErrorIs(t, store.InsertTransaction(ctx, txn), ErrInvalidTxn)

	txn = testTransaction("txn-2", time.Now(), "10")
	txn.Direction = "sideways"
	assert.ErrorIs(t, store.InsertTransaction(ctx, txn), ErrInvalidTxn)
}

func TestQueryWindow(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC)
	inside := testTransaction("inside", base, "100.00")
	nearDate := testTransaction("near-date", base.AddDate(0, 0, 1), "100.50")
	farDate := testTransaction("far-date", base.AddDate(0, 0, 10), "100.00")
	farAmount := testTransaction("far-amount", base, "250.00")
	otherScope := testTransaction("other-scope", base, "100.00")
	otherScope.Scope = "user-2"

	for _, txn := range []*model.LedgerTransaction{inside, nearDate, farDate, farAmount, otherScope} {
		require.NoError(t, store.InsertTransaction(ctx, txn))
	}

	window := service.Window{
		Scope:     "user-1",
		DateFrom:  base.AddDate(0, 0, -2),
		DateTo:    base.AddDate(0, 0, 2),
		AmountMin: decimal.RequireFromString("99.00"),
		AmountMax: decimal.RequireFromString("101.00"),
	}

	got, err := store.QueryWindow(ctx, window)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Insertion order is preserved (created_at, rowid).
	assert.Equal(t, "inside", got[0].ID)
	assert.Equal(t, "near-date", got[1].ID)
}

func TestQueryWindowInvalidRange(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.QueryWindow(context.Background(), service.Window{
		Scope:    "user-1",
		DateFrom: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestUpdateTransaction(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("txn-1", time.Now().UTC(), "50")
	require.NoError(t, store.InsertTransaction(ctx, txn))

	merchant := "Careem"
	category := "Transport"
	require.NoError(t, store.UpdateTransaction(ctx, "txn-1", service.TransactionUpdate{
		Merchant: &merchant,
		Category: &category,
	}))

	got, err := store.GetTransaction(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, "Careem", got.Merchant)
	assert.Equal(t, "Transport", got.Category)

	// No-op update succeeds without touching the row.
	require.NoError(t, store.UpdateTransaction(ctx, "txn-1", service.TransactionUpdate{}))

	err = store.UpdateTransaction(ctx, "missing", service.TransactionUpdate{Merchant: &merchant})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTransaction(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("txn-1", time.Now().UTC(), "50")
	require.NoError(t, store.InsertTransaction(ctx, txn))

	require.NoError(t, store.DeleteTransaction(ctx, "txn-1"))

	_, err := store.GetTransaction(ctx, "txn-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteTransaction(ctx, "txn-1"), ErrNotFound)
}
