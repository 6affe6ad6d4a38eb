package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

func TestSaveAndGetStagingRecord(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rec := testStagingRecord("stg-1", model.StagingPending, "txn-9")
	require.NoError(t, store.SaveStagingRecord(ctx, rec))

	got, err := store.GetStagingRecord(ctx, "stg-1")
	require.NoError(t, err)
	assert.Equal(t, model.StagingPending, got.Status)
	assert.Equal(t, "txn-9", got.PotentialMatchID)
	assert.True(t, got.HasMatch())
	assert.Equal(t, "statement-jan.csv", got.ImportBatch)
	assert.True(t, got.Candidate.Amount.Equal(decimal.RequireFromString("87.50")))
	assert.Equal(t, model.DirectionOut, got.Candidate.Direction)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetStagingRecordNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetStagingRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListStagingRecordsByStatus(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveStagingRecord(ctx, testStagingRecord("stg-1", model.StagingPending, "")))
	require.NoError(t, store.SaveStagingRecord(ctx, testStagingRecord("stg-2", model.StagingPending, "txn-1")))
	require.NoError(t, store.SaveStagingRecord(ctx, testStagingRecord("stg-3", model.StagingRejected, "")))

	pending, err := store.ListStagingRecords(ctx, "user-1", model.StagingPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "stg-1", pending[0].ID)
	assert.Equal(t, "stg-2", pending[1].ID)

	all, err := store.ListStagingRecords(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := store.ListStagingRecords(ctx, "user-2", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateStagingStatus(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveStagingRecord(ctx, testStagingRecord("stg-1", model.StagingPending, "")))
	require.NoError(t, store.UpdateStagingStatus(ctx, "stg-1", model.StagingApproved))

	got, err := store.GetStagingRecord(ctx, "stg-1")
	require.NoError(t, err)
	assert.Equal(t, model.StagingApproved, got.Status)

	assert.ErrorIs(t, store.UpdateStagingStatus(ctx, "missing", model.StagingApproved), ErrNotFound)
	assert.ErrorIs(t, store.UpdateStagingStatus(ctx, "stg-1", "merged"), ErrInvalidStatus)
}

func TestDeleteStagingRecord(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveStagingRecord(ctx, testStagingRecord("stg-1", model.StagingPending, "")))
	require.NoError(t, store.DeleteStagingRecord(ctx, "stg-1"))

	_, err := store.GetStagingRecord(ctx, "stg-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteStagingRecord(ctx, "stg-1"), ErrNotFound)
}

func TestSaveStagingRecordValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rec := testStagingRecord("stg-1", model.StagingPending, "")
	rec.Candidate.Amount = decimal.Zero
	assert.ErrorIs(t, store.SaveStagingRecord(ctx, rec), ErrInvalidStaging)

	rec = testStagingRecord("stg-2", "limbo", "")
	assert.ErrorIs(t, store.SaveStagingRecord(ctx, rec), ErrInvalidStatus)
}
