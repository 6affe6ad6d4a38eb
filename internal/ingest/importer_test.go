package ingest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsznzas/Rqeeb-sub000/internal/match"
	"github.com/hsznzas/Rqeeb-sub000/internal/model"
	"github.com/hsznzas/Rqeeb-sub000/internal/staging"
	"github.com/hsznzas/Rqeeb-sub000/internal/storage"
)

func newTestImporter(t *testing.T) (*Importer, *storage.SQLiteStorage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	stager := staging.NewManager(store, store, store)
	return NewImporter(store, stager, match.New(match.DefaultConfig())), store
}

func TestImportBatchStagesRowsAndFlagsDuplicates(t *testing.T) {
	importer, store := newTestImporter(t)
	ctx := context.Background()

	// Existing ledger entry that row one duplicates.
	require.NoError(t, store.InsertTransaction(ctx, &model.LedgerTransaction{
		ID:        "txn-1",
		Scope:     "user-1",
		Amount:    decimal.RequireFromString("244.20"),
		Currency:  "SAR",
		Direction: model.DirectionOut,
		Merchant:  "Tiktok Ads LLC",
		Date:      time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC),
	}))

	input := strings.Join([]string{
		"Date,Description,Amount",
		"2026-01-09,TIKTOK ADS,244.20",
		"2026-01-20,CAREEM RIDE,31.00",
	}, "\n")

	batch, err := ReadCSV(strings.NewReader(input), "jan.csv", RowOptions{})
	require.NoError(t, err)

	report, err := importer.ImportBatch(ctx, "user-1", batch)
	require.NoError(t, err)

	assert.Equal(t, 2, report.StagedCount)
	assert.Equal(t, 1, report.MatchedCount)
	assert.Empty(t, report.RowErrors)

	pending, err := store.ListStagingRecords(ctx, "user-1", model.StagingPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	assert.Equal(t, "txn-1", pending[0].PotentialMatchID, "duplicate row carries its match")
	assert.Empty(t, pending[1].PotentialMatchID, "clean row has none")
	assert.Equal(t, "jan.csv", pending[0].ImportBatch)
}

func TestImportBatchCarriesParseErrors(t *testing.T) {
	importer, store := newTestImporter(t)
	ctx := context.Background()

	input := strings.Join([]string{
		"Date,Description,Amount",
		"2026-01-09,SHOP ONE,10.00",
		"2026-01-10,SHOP TWO,N/A",
		"2026-01-11,SHOP THREE,30.00",
	}, "\n")

	batch, err := ReadCSV(strings.NewReader(input), "jan.csv", RowOptions{})
	require.NoError(t, err)

	report, err := importer.ImportBatch(ctx, "user-1", batch)
	require.NoError(t, err)

	assert.Equal(t, 2, report.StagedCount)
	require.Len(t, report.RowErrors, 1)
	assert.Equal(t, 2, report.RowErrors[0].Row)

	pending, err := store.ListStagingRecords(ctx, "user-1", model.StagingPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestImportBatchProgressCallback(t *testing.T) {
	importer, _ := newTestImporter(t)

	input := "Date,Description,Amount\n2026-01-09,SHOP,10.00\n2026-01-10,SHOP,11.00\n"
	batch, err := ReadCSV(strings.NewReader(input), "jan.csv", RowOptions{})
	require.NoError(t, err)

	var calls []int
	importer.OnRow = func(current, total int) {
		assert.Equal(t, 2, total)
		calls = append(calls, current)
	}

	_, err = importer.ImportBatch(context.Background(), "user-1", batch)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, calls)
}

func TestWindowFor(t *testing.T) {
	cand := model.ImportCandidate{
		Date:      time.Date(2026, time.January, 9, 15, 30, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("100.00"),
		Direction: model.DirectionOut,
	}

	w := WindowFor("user-1", cand, match.DefaultConfig())

	assert.Equal(t, "user-1", w.Scope)
	assert.True(t, w.DateFrom.Equal(time.Date(2026, time.January, 7, 0, 0, 0, 0, time.UTC)))
	// The window covers the whole final day.
	assert.True(t, w.DateTo.After(time.Date(2026, time.January, 11, 23, 59, 59, 0, time.UTC)))
	assert.True(t, w.DateTo.Before(time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.AmountMin.Equal(decimal.RequireFromString("99.00")))
	assert.True(t, w.AmountMax.Equal(decimal.RequireFromString("101.00")))
}
