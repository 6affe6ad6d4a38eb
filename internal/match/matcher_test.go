package match

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func candidate(date time.Time, amount string, desc string) model.ImportCandidate {
	return model.ImportCandidate{
		Date:        date,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Currency:    "SAR",
		Direction:   model.DirectionOut,
	}
}

func ledgerTxn(id string, date time.Time, amount string, merchant string) model.LedgerTransaction {
	return model.LedgerTransaction{
		ID:       id,
		Scope:    "user-1",
		Date:     date,
		Amount:   decimal.RequireFromString(amount),
		Currency: "SAR",
		Merchant: merchant,
	}
}

func TestFindMatchesExactDuplicate(t *testing.T) {
	m := New(DefaultConfig())

	cand := candidate(day(2026, time.January, 9), "244.20", "TIKTOK ADS")
	window := []model.LedgerTransaction{
		ledgerTxn("txn-1", day(2026, time.January, 9), "244.20", "Tiktok Ads LLC"),
	}

	results := m.FindMatches(cand, window)
	require.Len(t, results, 1)

	top := results[0]
	assert.Equal(t, "txn-1", top.Transaction.ID)
	assert.Equal(t, 100, top.Score)
	assert.Contains(t, top.Reasons, "Same date")
	assert.Contains(t, top.Reasons, "Exact amount")
	assert.Contains(t, top.Reasons, "Very similar merchant")
}

func TestFindMatchesDateAmountFloor(t *testing.T) {
	// Identical date and amount alone guarantee 80 points regardless of
	// how unrelated the descriptions are.
	m := New(DefaultConfig())

	cand := candidate(day(2026, time.March, 3), "50", "completely unrelated words")
	window := []model.LedgerTransaction{
		ledgerTxn("txn-1", day(2026, time.March, 3), "50", "city water utility"),
	}

	results := m.FindMatches(cand, window)
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].Score, 80)
}

func TestFindMatchesThreshold(t *testing.T) {
	// 2 days apart (20) + amount off by 0.80 (25) + no merchant signal = 45,
	// below the default minimum of 60.
	m := New(DefaultConfig())

	cand := candidate(day(2026, time.March, 3), "50.00", "grocery run")
	window := []model.LedgerTransaction{
		ledgerTxn("txn-1", day(2026, time.March, 5), "50.80", "city water utility"),
	}

	assert.Empty(t, m.FindMatches(cand, window))
}

func TestFindMatchesSortedDescendingStable(t *testing.T) {
	m := New(DefaultConfig())

	cand := candidate(day(2026, time.June, 10), "100", "al baik restaurant")
	window := []model.LedgerTransaction{
		ledgerTxn("weak", day(2026, time.June, 11), "100", "totally different shop"),
		ledgerTxn("tie-a", day(2026, time.June, 10), "100", "unrelated one"),
		ledgerTxn("tie-b", day(2026, time.June, 10), "100", "unrelated two"),
		ledgerTxn("strong", day(2026, time.June, 10), "100", "Al Baik Restaurant"),
	}

	results := m.FindMatches(cand, window)
	require.Len(t, results, 4)

	assert.Equal(t, "strong", results[0].Transaction.ID)
	// Equal scores keep window order.
	assert.Equal(t, "tie-a", results[1].Transaction.ID)
	assert.Equal(t, "tie-b", results[2].Transaction.ID)
	assert.Equal(t, "weak", results[3].Transaction.ID)
}

func TestFindMatchesContainmentBonus(t *testing.T) {
	m := New(Config{DateToleranceDays: 2, AmountTolerance: decimal.NewFromInt(1), MinMatchScore: 1})

	cand := candidate(day(2026, time.June, 10), "80", "careem")
	window := []model.LedgerTransaction{
		ledgerTxn("txn-1", day(2026, time.June, 10), "80", "careem ride hala trip jeddah"),
	}

	results := m.FindMatches(cand, window)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Reasons, "Merchant name contained")
	assert.NotContains(t, results[0].Reasons, "Very similar merchant")
}

func TestFindMatchesOutOfToleranceDegradesGracefully(t *testing.T) {
	// The window contract says callers pre-filter, but a raw slice must
	// still score without panicking.
	m := New(DefaultConfig())

	cand := candidate(day(2026, time.June, 10), "80", "careem")
	window := []model.LedgerTransaction{
		ledgerTxn("txn-1", day(2026, time.June, 25), "9999.99", "careem"),
	}

	results := m.FindMatches(cand, window)
	// 20 (days) + 15 (amount band) + 30 (identical merchant) = 65.
	require.Len(t, results, 1)
	assert.Equal(t, 65, results[0].Score)
}

func TestFindMatchesEmptyWindow(t *testing.T) {
	m := New(DefaultConfig())
	cand := candidate(day(2026, time.June, 10), "80", "careem")

	assert.Empty(t, m.FindMatches(cand, nil))
	assert.Nil(t, Best(nil))
}

func TestBest(t *testing.T) {
	results := []model.MatchResult{
		{Score: 90, Transaction: model.LedgerTransaction{ID: "top"}},
		{Score: 70, Transaction: model.LedgerTransaction{ID: "second"}},
	}

	best := Best(results)
	require.NotNil(t, best)
	assert.Equal(t, "top", best.Transaction.ID)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2, cfg.DateToleranceDays)
	assert.True(t, cfg.AmountTolerance.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 60, cfg.MinMatchScore)
}
