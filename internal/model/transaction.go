// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether money flows into or out of the account.
type Direction string

const (
	// DirectionIn represents incoming funds (salary, refunds, transfers in).
	DirectionIn Direction = "in"
	// DirectionOut represents outgoing funds (purchases, withdrawals, fees).
	DirectionOut Direction = "out"
)

// LedgerTransaction is a confirmed transaction in the permanent ledger.
// Immutable once created except through explicit update or merge operations
// issued by the staging lifecycle.
type LedgerTransaction struct {
	Date      time.Time
	CreatedAt time.Time
	ID        string
	Scope     string // owning user/account scope
	Currency  string
	Category  string
	Merchant  string
	Direction Direction
	Amount    decimal.Decimal
}

// DayEqual reports whether the transaction date falls on the same calendar
// day as t, ignoring time-of-day.
func (l *LedgerTransaction) DayEqual(t time.Time) bool {
	ly, lm, ld := l.Date.Date()
	ty, tm, td := t.Date()
	return ly == ty && lm == tm && ld == td
}
