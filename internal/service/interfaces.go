// Package service defines the contracts between the reconciliation engine
// and its persistence layer. The engine issues narrow, pre-filtered window
// queries and per-record writes; it never scans the full ledger and never
// assumes a transaction spans more than one staging record.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

// Window bounds a ledger query by scope, date range, and amount range.
// Callers derive it from the candidate and the matcher tolerances.
type Window struct {
	DateFrom  time.Time
	DateTo    time.Time
	Scope     string
	AmountMin decimal.Decimal
	AmountMax decimal.Decimal
}

// TransactionUpdate names the ledger fields a merge may change. Nil fields
// are left untouched.
type TransactionUpdate struct {
	Merchant *string
	Category *string
}

// LedgerStore is the engine's read/write view of the permanent ledger.
type LedgerStore interface {
	QueryWindow(ctx context.Context, w Window) ([]model.LedgerTransaction, error)
	InsertTransaction(ctx context.Context, txn *model.LedgerTransaction) error
	UpdateTransaction(ctx context.Context, id string, update TransactionUpdate) error
	DeleteTransaction(ctx context.Context, id string) error
	GetTransaction(ctx context.Context, id string) (*model.LedgerTransaction, error)
}

// StagingStore persists staging records through their review lifecycle.
type StagingStore interface {
	SaveStagingRecord(ctx context.Context, rec *model.StagingRecord) error
	GetStagingRecord(ctx context.Context, id string) (*model.StagingRecord, error)
	ListStagingRecords(ctx context.Context, scope string, status model.StagingStatus) ([]model.StagingRecord, error)
	UpdateStagingStatus(ctx context.Context, id string, status model.StagingStatus) error
	DeleteStagingRecord(ctx context.Context, id string) error
}

// RuleStore persists category-correction feedback.
type RuleStore interface {
	GetCategoryRule(ctx context.Context, scope, keyword string) (*model.CategoryRule, error)
	SaveCategoryRule(ctx context.Context, rule *model.CategoryRule) error
	ListCategoryRules(ctx context.Context, scope string) ([]model.CategoryRule, error)
}

// Storage is the full persistence contract implemented by the SQLite layer.
type Storage interface {
	LedgerStore
	StagingStore
	RuleStore

	Migrate(ctx context.Context) error
	Close() error
}
