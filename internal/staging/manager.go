// Package staging owns the review lifecycle of imported candidates:
// pending records either become new ledger transactions (approve), merge
// into an existing one (merge, which deletes the record), or are discarded
// (reject). No transition leaves a terminal state.
package staging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
	"github.com/hsznzas/Rqeeb-sub000/internal/normalize"
	"github.com/hsznzas/Rqeeb-sub000/internal/service"
)

// Lifecycle errors.
var (
	ErrNotPending    = errors.New("staging record is not pending")
	ErrNoMergeTarget = errors.New("no merge target: record has no recorded match and none was supplied")
)

// Overrides carries reviewer edits applied on top of the original candidate
// fields. Nil fields fall back to the candidate.
type Overrides struct {
	Date        *time.Time
	Description *string
	Category    *string
	Currency    *string
	Direction   *model.Direction
	Amount      *decimal.Decimal
}

// RuleLearning reports the best-effort category-rule write performed during
// an approval. A failure here never fails the approval; callers may inspect
// Err or ignore the whole value.
type RuleLearning struct {
	Err     error
	Keyword string
}

// Attempted reports whether the approval tried to record a rule at all.
func (l RuleLearning) Attempted() bool {
	return l.Keyword != ""
}

// Manager drives staging records through their lifecycle. It is stateless
// between calls and safe for concurrent use as long as the underlying
// stores give per-record atomicity.
type Manager struct {
	ledger  service.LedgerStore
	staging service.StagingStore
	rules   service.RuleStore
}

// NewManager creates a lifecycle manager over the given stores.
func NewManager(ledger service.LedgerStore, staging service.StagingStore, rules service.RuleStore) *Manager {
	return &Manager{
		ledger:  ledger,
		staging: staging,
		rules:   rules,
	}
}

// Stage persists a freshly parsed candidate as a pending staging record,
// attaching the best duplicate match when one was found. The match is
// computed once, here; it reflects the ledger as of import time.
func (m *Manager) Stage(ctx context.Context, scope, rawText string, candidate model.ImportCandidate, best *model.MatchResult, batchLabel string) (*model.StagingRecord, error) {
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("cannot stage invalid candidate: %w", err)
	}

	rec := &model.StagingRecord{
		ID:          uuid.NewString(),
		Scope:       scope,
		RawText:     rawText,
		Candidate:   candidate,
		Status:      model.StagingPending,
		ImportBatch: batchLabel,
	}
	if best != nil {
		rec.PotentialMatchID = best.Transaction.ID
	}

	if err := m.staging.SaveStagingRecord(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// Approve turns a pending record into a new ledger transaction, applying
// reviewer overrides over the candidate fields. The ledger insert happens
// before the status flip, so a persistence failure never leaves an approved
// record without its transaction. If the reviewer corrected the category, a
// CategoryRule keyed by the normalized merchant text is recorded
// best-effort and reported in the RuleLearning result.
func (m *Manager) Approve(ctx context.Context, stagingID string, ov Overrides) (*model.LedgerTransaction, RuleLearning, error) {
	rec, err := m.staging.GetStagingRecord(ctx, stagingID)
	if err != nil {
		return nil, RuleLearning{}, err
	}
	if rec.Status != model.StagingPending {
		return nil, RuleLearning{}, fmt.Errorf("%w: %s is %s", ErrNotPending, stagingID, rec.Status)
	}

	txn := buildTransaction(rec, ov)
	if err := m.ledger.InsertTransaction(ctx, txn); err != nil {
		return nil, RuleLearning{}, fmt.Errorf("failed to insert approved transaction for %s: %w", stagingID, err)
	}

	if err := m.staging.UpdateStagingStatus(ctx, stagingID, model.StagingApproved); err != nil {
		return nil, RuleLearning{}, err
	}

	learning := m.learnRule(ctx, rec, ov, txn)

	return txn, learning, nil
}

// Merge folds a pending record into an existing ledger transaction and
// deletes the staging record. The target defaults to the recorded potential
// match; callers may supply any ledger id instead.
func (m *Manager) Merge(ctx context.Context, stagingID, targetLedgerID string, ov Overrides) error {
	rec, err := m.staging.GetStagingRecord(ctx, stagingID)
	if err != nil {
		return err
	}
	if rec.Status != model.StagingPending {
		return fmt.Errorf("%w: %s is %s", ErrNotPending, stagingID, rec.Status)
	}

	target := targetLedgerID
	if target == "" {
		target = rec.PotentialMatchID
	}
	if target == "" {
		return fmt.Errorf("%w: staging record %s", ErrNoMergeTarget, stagingID)
	}

	if _, err := m.ledger.GetTransaction(ctx, target); err != nil {
		return fmt.Errorf("merge target: %w", err)
	}

	update := service.TransactionUpdate{
		Merchant: ov.Description,
		Category: ov.Category,
	}
	if err := m.ledger.UpdateTransaction(ctx, target, update); err != nil {
		return fmt.Errorf("failed to update merge target %s: %w", target, err)
	}

	return m.staging.DeleteStagingRecord(ctx, stagingID)
}

// Reject marks a pending record rejected. No ledger effect.
func (m *Manager) Reject(ctx context.Context, stagingID string) error {
	rec, err := m.staging.GetStagingRecord(ctx, stagingID)
	if err != nil {
		return err
	}
	if rec.Status != model.StagingPending {
		return fmt.Errorf("%w: %s is %s", ErrNotPending, stagingID, rec.Status)
	}

	return m.staging.UpdateStagingStatus(ctx, stagingID, model.StagingRejected)
}

// BulkDefaults are the batch-wide fields applied when approving records
// that carry no category hint of their own.
type BulkDefaults struct {
	Category string
}

// BulkError ties a per-record failure to its staging id.
type BulkError struct {
	Err       error
	StagingID string
}

// BulkResult reports a bulk approval: how many records were approved and
// which ones failed. Partial completion is the expected outcome, not a
// failure of the batch.
type BulkResult struct {
	Errors        []BulkError
	ApprovedCount int
}

// BulkApproveNonDuplicates approves every given id that is still pending
// and has no recorded duplicate match. Records with a match or already in a
// terminal state are left untouched and not counted. Per-id failures are
// collected; they never abort the batch.
func (m *Manager) BulkApproveNonDuplicates(ctx context.Context, stagingIDs []string, defaults BulkDefaults) *BulkResult {
	result := &BulkResult{}

	for _, id := range stagingIDs {
		rec, err := m.staging.GetStagingRecord(ctx, id)
		if err != nil {
			result.Errors = append(result.Errors, BulkError{StagingID: id, Err: err})
			continue
		}
		if rec.Status != model.StagingPending || rec.HasMatch() {
			continue
		}

		var ov Overrides
		if defaults.Category != "" && rec.Candidate.Category == "" {
			category := defaults.Category
			ov.Category = &category
		}

		if _, _, err := m.Approve(ctx, id, ov); err != nil {
			result.Errors = append(result.Errors, BulkError{StagingID: id, Err: err})
			continue
		}
		result.ApprovedCount++
	}

	return result
}

func buildTransaction(rec *model.StagingRecord, ov Overrides) *model.LedgerTransaction {
	cand := rec.Candidate

	txn := &model.LedgerTransaction{
		ID:        uuid.NewString(),
		Scope:     rec.Scope,
		Date:      cand.Date,
		Merchant:  cand.Description,
		Category:  cand.Category,
		Currency:  cand.Currency,
		Direction: cand.Direction,
		Amount:    cand.Amount,
	}

	if ov.Date != nil {
		txn.Date = *ov.Date
	}
	if ov.Description != nil {
		txn.Merchant = *ov.Description
	}
	if ov.Category != nil {
		txn.Category = *ov.Category
	}
	if ov.Currency != nil {
		txn.Currency = *ov.Currency
	}
	if ov.Direction != nil {
		txn.Direction = *ov.Direction
	}
	if ov.Amount != nil {
		txn.Amount = *ov.Amount
	}

	return txn
}

// learnRule records a category correction for later reuse. Only fires when
// the reviewer actually changed the category and the merchant text
// normalizes to something usable.
func (m *Manager) learnRule(ctx context.Context, rec *model.StagingRecord, ov Overrides, txn *model.LedgerTransaction) RuleLearning {
	if ov.Category == nil || *ov.Category == rec.Candidate.Category {
		return RuleLearning{}
	}

	keyword := normalize.Normalize(txn.Merchant)
	if keyword == "" {
		return RuleLearning{}
	}

	learning := RuleLearning{Keyword: keyword}
	rule := &model.CategoryRule{
		Scope:    rec.Scope,
		Keyword:  keyword,
		Category: *ov.Category,
	}
	if err := m.rules.SaveCategoryRule(ctx, rule); err != nil {
		learning.Err = err
		slog.Warn("Failed to record category rule",
			"scope", rec.Scope,
			"keyword", keyword,
			"error", err)
	}

	return learning
}
