package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidWindow  = errors.New("window start must not be after window end")
	ErrInvalidTxn     = errors.New("invalid ledger transaction")
	ErrInvalidStaging = errors.New("invalid staging record")
	ErrInvalidRule    = errors.New("invalid category rule")
	ErrInvalidStatus  = errors.New("invalid staging status")
	ErrNotFound       = errors.New("not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTransaction(txn *model.LedgerTransaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTxn)
	}
	if txn.Scope == "" {
		return fmt.Errorf("%w: missing scope", ErrInvalidTxn)
	}
	if !txn.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidTxn, txn.Amount)
	}
	if txn.Direction != model.DirectionIn && txn.Direction != model.DirectionOut {
		return fmt.Errorf("%w: direction must be in or out, got %q", ErrInvalidTxn, txn.Direction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTxn)
	}
	return nil
}

func validateStagingRecord(rec *model.StagingRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: staging record", ErrNilParameter)
	}
	if rec.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidStaging)
	}
	if rec.Scope == "" {
		return fmt.Errorf("%w: missing scope", ErrInvalidStaging)
	}
	if err := validateStatus(rec.Status); err != nil {
		return err
	}
	if err := rec.Candidate.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStaging, err)
	}
	return nil
}

func validateStatus(status model.StagingStatus) error {
	switch status {
	case model.StagingPending, model.StagingApproved, model.StagingRejected:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

func validateRule(rule *model.CategoryRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if rule.Scope == "" || rule.Keyword == "" || rule.Category == "" {
		return fmt.Errorf("%w: scope, keyword, and category are required", ErrInvalidRule)
	}
	return nil
}
