package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
	"github.com/hsznzas/Rqeeb-sub000/internal/service"
)

// QueryWindow returns ledger transactions for a scope whose date and amount
// fall inside the window, ordered by creation time then rowid so that equal
// match scores rank deterministically.
//
// Amounts are stored as exact decimal text; the range filter casts to REAL,
// which is precise enough for windowing — the matcher re-compares amounts
// exactly.
func (s *SQLiteStorage) QueryWindow(ctx context.Context, w service.Window) ([]model.LedgerTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(w.Scope, "scope"); err != nil {
		return nil, err
	}
	if w.DateFrom.After(w.DateTo) {
		return nil, ErrInvalidWindow
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scope, amount, currency, direction, category, merchant, tx_date, created_at
		FROM transactions
		WHERE scope = ?
		  AND tx_date BETWEEN ? AND ?
		  AND CAST(amount AS REAL) BETWEEN ? AND ?
		ORDER BY created_at, rowid
	`, w.Scope, w.DateFrom, w.DateTo, w.AmountMin.InexactFloat64(), w.AmountMax.InexactFloat64())
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger window: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.LedgerTransaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger window: %w", err)
	}

	return transactions, nil
}

// InsertTransaction persists a new ledger transaction. A zero CreatedAt is
// set to now.
func (s *SQLiteStorage) InsertTransaction(ctx context.Context, txn *model.LedgerTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, scope, amount, currency, direction, category, merchant, tx_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		txn.ID,
		txn.Scope,
		txn.Amount.String(),
		txn.Currency,
		string(txn.Direction),
		txn.Category,
		txn.Merchant,
		txn.Date,
		txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}

	return nil
}

// GetTransaction retrieves a single ledger transaction by id.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.LedgerTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, scope, amount, currency, direction, category, merchant, tx_date, created_at
		FROM transactions
		WHERE id = ?
	`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// UpdateTransaction applies the non-nil fields of update to an existing
// ledger transaction.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, id string, update service.TransactionUpdate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if update.Merchant == nil && update.Category == nil {
		return nil
	}

	query := "UPDATE transactions SET "
	args := make([]any, 0, 3)
	if update.Merchant != nil {
		query += "merchant = ?"
		args = append(args, *update.Merchant)
	}
	if update.Category != nil {
		if len(args) > 0 {
			query += ", "
		}
		query += "category = ?"
		args = append(args, *update.Category)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	return nil
}

// DeleteTransaction removes a ledger transaction by id.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.LedgerTransaction, error) {
	var (
		txn      model.LedgerTransaction
		amount   string
		category sql.NullString
		merchant sql.NullString
	)

	err := row.Scan(
		&txn.ID,
		&txn.Scope,
		&amount,
		&txn.Currency,
		(*string)(&txn.Direction),
		&category,
		&merchant,
		&txn.Date,
		&txn.CreatedAt,
	)
	if err != nil {
		return model.LedgerTransaction{}, err
	}

	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.LedgerTransaction{}, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
	}
	txn.Category = category.String
	txn.Merchant = merchant.String

	return txn, nil
}
