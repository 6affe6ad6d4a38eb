package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

// SaveStagingRecord persists a new staging record. Zero timestamps are set
// to now.
func (s *SQLiteStorage) SaveStagingRecord(ctx context.Context, rec *model.StagingRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateStagingRecord(rec); err != nil {
		return err
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staging_records (
			id, scope, raw_text,
			cand_date, cand_description, cand_amount, cand_currency, cand_category, cand_direction,
			status, potential_match_id, import_batch, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Scope,
		rec.RawText,
		rec.Candidate.Date,
		rec.Candidate.Description,
		rec.Candidate.Amount.String(),
		rec.Candidate.Currency,
		rec.Candidate.Category,
		string(rec.Candidate.Direction),
		string(rec.Status),
		rec.PotentialMatchID,
		rec.ImportBatch,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save staging record %s: %w", rec.ID, err)
	}

	return nil
}

// GetStagingRecord retrieves a staging record by id.
func (s *SQLiteStorage) GetStagingRecord(ctx context.Context, id string) (*model.StagingRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, stagingSelect+` WHERE id = ?`, id)

	rec, err := scanStagingRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("staging record %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListStagingRecords returns a scope's staging records, optionally filtered
// by status (empty status means all), oldest first.
func (s *SQLiteStorage) ListStagingRecords(ctx context.Context, scope string, status model.StagingStatus) ([]model.StagingRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(scope, "scope"); err != nil {
		return nil, err
	}

	query := stagingSelect + ` WHERE scope = ?`
	args := []any{scope}
	if status != "" {
		if err := validateStatus(status); err != nil {
			return nil, err
		}
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staging records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.StagingRecord
	for rows.Next() {
		rec, scanErr := scanStagingRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staging records: %w", err)
	}

	return records, nil
}

// UpdateStagingStatus moves a staging record to a new status and refreshes
// its updated_at timestamp.
func (s *SQLiteStorage) UpdateStagingStatus(ctx context.Context, id string, status model.StagingStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateStatus(status); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE staging_records SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update staging record %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("staging record %s: %w", id, ErrNotFound)
	}

	return nil
}

// DeleteStagingRecord removes a staging record, the terminal step of a
// merge.
func (s *SQLiteStorage) DeleteStagingRecord(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM staging_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staging record %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("staging record %s: %w", id, ErrNotFound)
	}

	return nil
}

const stagingSelect = `
	SELECT id, scope, raw_text,
	       cand_date, cand_description, cand_amount, cand_currency, cand_category, cand_direction,
	       status, potential_match_id, import_batch, created_at, updated_at
	FROM staging_records`

func scanStagingRecord(row rowScanner) (model.StagingRecord, error) {
	var (
		rec         model.StagingRecord
		amount      string
		description sql.NullString
		category    sql.NullString
		matchID     sql.NullString
		batch       sql.NullString
	)

	err := row.Scan(
		&rec.ID,
		&rec.Scope,
		&rec.RawText,
		&rec.Candidate.Date,
		&description,
		&amount,
		&rec.Candidate.Currency,
		&category,
		(*string)(&rec.Candidate.Direction),
		(*string)(&rec.Status),
		&matchID,
		&batch,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return model.StagingRecord{}, err
	}

	rec.Candidate.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.StagingRecord{}, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
	}
	rec.Candidate.Description = description.String
	rec.Candidate.Category = category.String
	rec.PotentialMatchID = matchID.String
	rec.ImportBatch = batch.String

	return rec, nil
}
