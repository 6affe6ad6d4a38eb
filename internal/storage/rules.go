package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

// GetCategoryRule retrieves a rule by scope and normalized keyword.
func (s *SQLiteStorage) GetCategoryRule(ctx context.Context, scope, keyword string) (*model.CategoryRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(scope, "scope"); err != nil {
		return nil, err
	}
	if err := validateString(keyword, "keyword"); err != nil {
		return nil, err
	}

	var rule model.CategoryRule
	err := s.db.QueryRowContext(ctx, `
		SELECT scope, keyword, category, use_count, updated_at
		FROM category_rules
		WHERE scope = ? AND keyword = ?
	`, scope, keyword).Scan(
		&rule.Scope,
		&rule.Keyword,
		&rule.Category,
		&rule.UseCount,
		&rule.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category rule %s/%s: %w", scope, keyword, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category rule: %w", err)
	}

	return &rule, nil
}

// SaveCategoryRule inserts or updates a rule. On conflict the category is
// replaced and the use counter incremented, recording how often a reviewer
// reinforced the same correction.
func (s *SQLiteStorage) SaveCategoryRule(ctx context.Context, rule *model.CategoryRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_rules (scope, keyword, category, use_count, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(scope, keyword) DO UPDATE SET
			category = excluded.category,
			use_count = use_count + 1,
			updated_at = excluded.updated_at
	`, rule.Scope, rule.Keyword, rule.Category, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save category rule %s/%s: %w", rule.Scope, rule.Keyword, err)
	}

	return nil
}

// ListCategoryRules returns all rules for a scope, most used first.
func (s *SQLiteStorage) ListCategoryRules(ctx context.Context, scope string) ([]model.CategoryRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(scope, "scope"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT scope, keyword, category, use_count, updated_at
		FROM category_rules
		WHERE scope = ?
		ORDER BY use_count DESC, keyword
	`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list category rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.CategoryRule
	for rows.Next() {
		var rule model.CategoryRule
		if scanErr := rows.Scan(&rule.Scope, &rule.Keyword, &rule.Category, &rule.UseCount, &rule.UpdatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan category rule: %w", scanErr)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rules: %w", err)
	}

	return rules, nil
}
