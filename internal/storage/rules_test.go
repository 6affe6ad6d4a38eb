package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

func TestSaveCategoryRuleUpsert(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rule := &model.CategoryRule{Scope: "user-1", Keyword: "tiktok ads", Category: "Marketing"}
	require.NoError(t, store.SaveCategoryRule(ctx, rule))

	got, err := store.GetCategoryRule(ctx, "user-1", "tiktok ads")
	require.NoError(t, err)
	assert.Equal(t, "Marketing", got.Category)
	assert.Equal(t, 1, got.UseCount)

	// Re-saving the same keyword replaces the category and bumps the counter.
	rule.Category = "Advertising"
	require.NoError(t, store.SaveCategoryRule(ctx, rule))

	got, err = store.GetCategoryRule(ctx, "user-1", "tiktok ads")
	require.NoError(t, err)
	assert.Equal(t, "Advertising", got.Category)
	assert.Equal(t, 2, got.UseCount)
}

func TestGetCategoryRuleNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetCategoryRule(context.Background(), "user-1", "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCategoryRules(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCategoryRule(ctx, &model.CategoryRule{Scope: "user-1", Keyword: "careem", Category: "Transport"}))
	require.NoError(t, store.SaveCategoryRule(ctx, &model.CategoryRule{Scope: "user-1", Keyword: "panda", Category: "Groceries"}))
	require.NoError(t, store.SaveCategoryRule(ctx, &model.CategoryRule{Scope: "user-1", Keyword: "panda", Category: "Groceries"}))

	rules, err := store.ListCategoryRules(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, rules, 2)

	// Most reinforced first.
	assert.Equal(t, "panda", rules[0].Keyword)
	assert.Equal(t, 2, rules[0].UseCount)
	assert.Equal(t, "careem", rules[1].Keyword)
}

func TestSaveCategoryRuleValidation(t *testing.T) {
	store := createTestStorage(t)

	err := store.SaveCategoryRule(context.Background(), &model.CategoryRule{Scope: "user-1"})
	assert.ErrorIs(t, err, ErrInvalidRule)
}
