package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestCategoryCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "categories@example.com")

	created, err := repo.CreateCategory(ctx, core.Category{
		UserID:   user.ID,
		Name:     "Groceries",
		Type:     core.TypeExpense,
		Group:    "Needs (50%)",
		Budgeted: 2_000_000,
		Order:    1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	budget := core.Money(2_500_000)
	updated, err := repo.UpdateCategory(ctx, user.ID, created.ID, CategoryPatch{Budgeted: &budget})
	require.NoError(t, err)
	assert.Equal(t, budget, updated.Budgeted)
	assert.Equal(t, "Groceries", updated.Name)

	require.NoError(t, repo.DeleteCategory(ctx, user.ID, created.ID))
	assert.ErrorIs(t, repo.DeleteCategory(ctx, user.ID, created.ID), core.ErrNotFound)
}

func TestCategoryListOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "catorder@example.com")

	for i, name := range []string{"Rent", "Food", "Fun"} {
		_, err := repo.CreateCategory(ctx, core.Category{
			UserID: user.ID, Name: name, Type: core.TypeExpense, Order: 2 - i,
		})
		require.NoError(t, err)
	}

	cats, err := repo.ListCategories(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Fun", cats[0].Name)
	assert.Equal(t, "Food", cats[1].Name)
	assert.Equal(t, "Rent", cats[2].Name)
}

func TestReplaceCategoriesIsExact(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "onboarding@example.com")

	for _, name := range []string{"Old A", "Old B", "Old C"} {
		_, err := repo.CreateCategory(ctx, core.Category{UserID: user.ID, Name: name, Type: core.TypeExpense})
		require.NoError(t, err)
	}

	replaced, err := repo.ReplaceCategories(ctx, user.ID, []core.Category{
		{Name: "Cat A", Type: core.TypeExpense, Budgeted: 100},
		{Name: "Cat B", Type: core.TypeIncome},
	})
	require.NoError(t, err)
	require.Len(t, replaced, 2)

	// The stored set is exactly the replacement, never a superset with
	// pre-replace leftovers.
	cats, err := repo.ListCategories(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	names := []string{cats[0].Name, cats[1].Name}
	assert.ElementsMatch(t, []string{"Cat A", "Cat B"}, names)
}

func TestReplaceCategoriesAllOrNothing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "atomicreplace@example.com")

	_, err := repo.CreateCategory(ctx, core.Category{UserID: user.ID, Name: "Keep me", Type: core.TypeExpense})
	require.NoError(t, err)

	// Second entry is invalid, so the whole replace must be rejected
	// before anything is touched.
	_, err = repo.ReplaceCategories(ctx, user.ID, []core.Category{
		{Name: "Fine", Type: core.TypeExpense},
		{Name: "", Type: core.TypeExpense},
	})
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))

	cats, err := repo.ListCategories(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Keep me", cats[0].Name)
}

func TestReplaceCategoriesWithDefaultTemplate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "template@example.com")

	stored, err := repo.ReplaceCategories(ctx, user.ID, core.DefaultCategorySet())
	require.NoError(t, err)
	assert.Equal(t, len(core.DefaultCategorySet()), len(stored))

	cats, err := repo.ListCategories(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, len(stored), len(cats))
}
