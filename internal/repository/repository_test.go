package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetzen/zen/internal/common"
	"github.com/budgetzen/zen/internal/model"
	"github.com/budgetzen/zen/internal/storage"
)

func newRepo(t *testing.T) (*Repository, storage.KVStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	repo, err := New(context.Background(), store)
	require.NoError(t, err)
	return repo, store
}

func expenseCategory(t *testing.T, repo *Repository) model.Category {
	t.Helper()
	for _, c := range repo.Categories() {
		if c.Type == model.TypeExpense {
			return c
		}
	}
	t.Fatal("no expense category seeded")
	return model.Category{}
}

func TestNew_SeedsDefaults(t *testing.T) {
	repo, _ := newRepo(t)

	categories := repo.Categories()
	require.Len(t, categories, 5, "fresh store gets the default categories")

	budgets := repo.Budgets()
	require.Len(t, budgets, 3, "one starter budget per default expense category")
	for _, b := range budgets {
		assert.True(t, b.Limit.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, model.PeriodMonth, b.Period)
	}

	assert.Equal(t, model.DefaultSettings(), repo.Settings())
	assert.Empty(t, repo.Transactions())
}

func TestNew_DoesNotReseedClearedBudgets(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	require.NoError(t, repo.ReplaceAllBudgets(ctx, nil))

	reopened, err := New(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, reopened.Budgets(), "an explicitly emptied collection stays empty across reloads")
}

func TestNew_RecoversFromCorruptBlob(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(ctx, storage.KeyCategories, []byte(`{not json`)))
	require.NoError(t, store.Put(ctx, storage.KeyTransactions, []byte(`garbage`)))

	repo, err := New(ctx, store)
	require.NoError(t, err, "a corrupt blob is recovered from, not fatal")
	assert.Len(t, repo.Categories(), 5, "corrupt categories reseed the defaults")
	assert.Empty(t, repo.Transactions())
}

func TestTransactionCRUD(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	cat := expenseCategory(t, repo)

	tx, err := model.NewTransaction(decimal.NewFromInt(42), "Groceries", time.Now(), model.TypeExpense, cat.ID)
	require.NoError(t, err)
	require.NoError(t, repo.AddTransaction(ctx, tx))

	err = repo.AddTransaction(ctx, tx)
	assert.ErrorIs(t, err, common.ErrDuplicateID)

	tx.Title = "Weekly groceries"
	require.NoError(t, repo.UpdateTransaction(ctx, tx))
	got := repo.Transactions()
	require.Len(t, got, 1)
	assert.Equal(t, "Weekly groceries", got[0].Title)

	missing := tx
	missing.ID = uuid.New()
	assert.ErrorIs(t, repo.UpdateTransaction(ctx, missing), common.ErrNotFound)
	assert.ErrorIs(t, repo.RemoveTransaction(ctx, uuid.New()), common.ErrNotFound)

	require.NoError(t, repo.RemoveTransaction(ctx, tx.ID))
	assert.Empty(t, repo.Transactions())
}

func TestRepository_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)
	cat := expenseCategory(t, repo)

	tx, err := model.NewTransaction(decimal.NewFromFloat(12.34), "Coffee", time.Now(), model.TypeExpense, cat.ID)
	require.NoError(t, err)
	require.NoError(t, repo.AddTransaction(ctx, tx))
	require.NoError(t, repo.UpdateSettings(ctx, model.Settings{Currency: "USD", Theme: "dark", DefaultExportFormat: model.FormatCSV}))

	reopened, err := New(ctx, store)
	require.NoError(t, err)

	got := reopened.Transactions()
	require.Len(t, got, 1)
	assert.Equal(t, tx.ID, got[0].ID)
	assert.True(t, got[0].Amount.Equal(tx.Amount))
	assert.Equal(t, "USD", reopened.Settings().Currency)
	assert.Equal(t, repo.Categories(), reopened.Categories(), "seeded category ids survive the round trip")
}

func TestCategoryNameUniqueness(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	dup, err := model.NewCategory("food", "cart.fill", "#E74C3C", model.TypeExpense, 9)
	require.NoError(t, err)
	err = repo.AddCategory(ctx, dup)
	assert.ErrorIs(t, err, common.ErrDuplicateName, "names are unique case-insensitively")

	fresh, err := model.NewCategory("Books", "book.fill", "#1ABC9C", model.TypeExpense, 9)
	require.NoError(t, err)
	require.NoError(t, repo.AddCategory(ctx, fresh))

	// Renaming onto an existing name is rejected, renaming onto itself is not.
	fresh.Name = "Food"
	assert.ErrorIs(t, repo.UpdateCategory(ctx, fresh), common.ErrDuplicateName)
	fresh.Name = "books"
	require.NoError(t, repo.UpdateCategory(ctx, fresh))
}

func TestRemoveCategory_CascadesBudgets(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	cat := expenseCategory(t, repo)

	var targeted int
	for _, b := range repo.Budgets() {
		if b.CategoryID == cat.ID {
			targeted++
		}
	}
	require.Equal(t, 1, targeted)

	require.NoError(t, repo.RemoveCategory(ctx, cat.ID))

	_, ok := repo.CategoryByID(cat.ID)
	assert.False(t, ok)
	for _, b := range repo.Budgets() {
		assert.NotEqual(t, cat.ID, b.CategoryID, "no dangling budget survives the delete")
	}
}

func TestAddBudget_RequiresKnownCategory(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	b, err := model.NewBudget(uuid.New(), decimal.NewFromInt(300), model.PeriodWeek)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.AddBudget(ctx, b), common.ErrNotFound)

	cat := expenseCategory(t, repo)
	b, err = model.NewBudget(cat.ID, decimal.NewFromInt(300), model.PeriodWeek)
	require.NoError(t, err)
	require.NoError(t, repo.AddBudget(ctx, b))
}

func TestCategories_SortedIncomeFirstThenOrder(t *testing.T) {
	repo, _ := newRepo(t)

	categories := repo.Categories()
	require.Len(t, categories, 5)
	assert.Equal(t, []string{"Salary", "Freelance", "Food", "Transport", "Housing"}, func() []string {
		names := make([]string, len(categories))
		for i, c := range categories {
			names[i] = c.Name
		}
		return names
	}())
}

func TestSnapshotsAreCopies(t *testing.T) {
	repo, _ := newRepo(t)

	snapshot := repo.Categories()
	snapshot[0].Name = "Mutated"

	assert.NotEqual(t, "Mutated", repo.Categories()[0].Name)
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)
	cat := expenseCategory(t, repo)

	tx, err := model.NewTransaction(decimal.NewFromInt(5), "Snack", time.Now(), model.TypeExpense, cat.ID)
	require.NoError(t, err)
	require.NoError(t, repo.AddTransaction(ctx, tx))
	require.NoError(t, repo.UpdateSettings(ctx, model.Settings{Currency: "GBP", Theme: "dark", DefaultExportFormat: model.FormatCSV}))

	require.NoError(t, repo.ResetAll(ctx))

	assert.Empty(t, repo.Transactions())
	assert.Empty(t, repo.Budgets())
	assert.Len(t, repo.Categories(), 5)
	assert.Equal(t, model.DefaultSettings(), repo.Settings())

	// The reset state is what a reload sees too.
	reopened, err := New(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, reopened.Transactions())
	assert.Equal(t, "EUR", reopened.Settings().Currency)
}
