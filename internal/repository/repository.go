// Package repository holds the live entity collections and their persistence
// round-trip to a key-value store. Collections are kept in memory and written
// back in full after every mutation; queries receive point-in-time copies so
// a later mutation can never change a sequence mid-iteration.
package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/budgetzen/zen/internal/common"
	"github.com/budgetzen/zen/internal/model"
	"github.com/budgetzen/zen/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository owns the transaction, category, budget, and settings collections.
type Repository struct {
	store storage.KVStore

	transactions []model.Transaction
	categories   []model.Category
	budgets      []model.Budget
	settings     model.Settings
}

// New creates a repository bound to the given store and loads every
// collection. A missing or malformed blob never fails the load: categories
// fall back to the default seed, the others to empty. Corrupt local state
// resets silently instead of rendering the app unusable.
func New(ctx context.Context, store storage.KVStore) (*Repository, error) {
	if ctx == nil {
		return nil, storage.ErrNilContext
	}

	r := &Repository{store: store}
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// load reads all four blobs, recovering per collection on decode failure.
func (r *Repository) load(ctx context.Context) error {
	var err error

	r.transactions, _, err = loadCollection[model.Transaction](ctx, r.store, storage.KeyTransactions)
	if err != nil {
		return err
	}

	r.categories, _, err = loadCollection[model.Category](ctx, r.store, storage.KeyCategories)
	if err != nil {
		return err
	}
	if len(r.categories) == 0 {
		r.categories = model.DefaultCategories()
		if err := r.saveCategories(ctx); err != nil {
			return err
		}
	}

	var budgetsPresent bool
	r.budgets, budgetsPresent, err = loadCollection[model.Budget](ctx, r.store, storage.KeyBudgets)
	if err != nil {
		return err
	}
	if !budgetsPresent {
		// First run: a starter monthly budget per default expense category.
		r.budgets = defaultBudgets(r.categories)
		if err := r.saveBudgets(ctx); err != nil {
			return err
		}
	}

	r.settings = loadSettings(ctx, r.store)
	return nil
}

// defaultBudgets builds the starter budgets seeded on first run.
func defaultBudgets(categories []model.Category) []model.Budget {
	var budgets []model.Budget
	for _, c := range categories {
		if c.Type != model.TypeExpense {
			continue
		}
		budgets = append(budgets, model.Budget{
			ID:         uuid.New(),
			CategoryID: c.ID,
			Limit:      decimal.NewFromInt(1000),
			Period:     model.PeriodMonth,
		})
	}
	return budgets
}

// Transactions returns a point-in-time copy of the transaction collection in
// insertion order.
func (r *Repository) Transactions() []model.Transaction {
	out := make([]model.Transaction, len(r.transactions))
	copy(out, r.transactions)
	return out
}

// AddTransaction appends and persists a transaction.
func (r *Repository) AddTransaction(ctx context.Context, t model.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if indexByID(r.transactions, t.ID) >= 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrDuplicateID, t.ID)
	}
	r.transactions = append(r.transactions, t)
	return r.saveTransactions(ctx)
}

// UpdateTransaction replaces the stored record with the same ID.
func (r *Repository) UpdateTransaction(ctx context.Context, t model.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	i := indexByID(r.transactions, t.ID)
	if i < 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, t.ID)
	}
	r.transactions[i] = t
	return r.saveTransactions(ctx)
}

// RemoveTransaction deletes the transaction with the given ID.
func (r *Repository) RemoveTransaction(ctx context.Context, id uuid.UUID) error {
	i := indexByID(r.transactions, id)
	if i < 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	r.transactions = append(r.transactions[:i], r.transactions[i+1:]...)
	return r.saveTransactions(ctx)
}

// ReplaceAllTransactions resets the collection in bulk, for restore flows.
func (r *Repository) ReplaceAllTransactions(ctx context.Context, transactions []model.Transaction) error {
	for _, t := range transactions {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	r.transactions = make([]model.Transaction, len(transactions))
	copy(r.transactions, transactions)
	return r.saveTransactions(ctx)
}

// Categories returns a copy sorted by type, display order, then name.
func (r *Repository) Categories() []model.Category {
	out := make([]model.Category, len(r.categories))
	copy(out, r.categories)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type == model.TypeIncome
		}
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CategoryByID resolves a category, reporting whether it exists.
func (r *Repository) CategoryByID(id uuid.UUID) (model.Category, bool) {
	i := indexByID(r.categories, id)
	if i < 0 {
		return model.Category{}, false
	}
	return r.categories[i], true
}

// AddCategory appends and persists a category. Names are unique
// case-insensitively across the whole set.
func (r *Repository) AddCategory(ctx context.Context, c model.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if indexByID(r.categories, c.ID) >= 0 {
		return fmt.Errorf("%w: category %s", common.ErrDuplicateID, c.ID)
	}
	if r.nameTaken(c.Name, c.ID) {
		return fmt.Errorf("%w: %q", common.ErrDuplicateName, c.Name)
	}
	r.categories = append(r.categories, c)
	return r.saveCategories(ctx)
}

// UpdateCategory replaces the stored record with the same ID.
func (r *Repository) UpdateCategory(ctx context.Context, c model.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	i := indexByID(r.categories, c.ID)
	if i < 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, c.ID)
	}
	if r.nameTaken(c.Name, c.ID) {
		return fmt.Errorf("%w: %q", common.ErrDuplicateName, c.Name)
	}
	r.categories[i] = c
	return r.saveCategories(ctx)
}

// RemoveCategory deletes a category and cascades to every budget referencing
// it, so no dangling budget survives the delete. Transactions keep their
// category id and render as "unknown category".
func (r *Repository) RemoveCategory(ctx context.Context, id uuid.UUID) error {
	i := indexByID(r.categories, id)
	if i < 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	r.categories = append(r.categories[:i], r.categories[i+1:]...)

	kept := r.budgets[:0]
	removed := 0
	for _, b := range r.budgets {
		if b.CategoryID == id {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	r.budgets = kept

	if err := r.saveCategories(ctx); err != nil {
		return err
	}
	if removed > 0 {
		return r.saveBudgets(ctx)
	}
	return nil
}

// ReplaceAllCategories resets the collection in bulk, for restore flows.
func (r *Repository) ReplaceAllCategories(ctx context.Context, categories []model.Category) error {
	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	r.categories = make([]model.Category, len(categories))
	copy(r.categories, categories)
	return r.saveCategories(ctx)
}

// Budgets returns a point-in-time copy of the budget collection.
func (r *Repository) Budgets() []model.Budget {
	out := make([]model.Budget, len(r.budgets))
	copy(out, r.budgets)
	return out
}

// AddBudget appends and persists a budget.
func (r *Repository) AddBudget(ctx context.Context, b model.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if indexByID(r.budgets, b.ID) >= 0 {
		return fmt.Errorf("%w: budget %s", common.ErrDuplicateID, b.ID)
	}
	if indexByID(r.categories, b.CategoryID) < 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, b.CategoryID)
	}
	r.budgets = append(r.budgets, b)
	return r.saveBudgets(ctx)
}

// UpdateBudget replaces the stored record with the same ID.
func (r *Repository) UpdateBudget(ctx context.Context, b model.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	i := indexByID(r.budgets, b.ID)
	if i < 0 {
		return fmt.Errorf("%w: budget %s", common.ErrNotFound, b.ID)
	}
	r.budgets[i] = b
	return r.saveBudgets(ctx)
}

// RemoveBudget deletes the budget with the given ID.
func (r *Repository) RemoveBudget(ctx context.Context, id uuid.UUID) error {
	i := indexByID(r.budgets, id)
	if i < 0 {
		return fmt.Errorf("%w: budget %s", common.ErrNotFound, id)
	}
	r.budgets = append(r.budgets[:i], r.budgets[i+1:]...)
	return r.saveBudgets(ctx)
}

// ReplaceAllBudgets resets the collection in bulk, for restore flows.
func (r *Repository) ReplaceAllBudgets(ctx context.Context, budgets []model.Budget) error {
	for _, b := range budgets {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	r.budgets = make([]model.Budget, len(budgets))
	copy(r.budgets, budgets)
	return r.saveBudgets(ctx)
}

// Settings returns the current user preferences.
func (r *Repository) Settings() model.Settings {
	return r.settings
}

// UpdateSettings replaces and persists the user preferences.
func (r *Repository) UpdateSettings(ctx context.Context, s model.Settings) error {
	r.settings = s
	return r.saveSettings(ctx)
}

// ResetAll clears every collection, reseeds the default categories, and
// persists the fresh state.
func (r *Repository) ResetAll(ctx context.Context) error {
	r.transactions = nil
	r.budgets = nil
	r.categories = model.DefaultCategories()
	r.settings = model.DefaultSettings()

	if err := r.saveTransactions(ctx); err != nil {
		return err
	}
	if err := r.saveBudgets(ctx); err != nil {
		return err
	}
	if err := r.saveCategories(ctx); err != nil {
		return err
	}
	return r.saveSettings(ctx)
}

// Reload re-reads every collection from the store, discarding in-memory
// state. Restore flows call this after writing blobs back.
func (r *Repository) Reload(ctx context.Context) error {
	return r.load(ctx)
}

// nameTaken reports whether another category already uses name,
// case-insensitively.
func (r *Repository) nameTaken(name string, self uuid.UUID) bool {
	folded := strings.ToLower(strings.TrimSpace(name))
	for _, c := range r.categories {
		if c.ID != self && strings.ToLower(strings.TrimSpace(c.Name)) == folded {
			return true
		}
	}
	return false
}

// identifiable lets indexByID work across all three entity kinds.
type identifiable interface {
	model.Transaction | model.Category | model.Budget
}

func indexByID[T identifiable](items []T, id uuid.UUID) int {
	for i, item := range items {
		if entityID(item) == id {
			return i
		}
	}
	return -1
}

func entityID[T identifiable](item T) uuid.UUID {
	switch v := any(item).(type) {
	case model.Transaction:
		return v.ID
	case model.Category:
		return v.ID
	case model.Budget:
		return v.ID
	}
	return uuid.Nil
}
