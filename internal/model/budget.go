package model

import (
	"fmt"

	"github.com/budgetzen/zen/internal/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget caps spending for one category over a calendar period. It references
// its category by ID only; callers resolve the live Category through a lookup
// so an edited category is never shadowed by a stale embedded copy.
type Budget struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID uuid.UUID       `json:"categoryId"`
	Limit      decimal.Decimal `json:"limit"`
	Period     BudgetPeriod    `json:"period"`
}

// NewBudget constructs a validated budget with a fresh ID.
func NewBudget(categoryID uuid.UUID, limit decimal.Decimal, period BudgetPeriod) (Budget, error) {
	b := Budget{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Limit:      limit,
		Period:     period,
	}
	if err := b.Validate(); err != nil {
		return Budget{}, err
	}
	return b, nil
}

// Validate checks the budget invariants. A zero limit is rejected here; the
// engine still guards against it so a hand-edited store cannot divide by zero.
func (b Budget) Validate() error {
	if b.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", common.ErrInvalidBudget)
	}
	if b.CategoryID == uuid.Nil {
		return fmt.Errorf("%w: missing category id", common.ErrInvalidBudget)
	}
	if !b.Limit.IsPositive() {
		return fmt.Errorf("%w: limit must be positive, got %s", common.ErrInvalidBudget, b.Limit)
	}
	if !b.Period.Valid() {
		return fmt.Errorf("%w: unknown period %q", common.ErrInvalidBudget, b.Period)
	}
	return nil
}
