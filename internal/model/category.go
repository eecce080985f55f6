package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/budgetzen/zen/internal/common"
	"github.com/google/uuid"
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category classifies transactions for display and budgeting.
// Order is a dense per-type rank used for display sorting; callers that
// reorder categories are responsible for keeping it unique within a type.
type Category struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Color     string          `json:"color"`
	Type      TransactionType `json:"type"`
	IsDefault bool            `json:"isDefault"`
	Order     int             `json:"order"`
}

// NewCategory constructs a validated category with a fresh ID.
func NewCategory(name, icon, color string, typ TransactionType, order int) (Category, error) {
	c := Category{
		ID:    uuid.New(),
		Name:  name,
		Icon:  icon,
		Color: color,
		Type:  typ,
		Order: order,
	}
	if err := c.Validate(); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Validate checks the category invariants.
func (c Category) Validate() error {
	if c.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", common.ErrInvalidCategory)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: missing name", common.ErrInvalidCategory)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", common.ErrInvalidCategory, c.Type)
	}
	if c.Color != "" && !hexColorRe.MatchString(c.Color) {
		return fmt.Errorf("%w: color %q is not #RRGGBB", common.ErrInvalidCategory, c.Color)
	}
	return nil
}

// DefaultCategories returns the seed set created when the category store is
// empty or corrupt: 2 income and 3 expense entries with fixed icons, colors
// and ordering. IDs are freshly assigned on each call.
func DefaultCategories() []Category {
	return []Category{
		{ID: uuid.New(), Name: "Salary", Icon: "dollarsign.circle.fill", Color: "#2ECC71", Type: TypeIncome, IsDefault: true, Order: 0},
		{ID: uuid.New(), Name: "Freelance", Icon: "briefcase.fill", Color: "#27AE60", Type: TypeIncome, IsDefault: true, Order: 1},
		{ID: uuid.New(), Name: "Food", Icon: "cart.fill", Color: "#E74C3C", Type: TypeExpense, IsDefault: true, Order: 0},
		{ID: uuid.New(), Name: "Transport", Icon: "car.fill", Color: "#3498DB", Type: TypeExpense, IsDefault: true, Order: 1},
		{ID: uuid.New(), Name: "Housing", Icon: "house.fill", Color: "#9B59B6", Type: TypeExpense, IsDefault: true, Order: 2},
	}
}

// NextOrder returns the next free display rank for the given type.
func NextOrder(categories []Category, typ TransactionType) int {
	next := 0
	for _, c := range categories {
		if c.Type == typ && c.Order >= next {
			next = c.Order + 1
		}
	}
	return next
}
