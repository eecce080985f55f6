package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/budgetzen/zen/internal/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense record.
//
// Amounts are unsigned: Amount is always >= 0 and Type carries the sign.
// Every aggregate relies on this, so the invariant is enforced at the single
// construction point and re-checked when records are loaded from the store.
type Transaction struct {
	ID                uuid.UUID         `json:"id"`
	Amount            decimal.Decimal   `json:"amount"`
	Title             string            `json:"title"`
	Date              time.Time         `json:"date"`
	Type              TransactionType   `json:"type"`
	CategoryID        uuid.UUID         `json:"categoryId"`
	Note              string            `json:"note,omitempty"`
	IsRecurring       bool              `json:"isRecurring"`
	RecurringInterval RecurringInterval `json:"recurringInterval,omitempty"`
}

// NewTransaction constructs a validated transaction with a fresh ID.
func NewTransaction(amount decimal.Decimal, title string, date time.Time, typ TransactionType, categoryID uuid.UUID) (Transaction, error) {
	t := Transaction{
		ID:         uuid.New(),
		Amount:     amount,
		Title:      title,
		Date:       date,
		Type:       typ,
		CategoryID: categoryID,
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// WithRecurring returns a copy flagged as recurring with the given interval.
func (t Transaction) WithRecurring(interval RecurringInterval) (Transaction, error) {
	t.IsRecurring = true
	t.RecurringInterval = interval
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// Validate checks the transaction invariants.
func (t Transaction) Validate() error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", common.ErrInvalidTransaction)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: missing title", common.ErrInvalidTransaction)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: missing date", common.ErrInvalidTransaction)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", common.ErrInvalidTransaction, t.Type)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative, got %s", common.ErrInvalidTransaction, t.Amount)
	}
	if t.IsRecurring != t.RecurringInterval.Valid() {
		return fmt.Errorf("%w: recurring interval set iff recurring", common.ErrInvalidTransaction)
	}
	return nil
}

// Signed returns the amount with the sign implied by the type: negative for
// expenses, positive for income.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Fingerprint hashes the fields a bank statement would repeat, for duplicate
// detection during imports.
func (t Transaction) Fingerprint() string {
	data := fmt.Sprintf("%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		strings.ToUpper(strings.TrimSpace(t.Title)))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
