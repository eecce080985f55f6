// Package engine implements the filter and aggregation core: composing
// type/category/date predicates over a transaction snapshot and reducing the
// matches into sums, averages, rankings, and budget progress.
//
// Every function here is pure. Reductions operate on already-filtered,
// in-memory sequences, perform no I/O, and cannot fail; the two degenerate
// inputs (zero budget limit, unresolvable category reference) degrade to a
// sentinel or an omitted entry rather than an error.
package engine

import (
	"sort"
	"time"

	"github.com/budgetzen/zen/internal/model"
	"github.com/budgetzen/zen/internal/timeband"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateRange is an inclusive [From, To] span, matching user-facing from/to
// date pickers. Calendar periods are half-open; FromInterval converts one to
// the equivalent inclusive range.
type DateRange struct {
	From time.Time
	To   time.Time
}

// FromInterval converts a half-open [start, end) calendar interval to the
// equivalent inclusive range.
func FromInterval(iv timeband.Interval) DateRange {
	return DateRange{From: iv.Start, To: iv.End.Add(-time.Nanosecond)}
}

// Contains reports whether t falls within the inclusive range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Filter selects transactions by date range, type, and category. A nil range
// matches all dates; empty sets disable that predicate entirely. The three
// predicates compose with logical AND.
type Filter struct {
	Range       *DateRange
	Types       map[model.TransactionType]bool
	CategoryIDs map[uuid.UUID]bool
}

// Matches reports whether the transaction satisfies every enabled predicate.
func (f Filter) Matches(t model.Transaction) bool {
	if f.Range != nil && !f.Range.Contains(t.Date) {
		return false
	}
	if len(f.Types) > 0 && !f.Types[t.Type] {
		return false
	}
	if len(f.CategoryIDs) > 0 && !f.CategoryIDs[t.CategoryID] {
		return false
	}
	return true
}

// Query returns the transactions matching the filter, preserving input order.
func Query(transactions []model.Transaction, f Filter) []model.Transaction {
	var matched []model.Transaction
	for _, t := range transactions {
		if f.Matches(t) {
			matched = append(matched, t)
		}
	}
	return matched
}

// Sum adds the unsigned amounts of the given transactions. No rounding is
// applied; display formatting is the caller's concern.
func Sum(transactions []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}
	return total
}

// Totals carries the income/expense magnitudes and their balance.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Balance returns income minus expenses.
func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expenses)
}

// SumByType splits the total by transaction type. Both figures are unsigned
// magnitudes; the sign convention lives in the type, not the amount.
func SumByType(transactions []model.Transaction) Totals {
	totals := Totals{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, t := range transactions {
		switch t.Type {
		case model.TypeIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case model.TypeExpense:
			totals.Expenses = totals.Expenses.Add(t.Amount)
		}
	}
	return totals
}

// GroupByCategory sums amounts per category id.
func GroupByCategory(transactions []model.Transaction) map[uuid.UUID]decimal.Decimal {
	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, t := range transactions {
		totals[t.CategoryID] = totals[t.CategoryID].Add(t.Amount)
	}
	return totals
}

// CategoryAmount pairs a resolved category with its aggregated amount.
type CategoryAmount struct {
	Category model.Category
	Amount   decimal.Decimal
}

// TopN ranks category totals descending by amount, truncated to n. Ties break
// by category display order, then name. Totals whose category id does not
// resolve through lookup are dropped silently; a dangling reference is
// tolerated data, not an error.
func TopN(totals map[uuid.UUID]decimal.Decimal, n int, lookup map[uuid.UUID]model.Category) []CategoryAmount {
	if n <= 0 {
		return nil
	}

	ranked := make([]CategoryAmount, 0, len(totals))
	for id, amount := range totals {
		cat, ok := lookup[id]
		if !ok {
			continue
		}
		ranked = append(ranked, CategoryAmount{Category: cat, Amount: amount})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Amount.Equal(ranked[j].Amount) {
			return ranked[i].Amount.GreaterThan(ranked[j].Amount)
		}
		if ranked[i].Category.Order != ranked[j].Category.Order {
			return ranked[i].Category.Order < ranked[j].Category.Order
		}
		return ranked[i].Category.Name < ranked[j].Category.Name
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// DailyAverage divides total by the number of days in the interval, floored
// at 1 day so a degenerate period returns the total itself.
func DailyAverage(total decimal.Decimal, iv timeband.Interval) decimal.Decimal {
	days := timeband.DaysBetween(iv.Start, iv.End)
	return total.Div(decimal.NewFromInt(int64(days)))
}

// Progress reports spending against a budget limit. Percentage is unbounded
// and may exceed 100. NoLimit flags a zero-limit budget, which would
// otherwise divide by zero; the presentation layer renders it as "no limit
// set" instead of a figure.
type Progress struct {
	Percentage decimal.Decimal
	Remaining  decimal.Decimal
	NoLimit    bool
}

// BudgetProgress computes spending progress for one budget.
func BudgetProgress(budget model.Budget, spent decimal.Decimal) Progress {
	if budget.Limit.IsZero() {
		return Progress{
			Percentage: decimal.Zero,
			Remaining:  spent.Neg(),
			NoLimit:    spent.IsPositive(),
		}
	}
	return Progress{
		Percentage: spent.Div(budget.Limit).Mul(decimal.NewFromInt(100)),
		Remaining:  budget.Limit.Sub(spent),
	}
}

// RollingWindowFilter returns the transactions in the fixed-length window
// immediately preceding anchor: [anchor-length, anchor), contiguous and
// non-overlapping with a current window starting at anchor.
func RollingWindowFilter(transactions []model.Transaction, length time.Duration, anchor time.Time) []model.Transaction {
	window := timeband.RollingWindow(anchor, length)
	var matched []model.Transaction
	for _, t := range transactions {
		if window.Contains(t.Date) {
			matched = append(matched, t)
		}
	}
	return matched
}

// GroupByDay buckets transactions by local calendar day, keyed by midnight of
// each transaction's date.
func GroupByDay(transactions []model.Transaction) map[time.Time][]model.Transaction {
	grouped := make(map[time.Time][]model.Transaction)
	for _, t := range transactions {
		day := timeband.StartOfDay(t.Date)
		grouped[day] = append(grouped[day], t)
	}
	return grouped
}

// CategoryLookup builds the id-to-category map aggregates resolve metadata
// through, rather than embedding category values in budgets or results.
func CategoryLookup(categories []model.Category) map[uuid.UUID]model.Category {
	lookup := make(map[uuid.UUID]model.Category, len(categories))
	for _, c := range categories {
		lookup[c.ID] = c
	}
	return lookup
}
