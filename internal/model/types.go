// Package model defines the core entity types for the tracker: transactions,
// categories, budgets, and settings. Entities are immutable value records;
// an update constructs a new value carrying the same ID.
package model

// TransactionType indicates whether money flowed in or out.
type TransactionType string

const (
	// TypeIncome represents money received.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money spent.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the known values.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// BudgetPeriod is the calendar span a budget limit applies to.
type BudgetPeriod string

const (
	// PeriodWeek limits spending per calendar week.
	PeriodWeek BudgetPeriod = "week"
	// PeriodMonth limits spending per calendar month.
	PeriodMonth BudgetPeriod = "month"
	// PeriodYear limits spending per calendar year.
	PeriodYear BudgetPeriod = "year"
)

// Valid reports whether the period is one of the known values.
func (p BudgetPeriod) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodYear
}

// RecurringInterval is how often a recurring transaction repeats.
type RecurringInterval string

const (
	// IntervalDaily repeats every day.
	IntervalDaily RecurringInterval = "daily"
	// IntervalWeekly repeats every week.
	IntervalWeekly RecurringInterval = "weekly"
	// IntervalMonthly repeats every month.
	IntervalMonthly RecurringInterval = "monthly"
	// IntervalYearly repeats every year.
	IntervalYearly RecurringInterval = "yearly"
)

// Valid reports whether the interval is one of the known values.
func (i RecurringInterval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}
