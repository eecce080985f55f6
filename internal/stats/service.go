// Package stats assembles the display-ready aggregates for the period,
// chart, calendar, and dashboard views. The service is stateless with
// respect to results: every call re-derives from a fresh repository
// snapshot, so there is no cache to invalidate after a mutation.
package stats

import (
	"sort"
	"time"

	"github.com/budgetzen/zen/internal/engine"
	"github.com/budgetzen/zen/internal/model"
	"github.com/budgetzen/zen/internal/timeband"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DataSource is the read-only repository surface the facade consumes. Each
// accessor returns a point-in-time snapshot.
type DataSource interface {
	Transactions() []model.Transaction
	Categories() []model.Category
	Budgets() []model.Budget
}

// Service computes view aggregates over a data source.
type Service struct {
	source DataSource
	now    func() time.Time
}

// New creates a stats service. A nil now defaults to time.Now.
func New(source DataSource, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{source: source, now: now}
}

// ViewFilter carries the caller-selected category and type constraints
// applied on top of a view's own date window. Empty sets disable the
// corresponding predicate.
type ViewFilter struct {
	Types       map[model.TransactionType]bool
	CategoryIDs map[uuid.UUID]bool
}

func (v ViewFilter) engineFilter(rng *engine.DateRange) engine.Filter {
	return engine.Filter{Range: rng, Types: v.Types, CategoryIDs: v.CategoryIDs}
}

// PeriodStatistics is the summary shape behind the calendar's week/month
// panel: totals, daily averages over the full period length, and the five
// largest expense categories.
type PeriodStatistics struct {
	Interval             timeband.Interval
	TotalIncome          decimal.Decimal
	TotalExpenses        decimal.Decimal
	Balance              decimal.Decimal
	DailyAverageIncome   decimal.Decimal
	DailyAverageExpenses decimal.Decimal
	TopCategories        []engine.CategoryAmount
}

// Period computes the statistics for the calendar period of the given
// granularity containing ref.
func (s *Service) Period(ref time.Time, g timeband.Granularity, view ViewFilter) (PeriodStatistics, error) {
	iv, err := timeband.PeriodInterval(g, ref)
	if err != nil {
		return PeriodStatistics{}, err
	}

	rng := engine.FromInterval(iv)
	matched := engine.Query(s.source.Transactions(), view.engineFilter(&rng))
	totals := engine.SumByType(matched)

	expenseTotals := engine.GroupByCategory(engine.Query(matched, engine.Filter{
		Types: map[model.TransactionType]bool{model.TypeExpense: true},
	}))
	lookup := engine.CategoryLookup(s.source.Categories())

	return PeriodStatistics{
		Interval:             iv,
		TotalIncome:          totals.Income,
		TotalExpenses:        totals.Expenses,
		Balance:              totals.Balance(),
		DailyAverageIncome:   engine.DailyAverage(totals.Income, iv),
		DailyAverageExpenses: engine.DailyAverage(totals.Expenses, iv),
		TopCategories:        engine.TopN(expenseTotals, 5, lookup),
	}, nil
}

// Point is one bucketed chart value.
type Point struct {
	Bucket timeband.Bucket
	Amount decimal.Decimal
}

// Series holds the chart points for a range, plus the points of the
// immediately preceding equal-length window when comparison is requested.
type Series struct {
	Points   []Point
	Previous []Point
}

// Chart buckets the transactions of one type within rng by the given
// granularity. With comparePrevious set, Previous holds the same reduction
// over the contiguous preceding window of equal length.
func (s *Service) Chart(typ model.TransactionType, rng engine.DateRange, g timeband.Granularity, view ViewFilter, comparePrevious bool) (Series, error) {
	view = ViewFilter{Types: map[model.TransactionType]bool{typ: true}, CategoryIDs: view.CategoryIDs}

	transactions := s.source.Transactions()
	matched := engine.Query(transactions, view.engineFilter(&rng))

	points, err := bucketize(matched, g)
	if err != nil {
		return Series{}, err
	}
	series := Series{Points: points}

	if comparePrevious {
		length := rng.To.Sub(rng.From)
		previous := engine.RollingWindowFilter(
			engine.Query(transactions, view.engineFilter(nil)), length, rng.From)
		series.Previous, err = bucketize(previous, g)
		if err != nil {
			return Series{}, err
		}
	}
	return series, nil
}

func bucketize(transactions []model.Transaction, g timeband.Granularity) ([]Point, error) {
	byBucket := make(map[timeband.Bucket]decimal.Decimal)
	for _, t := range transactions {
		bucket, err := timeband.BucketKey(t.Date, g)
		if err != nil {
			return nil, err
		}
		byBucket[bucket] = byBucket[bucket].Add(t.Amount)
	}

	points := make([]Point, 0, len(byBucket))
	for bucket, amount := range byBucket {
		points = append(points, Point{Bucket: bucket, Amount: amount})
	}
	// Bucket labels do not sort chronologically; the numeric index does.
	sort.Slice(points, func(i, j int) bool {
		return points[i].Bucket.Sort < points[j].Bucket.Sort
	})
	return points, nil
}

// DayTotals is the per-cell figure set of the calendar grid.
type DayTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Total returns income minus expenses for the day.
func (d DayTotals) Total() decimal.Decimal {
	return d.Income.Sub(d.Expenses)
}

// CalendarDays groups the filtered transactions of the period containing ref
// by local calendar day and totals each day.
func (s *Service) CalendarDays(ref time.Time, g timeband.Granularity, view ViewFilter) (map[time.Time]DayTotals, error) {
	iv, err := timeband.PeriodInterval(g, ref)
	if err != nil {
		return nil, err
	}

	rng := engine.FromInterval(iv)
	matched := engine.Query(s.source.Transactions(), view.engineFilter(&rng))

	days := make(map[time.Time]DayTotals)
	for day, dayTransactions := range engine.GroupByDay(matched) {
		totals := engine.SumByType(dayTransactions)
		days[day] = DayTotals{Income: totals.Income, Expenses: totals.Expenses}
	}
	return days, nil
}

// BudgetRow is one line of the dashboard's budget progress list.
type BudgetRow struct {
	Budget   model.Budget
	Category model.Category
	Spent    decimal.Decimal
	Progress engine.Progress
}

// Dashboard is the landing view shape: all-time balance, the selected
// rolling period's income and expenses, budget progress, the most recent
// transactions, and the active recurring subscriptions.
type Dashboard struct {
	Balance        decimal.Decimal
	PeriodIncome   decimal.Decimal
	PeriodExpenses decimal.Decimal
	Budgets        []BudgetRow
	Recent         []model.Transaction
	Subscriptions  []model.Transaction
}

// DashboardPeriod selects the rolling window behind the dashboard's
// income/expense figures.
type DashboardPeriod string

const (
	// DashboardWeek covers the last 7 days.
	DashboardWeek DashboardPeriod = "week"
	// DashboardMonth covers the last calendar month.
	DashboardMonth DashboardPeriod = "month"
	// DashboardYear covers the last calendar year.
	DashboardYear DashboardPeriod = "year"
)

func (p DashboardPeriod) start(now time.Time) time.Time {
	switch p {
	case DashboardWeek:
		return now.AddDate(0, 0, -7)
	case DashboardYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// Dashboard assembles the landing view for the given rolling period,
// returning at most recentLimit recent transactions.
func (s *Service) Dashboard(period DashboardPeriod, recentLimit int) Dashboard {
	now := s.now()
	transactions := s.source.Transactions()

	rng := engine.DateRange{From: period.start(now), To: now}
	periodTotals := engine.SumByType(engine.Query(transactions, engine.Filter{Range: &rng}))
	allTotals := engine.SumByType(transactions)

	recent := make([]model.Transaction, len(transactions))
	copy(recent, transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if recentLimit > 0 && len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	var subscriptions []model.Transaction
	for _, t := range transactions {
		if t.IsRecurring {
			subscriptions = append(subscriptions, t)
		}
	}

	return Dashboard{
		Balance:        allTotals.Balance(),
		PeriodIncome:   periodTotals.Income,
		PeriodExpenses: periodTotals.Expenses,
		Budgets:        s.budgetRows(now),
		Recent:         recent,
		Subscriptions:  subscriptions,
	}
}

// budgetRows computes spending against each budget over the calendar period
// the budget is defined for, anchored at now. Budgets whose category no
// longer resolves are omitted; the cascade delete makes that state unusual
// but a hand-edited store must not break the view.
func (s *Service) budgetRows(now time.Time) []BudgetRow {
	transactions := s.source.Transactions()
	lookup := engine.CategoryLookup(s.source.Categories())

	var rows []BudgetRow
	for _, b := range s.source.Budgets() {
		category, ok := lookup[b.CategoryID]
		if !ok {
			continue
		}

		iv, err := timeband.PeriodInterval(budgetGranularity(b.Period), now)
		if err != nil {
			continue
		}

		rng := engine.FromInterval(iv)
		spent := engine.Sum(engine.Query(transactions, engine.Filter{
			Range:       &rng,
			Types:       map[model.TransactionType]bool{model.TypeExpense: true},
			CategoryIDs: map[uuid.UUID]bool{b.CategoryID: true},
		}))

		rows = append(rows, BudgetRow{
			Budget:   b,
			Category: category,
			Spent:    spent,
			Progress: engine.BudgetProgress(b, spent),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category.Order != rows[j].Category.Order {
			return rows[i].Category.Order < rows[j].Category.Order
		}
		return rows[i].Category.Name < rows[j].Category.Name
	})
	return rows
}

func budgetGranularity(p model.BudgetPeriod) timeband.Granularity {
	switch p {
	case model.PeriodWeek:
		return timeband.Week
	case model.PeriodYear:
		return timeband.Year
	default:
		return timeband.Month
	}
}
