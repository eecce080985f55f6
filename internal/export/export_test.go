package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetzen/zen/internal/engine"
	"github.com/budgetzen/zen/internal/model"
)

func TestWrite_CSV(t *testing.T) {
	food := model.Category{ID: uuid.New(), Name: "Food", Type: model.TypeExpense}
	lookup := engine.CategoryLookup([]model.Category{food})

	groceries, err := model.NewTransaction(
		decimal.NewFromFloat(25.5), "Groceries", time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), model.TypeExpense, food.ID)
	require.NoError(t, err)
	groceries.Note = "weekly run"

	payday, err := model.NewTransaction(
		decimal.NewFromInt(2000), "Payday", time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC), model.TypeIncome, uuid.New())
	require.NoError(t, err)

	streaming, err := model.NewTransaction(
		decimal.NewFromInt(15), "Streaming", time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), model.TypeExpense, food.ID)
	require.NoError(t, err)
	streaming, err = streaming.WithRecurring(model.IntervalMonthly)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Write(&buf, model.FormatCSV, []model.Transaction{groceries, payday, streaming}, lookup)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "date,title,type,category,amount,note,recurring", lines[0])
	assert.Equal(t, "2024-01-15,Groceries,expense,Food,-25.50,weekly run,", lines[1])
	assert.Equal(t, "2024-01-20,Payday,income,Unknown,2000.00,,", lines[2], "dangling category renders as Unknown")
	assert.Equal(t, "2024-01-21,Streaming,expense,Food,-15.00,,monthly", lines[3])
}

func TestWrite_EmptyCSVStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, model.FormatCSV, nil, nil))
	assert.Equal(t, "date,title,type,category,amount,note,recurring\n", buf.String())
}

func TestWrite_PDFUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, model.FormatPDF, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
	assert.Zero(t, buf.Len())
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Write(&buf, model.ExportFormat("xml"), nil, nil))
}

func TestFiltered(t *testing.T) {
	food := model.Category{ID: uuid.New(), Name: "Food", Type: model.TypeExpense}
	lookup := engine.CategoryLookup([]model.Category{food})
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	groceries, err := model.NewTransaction(decimal.NewFromInt(25), "Groceries", date, model.TypeExpense, food.ID)
	require.NoError(t, err)
	payday, err := model.NewTransaction(decimal.NewFromInt(2000), "Payday", date, model.TypeIncome, food.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Filtered(&buf, model.FormatCSV, []model.Transaction{groceries, payday}, engine.Filter{
		Types: map[model.TransactionType]bool{model.TypeExpense: true},
	}, lookup)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Groceries")
	assert.NotContains(t, buf.String(), "Payday")
}
