// Package export renders a filtered transaction sequence for external use.
// It accepts whatever the engine produced plus a format tag; it never
// refilters or reorders.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/budgetzen/zen/internal/engine"
	"github.com/budgetzen/zen/internal/model"
	"github.com/google/uuid"
)

// unknownCategory is rendered for transactions whose category id no longer
// resolves.
const unknownCategory = "Unknown"

// Write renders transactions to w in the given format.
func Write(w io.Writer, format model.ExportFormat, transactions []model.Transaction, lookup map[uuid.UUID]model.Category) error {
	switch format {
	case model.FormatCSV:
		return writeCSV(w, transactions, lookup)
	case model.FormatPDF:
		return fmt.Errorf("pdf rendering is not supported in this build")
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func writeCSV(w io.Writer, transactions []model.Transaction, lookup map[uuid.UUID]model.Category) error {
	cw := csv.NewWriter(w)

	header := []string{"date", "title", "type", "category", "amount", "note", "recurring"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, t := range transactions {
		categoryName := unknownCategory
		if cat, ok := lookup[t.CategoryID]; ok {
			categoryName = cat.Name
		}

		recurring := ""
		if t.IsRecurring {
			recurring = string(t.RecurringInterval)
		}

		record := []string{
			t.Date.Format("2006-01-02"),
			t.Title,
			string(t.Type),
			categoryName,
			t.Signed().StringFixed(2),
			t.Note,
			recurring,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// Filtered is a convenience for the common "export what I'm looking at"
// flow: query then write.
func Filtered(w io.Writer, format model.ExportFormat, all []model.Transaction, f engine.Filter, lookup map[uuid.UUID]model.Category) error {
	return Write(w, format, engine.Query(all, f), lookup)
}
