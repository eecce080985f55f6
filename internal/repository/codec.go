package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/budgetzen/zen/internal/model"
	"github.com/budgetzen/zen/internal/storage"
)

// loadCollection reads and decodes one collection blob, reporting whether a
// decodable blob was present. Store read errors propagate, but a malformed
// blob is logged and treated identically to "no data": decode failure must
// reset the collection, never crash the app.
func loadCollection[T any](ctx context.Context, store storage.KVStore, key string) ([]T, bool, error) {
	blob, err := store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if blob == nil {
		return nil, false, nil
	}

	var items []T
	if err := json.Unmarshal(blob, &items); err != nil {
		slog.Warn("discarding malformed collection blob", "key", key, "error", err)
		return nil, false, nil
	}
	return items, true, nil
}

// loadSettings decodes the settings blob, defaulting on absence or failure.
func loadSettings(ctx context.Context, store storage.KVStore) model.Settings {
	blob, err := store.Get(ctx, storage.KeySettings)
	if err != nil || blob == nil {
		if err != nil {
			slog.Warn("failed to read settings", "error", err)
		}
		return model.DefaultSettings()
	}

	var s model.Settings
	if err := json.Unmarshal(blob, &s); err != nil {
		slog.Warn("discarding malformed settings blob", "error", err)
		return model.DefaultSettings()
	}
	return s
}

// saveCollection encodes and writes one collection blob. A nil slice encodes
// as an empty array so a cleared collection round-trips as empty, not absent.
func saveCollection[T any](ctx context.Context, store storage.KVStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Put(ctx, key, blob); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (r *Repository) saveTransactions(ctx context.Context) error {
	return saveCollection(ctx, r.store, storage.KeyTransactions, r.transactions)
}

func (r *Repository) saveCategories(ctx context.Context) error {
	return saveCollection(ctx, r.store, storage.KeyCategories, r.categories)
}

func (r *Repository) saveBudgets(ctx context.Context) error {
	return saveCollection(ctx, r.store, storage.KeyBudgets, r.budgets)
}

func (r *Repository) saveSettings(ctx context.Context) error {
	blob, err := json.Marshal(r.settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := r.store.Put(ctx, storage.KeySettings, blob); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
