// Package backup bundles the four persisted blobs into one document for
// export/import as a unit. The bundle copies raw blobs without decoding
// them, so a backup taken on one version restores byte-for-byte and any
// per-collection repair happens on the next repository load.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/budgetzen/zen/internal/common"
	"github.com/budgetzen/zen/internal/storage"
)

// Data is the combined backup format. Every field is optional; a missing
// collection simply restores as absent.
type Data struct {
	Transactions []byte    `json:"transactions,omitempty"`
	Categories   []byte    `json:"categories,omitempty"`
	Budgets      []byte    `json:"budgets,omitempty"`
	Settings     []byte    `json:"settings,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

var bundleKeys = []string{
	storage.KeyTransactions,
	storage.KeyCategories,
	storage.KeyBudgets,
	storage.KeySettings,
}

// Service reads and writes backups against a key-value store.
type Service struct {
	store storage.KVStore
}

// NewService creates a backup service over the given store.
func NewService(store storage.KVStore) *Service {
	return &Service{store: store}
}

// Snapshot bundles the current blobs into a backup document.
func (s *Service) Snapshot(ctx context.Context) (Data, error) {
	data := Data{CreatedAt: time.Now()}
	for _, key := range bundleKeys {
		blob, err := s.store.Get(ctx, key)
		if err != nil {
			return Data{}, fmt.Errorf("failed to snapshot %s: %w", key, err)
		}
		data.set(key, blob)
	}
	return data, nil
}

// Save stores a snapshot in the local backup slot.
func (s *Service) Save(ctx context.Context) error {
	data, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := s.store.Put(ctx, storage.KeyBackup, blob); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	common.LogInfo("saved local backup", common.Fields{"bytes": len(blob)})
	return nil
}

// Restore loads the local backup slot and writes its blobs back. Callers
// must reload the repository afterwards.
func (s *Service) Restore(ctx context.Context) error {
	blob, err := s.store.Get(ctx, storage.KeyBackup)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if blob == nil {
		return common.ErrNoBackup
	}
	return s.apply(ctx, blob)
}

// Export writes a snapshot to path as a JSON document.
func (s *Service) Export(ctx context.Context, path string) error {
	data, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	blob, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.WriteFile(path, blob, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	common.LogInfo("exported backup", common.Fields{"path": path, "bytes": len(blob)})
	return nil
}

// Import reads a backup document from path and writes its blobs back.
// Callers must reload the repository afterwards.
func (s *Service) Import(ctx context.Context, path string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return common.ErrNoBackup
		}
		return fmt.Errorf("failed to read backup file: %w", err)
	}
	return s.apply(ctx, blob)
}

// apply decodes a backup document and restores each present blob. A field
// the bundle omits leaves the current blob untouched.
func (s *Service) apply(ctx context.Context, blob []byte) error {
	var data Data
	if err := json.Unmarshal(blob, &data); err != nil {
		return fmt.Errorf("%w: backup document: %v", common.ErrDecodeFailed, err)
	}

	for _, key := range bundleKeys {
		value := data.get(key)
		if value == nil {
			continue
		}
		if err := s.store.Put(ctx, key, value); err != nil {
			return fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}
	common.LogInfo("restored backup", common.Fields{"created_at": data.CreatedAt})
	return nil
}

func (d *Data) set(key string, blob []byte) {
	switch key {
	case storage.KeyTransactions:
		d.Transactions = blob
	case storage.KeyCategories:
		d.Categories = blob
	case storage.KeyBudgets:
		d.Budgets = blob
	case storage.KeySettings:
		d.Settings = blob
	}
}

func (d *Data) get(key string) []byte {
	switch key {
	case storage.KeyTransactions:
		return d.Transactions
	case storage.KeyCategories:
		return d.Categories
	case storage.KeyBudgets:
		return d.Budgets
	case storage.KeySettings:
		return d.Settings
	}
	return nil
}
