package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetzen/zen/internal/common"
	"github.com/budgetzen/zen/internal/storage"
)

func seededStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(ctx, storage.KeyTransactions, []byte(`[{"title":"Coffee"}]`)))
	require.NoError(t, store.Put(ctx, storage.KeyCategories, []byte(`[{"name":"Food"}]`)))
	require.NoError(t, store.Put(ctx, storage.KeySettings, []byte(`{"currency":"EUR"}`)))
	return store
}

func TestSaveRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc := NewService(store)

	require.NoError(t, svc.Save(ctx))

	// Mutate the live data, then restore the older state.
	require.NoError(t, store.Put(ctx, storage.KeyTransactions, []byte(`[]`)))
	require.NoError(t, store.Delete(ctx, storage.KeySettings))

	require.NoError(t, svc.Restore(ctx))

	got, err := store.Get(ctx, storage.KeyTransactions)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"title":"Coffee"}]`), got)

	got, err = store.Get(ctx, storage.KeySettings)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"currency":"EUR"}`), got)
}

func TestRestore_NoBackup(t *testing.T) {
	svc := NewService(storage.NewMemoryStore())
	assert.ErrorIs(t, svc.Restore(context.Background()), common.ErrNoBackup)
}

func TestSnapshot_SkipsMissingCollections(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(ctx, storage.KeyCategories, []byte(`[]`)))

	data, err := NewService(store).Snapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, data.Transactions)
	assert.Equal(t, []byte(`[]`), data.Categories)
	assert.False(t, data.CreatedAt.IsZero())
}

func TestExportImport_File(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc := NewService(store)
	path := filepath.Join(t.TempDir(), "backup.json")

	require.NoError(t, svc.Export(ctx, path))

	// Import into a fresh store.
	target := storage.NewMemoryStore()
	require.NoError(t, NewService(target).Import(ctx, path))

	got, err := target.Get(ctx, storage.KeyTransactions)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"title":"Coffee"}]`), got)

	// The budgets blob was never written, so the import leaves it absent.
	got, err = target.Get(ctx, storage.KeyBudgets)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestImport_MissingFile(t *testing.T) {
	svc := NewService(storage.NewMemoryStore())
	path := filepath.Join(t.TempDir(), "nope.json")
	assert.ErrorIs(t, svc.Import(context.Background(), path), common.ErrNoBackup)
}

func TestImport_MalformedDocument(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc := NewService(store)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))

	err := svc.Import(ctx, path)
	assert.ErrorIs(t, err, common.ErrDecodeFailed)

	// The live blobs are untouched on a failed import.
	got, getErr := store.Get(ctx, storage.KeyTransactions)
	require.NoError(t, getErr)
	assert.Equal(t, []byte(`[{"title":"Coffee"}]`), got)
}
