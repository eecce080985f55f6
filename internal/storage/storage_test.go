package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]KVStore {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]KVStore{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Get(ctx, KeyTransactions)
			require.NoError(t, err)
			assert.Nil(t, got, "missing key reads as nil without error")

			require.NoError(t, store.Put(ctx, KeyTransactions, []byte(`[]`)))
			got, err = store.Get(ctx, KeyTransactions)
			require.NoError(t, err)
			assert.Equal(t, []byte(`[]`), got)

			require.NoError(t, store.Put(ctx, KeyTransactions, []byte(`[1]`)))
			got, err = store.Get(ctx, KeyTransactions)
			require.NoError(t, err)
			assert.Equal(t, []byte(`[1]`), got, "put replaces the previous blob")

			require.NoError(t, store.Delete(ctx, KeyTransactions))
			got, err = store.Get(ctx, KeyTransactions)
			require.NoError(t, err)
			assert.Nil(t, got)

			require.NoError(t, store.Delete(ctx, KeyTransactions), "deleting a missing key is not an error")
		})
	}
}

func TestKVStore_Keys(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, KeySettings, []byte(`{}`)))
			require.NoError(t, store.Put(ctx, KeyCategories, []byte(`[]`)))

			keys, err := store.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{KeyCategories, KeySettings}, keys, "keys come back in lexical order")
		})
	}
}

func TestKVStore_Validation(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			//nolint:staticcheck // nil context is exactly what is under test
			_, err := store.Get(nil, KeyTransactions)
			assert.ErrorIs(t, err, ErrNilContext)

			_, err = store.Get(ctx, "")
			assert.ErrorIs(t, err, ErrEmptyKey)

			err = store.Put(ctx, "", []byte(`x`))
			assert.ErrorIs(t, err, ErrEmptyKey)
		})
	}
}

func TestSQLiteStore_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "kv.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err, "missing parent directories are created")
	require.NoError(t, store.Put(ctx, KeySettings, []byte(`{"currency":"EUR"}`)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, KeySettings)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"currency":"EUR"}`), got)
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("")
	require.Error(t, err)
}
