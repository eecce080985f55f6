package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetzen/zen/internal/common"
	"github.com/budgetzen/zen/internal/storage"
)

func TestPINAuthenticator_Unconfigured(t *testing.T) {
	ctx := context.Background()
	a, err := NewPINAuthenticator(ctx, storage.NewMemoryStore())
	require.NoError(t, err)

	assert.False(t, a.Required())

	ok, err := a.Authenticate(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "no PIN means no gate")

	assert.False(t, a.VerifyPIN("1234"), "nothing verifies against an unset PIN")
	assert.ErrorIs(t, a.ClearPIN(ctx), common.ErrNoPINSet)
}

func TestPINAuthenticator_SetAndVerify(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	a, err := NewPINAuthenticator(ctx, store)
	require.NoError(t, err)

	assert.ErrorIs(t, a.SetPIN(ctx, "123"), common.ErrInvalidPIN)
	require.NoError(t, a.SetPIN(ctx, "1234"))

	assert.True(t, a.Required())
	assert.True(t, a.VerifyPIN("1234"))
	assert.False(t, a.VerifyPIN("4321"))

	ok, err := a.Authenticate(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "a configured PIN needs interactive verification")

	// A fresh authenticator sees the persisted hash, never the raw PIN.
	reloaded, err := NewPINAuthenticator(ctx, store)
	require.NoError(t, err)
	assert.True(t, reloaded.VerifyPIN("1234"))

	blob, err := store.Get(ctx, storage.KeyAuth)
	require.NoError(t, err)
	assert.Contains(t, string(blob), "pinHash", "only the hash is persisted")
}

func TestPINAuthenticator_Clear(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	a, err := NewPINAuthenticator(ctx, store)
	require.NoError(t, err)

	require.NoError(t, a.SetPIN(ctx, "1234"))
	require.NoError(t, a.ClearPIN(ctx))

	assert.False(t, a.Required())
	blob, err := store.Get(ctx, storage.KeyAuth)
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestPINAuthenticator_MalformedBlob(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(ctx, storage.KeyAuth, []byte(`{broken`)))

	a, err := NewPINAuthenticator(ctx, store)
	require.NoError(t, err, "a malformed auth blob means unconfigured, not broken")
	assert.False(t, a.Required())
}
