// Package auth gates access to the tracker's data behind an optional PIN.
// The core never calls it; the CLI checks it before opening the repository.
// The authenticator is constructed once at startup and passed to whoever
// needs it, so tests substitute fakes without touching global state.
package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/budgetzen/zen/internal/common"
	"github.com/budgetzen/zen/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator is the authentication collaborator boundary. Authenticate
// covers non-interactive device unlock; VerifyPIN checks a user-entered
// candidate.
type Authenticator interface {
	Authenticate(ctx context.Context) (bool, error)
	VerifyPIN(candidate string) bool
	Required() bool
}

// pinRecord is what the auth blob stores. Only the bcrypt hash is persisted,
// never the PIN itself.
type pinRecord struct {
	PINHash []byte `json:"pinHash"`
}

// PINAuthenticator verifies a locally configured PIN against a bcrypt hash
// kept in the key-value store.
type PINAuthenticator struct {
	store  storage.KVStore
	record pinRecord
}

// NewPINAuthenticator loads the stored PIN configuration. A missing or
// malformed auth blob means no PIN is configured, not an error.
func NewPINAuthenticator(ctx context.Context, store storage.KVStore) (*PINAuthenticator, error) {
	a := &PINAuthenticator{store: store}

	blob, err := store.Get(ctx, storage.KeyAuth)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth configuration: %w", err)
	}
	if blob != nil {
		if err := json.Unmarshal(blob, &a.record); err != nil {
			a.record = pinRecord{}
		}
	}
	return a, nil
}

// Required reports whether a PIN is configured.
func (a *PINAuthenticator) Required() bool {
	return len(a.record.PINHash) > 0
}

// Authenticate succeeds immediately when no PIN is configured; otherwise the
// caller must collect a PIN and use VerifyPIN.
func (a *PINAuthenticator) Authenticate(_ context.Context) (bool, error) {
	return !a.Required(), nil
}

// VerifyPIN checks a candidate against the stored hash.
func (a *PINAuthenticator) VerifyPIN(candidate string) bool {
	if !a.Required() {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.record.PINHash, []byte(candidate)) == nil
}

// SetPIN hashes and stores a new PIN.
func (a *PINAuthenticator) SetPIN(ctx context.Context, pin string) error {
	if len(pin) < 4 {
		return fmt.Errorf("%w: must be at least 4 digits", common.ErrInvalidPIN)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}

	a.record = pinRecord{PINHash: hash}
	blob, err := json.Marshal(a.record)
	if err != nil {
		return fmt.Errorf("failed to encode auth configuration: %w", err)
	}
	if err := a.store.Put(ctx, storage.KeyAuth, blob); err != nil {
		return fmt.Errorf("failed to write auth configuration: %w", err)
	}
	return nil
}

// ClearPIN removes the PIN requirement.
func (a *PINAuthenticator) ClearPIN(ctx context.Context) error {
	if !a.Required() {
		return common.ErrNoPINSet
	}
	a.record = pinRecord{}
	if err := a.store.Delete(ctx, storage.KeyAuth); err != nil {
		return fmt.Errorf("failed to clear auth configuration: %w", err)
	}
	return nil
}
