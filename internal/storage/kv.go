// Package storage provides the byte-oriented key-value persistence layer.
// Each entity collection is serialized as a single blob under a fixed key.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Well-known blob keys.
const (
	KeyTransactions = "transactions"
	KeyCategories   = "categories"
	KeyBudgets      = "budgets"
	KeySettings     = "settings"
	KeyBackup       = "backup"
	KeyAuth         = "auth"
)

// Validation errors.
var (
	ErrNilContext = errors.New("context cannot be nil")
	ErrEmptyKey   = errors.New("key cannot be empty")
)

// KVStore is a byte-oriented key-value store. Get returns (nil, nil) for a
// missing key; absence is not an error because every caller treats it the
// same as an empty collection.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateKey ensures the key is not empty.
func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}

// validateAccess bundles the checks every store operation performs.
func validateAccess(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	return nil
}
