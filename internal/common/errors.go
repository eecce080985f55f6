// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Repository errors.
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")

	// Persistence errors.
	ErrDecodeFailed = errors.New("persisted data malformed")
	ErrNoBackup     = errors.New("no backup found")

	// Authentication errors.
	ErrInvalidPIN = errors.New("invalid PIN")
	ErrNoPINSet   = errors.New("no PIN configured")

	// Validation errors.
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidBudget      = errors.New("invalid budget")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrDuplicateName      = errors.New("category name already in use")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
