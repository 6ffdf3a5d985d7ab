// Package usecase implements the business logic for the user feature.
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPassword is returned when the password does not match the stored hash.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrNotVerified is returned by Authenticate when email verification is
	// enforced and the account has not been verified.
	ErrNotVerified = errors.New("email address is not verified")

	// ErrStoreUnavailable wraps connection and driver failures of the store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrStoreTimeout is returned when a store call exceeds its deadline.
	// It is retryable and distinct from ErrUserNotFound.
	ErrStoreTimeout = errors.New("store timeout")

	// ErrNoFields is returned when an update carries no fields.
	ErrNoFields = errors.New("no fields to update")
)

// MissingFieldError is returned when a required input is empty.
type MissingFieldError struct {
	Field   string
	Message string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %s", e.Field)
}

// DuplicateKeyError is returned by the store when a unique field is already taken.
// Field is empty when the driver does not report which index was violated.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return "duplicate key"
	}
	return fmt.Sprintf("duplicate key on %s", e.Field)
}

// ImmutableFieldError is returned when an update names a field outside the allow-list.
type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("field %s cannot be updated", e.Field)
}
