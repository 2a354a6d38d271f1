// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Store failures (timeouts, driver errors). Never an authentication outcome.
	ErrStore = errors.New("store error")

	// Input errors.
	ErrValidation   = errors.New("validation error")
	ErrInvalidInput = errors.New("invalid input")

	// Account errors.
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")

	// Token errors. Signature and structure failures both match ErrInvalidToken.
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenSignatureInvalid = fmt.Errorf("%w: signature is invalid", ErrInvalidToken)
	ErrTokenMalformed        = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenExpired          = errors.New("token expired")
	ErrWrongTokenType        = errors.New("wrong token type")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")

	// Startup errors.
	ErrMisconfiguredSigningKey = errors.New("signing key is not configured")
)

// ValidationError lists the request fields that are missing or malformed.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError returns nil when no fields are given.
func NewValidationError(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// StoreError marks err as an infrastructure failure of the account store.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
