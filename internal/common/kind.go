package common

import (
	"errors"
	"net/http"
)

// Error kinds reported by Kind. The set is closed.
const (
	KindOK                  = "ok"
	KindValidation          = "validation"
	KindDuplicateAccount    = "duplicate_account"
	KindInvalidCredentials  = "invalid_credentials"
	KindTokenExpired        = "token_expired"
	KindInvalidToken        = "invalid_token"
	KindWrongTokenType      = "wrong_token_type"
	KindInvalidRefreshToken = "invalid_refresh_token"
	KindAccountDisabled     = "account_disabled"
	KindStore               = "store"
	KindInternal            = "internal"
)

// Kind collapses err into one of the Kind* labels. Order matters: a refresh
// failure wraps its cause, so ErrInvalidRefreshToken is checked before the
// token-level errors.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrDuplicateAccount):
		return KindDuplicateAccount
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrAccountDisabled):
		return KindAccountDisabled
	case errors.Is(err, ErrInvalidRefreshToken):
		return KindInvalidRefreshToken
	case errors.Is(err, ErrTokenExpired):
		return KindTokenExpired
	case errors.Is(err, ErrWrongTokenType):
		return KindWrongTokenType
	case errors.Is(err, ErrInvalidToken):
		return KindInvalidToken
	case errors.Is(err, ErrStore):
		return KindStore
	default:
		return KindInternal
	}
}

// HTTPStatus returns the HTTP status equivalent of err for callers exposing
// the service over HTTP.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case KindOK:
		return http.StatusOK
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicateAccount:
		return http.StatusConflict
	case KindInvalidCredentials, KindTokenExpired, KindInvalidToken,
		KindWrongTokenType, KindInvalidRefreshToken, KindAccountDisabled:
		return http.StatusUnauthorized
	case KindStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
