package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quotevote/authkeeper/internal/common"
)

// Verifier decodes tokens minted by Codec and classifies failures.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret []byte, opts ...Option) (*Verifier, error) {
	if err := checkSecret(secret); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Verifier{
		secret: secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(o.now),
		),
	}, nil
}

// Verify strips an optional "Bearer " prefix, checks the signature, then the
// expiry, and returns the claims of either token kind.
//
// Failures:
//   - common.ErrTokenSignatureInvalid: wrong key or disallowed algorithm.
//   - common.ErrTokenExpired: signature fine, exp in the past.
//   - common.ErrTokenMalformed: anything that is not a well-formed token.
//
// The signature is checked before expiry, so a forged token never reports
// ErrTokenExpired.
func (v *Verifier) Verify(bearer string) (*Claims, error) {
	raw := StripBearer(bearer)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", common.ErrTokenMalformed)
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, common.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, common.ErrTokenExpired
	default:
		return nil, fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrTokenMalformed)
	}
	return claims, nil
}

// VerifyAccess is Verify restricted to access tokens.
func (v *Verifier) VerifyAccess(bearer string) (*Claims, error) {
	claims, err := v.Verify(bearer)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "" {
		return nil, common.ErrWrongTokenType
	}
	return claims, nil
}

// VerifyRefresh is Verify restricted to refresh tokens. A missing or
// different tokenType fails with common.ErrWrongTokenType.
func (v *Verifier) VerifyRefresh(token string) (*Claims, error) {
	claims, err := v.Verify(token)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefresh() {
		return nil, common.ErrWrongTokenType
	}
	return claims, nil
}

// StripBearer removes a case-insensitive "Bearer " prefix and surrounding
// whitespace.
func StripBearer(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= len(common.BearerPrefix) && strings.EqualFold(v[:len(common.BearerPrefix)], common.BearerPrefix) {
		v = strings.TrimSpace(v[len(common.BearerPrefix):])
	}
	return v
}

// ExpiresIn returns the remaining lifetime of claims relative to now.
func ExpiresIn(c *Claims, now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
