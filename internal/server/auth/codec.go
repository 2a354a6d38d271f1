package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quotevote/authkeeper/internal/common"
	"github.com/quotevote/authkeeper/internal/server/models"
)

// Codec signs claims into HS256 JWTs with a single process-wide secret.
// Output depends only on the account, the clock, and the secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec fails with common.ErrMisconfiguredSigningKey when secret is empty.
// That error is meant to abort startup.
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if err := checkSecret(secret); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Codec{secret: secret, now: o.now}, nil
}

// IssueAccess returns an access token valid for common.AccessTokenTTL.
func (c *Codec) IssueAccess(a *models.Account) (string, error) {
	now := c.now()
	return c.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(common.AccessTokenTTL)),
		},
		Username: a.UserName,
		Email:    a.Email,
		IsAdmin:  a.IsAdmin,
	})
}

// IssueRefresh returns a refresh token valid for common.RefreshTokenTTL.
func (c *Codec) IssueRefresh(a *models.Account) (string, error) {
	now := c.now()
	return c.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(common.RefreshTokenTTL)),
		},
		Username:  a.UserName,
		Email:     a.Email,
		TokenType: common.RefreshTokenType,
	})
}

// IssuePair mints both tokens for a.
func (c *Codec) IssuePair(a *models.Account) (*TokenPair, error) {
	access, err := c.IssueAccess(a)
	if err != nil {
		return nil, err
	}
	refresh, err := c.IssueRefresh(a)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (c *Codec) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}
