// Package auth mints and verifies the signed, expiring tokens handed out by
// the authentication service. Access and refresh tokens share one claims
// shape and are told apart by the tokenType claim.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/quotevote/authkeeper/internal/common"
)

// Claims is the payload of both token kinds. Subject holds the account id.
// Refresh tokens set TokenType to common.RefreshTokenType and omit IsAdmin;
// access tokens leave TokenType empty.
type Claims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
	TokenType string `json:"tokenType,omitempty"`
}

// AccountID returns the subject of the token.
func (c *Claims) AccountID() string {
	return c.Subject
}

// IsRefresh reports whether the claims belong to a refresh token.
func (c *Claims) IsRefresh() bool {
	return c.TokenType == common.RefreshTokenType
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
