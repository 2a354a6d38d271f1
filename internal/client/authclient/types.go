// Package authclient is the gRPC client for the authentication service.
package authclient

import "time"

// Account mirrors the public account projection returned by the server.
type Account struct {
	ID          string    `json:"id"`
	UserName    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName"`
	IsAdmin     bool      `json:"isAdmin"`
	Status      string    `json:"accountStatus"`
	IsGuest     bool      `json:"isGuest"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Tokens is an access/refresh token pair.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is what login and guest creation return.
type Session struct {
	Account *Account `json:"account"`
	Tokens
}

// TokenInfo is the decoded payload of a verified access token.
type TokenInfo struct {
	Subject   string `json:"sub"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Expires returns the expiry as a time.
func (t *TokenInfo) Expires() time.Time {
	return time.Unix(t.ExpiresAt, 0)
}

// RegisterRequest carries the registration fields.
type RegisterRequest struct {
	Name     string
	Email    string
	Username string
	Password string
}
