// Package models holds the account types shared by the store, the token
// codec, and the authentication service.
package models

import "time"

// AccountStatus is the lifecycle state of an account as kept by the store.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusDisabled AccountStatus = "disabled"
)

// User is the store record. PasswordHash is empty for guest accounts and
// Email is empty when the account has none.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	DisplayName  string
	IsAdmin      bool
	Status       AccountStatus
	IsGuest      bool
	CreatedAt    time.Time
}

// Account is the public-safe projection of a User: everything but the hash.
type Account struct {
	ID          string        `json:"id"`
	UserName    string        `json:"username"`
	Email       string        `json:"email,omitempty"`
	DisplayName string        `json:"displayName"`
	IsAdmin     bool          `json:"isAdmin"`
	Status      AccountStatus `json:"accountStatus"`
	IsGuest     bool          `json:"isGuest"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Account returns the public projection of u.
func (u *User) Account() *Account {
	return &Account{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsAdmin:     u.IsAdmin,
		Status:      u.Status,
		IsGuest:     u.IsGuest,
		CreatedAt:   u.CreatedAt,
	}
}

// Disabled reports whether the account may no longer obtain tokens.
func (u *User) Disabled() bool {
	return u.Status == StatusDisabled
}
