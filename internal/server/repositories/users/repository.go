// Package users provides the account store used by the authentication
// service, with PostgreSQL and in-memory implementations.
package users

import (
	"context"

	"github.com/quotevote/authkeeper/internal/server/models"
)

// Repository is the account store contract.
//
// Create must enforce username and email uniqueness atomically and report a
// violation as common.ErrDuplicateAccount; callers rely on that rather than
// on a prior lookup. Lookups report a missing account as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByLogin matches identifier against the username, or the email
	// case-insensitively. A username match wins.
	GetByLogin(ctx context.Context, identifier string) (*models.User, error)
}
