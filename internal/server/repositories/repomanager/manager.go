// Package repomanager opens the account store the server runs on:
// PostgreSQL when a DSN is configured, process memory otherwise.
package repomanager

import (
	"context"

	"github.com/quotevote/authkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// New returns a PostgreSQL manager for a non-empty dsn, with migrations
// applied, or an in-memory manager for an empty one.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(ctx, dsn)
}
