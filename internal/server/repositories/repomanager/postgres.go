package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/quotevote/authkeeper/internal/dbx"
	"github.com/quotevote/authkeeper/internal/server/migrations"
	"github.com/quotevote/authkeeper/internal/server/repositories/users"
)

// Test seams.
var (
	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		return dbx.Open(ctx, "pgx", dsn)
	}
	runMigrations = migrations.Up
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories over one
// connection pool.
type PostgresRepositoryManager struct {
	db    *sql.DB
	users *users.PostgresRepository
}

// NewPostgresRepositoryManager connects to dsn and brings the schema up to
// date before returning.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := openDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &PostgresRepositoryManager{db: db, users: users.NewPostgresRepository(db)}, nil
}

func (m *PostgresRepositoryManager) Users() users.Repository { return m.users }

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
