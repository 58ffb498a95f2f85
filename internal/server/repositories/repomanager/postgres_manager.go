package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akash0382/ApniSec/internal/dbx"
	"github.com/akash0382/ApniSec/internal/server/migrations"
	"github.com/akash0382/ApniSec/internal/server/repositories/issues"
	"github.com/akash0382/ApniSec/internal/server/repositories/refreshtokens"
	"github.com/akash0382/ApniSec/internal/server/repositories/resettokens"
	"github.com/akash0382/ApniSec/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories and owns
// the connection pool.
type PostgresRepositoryManager struct {
	db *sql.DB
	boundRepositories
}

// boundRepositories builds repositories over any DBTX, so the same code
// serves the pool and a transaction.
type boundRepositories struct {
	conn dbx.DBTX
}

func (b boundRepositories) Users() users.Repository {
	return users.NewPostgresRepository(b.conn)
}

func (b boundRepositories) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(b.conn)
}

func (b boundRepositories) ResetTokens() resettokens.Repository {
	return resettokens.NewPostgresRepository(b.conn)
}

func (b boundRepositories) Issues() issues.Repository {
	return issues.NewPostgresRepository(b.conn)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, boundRepositories{conn: tx})
	})
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// NewPostgresRepositoryManager wraps an open pool.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db, boundRepositories: boundRepositories{conn: db}}
}

// OpenPostgres opens a pgx pool for dsn and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return NewPostgresRepositoryManager(db), nil
}
