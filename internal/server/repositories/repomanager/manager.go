// Package repomanager vends the repositories for one storage backend and
// runs multi-repository work inside a transaction.
package repomanager

import (
	"context"

	"github.com/akash0382/ApniSec/internal/server/repositories/issues"
	"github.com/akash0382/ApniSec/internal/server/repositories/refreshtokens"
	"github.com/akash0382/ApniSec/internal/server/repositories/resettokens"
	"github.com/akash0382/ApniSec/internal/server/repositories/users"
)

// Repositories is the set of repositories bound to one connection or
// transaction.
type Repositories interface {
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	ResetTokens() resettokens.Repository
	Issues() issues.Repository
}

type RepositoryManager interface {
	Repositories
	RunMigrations(ctx context.Context) error
	// WithTx runs fn with repositories bound to a single transaction,
	// committing when fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Close() error
}
