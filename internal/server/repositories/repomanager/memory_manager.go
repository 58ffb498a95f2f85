package repomanager

import (
	"context"
	"sync"

	"github.com/akash0382/ApniSec/internal/server/repositories/issues"
	"github.com/akash0382/ApniSec/internal/server/repositories/refreshtokens"
	"github.com/akash0382/ApniSec/internal/server/repositories/resettokens"
	"github.com/akash0382/ApniSec/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps all state in process memory. WithTx
// serializes transactional blocks against each other but cannot roll back:
// each repository call is applied as it happens.
type InMemoryRepositoryManager struct {
	txMu          sync.Mutex
	users         *users.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
	resetTokens   *resettokens.MemoryRepository
	issues        *issues.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
		resetTokens:   resettokens.NewMemoryRepository(),
		issues:        issues.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) ResetTokens() resettokens.Repository {
	return m.resetTokens
}

func (m *InMemoryRepositoryManager) Issues() issues.Repository {
	return m.issues
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
