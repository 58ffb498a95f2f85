package resettokens

import (
	"context"
	"sync"
	"time"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]models.PasswordResetToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]models.PasswordResetToken)}
}

func (r *MemoryRepository) Create(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token]; ok {
		return common.ErrorAlreadyExists
	}
	r.tokens[token] = models.PasswordResetToken{Token: token, UserID: userID, ExpiresAt: expiresAt, CreatedAt: time.Now().UTC()}
	return nil
}

func (r *MemoryRepository) Consume(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.tokens, token)
	return &t, nil
}
