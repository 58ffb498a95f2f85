package refreshtokens

import (
	"context"
	"time"

	"github.com/akash0382/ApniSec/internal/server/models"
)

// Repository persists refresh-token rows, one per login.
type Repository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error
	// Find returns common.ErrorNotFound for unknown tokens.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Consume deletes the row and returns it; only one caller can consume a
	// given token. Unknown tokens yield common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete is idempotent: deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
