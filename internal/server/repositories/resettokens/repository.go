// Package resettokens stores single-use password-reset tokens.
package resettokens

import (
	"context"
	"time"

	"github.com/akash0382/ApniSec/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error
	// Consume atomically deletes and returns the token row, so a token can be
	// redeemed at most once. Unknown tokens yield common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.PasswordResetToken, error)
}
