// Package users stores user accounts.
package users

import (
	"context"

	"github.com/akash0382/ApniSec/internal/server/models"
)

// Repository persists users. Lookups of absent users return
// common.ErrorNotFound; a duplicate email returns common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
