// Package issues stores security findings. Every issue belongs to exactly
// one user.
package issues

import (
	"context"

	"github.com/akash0382/ApniSec/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, issue *models.Issue) (*models.Issue, error)
	FindByID(ctx context.Context, id string) (*models.Issue, error)
	// ListByUser returns the user's issues, newest first, optionally only
	// those of issueType.
	ListByUser(ctx context.Context, userID string, issueType *models.IssueType) ([]*models.Issue, error)
	Update(ctx context.Context, id string, upd models.IssueUpdate) (*models.Issue, error)
	Delete(ctx context.Context, id string) error
	IsOwner(ctx context.Context, id string, userID string) (bool, error)
	SetEvidenceKey(ctx context.Context, id string, key string) error
}
