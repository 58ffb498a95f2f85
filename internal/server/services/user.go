package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/server/models"
	"github.com/akash0382/ApniSec/internal/server/notify"
	"github.com/akash0382/ApniSec/internal/server/repositories/repomanager"
	"github.com/akash0382/ApniSec/internal/validation"
)

const MsgEmailInUse = "Email already in use"

type UpdateProfileInput struct {
	Name  *string `json:"name" validate:"omitnil,min=1"`
	Email *string `json:"email" validate:"omitnil,email"`
}

// UserService reads and edits the caller's own profile.
type UserService struct {
	repos     repomanager.RepositoryManager
	notifier  notify.Notifier
	validator *validation.Validator
}

func NewUserService(repos repomanager.RepositoryManager, notifier notify.Notifier, v *validation.Validator) *UserService {
	return &UserService{repos: repos, notifier: notifier, validator: v}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(MsgUserNotFound)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes name and/or email. Moving to an email owned by
// another account is a conflict.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	repo := s.repos.Users()
	if in.Email != nil {
		other, err := repo.GetByEmail(ctx, *in.Email)
		switch {
		case err == nil && other.ID != userID:
			return nil, common.NewConflictError(MsgEmailInUse)
		case err != nil && !errors.Is(err, common.ErrorNotFound):
			return nil, fmt.Errorf("error searching user: %w", err)
		}
	}

	user, err := repo.Update(ctx, userID, models.UserUpdate{Name: in.Name, Email: in.Email})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.NewNotFoundError(MsgUserNotFound)
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, common.NewConflictError(MsgEmailInUse)
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	s.notifier.Notify(ctx, notify.Notification{Kind: notify.KindProfileUpdated, To: user.Email, Name: user.DisplayName()})
	return user, nil
}
