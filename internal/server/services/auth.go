// Package services contains the server-side business logic. AuthService
// owns the session lifecycle: registration, login, logout, token refresh
// and password reset.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/logging"
	"github.com/akash0382/ApniSec/internal/server/auth"
	"github.com/akash0382/ApniSec/internal/server/config"
	"github.com/akash0382/ApniSec/internal/server/models"
	"github.com/akash0382/ApniSec/internal/server/notify"
	"github.com/akash0382/ApniSec/internal/server/repositories/repomanager"
	"github.com/akash0382/ApniSec/internal/validation"
)

const (
	MsgInvalidCredentials  = "Invalid email or password"
	MsgEmailTaken          = "User with this email already exists"
	MsgUserNotFound        = "User not found"
	MsgInvalidResetToken   = "Invalid or expired token"
	MsgInvalidRefreshToken = "Invalid or expired refresh token"

	resetTokenBytes = 32
)

type RegisterInput struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,maxbytes=72"`
	Name     *string `json:"name" validate:"omitnil,min=1"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RequestResetInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// Session is the outcome of a successful register, login or refresh.
type Session struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	repos     repomanager.RepositoryManager
	tokens    *auth.TokenService
	hasher    auth.PasswordHasher
	notifier  notify.Notifier
	validator *validation.Validator
	logger    logging.Logger
	appURL    string
	resetTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repos repomanager.RepositoryManager, tokens *auth.TokenService, hasher auth.PasswordHasher,
	notifier notify.Notifier, v *validation.Validator, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		repos:     repos,
		tokens:    tokens,
		hasher:    hasher,
		notifier:  notifier,
		validator: v,
		logger:    logger,
		appURL:    strings.TrimRight(cfg.AppURL, "/"),
		resetTTL:  cfg.ResetTokenValidityDuration,
		now:       time.Now,
	}
}

// Register creates the account and opens its first session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repos.Users().Create(ctx, &models.User{Email: in.Email, PasswordHash: hash, Name: in.Name})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewConflictError(MsgEmailTaken)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	session, err := s.openSession(ctx, s.repos, user)
	if err != nil {
		return nil, err
	}

	s.notifyUser(ctx, notify.KindWelcome, user)
	s.notifyUser(ctx, notify.KindLogin, user)
	return session, nil
}

// Login checks the credentials. Unknown email and wrong password fail with
// the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.repos.Users().GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewAuthenticationError(MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.notifyUser(ctx, notify.KindFailedLogin, user)
		return nil, common.NewAuthenticationError(MsgInvalidCredentials)
	}

	session, err := s.openSession(ctx, s.repos, user)
	if err != nil {
		return nil, err
	}

	s.notifyUser(ctx, notify.KindLogin, user)
	return session, nil
}

// Logout revokes refreshToken. Unknown or empty tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	repo := s.repos.RefreshTokens()
	row, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("error searching refresh token: %w", err)
	}

	if user, err := s.repos.Users().GetByID(ctx, row.UserID); err == nil {
		s.notifyUser(ctx, notify.KindLogout, user)
	} else {
		s.logger.Warn(ctx, "logout: owner lookup failed", "user_id", row.UserID, "error", err)
	}

	if err := repo.Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// Refresh rotates refreshToken: the stored row is consumed and replaced in
// one transaction, so a token can be exchanged only once. Expired rows are
// deleted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	invalid := common.NewAuthenticationError(MsgInvalidRefreshToken)
	if refreshToken == "" {
		return nil, invalid
	}

	payload, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, invalid
	}

	var session *Session
	rejected := false
	err = s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		row, err := repos.RefreshTokens().Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				rejected = true
				return nil
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}
		if row.ExpiresAt.Before(s.now()) || row.UserID != payload.UserID {
			rejected = true
			return nil
		}

		user, err := repos.Users().GetByID(ctx, row.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				rejected = true
				return nil
			}
			return fmt.Errorf("error searching user: %w", err)
		}

		session, err = s.openSession(ctx, repos, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rejected {
		return nil, invalid
	}
	return session, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(MsgUserNotFound)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// RequestPasswordReset mails a single-use reset link when the email belongs
// to an account. The outcome is the same whether or not it does.
func (s *AuthService) RequestPasswordReset(ctx context.Context, in RequestResetInput) error {
	if err := s.validator.Struct(in); err != nil {
		return err
	}

	user, err := s.repos.Users().GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("error searching user: %w", err)
	}

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.repos.ResetTokens().Create(ctx, user.ID, token, s.now().Add(s.resetTTL)); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	s.notifier.Notify(ctx, notify.Notification{
		Kind:      notify.KindPasswordReset,
		To:        user.Email,
		Name:      user.DisplayName(),
		ResetLink: s.appURL + "/reset/" + token,
	})
	return nil
}

// ResetPassword redeems a reset token. The token is consumed even when it
// turns out to be expired. A successful reset revokes every session of the
// user.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := s.validator.Struct(in); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var user *models.User
	rejected := false
	err = s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		rt, err := repos.ResetTokens().Consume(ctx, in.Token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				rejected = true
				return nil
			}
			return fmt.Errorf("error consuming reset token: %w", err)
		}
		if rt.Expired(s.now()) {
			rejected = true
			return nil
		}

		if err := repos.Users().UpdatePassword(ctx, rt.UserID, hash); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				rejected = true
				return nil
			}
			return fmt.Errorf("error updating password: %w", err)
		}
		if _, err := repos.RefreshTokens().DeleteByUser(ctx, rt.UserID); err != nil {
			return fmt.Errorf("error revoking sessions: %w", err)
		}

		user, err = repos.Users().GetByID(ctx, rt.UserID)
		if err != nil {
			return fmt.Errorf("error searching user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if rejected {
		return common.NewValidationError(MsgInvalidResetToken, nil)
	}

	s.notifyUser(ctx, notify.KindPasswordChanged, user)
	return nil
}

// openSession mints a token pair for user and stores the refresh token
// through repos, which may be bound to a transaction.
func (s *AuthService) openSession(ctx context.Context, repos repomanager.Repositories, user *models.User) (*Session, error) {
	p := auth.Payload{UserID: user.ID, Email: user.Email}

	access, err := s.tokens.IssueAccess(p)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(p)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	expiresAt := s.now().Add(s.tokens.RefreshTTL())
	if err := repos.RefreshTokens().Create(ctx, user.ID, refresh, expiresAt); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) notifyUser(ctx context.Context, kind notify.Kind, user *models.User) {
	s.notifier.Notify(ctx, notify.Notification{Kind: kind, To: user.Email, Name: user.DisplayName()})
}
