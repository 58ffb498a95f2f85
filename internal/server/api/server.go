// Package api exposes the JSON HTTP interface of the server.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akash0382/ApniSec/internal/logging"
	"github.com/akash0382/ApniSec/internal/server/config"
	"github.com/akash0382/ApniSec/internal/server/guard"
	"github.com/akash0382/ApniSec/internal/server/models"
	"github.com/akash0382/ApniSec/internal/server/ratelimit"
	"github.com/akash0382/ApniSec/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.Session, error)
	Login(ctx context.Context, in services.LoginInput) (*services.Session, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*services.Session, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	RequestPasswordReset(ctx context.Context, in services.RequestResetInput) error
	ResetPassword(ctx context.Context, in services.ResetPasswordInput) error
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, in services.UpdateProfileInput) (*models.User, error)
}

type IssueService interface {
	List(ctx context.Context, userID string, issueType string) ([]*models.Issue, error)
	Get(ctx context.Context, id, userID string) (*models.Issue, error)
	Create(ctx context.Context, userID string, in services.CreateIssueInput) (*models.Issue, error)
	Update(ctx context.Context, id, userID string, in services.UpdateIssueInput) (*models.Issue, error)
	Delete(ctx context.Context, id, userID string) error
	CreateEvidenceUpload(ctx context.Context, id, userID string) (*services.EvidenceUpload, error)
	EvidenceDownloadURL(ctx context.Context, id, userID string) (string, error)
}

type RateLimiter interface {
	Check(identifier string) ratelimit.Result
}

// Deps are the collaborators the handlers delegate to.
type Deps struct {
	Auth    AuthService
	Users   UserService
	Issues  IssueService
	Guard   *guard.Guard
	Limiter RateLimiter
}

type Server struct {
	address        string
	logger         logging.Logger
	auth           AuthService
	users          UserService
	issues         IssueService
	guard          *guard.Guard
	limiter        RateLimiter
	secureCookies  bool
	accessMaxAge   int
	refreshMaxAge  int
	allowedOrigins []string
	engine         *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, deps Deps) *Server {
	s := &Server{
		address:        cfg.HTTPAddr,
		logger:         l.With("module", "http_server"),
		auth:           deps.Auth,
		users:          deps.Users,
		issues:         deps.Issues,
		guard:          deps.Guard,
		limiter:        deps.Limiter,
		secureCookies:  cfg.SecureCookies(),
		accessMaxAge:   int(cfg.AccessTokenValidityDuration / time.Second),
		refreshMaxAge:  int(cfg.RefreshTokenValidityDuration / time.Second),
		allowedOrigins: cfg.CORSAllowedOrigins,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
