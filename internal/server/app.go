// Package server wires the ApniSec API together and runs it until the
// process is told to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akash0382/ApniSec/internal/logging"
	"github.com/akash0382/ApniSec/internal/server/api"
	"github.com/akash0382/ApniSec/internal/server/auth"
	"github.com/akash0382/ApniSec/internal/server/config"
	"github.com/akash0382/ApniSec/internal/server/guard"
	"github.com/akash0382/ApniSec/internal/server/notify"
	"github.com/akash0382/ApniSec/internal/server/ratelimit"
	"github.com/akash0382/ApniSec/internal/server/repositories/repomanager"
	"github.com/akash0382/ApniSec/internal/server/services"
	"github.com/akash0382/ApniSec/internal/server/storage"
	"github.com/akash0382/ApniSec/internal/validation"
	"github.com/gin-gonic/gin"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      repomanager.RepositoryManager
	dispatcher *notify.Dispatcher
	httpServer *api.Server
}

// NewApp opens storage, applies migrations and builds the HTTP server.
// An empty DSN selects the in-memory store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.Environment, os.Stdout)

	var repos repomanager.RepositoryManager
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "DATABASE_URL not set, using in-memory storage")
		repos = repomanager.NewInMemoryRepositoryManager()
	} else {
		pg, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repos = pg
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var sender notify.Sender
	if c.MailEnabled() {
		sender = notify.NewSMTPSender(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, c.SMTPFrom)
	} else {
		logger.Warn(ctx, "SMTP configuration is missing, emails will not be sent")
		sender = notify.NewLogSender(logger.With("module", "mailer"))
	}
	dispatcher := notify.NewDispatcher(sender, logger.With("module", "notify"), notify.DefaultQueueSize, notify.DefaultWorkers)

	tokens := auth.NewTokenService(c.AccessTokenSecret, c.RefreshTokenSecret,
		c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	hasher := auth.NewBcryptHasher(c.PasswordHashCost)
	v := validation.New()

	var evidence services.EvidenceStore
	if c.StorageEnabled() {
		evidence = storage.NewS3Presigner(c)
	} else {
		logger.Warn(ctx, "S3 configuration is missing, evidence uploads are disabled")
	}

	if c.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpServer := api.NewServer(c, logger, api.Deps{
		Auth:    services.NewAuthService(repos, tokens, hasher, dispatcher, v, c, logger.With("module", "auth")),
		Users:   services.NewUserService(repos, dispatcher, v),
		Issues:  services.NewIssueService(repos, dispatcher, evidence, v, logger.With("module", "issues")),
		Guard:   guard.New(tokens),
		Limiter: ratelimit.New(c.RateLimitMaxRequests, c.RateLimitWindow),
	})

	return &App{config: c, logger: logger, repos: repos, dispatcher: dispatcher, httpServer: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives or the server fails, then drains
// pending notifications and closes storage.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.dispatcher.Close()
	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
