package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/logging"
	"github.com/akash0382/ApniSec/internal/server/auth"
	"github.com/akash0382/ApniSec/internal/server/config"
	"github.com/akash0382/ApniSec/internal/server/notify"
	"github.com/akash0382/ApniSec/internal/server/repositories/repomanager"
	"github.com/akash0382/ApniSec/internal/validation"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeNotifier struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n notify.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, n)
}

func (f *fakeNotifier) kinds() []notify.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Kind, 0, len(f.got))
	for _, n := range f.got {
		out = append(out, n.Kind)
	}
	return out
}

func (f *fakeNotifier) last() notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.got[len(f.got)-1]
}

func (f *fakeNotifier) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = nil
}

type fakeStore struct {
	putKey string
	putURL string
	putErr error

	getOut string
	getErr error
	gotKey string
}

func (f *fakeStore) PresignPut(ctx context.Context) (string, string, error) {
	if f.putErr != nil {
		return "", "", f.putErr
	}
	return f.putKey, f.putURL, nil
}

func (f *fakeStore) PresignGet(ctx context.Context, key string) (string, error) {
	f.gotKey = key
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.getOut, nil
}

type fixture struct {
	repos    *repomanager.InMemoryRepositoryManager
	notifier *fakeNotifier
	tokens   *auth.TokenService
	store    *fakeStore
	auth     *AuthService
	users    *UserService
	issues   *IssueService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		AppURL:                     "http://app.test/",
		ResetTokenValidityDuration: 30 * time.Minute,
	}
	f := &fixture{
		repos:    repomanager.NewInMemoryRepositoryManager(),
		notifier: &fakeNotifier{},
		tokens:   auth.NewTokenService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour),
		store:    &fakeStore{putKey: "issues/2025/1/2/k", putURL: "https://put.example/k", getOut: "https://get.example/k"},
	}
	v := validation.New()
	f.auth = NewAuthService(f.repos, f.tokens, auth.NewBcryptHasher(bcrypt.MinCost), f.notifier, v, cfg, nopLogger{})
	f.users = NewUserService(f.repos, f.notifier, v)
	f.issues = NewIssueService(f.repos, f.notifier, f.store, v, nopLogger{})
	return f
}

// register creates an account and clears the notifications it produced.
func (f *fixture) register(t *testing.T, email string) *Session {
	t.Helper()
	s, err := f.auth.Register(context.Background(), RegisterInput{Email: email, Password: "secret1"})
	require.NoError(t, err)
	f.notifier.reset()
	return s
}

func requireKind(t *testing.T, err error, kind error, msg string) *common.Error {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "want %v, got %v", kind, err)
	e, ok := common.AsError(err)
	require.True(t, ok)
	if msg != "" {
		require.Equal(t, msg, e.Message)
	}
	return e
}
