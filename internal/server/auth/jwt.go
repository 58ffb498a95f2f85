// Package auth issues and verifies the signed session tokens and hashes
// user passwords.
package auth

import (
	"fmt"
	"time"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// Payload is the identity embedded in both token kinds.
type Payload struct {
	UserID string
	Email  string
}

// Claims combines the registered claims with the user identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenService mints and verifies access and refresh tokens. Each kind has
// its own secret and lifetime and is bound to its own audience, so a token
// of one kind never verifies as the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// RefreshTTL is the lifetime given to refresh tokens; stored rows use it too.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) IssueAccess(p Payload) (string, error) {
	return s.issue(p, s.accessSecret, s.accessTTL, audienceAccess)
}

func (s *TokenService) IssueRefresh(p Payload) (string, error) {
	return s.issue(p, s.refreshSecret, s.refreshTTL, audienceRefresh)
}

func (s *TokenService) VerifyAccess(token string) (*Payload, error) {
	return s.verify(token, s.accessSecret, audienceAccess)
}

func (s *TokenService) VerifyRefresh(token string) (*Payload, error) {
	return s.verify(token, s.refreshSecret, audienceRefresh)
}

func (s *TokenService) issue(p Payload, secret []byte, ttl time.Duration, audience string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.UserID,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: p.UserID,
		Email:  p.Email,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *TokenService) verify(tokenString string, secret []byte, audience string) (*Payload, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return &Payload{UserID: claims.UserID, Email: claims.Email}, nil
}
