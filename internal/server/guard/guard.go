// Package guard resolves the caller of an HTTP request: its access token,
// its identity and the key it is rate limited under.
package guard

import (
	"net"
	"net/http"
	"strings"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/server/auth"
)

const MsgUnauthorized = "Unauthorized"

type TokenVerifier interface {
	VerifyAccess(token string) (*auth.Payload, error)
}

type Guard struct {
	tokens TokenVerifier
}

func New(tokens TokenVerifier) *Guard {
	return &Guard{tokens: tokens}
}

// ExtractToken reads the access token from the Authorization bearer header,
// falling back to the access-token cookie. It returns "" when neither is set.
func (g *Guard) ExtractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// TryAuthenticate returns the verified payload or nil. It never fails.
func (g *Guard) TryAuthenticate(r *http.Request) *auth.Payload {
	token := g.ExtractToken(r)
	if token == "" {
		return nil
	}
	p, err := g.tokens.VerifyAccess(token)
	if err != nil {
		return nil
	}
	return p
}

func (g *Guard) RequireAuth(r *http.Request) (*auth.Payload, error) {
	p := g.TryAuthenticate(r)
	if p == nil {
		return nil, common.NewAuthenticationError(MsgUnauthorized)
	}
	return p, nil
}

// Identifier is the rate-limit key for r: user:<id> for authenticated
// callers, ip:<address> otherwise.
func (g *Guard) Identifier(r *http.Request) string {
	if p := g.TryAuthenticate(r); p != nil {
		return "user:" + p.UserID
	}
	return "ip:" + ClientIP(r)
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
