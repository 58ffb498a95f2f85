package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	MsgRateLimited = "Rate limit exceeded. Please try again later."

	identifierContextKey = "rateLimitIdentifier"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client", c.GetString(identifierContextKey),
		)
	}
}

// rateLimit counts every request against the caller's identifier and
// rejects it with 429 once the window's budget is spent. The quota headers
// are set on every response.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := s.guard.Identifier(c.Request)
		c.Set(identifierContextKey, id)

		res := s.limiter.Check(id)
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.UnixMilli(), 10))

		if !res.Allowed {
			retry := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
			if retry < 0 {
				retry = 0
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, envelope{Error: MsgRateLimited})
			return
		}
		c.Next()
	}
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := s.guard.RequireAuth(c.Request)
		if err != nil {
			s.fail(c, err)
			c.Abort()
			return
		}
		c.Set(common.UserIDContextKey, p.UserID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(common.UserIDContextKey)
}
