package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(s.corsConfig()))
	r.Use(s.rateLimit())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Error: "Not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, envelope{Error: "Method not allowed"})
	})

	r.GET("/health", s.health)

	a := r.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.POST("/logout", s.logout)
	a.POST("/refresh", s.refresh)
	a.POST("/request-reset", s.requestReset)
	a.POST("/reset-password", s.resetPassword)
	a.GET("/me", s.requireAuth(), s.me)

	i := r.Group("/issues", s.requireAuth())
	i.GET("", s.listIssues)
	i.POST("", s.createIssue)
	i.GET("/:id", s.getIssue)
	i.PUT("/:id", s.updateIssue)
	i.DELETE("/:id", s.deleteIssue)
	i.POST("/:id/evidence", s.createEvidence)
	i.GET("/:id/evidence", s.getEvidence)

	u := r.Group("/users", s.requireAuth())
	u.GET("/profile", s.getProfile)
	u.PUT("/profile", s.updateProfile)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: gin.H{"status": "ok"}})
}

// corsConfig allows credentialed requests from the configured origins only.
// With no origins configured cross-origin requests are refused.
func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.allowedOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	} else {
		cfg.AllowOrigins = s.allowedOrigins
	}
	return cfg
}
