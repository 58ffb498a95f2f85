package api

import (
	"net/http"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/server/services"
	"github.com/gin-gonic/gin"
)

const msgResetRequested = "If the email exists, a link was sent"

func (s *Server) register(c *gin.Context) {
	var in services.RegisterInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	session, err := s.auth.Register(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.setSessionCookies(c, session)
	respond(c, http.StatusCreated, newSessionView(session), "User registered successfully")
}

func (s *Server) login(c *gin.Context) {
	var in services.LoginInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	session, err := s.auth.Login(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.setSessionCookies(c, session)
	respond(c, http.StatusOK, newSessionView(session), "Login successful")
}

func (s *Server) logout(c *gin.Context) {
	token, _ := c.Cookie(common.RefreshTokenCookieName)
	if err := s.auth.Logout(c.Request.Context(), token); err != nil {
		s.fail(c, err)
		return
	}

	s.clearSessionCookies(c)
	respond(c, http.StatusOK, nil, "Logout successful")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refresh takes the refresh token from the JSON body, falling back to the
// refresh cookie.
func (s *Server) refresh(c *gin.Context) {
	var in refreshRequest
	if c.Request.ContentLength != 0 {
		if err := bind(c, &in); err != nil {
			s.fail(c, err)
			return
		}
	}
	if in.RefreshToken == "" {
		in.RefreshToken, _ = c.Cookie(common.RefreshTokenCookieName)
	}

	session, err := s.auth.Refresh(c.Request.Context(), in.RefreshToken)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.setSessionCookies(c, session)
	respond(c, http.StatusOK, newSessionView(session), "Token refreshed")
}

func (s *Server) me(c *gin.Context) {
	user, err := s.auth.CurrentUser(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, newUserView(user), "")
}

func (s *Server) requestReset(c *gin.Context) {
	var in services.RequestResetInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	if err := s.auth.RequestPasswordReset(c.Request.Context(), in); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, msgResetRequested)
}

func (s *Server) resetPassword(c *gin.Context) {
	var in services.ResetPasswordInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	if err := s.auth.ResetPassword(c.Request.Context(), in); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Password reset successful")
}

func (s *Server) setSessionCookies(c *gin.Context, session *services.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenCookieName, session.AccessToken, s.accessMaxAge, "/", "", s.secureCookies, true)
	c.SetCookie(common.RefreshTokenCookieName, session.RefreshToken, s.refreshMaxAge, "/", "", s.secureCookies, true)
}

func (s *Server) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenCookieName, "", -1, "/", "", s.secureCookies, true)
	c.SetCookie(common.RefreshTokenCookieName, "", -1, "/", "", s.secureCookies, true)
}
