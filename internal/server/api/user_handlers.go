package api

import (
	"net/http"

	"github.com/akash0382/ApniSec/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) getProfile(c *gin.Context) {
	user, err := s.users.GetProfile(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, newProfileView(user, true), "")
}

func (s *Server) updateProfile(c *gin.Context) {
	var in services.UpdateProfileInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	user, err := s.users.UpdateProfile(c.Request.Context(), userID(c), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, newProfileView(user, false), "Profile updated successfully")
}
