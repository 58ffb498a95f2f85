package api

import (
	"errors"
	"net/http"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/gin-gonic/gin"
)

const msgInternal = "Internal server error"

// envelope is the body of every response.
type envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

// fail writes err as a classified error response. Unclassified errors are
// logged and reported as a generic 500.
func (s *Server) fail(c *gin.Context, err error) {
	e, ok := common.AsError(err)
	if !ok {
		s.logger.Error(c.Request.Context(), "request failed", "method", c.Request.Method,
			"path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, envelope{Error: msgInternal})
		return
	}
	c.JSON(statusFor(e), envelope{Error: e.Message, Details: e.Details})
}

func statusFor(e *common.Error) int {
	switch {
	case errors.Is(e, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(e, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(e, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(e, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(e, common.ErrorConflict):
		return http.StatusConflict
	case errors.Is(e, common.ErrorUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// bind decodes the JSON body into dst; a malformed body is a validation
// failure.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return common.NewValidationError("Invalid request body", nil)
	}
	return nil
}
