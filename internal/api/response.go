package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/contenthub/internal/model"
)

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps an APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError aborts the request with status and an error envelope
// carrying err's message and a machine-readable code.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondOK writes payload as a 200 JSON response.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondDomainError maps typed domain errors onto status codes. Anything
// else is a 500 whose details stay in the log.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		RespondError(c, http.StatusBadRequest, "validation_error", err)
	case errors.Is(err, model.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, model.ErrConflict):
		RespondError(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, model.ErrConfig):
		RespondError(c, http.StatusServiceUnavailable, "not_configured", err)
	default:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
	}
}

// respondBindError reports a request body or query that failed to decode.
func respondBindError(c *gin.Context, err error) {
	RespondError(c, http.StatusBadRequest, "invalid_request", err)
}
