package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/task-manager/internal/domain"
	applog "github.com/tazhibayda/task-manager/internal/log"
	"go.uber.org/zap"
)

const (
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeLoginFailed   = "INVALID_CREDENTIALS"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeNotFound      = "NOT_FOUND"
	CodeTooMany       = "RATE_LIMITED"
	CodeInternalError = "INTERNAL_ERROR"
	CodeUnavailable   = "SERVICE_UNAVAILABLE"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

func abort(c *gin.Context, status int, code, msg string, details any) {
	c.AbortWithStatusJSON(status, &APIError{Code: code, Message: msg, Details: details})
}

// fail maps a domain error to its response. Anything unrecognised is logged and
// answered with a bare 500.
func fail(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		abort(c, http.StatusBadRequest, CodeInvalidInput, "invalid request", ve.Fields)
	case errors.Is(err, domain.ErrAuthentication):
		abort(c, http.StatusBadRequest, CodeLoginFailed, domain.ErrAuthentication.Error(), nil)
	case errors.Is(err, domain.ErrInvalidToken):
		abort(c, http.StatusUnauthorized, CodeUnauthorized, "Please authenticate", nil)
	case errors.Is(err, domain.ErrUnsupportedImage):
		abort(c, http.StatusBadRequest, CodeInvalidInput, domain.ErrUnsupportedImage.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		abort(c, http.StatusNotFound, CodeNotFound, "not found", nil)
	default:
		applog.WithDD(c.Request.Context(), applog.L()).Error("request failed",
			zap.String("route", c.FullPath()), zap.Error(err))
		abort(c, http.StatusInternalServerError, CodeInternalError, "internal server error", nil)
	}
}
