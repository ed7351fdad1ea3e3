package response

import (
	"ctchen222/pokedex/internal/apperr"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorExtras is the extras object of an error envelope.
type ErrorExtras struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuth:
		return http.StatusForbidden
	case apperr.KindStorage:
		return http.StatusBadGateway
	case apperr.KindPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error translates err into the error envelope. Faults keep their cause out
// of the body; it is logged instead.
func Error(c *gin.Context, err error) {
	ErrorWithStatus(c, StatusFor(apperr.KindOf(err)), err)
}

// ErrorWithStatus is Error with an explicit status.
func ErrorWithStatus(c *gin.Context, status int, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		slog.ErrorContext(c.Request.Context(), "Unhandled error", "error", err, "path", c.FullPath())
		ErrorResponse(c, status, http.StatusText(status))
		return
	}

	extras := ErrorExtras{
		Message: appErr.Message,
		Kind:    appErr.Kind.String(),
		Field:   appErr.Field,
	}
	switch appErr.Kind {
	case apperr.KindStorage, apperr.KindPersistence:
		slog.ErrorContext(c.Request.Context(), "Request failed", "kind", extras.Kind, "error", err, "path", c.FullPath())
	}
	if extras.Message == "" {
		extras.Message = extras.Kind
	}

	c.AbortWithStatusJSON(status, NewResponse(false, status, extras))
}
