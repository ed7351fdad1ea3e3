package controller

import (
	"ctchen222/pokedex/internal/api/response"
	"ctchen222/pokedex/internal/apperr"
	"ctchen222/pokedex/internal/validator"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// bindingError reports a request that could not be bound to its schema as 422.
func bindingError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, apperr.Validation("", "request body exceeds %d bytes", tooLarge.Limit))
		return
	}

	if fe, ok := validator.FirstError(err); ok {
		response.Error(c, apperr.Validation(fe.Field, "%s", fe.Message))
		return
	}

	response.Error(c, apperr.Validation("", "malformed request: %v", err))
}
