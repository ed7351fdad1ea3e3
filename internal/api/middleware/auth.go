package middleware

import (
	"ctchen222/pokedex/internal/api/response"
	"ctchen222/pokedex/internal/auth"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const usernameKey = "auth.username"

// BearerAuth rejects requests without a valid "Authorization: Bearer <token>"
// header with 403 and stores the token subject for handlers.
func BearerAuth(tokens auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			response.ErrorResponse(c, http.StatusForbidden, "not authenticated")
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(usernameKey, claims.Subject)
		c.Next()
	}
}

// Username returns the authenticated username set by BearerAuth.
func Username(c *gin.Context) string {
	return c.GetString(usernameKey)
}
