package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mangrove-registry/dto"
	"github.com/mangrove-registry/services"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID = "userId"
	ContextRole   = "role"
	ContextEmail  = "email"
)

// AccessTokenCookie is the cookie set by the login endpoint
const AccessTokenCookie = "access_token"

// Authenticator verifies an identity token against the user store
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*dto.TokenClaims, error)
}

// AuthMiddleware authenticates requests with a bearer token or the
// access_token cookie and stores the user id and role in the context.
// Tokens of deleted users are rejected.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(AccessTokenCookie)
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		var storage *services.StorageError
		if errors.As(err, &storage) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to verify token",
			})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, string(claims.Role))
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
