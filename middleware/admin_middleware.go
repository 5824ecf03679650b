package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/mangrove-registry/models"
)

// RequireRole creates a middleware that ensures the user has one of the
// given roles. It must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok || !slices.Contains(roles, models.Role(roleStr)) {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Insufficient privileges",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminMiddleware ensures the user has the admin role
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// VerifierMiddleware ensures the user may approve or reject projects
func VerifierMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleVerifier, models.RoleAdmin)
}
